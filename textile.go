package doxs

import (
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-doxs/internal/textile"
)

// TextileOptions configures the Textile engine.
type TextileOptions struct {
	// NoBreaks keeps single newlines inside paragraphs instead of
	// emitting <br />.
	NoBreaks bool

	Options map[string]any
}

// TextilePhrase is an inline modifier: text wrapped in Delim renders as
// <Tag>. Delim is one to three punctuation characters.
type TextilePhrase struct {
	Delim string
	Tag   string
}

// TextileExtension contributes phrase modifiers to the Textile engine.
type TextileExtension interface {
	AddOn
	TextilePhrases() []TextilePhrase
}

// TextilePhrases is a TextileExtension listing its modifiers directly, as in
// TextilePhrases{{"??", "cite"}, {"%", "span"}}.
type TextilePhrases []TextilePhrase

func (TextilePhrases) Capability() Capability { return CapabilityTextile }

// TextilePhrases implements TextileExtension.
func (t TextilePhrases) TextilePhrases() []TextilePhrase { return t }

var _ TextileExtension = TextilePhrases{}

// TextileEngine renders Textile markup. It is usually tag-scoped so
// Textile regions can sit inside Markdown documents. Installing an add-on
// rebuilds the converter.
type TextileEngine struct {
	BaseEngine

	opts textile.Options

	mu   sync.RWMutex
	conv *textile.Converter
}

// NewTextileEngine returns a Textile engine. An empty tag selects
// whole-document mode.
func NewTextileEngine(tag string, opts TextileOptions) *TextileEngine {
	e := &TextileEngine{
		BaseEngine: NewBaseEngine("textile", CapabilityTextile),
		opts:       textile.Options{Breaks: !opts.NoBreaks},
	}
	e.conv = textile.New(e.opts)
	e.TagName = tag
	e.Options = opts.Options
	e.DocHandler = func(ctx context.Context, doc *Document) (string, error) {
		return e.convert(ctx, doc.Content())
	}
	e.TagHandler = func(ctx context.Context, m TagMatch) (string, error) {
		return e.convert(ctx, m.Content)
	}
	return e
}

// UsePlugin installs a TextileExtension. Its phrases take precedence over
// those of earlier add-ons and over the built-in modifiers.
func (e *TextileEngine) UsePlugin(addon AddOn) error {
	ext, ok := resolveAddOn(e, addon).(TextileExtension)
	if !ok {
		return fmt.Errorf("%w: %T is not a textile extension", ErrAddOnUnsupported, addon)
	}

	added := make([]textile.Phrase, 0, len(ext.TextilePhrases()))
	for _, p := range ext.TextilePhrases() {
		phrase := textile.Phrase{Delim: p.Delim, Tag: p.Tag}
		if err := textile.ValidatePhrase(phrase); err != nil {
			return err
		}
		added = append(added, phrase)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Phrases = append(added, e.opts.Phrases...)
	e.conv = textile.New(e.opts)
	return nil
}

func (e *TextileEngine) convert(ctx context.Context, content string) (string, error) {
	e.mu.RLock()
	conv := e.conv
	e.mu.RUnlock()

	out, err := conv.ToHTML(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrTextileRender, err)
	}
	return out, nil
}

var _ Engine = (*TextileEngine)(nil)
