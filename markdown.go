package doxs

import (
	"context"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/alnah/go-doxs/internal/pipeline"
)

// MarkdownOptions configures the Markdown engine. The zero value enables
// GFM and footnotes and passes raw HTML through, so output of earlier
// dialects survives.
type MarkdownOptions struct {
	NoGFM       bool
	NoFootnotes bool
	Typographer bool
	HeadingIDs  bool // needed for tables of contents
	HardWraps   bool
	XHTML       bool
	Safe        bool // drop raw HTML
	Marks       bool // ==text== becomes <mark>text</mark>

	Options map[string]any
}

func (o MarkdownOptions) converterConfig(exts []goldmark.Extender) pipeline.ConverterConfig {
	return pipeline.ConverterConfig{
		GFM:         !o.NoGFM,
		Footnotes:   !o.NoFootnotes,
		Typographer: o.Typographer,
		HeadingIDs:  o.HeadingIDs,
		HardWraps:   o.HardWraps,
		XHTML:       o.XHTML,
		Unsafe:      !o.Safe,
		Marks:       o.Marks,
		Extensions:  exts,
	}
}

// MarkdownExtension contributes a goldmark extender built from the engine's
// options.
type MarkdownExtension interface {
	AddOn
	MarkdownExtender(opts MarkdownOptions) goldmark.Extender
}

// MarkdownEngine renders Markdown with goldmark. Installing an add-on
// rebuilds the goldmark instance.
type MarkdownEngine struct {
	BaseEngine

	opts MarkdownOptions

	mu   sync.RWMutex
	exts []goldmark.Extender
	conv *pipeline.GoldmarkConverter
}

// NewMarkdownEngine returns a Markdown engine. An empty tag selects
// whole-document mode.
func NewMarkdownEngine(tag string, opts MarkdownOptions) *MarkdownEngine {
	e := &MarkdownEngine{
		BaseEngine: NewBaseEngine("markdown", CapabilityMarkdown),
		opts:       opts,
		conv:       pipeline.NewGoldmarkConverter(opts.converterConfig(nil)),
	}
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

// UsePlugin installs a MarkdownExtension.
func (e *MarkdownEngine) UsePlugin(addon AddOn) error {
	ext, ok := resolveAddOn(e, addon).(MarkdownExtension)
	if !ok {
		return fmt.Errorf("%w: %T is not a markdown extension", ErrAddOnUnsupported, addon)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.exts = append(e.exts, ext.MarkdownExtender(e.opts))
	e.conv = pipeline.NewGoldmarkConverter(e.opts.converterConfig(e.exts))
	return nil
}

func (e *MarkdownEngine) convert(ctx context.Context, content string) (string, error) {
	e.mu.RLock()
	conv := e.conv
	e.mu.RUnlock()

	out, err := conv.ToHTML(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}
	return out, nil
}

var _ Engine = (*MarkdownEngine)(nil)
