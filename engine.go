package doxs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Engine is one stage of a Parser. Parse mutates doc in place; only context
// errors are returned; render faults are logged and leave doc unchanged.
type Engine interface {
	Name() string
	Capability() Capability
	Handles(addon AddOn) bool
	UsePlugin(addon AddOn) error
	Parse(ctx context.Context, doc *Document) error
}

// parserAttacher is implemented by engines that keep a back-reference to
// the Parser installing them. BaseEngine implements it.
type parserAttacher interface {
	attachParser(p *Parser)
}

// TagMatch is one occurrence of a tag-scoped region.
type TagMatch struct {
	Doc     *Document
	Content string // text between the tags
	Full    string // the whole match, tags included
	Index   int
	ID      string // Doc.ID() + ":tag[Index]"
}

// BaseEngine implements the shared Engine behaviour. Concrete engines embed
// it and set DocHandler or TagHandler.
//
// With TagName empty the engine works on the whole document; otherwise on
// every <TagName>...</TagName> region. The result is written back only when
// it is non-empty after trimming.
type BaseEngine struct {
	TagName    string
	Options    map[string]any
	Concurrent bool

	DocHandler func(ctx context.Context, doc *Document) (string, error)
	TagHandler func(ctx context.Context, m TagMatch) (string, error)

	name   string
	kind   Capability
	parser *Parser
}

// NewBaseEngine returns a BaseEngine named name declaring capability kind.
func NewBaseEngine(name string, kind Capability) BaseEngine {
	return BaseEngine{name: name, kind: kind}
}

// Name returns the engine name.
func (b *BaseEngine) Name() string {
	if b.name == "" {
		return "engine"
	}
	return b.name
}

// Capability returns the kind of add-on the engine accepts.
func (b *BaseEngine) Capability() Capability {
	return b.kind
}

// Handles reports whether addon targets this engine's capability.
func (b *BaseEngine) Handles(addon AddOn) bool {
	return b.kind != CapabilityNone && addon != nil && addon.Capability() == b.kind
}

// UsePlugin rejects every add-on. Engines accepting add-ons override it.
func (b *BaseEngine) UsePlugin(addon AddOn) error {
	return fmt.Errorf("%w: %s", ErrAddOnUnsupported, b.Name())
}

// Parser returns the Parser the engine is installed in, or nil.
func (b *BaseEngine) Parser() *Parser {
	return b.parser
}

// Logger returns the installing Parser's logger.
func (b *BaseEngine) Logger() Logger {
	if b.parser == nil {
		return NoOpLogger()
	}
	return b.parser.Logger()
}

func (b *BaseEngine) attachParser(p *Parser) {
	b.parser = p
}

// Option returns Options[key], or fallback when absent.
func (b *BaseEngine) Option(key string, fallback any) any {
	if v, ok := b.Options[key]; ok {
		return v
	}
	return fallback
}

// Parse runs the configured handler over doc.
func (b *BaseEngine) Parse(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := b.Logger().WithContext(ctx)

	var (
		out string
		err error
	)
	switch {
	case b.TagName != "" && b.TagHandler == nil:
		log.Warn("tag engine has no tag handler", "engine", b.Name(), "tag", b.TagName)
		return nil
	case b.TagName == "" && b.DocHandler == nil:
		log.Warn("engine has no document handler", "engine", b.Name())
		return nil
	case b.TagName != "":
		out, err = b.parseTags(ctx, doc)
	default:
		out, err = b.DocHandler(ctx, doc)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, errNoMatches) {
			return nil
		}
		log.Error("engine failed, document left unchanged", "engine", b.Name(), "doc", doc.ID(), "error", err)
		return nil
	}

	setContentIf(doc, out)
	return nil
}

var errNoMatches = errors.New("no tag matches")

// tagPattern matches <tag>...</tag> across lines, non-greedy.
func tagPattern(tag string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(tag)
	return regexp.Compile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
}

func (b *BaseEngine) parseTags(ctx context.Context, doc *Document) (string, error) {
	re, err := tagPattern(b.TagName)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidTag, b.TagName, err)
	}

	content := doc.Content()
	locs := re.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return "", errNoMatches
	}

	matches := make([]TagMatch, len(locs))
	for i, loc := range locs {
		matches[i] = TagMatch{
			Doc:     doc,
			Content: content[loc[2]:loc[3]],
			Full:    content[loc[0]:loc[1]],
			Index:   i,
			ID:      fmt.Sprintf("%s:tag[%d]", doc.ID(), i),
		}
	}

	results := make([]string, len(matches))
	if b.Concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i := range matches {
			g.Go(func() error {
				out, err := b.TagHandler(gctx, matches[i])
				results[i] = out
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
	} else {
		for i := range matches {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			out, err := b.TagHandler(ctx, matches[i])
			if err != nil {
				return "", err
			}
			results[i] = out
		}
	}

	var sb strings.Builder
	last := 0
	for i, loc := range locs {
		sb.WriteString(content[last:loc[0]])
		sb.WriteString(results[i])
		last = loc[1]
	}
	sb.WriteString(content[last:])
	return sb.String(), nil
}

// setContentIf writes s back unless it is blank.
func setContentIf(doc *Document, s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return doc.SetContent(s)
}

var _ Engine = (*BaseEngine)(nil)
