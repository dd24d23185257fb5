package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ConverterConfig selects the goldmark features of a GoldmarkConverter.
type ConverterConfig struct {
	GFM          bool // tables, strikethrough, autolinks, task lists
	Footnotes    bool
	Typographer  bool
	HeadingIDs   bool // required for TOC injection
	HardWraps    bool
	XHTML        bool
	Unsafe       bool // pass raw HTML produced by earlier dialects
	Marks        bool // ==highlight== support, see Preprocessor
	Extensions   []goldmark.Extender
	ParserOption []parser.Option
}

// DefaultConverterConfig is the configuration used by the Markdown engine.
// Raw HTML is allowed because templates and Textile run before Markdown and
// their output must survive; sanitization is a separate pass.
func DefaultConverterConfig() ConverterConfig {
	return ConverterConfig{
		GFM:       true,
		Footnotes: true,
		Unsafe:    true,
	}
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md   goldmark.Markdown
	prep *Preprocessor
	cfg  ConverterConfig
}

// NewGoldmarkConverter builds a converter from cfg. Extensions are applied
// after the built-in ones, in the order given.
func NewGoldmarkConverter(cfg ConverterConfig) *GoldmarkConverter {
	var exts []goldmark.Extender
	if cfg.GFM {
		exts = append(exts, extension.GFM)
	}
	if cfg.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if cfg.Typographer {
		exts = append(exts, extension.Typographer)
	}
	exts = append(exts, cfg.Extensions...)

	parserOpts := append([]parser.Option(nil), cfg.ParserOption...)
	if cfg.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	var rendererOpts []renderer.Option
	if cfg.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if cfg.XHTML {
		rendererOpts = append(rendererOpts, html.WithXHTML())
	}
	if cfg.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{
		md:   md,
		prep: &Preprocessor{Marks: cfg.Marks},
		cfg:  cfg,
	}
}

// Config returns the configuration the converter was built with.
func (c *GoldmarkConverter) Config() ConverterConfig {
	return c.cfg
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content = c.prep.PreprocessMarkdown(ctx, content)

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		out := buf.String()
		if c.prep.Marks {
			out = ConvertMarkPlaceholders(out)
		}
		done <- result{html: out}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

var _ HTMLConverter = (*GoldmarkConverter)(nil)
