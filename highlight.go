package doxs

import (
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// Highlight defaults.
const (
	DefaultHighlightStyle  = "github"
	DefaultHighlightPrefix = "hljs-"
)

// HighlightExtension highlights fenced code blocks with chroma.
type HighlightExtension struct {
	Style       string // chroma style name, DefaultHighlightStyle when empty
	LineNumbers bool
	Inline      bool   // inline styles instead of CSS classes
	ClassPrefix string // DefaultHighlightPrefix when empty
}

// Capability implements AddOn.
func (HighlightExtension) Capability() Capability { return CapabilityMarkdown }

func (h HighlightExtension) style() string {
	if h.Style == "" {
		return DefaultHighlightStyle
	}
	return h.Style
}

func (h HighlightExtension) prefix() string {
	if h.ClassPrefix == "" {
		return DefaultHighlightPrefix
	}
	return h.ClassPrefix
}

func (h HighlightExtension) formatOptions() []chromahtml.Option {
	return []chromahtml.Option{
		chromahtml.WithClasses(!h.Inline),
		chromahtml.WithLineNumbers(h.LineNumbers),
		chromahtml.ClassPrefix(h.prefix()),
	}
}

// MarkdownExtender implements MarkdownExtension.
func (h HighlightExtension) MarkdownExtender(MarkdownOptions) goldmark.Extender {
	return highlighting.NewHighlighting(
		highlighting.WithStyle(h.style()),
		highlighting.WithFormatOptions(h.formatOptions()...),
	)
}

// CSS returns the stylesheet for class-based output. Unknown styles fall
// back to chroma's default.
func (h HighlightExtension) CSS() (string, error) {
	var sb strings.Builder
	formatter := chromahtml.New(h.formatOptions()...)
	if err := formatter.WriteCSS(&sb, styles.Get(h.style())); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var _ MarkdownExtension = HighlightExtension{}
