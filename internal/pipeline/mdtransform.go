package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged and are turned into <mark> tags
// after HTML generation.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// ==text== on a single line, not part of a setext underline.
	highlightPattern = regexp.MustCompile(`==([^=\n](?:[^\n]*?[^=\n])?)==`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// Preprocessor normalizes line endings and, when Marks is set, rewrites
// ==text== into placeholders.
type Preprocessor struct {
	Marks bool
}

// PreprocessMarkdown prepares content for goldmark.
func (p *Preprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	if p.Marks {
		content = convertHighlights(content)
	}
	return content
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

var _ MarkdownPreprocessor = (*Preprocessor)(nil)
