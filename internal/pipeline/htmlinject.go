package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// ErrPageRender indicates the standalone page template failed to render.
var ErrPageRender = errors.New("page template rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if pos := afterOpeningTag(htmlContent, lowerHTML, "<body"); pos != -1 {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// afterOpeningTag returns the index just past the opening tag prefix
// (e.g. "<body"), or -1 when absent. lowerHTML must be htmlContent lowered.
func afterOpeningTag(htmlContent, lowerHTML, prefix string) int {
	idx := strings.Index(lowerHTML, prefix)
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}

// PageData feeds the standalone page template.
type PageData struct {
	Title string
	Lang  string
	Meta  map[string]string
	Body  string
}

// PageWrapper wraps rendered fragments in a complete HTML document.
type PageWrapper struct {
	tmpl *template.Template
}

// NewPageWrapper parses tmplContent as an html/template page. The template
// receives Title, Lang, Meta and Body (already trusted HTML).
func NewPageWrapper(tmplContent string) (*PageWrapper, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageWrapper{tmpl: tmpl}, nil
}

// Wrap renders the page around data.Body.
func (p *PageWrapper) Wrap(ctx context.Context, data *PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = &PageData{}
	}

	lang := data.Lang
	if lang == "" {
		lang = "en"
	}

	view := struct {
		Title string
		Lang  string
		Meta  map[string]string
		Body  template.HTML
	}{
		Title: data.Title,
		Lang:  lang,
		Meta:  data.Meta,
		Body:  template.HTML(data.Body), // #nosec G203 -- body is pipeline output, sanitized upstream when configured
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// TOCData holds TOC configuration for injection.
type TOCData struct {
	Title    string
	MinDepth int // Minimum heading level (default: 2, skips H1)
	MaxDepth int // Maximum heading level (default: 3)
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

type headingInfo struct {
	Level int
	ID    string
	Text  string
}

var (
	// Captures: 1=level, 2=id, 3=inner HTML.
	headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// stripHTMLTags removes tags and decodes entities so the text is not
// double-encoded when escaped again for the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// extractHeadings returns headings between minDepth and maxDepth.
// Headings without IDs are skipped.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	var headings []headingInfo
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{Level: level, ID: m[2], Text: stripHTMLTags(m[3])})
	}
	return headings
}

// numberingState tracks hierarchical numbering for TOC entries.
// The first heading seen becomes depth 1 and skipped levels collapse.
type numberingState struct {
	counters     [6]int
	minLevelSeen int
	lastLevel    int
}

// next returns the number string ("1.2.") and effective depth for level.
func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	effectiveDepth = max(level-n.minLevelSeen+1, 1)
	if n.lastLevel > 0 && effectiveDepth > n.lastLevel+1 {
		effectiveDepth = n.lastLevel + 1
	}

	for i := effectiveDepth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[effectiveDepth-1]++
	n.lastLevel = effectiveDepth

	parts := make([]string, effectiveDepth)
	for i := range effectiveDepth {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}

// generateNumberedTOC creates HTML for a numbered table of contents.
func generateNumberedTOC(headings []headingInfo, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)
	if title != "" {
		buf.WriteString(`<h2 class="toc-title">` + html.EscapeString(title) + `</h2>`)
	}
	buf.WriteString(`<div class="toc-list">`)

	var numbering numberingState
	for _, h := range headings {
		num, depth := numbering.next(h.Level)

		buf.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&buf, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		buf.WriteString(`><a href="#` + html.EscapeString(h.ID) + `">`)
		buf.WriteString(num + " " + html.EscapeString(h.Text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</div></nav>`)
	return buf.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// InjectTOC injects a numbered TOC at the start of <main>, or of <body>,
// or prepends it. If data is nil or no heading qualifies, htmlContent is
// returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	minDepth, maxDepth := data.MinDepth, data.MaxDepth
	if minDepth == 0 {
		minDepth = 2
	}
	if maxDepth == 0 {
		maxDepth = 3
	}

	tocHTML := generateNumberedTOC(extractHeadings(htmlContent, minDepth, maxDepth), data.Title)
	if tocHTML == "" {
		return htmlContent, nil
	}

	lowerHTML := strings.ToLower(htmlContent)
	for _, prefix := range []string{"<main", "<body"} {
		if pos := afterOpeningTag(htmlContent, lowerHTML, prefix); pos != -1 {
			return htmlContent[:pos] + tocHTML + htmlContent[pos:], nil
		}
	}
	return tocHTML + htmlContent, nil
}

var (
	_ CSSInjector = (*CSSInjection)(nil)
	_ TOCInjector = (*TOCInjection)(nil)
)
