// Package textile renders the Textile lightweight markup dialect to HTML.
//
// Supported blocks: h1. to h6., p., bq., bc., pre., bulleted (*) and
// numbered (#) lists, and raw HTML blocks passed through untouched.
// Block signatures accept an optional (class) or (#id) or (class#id)
// attribute group, as in "p(note). text".
//
// Supported phrase modifiers: *strong*, _em_, **b**, __i__, @code@,
// -del-, +ins+, ^sup^, ~sub~, "text(title)":url and !src(alt)!:url.
// Options.Phrases adds modifiers of the same shape.
package textile

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// ErrRender indicates a Textile document could not be rendered.
var ErrRender = errors.New("textile rendering failed")

// Options configures rendering.
type Options struct {
	// Breaks turns single newlines inside a paragraph into <br />.
	Breaks bool

	// Phrases run before the built-in modifiers, in order, so they may
	// claim delimiters such as "??" or "%". Invalid entries are skipped;
	// check them with ValidatePhrase first.
	Phrases []Phrase
}

// DefaultOptions mirrors common Textile renderers: line breaks are kept.
func DefaultOptions() Options {
	return Options{Breaks: true}
}

// Converter renders Textile text.
type Converter struct {
	opts  Options
	rules []phraseRule
}

// New returns a Converter using opts.
func New(opts Options) *Converter {
	c := &Converter{opts: opts, rules: phraseRules}
	if len(opts.Phrases) > 0 {
		c.rules = make([]phraseRule, 0, len(opts.Phrases)+len(phraseRules))
		for _, p := range opts.Phrases {
			if ValidatePhrase(p) != nil {
				continue
			}
			c.rules = append(c.rules, newPhraseRule(p.Delim, p.Tag))
		}
		c.rules = append(c.rules, phraseRules...)
	}
	return c
}

var (
	crlfOrCR       = regexp.MustCompile(`\r\n?`)
	blankLines     = regexp.MustCompile(`\n[ \t]*\n+`)
	blockSignature = regexp.MustCompile(`^(h[1-6]|p|bq|bc|pre)(\([^)]*\))?\.\s+`)
	listItem       = regexp.MustCompile(`^([*#]+)\s+(.*)$`)
	htmlBlockStart = regexp.MustCompile(`^<(/?)([a-zA-Z][a-zA-Z0-9]*)[\s>/]`)
)

// ToHTML renders content. It never fails on malformed markup; unknown
// constructs fall back to paragraphs.
func (c *Converter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = strings.Trim(content, "\n")
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	blocks := blankLines.Split(content, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		rendered, err := c.renderBlock(block)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
		out = append(out, rendered)
	}
	return strings.Join(out, "\n"), nil
}

func (c *Converter) renderBlock(block string) (string, error) {
	if m := blockSignature.FindStringSubmatch(block); m != nil {
		tag, attrs := m[1], parseAttrs(m[2])
		body := block[len(m[0]):]
		switch tag {
		case "bc":
			return "<pre" + attrs + "><code>" + html.EscapeString(body) + "</code></pre>", nil
		case "pre":
			return "<pre" + attrs + ">" + html.EscapeString(body) + "</pre>", nil
		case "bq":
			return "<blockquote" + attrs + ">\n\t<p>" + c.inline(body) + "</p>\n</blockquote>", nil
		default:
			return "<" + tag + attrs + ">" + c.inline(body) + "</" + tag + ">", nil
		}
	}

	if isList(block) {
		return renderList(block, c.inline)
	}

	if htmlBlockStart.MatchString(block) {
		return block, nil
	}

	return "<p>" + c.inline(block) + "</p>", nil
}

// parseAttrs turns "(class#id)" into ` class="class" id="id"`.
func parseAttrs(group string) string {
	group = strings.TrimSuffix(strings.TrimPrefix(group, "("), ")")
	if group == "" {
		return ""
	}
	class, id, _ := strings.Cut(group, "#")
	var b strings.Builder
	if class = strings.TrimSpace(class); class != "" {
		b.WriteString(` class="` + html.EscapeString(class) + `"`)
	}
	if id = strings.TrimSpace(id); id != "" {
		b.WriteString(` id="` + html.EscapeString(id) + `"`)
	}
	return b.String()
}

func isList(block string) bool {
	for line := range strings.SplitSeq(block, "\n") {
		if !listItem.MatchString(line) {
			return false
		}
	}
	return true
}

// inline applies phrase modifiers, then line breaks.
func (c *Converter) inline(text string) string {
	text = renderPhrases(text, c.rules)
	if c.opts.Breaks {
		text = strings.ReplaceAll(text, "\n", "<br />\n")
	}
	return text
}
