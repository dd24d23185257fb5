package textile

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPhrase indicates a Phrase that cannot be compiled into a rule.
var ErrInvalidPhrase = errors.New("invalid textile phrase")

// Phrase is an extra inline modifier: text wrapped in Delim becomes <Tag>.
type Phrase struct {
	Delim string
	Tag   string
}

var phraseTag = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ValidatePhrase checks that Delim is one to three ASCII punctuation
// characters and Tag a lowercase element name.
func ValidatePhrase(p Phrase) error {
	if len(p.Delim) == 0 || len(p.Delim) > 3 {
		return fmt.Errorf("%w: delimiter %q must be 1 to 3 characters", ErrInvalidPhrase, p.Delim)
	}
	for _, r := range p.Delim {
		if r > 0x7e || !strings.ContainsRune("!#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			return fmt.Errorf("%w: delimiter %q must be punctuation", ErrInvalidPhrase, p.Delim)
		}
	}
	if !phraseTag.MatchString(p.Tag) {
		return fmt.Errorf("%w: tag %q", ErrInvalidPhrase, p.Tag)
	}
	return nil
}

// Code span placeholders keep @code@ content away from other modifiers.
const (
	codeStart = "\uE010"
	codeEnd   = "\uE011"
)

type phraseRule struct {
	pattern *regexp.Regexp
	tag     string
}

var (
	codeSpan    = regexp.MustCompile(`@([^@\n]+)@`)
	codeRestore = regexp.MustCompile(codeStart + `(\d+)` + codeEnd)
	imagePhrase = regexp.MustCompile(`!([^\s!(]+)(?:\(([^)]*)\))?!(?::([^\s<]+))?`)
	linkPhrase  = regexp.MustCompile(`"([^"\n]+?)(?:\(([^)]*)\))?":([^\s<"]*[^\s<".,;:!?)])`)

	// Longer delimiters first so ** is not read as two * runs.
	phraseRules = []phraseRule{
		newPhraseRule("**", "b"),
		newPhraseRule("__", "i"),
		newPhraseRule("*", "strong"),
		newPhraseRule("_", "em"),
		newPhraseRule("-", "del"),
		newPhraseRule("+", "ins"),
		newPhraseRule("^", "sup"),
		newPhraseRule("~", "sub"),
	}
)

func newPhraseRule(delim, tag string) phraseRule {
	d := regexp.QuoteMeta(delim)
	first := `\` + delim[:1]
	return phraseRule{
		pattern: regexp.MustCompile(
			`(^|[\s(\[>])` + d + `([^\s` + first + `](?:[^\n]*?[^\s])?)` + d + `($|[\s.,;:!?)\]<])`,
		),
		tag: tag,
	}
}

// renderPhrases applies inline modifiers to one block of text.
func renderPhrases(text string, rules []phraseRule) string {
	var codes []string
	text = codeSpan.ReplaceAllStringFunc(text, func(m string) string {
		codes = append(codes, html.EscapeString(m[1:len(m)-1]))
		return codeStart + strconv.Itoa(len(codes)-1) + codeEnd
	})

	text = imagePhrase.ReplaceAllStringFunc(text, renderImage)
	text = linkPhrase.ReplaceAllStringFunc(text, renderLink)

	for _, rule := range rules {
		text = applyPhrase(rule, text)
	}

	return codeRestore.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(m[len(codeStart) : len(m)-len(codeEnd)])
		if err != nil || idx >= len(codes) {
			return m
		}
		return "<code>" + codes[idx] + "</code>"
	})
}

// applyPhrase repeats the substitution because adjacent spans share the
// boundary character between them.
func applyPhrase(rule phraseRule, text string) string {
	replacement := "${1}<" + rule.tag + ">${2}</" + rule.tag + ">${3}"
	for range 4 {
		next := rule.pattern.ReplaceAllString(text, replacement)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func renderImage(m string) string {
	parts := imagePhrase.FindStringSubmatch(m)
	src, alt, href := parts[1], parts[2], parts[3]

	img := `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `"`
	if alt != "" {
		img += ` title="` + html.EscapeString(alt) + `"`
	}
	img += " />"

	if href == "" {
		return img
	}
	return `<a href="` + html.EscapeString(href) + `">` + img + "</a>"
}

func renderLink(m string) string {
	parts := linkPhrase.FindStringSubmatch(m)
	text, title, href := parts[1], parts[2], parts[3]

	var b strings.Builder
	b.WriteString(`<a href="` + html.EscapeString(href) + `"`)
	if title != "" {
		b.WriteString(` title="` + html.EscapeString(title) + `"`)
	}
	b.WriteString(">" + text + "</a>")
	return b.String()
}
