package doxs

import (
	"fmt"
	"regexp"
	"strings"
)

const parseOrderCodes = "TMXtmx"

var tagNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// DefaultAddOns returns the add-ons installed when WithAddOns is not used.
func DefaultAddOns() []any {
	return []any{
		DirectivesExtension{},
		HighlightExtension{},
		SwitchExtension{},
		DateExtension{},
	}
}

// ValidateParseOrder reports ErrInvalidParseOrder for unknown or repeated
// codes.
func ValidateParseOrder(order string) error {
	seen := make(map[rune]bool, len(order))
	for _, c := range order {
		if !strings.ContainsRune(parseOrderCodes, c) {
			return fmt.Errorf("%w: unknown code %q in %q", ErrInvalidParseOrder, c, order)
		}
		if seen[c] {
			return fmt.Errorf("%w: code %q repeated in %q", ErrInvalidParseOrder, c, order)
		}
		seen[c] = true
	}
	return nil
}

func validateTags(t Tags) error {
	for _, name := range []string{t.Template, t.Markdown, t.Textile} {
		if !tagNamePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidTag, name)
		}
	}
	return nil
}

// New returns a Parser assembled from opts.
//
// The default assembly is: front matter (when enabled), one engine per
// parse order code, the default add-ons, the sanitizer (when configured)
// and path rewriting (when a base dir is set).
func New(opts ...Option) (*Parser, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.err != nil {
		return nil, s.err
	}

	p := NewParser(s.logger)

	var items []any
	if s.frontMatter {
		items = append(items, NewFrontMatterEngine(s.frontMatterKey, s.endMarkers...))
	}

	if s.customPlugins {
		items = append(items, s.plugins...)
	} else {
		if err := ValidateParseOrder(s.parseOrder); err != nil {
			return nil, err
		}
		if err := validateTags(s.tags); err != nil {
			return nil, err
		}
		for _, code := range s.parseOrder {
			items = append(items, s.engineFor(code))
		}

		addOns := s.addOns
		if !s.customAddOns {
			addOns = DefaultAddOns()
		}
		items = append(items, addOns...)
	}

	if s.sanitize != nil {
		items = append(items, NewSanitizeEngine(*s.sanitize))
	}
	if s.rewrite != nil {
		items = append(items, NewPathRewriteEngine(*s.rewrite))
	}

	if err := p.Use(items...); err != nil {
		return nil, err
	}
	return p, nil
}

// engineFor builds the engine for a validated parse order code.
func (s *settings) engineFor(code rune) Engine {
	switch code {
	case 'T':
		return NewTemplateEngine("", s.template)
	case 't':
		return NewTemplateEngine(s.tags.Template, s.template)
	case 'M':
		return NewMarkdownEngine("", s.markdown)
	case 'm':
		return NewMarkdownEngine(s.tags.Markdown, s.markdown)
	case 'X':
		return NewTextileEngine("", s.textile)
	default:
		return NewTextileEngine(s.tags.Textile, s.textile)
	}
}
