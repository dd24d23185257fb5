package doxs

import (
	"fmt"
	"slices"
)

// Tags names the delimiters of tag-scoped regions, as in <tx>...</tx>.
type Tags struct {
	Template string
	Markdown string
	Textile  string
}

// Default tag names.
const (
	DefaultTemplateTag = "tw"
	DefaultMarkdownTag = "md"
	DefaultTextileTag  = "tx"
)

// DefaultParseOrder renders templates over the whole document, then Textile
// regions, then Markdown over the whole document.
const DefaultParseOrder = "TxM"

// Option configures a Parser built by New.
type Option func(*settings)

type settings struct {
	logger Logger

	frontMatter    bool
	frontMatterKey string
	endMarkers     []string

	parseOrder string
	tags       Tags

	markdown MarkdownOptions
	template TemplateOptions
	textile  TextileOptions

	plugins       []any
	customPlugins bool
	addOns        []any
	customAddOns  bool

	sanitize *SanitizeOptions
	rewrite  *PathRewriteOptions

	err error
}

func defaultSettings() settings {
	return settings{
		logger:     NoOpLogger(),
		parseOrder: DefaultParseOrder,
		tags: Tags{
			Template: DefaultTemplateTag,
			Markdown: DefaultMarkdownTag,
			Textile:  DefaultTextileTag,
		},
	}
}

// WithLogger sets the parser logger. Engines log through it.
func WithLogger(l Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFrontMatter extracts a leading YAML block and merges its keys into the
// document data.
func WithFrontMatter() Option {
	return func(s *settings) {
		s.frontMatter = true
		s.frontMatterKey = ""
	}
}

// WithFrontMatterKey extracts a leading YAML block and stores the mapping
// under key.
func WithFrontMatterKey(key string) Option {
	return func(s *settings) {
		s.frontMatter = key != ""
		s.frontMatterKey = key
	}
}

// WithFrontMatterMode accepts the loose form used by config files: true
// merges, false disables, a non-empty string nests under that key.
func WithFrontMatterMode(mode any) Option {
	return func(s *settings) {
		switch v := mode.(type) {
		case bool:
			s.frontMatter = v
			s.frontMatterKey = ""
		case string:
			s.frontMatter = v != ""
			s.frontMatterKey = v
		case nil:
			s.frontMatter = false
		default:
			s.err = fmt.Errorf("front matter mode must be bool or string, got %T", mode)
		}
	}
}

// WithFrontMatterEndMarkers replaces DefaultEndMarkers.
func WithFrontMatterEndMarkers(markers ...string) Option {
	return func(s *settings) {
		s.endMarkers = slices.Clone(markers)
	}
}

// WithParseOrder sets which engines run and in what order. Codes are T
// (template), M (markdown) and X (textile); upper case works on the whole
// document, lower case on tag regions. Codes may be passed one per argument
// or joined, as in "TxM".
func WithParseOrder(codes ...string) Option {
	return func(s *settings) {
		var order string
		for _, c := range codes {
			order += c
		}
		s.parseOrder = order
	}
}

// WithTags sets the tag names used by tag-scoped engines. Empty names keep
// the current value.
func WithTags(template, markdown, textile string) Option {
	return func(s *settings) {
		if template != "" {
			s.tags.Template = template
		}
		if markdown != "" {
			s.tags.Markdown = markdown
		}
		if textile != "" {
			s.tags.Textile = textile
		}
	}
}

// WithSanitize appends the HTML sanitizer as the last engine.
func WithSanitize(opts SanitizeOptions) Option {
	return func(s *settings) {
		s.sanitize = &opts
	}
}

// WithPlugins replaces the engines and add-ons assembled from the parse
// order. Front matter, sanitizer and path rewriting are still added when
// configured.
func WithPlugins(items ...any) Option {
	return func(s *settings) {
		s.plugins = slices.Clone(items)
		s.customPlugins = true
	}
}

// WithAddOns replaces the default add-ons.
func WithAddOns(addOns ...any) Option {
	return func(s *settings) {
		s.addOns = slices.Clone(addOns)
		s.customAddOns = true
	}
}

// WithMarkdownOptions configures the Markdown engine.
func WithMarkdownOptions(opts MarkdownOptions) Option {
	return func(s *settings) {
		s.markdown = opts
	}
}

// WithTemplateOptions configures the template engine.
func WithTemplateOptions(opts TemplateOptions) Option {
	return func(s *settings) {
		s.template = opts
	}
}

// WithTextileOptions configures the Textile engine.
func WithTextileOptions(opts TextileOptions) Option {
	return func(s *settings) {
		s.textile = opts
	}
}

// WithBaseDir appends an engine resolving relative img and a references
// against dir.
func WithBaseDir(dir string) Option {
	return func(s *settings) {
		if dir == "" {
			s.rewrite = nil
			return
		}
		s.rewrite = &PathRewriteOptions{BaseDir: dir}
	}
}

// WithPathRewrite is WithBaseDir with every rewrite option exposed.
func WithPathRewrite(opts PathRewriteOptions) Option {
	return func(s *settings) {
		s.rewrite = &opts
	}
}
