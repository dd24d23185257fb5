package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/alnah/go-doxs/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxURLLength        = 2048 // Browser limit
	MaxKeyLength        = 100  // front matter key
	MaxTagLength        = 32
	MaxMarkerLength     = 16
	MaxParseOrderLength = 6 // one code per engine
	MaxStyleNameLength  = 100
	MaxPageSizeLength   = 10 // "letter", "a4", "legal"
)

// Config holds the CLI configuration. Library users configure the parser
// with functional options instead.
type Config struct {
	Input  InputConfig  `yaml:"input" toml:"input"`
	Output OutputConfig `yaml:"output" toml:"output"`
	Parser ParserConfig `yaml:"parser" toml:"parser"`
	Style  StyleConfig  `yaml:"style" toml:"style"`
	PDF    PDFConfig    `yaml:"pdf" toml:"pdf"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string   `yaml:"defaultDir" toml:"defaultDir"` // empty = must specify
	Extensions []string `yaml:"extensions" toml:"extensions"` // discovery filter, e.g. [".md", ".dx"]
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // empty = next to source
	Standalone bool   `yaml:"standalone" toml:"standalone"` // wrap fragments in a full page
	Title      string `yaml:"title" toml:"title"`           // page title fallback
	Lang       string `yaml:"lang" toml:"lang"`
}

// TagsConfig names the tag-scoped engine delimiters.
type TagsConfig struct {
	Template string `yaml:"template" toml:"template"`
	Markdown string `yaml:"markdown" toml:"markdown"`
	Textile  string `yaml:"textile" toml:"textile"`
}

// HighlightConfig configures the code highlighting add-on.
type HighlightConfig struct {
	Enabled     *bool  `yaml:"enabled" toml:"enabled"` // nil = on
	Style       string `yaml:"style" toml:"style"`
	LineNumbers bool   `yaml:"lineNumbers" toml:"lineNumbers"`
	Inline      bool   `yaml:"inline" toml:"inline"` // inline styles instead of classes
}

// IsEnabled reports whether highlighting is on. It defaults to true.
func (h HighlightConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// ParserConfig mirrors the parser options.
type ParserConfig struct {
	FrontMatter    bool            `yaml:"frontMatter" toml:"frontMatter"`
	FrontMatterKey string          `yaml:"frontMatterKey" toml:"frontMatterKey"` // nested mode when set
	EndMarkers     []string        `yaml:"endMarkers" toml:"endMarkers"`
	ParseOrder     string          `yaml:"parseOrder" toml:"parseOrder"` // e.g. "TxM"
	Tags           TagsConfig      `yaml:"tags" toml:"tags"`
	Sanitize       bool            `yaml:"sanitize" toml:"sanitize"`
	Marks          bool            `yaml:"marks" toml:"marks"`
	Directives     []string        `yaml:"directives" toml:"directives"` // allowed names, empty = any
	Highlight      HighlightConfig `yaml:"highlight" toml:"highlight"`
	TemplateDir    string          `yaml:"templateDir" toml:"templateDir"` // partials for {% include %}
	BaseDir        string          `yaml:"baseDir" toml:"baseDir"`         // relative path rewriting
	BaseURL        string          `yaml:"baseURL" toml:"baseURL"`
}

// StyleConfig defines CSS options for standalone pages.
type StyleConfig struct {
	Name      string `yaml:"name" toml:"name"`           // built-in or custom style name
	CSSFile   string `yaml:"cssFile" toml:"cssFile"`     // extra CSS appended after the style
	AssetsDir string `yaml:"assetsDir" toml:"assetsDir"` // custom styles/ and templates/
}

// PDFConfig defines PDF output.
type PDFConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	PageSize  string  `yaml:"pageSize" toml:"pageSize"` // "letter", "a4", "legal"
	Landscape bool    `yaml:"landscape" toml:"landscape"`
	Margin    float64 `yaml:"margin" toml:"margin"`   // inches
	Timeout   string  `yaml:"timeout" toml:"timeout"` // Go duration
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // trace, debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console, json, pretty
}

var (
	tagNamePattern = regexp.MustCompile(`^[A-Za-z][\w-]*$`)

	validParseCodes = "TMXtmx"
	validPageSizes  = []string{"letter", "a4", "legal"}
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validLogFormats = []string{"console", "json", "pretty"}
)

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"parser.frontMatterKey", c.Parser.FrontMatterKey, MaxKeyLength},
		{"parser.parseOrder", c.Parser.ParseOrder, MaxParseOrderLength},
		{"parser.templateDir", c.Parser.TemplateDir, MaxPathLength},
		{"parser.baseDir", c.Parser.BaseDir, MaxPathLength},
		{"parser.baseURL", c.Parser.BaseURL, MaxURLLength},
		{"style.name", c.Style.Name, MaxStyleNameLength},
		{"style.cssFile", c.Style.CSSFile, MaxPathLength},
		{"style.assetsDir", c.Style.AssetsDir, MaxPathLength},
		{"pdf.pageSize", c.PDF.PageSize, MaxPageSizeLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	for i, m := range c.Parser.EndMarkers {
		if err := validateFieldLength(fmt.Sprintf("parser.endMarkers[%d]", i), m, MaxMarkerLength); err != nil {
			return err
		}
	}

	if err := ValidateParseOrder(c.Parser.ParseOrder); err != nil {
		return fmt.Errorf("parser.parseOrder: %w", err)
	}

	tags := map[string]string{
		"parser.tags.template": c.Parser.Tags.Template,
		"parser.tags.markdown": c.Parser.Tags.Markdown,
		"parser.tags.textile":  c.Parser.Tags.Textile,
	}
	for field, tag := range tags {
		if tag == "" {
			continue
		}
		if len(tag) > MaxTagLength || !tagNamePattern.MatchString(tag) {
			return fmt.Errorf("%w: %s %q", ErrInvalidValue, field, tag)
		}
	}

	if c.PDF.PageSize != "" && !containsFold(validPageSizes, c.PDF.PageSize) {
		return fmt.Errorf("%w: pdf.pageSize %q (must be letter, a4, or legal)", ErrInvalidValue, c.PDF.PageSize)
	}
	if c.PDF.Margin < 0 || c.PDF.Margin > 3 {
		return fmt.Errorf("%w: pdf.margin must be between 0 and 3 inches, got %.2f", ErrInvalidValue, c.PDF.Margin)
	}
	if c.PDF.Timeout != "" {
		d, err := time.ParseDuration(c.PDF.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: pdf.timeout %q", ErrInvalidValue, c.PDF.Timeout)
		}
	}

	if c.Log.Level != "" && !containsFold(validLogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	if c.Log.Format != "" && !containsFold(validLogFormats, c.Log.Format) {
		return fmt.Errorf("%w: log.format %q (must be console, json, or pretty)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// ValidateParseOrder checks that order only holds known, unique engine codes.
// An empty order is valid and means the default.
func ValidateParseOrder(order string) error {
	seen := make(map[rune]bool, len(order))
	for _, r := range order {
		if !strings.ContainsRune(validParseCodes, r) {
			return fmt.Errorf("%w: unknown engine code %q", ErrInvalidValue, r)
		}
		if seen[r] {
			return fmt.Errorf("%w: duplicate engine code %q", ErrInvalidValue, r)
		}
		seen[r] = true
	}
	return nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Extensions: []string{".md", ".markdown", ".dx"}},
		Output: OutputConfig{Lang: "en"},
		Parser: ParserConfig{ParseOrder: "TxM"},
		PDF:    PDFConfig{PageSize: "letter", Margin: 0.5},
		Log:    LogConfig{Level: "warn", Format: "console"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := decode(configPath, data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode picks the format from the file extension. Unknown extensions are
// read as YAML. Fields absent from the file keep their defaults.
func decode(path string, data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		return cfg, nil
	}

	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, ~/.config/doxs/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "doxs", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
