package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "doxs.yaml", `
parser:
  frontMatter: true
  frontMatterKey: fm
  endMarkers: ["---", "..."]
  parseOrder: TM
  tags:
    template: tpl
  sanitize: true
  highlight:
    enabled: false
    style: monokai
style:
  name: print
pdf:
  enabled: true
  pageSize: a4
  timeout: 45s
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.Parser.FrontMatter || cfg.Parser.FrontMatterKey != "fm" {
		t.Errorf("front matter = %v/%q, want true/fm", cfg.Parser.FrontMatter, cfg.Parser.FrontMatterKey)
	}
	if got := strings.Join(cfg.Parser.EndMarkers, ","); got != "---,..." {
		t.Errorf("EndMarkers = %q", got)
	}
	if cfg.Parser.ParseOrder != "TM" {
		t.Errorf("ParseOrder = %q, want TM", cfg.Parser.ParseOrder)
	}
	if cfg.Parser.Tags.Template != "tpl" {
		t.Errorf("Tags.Template = %q, want tpl", cfg.Parser.Tags.Template)
	}
	if cfg.Parser.Highlight.IsEnabled() {
		t.Error("Highlight.IsEnabled() = true, want false")
	}
	if cfg.PDF.PageSize != "a4" || !cfg.PDF.Enabled {
		t.Errorf("PDF = %+v", cfg.PDF)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "doxs.toml", `
[parser]
frontMatter = true
parseOrder = "MT"

[parser.tags]
textile = "textile"

[output]
standalone = true
title = "Notes"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Parser.FrontMatter || cfg.Parser.ParseOrder != "MT" {
		t.Errorf("Parser = %+v", cfg.Parser)
	}
	if cfg.Parser.Tags.Textile != "textile" {
		t.Errorf("Tags.Textile = %q", cfg.Parser.Tags.Textile)
	}
	if !cfg.Output.Standalone || cfg.Output.Title != "Notes" {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadConfig_KeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "partial.yaml", "log:\n  level: info\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.Parser.ParseOrder != def.Parser.ParseOrder {
		t.Errorf("ParseOrder = %q, want default %q", cfg.Parser.ParseOrder, def.Parser.ParseOrder)
	}
	if cfg.PDF.PageSize != def.PDF.PageSize {
		t.Errorf("PageSize = %q, want default %q", cfg.PDF.PageSize, def.PDF.PageSize)
	}
	if !cfg.Parser.Highlight.IsEnabled() {
		t.Error("Highlight.IsEnabled() = false, want default true")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "unknown yaml field", file: "c.yaml", content: "parser:\n  nope: 1\n", wantErr: ErrConfigParse},
		{name: "unknown toml field", file: "c.toml", content: "[parser]\nnope = 1\n", wantErr: ErrConfigParse},
		{name: "malformed toml", file: "c.toml", content: "[parser\n", wantErr: ErrConfigParse},
		{name: "bad parse order", file: "c.yaml", content: "parser:\n  parseOrder: TQ\n", wantErr: ErrInvalidValue},
		{name: "bad log format", file: "c.yaml", content: "log:\n  format: xml\n", wantErr: ErrInvalidValue},
		{name: "field too long", file: "c.yaml", content: "parser:\n  frontMatterKey: " + strings.Repeat("k", MaxKeyLength+1) + "\n", wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing) error = %v, want ErrConfigNotFound", err)
	}
	if _, err := LoadConfig("doxs-config-that-does-not-exist"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(name) error = %v, want ErrConfigNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty parse order", mutate: func(c *Config) { c.Parser.ParseOrder = "" }},
		{name: "lowercase tag codes", mutate: func(c *Config) { c.Parser.ParseOrder = "tmx" }},
		{name: "duplicate code", mutate: func(c *Config) { c.Parser.ParseOrder = "TT" }, wantErr: ErrInvalidValue},
		{name: "bad tag name", mutate: func(c *Config) { c.Parser.Tags.Markdown = "m d" }, wantErr: ErrInvalidValue},
		{name: "bad page size", mutate: func(c *Config) { c.PDF.PageSize = "a3" }, wantErr: ErrInvalidValue},
		{name: "case insensitive page size", mutate: func(c *Config) { c.PDF.PageSize = "A4" }},
		{name: "negative margin", mutate: func(c *Config) { c.PDF.Margin = -1 }, wantErr: ErrInvalidValue},
		{name: "bad timeout", mutate: func(c *Config) { c.PDF.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: ErrInvalidValue},
		{name: "long end marker", mutate: func(c *Config) { c.Parser.EndMarkers = []string{strings.Repeat("-", 20)} }, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"doxs":           false,
		"./doxs.yaml":    true,
		"conf/doxs.toml": true,
		`C:\doxs.yaml`:   true,
	}
	for in, want := range tests {
		if got := isFilePath(in); got != want {
			t.Errorf("isFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}
