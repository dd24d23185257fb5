package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-doxs/internal/config"
)

// envPrefix marks the variables doxs reads.
const envPrefix = "DOXS_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without a config file.
type envConfig struct {
	ConfigPath  string        // DOXS_CONFIG: config file name or path
	Style       string        // DOXS_STYLE: CSS style name
	Timeout     time.Duration // DOXS_TIMEOUT: PDF generation timeout
	InputDir    string        // DOXS_INPUT_DIR: default input directory
	OutputDir   string        // DOXS_OUTPUT_DIR: default output directory
	Workers     int           // DOXS_WORKERS: parallel workers
	LogLevel    string        // DOXS_LOG_LEVEL
	LogFormat   string        // DOXS_LOG_FORMAT
	FrontMatter string        // DOXS_FRONT_MATTER: true, false or a key
	ParseOrder  string        // DOXS_PARSE_ORDER
}

// knownEnvVars lists valid DOXS_* environment variables.
// Used to warn about typos.
var knownEnvVars = map[string]bool{
	"DOXS_CONFIG":       true,
	"DOXS_STYLE":        true,
	"DOXS_TIMEOUT":      true,
	"DOXS_INPUT_DIR":    true,
	"DOXS_OUTPUT_DIR":   true,
	"DOXS_WORKERS":      true,
	"DOXS_LOG_LEVEL":    true,
	"DOXS_LOG_FORMAT":   true,
	"DOXS_FRONT_MATTER": true,
	"DOXS_PARSE_ORDER":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("DOXS_CONFIG"),
		Style:       os.Getenv("DOXS_STYLE"),
		InputDir:    os.Getenv("DOXS_INPUT_DIR"),
		OutputDir:   os.Getenv("DOXS_OUTPUT_DIR"),
		LogLevel:    os.Getenv("DOXS_LOG_LEVEL"),
		LogFormat:   os.Getenv("DOXS_LOG_FORMAT"),
		FrontMatter: os.Getenv("DOXS_FRONT_MATTER"),
		ParseOrder:  os.Getenv("DOXS_PARSE_ORDER"),
	}

	if timeout := os.Getenv("DOXS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("DOXS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports DOXS_* variables that doxs does not read.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig lays environment values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}
	if env.Timeout > 0 {
		cfg.PDF.Timeout = env.Timeout.String()
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.FrontMatter != "" {
		applyFrontMatterMode(env.FrontMatter, cfg)
	}
	if env.ParseOrder != "" {
		cfg.Parser.ParseOrder = env.ParseOrder
	}
}

// applyFrontMatterMode reads "true"/"false" as merged mode on/off and any
// other value as the key for nested mode.
func applyFrontMatterMode(mode string, cfg *config.Config) {
	if on, err := strconv.ParseBool(mode); err == nil {
		cfg.Parser.FrontMatter = on
		cfg.Parser.FrontMatterKey = ""
		return
	}
	cfg.Parser.FrontMatter = true
	cfg.Parser.FrontMatterKey = mode
}
