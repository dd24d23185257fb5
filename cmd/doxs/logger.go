package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-doxs/internal/config"
	"github.com/alnah/go-doxs/internal/logging"
	"github.com/alnah/go-doxs/internal/logging/console"
	"github.com/alnah/go-doxs/internal/logging/gologger"
)

// newLogProvider picks the logging backend. The console format writes
// key=value lines to w; json and pretty go through go-logger. verbose
// lowers the level to debug and quiet raises it to error.
func newLogProvider(cfg config.LogConfig, w io.Writer, verbose, quiet bool) (logging.Provider, error) {
	level := cfg.Level
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		minLevel, err := console.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return console.NewProvider(console.Options{Writer: w, MinLevel: &minLevel}), nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     level,
			Format:    cfg.Format,
			AddSource: verbose,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return provider, nil
	}
}
