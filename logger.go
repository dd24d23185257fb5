package doxs

import "github.com/alnah/go-doxs/internal/logging"

// Logger is the structured logger accepted by WithLogger.
type Logger = logging.Logger

// NoOpLogger returns a Logger that discards everything.
func NoOpLogger() Logger {
	return logging.NoOp()
}
