package doxs

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// recordLogger keeps every entry for assertions.
type recordLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+": "+msg)
}

func (l *recordLogger) Trace(msg string, _ ...any) { l.add("trace", msg) }
func (l *recordLogger) Debug(msg string, _ ...any) { l.add("debug", msg) }
func (l *recordLogger) Info(msg string, _ ...any)  { l.add("info", msg) }
func (l *recordLogger) Warn(msg string, _ ...any)  { l.add("warn", msg) }
func (l *recordLogger) Error(msg string, _ ...any) { l.add("error", msg) }
func (l *recordLogger) Fatal(msg string, _ ...any) { l.add("fatal", msg) }

func (l *recordLogger) WithContext(context.Context) Logger { return l }

func (l *recordLogger) has(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if len(e) > len(level) && e[:len(level)+1] == level+":" {
			return true
		}
	}
	return false
}

var _ Logger = (*recordLogger)(nil)

// mustNew builds a parser or fails the test.
func mustNew(t *testing.T, opts ...Option) *Parser {
	t.Helper()

	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

// mustParse parses input with data or fails the test.
func mustParse(t *testing.T, p *Parser, input any, data map[string]any) string {
	t.Helper()

	got, err := p.Parse(context.Background(), input, data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return got
}

// funcEngine is a whole-document engine driven by fn.
func funcEngine(name string, fn func(string) (string, error)) *BaseEngine {
	e := NewBaseEngine(name, CapabilityNone)
	e.DocHandler = func(_ context.Context, d *Document) (string, error) {
		return fn(d.Content())
	}
	return &e
}

func suffixEngine(suffix string) *BaseEngine {
	return funcEngine("suffix"+suffix, func(s string) (string, error) {
		return fmt.Sprintf("%s%s", s, suffix), nil
	})
}
