package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-doxs/internal/pdf"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// fakePDF records the pages it is asked to print.
type fakePDF struct {
	mu     sync.Mutex
	pages  []string
	opts   pdf.Options
	err    error
	closed bool
}

func (f *fakePDF) ToPDF(_ context.Context, html string, opts pdf.Options) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.pages = append(f.pages, html)
	f.opts = opts
	return []byte("%PDF-1.7 fake"), nil
}

func (f *fakePDF) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// testEnv returns an environment writing to buffers, with fake as the PDF
// renderer when non-nil.
func testEnv(t *testing.T, fake *fakePDF) (*Environment, *syncBuffer, *syncBuffer) {
	t.Helper()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		NewPDFRenderer: func(time.Duration) PDFRenderer {
			if fake == nil {
				t.Fatal("unexpected PDF renderer request")
			}
			return fake
		},
	}
	return env, stdout, stderr
}
