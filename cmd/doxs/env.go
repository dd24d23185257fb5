package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-doxs/internal/pdf"
)

// PDFRenderer prints a standalone HTML page to PDF.
type PDFRenderer interface {
	ToPDF(ctx context.Context, htmlContent string, opts pdf.Options) ([]byte, error)
	Close() error
}

// Compile-time interface implementation check.
var _ PDFRenderer = (*pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// NewPDFRenderer is called once per render run when PDF output is on.
	NewPDFRenderer func(timeout time.Duration) PDFRenderer
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPDFRenderer: func(timeout time.Duration) PDFRenderer {
			return pdf.NewConverter(timeout)
		},
	}
}
