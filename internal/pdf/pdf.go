// Package pdf prints rendered HTML pages to PDF with headless Chrome.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-doxs/internal/fileutil"
)

// Sentinel errors for PDF generation.
var (
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
)

// DefaultTimeout bounds page load when the context carries no deadline.
const DefaultTimeout = 30 * time.Second

// Page dimensions in inches.
var pageSizes = map[string][2]float64{
	"letter": {8.5, 11},
	"a4":     {8.27, 11.69},
	"legal":  {8.5, 14},
}

const (
	defaultPageSize = "letter"
	defaultMargin   = 0.5
	maxMargin       = 3.0
)

// Options controls page layout.
type Options struct {
	PageSize  string  // letter, a4, legal (default letter)
	Landscape bool    // swap width and height
	Margin    float64 // inches on every side (default 0.5)
}

// printOptions converts Options into Chrome's print parameters.
func (o Options) printOptions() (*proto.PagePrintToPDF, error) {
	size := strings.ToLower(o.PageSize)
	if size == "" {
		size = defaultPageSize
	}
	dims, ok := pageSizes[size]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageSize, o.PageSize)
	}

	margin := o.Margin
	if margin == 0 {
		margin = defaultMargin
	}
	if margin < 0 || margin > maxMargin {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidMargin, o.Margin)
	}

	width, height := dims[0], dims[1]
	if o.Landscape {
		width, height = height, width
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

// renderer abstracts browser rendering so tests can run without Chrome.
type renderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Converter prints HTML documents to PDF. The browser is started lazily on
// the first conversion and reused until Close.
type Converter struct {
	renderer renderer
}

// NewConverter creates a Converter whose page loads time out after timeout
// when the context has no deadline. A zero timeout uses DefaultTimeout.
func NewConverter(timeout time.Duration) *Converter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Converter{renderer: newRodRenderer(timeout)}
}

// ToPDF writes htmlContent to a temp file, loads it in Chrome and prints it.
// htmlContent should be a full page; relative references resolve against
// the temp directory, so rewrite them to absolute URLs first.
func (c *Converter) ToPDF(ctx context.Context, htmlContent string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	printOpts, err := opts.printOptions()
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, printOpts)
}

// Close releases browser resources.
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
