package doxs

import (
	"context"

	"github.com/alnah/go-doxs/internal/pipeline"
)

// PathRewriteOptions configures relative reference rewriting.
type PathRewriteOptions struct {
	// BaseDir resolves relative img and a references into file:// URLs.
	BaseDir string
	// BaseURL, when set, is used instead of file:// URLs.
	BaseURL string
	// Media also rewrites video, audio, source and track elements.
	Media bool
}

// PathRewriteEngine rewrites relative references in rendered HTML so the
// output can be opened from another directory.
type PathRewriteEngine struct {
	BaseEngine
	opts pipeline.RewriteOptions
}

// NewPathRewriteEngine returns a whole-document path rewriting engine.
func NewPathRewriteEngine(opts PathRewriteOptions) *PathRewriteEngine {
	e := &PathRewriteEngine{
		BaseEngine: NewBaseEngine("pathrewrite", CapabilityNone),
		opts: pipeline.RewriteOptions{
			SourceDir: opts.BaseDir,
			BaseURL:   opts.BaseURL,
			Media:     opts.Media,
		},
	}
	e.DocHandler = func(ctx context.Context, doc *Document) (string, error) {
		return pipeline.RewriteRelativePaths(ctx, doc.Content(), e.opts)
	}
	return e
}

var _ Engine = (*PathRewriteEngine)(nil)
