package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-doxs"
	"github.com/alnah/go-doxs/internal/logging"
	"github.com/alnah/go-doxs/internal/pdf"
	"github.com/alnah/go-doxs/internal/yamlutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadInput    = errors.New("failed to read input file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrRenderFailed = errors.New("rendering failed")
)

// Pool abstracts parser pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (*doxs.Parser, error)
	Release(*doxs.Parser)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*doxs.ParserPool)(nil)

// RenderResult holds the outcome of a single file.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderJob groups what every file of a batch shares.
type renderJob struct {
	data   map[string]any
	page   *pageBuilder // nil writes the bare fragment
	pdf    PDFRenderer  // nil writes HTML
	pdfOpt pdf.Options
	log    logging.Logger
	now    func() time.Time // timing clock, time.Now when nil

	// dumpData logs each document's merged data as YAML after parsing.
	dumpData bool
}

func (j *renderJob) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}

// renderBatch renders files concurrently, at most pool.Size() at a time.
// Results keep the order of files.
func renderBatch(ctx context.Context, pool Pool, files []FileToRender, job *renderJob) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]RenderResult, len(files))

	var g errgroup.Group
	g.SetLimit(min(pool.Size(), len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = RenderResult{InputPath: f.InputPath, Err: err}
				return nil
			}

			parser, err := pool.Acquire(ctx)
			if err != nil {
				results[i] = RenderResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			defer pool.Release(parser)

			results[i] = renderFile(ctx, parser, f, job)
			return nil
		})
	}

	_ = g.Wait() // workers record errors in results
	return results
}

// renderFile runs one file through the parser and writes the output.
func renderFile(ctx context.Context, parser *doxs.Parser, f FileToRender, job *renderJob) RenderResult {
	start := job.clock()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = job.clock().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	doc := parser.Load(string(content), maps.Clone(job.data))
	if err := parser.ParseDocument(ctx, doc); err != nil {
		return fail(err)
	}
	output := doc.Content()
	if job.dumpData {
		logData(job.log, f.InputPath, doc)
	}

	if job.page != nil {
		if output, err = job.page.build(ctx, doc, f.InputPath); err != nil {
			return fail(err)
		}
	}

	var raw []byte
	if job.pdf != nil {
		if raw, err = job.pdf.ToPDF(ctx, output, job.pdfOpt); err != nil {
			return fail(err)
		}
	} else {
		raw = []byte(output)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err))
	}
	// #nosec G306 -- rendered pages are meant to be readable
	if err := os.WriteFile(f.OutputPath, raw, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	job.log.Debug("rendered", "input", f.InputPath, "output", f.OutputPath, "doc", doc.ID())
	result.Duration = job.clock().Sub(start)
	return result
}

// logData writes the data a document ended with, front matter included.
func logData(log logging.Logger, input string, doc *doxs.Document) {
	out, err := yamlutil.Marshal(doc.Data())
	if err != nil {
		log.Debug("document data not printable", "input", input, "error", err)
		return
	}
	log.Debug("document data", "input", input, "yaml", string(out))
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults writes one line per file and a summary for batches. It
// returns the number of failures.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// batchError summarizes failures as an error. A single failure keeps its
// cause so the exit code reflects it.
func batchError(results []RenderResult) error {
	var failed []error
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err)
		}
	}
	switch len(failed) {
	case 0:
		return nil
	case 1:
		if len(results) == 1 {
			return failed[0]
		}
	}
	return fmt.Errorf("%w: %d of %d file(s)", ErrRenderFailed, len(failed), len(results))
}
