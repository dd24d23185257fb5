package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doxs"
	"github.com/alnah/go-doxs/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoFiles            = errors.New("no matching input files")
	ErrInvalidExtension   = errors.New("unsupported input extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// Output extensions.
const (
	extHTML = ".html"
	extPDF  = ".pdf"
)

// FileToRender represents a single file to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles lists the files under inputPath whose extension is in exts.
// A single file must match exts too. Output paths mirror the input tree
// below outputDir and carry outExt.
func discoverFiles(inputPath, outputDir string, exts []string, outExt string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.HasExtension(inputPath, exts) {
			return nil, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidExtension, filepath.Ext(inputPath), strings.Join(exts, ", "))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", outExt)
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && isHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(path) || !fileutil.HasExtension(path, exts) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, outExt)
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for an input file. An
// outputDir ending in outExt names the output file itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir, outExt string) string {
	if outputDir == "" {
		return fileutil.OutputPath(inputPath, "", outExt)
	}

	if strings.EqualFold(filepath.Ext(outputDir), outExt) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return fileutil.OutputPath(inputPath, filepath.Join(outputDir, filepath.Dir(relPath)), outExt)
		}
	}

	return fileutil.OutputPath(inputPath, outputDir, outExt)
}

// isHidden reports whether the last path element starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && strings.HasPrefix(base, ".")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > doxs.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, doxs.MaxPoolSize)
	}
	return nil
}
