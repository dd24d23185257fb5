package main

import (
	"errors"
	"os"

	"github.com/alnah/go-doxs"
	"github.com/alnah/go-doxs/internal/assets"
	"github.com/alnah/go-doxs/internal/config"
	"github.com/alnah/go-doxs/internal/pdf"
)

// Exit codes for the doxs CLI.
// 0=success, 1=general, 2=usage, then custom codes below 126.
const (
	ExitSuccess = 0 // every file rendered
	ExitGeneral = 1 // unexpected error
	ExitUsage   = 2 // invalid flags, config or validation
	ExitIO      = 3 // missing input, permission denied, write failure
	ExitRender  = 4 // pipeline or browser failure
)

// exitCodeFor maps err to an exit code. Callers wrap with %w so errors.Is
// sees the sentinel.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidData) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, doxs.ErrInvalidParseOrder) ||
		errors.Is(err, doxs.ErrInvalidTag) ||
		errors.Is(err, pdf.ErrInvalidPageSize) ||
		errors.Is(err, pdf.ErrInvalidMargin) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	if errors.Is(err, ErrRenderFailed) ||
		errors.Is(err, doxs.ErrFrontMatter) ||
		errors.Is(err, doxs.ErrTemplateRender) ||
		errors.Is(err, doxs.ErrMarkdownRender) ||
		errors.Is(err, doxs.ErrTextileRender) ||
		errors.Is(err, pdf.ErrBrowserConnect) ||
		errors.Is(err, pdf.ErrPageCreate) ||
		errors.Is(err, pdf.ErrPageLoad) ||
		errors.Is(err, pdf.ErrPDFGeneration) {
		return ExitRender
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
