package doxs

import "errors"

// Sentinel errors for parser operations.
var (
	ErrInvalidContent   = errors.New("invalid content")
	ErrUnknownPlugin    = errors.New("unknown plugin")
	ErrAddOnUnsupported = errors.New("engine does not accept add-ons")
	ErrFrontMatter      = errors.New("front matter decoding failed")

	// Assembly errors.
	ErrInvalidParseOrder = errors.New("invalid parse order")
	ErrInvalidTag        = errors.New("invalid tag name")

	// Render errors, logged by the engines that produce them.
	ErrTemplateRender = errors.New("template rendering failed")
	ErrMarkdownRender = errors.New("markdown rendering failed")
	ErrTextileRender  = errors.New("textile rendering failed")

	ErrPoolClosed = errors.New("parser pool closed")
)
