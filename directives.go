package doxs

import (
	"github.com/yuin/goldmark"

	"github.com/alnah/go-doxs/internal/pipeline"
)

// DirectivesExtension renders fenced containers:
//
//	::: warning Careful
//	Body **markdown**.
//	:::
//
// as <div class="directive directive-warning">. With Names empty every
// directive name is accepted.
type DirectivesExtension struct {
	Names []string
}

// Capability implements AddOn.
func (DirectivesExtension) Capability() Capability { return CapabilityMarkdown }

// MarkdownExtender implements MarkdownExtension.
func (d DirectivesExtension) MarkdownExtender(MarkdownOptions) goldmark.Extender {
	return pipeline.NewDirectives(d.Names...)
}

var _ MarkdownExtension = DirectivesExtension{}
