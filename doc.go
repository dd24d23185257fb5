// Package doxs renders documents that mix several markup dialects into a
// single HTML string.
//
// # Quick Start
//
//	p, err := doxs.New(doxs.WithFrontMatter())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html, err := p.Parse(ctx, "---\nname: Alex\n---\n# Hello {{ name }}", nil)
//
// # Pipeline
//
// A Parser holds an ordered list of engines. Each engine reads the
// Document content, renders it and writes the result back when it is not
// blank. Engines run one after another; each sees the output of the
// previous one.
//
// The default assembly follows the parse order "TxM":
//
//  1. Front matter, when enabled: a leading "---" YAML block moves into the
//     document data.
//  2. T: the template dialect (pongo2, Twig-like syntax) over the whole
//     document, with the document data as context.
//  3. x: Textile inside <tx>...</tx> regions.
//  4. M: Markdown (goldmark, GFM and footnotes) over the whole document.
//
// Upper case codes work on the whole document; lower case codes work on
// tag regions only (<tw>, <md>, <tx> by default, see WithTags).
//
// # Add-ons
//
// Add-ons extend engines rather than the pipeline. Parser.Use hands an
// add-on to every installed engine declaring the same Capability:
//
//	p.Use(doxs.HighlightExtension{Style: "monokai"})
//
// Built-in add-ons are DirectivesExtension and HighlightExtension for
// Markdown, SwitchExtension and DateExtension for templates.
//
// # Custom Engines
//
// Embed BaseEngine and set DocHandler or TagHandler:
//
//	type shout struct{ doxs.BaseEngine }
//
//	e := &shout{BaseEngine: doxs.NewBaseEngine("shout", doxs.CapabilityNone)}
//	e.DocHandler = func(ctx context.Context, d *doxs.Document) (string, error) {
//	    return strings.ToUpper(d.Content()), nil
//	}
//	p.At(0).Use(e)
//
// # Errors
//
// Render faults inside an engine are logged and leave the document
// unchanged; Parse only fails on invalid input, front matter that is not
// a YAML mapping, and context cancellation.
package doxs
