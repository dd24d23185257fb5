// Package tmpl holds the pongo2 plumbing behind the template engine:
// an in-memory template loader, a registry for process-wide tags and
// filters, and the switch/case tag.
package tmpl
