// Package pipeline holds the HTML-producing stages shared by the doxs engines.
//
// Stages:
//   - Markdown preprocessing (line normalization, ==mark== syntax)
//   - Markdown to HTML fragments via Goldmark, with pluggable extenders
//   - ::: directive containers as a Goldmark extension
//   - Relative path rewriting for img/a (and media) references
//   - Standalone page wrapping, CSS and table of contents injection
//
// PDF output lives in internal/pdf. Keeping it out of this package leaves the
// stages free of browser concerns.
package pipeline
