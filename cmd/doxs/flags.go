package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// frontMatterOn is what a bare --front-matter expands to.
const frontMatterOn = "true"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// parserFlags holds pipeline flags. Empty strings keep the config value.
type parserFlags struct {
	frontMatter string // "true", "false" or a key for nested mode
	parseOrder  string
	tagTemplate string
	tagMarkdown string
	tagTextile  string
	sanitize    bool
	marks       bool
	baseDir     string
	baseURL     string
	templateDir string
}

// highlightFlags holds code highlighting flags.
type highlightFlags struct {
	style       string
	lineNumbers bool
	disabled    bool
}

// dataFlags holds template data flags.
type dataFlags struct {
	values map[string]string
	file   string
}

// pageFlags holds standalone page flags.
type pageFlags struct {
	standalone bool
	title      string
	lang       string
	style      string
	css        string
	assetsDir  string
	toc        bool
	tocTitle   string
}

// pdfFlags holds PDF output flags.
type pdfFlags struct {
	enabled   bool
	pageSize  string
	landscape bool
	margin    float64
	timeout   string
}

// logFlags holds logging flags.
type logFlags struct {
	level  string
	format string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	output    string
	workers   int
	watch     bool
	parser    parserFlags
	highlight highlightFlags
	data      dataFlags
	page      pageFlags
	pdf       pdfFlags
	log       logFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timings and debug logs")
}

// addParserFlags adds pipeline flags to a FlagSet.
func addParserFlags(fs *flag.FlagSet, f *parserFlags) {
	fs.StringVar(&f.frontMatter, "front-matter", "", "front matter: true, false or a key to nest it under")
	fs.Lookup("front-matter").NoOptDefVal = frontMatterOn
	fs.StringVar(&f.parseOrder, "parse-order", "", "engine codes, e.g. TxM (T M X whole, t m x tag-scoped)")
	fs.StringVar(&f.tagTemplate, "tag-template", "", "template region tag (default tw)")
	fs.StringVar(&f.tagMarkdown, "tag-markdown", "", "markdown region tag (default md)")
	fs.StringVar(&f.tagTextile, "tag-textile", "", "textile region tag (default tx)")
	fs.BoolVar(&f.sanitize, "sanitize", false, "sanitize the final HTML")
	fs.BoolVar(&f.marks, "marks", false, "render ==text== as <mark>")
	fs.StringVar(&f.baseDir, "base-dir", "", "resolve relative img/link paths against this directory")
	fs.StringVar(&f.baseURL, "base-url", "", "rewrite relative paths to this URL instead of file://")
	fs.StringVar(&f.templateDir, "template-dir", "", "directory holding templates/ partials for include")
}

// addHighlightFlags adds highlighting flags to a FlagSet.
func addHighlightFlags(fs *flag.FlagSet, f *highlightFlags) {
	fs.StringVar(&f.style, "highlight-style", "", "chroma style for code blocks (default github)")
	fs.BoolVar(&f.lineNumbers, "line-numbers", false, "number code block lines")
	fs.BoolVar(&f.disabled, "no-highlight", false, "disable code highlighting")
}

// addDataFlags adds template data flags to a FlagSet.
func addDataFlags(fs *flag.FlagSet, f *dataFlags) {
	fs.StringToStringVarP(&f.values, "data", "d", nil, "template data as key=value (repeatable)")
	fs.StringVar(&f.file, "data-file", "", "YAML mapping merged into template data")
}

// addPageFlags adds standalone page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a full HTML page")
	fs.StringVar(&f.title, "title", "", "page title when the document has none")
	fs.StringVar(&f.lang, "lang", "", "page language (default en)")
	fs.StringVar(&f.style, "style", "", "CSS style name")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetsDir, "assets-dir", "", "custom asset directory (styles/, templates/)")
	fs.BoolVar(&f.toc, "toc", false, "insert a table of contents")
	fs.StringVar(&f.tocTitle, "toc-title", "Contents", "table of contents heading")
}

// addPDFFlags adds PDF flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "print pages to PDF with headless Chrome")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: letter, a4, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
}

// addLogFlags adds logging flags to a FlagSet.
func addLogFlags(fs *flag.FlagSet, f *logFlags) {
	fs.StringVar(&f.level, "log-level", "", "trace, debug, info, warn, error")
	fs.StringVar(&f.format, "log-format", "", "console, json, pretty")
}

// newRenderFlagSet registers every render flag on a new FlagSet bound to f.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "re-render when inputs change")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addParserFlags(fs, &f.parser)
	addHighlightFlags(fs, &f.highlight)
	addDataFlags(fs, &f.data)
	addPageFlags(fs, &f.page)
	addPDFFlags(fs, &f.pdf)
	addLogFlags(fs, &f.log)

	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
// Errors and usage go to w.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printRenderUsage(w) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
