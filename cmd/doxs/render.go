package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-doxs"
	"github.com/alnah/go-doxs/internal/assets"
	"github.com/alnah/go-doxs/internal/config"
	"github.com/alnah/go-doxs/internal/hints"
	"github.com/alnah/go-doxs/internal/logging"
	"github.com/alnah/go-doxs/internal/pdf"
	"github.com/alnah/go-doxs/internal/pipeline"
	"github.com/alnah/go-doxs/internal/yamlutil"
)

// Sentinel errors for the render command.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrInvalidData = errors.New("invalid template data")
)

// runRender orchestrates a render run: configuration, discovery, the batch
// and, with --watch, the rebuild loop.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return render(ctx, flags, positional, env)
}

func render(ctx context.Context, flags *renderFlags, positional []string, env *Environment) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	provider, err := newLogProvider(cfg.Log, env.Stderr, flags.common.verbose, flags.common.quiet)
	if err != nil {
		return err
	}
	log := logging.ModuleLogger(provider, "cli")

	data, err := loadData(flags.data)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	outExt := extHTML
	if cfg.PDF.Enabled {
		outExt = extPDF
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, cfg.Input.Extensions, outExt)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !flags.watch {
		return fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	resolver, err := assets.NewAssetResolver(cfg.Style.AssetsDir)
	if err != nil {
		return err
	}

	highlight := highlightExtension(cfg.Parser.Highlight)
	opts, err := parserOptions(cfg, highlight, provider, flags.page.toc)
	if err != nil {
		return err
	}

	job := &renderJob{data: data, log: log, now: env.Now, dumpData: flags.common.verbose}

	if cfg.Output.Standalone || cfg.PDF.Enabled {
		highlightCSS := ""
		if highlight != nil && !highlight.Inline {
			if highlightCSS, err = highlight.CSS(); err != nil {
				return err
			}
		}
		var toc *pipeline.TOCData
		if flags.page.toc {
			toc = &pipeline.TOCData{Title: flags.page.tocTitle}
		}
		// Chrome loads PDF pages from a temp file, so relative references
		// must become absolute unless the parser already rewrites them.
		rewrite := cfg.PDF.Enabled && cfg.Parser.BaseDir == ""
		if job.page, err = newPageBuilder(cfg, resolver, highlightCSS, toc, rewrite); err != nil {
			return err
		}
	}

	if cfg.PDF.Enabled {
		timeout, err := resolveTimeout(cfg.PDF.Timeout)
		if err != nil {
			return err
		}
		job.pdf = env.NewPDFRenderer(timeout)
		defer job.pdf.Close()
		job.pdfOpt = pdf.Options{
			PageSize:  cfg.PDF.PageSize,
			Landscape: cfg.PDF.Landscape,
			Margin:    cfg.PDF.Margin,
		}
	}

	poolSize := doxs.ResolvePoolSize(workers)
	log.Debug("pool ready", "size", poolSize, "files", len(files))
	pool := doxs.NewParserPool(poolSize, opts...)
	defer pool.Close()

	// Surface option errors before the batch starts.
	parser, err := pool.Acquire(ctx)
	if err != nil {
		if errors.Is(err, doxs.ErrInvalidParseOrder) {
			return fmt.Errorf("%w%s", err, hints.ForParseOrder())
		}
		return err
	}
	pool.Release(parser)

	results := renderBatch(ctx, pool, files, job)
	printResults(results, flags.common.quiet, flags.common.verbose, env)
	if err := batchError(results); err != nil && !flags.watch {
		return withHint(err)
	}

	if flags.watch {
		w := &watcher{
			root:      inputPath,
			outputDir: outputDir,
			exts:      cfg.Input.Extensions,
			outExt:    outExt,
			log:       log,
			onChange: func(changed []FileToRender) {
				results := renderBatch(ctx, pool, changed, job)
				printResults(results, flags.common.quiet, flags.common.verbose, env)
			},
		}
		return w.run(ctx)
	}
	return nil
}

// loadConfig loads the config named by the flag or DOXS_CONFIG, or the
// defaults when neither is set.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configSearchPaths lists where a config name is looked up, for hints.
func configSearchPaths(name string) []string {
	paths := []string{name + ".yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "doxs", name+".yaml"))
	}
	return paths
}

// mergeFlags overrides config values with flags that were set.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	p := flags.parser
	if p.frontMatter != "" {
		applyFrontMatterMode(p.frontMatter, cfg)
	}
	if p.parseOrder != "" {
		cfg.Parser.ParseOrder = p.parseOrder
	}
	if p.tagTemplate != "" {
		cfg.Parser.Tags.Template = p.tagTemplate
	}
	if p.tagMarkdown != "" {
		cfg.Parser.Tags.Markdown = p.tagMarkdown
	}
	if p.tagTextile != "" {
		cfg.Parser.Tags.Textile = p.tagTextile
	}
	if p.sanitize {
		cfg.Parser.Sanitize = true
	}
	if p.marks {
		cfg.Parser.Marks = true
	}
	if p.baseDir != "" {
		cfg.Parser.BaseDir = p.baseDir
	}
	if p.baseURL != "" {
		cfg.Parser.BaseURL = p.baseURL
	}
	if p.templateDir != "" {
		cfg.Parser.TemplateDir = p.templateDir
	}

	h := flags.highlight
	if h.disabled {
		off := false
		cfg.Parser.Highlight.Enabled = &off
	}
	if h.style != "" {
		cfg.Parser.Highlight.Style = h.style
	}
	if h.lineNumbers {
		cfg.Parser.Highlight.LineNumbers = true
	}

	pg := flags.page
	if pg.standalone {
		cfg.Output.Standalone = true
	}
	if pg.title != "" {
		cfg.Output.Title = pg.title
	}
	if pg.lang != "" {
		cfg.Output.Lang = pg.lang
	}
	if pg.style != "" {
		cfg.Style.Name = pg.style
	}
	if pg.css != "" {
		cfg.Style.CSSFile = pg.css
	}
	if pg.assetsDir != "" {
		cfg.Style.AssetsDir = pg.assetsDir
	}

	pd := flags.pdf
	if pd.enabled {
		cfg.PDF.Enabled = true
	}
	if pd.pageSize != "" {
		cfg.PDF.PageSize = pd.pageSize
	}
	if pd.landscape {
		cfg.PDF.Landscape = true
	}
	if pd.margin > 0 {
		cfg.PDF.Margin = pd.margin
	}
	if pd.timeout != "" {
		cfg.PDF.Timeout = pd.timeout
	}

	if flags.log.level != "" {
		cfg.Log.Level = flags.log.level
	}
	if flags.log.format != "" {
		cfg.Log.Format = flags.log.format
	}
}

// highlightExtension returns the configured highlight add-on, or nil when
// highlighting is off.
func highlightExtension(h config.HighlightConfig) *doxs.HighlightExtension {
	if !h.IsEnabled() {
		return nil
	}
	return &doxs.HighlightExtension{
		Style:       h.Style,
		LineNumbers: h.LineNumbers,
		Inline:      h.Inline,
	}
}

// parserOptions translates the config into doxs options.
func parserOptions(cfg *config.Config, highlight *doxs.HighlightExtension, provider logging.Provider, headingIDs bool) ([]doxs.Option, error) {
	p := cfg.Parser
	opts := []doxs.Option{
		doxs.WithLogger(logging.ModuleLogger(provider, "parser")),
		doxs.WithTags(p.Tags.Template, p.Tags.Markdown, p.Tags.Textile),
		doxs.WithMarkdownOptions(doxs.MarkdownOptions{
			Marks:      p.Marks,
			HeadingIDs: headingIDs,
		}),
	}
	if p.ParseOrder != "" {
		opts = append(opts, doxs.WithParseOrder(p.ParseOrder))
	}

	switch {
	case p.FrontMatterKey != "":
		opts = append(opts, doxs.WithFrontMatterKey(p.FrontMatterKey))
	case p.FrontMatter:
		opts = append(opts, doxs.WithFrontMatter())
	}
	if len(p.EndMarkers) > 0 {
		opts = append(opts, doxs.WithFrontMatterEndMarkers(p.EndMarkers...))
	}

	addOns := []any{doxs.DirectivesExtension{Names: p.Directives}, doxs.SwitchExtension{}, doxs.DateExtension{}}
	if highlight != nil {
		addOns = append(addOns, *highlight)
	}
	opts = append(opts, doxs.WithAddOns(addOns...))

	if p.TemplateDir != "" {
		partials, err := assets.NewAssetResolver(p.TemplateDir)
		if err != nil {
			return nil, fmt.Errorf("template dir: %w", err)
		}
		opts = append(opts, doxs.WithTemplateOptions(doxs.TemplateOptions{
			Partials: func(name string) (string, error) {
				return partials.LoadTemplate(strings.TrimSuffix(name, ".html"))
			},
		}))
	}

	if p.Sanitize {
		opts = append(opts, doxs.WithSanitize(doxs.SanitizeOptions{}))
	}
	if p.BaseDir != "" {
		opts = append(opts, doxs.WithPathRewrite(doxs.PathRewriteOptions{
			BaseDir: p.BaseDir,
			BaseURL: p.BaseURL,
			Media:   true,
		}))
	}

	return opts, nil
}

// loadData merges --data-file and --data. Flag pairs win.
func loadData(f dataFlags) (map[string]any, error) {
	data := make(map[string]any)
	if f.file != "" {
		raw, err := os.ReadFile(f.file) // #nosec G304 -- user-provided data file
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		m, err := yamlutil.UnmarshalMapping(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidData, f.file, err)
		}
		for k, v := range m {
			data[k] = v
		}
	}
	for k, v := range f.values {
		if k == "" {
			return nil, fmt.Errorf("%w: empty key in --data", ErrInvalidData)
		}
		data[k] = v
	}
	return data, nil
}

// resolveInputPath returns the positional input, or the configured
// default directory.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir picks the output flag over the configured directory.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveTimeout parses the PDF timeout. Empty means the default.
func resolveTimeout(value string) (time.Duration, error) {
	if value == "" {
		return pdf.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: timeout %q", ErrUsage, value)
	}
	return d, nil
}

// withHint appends a remediation hint for the errors that have one.
func withHint(err error) error {
	switch {
	case errors.Is(err, pdf.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, pdf.ErrPageLoad):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, doxs.ErrFrontMatter):
		return fmt.Errorf("%w%s", err, hints.ForFrontMatter())
	case errors.Is(err, ErrWriteOutput):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}
