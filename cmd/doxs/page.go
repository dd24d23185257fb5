package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doxs"
	"github.com/alnah/go-doxs/internal/assets"
	"github.com/alnah/go-doxs/internal/config"
	"github.com/alnah/go-doxs/internal/fileutil"
	"github.com/alnah/go-doxs/internal/hints"
	"github.com/alnah/go-doxs/internal/pipeline"
)

// ErrReadCSS indicates the extra CSS file could not be read.
var ErrReadCSS = errors.New("failed to read CSS file")

// metaKeys are copied from document data into <meta> tags.
var metaKeys = []string{"description", "author", "keywords"}

// pageBuilder wraps pipeline output in a full HTML page.
type pageBuilder struct {
	wrapper *pipeline.PageWrapper
	css     string
	toc     *pipeline.TOCData
	title   string
	lang    string
	dataKey string // front matter key in nested mode

	// rewriteDir resolves relative references against each source file's
	// directory, for pages printed from a temp file.
	rewriteDir bool
	baseURL    string

	cssInjector pipeline.CSSInjector
	tocInjector pipeline.TOCInjector
}

// newPageBuilder loads the page template and the style. highlightCSS is
// appended after the style so code blocks keep their colors.
func newPageBuilder(cfg *config.Config, loader assets.AssetLoader, highlightCSS string, toc *pipeline.TOCData, rewriteDir bool) (*pageBuilder, error) {
	tmpl, err := loader.LoadTemplate(assets.DefaultPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	wrapper, err := pipeline.NewPageWrapper(tmpl)
	if err != nil {
		return nil, err
	}

	css, err := resolveCSS(cfg.Style, loader)
	if err != nil {
		return nil, err
	}
	if highlightCSS != "" {
		css += "\n" + highlightCSS
	}

	return &pageBuilder{
		wrapper:     wrapper,
		css:         css,
		toc:         toc,
		title:       cfg.Output.Title,
		lang:        cfg.Output.Lang,
		dataKey:     cfg.Parser.FrontMatterKey,
		rewriteDir:  rewriteDir,
		baseURL:     cfg.Parser.BaseURL,
		cssInjector: &pipeline.CSSInjection{},
		tocInjector: &pipeline.TOCInjection{},
	}, nil
}

// resolveCSS loads the named style and appends the extra CSS file. The
// extra value may also be inline CSS.
func resolveCSS(style config.StyleConfig, loader assets.AssetLoader) (string, error) {
	name := style.Name
	if name == "" {
		name = assets.DefaultStyleName
	}

	css, err := loader.LoadStyle(name)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return "", err
	}

	switch {
	case style.CSSFile == "":
	case fileutil.IsCSS(style.CSSFile):
		css += "\n" + style.CSSFile
	default:
		extra, err := os.ReadFile(style.CSSFile) // #nosec G304 -- user-provided CSS path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		css += "\n" + string(extra)
	}

	return css, nil
}

// build renders doc's content as a standalone page.
func (b *pageBuilder) build(ctx context.Context, doc *doxs.Document, inputPath string) (string, error) {
	body := doc.Content()
	if b.rewriteDir {
		rewritten, err := pipeline.RewriteRelativePaths(ctx, body, pipeline.RewriteOptions{
			SourceDir: filepath.Dir(inputPath),
			BaseURL:   b.baseURL,
			Media:     true,
		})
		if err != nil {
			return "", err
		}
		body = rewritten
	}

	meta := b.metadata(doc)
	page, err := b.wrapper.Wrap(ctx, &pipeline.PageData{
		Title: b.pageTitle(meta, inputPath),
		Lang:  b.pageLang(meta),
		Meta:  metaTags(meta),
		Body:  body,
	})
	if err != nil {
		return "", err
	}

	page = b.cssInjector.InjectCSS(ctx, page, b.css)
	if b.toc != nil {
		return b.tocInjector.InjectTOC(ctx, page, b.toc)
	}
	return page, nil
}

// metadata returns the mapping page fields are read from: the nested front
// matter block when a key is set, the document data otherwise.
func (b *pageBuilder) metadata(doc *doxs.Document) map[string]any {
	if b.dataKey != "" {
		if v, ok := doc.Get(b.dataKey); ok {
			if m, ok := v.(map[string]any); ok {
				return m
			}
		}
		return nil
	}
	return doc.Data()
}

func (b *pageBuilder) pageTitle(meta map[string]any, inputPath string) string {
	if title := stringValue(meta, "title"); title != "" {
		return title
	}
	if b.title != "" {
		return b.title
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (b *pageBuilder) pageLang(meta map[string]any) string {
	if lang := stringValue(meta, "lang"); lang != "" {
		return lang
	}
	return b.lang
}

func metaTags(meta map[string]any) map[string]string {
	tags := make(map[string]string)
	for _, key := range metaKeys {
		if v := stringValue(meta, key); v != "" {
			tags[key] = v
		}
	}
	return tags
}

// stringValue returns meta[key] when it is a non-empty string, or the
// formatted value for scalars.
func stringValue(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
