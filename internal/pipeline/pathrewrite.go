package pipeline

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteOptions controls how relative references are resolved.
type RewriteOptions struct {
	// SourceDir is the directory relative paths are resolved against.
	// Empty disables rewriting.
	SourceDir string

	// BaseURL, when set, replaces file:// output: references become
	// BaseURL joined with the relative path.
	BaseURL string

	// Media also rewrites video, audio, source and track elements.
	Media bool
}

// rewriteTargets maps element names to the attribute holding a reference.
var (
	rewriteTargets = map[string]string{
		"img": "src",
		"a":   "href",
	}
	mediaTargets = map[string]string{
		"video":  "src",
		"audio":  "src",
		"source": "src",
		"track":  "src",
	}
)

// RewriteRelativePaths resolves relative img/a references (and media when
// enabled) against opts.SourceDir.
//
// Not rewritten: srcset, CSS url() references, script[src], absolute paths,
// URLs, anchors, and paths escaping SourceDir.
func RewriteRelativePaths(ctx context.Context, htmlContent string, opts RewriteOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if opts.SourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return "", err
	}

	var base *url.URL
	if opts.BaseURL != "" {
		if base, err = url.Parse(opts.BaseURL); err != nil {
			return "", err
		}
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	r := &rewriter{sourceDir: absSourceDir, base: base, media: opts.Media}
	r.walk(doc)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Parse with a body context so fragments are not wrapped.
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree back. Fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

type rewriter struct {
	sourceDir string
	base      *url.URL
	media     bool
}

func (r *rewriter) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if attr, ok := rewriteTargets[n.Data]; ok {
			r.rewriteAttr(n, attr)
		} else if attr, ok := mediaTargets[n.Data]; ok && r.media {
			r.rewriteAttr(n, attr)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *rewriter) rewriteAttr(n *html.Node, attrName string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(r.sourceDir, attr.Val)
		if !isPathUnderDir(absPath, r.sourceDir) {
			continue
		}

		if r.base != nil {
			rel, err := filepath.Rel(r.sourceDir, absPath)
			if err != nil {
				continue
			}
			n.Attr[i].Val = r.base.JoinPath(filepath.ToSlash(rel)).String()
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}

	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}

	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
