package pipeline

import (
	"bytes"
	"html"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindDirective is the AST kind of a fenced directive container.
var KindDirective = ast.NewNodeKind("Directive")

// Directive is a ":::name [title]" ... ":::" container block.
// Nested directives are not supported: the first closing fence closes the
// outermost open container.
type Directive struct {
	ast.BaseBlock
	Name  string
	Title string
}

// Kind implements ast.Node.
func (n *Directive) Kind() ast.NodeKind {
	return KindDirective
}

// Dump implements ast.Node.
func (n *Directive) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Title": n.Title}, nil)
}

var (
	directiveOpen  = regexp.MustCompile(`^:::[ \t]*([A-Za-z][\w-]*)(?:[ \t]+(.*?))?[ \t]*$`)
	directiveClose = regexp.MustCompile(`^:::[ \t]*$`)
)

type directiveParser struct {
	allowed map[string]bool
}

func (p *directiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos > 3 {
		return nil, parser.NoChildren
	}

	m := directiveOpen.FindSubmatch(trimEOL(line[pos:]))
	if m == nil {
		return nil, parser.NoChildren
	}
	name := string(m[1])
	if len(p.allowed) > 0 && !p.allowed[name] {
		return nil, parser.NoChildren
	}

	reader.Advance(lineAdvance(line, segment))
	return &Directive{Name: name, Title: string(m[2])}, parser.HasChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && pos < len(line) && directiveClose.Match(trimEOL(line[pos:])) {
		reader.Advance(lineAdvance(line, segment))
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *directiveParser) CanInterruptParagraph() bool {
	return true
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

// lineAdvance consumes a line but leaves its newline, which tells goldmark
// nothing else opens on this line.
func lineAdvance(line []byte, segment text.Segment) int {
	n := segment.Len()
	if n > 0 && len(line) > 0 && line[len(line)-1] == '\n' {
		n--
	}
	return n
}

func trimEOL(line []byte) []byte {
	return bytes.TrimRight(line, "\r\n")
}

type directiveRenderer struct{}

func (r *directiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDirective, r.renderDirective)
}

func (r *directiveRenderer) renderDirective(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Directive)
	if !entering {
		_, _ = w.WriteString("</div>\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<div class="directive directive-` + html.EscapeString(n.Name) + "\">\n")
	if n.Title != "" {
		_, _ = w.WriteString(`<p class="directive-title">` + html.EscapeString(n.Title) + "</p>\n")
	}
	return ast.WalkContinue, nil
}

type directiveExtension struct {
	allowed map[string]bool
}

// NewDirectives returns a goldmark extension for fenced ":::" directives.
// With no names every directive is accepted; otherwise only the listed ones.
func NewDirectives(names ...string) goldmark.Extender {
	allowed := make(map[string]bool, len(names))
	for _, name := range names {
		allowed[name] = true
	}
	return &directiveExtension{allowed: allowed}
}

func (e *directiveExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&directiveParser{allowed: e.allowed}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&directiveRenderer{}, 500),
	))
}

var _ parser.BlockParser = (*directiveParser)(nil)
