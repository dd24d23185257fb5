package doxs

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-doxs/internal/tmpl"
)

// TemplateOptions configures the template engine.
type TemplateOptions struct {
	// NoAutoescape renders variables verbatim instead of HTML-escaping them.
	NoAutoescape bool

	// Partials resolves names used by {% include %} and {% extends %} that
	// are not per-document templates. Nil disables partials.
	Partials func(name string) (string, error)

	// Engine options, exposed through BaseEngine.Options.
	Options map[string]any
}

// TemplateExtension adds pongo2 tags and filters to the template engine.
// Names are registered process-wide once; sets without the extension ban
// them.
type TemplateExtension interface {
	AddOn
	Tags() map[string]pongo2.TagParser
	Filters() map[string]pongo2.FilterFunction
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TemplateEngine renders the Twig-like dialect with pongo2. Each document or
// tag region is stored in a memory loader under a key unique to the call,
// executed with the document data, then removed. Documents sharing an id can
// therefore render concurrently.
type TemplateEngine struct {
	BaseEngine

	opts   TemplateOptions
	loader *tmpl.MemoryLoader
	seq    atomic.Uint64

	// pongo2 marks the set on every compile.
	compileMu sync.Mutex

	mu      sync.Mutex
	set     *pongo2.TemplateSet
	setGen  int
	tags    []string
	filters []string
}

// NewTemplateEngine returns a template engine. An empty tag selects
// whole-document mode.
func NewTemplateEngine(tag string, opts TemplateOptions) *TemplateEngine {
	e := &TemplateEngine{
		BaseEngine: NewBaseEngine("template", CapabilityTemplate),
		opts:       opts,
		loader:     tmpl.NewMemoryLoader(),
	}
	e.TagName = tag
	e.Options = opts.Options
	e.Concurrent = true
	e.DocHandler = func(ctx context.Context, doc *Document) (string, error) {
		return e.render(ctx, doc.ID(), doc.Content(), doc.Data())
	}
	e.TagHandler = func(ctx context.Context, m TagMatch) (string, error) {
		return e.render(ctx, m.ID, m.Content, m.Doc.Data())
	}
	return e
}

// UsePlugin installs a TemplateExtension.
func (e *TemplateEngine) UsePlugin(addon AddOn) error {
	ext, ok := resolveAddOn(e, addon).(TemplateExtension)
	if !ok {
		return fmt.Errorf("%w: %T is not a template extension", ErrAddOnUnsupported, addon)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for name, fn := range ext.Tags() {
		if err := tmpl.RegisterTag(name, fn); err != nil {
			return err
		}
		e.tags = append(e.tags, name)
	}
	for name, fn := range ext.Filters() {
		if err := tmpl.RegisterFilter(name, fn); err != nil {
			return err
		}
		e.filters = append(e.filters, name)
	}

	// Bans are fixed at first compile, so the set is rebuilt lazily.
	e.set = nil
	return nil
}

func (e *TemplateEngine) templateSet() (*pongo2.TemplateSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gen := tmpl.Generation()
	if e.set != nil && e.setGen == gen {
		return e.set, nil
	}

	loaders := []pongo2.TemplateLoader{e.loader}
	if e.opts.Partials != nil {
		loaders = append(loaders, tmpl.NewFuncLoader(e.opts.Partials))
	}

	set, err := tmpl.NewSet("doxs-"+e.Name(), e.tags, e.filters, loaders...)
	if err != nil {
		return nil, err
	}
	e.set = set
	e.setGen = gen
	return set, nil
}

func (e *TemplateEngine) render(ctx context.Context, id, source string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	set, err := e.templateSet()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	if e.opts.NoAutoescape {
		source = "{% autoescape off %}" + source + "{% endautoescape %}"
	}

	key := id + "#" + strconv.FormatUint(e.seq.Add(1), 10)
	e.loader.Set(key, source)
	defer e.loader.Delete(key)

	e.compileMu.Lock()
	t, err := set.FromFile(key)
	e.compileMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateRender, id, err)
	}

	out, err := t.Execute(templateContext(data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateRender, id, err)
	}
	return out, nil
}

// templateContext keeps the keys pongo2 accepts as identifiers.
func templateContext(data map[string]any) pongo2.Context {
	ctx := make(pongo2.Context, len(data))
	for k, v := range data {
		if identifierPattern.MatchString(k) {
			ctx[k] = v
		}
	}
	return ctx
}

var _ Engine = (*TemplateEngine)(nil)
