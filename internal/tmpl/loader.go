package tmpl

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// ErrTemplateNotFound is returned when a loader has no source for a name.
var ErrTemplateNotFound = errors.New("template not found")

// MemoryLoader serves template sources stored under ids.
// It is safe for concurrent use.
type MemoryLoader struct {
	mu        sync.RWMutex
	templates map[string]string
}

// NewMemoryLoader returns an empty loader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{templates: make(map[string]string)}
}

// Set stores src under id, replacing any previous source.
func (l *MemoryLoader) Set(id, src string) {
	l.mu.Lock()
	l.templates[id] = src
	l.mu.Unlock()
}

// Delete removes id. Unknown ids are ignored.
func (l *MemoryLoader) Delete(id string) {
	l.mu.Lock()
	delete(l.templates, id)
	l.mu.Unlock()
}

// Len returns the number of stored templates.
func (l *MemoryLoader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}

// Abs returns name unchanged: ids are flat.
func (l *MemoryLoader) Abs(_, name string) string {
	return name
}

// Get returns the source stored under path.
func (l *MemoryLoader) Get(path string) (io.Reader, error) {
	l.mu.RLock()
	src, ok := l.templates[path]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, path)
	}
	return strings.NewReader(src), nil
}

// SourceFunc loads a named template source, typically from an asset store.
type SourceFunc func(name string) (string, error)

// FuncLoader adapts a SourceFunc to pongo2's loader contract. It backs
// {% include %} lookups that miss the memory loader.
type FuncLoader struct {
	load SourceFunc
}

// NewFuncLoader wraps load.
func NewFuncLoader(load SourceFunc) *FuncLoader {
	return &FuncLoader{load: load}
}

// Abs returns name unchanged; the SourceFunc owns path resolution.
func (l *FuncLoader) Abs(_, name string) string {
	return name
}

// Get loads path through the SourceFunc.
func (l *FuncLoader) Get(path string) (io.Reader, error) {
	src, err := l.load(path)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(src), nil
}

var (
	_ pongo2.TemplateLoader = (*MemoryLoader)(nil)
	_ pongo2.TemplateLoader = (*FuncLoader)(nil)
)
