package tmpl

import (
	"fmt"
	"slices"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// pongo2 keeps tags and filters in process-wide maps and refuses to
// register a name twice. The registry remembers what this package added so
// repeated installs are no-ops and template sets can ban what they lack.
var registry = struct {
	mu         sync.Mutex
	generation int
	tags       map[string]bool
	filters    map[string]bool
}{
	tags:    make(map[string]bool),
	filters: make(map[string]bool),
}

// RegisterTag registers fn under name once. Registering a name that pongo2
// already ships (or that another package added) is an error.
func RegisterTag(name string, fn pongo2.TagParser) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.tags[name] {
		return nil
	}
	if err := pongo2.RegisterTag(name, fn); err != nil {
		return fmt.Errorf("registering tag %q: %w", name, err)
	}
	registry.tags[name] = true
	registry.generation++
	return nil
}

// RegisterFilter registers fn under name once.
func RegisterFilter(name string, fn pongo2.FilterFunction) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.filters[name] {
		return nil
	}
	if err := pongo2.RegisterFilter(name, fn); err != nil {
		return fmt.Errorf("registering filter %q: %w", name, err)
	}
	registry.filters[name] = true
	registry.generation++
	return nil
}

// Generation changes every time a new tag or filter is registered. Sets
// built at an older generation do not ban the newer names.
func Generation() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.generation
}

// RegisteredTags returns the sorted tag names added through RegisterTag.
func RegisteredTags() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return sortedKeys(registry.tags)
}

// RegisteredFilters returns the sorted filter names added through RegisterFilter.
func RegisteredFilters() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return sortedKeys(registry.filters)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// NewSet builds a template set over loaders and bans every registered tag
// and filter not listed in allowTags / allowFilters. Bans must happen before
// the set compiles its first template, so callers rebuild the set whenever
// the allowed lists change.
func NewSet(name string, allowTags, allowFilters []string, loaders ...pongo2.TemplateLoader) (*pongo2.TemplateSet, error) {
	set := pongo2.NewSet(name, loaders...)

	for _, tag := range RegisteredTags() {
		if slices.Contains(allowTags, tag) {
			continue
		}
		if err := set.BanTag(tag); err != nil {
			return nil, fmt.Errorf("banning tag %q: %w", tag, err)
		}
	}
	for _, filter := range RegisteredFilters() {
		if slices.Contains(allowFilters, filter) {
			continue
		}
		if err := set.BanFilter(filter); err != nil {
			return nil, fmt.Errorf("banning filter %q: %w", filter, err)
		}
	}
	return set, nil
}
