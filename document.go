package doxs

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var nonWordRuns = regexp.MustCompile(`\W+`)

// Document is the unit of work flowing through a Parser. Content changes are
// recorded in an append-only history; data is merged additively.
type Document struct {
	mu      sync.RWMutex
	id      string
	content string
	history []string
	data    map[string]any
}

// NewDocument returns a Document holding the trimmed content and a copy of
// data. The identity is derived once, here, and never changes afterwards.
func NewDocument(content string, data map[string]any) *Document {
	d := &Document{
		content: strings.TrimSpace(content),
		data:    make(map[string]any, len(data)),
	}
	maps.Copy(d.data, data)
	d.id = documentID(d.data)
	return d
}

// documentID picks the first usable identity from data["id"] then
// data["_id"], falling back to a time-ordered UUID.
func documentID(data map[string]any) string {
	for _, key := range []string{"id", "_id"} {
		if id := idString(data[key]); id != "" {
			return id
		}
	}

	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case map[string]any:
		if oid, ok := id["$oid"].(string); ok && oid != "" {
			return oid
		}
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return nonWordRuns.ReplaceAllString(string(encoded), "_")
}

// ID returns the document identity.
func (d *Document) ID() string {
	return d.id
}

// Content returns the current content.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// SetContent replaces the content and reports whether it changed. The
// previous value is appended to the history only on change.
func (d *Document) SetContent(s string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s == d.content {
		return false
	}
	d.history = append(d.history, d.content)
	d.content = s
	return true
}

// History returns previous content values, oldest first.
func (d *Document) History() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.history)
}

// Data returns a shallow copy of the data bag.
func (d *Document) Data() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.data)
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.data[key]
	return v, ok
}

// SetData merges its arguments into the data bag, left to right. Maps are
// merged key by key; a string followed by a value sets that key. A trailing
// key without a value and arguments of any other type are ignored.
func (d *Document) SetData(args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case map[string]any:
			maps.Copy(d.data, arg)
		case map[string]string:
			for k, v := range arg {
				d.data[k] = v
			}
		case string:
			if i+1 < len(args) {
				d.data[arg] = args[i+1]
				i++
			}
		}
	}
}

// DelData removes keys from the data bag. Missing keys are ignored.
func (d *Document) DelData(keys ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, key := range keys {
		delete(d.data, key)
	}
}
