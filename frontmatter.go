package doxs

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-doxs/internal/yamlutil"
)

const frontMatterMarker = "---"

// DefaultEndMarkers terminate a front matter block. The empty string
// matches a blank line.
var DefaultEndMarkers = []string{"---", "...", ""}

// FrontMatterEngine extracts a leading YAML block into the document data.
//
// With Key set the decoded mapping is stored under Key; otherwise its keys
// are merged into the data bag.
type FrontMatterEngine struct {
	BaseEngine
	Key        string
	EndMarkers []string
}

// NewFrontMatterEngine returns a front matter engine. An empty key selects
// merged mode; no markers selects DefaultEndMarkers.
func NewFrontMatterEngine(key string, endMarkers ...string) *FrontMatterEngine {
	if len(endMarkers) == 0 {
		endMarkers = DefaultEndMarkers
	}
	return &FrontMatterEngine{
		BaseEngine: NewBaseEngine("frontmatter", CapabilityNone),
		Key:        key,
		EndMarkers: slices.Clone(endMarkers),
	}
}

// Parse moves the front matter block from the content into the data bag.
// Unlike other engines the remaining body is always written back, even when
// empty. Decoding failures are returned wrapped in ErrFrontMatter.
func (e *FrontMatterEngine) Parse(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := doc.Content()
	if !strings.HasPrefix(content, frontMatterMarker) {
		return nil
	}

	block, body := splitFrontMatter(content, e.EndMarkers)
	doc.SetContent(body)

	meta, err := yamlutil.UnmarshalMapping([]byte(block))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}

	if e.Key != "" {
		doc.SetData(e.Key, meta)
	} else {
		doc.SetData(meta)
	}

	e.Logger().WithContext(ctx).Debug("front matter extracted", "doc", doc.ID(), "keys", len(meta))
	return nil
}

// splitFrontMatter returns the metadata text, opening marker included, and
// the body following the first end marker. Without an end marker the whole
// remainder is metadata.
func splitFrontMatter(content string, endMarkers []string) (block, body string) {
	lines := strings.Split(content, "\n")

	i := 1
	for ; i < len(lines); i++ {
		if slices.Contains(endMarkers, strings.TrimSuffix(lines[i], "\r")) {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return strings.Join(lines, "\n"), ""
}

var _ Engine = (*FrontMatterEngine)(nil)
