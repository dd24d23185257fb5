package assets

import (
	"io/fs"
	"strings"
)

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"

// DefaultPageTemplate is the name of the built-in standalone page template.
const DefaultPageTemplate = "page"

// kind locates one asset family below a base directory.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name within its family.
func (k kind) file(name string) string {
	return k.dir + "/" + name + k.ext
}

// StyleNames lists the built-in styles, sorted.
func StyleNames() []string {
	entries, err := fs.ReadDir(embedded, styleKind.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), styleKind.ext); ok {
			names = append(names, name)
		}
	}
	return names
}
