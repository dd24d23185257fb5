package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader serves the styles and the page template compiled into
// the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader returns a loader over the built-in assets.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: embedded}
}

// LoadStyle implements AssetLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(styleKind, name)
}

// LoadTemplate implements AssetLoader.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(templateKind, name)
}

func (e *EmbeddedLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(e.fsys, k.file(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
