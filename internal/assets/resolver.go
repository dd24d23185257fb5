package assets

import "errors"

// AssetResolver reads assets from an optional user directory and falls back
// to the embedded set for names the directory does not provide.
type AssetResolver struct {
	layers []AssetLoader // searched in order, embedded last
}

var _ AssetLoader = (*AssetResolver)(nil)

// NewAssetResolver returns a resolver over dir and the embedded assets. An
// empty dir resolves embedded assets only.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// LoadStyle returns the CSS for name.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate returns the page template or partial called name.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// first moves to the next layer only on not-found. Invalid names and read
// failures stop the search.
func (r *AssetResolver) first(load func(AssetLoader) (string, error)) (string, error) {
	var err error
	for _, l := range r.layers {
		var content string
		if content, err = load(l); err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrStyleNotFound) && !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}
	return "", err
}
