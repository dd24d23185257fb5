package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads {base}/styles/{name}.css and
// {base}/templates/{name}.html. Template files double as partials for the
// template engine's include tag.
type FilesystemLoader struct {
	basePath string // absolute, symlinks resolved
}

// NewFilesystemLoader returns a loader rooted at basePath, which must be a
// readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = real
	}

	info, err := os.Stat(absPath)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadStyle implements AssetLoader.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styleKind, name)
}

// LoadTemplate implements AssetLoader.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templateKind, name)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(f.basePath, filepath.FromSlash(k.file(name)))
	if err := f.contain(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- contained in basePath
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", k.notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// contain rejects paths that resolve, through symlinks, outside basePath.
// Missing files pass and fail later as not found.
func (f *FilesystemLoader) contain(path string) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	if !strings.HasPrefix(path, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
