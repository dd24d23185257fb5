package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeAssets creates files below dir, keyed by slash-separated path.
func writeAssets(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"directory", t.TempDir(), false},
		{"empty", "", true},
		{"missing", filepath.Join(t.TempDir(), "nope"), true},
		{"regular file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if tt.wantErr && !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("error = %v, want ErrInvalidBasePath", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssets(t, dir, map[string]string{
		"styles/brand.css":      ".brand{}",
		"templates/header.html": "<header>{{ title }}</header>",
	})
	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	if got, err := loader.LoadStyle("brand"); err != nil || got != ".brand{}" {
		t.Errorf("LoadStyle(brand) = %q, %v", got, err)
	}
	if got, err := loader.LoadTemplate("header"); err != nil || got != "<header>{{ title }}</header>" {
		t.Errorf("LoadTemplate(header) = %q, %v", got, err)
	}
	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v", err)
	}
	if _, err := loader.LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v", err)
	}
	if _, err := loader.LoadTemplate("../header"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(../header) error = %v", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssets(t, dir, map[string]string{"styles/.keep": ""})
	secret := filepath.Join(t.TempDir(), "secret.css")
	if err := os.WriteFile(secret, []byte("secret"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(secret, filepath.Join(dir, "styles", "evil.css")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(evil) error = %v, want ErrPathTraversal", err)
	}
}
