package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"complete", "doxs", "render", "--parse-order", "--front-matter"}},
		{ShellZsh, []string{"#compdef doxs", "render", "--parse-order"}},
		{ShellFish, []string{"complete -c doxs", "parse-order"}},
		{ShellPowerShell, []string{"Register-ArgumentCompleter", "--parse-order"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

func TestExtractFlags(t *testing.T) {
	t.Parallel()

	flags := extractFlags(newRenderFlagSet(&renderFlags{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	if f, ok := byName["output"]; !ok || f.Short != "o" || f.IsBool {
		t.Errorf("output flag = %+v", f)
	}
	if f, ok := byName["pdf"]; !ok || !f.IsBool {
		t.Errorf("pdf flag = %+v", f)
	}
	if _, ok := byName["data"]; !ok {
		t.Error("missing data flag")
	}
}
