package hints

import (
	"strings"
	"testing"
)

// ForBrowserConnect tests set environment variables and swap IsInContainer,
// so they run sequentially.
func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name       string
		container  bool
		env        map[string]string
		contains   []string
		notContain []string
	}{
		{
			name:     "CI without sandbox setting",
			env:      map[string]string{"CI": "true"},
			contains: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "--pdf"},
		},
		{
			name:      "docker",
			container: true,
			contains:  []string{"ROD_NO_SANDBOX"},
		},
		{
			name:       "sandbox already off",
			container:  true,
			env:        map[string]string{"ROD_NO_SANDBOX": "1"},
			notContain: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:       "local run with browser set",
			env:        map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chrome"},
			notContain: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := IsInContainer
			t.Cleanup(func() { IsInContainer = orig })
			IsInContainer = func() bool { return tt.container }

			for _, name := range append(ciVariables, "ROD_NO_SANDBOX", "ROD_BROWSER_BIN") {
				t.Setenv(name, tt.env[name])
			}

			hint := ForBrowserConnect()
			for _, want := range tt.contains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint %q missing %q", hint, want)
				}
			}
			for _, bad := range tt.notContain {
				if strings.Contains(hint, bad) {
					t.Errorf("hint %q should not mention %q", hint, bad)
				}
			}
		})
	}
}

func TestForBrowserConnect_NothingToSuggest(t *testing.T) {
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chrome")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("ForBrowserConnect() = %q, want empty", hint)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hint string
		want []string
	}{
		{"timeout", ForTimeout(), []string{"--timeout"}},
		{"output directory", ForOutputDirectory(), []string{"--output", "writable"}},
		{"front matter", ForFrontMatter(), []string{"YAML mapping", "---"}},
		{"parse order", ForParseOrder(), []string{"T template", "M markdown", "X textile", "TxM"}},
		{"config without user path", ForConfigNotFound(nil), []string{"--config"}},
		{"config with user path", ForConfigNotFound([]string{"site.yaml", "/home/u/.config/doxs/site.yaml"}), []string{"create /home/u/.config/doxs/site.yaml"}},
		{"styles", ForStyleNotFound([]string{"default", "print"}), []string{"default, print"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.hint, "\n  hint: ") {
				t.Errorf("hint %q lacks the hint prefix", tt.hint)
			}
			for _, want := range tt.want {
				if !strings.Contains(tt.hint, want) {
					t.Errorf("hint %q missing %q", tt.hint, want)
				}
			}
		})
	}
}

func TestForStyleNotFound_NoneAvailable(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", hint)
	}
}
