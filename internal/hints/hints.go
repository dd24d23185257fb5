// Package hints appends remediation advice to CLI errors. Every hint reads
// "\n  hint: <text>" so it lines up under the error it follows.
package hints

import (
	"os"
	"slices"
	"strings"

	"github.com/alnah/go-doxs/internal/fileutil"
)

const prefix = "\n  hint: "

// ciVariables are set by common CI runners.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

// IsInContainer reports whether the process runs in Docker. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

func inCI() bool {
	return slices.ContainsFunc(ciVariables, func(name string) bool {
		return os.Getenv(name) != ""
	})
}

// ForBrowserConnect advises on headless Chrome failures during --pdf.
func ForBrowserConnect() string {
	var tips []string
	if os.Getenv("ROD_NO_SANDBOX") != "1" && (inCI() || IsInContainer()) {
		tips = append(tips, "set ROD_NO_SANDBOX=1 when printing PDFs in Docker or CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		tips = append(tips, "set ROD_BROWSER_BIN to a local Chrome, or drop --pdf to write HTML")
	}
	return join(tips...)
}

// ForTimeout advises on pages that take too long to print.
func ForTimeout() string {
	return join("raise --timeout (e.g. 2m) for long documents")
}

// ForConfigNotFound suggests --config, or creating the user-level file
// among searched.
func ForConfigNotFound(searched []string) string {
	tip := "pass --config /path/to/doxs.yaml"
	if i := slices.IndexFunc(searched, func(p string) bool {
		return strings.Contains(p, ".config/doxs")
	}); i >= 0 {
		tip += " or create " + searched[i]
	}
	return join(tip)
}

// ForOutputDirectory advises on output write failures.
func ForOutputDirectory() string {
	return join("check that the parent directory of --output exists and is writable")
}

// ForStyleNotFound lists the styles that exist. Nothing is suggested when
// available is empty.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return join("available styles: " + strings.Join(available, ", "))
}

// ForFrontMatter explains the expected front matter block.
func ForFrontMatter() string {
	return join("front matter must be a YAML mapping closed by ---, ... or a blank line")
}

// ForParseOrder lists the engine codes.
func ForParseOrder() string {
	return join("codes: T template, M markdown, X textile; lowercase runs on tag regions only (e.g. TxM)")
}

// join renders tips as one hint line. No tips yields "".
func join(tips ...string) string {
	if len(tips) == 0 {
		return ""
	}
	return prefix + strings.Join(tips, "; ")
}
