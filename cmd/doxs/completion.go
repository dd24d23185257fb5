package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Desc   string
	IsBool bool
	Values []string // enum values
	IsDir  bool
	Glob   string // file glob, e.g. "*.css"
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta holds completion hints the FlagSet cannot carry.
type completionMeta struct {
	Values []string
	Glob   string
	IsDir  bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"log-level":       {Values: []string{"trace", "debug", "info", "warn", "error"}},
	"log-format":      {Values: []string{"console", "json", "pretty"}},
	"front-matter":    {Values: []string{"true", "false"}},
	"style":           {Values: []string{"default", "print"}},
	"parse-order":     {Values: []string{"TxM", "TM", "M", "X", "tmx"}},
	"config":          {Glob: "*.yaml,*.yml,*.toml"},
	"data-file":       {Glob: "*.yaml,*.yml"},
	"css":             {Glob: "*.css"},
	"output":          {IsDir: true},
	"base-dir":        {IsDir: true},
	"template-dir":    {IsDir: true},
	"assets-dir":      {IsDir: true},
	"highlight-style": {Values: []string{"github", "monokai", "dracula", "solarized-light", "nord"}},
}

// extractFlags lists the flags of fs with their completion metadata.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			IsBool: f.Value.Type() == "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.Values = meta.Values
			fd.Glob = meta.Glob
			fd.IsDir = meta.IsDir
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry. Render flags come from the
// same FlagSet the command parses.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "render", Desc: "Render sources to HTML or PDF", Flags: extractFlags(newRenderFlagSet(&renderFlags{}))},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, cmds)
	case ShellZsh:
		return generateZsh(w, cmds)
	case ShellFish:
		return generateFish(w, cmds)
	case ShellPowerShell:
		return generatePowerShell(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for doxs\n")
	b.WriteString("_doxs() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if c.Name == "completion" {
			b.WriteString("    completion)\n")
			b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n")
			b.WriteString("        ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"$prev\" in\n")
		for _, f := range c.Flags {
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", f.Long, strings.Join(f.Values, " "))
			case f.IsDir:
				fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", f.Long)
			case f.Glob != "":
				fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", f.Long)
			}
		}
		b.WriteString("        esac\n")
		fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", longFlags(c.Flags))
		b.WriteString("        [[ ${#COMPREPLY[@]} -eq 0 ]] && COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _doxs doxs\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func longFlags(flags []flagDef) string {
	names := make([]string, 0, len(flags))
	for _, f := range flags {
		names = append(names, "--"+f.Long)
	}
	return strings.Join(names, " ")
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef doxs\n\n")
	b.WriteString("_doxs() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if c.Name == "completion" {
			b.WriteString("    completion) _values 'shell' bash zsh fish powershell ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "            '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		b.WriteString("            '*:file:_files'\n")
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _doxs doxs\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func zshAction(f flagDef) string {
	switch {
	case f.IsBool:
		return ""
	case len(f.Values) > 0:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case f.IsDir:
		return ":directory:_directories"
	case f.Glob != "":
		return ":file:_files"
	default:
		return ":value:"
	}
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return strings.ReplaceAll(s, ":", "\\:")
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for doxs\n")
	b.WriteString("complete -c doxs -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c doxs -n '__fish_use_subcommand' -a %s -d %q\n", c.Name, c.Desc)
	}
	b.WriteString("complete -c doxs -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c doxs -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case f.IsDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case f.Glob != "" || !f.IsBool:
				b.WriteString(" -r -F")
			}
			fmt.Fprintf(&b, " -d %q\n", f.Desc)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func generatePowerShell(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# PowerShell completion for doxs\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName doxs -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    if ($words.Count -le 2) {\n")
	quoted := make([]string, len(cmds))
	for i, c := range cmds {
		quoted[i] = "'" + c.Name + "'"
	}
	fmt.Fprintf(&b, "        $candidates = @(%s)\n", strings.Join(quoted, ", "))
	b.WriteString("    } else {\n")
	b.WriteString("        switch ($words[1]) {\n")
	for _, c := range cmds {
		var names []string
		if c.Name == "completion" {
			names = []string{"bash", "zsh", "fish", "powershell"}
		}
		for _, f := range c.Flags {
			names = append(names, "--"+f.Long)
		}
		if len(names) == 0 {
			continue
		}
		slices.Sort(names)
		for i, n := range names {
			names[i] = "'" + n + "'"
		}
		fmt.Fprintf(&b, "            '%s' { $candidates = @(%s) }\n", c.Name, strings.Join(names, ", "))
	}
	b.WriteString("            default { $candidates = @() }\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxs completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(doxs completion bash)\"")
	fmt.Fprintln(w, "  Zsh:         eval \"$(doxs completion zsh)\"")
	fmt.Fprintln(w, "  Fish:        doxs completion fish > ~/.config/fish/completions/doxs.fish")
	fmt.Fprintln(w, "  PowerShell:  doxs completion powershell | Out-String | Invoke-Expression")
}
