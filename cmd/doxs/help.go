package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxs <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render template, markdown and textile sources to HTML or PDF")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'doxs help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxs render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run each source through the parser pipeline: front matter, then the")
	fmt.Fprintln(w, "engines in parse order, then sanitizing and path rewriting.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --watch               Re-render when inputs change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pipeline:")
	fmt.Fprintln(w, "      --front-matter[=v]    true, false, or a key to nest the data under")
	fmt.Fprintln(w, "      --parse-order <s>     Engine codes (default TxM)")
	fmt.Fprintln(w, "                            T template, M markdown, X textile")
	fmt.Fprintln(w, "                            Lowercase runs on tag regions only")
	fmt.Fprintln(w, "      --tag-template <s>    Template region tag (default tw)")
	fmt.Fprintln(w, "      --tag-markdown <s>    Markdown region tag (default md)")
	fmt.Fprintln(w, "      --tag-textile <s>     Textile region tag (default tx)")
	fmt.Fprintln(w, "      --sanitize            Sanitize the final HTML")
	fmt.Fprintln(w, "      --marks               Render ==text== as <mark>")
	fmt.Fprintln(w, "      --base-dir <dir>      Resolve relative paths against dir")
	fmt.Fprintln(w, "      --base-url <url>      Rewrite relative paths to url")
	fmt.Fprintln(w, "      --template-dir <dir>  Directory with templates/ for {% include %}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Highlighting:")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style (default github)")
	fmt.Fprintln(w, "      --line-numbers        Number code block lines")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Data:")
	fmt.Fprintln(w, "  -d, --data <k=v>          Template data (repeatable)")
	fmt.Fprintln(w, "      --data-file <path>    YAML mapping merged into template data")
	fmt.Fprintln(w, "                            Front matter overrides both")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --standalone          Wrap output in a full HTML page")
	fmt.Fprintln(w, "      --title <s>           Title when the document has none")
	fmt.Fprintln(w, "      --lang <s>            Page language (default en)")
	fmt.Fprintln(w, "      --style <name>        Style: default, print, or a custom name")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file")
	fmt.Fprintln(w, "      --assets-dir <dir>    Custom styles/ and templates/")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       Table of contents heading")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                 Print pages to PDF (implies --standalone)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timings and debug logs")
	fmt.Fprintln(w, "      --log-level <s>       trace, debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      console, json, pretty")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOXS_CONFIG, DOXS_STYLE, DOXS_TIMEOUT, DOXS_INPUT_DIR, DOXS_OUTPUT_DIR,")
	fmt.Fprintln(w, "  DOXS_WORKERS, DOXS_LOG_LEVEL, DOXS_LOG_FORMAT, DOXS_FRONT_MATTER,")
	fmt.Fprintln(w, "  DOXS_PARSE_ORDER")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: doxs version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: doxs help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
