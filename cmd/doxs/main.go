// Command doxs renders documents mixing template, markdown and textile
// sources into HTML pages or PDF.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for an unrecognized command name.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS value,
	// and the runtime default is kept.
	undo, _ := setMaxProcs(os.Args, os.Stderr)

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	undo()
	os.Exit(code)
}

// setMaxProcs fits GOMAXPROCS to the container CPU quota. The decision is
// written to w only when args ask for verbose output.
func setMaxProcs(args []string, w io.Writer) (func(), error) {
	logf := func(string, ...any) {}
	if slices.ContainsFunc(args, func(a string) bool { return a == "-v" || a == "--verbose" }) {
		logf = func(format string, args ...any) {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}
	return maxprocs.Set(maxprocs.Logger(logf))
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch cmd, rest := args[1], args[2:]; cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "doxs %s\n", Version)
	case "help", "--help", "-h":
		err = runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}
