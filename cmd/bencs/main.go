// bencs reads and writes the bencs length-prefixed text encoding.
//
// Usage:
//
//	bencs selftest                               Round-trip a fixed set of values through every codec
//	bencs encode [--stringify] [--jsonc] [file]  Encode a YAML or JSON document
//	bencs dump [-o format] [file]                Decode a stream of values and print them as text, json, yaml or cbor
//
// If no file is given, input is read from stdin.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/stewi1014/bencs/encio"
)

type command struct {
	name    string
	summary string
	run     func(args []string, stdin io.Reader, stdout io.Writer) error
}

var commands = []command{
	{name: "selftest", summary: "round-trip a fixed set of values through every codec", run: runSelftest},
	{name: "encode", summary: "encode a YAML or JSON document", run: runEncode},
	{name: "dump", summary: "decode a stream of values and print them", run: runDump},
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "bencs: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}

	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:], stdin, stdout)
		}
	}

	printUsage(os.Stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: bencs <command> [flags] [file]")
	fmt.Fprintln(w)
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %v\n", cmd.name, cmd.summary)
	}
}

// newFlagSet returns a flag set with the flags common to every command.
func newFlagSet(name string, verbose *bool) *pflag.FlagSet {
	flags := pflag.NewFlagSet("bencs "+name, pflag.ContinueOnError)
	flags.BoolVarP(verbose, "verbose", "v", false, "log debug output to stderr")
	return flags
}

// setupLogger installs the process logger; warnings only, unless verbose.
// Output is JSON unless stderr is a terminal.
func setupLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		config = zap.NewDevelopmentConfig()
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config.Encoding = "console"
	} else {
		config.Encoding = "json"
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	encio.SetLogger(logger)
	return logger, nil
}

// openInput returns the file named by args, or stdin if there is none.
func openInput(args []string, stdin io.Reader) (io.ReadCloser, error) {
	switch len(args) {
	case 0:
		return io.NopCloser(stdin), nil
	case 1:
		if args[0] == "-" {
			return io.NopCloser(stdin), nil
		}
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("expected at most one input file, got %v", len(args))
	}
}
