// Command lpc compiles L+ programs to Jasmin assembly.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hassan/lpc/internal/compiler"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Exit statuses.
const (
	exitOK       = 0
	exitFailure  = 1 // bad usage or errors in the program
	exitInternal = 2 // compiler defect
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		showUsage(stderr)
		return exitFailure
	}

	command, rest := args[0], args[1:]
	switch command {
	case "check":
		return checkCommand(rest, stdout, stderr)
	case "build":
		return buildCommand(rest, stdout, stderr)
	case "fmt":
		return fmtCommand(rest, stdout, stderr)
	case "help", "-h", "--help":
		showUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		showUsage(stderr)
		return exitFailure
	}
}

func showUsage(w io.Writer) {
	fmt.Fprintf(w, `lpc - compiles L+ programs to Jasmin assembly

Usage:
    lpc <command> [arguments]

Commands:
    check <file>    Parse and type-check an L+ file
    build <file>    Compile an L+ file to a Jasmin .j file
    fmt <file>      Print an L+ file in canonical form
    help            Show this help message

Examples:
    lpc check prog.lp
    lpc build -o Prog.j -class Prog prog.lp
    lpc build -O=false -o - prog.lp

Use "lpc <command> -h" for more information about a command.
`)
}

// newFlagSet creates the flag set of one subcommand.
func newFlagSet(name, usage, summary string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lpc %s\n", usage)
		fmt.Fprintf(stderr, "%s\n\n", summary)
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses args into fs and returns the single file argument.
// On failure it returns the exit status to use.
func parseArgs(fs *flag.FlagSet, args []string, stderr io.Writer) (string, int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", exitOK, false
		}
		return "", exitFailure, false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		return "", exitFailure, false
	}
	return fs.Arg(0), exitOK, true
}

func readSource(filename string, stderr io.Writer) (string, bool) {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file %s: %v\n", filename, err)
		return "", false
	}
	return string(src), true
}

// report prints the user errors of res and returns the exit status.
func report(res *compiler.Result, stderr io.Writer) int {
	fmt.Fprintf(stderr, "Error: %s\n", res.Err())
	return exitFailure
}

// fatal prints an error that is not the program's fault.
func fatal(err error, stderr io.Writer) int {
	if errors.Is(err, types.ErrInternal) {
		fmt.Fprintf(stderr, "Internal compiler error: %v\n", err)
		return exitInternal
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}

func checkCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("check", "check [-v] <file>", "Parse and type-check an L+ file", stderr)
	verbose := fs.Bool("v", false, "Show verbose progress")

	filename, status, ok := parseArgs(fs, args, stderr)
	if !ok {
		return status
	}
	source, ok := readSource(filename, stderr)
	if !ok {
		return exitFailure
	}

	opts := compiler.DefaultOptions()
	if *verbose {
		opts.Verbose = stderr
	}

	res := compiler.Check(source, filename, opts)
	if res.Failed() {
		return report(res, stderr)
	}
	fmt.Fprintf(stdout, "%s: no errors found\n", filename)
	return exitOK
}

func buildCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("build", "build [-o output] [-O=false] [-class name] [-v] <file>",
		"Compile an L+ file to Jasmin assembly", stderr)
	output := fs.String("o", "", "Output file path, - for stdout (default: <file>.j)")
	optimize := fs.Bool("O", true, "Fold constant expressions before code generation")
	className := fs.String("class", compiler.DefaultOptions().ClassName, "Name of the generated class")
	verbose := fs.Bool("v", false, "Show verbose progress and optimizer statistics")

	filename, status, ok := parseArgs(fs, args, stderr)
	if !ok {
		return status
	}

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".j"
	}

	if *verbose {
		fmt.Fprintf(stderr, "Compiling %s to %s...\n", filename, outputFile)
	}

	source, ok := readSource(filename, stderr)
	if !ok {
		return exitFailure
	}

	opts := compiler.Options{Optimize: *optimize, ClassName: *className}
	if *verbose {
		opts.Verbose = stderr
	}

	res, err := compiler.Compile(source, filename, opts)
	if err != nil {
		return fatal(err, stderr)
	}
	if res.Failed() {
		return report(res, stderr)
	}

	if outputFile == "-" {
		if _, err := stdout.Write(res.Output); err != nil {
			return fatal(err, stderr)
		}
		return exitOK
	}
	if err := os.WriteFile(outputFile, res.Output, 0o644); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", outputFile, err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "Generated %s (%d bytes)\n", outputFile, len(res.Output))
	return exitOK
}

func fmtCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("fmt", "fmt <file>", "Print an L+ file in canonical form", stderr)

	filename, status, ok := parseArgs(fs, args, stderr)
	if !ok {
		return status
	}
	source, ok := readSource(filename, stderr)
	if !ok {
		return exitFailure
	}

	formatted, err := compiler.Format(source, filename)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprint(stdout, formatted)
	return exitOK
}
