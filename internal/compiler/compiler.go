// Package compiler runs the L+ pipeline for one source file:
//
//  1. Parsing (lexer and parser)
//  2. Semantic analysis (names, types, declarations)
//  3. Optimization (constant folding), unless turned off
//  4. Code generation (Jasmin assembly)
//
// A phase runs only when the one before it succeeded. Problems in the user's
// program end up in the Result; the error return is reserved for compiler
// defects, which wrap types.ErrInternal.
package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hassan/lpc/internal/codegen"
	"github.com/hassan/lpc/internal/optimizer"
	"github.com/hassan/lpc/internal/parser"
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Options configures one run.
type Options struct {
	// Optimize enables constant folding before code generation.
	Optimize bool

	// ClassName names the generated class. Empty means codegen.DefaultClassName.
	ClassName string

	// Verbose receives per-phase progress and the optimizer trace; nil
	// keeps the run quiet.
	Verbose io.Writer
}

// DefaultOptions returns the options the command line starts from.
func DefaultOptions() Options {
	return Options{
		Optimize:  true,
		ClassName: codegen.DefaultClassName,
	}
}

// Result is what one run produced. Later fields stay empty when an earlier
// phase failed.
type Result struct {
	// Program is the syntax tree, folded if optimization ran. It is nil only
	// when nothing could be parsed.
	Program *ast.Program

	// ParseErrors are syntax errors, each prefixed with file:line:col.
	ParseErrors []error

	// Diagnostics are the semantic errors, in the order they were found.
	Diagnostics semantic.Diagnostics

	// Stats describes the optimization run, nil when it did not run.
	Stats *optimizer.Stats

	// Output is the generated Jasmin source.
	Output []byte
}

// Failed reports whether the program had syntax or semantic errors.
func (r *Result) Failed() bool {
	return len(r.ParseErrors) > 0 || len(r.Diagnostics) > 0
}

// Err returns the user errors of the run joined into one, or nil.
func (r *Result) Err() error {
	if len(r.ParseErrors) > 0 {
		return errors.Join(r.ParseErrors...)
	}
	return r.Diagnostics.Err()
}

// Check parses and analyzes source without generating code.
func Check(source, filename string, opts Options) *Result {
	res, _ := check(source, filename, opts)
	return res
}

// Compile runs the whole pipeline over source.
func Compile(source, filename string, opts Options) (*Result, error) {
	res, analyzer := check(source, filename, opts)
	if res.Failed() {
		return res, nil
	}

	if opts.Optimize {
		opt := optimizer.NewOptimizer()
		opt.SetVerbose(opts.Verbose)
		stats, err := opt.Optimize(res.Program)
		if err != nil {
			return res, fmt.Errorf("optimize %s: %w: %w", filename, err, types.ErrInternal)
		}
		res.Stats = stats
		logf(opts, "✓ Optimization successful (%d constants folded)\n", stats.ConstantsFolded)
	}

	var buf bytes.Buffer
	gen := codegen.New(&buf, analyzer.Functions())
	if opts.ClassName != "" {
		gen.SetClassName(opts.ClassName)
	}
	if err := gen.Generate(res.Program); err != nil {
		return res, fmt.Errorf("generate %s: %w", filename, err)
	}
	res.Output = buf.Bytes()
	logf(opts, "✓ Code generation successful\n")

	return res, nil
}

// check runs the first two phases and returns the analyzer so its function
// registry can be handed to the code generator.
func check(source, filename string, opts Options) (*Result, *semantic.Analyzer) {
	res := &Result{}

	prog, errs := parser.Parse(source, filename)
	res.Program = prog
	if len(errs) > 0 {
		res.ParseErrors = errs
		return res, nil
	}
	logf(opts, "✓ Parsing successful\n")

	analyzer := semantic.New()
	res.Diagnostics = analyzer.Analyze(prog)
	if len(res.Diagnostics) == 0 {
		logf(opts, "✓ Semantic analysis successful\n")
	}
	return res, analyzer
}

// Format parses source and prints it back in canonical form.
func Format(source, filename string) (string, error) {
	prog, errs := parser.Parse(source, filename)
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return ast.String(prog), nil
}

func logf(opts Options, format string, args ...interface{}) {
	if opts.Verbose != nil {
		fmt.Fprintf(opts.Verbose, format, args...)
	}
}
