package compiler

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hassan/lpc/internal/golden"
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/nalgeon/be"
)

func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		cases, err := golden.Load(file)
		be.Err(t, err, nil)

		for _, c := range cases {
			c := c
			t.Run(filepath.Base(file)+"/"+c.Name, func(t *testing.T) {
				runGolden(t, c)
			})
		}
	}
}

func runGolden(t *testing.T, c golden.Case) {
	t.Helper()

	res, err := Compile(c.Input+"\n", "golden.lp", DefaultOptions())
	be.Err(t, err, nil)

	for _, a := range c.Assertions {
		switch a.Kind {
		case golden.Diagnostics:
			if a.Content == "" {
				be.Err(t, res.Err(), nil)
				continue
			}
			be.True(t, res.Failed())
			be.Equal(t, res.Err().Error(), a.Content)
		case golden.Jasmin:
			be.Err(t, res.Err(), nil)
			be.Equal(t, strings.TrimRight(string(res.Output), "\n"), a.Content)
		case golden.Folded:
			be.Err(t, res.Err(), nil)
			be.Equal(t, strings.TrimRight(ast.String(res.Program), "\n"), a.Content)
		}
	}
}

const sample = `
int add(int a, int b) {
	return a + b;
}

void main() {
	int x = add(1 + 2, 3);
}
`

func TestCompile(t *testing.T) {
	res, err := Compile(sample, "sample.lp", DefaultOptions())
	be.Err(t, err, nil)
	be.True(t, !res.Failed())
	be.Err(t, res.Err(), nil)

	out := string(res.Output)
	be.True(t, strings.HasPrefix(out, ".class public Main\n.super java/lang/Object\n"))
	be.True(t, strings.Contains(out, ".method public static add(II)I"))
	be.True(t, strings.Contains(out, "\tinvokestatic Main/add(II)I\n"))
	be.True(t, strings.Contains(out, "\tldc 3\n\tldc 3\n"))

	be.Equal(t, res.Stats.ConstantsFolded, 1)
}

func TestCompileClassName(t *testing.T) {
	opts := DefaultOptions()
	opts.ClassName = "Adder"

	res, err := Compile(sample, "sample.lp", opts)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(res.Output), ".class public Adder\n"))
	be.True(t, strings.Contains(string(res.Output), "invokestatic Adder/add(II)I"))
}

func TestCompileEmptyClassName(t *testing.T) {
	res, err := Compile(sample, "sample.lp", Options{Optimize: true})
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(res.Output), ".class public Main\n"))
}

func TestCompileWithoutOptimization(t *testing.T) {
	res, err := Compile(sample, "sample.lp", Options{})
	be.Err(t, err, nil)
	be.True(t, res.Stats == nil)
	be.True(t, strings.Contains(string(res.Output), "\tldc 1\n\tldc 2\n\tiadd\n"))
	be.True(t, strings.Contains(ast.String(res.Program), "add(1 + 2, 3)"))
}

func TestCompileStats(t *testing.T) {
	res, err := Compile("void main() { int a = 1 + 2 * 3; }", "stats.lp", DefaultOptions())
	be.Err(t, err, nil)
	be.Equal(t, res.Stats.ConstantsFolded, 2)
	be.Equal(t, res.Stats.NodesRemoved, 4)
	be.Equal(t, res.Stats.Iterations, 2)
}

func TestCompileStopsOnSyntaxErrors(t *testing.T) {
	res, err := Compile("void main() { int x = ; }", "bad.lp", DefaultOptions())
	be.Err(t, err, nil)
	be.True(t, res.Failed())
	be.Equal(t, len(res.ParseErrors), 1)
	be.Equal(t, len(res.Diagnostics), 0)
	be.True(t, res.Output == nil)
	be.Err(t, res.Err(), "bad.lp:1:23: expected expression")
}

func TestCompileStopsOnDiagnostics(t *testing.T) {
	res, err := Compile("void main() { x = 1; }", "bad.lp", DefaultOptions())
	be.Err(t, err, nil)
	be.True(t, res.Failed())
	be.True(t, res.Stats == nil)
	be.True(t, res.Output == nil)
	be.Err(t, res.Err(), "line[1]: Undeclared identifier: x")
}

func TestCompileVerbose(t *testing.T) {
	var log bytes.Buffer
	opts := DefaultOptions()
	opts.Verbose = &log

	_, err := Compile(sample, "sample.lp", opts)
	be.Err(t, err, nil)

	trace := log.String()
	for _, want := range []string{
		"✓ Parsing successful\n",
		"✓ Semantic analysis successful\n",
		"  Running ConstantFolding...\n",
		"✓ Optimization successful (1 constants folded)\n",
		"✓ Code generation successful\n",
	} {
		be.True(t, strings.Contains(trace, want))
	}
}

func TestCheck(t *testing.T) {
	res := Check(sample, "sample.lp", DefaultOptions())
	be.True(t, !res.Failed())
	be.True(t, res.Output == nil)
	be.True(t, res.Stats == nil)

	// The tree is left unfolded.
	be.True(t, strings.Contains(ast.String(res.Program), "1 + 2"))

	res = Check("int f() { return; }", "bad.lp", DefaultOptions())
	be.Equal(t, len(res.Diagnostics), 1)
	be.Err(t, res.Err(), "Missing return value in function returning int")
}

func TestFormat(t *testing.T) {
	got, err := Format("int   x;void main(){x=1+2;}", "fmt.lp")
	be.Err(t, err, nil)
	be.Equal(t, got, "int x;\n\nvoid main() {\n\tx = 1 + 2;\n}\n")

	_, err = Format("void main() {", "fmt.lp")
	be.Err(t, err, "fmt.lp:1:14: expected")
}
