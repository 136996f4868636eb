package codegen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hassan/lpc/internal/optimizer"
	"github.com/hassan/lpc/internal/parser"
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic"
	"github.com/hassan/lpc/internal/semantic/types"
	"github.com/hassan/lpc/internal/symtab"
	"github.com/nalgeon/be"
)

// check parses and analyzes source, failing the test on any error.
func check(t *testing.T, source string) (*ast.Program, *symtab.FunctionRegistry) {
	t.Helper()
	prog, errs := parser.Parse(source, "test.lp")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	a := semantic.New()
	if diags := a.Analyze(prog); len(diags) > 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	return prog, a.Functions()
}

func generate(t *testing.T, source string) string {
	t.Helper()
	prog, funcs := check(t, source)
	var out bytes.Buffer
	if err := New(&out, funcs).Generate(prog); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return out.String()
}

// method returns the instructions of the named method, after its limits
// and before ".end method".
func method(t *testing.T, output, name string) string {
	t.Helper()
	start := strings.Index(output, ".method public static "+name+"(")
	if start < 0 {
		t.Fatalf("method %s not found in:\n%s", name, output)
	}
	rest := output[start:]
	end := strings.Index(rest, ".end method")
	lines := strings.Split(rest[:end], "\n")
	// Skip the header and the two limits.
	return strings.Join(lines[3:], "\n")
}

func TestClassAndGlobals(t *testing.T) {
	got := generate(t, "int count;\nstring name;\nvoid main() {\n\tcount = 1;\n\tname = \"x\";\n}")
	want := `.class public Main
.super java/lang/Object
.field public static count I
.field public static name Ljava/lang/String;

.method public static main([Ljava/lang/String;)V
	.limit stack 10
	.limit locals 1
	ldc 1
	putstatic Main/count I
	ldc "x"
	putstatic Main/name Ljava/lang/String;
	return
.end method
`
	be.Equal(t, got, want)
}

func TestClassName(t *testing.T) {
	prog, funcs := check(t, "int one() { return 1; }\nvoid main() { one(); }")
	var out bytes.Buffer
	g := New(&out, funcs)
	g.SetClassName("Program")
	be.Err(t, g.Generate(prog), nil)

	be.True(t, strings.HasPrefix(out.String(), ".class public Program\n"))
	be.True(t, strings.Contains(out.String(), "\tinvokestatic Program/one()I\n"))
}

func TestSlotsAndWidening(t *testing.T) {
	got := generate(t, `
float scale(int a, float b) {
	float r = a * b;
	int i = 4;
	int j = 5;
	r = r + i;
	return r;
}
`)
	want := `
.method public static scale(IF)F
	.limit stack 10
	.limit locals 5
	iload_0
	i2f
	fload_1
	fmul
	fstore_2
	ldc 4
	istore_3
	ldc 5
	istore 4
	fload_2
	iload_3
	i2f
	fadd
	fstore_2
	fload_2
	freturn
	freturn
.end method
`
	be.True(t, strings.HasSuffix(got, want))
}

func TestNestedBlockSlots(t *testing.T) {
	got := generate(t, `
void main() {
	int a = 1;
	{
		int b = 2;
	}
	{
		int c = 3;
		string d = "s";
		float e = 1.5;
	}
}
`)
	be.True(t, strings.Contains(got, "\t.limit locals 6\n"))
	be.Equal(t, method(t, got, "main"), `	ldc 1
	istore_0
	ldc 2
	istore_1
	ldc 3
	istore_2
	ldc "s"
	astore_3
	ldc 1.5
	fstore 4
	return
`)
}

func TestControlFlow(t *testing.T) {
	got := generate(t, `
void main() {
	int i = 0;
	while (i < 10) {
		if (i == 5) {
			i = i + 2;
		} else {
			i = i + 1;
		}
	}
}
`)
	want := `	ldc 0
	istore_0
Label0:
	iload_0
	i2f
	ldc 10
	i2f
	fcmpl
	iflt Label1
	ldc 0
	goto Label2
Label1:
	ldc 1
Label2:
	ifeq Label3
	iload_0
	ldc 5
	if_icmpeq Label4
	ldc 0
	goto Label5
Label4:
	ldc 1
Label5:
	ifeq Label6
	iload_0
	ldc 2
	iadd
	istore_0
	goto Label7
Label6:
	iload_0
	ldc 1
	iadd
	istore_0
Label7:
	goto Label0
Label3:
	return
`
	be.Equal(t, method(t, got, "main"), want)
}

func TestIfWithoutElse(t *testing.T) {
	got := generate(t, "void f(bool b) {\n\tif (b)\n\t\treturn;\n}")
	be.Equal(t, method(t, got, "f"), `	iload_0
	ifeq Label0
	return
	goto Label1
Label0:
Label1:
	return
`)
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			"float equality widens int",
			"bool f(float x) { return x == 1; }",
			"\tfload_0\n\tldc 1\n\ti2f\n\tfcmpl\n\tifeq Label0\n\tldc 0\n\tgoto Label1\nLabel0:\n\tldc 1\nLabel1:\n\tireturn\n\tireturn\n",
		},
		{
			"bool inequality",
			"bool f(bool a, bool b) { return a != b; }",
			"\tiload_0\n\tiload_1\n\tif_icmpne Label0\n\tldc 0\n\tgoto Label1\nLabel0:\n\tldc 1\nLabel1:\n\tireturn\n\tireturn\n",
		},
		{
			"string identity",
			"bool f(string a, string b) { return a == b; }",
			"\taload_0\n\taload_1\n\tif_acmpeq Label0\n\tldc 0\n\tgoto Label1\nLabel0:\n\tldc 1\nLabel1:\n\tireturn\n\tireturn\n",
		},
		{
			"string against int",
			"bool f(string a) { return a != 1; }",
			"\taload_0\n\tldc 1\n\tpop\n\tpop\n\tldc 1\n\tireturn\n\tireturn\n",
		},
		{
			"relational in float",
			"bool f(float a, int b) { return a >= b; }",
			"\tfload_0\n\tiload_1\n\ti2f\n\tfcmpl\n\tifge Label0\n\tldc 0\n\tgoto Label1\nLabel0:\n\tldc 1\nLabel1:\n\tireturn\n\tireturn\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, method(t, generate(t, tt.source), "f"), tt.want)
		})
	}
}

func TestBooleanOperators(t *testing.T) {
	got := generate(t, "bool f(bool a, bool b, bool c) { return !a && b || c; }")
	be.Equal(t, method(t, got, "f"), "\ticonst_1\n\tiload_0\n\tisub\n\tiload_1\n\tiand\n\tiload_2\n\tior\n\tireturn\n\tireturn\n")
}

func TestStrings(t *testing.T) {
	got := generate(t, "string f(string a) {\n\tstring s = a + \"!\\n\";\n\treturn s;\n}")
	be.Equal(t, method(t, got, "f"), `	aload_0
	ldc "!\n"
	invokevirtual java/lang/String/concat(Ljava/lang/String;)Ljava/lang/String;
	astore_1
	aload_1
	areturn
	areturn
`)
}

func TestCalls(t *testing.T) {
	got := generate(t, `
int one() {
	return 1;
}

void log(float x, string s) {
}

void main() {
	one();
	log(2, "two");
	int v = one() + 1;
}
`)
	be.Equal(t, method(t, got, "main"), `	invokestatic Main/one()I
	pop
	ldc 2
	i2f
	ldc "two"
	invokestatic Main/log(FLjava/lang/String;)V
	invokestatic Main/one()I
	ldc 1
	iadd
	istore_0
	return
`)
	be.True(t, strings.Contains(got, ".method public static log(FLjava/lang/String;)V\n\t.limit stack 10\n\t.limit locals 2\n"))
	be.True(t, strings.Contains(got, ".method public static main([Ljava/lang/String;)V\n\t.limit stack 10\n\t.limit locals 2\n"))
}

func TestLiterals(t *testing.T) {
	got := generate(t, "void main() {\n\tfloat a = 3;\n\tfloat b = -2.5;\n\tbool c = true;\n\tfloat d = 4.0;\n}")
	be.Equal(t, method(t, got, "main"), `	ldc 3
	i2f
	fstore_0
	ldc -2.5
	fstore_1
	ldc 1
	istore_2
	ldc 4.0
	fstore_3
	return
`)
}

func TestFoldedProgram(t *testing.T) {
	prog, funcs := check(t, "void main() {\n\tint a = 2 + 3 * 4;\n\tfloat b = 1.5 + 2;\n\tfloat c = 1.0 / 0;\n\tfloat d = 0.0 / 0;\n}")
	_, err := optimizer.NewOptimizer().Optimize(prog)
	be.Err(t, err, nil)

	var out bytes.Buffer
	be.Err(t, New(&out, funcs).Generate(prog), nil)
	be.Equal(t, method(t, out.String(), "main"), `	ldc 14
	istore_0
	ldc 3.5
	fstore_1
	ldc 1.0
	ldc 0.0
	fdiv
	fstore_2
	ldc 0.0
	ldc 0.0
	fdiv
	fstore_3
	return
`)
}

func TestGenerateIsRepeatable(t *testing.T) {
	prog, funcs := check(t, "void main() {\n\twhile (1 < 2) { }\n}")
	var first, second bytes.Buffer
	g := New(&first, funcs)
	be.Err(t, g.Generate(prog), nil)
	g.w = &second
	be.Err(t, g.Generate(prog), nil)
	be.Equal(t, first.String(), second.String())
	be.True(t, strings.Contains(second.String(), "Label0:"))
}

func TestInternalErrors(t *testing.T) {
	t.Run("unregistered function", func(t *testing.T) {
		prog, _ := check(t, "void main() { }")
		err := New(&bytes.Buffer{}, symtab.NewFunctionRegistry()).Generate(prog)
		be.Err(t, err, types.ErrInternal)
		be.Err(t, err, "function main is not registered")
	})

	t.Run("undeclared variable", func(t *testing.T) {
		prog, errs := parser.Parse("void main() {\n\tx = 1;\n}", "")
		be.Equal(t, len(errs), 0)
		funcs := symtab.NewFunctionRegistry()
		funcs.Declare("main", types.Void, nil)

		err := New(&bytes.Buffer{}, funcs).Generate(prog)
		be.Err(t, err, types.ErrInternal)
		be.Err(t, err, "line 2")
	})

	t.Run("untyped expression", func(t *testing.T) {
		prog, _ := parser.Parse("void main() {\n\tint x = \"s\" - 1;\n}", "")
		funcs := symtab.NewFunctionRegistry()
		funcs.Declare("main", types.Void, nil)

		err := New(&bytes.Buffer{}, funcs).Generate(prog)
		be.Err(t, err, types.ErrInternal)
	})
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write(p []byte) (int, error) { return 0, errDiskFull }

func TestWriteError(t *testing.T) {
	prog, funcs := check(t, "void main() { }")
	err := New(failingWriter{}, funcs).Generate(prog)
	be.Err(t, err, errDiskFull)
}
