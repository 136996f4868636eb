package ast_test

import (
	"testing"

	"github.com/hassan/lpc/internal/parser"
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/nalgeon/be"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := parser.Parse(src, "walk.lp")
	be.Equal(t, len(errs), 0)
	return prog
}

func TestInspectOrder(t *testing.T) {
	prog := mustParse(t, "int f(int a) { return a + 1; }")

	var kinds []string
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Program:
			kinds = append(kinds, "program")
		case *ast.FuncDecl:
			kinds = append(kinds, "func")
		case *ast.Param:
			kinds = append(kinds, "param")
		case *ast.BlockStmt:
			kinds = append(kinds, "block")
		case *ast.ReturnStmt:
			kinds = append(kinds, "return")
		case *ast.BinaryExpr:
			kinds = append(kinds, "binary")
		case *ast.IdentExpr:
			kinds = append(kinds, "ident")
		case *ast.IntLit:
			kinds = append(kinds, "int")
		}
		return true
	})

	be.Equal(t, kinds, []string{"program", "func", "param", "block", "return", "binary", "ident", "int"})
}

func TestInspectSkipsChildren(t *testing.T) {
	prog := mustParse(t, "void main() { if (true) { f(1, 2); } else { x = 3; } }")

	visited := 0
	ast.Inspect(prog, func(n ast.Node) bool {
		visited++
		_, isIf := n.(*ast.IfStmt)
		return !isIf
	})

	// program, func, block, if
	be.Equal(t, visited, 4)
}

func TestCount(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"", 1},
		{"int x;", 2},
		{"void main() { }", 3},
		{"void main() { return; }", 4},
		{"void main() { while (x < 2) x = x + (1); }", 12},
		{"float f() { return -1.5; }", 5},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			be.Equal(t, ast.Count(mustParse(t, tt.src)), tt.want)
		})
	}
}
