package semantic

import (
	"testing"

	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
	"github.com/hassan/lpc/internal/symtab"
	"github.com/nalgeon/be"
)

func TestTypeOf(t *testing.T) {
	scopes := symtab.NewScopeStack()
	funcs := symtab.NewFunctionRegistry()
	funcs.Declare("half", types.Float, []types.SurfaceType{types.Int})
	funcs.Declare("log", types.Void, []types.SurfaceType{types.String})

	scopes.OpenFunction(types.Void, "main")
	scopes.Declare(types.Int, "i")
	scopes.Declare(types.String, "s")

	tests := []struct {
		expr string
		want types.Category
	}{
		{"1", types.CatInt},
		{"1.5", types.CatFloat},
		{"\"x\"", types.CatString},
		{"false", types.CatBool},
		{"i", types.CatInt},
		{"s", types.CatString},
		{"i + 1", types.CatInt},
		{"i * 2.0", types.CatFloat},
		{"(i)", types.CatInt},
		{"s + s", types.CatString},
		{"i < 3", types.CatBool},
		{"!(i == 1)", types.CatBool},
		{"half(i)", types.CatFloat},
		{"log(s)", types.CatVoid},
		{"missing", types.CatUnknown},
		{"nothing()", types.CatUnknown},
		{"s - 1", types.CatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog := parse(t, "int x = "+tt.expr+";")
			e := prog.Decls[0].(*ast.VarDecl).Init
			be.Equal(t, TypeOf(e, scopes, funcs), tt.want)
		})
	}
}
