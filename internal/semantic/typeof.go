package semantic

import (
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
	"github.com/hassan/lpc/internal/symtab"
)

// TypeOf returns the category of e given the names currently in scope and
// the registered functions. It reports nothing and changes nothing.
//
// On a program that passed analysis the result is never types.CatUnknown.
func TypeOf(e ast.Expr, scopes *symtab.ScopeStack, funcs *symtab.FunctionRegistry) types.Category {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		left := TypeOf(e.Left, scopes, funcs)
		right := TypeOf(e.Right, scopes, funcs)
		result, ok := types.ResultCategory(e.Op, left, right)
		if !ok {
			return types.CatUnknown
		}
		return result
	case *ast.UnaryExpr:
		return TypeOf(e.X, scopes, funcs)
	case *ast.IdentExpr:
		return scopes.TypeOf(e.Name)
	case *ast.CallExpr:
		return funcs.ReturnTypeOf(e.Name)
	case *ast.IntLit:
		return types.CatInt
	case *ast.FloatLit:
		return types.CatFloat
	case *ast.StringLit:
		return types.CatString
	case *ast.BoolLit:
		return types.CatBool
	default:
		return types.CatUnknown
	}
}
