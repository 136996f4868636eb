package semantic

import (
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Expression visitors return the expression's types.Category.

func (a *Analyzer) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	left := a.check(expr.Left)
	right := a.check(expr.Right)

	if left == types.CatVoid || right == types.CatVoid {
		a.errorf(expr, "One of the members in binary expression evaluates to void")
		a.errorf(expr, "Invalid type used in: \"%s\"", snippet(expr))
		return types.CatUnknown, nil
	}
	if left == types.CatUnknown || right == types.CatUnknown {
		return types.CatUnknown, nil
	}

	result, ok := types.ResultCategory(expr.Op, left, right)
	if !ok {
		a.errorf(expr, "Invalid type used in: \"%s\"", snippet(expr))
		return types.CatUnknown, nil
	}
	return result, nil
}

func (a *Analyzer) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	operand := a.check(expr.X)
	if expr.Op == ast.UnaryNot && operand != types.CatBool && operand != types.CatUnknown {
		a.errorf(expr, "The given expression is not Boolean: \"%s\"", snippet(expr))
	}
	return operand, nil
}

func (a *Analyzer) VisitIdentExpr(expr *ast.IdentExpr) (interface{}, error) {
	if !a.scopes.IsDeclaredAnywhere(expr.Name) {
		a.errorf(expr, "Undefined identifier: %s", expr.Name)
		return types.CatUnknown, nil
	}
	return a.scopes.TypeOf(expr.Name), nil
}

func (a *Analyzer) VisitIntLit(expr *ast.IntLit) (interface{}, error) {
	return types.CatInt, nil
}

func (a *Analyzer) VisitFloatLit(expr *ast.FloatLit) (interface{}, error) {
	return types.CatFloat, nil
}

func (a *Analyzer) VisitStringLit(expr *ast.StringLit) (interface{}, error) {
	return types.CatString, nil
}

func (a *Analyzer) VisitBoolLit(expr *ast.BoolLit) (interface{}, error) {
	return types.CatBool, nil
}

// VisitCallExpr checks the callee, the argument count and each argument
// against the registered signature. Parameter positions in messages are
// 1-based.
func (a *Analyzer) VisitCallExpr(expr *ast.CallExpr) (interface{}, error) {
	declared := a.funcs.IsDeclared(expr.Name)
	if !declared {
		a.errorf(expr, "Undeclared function: %s in: %s", expr.Name, snippet(expr))
	} else if a.funcs.ParamCount(expr.Name) != len(expr.Args) {
		a.errorf(expr, "Number of arguments does not match function signature in: %s", snippet(expr))
	}

	for i, arg := range expr.Args {
		cat := a.check(arg)
		if !declared || i >= a.funcs.ParamCount(expr.Name) || cat == types.CatUnknown {
			continue
		}
		if !a.funcs.ArgumentMatches(expr.Name, i, cat) {
			a.errorf(expr, "Parameter's %d type does not match the signature of function: %s in: %s", i+1, expr.Name, snippet(expr))
		}
	}

	return a.funcs.ReturnTypeOf(expr.Name), nil
}
