// Package semantic checks an L+ program before it is optimized and compiled.
//
// The analyzer walks the tree once, in source order, against a fresh scope
// stack and function registry. It checks:
//  1. Name resolution: identifiers and functions must be declared before use.
//  2. Types: operands, conditions, assignments, returns and call arguments.
//  3. Declarations: no redeclaration within a block, no function
//     redefinition, no initialized globals, and main takes no parameters.
//
// Every problem becomes a Diagnostic and the walk carries on, so one run
// reports all of them. A category of types.CatUnknown means an earlier error
// already explains the expression; nothing compared against it is reported
// again.
//
// The registry built here is handed to the code generator, which relies on
// the signatures and local counts it records.
package semantic

import (
	"fmt"
	"strings"

	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
	"github.com/hassan/lpc/internal/symtab"
)

// Analyzer checks a program. The zero value is not usable; call New.
type Analyzer struct {
	scopes *symtab.ScopeStack
	funcs  *symtab.FunctionRegistry

	diagnostics Diagnostics
}

var _ ast.Visitor = (*Analyzer)(nil)

// New creates an analyzer.
func New() *Analyzer {
	return &Analyzer{
		scopes: symtab.NewScopeStack(),
		funcs:  symtab.NewFunctionRegistry(),
	}
}

// Analyze checks prog and returns what it found. An empty result means the
// program may be compiled.
//
// Each call starts from an empty scope stack and an empty registry.
func (a *Analyzer) Analyze(prog *ast.Program) Diagnostics {
	a.scopes.Reset()
	a.funcs = symtab.NewFunctionRegistry()
	a.diagnostics = nil

	for _, decl := range prog.Decls {
		_ = decl.Accept(a)
	}
	return a.diagnostics
}

// Functions returns the registry populated by the last Analyze call.
func (a *Analyzer) Functions() *symtab.FunctionRegistry {
	return a.funcs
}

func (a *Analyzer) errorf(n ast.Node, format string, args ...interface{}) {
	a.diagnostics = append(a.diagnostics, Diagnostic{
		Line:    ast.Line(n),
		Message: fmt.Sprintf(format, args...),
	})
}

// snippet renders n on one line for use inside a message.
func snippet(n ast.Node) string {
	return strings.TrimSpace(ast.String(n))
}

// check visits e and returns its category.
func (a *Analyzer) check(e ast.Expr) types.Category {
	result, _ := e.Accept(a)
	cat, ok := result.(types.Category)
	if !ok {
		return types.CatUnknown
	}
	return cat
}

// Declarations

func (a *Analyzer) VisitFuncDecl(decl *ast.FuncDecl) error {
	a.scopes.OpenFunction(decl.ReturnType, decl.Name)
	defer a.scopes.CloseFunction()

	if !a.funcs.Declare(decl.Name, decl.ReturnType, decl.ParamTypes()) {
		a.errorf(decl, "Function redefinition: %s", decl.Name)
	}

	if decl.Name == "main" && len(decl.Params) > 0 {
		a.errorf(decl, "Invalid signature for function \"main\": %s\nAvailable candidates are: void main()", signature(decl))
	}

	for _, param := range decl.Params {
		if param.Type == types.Void {
			a.errorf(decl, "Variable declared void: %s", param.Name)
		}
		if a.scopes.IsDeclaredInCurrentScope(param.Name) {
			a.errorf(decl, "Identifier redeclared: %s", param.Name)
			continue
		}
		a.scopes.Declare(param.Type, param.Name)
		a.funcs.IncrementLocalCount(decl.Name)
	}

	return decl.Body.Accept(a)
}

// signature renders "int f(int a, float b)".
func signature(decl *ast.FuncDecl) string {
	params := make([]string, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = ast.String(p)
	}
	return fmt.Sprintf("%s %s(%s)", decl.ReturnType, decl.Name, strings.Join(params, ", "))
}

func (a *Analyzer) VisitVarDecl(decl *ast.VarDecl) error {
	if a.scopes.IsDeclaredInCurrentScope(decl.Name) {
		a.errorf(decl, "Identifier redeclared: %s", decl.Name)
		return nil
	}

	if decl.Type == types.Void {
		a.errorf(decl, "Variable declared void: %s", decl.Name)
	}
	a.scopes.Declare(decl.Type, decl.Name)

	if fn := a.scopes.CurrentFunctionName(); fn != symtab.GlobalFunction {
		a.funcs.IncrementLocalCount(fn)
	} else if decl.Init != nil {
		a.errorf(decl, "Global variable initialization is illegal: %s", decl.Name)
	}

	if decl.Init != nil {
		value := a.check(decl.Init)
		if value != types.CatUnknown && !types.Assignable(decl.Type, value) {
			a.errorf(decl, "Type mismatch in assignment: %s", snippet(decl))
		}
	}
	return nil
}

// Statements

func (a *Analyzer) VisitExprStmt(stmt *ast.ExprStmt) error {
	a.check(stmt.X)
	return nil
}

func (a *Analyzer) VisitBlockStmt(stmt *ast.BlockStmt) error {
	a.scopes.OpenScope()
	for _, s := range stmt.Stmts {
		_ = s.Accept(a)
	}
	a.scopes.CloseScope()
	return nil
}

func (a *Analyzer) VisitIfStmt(stmt *ast.IfStmt) error {
	if cond := a.check(stmt.Cond); cond != types.CatBool && cond != types.CatUnknown {
		a.errorf(stmt, "Conditional expression is not Boolean")
	}

	_ = stmt.Then.Accept(a)
	if stmt.Else != nil {
		_ = stmt.Else.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitWhileStmt(stmt *ast.WhileStmt) error {
	if cond := a.check(stmt.Cond); cond != types.CatBool && cond != types.CatUnknown {
		a.errorf(stmt, "Conditional expression in \"while\" construct is not Boolean")
	}
	return stmt.Body.Accept(a)
}

func (a *Analyzer) VisitReturnStmt(stmt *ast.ReturnStmt) error {
	ret, _ := a.scopes.CurrentFunctionReturnType()

	if stmt.Value == nil {
		if ret != types.Void {
			a.errorf(stmt, "Missing return value in function returning %s", ret)
		}
		return nil
	}

	value := a.check(stmt.Value)
	if ret == types.Void {
		a.errorf(stmt, "The function returns void")
		a.errorf(stmt, "Return expression does not match declared return type: %s", snippet(stmt))
		return nil
	}
	if value != types.CatUnknown && !types.Assignable(ret, value) {
		a.errorf(stmt, "Return expression does not match declared return type: %s", snippet(stmt))
	}
	return nil
}

func (a *Analyzer) VisitAssignStmt(stmt *ast.AssignStmt) error {
	if !a.scopes.IsDeclaredAnywhere(stmt.Name) {
		a.errorf(stmt, "Undeclared identifier: %s", stmt.Name)
		return nil
	}

	value := a.check(stmt.Value)
	target, _ := a.scopes.SurfaceTypeOf(stmt.Name)
	if value != types.CatUnknown && !types.Assignable(target, value) {
		a.errorf(stmt, "Type mismatch in assignment: %s", snippet(stmt))
	}
	return nil
}
