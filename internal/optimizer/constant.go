package optimizer

import (
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
)

// ConstantFoldingPass replaces arithmetic on numeric literals with the
// literal it evaluates to.
//
// Example:
//
//	Before:  int x = 2 + 3 * 4;
//	After:   int x = 14;
//
// The tree is folded bottom-up, so a chain of constant operations collapses
// in one run. Results follow the target machine: int arithmetic wraps at 32
// bits and divides truncating toward zero, float arithmetic is 32-bit. The
// result is an int literal only if both operands are ints.
//
// Not folded:
//   - comparisons and logical operators, even over literals
//   - int division by a literal zero, which must fail at run time
//
// A float division by zero folds to an infinity or NaN.
//
// Parentheses are kept, but a parenthesized literal still counts as a
// literal for the enclosing operator.
type ConstantFoldingPass struct {
	folded int
}

// Name returns the name of this optimization pass.
func (c *ConstantFoldingPass) Name() string {
	return "ConstantFolding"
}

// Folded returns the number of folds performed over all runs.
func (c *ConstantFoldingPass) Folded() int {
	return c.folded
}

// Run folds every expression in prog.
func (c *ConstantFoldingPass) Run(prog *ast.Program) error {
	f := &folder{}
	for _, decl := range prog.Decls {
		if err := decl.Accept(f); err != nil {
			return err
		}
	}
	c.folded += f.folded
	return nil
}

// FoldExpr folds e and returns the expression to use in its place, which is
// e itself when nothing at the top level could be folded.
func FoldExpr(e ast.Expr) ast.Expr {
	return (&folder{}).fold(e)
}

// folder is the ast.Visitor doing the work. Expression visits return the
// replacement ast.Expr; statement visits rewrite their children in place.
type folder struct {
	folded int
}

var _ ast.Visitor = (*folder)(nil)

func (f *folder) fold(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	result, _ := e.Accept(f)
	if r, ok := result.(ast.Expr); ok {
		return r
	}
	return e
}

func (f *folder) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	expr.Left = f.fold(expr.Left)
	expr.Right = f.fold(expr.Right)

	if !expr.Op.IsArithmetic() {
		return expr, nil
	}
	left, ok := numberOf(expr.Left)
	if !ok {
		return expr, nil
	}
	right, ok := numberOf(expr.Right)
	if !ok {
		return expr, nil
	}

	lit, ok := evaluate(expr, left, right)
	if !ok {
		return expr, nil
	}
	f.folded++
	return lit, nil
}

func (f *folder) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	expr.X = f.fold(expr.X)
	return expr, nil
}

func (f *folder) VisitIdentExpr(expr *ast.IdentExpr) (interface{}, error) {
	return expr, nil
}

func (f *folder) VisitIntLit(expr *ast.IntLit) (interface{}, error) {
	return expr, nil
}

func (f *folder) VisitFloatLit(expr *ast.FloatLit) (interface{}, error) {
	return expr, nil
}

func (f *folder) VisitStringLit(expr *ast.StringLit) (interface{}, error) {
	return expr, nil
}

func (f *folder) VisitBoolLit(expr *ast.BoolLit) (interface{}, error) {
	return expr, nil
}

func (f *folder) VisitCallExpr(expr *ast.CallExpr) (interface{}, error) {
	for i, arg := range expr.Args {
		expr.Args[i] = f.fold(arg)
	}
	return expr, nil
}

func (f *folder) VisitExprStmt(stmt *ast.ExprStmt) error {
	stmt.X = f.fold(stmt.X)
	return nil
}

func (f *folder) VisitBlockStmt(stmt *ast.BlockStmt) error {
	for _, s := range stmt.Stmts {
		if err := s.Accept(f); err != nil {
			return err
		}
	}
	return nil
}

func (f *folder) VisitIfStmt(stmt *ast.IfStmt) error {
	stmt.Cond = f.fold(stmt.Cond)
	if err := stmt.Then.Accept(f); err != nil {
		return err
	}
	if stmt.Else != nil {
		return stmt.Else.Accept(f)
	}
	return nil
}

func (f *folder) VisitWhileStmt(stmt *ast.WhileStmt) error {
	stmt.Cond = f.fold(stmt.Cond)
	return stmt.Body.Accept(f)
}

func (f *folder) VisitReturnStmt(stmt *ast.ReturnStmt) error {
	stmt.Value = f.fold(stmt.Value)
	return nil
}

func (f *folder) VisitAssignStmt(stmt *ast.AssignStmt) error {
	stmt.Value = f.fold(stmt.Value)
	return nil
}

func (f *folder) VisitVarDecl(decl *ast.VarDecl) error {
	decl.Init = f.fold(decl.Init)
	return nil
}

func (f *folder) VisitFuncDecl(decl *ast.FuncDecl) error {
	if decl.Body == nil {
		return nil
	}
	return decl.Body.Accept(f)
}

// number is a compile-time numeric constant.
type number struct {
	isInt bool
	i     int32
	f     float32
}

func (n number) float() float32 {
	if n.isInt {
		return float32(n.i)
	}
	return n.f
}

// numberOf reports whether e is a numeric literal, possibly parenthesized,
// and returns its value.
func numberOf(e ast.Expr) (number, bool) {
	switch e := e.(type) {
	case *ast.IntLit:
		return number{isInt: true, i: e.Value}, true
	case *ast.FloatLit:
		return number{f: e.Value}, true
	case *ast.UnaryExpr:
		if e.Op == ast.UnaryParen {
			return numberOf(e.X)
		}
	}
	return number{}, false
}

// evaluate computes expr.Op over two constants and returns the literal
// replacing expr. It reports false for an int division by zero.
func evaluate(expr *ast.BinaryExpr, left, right number) (ast.Expr, bool) {
	pos := expr.Pos()

	if left.isInt && right.isInt {
		a, b := left.i, right.i
		var v int32
		switch expr.Op {
		case types.OpAdd:
			v = a + b
		case types.OpSub:
			v = a - b
		case types.OpMul:
			v = a * b
		case types.OpDiv:
			if b == 0 {
				return nil, false
			}
			v = a / b
		default:
			return nil, false
		}
		return &ast.IntLit{ValuePos: pos, Value: v}, true
	}

	a, b := left.float(), right.float()
	var v float32
	switch expr.Op {
	case types.OpAdd:
		v = a + b
	case types.OpSub:
		v = a - b
	case types.OpMul:
		v = a * b
	case types.OpDiv:
		v = a / b
	default:
		return nil, false
	}
	return &ast.FloatLit{ValuePos: pos, Value: v}, true
}
