// Package ast defines the syntax tree of an L+ program.
//
// The same tree is walked four times, each by a different Visitor:
//   - the printer renders it back to source (also used inside diagnostics)
//   - the semantic analyzer checks it
//   - the constant folder rewrites expressions in it
//   - the code generator emits Jasmin assembly from it
//
// Every node records the position of its first token; diagnostics report the
// line from there.
package ast

import (
	"github.com/hassan/lpc/internal/lexer"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos returns the position of the node's first token.
	Pos() lexer.Position
}

// Expr is an expression node. Expressions produce a value.
type Expr interface {
	Node
	// Accept dispatches to the matching Visit method and returns whatever
	// that method returns: the analyzer returns a types.Category, the folder
	// returns the replacement Expr, the printer and generator return nil.
	Accept(v Visitor) (interface{}, error)
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	Accept(v Visitor) error
	stmtNode()
}

// Decl is a top-level declaration: a global variable or a function.
type Decl interface {
	Stmt
	declNode()
}

// Visitor is implemented by each pass over the tree.
type Visitor interface {
	// Expressions
	VisitBinaryExpr(expr *BinaryExpr) (interface{}, error)
	VisitUnaryExpr(expr *UnaryExpr) (interface{}, error)
	VisitIdentExpr(expr *IdentExpr) (interface{}, error)
	VisitIntLit(expr *IntLit) (interface{}, error)
	VisitFloatLit(expr *FloatLit) (interface{}, error)
	VisitStringLit(expr *StringLit) (interface{}, error)
	VisitBoolLit(expr *BoolLit) (interface{}, error)
	VisitCallExpr(expr *CallExpr) (interface{}, error)

	// Statements
	VisitExprStmt(stmt *ExprStmt) error
	VisitBlockStmt(stmt *BlockStmt) error
	VisitIfStmt(stmt *IfStmt) error
	VisitWhileStmt(stmt *WhileStmt) error
	VisitReturnStmt(stmt *ReturnStmt) error
	VisitAssignStmt(stmt *AssignStmt) error

	// Declarations
	VisitVarDecl(decl *VarDecl) error
	VisitFuncDecl(decl *FuncDecl) error
}

// Program is the root of the tree: one compilation unit.
type Program struct {
	Filename string
	Decls    []Decl
}

// Pos returns the position of the first declaration.
func (p *Program) Pos() lexer.Position {
	if len(p.Decls) == 0 {
		return lexer.Position{Filename: p.Filename, Line: 1, Column: 1}
	}
	return p.Decls[0].Pos()
}

// Globals returns the global variable declarations in source order.
func (p *Program) Globals() []*VarDecl {
	var out []*VarDecl
	for _, d := range p.Decls {
		if v, ok := d.(*VarDecl); ok {
			out = append(out, v)
		}
	}
	return out
}

// Functions returns the function declarations in source order.
func (p *Program) Functions() []*FuncDecl {
	var out []*FuncDecl
	for _, d := range p.Decls {
		if f, ok := d.(*FuncDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// Line returns the source line a node starts on.
func Line(n Node) int {
	return n.Pos().Line
}

// VarDecl declares a variable, optionally with an initializer. At top level
// it declares a global; inside a function body it is a statement.
type VarDecl struct {
	TypePos lexer.Position
	Type    types.SurfaceType
	Name    string
	Init    Expr // nil when there is no initializer
}

func (d *VarDecl) Pos() lexer.Position    { return d.TypePos }
func (d *VarDecl) stmtNode()              {}
func (d *VarDecl) declNode()              {}
func (d *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(d) }

// Param is one formal parameter of a function.
type Param struct {
	TypePos lexer.Position
	Type    types.SurfaceType
	Name    string
}

func (p *Param) Pos() lexer.Position { return p.TypePos }

// FuncDecl declares a function and its body.
type FuncDecl struct {
	TypePos    lexer.Position
	ReturnType types.SurfaceType
	Name       string
	Params     []*Param
	Body       *BlockStmt
}

func (d *FuncDecl) Pos() lexer.Position    { return d.TypePos }
func (d *FuncDecl) stmtNode()              {}
func (d *FuncDecl) declNode()              {}
func (d *FuncDecl) Accept(v Visitor) error { return v.VisitFuncDecl(d) }

// ParamTypes returns the declared parameter types in order.
func (d *FuncDecl) ParamTypes() []types.SurfaceType {
	out := make([]types.SurfaceType, len(d.Params))
	for i, p := range d.Params {
		out[i] = p.Type
	}
	return out
}
