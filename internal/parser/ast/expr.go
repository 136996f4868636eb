package ast

import (
	"github.com/hassan/lpc/internal/lexer"
	"github.com/hassan/lpc/internal/semantic/types"
)

// BinaryExpr is "Left Op Right" for every binary operator, arithmetic,
// comparison and logical alike.
type BinaryExpr struct {
	Left  Expr
	Op    types.Operator
	OpPos lexer.Position
	Right Expr
}

func (b *BinaryExpr) Pos() lexer.Position { return b.Left.Pos() }
func (b *BinaryExpr) exprNode()           {}
func (b *BinaryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitBinaryExpr(b)
}

// UnaryOp is the operator of a UnaryExpr.
type UnaryOp int

const (
	// UnaryNot is logical negation: !x
	UnaryNot UnaryOp = iota

	// UnaryParen is a parenthesized expression: (x). It is kept in the tree
	// so the printer can reproduce the source.
	UnaryParen
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "!"
	case UnaryParen:
		return "()"
	default:
		return "<invalid>"
	}
}

// UnaryExpr is !X or (X).
type UnaryExpr struct {
	Op    UnaryOp
	OpPos lexer.Position
	X     Expr
}

func (u *UnaryExpr) Pos() lexer.Position { return u.OpPos }
func (u *UnaryExpr) exprNode()           {}
func (u *UnaryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitUnaryExpr(u)
}

// IdentExpr is a reference to a variable.
type IdentExpr struct {
	NamePos lexer.Position
	Name    string
}

func (i *IdentExpr) Pos() lexer.Position { return i.NamePos }
func (i *IdentExpr) exprNode()           {}
func (i *IdentExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitIdentExpr(i)
}

// IntLit is an integer literal. Values are 32-bit like the target's int.
type IntLit struct {
	ValuePos lexer.Position
	Value    int32
}

func (l *IntLit) Pos() lexer.Position { return l.ValuePos }
func (l *IntLit) exprNode()           {}
func (l *IntLit) Accept(v Visitor) (interface{}, error) {
	return v.VisitIntLit(l)
}

// FloatLit is a floating point literal, 32-bit like the target's float.
type FloatLit struct {
	ValuePos lexer.Position
	Value    float32
}

func (l *FloatLit) Pos() lexer.Position { return l.ValuePos }
func (l *FloatLit) exprNode()           {}
func (l *FloatLit) Accept(v Visitor) (interface{}, error) {
	return v.VisitFloatLit(l)
}

// StringLit is a string literal. Value holds the text between the quotes
// with escape sequences left exactly as written.
type StringLit struct {
	ValuePos lexer.Position
	Value    string
}

func (l *StringLit) Pos() lexer.Position { return l.ValuePos }
func (l *StringLit) exprNode()           {}
func (l *StringLit) Accept(v Visitor) (interface{}, error) {
	return v.VisitStringLit(l)
}

// BoolLit is true or false.
type BoolLit struct {
	ValuePos lexer.Position
	Value    bool
}

func (l *BoolLit) Pos() lexer.Position { return l.ValuePos }
func (l *BoolLit) exprNode()           {}
func (l *BoolLit) Accept(v Visitor) (interface{}, error) {
	return v.VisitBoolLit(l)
}

// CallExpr calls a function by name.
//
// A call is always an expression. In statement position it is wrapped in an
// ExprStmt, which discards the result.
type CallExpr struct {
	NamePos lexer.Position
	Name    string
	Args    []Expr
}

func (c *CallExpr) Pos() lexer.Position { return c.NamePos }
func (c *CallExpr) exprNode()           {}
func (c *CallExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitCallExpr(c)
}
