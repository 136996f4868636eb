package ast

import "github.com/hassan/lpc/internal/lexer"

// ExprStmt evaluates X for its side effects and drops the value.
// The parser only builds it around calls.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Pos() lexer.Position    { return s.X.Pos() }
func (s *ExprStmt) stmtNode()              {}
func (s *ExprStmt) Accept(v Visitor) error { return v.VisitExprStmt(s) }

// BlockStmt is a braced statement list. It opens a new scope.
type BlockStmt struct {
	LeftBrace lexer.Position
	Stmts     []Stmt
}

func (s *BlockStmt) Pos() lexer.Position    { return s.LeftBrace }
func (s *BlockStmt) stmtNode()              {}
func (s *BlockStmt) Accept(v Visitor) error { return v.VisitBlockStmt(s) }

// IfStmt is "if (Cond) Then" with an optional "else Else".
type IfStmt struct {
	IfPos lexer.Position
	Cond  Expr
	Then  Stmt
	Else  Stmt // nil when absent
}

func (s *IfStmt) Pos() lexer.Position    { return s.IfPos }
func (s *IfStmt) stmtNode()              {}
func (s *IfStmt) Accept(v Visitor) error { return v.VisitIfStmt(s) }

// WhileStmt is a test-at-top loop.
type WhileStmt struct {
	WhilePos lexer.Position
	Cond     Expr
	Body     Stmt
}

func (s *WhileStmt) Pos() lexer.Position    { return s.WhilePos }
func (s *WhileStmt) stmtNode()              {}
func (s *WhileStmt) Accept(v Visitor) error { return v.VisitWhileStmt(s) }

// ReturnStmt leaves the enclosing function, with a value unless Value is nil.
type ReturnStmt struct {
	ReturnPos lexer.Position
	Value     Expr
}

func (s *ReturnStmt) Pos() lexer.Position    { return s.ReturnPos }
func (s *ReturnStmt) stmtNode()              {}
func (s *ReturnStmt) Accept(v Visitor) error { return v.VisitReturnStmt(s) }

// AssignStmt stores Value into the variable Name.
type AssignStmt struct {
	NamePos lexer.Position
	Name    string
	Value   Expr
}

func (s *AssignStmt) Pos() lexer.Position    { return s.NamePos }
func (s *AssignStmt) stmtNode()              {}
func (s *AssignStmt) Accept(v Visitor) error { return v.VisitAssignStmt(s) }
