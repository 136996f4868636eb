package ast

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// String renders a node as L+ source.
func String(n Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n, 0)
	return sb.String()
}

// Fprint writes n as L+ source to w. Statements are indented depth tabs.
// Printing never modifies the tree.
func Fprint(w io.Writer, n Node, depth int) error {
	p := &printer{w: w, depth: depth}
	switch n := n.(type) {
	case *Program:
		p.program(n)
	case Expr:
		p.expr(n)
	case Stmt:
		p.stmt(n)
	case *Param:
		p.param(n)
	}
	return p.err
}

// FormatFloat renders a float literal value so it reads back as a float:
// integral values get a ".0" suffix. Non-finite values are spelled as the
// division that produces them.
func FormatFloat(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "(0.0 / 0.0)"
	case math.IsInf(f, 1):
		return "(1.0 / 0.0)"
	case math.IsInf(f, -1):
		return "(-1.0 / 0.0)"
	}
	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) indent() {
	p.write(strings.Repeat("\t", p.depth))
}

func (p *printer) program(prog *Program) {
	for i, d := range prog.Decls {
		if i > 0 {
			if _, isFunc := d.(*FuncDecl); isFunc {
				p.write("\n")
			} else if _, prevFunc := prog.Decls[i-1].(*FuncDecl); prevFunc {
				p.write("\n")
			}
		}
		p.stmt(d)
	}
}

func (p *printer) param(prm *Param) {
	p.write(prm.Type.String() + " " + prm.Name)
}

func (p *printer) expr(e Expr) {
	_, _ = e.Accept(p)
}

// stmt prints s on its own line(s) at the current depth.
func (p *printer) stmt(s Stmt) {
	p.indent()
	_ = s.Accept(p)
}

// body prints the statement that follows "if (...)", "else" or "while (...)".
// A block continues the current line; anything else goes on the next line
// one level deeper.
func (p *printer) body(s Stmt) {
	if b, ok := s.(*BlockStmt); ok {
		p.write(" ")
		_ = b.Accept(p)
		return
	}
	p.write("\n")
	p.depth++
	p.stmt(s)
	p.depth--
}

func (p *printer) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	p.expr(expr.Left)
	p.write(" " + expr.Op.String() + " ")
	p.expr(expr.Right)
	return nil, nil
}

func (p *printer) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	switch expr.Op {
	case UnaryNot:
		p.write("!")
		p.expr(expr.X)
	case UnaryParen:
		p.write("(")
		p.expr(expr.X)
		p.write(")")
	}
	return nil, nil
}

func (p *printer) VisitIdentExpr(expr *IdentExpr) (interface{}, error) {
	p.write(expr.Name)
	return nil, nil
}

func (p *printer) VisitIntLit(expr *IntLit) (interface{}, error) {
	p.write(strconv.FormatInt(int64(expr.Value), 10))
	return nil, nil
}

func (p *printer) VisitFloatLit(expr *FloatLit) (interface{}, error) {
	p.write(FormatFloat(expr.Value))
	return nil, nil
}

func (p *printer) VisitStringLit(expr *StringLit) (interface{}, error) {
	p.write(`"` + expr.Value + `"`)
	return nil, nil
}

func (p *printer) VisitBoolLit(expr *BoolLit) (interface{}, error) {
	p.write(strconv.FormatBool(expr.Value))
	return nil, nil
}

func (p *printer) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	p.write(expr.Name + "(")
	for i, arg := range expr.Args {
		if i > 0 {
			p.write(", ")
		}
		p.expr(arg)
	}
	p.write(")")
	return nil, nil
}

func (p *printer) VisitExprStmt(stmt *ExprStmt) error {
	p.expr(stmt.X)
	p.write(";\n")
	return nil
}

func (p *printer) VisitBlockStmt(stmt *BlockStmt) error {
	p.write("{\n")
	p.depth++
	for _, s := range stmt.Stmts {
		p.stmt(s)
	}
	p.depth--
	p.indent()
	p.write("}\n")
	return nil
}

func (p *printer) VisitIfStmt(stmt *IfStmt) error {
	p.write("if (")
	p.expr(stmt.Cond)
	p.write(")")
	if stmt.Else == nil {
		p.body(stmt.Then)
		return nil
	}

	if b, ok := stmt.Then.(*BlockStmt); ok {
		// Print the block without its trailing newline so else joins "}".
		p.write(" {\n")
		p.depth++
		for _, s := range b.Stmts {
			p.stmt(s)
		}
		p.depth--
		p.indent()
		p.write("} else")
	} else {
		p.body(stmt.Then)
		p.indent()
		p.write("else")
	}

	if elif, ok := stmt.Else.(*IfStmt); ok {
		p.write(" ")
		return p.VisitIfStmt(elif)
	}
	p.body(stmt.Else)
	return nil
}

func (p *printer) VisitWhileStmt(stmt *WhileStmt) error {
	p.write("while (")
	p.expr(stmt.Cond)
	p.write(")")
	p.body(stmt.Body)
	return nil
}

func (p *printer) VisitReturnStmt(stmt *ReturnStmt) error {
	p.write("return")
	if stmt.Value != nil {
		p.write(" ")
		p.expr(stmt.Value)
	}
	p.write(";\n")
	return nil
}

func (p *printer) VisitAssignStmt(stmt *AssignStmt) error {
	p.write(stmt.Name + " = ")
	p.expr(stmt.Value)
	p.write(";\n")
	return nil
}

func (p *printer) VisitVarDecl(decl *VarDecl) error {
	p.write(decl.Type.String() + " " + decl.Name)
	if decl.Init != nil {
		p.write(" = ")
		p.expr(decl.Init)
	}
	p.write(";\n")
	return nil
}

func (p *printer) VisitFuncDecl(decl *FuncDecl) error {
	p.write(decl.ReturnType.String() + " " + decl.Name + "(")
	for i, prm := range decl.Params {
		if i > 0 {
			p.write(", ")
		}
		p.param(prm)
	}
	p.write(")")
	if decl.Body == nil {
		p.write(" {\n")
		p.indent()
		p.write("}\n")
		return nil
	}
	p.write(" ")
	return decl.Body.Accept(p)
}
