// Package codegen emits Jasmin assembly for a checked, optionally folded,
// L+ program.
//
// The whole program becomes one class. Globals become static fields and
// functions become static methods. Locals live in the method frame at the
// slots the scope stack hands out, parameters first.
//
// The generator trusts the analyzer: it runs only on programs with no
// diagnostics, using the function registry the analyzer built. Anything it
// cannot translate is a compiler defect, reported as an error wrapping
// types.ErrInternal, and generation stops there.
package codegen

import (
	"fmt"
	"io"

	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic"
	"github.com/hassan/lpc/internal/semantic/types"
	"github.com/hassan/lpc/internal/symtab"
)

// DefaultClassName is the class generated when none is set.
const DefaultClassName = "Main"

// maxStack is the operand stack limit declared for every method.
const maxStack = 10

// Generator holds the state of one code generation run.
type Generator struct {
	w         io.Writer
	className string

	scopes *symtab.ScopeStack
	funcs  *symtab.FunctionRegistry

	// labelCount numbers branch targets; every target gets a fresh one.
	labelCount int

	// werr is the first write error; once set, output stops.
	werr error
}

var _ ast.Visitor = (*Generator)(nil)

// New creates a generator writing to w. funcs must be the registry the
// analyzer filled in for the same program.
func New(w io.Writer, funcs *symtab.FunctionRegistry) *Generator {
	return &Generator{
		w:         w,
		className: DefaultClassName,
		scopes:    symtab.NewScopeStack(),
		funcs:     funcs,
	}
}

// SetClassName sets the name of the generated class.
func (g *Generator) SetClassName(name string) {
	g.className = name
}

// Generate writes the class for prog.
func (g *Generator) Generate(prog *ast.Program) error {
	g.scopes.Reset()
	g.labelCount = 0
	g.werr = nil

	g.line(".class public %s", g.className)
	g.line(".super java/lang/Object")

	for _, decl := range prog.Globals() {
		if err := decl.Accept(g); err != nil {
			return err
		}
	}
	for _, decl := range prog.Functions() {
		if err := decl.Accept(g); err != nil {
			return err
		}
	}

	return g.werr
}

// line writes one line of output.
func (g *Generator) line(format string, args ...interface{}) {
	if g.werr != nil {
		return
	}
	_, g.werr = fmt.Fprintf(g.w, format+"\n", args...)
}

// emit writes one indented instruction.
func (g *Generator) emit(format string, args ...interface{}) {
	g.line("\t"+format, args...)
}

// newLabel allocates a branch target.
func (g *Generator) newLabel() int {
	n := g.labelCount
	g.labelCount++
	return n
}

func (g *Generator) placeLabel(n int) {
	g.line("Label%d:", n)
}

func (g *Generator) expr(e ast.Expr) error {
	_, err := e.Accept(g)
	return err
}

// typeOf returns the category of e, which must be a concrete value or void.
func (g *Generator) typeOf(e ast.Expr) (types.Category, error) {
	cat := semantic.TypeOf(e, g.scopes, g.funcs)
	if cat == types.CatUnknown {
		return cat, fmt.Errorf("line %d: cannot type %q: %w", ast.Line(e), ast.String(e), types.ErrInternal)
	}
	return cat, nil
}

// internalf reports a compiler defect at n.
func internalf(n ast.Node, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s: %w", ast.Line(n), fmt.Sprintf(format, args...), types.ErrInternal)
}

// Variables

// load pushes the variable name.
func (g *Generator) load(n ast.Node, name string) error {
	return g.access(n, name, "load", "getstatic")
}

// store pops the top of the stack into the variable name.
func (g *Generator) store(n ast.Node, name string) error {
	return g.access(n, name, "store", "putstatic")
}

func (g *Generator) access(n ast.Node, name, local, static string) error {
	cat := g.scopes.TypeOf(name)
	slot := g.scopes.SlotOf(name)

	switch {
	case slot == symtab.GlobalSlot:
		desc, err := cat.Descriptor()
		if err != nil {
			return internalf(n, "global %s: %v", name, err)
		}
		g.emit("%s %s/%s %s", static, g.className, name, desc)
	case slot >= 0:
		prefix, err := cat.InstructionPrefix()
		if err != nil {
			return internalf(n, "local %s: %v", name, err)
		}
		if slot <= 3 {
			g.emit("%s%s_%d", prefix, local, slot)
		} else {
			g.emit("%s%s %d", prefix, local, slot)
		}
	default:
		return internalf(n, "no slot for %s", name)
	}
	return nil
}

// Declarations

func (g *Generator) VisitVarDecl(decl *ast.VarDecl) error {
	g.scopes.Declare(decl.Type, decl.Name)

	if g.scopes.CurrentFunctionName() == symtab.GlobalFunction {
		desc, err := decl.Type.Descriptor()
		if err != nil {
			return internalf(decl, "global %s: %v", decl.Name, err)
		}
		g.line(".field public static %s %s", decl.Name, desc)
		return nil
	}

	if decl.Init == nil {
		return nil
	}
	if err := g.expr(decl.Init); err != nil {
		return err
	}
	if err := g.widen(decl.Init, decl.Type); err != nil {
		return err
	}
	return g.store(decl, decl.Name)
}

func (g *Generator) VisitFuncDecl(decl *ast.FuncDecl) error {
	g.scopes.OpenFunction(decl.ReturnType, decl.Name)
	defer g.scopes.CloseFunction()

	sig, ok := g.funcs.Lookup(decl.Name)
	if !ok {
		return internalf(decl, "function %s is not registered", decl.Name)
	}

	ret, err := decl.ReturnType.Descriptor()
	if err != nil {
		return internalf(decl, "function %s: %v", decl.Name, err)
	}

	locals := sig.Locals
	var params string
	if decl.Name == "main" {
		params = "[Ljava/lang/String;"
		locals++
	} else {
		for _, p := range decl.Params {
			desc, err := p.Type.Descriptor()
			if err != nil {
				return internalf(p, "parameter %s: %v", p.Name, err)
			}
			params += desc
			g.scopes.Declare(p.Type, p.Name)
		}
	}

	g.line("")
	g.line(".method public static %s(%s)%s", decl.Name, params, ret)
	g.emit(".limit stack %d", maxStack)
	g.emit(".limit locals %d", locals)

	if err := decl.Body.Accept(g); err != nil {
		return err
	}

	if decl.ReturnType == types.Void {
		g.emit("return")
	} else {
		prefix, err := types.FromSurface(decl.ReturnType).InstructionPrefix()
		if err != nil {
			return internalf(decl, "function %s: %v", decl.Name, err)
		}
		g.emit("%sreturn", prefix)
	}
	g.line(".end method")
	return nil
}

// Statements

func (g *Generator) VisitExprStmt(stmt *ast.ExprStmt) error {
	if err := g.expr(stmt.X); err != nil {
		return err
	}
	cat, err := g.typeOf(stmt.X)
	if err != nil {
		return err
	}
	if cat != types.CatVoid {
		g.emit("pop")
	}
	return nil
}

func (g *Generator) VisitBlockStmt(stmt *ast.BlockStmt) error {
	g.scopes.OpenScope()
	defer g.scopes.CloseScope()

	for _, s := range stmt.Stmts {
		if err := s.Accept(g); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) VisitIfStmt(stmt *ast.IfStmt) error {
	if err := g.expr(stmt.Cond); err != nil {
		return err
	}

	elseLabel := g.newLabel()
	g.emit("ifeq Label%d", elseLabel)
	if err := stmt.Then.Accept(g); err != nil {
		return err
	}

	endLabel := g.newLabel()
	g.emit("goto Label%d", endLabel)
	g.placeLabel(elseLabel)
	if stmt.Else != nil {
		if err := stmt.Else.Accept(g); err != nil {
			return err
		}
	}
	g.placeLabel(endLabel)
	return nil
}

func (g *Generator) VisitWhileStmt(stmt *ast.WhileStmt) error {
	testLabel := g.newLabel()
	g.placeLabel(testLabel)
	if err := g.expr(stmt.Cond); err != nil {
		return err
	}

	exitLabel := g.newLabel()
	g.emit("ifeq Label%d", exitLabel)
	if err := stmt.Body.Accept(g); err != nil {
		return err
	}
	g.emit("goto Label%d", testLabel)
	g.placeLabel(exitLabel)
	return nil
}

// VisitReturnStmt emits the return instruction of the enclosing function's
// declared type, widening an int value returned from a float function.
func (g *Generator) VisitReturnStmt(stmt *ast.ReturnStmt) error {
	if stmt.Value == nil {
		g.emit("return")
		return nil
	}

	ret, ok := g.scopes.CurrentFunctionReturnType()
	if !ok {
		return internalf(stmt, "return outside a function")
	}
	if err := g.expr(stmt.Value); err != nil {
		return err
	}
	if err := g.widen(stmt.Value, ret); err != nil {
		return err
	}
	prefix, err := types.FromSurface(ret).InstructionPrefix()
	if err != nil {
		return internalf(stmt, "return: %v", err)
	}
	g.emit("%sreturn", prefix)
	return nil
}

func (g *Generator) VisitAssignStmt(stmt *ast.AssignStmt) error {
	if err := g.expr(stmt.Value); err != nil {
		return err
	}
	target, ok := g.scopes.SurfaceTypeOf(stmt.Name)
	if !ok {
		return internalf(stmt, "no slot for %s", stmt.Name)
	}
	if err := g.widen(stmt.Value, target); err != nil {
		return err
	}
	return g.store(stmt, stmt.Name)
}

// widen converts the int just pushed for value when target is float.
func (g *Generator) widen(value ast.Expr, target types.SurfaceType) error {
	cat, err := g.typeOf(value)
	if err != nil {
		return err
	}
	if types.Widens(target, cat) {
		g.emit("i2f")
	}
	return nil
}
