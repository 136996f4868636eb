package codegen

import (
	"math"
	"strings"

	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Expression visitors leave exactly one value on the operand stack, except
// calls to void functions, which leave none. They return (nil, err).

func (g *Generator) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	left, err := g.typeOf(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.typeOf(expr.Right)
	if err != nil {
		return nil, err
	}

	switch {
	case expr.Op.IsArithmetic():
		return nil, g.arithmetic(expr, left, right)
	case expr.Op.IsLogical():
		return nil, g.logical(expr)
	case expr.Op.IsEquality():
		return nil, g.equality(expr, left, right)
	case expr.Op.IsRelational():
		return nil, g.relational(expr, left, right)
	default:
		return nil, internalf(expr, "unknown operator %s", expr.Op)
	}
}

var arithmeticMnemonics = map[types.Operator]string{
	types.OpAdd: "add",
	types.OpSub: "sub",
	types.OpMul: "mul",
	types.OpDiv: "div",
}

// arithmetic compiles + - * /. Strings concatenate; an int meeting a float
// is widened right after it is pushed.
func (g *Generator) arithmetic(expr *ast.BinaryExpr, left, right types.Category) error {
	if expr.Op == types.OpAdd && left == types.CatString && right == types.CatString {
		if err := g.operands(expr); err != nil {
			return err
		}
		g.emit("invokevirtual java/lang/String/concat(Ljava/lang/String;)Ljava/lang/String;")
		return nil
	}

	if !left.IsNumeric() || !right.IsNumeric() {
		return internalf(expr, "arithmetic on %s and %s", left, right)
	}

	if err := g.expr(expr.Left); err != nil {
		return err
	}
	if left == types.CatInt && right == types.CatFloat {
		g.emit("i2f")
	}
	if err := g.expr(expr.Right); err != nil {
		return err
	}
	if left == types.CatFloat && right == types.CatInt {
		g.emit("i2f")
	}

	prefix := "i"
	if left == types.CatFloat || right == types.CatFloat {
		prefix = "f"
	}
	g.emit("%s%s", prefix, arithmeticMnemonics[expr.Op])
	return nil
}

// logical compiles && and || bitwise over 0/1 values. Both operands are
// always evaluated.
func (g *Generator) logical(expr *ast.BinaryExpr) error {
	if err := g.operands(expr); err != nil {
		return err
	}
	if expr.Op == types.OpAnd {
		g.emit("iand")
	} else {
		g.emit("ior")
	}
	return nil
}

var floatBranches = map[types.Operator]string{
	types.OpEq: "ifeq",
	types.OpNe: "ifne",
	types.OpLt: "iflt",
	types.OpLe: "ifle",
	types.OpGt: "ifgt",
	types.OpGe: "ifge",
}

// relational compiles < <= > >= by comparing both operands as floats.
func (g *Generator) relational(expr *ast.BinaryExpr, left, right types.Category) error {
	if !left.IsNumeric() || !right.IsNumeric() {
		return internalf(expr, "comparison of %s and %s", left, right)
	}
	return g.floatCompare(expr, left, right)
}

// equality compiles == and !=. Float comparison is used when either side is
// a float; ints and bools compare as ints, strings by reference. A string
// never equals a non-string.
func (g *Generator) equality(expr *ast.BinaryExpr, left, right types.Category) error {
	switch {
	case left == types.CatFloat || right == types.CatFloat:
		if left == types.CatString || right == types.CatString {
			return g.mismatchedEquality(expr)
		}
		return g.floatCompare(expr, left, right)

	case isIntLike(left) && isIntLike(right):
		branch := "if_icmpeq"
		if expr.Op == types.OpNe {
			branch = "if_icmpne"
		}
		if err := g.operands(expr); err != nil {
			return err
		}
		g.pushCondition(branch)
		return nil

	case left == types.CatString && right == types.CatString:
		branch := "if_acmpeq"
		if expr.Op == types.OpNe {
			branch = "if_acmpne"
		}
		if err := g.operands(expr); err != nil {
			return err
		}
		g.pushCondition(branch)
		return nil

	case left == types.CatString || right == types.CatString:
		return g.mismatchedEquality(expr)

	default:
		return internalf(expr, "equality of %s and %s", left, right)
	}
}

func isIntLike(c types.Category) bool {
	return c == types.CatInt || c == types.CatBool
}

// mismatchedEquality evaluates both operands for their side effects and
// pushes the constant result of comparing a string with a non-string.
func (g *Generator) mismatchedEquality(expr *ast.BinaryExpr) error {
	if err := g.operands(expr); err != nil {
		return err
	}
	g.emit("pop")
	g.emit("pop")
	if expr.Op == types.OpEq {
		g.emit("ldc 0")
	} else {
		g.emit("ldc 1")
	}
	return nil
}

// floatCompare pushes both operands as floats, compares them with fcmpl
// and turns the result into 0 or 1.
func (g *Generator) floatCompare(expr *ast.BinaryExpr, left, right types.Category) error {
	branch, ok := floatBranches[expr.Op]
	if !ok {
		return internalf(expr, "no float branch for %s", expr.Op)
	}

	if err := g.expr(expr.Left); err != nil {
		return err
	}
	if isIntLike(left) {
		g.emit("i2f")
	}
	if err := g.expr(expr.Right); err != nil {
		return err
	}
	if isIntLike(right) {
		g.emit("i2f")
	}

	g.emit("fcmpl")
	g.pushCondition(branch)
	return nil
}

// pushCondition consumes what branch tests and pushes 1 if it jumps, else 0.
func (g *Generator) pushCondition(branch string) {
	trueLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit("%s Label%d", branch, trueLabel)
	g.emit("ldc 0")
	g.emit("goto Label%d", endLabel)
	g.placeLabel(trueLabel)
	g.emit("ldc 1")
	g.placeLabel(endLabel)
}

func (g *Generator) operands(expr *ast.BinaryExpr) error {
	if err := g.expr(expr.Left); err != nil {
		return err
	}
	return g.expr(expr.Right)
}

// VisitUnaryExpr compiles !b as 1 - b over 0/1 values. Parentheses emit
// nothing of their own.
func (g *Generator) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	switch expr.Op {
	case ast.UnaryNot:
		g.emit("iconst_1")
		if err := g.expr(expr.X); err != nil {
			return nil, err
		}
		g.emit("isub")
	case ast.UnaryParen:
		if err := g.expr(expr.X); err != nil {
			return nil, err
		}
	default:
		return nil, internalf(expr, "unknown unary operator %d", expr.Op)
	}
	return nil, nil
}

func (g *Generator) VisitIdentExpr(expr *ast.IdentExpr) (interface{}, error) {
	return nil, g.load(expr, expr.Name)
}

func (g *Generator) VisitIntLit(expr *ast.IntLit) (interface{}, error) {
	g.emit("ldc %d", expr.Value)
	return nil, nil
}

// VisitFloatLit pushes a float constant. Infinities and NaN have no literal
// form, so they are computed by a division.
func (g *Generator) VisitFloatLit(expr *ast.FloatLit) (interface{}, error) {
	v := float64(expr.Value)
	switch {
	case math.IsNaN(v):
		g.emit("ldc 0.0")
		g.emit("ldc 0.0")
		g.emit("fdiv")
	case math.IsInf(v, 0):
		if v > 0 {
			g.emit("ldc 1.0")
		} else {
			g.emit("ldc -1.0")
		}
		g.emit("ldc 0.0")
		g.emit("fdiv")
	default:
		g.emit("ldc %s", ast.FormatFloat(expr.Value))
	}
	return nil, nil
}

// VisitStringLit pushes a string constant. The contents keep their source
// escapes, which Jasmin understands.
func (g *Generator) VisitStringLit(expr *ast.StringLit) (interface{}, error) {
	g.emit("ldc \"%s\"", expr.Value)
	return nil, nil
}

func (g *Generator) VisitBoolLit(expr *ast.BoolLit) (interface{}, error) {
	if expr.Value {
		g.emit("ldc 1")
	} else {
		g.emit("ldc 0")
	}
	return nil, nil
}

// VisitCallExpr pushes the arguments, widening ints passed to float
// parameters, and invokes the function.
func (g *Generator) VisitCallExpr(expr *ast.CallExpr) (interface{}, error) {
	sig, ok := g.funcs.Lookup(expr.Name)
	if !ok {
		return nil, internalf(expr, "call to unregistered function %s", expr.Name)
	}
	if len(sig.Params) != len(expr.Args) {
		return nil, internalf(expr, "%s takes %d arguments, got %d", expr.Name, len(sig.Params), len(expr.Args))
	}

	var params strings.Builder
	for i, arg := range expr.Args {
		if err := g.expr(arg); err != nil {
			return nil, err
		}
		if err := g.widen(arg, sig.Params[i]); err != nil {
			return nil, err
		}
		desc, err := sig.Params[i].Descriptor()
		if err != nil {
			return nil, internalf(expr, "parameter %d of %s: %v", i+1, expr.Name, err)
		}
		params.WriteString(desc)
	}

	ret, err := sig.ReturnType.Descriptor()
	if err != nil {
		return nil, internalf(expr, "%s: %v", expr.Name, err)
	}
	g.emit("invokestatic %s/%s(%s)%s", g.className, expr.Name, params.String(), ret)
	return nil, nil
}
