package types

// Operator is a binary operator of the language.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var operatorSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "&&",
	OpOr:  "||",
}

// String returns the operator as written in source.
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return "<invalid>"
	}
	return operatorSymbols[op]
}

// EvalType classifies the operator alone: CatArith for + - * /, CatBool for
// comparisons and logical operators. Anything else is CatUnknown.
func (op Operator) EvalType() Category {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return CatArith
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
		return CatBool
	default:
		return CatUnknown
	}
}

// IsArithmetic reports whether op is one of + - * /.
func (op Operator) IsArithmetic() bool { return op.EvalType() == CatArith }

// IsEquality reports whether op is == or !=.
func (op Operator) IsEquality() bool { return op == OpEq || op == OpNe }

// IsRelational reports whether op is one of < <= > >=.
func (op Operator) IsRelational() bool {
	return op == OpLt || op == OpLe || op == OpGt || op == OpGe
}

// IsLogical reports whether op is && or ||.
func (op Operator) IsLogical() bool { return op == OpAnd || op == OpOr }

// ResultCategory computes the category of "left op right".
// The second result is false when the pairing is ill-typed.
//
// RULES:
//
//	+ - * /    equal numeric categories give that category, int with float
//	           gives float; string + string gives string (concatenation)
//	== !=      any two value categories, result bool
//	< <= > >=  numeric operands only, result bool
//	&& ||      bool operands only, result bool
//
// Operands that are void or unknown are never well typed here; callers
// decide whether that deserves a diagnostic.
func ResultCategory(op Operator, left, right Category) (Category, bool) {
	if !left.IsValue() || !right.IsValue() {
		return CatUnknown, false
	}

	switch {
	case op.IsArithmetic():
		if left.IsNumeric() && right.IsNumeric() {
			if left == right {
				return left, true
			}
			return CatFloat, true
		}
		if op == OpAdd && left == CatString && right == CatString {
			return CatString, true
		}
		return CatUnknown, false

	case op.IsEquality():
		return CatBool, true

	case op.IsRelational():
		if left.IsNumeric() && right.IsNumeric() {
			return CatBool, true
		}
		return CatUnknown, false

	case op.IsLogical():
		if left == CatBool && right == CatBool {
			return CatBool, true
		}
		return CatUnknown, false
	}

	return CatUnknown, false
}
