package parser

import (
	"github.com/hassan/lpc/internal/lexer"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Precedence is the binding power of a binary operator. Higher binds tighter.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecOr                    // ||
	PrecAnd                   // &&
	PrecEquality              // == !=
	PrecComparison            // < <= > >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! and negative literals
	PrecPrimary               // literals, identifiers, calls, (grouping)
)

// getPrecedence returns the precedence of tokenType used as a binary
// operator, or PrecNone if it is not one. All binary operators are left
// associative.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenOr:
		return PrecOr
	case lexer.TokenAnd:
		return PrecAnd
	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality
	case lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual:
		return PrecComparison
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash:
		return PrecFactor
	default:
		return PrecNone
	}
}

var binaryOperators = map[lexer.TokenType]types.Operator{
	lexer.TokenPlus:         types.OpAdd,
	lexer.TokenMinus:        types.OpSub,
	lexer.TokenStar:         types.OpMul,
	lexer.TokenSlash:        types.OpDiv,
	lexer.TokenEqual:        types.OpEq,
	lexer.TokenNotEqual:     types.OpNe,
	lexer.TokenLess:         types.OpLt,
	lexer.TokenLessEqual:    types.OpLe,
	lexer.TokenGreater:      types.OpGt,
	lexer.TokenGreaterEqual: types.OpGe,
	lexer.TokenAnd:          types.OpAnd,
	lexer.TokenOr:           types.OpOr,
}

var surfaceTypes = map[lexer.TokenType]types.SurfaceType{
	lexer.TokenBool:       types.Bool,
	lexer.TokenIntType:    types.Int,
	lexer.TokenFloatType:  types.Float,
	lexer.TokenStringType: types.String,
	lexer.TokenVoid:       types.Void,
}
