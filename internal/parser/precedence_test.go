package parser

import (
	"testing"

	"github.com/hassan/lpc/internal/lexer"
	"github.com/nalgeon/be"
)

func TestGetPrecedence(t *testing.T) {
	tests := []struct {
		token lexer.TokenType
		want  Precedence
	}{
		{lexer.TokenOr, PrecOr},
		{lexer.TokenAnd, PrecAnd},
		{lexer.TokenEqual, PrecEquality},
		{lexer.TokenNotEqual, PrecEquality},
		{lexer.TokenLess, PrecComparison},
		{lexer.TokenGreaterEqual, PrecComparison},
		{lexer.TokenPlus, PrecTerm},
		{lexer.TokenMinus, PrecTerm},
		{lexer.TokenStar, PrecFactor},
		{lexer.TokenSlash, PrecFactor},
		{lexer.TokenNot, PrecNone},
		{lexer.TokenAssign, PrecNone},
		{lexer.TokenSemicolon, PrecNone},
	}
	for _, tt := range tests {
		t.Run(tt.token.String(), func(t *testing.T) {
			be.Equal(t, getPrecedence(tt.token), tt.want)
		})
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	order := []Precedence{PrecNone, PrecOr, PrecAnd, PrecEquality, PrecComparison, PrecTerm, PrecFactor, PrecUnary, PrecPrimary}
	for i := 1; i < len(order); i++ {
		be.True(t, order[i-1] < order[i])
	}
}

func TestEveryBinaryTokenHasOperator(t *testing.T) {
	for tok := range binaryOperators {
		be.True(t, getPrecedence(tok) != PrecNone)
	}
}
