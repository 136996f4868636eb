package lexer

// TokenType identifies the kind of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenInvalid

	// Literals
	TokenInt    // 42
	TokenFloat  // 3.14, 1e10
	TokenString // "hello"

	TokenIdentifier

	// Keywords
	TokenIf
	TokenElse
	TokenWhile
	TokenReturn
	TokenTrue
	TokenFalse
	TokenBool
	TokenIntType
	TokenFloatType
	TokenStringType
	TokenVoid

	// Operators
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenAnd          // &&
	TokenOr           // ||
	TokenNot          // !
	TokenAssign       // =

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }
	TokenComma      // ,
	TokenSemicolon  // ;
)

// Token is a lexical token with its source position.
type Token struct {
	Type TokenType

	// Lexeme is the source text of the token. String literals keep their
	// quotes.
	Lexeme string

	Position Position
}

// String returns "TYPE(lexeme) at position", for debugging and errors.
func (t Token) String() string {
	return t.Type.String() + "(" + t.Lexeme + ") at " + t.Position.String()
}

var tokenNames = [...]string{
	TokenEOF:          "EOF",
	TokenInvalid:      "INVALID",
	TokenInt:          "INT",
	TokenFloat:        "FLOAT",
	TokenString:       "STRING",
	TokenIdentifier:   "IDENTIFIER",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenWhile:        "while",
	TokenReturn:       "return",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenBool:         "bool",
	TokenIntType:      "int",
	TokenFloatType:    "float",
	TokenStringType:   "string",
	TokenVoid:         "void",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenAnd:          "&&",
	TokenOr:           "||",
	TokenNot:          "!",
	TokenAssign:       "=",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenSemicolon:    ";",
}

// String returns the keyword or operator spelling, or an upper-case name
// for the token classes.
func (tt TokenType) String() string {
	if tt < 0 || int(tt) >= len(tokenNames) {
		return "UNKNOWN"
	}
	return tokenNames[tt]
}

var keywords = map[string]TokenType{
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"return": TokenReturn,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"bool":   TokenBool,
	"int":    TokenIntType,
	"float":  TokenFloatType,
	"string": TokenStringType,
	"void":   TokenVoid,
}

// LookupKeyword returns the keyword token type for identifier, or
// TokenIdentifier if it is not a keyword.
func LookupKeyword(identifier string) TokenType {
	if tokenType, ok := keywords[identifier]; ok {
		return tokenType
	}
	return TokenIdentifier
}

// IsKeyword reports whether the token is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenIf && tt <= TokenVoid
}

// IsTypeName reports whether the token names a surface type.
func (tt TokenType) IsTypeName() bool {
	return tt >= TokenBool && tt <= TokenVoid
}

// IsOperator reports whether the token is an operator.
func (tt TokenType) IsOperator() bool {
	return tt >= TokenPlus && tt <= TokenAssign
}
