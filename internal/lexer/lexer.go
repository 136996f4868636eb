// Package lexer turns L+ source text into tokens.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer scans one source file. Call NextToken until it returns TokenEOF.
//
// Whitespace and comments are skipped. Positions are tracked as we go so every
// token knows where it came from.
type Lexer struct {
	source   string
	filename string

	// start is the offset of the token being scanned, current the offset of
	// the next unread byte.
	start   int
	current int

	// line is 1-based; lineStart is the offset where it begins, so the column
	// of any offset is offset - lineStart + 1.
	line      int
	lineStart int
}

// New creates a Lexer over source. filename is only used in positions.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
	}
}

// NextToken returns the next token.
//
// On a lexical error it returns a TokenInvalid token together with an error
// carrying the position; scanning can continue with the next call.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return l.makeToken(TokenInvalid, ""), err
	}

	l.start = l.current
	if l.isAtEnd() {
		return l.makeToken(TokenEOF, ""), nil
	}

	ch := l.advance()

	if isLetter(ch) {
		return l.scanIdentifier(), nil
	}
	if isDigit(ch) {
		return l.scanNumber()
	}

	switch ch {
	case '(':
		return l.makeToken(TokenLeftParen, "("), nil
	case ')':
		return l.makeToken(TokenRightParen, ")"), nil
	case '{':
		return l.makeToken(TokenLeftBrace, "{"), nil
	case '}':
		return l.makeToken(TokenRightBrace, "}"), nil
	case ',':
		return l.makeToken(TokenComma, ","), nil
	case ';':
		return l.makeToken(TokenSemicolon, ";"), nil
	case '+':
		return l.makeToken(TokenPlus, "+"), nil
	case '-':
		return l.makeToken(TokenMinus, "-"), nil
	case '*':
		return l.makeToken(TokenStar, "*"), nil
	case '/':
		return l.makeToken(TokenSlash, "/"), nil

	case '=':
		if l.match('=') {
			return l.makeToken(TokenEqual, "=="), nil
		}
		return l.makeToken(TokenAssign, "="), nil
	case '!':
		if l.match('=') {
			return l.makeToken(TokenNotEqual, "!="), nil
		}
		return l.makeToken(TokenNot, "!"), nil
	case '<':
		if l.match('=') {
			return l.makeToken(TokenLessEqual, "<="), nil
		}
		return l.makeToken(TokenLess, "<"), nil
	case '>':
		if l.match('=') {
			return l.makeToken(TokenGreaterEqual, ">="), nil
		}
		return l.makeToken(TokenGreater, ">"), nil

	case '&':
		if l.match('&') {
			return l.makeToken(TokenAnd, "&&"), nil
		}
		return l.makeToken(TokenInvalid, "&"), l.error("unexpected character '&' (did you mean '&&'?)")
	case '|':
		if l.match('|') {
			return l.makeToken(TokenOr, "||"), nil
		}
		return l.makeToken(TokenInvalid, "|"), l.error("unexpected character '|' (did you mean '||'?)")

	case '"':
		return l.scanString()
	}

	return l.makeToken(TokenInvalid, string(ch)), l.error(fmt.Sprintf("unexpected character: %q", ch))
}

// Character helpers

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	if ch == '\n' {
		l.line++
		l.lineStart = l.current
	}
	return ch
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return ch
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return ch
}

func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// skipTrivia skips whitespace, line comments and block comments.
func (l *Lexer) skipTrivia() error {
	for !l.isAtEnd() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '*':
			l.start = l.current
			l.advance()
			l.advance()
			for !(l.peek() == '*' && l.peekNext() == '/') {
				if l.isAtEnd() {
					return l.error("unterminated block comment")
				}
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

// Token scanners

func (l *Lexer) scanIdentifier() Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	return l.makeToken(LookupKeyword(text), text)
}

// scanNumber scans 42, 3.14, 1e10 or 2.5e-3. A literal with a fraction or
// an exponent is a float.
func (l *Lexer) scanNumber() (Token, error) {
	tokenType := TokenInt

	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		tokenType = TokenFloat
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		// Only an exponent if digits follow; otherwise leave the 'e' alone.
		save, saveLine, saveLineStart := l.current, l.line, l.lineStart
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if isDigit(l.peek()) {
			tokenType = TokenFloat
			for isDigit(l.peek()) {
				l.advance()
			}
		} else {
			l.current, l.line, l.lineStart = save, saveLine, saveLineStart
		}
	}

	if isLetter(l.peek()) {
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		text := l.source[l.start:l.current]
		return l.makeToken(TokenInvalid, text), l.error(fmt.Sprintf("malformed number: %s", text))
	}

	return l.makeToken(tokenType, l.source[l.start:l.current]), nil
}

// scanString scans a double-quoted string. Escapes are skipped over but
// left in the lexeme untouched.
func (l *Lexer) scanString() (Token, error) {
	for !l.isAtEnd() {
		switch l.peek() {
		case '"':
			l.advance()
			return l.makeToken(TokenString, l.source[l.start:l.current]), nil
		case '\n':
			return l.makeToken(TokenInvalid, ""), l.error("unterminated string literal")
		case '\\':
			l.advance()
			if !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			l.advance()
		}
	}
	return l.makeToken(TokenInvalid, ""), l.error("unterminated string literal")
}

func (l *Lexer) makeToken(tokenType TokenType, lexeme string) Token {
	return Token{
		Type:     tokenType,
		Lexeme:   lexeme,
		Position: l.tokenPosition(),
	}
}

// tokenPosition is the position of the token being scanned. Tokens never
// span lines, except block comments which are not tokens.
func (l *Lexer) tokenPosition() Position {
	col := l.start - l.lineStart + 1
	if col < 1 {
		col = 1
	}
	return Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   col,
		Offset:   l.start,
	}
}

func (l *Lexer) error(message string) error {
	return fmt.Errorf("%s: %s", l.tokenPosition().String(), message)
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
