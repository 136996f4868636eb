// Package parser builds an L+ syntax tree from source text.
//
// Statements and declarations are parsed by recursive descent; expressions
// by precedence climbing over the table in precedence.go.
//
// Errors do not stop the parse. Each one is recorded, the parser skips ahead
// to the next statement boundary and carries on, so one run reports every
// syntax error it can find.
package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hassan/lpc/internal/lexer"
	"github.com/hassan/lpc/internal/parser/ast"
	"github.com/hassan/lpc/internal/semantic/types"
)

// Parser holds the state of one parse.
type Parser struct {
	lexer *lexer.Lexer

	current  lexer.Token
	previous lexer.Token

	errors []error

	// panicMode suppresses further errors until the parser resynchronizes.
	panicMode bool
}

// bailout is the panic value used to unwind to the nearest recovery point.
type bailout struct{}

// New creates a parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lexer: l}
	p.advance()
	return p
}

// Parse is a shorthand for New(lexer.New(source, filename)).ParseProgram(filename).
func Parse(source, filename string) (*ast.Program, []error) {
	return New(lexer.New(source, filename)).ParseProgram(filename)
}

// ParseProgram parses a whole compilation unit.
//
//	program = { global | function } EOF
//
// The returned tree is partial when errors is not empty and must not be
// handed to later phases.
func (p *Parser) ParseProgram(filename string) (*ast.Program, []error) {
	prog := &ast.Program{Filename: filename}
	for !p.isAtEnd() {
		if decl := p.parseDecl(); decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
	}
	return prog, p.errors
}

// parseDecl parses a global variable or a function:
//
//	global   = type IDENT [ "=" expr ] ";"
//	function = type IDENT "(" params ")" block
func (p *Parser) parseDecl() (decl ast.Decl) {
	defer p.recover(p.current, func() { decl = nil })

	typePos := p.current.Position
	typ := p.parseType()
	p.consume(lexer.TokenIdentifier, "expected identifier after type")
	name := p.previous.Lexeme

	if p.match(lexer.TokenLeftParen) {
		params := p.parseParams()
		p.consume(lexer.TokenRightParen, "expected ')' after parameters")
		if !p.check(lexer.TokenLeftBrace) {
			p.fail("expected '{' before function body")
		}
		return &ast.FuncDecl{
			TypePos:    typePos,
			ReturnType: typ,
			Name:       name,
			Params:     params,
			Body:       p.parseBlock(),
		}
	}

	return p.finishVarDecl(typePos, typ, name)
}

// parseParams parses "type IDENT { , type IDENT }" up to, but not
// including, the closing parenthesis.
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	if p.check(lexer.TokenRightParen) {
		return params
	}
	for {
		pos := p.current.Position
		typ := p.parseType()
		p.consume(lexer.TokenIdentifier, "expected parameter name")
		params = append(params, &ast.Param{TypePos: pos, Type: typ, Name: p.previous.Lexeme})
		if !p.match(lexer.TokenComma) {
			return params
		}
	}
}

func (p *Parser) parseType() types.SurfaceType {
	if typ, ok := surfaceTypes[p.current.Type]; ok {
		p.advance()
		return typ
	}
	p.fail(fmt.Sprintf("expected type, got %s", describe(p.current)))
	return types.Void
}

// finishVarDecl parses the rest of "type IDENT [= expr] ;".
func (p *Parser) finishVarDecl(typePos lexer.Position, typ types.SurfaceType, name string) *ast.VarDecl {
	decl := &ast.VarDecl{TypePos: typePos, Type: typ, Name: name}
	if p.match(lexer.TokenAssign) {
		decl.Init = p.parseExpression()
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after variable declaration")
	return decl
}

// Statements

// parseStmt parses one statement, recovering at the next statement boundary
// on error. It returns nil for a statement that failed to parse.
func (p *Parser) parseStmt() (stmt ast.Stmt) {
	defer p.recover(p.current, func() { stmt = nil })
	return p.statement()
}

// recover must be deferred directly. It catches a bailout, resynchronizes
// and calls reset. If the failed construct consumed nothing, one token is
// skipped first so the caller's loop always makes progress.
func (p *Parser) recover(start lexer.Token, reset func()) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
	if p.current == start && !p.isAtEnd() {
		p.advance()
	}
	p.synchronize()
	reset()
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.check(lexer.TokenLeftBrace):
		return p.parseBlock()
	case p.match(lexer.TokenIf):
		return p.parseIf()
	case p.match(lexer.TokenWhile):
		return p.parseWhile()
	case p.match(lexer.TokenReturn):
		return p.parseReturn()
	case p.current.Type.IsTypeName():
		pos := p.current.Position
		typ := p.parseType()
		p.consume(lexer.TokenIdentifier, "expected identifier after type")
		return p.finishVarDecl(pos, typ, p.previous.Lexeme)
	case p.check(lexer.TokenIdentifier):
		return p.parseIdentStmt()
	default:
		p.fail(fmt.Sprintf("expected statement, got %s", describe(p.current)))
		return nil
	}
}

// parseBlock parses "{ stmt* }".
func (p *Parser) parseBlock() *ast.BlockStmt {
	p.consume(lexer.TokenLeftBrace, "expected '{'")
	block := &ast.BlockStmt{LeftBrace: p.previous.Position}
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if s := p.parseStmt(); s != nil {
			block.Stmts = append(block.Stmts, s)
		}
	}
	p.consume(lexer.TokenRightBrace, "expected '}'")
	return block
}

// parseIf parses "if ( expr ) stmt [ else stmt ]"; 'if' is consumed.
// A dangling else binds to the nearest if.
func (p *Parser) parseIf() *ast.IfStmt {
	stmt := &ast.IfStmt{IfPos: p.previous.Position}
	p.consume(lexer.TokenLeftParen, "expected '(' after 'if'")
	stmt.Cond = p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	stmt.Then = p.statement()
	if p.match(lexer.TokenElse) {
		stmt.Else = p.statement()
	}
	return stmt
}

// parseWhile parses "while ( expr ) stmt"; 'while' is consumed.
func (p *Parser) parseWhile() *ast.WhileStmt {
	stmt := &ast.WhileStmt{WhilePos: p.previous.Position}
	p.consume(lexer.TokenLeftParen, "expected '(' after 'while'")
	stmt.Cond = p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	stmt.Body = p.statement()
	return stmt
}

// parseReturn parses "return [ expr ] ;"; 'return' is consumed.
func (p *Parser) parseReturn() *ast.ReturnStmt {
	stmt := &ast.ReturnStmt{ReturnPos: p.previous.Position}
	if !p.check(lexer.TokenSemicolon) {
		stmt.Value = p.parseExpression()
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after return")
	return stmt
}

// parseIdentStmt parses a statement that starts with an identifier: an
// assignment "x = expr ;" or a call statement "f(args) ;".
func (p *Parser) parseIdentStmt() ast.Stmt {
	p.advance()
	name := p.previous

	if p.match(lexer.TokenAssign) {
		stmt := &ast.AssignStmt{NamePos: name.Position, Name: name.Lexeme, Value: p.parseExpression()}
		p.consume(lexer.TokenSemicolon, "expected ';' after assignment")
		return stmt
	}

	if p.match(lexer.TokenLeftParen) {
		call := p.finishCall(name)
		p.consume(lexer.TokenSemicolon, "expected ';' after call")
		return &ast.ExprStmt{X: call}
	}

	p.fail(fmt.Sprintf("expected '=' or '(' after %q", name.Lexeme))
	return nil
}

// Expressions

func (p *Parser) parseExpression() ast.Expr {
	return p.parsePrecedence(PrecOr)
}

// parsePrecedence parses a unary operand and then every binary operator
// binding at least as tightly as precedence.
func (p *Parser) parsePrecedence(precedence Precedence) ast.Expr {
	left := p.parseUnary()
	for {
		prec := getPrecedence(p.current.Type)
		if prec == PrecNone || prec < precedence {
			return left
		}
		opTok := p.current
		p.advance()
		right := p.parsePrecedence(prec + 1)
		left = &ast.BinaryExpr{
			Left:  left,
			Op:    binaryOperators[opTok.Type],
			OpPos: opTok.Position,
			Right: right,
		}
	}
}

// parseUnary parses "!" operands and negative numeric literals.
func (p *Parser) parseUnary() ast.Expr {
	if p.match(lexer.TokenNot) {
		pos := p.previous.Position
		return &ast.UnaryExpr{Op: ast.UnaryNot, OpPos: pos, X: p.parseUnary()}
	}
	if p.check(lexer.TokenMinus) {
		minus := p.current
		p.advance()
		if p.check(lexer.TokenInt) || p.check(lexer.TokenFloat) {
			return p.parseNumber(minus.Position, true)
		}
		p.fail("'-' must be followed by a number literal")
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current
	switch tok.Type {
	case lexer.TokenInt, lexer.TokenFloat:
		return p.parseNumber(tok.Position, false)

	case lexer.TokenString:
		p.advance()
		return &ast.StringLit{ValuePos: tok.Position, Value: tok.Lexeme[1 : len(tok.Lexeme)-1]}

	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		return &ast.BoolLit{ValuePos: tok.Position, Value: tok.Type == lexer.TokenTrue}

	case lexer.TokenIdentifier:
		p.advance()
		if p.match(lexer.TokenLeftParen) {
			return p.finishCall(tok)
		}
		return &ast.IdentExpr{NamePos: tok.Position, Name: tok.Lexeme}

	case lexer.TokenLeftParen:
		p.advance()
		inner := p.parseExpression()
		p.consume(lexer.TokenRightParen, "expected ')' after expression")
		return &ast.UnaryExpr{Op: ast.UnaryParen, OpPos: tok.Position, X: inner}
	}

	p.fail(fmt.Sprintf("expected expression, got %s", describe(tok)))
	return nil
}

// parseNumber converts the current numeric token into a literal. pos is the
// position of the literal, or of its leading '-' when negative.
func (p *Parser) parseNumber(pos lexer.Position, negative bool) ast.Expr {
	tok := p.current
	p.advance()

	text := tok.Lexeme
	if negative {
		text = "-" + text
	}

	if tok.Type == lexer.TokenInt {
		value, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			p.report(tok, fmt.Sprintf("integer literal %s out of range", text))
		}
		return &ast.IntLit{ValuePos: pos, Value: int32(value)}
	}

	value, err := strconv.ParseFloat(text, 32)
	if err != nil || math.IsInf(value, 0) {
		p.report(tok, fmt.Sprintf("float literal %s out of range", text))
	}
	return &ast.FloatLit{ValuePos: pos, Value: float32(value)}
}

// finishCall parses the arguments of a call; the name and '(' are consumed.
func (p *Parser) finishCall(name lexer.Token) *ast.CallExpr {
	call := &ast.CallExpr{NamePos: name.Position, Name: name.Lexeme}
	if !p.check(lexer.TokenRightParen) {
		for {
			call.Args = append(call.Args, p.parseExpression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "expected ')' after arguments")
	return call
}

// Helper methods

func (p *Parser) advance() {
	p.previous = p.current
	for {
		token, err := p.lexer.NextToken()
		if err == nil {
			p.current = token
			return
		}
		// Report lexical errors and keep scanning; the parser never sees an
		// invalid token.
		p.errors = append(p.errors, err)
	}
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) match(tokenType lexer.TokenType) bool {
	if !p.check(tokenType) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) {
	if !p.match(tokenType) {
		p.fail(message)
	}
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}

// fail records an error at the current token and unwinds to the nearest
// recovery point. Only the first error of a panic sequence is kept.
func (p *Parser) fail(message string) {
	if !p.panicMode {
		p.panicMode = true
		p.report(p.current, message)
	}
	panic(bailout{})
}

// report records an error at tok without unwinding.
func (p *Parser) report(tok lexer.Token, message string) {
	p.errors = append(p.errors, fmt.Errorf("%s: %s", tok.Position.String(), message))
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.panicMode = false

	for !p.isAtEnd() {
		if p.previous.Type == lexer.TokenSemicolon || p.previous.Type == lexer.TokenRightBrace {
			return
		}
		switch p.current.Type {
		case lexer.TokenIf, lexer.TokenWhile, lexer.TokenReturn, lexer.TokenLeftBrace,
			lexer.TokenRightBrace, lexer.TokenBool, lexer.TokenIntType,
			lexer.TokenFloatType, lexer.TokenStringType, lexer.TokenVoid:
			return
		}
		p.advance()
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenEOF:
		return "end of file"
	case lexer.TokenIdentifier, lexer.TokenInt, lexer.TokenFloat, lexer.TokenString:
		return fmt.Sprintf("%s %s", tok.Type, tok.Lexeme)
	default:
		return fmt.Sprintf("'%s'", tok.Type)
	}
}
