// Package parser implements the SharpTS parser: a Pratt (precedence
// climbing) expression parser plus a recursive-descent statement and
// declaration parser, producing internal/ast node trees from internal/token
// tokens.
//
// Key patterns, carried over from the teacher's architecture:
//   - Cursor-based lookahead: TokenCursor is immutable; parsing functions
//     advance by reassigning p.cursor rather than mutating shared state.
//   - Panic-mode recovery: synchronize() skips to a statement boundary after
//     a parse error so one mistake doesn't cascade into spurious errors for
//     the rest of the file.
//   - Structured errors: every failure is a *ParserError carrying a Code a
//     caller can switch on, not just a message string.
package parser

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= ...
	CONDITIONAL // ?:
	NULLISH     // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALITY    // == != === !==
	RELATIONAL  // < > <= >= instanceof in as satisfies
	SHIFT       // << >> >>>
	ADDITIVE    // + -
	MULTIPLICATIVE // * / %
	EXPONENT    // **
	PREFIX      // unary ! ~ + - typeof await
	POSTFIX     // ++ -- (postfix)
	CALL_MEMBER // . ?. [] () <>
)

var precedences = map[token.Kind]int{
	token.ASSIGN: ASSIGNMENT, token.PLUS_ASSIGN: ASSIGNMENT, token.MINUS_ASSIGN: ASSIGNMENT,
	token.STAR_ASSIGN: ASSIGNMENT, token.SLASH_ASSIGN: ASSIGNMENT, token.PERCENT_ASSIGN: ASSIGNMENT,
	token.STARSTAR_ASSIGN: ASSIGNMENT, token.AND_ASSIGN: ASSIGNMENT, token.OR_ASSIGN: ASSIGNMENT,
	token.XOR_ASSIGN: ASSIGNMENT, token.SHL_ASSIGN: ASSIGNMENT, token.SHR_ASSIGN: ASSIGNMENT,
	token.USHR_ASSIGN: ASSIGNMENT, token.LOGICAL_AND_ASSIGN: ASSIGNMENT, token.LOGICAL_OR_ASSIGN: ASSIGNMENT,
	token.QUESTION_QUESTION_EQUAL: ASSIGNMENT,
	token.QUESTION: CONDITIONAL,
	token.QUESTION_QUESTION: NULLISH,
	token.LOGICAL_OR:         LOGICAL_OR,
	token.LOGICAL_AND:        LOGICAL_AND,
	token.PIPE:               BITWISE_OR,
	token.CARET:              BITWISE_XOR,
	token.AMP:                BITWISE_AND,
	token.EQ: EQUALITY, token.NEQ: EQUALITY, token.EQ_STRICT: EQUALITY, token.NEQ_STRICT: EQUALITY,
	token.LT: RELATIONAL, token.GT: RELATIONAL, token.LE: RELATIONAL, token.GE: RELATIONAL,
	token.INSTANCEOF: RELATIONAL, token.IN: RELATIONAL, token.AS: RELATIONAL, token.SATISFIES: RELATIONAL,
	token.SHL: SHIFT, token.SHR: SHIFT, token.USHR: SHIFT,
	token.PLUS: ADDITIVE, token.MINUS: ADDITIVE,
	token.STAR: MULTIPLICATIVE, token.SLASH: MULTIPLICATIVE, token.PERCENT: MULTIPLICATIVE,
	token.STARSTAR: EXPONENT,
	token.LPAREN: CALL_MEMBER, token.LBRACKET: CALL_MEMBER, token.DOT: CALL_MEMBER, token.QUESTION_DOT: CALL_MEMBER,
	token.PLUSPLUS: POSTFIX, token.MINUSMINUS: POSTFIX,
}

type prefixParseFn func() ast.Expr
type infixParseFn func(left ast.Expr) ast.Expr

// Parser turns a token stream into an ast.Program, collecting structured
// errors rather than failing fast; internal/typecheck and internal/interp
// only run over a Program with zero errors, but a parse attempt with
// recoverable errors still returns as complete a tree as possible (useful
// for editor tooling).
type Parser struct {
	cursor *TokenCursor
	alloc  *ast.IDAllocator
	errors []*ParserError

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn

	// inferNames collects `infer X` bindings encountered while parsing a
	// conditional type's `extends` clause, wherever they appear in it
	// (possibly deep inside a tuple or parenthesized postfix type, e.g.
	// `T extends (infer U)[]`). nil outside of that clause.
	inferNames *[]string
}

// New constructs a Parser over an already-lexed token stream.
func New(toks []token.Token) *Parser {
	p := &Parser{
		cursor: NewTokenCursor(toks),
		alloc:  &ast.IDAllocator{},
	}
	p.prefixFns = map[token.Kind]prefixParseFn{}
	p.infixFns = map[token.Kind]infixParseFn{}
	p.registerExpressionParsers()
	return p
}

// Errors returns every structured error accumulated during parsing.
func (p *Parser) Errors() []*ParserError { return p.errors }

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixFns[k] = fn }

func (p *Parser) cur() token.Token  { return p.cursor.Current() }
func (p *Parser) peek() token.Token { return p.cursor.Peek(1) }
func (p *Parser) advance()          { p.cursor = p.cursor.Advance() }

func (p *Parser) curIs(k token.Kind) bool  { return p.cursor.Is(k) }
func (p *Parser) peekIs(k token.Kind) bool { return p.cursor.PeekIs(1, k) }

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur().Kind]; ok {
		return prec
	}
	return LOWEST
}

// expect advances past the current token if it matches k, otherwise records
// a structured error and leaves the cursor in place for synchronize() to
// clean up.
func (p *Parser) expect(k token.Kind, code string) bool {
	if p.curIs(k) {
		p.advance()
		return true
	}
	p.errorHere(fmt.Sprintf("expected %s, got %s", k, p.cur().Kind), code)
	return false
}

func (p *Parser) errorHere(msg, code string) {
	tok := p.cur()
	p.errors = append(p.errors, NewParserError(tok.Pos, len(tok.Lexeme), msg, code))
}

func (p *Parser) base(startTok token.Token) ast.Base {
	return ast.NewBase(p.alloc, startTok.Pos)
}

// statementStarters and blockClosers are the panic-mode synchronization set:
// after a statement-level error, skip forward to the next token that could
// plausibly begin a new statement or close the enclosing block, rather than
// reporting one cascading error per remaining token.
var statementStarters = map[token.Kind]bool{
	token.VAR: true, token.LET: true, token.CONST: true,
	token.IF: true, token.WHILE: true, token.DO: true, token.FOR: true,
	token.SWITCH: true, token.TRY: true, token.THROW: true,
	token.BREAK: true, token.CONTINUE: true, token.RETURN: true,
	token.FUNCTION: true, token.CLASS: true, token.INTERFACE: true,
	token.ENUM: true, token.TYPE: true, token.NAMESPACE: true, token.MODULE: true,
	token.IMPORT: true, token.EXPORT: true, token.LBRACE: true,
}

var blockClosers = map[token.Kind]bool{
	token.RBRACE: true, token.EOF: true,
}

func (p *Parser) synchronize() {
	p.advance()
	for !p.curIs(token.EOF) {
		if statementStarters[p.cur().Kind] || blockClosers[p.cur().Kind] {
			return
		}
		p.advance()
	}
}

// ParseProgram parses a full source unit.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur()
	prog := &ast.Program{Base: p.base(start)}
	for !p.curIs(token.EOF) {
		before := p.cursor
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.cursor == before {
			p.synchronize()
		}
	}
	return prog
}

// Parse is a package-level convenience entry point: it lexes nothing itself (the caller supplies tokens from internal/lexer)
// and just drives a fresh Parser to completion.
func Parse(toks []token.Token) (*ast.Program, []*ParserError) {
	p := New(toks)
	prog := p.ParseProgram()
	return prog, p.Errors()
}
