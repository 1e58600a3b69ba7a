package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

// parseStatement dispatches on the leading token to the appropriate
// statement parser. A nil return (with an error already recorded) tells
// ParseProgram/parseBlock to skip this statement after synchronizing.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.CONST:
		if p.peekIs(token.ENUM) {
			p.advance() // consume const
			return p.parseEnumDecl(ast.EnumConst)
		}
		return p.parseVarDeclStatement()
	case token.VAR, token.LET:
		return p.parseVarDeclStatement()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.TRY:
		return p.parseTry()
	case token.THROW:
		return p.parseThrow()
	case token.SWITCH:
		return p.parseSwitch()
	case token.FUNCTION:
		return p.parseFunctionDecl(false)
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) {
			p.advance()
			return p.parseFunctionDecl(true)
		}
	case token.CLASS:
		return p.parseClassDecl(nil, false)
	case token.ABSTRACT:
		if p.peekIs(token.CLASS) {
			p.advance()
			return p.parseClassDecl(nil, true)
		}
	case token.AT:
		decorators := p.parseDecorators()
		abstract := false
		if p.curIs(token.ABSTRACT) {
			abstract = true
			p.advance()
		}
		if p.curIs(token.CLASS) {
			return p.parseClassDecl(decorators, abstract)
		}
		p.errorHere("expected class after decorator", ErrInvalidSyntax)
		return nil
	case token.INTERFACE:
		return p.parseInterfaceDecl()
	case token.ENUM:
		return p.parseEnumDecl(ast.EnumNumeric)
	case token.TYPE:
		return p.parseTypeAliasDecl()
	case token.NAMESPACE, token.MODULE:
		return p.parseNamespaceDecl()
	case token.IMPORT:
		return p.parseImportDecl()
	case token.EXPORT:
		return p.parseExportDecl()
	case token.SEMICOLON:
		p.advance()
		return nil
	case token.IDENT:
		if p.peekIs(token.COLON) {
			return p.parseLabeledStatement()
		}
	}
	return p.parseExpressionStatement()
}

// parseBlock parses `{ stmt... }`.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur()
	p.expect(token.LBRACE, ErrMissingBrace)
	block := &ast.Block{Base: p.base(start)}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		before := p.cur()
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.cur() == before {
			// parseStatement made no progress (a malformed token at
			// statement-start position): resynchronize rather than loop.
			p.synchronize()
		}
	}
	p.expect(token.RBRACE, ErrMissingBrace)
	return block
}

func (p *Parser) parseVarKind() ast.VarKind {
	switch p.cur().Kind {
	case token.VAR:
		return ast.VarKindVar
	case token.CONST:
		return ast.VarKindConst
	default:
		return ast.VarKindLet
	}
}

// parseVarDeclStatement parses `var/let/const name[: T][= init][, ...]` up
// to (and past, if present) a trailing semicolon.
func (p *Parser) parseVarDeclStatement() *ast.VarDecl {
	start := p.cur()
	kind := p.parseVarKind()
	p.advance() // consume var/let/const

	decl := &ast.VarDecl{Base: p.base(start), Kind: kind}
	for {
		d := ast.Declarator{}
		if p.curIs(token.LBRACE) || p.curIs(token.LBRACKET) {
			pattern, ok := p.parseBindingPattern()
			if !ok {
				p.errorHere("invalid destructuring pattern", ErrInvalidPattern)
				break
			}
			d.Pattern = pattern
		} else {
			d.Name = p.cur().Lexeme
			p.advance()
		}
		if p.curIs(token.COLON) {
			p.advance()
			d.Type = p.parseTypeExpr()
		}
		if p.curIs(token.ASSIGN) {
			p.advance()
			d.Init = p.parseExpression(ASSIGNMENT)
		}
		decl.Declarators = append(decl.Declarators, d)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.consumeSemicolon()
	return decl
}

func (p *Parser) consumeSemicolon() {
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	start := p.cur()
	expr := p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return &ast.ExpressionStmt{Base: p.base(start), Expression: expr}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur()
	p.advance() // consume if
	p.expect(token.LPAREN, ErrMissingParen)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, ErrMissingParen)
	then := p.parseStatement()
	stmt := &ast.If{Base: p.base(start), Cond: cond, Then: then}
	if p.curIs(token.ELSE) {
		p.advance()
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur()
	p.advance() // consume while
	p.expect(token.LPAREN, ErrMissingParen)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, ErrMissingParen)
	body := p.parseStatement()
	return &ast.While{Base: p.base(start), Cond: cond, Body: body}
}

// parseDoWhile parses `do body while (cond);` and desugars it into a Block
// containing the body followed by an equivalent While, as ast.DoWhile's doc
// comment specifies — the DoWhile node itself is retained only so a
// pretty-printer could round-trip the original syntax; the checker and
// interpreter only ever see the desugared form below.
func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.cur()
	p.advance() // consume do
	body := p.parseStatement()
	p.expect(token.WHILE, ErrInvalidSyntax)
	p.expect(token.LPAREN, ErrMissingParen)
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, ErrMissingParen)
	p.consumeSemicolon()

	block := &ast.Block{Base: p.base(start)}
	block.Statements = append(block.Statements, body)
	block.Statements = append(block.Statements, &ast.While{Base: p.base(start), Cond: cond, Body: body})
	return block
}

// parseFor parses every `for` variant: classic three-clause (kept as its
// own ast.For node, per its doc comment), for-of, and for-in.
func (p *Parser) parseFor() ast.Stmt {
	start := p.cur()
	p.advance() // consume for
	isAwait := false
	if p.curIs(token.AWAIT) {
		isAwait = true
		p.advance()
	}
	p.expect(token.LPAREN, ErrMissingParen)

	if kind, name, pattern, ok := p.tryParseForBindingHead(); ok {
		switch p.cur().Kind {
		case token.OF:
			p.advance()
			iterable := p.parseExpression(LOWEST)
			p.expect(token.RPAREN, ErrMissingParen)
			body := p.parseStatement()
			return &ast.ForOf{Base: p.base(start), Kind: kind, Name: name, Pattern: pattern, Iterable: iterable, Body: body, IsAwait: isAwait}
		case token.IN:
			p.advance()
			object := p.parseExpression(LOWEST)
			p.expect(token.RPAREN, ErrMissingParen)
			body := p.parseStatement()
			return &ast.ForIn{Base: p.base(start), Kind: kind, Name: name, Object: object, Body: body}
		}
	}

	return p.parseClassicFor(start)
}

// tryParseForBindingHead speculatively parses `var/let/const name` or
// `var/let/const {pattern}` as the head of a for-of/for-in loop, resetting
// on failure (or when what follows isn't `of`/`in`, signalling the classic
// three-clause form instead).
func (p *Parser) tryParseForBindingHead() (kind ast.VarKind, name string, pattern *ast.BindingPattern, ok bool) {
	mark := p.cursor.Mark()
	if !p.curIs(token.VAR) && !p.curIs(token.LET) && !p.curIs(token.CONST) {
		p.cursor = p.cursor.ResetTo(mark)
		return kind, name, nil, false
	}
	kind = p.parseVarKind()
	p.advance()
	if p.curIs(token.LBRACE) || p.curIs(token.LBRACKET) {
		pat, good := p.parseBindingPattern()
		if !good || (!p.curIs(token.OF) && !p.curIs(token.IN)) {
			p.cursor = p.cursor.ResetTo(mark)
			return kind, name, nil, false
		}
		return kind, "", pat, true
	}
	if !p.curIs(token.IDENT) {
		p.cursor = p.cursor.ResetTo(mark)
		return kind, name, nil, false
	}
	name = p.cur().Lexeme
	p.advance()
	if !p.curIs(token.OF) && !p.curIs(token.IN) {
		p.cursor = p.cursor.ResetTo(mark)
		return kind, "", nil, false
	}
	return kind, name, nil, true
}

// parseClassicFor parses `for (init; cond; update) body` into a single
// ast.For node. Init's scope is the loop itself (a fresh child frame in
// internal/interp, a dedicated block-scope in internal/bytecode) so a
// `let` there isn't visible past the loop.
func (p *Parser) parseClassicFor(start token.Token) ast.Stmt {
	var init ast.Stmt
	if !p.curIs(token.SEMICOLON) {
		if p.curIs(token.VAR) || p.curIs(token.LET) || p.curIs(token.CONST) {
			init = p.parseVarDeclStatement()
		} else {
			exprStart := p.cur()
			expr := p.parseExpression(LOWEST)
			init = &ast.ExpressionStmt{Base: p.base(exprStart), Expression: expr}
			p.consumeSemicolon()
		}
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.curIs(token.SEMICOLON) {
		cond = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON, ErrMissingSemicolon)

	var update ast.Expr
	if !p.curIs(token.RPAREN) {
		update = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN, ErrMissingParen)

	body := p.parseStatement()

	return &ast.For{Base: p.base(start), Init: init, Cond: cond, Update: update, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur()
	p.advance() // consume return
	var val ast.Expr
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		val = p.parseExpression(LOWEST)
	}
	p.consumeSemicolon()
	return &ast.Return{Base: p.base(start), Value: val}
}

func (p *Parser) parseBreak() ast.Stmt {
	start := p.cur()
	p.advance()
	label := ""
	if p.curIs(token.IDENT) {
		label = p.cur().Lexeme
		p.advance()
	}
	p.consumeSemicolon()
	return &ast.Break{Base: p.base(start), Label: label}
}

func (p *Parser) parseContinue() ast.Stmt {
	start := p.cur()
	p.advance()
	label := ""
	if p.curIs(token.IDENT) {
		label = p.cur().Lexeme
		p.advance()
	}
	p.consumeSemicolon()
	return &ast.Continue{Base: p.base(start), Label: label}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.cur()
	p.advance() // consume try
	stmt := &ast.TryCatch{Base: p.base(start), Try: p.parseBlock()}
	if p.curIs(token.CATCH) {
		p.advance()
		clause := &ast.CatchClause{}
		if p.curIs(token.LPAREN) {
			p.advance()
			clause.Param = p.cur().Lexeme
			p.advance()
			if p.curIs(token.COLON) {
				p.advance()
				clause.Type = p.parseTypeExpr()
			}
			p.expect(token.RPAREN, ErrMissingParen)
		}
		clause.Body = p.parseBlock()
		stmt.Catch = clause
	}
	if p.curIs(token.FINALLY) {
		p.advance()
		stmt.Finally = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Stmt {
	start := p.cur()
	p.advance() // consume throw
	val := p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return &ast.Throw{Base: p.base(start), Value: val}
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.cur()
	p.advance() // consume switch
	p.expect(token.LPAREN, ErrMissingParen)
	discriminant := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, ErrMissingParen)
	p.expect(token.LBRACE, ErrMissingBrace)

	sw := &ast.Switch{Base: p.base(start), Discriminant: discriminant}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		c := ast.SwitchCase{}
		if p.curIs(token.CASE) {
			p.advance()
			c.Test = p.parseExpression(LOWEST)
		} else {
			p.expect(token.DEFAULT, ErrInvalidSyntax)
		}
		p.expect(token.COLON, ErrMissingColon)
		for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			c.Body = append(c.Body, p.parseStatement())
		}
		sw.Cases = append(sw.Cases, c)
	}
	p.expect(token.RBRACE, ErrMissingBrace)
	return sw
}

func (p *Parser) parseLabeledStatement() ast.Stmt {
	start := p.cur()
	label := p.cur().Lexeme
	p.advance() // consume ident
	p.advance() // consume :
	body := p.parseStatement()
	return &ast.LabeledStatement{Base: p.base(start), Label: label, Body: body}
}
