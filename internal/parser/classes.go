package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

// parseClassBody parses the `{ member... }` body of a class declaration.
// Entry: cursor on `{`.
func (p *Parser) parseClassBody() []ast.ClassMember {
	p.expect(token.LBRACE, ErrMissingBrace)
	var members []ast.ClassMember
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.advance()
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.expect(token.RBRACE, ErrMissingBrace)
	return members
}

// parseClassMember parses one field or method, including every modifier
// combination (decorators, visibility, static/abstract/override, readonly,
// accessor kind) before dispatching on whether a `(` follows the name.
func (p *Parser) parseClassMember() ast.ClassMember {
	start := p.cur()
	decorators := p.parseDecorators()

	visibility := ast.VisPublic
	static, abstract, override, readonly := false, false, false, false
	methodKind := ast.MethodOrdinary
	funcKind := ast.FuncPlain

modifiers:
	for {
		switch p.cur().Kind {
		case token.PUBLIC:
			visibility = ast.VisPublic
			p.advance()
		case token.PRIVATE:
			visibility = ast.VisPrivate
			p.advance()
		case token.PROTECTED:
			visibility = ast.VisProtected
			p.advance()
		case token.STATIC:
			static = true
			p.advance()
		case token.ABSTRACT:
			abstract = true
			p.advance()
		case token.READONLY:
			readonly = true
			p.advance()
		case token.ASYNC:
			funcKind = ast.FuncAsync
			p.advance()
		case token.IDENT:
			if p.cur().Lexeme == "override" {
				override = true
				p.advance()
				continue modifiers
			}
			break modifiers
		default:
			break modifiers
		}
	}

	// `get`/`set` directly followed by `(` or `<` is a method of that name.
	isMethodName := p.peekIs(token.LPAREN) || p.peekIs(token.LT)
	if p.curIs(token.GET) && !isMethodName {
		methodKind = ast.MethodGetter
		p.advance()
	} else if p.curIs(token.SET) && !isMethodName {
		methodKind = ast.MethodSetter
		p.advance()
	}

	isGenerator := false
	if p.curIs(token.STAR) {
		isGenerator = true
		p.advance()
	}
	if isGenerator && funcKind == ast.FuncAsync {
		funcKind = ast.FuncAsyncGenerator
	} else if isGenerator {
		funcKind = ast.FuncGenerator
	}

	name := p.cur().Lexeme
	if name == "constructor" {
		methodKind = ast.MethodConstructor
	}
	p.advance()

	optional := false
	if p.curIs(token.QUESTION) {
		optional = true
		p.advance()
	}
	_ = optional // field optionality folds into Type as `T | undefined` upstream

	if p.curIs(token.LPAREN) || p.curIs(token.LT) {
		method := &ast.MethodMember{
			Base: p.base(start), Name: name, Kind: methodKind, Visibility: visibility,
			Static: static, Abstract: abstract, Override: override,
			FuncKind: funcKind, Decorators: decorators,
		}
		method.TypeParams = p.parseTypeParams()
		method.Params = p.parseParamList()
		if p.curIs(token.COLON) {
			p.advance()
			method.ReturnType = p.parseTypeExpr()
		}
		if p.curIs(token.LBRACE) {
			method.Body = p.parseBlock()
		} else {
			p.consumeSemicolon()
		}
		return method
	}

	field := &ast.FieldMember{
		Base: p.base(start), Name: name, Visibility: visibility,
		Static: static, Readonly: readonly, Decorators: decorators,
	}
	if p.curIs(token.COLON) {
		p.advance()
		field.Type = p.parseTypeExpr()
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		field.Init = p.parseExpression(ASSIGNMENT)
	}
	p.consumeSemicolon()
	return field
}
