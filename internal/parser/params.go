package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

// parseParamList parses a parenthesized, comma-separated parameter list.
// Entry: cursor on `(`. Exit: cursor past `)`.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN, ErrMissingParen)
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			break
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN, ErrMissingParen)
	return params
}

// parseParam parses one formal parameter. Returns ok=false if the current
// token cannot start a parameter at all (used by the arrow-vs-grouping
// speculative parse to detect a non-parameter-list parenthesized group).
func (p *Parser) parseParam() (ast.Param, bool) {
	var param ast.Param

	for p.curIs(token.PUBLIC) || p.curIs(token.PRIVATE) || p.curIs(token.PROTECTED) || p.curIs(token.READONLY) {
		param.Accessibility = p.cur().Lexeme
		p.advance()
	}

	if p.curIs(token.DOTDOTDOT) {
		param.Rest = true
		p.advance()
	}

	switch {
	case p.curIs(token.LBRACE) || p.curIs(token.LBRACKET):
		pattern, ok := p.parseBindingPattern()
		if !ok {
			return param, false
		}
		param.Pattern = pattern
	case p.curIs(token.IDENT):
		param.Name = p.cur().Lexeme
		p.advance()
	default:
		return param, false
	}

	if p.curIs(token.QUESTION) {
		param.Optional = true
		p.advance()
	}
	if p.curIs(token.COLON) {
		p.advance()
		param.Type = p.parseTypeExpr()
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		param.Default = p.parseExpression(ASSIGNMENT)
	}
	return param, true
}

// parseBindingPattern parses an object or array destructuring pattern.
// Entry: cursor on `{` or `[`.
func (p *Parser) parseBindingPattern() (*ast.BindingPattern, bool) {
	if p.curIs(token.LBRACE) {
		return p.parseObjectBindingPattern()
	}
	return p.parseArrayBindingPattern()
}

func (p *Parser) parseObjectBindingPattern() (*ast.BindingPattern, bool) {
	p.advance() // consume {
	pat := &ast.BindingPattern{Kind: ast.PatternObject}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		elem := ast.PatternElement{}
		if p.curIs(token.DOTDOTDOT) {
			p.advance()
			elem.Rest = true
			elem.Target = p.cur().Lexeme
			elem.Key = elem.Target
			p.advance()
		} else {
			key := p.cur().Lexeme
			p.advance()
			elem.Key = key
			elem.Target = key
			if p.curIs(token.COLON) {
				p.advance()
				switch {
				case p.curIs(token.LBRACE) || p.curIs(token.LBRACKET):
					nested, ok := p.parseBindingPattern()
					if !ok {
						return nil, false
					}
					elem.Nested = nested
					elem.Target = ""
				default:
					elem.Target = p.cur().Lexeme
					p.advance()
				}
			}
			if p.curIs(token.ASSIGN) {
				p.advance()
				elem.Default = p.parseExpression(ASSIGNMENT)
			}
		}
		pat.Elements = append(pat.Elements, elem)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.curIs(token.RBRACE) {
		return nil, false
	}
	p.advance()
	return pat, true
}

func (p *Parser) parseArrayBindingPattern() (*ast.BindingPattern, bool) {
	p.advance() // consume [
	pat := &ast.BindingPattern{Kind: ast.PatternArray}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		elem := ast.PatternElement{}
		if p.curIs(token.COMMA) {
			pat.Elements = append(pat.Elements, elem) // elision hole
			p.advance()
			continue
		}
		if p.curIs(token.DOTDOTDOT) {
			p.advance()
			elem.Rest = true
			elem.Target = p.cur().Lexeme
			p.advance()
		} else if p.curIs(token.LBRACE) || p.curIs(token.LBRACKET) {
			nested, ok := p.parseBindingPattern()
			if !ok {
				return nil, false
			}
			elem.Nested = nested
			if p.curIs(token.ASSIGN) {
				p.advance()
				elem.Default = p.parseExpression(ASSIGNMENT)
			}
		} else {
			elem.Target = p.cur().Lexeme
			p.advance()
			if p.curIs(token.ASSIGN) {
				p.advance()
				elem.Default = p.parseExpression(ASSIGNMENT)
			}
		}
		pat.Elements = append(pat.Elements, elem)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.curIs(token.RBRACKET) {
		return nil, false
	}
	p.advance()
	return pat, true
}

// parseTypeParams parses an optional `<T extends C = D, ...>` list.
func (p *Parser) parseTypeParams() []ast.TypeParam {
	if !p.curIs(token.LT) {
		return nil
	}
	p.advance()
	var params []ast.TypeParam
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		tp := ast.TypeParam{Name: p.cur().Lexeme}
		p.advance()
		if p.curIs(token.EXTENDS) {
			p.advance()
			tp.Constraint = p.parseTypeExpr()
		}
		if p.curIs(token.ASSIGN) {
			p.advance()
			tp.Default = p.parseTypeExpr()
		}
		params = append(params, tp)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.GT, ErrInvalidSyntax)
	return params
}

// parseTypeArgs parses an optional `<T, U>` generic argument list used at a
// call or type-reference site.
func (p *Parser) parseTypeArgs() []ast.TypeExpr {
	if !p.curIs(token.LT) {
		return nil
	}
	mark := p.cursor.Mark()
	p.advance()
	var args []ast.TypeExpr
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		args = append(args, p.parseTypeExpr())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.curIs(token.GT) {
		p.cursor = p.cursor.ResetTo(mark)
		return nil
	}
	p.advance()
	return args
}
