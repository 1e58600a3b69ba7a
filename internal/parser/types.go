package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

// parseTypeExpr parses a full type annotation, in precedence order from
// loosest to tightest: conditional, union, intersection, postfix
// (array/indexed-access), primary.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	return p.parseConditionalType()
}

func (p *Parser) parseConditionalType() ast.TypeExpr {
	start := p.cur()
	check := p.parseUnionType()
	if !p.curIs(token.EXTENDS) {
		return check
	}
	p.advance()
	var infers []string
	prevCollector := p.inferNames
	p.inferNames = &infers
	extends := p.parseUnionType()
	p.inferNames = prevCollector
	if !p.curIs(token.QUESTION) {
		// Not actually a conditional type in this position (e.g. a class
		// heritage clause parsed through the same entry point); treat
		// `extends` as terminating the type and let the caller's own
		// `extends`-aware grammar consume it.
		return &ast.ConditionalType{Base: p.base(start), Check: check, Extends: extends}
	}
	p.advance() // consume ?
	trueBranch := p.parseTypeExpr()
	p.expect(token.COLON, ErrMissingColon)
	falseBranch := p.parseTypeExpr()
	return &ast.ConditionalType{
		Base: p.base(start), Check: check, Extends: extends,
		True: trueBranch, False: falseBranch, Infers: infers,
	}
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	start := p.cur()
	if p.curIs(token.PIPE) { // leading `|` before the first member
		p.advance()
	}
	first := p.parseIntersectionType()
	if !p.curIs(token.PIPE) {
		return first
	}
	u := &ast.UnionType{Base: p.base(start), Members: []ast.TypeExpr{first}}
	for p.curIs(token.PIPE) {
		p.advance()
		u.Members = append(u.Members, p.parseIntersectionType())
	}
	return u
}

func (p *Parser) parseIntersectionType() ast.TypeExpr {
	start := p.cur()
	if p.curIs(token.AMP) {
		p.advance()
	}
	first := p.parsePostfixType()
	if !p.curIs(token.AMP) {
		return first
	}
	it := &ast.IntersectionType{Base: p.base(start), Members: []ast.TypeExpr{first}}
	for p.curIs(token.AMP) {
		p.advance()
		it.Members = append(it.Members, p.parsePostfixType())
	}
	return it
}

func (p *Parser) parsePostfixType() ast.TypeExpr {
	start := p.cur()
	t := p.parsePrimaryType()
	for {
		switch {
		case p.curIs(token.LBRACKET) && !p.peekIs(token.RBRACKET):
			p.advance()
			index := p.parseTypeExpr()
			p.expect(token.RBRACKET, ErrMissingBracket)
			t = &ast.IndexedAccessType{Base: p.base(start), Object: t, Index: index}
		case p.curIs(token.LBRACKET):
			p.advance()
			p.advance() // consume ]
			t = &ast.ArrayType{Base: p.base(start), Element: t}
		default:
			return t
		}
	}
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	start := p.cur()
	switch start.Kind {
	case token.KEYOF:
		p.advance()
		return &ast.KeyOfType{Base: p.base(start), Operand: p.parsePostfixType()}
	case token.INFER:
		p.advance()
		name := p.cur().Lexeme
		p.advance()
		if p.inferNames != nil {
			*p.inferNames = append(*p.inferNames, name)
		}
		return &ast.TypeRef{Base: p.base(start), Name: name}
	case token.TYPEOF:
		p.advance()
		// `typeof expr` as a type: represented as a TypeRef over the
		// expression's identifier chain; the checker resolves it against
		// the value namespace rather than the type namespace.
		name := p.cur().Lexeme
		p.advance()
		return &ast.TypeRef{Base: p.base(start), Name: name}
	case token.STRING:
		p.advance()
		return &ast.LiteralType{Base: p.base(start), Value: start.Literal}
	case token.NUMBER:
		p.advance()
		return &ast.LiteralType{Base: p.base(start), Value: start.Literal}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.LiteralType{Base: p.base(start), Value: start.Kind == token.TRUE}
	case token.LBRACKET:
		return p.parseTupleType()
	case token.LBRACE:
		return p.parseObjectOrMappedType()
	case token.LPAREN:
		return p.parseParenOrFunctionType()
	default:
		return p.parseTypeRefOrFunctionType()
	}
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	start := p.cur()
	p.advance() // consume [
	tt := &ast.TupleType{Base: p.base(start)}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		el := ast.TupleElement{}
		if p.curIs(token.DOTDOTDOT) {
			p.advance()
			el.Rest = true
		}
		el.Type = p.parseTypeExpr()
		if p.curIs(token.QUESTION) {
			el.Optional = true
			p.advance()
		}
		tt.Elements = append(tt.Elements, el)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET, ErrMissingBracket)
	return tt
}

// parseObjectOrMappedType disambiguates `{ [K in T]: V }` mapped types from
// an ordinary `{ a: T; [k: string]: V }` object type literal by checking
// for `in` immediately after the bracketed identifier.
func (p *Parser) parseObjectOrMappedType() ast.TypeExpr {
	start := p.cur()
	mark := p.cursor.Mark()
	p.advance() // consume {

	optMod, roMod := p.parseMappedModifierPrefix()
	if p.curIs(token.LBRACKET) && p.peekIs(token.IDENT) {
		innerMark := p.cursor.Mark()
		p.advance() // consume [
		paramName := p.cur().Lexeme
		p.advance()
		if p.curIs(token.IN) {
			p.advance()
			constraint := p.parseTypeExpr()
			p.expect(token.RBRACKET, ErrMissingBracket)
			mt := &ast.MappedType{
				Base: p.base(start), Param: paramName, Constraint: constraint,
				OptMod: optMod, ReadonlyMod: roMod,
			}
			if p.curIs(token.AS) {
				p.advance()
				mt.As = p.parseTypeExpr()
			}
			mt.OptMod = p.parseTrailingOptModifier(mt.OptMod)
			p.expect(token.COLON, ErrMissingColon)
			mt.ValueType = p.parseTypeExpr()
			p.consumeTrailingSeparators()
			p.expect(token.RBRACE, ErrMissingBrace)
			return mt
		}
		p.cursor = p.cursor.ResetTo(innerMark)
	}
	p.cursor = p.cursor.ResetTo(mark)
	return p.parseObjectType()
}

func (p *Parser) parseMappedModifierPrefix() (opt, ro ast.MappedTypeModifier) {
	for {
		switch {
		case p.curIs(token.PLUS) && p.peekIs(token.QUESTION):
			p.advance()
			p.advance()
			opt = ast.ModifierAddOptional
		case p.curIs(token.MINUS) && p.peekIs(token.QUESTION):
			p.advance()
			p.advance()
			opt = ast.ModifierRemoveOptional
		case p.curIs(token.PLUS) && p.peekIs(token.READONLY):
			p.advance()
			p.advance()
			ro = ast.ModifierAddReadonly
		case p.curIs(token.MINUS) && p.peekIs(token.READONLY):
			p.advance()
			p.advance()
			ro = ast.ModifierRemoveReadonly
		case p.curIs(token.READONLY):
			p.advance()
			ro = ast.ModifierAddReadonly
		default:
			return opt, ro
		}
	}
}

func (p *Parser) parseTrailingOptModifier(existing ast.MappedTypeModifier) ast.MappedTypeModifier {
	if p.curIs(token.QUESTION) {
		p.advance()
		if existing == ast.ModifierNone {
			return ast.ModifierAddOptional
		}
	}
	return existing
}

func (p *Parser) consumeTrailingSeparators() {
	for p.curIs(token.SEMICOLON) || p.curIs(token.COMMA) {
		p.advance()
	}
}

func (p *Parser) parseObjectType() ast.TypeExpr {
	start := p.cur()
	p.advance() // consume {
	ot := &ast.ObjectType{Base: p.base(start)}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.LBRACKET) {
			idxStart := p.cur()
			p.advance()
			keyName := p.cur().Lexeme
			p.advance()
			p.expect(token.COLON, ErrMissingColon)
			keyType := p.parseTypeExpr()
			p.expect(token.RBRACKET, ErrMissingBracket)
			p.expect(token.COLON, ErrMissingColon)
			valType := p.parseTypeExpr()
			ot.Indices = append(ot.Indices, ast.IndexSignature{KeyName: keyName, KeyType: keyType, ValType: valType})
			_ = idxStart
			p.consumeTrailingSeparators()
			continue
		}

		readonly := false
		if p.curIs(token.READONLY) {
			readonly = true
			p.advance()
		}
		member := ast.ObjectMember{Readonly: readonly}
		if p.curIs(token.LBRACKET) {
			p.advance()
			member.Computed = p.parseTypeExpr()
			p.expect(token.RBRACKET, ErrMissingBracket)
		} else {
			member.Name = p.cur().Lexeme
			p.advance()
		}
		if p.curIs(token.QUESTION) {
			member.Optional = true
			p.advance()
		}
		if p.curIs(token.LPAREN) {
			// method signature sugar: `name(params): Ret` === `name: (params) => Ret`
			fnStart := p.cur()
			params := p.parseParamList()
			var ret ast.TypeExpr
			if p.curIs(token.COLON) {
				p.advance()
				ret = p.parseTypeExpr()
			}
			member.Type = &ast.FunctionType{Base: p.base(fnStart), Params: params, ReturnType: ret}
		} else {
			p.expect(token.COLON, ErrMissingColon)
			member.Type = p.parseTypeExpr()
		}
		ot.Members = append(ot.Members, member)
		p.consumeTrailingSeparators()
	}
	p.expect(token.RBRACE, ErrMissingBrace)
	return ot
}

// parseParenOrFunctionType disambiguates `(T)` grouping from `(params) => Ret`
// function types the same speculative way expressions.go disambiguates
// arrow functions.
func (p *Parser) parseParenOrFunctionType() ast.TypeExpr {
	start := p.cur()
	mark := p.cursor.Mark()
	if params, _, ok := p.tryParseArrowParamList(); ok && p.curIs(token.ARROW) {
		p.advance() // consume =>
		ret := p.parseTypeExpr()
		return &ast.FunctionType{Base: p.base(start), Params: params, ReturnType: ret}
	}
	p.cursor = p.cursor.ResetTo(mark)
	p.advance() // consume (
	inner := p.parseTypeExpr()
	p.expect(token.RPAREN, ErrMissingParen)
	return inner
}

func (p *Parser) parseTypeRefOrFunctionType() ast.TypeExpr {
	start := p.cur()
	name := p.cur().Lexeme
	p.advance()
	ref := &ast.TypeRef{Base: p.base(start), Name: name}
	if p.curIs(token.LT) {
		ref.Args = p.parseTypeArgs()
	}
	return ref
}
