package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/token"
)

func (p *Parser) registerExpressionParsers() {
	p.registerPrefix(token.IDENT, p.parseIdentOrArrow)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TEMPLATE_STRING, p.parseTemplateLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.UNDEFINED, p.parseUndefinedLiteral)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.SUPER, p.parseSuper)
	p.registerPrefix(token.LPAREN, p.parseGroupingOrArrow)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.PLUS, p.parseUnary)
	p.registerPrefix(token.LOGICAL_NOT, p.parseUnary)
	p.registerPrefix(token.TILDE, p.parseUnary)
	p.registerPrefix(token.TYPEOF, p.parseUnary)
	p.registerPrefix(token.AWAIT, p.parseAwait)
	p.registerPrefix(token.YIELD, p.parseYield)
	p.registerPrefix(token.PLUSPLUS, p.parsePrefixIncrement)
	p.registerPrefix(token.MINUSMINUS, p.parsePrefixIncrement)
	p.registerPrefix(token.ASYNC, p.parseAsyncPrefixed)
	p.registerPrefix(token.FUNCTION, p.parseFunctionExpression)

	p.registerInfix(token.PLUS, p.parseBinary)
	p.registerInfix(token.MINUS, p.parseBinary)
	p.registerInfix(token.STAR, p.parseBinary)
	p.registerInfix(token.SLASH, p.parseBinary)
	p.registerInfix(token.PERCENT, p.parseBinary)
	p.registerInfix(token.STARSTAR, p.parseBinaryRightAssoc)
	p.registerInfix(token.EQ, p.parseBinary)
	p.registerInfix(token.NEQ, p.parseBinary)
	p.registerInfix(token.EQ_STRICT, p.parseBinary)
	p.registerInfix(token.NEQ_STRICT, p.parseBinary)
	p.registerInfix(token.LT, p.parseBinary)
	p.registerInfix(token.GT, p.parseBinary)
	p.registerInfix(token.LE, p.parseBinary)
	p.registerInfix(token.GE, p.parseBinary)
	p.registerInfix(token.AMP, p.parseBinary)
	p.registerInfix(token.PIPE, p.parseBinary)
	p.registerInfix(token.CARET, p.parseBinary)
	p.registerInfix(token.SHL, p.parseBinary)
	p.registerInfix(token.SHR, p.parseBinary)
	p.registerInfix(token.USHR, p.parseBinary)
	p.registerInfix(token.INSTANCEOF, p.parseBinary)
	p.registerInfix(token.IN, p.parseBinary)
	p.registerInfix(token.AS, p.parseAsExpr)
	p.registerInfix(token.SATISFIES, p.parseAsExpr)
	p.registerInfix(token.LOGICAL_AND, p.parseLogical)
	p.registerInfix(token.LOGICAL_OR, p.parseLogical)
	p.registerInfix(token.QUESTION_QUESTION, p.parseNullish)
	p.registerInfix(token.QUESTION, p.parseTernary)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.DOT, p.parseMember)
	p.registerInfix(token.QUESTION_DOT, p.parseOptionalMember)
	p.registerInfix(token.PLUSPLUS, p.parsePostfixIncrement)
	p.registerInfix(token.MINUSMINUS, p.parsePostfixIncrement)

	for _, k := range []token.Kind{
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.STARSTAR_ASSIGN,
		token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN,
		token.SHL_ASSIGN, token.SHR_ASSIGN, token.USHR_ASSIGN,
		token.LOGICAL_AND_ASSIGN, token.LOGICAL_OR_ASSIGN, token.QUESTION_QUESTION_EQUAL,
	} {
		p.registerInfix(k, p.parseAssignment)
	}
}

// parseExpression is the Pratt driver: it parses a prefix (nud) expression
// then repeatedly extends it with infix (led) expressions for as long as
// the next operator binds tighter than minPrecedence.
func (p *Parser) parseExpression(minPrecedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur().Kind]
	if !ok {
		p.errorHere("no prefix parse function for "+p.cur().Kind.String(), ErrNoPrefixParse)
		return nil
	}
	left := prefix()

	for left != nil && minPrecedence < p.curPrecedence() {
		infix, ok := p.infixFns[p.cur().Kind]
		if !ok {
			break
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentOrArrow() ast.Expr {
	start := p.cur()
	if p.peekIs(token.ARROW) {
		name := start.Lexeme
		p.advance() // consume ident
		p.advance() // consume =>
		return p.finishArrow(start, []ast.Param{{Name: name}}, nil, false)
	}
	p.advance()
	return &ast.Ident{Base: p.base(start), Name: start.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.Literal{Base: p.base(start), Value: start.Literal}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.Literal{Base: p.base(start), Value: start.Literal}
}

// parseTemplateLiteral re-parses each `${...}` hole's raw source (captured
// verbatim by the lexer) with a fresh lexer+parser pair, since template
// holes are full expressions that may themselves contain arbitrarily nested
// template literals.
func (p *Parser) parseTemplateLiteral() ast.Expr {
	start := p.cur()
	parts, _ := start.Literal.([]lexer.TemplatePart)
	p.advance()

	lit := &ast.TemplateLiteral{Base: p.base(start)}
	for _, part := range parts {
		lit.Quasis = append(lit.Quasis, part.Literal)
		if part.Expr == "" {
			continue
		}
		holeToks := lexer.Tokenize(part.Expr)
		holeParser := New(holeToks)
		expr := holeParser.parseExpression(LOWEST)
		p.errors = append(p.errors, holeParser.Errors()...)
		lit.Holes = append(lit.Holes, expr)
	}
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.Literal{Base: p.base(start), Value: start.Kind == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.Literal{Base: p.base(start), Value: nil}
}

func (p *Parser) parseUndefinedLiteral() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.Literal{Base: p.base(start), Value: ast.LiteralUndefined{}}
}

func (p *Parser) parseThis() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.ThisExpr{Base: p.base(start)}
}

func (p *Parser) parseSuper() ast.Expr {
	start := p.cur()
	p.advance()
	return &ast.SuperExpr{Base: p.base(start)}
}

// parseGroupingOrArrow disambiguates `(expr)` from `(params) => body` by
// speculatively parsing a parameter list and backtracking on failure — the
// grammars overlap too much (`(x)`, `(x, y)`) to predict from one token.
func (p *Parser) parseGroupingOrArrow() ast.Expr {
	start := p.cur()
	mark := p.cursor.Mark()

	if params, retType, ok := p.tryParseArrowParamList(); ok && p.curIs(token.ARROW) {
		p.advance() // consume =>
		return p.finishArrow(start, params, retType, false)
	}
	p.cursor = p.cursor.ResetTo(mark)

	p.advance() // consume (
	inner := p.parseExpression(LOWEST)
	p.expect(token.RPAREN, ErrMissingParen)
	return &ast.Grouping{Base: p.base(start), Inner: inner}
}

// tryParseArrowParamList attempts to parse `(params)` [`: ReturnType`] as an
// arrow-function parameter list, returning ok=false (with the cursor left
// wherever the attempt stopped — callers must reset via Mark) if the
// contents don't parse as a parameter list at all.
func (p *Parser) tryParseArrowParamList() (params []ast.Param, retType ast.TypeExpr, ok bool) {
	if !p.curIs(token.LPAREN) {
		return nil, nil, false
	}
	p.advance() // consume (
	for !p.curIs(token.RPAREN) {
		param, good := p.parseParam()
		if !good {
			return nil, nil, false
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.curIs(token.RPAREN) {
		return nil, nil, false
	}
	p.advance() // consume )
	if p.curIs(token.COLON) {
		p.advance()
		retType = p.parseTypeExpr()
	}
	return params, retType, true
}

func (p *Parser) finishArrow(start token.Token, params []ast.Param, retType ast.TypeExpr, isAsync bool) ast.Expr {
	var body ast.Stmt
	if p.curIs(token.LBRACE) {
		body = p.parseBlock()
	} else {
		exprStart := p.cur()
		expr := p.parseExpression(ASSIGNMENT)
		body = &ast.Return{Base: p.base(exprStart), Value: expr}
	}
	return &ast.ArrowFunction{Base: p.base(start), Params: params, ReturnType: retType, Body: body, IsAsync: isAsync}
}

func (p *Parser) parseAsyncPrefixed() ast.Expr {
	start := p.cur()
	p.advance() // consume `async`
	if p.curIs(token.LPAREN) {
		mark := p.cursor.Mark()
		if params, retType, ok := p.tryParseArrowParamList(); ok && p.curIs(token.ARROW) {
			p.advance()
			return p.finishArrow(start, params, retType, true)
		}
		p.cursor = p.cursor.ResetTo(mark)
	}
	if p.curIs(token.IDENT) && p.peekIs(token.ARROW) {
		name := p.cur().Lexeme
		p.advance()
		p.advance()
		return p.finishArrow(start, []ast.Param{{Name: name}}, nil, true)
	}
	if p.curIs(token.FUNCTION) {
		fn := p.parseFunctionExpression()
		if af, ok := fn.(*ast.ArrowFunction); ok {
			af.IsAsync = true
		}
		return fn
	}
	p.errorHere("expected arrow parameters or function after async", ErrInvalidSyntax)
	return nil
}

// parseFunctionExpression handles an anonymous `function(...) {}` in
// expression position. internal/ast models every closure-producing
// expression as ArrowFunction (the closure planner and suspension analyzer
// both key off that single node shape), so a plain function expression
// lowers into one here; IsAsync carries through but a `function*` generator
// expression is out of scope for this subset (generators are only
// supported as named declarations — see FunctionDecl.Kind).
func (p *Parser) parseFunctionExpression() ast.Expr {
	start := p.cur()
	p.advance() // consume `function`
	if p.curIs(token.IDENT) {
		p.advance() // discard the optional name; closures are bound by assignment target
	}
	params := p.parseParamList()
	if p.curIs(token.COLON) {
		p.advance()
		p.parseTypeExpr()
	}
	body := p.parseBlock()
	return &ast.ArrowFunction{Base: p.base(start), Params: params, Body: body}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur()
	op := start.Kind
	p.advance()
	operand := p.parseExpression(PREFIX)
	return &ast.Unary{Base: p.base(start), Operator: op, Operand: operand}
}

func (p *Parser) parsePrefixIncrement() ast.Expr {
	start := p.cur()
	dec := start.Kind == token.MINUSMINUS
	p.advance()
	target := p.parseExpression(PREFIX)
	return &ast.PrefixIncrement{Base: p.base(start), Target: target, Decrement: dec}
}

func (p *Parser) parsePostfixIncrement(left ast.Expr) ast.Expr {
	start := p.cur()
	dec := start.Kind == token.MINUSMINUS
	p.advance()
	return &ast.PostfixIncrement{Base: p.base(start), Target: left, Decrement: dec}
}

func (p *Parser) parseAwait() ast.Expr {
	start := p.cur()
	p.advance()
	val := p.parseExpression(PREFIX)
	return &ast.Await{Base: p.base(start), Value: val}
}

func (p *Parser) parseYield() ast.Expr {
	start := p.cur()
	p.advance()
	delegate := false
	if p.curIs(token.STAR) {
		delegate = true
		p.advance()
	}
	if delegate {
		iterable := p.parseExpression(ASSIGNMENT)
		return &ast.YieldStar{Base: p.base(start), Iterable: iterable}
	}
	// A bare `yield;` carries no value — recognize the common statement
	// terminators and closers as "no operand follows".
	switch p.cur().Kind {
	case token.SEMICOLON, token.RPAREN, token.RBRACE, token.RBRACKET, token.COMMA, token.EOF:
		return &ast.Yield{Base: p.base(start)}
	}
	val := p.parseExpression(ASSIGNMENT)
	return &ast.Yield{Base: p.base(start), Value: val}
}

func (p *Parser) parseNew() ast.Expr {
	start := p.cur()
	p.advance()
	callee := p.parseExpression(CALL_MEMBER)
	n := &ast.New{Base: p.base(start)}
	if call, ok := callee.(*ast.Call); ok {
		n.Callee = call.Callee
		n.Args = call.Args
	} else {
		n.Callee = callee
	}
	return n
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.cur()
	p.advance() // consume [
	lit := &ast.ArrayLiteral{Base: p.base(start)}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOTDOT) {
			spreadStart := p.cur()
			p.advance()
			val := p.parseExpression(ASSIGNMENT)
			lit.Elements = append(lit.Elements, &ast.SpreadArg{Base: p.base(spreadStart), Value: val})
		} else {
			lit.Elements = append(lit.Elements, p.parseExpression(ASSIGNMENT))
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET, ErrMissingBracket)
	return lit
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	start := p.cur()
	p.advance() // consume {
	lit := &ast.ObjectLiteral{Base: p.base(start)}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOTDOT) {
			p.advance()
			val := p.parseExpression(ASSIGNMENT)
			lit.Properties = append(lit.Properties, ast.ObjectProperty{Spread: true, Value: val})
			if p.curIs(token.COMMA) {
				p.advance()
			}
			continue
		}

		prop := ast.ObjectProperty{}
		if p.curIs(token.LBRACKET) {
			p.advance()
			prop.Computed = p.parseExpression(LOWEST)
			p.expect(token.RBRACKET, ErrMissingBracket)
		} else {
			prop.Key = p.cur().Lexeme
			p.advance()
		}

		switch {
		case p.curIs(token.COLON):
			p.advance()
			prop.Value = p.parseExpression(ASSIGNMENT)
		case p.curIs(token.LPAREN):
			// method shorthand: `name(params) { body }`
			fnStart := p.cur()
			params := p.parseParamList()
			if p.curIs(token.COLON) {
				p.advance()
				p.parseTypeExpr()
			}
			body := p.parseBlock()
			prop.Value = &ast.ArrowFunction{Base: p.base(fnStart), Params: params, Body: body}
		default:
			prop.Shorthand = true
			prop.Value = &ast.Ident{Base: p.base(p.cur()), Name: prop.Key}
		}

		lit.Properties = append(lit.Properties, prop)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE, ErrMissingBrace)
	return lit
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	start := p.cur()
	op := start.Kind
	prec := p.curPrecedence()
	p.advance()
	right := p.parseExpression(prec)
	return &ast.Binary{Base: p.base(start), Left: left, Operator: op, Right: right}
}

func (p *Parser) parseBinaryRightAssoc(left ast.Expr) ast.Expr {
	start := p.cur()
	op := start.Kind
	prec := p.curPrecedence()
	p.advance()
	right := p.parseExpression(prec - 1)
	return &ast.Binary{Base: p.base(start), Left: left, Operator: op, Right: right}
}

func (p *Parser) parseAsExpr(left ast.Expr) ast.Expr {
	start := p.cur()
	satisfies := start.Kind == token.SATISFIES
	p.advance()
	target := p.parseTypeExpr()
	return &ast.TypeAssertion{Base: p.base(start), Expr: left, Type: target, Satisfies: satisfies}
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	start := p.cur()
	op := start.Kind
	prec := p.curPrecedence()
	p.advance()
	right := p.parseExpression(prec)
	return &ast.Logical{Base: p.base(start), Left: left, Operator: op, Right: right}
}

func (p *Parser) parseNullish(left ast.Expr) ast.Expr {
	start := p.cur()
	p.advance()
	right := p.parseExpression(NULLISH)
	return &ast.NullishCoalescing{Base: p.base(start), Left: left, Right: right}
}

func (p *Parser) parseTernary(left ast.Expr) ast.Expr {
	start := p.cur()
	p.advance() // consume ?
	then := p.parseExpression(ASSIGNMENT)
	p.expect(token.COLON, ErrMissingColon)
	els := p.parseExpression(ASSIGNMENT)
	return &ast.Ternary{Base: p.base(start), Cond: left, Then: then, Else: els}
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	start := p.cur()
	p.advance() // consume (
	call := &ast.Call{Base: p.base(start), Callee: left}
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOTDOT) {
			spreadStart := p.cur()
			p.advance()
			val := p.parseExpression(ASSIGNMENT)
			call.Args = append(call.Args, &ast.SpreadArg{Base: p.base(spreadStart), Value: val})
		} else {
			call.Args = append(call.Args, p.parseExpression(ASSIGNMENT))
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN, ErrMissingParen)
	return call
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	start := p.cur()
	p.advance() // consume [
	index := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET, ErrMissingBracket)
	get := &ast.GetIndex{Base: p.base(start), Object: left, Index: index}
	return get
}

func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	start := p.cur()
	p.advance() // consume .
	name := p.cur().Lexeme
	p.advance()
	return &ast.Get{Base: p.base(start), Object: left, Name: name}
}

func (p *Parser) parseOptionalMember(left ast.Expr) ast.Expr {
	start := p.cur()
	p.advance() // consume ?.
	switch p.cur().Kind {
	case token.LBRACKET:
		p.advance()
		index := p.parseExpression(LOWEST)
		p.expect(token.RBRACKET, ErrMissingBracket)
		return &ast.GetIndex{Base: p.base(start), Object: left, Index: index, Optional: true}
	case token.LPAREN:
		p.advance()
		call := &ast.Call{Base: p.base(start), Callee: left, Optional: true}
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			call.Args = append(call.Args, p.parseExpression(ASSIGNMENT))
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RPAREN, ErrMissingParen)
		return call
	default:
		name := p.cur().Lexeme
		p.advance()
		return &ast.Get{Base: p.base(start), Object: left, Name: name, Optional: true}
	}
}

// parseAssignment handles `=` and every compound-assignment operator,
// dispatching on the shape of the left-hand side to produce the matching
// ast node (Assign/Set/SetIndex or CompoundAssign/CompoundSet/CompoundSetIndex).
func (p *Parser) parseAssignment(left ast.Expr) ast.Expr {
	start := p.cur()
	op := start.Kind
	p.advance()
	value := p.parseExpression(ASSIGNMENT - 1) // right-associative

	if op == token.ASSIGN {
		switch t := left.(type) {
		case *ast.Ident:
			return &ast.Assign{Base: p.base(start), Name: t.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Base: p.base(start), Object: t.Object, Name: t.Name, Value: value}
		case *ast.GetIndex:
			return &ast.SetIndex{Base: p.base(start), Object: t.Object, Index: t.Index, Value: value}
		default:
			p.errorHere("invalid assignment target", ErrInvalidExpression)
			return left
		}
	}

	switch t := left.(type) {
	case *ast.Ident:
		return &ast.CompoundAssign{Base: p.base(start), Name: t.Name, Operator: op, Value: value}
	case *ast.Get:
		return &ast.CompoundSet{Base: p.base(start), Object: t.Object, Name: t.Name, Operator: op, Value: value}
	case *ast.GetIndex:
		return &ast.CompoundSetIndex{Base: p.base(start), Object: t.Object, Index: t.Index, Operator: op, Value: value}
	default:
		p.errorHere("invalid assignment target", ErrInvalidExpression)
		return left
	}
}
