package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/token"
)

// parseFunctionDecl parses a named `function`/`function*`/`async function`
// declaration. isAsync is true when the caller already consumed a leading
// `async` keyword.
func (p *Parser) parseFunctionDecl(isAsync bool) *ast.FunctionDecl {
	start := p.cur()
	p.advance() // consume function
	isGenerator := false
	if p.curIs(token.STAR) {
		isGenerator = true
		p.advance()
	}
	decl := &ast.FunctionDecl{Base: p.base(start), Kind: functionKind(isAsync, isGenerator)}
	decl.Name = p.cur().Lexeme
	p.advance()
	decl.TypeParams = p.parseTypeParams()
	decl.Params = p.parseParamList()
	if p.curIs(token.COLON) {
		p.advance()
		decl.ReturnType = p.parseTypeExpr()
	}
	decl.Body = p.parseBlock()
	return decl
}

func functionKind(isAsync, isGenerator bool) ast.FunctionKind {
	switch {
	case isAsync && isGenerator:
		return ast.FuncAsyncGenerator
	case isAsync:
		return ast.FuncAsync
	case isGenerator:
		return ast.FuncGenerator
	default:
		return ast.FuncPlain
	}
}

// parseDecorators consumes zero or more `@expr` decorators preceding a class,
// method, or field declaration.
func (p *Parser) parseDecorators() []ast.Decorator {
	var decs []ast.Decorator
	for p.curIs(token.AT) {
		p.advance()
		expr := p.parseExpression(CALL_MEMBER)
		decs = append(decs, ast.Decorator{Expr: expr})
	}
	return decs
}

// parseClassDecl parses a class declaration; decorators already collected by
// the statement dispatcher (none support `@`-prefixed statements other than
// classes) are passed in directly.
func (p *Parser) parseClassDecl(decorators []ast.Decorator, abstract bool) *ast.ClassDecl {
	start := p.cur()
	p.advance() // consume class
	decl := &ast.ClassDecl{Base: p.base(start), Abstract: abstract, Decorators: decorators}
	decl.Name = p.cur().Lexeme
	p.advance()
	decl.TypeParams = p.parseTypeParams()
	if p.curIs(token.EXTENDS) {
		p.advance()
		decl.SuperClass = p.parseTypeRefOrFunctionType()
	}
	if p.curIs(token.IMPLEMENTS) {
		p.advance()
		for {
			decl.Interfaces = append(decl.Interfaces, p.parseTypeRefOrFunctionType())
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	decl.Members = p.parseClassBody()
	return decl
}

func (p *Parser) parseInterfaceDecl() *ast.InterfaceDecl {
	start := p.cur()
	p.advance() // consume interface
	decl := &ast.InterfaceDecl{Base: p.base(start)}
	decl.Name = p.cur().Lexeme
	p.advance()
	decl.TypeParams = p.parseTypeParams()
	if p.curIs(token.EXTENDS) {
		p.advance()
		for {
			decl.Extends = append(decl.Extends, p.parseTypeRefOrFunctionType())
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.LBRACE, ErrMissingBrace)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.LBRACKET) {
			p.advance()
			keyName := p.cur().Lexeme
			p.advance()
			p.expect(token.COLON, ErrMissingColon)
			keyType := p.parseTypeExpr()
			p.expect(token.RBRACKET, ErrMissingBracket)
			p.expect(token.COLON, ErrMissingColon)
			valType := p.parseTypeExpr()
			decl.Indices = append(decl.Indices, ast.IndexSignature{KeyName: keyName, KeyType: keyType, ValType: valType})
			p.consumeTrailingSeparators()
			continue
		}

		readonly := false
		if p.curIs(token.READONLY) {
			readonly = true
			p.advance()
		}
		name := p.cur().Lexeme
		p.advance()
		optional := false
		if p.curIs(token.QUESTION) {
			optional = true
			p.advance()
		}
		if p.curIs(token.LPAREN) || p.curIs(token.LT) {
			sig := ast.InterfaceMethodSig{Name: name, Optional: optional}
			sig.TypeParams = p.parseTypeParams()
			sig.Params = p.parseParamList()
			if p.curIs(token.COLON) {
				p.advance()
				sig.ReturnType = p.parseTypeExpr()
			}
			decl.Methods = append(decl.Methods, sig)
		} else {
			p.expect(token.COLON, ErrMissingColon)
			typ := p.parseTypeExpr()
			decl.Properties = append(decl.Properties, ast.InterfacePropertySig{
				Name: name, Type: typ, Optional: optional, Readonly: readonly,
			})
		}
		p.consumeTrailingSeparators()
	}
	p.expect(token.RBRACE, ErrMissingBrace)
	return decl
}

// parseEnumDecl parses an enum body. hint is ast.EnumConst when the caller
// already consumed a leading `const`; otherwise the concrete numeric/string/
// heterogeneous kind is inferred from the member initializers.
func (p *Parser) parseEnumDecl(hint ast.EnumKind) *ast.EnumDecl {
	start := p.cur()
	p.advance() // consume enum
	decl := &ast.EnumDecl{Base: p.base(start)}
	decl.Name = p.cur().Lexeme
	p.advance()
	p.expect(token.LBRACE, ErrMissingBrace)

	hasString, hasNumericOrImplicit := false, false
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		member := ast.EnumMember{Name: p.cur().Lexeme}
		p.advance()
		if p.curIs(token.ASSIGN) {
			p.advance()
			member.Value = p.parseExpression(ASSIGNMENT)
			if lit, ok := member.Value.(*ast.Literal); ok {
				if _, isString := lit.Value.(string); isString {
					hasString = true
				} else {
					hasNumericOrImplicit = true
				}
			} else {
				hasNumericOrImplicit = true
			}
		} else {
			hasNumericOrImplicit = true
		}
		decl.Members = append(decl.Members, member)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE, ErrMissingBrace)

	switch {
	case hint == ast.EnumConst:
		decl.Kind = ast.EnumConst
	case hasString && hasNumericOrImplicit:
		decl.Kind = ast.EnumHeterogeneous
	case hasString:
		decl.Kind = ast.EnumString
	default:
		decl.Kind = ast.EnumNumeric
	}
	return decl
}

func (p *Parser) parseTypeAliasDecl() *ast.TypeAliasDecl {
	start := p.cur()
	p.advance() // consume type
	decl := &ast.TypeAliasDecl{Base: p.base(start)}
	decl.Name = p.cur().Lexeme
	p.advance()
	decl.TypeParams = p.parseTypeParams()
	p.expect(token.ASSIGN, ErrInvalidSyntax)
	decl.Value = p.parseTypeExpr()
	p.consumeSemicolon()
	return decl
}

func (p *Parser) parseNamespaceDecl() *ast.NamespaceDecl {
	start := p.cur()
	p.advance() // consume namespace/module
	decl := &ast.NamespaceDecl{Base: p.base(start)}
	name := p.cur().Lexeme
	p.advance()
	for p.curIs(token.DOT) {
		p.advance()
		name += "." + p.cur().Lexeme
		p.advance()
	}
	decl.Name = name
	block := p.parseBlock()
	decl.Statements = block.Statements
	return decl
}

// parseImportDecl parses every import form: default, namespace, named, mixed,
// side-effect-only, and the DWScript-flavored `import X = ...` alias form.
func (p *Parser) parseImportDecl() ast.Stmt {
	start := p.cur()
	p.advance() // consume import

	if p.curIs(token.IDENT) && p.peekIs(token.ASSIGN) {
		name := p.cur().Lexeme
		p.advance()
		p.advance() // consume =
		value := p.parseExpression(LOWEST)
		p.consumeSemicolon()
		return &ast.ImportAliasDecl{Base: p.base(start), Name: name, Value: value}
	}

	decl := &ast.ImportDecl{Base: p.base(start)}
	if p.curIs(token.STRING) {
		decl.Source, _ = p.cur().Literal.(string)
		p.advance()
		p.consumeSemicolon()
		return decl
	}

	if p.curIs(token.IDENT) {
		decl.Default = p.cur().Lexeme
		p.advance()
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.STAR) {
		p.advance()
		p.expect(token.AS, ErrInvalidSyntax)
		decl.Namespace = p.cur().Lexeme
		p.advance()
	} else if p.curIs(token.LBRACE) {
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			spec := ast.ImportSpecifier{Imported: p.cur().Lexeme}
			spec.Local = spec.Imported
			p.advance()
			if p.curIs(token.AS) {
				p.advance()
				spec.Local = p.cur().Lexeme
				p.advance()
			}
			decl.Specifiers = append(decl.Specifiers, spec)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACE, ErrMissingBrace)
	}
	p.expect(token.FROM, ErrInvalidSyntax)
	decl.Source, _ = p.cur().Literal.(string)
	p.advance()
	p.consumeSemicolon()
	return decl
}

// parseExportDecl parses `export <decl>`, `export default expr`,
// `export { a, b as c } [from "m"]`, and `export * from "m"`.
func (p *Parser) parseExportDecl() *ast.ExportDecl {
	start := p.cur()
	p.advance() // consume export
	decl := &ast.ExportDecl{Base: p.base(start)}

	switch {
	case p.curIs(token.DEFAULT):
		p.advance()
		decl.Default = p.parseExpression(ASSIGNMENT)
		p.consumeSemicolon()
	case p.curIs(token.STAR):
		p.advance()
		decl.Star = true
		p.expect(token.FROM, ErrInvalidSyntax)
		decl.ReexportFrom, _ = p.cur().Literal.(string)
		p.advance()
		p.consumeSemicolon()
	case p.curIs(token.LBRACE):
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			spec := ast.ExportSpecifier{Local: p.cur().Lexeme}
			spec.Exported = spec.Local
			p.advance()
			if p.curIs(token.AS) {
				p.advance()
				spec.Exported = p.cur().Lexeme
				p.advance()
			}
			decl.Specifiers = append(decl.Specifiers, spec)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACE, ErrMissingBrace)
		if p.curIs(token.FROM) {
			p.advance()
			decl.ReexportFrom, _ = p.cur().Literal.(string)
			p.advance()
		}
		p.consumeSemicolon()
	default:
		decl.Decl = p.parseStatement()
	}
	return decl
}
