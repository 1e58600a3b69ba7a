package typecheck

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/narrow"
	"github.com/sharpts/sharpts/internal/types"
)

// checkStmt type-checks one statement, threading narrowCtx through any
// branching control flow it introduces.
func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(n)
	case *ast.ExpressionStmt:
		c.checkExpr(n.Expression)
	case *ast.Block:
		c.checkBlockScoped(n)
	case *ast.If:
		c.checkIf(n)
	case *ast.While:
		c.checkWhile(n)
	case *ast.DoWhile:
		c.checkDoWhile(n)
	case *ast.ForOf:
		c.checkForOf(n)
	case *ast.ForIn:
		c.checkForIn(n)
	case *ast.For:
		c.checkFor(n)
	case *ast.Sequence:
		for _, st := range n.Statements {
			c.checkStmt(st)
		}
	case *ast.Return:
		c.checkReturn(n)
	case *ast.Break:
		if c.loopDepth == 0 {
			c.errorAt(n.Pos(), ErrInvalidBreak, "a 'break' statement can only be used within an enclosing iteration or switch statement")
		}
	case *ast.Continue:
		if c.loopDepth == 0 {
			c.errorAt(n.Pos(), ErrInvalidContinue, "a 'continue' statement can only be used within an enclosing iteration statement")
		}
	case *ast.TryCatch:
		c.checkTryCatch(n)
	case *ast.Throw:
		c.checkExpr(n.Value)
	case *ast.Switch:
		c.checkSwitch(n)
	case *ast.LabeledStatement:
		c.checkStmt(n.Body)
	case *ast.FunctionDecl:
		c.checkFunctionDecl(n)
	case *ast.ClassDecl:
		c.checkClassDecl(n)
	case *ast.InterfaceDecl, *ast.EnumDecl, *ast.TypeAliasDecl:
		// Fully handled by hoistDeclarations; nothing left to check.
	case *ast.NamespaceDecl:
		for _, st := range n.Statements {
			c.checkStmt(st)
		}
	case *ast.ImportDecl, *ast.ImportAliasDecl:
		// Module resolution belongs to the module graph, not the checker.
	case *ast.ExportDecl:
		if n.Decl != nil {
			c.checkStmt(n.Decl)
		}
		if n.Default != nil {
			c.checkExpr(n.Default)
		}
	}
}

func (c *Checker) checkVarDecl(n *ast.VarDecl) {
	for _, decl := range n.Declarators {
		var declared types.TypeInfo
		if decl.Type != nil {
			declared = c.resolveType(decl.Type)
		}
		var initType types.TypeInfo
		if decl.Init != nil {
			initType = c.checkExpr(decl.Init)
		}
		finalType := declared
		if finalType == nil {
			if initType != nil {
				finalType = types.WidenForDeclaration(initType, n.Kind == ast.VarKindConst)
			} else {
				finalType = types.Any
			}
		} else if initType != nil && !types.Compatible(declared, initType, c.registry) {
			c.errorAt(decl.Init.Pos(), ErrNotAssignable,
				"type '%s' is not assignable to type '%s'", initType.String(), declared.String())
		}
		c.bindDeclarator(decl, finalType, n.Kind == ast.VarKindConst)
	}
}

// bindDeclarator defines every name a (possibly destructuring) declarator
// introduces. Nested object/array patterns bind each element against the
// structural member/element type of t, falling back to types.Any when t
// isn't destructurable (the same permissive posture resolveType takes for
// unresolvable names).
func (c *Checker) bindDeclarator(decl ast.Declarator, t types.TypeInfo, isConst bool) {
	if decl.Pattern != nil {
		c.bindPattern(*decl.Pattern, t, isConst)
		return
	}
	c.scope.Define(decl.Name, t, isConst)
	c.narrowCtx = c.narrowCtx.Invalidate(narrow.Variable(decl.Name))
}

func (c *Checker) bindPattern(p ast.BindingPattern, t types.TypeInfo, isConst bool) {
	switch p.Kind {
	case ast.PatternArray:
		elem := types.Any
		if arr, ok := t.(types.ArrayType); ok {
			elem = arr.Element
		} else if tup, ok := t.(types.TupleType); ok && len(tup.Elements) > 0 {
			elem = tup.Elements[0]
		}
		for _, el := range p.Elements {
			c.bindPatternElement(el, elem, isConst)
		}
	case ast.PatternObject:
		for _, el := range p.Elements {
			memberType := types.Any
			if el.Key != "" {
				if mt, ok := c.memberType(t, el.Key); ok {
					memberType = mt
				}
			}
			c.bindPatternElement(el, memberType, isConst)
		}
	}
}

func (c *Checker) bindPatternElement(el ast.PatternElement, t types.TypeInfo, isConst bool) {
	if el.Default != nil {
		c.checkExpr(el.Default)
	}
	if el.Nested != nil {
		c.bindPattern(*el.Nested, t, isConst)
		return
	}
	if el.Rest {
		t = types.ArrayType{Element: t}
	}
	c.scope.Define(el.Target, t, isConst)
	c.narrowCtx = c.narrowCtx.Invalidate(narrow.Variable(el.Target))
}

func (c *Checker) checkBlockScoped(n *ast.Block) {
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	c.checkBlockBody(n)
	c.scope = enclosing
}

// checkBlockBody checks a block's statements in the Checker's current
// scope, without pushing a new one — used where the caller already pushed
// an enclosing scope (function/method bodies binding params).
func (c *Checker) checkBlockBody(n *ast.Block) {
	for _, stmt := range n.Statements {
		c.checkStmt(stmt)
	}
}

// checkBlock is the entry point used for a function/arrow body, where the
// enclosing scope was already set up by the caller (params bound there).
func (c *Checker) checkBlock(n *ast.Block) {
	c.checkBlockBody(n)
}

func (c *Checker) checkIf(n *ast.If) {
	cond := c.narrowCondition(n.Cond)
	saved := c.narrowCtx

	c.narrowCtx = cond.Positive
	c.checkStmt(n.Then)
	thenCtx := c.narrowCtx
	thenExits := stmtAlwaysExits(n.Then)

	elseCtx := cond.Negative
	elseExits := false
	if n.Else != nil {
		c.narrowCtx = cond.Negative
		c.checkStmt(n.Else)
		elseCtx = c.narrowCtx
		elseExits = stmtAlwaysExits(n.Else)
	}

	switch {
	case thenExits && !elseExits:
		c.narrowCtx = elseCtx
	case elseExits && !thenExits:
		c.narrowCtx = thenCtx
	case thenExits && elseExits:
		c.narrowCtx = saved
	default:
		c.narrowCtx = narrow.Merge(thenCtx, elseCtx)
	}
}

// stmtAlwaysExits conservatively detects whether a statement unconditionally
// leaves the enclosing block (return/throw, or a block ending in one) — used
// to decide which branch's narrowed context survives past an if/else.
func stmtAlwaysExits(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Return, *ast.Throw, *ast.Break, *ast.Continue:
		return true
	case *ast.Block:
		if len(n.Statements) == 0 {
			return false
		}
		return stmtAlwaysExits(n.Statements[len(n.Statements)-1])
	case *ast.If:
		return n.Else != nil && stmtAlwaysExits(n.Then) && stmtAlwaysExits(n.Else)
	}
	return false
}

func (c *Checker) checkWhile(n *ast.While) {
	cond := c.narrowCondition(n.Cond)
	saved := c.narrowCtx
	c.narrowCtx = cond.Positive
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.narrowCtx = narrow.Merge(saved, cond.Negative)
}

func (c *Checker) checkDoWhile(n *ast.DoWhile) {
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	cond := c.narrowCondition(n.Cond)
	c.narrowCtx = cond.Negative
}

func (c *Checker) checkForOf(n *ast.ForOf) {
	iterType := c.checkExpr(n.Iterable)
	elem := types.Any
	switch it := iterType.(type) {
	case types.ArrayType:
		elem = it.Element
	case types.TupleType:
		elem = types.NewUnion(it.Elements...)
	case types.PromiseType:
		elem = it.Elem
	}
	if n.IsAwait {
		if p, ok := elem.(types.PromiseType); ok {
			elem = p.Elem
		}
	}
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	if n.Pattern != nil {
		c.bindPattern(*n.Pattern, elem, n.Kind == ast.VarKindConst)
	} else {
		c.scope.Define(n.Name, elem, n.Kind == ast.VarKindConst)
	}
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.scope = enclosing
}

func (c *Checker) checkForIn(n *ast.ForIn) {
	c.checkExpr(n.Object)
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	c.scope.Define(n.Name, types.String, n.Kind == ast.VarKindConst)
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.scope = enclosing
}

func (c *Checker) checkFor(n *ast.For) {
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	if n.Init != nil {
		c.checkStmt(n.Init)
	}
	if n.Cond != nil {
		c.narrowCondition(n.Cond)
	}
	c.loopDepth++
	c.checkStmt(n.Body)
	if n.Update != nil {
		c.checkExpr(n.Update)
	}
	c.loopDepth--
	c.scope = enclosing
}

func (c *Checker) checkReturn(n *ast.Return) {
	if c.funcDepth == 0 {
		c.errorAt(n.Pos(), ErrInvalidReturn, "a 'return' statement can only be used within a function body")
	}
	if n.Value == nil {
		return
	}
	retType := c.checkExpr(n.Value)
	if c.currentReturn != nil && c.currentReturn.Kind() != types.KindAny &&
		!types.Compatible(c.currentReturn, retType, c.registry) {
		c.errorAt(n.Value.Pos(), ErrNotAssignable,
			"type '%s' is not assignable to type '%s'", retType.String(), c.currentReturn.String())
	}
}

func (c *Checker) checkTryCatch(n *ast.TryCatch) {
	c.checkStmt(n.Try)
	if n.Catch != nil {
		enclosing := c.scope
		c.scope = NewEnclosedScope(enclosing)
		if n.Catch.Param != "" {
			t := types.Any
			if n.Catch.Type != nil {
				t = c.resolveType(n.Catch.Type)
			}
			c.scope.Define(n.Catch.Param, t, false)
		}
		c.checkStmt(n.Catch.Body)
		c.scope = enclosing
	}
	if n.Finally != nil {
		c.checkStmt(n.Finally)
	}
}

func (c *Checker) checkSwitch(n *ast.Switch) {
	discType := c.checkExpr(n.Discriminant)
	saved := c.narrowCtx
	var exitCtxs []narrow.Context

	// A `.prop` discriminant (`switch (shape.kind)`) narrows the *base*
	// object's path by discriminant, the same special case
	// narrowLiteralEquality applies for `if (shape.kind === "circle")`;
	// anything else narrows its own path by literal equality directly.
	discName, isMember := asDiscriminant(n.Discriminant)
	var basePath narrow.Path
	var baseDeclared types.TypeInfo
	hasBase := false
	if isMember {
		if p, ok := c.exprPath(discriminantBase(n.Discriminant)); ok {
			basePath = p
			baseDeclared = c.declaredType(discriminantBase(n.Discriminant))
			hasBase = true
		}
	}
	discPath, hasPath := c.exprPath(n.Discriminant)

	for _, cs := range n.Cases {
		caseCtx := saved
		if cs.Test != nil {
			litType := c.checkExpr(cs.Test)
			if _, ok := asCaseLiteral(cs.Test); ok {
				switch {
				case hasBase:
					caseCtx = narrow.DiscriminantNarrow(saved, basePath, baseDeclared, discName, litType).Positive
				case hasPath:
					caseCtx = narrow.LiteralEqualityNarrow(saved, discPath, discType, litType).Positive
				}
			}
		}
		c.narrowCtx = caseCtx
		for _, st := range cs.Body {
			c.checkStmt(st)
		}
		exitCtxs = append(exitCtxs, c.narrowCtx)
	}
	if len(exitCtxs) > 0 {
		c.narrowCtx = narrow.MergeAll(exitCtxs...)
	} else {
		c.narrowCtx = saved
	}
}

func asCaseLiteral(e ast.Expr) (any, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}
