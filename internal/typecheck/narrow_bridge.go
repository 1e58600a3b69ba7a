package typecheck

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/narrow"
	"github.com/sharpts/sharpts/internal/token"
	"github.com/sharpts/sharpts/internal/types"
)

// exprPath computes the narrow.Path an expression refers to, if any. Only
// plain identifier chains are narrowable (spec.md §4.2's Path union);
// anything else (a call result, a computed index) has no stable path and
// Result narrowing is skipped for it.
func (c *Checker) exprPath(e ast.Expr) (narrow.Path, bool) {
	switch n := e.(type) {
	case *ast.Ident:
		return narrow.Variable(n.Name), true
	case *ast.Get:
		if base, ok := c.exprPath(n.Object); ok {
			return narrow.PropertyAccess(base, n.Name), true
		}
	case *ast.GetIndex:
		if base, ok := c.exprPath(n.Object); ok {
			if lit, ok := n.Index.(*ast.Literal); ok {
				if s, ok := lit.Value.(string); ok {
					return narrow.ElementAccess(base, s), true
				}
			}
		}
	}
	return narrow.Path{}, false
}

// narrowCondition type-checks a boolean expression used as a control-flow
// test and returns the Result describing how the current narrowing
// context splits across the truthy and falsy continuations. It both
// records types (like checkExpr) and narrows, since a condition is always
// both checked and narrowed together.
func (c *Checker) narrowCondition(e ast.Expr) narrow.Result {
	switch n := e.(type) {
	case *ast.Grouping:
		return c.narrowCondition(n.Inner)
	case *ast.Unary:
		if n.Operator == token.LOGICAL_NOT {
			inner := c.narrowCondition(n.Operand)
			c.record(n, types.Boolean)
			return narrow.Not(inner)
		}
	case *ast.Logical:
		return c.narrowLogical(n)
	case *ast.Binary:
		if r, ok := c.narrowBinary(n); ok {
			return r
		}
	}
	t := c.checkExpr(e)
	if p, ok := c.exprPath(e); ok {
		return narrow.TruthinessNarrow(c.narrowCtx, p, c.typeForPath(p, t))
	}
	return narrow.Unrecognized(c.narrowCtx)
}

func (c *Checker) narrowLogical(n *ast.Logical) narrow.Result {
	base := c.narrowCtx
	var result narrow.Result
	evalLeft := func(ctx narrow.Context) narrow.Result {
		saved := c.narrowCtx
		c.narrowCtx = ctx
		r := c.narrowCondition(n.Left)
		c.narrowCtx = saved
		return r
	}
	evalRight := func(ctx narrow.Context) narrow.Result {
		saved := c.narrowCtx
		c.narrowCtx = ctx
		r := c.narrowCondition(n.Right)
		c.narrowCtx = saved
		return r
	}
	if n.Operator == token.LOGICAL_AND {
		result = narrow.And(base, evalLeft, evalRight)
	} else {
		result = narrow.Or(base, evalLeft, evalRight)
	}
	c.record(n, types.Boolean)
	return result
}

// narrowBinary recognizes the equality/relational guard forms spec.md
// §4.2 lists (typeof, null/undefined equality, literal/discriminant
// equality, instanceof, in) and falls through to an ordinary checked
// comparison that narrows nothing (narrow.Unrecognized) for anything else.
func (c *Checker) narrowBinary(n *ast.Binary) (narrow.Result, bool) {
	isEquality := n.Operator == token.EQ || n.Operator == token.NEQ ||
		n.Operator == token.EQ_STRICT || n.Operator == token.NEQ_STRICT
	negated := n.Operator == token.NEQ || n.Operator == token.NEQ_STRICT
	loose := n.Operator == token.EQ || n.Operator == token.NEQ

	if isEquality {
		if r, ok := c.narrowTypeofEquality(n.Left, n.Right, negated); ok {
			return r, true
		}
		if r, ok := c.narrowTypeofEquality(n.Right, n.Left, negated); ok {
			return r, true
		}
		if r, ok := c.narrowNullEquality(n.Left, n.Right, negated, loose); ok {
			return r, true
		}
		if r, ok := c.narrowNullEquality(n.Right, n.Left, negated, loose); ok {
			return r, true
		}
		if r, ok := c.narrowLiteralEquality(n.Left, n.Right, negated); ok {
			return r, true
		}
		if r, ok := c.narrowLiteralEquality(n.Right, n.Left, negated); ok {
			return r, true
		}
	}

	if n.Operator == token.INSTANCEOF {
		if r, ok := c.narrowInstanceof(n); ok {
			return r, true
		}
	}
	if n.Operator == token.IN {
		if r, ok := c.narrowIn(n); ok {
			return r, true
		}
	}

	// Ordinary comparison: check both sides for their side effects/errors,
	// record boolean, and narrow nothing further.
	c.checkExpr(n.Left)
	c.checkExpr(n.Right)
	c.record(n, types.Boolean)
	return narrow.Unrecognized(c.narrowCtx), true
}

func (c *Checker) narrowTypeofEquality(operandSide, literalSide ast.Expr, negated bool) (narrow.Result, bool) {
	unary, ok := operandSide.(*ast.Unary)
	if !ok || unary.Operator != token.TYPEOF {
		return narrow.Result{}, false
	}
	lit, ok := literalSide.(*ast.Literal)
	if !ok {
		return narrow.Result{}, false
	}
	operand, ok := lit.Value.(string)
	if !ok {
		return narrow.Result{}, false
	}
	p, ok := c.exprPath(unary.Operand)
	if !ok {
		return narrow.Result{}, false
	}
	declared := c.declaredType(unary.Operand)
	c.checkExpr(unary.Operand)
	c.record(unary, types.String)
	r := narrow.TypeofNarrow(c.narrowCtx, p, c.typeForPath(p, declared), operand)
	if negated {
		r = narrow.Not(r)
	}
	return r, true
}

func (c *Checker) narrowNullEquality(side, otherSide ast.Expr, negated, loose bool) (narrow.Result, bool) {
	lit, ok := otherSide.(*ast.Literal)
	isUndef := ok && isUndefinedLiteral(lit)
	isNull := ok && lit.Value == nil && !isUndef
	if !isUndef && !isNull {
		return narrow.Result{}, false
	}
	p, ok := c.exprPath(side)
	if !ok {
		return narrow.Result{}, false
	}
	declared := c.typeForPath(p, c.declaredType(side))
	c.checkExpr(side)
	var r narrow.Result
	if isUndef && !loose {
		r = narrow.UndefinedCheckNarrow(c.narrowCtx, p, declared)
	} else {
		r = narrow.NullCheckNarrow(c.narrowCtx, p, declared, loose)
	}
	if negated {
		r = narrow.Not(r)
	}
	return r, true
}

func isUndefinedLiteral(lit *ast.Literal) bool {
	_, ok := lit.Value.(ast.LiteralUndefined)
	return ok
}

func (c *Checker) narrowLiteralEquality(side, otherSide ast.Expr, negated bool) (narrow.Result, bool) {
	lit, ok := otherSide.(*ast.Literal)
	if !ok || lit.Value == nil || isUndefinedLiteral(lit) {
		return narrow.Result{}, false
	}
	p, ok := c.exprPath(side)
	if !ok {
		return narrow.Result{}, false
	}
	declared := c.typeForPath(p, c.declaredType(side))
	c.checkExpr(side)
	literalType := c.checkExpr(otherSide)

	if discriminantName, isMember := asDiscriminant(side); isMember {
		if basePath, ok := c.exprPath(discriminantBase(side)); ok {
			baseDeclared := c.typeForPath(basePath, c.declaredType(discriminantBase(side)))
			r := narrow.DiscriminantNarrow(c.narrowCtx, basePath, baseDeclared, discriminantName, literalType)
			if negated {
				r = narrow.Not(r)
			}
			return r, true
		}
	}

	r := narrow.LiteralEqualityNarrow(c.narrowCtx, p, declared, literalType)
	if negated {
		r = narrow.Not(r)
	}
	return r, true
}

// asDiscriminant reports whether side is a `.prop` member access suitable
// for DiscriminantNarrow, returning the property name.
func asDiscriminant(side ast.Expr) (string, bool) {
	if g, ok := side.(*ast.Get); ok {
		return g.Name, true
	}
	return "", false
}

func discriminantBase(side ast.Expr) ast.Expr {
	return side.(*ast.Get).Object
}

func (c *Checker) narrowInstanceof(n *ast.Binary) (narrow.Result, bool) {
	ref, ok := n.Right.(*ast.Ident)
	if !ok {
		return narrow.Result{}, false
	}
	classID, ok := c.classNames[ref.Name]
	if !ok {
		return narrow.Result{}, false
	}
	p, ok := c.exprPath(n.Left)
	if !ok {
		return narrow.Result{}, false
	}
	declared := c.typeForPath(p, c.declaredType(n.Left))
	c.checkExpr(n.Left)
	c.record(n.Right, types.InstanceType{Class: classID})
	c.record(n, types.Boolean)
	return narrow.InstanceofNarrow(c.narrowCtx, p, declared, classID), true
}

func (c *Checker) narrowIn(n *ast.Binary) (narrow.Result, bool) {
	lit, ok := n.Left.(*ast.Literal)
	if !ok {
		return narrow.Result{}, false
	}
	key, ok := lit.Value.(string)
	if !ok {
		return narrow.Result{}, false
	}
	p, ok := c.exprPath(n.Right)
	if !ok {
		return narrow.Result{}, false
	}
	declared := c.typeForPath(p, c.declaredType(n.Right))
	c.checkExpr(n.Right)
	c.record(n, types.Boolean)
	return narrow.InNarrow(c.narrowCtx, p, declared, key), true
}

// typeForPath returns the narrowed type for p in the current context, or
// fallback on a miss.
func (c *Checker) typeForPath(p narrow.Path, fallback types.TypeInfo) types.TypeInfo {
	if t, ok := c.narrowCtx.Lookup(p); ok {
		return t
	}
	return fallback
}

// declaredType is an expression's type ignoring any narrowing currently in
// effect — the scope-declared type for an identifier, or its checked type
// for anything else (narrowing only ever applies to identifier-rooted
// paths).
func (c *Checker) declaredType(e ast.Expr) types.TypeInfo {
	if id, ok := e.(*ast.Ident); ok {
		if sym, ok := c.scope.Resolve(id.Name); ok {
			return sym.Type
		}
	}
	return c.checkExpr(e)
}
