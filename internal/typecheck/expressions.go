package typecheck

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/narrow"
	"github.com/sharpts/sharpts/internal/token"
	"github.com/sharpts/sharpts/internal/types"
)

// checkExpr computes and records the type of an expression, recursing into
// its subexpressions. Condition expressions reached via narrowCondition
// already checked their Logical/Binary/Unary-not forms; checkExpr still
// handles a Binary/Logical/Unary reached directly (e.g. inside an
// assignment's right-hand side) by delegating to narrowCondition for the
// boolean-producing forms and to its own arithmetic logic otherwise.
func (c *Checker) checkExpr(e ast.Expr) types.TypeInfo {
	switch n := e.(type) {
	case *ast.Literal:
		return c.record(n, literalType(n.Value))
	case *ast.Ident:
		return c.checkIdent(n)
	case *ast.ThisExpr:
		return c.record(n, c.thisType())
	case *ast.SuperExpr:
		return c.record(n, c.superType())
	case *ast.Binary:
		return c.checkBinary(n)
	case *ast.Logical:
		c.narrowCondition(n)
		return c.typeMap[n.ID()]
	case *ast.Unary:
		return c.checkUnary(n)
	case *ast.Grouping:
		return c.record(n, c.checkExpr(n.Inner))
	case *ast.SpreadArg:
		return c.record(n, c.checkExpr(n.Value))
	case *ast.Call:
		return c.checkCall(n)
	case *ast.New:
		return c.checkNew(n)
	case *ast.Get:
		return c.checkGet(n)
	case *ast.Set:
		return c.checkSet(n)
	case *ast.GetIndex:
		return c.checkGetIndex(n)
	case *ast.SetIndex:
		return c.checkSetIndex(n)
	case *ast.Assign:
		return c.checkAssign(n)
	case *ast.CompoundAssign:
		return c.checkCompoundAssign(n)
	case *ast.CompoundSet:
		return c.checkCompoundSet(n)
	case *ast.CompoundSetIndex:
		return c.checkCompoundSetIndex(n)
	case *ast.PrefixIncrement:
		c.checkExpr(n.Target)
		return c.record(n, types.Number)
	case *ast.PostfixIncrement:
		c.checkExpr(n.Target)
		return c.record(n, types.Number)
	case *ast.Ternary:
		return c.checkTernary(n)
	case *ast.TypeAssertion:
		return c.checkTypeAssertion(n)
	case *ast.NullishCoalescing:
		return c.checkNullishCoalescing(n)
	case *ast.TemplateLiteral:
		for _, h := range n.Holes {
			c.checkExpr(h)
		}
		return c.record(n, types.String)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(n)
	case *ast.ObjectLiteral:
		return c.checkObjectLiteral(n)
	case *ast.ArrowFunction:
		return c.checkArrowFunction(n)
	case *ast.Await:
		return c.checkAwait(n)
	case *ast.Yield:
		return c.checkYield(n)
	case *ast.YieldStar:
		return c.checkYieldStar(n)
	}
	return types.Any
}

func literalType(v any) types.TypeInfo {
	switch val := v.(type) {
	case float64:
		return types.NumberLiteralType{Value: val}
	case string:
		return types.StringLiteralType{Value: val}
	case bool:
		return types.BooleanLiteralType{Value: val}
	case ast.LiteralUndefined:
		return types.Undefined
	case nil:
		return types.Null
	}
	return types.Any
}

func (c *Checker) checkIdent(n *ast.Ident) types.TypeInfo {
	sym, ok := c.scope.Resolve(n.Name)
	if !ok {
		c.errorAt(n.Pos(), ErrUndefinedName, "cannot find name '%s'", n.Name)
		return c.record(n, types.Any)
	}
	t := c.typeForPath(narrow.Variable(n.Name), sym.Type)
	return c.record(n, t)
}

func (c *Checker) thisType() types.TypeInfo {
	if c.currentClass != nil {
		return types.InstanceType{Class: c.currentClass.ID}
	}
	return types.Any
}

func (c *Checker) superType() types.TypeInfo {
	if c.currentClass != nil && c.currentClass.Super != nil {
		return types.InstanceType{Class: *c.currentClass.Super}
	}
	return types.Any
}

func isStringy(t types.TypeInfo) bool {
	return t.Kind() == types.KindString || t.Kind() == types.KindStringLiteral
}

func (c *Checker) checkBinary(n *ast.Binary) types.TypeInfo {
	switch n.Operator {
	case token.LOGICAL_AND, token.LOGICAL_OR:
		// Shouldn't occur — && / || parse as *ast.Logical — but degrade
		// gracefully rather than panicking on a malformed tree.
		left := c.checkExpr(n.Left)
		right := c.checkExpr(n.Right)
		return c.record(n, types.NewUnion(left, right))
	}

	if isComparisonOperator(n.Operator) {
		r, _ := c.narrowBinary(n)
		_ = r
		return c.typeMap[n.ID()]
	}

	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)
	var result types.TypeInfo
	switch n.Operator {
	case token.PLUS:
		if isStringy(left) || isStringy(right) {
			result = types.String
		} else {
			result = types.Number
		}
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STARSTAR,
		token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR, token.USHR:
		result = types.Number
	default:
		result = types.Any
	}
	return c.record(n, result)
}

func isComparisonOperator(op token.Kind) bool {
	switch op {
	case token.EQ, token.NEQ, token.EQ_STRICT, token.NEQ_STRICT,
		token.LT, token.GT, token.LE, token.GE, token.INSTANCEOF, token.IN:
		return true
	}
	return false
}

func (c *Checker) checkUnary(n *ast.Unary) types.TypeInfo {
	if n.Operator == token.LOGICAL_NOT {
		inner := c.narrowCondition(n.Operand)
		_ = inner
		return c.record(n, types.Boolean)
	}
	c.checkExpr(n.Operand)
	switch n.Operator {
	case token.TYPEOF:
		return c.record(n, types.String)
	default:
		return c.record(n, types.Number)
	}
}

func (c *Checker) checkCall(n *ast.Call) types.TypeInfo {
	calleeType := c.checkExpr(n.Callee)
	argTypes := make([]types.TypeInfo, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.checkExpr(a)
	}

	ft, ok := calleeType.(types.FunctionType)
	if !ok {
		if gft, isGeneric := calleeType.(types.GenericFunctionType); isGeneric {
			ft, ok = c.instantiateGenericCall(gft, n.TypeArgs, argTypes), true
		}
	}
	if !ok {
		if n.Optional || calleeType.Kind() == types.KindAny {
			return c.record(n, types.Any)
		}
		c.errorAt(n.Pos(), ErrNotCallable, "this expression is not callable")
		return c.record(n, types.Any)
	}

	if !ft.HasRest && len(n.Args) < ft.RequiredCount {
		c.errorAt(n.Pos(), ErrArgumentCount,
			"expected %d arguments, but got %d", ft.RequiredCount, len(n.Args))
	}
	return c.record(n, ft.ReturnType)
}

// instantiateGenericCall resolves a GenericFunctionType's type parameters —
// from explicit TypeArgs when the call spells them out (`f<number>(x)`),
// otherwise by unifying each declared parameter type against the
// corresponding argument's checked type — and substitutes the result
// through the function's body signature.
func (c *Checker) instantiateGenericCall(gft types.GenericFunctionType, typeArgs []ast.TypeExpr, argTypes []types.TypeInfo) types.FunctionType {
	bindings := types.Bindings{}
	if len(typeArgs) > 0 {
		for i, tp := range gft.TypeParams {
			if i < len(typeArgs) {
				bindings[tp.Name] = c.resolveType(typeArgs[i])
			}
		}
	} else {
		ic := types.NewInferenceContext()
		for i, pt := range gft.Body.ParamTypes {
			if i < len(argTypes) {
				ic.Unify(pt, argTypes[i])
			}
		}
		bindings = ic.Resolve(gft.TypeParams)
	}
	substituted := types.Substitute(gft.Body, bindings)
	ft, _ := substituted.(types.FunctionType)
	return ft
}

func (c *Checker) checkNew(n *ast.New) types.TypeInfo {
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	if ref, ok := n.Callee.(*ast.Ident); ok {
		if id, ok := c.classNames[ref.Name]; ok {
			return c.record(n, types.InstanceType{Class: id})
		}
	}
	c.checkExpr(n.Callee)
	return c.record(n, types.Any)
}

func (c *Checker) checkGet(n *ast.Get) types.TypeInfo {
	objType := c.checkExpr(n.Object)
	t, ok := c.memberType(objType, n.Name)
	if !ok {
		if n.Optional || objType.Kind() == types.KindAny {
			return c.record(n, types.Any)
		}
		c.errorAt(n.Pos(), ErrUnknownMember, "property '%s' does not exist on type '%s'", n.Name, objType.String())
		return c.record(n, types.Any)
	}
	if n.Optional {
		t = types.NewUnion(t, types.Undefined)
	}
	return c.record(n, t)
}

// memberType resolves obj.name against every object-like TypeInfo shape
// the checker understands: records/interfaces structurally, classes/
// instances nominally via the registry.
func (c *Checker) memberType(obj types.TypeInfo, name string) (types.TypeInfo, bool) {
	if name == "length" && isStringy(obj) {
		return types.Number, true
	}
	switch v := obj.(type) {
	case types.RecordType:
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Type, true
			}
		}
		if v.StringIndex != nil {
			return v.StringIndex.ValType, true
		}
	case types.InterfaceType:
		for _, f := range v.AllMembers() {
			if f.Name == name {
				return f.Type, true
			}
		}
	case types.InstanceType:
		return c.classMemberType(v.Class, name)
	case types.ArrayType:
		if name == "length" {
			return types.Number, true
		}
	case types.EnumType:
		for _, m := range v.Members {
			if m.Name == name {
				return v, true
			}
		}
	case types.UnionType:
		var results []types.TypeInfo
		for _, m := range v.Types {
			mt, ok := c.memberType(m, name)
			if !ok {
				return nil, false
			}
			results = append(results, mt)
		}
		return types.NewUnion(results...), true
	}
	return nil, false
}

func (c *Checker) classMemberType(id types.ID, name string) (types.TypeInfo, bool) {
	class, ok := c.registry.Class(id)
	if !ok {
		return nil, false
	}
	for _, f := range class.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	if ft, ok := class.Methods[name]; ok {
		return ft, true
	}
	if ft, ok := class.Getters[name]; ok {
		return ft.ReturnType, true
	}
	if class.Super != nil {
		return c.classMemberType(*class.Super, name)
	}
	return nil, false
}

func (c *Checker) checkSet(n *ast.Set) types.TypeInfo {
	objType := c.checkExpr(n.Object)
	valType := c.checkExpr(n.Value)
	target, ok := c.memberType(objType, n.Name)
	if ok && !types.Compatible(target, valType, c.registry) {
		c.errorAt(n.Pos(), ErrNotAssignable,
			"type '%s' is not assignable to type '%s'", valType.String(), target.String())
	}
	return c.record(n, valType)
}

func (c *Checker) checkGetIndex(n *ast.GetIndex) types.TypeInfo {
	objType := c.checkExpr(n.Object)
	idxType := c.checkExpr(n.Index)
	t := types.ExpandIndexedAccess(objType, idxType)
	if arr, ok := objType.(types.ArrayType); ok {
		t = arr.Element
	}
	if n.Optional {
		t = types.NewUnion(t, types.Undefined)
	}
	return c.record(n, t)
}

func (c *Checker) checkSetIndex(n *ast.SetIndex) types.TypeInfo {
	c.checkExpr(n.Object)
	c.checkExpr(n.Index)
	val := c.checkExpr(n.Value)
	return c.record(n, val)
}

func (c *Checker) checkAssign(n *ast.Assign) types.TypeInfo {
	valType := c.checkExpr(n.Value)
	sym, ok := c.scope.Resolve(n.Name)
	if !ok {
		c.errorAt(n.Pos(), ErrUndefinedName, "cannot find name '%s'", n.Name)
		return c.record(n, valType)
	}
	if sym.Const {
		c.errorAt(n.Pos(), ErrConstReassignment, "cannot assign to '%s' because it is a constant", n.Name)
	} else if !types.Compatible(sym.Type, valType, c.registry) {
		c.errorAt(n.Pos(), ErrNotAssignable,
			"type '%s' is not assignable to type '%s'", valType.String(), sym.Type.String())
	}
	c.narrowCtx = c.narrowCtx.Invalidate(narrow.Variable(n.Name))
	return c.record(n, valType)
}

func (c *Checker) checkCompoundAssign(n *ast.CompoundAssign) types.TypeInfo {
	c.checkExpr(n.Value)
	sym, ok := c.scope.Resolve(n.Name)
	c.narrowCtx = c.narrowCtx.Invalidate(narrow.Variable(n.Name))
	if !ok {
		c.errorAt(n.Pos(), ErrUndefinedName, "cannot find name '%s'", n.Name)
		return c.record(n, types.Any)
	}
	return c.record(n, sym.Type)
}

func (c *Checker) checkCompoundSet(n *ast.CompoundSet) types.TypeInfo {
	c.checkExpr(n.Object)
	c.checkExpr(n.Value)
	return c.record(n, types.Any)
}

func (c *Checker) checkCompoundSetIndex(n *ast.CompoundSetIndex) types.TypeInfo {
	c.checkExpr(n.Object)
	c.checkExpr(n.Index)
	c.checkExpr(n.Value)
	return c.record(n, types.Any)
}

func (c *Checker) checkTernary(n *ast.Ternary) types.TypeInfo {
	cond := c.narrowCondition(n.Cond)
	saved := c.narrowCtx

	c.narrowCtx = cond.Positive
	thenType := c.checkExpr(n.Then)
	thenCtx := c.narrowCtx

	c.narrowCtx = cond.Negative
	elseType := c.checkExpr(n.Else)
	elseCtx := c.narrowCtx

	c.narrowCtx = narrow.Merge(thenCtx, elseCtx)
	_ = saved
	return c.record(n, types.NewUnion(thenType, elseType))
}

func (c *Checker) checkTypeAssertion(n *ast.TypeAssertion) types.TypeInfo {
	exprType := c.checkExpr(n.Expr)
	target := c.resolveType(n.Type)
	if n.Satisfies {
		if !types.Compatible(target, exprType, c.registry) {
			c.errorAt(n.Pos(), ErrNotAssignable,
				"type '%s' does not satisfy '%s'", exprType.String(), target.String())
		}
		return c.record(n, exprType)
	}
	return c.record(n, target)
}

func (c *Checker) checkNullishCoalescing(n *ast.NullishCoalescing) types.TypeInfo {
	leftType := c.checkExpr(n.Left)
	rightType := c.checkExpr(n.Right)
	without := excludeNullish(leftType)
	return c.record(n, types.NewUnion(without, rightType))
}

func excludeNullish(t types.TypeInfo) types.TypeInfo {
	u, ok := t.(types.UnionType)
	if !ok {
		if t.Kind() == types.KindNull || t.Kind() == types.KindUndefined {
			return types.Never
		}
		return t
	}
	var kept []types.TypeInfo
	for _, m := range u.Types {
		if m.Kind() != types.KindNull && m.Kind() != types.KindUndefined {
			kept = append(kept, m)
		}
	}
	return types.NewUnion(kept...)
}

func (c *Checker) checkArrayLiteral(n *ast.ArrayLiteral) types.TypeInfo {
	var elemTypes []types.TypeInfo
	for _, el := range n.Elements {
		if spread, ok := el.(*ast.SpreadArg); ok {
			st := c.checkExpr(spread.Value)
			if arr, ok := st.(types.ArrayType); ok {
				elemTypes = append(elemTypes, arr.Element)
				continue
			}
			elemTypes = append(elemTypes, st)
			continue
		}
		elemTypes = append(elemTypes, c.checkExpr(el))
	}
	if len(elemTypes) == 0 {
		return c.record(n, types.ArrayType{Element: types.Any})
	}
	return c.record(n, types.ArrayType{Element: types.NewUnion(elemTypes...)})
}

func (c *Checker) checkObjectLiteral(n *ast.ObjectLiteral) types.TypeInfo {
	rt := types.RecordType{}
	for _, p := range n.Properties {
		if p.Spread {
			st := c.checkExpr(p.Value)
			if src, ok := st.(types.RecordType); ok {
				rt.Fields = append(rt.Fields, src.Fields...)
			}
			continue
		}
		if p.Computed != nil {
			c.checkExpr(p.Computed)
		}
		valType := c.checkExpr(p.Value)
		rt.Fields = append(rt.Fields, types.PropertyInfo{Name: p.Key, Type: valType})
	}
	return c.record(n, rt)
}

func (c *Checker) checkArrowFunction(n *ast.ArrowFunction) types.TypeInfo {
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	savedReturn := c.currentReturn
	c.funcDepth++

	ft := types.FunctionType{}
	for _, p := range n.Params {
		pt := c.resolveType(p.Type)
		if p.Rest {
			ft.HasRest = true
			ft.ParamTypes = append(ft.ParamTypes, types.ArrayType{Element: pt})
		} else {
			ft.ParamTypes = append(ft.ParamTypes, pt)
			if !p.Optional && p.Default == nil {
				ft.RequiredCount++
			}
		}
		c.bindParam(p, pt)
	}
	c.currentReturn = c.resolveType(n.ReturnType)

	switch body := n.Body.(type) {
	case *ast.Block:
		c.checkBlock(body)
		ft.ReturnType = c.currentReturn
		if ft.ReturnType == nil {
			ft.ReturnType = types.Void
		}
	case *ast.Return:
		var retType types.TypeInfo = types.Void
		if body.Value != nil {
			retType = c.checkExpr(body.Value)
		}
		if n.ReturnType != nil {
			ft.ReturnType = c.currentReturn
		} else {
			ft.ReturnType = retType
		}
	default:
		ft.ReturnType = types.Void
	}
	if n.IsAsync {
		ft.ReturnType = types.PromiseType{Elem: ft.ReturnType}
	}

	c.funcDepth--
	c.currentReturn = savedReturn
	c.scope = enclosing
	return c.record(n, ft)
}

func (c *Checker) checkAwait(n *ast.Await) types.TypeInfo {
	t := c.checkExpr(n.Value)
	if p, ok := t.(types.PromiseType); ok {
		return c.record(n, p.Elem)
	}
	return c.record(n, t)
}

func (c *Checker) checkYield(n *ast.Yield) types.TypeInfo {
	if n.Value != nil {
		c.checkExpr(n.Value)
	}
	return c.record(n, types.Any)
}

func (c *Checker) checkYieldStar(n *ast.YieldStar) types.TypeInfo {
	t := c.checkExpr(n.Iterable)
	if arr, ok := t.(types.ArrayType); ok {
		return c.record(n, arr.Element)
	}
	return c.record(n, types.Any)
}
