package typecheck

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/types"
)

// resolveType turns a surface TypeExpr into a semantic types.TypeInfo,
// resolving named references against the checker's registered classes,
// interfaces, enums, type aliases, and whatever generic type parameters
// are currently in scope. Unresolvable names produce an ErrUndefinedType
// and resolve to types.Any so the rest of the check can continue (the same
// error-recovery posture the parser takes with a malformed statement).
func (c *Checker) resolveType(te ast.TypeExpr) types.TypeInfo {
	if te == nil {
		return types.Any
	}
	switch t := te.(type) {
	case *ast.TypeRef:
		return c.resolveTypeRef(t)
	case *ast.LiteralType:
		switch v := t.Value.(type) {
		case float64:
			return types.NumberLiteralType{Value: v}
		case string:
			return types.StringLiteralType{Value: v}
		case bool:
			return types.BooleanLiteralType{Value: v}
		}
		return types.Any
	case *ast.UnionType:
		members := make([]types.TypeInfo, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveType(m)
		}
		return types.NewUnion(members...)
	case *ast.IntersectionType:
		members := make([]types.TypeInfo, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveType(m)
		}
		return types.NewIntersection(members...)
	case *ast.ArrayType:
		return types.ArrayType{Element: c.resolveType(t.Element)}
	case *ast.TupleType:
		return c.resolveTupleType(t)
	case *ast.ObjectType:
		return c.resolveObjectType(t)
	case *ast.FunctionType:
		return c.resolveFunctionType(t)
	case *ast.KeyOfType:
		return types.ExpandKeyOf(c.resolveType(t.Operand))
	case *ast.IndexedAccessType:
		return types.ExpandIndexedAccess(c.resolveType(t.Object), c.resolveType(t.Index))
	case *ast.MappedType:
		return c.resolveMappedType(t)
	case *ast.ConditionalType:
		return c.resolveConditionalType(t)
	}
	return types.Any
}

func (c *Checker) resolveTupleType(t *ast.TupleType) types.TypeInfo {
	tt := types.TupleType{}
	for _, el := range t.Elements {
		if el.Rest {
			tt.Rest = c.resolveType(el.Type)
			continue
		}
		tt.Elements = append(tt.Elements, c.resolveType(el.Type))
		tt.Optional = append(tt.Optional, el.Optional)
		if !el.Optional {
			tt.RequiredCount++
		}
	}
	return tt
}

func (c *Checker) resolveObjectType(t *ast.ObjectType) types.TypeInfo {
	rt := types.RecordType{}
	for _, m := range t.Members {
		rt.Fields = append(rt.Fields, types.PropertyInfo{
			Name: m.Name, Type: c.resolveType(m.Type),
			Optional: m.Optional, Readonly: m.Readonly,
		})
	}
	for _, idx := range t.Indices {
		sig := &types.IndexSignature{KeyType: c.resolveType(idx.KeyType), ValType: c.resolveType(idx.ValType)}
		switch sig.KeyType.Kind() {
		case types.KindString:
			rt.StringIndex = sig
		case types.KindNumber:
			rt.NumberIndex = sig
		case types.KindSymbol:
			rt.SymbolIndex = sig
		}
	}
	return rt
}

func (c *Checker) resolveFunctionType(t *ast.FunctionType) types.TypeInfo {
	ft := types.FunctionType{ReturnType: c.resolveType(t.ReturnType)}
	for _, p := range t.Params {
		if p.Rest {
			ft.HasRest = true
			ft.ParamTypes = append(ft.ParamTypes, types.ArrayType{Element: c.resolveType(p.Type)})
			continue
		}
		ft.ParamTypes = append(ft.ParamTypes, c.resolveType(p.Type))
		if !p.Optional && p.Default == nil {
			ft.RequiredCount++
		}
	}
	return ft
}

func (c *Checker) resolveMappedType(t *ast.MappedType) types.TypeInfo {
	m := types.MappedTypeType{
		Param:       t.Param,
		Constraint:  c.resolveType(t.Constraint),
		OptMod:      types.MappedModifier(t.OptMod),
		ReadonlyMod: types.MappedModifier(t.ReadonlyMod),
	}
	// The mapped value/`as` clauses reference Param as a free type variable;
	// bind it to itself (a TypeParameterType) while resolving so a bare
	// `P` inside V or the `as` clause resolves instead of erroring as
	// undefined, then let ExpandMapped substitute the real key in.
	c.pushTypeParam(t.Param, types.TypeParameterType{Name: t.Param})
	m.ValueType = c.resolveType(t.ValueType)
	if t.As != nil {
		m.As = c.resolveType(t.As)
	}
	c.popTypeParam(t.Param)
	return types.ExpandMapped(m, types.Bindings{})
}

func (c *Checker) resolveConditionalType(t *ast.ConditionalType) types.TypeInfo {
	check := c.resolveType(t.Check)
	for _, name := range t.Infers {
		c.pushTypeParam(name, types.TypeParameterType{Name: name})
	}
	extends := c.resolveType(t.Extends)
	for _, name := range t.Infers {
		c.popTypeParam(name)
	}
	if t.True == nil && t.False == nil {
		// Heritage-clause reuse of the conditional-type grammar entry point
		// (see parser.parseConditionalType): not an actual conditional type.
		return extends
	}

	ic := types.NewInferenceContext()
	ic.Unify(extends, check)
	params := make([]types.TypeParameterType, len(t.Infers))
	for i, name := range t.Infers {
		params[i] = types.TypeParameterType{Name: name}
	}
	bindings := ic.Resolve(params)

	for name, bound := range bindings {
		c.pushTypeParam(name, bound)
	}
	var result types.TypeInfo
	if types.Compatible(extends, check, c.registry) {
		result = c.resolveType(t.True)
	} else {
		result = c.resolveType(t.False)
	}
	for name := range bindings {
		c.popTypeParam(name)
	}
	return result
}

func (c *Checker) resolveTypeRef(t *ast.TypeRef) types.TypeInfo {
	switch t.Name {
	case "number":
		return types.Number
	case "string":
		return types.String
	case "boolean":
		return types.Boolean
	case "void":
		return types.Void
	case "any":
		return types.Any
	case "unknown":
		return types.Unknown
	case "never":
		return types.Never
	case "null":
		return types.Null
	case "undefined":
		return types.Undefined
	case "symbol":
		return types.Symbol
	case "bigint":
		return types.BigInt
	case "object":
		return types.RecordType{}
	case "Array", "ReadonlyArray":
		if len(t.Args) == 1 {
			return types.ArrayType{Element: c.resolveType(t.Args[0])}
		}
	case "Promise":
		if len(t.Args) == 1 {
			return types.PromiseType{Elem: c.resolveType(t.Args[0])}
		}
	case "Record":
		if len(t.Args) == 2 {
			return types.ExpandRecord(c.resolveType(t.Args[0]), c.resolveType(t.Args[1]))
		}
	case "Partial":
		if len(t.Args) == 1 {
			return types.ExpandPartial(c.resolveType(t.Args[0]))
		}
	case "Required":
		if len(t.Args) == 1 {
			return types.ExpandRequired(c.resolveType(t.Args[0]))
		}
	case "Readonly":
		if len(t.Args) == 1 {
			return types.ExpandReadonly(c.resolveType(t.Args[0]))
		}
	case "Pick":
		if len(t.Args) == 2 {
			return types.ExpandPick(c.resolveType(t.Args[0]), c.resolveType(t.Args[1]))
		}
	case "Omit":
		if len(t.Args) == 2 {
			return types.ExpandOmit(c.resolveType(t.Args[0]), c.resolveType(t.Args[1]))
		}
	case "Uppercase", "Lowercase", "Capitalize", "Uncapitalize":
		if len(t.Args) == 1 {
			return c.resolveStringIntrinsic(t.Name, c.resolveType(t.Args[0]))
		}
	}

	if bound, ok := c.lookupTypeParam(t.Name); ok {
		return bound
	}
	if alias, ok := c.typeAliases[t.Name]; ok {
		return c.resolveAliasRef(alias, t.Args)
	}
	if id, ok := c.classNames[t.Name]; ok {
		return types.InstanceType{Class: id}
	}
	if iface, ok := c.interfaceTypes[t.Name]; ok {
		return iface
	}
	if enum, ok := c.enumTypes[t.Name]; ok {
		return enum
	}
	c.errorAt(t.Pos(), ErrUndefinedType, "cannot find name '%s'", t.Name)
	return types.Any
}

func (c *Checker) resolveStringIntrinsic(name string, operand types.TypeInfo) types.TypeInfo {
	lit, ok := operand.(types.StringLiteralType)
	if !ok {
		return types.String
	}
	var kind types.StringIntrinsicKind
	switch name {
	case "Uppercase":
		kind = types.IntrinsicUppercase
	case "Lowercase":
		kind = types.IntrinsicLowercase
	case "Capitalize":
		kind = types.IntrinsicCapitalize
	case "Uncapitalize":
		kind = types.IntrinsicUncapitalize
	}
	return types.StringLiteralType{Value: types.ApplyStringIntrinsic(kind, lit.Value)}
}

func (c *Checker) resolveAliasRef(alias *ast.TypeAliasDecl, args []ast.TypeExpr) types.TypeInfo {
	if len(alias.TypeParams) == 0 {
		return c.resolveType(alias.Value)
	}
	for i, tp := range alias.TypeParams {
		var bound types.TypeInfo
		if i < len(args) {
			bound = c.resolveType(args[i])
		} else if tp.Default != nil {
			bound = c.resolveType(tp.Default)
		} else {
			bound = types.Any
		}
		c.pushTypeParam(tp.Name, bound)
	}
	result := c.resolveType(alias.Value)
	for _, tp := range alias.TypeParams {
		c.popTypeParam(tp.Name)
	}
	return result
}
