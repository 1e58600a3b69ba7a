package types

// Bindings maps a type parameter name to its bound concrete type.
type Bindings map[string]TypeInfo

// Substitute recursively replaces every TypeParameterType leaf found in t
// according to bindings. Every composite TypeInfo kind is traversed here;
// per spec.md §4.1, failing to traverse a kind would leak unresolved type
// parameters into runtime compatibility checks, so adding a new TypeInfo
// variant to this package means adding a case here too.
func Substitute(t TypeInfo, bindings Bindings) TypeInfo {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case TypeParameterType:
		if bound, ok := bindings[v.Name]; ok {
			return bound
		}
		return v
	case ArrayType:
		return ArrayType{Element: Substitute(v.Element, bindings)}
	case TupleType:
		elems := make([]TypeInfo, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = Substitute(e, bindings)
		}
		rest := v.Rest
		if rest != nil {
			rest = Substitute(rest, bindings)
		}
		return TupleType{Elements: elems, Optional: v.Optional, RequiredCount: v.RequiredCount, Rest: rest}
	case RecordType:
		return RecordType{
			Fields:      substituteProps(v.Fields, bindings),
			StringIndex: substituteIndex(v.StringIndex, bindings),
			NumberIndex: substituteIndex(v.NumberIndex, bindings),
			SymbolIndex: substituteIndex(v.SymbolIndex, bindings),
		}
	case InterfaceType:
		v.Members = substituteProps(v.Members, bindings)
		return v
	case FunctionType:
		params := make([]TypeInfo, len(v.ParamTypes))
		for i, p := range v.ParamTypes {
			params[i] = Substitute(p, bindings)
		}
		return FunctionType{ParamTypes: params, ReturnType: Substitute(v.ReturnType, bindings), RequiredCount: v.RequiredCount, HasRest: v.HasRest}
	case UnionType:
		members := make([]TypeInfo, len(v.Types))
		for i, m := range v.Types {
			members[i] = Substitute(m, bindings)
		}
		return NewUnion(members...)
	case IntersectionType:
		members := make([]TypeInfo, len(v.Types))
		for i, m := range v.Types {
			members[i] = Substitute(m, bindings)
		}
		return NewIntersection(members...)
	case PromiseType:
		return PromiseType{Elem: Substitute(v.Elem, bindings)}
	case GeneratorType:
		return GeneratorType{Elem: Substitute(v.Elem, bindings)}
	case AsyncGeneratorType:
		return AsyncGeneratorType{Elem: Substitute(v.Elem, bindings)}
	case InstantiatedGenericType:
		args := make([]TypeInfo, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, bindings)
		}
		return InstantiatedGenericType{Def: v.Def, DefKind: v.DefKind, Args: args}
	case KeyOfType:
		resolved := Substitute(v.Operand, bindings)
		if expanded, ok := TryExpandKeyOf(resolved); ok {
			return expanded
		}
		return KeyOfType{Operand: resolved}
	case IndexedAccessType:
		obj := Substitute(v.Object, bindings)
		idx := Substitute(v.Index, bindings)
		if expanded, ok := TryExpandIndexedAccess(obj, idx); ok {
			return expanded
		}
		return IndexedAccessType{Object: obj, Index: idx}
	case MappedTypeType:
		constraint := Substitute(v.Constraint, bindings)
		if expanded, ok := TryExpandMapped(v, bindings, constraint); ok {
			return expanded
		}
		return MappedTypeType{Param: v.Param, Constraint: constraint, ValueType: v.ValueType, OptMod: v.OptMod, ReadonlyMod: v.ReadonlyMod, As: v.As}
	default:
		// Primitives, literals, ClassType/InstanceType/EnumType (nominal —
		// no type-parameter leaves of their own to substitute into).
		return t
	}
}

func substituteProps(props []PropertyInfo, bindings Bindings) []PropertyInfo {
	out := make([]PropertyInfo, len(props))
	for i, p := range props {
		out[i] = PropertyInfo{Name: p.Name, Type: Substitute(p.Type, bindings), Optional: p.Optional, Readonly: p.Readonly}
	}
	return out
}

func substituteIndex(idx *IndexSignature, bindings Bindings) *IndexSignature {
	if idx == nil {
		return nil
	}
	return &IndexSignature{KeyType: idx.KeyType, ValType: Substitute(idx.ValType, bindings)}
}
