package types

// Widen computes the widened type of t per spec.md §4.1: a `let`/`var`
// binding (or any mutable location) initialized from a literal expression
// is given the literal's base primitive type unless an explicit type
// annotation pins it to the literal itself. Widening recurses into
// composite types so e.g. `let xs = [1, "a"]`, checked as `(1 | "a")[]`,
// widens to `(number | string)[]`, and a tuple `[1, "a"]` widens to
// `[number, string]`.
func Widen(t TypeInfo) TypeInfo {
	switch v := t.(type) {
	case NumberLiteralType:
		return Number
	case StringLiteralType:
		return String
	case BooleanLiteralType:
		return Boolean
	case ArrayType:
		return ArrayType{Element: Widen(v.Element)}
	case TupleType:
		elems := make([]TypeInfo, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = Widen(e)
		}
		rest := v.Rest
		if rest != nil {
			rest = Widen(rest)
		}
		return TupleType{Elements: elems, Optional: v.Optional, RequiredCount: v.RequiredCount, Rest: rest}
	case RecordType:
		fields := make([]PropertyInfo, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = PropertyInfo{Name: f.Name, Type: Widen(f.Type), Optional: f.Optional, Readonly: f.Readonly}
		}
		return RecordType{Fields: fields, StringIndex: v.StringIndex, NumberIndex: v.NumberIndex, SymbolIndex: v.SymbolIndex}
	case UnionType:
		members := make([]TypeInfo, len(v.Types))
		for i, m := range v.Types {
			members[i] = Widen(m)
		}
		return NewUnion(members...)
	case PromiseType:
		return PromiseType{Elem: Widen(v.Elem)}
	default:
		return t
	}
}

// WidenForDeclaration is the entry point for a `let`/`var` declarator
// without an explicit type annotation: the checker calls Widen only when
// there is no annotation pinning the literal type in place, and never
// widens a `const` declarator (spec.md §4.1's literal-widening carve-out
// for `const x = 1` staying typed `1`, not `number`).
func WidenForDeclaration(inferred TypeInfo, isConst bool) TypeInfo {
	if isConst {
		return inferred
	}
	return Widen(inferred)
}
