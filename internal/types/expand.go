package types

// ExpandKeyOf computes `keyof t`. For object-like types the result is the
// union of declared property names (plus the index-signature key type, if
// any); for unions it is the intersection of each member's keys; for
// intersections it is the union; for a free type parameter it stays
// deferred as KeyOfType until substitution supplies a concrete operand.
func ExpandKeyOf(t TypeInfo) TypeInfo {
	if expanded, ok := TryExpandKeyOf(t); ok {
		return expanded
	}
	return KeyOfType{Operand: t}
}

// TryExpandKeyOf returns (expansion, true) when t is concrete enough to
// expand eagerly, or (nil, false) when it must stay deferred.
func TryExpandKeyOf(t TypeInfo) (TypeInfo, bool) {
	switch v := t.(type) {
	case TypeParameterType:
		return nil, false
	case UnionType:
		var sets [][]TypeInfo
		for _, m := range v.Types {
			exp, ok := TryExpandKeyOf(m)
			if !ok {
				return nil, false
			}
			sets = append(sets, unionMembers(exp))
		}
		return NewUnion(intersectAllKeySets(sets)...), true
	case IntersectionType:
		var all []TypeInfo
		for _, m := range v.Types {
			exp, ok := TryExpandKeyOf(m)
			if !ok {
				return nil, false
			}
			all = append(all, unionMembers(exp)...)
		}
		return NewUnion(all...), true
	case RecordType, InterfaceType:
		props := membersOf(v)
		keys := make([]TypeInfo, len(props))
		for i, p := range props {
			keys[i] = StringLiteralType{Value: p.Name}
		}
		strIdx, numIdx, _ := indicesOf(v)
		if strIdx != nil {
			keys = append(keys, String)
		}
		if numIdx != nil {
			keys = append(keys, Number)
		}
		return NewUnion(keys...), true
	case InstanceType, ClassType:
		return nil, false // class members are not expanded; keyof a class type stays deferred
	default:
		return nil, false
	}
}

func unionMembers(t TypeInfo) []TypeInfo {
	if u, ok := t.(UnionType); ok {
		return u.Types
	}
	return []TypeInfo{t}
}

func intersectAllKeySets(sets [][]TypeInfo) []TypeInfo {
	if len(sets) == 0 {
		return nil
	}
	result := sets[0]
	for _, s := range sets[1:] {
		var next []TypeInfo
		for _, a := range result {
			for _, b := range s {
				if TypesEqual(a, b) {
					next = append(next, a)
					break
				}
			}
		}
		result = next
	}
	return result
}

// ExpandIndexedAccess computes `obj[index]` per spec.md §4.1: a literal key
// returns the member type; a union of literal keys returns the union of
// member types; a string or number key type returns the matching index
// signature's type. A symbol key type stays deferred.
func ExpandIndexedAccess(obj, index TypeInfo) TypeInfo {
	if expanded, ok := TryExpandIndexedAccess(obj, index); ok {
		return expanded
	}
	return IndexedAccessType{Object: obj, Index: index}
}

func TryExpandIndexedAccess(obj, index TypeInfo) (TypeInfo, bool) {
	if u, ok := index.(UnionType); ok {
		var results []TypeInfo
		for _, m := range u.Types {
			r, ok := TryExpandIndexedAccess(obj, m)
			if !ok {
				return nil, false
			}
			results = append(results, r)
		}
		return NewUnion(results...), true
	}
	switch key := index.(type) {
	case StringLiteralType:
		props := membersOf(obj)
		for _, p := range props {
			if p.Name == key.Value {
				return p.Type, true
			}
		}
		strIdx, _, _ := indicesOf(obj)
		if strIdx != nil {
			return strIdx.ValType, true
		}
		return Never, true
	case NumberLiteralType:
		if arr, ok := obj.(ArrayType); ok {
			return arr.Element, true
		}
		if tup, ok := obj.(TupleType); ok {
			i := int(key.Value)
			if i >= 0 && i < len(tup.Elements) {
				return tup.Elements[i], true
			}
		}
		_, numIdx, _ := indicesOf(obj)
		if numIdx != nil {
			return numIdx.ValType, true
		}
		return Never, true
	case primitive:
		switch key.kind {
		case KindString:
			_, _, _ = obj, index, key
			if strIdx, _, _ := indicesOf(obj); strIdx != nil {
				return strIdx.ValType, true
			}
		case KindNumber:
			if arr, ok := obj.(ArrayType); ok {
				return arr.Element, true
			}
			if _, numIdx, _ := indicesOf(obj); numIdx != nil {
				return numIdx.ValType, true
			}
		}
		return nil, false
	}
	return nil, false
}

// ExpandMapped expands `{ [P in C]: V }` by iterating the keys of C,
// substituting P with each key in V, and collecting the results into a new
// RecordType. Key remapping via an `as` clause substitutes P with the
// current key in the clause; a Never result filters the key out; a
// StringLiteralType result renames it. Intrinsic string transforms
// (Uppercase/Lowercase/Capitalize/Uncapitalize) are resolved in
// internal/typecheck, which calls ApplyStringIntrinsic only when the
// argument is already a string literal; applied to the mapped parameter
// itself in an `as` clause, one resolves to string and the key is kept.
func ExpandMapped(m MappedTypeType, bindings Bindings) TypeInfo {
	constraint := Substitute(m.Constraint, bindings)
	if expanded, ok := TryExpandMapped(m, bindings, constraint); ok {
		return expanded
	}
	return MappedTypeType{Param: m.Param, Constraint: constraint, ValueType: m.ValueType, OptMod: m.OptMod, ReadonlyMod: m.ReadonlyMod, As: m.As}
}

func TryExpandMapped(m MappedTypeType, bindings Bindings, constraint TypeInfo) (TypeInfo, bool) {
	keys, ok := concreteKeyUnion(constraint)
	if !ok {
		return nil, false
	}
	var fields []PropertyInfo
	for _, k := range keys {
		keyBindings := cloneBindings(bindings)
		keyBindings[m.Param] = k
		valueType := Substitute(m.ValueType, keyBindings)

		name, isLiteral := literalKeyName(k)
		if !isLiteral {
			continue
		}
		if m.As != nil {
			remapped := Substitute(m.As, keyBindings)
			if remapped.Kind() == KindNever {
				continue
			}
			if lit, ok := remapped.(StringLiteralType); ok {
				name = lit.Value
			}
		}
		optional := false
		readonly := false
		switch m.OptMod {
		case ModAddOptional:
			optional = true
		case ModRemoveOptional:
			optional = false
		}
		switch m.ReadonlyMod {
		case ModAddReadonly:
			readonly = true
		case ModRemoveReadonly:
			readonly = false
		}
		fields = append(fields, PropertyInfo{Name: name, Type: valueType, Optional: optional, Readonly: readonly})
	}
	return RecordType{Fields: fields}, true
}

func concreteKeyUnion(t TypeInfo) ([]TypeInfo, bool) {
	switch t.Kind() {
	case KindTypeParameter, KindKeyOf, KindIndexedAccess:
		return nil, false
	case KindUnion:
		return t.(UnionType).Types, true
	default:
		return []TypeInfo{t}, true
	}
}

func literalKeyName(t TypeInfo) (string, bool) {
	switch v := t.(type) {
	case StringLiteralType:
		return v.Value, true
	case NumberLiteralType:
		return v.String(), true
	}
	return "", false
}

func cloneBindings(b Bindings) Bindings {
	out := make(Bindings, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// StringIntrinsicKind names one of TypeScript's built-in string-literal
// transforms, which ApplyStringIntrinsic applies. Grounded on the
// teacher's own locale-correct string transforms
// (internal/interp/string_helpers.go), these go through golang.org/x/text
// rather than strings.ToUpper/ToLower. The interpreter's runtime
// toUpperCase/toLowerCase builtins use strings.ToUpper/ToLower, so the two
// can differ on text whose case mapping changes its length (e.g. "ß").
type StringIntrinsicKind int

const (
	IntrinsicUppercase StringIntrinsicKind = iota
	IntrinsicLowercase
	IntrinsicCapitalize
	IntrinsicUncapitalize
)

func ApplyStringIntrinsic(kind StringIntrinsicKind, s string) string {
	switch kind {
	case IntrinsicUppercase:
		return toUpperLocale(s)
	case IntrinsicLowercase:
		return toLowerLocale(s)
	case IntrinsicCapitalize:
		if s == "" {
			return s
		}
		r := []rune(s)
		return toUpperLocale(string(r[0])) + string(r[1:])
	case IntrinsicUncapitalize:
		if s == "" {
			return s
		}
		r := []rune(s)
		return toLowerLocale(string(r[0])) + string(r[1:])
	}
	return s
}

// --- Utility types: Partial, Required, Readonly, Record<K,V>, Pick, Omit ---
//
// Each has an eager expansion when the source type is concrete and a lazy
// mapped-type fallback when it contains a free type parameter, per
// spec.md §4.1; Omit with a deferred key set keeps every member instead.

func ExpandPartial(src TypeInfo) TypeInfo {
	return mapObjectProps(src, func(p PropertyInfo) PropertyInfo { p.Optional = true; return p })
}

func ExpandRequired(src TypeInfo) TypeInfo {
	return mapObjectProps(src, func(p PropertyInfo) PropertyInfo { p.Optional = false; return p })
}

func ExpandReadonly(src TypeInfo) TypeInfo {
	return mapObjectProps(src, func(p PropertyInfo) PropertyInfo { p.Readonly = true; return p })
}

func mapObjectProps(src TypeInfo, f func(PropertyInfo) PropertyInfo) TypeInfo {
	props := membersOf(src)
	if props == nil {
		return MappedTypeType{Param: "K", Constraint: ExpandKeyOf(src), ValueType: IndexedAccessType{Object: src, Index: TypeParameterType{Name: "K"}}}
	}
	out := make([]PropertyInfo, len(props))
	for i, p := range props {
		out[i] = f(p)
	}
	return RecordType{Fields: out}
}

// ExpandRecord is `Record<K, V>`: an object type with an index signature
// when K is String/Number, or one field per literal in K otherwise.
func ExpandRecord(keys, value TypeInfo) TypeInfo {
	if keys.Kind() == KindTypeParameter {
		return MappedTypeType{Param: "K", Constraint: keys, ValueType: value}
	}
	members, ok := concreteKeyUnion(keys)
	if !ok {
		return MappedTypeType{Param: "K", Constraint: keys, ValueType: value}
	}
	var fields []PropertyInfo
	for _, k := range members {
		if name, ok := literalKeyName(k); ok {
			fields = append(fields, PropertyInfo{Name: name, Type: value})
			continue
		}
		switch k.Kind() {
		case KindString:
			return RecordType{StringIndex: &IndexSignature{KeyType: String, ValType: value}}
		case KindNumber:
			return RecordType{NumberIndex: &IndexSignature{KeyType: Number, ValType: value}}
		}
	}
	return RecordType{Fields: fields}
}

func ExpandPick(src, keys TypeInfo) TypeInfo {
	names, ok := concreteKeyUnion(keys)
	if !ok {
		return MappedTypeType{Param: "K", Constraint: keys, ValueType: IndexedAccessType{Object: src, Index: TypeParameterType{Name: "K"}}}
	}
	wanted := map[string]bool{}
	for _, k := range names {
		if n, ok := literalKeyName(k); ok {
			wanted[n] = true
		}
	}
	var fields []PropertyInfo
	for _, p := range membersOf(src) {
		if wanted[p.Name] {
			fields = append(fields, p)
		}
	}
	return RecordType{Fields: fields}
}

func ExpandOmit(src, keys TypeInfo) TypeInfo {
	names, ok := concreteKeyUnion(keys)
	if !ok {
		return RecordType{Fields: membersOf(src)} // best-effort: omit deferred, keep all
	}
	excluded := map[string]bool{}
	for _, k := range names {
		if n, ok := literalKeyName(k); ok {
			excluded[n] = true
		}
	}
	var fields []PropertyInfo
	for _, p := range membersOf(src) {
		if !excluded[p.Name] {
			fields = append(fields, p)
		}
	}
	return RecordType{Fields: fields}
}
