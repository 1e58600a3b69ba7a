package types

// NewUnion builds a UnionType (or a simpler TypeInfo) honoring spec.md §3
// invariant (a): flattened, deduplicated, a one-element union collapses to
// that element, an empty union is Never.
func NewUnion(members ...TypeInfo) TypeInfo {
	flat := flattenUnion(members)
	deduped := dedupe(flat)
	switch len(deduped) {
	case 0:
		return Never
	case 1:
		return deduped[0]
	default:
		return UnionType{Types: deduped}
	}
}

func flattenUnion(members []TypeInfo) []TypeInfo {
	var out []TypeInfo
	for _, m := range members {
		if m == nil {
			continue
		}
		if u, ok := m.(UnionType); ok {
			out = append(out, flattenUnion(u.Types)...)
			continue
		}
		out = append(out, m)
	}
	return out
}

func dedupe(members []TypeInfo) []TypeInfo {
	var out []TypeInfo
	for _, m := range members {
		dup := false
		for _, o := range out {
			if TypesEqual(m, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}

// NewIntersection builds an IntersectionType honoring invariant (b):
// flattened; Never absorbs; Any absorbs; Unknown is the identity; two
// distinct primitives collapse to Never; object types structurally merge.
func NewIntersection(members ...TypeInfo) TypeInfo {
	flat := flattenIntersection(members)

	var kept []TypeInfo
	for _, m := range flat {
		switch m.Kind() {
		case KindNever:
			return Never
		case KindAny:
			return Any
		case KindUnknown:
			continue // identity element, drop it
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return Unknown
	}
	if len(kept) == 1 {
		return kept[0]
	}

	// Object-like members merge into one RecordType; everything else must
	// pairwise-agree or the whole intersection collapses to Never.
	merged, objects, scalars := splitForIntersection(kept)
	if merged != nil {
		scalars = append(scalars, *merged)
	}
	result := dedupe(scalars)
	baseKind := func(k Kind) Kind {
		switch k {
		case KindNumberLiteral:
			return KindNumber
		case KindStringLiteral:
			return KindString
		case KindBooleanLiteral:
			return KindBoolean
		}
		return k
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			ki, kj := result[i].Kind(), result[j].Kind()
			if !isPrimitiveKind(ki) || !isPrimitiveKind(kj) {
				continue
			}
			if baseKind(ki) != baseKind(kj) || (ki == kj && !TypesEqual(result[i], result[j])) {
				return Never
			}
		}
	}
	_ = objects
	if len(result) == 1 {
		return result[0]
	}
	return IntersectionType{Types: result}
}

func flattenIntersection(members []TypeInfo) []TypeInfo {
	var out []TypeInfo
	for _, m := range members {
		if m == nil {
			continue
		}
		if it, ok := m.(IntersectionType); ok {
			out = append(out, flattenIntersection(it.Types)...)
			continue
		}
		out = append(out, m)
	}
	return out
}

func isObjectLike(t TypeInfo) bool {
	switch t.Kind() {
	case KindRecord, KindInterface:
		return true
	}
	return false
}

func isPrimitiveKind(k Kind) bool {
	switch k {
	case KindNumber, KindString, KindBoolean, KindNull, KindUndefined, KindVoid,
		KindSymbol, KindBigInt, KindNumberLiteral, KindStringLiteral, KindBooleanLiteral:
		return true
	}
	return false
}

// splitForIntersection merges every object-like member's fields into one
// RecordType (a conflicting property becomes Never at that key, per §3(b)),
// returning the merged record (nil if there were no object-like members)
// plus the list of object-like inputs consumed and the remaining scalars.
func splitForIntersection(members []TypeInfo) (merged *RecordType, objects, scalars []TypeInfo) {
	fieldsByName := map[string]PropertyInfo{}
	var order []string
	haveObject := false
	for _, m := range members {
		if !isObjectLike(m) {
			scalars = append(scalars, m)
			continue
		}
		haveObject = true
		objects = append(objects, m)
		for _, f := range membersOf(m) {
			if existing, ok := fieldsByName[f.Name]; ok {
				if !TypesEqual(existing.Type, f.Type) {
					fieldsByName[f.Name] = PropertyInfo{Name: f.Name, Type: Never, Optional: existing.Optional && f.Optional}
				}
				continue
			}
			fieldsByName[f.Name] = f
			order = append(order, f.Name)
		}
	}
	if !haveObject {
		return nil, nil, scalars
	}
	fields := make([]PropertyInfo, 0, len(order))
	for _, name := range order {
		fields = append(fields, fieldsByName[name])
	}
	r := RecordType{Fields: fields}
	return &r, objects, scalars
}

// TypesEqual is structural equality, used by normalization's dedup step and
// by Compatible's literal/primitive-equality cases. It is intentionally
// stricter than Compatible in both directions: TypesEqual(A,B) implies
// Compatible(A,B) && Compatible(B,A), but not conversely (e.g. a literal
// equals only the identical literal, while it is still compatible *to* its
// widened primitive).
func TypesEqual(a, b TypeInfo) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberLiteralType:
		return av.Value == b.(NumberLiteralType).Value
	case StringLiteralType:
		return av.Value == b.(StringLiteralType).Value
	case BooleanLiteralType:
		return av.Value == b.(BooleanLiteralType).Value
	case ArrayType:
		return TypesEqual(av.Element, b.(ArrayType).Element)
	case PromiseType:
		return TypesEqual(av.Elem, b.(PromiseType).Elem)
	case GeneratorType:
		return TypesEqual(av.Elem, b.(GeneratorType).Elem)
	case AsyncGeneratorType:
		return TypesEqual(av.Elem, b.(AsyncGeneratorType).Elem)
	case InstanceType:
		return av.Class == b.(InstanceType).Class
	case EnumType:
		return av.ID == b.(EnumType).ID
	case ClassType:
		return av.ID == b.(ClassType).ID
	case TypeParameterType:
		return av.Name == b.(TypeParameterType).Name
	case UnionType:
		bv := b.(UnionType)
		if len(av.Types) != len(bv.Types) {
			return false
		}
		return sameSetOf(av.Types, bv.Types)
	case IntersectionType:
		bv := b.(IntersectionType)
		if len(av.Types) != len(bv.Types) {
			return false
		}
		return sameSetOf(av.Types, bv.Types)
	case FunctionType:
		bv := b.(FunctionType)
		if len(av.ParamTypes) != len(bv.ParamTypes) || av.HasRest != bv.HasRest {
			return false
		}
		for i := range av.ParamTypes {
			if !TypesEqual(av.ParamTypes[i], bv.ParamTypes[i]) {
				return false
			}
		}
		return TypesEqual(av.ReturnType, bv.ReturnType)
	case InstantiatedGenericType:
		bv := b.(InstantiatedGenericType)
		if av.Def != bv.Def || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !TypesEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		// Primitives and every other variant: Kind equality already holds.
		return a.String() == b.String()
	}
}

func sameSetOf(a, b []TypeInfo) bool {
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && TypesEqual(x, y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
