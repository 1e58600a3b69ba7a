package types

// Registry is threaded through Compatible so InstanceType/ClassType
// lookups (superclass chains, interface implementation lists) can resolve
// without a package-level global. Pass nil to fall back to GlobalRegistry
// (used by tests and by CLI subcommands that never construct a checker).
type compatCtx struct {
	reg *Registry
}

func (c compatCtx) registry() *Registry {
	if c.reg != nil {
		return c.reg
	}
	return GlobalRegistry
}

// Compatible reports whether a value of type source is assignable to a
// binding of type target — `target ← source` in spec.md §4.1's notation.
// reg resolves nominal IDs (class hierarchy, interface lists); pass nil to
// use the package-level GlobalRegistry.
func Compatible(target, source TypeInfo, reg *Registry) bool {
	ctx := compatCtx{reg: reg}
	return compatible(target, source, ctx, map[pairKey]bool{})
}

type pairKey struct{ t, s TypeInfo }

// compatible recurses with a visited-pairs set to guard against infinite
// recursion on self-referential interfaces/generic instantiations.
func compatible(target, source TypeInfo, ctx compatCtx, seen map[pairKey]bool) bool {
	key := pairKey{target, source}
	if seen[key] {
		return true // co-inductive: assume compatible until proven otherwise
	}
	seen[key] = true

	switch target.Kind() {
	case KindAny:
		return true
	case KindUnknown:
		return true
	case KindNever:
		return source.Kind() == KindNever
	}
	switch source.Kind() {
	case KindAny:
		return true
	case KindUnknown:
		return target.Kind() == KindAny || target.Kind() == KindUnknown
	case KindNever:
		return true
	}

	// Union source: T ← U1|U2|... iff T ← Ui for all i.
	if u, ok := source.(UnionType); ok {
		for _, m := range u.Types {
			if !compatible(target, m, ctx, seen) {
				return false
			}
		}
		return true
	}
	// Union target: U1|U2|... ← S iff exists i with Ui ← S.
	if u, ok := target.(UnionType); ok {
		for _, m := range u.Types {
			if compatible(m, source, ctx, seen) {
				return true
			}
		}
		return false
	}
	// Intersection target: A&B ← S iff A ← S and B ← S.
	if it, ok := target.(IntersectionType); ok {
		for _, m := range it.Types {
			if !compatible(m, source, ctx, seen) {
				return false
			}
		}
		return true
	}
	// Intersection source: T ← A&B iff T ← A or T ← B.
	if it, ok := source.(IntersectionType); ok {
		for _, m := range it.Types {
			if compatible(target, m, ctx, seen) {
				return true
			}
		}
		return false
	}

	switch t := target.(type) {
	case primitive:
		return compatiblePrimitiveTarget(t, source)
	case NumberLiteralType:
		s, ok := source.(NumberLiteralType)
		return ok && s.Value == t.Value
	case StringLiteralType:
		s, ok := source.(StringLiteralType)
		return ok && s.Value == t.Value
	case BooleanLiteralType:
		s, ok := source.(BooleanLiteralType)
		return ok && s.Value == t.Value
	case ArrayType:
		return compatArray(t, source, ctx, seen)
	case TupleType:
		return compatTuple(t, source, ctx, seen)
	case RecordType:
		return compatObjectTarget(recordAsProps(t), source, ctx, seen)
	case InterfaceType:
		return compatObjectTarget(PropInfoFrom(t), source, ctx, seen)
	case FunctionType:
		s, ok := asFunction(source)
		if !ok {
			return false
		}
		return compatFunction(t, s, ctx, seen)
	case PromiseType:
		s, ok := source.(PromiseType)
		return ok && compatible(t.Elem, s.Elem, ctx, seen)
	case GeneratorType:
		s, ok := source.(GeneratorType)
		return ok && compatible(t.Elem, s.Elem, ctx, seen)
	case AsyncGeneratorType:
		s, ok := source.(AsyncGeneratorType)
		return ok && compatible(t.Elem, s.Elem, ctx, seen)
	case InstanceType:
		s, ok := source.(InstanceType)
		if !ok {
			return false
		}
		return s.Class == t.Class || ctx.registry().IsSubclass(s.Class, t.Class) || implementsInterface(ctx, s.Class, t.Class)
	case EnumType:
		s, ok := source.(EnumType)
		return ok && s.ID == t.ID
	case TypeParameterType:
		s, ok := source.(TypeParameterType)
		if ok && s.Name == t.Name {
			return true
		}
		if t.Constraint != nil {
			return compatible(t.Constraint, source, ctx, seen)
		}
		return false
	case InstantiatedGenericType:
		s, ok := source.(InstantiatedGenericType)
		if !ok || s.Def != t.Def || len(s.Args) != len(t.Args) {
			return false
		}
		for i := range t.Args {
			// invariant by default (spec.md §4.1)
			if !compatible(t.Args[i], s.Args[i], ctx, seen) || !compatible(s.Args[i], t.Args[i], ctx, seen) {
				return false
			}
		}
		return true
	}
	return TypesEqual(target, source)
}

func compatiblePrimitiveTarget(t primitive, source TypeInfo) bool {
	switch t.kind {
	case KindNumber:
		return source.Kind() == KindNumber || source.Kind() == KindNumberLiteral
	case KindString:
		return source.Kind() == KindString || source.Kind() == KindStringLiteral
	case KindBoolean:
		return source.Kind() == KindBoolean || source.Kind() == KindBooleanLiteral
	default:
		return source.Kind() == t.kind
	}
}

func compatArray(t ArrayType, source TypeInfo, ctx compatCtx, seen map[pairKey]bool) bool {
	switch s := source.(type) {
	case ArrayType:
		return compatible(t.Element, s.Element, ctx, seen)
	case TupleType:
		// "Tuples and arrays are compatible when the array element type is
		// a supertype of every tuple element type."
		for _, e := range s.Elements {
			if !compatible(t.Element, e, ctx, seen) {
				return false
			}
		}
		if s.Rest != nil {
			return compatible(t.Element, s.Rest, ctx, seen)
		}
		return true
	}
	return false
}

func compatTuple(t TupleType, source TypeInfo, ctx compatCtx, seen map[pairKey]bool) bool {
	s, ok := source.(TupleType)
	if !ok {
		return false
	}
	if t.RequiredCount != s.RequiredCount || len(t.Elements) != len(s.Elements) {
		return false
	}
	for i := range t.Elements {
		if !compatible(t.Elements[i], s.Elements[i], ctx, seen) {
			return false
		}
	}
	if (t.Rest == nil) != (s.Rest == nil) {
		return false
	}
	if t.Rest != nil {
		return compatible(t.Rest, s.Rest, ctx, seen)
	}
	return true
}

func recordAsProps(t RecordType) []PropertyInfo { return t.Fields }
func PropInfoFrom(t InterfaceType) []PropertyInfo { return t.AllMembers() }

// compatObjectTarget implements the object-like compatibility rule: every
// required member of target must be present and compatible in source;
// optional members need only be compatible when present. Excess-property
// checking is handled separately by the checker against a *direct* object
// literal — Compatible alone never rejects on excess properties (the
// "values stored in variables...may have excess properties" carve-out in
// spec.md §4.1).
func compatObjectTarget(targetProps []PropertyInfo, source TypeInfo, ctx compatCtx, seen map[pairKey]bool) bool {
	sourceProps := membersOf(source)
	if sourceProps == nil {
		if s, ok := source.(InstanceType); ok {
			if def, ok2 := ctx.registry().Class(s.Class); ok2 {
				sourceProps = append(append([]PropertyInfo{}, def.Fields...), methodProps(def)...)
			}
		}
	}
	bySource := map[string]PropertyInfo{}
	for _, p := range sourceProps {
		bySource[p.Name] = p
	}
	for _, tp := range targetProps {
		sp, ok := bySource[tp.Name]
		if !ok {
			if tp.Optional {
				continue
			}
			return false
		}
		if !compatible(tp.Type, sp.Type, ctx, seen) {
			return false
		}
	}
	return true
}

func methodProps(c ClassType) []PropertyInfo {
	var out []PropertyInfo
	for name, m := range c.Methods {
		out = append(out, PropertyInfo{Name: name, Type: m})
	}
	return out
}

func asFunction(t TypeInfo) (FunctionType, bool) {
	f, ok := t.(FunctionType)
	return f, ok
}

// compatFunction: parameters are contravariant, return type covariant,
// source may require no more parameters than target does, and a source
// rest parameter's element type is checked against every target parameter
// from its position on, so it accepts a tail of any length.
func compatFunction(target, source FunctionType, ctx compatCtx, seen map[pairKey]bool) bool {
	if source.RequiredCount > target.RequiredCount {
		return false
	}
	if !compatible(target.ReturnType, source.ReturnType, ctx, seen) {
		return false
	}
	n := len(target.ParamTypes)
	if len(source.ParamTypes) < n && !source.HasRest {
		n = len(source.ParamTypes)
	}
	for i := 0; i < n; i++ {
		si := i
		if si >= len(source.ParamTypes) {
			si = len(source.ParamTypes) - 1
		}
		sp := source.ParamTypes[si]
		targetRest := target.HasRest && i == len(target.ParamTypes)-1
		if source.HasRest && si == len(source.ParamTypes)-1 && !targetRest {
			if arr, ok := sp.(ArrayType); ok {
				sp = arr.Element
			}
		}
		// contravariant: source param (supertype) accepts target param (subtype)
		if !compatible(sp, target.ParamTypes[i], ctx, seen) {
			return false
		}
	}
	return true
}

func implementsInterface(ctx compatCtx, classID, interfaceClassID ID) bool {
	def, ok := ctx.registry().Class(classID)
	if !ok {
		return false
	}
	for _, iid := range def.Interfaces {
		if iid == interfaceClassID {
			return true
		}
	}
	if def.Super != nil {
		return implementsInterface(ctx, *def.Super, interfaceClassID)
	}
	return false
}
