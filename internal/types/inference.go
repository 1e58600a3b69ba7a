package types

// InferenceContext performs generic type-argument inference via unification: given a
// parameter type that may mention type parameters and the concrete
// argument type supplied at a call site, it walks both structures in
// lockstep and records a candidate binding for each type parameter it
// encounters. Conflicting candidates for the same parameter widen to
// their union rather than erroring — spec.md §4.1 leaves overload
// resolution out of scope, so unification never fails outright, it only
// produces a worse (wider) binding.
type InferenceContext struct {
	candidates map[string][]TypeInfo
}

func NewInferenceContext() *InferenceContext {
	return &InferenceContext{candidates: map[string][]TypeInfo{}}
}

// Unify records candidate bindings by matching param (containing
// TypeParameterType leaves) against arg (a concrete type).
func (ic *InferenceContext) Unify(param, arg TypeInfo) {
	if param == nil || arg == nil {
		return
	}
	switch p := param.(type) {
	case TypeParameterType:
		ic.candidates[p.Name] = append(ic.candidates[p.Name], arg)
		return
	case ArrayType:
		if a, ok := arg.(ArrayType); ok {
			ic.Unify(p.Element, a.Element)
		}
		return
	case TupleType:
		if a, ok := arg.(TupleType); ok {
			n := len(p.Elements)
			if len(a.Elements) < n {
				n = len(a.Elements)
			}
			for i := 0; i < n; i++ {
				ic.Unify(p.Elements[i], a.Elements[i])
			}
		}
		return
	case FunctionType:
		if a, ok := arg.(FunctionType); ok {
			n := len(p.ParamTypes)
			if len(a.ParamTypes) < n {
				n = len(a.ParamTypes)
			}
			for i := 0; i < n; i++ {
				ic.Unify(p.ParamTypes[i], a.ParamTypes[i])
			}
			ic.Unify(p.ReturnType, a.ReturnType)
		}
		return
	case PromiseType:
		if a, ok := arg.(PromiseType); ok {
			ic.Unify(p.Elem, a.Elem)
		}
		return
	case GeneratorType:
		if a, ok := arg.(GeneratorType); ok {
			ic.Unify(p.Elem, a.Elem)
		}
		return
	case AsyncGeneratorType:
		if a, ok := arg.(AsyncGeneratorType); ok {
			ic.Unify(p.Elem, a.Elem)
		}
		return
	case RecordType:
		props := membersOf(arg)
		byName := map[string]PropertyInfo{}
		for _, m := range props {
			byName[m.Name] = m
		}
		for _, pf := range p.Fields {
			if af, ok := byName[pf.Name]; ok {
				ic.Unify(pf.Type, af.Type)
			}
		}
		return
	case InterfaceType:
		props := membersOf(arg)
		byName := map[string]PropertyInfo{}
		for _, m := range props {
			byName[m.Name] = m
		}
		for _, pf := range p.AllMembers() {
			if af, ok := byName[pf.Name]; ok {
				ic.Unify(pf.Type, af.Type)
			}
		}
		return
	case UnionType:
		// A bare type parameter inside a union parameter position is rare
		// in practice (call-site inference only fires on direct or
		// single-level-nested positions); match each member against the
		// whole argument so at least a direct `T | undefined` parameter
		// against a concrete T argument still infers T.
		for _, m := range p.Types {
			ic.Unify(m, arg)
		}
		return
	case InstantiatedGenericType:
		if a, ok := arg.(InstantiatedGenericType); ok && a.Def == p.Def {
			n := len(p.Args)
			if len(a.Args) < n {
				n = len(a.Args)
			}
			for i := 0; i < n; i++ {
				ic.Unify(p.Args[i], a.Args[i])
			}
		}
		return
	}
}

// Resolve finalizes bindings: a parameter with multiple candidates widens
// to their union; a parameter with no candidate falls back to its
// declared constraint, or Any if unconstrained, per spec.md §4.1's
// "absent bindings default to constraint-or-Any" resolution rule.
func (ic *InferenceContext) Resolve(params []TypeParameterType) Bindings {
	out := make(Bindings, len(params))
	for _, p := range params {
		cands := ic.candidates[p.Name]
		switch {
		case len(cands) == 1:
			out[p.Name] = cands[0]
		case len(cands) > 1:
			out[p.Name] = NewUnion(cands...)
		case p.Constraint != nil:
			out[p.Name] = p.Constraint
		default:
			out[p.Name] = Any
		}
	}
	return out
}

// InferCall is the entry point used by the checker at a call expression:
// given the callee's declared parameter types and type parameters, and the
// concrete argument types supplied at the call site, produce the bindings
// to substitute into the callee's return type (and remaining body) before
// checking the call result.
func InferCall(typeParams []TypeParameterType, paramTypes []TypeInfo, argTypes []TypeInfo) Bindings {
	ic := NewInferenceContext()
	n := len(paramTypes)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		ic.Unify(paramTypes[i], argTypes[i])
	}
	return ic.Resolve(typeParams)
}
