package types

import "strings"

// TypeParameterType is a free generic type variable, e.g. the `T` in
// `class Box<T>`. Constraint is nil for an unconstrained parameter.
type TypeParameterType struct {
	Name       string
	Constraint TypeInfo
}

func (TypeParameterType) Kind() Kind { return KindTypeParameter }
func (TypeParameterType) typeInfo()  {}
func (t TypeParameterType) String() string { return t.Name }

// GenericClassType/GenericInterfaceType/GenericFunctionType are the
// uninstantiated generic definitions; InstantiatedGenericType binds Args to
// Def.TypeParams's positions. Equality of two InstantiatedGenericType
// values for compatibility purposes is "same Def.ID, pairwise-compatible
// Args" (spec.md §4.1: "same generic definition and compatible type
// arguments (invariant by default)").

type GenericClassType struct {
	ID         ID
	Name       string
	TypeParams []TypeParameterType
	Body       ClassType // body referencing TypeParameterType leaves in field/method types
}

func (GenericClassType) Kind() Kind { return KindGenericClass }
func (GenericClassType) typeInfo()  {}
func (t GenericClassType) String() string { return genericHeaderString(t.Name, t.TypeParams) }

type GenericInterfaceType struct {
	ID         ID
	Name       string
	TypeParams []TypeParameterType
	Body       InterfaceType
}

func (GenericInterfaceType) Kind() Kind { return KindGenericInterface }
func (GenericInterfaceType) typeInfo()  {}
func (t GenericInterfaceType) String() string { return genericHeaderString(t.Name, t.TypeParams) }

type GenericFunctionType struct {
	Name       string
	TypeParams []TypeParameterType
	Body       FunctionType
}

func (GenericFunctionType) Kind() Kind { return KindGenericFunction }
func (GenericFunctionType) typeInfo()  {}
func (t GenericFunctionType) String() string { return genericHeaderString(t.Name, t.TypeParams) }

func genericHeaderString(name string, params []TypeParameterType) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return name + "<" + strings.Join(names, ", ") + ">"
}

// InstantiatedGenericType binds a generic definition's ID to concrete
// arguments. DefKind records which registry/definition kind Def refers to,
// since classes/interfaces/functions are instantiated identically but
// looked up in different tables.
type InstantiatedGenericType struct {
	Def     ID
	DefKind Kind // KindGenericClass | KindGenericInterface | KindGenericFunction
	Args    []TypeInfo
}

func (InstantiatedGenericType) Kind() Kind { return KindInstantiatedGeneric }
func (InstantiatedGenericType) typeInfo()  {}
func (t InstantiatedGenericType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
