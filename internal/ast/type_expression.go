package ast

// TypeExpr is the surface-syntax tree for a type annotation as written by
// the programmer (`string | null`, `{ [K in keyof T]?: T[K] }`, `Array<T>`,
// ...). The type checker (internal/typecheck) resolves a TypeExpr into a
// semantic types.TypeInfo; the two are deliberately distinct so the same
// syntax tree can be re-resolved under different substitutions without
// re-parsing.
type TypeExpr interface {
	Node
	typeExpr()
}

// TypeRef is a named type, optionally with generic arguments: `Foo`,
// `Array<T>`, `Record<K, V>`.
type TypeRef struct {
	Base
	Name string
	Args []TypeExpr
}

func (*TypeRef) node()     {}
func (*TypeRef) typeExpr() {}

// LiteralType is a literal used as a type: `"a"`, `42`, `true`.
type LiteralType struct {
	Base
	Value any
}

func (*LiteralType) node()     {}
func (*LiteralType) typeExpr() {}

// UnionType is `A | B | ...`.
type UnionType struct {
	Base
	Members []TypeExpr
}

func (*UnionType) node()     {}
func (*UnionType) typeExpr() {}

// IntersectionType is `A & B & ...`.
type IntersectionType struct {
	Base
	Members []TypeExpr
}

func (*IntersectionType) node()     {}
func (*IntersectionType) typeExpr() {}

// ArrayType is `T[]`.
type ArrayType struct {
	Base
	Element TypeExpr
}

func (*ArrayType) node()     {}
func (*ArrayType) typeExpr() {}

// TupleElement is one element of a TupleType: `name?: T` or `...T`.
type TupleElement struct {
	Type     TypeExpr
	Optional bool
	Rest     bool
}

// TupleType is `[A, B?, ...C[]]`.
type TupleType struct {
	Base
	Elements []TupleElement
}

func (*TupleType) node()     {}
func (*TupleType) typeExpr() {}

// ObjectMember is one member of an ObjectType/InterfaceDecl body.
type ObjectMember struct {
	Name      string
	Computed  TypeExpr // for indexed member names resolved via KeyOf substitution
	Type      TypeExpr
	Optional  bool
	Readonly  bool
}

// IndexSignature is `[key: string]: T` inside an object type.
type IndexSignature struct {
	KeyName string
	KeyType TypeExpr // String, Number, or Symbol
	ValType TypeExpr
}

// ObjectType is an inline `{ a: number; b?: string }` type literal.
type ObjectType struct {
	Base
	Members []ObjectMember
	Indices []IndexSignature
}

func (*ObjectType) node()     {}
func (*ObjectType) typeExpr() {}

// FunctionType is `(a: A, ...rest: R[]) => Ret`.
type FunctionType struct {
	Base
	Params     []Param
	ReturnType TypeExpr
}

func (*FunctionType) node()     {}
func (*FunctionType) typeExpr() {}

// KeyOfType is `keyof T`.
type KeyOfType struct {
	Base
	Operand TypeExpr
}

func (*KeyOfType) node()     {}
func (*KeyOfType) typeExpr() {}

// IndexedAccessType is `T[K]`.
type IndexedAccessType struct {
	Base
	Object TypeExpr
	Index  TypeExpr
}

func (*IndexedAccessType) node()     {}
func (*IndexedAccessType) typeExpr() {}

// MappedTypeModifier is one of: none, AddOptional (+?), RemoveOptional
// (-?), AddReadonly (+readonly), RemoveReadonly (-readonly).
type MappedTypeModifier int

const (
	ModifierNone MappedTypeModifier = iota
	ModifierAddOptional
	ModifierRemoveOptional
	ModifierAddReadonly
	ModifierRemoveReadonly
)

// MappedType is `{ [P in K]: V }`, optionally remapped via `as`.
type MappedType struct {
	Base
	Param      string
	Constraint TypeExpr // keyof-producing type iterated for each key
	ValueType  TypeExpr
	OptMod     MappedTypeModifier
	ReadonlyMod MappedTypeModifier
	As         TypeExpr // non-nil for `as` key-remapping clauses
}

func (*MappedType) node()     {}
func (*MappedType) typeExpr() {}

// ConditionalType is `A extends B ? C : D`, with optional `infer` bindings
// inside B collected into Infers for the checker to bind during matching.
type ConditionalType struct {
	Base
	Check, Extends, True, False TypeExpr
	Infers                      []string
}

func (*ConditionalType) node()     {}
func (*ConditionalType) typeExpr() {}

// TypeParam is a generic type parameter declaration: `T extends C = D`.
type TypeParam struct {
	Name       string
	Constraint TypeExpr
	Default    TypeExpr
}
