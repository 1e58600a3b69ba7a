package types

// KeyOfType is the deferred form of `keyof T` — produced only when T
// contains a free TypeParameterType and cannot be expanded yet (spec.md
// §4.1: "For type parameters it is deferred (KeyOf(T)), resolved
// post-substitution."). Once T is concrete, ExpandKeyOf resolves it
// directly to a UnionType of literal key types and it is never wrapped in
// a KeyOfType.
type KeyOfType struct{ Operand TypeInfo }

func (KeyOfType) Kind() Kind         { return KindKeyOf }
func (KeyOfType) typeInfo()          {}
func (t KeyOfType) String() string { return "keyof " + t.Operand.String() }

// IndexedAccessType is the deferred form of `T[K]`.
type IndexedAccessType struct {
	Object TypeInfo
	Index  TypeInfo
}

func (IndexedAccessType) Kind() Kind { return KindIndexedAccess }
func (IndexedAccessType) typeInfo()  {}
func (t IndexedAccessType) String() string {
	return t.Object.String() + "[" + t.Index.String() + "]"
}

// MappedModifier mirrors ast.MappedTypeModifier.
type MappedModifier int

const (
	ModNone MappedModifier = iota
	ModAddOptional
	ModRemoveOptional
	ModAddReadonly
	ModRemoveReadonly
)

// MappedTypeType is the deferred form of `{ [P in C]: V }` (left
// unexpanded when C contains a free type parameter; ExpandMapped performs
// the eager expansion once C is concrete).
type MappedTypeType struct {
	Param      string
	Constraint TypeInfo // must expand to a KindUnion of key-literals, or be deferred itself
	ValueType  TypeInfo
	OptMod     MappedModifier
	ReadonlyMod MappedModifier
	As         TypeInfo // non-nil for an `as` key-remapping clause, itself possibly referencing Param
}

func (MappedTypeType) Kind() Kind { return KindMappedType }
func (MappedTypeType) typeInfo()  {}
func (t MappedTypeType) String() string {
	return "{ [" + t.Param + " in " + t.Constraint.String() + "]: " + t.ValueType.String() + " }"
}
