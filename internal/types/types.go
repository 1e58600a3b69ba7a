// Package types implements SharpTS's Type System Core (spec.md §4.1): a
// closed tagged union of representable types, structural-compatibility
// testing, substitution, and the keyof/mapped/utility type operators.
//
// TypeInfo is modeled as a closed interface with an unexported marker
// method rather than an open class hierarchy, per the Design Notes in
// spec.md §9: every new variant forces every switch over Kind to be
// reconsidered, rather than silently falling through a default case.
package types

import (
	"strconv"

	"github.com/google/uuid"
)

// Kind identifies which TypeInfo variant a value holds. Compatibility,
// substitution, and normalization all switch exhaustively on Kind.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindNull
	KindUndefined
	KindVoid
	KindAny
	KindUnknown
	KindNever
	KindSymbol
	KindBigInt

	KindNumberLiteral
	KindStringLiteral
	KindBooleanLiteral

	KindArray
	KindTuple
	KindRecord
	KindInterface
	KindFunction
	KindUnion
	KindIntersection
	KindPromise
	KindGenerator
	KindAsyncGenerator

	KindClass
	KindInstance
	KindEnum

	KindTypeParameter
	KindGenericClass
	KindGenericInterface
	KindGenericFunction
	KindInstantiatedGeneric

	KindKeyOf
	KindIndexedAccess
	KindMappedType
)

// TypeInfo is the closed sum type of every representable SharpTS type.
type TypeInfo interface {
	Kind() Kind
	// String renders the type the way a TypeScript error message would
	// (`string | null`, `Array<T>`, `{ a: number }`, ...).
	String() string
	typeInfo()
}

// ID is a stable opaque handle used by the nominal registries (classes,
// enums, generic definitions) and by the generic-instantiation cache, per
// spec.md §9's arena+index idiom: an Instance stores a ClassID, never a
// pointer to the ClassType, so cyclic class<->instance references never
// need a cycle-breaking pass.
type ID = uuid.UUID

func NewID() ID { return uuid.New() }

// --- Primitive singletons ---
//
// Primitives carry no data, so a single shared value per kind is enough;
// equality is a Kind comparison, not pointer comparison.

type primitive struct{ kind Kind }

func (p primitive) Kind() Kind  { return p.kind }
func (p primitive) typeInfo()   {}
func (p primitive) String() string {
	switch p.kind {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindVoid:
		return "void"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindSymbol:
		return "symbol"
	case KindBigInt:
		return "bigint"
	}
	return "<?>"
}

var (
	Number    TypeInfo = primitive{KindNumber}
	String    TypeInfo = primitive{KindString}
	Boolean   TypeInfo = primitive{KindBoolean}
	Null      TypeInfo = primitive{KindNull}
	Undefined TypeInfo = primitive{KindUndefined}
	Void      TypeInfo = primitive{KindVoid}
	Any       TypeInfo = primitive{KindAny}
	Unknown   TypeInfo = primitive{KindUnknown}
	Never     TypeInfo = primitive{KindNever}
	Symbol    TypeInfo = primitive{KindSymbol}
	BigInt    TypeInfo = primitive{KindBigInt}
)

// --- Literal types ---

type NumberLiteralType struct{ Value float64 }

func (NumberLiteralType) Kind() Kind { return KindNumberLiteral }
func (NumberLiteralType) typeInfo()  {}
func (t NumberLiteralType) String() string { return formatFloat(t.Value) }

type StringLiteralType struct{ Value string }

func (StringLiteralType) Kind() Kind        { return KindStringLiteral }
func (StringLiteralType) typeInfo()         {}
func (t StringLiteralType) String() string { return "\"" + t.Value + "\"" }

type BooleanLiteralType struct{ Value bool }

func (BooleanLiteralType) Kind() Kind { return KindBooleanLiteral }
func (BooleanLiteralType) typeInfo()  {}
func (t BooleanLiteralType) String() string {
	if t.Value {
		return "true"
	}
	return "false"
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
