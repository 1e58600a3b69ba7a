package types

import "strings"

// ArrayType is `T[]`.
type ArrayType struct{ Element TypeInfo }

func (ArrayType) Kind() Kind         { return KindArray }
func (ArrayType) typeInfo()          {}
func (t ArrayType) String() string {
	if needsParensInArray(t.Element) {
		return "(" + t.Element.String() + ")[]"
	}
	return t.Element.String() + "[]"
}

func needsParensInArray(t TypeInfo) bool {
	switch t.Kind() {
	case KindUnion, KindIntersection, KindFunction:
		return true
	}
	return false
}

// TupleType is a fixed-arity, possibly-optional, possibly-rest-terminated
// array type: `[A, B?, ...C[]]`. RequiredCount is the count of leading
// non-optional, non-rest elements; Rest is nil when there is no rest tail.
type TupleType struct {
	Elements      []TypeInfo
	Optional      []bool // parallel to Elements
	RequiredCount int
	Rest          TypeInfo
}

func (TupleType) Kind() Kind { return KindTuple }
func (TupleType) typeInfo()  {}
func (t TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		s := e.String()
		if i < len(t.Optional) && t.Optional[i] {
			s += "?"
		}
		parts[i] = s
	}
	if t.Rest != nil {
		parts = append(parts, "..."+t.Rest.String()+"[]")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PropertyInfo is one member of a Record/Interface/Class member set.
type PropertyInfo struct {
	Name     string
	Type     TypeInfo
	Optional bool
	Readonly bool
}

// IndexSignature is `[key: string]: T`.
type IndexSignature struct {
	KeyType TypeInfo // String, Number, or Symbol
	ValType TypeInfo
}

// RecordType is a structural object type built from an object literal type
// or a `{ ... }` type annotation — as opposed to InterfaceType, which
// carries a declared name used in error messages and recursive references.
type RecordType struct {
	Fields      []PropertyInfo
	StringIndex *IndexSignature
	NumberIndex *IndexSignature
	SymbolIndex *IndexSignature
}

func (RecordType) Kind() Kind { return KindRecord }
func (RecordType) typeInfo()  {}
func (t RecordType) String() string {
	return "{ " + fieldsString(t.Fields) + " }"
}

func fieldsString(fields []PropertyInfo) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		ro := ""
		if f.Readonly {
			ro = "readonly "
		}
		parts[i] = ro + f.Name + opt + ": " + f.Type.String()
	}
	return strings.Join(parts, "; ")
}

// InterfaceType is a declared, named object type. Two InterfaceTypes with
// identical member sets but different names are still distinct values,
// but compatibility (Compatible) only ever inspects members — TypeScript's
// "structural" rule spec.md §4.1 requires.
type InterfaceType struct {
	ID      ID
	Name    string
	Members []PropertyInfo
	Indices []IndexSignature
	Extends []TypeInfo // other InterfaceType/RecordType values this extends
}

func (InterfaceType) Kind() Kind { return KindInterface }
func (InterfaceType) typeInfo()  {}
func (t InterfaceType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "{ " + fieldsString(t.Members) + " }"
}

// AllMembers flattens Members with every inherited Extends member,
// later (more-derived) declarations winning on name collision.
func (t InterfaceType) AllMembers() []PropertyInfo {
	seen := map[string]bool{}
	var out []PropertyInfo
	for _, m := range t.Members {
		seen[m.Name] = true
		out = append(out, m)
	}
	for _, base := range t.Extends {
		for _, m := range membersOf(base) {
			if !seen[m.Name] {
				seen[m.Name] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func membersOf(t TypeInfo) []PropertyInfo {
	switch v := t.(type) {
	case InterfaceType:
		return v.AllMembers()
	case *InterfaceType:
		return v.AllMembers()
	case RecordType:
		return v.Fields
	case *RecordType:
		return v.Fields
	}
	return nil
}

func indicesOf(t TypeInfo) (str, num, sym *IndexSignature) {
	switch v := t.(type) {
	case InterfaceType:
		for i := range v.Indices {
			assignIndex(&str, &num, &sym, v.Indices[i])
		}
	case RecordType:
		str, num, sym = v.StringIndex, v.NumberIndex, v.SymbolIndex
	}
	return
}

func assignIndex(str, num, sym **IndexSignature, idx IndexSignature) {
	switch idx.KeyType.Kind() {
	case KindString:
		*str = &idx
	case KindNumber:
		*num = &idx
	case KindSymbol:
		*sym = &idx
	}
}

// FunctionType. RequiredCount is the count of leading non-optional,
// non-rest parameters (spec.md §4.1 function compatibility rule).
type FunctionType struct {
	ParamTypes    []TypeInfo
	ReturnType    TypeInfo
	RequiredCount int
	HasRest       bool
}

func (FunctionType) Kind() Kind { return KindFunction }
func (FunctionType) typeInfo()  {}
func (t FunctionType) String() string {
	parts := make([]string, len(t.ParamTypes))
	for i, p := range t.ParamTypes {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + t.ReturnType.String()
}

// UnionType. Construct via NewUnion, never with a literal, so invariant (a)
// — flattened, deduplicated, singleton-collapsed — always holds.
type UnionType struct{ Types []TypeInfo }

func (UnionType) Kind() Kind { return KindUnion }
func (UnionType) typeInfo()  {}
func (t UnionType) String() string {
	parts := make([]string, len(t.Types))
	for i, m := range t.Types {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// IntersectionType. Construct via NewIntersection for the same reason.
type IntersectionType struct{ Types []TypeInfo }

func (IntersectionType) Kind() Kind { return KindIntersection }
func (IntersectionType) typeInfo()  {}
func (t IntersectionType) String() string {
	parts := make([]string, len(t.Types))
	for i, m := range t.Types {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

type PromiseType struct{ Elem TypeInfo }

func (PromiseType) Kind() Kind         { return KindPromise }
func (PromiseType) typeInfo()          {}
func (t PromiseType) String() string { return "Promise<" + t.Elem.String() + ">" }

type GeneratorType struct{ Elem TypeInfo }

func (GeneratorType) Kind() Kind         { return KindGenerator }
func (GeneratorType) typeInfo()          {}
func (t GeneratorType) String() string { return "Generator<" + t.Elem.String() + ">" }

type AsyncGeneratorType struct{ Elem TypeInfo }

func (AsyncGeneratorType) Kind() Kind { return KindAsyncGenerator }
func (AsyncGeneratorType) typeInfo()  {}
func (t AsyncGeneratorType) String() string {
	return "AsyncGenerator<" + t.Elem.String() + ">"
}
