package ast

// EnumMember is one `Name` or `Name = value` entry.
type EnumMember struct {
	Name  string
	Value Expr // nil when the value is implicit (auto-incrementing numeric)
}

// EnumKind distinguishes numeric, string, heterogeneous, and const enums,
// matching spec.md's TypeInfo.Enum(name, members, kind).
type EnumKind int

const (
	EnumNumeric EnumKind = iota
	EnumString
	EnumHeterogeneous
	EnumConst // `const enum` — fully inlined, no runtime object
)

type EnumDecl struct {
	Base
	Name    string
	Kind    EnumKind
	Members []EnumMember
}

func (*EnumDecl) node() {}
func (*EnumDecl) stmt() {}
