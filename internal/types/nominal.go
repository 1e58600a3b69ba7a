package types

// ClassType is a nominal class definition. Per spec.md §9's Design Notes,
// class definitions live in a Registry and are referred to by a stable ID;
// InstanceType below holds that ID rather than a *ClassType pointer, so a
// class's own methods can reference Instance(Self) without constructing a
// pointer cycle the garbage collector would need help with.
type ClassType struct {
	ID           ID
	Name         string
	Super        *ID // nil for a class with no explicit superclass
	Fields       []PropertyInfo
	Methods      map[string]FunctionType
	StaticFields []PropertyInfo
	StaticMethods map[string]FunctionType
	Access       map[string]Visibility
	ReadonlySet  map[string]bool
	Getters      map[string]FunctionType
	Setters      map[string]FunctionType
	Interfaces   []ID
}

func (ClassType) Kind() Kind { return KindClass }
func (ClassType) typeInfo()  {}
func (t ClassType) String() string { return t.Name }

// Visibility mirrors ast.Visibility without importing the ast package
// (types must not depend on ast, to keep the dependency direction
// lexer/ast -> types -> typecheck one-way).
type Visibility int

const (
	VisPublic Visibility = iota
	VisProtected
	VisPrivate
)

// InstanceType is `Instance(class)` — values of a class type.
type InstanceType struct{ Class ID }

func (InstanceType) Kind() Kind { return KindInstance }
func (InstanceType) typeInfo()  {}
func (t InstanceType) String() string {
	if def, ok := GlobalRegistry.Class(t.Class); ok {
		return def.Name
	}
	return "<class>"
}

// EnumKind mirrors the numeric, string and heterogeneous values of
// ast.EnumKind, in the same order; ast.EnumConst has no counterpart here.
type EnumKind int

const (
	EnumNumeric EnumKind = iota
	EnumString
	EnumHeterogeneous
)

type EnumMemberInfo struct {
	Name  string
	Value any // float64 or string, resolved at check time
}

type EnumType struct {
	ID      ID
	Name    string
	Members []EnumMemberInfo
	Kind    EnumKind
}

func (EnumType) Kind() Kind { return KindEnum }
func (EnumType) typeInfo()  {}
func (t EnumType) String() string { return t.Name }

// Registry is the arena for nominal types: classes, enums, and generic
// definitions are registered once and referenced by ID everywhere else,
// per the Design Notes cyclic-reference guidance.
type Registry struct {
	classes   map[ID]ClassType
	enums     map[ID]EnumType
	generics  map[ID]any // GenericClassType | GenericInterfaceType | GenericFunctionType
}

func NewRegistry() *Registry {
	return &Registry{
		classes:  map[ID]ClassType{},
		enums:    map[ID]EnumType{},
		generics: map[ID]any{},
	}
}

func (r *Registry) RegisterClass(c ClassType) ID {
	if c.ID == (ID{}) {
		c.ID = NewID()
	}
	r.classes[c.ID] = c
	return c.ID
}

func (r *Registry) Class(id ID) (ClassType, bool) {
	c, ok := r.classes[id]
	return c, ok
}

func (r *Registry) RegisterEnum(e EnumType) ID {
	if e.ID == (ID{}) {
		e.ID = NewID()
	}
	r.enums[e.ID] = e
	return e.ID
}

func (r *Registry) Enum(id ID) (EnumType, bool) {
	e, ok := r.enums[id]
	return e, ok
}

// GlobalRegistry backs String()'s name lookups for InstanceType et al.
// Each Checker constructs its own Registry for real type-checking work
// (see internal/typecheck); this one only supports debug formatting
// before a checker has been wired up (CLI `lex`/`parse` subcommands).
var GlobalRegistry = NewRegistry()

// IsSubclass walks the Super chain of id within r and reports whether
// ancestorID appears in it (used for `instanceof`/class-compatibility).
func (r *Registry) IsSubclass(id, ancestorID ID) bool {
	cur := id
	for {
		if cur == ancestorID {
			return true
		}
		c, ok := r.classes[cur]
		if !ok || c.Super == nil {
			return false
		}
		cur = *c.Super
	}
}
