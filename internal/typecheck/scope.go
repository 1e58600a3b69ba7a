package typecheck

import "github.com/sharpts/sharpts/internal/types"

// Symbol is one variable/function/parameter binding in a Scope. Unlike the
// teacher's case-insensitive DWScript Symbol, names here are compared
// verbatim (TypeScript is case-sensitive).
type Symbol struct {
	Name     string
	Type     types.TypeInfo
	Const    bool
	Readonly bool
}

// Scope is a lexical binding scope chained to its enclosing scope, grounded
// on the teacher's SymbolTable/NewEnclosedSymbolTable pair but holding
// types.TypeInfo instead of a DWScript types.Type.
type Scope struct {
	symbols map[string]*Symbol
	outer   *Scope
}

func NewScope() *Scope {
	return &Scope{symbols: make(map[string]*Symbol)}
}

func NewEnclosedScope(outer *Scope) *Scope {
	s := NewScope()
	s.outer = outer
	return s
}

// Define binds name in the current scope, shadowing any outer binding.
func (s *Scope) Define(name string, t types.TypeInfo, isConst bool) {
	s.symbols[name] = &Symbol{Name: name, Type: t, Const: isConst}
}

// Resolve looks up name in this scope, then each enclosing scope in turn.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	if s.outer != nil {
		return s.outer.Resolve(name)
	}
	return nil, false
}

// DefinedHere reports whether name is bound directly in this scope (not an
// enclosing one). The checker does not call it: redeclaring a name in one
// scope is not reported, and Define replaces the earlier binding.
func (s *Scope) DefinedHere(name string) bool {
	_, ok := s.symbols[name]
	return ok
}
