// Package ast defines the SharpTS abstract syntax tree: statement and
// expression node variants, allocated once per parse and referred to by a
// stable NodeID handle. The type checker's TypeMap, the closure planner's
// capture plan, and the suspension analyzer's state plan all key off
// NodeID rather than raw node pointers — the arena/identity-handle idiom
// spec.md §9 calls for, so a side table survives node copies or AST
// rewriting passes without reconciling pointer identity.
package ast

import "github.com/sharpts/sharpts/internal/token"

// NodeID is a stable, process-local handle assigned to every AST node at
// construction time. Zero is never a valid ID.
type NodeID uint64

// IDAllocator hands out increasing NodeIDs, starting at 1. Each Parser
// owns its own allocator, so IDs are unique within one parse; two separate
// parses hand out overlapping IDs.
type IDAllocator struct{ next NodeID }

func (a *IDAllocator) Alloc() NodeID {
	a.next++
	return a.next
}

// Base is embedded in every concrete node and supplies identity and
// position; it is never referenced through an interface on its own.
type Base struct {
	id  NodeID
	pos token.Position
}

func NewBase(alloc *IDAllocator, pos token.Position) Base {
	return Base{id: alloc.Alloc(), pos: pos}
}

func (b Base) ID() NodeID          { return b.id }
func (b Base) Pos() token.Position { return b.pos }

// Node is the common interface of every AST node.
type Node interface {
	ID() NodeID
	Pos() token.Position
	node()
}

// Stmt is any statement-level node.
type Stmt interface {
	Node
	stmt()
}

// Expr is any expression-level node.
type Expr interface {
	Node
	expr()
}

// Program is the root of a parsed module: a flat statement list plus the
// module path it was loaded under (the module graph, internal/modgraph,
// assigns this; a program parsed standalone carries its file path).
type Program struct {
	Base
	Statements []Stmt
	ModulePath string
}

func (*Program) node() {}
