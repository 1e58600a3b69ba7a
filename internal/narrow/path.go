// Package narrow implements the Narrowing Engine (spec.md §4.2): a
// persistent map from NarrowingPath to a refined TypeInfo, threaded
// through expression and statement checking, plus the combinators that
// build new contexts out of old ones at &&/||/!/ternary/join points.
package narrow

import "strconv"

// Path is a tagged union: Variable(name), PropertyAccess(base, prop), or
// ElementAccess(base, index) — spec.md §3's NarrowingPath. Paths compose
// (a PropertyAccess's Base is itself a Path), and prefix-ordering between
// two Paths defines invalidation semantics.
type Path struct {
	kind  pathKind
	base  *Path // nil for Variable
	name  string
	index string // element-access key literal, as rendered text (numeric or string)
}

type pathKind int

const (
	kindVariable pathKind = iota
	kindProperty
	kindElement
)

func Variable(name string) Path { return Path{kind: kindVariable, name: name} }

func PropertyAccess(base Path, prop string) Path {
	return Path{kind: kindProperty, base: &base, name: prop}
}

func ElementAccess(base Path, index string) Path {
	return Path{kind: kindElement, base: &base, index: index}
}

// key renders a Path to a canonical string so it can serve as a
// persistentMap key without exposing its structure to callers who only
// need equality/prefix comparisons.
func (p Path) key() string {
	switch p.kind {
	case kindVariable:
		return "$" + p.name
	case kindProperty:
		return p.base.key() + "." + p.name
	case kindElement:
		return p.base.key() + "[" + strconv.Quote(p.index) + "]"
	}
	return ""
}

func (p Path) String() string { return p.key() }

// IsPrefixOf reports whether p is a prefix of q in the access-chain sense:
// q is p itself, or q extends p through one or more further
// property/element accesses. Used by invalidation (§4.2): a write to
// path P invalidates every narrowing whose key is a prefix of P (a
// narrowing on `a` is invalidated by a write to `a.b`) or has P as a
// prefix (a narrowing on `a.b` is invalidated by a write to `a`, since the
// write may have replaced the whole object `a` refers to).
func (p Path) IsPrefixOf(q Path) bool {
	return keyIsPrefixOf(p.key(), q.key())
}

// Overlaps reports whether a write to p must invalidate a narrowing keyed
// on q: true when p is a prefix of q, or q is a prefix of p.
func (p Path) Overlaps(q Path) bool {
	return keysOverlap(p.key(), q.key())
}

// keyIsPrefixOf/keysOverlap work directly on canonical key strings so
// invalidation can test overlap against a stored key without
// reconstructing a Path's structure from it.
func keyIsPrefixOf(pk, qk string) bool {
	if pk == qk {
		return true
	}
	if len(qk) <= len(pk) || qk[:len(pk)] != pk {
		return false
	}
	switch qk[len(pk)] {
	case '.', '[':
		return true
	}
	return false
}

func keysOverlap(pk, qk string) bool {
	return keyIsPrefixOf(pk, qk) || keyIsPrefixOf(qk, pk)
}
