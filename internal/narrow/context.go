package narrow

import "github.com/sharpts/sharpts/internal/types"

// Context is the persistent NarrowingContext of spec.md §4.2: an
// immutable map from Path to a refined TypeInfo. It replaces, rather than
// augments, the declared type for any path it narrows — callers look the
// path up in Context first and fall back to the declared type only on a
// miss.
type Context struct {
	m *persistentMap
}

// Empty is the context at the top of a function body, before any guard
// has narrowed anything.
func Empty() Context { return Context{m: emptyMap()} }

// Lookup returns the narrowed type for p, or (nil, false) if p carries no
// narrowing in this context (the caller should fall back to the path's
// declared type).
func (c Context) Lookup(p Path) (types.TypeInfo, bool) {
	return c.m.Get(p.key())
}

// With returns a new context narrowing p to t, leaving c unmodified.
func (c Context) With(p Path, t types.TypeInfo) Context {
	return Context{m: c.m.Put(p.key(), t)}
}

// Invalidate removes every narrowing whose path overlaps p (§4.2: "removes
// every narrowing whose key either is a prefix of P or has P as a
// prefix"), used on assignment to p and on variable capture by a closure.
func (c Context) Invalidate(p Path) Context {
	pk := p.key()
	return Context{m: c.m.RemoveMatching(func(key string) bool {
		return keysOverlap(pk, key)
	})}
}

// forEach visits every (path-key, narrowed-type) pair. Used internally for
// type checker's diagnostics and for join-point merging below.
func (c Context) forEach(f func(key string, t types.TypeInfo)) {
	c.m.forEach(f)
}

// Merge implements join-point merging (§4.2): for each path present in
// both a and b, the merged context holds the union of the two narrowed
// types; a path narrowed in only one side is dropped (the other branch
// may have left it at its declared type, which Lookup already falls back
// to on a miss).
func Merge(a, b Context) Context {
	out := emptyMap()
	a.forEach(func(key string, at types.TypeInfo) {
		if bt, ok := b.m.Get(key); ok {
			out = out.Put(key, types.NewUnion(at, bt))
		}
	})
	return Context{m: out}
}

// MergeAll folds Merge across more than two branches (e.g. a switch with
// more than two cases), associative in the same join-point sense.
func MergeAll(contexts ...Context) Context {
	if len(contexts) == 0 {
		return Empty()
	}
	result := contexts[0]
	for _, c := range contexts[1:] {
		result = Merge(result, c)
	}
	return result
}
