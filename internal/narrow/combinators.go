package narrow

import "github.com/sharpts/sharpts/internal/types"

// Result pairs the narrowing produced when a condition evaluates truthy
// with the narrowing produced when it evaluates falsy, applied on top of
// a base context. Every guard-recognizing function in guards.go, and
// every combinator below, produces one of these.
type Result struct {
	Positive Context
	Negative Context
}

// Unrecognized returns a Result that narrows nothing in either branch —
// the fallback for any condition expression the engine doesn't
// special-case (spec.md §4.2 lists the recognized guard forms; anything
// else simply leaves the base context as-is in both branches).
func Unrecognized(base Context) Result { return Result{Positive: base, Negative: base} }

// And implements `A && B` in positive position: apply A's positive
// narrowing, then evaluate B in that context; B's own Result composes
// with A's. The negative side of `A && B` is "not (A positive and B
// positive)", which the engine does not attempt to narrow precisely
// (De Morgan's would require tracking the disjunction of two negations as
// a context, which NarrowingContext's flat map can't represent) — it
// falls back to the base context, per spec.md §4.2's combinator list only
// specifying the positive-position expansion.
func And(base Context, evalLeft func(Context) Result, evalRight func(Context) Result) Result {
	left := evalLeft(base)
	right := evalRight(left.Positive)
	return Result{Positive: right.Positive, Negative: base}
}

// Or implements `A || B` in positive position: the union of "A positive"
// with "(A negative) then (B positive)".
func Or(base Context, evalLeft func(Context) Result, evalRight func(Context) Result) Result {
	left := evalLeft(base)
	right := evalRight(left.Negative)
	return Result{Positive: Merge(left.Positive, right.Positive), Negative: base}
}

// Not swaps positive and negative.
func Not(r Result) Result { return Result{Positive: r.Negative, Negative: r.Positive} }

// Ternary narrows `cond ? then : else`: the then-branch inherits cond's
// positive narrowings, the else-branch inherits cond's negative
// narrowings. Returns the two branch-entry contexts for the checker to
// thread through each arm.
func Ternary(cond Result) (thenCtx, elseCtx Context) {
	return cond.Positive, cond.Negative
}

// AfterIf computes the context downstream of `if (cond) { ...terminates
// ... } else { ... }` (or an if with no else but whose then-branch
// unconditionally returns/throws/breaks/continues): downstream code
// inherits the else-context's (i.e. cond's negative) narrowings, since
// control only reaches that point having taken the non-terminating path.
func AfterIf(cond Result, thenTerminates bool) Context {
	if thenTerminates {
		return cond.Negative
	}
	return cond.Positive
}

// AfterIfElse computes the context downstream of a complete if/else where
// neither branch unconditionally terminates: the join-point merge of
// whatever each branch's own checking produced.
func AfterIfElse(thenExit, elseExit Context) Context {
	return Merge(thenExit, elseExit)
}

// excludeFromUnion removes members structurally equal to any of
// `removed` from t, used by the null-check and literal-equality negative
// narrows (`T \ null`, `T \ <literal>`).
func excludeFromUnion(t types.TypeInfo, removed ...types.TypeInfo) types.TypeInfo {
	members := unionMembersOf(t)
	var kept []types.TypeInfo
	for _, m := range members {
		excluded := false
		for _, r := range removed {
			if types.TypesEqual(m, r) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, m)
		}
	}
	return types.NewUnion(kept...)
}

func unionMembersOf(t types.TypeInfo) []types.TypeInfo {
	if u, ok := t.(types.UnionType); ok {
		return u.Types
	}
	return []types.TypeInfo{t}
}
