package narrow

import (
	"testing"

	"github.com/sharpts/sharpts/internal/types"
)

func TestContextWithAndLookup(t *testing.T) {
	ctx := Empty()
	p := Variable("x")
	if _, ok := ctx.Lookup(p); ok {
		t.Fatal("empty context should carry no narrowing")
	}
	narrowed := ctx.With(p, types.String)
	got, ok := narrowed.Lookup(p)
	if !ok || got != types.String {
		t.Fatalf("expected narrowed lookup to find string, got %#v, %v", got, ok)
	}
	if _, ok := ctx.Lookup(p); ok {
		t.Fatal("With must not mutate the original context")
	}
}

func TestInvalidationRemovesPrefixAndExtension(t *testing.T) {
	ctx := Empty()
	a := Variable("a")
	ab := PropertyAccess(a, "b")

	ctx = ctx.With(a, types.String).With(ab, types.Number)

	invalidated := ctx.Invalidate(a)
	if _, ok := invalidated.Lookup(a); ok {
		t.Fatal("write to a should invalidate narrowing on a")
	}
	if _, ok := invalidated.Lookup(ab); ok {
		t.Fatal("write to a should invalidate narrowing on a.b (a is a prefix of a.b)")
	}
}

func TestInvalidationOfChildRemovesParentKeepsSibling(t *testing.T) {
	ctx := Empty()
	a := Variable("a")
	ab := PropertyAccess(a, "b")
	ac := PropertyAccess(a, "c")

	ctx = ctx.With(a, types.String).With(ab, types.Number).With(ac, types.Boolean)

	invalidated := ctx.Invalidate(ab)
	if _, ok := invalidated.Lookup(ac); !ok {
		t.Fatal("write to a.b should not invalidate an unrelated sibling a.c")
	}
	if _, ok := invalidated.Lookup(a); ok {
		t.Fatal("write to a.b should invalidate its ancestor a (a is a prefix of a.b)")
	}
}

func TestMergeUnionsSharedPathsAndDropsUnshared(t *testing.T) {
	a := Variable("a")
	b := Variable("b")

	left := Empty().With(a, types.String).With(b, types.Number)
	right := Empty().With(a, types.Boolean)

	merged := Merge(left, right)
	got, ok := merged.Lookup(a)
	if !ok {
		t.Fatal("path present in both sides should survive the merge")
	}
	u, ok := got.(types.UnionType)
	if !ok || len(u.Types) != 2 {
		t.Fatalf("expected a 2-member union, got %#v", got)
	}
	if _, ok := merged.Lookup(b); ok {
		t.Fatal("path present in only one side should be dropped by the merge")
	}
}

func TestTypeofNarrowSplitsUnion(t *testing.T) {
	declared := types.NewUnion(types.String, types.Number, types.Undefined)
	base := Empty()
	p := Variable("x")

	r := TypeofNarrow(base, p, declared, "string")
	pos, _ := r.Positive.Lookup(p)
	if pos != types.String {
		t.Fatalf("positive typeof string should narrow to string, got %#v", pos)
	}
	neg, _ := r.Negative.Lookup(p)
	negUnion, ok := neg.(types.UnionType)
	if !ok || len(negUnion.Types) != 2 {
		t.Fatalf("negative should keep number|undefined, got %#v", neg)
	}
}

func TestNullCheckNarrowRemovesNull(t *testing.T) {
	declared := types.NewUnion(types.String, types.Null)
	p := Variable("x")
	r := NullCheckNarrow(Empty(), p, declared, false)
	pos, _ := r.Positive.Lookup(p)
	if pos != types.Null {
		t.Fatalf("positive null check should narrow to null, got %#v", pos)
	}
	neg, _ := r.Negative.Lookup(p)
	if neg != types.String {
		t.Fatalf("negative null check should strip null, got %#v", neg)
	}
}

func TestDiscriminantNarrowSelectsUnionMember(t *testing.T) {
	circle := types.RecordType{Fields: []types.PropertyInfo{
		{Name: "tag", Type: types.StringLiteralType{Value: "circle"}},
		{Name: "radius", Type: types.Number},
	}}
	square := types.RecordType{Fields: []types.PropertyInfo{
		{Name: "tag", Type: types.StringLiteralType{Value: "square"}},
		{Name: "side", Type: types.Number},
	}}
	declared := types.NewUnion(circle, square)
	p := Variable("shape")

	r := DiscriminantNarrow(Empty(), p, declared, "tag", types.StringLiteralType{Value: "circle"})
	pos, _ := r.Positive.Lookup(p)
	if !types.TypesEqual(pos, circle) {
		t.Fatalf("expected narrowing to the circle variant, got %#v", pos)
	}
}

func TestAndCombinatorThreadsLeftIntoRight(t *testing.T) {
	p := Variable("x")
	declared := types.NewUnion(types.String, types.Null)
	base := Empty()

	evalLeft := func(c Context) Result { return NullCheckNarrow(c, p, declared, false) }
	evalRight := func(c Context) Result {
		// right side should see left's positive narrowing (x: null) already applied
		got, ok := c.Lookup(p)
		if !ok || got != types.Null {
			t.Fatalf("right side of && should observe left's positive narrowing, got %#v", got)
		}
		return Unrecognized(c)
	}
	And(base, evalLeft, evalRight)
}

func TestNotSwapsPositiveAndNegative(t *testing.T) {
	p := Variable("x")
	r := NullCheckNarrow(Empty(), p, types.NewUnion(types.String, types.Null), false)
	swapped := Not(r)
	if swapped.Positive.m != r.Negative.m || swapped.Negative.m != r.Positive.m {
		t.Fatal("Not should swap positive and negative contexts")
	}
}
