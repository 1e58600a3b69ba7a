package ast

import "github.com/sharpts/sharpts/internal/token"

// Literal is a number/string/boolean/null/undefined constant.
type Literal struct {
	Base
	Value any // float64, string, bool, nil (null), or LiteralUndefined
}

func (*Literal) node() {}
func (*Literal) expr() {}

// LiteralUndefined is the sentinel Value for an `undefined` literal, since
// `nil` alone already represents `null`.
type LiteralUndefined struct{}

// Ident is a variable reference (spec.md's "Variable").
type Ident struct {
	Base
	Name string
}

func (*Ident) node() {}
func (*Ident) expr() {}

type ThisExpr struct{ Base }

func (*ThisExpr) node() {}
func (*ThisExpr) expr() {}

type SuperExpr struct{ Base }

func (*SuperExpr) node() {}
func (*SuperExpr) expr() {}

// Binary covers all non-short-circuiting binary operators (+, -, ==, <, etc).
type Binary struct {
	Base
	Left     Expr
	Operator token.Kind
	Right    Expr
}

func (*Binary) node() {}
func (*Binary) expr() {}

// Logical covers && and || — kept distinct from Binary because the
// narrowing engine (internal/narrow) threads a NarrowingContext through
// each operand in sequence rather than evaluating both eagerly.
type Logical struct {
	Base
	Left     Expr
	Operator token.Kind // LOGICAL_AND | LOGICAL_OR
	Right    Expr
}

func (*Logical) node() {}
func (*Logical) expr() {}

type Unary struct {
	Base
	Operator token.Kind
	Operand  Expr
}

func (*Unary) node() {}
func (*Unary) expr() {}

type Grouping struct {
	Base
	Inner Expr
}

func (*Grouping) node() {}
func (*Grouping) expr() {}

// SpreadArg marks `...expr` inside a call argument list or array literal.
type SpreadArg struct {
	Base
	Value Expr
}

func (*SpreadArg) node() {}
func (*SpreadArg) expr() {}

type Call struct {
	Base
	Callee       Expr
	Args         []Expr
	Optional     bool // `?.(` call chaining
	TypeArgs     []TypeExpr
}

func (*Call) node() {}
func (*Call) expr() {}

type New struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*New) node() {}
func (*New) expr() {}

// Get is a member-read expression: obj.prop or obj?.prop.
type Get struct {
	Base
	Object   Expr
	Name     string
	Optional bool
}

func (*Get) node() {}
func (*Get) expr() {}

// Set is a member-write expression: obj.prop = value.
type Set struct {
	Base
	Object Expr
	Name   string
	Value  Expr
}

func (*Set) node() {}
func (*Set) expr() {}

// GetIndex is obj[index].
type GetIndex struct {
	Base
	Object   Expr
	Index    Expr
	Optional bool
}

func (*GetIndex) node() {}
func (*GetIndex) expr() {}

// SetIndex is obj[index] = value.
type SetIndex struct {
	Base
	Object Expr
	Index  Expr
	Value  Expr
}

func (*SetIndex) node() {}
func (*SetIndex) expr() {}

// Assign is a plain variable assignment: name = value.
type Assign struct {
	Base
	Name  string
	Value Expr
}

func (*Assign) node() {}
func (*Assign) expr() {}

// CompoundAssign is `name op= value` for a plain variable target.
type CompoundAssign struct {
	Base
	Name     string
	Operator token.Kind
	Value    Expr
}

func (*CompoundAssign) node() {}
func (*CompoundAssign) expr() {}

// CompoundSet is `obj.prop op= value`.
type CompoundSet struct {
	Base
	Object   Expr
	Name     string
	Operator token.Kind
	Value    Expr
}

func (*CompoundSet) node() {}
func (*CompoundSet) expr() {}

// CompoundSetIndex is `obj[index] op= value`.
type CompoundSetIndex struct {
	Base
	Object   Expr
	Index    Expr
	Operator token.Kind
	Value    Expr
}

func (*CompoundSetIndex) node() {}
func (*CompoundSetIndex) expr() {}

// PrefixIncrement covers ++x and --x; Decrement distinguishes which.
type PrefixIncrement struct {
	Base
	Target    Expr
	Decrement bool
}

func (*PrefixIncrement) node() {}
func (*PrefixIncrement) expr() {}

// PostfixIncrement covers x++ and x--.
type PostfixIncrement struct {
	Base
	Target    Expr
	Decrement bool
}

func (*PostfixIncrement) node() {}
func (*PostfixIncrement) expr() {}

type Ternary struct {
	Base
	Cond, Then, Else Expr
}

func (*Ternary) node() {}
func (*Ternary) expr() {}

// TypeAssertion is `expr as T` / `expr satisfies T` — a purely type-level
// annotation with no runtime effect; Satisfies distinguishes the two since
// `as` re-types the expression to T while `satisfies` only checks
// assignability and keeps the expression's original (usually narrower)
// type.
type TypeAssertion struct {
	Base
	Expr       Expr
	Type       TypeExpr
	Satisfies  bool
}

func (*TypeAssertion) node() {}
func (*TypeAssertion) expr() {}

// NullishCoalescing is `a ?? b`.
type NullishCoalescing struct {
	Base
	Left, Right Expr
}

func (*NullishCoalescing) node() {}
func (*NullishCoalescing) expr() {}

// TemplateLiteral holds alternating literal-text chunks and hole
// expressions parsed from the lexer's lexer.TemplatePart list.
type TemplateLiteral struct {
	Base
	Quasis []string
	Holes  []Expr
}

func (*TemplateLiteral) node() {}
func (*TemplateLiteral) expr() {}

type ArrayLiteral struct {
	Base
	Elements []Expr // may contain *SpreadArg
}

func (*ArrayLiteral) node() {}
func (*ArrayLiteral) expr() {}

// ObjectProperty is one `key: value` or `...spread` entry of an
// ObjectLiteral.
type ObjectProperty struct {
	Key      string
	Computed Expr // non-nil for `[expr]: value` computed keys
	Value    Expr
	Spread   bool
	Shorthand bool
}

type ObjectLiteral struct {
	Base
	Properties []ObjectProperty
}

func (*ObjectLiteral) node() {}
func (*ObjectLiteral) expr() {}

// ArrowFunction is a lexically-`this`-capturing function expression. Async
// and generator-like arrows reuse IsAsync; arrows cannot themselves be
// generators in TypeScript, so there is no IsGenerator field here.
type ArrowFunction struct {
	Base
	Params     []Param
	ReturnType TypeExpr
	Body       Stmt // *Block, or a single *Return wrapping an expression body
	IsAsync    bool
}

func (*ArrowFunction) node() {}
func (*ArrowFunction) expr() {}

// Await is a suspension point inside an async function or async generator.
type Await struct {
	Base
	Value Expr
}

func (*Await) node() {}
func (*Await) expr() {}

// Yield is a suspension point inside a generator or async generator.
type Yield struct {
	Base
	Value    Expr // nil for a bare `yield;`
	Delegate bool // true for `yield*` — see YieldStar below, kept separate
}

func (*Yield) node() {}
func (*Yield) expr() {}

// YieldStar is `yield* iterable` — delegation to an inner iterator/iterable,
// modeled as its own node (rather than Yield.Delegate alone) because the
// suspension analyzer (internal/suspend) needs a distinct AST shape to hang
// the delegated-iterator slot off of.
type YieldStar struct {
	Base
	Iterable Expr
}

func (*YieldStar) node() {}
func (*YieldStar) expr() {}
