package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/closure"
	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/internal/host"
	"github.com/sharpts/sharpts/internal/iterbridge"
	"github.com/sharpts/sharpts/internal/suspend"
	"github.com/sharpts/sharpts/internal/token"
)

// Interpreter evaluates a checked *ast.Program directly off its AST. A
// function value closes over its whole defining environment; the closure
// plan is used only to stamp each function value's EnvID (see attachPlan).
// Whether a call runs on a coroutine is decided by the function's Kind
// alone; the suspension plan is kept in SuspendPlan and not read by this
// package.
type Interpreter struct {
	Global      *Environment
	Collab      *host.Collaborators
	ClosurePlan *closure.Plan
	SuspendPlan *suspend.Plan
	bridge      *iterbridge.Bridge
	asyncBridge *iterbridge.AsyncBridge
	source      string
	file        string

	// Output, when non-nil, receives every console.log/warn/error/info line;
	// when nil, lines go to the builtin println, which writes to standard
	// error. Tests set this to capture program output.
	Output func(string)
}

// frame is the interpreter's per-call execution context: the current
// lexical environment, the `this` binding, the superclass to resolve
// `super.method()` against, and (inside a generator/async generator body)
// the coroutine suspension points communicate through.
type frame struct {
	env   *Environment
	this  any
	super *Class
	co    *coroutine
}

func (fr *frame) child() *frame {
	nf := *fr
	nf.env = NewEnvironment(fr.env)
	return &nf
}

// Control-flow signals unwind the Go call stack via panic/recover, the
// same approach the teacher's own statement evaluator uses for
// break/continue/return rather than threading a sentinel return value
// through every statement case.
type breakSignal struct{ label string }
type continueSignal struct{ label string }
type returnSignal struct{ value any }

func New(collab *host.Collaborators) *Interpreter {
	if collab == nil {
		collab = &host.Collaborators{}
	}
	it := &Interpreter{
		Global: NewEnvironment(nil),
		Collab: collab,
	}
	it.bridge = iterbridge.NewBridge(
		iterbridge.SliceSource{},
		iterbridge.StringSource{},
		iterbridge.NextMethodSource{HasNext: it.hasNextMethod, CallNext: it.callNextMethod},
	)
	it.asyncBridge = iterbridge.NewAsyncBridge()
	installBuiltins(it)
	return it
}

// Interpret runs prog's top-level statements to completion and then drains
// the task scheduler, matching spec.md §6's blocking `interpret` contract:
// the call does not return until every microtask and timer the program
// scheduled has also run.
func (it *Interpreter) Interpret(prog *ast.Program, plan *closure.Plan, sp *suspend.Plan, source string) (err error) {
	it.ClosurePlan = plan
	it.SuspendPlan = sp
	it.source = source
	it.file = prog.ModulePath
	fr := &frame{env: it.Global}

	defer func() {
		if r := recover(); r != nil {
			err = it.recoverTop(r)
		}
	}()

	for _, s := range prog.Statements {
		it.execStmt(s, fr)
	}
	if it.Collab.Tasks != nil {
		it.Collab.Tasks.RunUntilIdle()
	}
	return nil
}

func (it *Interpreter) recoverTop(r any) error {
	switch v := r.(type) {
	case *Exception:
		d := errorsx.New(errorsx.StageRuntime, it.file, errorsx.ErrUncaughtException, Inspect(v.Value), 0, 0)
		if it.Collab.Errors != nil {
			it.Collab.Errors.Report(d)
		}
		return v
	case returnSignal, breakSignal, continueSignal:
		// a bare top-level return/break/continue outside any function or
		// loop; the type checker is expected to reject this, but the
		// interpreter treats it as a silent no-op rather than crashing.
		return nil
	default:
		panic(r)
	}
}

func (it *Interpreter) throwRuntime(pos token.Position, code, format string, args ...any) {
	rerr := errorsx.NewRuntimeError(pos, code, format, args...)
	panic(&Exception{Value: rerr.Error()})
}

// ---- statements -----------------------------------------------------

func (it *Interpreter) execStmt(s ast.Stmt, fr *frame) {
	switch n := s.(type) {
	case *ast.VarDecl:
		it.execVarDecl(n, fr)
	case *ast.ExpressionStmt:
		it.evalExpr(n.Expression, fr)
	case *ast.Block:
		bf := fr.child()
		for _, st := range n.Statements {
			it.execStmt(st, bf)
		}
	case *ast.If:
		if Truthy(it.evalExpr(n.Cond, fr)) {
			it.execStmt(n.Then, fr.child())
		} else if n.Else != nil {
			it.execStmt(n.Else, fr.child())
		}
	case *ast.While:
		it.execLoop(n.Label, func() {
			for Truthy(it.evalExpr(n.Cond, fr)) {
				if it.runLoopBody(n.Body, fr, n.Label) {
					break
				}
			}
		})
	case *ast.DoWhile:
		it.execLoop(n.Label, func() {
			for {
				if it.runLoopBody(n.Body, fr, n.Label) {
					break
				}
				if !Truthy(it.evalExpr(n.Cond, fr)) {
					break
				}
			}
		})
	case *ast.For:
		it.execFor(n, fr)
	case *ast.ForOf:
		it.execForOf(n, fr)
	case *ast.ForIn:
		it.execForIn(n, fr)
	case *ast.Sequence:
		bf := fr.child()
		for _, st := range n.Statements {
			it.execStmt(st, bf)
		}
	case *ast.Return:
		var v any = UndefinedValue
		if n.Value != nil {
			v = it.evalExpr(n.Value, fr)
		}
		panic(returnSignal{value: v})
	case *ast.Break:
		panic(breakSignal{label: n.Label})
	case *ast.Continue:
		panic(continueSignal{label: n.Label})
	case *ast.TryCatch:
		it.execTryCatch(n, fr)
	case *ast.Throw:
		panic(&Exception{Value: it.evalExpr(n.Value, fr)})
	case *ast.Switch:
		it.execSwitch(n, fr)
	case *ast.LabeledStatement:
		it.execLabeled(n, fr)
	case *ast.FunctionDecl:
		fn := it.makeFunction(n.Name, n.Params, n.Body, n.Kind, fr, false)
		it.attachPlan(fn, n)
		fr.env.Define(n.Name, fn, false)
	case *ast.ClassDecl:
		cls := it.evalClassDecl(n, fr)
		fr.env.Define(n.Name, cls, false)
	case *ast.EnumDecl:
		it.execEnumDecl(n, fr)
	case *ast.TypeAliasDecl, *ast.NamespaceDecl, *ast.ImportDecl, *ast.ImportAliasDecl, *ast.ExportDecl:
		// purely static / module-graph concerns; no runtime effect for a
		// single already-resolved program.
	default:
		panic(fmt.Sprintf("interp: unhandled statement %T", s))
	}
}

func (it *Interpreter) execLoop(label string, body func()) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(breakSignal); ok && (b.label == "" || b.label == label) {
				return
			}
			panic(r)
		}
	}()
	body()
}

// runLoopBody executes one iteration of a loop body, catching a `continue`
// targeted at this loop (or unlabeled) and reporting whether the loop
// should stop entirely (a `break` propagates past this function via
// panic, caught by execLoop).
func (it *Interpreter) runLoopBody(body ast.Stmt, fr *frame, label string) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			if c, ok := r.(continueSignal); ok && (c.label == "" || c.label == label) {
				return
			}
			panic(r)
		}
	}()
	it.execStmt(body, fr.child())
	return false
}

func (it *Interpreter) execFor(n *ast.For, fr *frame) {
	loopFr := fr.child()
	if n.Init != nil {
		it.execStmt(n.Init, loopFr)
	}
	it.execLoop(n.Label, func() {
		for n.Cond == nil || Truthy(it.evalExpr(n.Cond, loopFr)) {
			if it.runLoopBody(n.Body, loopFr, n.Label) {
				break
			}
			if n.Update != nil {
				it.evalExpr(n.Update, loopFr)
			}
		}
	})
}

func (it *Interpreter) execForOf(n *ast.ForOf, fr *frame) {
	iterable := it.evalExpr(n.Iterable, fr)
	iter, ok := it.iterate(iterable)
	if !ok {
		it.throwRuntime(n.Pos(), errorsx.ErrNotIterable, "value is not iterable")
	}
	it.execLoop(n.Label, func() {
		for {
			v, done, err := iter.Next()
			if err != nil {
				panic(&Exception{Value: err.Error()})
			}
			if done {
				break
			}
			bodyFr := fr.child()
			it.bindForTarget(n.Kind, n.Name, n.Pattern, v, bodyFr)
			if it.runLoopBody(n.Body, bodyFr, n.Label) {
				break
			}
		}
	})
}

func (it *Interpreter) execForIn(n *ast.ForIn, fr *frame) {
	obj := it.evalExpr(n.Object, fr)
	keys := enumerableKeys(obj)
	it.execLoop(n.Label, func() {
		for _, k := range keys {
			bodyFr := fr.child()
			bodyFr.env.Define(n.Name, k, n.Kind == ast.VarKindConst)
			if it.runLoopBody(n.Body, bodyFr, n.Label) {
				break
			}
		}
	})
}

func enumerableKeys(v any) []string {
	switch x := v.(type) {
	case *Object:
		return x.Keys()
	case *Array:
		out := make([]string, len(x.Elements))
		for i := range x.Elements {
			out[i] = fmt.Sprintf("%d", i)
		}
		return out
	case *Instance:
		out := make([]string, 0, len(x.Fields))
		for k := range x.Fields {
			out = append(out, k)
		}
		return out
	default:
		return nil
	}
}

func (it *Interpreter) bindForTarget(kind ast.VarKind, name string, pattern *ast.BindingPattern, v any, fr *frame) {
	constant := kind == ast.VarKindConst
	if pattern != nil {
		it.bindPattern(pattern, v, fr, constant)
		return
	}
	fr.env.Define(name, v, constant)
}

func (it *Interpreter) execTryCatch(n *ast.TryCatch, fr *frame) {
	runFinally := func() {
		if n.Finally != nil {
			it.execStmt(n.Finally, fr.child())
		}
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				exc, ok := r.(*Exception)
				if !ok || n.Catch == nil {
					runFinally()
					panic(r)
				}
				cf := fr.child()
				if n.Catch.Param != "" {
					cf.env.Define(n.Catch.Param, exc.Value, false)
				}
				func() {
					defer func() {
						if r2 := recover(); r2 != nil {
							runFinally()
							panic(r2)
						}
					}()
					it.execStmt(n.Catch.Body, cf)
				}()
			}
		}()
		it.execStmt(n.Try, fr.child())
	}()
	runFinally()
}

func (it *Interpreter) execSwitch(n *ast.Switch, fr *frame) {
	disc := it.evalExpr(n.Discriminant, fr)
	sf := fr.child()
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(breakSignal); ok && b.label == "" {
				return
			}
			panic(r)
		}
	}()
	matched := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			continue
		}
		if strictEquals(disc, it.evalExpr(c.Test, sf)) {
			matched = i
			break
		}
	}
	if matched == -1 {
		for i, c := range n.Cases {
			if c.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched == -1 {
		return
	}
	for _, c := range n.Cases[matched:] {
		for _, st := range c.Body {
			it.execStmt(st, sf)
		}
	}
}

func (it *Interpreter) execLabeled(n *ast.LabeledStatement, fr *frame) {
	switch n.Body.(type) {
	case *ast.While, *ast.DoWhile, *ast.For, *ast.ForOf, *ast.ForIn:
		it.execStmt(n.Body, fr)
		return
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				if b, ok := r.(breakSignal); ok && b.label == n.Label {
					return
				}
				panic(r)
			}
		}()
		it.execStmt(n.Body, fr.child())
	}()
}

func (it *Interpreter) execVarDecl(n *ast.VarDecl, fr *frame) {
	constant := n.Kind == ast.VarKindConst
	for _, d := range n.Declarators {
		var v any = UndefinedValue
		if d.Init != nil {
			v = it.evalExpr(d.Init, fr)
		}
		if d.Pattern != nil {
			it.bindPattern(d.Pattern, v, fr, constant)
			continue
		}
		fr.env.Define(d.Name, v, constant)
	}
}

func (it *Interpreter) bindPattern(p *ast.BindingPattern, v any, fr *frame, constant bool) {
	switch p.Kind {
	case ast.PatternArray:
		elems := toSlice(v)
		i := 0
		for _, el := range p.Elements {
			if el.Rest {
				rest := []any{}
				if i < len(elems) {
					rest = append(rest, elems[i:]...)
				}
				it.bindPatternElement(el, NewArray(rest...), fr, constant)
				break
			}
			var ev any = UndefinedValue
			if i < len(elems) {
				ev = elems[i]
			}
			i++
			if el.Target == "" && el.Nested == nil {
				continue // elision: `[a, , b]`
			}
			it.bindPatternElement(el, ev, fr, constant)
		}
	case ast.PatternObject:
		used := map[string]bool{}
		for _, el := range p.Elements {
			if el.Rest {
				rest := NewObject()
				if o, ok := v.(*Object); ok {
					for _, k := range o.Keys() {
						if !used[k] {
							val, _ := o.Get(k)
							rest.Set(k, val)
						}
					}
				}
				it.bindPatternElement(el, rest, fr, constant)
				continue
			}
			used[el.Key] = true
			ev := it.getProperty(v, el.Key)
			it.bindPatternElement(el, ev, fr, constant)
		}
	}
}

func (it *Interpreter) bindPatternElement(el ast.PatternElement, v any, fr *frame, constant bool) {
	if _, isUndef := v.(Undefined); isUndef && el.Default != nil {
		v = it.evalExpr(el.Default, fr)
	}
	if el.Nested != nil {
		it.bindPattern(el.Nested, v, fr, constant)
		return
	}
	fr.env.Define(el.Target, v, constant)
}

func toSlice(v any) []any {
	switch x := v.(type) {
	case *Array:
		return x.Elements
	case string:
		runes := []rune(x)
		out := make([]any, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	default:
		return nil
	}
}

func (it *Interpreter) execEnumDecl(n *ast.EnumDecl, fr *frame) {
	obj := NewObject()
	next := 0.0
	for _, m := range n.Members {
		var v any
		if m.Value != nil {
			v = it.evalExpr(m.Value, fr)
			if f, ok := v.(float64); ok {
				next = f + 1
			}
		} else if n.Kind == ast.EnumString {
			v = m.Name
		} else {
			v = next
			next++
		}
		obj.Set(m.Name, v)
		if f, ok := v.(float64); ok {
			obj.Set(formatNumber(f), m.Name)
		}
	}
	fr.env.Define(n.Name, obj, true)
}

// ---- expressions ------------------------------------------------------

func (it *Interpreter) evalExpr(e ast.Expr, fr *frame) any {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n.Value)
	case *ast.Ident:
		if v, ok := fr.env.Get(n.Name); ok {
			return v
		}
		it.throwRuntime(n.Pos(), errorsx.ErrNullDereference, "%s is not defined", n.Name)
	case *ast.ThisExpr:
		return fr.this
	case *ast.SuperExpr:
		return fr.super
	case *ast.Binary:
		return it.evalBinary(n, fr)
	case *ast.Logical:
		left := it.evalExpr(n.Left, fr)
		if n.Operator == token.LOGICAL_AND {
			if !Truthy(left) {
				return left
			}
			return it.evalExpr(n.Right, fr)
		}
		if Truthy(left) {
			return left
		}
		return it.evalExpr(n.Right, fr)
	case *ast.NullishCoalescing:
		left := it.evalExpr(n.Left, fr)
		if isNullish(left) {
			return it.evalExpr(n.Right, fr)
		}
		return left
	case *ast.Unary:
		return it.evalUnary(n, fr)
	case *ast.Grouping:
		return it.evalExpr(n.Inner, fr)
	case *ast.Call:
		return it.evalCall(n, fr)
	case *ast.New:
		return it.evalNew(n, fr)
	case *ast.Get:
		obj := it.evalExpr(n.Object, fr)
		if n.Optional && isNullish(obj) {
			return UndefinedValue
		}
		return it.getProperty(obj, n.Name)
	case *ast.Set:
		obj := it.evalExpr(n.Object, fr)
		v := it.evalExpr(n.Value, fr)
		setProperty(obj, n.Name, v)
		return v
	case *ast.GetIndex:
		obj := it.evalExpr(n.Object, fr)
		if n.Optional && isNullish(obj) {
			return UndefinedValue
		}
		idx := it.evalExpr(n.Index, fr)
		return getIndex(obj, idx)
	case *ast.SetIndex:
		obj := it.evalExpr(n.Object, fr)
		idx := it.evalExpr(n.Index, fr)
		v := it.evalExpr(n.Value, fr)
		setIndex(obj, idx, v)
		return v
	case *ast.Assign:
		v := it.evalExpr(n.Value, fr)
		if err := fr.env.Assign(n.Name, v); err != nil {
			panic(&Exception{Value: err.Error()})
		}
		return v
	case *ast.CompoundAssign:
		cur, _ := fr.env.Get(n.Name)
		v := applyBinaryOp(n.Operator, cur, it.evalExpr(n.Value, fr))
		if err := fr.env.Assign(n.Name, v); err != nil {
			panic(&Exception{Value: err.Error()})
		}
		return v
	case *ast.CompoundSet:
		obj := it.evalExpr(n.Object, fr)
		cur := it.getProperty(obj, n.Name)
		v := applyBinaryOp(n.Operator, cur, it.evalExpr(n.Value, fr))
		setProperty(obj, n.Name, v)
		return v
	case *ast.CompoundSetIndex:
		obj := it.evalExpr(n.Object, fr)
		idx := it.evalExpr(n.Index, fr)
		cur := getIndex(obj, idx)
		v := applyBinaryOp(n.Operator, cur, it.evalExpr(n.Value, fr))
		setIndex(obj, idx, v)
		return v
	case *ast.PrefixIncrement:
		v := numAdjust(it.evalExpr(n.Target, fr), n.Decrement)
		it.assignTo(n.Target, v, fr)
		return v
	case *ast.PostfixIncrement:
		old := it.evalExpr(n.Target, fr)
		it.assignTo(n.Target, numAdjust(old, n.Decrement), fr)
		return toNumber(old)
	case *ast.Ternary:
		if Truthy(it.evalExpr(n.Cond, fr)) {
			return it.evalExpr(n.Then, fr)
		}
		return it.evalExpr(n.Else, fr)
	case *ast.TypeAssertion:
		return it.evalExpr(n.Expr, fr)
	case *ast.TemplateLiteral:
		var sb strings.Builder
		for i, q := range n.Quasis {
			sb.WriteString(q)
			if i < len(n.Holes) {
				sb.WriteString(Inspect(it.evalExpr(n.Holes[i], fr)))
			}
		}
		return sb.String()
	case *ast.ArrayLiteral:
		out := []any{}
		for _, el := range n.Elements {
			if sp, ok := el.(*ast.SpreadArg); ok {
				iter, ok := it.iterate(it.evalExpr(sp.Value, fr))
				if !ok {
					it.throwRuntime(sp.Pos(), errorsx.ErrNotIterable, "spread target is not iterable")
				}
				vals, err := iterbridge.Drain(iter)
				if err != nil {
					panic(&Exception{Value: err.Error()})
				}
				out = append(out, vals...)
				continue
			}
			out = append(out, it.evalExpr(el, fr))
		}
		return NewArray(out...)
	case *ast.ObjectLiteral:
		obj := NewObject()
		for _, p := range n.Properties {
			if p.Spread {
				src := it.evalExpr(p.Value, fr)
				if o, ok := src.(*Object); ok {
					for _, k := range o.Keys() {
						v, _ := o.Get(k)
						obj.Set(k, v)
					}
				}
				continue
			}
			key := p.Key
			if p.Computed != nil {
				key = Inspect(it.evalExpr(p.Computed, fr))
			}
			obj.Set(key, it.evalExpr(p.Value, fr))
		}
		return obj
	case *ast.ArrowFunction:
		return it.makeArrow(n, fr)
	case *ast.Await:
		return it.evalAwait(n, fr)
	case *ast.Yield:
		return it.evalYield(n, fr)
	case *ast.YieldStar:
		return it.evalYieldStar(n, fr)
	case *ast.SpreadArg:
		return it.evalExpr(n.Value, fr)
	}
	panic(fmt.Sprintf("interp: unhandled expression %T", e))
}

func literalValue(v any) any {
	if _, ok := v.(ast.LiteralUndefined); ok {
		return UndefinedValue
	}
	return v
}

func isNullish(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Undefined)
	return ok
}

func numAdjust(v any, decrement bool) any {
	n := toNumber(v)
	if decrement {
		return n - 1
	}
	return n + 1
}

// assignTo re-assigns the lvalue expression target (used by ++/--), which
// the parser only ever produces as an Ident, Get, or GetIndex.
func (it *Interpreter) assignTo(target ast.Expr, v any, fr *frame) {
	switch t := target.(type) {
	case *ast.Ident:
		if err := fr.env.Assign(t.Name, v); err != nil {
			panic(&Exception{Value: err.Error()})
		}
	case *ast.Get:
		setProperty(it.evalExpr(t.Object, fr), t.Name, v)
	case *ast.GetIndex:
		setIndex(it.evalExpr(t.Object, fr), it.evalExpr(t.Index, fr), v)
	default:
		panic(fmt.Sprintf("interp: invalid assignment target %T", target))
	}
}

func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(x), "%g", &f); err != nil {
			return math.NaN()
		}
		return f
	case nil:
		return 0
	case Undefined:
		return math.NaN()
	default:
		return math.NaN()
	}
}
