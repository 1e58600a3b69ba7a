// Package interp is the tree-walking interpreter for a checked SharpTS
// program: given an *ast.Program and its closure and suspension plans,
// Interpret evaluates the program's top-level statements to completion and
// then lets the supplied host.TaskScheduler run whatever was scheduled. A
// generator body starts on its first next() call; an async function runs
// to completion when called. Runtime values are represented as Go `any`
// rather than a closed tagged union, since — unlike internal/types' static TypeInfo, which must
// support structural comparison and substitution — a runtime value only
// ever needs a type switch at the point it's consumed.
package interp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/closure"
)

// Undefined is the sentinel for JavaScript's `undefined`, distinct from Go's
// nil which represents `null`.
type Undefined struct{}

var UndefinedValue = Undefined{}

// Array is a SharpTS array value: a resizable, reference-semantics sequence.
type Array struct {
	Elements []any
}

func NewArray(elems ...any) *Array { return &Array{Elements: elems} }

// Object is a plain object literal value: an insertion-ordered property bag.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Function is a user-defined function, method, or arrow function value: the
// declaration's AST plus its whole defining environment. This is a single
// box for all four FunctionKind/MethodKind shapes; Kind decides whether
// calling it runs on a coroutine (generator.go) or runs straight through
// (Interpreter.runFunctionBody).
type Function struct {
	Name      string
	Params    []ast.Param
	Body      ast.Stmt // *ast.Block, or a single *ast.Return for an arrow's expression body
	Kind      ast.FunctionKind
	Closure   *Environment
	ThisValue any // bound `this` for a method; nil for a free function
	IsArrow   bool
	EnvID     closure.EnvID
	NodeID    ast.NodeID
}

// Class is a class value: its own fields/methods plus an optional
// superclass for prototype-chain-style lookup.
type Class struct {
	Name        string
	Super       *Class
	Fields      []*ast.FieldMember
	Methods     map[string]*ast.MethodMember
	StaticFields map[string]any
	StaticMethods map[string]*ast.MethodMember
	Closure     *Environment
}

func (c *Class) findMethod(name string) (*ast.MethodMember, *Class) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Methods[name]; ok {
			return m, cls
		}
	}
	return nil, nil
}

// Instance is a class instance value: its class plus its own field slots.
type Instance struct {
	Class  *Class
	Fields map[string]any
}

func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: map[string]any{}}
}

func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.Fields[name]
	return v, ok
}

func (i *Instance) Set(name string, value any) {
	i.Fields[name] = value
}

// Exception wraps a thrown value so `throw`/`catch` can propagate any
// runtime value (not just Error instances) through Go's own error/panic
// mechanism without losing it to a stringified message.
type Exception struct {
	Value any
}

func (e *Exception) Error() string {
	return fmt.Sprintf("uncaught exception: %s", Inspect(e.Value))
}

// PromiseState is the settlement state of a Promise value.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// Promise is a minimal eager promise: since this interpreter has no real
// parallelism, a Promise is always either already settled (the common case,
// since host async operations in this embedding run to completion
// synchronously before their Promise is constructed) or pending on a
// specific microtask the host.TaskScheduler will run. Awaiting a pending
// Promise drains the scheduler until it settles.
type Promise struct {
	State PromiseState
	Value any
	Err   any // the rejection reason, when State == PromiseRejected

	// onSettle queues callbacks to invoke once the promise settles;
	// populated only while State == PromisePending.
	onSettle []func(*Promise)
}

func ResolvedPromise(v any) *Promise { return &Promise{State: PromiseFulfilled, Value: v} }
func RejectedPromise(reason any) *Promise { return &Promise{State: PromiseRejected, Err: reason} }

func (p *Promise) settle(state PromiseState, value any) {
	if p.State != PromisePending {
		return
	}
	p.State = state
	if state == PromiseFulfilled {
		p.Value = value
	} else {
		p.Err = value
	}
	for _, fn := range p.onSettle {
		fn(p)
	}
	p.onSettle = nil
}

func (p *Promise) Resolve(v any) { p.settle(PromiseFulfilled, v) }
func (p *Promise) Reject(v any)  { p.settle(PromiseRejected, v) }

// Then registers fn to run once p settles; if p is already settled, fn
// runs immediately.
func (p *Promise) Then(fn func(*Promise)) {
	if p.State != PromisePending {
		fn(p)
		return
	}
	p.onSettle = append(p.onSettle, fn)
}

// NativeFunction is a builtin implemented in Go (console.log, Math.floor,
// Array.prototype.map, ...).
type NativeFunction struct {
	Name string
	Fn   func(this any, args []any) (any, error)
}

// Truthy implements JavaScript's ToBoolean abstract operation for the
// values this interpreter can produce.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case Undefined:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// Inspect renders v the way `console.log`/template-literal coercion would.
func Inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case Undefined:
		return "undefined"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(x)
	case string:
		return x
	case *Array:
		parts := make([]string, len(x.Elements))
		for i, el := range x.Elements {
			parts[i] = Inspect(el)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case *Object:
		keys := x.Keys()
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			parts = append(parts, fmt.Sprintf("%s: %s", k, Inspect(val)))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *Instance:
		return fmt.Sprintf("%s {...}", x.Class.Name)
	case *Function:
		return fmt.Sprintf("[Function: %s]", x.Name)
	case *NativeFunction:
		return fmt.Sprintf("[Function: %s]", x.Name)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%g", f)
}
