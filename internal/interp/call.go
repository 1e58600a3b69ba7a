package interp

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/internal/iterbridge"
)

func (it *Interpreter) makeFunction(name string, params []ast.Param, body *ast.Block, kind ast.FunctionKind, fr *frame, isArrow bool) *Function {
	fn := &Function{Name: name, Params: params, Body: body, Kind: kind, Closure: fr.env, IsArrow: isArrow}
	return fn
}

// attachPlan records node's ID on fn and, when a plan was supplied, the
// closure planner's EnvID for it. The interpreter itself closes over fr.env
// directly (a Go closure already captures a superset of the planned
// Captures list); nothing in this package reads the recorded IDs back.
func (it *Interpreter) attachPlan(fn *Function, node ast.Node) {
	fn.NodeID = node.ID()
	if it.ClosurePlan == nil {
		return
	}
	if p, ok := it.ClosurePlan.Functions[node.ID()]; ok {
		fn.EnvID = p.Env
	}
}

func (it *Interpreter) makeArrow(n *ast.ArrowFunction, fr *frame) *Function {
	kind := ast.FuncPlain
	if n.IsAsync {
		kind = ast.FuncAsync
	}
	fn := &Function{
		Name:      "",
		Params:    n.Params,
		Body:      n.Body,
		Kind:      kind,
		Closure:   fr.env,
		ThisValue: fr.this,
		IsArrow:   true,
	}
	it.attachPlan(fn, n)
	return fn
}

func (it *Interpreter) evalCall(n *ast.Call, fr *frame) any {
	var this any
	var callee any
	switch c := n.Callee.(type) {
	case *ast.Get:
		obj := it.evalExpr(c.Object, fr)
		if c.Optional && isNullish(obj) {
			return UndefinedValue
		}
		this = obj
		if _, isSuper := c.Object.(*ast.SuperExpr); isSuper && fr.super != nil {
			if m, owner := fr.super.findMethod(c.Name); m != nil {
				callee = boundMethod(fr.this.(*Instance), m, owner)
				this = fr.this
			}
		} else {
			callee = it.getProperty(obj, c.Name)
		}
	case *ast.GetIndex:
		obj := it.evalExpr(c.Object, fr)
		this = obj
		callee = getIndex(obj, it.evalExpr(c.Index, fr))
	default:
		callee = it.evalExpr(n.Callee, fr)
	}
	if n.Optional && isNullish(callee) {
		return UndefinedValue
	}
	args := it.evalArgs(n.Args, fr)
	v, err := it.Call(callee, this, args)
	if err != nil {
		panic(&Exception{Value: err.Error()})
	}
	return v
}

func (it *Interpreter) evalArgs(exprs []ast.Expr, fr *frame) []any {
	var out []any
	for _, e := range exprs {
		if sp, ok := e.(*ast.SpreadArg); ok {
			iter, ok := it.iterate(it.evalExpr(sp.Value, fr))
			if !ok {
				it.throwRuntime(sp.Pos(), errorsx.ErrNotIterable, "spread argument is not iterable")
			}
			vals, err := iterbridge.Drain(iter)
			if err != nil {
				panic(&Exception{Value: err.Error()})
			}
			out = append(out, vals...)
			continue
		}
		out = append(out, it.evalExpr(e, fr))
	}
	return out
}

// Call dispatches callee — a *Function, *NativeFunction, or *Class used as
// a constructor-by-call-position escape hatch — with the given receiver
// and arguments.
func (it *Interpreter) Call(callee any, this any, args []any) (any, error) {
	switch fn := callee.(type) {
	case *NativeFunction:
		return fn.Fn(this, args)
	case *Function:
		return it.callFunction(fn, this, args)
	case *Class:
		inst := NewInstance(fn)
		_, err := it.construct(fn, inst, args)
		return inst, err
	default:
		return nil, fmt.Errorf("%s is not a function", Inspect(callee))
	}
}

func (it *Interpreter) callFunction(fn *Function, this any, args []any) (any, error) {
	receiver := fn.ThisValue
	if fn.IsArrow {
		receiver = fn.ThisValue // arrows ignore the call-site receiver
	} else if this != nil {
		receiver = this
	}
	switch fn.Kind {
	case ast.FuncGenerator, ast.FuncAsyncGenerator:
		return it.callGenerator(fn, receiver, args), nil
	case ast.FuncAsync:
		return it.callAsync(fn, receiver, args), nil
	default:
		return it.runFunctionBody(fn, receiver, args)
	}
}

func (it *Interpreter) bindParams(fn *Function, args []any, env *Environment, fr *frame) {
	for i, p := range fn.Params {
		var v any = UndefinedValue
		if p.Rest {
			rest := []any{}
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			env.Define(p.Name, NewArray(rest...), false)
			return
		}
		if i < len(args) {
			v = args[i]
		}
		if _, undef := v.(Undefined); undef && p.Default != nil {
			v = it.evalExpr(p.Default, fr)
		}
		if p.Pattern != nil {
			it.bindPattern(p.Pattern, v, fr, false)
			continue
		}
		env.Define(p.Name, v, false)
		// TypeScript's parameter-property shorthand: `constructor(private x: T)`
		// both declares and assigns the field in one step.
		if p.Accessibility != "" {
			if inst, ok := fr.this.(*Instance); ok {
				inst.Set(p.Name, v)
			}
		}
	}
}

func (it *Interpreter) runFunctionBody(fn *Function, this any, args []any) (result any, err error) {
	callEnv := NewEnvironment(fn.Closure)
	fr := &frame{env: callEnv, this: this}
	// A method body resolves `super` against the superclass of the class
	// that owns it.
	if inst, ok := this.(*Instance); ok && !fn.IsArrow {
		for c := inst.Class; c != nil; c = c.Super {
			if m, found := c.Methods[fn.Name]; found && m.Body == fn.Body {
				fr.super = c.Super
				break
			}
		}
	}
	it.bindParams(fn, args, callEnv, fr)
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				return
			}
			if exc, ok := r.(*Exception); ok {
				err = exc
				return
			}
			panic(r)
		}
	}()
	it.execStmt(fn.Body, fr)
	return UndefinedValue, nil
}

// callGenerator returns a GeneratorInstance immediately; the body does not
// start executing until the first call to .next().
func (it *Interpreter) callGenerator(fn *Function, this any, args []any) *GeneratorInstance {
	callEnv := NewEnvironment(fn.Closure)
	co := newCoroutine(func(co *coroutine) {
		fr := &frame{env: callEnv, this: this, co: co}
		it.bindParams(fn, args, callEnv, fr)
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					co.yieldCh <- yieldMsg{value: rs.value, done: true}
					return
				}
				if exc, ok := r.(*Exception); ok {
					co.yieldCh <- yieldMsg{err: exc, done: true}
					return
				}
				panic(r)
			}
		}()
		it.execStmt(fn.Body, fr)
		co.yieldCh <- yieldMsg{value: UndefinedValue, done: true}
	})
	return &GeneratorInstance{co: co}
}

// callAsync runs fn to completion on the calling goroutine, resolving the
// returned Promise with its return value or rejecting it with any
// uncaught exception; see generator.go's package comment for why async
// functions don't need their own coroutine here.
func (it *Interpreter) callAsync(fn *Function, this any, args []any) *Promise {
	p := &Promise{State: PromisePending}
	v, err := it.runFunctionBody(fn, this, args)
	if err != nil {
		if exc, ok := err.(*Exception); ok {
			p.Reject(exc.Value)
		} else {
			p.Reject(err.Error())
		}
		return p
	}
	p.Resolve(v)
	return p
}

func (it *Interpreter) evalAwait(n *ast.Await, fr *frame) any {
	v := it.evalExpr(n.Value, fr)
	p, ok := v.(*Promise)
	if !ok {
		return v
	}
	for p.State == PromisePending {
		if it.Collab.Tasks == nil {
			break
		}
		it.Collab.Tasks.RunUntilIdle()
		break
	}
	if p.State == PromiseRejected {
		panic(&Exception{Value: p.Err})
	}
	return p.Value
}

func (it *Interpreter) evalYield(n *ast.Yield, fr *frame) any {
	if fr.co == nil {
		it.throwRuntime(n.Pos(), errorsx.ErrAssertionFailed, "yield used outside a generator")
	}
	var v any = UndefinedValue
	if n.Value != nil {
		v = it.evalExpr(n.Value, fr)
	}
	fr.co.yieldCh <- yieldMsg{value: v}
	resume := <-fr.co.resumeCh
	if it.Collab.Metrics != nil {
		it.Collab.Metrics.IncSuspensionResume()
	}
	switch resume.kind {
	case resumeThrow:
		panic(&Exception{Value: resume.value})
	case resumeReturn:
		panic(returnSignal{value: resume.value})
	default:
		return resume.value
	}
}

func (it *Interpreter) evalYieldStar(n *ast.YieldStar, fr *frame) any {
	if fr.co == nil {
		it.throwRuntime(n.Pos(), errorsx.ErrAssertionFailed, "yield* used outside a generator")
	}
	src := it.evalExpr(n.Iterable, fr)
	iter, ok := it.iterate(src)
	if !ok {
		it.throwRuntime(n.Pos(), errorsx.ErrNotIterable, "yield* target is not iterable")
	}
	var last any = UndefinedValue
	for {
		v, done, err := iter.Next()
		if err != nil {
			panic(&Exception{Value: err.Error()})
		}
		if done {
			last = v
			break
		}
		fr.co.yieldCh <- yieldMsg{value: v}
		resume := <-fr.co.resumeCh
		switch resume.kind {
		case resumeThrow:
			panic(&Exception{Value: resume.value})
		case resumeReturn:
			panic(returnSignal{value: resume.value})
		}
	}
	return last
}

func (it *Interpreter) evalNew(n *ast.New, fr *frame) any {
	callee := it.evalExpr(n.Callee, fr)
	cls, ok := callee.(*Class)
	if !ok {
		it.throwRuntime(n.Pos(), errorsx.ErrAssertionFailed, "%s is not a constructor", Inspect(callee))
	}
	inst := NewInstance(cls)
	args := it.evalArgs(n.Args, fr)
	if _, err := it.construct(cls, inst, args); err != nil {
		panic(err)
	}
	return inst
}

// construct runs field initializers up the prototype chain (base class
// first) and then the most-derived constructor, matching TypeScript's
// field-initialization-before-constructor-body ordering for the common
// case of a constructor that doesn't reorder `super()`.
func (it *Interpreter) construct(cls *Class, inst *Instance, args []any) (any, error) {
	if cls.Super != nil {
		if _, err := it.construct(cls.Super, inst, args); err != nil {
			return nil, err
		}
	}
	fr := &frame{env: cls.Closure, this: inst, super: cls.Super}
	for _, f := range cls.Fields {
		if f.Static {
			continue
		}
		var v any = UndefinedValue
		if f.Init != nil {
			v = it.evalExpr(f.Init, fr)
		}
		inst.Set(f.Name, v)
	}
	ctor, ok := cls.Methods["constructor"]
	if !ok {
		return UndefinedValue, nil
	}
	fn := &Function{Name: "constructor", Params: ctor.Params, Body: ctor.Body, Kind: ast.FuncPlain, Closure: cls.Closure}
	return it.runFunctionBodyAs(fn, inst, cls.Super, args)
}

func (it *Interpreter) runFunctionBodyAs(fn *Function, this any, super *Class, args []any) (result any, err error) {
	callEnv := NewEnvironment(fn.Closure)
	fr := &frame{env: callEnv, this: this, super: super}
	it.bindParams(fn, args, callEnv, fr)
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				return
			}
			if exc, ok := r.(*Exception); ok {
				err = exc
				return
			}
			panic(r)
		}
	}()
	if fn.Body != nil {
		it.execStmt(fn.Body, fr)
	}
	return UndefinedValue, nil
}

func (it *Interpreter) evalClassDecl(n *ast.ClassDecl, fr *frame) *Class {
	cls := &Class{
		Name:          n.Name,
		Methods:       map[string]*ast.MethodMember{},
		StaticFields:  map[string]any{},
		StaticMethods: map[string]*ast.MethodMember{},
		Closure:       fr.env,
	}
	if n.SuperClass != nil {
		if ref, ok := n.SuperClass.(*ast.TypeRef); ok {
			if sv, ok := fr.env.Get(ref.Name); ok {
				cls.Super = sv.(*Class)
			}
		}
	}
	for _, m := range n.Members {
		switch mem := m.(type) {
		case *ast.MethodMember:
			name := mem.Name
			if mem.Kind == ast.MethodConstructor {
				name = "constructor"
			}
			if mem.Static {
				cls.StaticMethods[name] = mem
			} else {
				cls.Methods[name] = mem
			}
		case *ast.FieldMember:
			if mem.Static {
				var v any = UndefinedValue
				if mem.Init != nil {
					v = it.evalExpr(mem.Init, &frame{env: fr.env, this: cls})
				}
				cls.StaticFields[mem.Name] = v
			} else {
				cls.Fields = append(cls.Fields, mem)
			}
		}
	}
	return cls
}

// ---- iteration bridging -------------------------------------------------

func (it *Interpreter) iterate(v any) (iterbridge.Iterator, bool) {
	if arr, ok := v.(*Array); ok {
		v = arr.Elements
	}
	if it.bridge != nil {
		if iter, ok := it.bridge.Iterate(v); ok {
			return iter, true
		}
	}
	if it.Collab.Iterator != nil {
		return it.Collab.Iterator.WrapHostSequence(v)
	}
	return nil, false
}

func (it *Interpreter) hasNextMethod(v any) bool {
	if g, ok := v.(*GeneratorInstance); ok {
		return g != nil
	}
	return hasProperty(v, "next")
}

func (it *Interpreter) callNextMethod(v any) (any, bool, error) {
	if g, ok := v.(*GeneratorInstance); ok {
		return g.Next(UndefinedValue)
	}
	result, err := it.Call(it.getProperty(v, "next"), v, nil)
	if err != nil {
		return nil, true, err
	}
	value := it.getProperty(result, "value")
	done := Truthy(it.getProperty(result, "done"))
	return value, done, nil
}
