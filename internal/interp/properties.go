package interp

import "github.com/sharpts/sharpts/internal/ast"

// getProperty implements member-read (`obj.name`) across every runtime
// value shape, including virtual prototype-style members (array/string
// methods, `.length`) that have no backing storage slot. It is a method
// (rather than a free function like setProperty/getIndex) solely because
// Array's callback-driven members — map/filter/reduce — need the
// interpreter to invoke the callback argument.
func (it *Interpreter) getProperty(obj any, name string) any {
	switch x := obj.(type) {
	case nil, Undefined:
		return UndefinedValue
	case *Object:
		if v, ok := x.Get(name); ok {
			return v
		}
		return UndefinedValue
	case *Array:
		if name == "length" {
			return float64(len(x.Elements))
		}
		if fn, ok := arrayMethod(x, name); ok {
			return fn
		}
		if fn, ok := bindArrayCallbackMethod(it, x, name); ok {
			return fn
		}
		return UndefinedValue
	case string:
		if name == "length" {
			return float64(len([]rune(x)))
		}
		if fn, ok := stringMethod(x, name); ok {
			return fn
		}
		return UndefinedValue
	case *Instance:
		if v, ok := x.Get(name); ok {
			return v
		}
		if m, owner := x.Class.findMethod(name); m != nil {
			return boundMethod(x, m, owner)
		}
		return UndefinedValue
	case *Class:
		if v, ok := x.StaticFields[name]; ok {
			return v
		}
		if m, ok := x.StaticMethods[name]; ok {
			return &Function{Name: m.Name, Params: m.Params, Body: m.Body, Kind: m.FuncKind, Closure: x.Closure, ThisValue: x}
		}
		return UndefinedValue
	case *GeneratorInstance:
		if fn, ok := generatorMethod(x, name); ok {
			return fn
		}
		return UndefinedValue
	case *Promise:
		if fn, ok := promiseMethod(x, name); ok {
			return fn
		}
		return UndefinedValue
	default:
		return UndefinedValue
	}
}

func setProperty(obj any, name string, value any) {
	switch x := obj.(type) {
	case *Object:
		x.Set(name, value)
	case *Instance:
		x.Set(name, value)
	case *Class:
		x.StaticFields[name] = value
	}
}

func getIndex(obj any, index any) any {
	switch x := obj.(type) {
	case *Array:
		i, ok := indexOf(index, len(x.Elements))
		if !ok {
			return UndefinedValue
		}
		return x.Elements[i]
	case *Object:
		if v, ok := x.Get(Inspect(index)); ok {
			return v
		}
		return UndefinedValue
	case string:
		runes := []rune(x)
		i, ok := indexOf(index, len(runes))
		if !ok {
			return UndefinedValue
		}
		return string(runes[i])
	default:
		return UndefinedValue
	}
}

func setIndex(obj any, index any, value any) {
	switch x := obj.(type) {
	case *Array:
		i := int(toNumber(index))
		if i < 0 {
			return
		}
		for i >= len(x.Elements) {
			x.Elements = append(x.Elements, UndefinedValue)
		}
		x.Elements[i] = value
	case *Object:
		x.Set(Inspect(index), value)
	}
}

func indexOf(index any, length int) (int, bool) {
	i := int(toNumber(index))
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

// boundMethod wraps a class method so calling it (via evalCall's generic
// Function dispatch) supplies the receiver as `this` without the caller
// needing to know it came from a method-lookup rather than a free
// function.
func boundMethod(this *Instance, m *ast.MethodMember, owner *Class) *Function {
	return &Function{
		Name:      m.Name,
		Params:    m.Params,
		Body:      m.Body,
		Kind:      m.FuncKind,
		Closure:   owner.Closure,
		ThisValue: this,
	}
}

func nativeFn(name string, fn func(this any, args []any) (any, error)) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return UndefinedValue
}

func generatorMethod(g *GeneratorInstance, name string) (*NativeFunction, bool) {
	switch name {
	case "next":
		return nativeFn("next", func(this any, args []any) (any, error) {
			v, done, err := g.Next(arg(args, 0))
			if err != nil {
				return nil, err
			}
			return resultObject(v, done), nil
		}), true
	case "throw":
		return nativeFn("throw", func(this any, args []any) (any, error) {
			v, done, err := g.Throw(arg(args, 0))
			if err != nil {
				return nil, err
			}
			return resultObject(v, done), nil
		}), true
	case "return":
		return nativeFn("return", func(this any, args []any) (any, error) {
			v, done, err := g.Return(arg(args, 0))
			if err != nil {
				return nil, err
			}
			return resultObject(v, done), nil
		}), true
	}
	return nil, false
}

func promiseMethod(p *Promise, name string) (*NativeFunction, bool) {
	switch name {
	case "then":
		return nativeFn("then", func(this any, args []any) (any, error) {
			out := &Promise{State: PromisePending}
			p.Then(func(settled *Promise) {
				if settled.State == PromiseFulfilled {
					out.Resolve(settled.Value)
				} else {
					out.Reject(settled.Err)
				}
			})
			return out, nil
		}), true
	case "catch":
		return nativeFn("catch", func(this any, args []any) (any, error) {
			out := &Promise{State: PromisePending}
			p.Then(func(settled *Promise) { out.settle(settled.State, settled.pick()) })
			return out, nil
		}), true
	}
	return nil, false
}

func (p *Promise) pick() any {
	if p.State == PromiseFulfilled {
		return p.Value
	}
	return p.Err
}
