package interp

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sharpts/sharpts/internal/jsonvalue"
)

// installBuiltins populates the global environment with the global object,
// Math, JSON, and console — the minimal host-independent standard library
// every program can rely on regardless of which host.Collaborators an
// embedder supplies.
func installBuiltins(it *Interpreter) {
	g := it.Global
	g.Define("console", buildConsole(it), true)
	g.Define("Math", buildMath(), true)
	g.Define("JSON", buildJSON(), true)
	g.Define("NaN", math.NaN(), true)
	g.Define("Infinity", math.Inf(1), true)
	g.Define("undefined", UndefinedValue, true)
	g.Define("parseInt", nativeFn("parseInt", func(this any, args []any) (any, error) {
		s := strings.TrimSpace(Inspect(arg(args, 0)))
		base := 10
		if b, ok := arg(args, 1).(float64); ok && b != 0 {
			base = int(b)
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg, s = true, s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		end := 0
		for end < len(s) && isBaseDigit(s[end], base) {
			end++
		}
		if end == 0 {
			return math.NaN(), nil
		}
		n, err := strconv.ParseInt(s[:end], base, 64)
		if err != nil {
			return math.NaN(), nil
		}
		if neg {
			n = -n
		}
		return float64(n), nil
	}), true)
	g.Define("parseFloat", nativeFn("parseFloat", func(this any, args []any) (any, error) {
		s := strings.TrimSpace(Inspect(arg(args, 0)))
		end := 0
		seenDot := false
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		for end < len(s) && (isBaseDigit(s[end], 10) || (s[end] == '.' && !seenDot)) {
			if s[end] == '.' {
				seenDot = true
			}
			end++
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	}), true)
	g.Define("String", nativeFn("String", func(this any, args []any) (any, error) {
		return Inspect(arg(args, 0)), nil
	}), true)
	g.Define("Number", nativeFn("Number", func(this any, args []any) (any, error) {
		return toNumber(arg(args, 0)), nil
	}), true)
	g.Define("Boolean", nativeFn("Boolean", func(this any, args []any) (any, error) {
		return Truthy(arg(args, 0)), nil
	}), true)
	g.Define("Array", buildArrayCtor(), true)
}

func isBaseDigit(c byte, base int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < base
}

func buildConsole(it *Interpreter) *Object {
	o := NewObject()
	logFn := nativeFn("log", func(this any, args []any) (any, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = Inspect(a)
		}
		it.print(strings.Join(parts, " "))
		return UndefinedValue, nil
	})
	o.Set("log", logFn)
	o.Set("error", logFn)
	o.Set("warn", logFn)
	o.Set("info", logFn)
	return o
}

// print is a seam tests can override via Interpreter.Output; production
// code with no Output configured falls back to the builtin println rather
// than fmt.Println so it never competes with fmt's own buffering.
func (it *Interpreter) print(s string) {
	if it.Output != nil {
		it.Output(s)
		return
	}
	println(s)
}

func buildMath() *Object {
	o := NewObject()
	o.Set("PI", math.Pi)
	o.Set("E", math.E)
	unary := func(name string, fn func(float64) float64) {
		o.Set(name, nativeFn(name, func(this any, args []any) (any, error) {
			return fn(toNumber(arg(args, 0))), nil
		}))
	}
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("abs", math.Abs)
	unary("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
	o.Set("pow", nativeFn("pow", func(this any, args []any) (any, error) {
		return math.Pow(toNumber(arg(args, 0)), toNumber(arg(args, 1))), nil
	}))
	o.Set("max", nativeFn("max", func(this any, args []any) (any, error) {
		return reduceNumbers(args, math.Inf(-1), math.Max), nil
	}))
	o.Set("min", nativeFn("min", func(this any, args []any) (any, error) {
		return reduceNumbers(args, math.Inf(1), math.Min), nil
	}))
	o.Set("random", nativeFn("random", func(this any, args []any) (any, error) {
		return pseudoRandom(), nil
	}))
	return o
}

func reduceNumbers(args []any, seed float64, f func(a, b float64) float64) float64 {
	out := seed
	for _, a := range args {
		out = f(out, toNumber(a))
	}
	return out
}

// pseudoRandom is a deterministic placeholder: Math.random() in a
// reference interpreter used for snapshot-testable program output cannot
// depend on wall-clock entropy, matching how gkampitakis/go-snaps tests
// throughout this module expect reproducible runs.
var randState uint64 = 0x2545F4914F6CDD1D

func pseudoRandom() float64 {
	randState ^= randState << 13
	randState ^= randState >> 7
	randState ^= randState << 17
	return float64(randState%1_000_000) / 1_000_000
}

func buildJSON() *Object {
	o := NewObject()
	o.Set("stringify", nativeFn("stringify", func(this any, args []any) (any, error) {
		jv := toJSONValue(arg(args, 0))
		var out []byte
		var err error
		if indent, ok := arg(args, 2).(float64); ok && indent > 0 {
			out, err = json.MarshalIndent(jv, "", strings.Repeat(" ", int(indent)))
		} else {
			out, err = json.Marshal(jv)
		}
		if err != nil {
			return nil, err
		}
		return string(out), nil
	}))
	o.Set("parse", nativeFn("parse", func(this any, args []any) (any, error) {
		var raw any
		if err := json.Unmarshal([]byte(Inspect(arg(args, 0))), &raw); err != nil {
			return nil, err
		}
		return fromRawJSON(raw), nil
	}))
	return o
}

// toJSONValue converts a runtime value into the internal/jsonvalue tree so
// JSON.stringify serializes through that package's MarshalJSON rather than
// hand-rolling JSON text assembly.
func toJSONValue(v any) *jsonvalue.Value {
	switch x := v.(type) {
	case nil:
		return jsonvalue.NewNull()
	case Undefined:
		return jsonvalue.NewUndefined()
	case bool:
		return jsonvalue.NewBoolean(x)
	case float64:
		return jsonvalue.NewNumber(x)
	case string:
		return jsonvalue.NewString(x)
	case *Array:
		arr := jsonvalue.NewArray()
		for _, el := range x.Elements {
			arr.ArrayAppend(toJSONValue(el))
		}
		return arr
	case *Object:
		obj := jsonvalue.NewObject()
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			obj.ObjectSet(k, toJSONValue(val))
		}
		return obj
	case *Instance:
		obj := jsonvalue.NewObject()
		keys := make([]string, 0, len(x.Fields))
		for k := range x.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.ObjectSet(k, toJSONValue(x.Fields[k]))
		}
		return obj
	default:
		return jsonvalue.NewNull()
	}
}

func fromRawJSON(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case float64:
		return x
	case string:
		return x
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = fromRawJSON(el)
		}
		return NewArray(out...)
	case map[string]any:
		obj := NewObject()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, fromRawJSON(x[k]))
		}
		return obj
	default:
		return UndefinedValue
	}
}

func buildArrayCtor() *NativeFunction {
	return nativeFn("Array", func(this any, args []any) (any, error) {
		if len(args) == 1 {
			if n, ok := args[0].(float64); ok {
				elems := make([]any, int(n))
				for i := range elems {
					elems[i] = UndefinedValue
				}
				return NewArray(elems...), nil
			}
		}
		return NewArray(args...), nil
	})
}
