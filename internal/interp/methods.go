package interp

import "strings"

// arrayMethod and stringMethod back the small slice of Array.prototype /
// String.prototype members this interpreter supports. Methods that need to
// call back into a user-supplied callback (map/filter/forEach/reduce) take
// an *Interpreter closed over via the enclosing call, so they are built per
// Interpreter rather than as free functions.
func arrayMethod(arr *Array, name string) (*NativeFunction, bool) {
	switch name {
	case "push":
		return nativeFn(name, func(this any, args []any) (any, error) {
			arr.Elements = append(arr.Elements, args...)
			return float64(len(arr.Elements)), nil
		}), true
	case "pop":
		return nativeFn(name, func(this any, args []any) (any, error) {
			if len(arr.Elements) == 0 {
				return UndefinedValue, nil
			}
			last := arr.Elements[len(arr.Elements)-1]
			arr.Elements = arr.Elements[:len(arr.Elements)-1]
			return last, nil
		}), true
	case "shift":
		return nativeFn(name, func(this any, args []any) (any, error) {
			if len(arr.Elements) == 0 {
				return UndefinedValue, nil
			}
			first := arr.Elements[0]
			arr.Elements = arr.Elements[1:]
			return first, nil
		}), true
	case "unshift":
		return nativeFn(name, func(this any, args []any) (any, error) {
			arr.Elements = append(append([]any{}, args...), arr.Elements...)
			return float64(len(arr.Elements)), nil
		}), true
	case "slice":
		return nativeFn(name, func(this any, args []any) (any, error) {
			start, end := sliceBounds(args, len(arr.Elements))
			out := make([]any, 0, end-start)
			if start < end {
				out = append(out, arr.Elements[start:end]...)
			}
			return NewArray(out...), nil
		}), true
	case "concat":
		return nativeFn(name, func(this any, args []any) (any, error) {
			out := append([]any{}, arr.Elements...)
			for _, a := range args {
				if other, ok := a.(*Array); ok {
					out = append(out, other.Elements...)
				} else {
					out = append(out, a)
				}
			}
			return NewArray(out...), nil
		}), true
	case "join":
		return nativeFn(name, func(this any, args []any) (any, error) {
			sep := ","
			if s, ok := arg(args, 0).(string); ok {
				sep = s
			}
			parts := make([]string, len(arr.Elements))
			for i, el := range arr.Elements {
				if isNullish(el) {
					parts[i] = ""
					continue
				}
				parts[i] = Inspect(el)
			}
			return strings.Join(parts, sep), nil
		}), true
	case "indexOf":
		return nativeFn(name, func(this any, args []any) (any, error) {
			target := arg(args, 0)
			for i, el := range arr.Elements {
				if strictEquals(el, target) {
					return float64(i), nil
				}
			}
			return float64(-1), nil
		}), true
	case "includes":
		return nativeFn(name, func(this any, args []any) (any, error) {
			target := arg(args, 0)
			for _, el := range arr.Elements {
				if strictEquals(el, target) {
					return true, nil
				}
			}
			return false, nil
		}), true
	case "reverse":
		return nativeFn(name, func(this any, args []any) (any, error) {
			for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
				arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
			}
			return arr, nil
		}), true
	}
	return nil, false
}

// bindArrayCallbackMethod returns the callback-driven Array.prototype member
// named name (map/filter/forEach/reduce/find/findIndex/some/every), which
// needs to invoke back into the interpreter and so is wired through it
// rather than arrayMethod's receiver-only closures. getProperty in
// properties.go calls it on every array member access that arrayMethod
// does not handle.
func bindArrayCallbackMethod(it *Interpreter, arr *Array, name string) (*NativeFunction, bool) {
	call := func(fn any, callArgs ...any) any {
		v, err := it.Call(fn, UndefinedValue, callArgs)
		if err != nil {
			panic(&Exception{Value: err.Error()})
		}
		return v
	}
	switch name {
	case "map":
		return nativeFn(name, func(this any, args []any) (any, error) {
			out := make([]any, len(arr.Elements))
			for i, el := range arr.Elements {
				out[i] = call(arg(args, 0), el, float64(i), arr)
			}
			return NewArray(out...), nil
		}), true
	case "filter":
		return nativeFn(name, func(this any, args []any) (any, error) {
			var out []any
			for i, el := range arr.Elements {
				if Truthy(call(arg(args, 0), el, float64(i), arr)) {
					out = append(out, el)
				}
			}
			return NewArray(out...), nil
		}), true
	case "forEach":
		return nativeFn(name, func(this any, args []any) (any, error) {
			for i, el := range arr.Elements {
				call(arg(args, 0), el, float64(i), arr)
			}
			return UndefinedValue, nil
		}), true
	case "reduce":
		return nativeFn(name, func(this any, args []any) (any, error) {
			var acc any
			start := 0
			if len(args) > 1 {
				acc = args[1]
			} else if len(arr.Elements) > 0 {
				acc = arr.Elements[0]
				start = 1
			}
			for i := start; i < len(arr.Elements); i++ {
				acc = call(arg(args, 0), acc, arr.Elements[i], float64(i), arr)
			}
			return acc, nil
		}), true
	case "find":
		return nativeFn(name, func(this any, args []any) (any, error) {
			for i, el := range arr.Elements {
				if Truthy(call(arg(args, 0), el, float64(i), arr)) {
					return el, nil
				}
			}
			return UndefinedValue, nil
		}), true
	case "findIndex":
		return nativeFn(name, func(this any, args []any) (any, error) {
			for i, el := range arr.Elements {
				if Truthy(call(arg(args, 0), el, float64(i), arr)) {
					return float64(i), nil
				}
			}
			return float64(-1), nil
		}), true
	case "some":
		return nativeFn(name, func(this any, args []any) (any, error) {
			for i, el := range arr.Elements {
				if Truthy(call(arg(args, 0), el, float64(i), arr)) {
					return true, nil
				}
			}
			return false, nil
		}), true
	case "every":
		return nativeFn(name, func(this any, args []any) (any, error) {
			for i, el := range arr.Elements {
				if !Truthy(call(arg(args, 0), el, float64(i), arr)) {
					return false, nil
				}
			}
			return true, nil
		}), true
	}
	return nil, false
}

func sliceBounds(args []any, length int) (int, int) {
	start, end := 0, length
	if len(args) > 0 {
		start = normalizeIndex(toNumber(args[0]), length)
	}
	if len(args) > 1 {
		end = normalizeIndex(toNumber(args[1]), length)
	}
	if start > end {
		start = end
	}
	return start, end
}

func normalizeIndex(n float64, length int) int {
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func stringMethod(s string, name string) (*NativeFunction, bool) {
	switch name {
	case "toUpperCase":
		return nativeFn(name, func(this any, args []any) (any, error) { return strings.ToUpper(s), nil }), true
	case "toLowerCase":
		return nativeFn(name, func(this any, args []any) (any, error) { return strings.ToLower(s), nil }), true
	case "trim":
		return nativeFn(name, func(this any, args []any) (any, error) { return strings.TrimSpace(s), nil }), true
	case "split":
		return nativeFn(name, func(this any, args []any) (any, error) {
			sep, ok := arg(args, 0).(string)
			var parts []string
			if !ok {
				parts = []string{s}
			} else if sep == "" {
				for _, r := range s {
					parts = append(parts, string(r))
				}
			} else {
				parts = strings.Split(s, sep)
			}
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return NewArray(out...), nil
		}), true
	case "includes":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return strings.Contains(s, Inspect(arg(args, 0))), nil
		}), true
	case "indexOf":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return float64(strings.Index(s, Inspect(arg(args, 0)))), nil
		}), true
	case "startsWith":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return strings.HasPrefix(s, Inspect(arg(args, 0))), nil
		}), true
	case "endsWith":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return strings.HasSuffix(s, Inspect(arg(args, 0))), nil
		}), true
	case "replace":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return strings.Replace(s, Inspect(arg(args, 0)), Inspect(arg(args, 1)), 1), nil
		}), true
	case "replaceAll":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return strings.ReplaceAll(s, Inspect(arg(args, 0)), Inspect(arg(args, 1))), nil
		}), true
	case "charAt":
		return nativeFn(name, func(this any, args []any) (any, error) {
			runes := []rune(s)
			i := int(toNumber(arg(args, 0)))
			if i < 0 || i >= len(runes) {
				return "", nil
			}
			return string(runes[i]), nil
		}), true
	case "slice", "substring":
		return nativeFn(name, func(this any, args []any) (any, error) {
			runes := []rune(s)
			start, end := sliceBounds(args, len(runes))
			return string(runes[start:end]), nil
		}), true
	case "repeat":
		return nativeFn(name, func(this any, args []any) (any, error) {
			return strings.Repeat(s, int(toNumber(arg(args, 0)))), nil
		}), true
	case "concat":
		return nativeFn(name, func(this any, args []any) (any, error) {
			out := s
			for _, a := range args {
				out += Inspect(a)
			}
			return out, nil
		}), true
	}
	return nil, false
}
