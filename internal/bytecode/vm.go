package bytecode

import (
	"fmt"
	"math"

	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/internal/token"
)

const (
	defaultStackCapacity = 256
	defaultFrameCapacity = 16
)

// callFrame is one active function invocation: its Chunk, instruction
// pointer, the stack slot its locals start at, and the upvalue cells a
// closure over it captured.
type callFrame struct {
	chunk       *Chunk
	ip          int
	basePointer int
	upvalues    []*Upvalue
	handlers    []activeHandler
}

// activeHandler is one live try block within a frame: the TryInfo it was
// pushed with, plus the stack depth to restore to when unwinding into its
// catch clause (discarding whatever the try body pushed before it threw).
type activeHandler struct {
	info       TryInfo
	stackDepth int
}

// exception is the Go-level carrier for a thrown SharpTS value as it
// unwinds the VM's Go call stack — the bytecode analogue of
// internal/interp's Exception panic value.
type exception struct {
	value Value
}

func (e *exception) Error() string {
	return fmt.Sprintf("uncaught exception: %s", e.value.String())
}

// VM executes Chunks produced by Emitter. Global bindings are a plain
// name-keyed map rather than a slot array (unlike the teacher's VM, which
// resolves globals to fixed indices at compile time) since SharpTS allows
// forward references between top-level function declarations that the
// single-pass emitter here does not pre-resolve.
type VM struct {
	stack    []Value
	frames   []callFrame
	globals  map[string]Value
	builtins map[string]*NativeFunction
	Output   func(string)
}

func NewVM() *VM {
	return &VM{
		stack:    make([]Value, 0, defaultStackCapacity),
		frames:   make([]callFrame, 0, defaultFrameCapacity),
		globals:  make(map[string]Value),
		builtins: make(map[string]*NativeFunction),
	}
}

// DefineGlobal pre-seeds a global binding — used to expose host builtins
// (console.log, Math, ...) to compiled code the way internal/interp's
// installBuiltins seeds its Environment.
func (vm *VM) DefineGlobal(name string, v Value) {
	vm.globals[name] = v
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

// Run executes chunk as the program's top-level body (no enclosing
// upvalues). On OpHalt it returns the value left on top of the stack —
// the final expression statement's value, which Emit keeps there — or
// undefined when the stack is empty.
func (vm *VM) Run(chunk *Chunk) (Value, error) {
	vm.stack = vm.stack[:0]
	vm.frames = append(vm.frames[:0], callFrame{chunk: chunk})
	return vm.run()
}

func (vm *VM) run() (Value, error) {
	for {
		frame := &vm.frames[len(vm.frames)-1]
		if frame.ip >= len(frame.chunk.Code) {
			return UndefinedValue(), nil
		}
		inst := frame.chunk.Code[frame.ip]
		frame.ip++
		line := 0
		if frame.ip-1 < len(frame.chunk.Lines) {
			line = frame.chunk.Lines[frame.ip-1]
		}
		pos := token.Position{Line: line}

		switch inst.OpCode() {
		case OpConstant:
			vm.push(frame.chunk.Constants[inst.B()])
		case OpNil:
			vm.push(NullValue())
		case OpUndefined:
			vm.push(UndefinedValue())
		case OpTrue:
			vm.push(BoolValue(true))
		case OpFalse:
			vm.push(BoolValue(false))

		case OpGetLocal:
			vm.push(vm.stack[frame.basePointer+int(inst.A())])
		case OpSetLocal:
			vm.stack[frame.basePointer+int(inst.A())] = vm.peek(0)

		case OpGetGlobal:
			name := frame.chunk.Constants[inst.B()].Data.(string)
			v, ok := vm.globals[name]
			if !ok {
				return UndefinedValue(), errorsx.NewRuntimeError(pos, errorsx.ErrUncaughtException, "%s is not defined", name)
			}
			vm.push(v)
		case OpSetGlobal:
			name := frame.chunk.Constants[inst.B()].Data.(string)
			vm.globals[name] = vm.peek(0)
		case OpDefineGlobal:
			// Unlike OpSetGlobal (used mid-expression, where the
			// assignment's value must remain on the stack), this only
			// ever appears after a declaration statement's initializer,
			// so the value is consumed rather than left behind.
			name := frame.chunk.Constants[inst.B()].Data.(string)
			vm.globals[name] = vm.pop()

		case OpGetUpvalue:
			vm.push(frame.upvalues[inst.A()].Value)
		case OpSetUpvalue:
			frame.upvalues[inst.A()].Value = vm.peek(0)

		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow,
			OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr, OpUShr,
			OpEqual, OpStrictEqual, OpNotEqual, OpStrictNotEqual,
			OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
			right := vm.pop()
			left := vm.pop()
			result, err := applyBinary(inst.OpCode(), left, right)
			if err != nil {
				if !vm.raise(errToValue(err)) {
					return UndefinedValue(), err
				}
				continue
			}
			vm.push(result)

		case OpNegate:
			vm.push(NumberValue(-toNum(vm.pop())))
		case OpNot:
			vm.push(BoolValue(!Truthy(vm.pop())))
		case OpBitNot:
			vm.push(NumberValue(float64(^toInt32(vm.pop()))))

		case OpPop:
			vm.pop()
		case OpDup:
			vm.push(vm.peek(0))

		case OpJump:
			frame.ip += int(inst.SignedB())
		case OpJumpIfFalse:
			if !Truthy(vm.peek(0)) {
				frame.ip += int(inst.SignedB())
			}
		case OpJumpIfTrue:
			if Truthy(vm.pop()) {
				frame.ip += int(inst.SignedB())
			}
		case OpJumpIfFalseNoPop:
			if !Truthy(vm.peek(0)) {
				frame.ip += int(inst.SignedB())
			}
		case OpJumpIfTrueNoPop:
			if Truthy(vm.peek(0)) {
				frame.ip += int(inst.SignedB())
			}
		case OpJumpIfNullishNoPop:
			top := vm.peek(0)
			if top.Type == ValueNull || top.Type == ValueUndefined {
				frame.ip += int(inst.SignedB())
			}

		case OpClosure:
			upvalCount := int(inst.A())
			proto := frame.chunk.Constants[inst.B()].Data.(*FunctionProto)
			cells := make([]*Upvalue, upvalCount)
			captured := vm.stack[len(vm.stack)-upvalCount:]
			for i, v := range captured {
				cells[i] = &Upvalue{Value: v}
			}
			vm.stack = vm.stack[:len(vm.stack)-upvalCount]
			vm.push(NewClosureValue(proto, cells))

		case OpCall:
			argCount := int(inst.A())
			if err := vm.call(argCount, pos); err != nil {
				if !vm.raise(errToValue(err)) {
					return UndefinedValue(), err
				}
			}

		case OpReturn:
			result := vm.pop()
			returningFrame := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return result, nil
			}
			vm.stack = vm.stack[:returningFrame.basePointer-1] // discard locals and the callee slot
			vm.push(result)

		case OpNewArray:
			n := int(inst.B())
			elems := append([]Value(nil), vm.stack[len(vm.stack)-n:]...)
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(NewArrayValue(elems...))
		case OpNewObject:
			vm.push(NewObjectValueWrapped())

		case OpGetIndex:
			index := vm.pop()
			obj := vm.pop()
			v, err := getIndex(obj, index)
			if err != nil {
				if !vm.raise(errToValue(err)) {
					return UndefinedValue(), err
				}
				continue
			}
			vm.push(v)
		case OpSetIndex:
			value := vm.pop()
			index := vm.pop()
			obj := vm.pop()
			if err := setIndex(obj, index, value); err != nil {
				if !vm.raise(errToValue(err)) {
					return UndefinedValue(), err
				}
				continue
			}
			vm.push(value)

		case OpGetProp:
			name := frame.chunk.Constants[inst.B()].Data.(string)
			obj := vm.pop()
			v, err := getProp(obj, name)
			if err != nil {
				if !vm.raise(errToValue(err)) {
					return UndefinedValue(), err
				}
				continue
			}
			vm.push(v)
		case OpSetProp:
			name := frame.chunk.Constants[inst.B()].Data.(string)
			value := vm.pop()
			obj := vm.pop()
			if err := setProp(obj, name, value); err != nil {
				if !vm.raise(errToValue(err)) {
					return UndefinedValue(), err
				}
				continue
			}
			vm.push(value)

		case OpThrow:
			v := vm.pop()
			if !vm.raise(v) {
				return UndefinedValue(), &exception{value: v}
			}

		case OpPushTry:
			info, _ := frame.chunk.TryInfo(frame.ip - 1)
			frame.handlers = append(frame.handlers, activeHandler{info: info, stackDepth: len(vm.stack)})
		case OpPopTry:
			if len(frame.handlers) > 0 {
				frame.handlers = frame.handlers[:len(frame.handlers)-1]
			}

		case OpHalt:
			if len(vm.stack) > 0 {
				return vm.peek(0), nil
			}
			return UndefinedValue(), nil

		default:
			return UndefinedValue(), errorsx.NewRuntimeError(pos, errorsx.ErrUncaughtException, "unimplemented opcode %s", inst.OpCode())
		}
	}
}

// raise unwinds to the innermost active try handler in the current frame
// and jumps execution to its catch (or finally) target, reporting whether
// a handler absorbed the exception. Handlers in outer frames are not
// consulted: a thrown value that crosses a function-call boundary with no
// handler in the throwing frame propagates as a Go error out of run(),
// which is the same "uncaught exception" outcome spec.md's error taxonomy
// gives a thrown value that unwinds past the program's top level.
func (vm *VM) raise(value Value) bool {
	frame := &vm.frames[len(vm.frames)-1]
	if len(frame.handlers) == 0 {
		return false
	}
	h := frame.handlers[len(frame.handlers)-1]
	frame.handlers = frame.handlers[:len(frame.handlers)-1]
	vm.stack = vm.stack[:h.stackDepth]
	if h.info.HasCatch {
		vm.push(value)
		frame.ip = h.info.CatchTarget
		return true
	}
	if h.info.HasFinally {
		frame.ip = h.info.FinallyTarget
		return true
	}
	return false
}

func errToValue(err error) Value {
	if exc, ok := err.(*exception); ok {
		return exc.value
	}
	return StringValue(err.Error())
}

// call invokes the callable argCount slots below the top of stack, either
// pushing a new callFrame (a ClosureValue) or calling straight through (a
// NativeFunction/FunctionProto with no captures).
func (vm *VM) call(argCount int, pos token.Position) error {
	callee := vm.peek(argCount)
	switch callee.Type {
	case ValueClosure:
		cv := callee.Data.(*ClosureValue)
		if argCount != cv.Proto.Arity {
			for argCount < cv.Proto.Arity {
				vm.push(UndefinedValue())
				argCount++
			}
			for argCount > cv.Proto.Arity {
				vm.pop()
				argCount--
			}
		}
		// Locals beyond the parameters are not pre-reserved: each VarDecl's
		// compiled code pushes its initializer's value onto the stack at
		// the moment it executes, the same slot Emitter.declareLocal
		// assigned it at compile time, so the stack grows to LocalCount
		// organically rather than needing zero-filled padding up front.
		basePointer := len(vm.stack) - argCount
		vm.frames = append(vm.frames, callFrame{
			chunk:       cv.Proto.Chunk,
			basePointer: basePointer,
			upvalues:    cv.Upvalues,
		})
		return nil
	case ValueNative:
		nf := callee.Data.(*NativeFunction)
		args := append([]Value(nil), vm.stack[len(vm.stack)-argCount:]...)
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		result, err := nf.Fn(vm, args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	default:
		return errorsx.NewRuntimeError(pos, errorsx.ErrUncaughtException, "value of type %s is not callable", callee.Type)
	}
}

func toNum(v Value) float64 {
	if v.Type == ValueNumber {
		return v.Data.(float64)
	}
	return math.NaN()
}

func toInt32(v Value) int32 {
	f := toNum(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

func applyBinary(op OpCode, left, right Value) (Value, error) {
	switch op {
	case OpAdd:
		if left.Type == ValueString || right.Type == ValueString {
			return StringValue(left.String() + right.String()), nil
		}
		return NumberValue(toNum(left) + toNum(right)), nil
	case OpSub:
		return NumberValue(toNum(left) - toNum(right)), nil
	case OpMul:
		return NumberValue(toNum(left) * toNum(right)), nil
	case OpDiv:
		return NumberValue(toNum(left) / toNum(right)), nil
	case OpMod:
		return NumberValue(math.Mod(toNum(left), toNum(right))), nil
	case OpPow:
		return NumberValue(math.Pow(toNum(left), toNum(right))), nil
	case OpBitAnd:
		return NumberValue(float64(toInt32(left) & toInt32(right))), nil
	case OpBitOr:
		return NumberValue(float64(toInt32(left) | toInt32(right))), nil
	case OpBitXor:
		return NumberValue(float64(toInt32(left) ^ toInt32(right))), nil
	case OpShl:
		return NumberValue(float64(toInt32(left) << (uint32(toInt32(right)) & 31))), nil
	case OpShr:
		return NumberValue(float64(toInt32(left) >> (uint32(toInt32(right)) & 31))), nil
	case OpUShr:
		return NumberValue(float64(uint32(toInt32(left)) >> (uint32(toInt32(right)) & 31))), nil
	case OpEqual:
		return BoolValue(looseEquals(left, right)), nil
	case OpNotEqual:
		return BoolValue(!looseEquals(left, right)), nil
	case OpStrictEqual:
		return BoolValue(strictEquals(left, right)), nil
	case OpStrictNotEqual:
		return BoolValue(!strictEquals(left, right)), nil
	case OpLess:
		return BoolValue(compareValues(left, right) < 0), nil
	case OpLessEqual:
		return BoolValue(compareValues(left, right) <= 0), nil
	case OpGreater:
		return BoolValue(compareValues(left, right) > 0), nil
	case OpGreaterEqual:
		return BoolValue(compareValues(left, right) >= 0), nil
	default:
		return Value{}, fmt.Errorf("unsupported binary opcode %s", op)
	}
}

func strictEquals(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ValueUndefined, ValueNull:
		return true
	case ValueBool:
		return a.Data.(bool) == b.Data.(bool)
	case ValueNumber:
		return a.Data.(float64) == b.Data.(float64)
	case ValueString:
		return a.Data.(string) == b.Data.(string)
	default:
		return a.Data == b.Data
	}
}

func looseEquals(a, b Value) bool {
	if a.Type == b.Type {
		return strictEquals(a, b)
	}
	if (a.Type == ValueNull || a.Type == ValueUndefined) && (b.Type == ValueNull || b.Type == ValueUndefined) {
		return true
	}
	an, aok := coerceNumeric(a)
	bn, bok := coerceNumeric(b)
	if aok && bok {
		return an == bn
	}
	return false
}

func coerceNumeric(v Value) (float64, bool) {
	switch v.Type {
	case ValueNumber:
		return v.Data.(float64), true
	case ValueBool:
		if v.Data.(bool) {
			return 1, true
		}
		return 0, true
	case ValueString:
		var f float64
		if _, err := fmt.Sscanf(v.Data.(string), "%g", &f); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func compareValues(a, b Value) int {
	if a.Type == ValueString && b.Type == ValueString {
		as, bs := a.Data.(string), b.Data.(string)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	af, bf := toNum(a), toNum(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func getIndex(obj, index Value) (Value, error) {
	switch obj.Type {
	case ValueArray:
		arr := obj.Data.(*ArrayValue)
		i := int(toNum(index))
		if i < 0 || i >= len(arr.Elements) {
			return UndefinedValue(), nil
		}
		return arr.Elements[i], nil
	case ValueString:
		s := obj.Data.(string)
		i := int(toNum(index))
		if i < 0 || i >= len(s) {
			return UndefinedValue(), nil
		}
		return StringValue(string(s[i])), nil
	case ValueObject:
		o := obj.Data.(*ObjectValue)
		v, ok := o.Get(index.String())
		if !ok {
			return UndefinedValue(), nil
		}
		return v, nil
	default:
		return UndefinedValue(), fmt.Errorf("cannot index into %s", obj.Type)
	}
}

func setIndex(obj, index, value Value) error {
	switch obj.Type {
	case ValueArray:
		arr := obj.Data.(*ArrayValue)
		i := int(toNum(index))
		if i < 0 {
			return fmt.Errorf("negative array index")
		}
		for i >= len(arr.Elements) {
			arr.Elements = append(arr.Elements, UndefinedValue())
		}
		arr.Elements[i] = value
		return nil
	case ValueObject:
		o := obj.Data.(*ObjectValue)
		o.Set(index.String(), value)
		return nil
	default:
		return fmt.Errorf("cannot assign into %s", obj.Type)
	}
}

func getProp(obj Value, name string) (Value, error) {
	switch obj.Type {
	case ValueObject:
		o := obj.Data.(*ObjectValue)
		v, ok := o.Get(name)
		if !ok {
			return UndefinedValue(), nil
		}
		return v, nil
	case ValueArray:
		arr := obj.Data.(*ArrayValue)
		if name == "length" {
			return NumberValue(float64(len(arr.Elements))), nil
		}
		return UndefinedValue(), nil
	case ValueString:
		if name == "length" {
			return NumberValue(float64(len(obj.Data.(string)))), nil
		}
		return UndefinedValue(), nil
	default:
		return UndefinedValue(), nil
	}
}

func setProp(obj Value, name string, value Value) error {
	if obj.Type != ValueObject {
		return fmt.Errorf("cannot set property %q on %s", name, obj.Type)
	}
	obj.Data.(*ObjectValue).Set(name, value)
	return nil
}
