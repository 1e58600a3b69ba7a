package bytecode

// OpCode is one bytecode instruction's operation, grounded on the teacher's
// stack-based instruction format (internal/bytecode/instruction.go in the
// reference dwscript VM): a 32-bit word split into an 8-bit opcode and two
// operand fields, chosen so Go's switch over a byte-sized tag compiles to a
// dense jump table.
type OpCode byte

const (
	// ========================================
	// Constants and literals
	// ========================================

	// OpConstant pushes Constants[B] onto the stack.
	OpConstant OpCode = iota
	// OpNil pushes null.
	OpNil
	// OpUndefined pushes undefined.
	OpUndefined
	// OpTrue pushes true.
	OpTrue
	// OpFalse pushes false.
	OpFalse

	// ========================================
	// Locals, globals, upvalues
	// ========================================

	// OpGetLocal pushes locals[A].
	OpGetLocal
	// OpSetLocal stores the top of stack into locals[A] without popping.
	OpSetLocal
	// OpGetGlobal pushes globals[Constants[B].(string)].
	OpGetGlobal
	// OpSetGlobal stores the top of stack into the named global.
	OpSetGlobal
	// OpDefineGlobal pops the top of stack into a newly declared global.
	OpDefineGlobal
	// OpGetUpvalue pushes the current frame's upvalue cell A's value.
	OpGetUpvalue
	// OpSetUpvalue stores the top of stack into upvalue cell A.
	OpSetUpvalue

	// ========================================
	// Arithmetic and comparison — operands are always Value{ValueNumber}
	// or, for OpAdd, Value{ValueString} (JS string concatenation).
	// ========================================

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNegate
	OpNot

	OpEqual
	OpStrictEqual
	OpNotEqual
	OpStrictNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpUShr

	// ========================================
	// Stack shuffling
	// ========================================

	// OpPop discards the top of stack.
	OpPop
	// OpDup duplicates the top of stack.
	OpDup

	// ========================================
	// Control flow — B is a signed offset relative to the instruction
	// following the jump, matching Chunk.EmitJump/PatchJump.
	// ========================================

	// OpJump unconditionally jumps by B.
	OpJump
	// OpJumpIfFalse jumps by B if the top of stack is falsey, leaving it on
	// the stack; the emitter follows it with an explicit OpPop on both the
	// taken and the fall-through path.
	OpJumpIfFalse
	// OpJumpIfTrue pops the top of stack and jumps by B if it is truthy.
	OpJumpIfTrue
	// OpJumpIfFalseNoPop jumps by B if the top of stack is falsey, without
	// popping — used for `&&` short-circuiting where the surviving
	// operand's value is the expression's result.
	OpJumpIfFalseNoPop
	// OpJumpIfTrueNoPop is OpJumpIfFalseNoPop's truthy counterpart, used
	// for `||`.
	OpJumpIfTrueNoPop
	// OpJumpIfNullishNoPop jumps by B without popping if the top of stack
	// is null or undefined — implements `??`.
	OpJumpIfNullishNoPop

	// ========================================
	// Functions and calls
	// ========================================

	// OpClosure pushes a new ClosureValue built from Constants[B].(*FunctionProto),
	// capturing A upvalue cells popped off the stack in capture order.
	OpClosure
	// OpCall calls the callable A slots below the top of stack with the A
	// topmost stack values as arguments (callee itself is not popped until
	// the call returns), pushing the return value.
	OpCall
	// OpReturn pops the top of stack and returns it from the current frame.
	OpReturn

	// ========================================
	// Arrays and objects
	// ========================================

	// OpNewArray pops B elements and pushes a new array built from them.
	OpNewArray
	// OpNewObject pushes an empty object.
	OpNewObject
	// OpGetIndex pops [object, index] and pushes object[index].
	OpGetIndex
	// OpSetIndex pops [object, index, value], pushes value, and writes
	// object[index] = value.
	OpSetIndex
	// OpGetProp pops an object and pushes object[Constants[B].(string)].
	OpGetProp
	// OpSetProp pops [object, value], pushes value, and sets the named
	// property.
	OpSetProp

	// ========================================
	// Exceptions
	// ========================================

	// OpThrow pops the top of stack and raises it as an exception.
	OpThrow
	// OpPushTry installs an exception handler for the current frame, whose
	// catch/finally targets are recorded in Chunk.tryInfos keyed by this
	// instruction's index.
	OpPushTry
	// OpPopTry removes the most recently installed exception handler.
	OpPopTry

	OpHalt
)

var opCodeNames = [...]string{
	OpConstant: "OpConstant", OpNil: "OpNil", OpUndefined: "OpUndefined",
	OpTrue: "OpTrue", OpFalse: "OpFalse",
	OpGetLocal: "OpGetLocal", OpSetLocal: "OpSetLocal",
	OpGetGlobal: "OpGetGlobal", OpSetGlobal: "OpSetGlobal", OpDefineGlobal: "OpDefineGlobal",
	OpGetUpvalue: "OpGetUpvalue", OpSetUpvalue: "OpSetUpvalue",
	OpAdd: "OpAdd", OpSub: "OpSub", OpMul: "OpMul", OpDiv: "OpDiv", OpMod: "OpMod",
	OpPow: "OpPow", OpNegate: "OpNegate", OpNot: "OpNot",
	OpEqual: "OpEqual", OpStrictEqual: "OpStrictEqual",
	OpNotEqual: "OpNotEqual", OpStrictNotEqual: "OpStrictNotEqual",
	OpLess: "OpLess", OpLessEqual: "OpLessEqual",
	OpGreater: "OpGreater", OpGreaterEqual: "OpGreaterEqual",
	OpBitAnd: "OpBitAnd", OpBitOr: "OpBitOr", OpBitXor: "OpBitXor", OpBitNot: "OpBitNot",
	OpShl: "OpShl", OpShr: "OpShr", OpUShr: "OpUShr",
	OpPop: "OpPop", OpDup: "OpDup",
	OpJump: "OpJump", OpJumpIfFalse: "OpJumpIfFalse", OpJumpIfTrue: "OpJumpIfTrue",
	OpJumpIfFalseNoPop: "OpJumpIfFalseNoPop", OpJumpIfTrueNoPop: "OpJumpIfTrueNoPop",
	OpJumpIfNullishNoPop: "OpJumpIfNullishNoPop",
	OpClosure:            "OpClosure", OpCall: "OpCall", OpReturn: "OpReturn",
	OpNewArray: "OpNewArray", OpNewObject: "OpNewObject",
	OpGetIndex: "OpGetIndex", OpSetIndex: "OpSetIndex",
	OpGetProp: "OpGetProp", OpSetProp: "OpSetProp",
	OpThrow: "OpThrow", OpPushTry: "OpPushTry", OpPopTry: "OpPopTry",
	OpHalt: "OpHalt",
}

func (op OpCode) String() string {
	if int(op) < len(opCodeNames) && opCodeNames[op] != "" {
		return opCodeNames[op]
	}
	return "OpUnknown"
}

// Instruction is one 32-bit bytecode word: [opcode byte][A byte][B uint16],
// the same layout the teacher's VM uses (Format: [8-bit opcode][8-bit A]
// [16-bit B]).
type Instruction uint32

func MakeInstruction(op OpCode, a byte, b uint16) Instruction {
	return Instruction(uint32(op) | uint32(a)<<8 | uint32(b)<<16)
}

func MakeSimpleInstruction(op OpCode) Instruction {
	return MakeInstruction(op, 0, 0)
}

func (inst Instruction) OpCode() OpCode { return OpCode(inst) }
func (inst Instruction) A() byte        { return byte(inst >> 8) }
func (inst Instruction) B() uint16      { return uint16(inst >> 16) }

// SignedB reinterprets B as a signed jump offset.
func (inst Instruction) SignedB() int16 { return int16(inst.B()) }
