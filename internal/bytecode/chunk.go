package bytecode

import "fmt"

// TryInfo records one OpPushTry instruction's catch/finally targets,
// keyed by that instruction's index in Code — mirroring the teacher
// Chunk's tryInfos map rather than encoding the targets as instruction
// operands, since a try can have a catch, a finally, or both.
type TryInfo struct {
	CatchTarget   int
	FinallyTarget int
	HasCatch      bool
	HasFinally    bool
}

// Chunk is one compiled function body (or the top-level program body): its
// instruction stream, constant pool, and line-number table for error
// reporting.
type Chunk struct {
	Name       string
	Code       []Instruction
	Constants  []Value
	Lines      []int
	LocalCount int
	tryInfos   map[int]TryInfo
}

func NewChunk(name string) *Chunk {
	return &Chunk{Name: name, tryInfos: make(map[int]TryInfo)}
}

// Write appends a full three-operand instruction and records its source
// line, returning the instruction's index.
func (c *Chunk) Write(op OpCode, a byte, b uint16, line int) int {
	c.Code = append(c.Code, MakeInstruction(op, a, b))
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

func (c *Chunk) WriteSimple(op OpCode, line int) int {
	return c.Write(op, 0, 0, line)
}

// EmitJump writes a jump instruction with a placeholder offset and returns
// its index so the caller can PatchJump it once the target is known.
func (c *Chunk) EmitJump(op OpCode, line int) int {
	return c.Write(op, 0, 0, line)
}

// PatchJump backfills the jump instruction at idx with the offset from the
// instruction following idx to the current end of Code.
func (c *Chunk) PatchJump(idx int) {
	offset := len(c.Code) - idx - 1
	inst := c.Code[idx]
	c.Code[idx] = MakeInstruction(inst.OpCode(), inst.A(), uint16(int16(offset)))
}

// AddConstant interns v into the constant pool, returning its index. Equal
// string/number constants are deduplicated the way the teacher's compiler
// deduplicates its constant pool, keeping small programs' pools small.
func (c *Chunk) AddConstant(v Value) uint16 {
	for i, existing := range c.Constants {
		if existing.Type == v.Type && existing.Data == v.Data {
			return uint16(i)
		}
	}
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

func (c *Chunk) SetTryInfo(pushIdx int, info TryInfo) {
	c.tryInfos[pushIdx] = info
}

func (c *Chunk) TryInfo(pushIdx int) (TryInfo, bool) {
	info, ok := c.tryInfos[pushIdx]
	return info, ok
}

// Disassemble renders Code as human-readable text, one instruction per
// line, for debugging and for the gkampitakis/go-snaps golden tests in
// bytecode_test.go.
func (c *Chunk) Disassemble() string {
	out := fmt.Sprintf("== %s ==\n", c.Name)
	for i, inst := range c.Code {
		out += fmt.Sprintf("%04d %-20s A=%d B=%d\n", i, inst.OpCode(), inst.A(), inst.B())
	}
	return out
}
