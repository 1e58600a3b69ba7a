package bytecode

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/closure"
	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/internal/token"
)

// Emitter lowers a type-checked *ast.Program into a Chunk. Whether a read
// or write becomes OpGetUpvalue/OpSetUpvalue instead of
// OpGetLocal/OpSetLocal is decided by walking the enclosing function
// frames (resolveLocal/resolveUpvalue); internal/closure's capture plan is
// consulted only to reject functions that capture the lexical `this`.
//
// Generators, async functions, and classes are not lowered here: a
// generator's yield points need the jump-table state machine
// internal/suspend.Plan describes, and a class needs virtual dispatch and
// field layout the way the teacher's OpNewObject/OpGetField/OpInvoke
// family handles it for DWScript classes — both are substantial enough
// lowerings of their own that Emit reports a *errorsx.CompileError for
// them rather than emitting incorrect bytecode; internal/interp still
// executes those constructs directly. This mirrors spec.md §6's emit
// operation, which only promises compiled output for Program, not a
// guarantee that every construct compiles.
type Emitter struct {
	plan *closure.Plan
}

func NewEmitter(plan *closure.Plan) *Emitter {
	return &Emitter{plan: plan}
}

// localVar is one binding in a function's local slot table.
type localVar struct {
	name  string
	depth int
}

type upvalueDesc struct {
	name    string
	isLocal bool // true: index is a local slot in the enclosing function
	index   int
}

// fnState is one function-compilation frame; fnState chains to enclosing
// via the compiler's stack rather than a parent pointer on the type
// itself, since the top-level program compiles as an implicit function
// with no enclosing frame.
type fnState struct {
	chunk      *Chunk
	locals     []localVar
	upvalues   []upvalueDesc
	scopeDepth int
}

// compiler walks one ast.Program, maintaining a stack of fnState frames —
// one per nested function currently being compiled — so upvalue
// resolution can walk outward through enclosing functions the way the
// teacher's compiler resolves DWScript closures.
type compiler struct {
	plan    *closure.Plan
	frames  []*fnState
	loops   []loopContext
	err     *errorsx.CompileError
}

// loopContext tracks the jump targets break/continue patch, plus which
// labels (if any) this loop answers to for labeled break/continue.
type loopContext struct {
	label        string
	continueJump func(c *compiler) // emits the jump to the loop's condition/update
	breaks       []int             // indices of OpJump instructions to patch to the loop's end
}

func (c *compiler) current() *fnState { return c.frames[len(c.frames)-1] }

func (c *compiler) fail(pos token.Position, format string, args ...any) {
	if c.err == nil {
		c.err = errorsx.NewCompileError(pos, errorsx.ErrUnsupportedConstruct, format, args...)
	}
}

// Emit compiles prog into a top-level Chunk. Any construct the emitter
// does not support aborts the walk and Emit returns the recorded
// *errorsx.CompileError.
//
// The program's final statement, if it is a bare expression statement,
// keeps its value on the stack instead of discarding it with the usual
// trailing OpPop: Run reports that value as the program's completion,
// the same "last expression's value" convention a REPL gives an
// interactively-evaluated script.
func (e *Emitter) Emit(prog *ast.Program) (*Chunk, error) {
	top := NewChunk(chunkName(prog))
	c := &compiler{plan: e.plan, frames: []*fnState{{chunk: top}}}
	for i, stmt := range prog.Statements {
		if i == len(prog.Statements)-1 {
			if es, ok := stmt.(*ast.ExpressionStmt); ok {
				c.compileExpr(es.Expression)
				break
			}
		}
		c.compileStmt(stmt)
		if c.err != nil {
			return nil, c.err
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	top.WriteSimple(OpHalt, 0)
	return top, nil
}

func chunkName(prog *ast.Program) string {
	if prog.ModulePath == "" {
		return "<program>"
	}
	return prog.ModulePath
}

// ---- scopes and locals ----

func (c *compiler) beginScope() { c.current().scopeDepth++ }

func (c *compiler) endScope(line int) {
	f := c.current()
	f.scopeDepth--
	for len(f.locals) > 0 && f.locals[len(f.locals)-1].depth > f.scopeDepth {
		f.locals = f.locals[:len(f.locals)-1]
		f.chunk.WriteSimple(OpPop, line)
	}
}

func (c *compiler) declareLocal(name string) int {
	f := c.current()
	f.locals = append(f.locals, localVar{name: name, depth: f.scopeDepth})
	if len(f.locals) > f.chunk.LocalCount {
		f.chunk.LocalCount = len(f.locals)
	}
	return len(f.locals) - 1
}

func resolveLocal(f *fnState, name string) (int, bool) {
	for i := len(f.locals) - 1; i >= 0; i-- {
		if f.locals[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// resolveUpvalue walks outward through enclosing frames, matching the
// classic clox-style capture-chain resolution the teacher's
// OpLoadUpvalue/OpStoreUpvalue pair already implies: an upvalue either
// closes directly over an enclosing local, or over an upvalue the
// enclosing function itself already captured.
func (c *compiler) resolveUpvalue(depthFromTop int, name string) (int, bool) {
	if depthFromTop+1 >= len(c.frames) {
		return 0, false
	}
	enclosingIdx := len(c.frames) - depthFromTop - 2
	enclosing := c.frames[enclosingIdx]
	if slot, ok := resolveLocal(enclosing, name); ok {
		return c.addUpvalue(depthFromTop, name, true, slot), true
	}
	if idx, ok := c.resolveUpvalue(depthFromTop+1, name); ok {
		return c.addUpvalue(depthFromTop, name, false, idx), true
	}
	return 0, false
}

func (c *compiler) addUpvalue(depthFromTop int, name string, isLocal bool, index int) int {
	f := c.frames[len(c.frames)-depthFromTop-1]
	for i, u := range f.upvalues {
		if u.name == name && u.isLocal == isLocal && u.index == index {
			return i
		}
	}
	f.upvalues = append(f.upvalues, upvalueDesc{name: name, isLocal: isLocal, index: index})
	return len(f.upvalues) - 1
}

// ---- statements ----

func (c *compiler) compileStmt(s ast.Stmt) {
	if c.err != nil {
		return
	}
	line := s.Pos().Line
	switch n := s.(type) {
	case *ast.VarDecl:
		c.compileVarDecl(n)
	case *ast.ExpressionStmt:
		c.compileExpr(n.Expression)
		c.current().chunk.WriteSimple(OpPop, line)
	case *ast.Block:
		c.beginScope()
		for _, stmt := range n.Statements {
			c.compileStmt(stmt)
		}
		c.endScope(line)
	case *ast.If:
		c.compileIf(n)
	case *ast.While:
		c.compileWhile(n)
	case *ast.For:
		c.compileFor(n)
	case *ast.Return:
		if n.Value != nil {
			c.compileExpr(n.Value)
		} else {
			c.current().chunk.WriteSimple(OpUndefined, line)
		}
		c.current().chunk.WriteSimple(OpReturn, line)
	case *ast.Break:
		c.compileBreak(n)
	case *ast.Continue:
		c.compileContinue(n)
	case *ast.FunctionDecl:
		c.compileFunctionDecl(n)
	case *ast.Throw:
		c.compileExpr(n.Value)
		c.current().chunk.WriteSimple(OpThrow, line)
	case *ast.TryCatch:
		c.compileTryCatch(n)
	case *ast.LabeledStatement:
		c.compileLabeled(n)
	default:
		c.fail(s.Pos(), "bytecode emitter does not support %T yet", s)
	}
}

func (c *compiler) compileVarDecl(n *ast.VarDecl) {
	line := n.Pos().Line
	for _, d := range n.Declarators {
		if d.Pattern != nil {
			c.fail(n.Pos(), "destructuring declarations are not yet lowered to bytecode")
			return
		}
		if d.Init != nil {
			c.compileExpr(d.Init)
		} else {
			c.current().chunk.WriteSimple(OpUndefined, line)
		}
		c.defineVariable(d.Name, line)
	}
}

// defineVariable binds the value currently on top of stack to name: a
// local slot inside a function scope, or a global at top level (scopeDepth
// 0 of the outermost frame).
func (c *compiler) defineVariable(name string, line int) {
	f := c.current()
	if len(c.frames) > 1 || f.scopeDepth > 0 {
		c.declareLocal(name)
		return
	}
	idx := f.chunk.AddConstant(StringValue(name))
	f.chunk.Write(OpDefineGlobal, 0, idx, line)
}

func (c *compiler) compileIf(n *ast.If) {
	line := n.Pos().Line
	c.compileExpr(n.Cond)
	thenJump := c.current().chunk.EmitJump(OpJumpIfFalse, line)
	c.current().chunk.WriteSimple(OpPop, line)
	c.compileStmt(n.Then)
	elseJump := c.current().chunk.EmitJump(OpJump, line)
	c.current().chunk.PatchJump(thenJump)
	c.current().chunk.WriteSimple(OpPop, line)
	if n.Else != nil {
		c.compileStmt(n.Else)
	}
	c.current().chunk.PatchJump(elseJump)
}

func (c *compiler) compileWhile(n *ast.While) {
	line := n.Pos().Line
	chunk := c.current().chunk
	loopStart := len(chunk.Code)
	c.compileExpr(n.Cond)
	exitJump := chunk.EmitJump(OpJumpIfFalse, line)
	chunk.WriteSimple(OpPop, line)

	lc := loopContext{label: n.Label}
	lc.continueJump = func(c *compiler) {
		c.emitLoop(loopStart, line)
	}
	c.loops = append(c.loops, lc)
	c.compileStmt(n.Body)
	lc = c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	c.emitLoop(loopStart, line)
	chunk.PatchJump(exitJump)
	chunk.WriteSimple(OpPop, line)
	for _, idx := range lc.breaks {
		chunk.PatchJump(idx)
	}
}

// emitLoop writes a backward OpJump to loopStart.
func (c *compiler) emitLoop(loopStart, line int) {
	chunk := c.current().chunk
	idx := chunk.Write(OpJump, 0, 0, line)
	offset := loopStart - (idx + 1)
	inst := chunk.Code[idx]
	chunk.Code[idx] = MakeInstruction(inst.OpCode(), inst.A(), uint16(int16(offset)))
}

// compileFor lays out init/cond/update/body as:
//
//	<init>
//	loopStart: <cond> JumpIfFalse exit; jump bodyStart
//	continueTarget: <update>; jump loopStart
//	bodyStart: <body>; jump continueTarget
//	exit:
//
// so continueTarget is a known offset before Body is compiled — a
// `continue` inside Body jumps straight to it and still runs Update,
// rather than jumping back to loopStart and skipping Update entirely.
func (c *compiler) compileFor(n *ast.For) {
	line := n.Pos().Line
	c.beginScope()
	if n.Init != nil {
		c.compileStmt(n.Init)
	}
	chunk := c.current().chunk
	loopStart := len(chunk.Code)
	exitJump := -1
	if n.Cond != nil {
		c.compileExpr(n.Cond)
		exitJump = chunk.EmitJump(OpJumpIfFalse, line)
		chunk.WriteSimple(OpPop, line)
	}
	bodyJump := chunk.EmitJump(OpJump, line)

	continueTarget := len(chunk.Code)
	if n.Update != nil {
		c.compileExpr(n.Update)
		chunk.WriteSimple(OpPop, line)
	}
	c.emitLoop(loopStart, line)
	chunk.PatchJump(bodyJump)

	lc := loopContext{label: n.Label}
	lc.continueJump = func(c *compiler) {
		c.emitLoop(continueTarget, line)
	}
	c.loops = append(c.loops, lc)
	c.compileStmt(n.Body)
	c.emitLoop(continueTarget, line)

	lc = c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	if exitJump >= 0 {
		chunk.PatchJump(exitJump)
		chunk.WriteSimple(OpPop, line)
	}
	for _, idx := range lc.breaks {
		chunk.PatchJump(idx)
	}
	c.endScope(line)
}

func (c *compiler) loopFor(label string) (*loopContext, bool) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if label == "" || c.loops[i].label == label {
			return &c.loops[i], true
		}
	}
	return nil, false
}

func (c *compiler) compileBreak(n *ast.Break) {
	lc, ok := c.loopFor(n.Label)
	if !ok {
		c.fail(n.Pos(), "break outside of a loop")
		return
	}
	idx := c.current().chunk.EmitJump(OpJump, n.Pos().Line)
	lc.breaks = append(lc.breaks, idx)
}

func (c *compiler) compileContinue(n *ast.Continue) {
	lc, ok := c.loopFor(n.Label)
	if !ok {
		c.fail(n.Pos(), "continue outside of a loop")
		return
	}
	lc.continueJump(c)
}

func (c *compiler) compileLabeled(n *ast.LabeledStatement) {
	// The label only matters to the loop statement it wraps (While/For
	// already carry their own Label field); a labeled non-loop statement
	// has no break/continue target, so it compiles as a transparent wrapper.
	c.compileStmt(n.Body)
}

// compileTryCatch lowers try/catch/finally using OpPushTry/OpPopTry,
// recording the handler's targets in Chunk.tryInfos the way the teacher's
// Chunk.tryInfos map does, rather than encoding them as jump operands —
// both the catch and finally bodies need to be reachable from the VM's
// exception unwinder as well as from normal fallthrough.
func (c *compiler) compileTryCatch(n *ast.TryCatch) {
	line := n.Pos().Line
	chunk := c.current().chunk
	pushIdx := chunk.WriteSimple(OpPushTry, line)

	c.compileStmt(n.Try)
	chunk.WriteSimple(OpPopTry, line)
	endJump := chunk.EmitJump(OpJump, line)

	info := TryInfo{}
	if n.Catch != nil {
		info.HasCatch = true
		info.CatchTarget = len(chunk.Code)
		c.beginScope()
		if n.Catch.Param != "" {
			c.declareLocal(n.Catch.Param)
		} else {
			chunk.WriteSimple(OpPop, line)
		}
		for _, stmt := range n.Catch.Body.Statements {
			c.compileStmt(stmt)
		}
		c.endScope(line)
	}
	chunk.PatchJump(endJump)

	if n.Finally != nil {
		info.HasFinally = true
		info.FinallyTarget = len(chunk.Code)
		for _, stmt := range n.Finally.Statements {
			c.compileStmt(stmt)
		}
	}
	chunk.SetTryInfo(pushIdx, info)
}

// compileFunctionDecl lowers a plain function to an OpClosure instruction
// bound to a global name; async/generator functions are left for
// internal/interp per the Emitter doc comment.
func (c *compiler) compileFunctionDecl(n *ast.FunctionDecl) {
	if n.Kind != ast.FuncPlain {
		c.fail(n.Pos(), "bytecode emitter does not lower %s functions; use internal/interp", functionKindName(n.Kind))
		return
	}
	proto, upvalues := c.compileFunctionBody(n.Name, n.Params, n.Body, n.ID())
	if c.err != nil {
		return
	}
	c.emitClosure(proto, upvalues, n.Pos().Line)
	c.defineVariable(n.Name, n.Pos().Line)
}

func functionKindName(k ast.FunctionKind) string {
	switch k {
	case ast.FuncAsync:
		return "async"
	case ast.FuncGenerator:
		return "generator"
	case ast.FuncAsyncGenerator:
		return "async generator"
	default:
		return "plain"
	}
}

// compileFunctionBody compiles params/body into a fresh Chunk. Upvalues are
// resolved structurally by walking the enclosing fnState chain (the
// clox-style scheme resolveUpvalue implements), but c.plan — the same
// internal/closure analysis internal/interp's closures consult — is still
// checked for CapturesThis: a function that reads the lexical `this` of an
// enclosing method has no local or upvalue slot for it in this emitter,
// since methods themselves are not lowered to bytecode yet, so that case
// is rejected rather than silently compiling a function that reads an
// undefined `this`.
func (c *compiler) compileFunctionBody(name string, params []ast.Param, body *ast.Block, nodeID ast.NodeID) (*FunctionProto, []upvalueDesc) {
	if fp := c.plan.Functions[nodeID]; fp != nil && fp.CapturesThis {
		c.fail(body.Pos(), "bytecode emitter does not support functions that capture the lexical this")
		return nil, nil
	}
	chunk := NewChunk(name)
	frame := &fnState{chunk: chunk}
	c.frames = append(c.frames, frame)
	c.beginScope()

	for _, p := range params {
		if p.Pattern != nil {
			c.fail(p.Default.Pos(), "destructured parameters are not yet lowered to bytecode")
			break
		}
		c.declareLocal(p.Name)
	}
	if c.err == nil {
		for _, stmt := range body.Statements {
			c.compileStmt(stmt)
		}
	}
	if len(chunk.Code) == 0 || chunk.Code[len(chunk.Code)-1].OpCode() != OpReturn {
		chunk.WriteSimple(OpUndefined, body.Pos().Line)
		chunk.WriteSimple(OpReturn, body.Pos().Line)
	}

	upvalues := frame.upvalues
	c.frames = c.frames[:len(c.frames)-1]

	upvalNames := make([]string, len(upvalues))
	for i, u := range upvalues {
		upvalNames[i] = u.name
	}
	proto := &FunctionProto{
		Name:         name,
		Arity:        len(params),
		LocalCount:   chunk.LocalCount,
		UpvalueNames: upvalNames,
		Chunk:        chunk,
	}
	return proto, upvalues
}

// emitClosure pushes each captured upvalue cell (resolved in the enclosing
// frame) then an OpClosure that wraps them with proto.
func (c *compiler) emitClosure(proto *FunctionProto, upvalues []upvalueDesc, line int) {
	chunk := c.current().chunk
	for _, u := range upvalues {
		if u.isLocal {
			chunk.Write(OpGetLocal, byte(u.index), 0, line)
		} else {
			chunk.Write(OpGetUpvalue, byte(u.index), 0, line)
		}
	}
	idx := chunk.AddConstant(Value{Type: ValueFunction, Data: proto})
	chunk.Write(OpClosure, byte(len(upvalues)), idx, line)
}

// ---- expressions ----

func (c *compiler) compileExpr(e ast.Expr) {
	if c.err != nil {
		return
	}
	line := e.Pos().Line
	chunk := c.current().chunk
	switch n := e.(type) {
	case *ast.Literal:
		c.compileLiteral(n)
	case *ast.Ident:
		c.compileIdentRead(n.Name, line)
	case *ast.Grouping:
		c.compileExpr(n.Inner)
	case *ast.Binary:
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.emitBinaryOp(n.Operator, line)
	case *ast.Logical:
		c.compileLogical(n)
	case *ast.NullishCoalescing:
		c.compileExpr(n.Left)
		jump := chunk.EmitJump(OpJumpIfNullishNoPop, line)
		jumpOverRight := chunk.EmitJump(OpJump, line)
		chunk.PatchJump(jump)
		chunk.WriteSimple(OpPop, line)
		c.compileExpr(n.Right)
		chunk.PatchJump(jumpOverRight)
	case *ast.Unary:
		c.compileExpr(n.Operand)
		c.emitUnaryOp(n.Operator, line)
	case *ast.Ternary:
		c.compileExpr(n.Cond)
		thenJump := chunk.EmitJump(OpJumpIfFalse, line)
		chunk.WriteSimple(OpPop, line)
		c.compileExpr(n.Then)
		elseJump := chunk.EmitJump(OpJump, line)
		chunk.PatchJump(thenJump)
		chunk.WriteSimple(OpPop, line)
		c.compileExpr(n.Else)
		chunk.PatchJump(elseJump)
	case *ast.Assign:
		c.compileExpr(n.Value)
		c.compileIdentWrite(n.Name, line)
	case *ast.Call:
		c.compileCall(n)
	case *ast.ArrayLiteral:
		c.compileArrayLiteral(n)
	case *ast.ObjectLiteral:
		c.compileObjectLiteral(n)
	case *ast.Get:
		c.compileExpr(n.Object)
		idx := chunk.AddConstant(StringValue(n.Name))
		chunk.Write(OpGetProp, 0, idx, line)
	case *ast.Set:
		c.compileExpr(n.Object)
		c.compileExpr(n.Value)
		idx := chunk.AddConstant(StringValue(n.Name))
		chunk.Write(OpSetProp, 0, idx, line)
	case *ast.GetIndex:
		c.compileExpr(n.Object)
		c.compileExpr(n.Index)
		chunk.WriteSimple(OpGetIndex, line)
	case *ast.SetIndex:
		c.compileExpr(n.Object)
		c.compileExpr(n.Index)
		c.compileExpr(n.Value)
		chunk.WriteSimple(OpSetIndex, line)
	default:
		c.fail(e.Pos(), "bytecode emitter does not support %T yet", e)
	}
}

func (c *compiler) compileLiteral(n *ast.Literal) {
	chunk := c.current().chunk
	line := n.Pos().Line
	switch v := n.Value.(type) {
	case nil:
		chunk.WriteSimple(OpNil, line)
	case ast.LiteralUndefined:
		chunk.WriteSimple(OpUndefined, line)
	case bool:
		if v {
			chunk.WriteSimple(OpTrue, line)
		} else {
			chunk.WriteSimple(OpFalse, line)
		}
	case float64:
		idx := chunk.AddConstant(NumberValue(v))
		chunk.Write(OpConstant, 0, idx, line)
	case string:
		idx := chunk.AddConstant(StringValue(v))
		chunk.Write(OpConstant, 0, idx, line)
	default:
		c.fail(n.Pos(), "unsupported literal kind %T", v)
	}
}

func (c *compiler) compileLogical(n *ast.Logical) {
	chunk := c.current().chunk
	line := n.Pos().Line
	c.compileExpr(n.Left)
	var jump int
	if n.Operator == token.LOGICAL_AND {
		jump = chunk.EmitJump(OpJumpIfFalseNoPop, line)
	} else {
		jump = chunk.EmitJump(OpJumpIfTrueNoPop, line)
	}
	chunk.WriteSimple(OpPop, line)
	c.compileExpr(n.Right)
	chunk.PatchJump(jump)
}

func (c *compiler) compileIdentRead(name string, line int) {
	f := c.current()
	chunk := f.chunk
	if slot, ok := resolveLocal(f, name); ok {
		chunk.Write(OpGetLocal, byte(slot), 0, line)
		return
	}
	if idx, ok := c.resolveUpvalue(0, name); ok {
		chunk.Write(OpGetUpvalue, byte(idx), 0, line)
		return
	}
	cidx := chunk.AddConstant(StringValue(name))
	chunk.Write(OpGetGlobal, 0, cidx, line)
}

func (c *compiler) compileIdentWrite(name string, line int) {
	f := c.current()
	chunk := f.chunk
	if slot, ok := resolveLocal(f, name); ok {
		chunk.Write(OpSetLocal, byte(slot), 0, line)
		return
	}
	if idx, ok := c.resolveUpvalue(0, name); ok {
		chunk.Write(OpSetUpvalue, byte(idx), 0, line)
		return
	}
	cidx := chunk.AddConstant(StringValue(name))
	chunk.Write(OpSetGlobal, 0, cidx, line)
}

func (c *compiler) compileCall(n *ast.Call) {
	chunk := c.current().chunk
	line := n.Pos().Line
	c.compileExpr(n.Callee)
	for _, arg := range n.Args {
		if _, ok := arg.(*ast.SpreadArg); ok {
			c.fail(n.Pos(), "spread call arguments are not yet lowered to bytecode")
			return
		}
		c.compileExpr(arg)
	}
	if len(n.Args) > 255 {
		c.fail(n.Pos(), "too many call arguments for bytecode (max 255)")
		return
	}
	chunk.Write(OpCall, byte(len(n.Args)), 0, line)
}

func (c *compiler) compileArrayLiteral(n *ast.ArrayLiteral) {
	chunk := c.current().chunk
	line := n.Pos().Line
	for _, el := range n.Elements {
		if _, ok := el.(*ast.SpreadArg); ok {
			c.fail(n.Pos(), "spread array elements are not yet lowered to bytecode")
			return
		}
		c.compileExpr(el)
	}
	if len(n.Elements) > 65535 {
		c.fail(n.Pos(), "array literal too large for bytecode")
		return
	}
	chunk.Write(OpNewArray, 0, uint16(len(n.Elements)), line)
}

func (c *compiler) compileObjectLiteral(n *ast.ObjectLiteral) {
	chunk := c.current().chunk
	line := n.Pos().Line
	chunk.WriteSimple(OpNewObject, line)
	for _, prop := range n.Properties {
		if prop.Spread || prop.Computed != nil {
			c.fail(n.Pos(), "spread/computed object properties are not yet lowered to bytecode")
			return
		}
		chunk.WriteSimple(OpDup, line)
		c.compileExpr(prop.Value)
		idx := chunk.AddConstant(StringValue(prop.Key))
		chunk.Write(OpSetProp, 0, idx, line)
		chunk.WriteSimple(OpPop, line)
	}
}

func (c *compiler) emitUnaryOp(op token.Kind, line int) {
	chunk := c.current().chunk
	switch op {
	case token.MINUS:
		chunk.WriteSimple(OpNegate, line)
	case token.PLUS:
		// unary plus is a numeric no-op at this representation
	case token.LOGICAL_NOT:
		chunk.WriteSimple(OpNot, line)
	case token.TILDE:
		chunk.WriteSimple(OpBitNot, line)
	default:
		c.fail(token.Position{Line: line}, "unsupported unary operator %v", op)
	}
}

func (c *compiler) emitBinaryOp(op token.Kind, line int) {
	chunk := c.current().chunk
	switch op {
	case token.PLUS:
		chunk.WriteSimple(OpAdd, line)
	case token.MINUS:
		chunk.WriteSimple(OpSub, line)
	case token.STAR:
		chunk.WriteSimple(OpMul, line)
	case token.STARSTAR:
		chunk.WriteSimple(OpPow, line)
	case token.SLASH:
		chunk.WriteSimple(OpDiv, line)
	case token.PERCENT:
		chunk.WriteSimple(OpMod, line)
	case token.AMP:
		chunk.WriteSimple(OpBitAnd, line)
	case token.PIPE:
		chunk.WriteSimple(OpBitOr, line)
	case token.CARET:
		chunk.WriteSimple(OpBitXor, line)
	case token.SHL:
		chunk.WriteSimple(OpShl, line)
	case token.SHR:
		chunk.WriteSimple(OpShr, line)
	case token.USHR:
		chunk.WriteSimple(OpUShr, line)
	case token.EQ:
		chunk.WriteSimple(OpEqual, line)
	case token.NEQ:
		chunk.WriteSimple(OpNotEqual, line)
	case token.EQ_STRICT:
		chunk.WriteSimple(OpStrictEqual, line)
	case token.NEQ_STRICT:
		chunk.WriteSimple(OpStrictNotEqual, line)
	case token.LT:
		chunk.WriteSimple(OpLess, line)
	case token.LE:
		chunk.WriteSimple(OpLessEqual, line)
	case token.GT:
		chunk.WriteSimple(OpGreater, line)
	case token.GE:
		chunk.WriteSimple(OpGreaterEqual, line)
	default:
		c.fail(token.Position{Line: line}, "unsupported binary operator %v", op)
	}
}

