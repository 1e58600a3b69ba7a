// Package sharpts is the public surface of the core: parse, check,
// interpret, and emit, matching spec.md §6's operation names one for one.
// Everything here is a thin wrapper gluing internal packages together — the
// planning and execution logic itself lives in those packages.
package sharpts

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/bytecode"
	"github.com/sharpts/sharpts/internal/closure"
	"github.com/sharpts/sharpts/internal/host"
	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/parser"
	"github.com/sharpts/sharpts/internal/suspend"
	"github.com/sharpts/sharpts/internal/typecheck"
	"github.com/sharpts/sharpts/internal/types"
)

// Parse lexes and parses source into a *ast.Program. A non-empty error
// slice does not necessarily mean prog is nil: the parser collects one
// error per malformed statement and keeps going, the same recovery policy
// spec.md §7 asks of type-checking.
func Parse(source, modulePath string) (*ast.Program, []*parser.ParserError) {
	toks := lexer.Tokenize(source)
	p := parser.New(toks)
	prog := p.ParseProgram()
	prog.ModulePath = modulePath
	return prog, p.Errors()
}

// TypeMap is the span of prog's static analysis: every node's inferred or
// declared type, keyed the way internal/closure and internal/suspend key
// their own per-function plans — by ast.NodeID, never by pointer identity.
type TypeMap = map[ast.NodeID]types.TypeInfo

// Check type-checks a single module in isolation.
func Check(prog *ast.Program) (TypeMap, []*typecheck.TypeCheckError) {
	return typecheck.Check(prog)
}

// CheckModules type-checks several modules with one shared checker and one
// shared top-level scope, so a name in one module resolves against any other
// module's top-level declarations, exported or not; import declarations
// themselves are not checked.
func CheckModules(progs []*ast.Program) (TypeMap, []*typecheck.TypeCheckError) {
	return typecheck.CheckModules(progs)
}

// PlanClosures runs the capture analysis. The interpreter stamps each
// function's EnvID from it and the bytecode emitter reads CapturesThis;
// neither takes variable access from the capture lists.
func PlanClosures(prog *ast.Program) *closure.Plan {
	return closure.Analyze(prog)
}

// PlanSuspensions runs the generator/async suspension-point analysis. The
// interpreter does not read the resulting plan; it picks the coroutine path
// for a call from the function's kind.
func PlanSuspensions(prog *ast.Program) *suspend.Plan {
	return suspend.Analyze(prog)
}

// Interpret tree-walks prog to completion and drains every microtask and
// timer it scheduled, matching spec.md §6's blocking `interpret` contract.
// collab may be nil, in which case the interpreter runs with no host
// collaborators wired in (no timers, no external error sink).
func Interpret(prog *ast.Program, collab *host.Collaborators, source string) error {
	cp := closure.Analyze(prog)
	sp := suspend.Analyze(prog)
	it := interp.New(collab)
	return it.Interpret(prog, cp, sp, source)
}

// Emit lowers prog ahead-of-time into a bytecode Chunk and encodes it as a
// portable artifact. Constructs the emitter doesn't support (generators,
// async functions, classes, destructuring, spread) fail with an
// *errorsx.CompileError rather than producing a partial artifact, per
// spec.md §7's "emit and compile errors are fatal for the current
// emission" propagation policy.
func Emit(prog *ast.Program) ([]byte, error) {
	cp := closure.Analyze(prog)
	chunk, err := bytecode.NewEmitter(cp).Emit(prog)
	if err != nil {
		return nil, err
	}
	return bytecode.EncodeArtifact(chunk)
}

// RunArtifact decodes an artifact produced by Emit and executes it on a
// fresh VM, returning the program's completion value the way Interpret
// returns a completion error — the ahead-of-time counterpart to Interpret.
func RunArtifact(artifact []byte) (bytecode.Value, error) {
	chunk, err := bytecode.DecodeArtifact(artifact)
	if err != nil {
		return bytecode.Value{}, err
	}
	return bytecode.NewVM().Run(chunk)
}
