// Package suspend identifies the suspension points (await/yield/yield*)
// inside async functions, generators, and async generators, and lowers each
// one into a StateMachinePlan: an ordered list of resumption states. The
// tree-walking interpreter (internal/interp) is handed the resulting Plan
// but does not read it (generator bodies run on a coroutine there), and the
// bytecode emitter (internal/bytecode) does not use this package.
package suspend

import (
	"github.com/google/uuid"

	"github.com/sharpts/sharpts/internal/ast"
)

// StateMachineID identifies one lowered state machine.
type StateMachineID uuid.UUID

func newStateMachineID() StateMachineID { return StateMachineID(uuid.New()) }

func (id StateMachineID) String() string { return uuid.UUID(id).String() }

// SuspensionKind distinguishes the three surface forms that can suspend a
// function's execution.
type SuspensionKind int

const (
	SuspendAwait SuspensionKind = iota
	SuspendYield
	SuspendYieldDelegate
)

func (k SuspensionKind) String() string {
	switch k {
	case SuspendAwait:
		return "await"
	case SuspendYield:
		return "yield"
	case SuspendYieldDelegate:
		return "yield*"
	default:
		return "unknown"
	}
}

// SuspensionPoint is one await/yield/yield* expression within a plan,
// numbered by the state the state machine resumes into after it completes.
type SuspensionPoint struct {
	Node  ast.NodeID
	Kind  SuspensionKind
	State int // resumption state entered after this point settles
}

// StateMachinePlan is the suspension lowering for one async/generator
// function. State 0 is the function's entry state; StateCount is always
// len(Points)+1 since every suspension point introduces exactly one new
// resumption state.
type StateMachinePlan struct {
	ID         StateMachineID
	Kind       ast.FunctionKind
	Points     []SuspensionPoint
	StateCount int
}

// Plan is the suspension lowering for an entire program: one
// StateMachinePlan per async/generator function, keyed by its ast.NodeID.
// Plain functions never appear here — internal/interp calls them directly
// with no state machine involved.
type Plan struct {
	Machines map[ast.NodeID]*StateMachinePlan
}

type analyzer struct {
	plan    *Plan
	current *StateMachinePlan // nil outside any generator/async function
}

// Analyze walks prog and produces a suspension-lowering Plan for every
// async function, generator, and async generator it contains, including
// methods and nested function expressions.
func Analyze(prog *ast.Program) *Plan {
	a := &analyzer{plan: &Plan{Machines: map[ast.NodeID]*StateMachinePlan{}}}
	for _, s := range prog.Statements {
		a.walkStmt(s)
	}
	return a.plan
}

func suspendingKind(k ast.FunctionKind) bool {
	return k == ast.FuncAsync || k == ast.FuncGenerator || k == ast.FuncAsyncGenerator
}

func (a *analyzer) enter(id ast.NodeID, kind ast.FunctionKind) *StateMachinePlan {
	if !suspendingKind(kind) {
		return nil
	}
	smp := &StateMachinePlan{ID: newStateMachineID(), Kind: kind, StateCount: 1}
	a.plan.Machines[id] = smp
	return smp
}

func (a *analyzer) record(node ast.Node, kind SuspensionKind) {
	if a.current == nil {
		return
	}
	a.current.Points = append(a.current.Points, SuspensionPoint{
		Node:  node.ID(),
		Kind:  kind,
		State: a.current.StateCount,
	})
	a.current.StateCount++
}

func (a *analyzer) walkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		for _, d := range n.Declarators {
			if d.Init != nil {
				a.walkExpr(d.Init)
			}
		}
	case *ast.ExpressionStmt:
		a.walkExpr(n.Expression)
	case *ast.Block:
		for _, st := range n.Statements {
			a.walkStmt(st)
		}
	case *ast.If:
		a.walkExpr(n.Cond)
		a.walkStmt(n.Then)
		if n.Else != nil {
			a.walkStmt(n.Else)
		}
	case *ast.While:
		a.walkExpr(n.Cond)
		a.walkStmt(n.Body)
	case *ast.DoWhile:
		a.walkStmt(n.Body)
		a.walkExpr(n.Cond)
	case *ast.ForOf:
		a.walkExpr(n.Iterable)
		a.walkStmt(n.Body)
	case *ast.ForIn:
		a.walkExpr(n.Object)
		a.walkStmt(n.Body)
	case *ast.For:
		if n.Init != nil {
			a.walkStmt(n.Init)
		}
		if n.Cond != nil {
			a.walkExpr(n.Cond)
		}
		if n.Update != nil {
			a.walkExpr(n.Update)
		}
		a.walkStmt(n.Body)
	case *ast.Return:
		if n.Value != nil {
			a.walkExpr(n.Value)
		}
	case *ast.Throw:
		a.walkExpr(n.Value)
	case *ast.TryCatch:
		a.walkStmt(n.Try)
		if n.Catch != nil {
			a.walkStmt(n.Catch.Body)
		}
		if n.Finally != nil {
			a.walkStmt(n.Finally)
		}
	case *ast.Switch:
		a.walkExpr(n.Discriminant)
		for _, c := range n.Cases {
			if c.Test != nil {
				a.walkExpr(c.Test)
			}
			for _, st := range c.Body {
				a.walkStmt(st)
			}
		}
	case *ast.LabeledStatement:
		a.walkStmt(n.Body)
	case *ast.Sequence:
		for _, st := range n.Statements {
			a.walkStmt(st)
		}
	case *ast.FunctionDecl:
		a.walkFunction(n, n.Kind, n.Body)
	case *ast.ClassDecl:
		for _, m := range n.Members {
			if mm, ok := m.(*ast.MethodMember); ok && mm.Body != nil {
				a.walkFunction(mm, mm.FuncKind, mm.Body)
			}
		}
	}
}

func (a *analyzer) walkFunction(node ast.Node, kind ast.FunctionKind, body *ast.Block) {
	outer := a.current
	a.current = a.enter(node.ID(), kind)
	if body != nil {
		for _, st := range body.Statements {
			a.walkStmt(st)
		}
	}
	a.current = outer
}

func (a *analyzer) walkExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Binary:
		a.walkExpr(n.Left)
		a.walkExpr(n.Right)
	case *ast.Logical:
		a.walkExpr(n.Left)
		a.walkExpr(n.Right)
	case *ast.Unary:
		a.walkExpr(n.Operand)
	case *ast.Grouping:
		a.walkExpr(n.Inner)
	case *ast.SpreadArg:
		a.walkExpr(n.Value)
	case *ast.Call:
		a.walkExpr(n.Callee)
		for _, arg := range n.Args {
			a.walkExpr(arg)
		}
	case *ast.New:
		a.walkExpr(n.Callee)
		for _, arg := range n.Args {
			a.walkExpr(arg)
		}
	case *ast.Get:
		a.walkExpr(n.Object)
	case *ast.Set:
		a.walkExpr(n.Object)
		a.walkExpr(n.Value)
	case *ast.GetIndex:
		a.walkExpr(n.Object)
		a.walkExpr(n.Index)
	case *ast.SetIndex:
		a.walkExpr(n.Object)
		a.walkExpr(n.Index)
		a.walkExpr(n.Value)
	case *ast.Assign:
		a.walkExpr(n.Value)
	case *ast.CompoundAssign:
		a.walkExpr(n.Value)
	case *ast.CompoundSet:
		a.walkExpr(n.Object)
		a.walkExpr(n.Value)
	case *ast.CompoundSetIndex:
		a.walkExpr(n.Object)
		a.walkExpr(n.Index)
		a.walkExpr(n.Value)
	case *ast.PrefixIncrement:
		a.walkExpr(n.Target)
	case *ast.PostfixIncrement:
		a.walkExpr(n.Target)
	case *ast.Ternary:
		a.walkExpr(n.Cond)
		a.walkExpr(n.Then)
		a.walkExpr(n.Else)
	case *ast.TypeAssertion:
		a.walkExpr(n.Expr)
	case *ast.NullishCoalescing:
		a.walkExpr(n.Left)
		a.walkExpr(n.Right)
	case *ast.TemplateLiteral:
		for _, hole := range n.Holes {
			a.walkExpr(hole)
		}
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			a.walkExpr(el)
		}
	case *ast.ObjectLiteral:
		for _, prop := range n.Properties {
			if prop.Computed != nil {
				a.walkExpr(prop.Computed)
			}
			if prop.Value != nil {
				a.walkExpr(prop.Value)
			}
		}
	case *ast.Await:
		a.walkExpr(n.Value)
		a.record(n, SuspendAwait)
	case *ast.Yield:
		if n.Value != nil {
			a.walkExpr(n.Value)
		}
		a.record(n, SuspendYield)
	case *ast.YieldStar:
		a.walkExpr(n.Iterable)
		a.record(n, SuspendYieldDelegate)
	case *ast.ArrowFunction:
		// Arrow functions cannot themselves be generators and are only
		// suspension points when IsAsync; either way the suspension count
		// belongs to a fresh state machine planned independently, not the
		// enclosing function's, since awaiting inside an arrow suspends the
		// arrow's own call, not its lexical parent.
		outer := a.current
		if n.IsAsync {
			a.current = a.enter(n.ID(), ast.FuncAsync)
		} else {
			a.current = nil
		}
		switch body := n.Body.(type) {
		case *ast.Block:
			for _, st := range body.Statements {
				a.walkStmt(st)
			}
		case ast.Stmt:
			a.walkStmt(body)
		}
		a.current = outer
	}
}
