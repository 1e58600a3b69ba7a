// Package closure computes, for every function-like node in a checked
// program, which outer-scope bindings it reads or writes (its capture set)
// and assigns each function a stable environment identity. The
// interpreter (internal/interp) stamps each function value with its plan's
// EnvID, and the bytecode emitter (internal/bytecode) reads CapturesThis to
// reject functions it does not lower; neither derives variable access from
// Captures.
package closure

import (
	"github.com/google/uuid"

	"github.com/sharpts/sharpts/internal/ast"
)

// EnvID identifies one heap-allocated environment record at plan time. Two
// functions that close over the same lexical scope (e.g. an arrow function
// and its enclosing method) share an EnvID for that scope; a function gets
// its own EnvID for the scope it introduces.
type EnvID uuid.UUID

func newEnvID() EnvID { return EnvID(uuid.New()) }

func (id EnvID) String() string { return uuid.UUID(id).String() }

// FunctionPlan is the capture analysis for a single function-like node.
type FunctionPlan struct {
	Env EnvID

	// Captures lists, in first-reference order, the names this function
	// reads or writes that are declared in an enclosing scope rather than
	// its own parameters or locals.
	Captures []string

	// CapturesThis is true when the function body (an arrow function, or a
	// nested function expression within one) refers to the lexical `this`
	// of an enclosing non-arrow function or method.
	CapturesThis bool

	// Parent is the EnvID of the nearest enclosing function-like scope, or
	// the zero value at the program's top level.
	Parent EnvID
}

// Plan is the result of planning an entire program: one FunctionPlan per
// function-like node, keyed by that node's ast.NodeID.
type Plan struct {
	Functions map[ast.NodeID]*FunctionPlan
}

// scope tracks the names bound directly within one lexical block or
// function, plus a link to its parent so Planner can tell a local from a
// capture without a symbol table shared with internal/typecheck.
type scope struct {
	parent *scope
	names  map[string]bool
	fn     *funcScope // non-nil at a function boundary
}

// funcScope accumulates the capture set for the function-like node that
// introduced this scope chain link.
type funcScope struct {
	node         ast.Node
	plan         *FunctionPlan
	seen         map[string]bool
	isArrow      bool
	thisCapturer bool // the function itself is not an arrow and owns `this`
}

func (s *scope) declare(name string) {
	if name != "" {
		s.names[name] = true
	}
}

func (s *scope) nearestFunc() *scope {
	for c := s; c != nil; c = c.parent {
		if c.fn != nil {
			return c
		}
	}
	return nil
}

// Planner walks a program's statement tree and builds a Plan.
type Planner struct {
	plan *Plan
}

func NewPlanner() *Planner {
	return &Planner{plan: &Plan{Functions: map[ast.NodeID]*FunctionPlan{}}}
}

// Analyze walks prog and returns the completed capture plan.
func Analyze(prog *ast.Program) *Plan {
	p := NewPlanner()
	root := &scope{names: map[string]bool{}}
	for _, s := range prog.Statements {
		p.walkStmt(s, root)
	}
	return p.plan
}

func (p *Planner) pushFunction(node ast.Node, parent *scope, isArrow bool) *scope {
	fp := &FunctionPlan{Env: newEnvID()}
	if pf := parent.nearestFunc(); pf != nil {
		fp.Parent = pf.fn.plan.Env
	}
	p.plan.Functions[node.ID()] = fp
	return &scope{
		parent: parent,
		names:  map[string]bool{},
		fn: &funcScope{
			node:    node,
			plan:    fp,
			seen:    map[string]bool{},
			isArrow: isArrow,
		},
	}
}

// resolveRead records name as a capture of every function scope between the
// reading scope and the scope that actually declares it (exclusive).
func (p *Planner) resolveRead(name string, s *scope) {
	for c := s; c != nil; c = c.parent {
		if c.names[name] {
			return
		}
		if c.fn != nil && !c.fn.seen[name] {
			c.fn.seen[name] = true
			c.fn.plan.Captures = append(c.fn.plan.Captures, name)
		}
	}
}

// resolveThis marks every arrow function scope between s and the nearest
// non-arrow function as capturing the lexical `this`.
func (p *Planner) resolveThis(s *scope) {
	for c := s; c != nil; c = c.parent {
		if c.fn == nil {
			continue
		}
		if !c.fn.isArrow {
			return
		}
		c.fn.plan.CapturesThis = true
	}
}

func (p *Planner) walkStmt(s ast.Stmt, sc *scope) {
	switch n := s.(type) {
	case *ast.VarDecl:
		for _, d := range n.Declarators {
			if d.Init != nil {
				p.walkExpr(d.Init, sc)
			}
			declareDeclarator(sc, d)
		}
	case *ast.ExpressionStmt:
		p.walkExpr(n.Expression, sc)
	case *ast.Block:
		inner := &scope{parent: sc, names: map[string]bool{}}
		for _, st := range n.Statements {
			p.walkStmt(st, inner)
		}
	case *ast.If:
		p.walkExpr(n.Cond, sc)
		p.walkStmt(n.Then, sc)
		if n.Else != nil {
			p.walkStmt(n.Else, sc)
		}
	case *ast.While:
		p.walkExpr(n.Cond, sc)
		p.walkStmt(n.Body, sc)
	case *ast.DoWhile:
		p.walkStmt(n.Body, sc)
		p.walkExpr(n.Cond, sc)
	case *ast.ForOf:
		inner := &scope{parent: sc, names: map[string]bool{}}
		inner.declare(n.Name)
		p.walkExpr(n.Iterable, sc)
		p.walkStmt(n.Body, inner)
	case *ast.ForIn:
		inner := &scope{parent: sc, names: map[string]bool{}}
		inner.declare(n.Name)
		p.walkExpr(n.Object, sc)
		p.walkStmt(n.Body, inner)
	case *ast.For:
		inner := &scope{parent: sc, names: map[string]bool{}}
		if n.Init != nil {
			p.walkStmt(n.Init, inner)
		}
		if n.Cond != nil {
			p.walkExpr(n.Cond, inner)
		}
		if n.Update != nil {
			p.walkExpr(n.Update, inner)
		}
		p.walkStmt(n.Body, inner)
	case *ast.Return:
		if n.Value != nil {
			p.walkExpr(n.Value, sc)
		}
	case *ast.Throw:
		p.walkExpr(n.Value, sc)
	case *ast.TryCatch:
		p.walkStmt(n.Try, sc)
		if n.Catch != nil {
			inner := &scope{parent: sc, names: map[string]bool{}}
			inner.declare(n.Catch.Param)
			p.walkStmt(n.Catch.Body, inner)
		}
		if n.Finally != nil {
			p.walkStmt(n.Finally, sc)
		}
	case *ast.Switch:
		p.walkExpr(n.Discriminant, sc)
		inner := &scope{parent: sc, names: map[string]bool{}}
		for _, c := range n.Cases {
			if c.Test != nil {
				p.walkExpr(c.Test, inner)
			}
			for _, st := range c.Body {
				p.walkStmt(st, inner)
			}
		}
	case *ast.LabeledStatement:
		p.walkStmt(n.Body, sc)
	case *ast.FunctionDecl:
		sc.declare(n.Name)
		fnScope := p.pushFunction(n, sc, false)
		for _, param := range n.Params {
			fnScope.declare(param.Name)
		}
		if n.Body != nil {
			for _, st := range n.Body.Statements {
				p.walkStmt(st, fnScope)
			}
		}
	case *ast.ClassDecl:
		sc.declare(n.Name)
		p.walkClass(n, sc)
	case *ast.Sequence:
		for _, st := range n.Statements {
			p.walkStmt(st, sc)
		}
	}
}

func declareDeclarator(sc *scope, d ast.Declarator) {
	if d.Pattern != nil {
		declarePattern(sc, d.Pattern)
		return
	}
	sc.declare(d.Name)
}

func declarePattern(sc *scope, pat *ast.BindingPattern) {
	for _, el := range pat.Elements {
		if el.Nested != nil {
			declarePattern(sc, el.Nested)
			continue
		}
		sc.declare(el.Target)
	}
}

func (p *Planner) walkClass(n *ast.ClassDecl, sc *scope) {
	for _, m := range n.Members {
		switch member := m.(type) {
		case *ast.MethodMember:
			fnScope := p.pushFunction(member, sc, false)
			for _, param := range member.Params {
				fnScope.declare(param.Name)
			}
			if member.Body != nil {
				for _, st := range member.Body.Statements {
					p.walkStmt(st, fnScope)
				}
			}
		case *ast.FieldMember:
			if member.Init != nil {
				p.walkExpr(member.Init, sc)
			}
		}
	}
}

func (p *Planner) walkExpr(e ast.Expr, sc *scope) {
	switch n := e.(type) {
	case *ast.Ident:
		p.resolveRead(n.Name, sc)
	case *ast.ThisExpr:
		p.resolveThis(sc)
	case *ast.Binary:
		p.walkExpr(n.Left, sc)
		p.walkExpr(n.Right, sc)
	case *ast.Logical:
		p.walkExpr(n.Left, sc)
		p.walkExpr(n.Right, sc)
	case *ast.Unary:
		p.walkExpr(n.Operand, sc)
	case *ast.Grouping:
		p.walkExpr(n.Inner, sc)
	case *ast.SpreadArg:
		p.walkExpr(n.Value, sc)
	case *ast.Call:
		p.walkExpr(n.Callee, sc)
		for _, a := range n.Args {
			p.walkExpr(a, sc)
		}
	case *ast.New:
		p.walkExpr(n.Callee, sc)
		for _, a := range n.Args {
			p.walkExpr(a, sc)
		}
	case *ast.Get:
		p.walkExpr(n.Object, sc)
	case *ast.Set:
		p.walkExpr(n.Object, sc)
		p.walkExpr(n.Value, sc)
	case *ast.GetIndex:
		p.walkExpr(n.Object, sc)
		p.walkExpr(n.Index, sc)
	case *ast.SetIndex:
		p.walkExpr(n.Object, sc)
		p.walkExpr(n.Index, sc)
		p.walkExpr(n.Value, sc)
	case *ast.Assign:
		p.resolveRead(n.Name, sc)
		p.walkExpr(n.Value, sc)
	case *ast.CompoundAssign:
		p.resolveRead(n.Name, sc)
		p.walkExpr(n.Value, sc)
	case *ast.CompoundSet:
		p.walkExpr(n.Object, sc)
		p.walkExpr(n.Value, sc)
	case *ast.CompoundSetIndex:
		p.walkExpr(n.Object, sc)
		p.walkExpr(n.Index, sc)
		p.walkExpr(n.Value, sc)
	case *ast.PrefixIncrement:
		p.walkExpr(n.Target, sc)
	case *ast.PostfixIncrement:
		p.walkExpr(n.Target, sc)
	case *ast.Ternary:
		p.walkExpr(n.Cond, sc)
		p.walkExpr(n.Then, sc)
		p.walkExpr(n.Else, sc)
	case *ast.TypeAssertion:
		p.walkExpr(n.Expr, sc)
	case *ast.NullishCoalescing:
		p.walkExpr(n.Left, sc)
		p.walkExpr(n.Right, sc)
	case *ast.TemplateLiteral:
		for _, part := range n.Holes {
			p.walkExpr(part, sc)
		}
	case *ast.ObjectLiteral:
		for _, prop := range n.Properties {
			if prop.Computed != nil {
				p.walkExpr(prop.Computed, sc)
			}
			if prop.Value != nil {
				p.walkExpr(prop.Value, sc)
			}
		}
	case *ast.Yield:
		if n.Value != nil {
			p.walkExpr(n.Value, sc)
		}
	case *ast.YieldStar:
		p.walkExpr(n.Iterable, sc)
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			p.walkExpr(el, sc)
		}
	case *ast.Await:
		p.walkExpr(n.Value, sc)
	case *ast.ArrowFunction:
		fnScope := p.pushFunction(n, sc, true)
		for _, param := range n.Params {
			fnScope.declare(param.Name)
		}
		switch body := n.Body.(type) {
		case *ast.Block:
			for _, st := range body.Statements {
				p.walkStmt(st, fnScope)
			}
		case ast.Stmt:
			p.walkStmt(body, fnScope)
		}
	}
}
