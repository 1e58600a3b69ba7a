package interp

import "errors"

// Environment is one lexical scope: a binding table chained to its parent.
// A function value's call environment always chains to its defining
// Environment (an ordinary Go closure), a superset of what closure.Plan
// says it captures; call.go's attachPlan records only the plan's EnvID on
// the function value.
type Environment struct {
	parent *Environment
	vars   map[string]*binding
}

type binding struct {
	value    any
	constant bool
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, vars: map[string]*binding{}}
}

// Define creates a new binding in this scope, shadowing any outer one.
func (e *Environment) Define(name string, value any, constant bool) {
	e.vars[name] = &binding{value: value, constant: constant}
}

func (e *Environment) Get(name string) (any, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

var errAssignConst = errors.New("Assignment to constant variable.")

// Assign mutates the nearest existing binding for name. A binding that
// doesn't exist anywhere in the chain is created in e itself, matching a
// sloppy-mode implicit global (the type checker has already rejected
// programs that rely on this, so it only matters for internally
// synthesized assignments).
func (e *Environment) Assign(name string, value any) error {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			if b.constant {
				return errAssignConst
			}
			b.value = value
			return nil
		}
	}
	e.vars[name] = &binding{value: value}
	return nil
}
