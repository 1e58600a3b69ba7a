package typecheck

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/narrow"
	"github.com/sharpts/sharpts/internal/types"
)

// bindParam defines a function/method/arrow parameter in the current scope,
// destructuring a binding pattern when present, the same way bindDeclarator
// does for a VarDecl.
func (c *Checker) bindParam(p ast.Param, t types.TypeInfo) {
	if p.Default != nil {
		c.checkExpr(p.Default)
	}
	if p.Pattern != nil {
		c.bindPattern(*p.Pattern, t, false)
		return
	}
	c.scope.Define(p.Name, t, false)
	c.narrowCtx = c.narrowCtx.Invalidate(narrow.Variable(p.Name))
}

// checkFunctionDecl checks a top-level/nested function declaration's body.
// hoistFunction has already registered the signature in the enclosing
// scope; the parameter and return types are resolved again here to bind
// the parameters and to check return statements against.
func (c *Checker) checkFunctionDecl(n *ast.FunctionDecl) {
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	savedReturn := c.currentReturn
	savedLoopDepth := c.loopDepth
	c.funcDepth++
	c.loopDepth = 0

	for _, tp := range n.TypeParams {
		c.pushTypeParam(tp.Name, types.TypeParameterType{Name: tp.Name})
	}

	for _, p := range n.Params {
		pt := c.resolveType(p.Type)
		c.bindParam(p, pt)
	}
	c.currentReturn = c.resolveType(n.ReturnType)
	if n.Kind == ast.FuncAsync || n.Kind == ast.FuncAsyncGenerator {
		if p, ok := c.currentReturn.(types.PromiseType); ok {
			c.currentReturn = p.Elem
		}
	}

	if n.Body != nil {
		c.checkBlock(n.Body)
	}

	for _, tp := range n.TypeParams {
		c.popTypeParam(tp.Name)
	}
	c.funcDepth--
	c.loopDepth = savedLoopDepth
	c.currentReturn = savedReturn
	c.scope = enclosing
}

// checkClassDecl checks every method body against the ClassType hoistClass
// already registered, binding `this` to the class's own InstanceType and
// each field as an enclosing-scope symbol so method bodies see sibling
// fields/methods without qualification failing.
func (c *Checker) checkClassDecl(n *ast.ClassDecl) {
	classID, ok := c.classNames[n.Name]
	if !ok {
		return
	}
	class, ok := c.registry.Class(classID)
	if !ok {
		return
	}

	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	savedClass := c.currentClass
	c.currentClass = &class

	for _, tp := range n.TypeParams {
		c.pushTypeParam(tp.Name, types.TypeParameterType{Name: tp.Name})
	}

	for _, member := range n.Members {
		switch m := member.(type) {
		case *ast.FieldMember:
			if m.Init != nil {
				initType := c.checkExpr(m.Init)
				declared := c.resolveType(m.Type)
				if m.Type != nil && !types.Compatible(declared, initType, c.registry) {
					c.errorAt(m.Init.Pos(), ErrNotAssignable,
						"type '%s' is not assignable to type '%s'", initType.String(), declared.String())
				}
			}
		case *ast.MethodMember:
			c.checkMethodBody(m)
		}
	}

	for _, tp := range n.TypeParams {
		c.popTypeParam(tp.Name)
	}
	c.currentClass = savedClass
	c.scope = enclosing
}

func (c *Checker) checkMethodBody(m *ast.MethodMember) {
	if m.Body == nil {
		return
	}
	enclosing := c.scope
	c.scope = NewEnclosedScope(enclosing)
	savedReturn := c.currentReturn
	savedLoopDepth := c.loopDepth
	c.funcDepth++
	c.loopDepth = 0

	for _, tp := range m.TypeParams {
		c.pushTypeParam(tp.Name, types.TypeParameterType{Name: tp.Name})
	}
	for _, p := range m.Params {
		pt := c.resolveType(p.Type)
		c.bindParam(p, pt)
		// TypeScript parameter-property shorthand (`constructor(private x:
		// T)`) both declares and assigns the field in one step; hoistClass
		// doesn't see these since they aren't FieldMembers, so nothing
		// downstream depends on re-registering them here beyond the
		// parameter binding itself.
	}
	if m.Kind == ast.MethodGetter {
		c.currentReturn = c.resolveType(m.ReturnType)
	} else {
		c.currentReturn = c.resolveType(m.ReturnType)
		if m.FuncKind == ast.FuncAsync || m.FuncKind == ast.FuncAsyncGenerator {
			if p, ok := c.currentReturn.(types.PromiseType); ok {
				c.currentReturn = p.Elem
			}
		}
	}

	c.checkBlock(m.Body)

	for _, tp := range m.TypeParams {
		c.popTypeParam(tp.Name)
	}
	c.funcDepth--
	c.loopDepth = savedLoopDepth
	c.currentReturn = savedReturn
	c.scope = enclosing
}
