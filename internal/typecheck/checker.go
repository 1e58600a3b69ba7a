// Package typecheck implements SharpTS's Type System Core checker
// (spec.md §4.1/§4.2): it walks an internal/ast Program, resolving type
// annotations into internal/types.TypeInfo values, checking expression and
// statement forms for assignability, and threading an internal/narrow
// Context through conditionals so later reads of a narrowed variable see
// its refined type.
//
// Grounded on the teacher's internal/semantic.Analyzer: a single struct
// that owns a symbol table and a set of nominal-type registries, walks the
// tree with one method per node kind, and collects structured errors
// rather than failing on the first one (spec.md §9: a checker run reports
// every TypeCheckError it finds, not just the first).
package typecheck

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/narrow"
	"github.com/sharpts/sharpts/internal/token"
	"github.com/sharpts/sharpts/internal/types"
)

// Checker holds all state accumulated while checking a single Program.
type Checker struct {
	registry *types.Registry
	scope    *Scope
	errors   []*TypeCheckError
	typeMap  map[ast.NodeID]types.TypeInfo

	narrowCtx narrow.Context

	typeAliases    map[string]*ast.TypeAliasDecl
	classNames     map[string]types.ID
	interfaceTypes map[string]types.InterfaceType
	enumTypes      map[string]types.EnumType
	typeParamStack map[string][]types.TypeInfo

	currentReturn types.TypeInfo
	funcDepth     int
	loopDepth     int
	currentClass  *types.ClassType
}

// NewChecker constructs a Checker with its own fresh nominal-type Registry
// — each Check call is independent, the way each Parser.New call is.
func NewChecker() *Checker {
	return &Checker{
		registry:       types.NewRegistry(),
		scope:          NewScope(),
		typeMap:        map[ast.NodeID]types.TypeInfo{},
		narrowCtx:      narrow.Empty(),
		typeAliases:    map[string]*ast.TypeAliasDecl{},
		classNames:     map[string]types.ID{},
		interfaceTypes: map[string]types.InterfaceType{},
		enumTypes:      map[string]types.EnumType{},
		typeParamStack: map[string][]types.TypeInfo{},
	}
}

// TypeMap returns the NodeID -> TypeInfo side table built up during Check,
// keyed the same way the parser keys ast.Base identity.
func (c *Checker) TypeMap() map[ast.NodeID]types.TypeInfo { return c.typeMap }

// Errors returns every TypeCheckError accumulated during Check.
func (c *Checker) Errors() []*TypeCheckError { return c.errors }

func (c *Checker) errorAt(pos token.Position, code, format string, args ...any) {
	c.errors = append(c.errors, newError(pos, code, format, args...))
}

func (c *Checker) record(n ast.Node, t types.TypeInfo) types.TypeInfo {
	c.typeMap[n.ID()] = t
	return t
}

func (c *Checker) pushTypeParam(name string, t types.TypeInfo) {
	c.typeParamStack[name] = append(c.typeParamStack[name], t)
}

func (c *Checker) popTypeParam(name string) {
	stack := c.typeParamStack[name]
	c.typeParamStack[name] = stack[:len(stack)-1]
}

func (c *Checker) lookupTypeParam(name string) (types.TypeInfo, bool) {
	stack := c.typeParamStack[name]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Check type-checks an entire program: one hoisting pass registers every
// top-level type declaration (classes, interfaces, enums, type aliases) so
// forward and mutually-recursive references resolve regardless of
// declaration order — the same hoisting a JS/TS module gives these forms
// at runtime — then a second pass checks every statement's semantics.
func Check(prog *ast.Program) (map[ast.NodeID]types.TypeInfo, []*TypeCheckError) {
	c := NewChecker()
	c.hoistDeclarations(prog.Statements)
	for _, stmt := range prog.Statements {
		c.checkStmt(stmt)
	}
	return c.typeMap, c.errors
}

// CheckModules type-checks a whole module graph as one unit, sharing a
// single Checker (and so a single nominal-type Registry) across every
// program: progs is checked in the order given, and every module's top-level declarations are hoisted before any module's
// statements are checked, so an import cycle's mutually-referencing
// classes still resolve regardless of which module in the cycle declares
// first.
func CheckModules(progs []*ast.Program) (map[ast.NodeID]types.TypeInfo, []*TypeCheckError) {
	c := NewChecker()
	for _, prog := range progs {
		c.hoistDeclarations(prog.Statements)
	}
	for _, prog := range progs {
		for _, stmt := range prog.Statements {
			c.checkStmt(stmt)
		}
	}
	return c.typeMap, c.errors
}

func (c *Checker) hoistDeclarations(stmts []ast.Stmt) {
	// Interfaces and aliases first: classes may reference them in
	// `implements`/field-type position.
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.InterfaceDecl:
			c.hoistInterface(d)
		case *ast.TypeAliasDecl:
			c.typeAliases[d.Name] = d
		case *ast.ExportDecl:
			if d.Decl != nil {
				c.hoistDeclarations([]ast.Stmt{d.Decl})
			}
		}
	}
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.EnumDecl:
			c.hoistEnum(d)
		case *ast.ClassDecl:
			c.hoistClass(d)
		case *ast.FunctionDecl:
			c.hoistFunction(d)
		}
	}
}

// hoistFunction registers a named top-level function's signature as a
// scope-level binding before any statement body is checked, so functions
// can call each other regardless of declaration order — the same forward
// reference hoisting classes/interfaces/enums get above.
func (c *Checker) hoistFunction(d *ast.FunctionDecl) {
	if d.Name == "" {
		return
	}
	for _, tp := range d.TypeParams {
		c.pushTypeParam(tp.Name, types.TypeParameterType{Name: tp.Name})
	}
	sig := c.resolveFunctionSig(d.Params, d.ReturnType)
	if (d.Kind == ast.FuncAsync || d.Kind == ast.FuncAsyncGenerator) && d.ReturnType != nil {
		// An explicit annotation on an async function is taken as the
		// already-wrapped external type (`Promise<T>`); a bare `T` would be
		// unusual but is accepted as shorthand and left unwrapped, matching
		// checkFunctionDecl's symmetric unwrap-if-already-Promise handling
		// for the body's internal return type.
		if _, alreadyPromise := sig.ReturnType.(types.PromiseType); !alreadyPromise {
			sig.ReturnType = types.PromiseType{Elem: sig.ReturnType}
		}
	}
	for _, tp := range d.TypeParams {
		c.popTypeParam(tp.Name)
	}

	if len(d.TypeParams) == 0 {
		c.scope.Define(d.Name, sig, true)
		return
	}
	params := make([]types.TypeParameterType, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		params[i] = types.TypeParameterType{Name: tp.Name}
	}
	c.scope.Define(d.Name, types.GenericFunctionType{Name: d.Name, TypeParams: params, Body: sig}, true)
}

func (c *Checker) hoistInterface(d *ast.InterfaceDecl) {
	iface := types.InterfaceType{ID: types.NewID(), Name: d.Name}
	for _, m := range d.Properties {
		iface.Members = append(iface.Members, types.PropertyInfo{
			Name: m.Name, Type: c.resolveType(m.Type), Optional: m.Optional, Readonly: m.Readonly,
		})
	}
	for _, m := range d.Methods {
		iface.Members = append(iface.Members, types.PropertyInfo{
			Name: m.Name, Type: c.resolveFunctionSig(m.Params, m.ReturnType), Optional: m.Optional,
		})
	}
	for _, idx := range d.Indices {
		iface.Indices = append(iface.Indices, types.IndexSignature{
			KeyType: c.resolveType(idx.KeyType), ValType: c.resolveType(idx.ValType),
		})
	}
	for _, ext := range d.Extends {
		iface.Extends = append(iface.Extends, c.resolveType(ext))
	}
	c.interfaceTypes[d.Name] = iface
}

func (c *Checker) hoistEnum(d *ast.EnumDecl) {
	e := types.EnumType{ID: types.NewID(), Name: d.Name}
	var nextNumeric float64
	sawString, sawNumber := false, false
	for _, m := range d.Members {
		var value any
		if m.Value != nil {
			value = c.constEnumValue(m.Value)
		} else {
			value = nextNumeric
		}
		switch value.(type) {
		case float64:
			nextNumeric = value.(float64) + 1
			sawNumber = true
		case string:
			sawString = true
		}
		e.Members = append(e.Members, types.EnumMemberInfo{Name: m.Name, Value: value})
	}
	e.Kind = enumKind(d.Kind, sawString, sawNumber)
	c.registry.RegisterEnum(e)
	c.enumTypes[d.Name] = e
}

// enumKind maps ast.EnumKind's four declaration-site shapes onto
// types.EnumKind's three, since a `const enum` (ast.EnumConst) carries no
// type-system distinction of its own — it's numeric, string, or
// heterogeneous exactly like its non-const counterpart, just inlined at
// every use site instead of backed by a runtime object. That inlining is a
// codegen concern, not a checking one, so it collapses to whichever of the
// three its members' values actually are.
func enumKind(k ast.EnumKind, sawString, sawNumber bool) types.EnumKind {
	if k != ast.EnumConst {
		return types.EnumKind(k)
	}
	switch {
	case sawString && sawNumber:
		return types.EnumHeterogeneous
	case sawString:
		return types.EnumString
	default:
		return types.EnumNumeric
	}
}

// constEnumValue evaluates the handful of expression forms TypeScript
// allows as an enum member initializer at check time (literals and simple
// unary negation); anything else is treated as an opaque numeric member,
// matching how the parser's own literal-only expectation elsewhere degrades
// gracefully rather than failing the whole declaration.
func (c *Checker) constEnumValue(e ast.Expr) any {
	switch v := e.(type) {
	case *ast.Literal:
		return v.Value
	case *ast.Unary:
		if v.Operator == token.MINUS {
			if n, ok := c.constEnumValue(v.Operand).(float64); ok {
				return -n
			}
		}
	}
	return float64(0)
}

func (c *Checker) hoistClass(d *ast.ClassDecl) {
	ct := types.ClassType{
		ID: types.NewID(), Name: d.Name,
		Methods: map[string]types.FunctionType{}, StaticMethods: map[string]types.FunctionType{},
		Getters: map[string]types.FunctionType{}, Setters: map[string]types.FunctionType{},
		Access: map[string]types.Visibility{}, ReadonlySet: map[string]bool{},
	}
	c.classNames[d.Name] = ct.ID

	for _, tp := range d.TypeParams {
		c.pushTypeParam(tp.Name, types.TypeParameterType{Name: tp.Name})
	}
	defer func() {
		for _, tp := range d.TypeParams {
			c.popTypeParam(tp.Name)
		}
	}()

	if d.SuperClass != nil {
		if ref, ok := d.SuperClass.(*ast.TypeRef); ok {
			if superID, ok := c.classNames[ref.Name]; ok {
				ct.Super = &superID
			}
		}
	}
	for _, itf := range d.Interfaces {
		if ref, ok := itf.(*ast.TypeRef); ok {
			if iface, ok := c.interfaceTypes[ref.Name]; ok {
				ct.Interfaces = append(ct.Interfaces, iface.ID)
			}
		}
	}

	for _, member := range d.Members {
		switch m := member.(type) {
		case *ast.FieldMember:
			prop := types.PropertyInfo{Name: m.Name, Type: c.resolveType(m.Type), Readonly: m.Readonly}
			if m.Static {
				ct.StaticFields = append(ct.StaticFields, prop)
			} else {
				ct.Fields = append(ct.Fields, prop)
			}
			ct.Access[m.Name] = types.Visibility(m.Visibility)
			if m.Readonly {
				ct.ReadonlySet[m.Name] = true
			}
		case *ast.MethodMember:
			sig := c.resolveFunctionSig(m.Params, m.ReturnType)
			ct.Access[m.Name] = types.Visibility(m.Visibility)
			switch {
			case m.Kind == ast.MethodGetter:
				ct.Getters[m.Name] = sig
			case m.Kind == ast.MethodSetter:
				ct.Setters[m.Name] = sig
			case m.Static:
				ct.StaticMethods[m.Name] = sig
			default:
				ct.Methods[m.Name] = sig
			}
		}
	}
	c.registry.RegisterClass(ct)
}

func (c *Checker) resolveFunctionSig(params []ast.Param, ret ast.TypeExpr) types.FunctionType {
	ft := types.FunctionType{ReturnType: c.resolveType(ret)}
	for _, p := range params {
		if p.Rest {
			ft.HasRest = true
			ft.ParamTypes = append(ft.ParamTypes, types.ArrayType{Element: c.resolveType(p.Type)})
			continue
		}
		ft.ParamTypes = append(ft.ParamTypes, c.resolveType(p.Type))
		if !p.Optional && p.Default == nil {
			ft.RequiredCount++
		}
	}
	return ft
}
