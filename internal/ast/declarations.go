package ast

// TypeAliasDecl is `type Name<T> = TypeExpr;`.
type TypeAliasDecl struct {
	Base
	Name       string
	TypeParams []TypeParam
	Value      TypeExpr
}

func (*TypeAliasDecl) node() {}
func (*TypeAliasDecl) stmt() {}

// NamespaceDecl is `namespace Name { ... }` / `module Name { ... }`.
type NamespaceDecl struct {
	Base
	Name       string
	Statements []Stmt
}

func (*NamespaceDecl) node() {}
func (*NamespaceDecl) stmt() {}

// ImportSpecifier is one named import binding: `{ Foo as Bar }`.
type ImportSpecifier struct {
	Imported string
	Local    string
}

// ImportDecl is `import ... from "module-specifier";` in any of its forms
// (named, default, namespace, side-effect-only).
type ImportDecl struct {
	Base
	Specifiers []ImportSpecifier
	Default    string // local name bound to the module's default export, if any
	Namespace  string // local name bound to `* as Namespace`, if any
	Source     string // the raw module specifier, resolved by internal/modgraph
}

func (*ImportDecl) node() {}
func (*ImportDecl) stmt() {}

// ImportAliasDecl is a DWScript-flavored `import X = require("m")` /
// `import X = A.B` alias form, distinct from ImportDecl because it binds a
// single name to an arbitrary qualified reference rather than destructuring
// a module's export set.
type ImportAliasDecl struct {
	Base
	Name  string
	Value Expr
}

func (*ImportAliasDecl) node() {}
func (*ImportAliasDecl) stmt() {}

// ExportSpecifier mirrors ImportSpecifier for re-exports.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportDecl covers `export <decl>`, `export { a, b as c }`, `export default
// expr`, and `export * from "m"`.
type ExportDecl struct {
	Base
	Decl       Stmt // non-nil for `export <decl>`
	Specifiers []ExportSpecifier
	Default    Expr
	ReexportFrom string // non-empty for `export ... from "m"` / `export * from "m"`
	Star       bool
}

func (*ExportDecl) node() {}
func (*ExportDecl) stmt() {}
