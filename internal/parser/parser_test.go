package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/token"
)

// testParser lexes input to completion and returns a fresh Parser over it.
func testParser(input string) *Parser {
	return New(lexer.Tokenize(input))
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	t.Errorf("parser has %d errors", len(errs))
	for _, e := range errs {
		t.Errorf("parser error: %s", e.Error())
	}
	t.FailNow()
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"5;", float64(5)},
		{"3.14;", 3.14},
		{`"hello";`, "hello"},
		{"true;", true},
		{"false;", false},
		{"null;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := testParser(tt.input)
			program := p.ParseProgram()
			checkParserErrors(t, p)

			if len(program.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(program.Statements))
			}
			stmt, ok := program.Statements[0].(*ast.ExpressionStmt)
			if !ok {
				t.Fatalf("statement is %T, want *ast.ExpressionStmt", program.Statements[0])
			}
			lit, ok := stmt.Expression.(*ast.Literal)
			if !ok {
				t.Fatalf("expression is %T, want *ast.Literal", stmt.Expression)
			}
			if lit.Value != tt.expected {
				t.Errorf("literal.Value = %v, want %v", lit.Value, tt.expected)
			}
		})
	}
}

func TestBinaryPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  token.Kind // Operator of the outermost Binary node
	}{
		{"1 + 2 * 3;", token.PLUS},
		{"1 * 2 + 3;", token.PLUS},
		{"1 < 2 == 3 < 4;", token.EQ},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := testParser(tt.input)
			program := p.ParseProgram()
			checkParserErrors(t, p)
			if len(program.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(program.Statements))
			}
			stmt := program.Statements[0].(*ast.ExpressionStmt)
			bin, ok := stmt.Expression.(*ast.Binary)
			if !ok {
				t.Fatalf("expression is %T, want *ast.Binary", stmt.Expression)
			}
			if bin.Operator != tt.want {
				t.Errorf("outermost operator = %s, want %s", bin.Operator, tt.want)
			}
		})
	}
}

func TestNullishBindsLooserThanLogicalOr(t *testing.T) {
	p := testParser("a ?? b || c;")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExpressionStmt)
	nc, ok := stmt.Expression.(*ast.NullishCoalescing)
	if !ok {
		t.Fatalf("expression is %T, want *ast.NullishCoalescing", stmt.Expression)
	}
	if _, ok := nc.Right.(*ast.Logical); !ok {
		t.Fatalf("right operand is %T, want *ast.Logical (|| binds tighter than ??)", nc.Right)
	}
}

func TestArrowFunctionParamAndReturnType(t *testing.T) {
	p := testParser("const f = (x: number, y: number): number => x + y;")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	decl, ok := program.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarDecl", program.Statements[0])
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("got %d declarators, want 1", len(decl.Declarators))
	}
	arrow, ok := decl.Declarators[0].Init.(*ast.ArrowFunction)
	if !ok {
		t.Fatalf("init is %T, want *ast.ArrowFunction", decl.Declarators[0].Init)
	}
	if len(arrow.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(arrow.Params))
	}
	if arrow.ReturnType == nil {
		t.Fatalf("expected arrow function return type to be captured")
	}
	if ref, ok := arrow.ReturnType.(*ast.TypeRef); !ok || ref.Name != "number" {
		t.Fatalf("return type = %#v, want TypeRef{Name: number}", arrow.ReturnType)
	}
}

func TestBareArrowFunction(t *testing.T) {
	p := testParser("const double = x => x * 2;")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	decl := program.Statements[0].(*ast.VarDecl)
	arrow, ok := decl.Declarators[0].Init.(*ast.ArrowFunction)
	if !ok {
		t.Fatalf("init is %T, want *ast.ArrowFunction", decl.Declarators[0].Init)
	}
	if len(arrow.Params) != 1 || arrow.Params[0].Name != "x" {
		t.Fatalf("params = %#v", arrow.Params)
	}
	ret, ok := arrow.Body.(*ast.Return)
	if !ok {
		t.Fatalf("body is %T, want *ast.Return", arrow.Body)
	}
	if ret.Value == nil {
		t.Fatalf("expected non-nil return value for expression-bodied arrow")
	}
}

func TestTemplateLiteralHoles(t *testing.T) {
	p := testParser("`sum is ${a + b} units`;")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExpressionStmt)
	lit, ok := stmt.Expression.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expression is %T, want *ast.TemplateLiteral", stmt.Expression)
	}
	if len(lit.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(lit.Holes))
	}
	if _, ok := lit.Holes[0].(*ast.Binary); !ok {
		t.Fatalf("hole is %T, want *ast.Binary", lit.Holes[0])
	}
}

func TestDestructuringParams(t *testing.T) {
	p := testParser("function f({a, b: renamed}, [x, , ...rest]) {}")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	decl, ok := program.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionDecl", program.Statements[0])
	}
	if len(decl.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(decl.Params))
	}
	if decl.Params[0].Pattern == nil || decl.Params[0].Pattern.Kind != ast.PatternObject {
		t.Fatalf("param 0 pattern = %#v, want object pattern", decl.Params[0].Pattern)
	}
	if decl.Params[1].Pattern == nil || decl.Params[1].Pattern.Kind != ast.PatternArray {
		t.Fatalf("param 1 pattern = %#v, want array pattern", decl.Params[1].Pattern)
	}
	arr := decl.Params[1].Pattern
	if len(arr.Elements) != 3 {
		t.Fatalf("got %d array pattern elements, want 3 (including elision hole)", len(arr.Elements))
	}
	if !arr.Elements[2].Rest {
		t.Fatalf("expected last array pattern element to be a rest element")
	}
}

func TestAsAndSatisfies(t *testing.T) {
	tests := []struct {
		input     string
		satisfies bool
	}{
		{"x as string;", false},
		{"x satisfies Shape;", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := testParser(tt.input)
			program := p.ParseProgram()
			checkParserErrors(t, p)

			stmt := program.Statements[0].(*ast.ExpressionStmt)
			assertion, ok := stmt.Expression.(*ast.TypeAssertion)
			if !ok {
				t.Fatalf("expression is %T, want *ast.TypeAssertion", stmt.Expression)
			}
			if assertion.Satisfies != tt.satisfies {
				t.Errorf("Satisfies = %v, want %v", assertion.Satisfies, tt.satisfies)
			}
		})
	}
}

func TestMappedAndConditionalTypes(t *testing.T) {
	p := testParser("type Partial<T> = { [K in keyof T]?: T[K] };")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	decl, ok := program.Statements[0].(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.TypeAliasDecl", program.Statements[0])
	}
	mapped, ok := decl.Value.(*ast.MappedType)
	if !ok {
		t.Fatalf("value is %T, want *ast.MappedType", decl.Value)
	}
	if mapped.Param != "K" {
		t.Errorf("Param = %q, want K", mapped.Param)
	}
	if _, ok := mapped.Constraint.(*ast.KeyOfType); !ok {
		t.Errorf("Constraint = %T, want *ast.KeyOfType", mapped.Constraint)
	}
	if _, ok := mapped.ValueType.(*ast.IndexedAccessType); !ok {
		t.Errorf("ValueType = %T, want *ast.IndexedAccessType", mapped.ValueType)
	}
}

func TestConditionalTypeWithInfer(t *testing.T) {
	p := testParser("type Elem<T> = T extends (infer U)[] ? U : never;")
	program := p.ParseProgram()
	checkParserErrors(t, p)

	decl := program.Statements[0].(*ast.TypeAliasDecl)
	cond, ok := decl.Value.(*ast.ConditionalType)
	if !ok {
		t.Fatalf("value is %T, want *ast.ConditionalType", decl.Value)
	}
	if len(cond.Infers) != 1 || cond.Infers[0] != "U" {
		t.Errorf("Infers = %v, want [U]", cond.Infers)
	}
}

func TestControlFlowDesugaring(t *testing.T) {
	t.Run("do-while desugars to Block+While", func(t *testing.T) {
		p := testParser("do { x++; } while (x < 10);")
		program := p.ParseProgram()
		checkParserErrors(t, p)

		block, ok := program.Statements[0].(*ast.Block)
		if !ok {
			t.Fatalf("statement is %T, want *ast.Block", program.Statements[0])
		}
		if len(block.Statements) != 2 {
			t.Fatalf("got %d block statements, want 2 (body, while)", len(block.Statements))
		}
		if _, ok := block.Statements[1].(*ast.While); !ok {
			t.Fatalf("second statement is %T, want *ast.While", block.Statements[1])
		}
	})

	t.Run("classic for keeps its own node with Init/Cond/Update/Body", func(t *testing.T) {
		p := testParser("for (let i = 0; i < 10; i++) { sum += i; }")
		program := p.ParseProgram()
		checkParserErrors(t, p)

		loop, ok := program.Statements[0].(*ast.For)
		if !ok {
			t.Fatalf("statement is %T, want *ast.For", program.Statements[0])
		}
		if _, ok := loop.Init.(*ast.VarDecl); !ok {
			t.Fatalf("Init is %T, want *ast.VarDecl", loop.Init)
		}
		if loop.Cond == nil {
			t.Fatalf("Cond is nil, want i < 10")
		}
		if loop.Update == nil {
			t.Fatalf("Update is nil, want i++")
		}
		if _, ok := loop.Body.(*ast.Block); !ok {
			t.Fatalf("Body is %T, want *ast.Block", loop.Body)
		}
	})

	t.Run("for-of is a first-class node", func(t *testing.T) {
		p := testParser("for (const item of items) { use(item); }")
		program := p.ParseProgram()
		checkParserErrors(t, p)

		forOf, ok := program.Statements[0].(*ast.ForOf)
		if !ok {
			t.Fatalf("statement is %T, want *ast.ForOf", program.Statements[0])
		}
		if forOf.Name != "item" || forOf.Kind != ast.VarKindConst {
			t.Errorf("forOf = %#v", forOf)
		}
	})

	t.Run("for-in is a first-class node", func(t *testing.T) {
		p := testParser("for (const key in obj) { use(key); }")
		program := p.ParseProgram()
		checkParserErrors(t, p)

		if _, ok := program.Statements[0].(*ast.ForIn); !ok {
			t.Fatalf("statement is %T, want *ast.ForIn", program.Statements[0])
		}
	})
}

func TestTryCatchFinally(t *testing.T) {
	p := testParser(`
		try {
			risky();
		} catch (e) {
			handle(e);
		} finally {
			cleanup();
		}
	`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	tc, ok := program.Statements[0].(*ast.TryCatch)
	if !ok {
		t.Fatalf("statement is %T, want *ast.TryCatch", program.Statements[0])
	}
	if tc.Catch == nil || tc.Catch.Param != "e" {
		t.Fatalf("Catch = %#v", tc.Catch)
	}
	if tc.Finally == nil {
		t.Fatalf("expected non-nil Finally block")
	}
}

func TestClassMembers(t *testing.T) {
	p := testParser(`
		class Point {
			private x: number;
			readonly y: number = 0;
			constructor(public z: number) {}
			get sum(): number { return this.x + this.y; }
			static origin(): Point { return new Point(); }
		}
	`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	decl, ok := program.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ClassDecl", program.Statements[0])
	}
	if len(decl.Members) != 5 {
		t.Fatalf("got %d members, want 5", len(decl.Members))
	}

	field, ok := decl.Members[0].(*ast.FieldMember)
	if !ok || field.Visibility != ast.VisPrivate {
		t.Fatalf("member 0 = %#v, want private field x", decl.Members[0])
	}

	ctor, ok := decl.Members[2].(*ast.MethodMember)
	if !ok || ctor.Kind != ast.MethodConstructor {
		t.Fatalf("member 2 = %#v, want constructor", decl.Members[2])
	}
	if len(ctor.Params) != 1 || ctor.Params[0].Accessibility != "public" {
		t.Fatalf("constructor params = %#v, want one public parameter property", ctor.Params)
	}

	getter, ok := decl.Members[3].(*ast.MethodMember)
	if !ok || getter.Kind != ast.MethodGetter {
		t.Fatalf("member 3 = %#v, want getter", decl.Members[3])
	}

	staticMethod, ok := decl.Members[4].(*ast.MethodMember)
	if !ok || !staticMethod.Static {
		t.Fatalf("member 4 = %#v, want static method", decl.Members[4])
	}
}

func TestInterfaceAndEnum(t *testing.T) {
	p := testParser(`
		interface Shape {
			area(): number;
			readonly name: string;
		}
		enum Color { Red, Green, Blue }
		const enum Direction { Up = "UP", Down = "DOWN" }
	`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	if len(program.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(program.Statements))
	}

	iface, ok := program.Statements[0].(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.InterfaceDecl", program.Statements[0])
	}
	if len(iface.Methods) != 1 || len(iface.Properties) != 1 {
		t.Fatalf("iface = %#v", iface)
	}

	colorEnum, ok := program.Statements[1].(*ast.EnumDecl)
	if !ok || colorEnum.Kind != ast.EnumNumeric {
		t.Fatalf("statement 1 = %#v, want numeric enum", program.Statements[1])
	}

	dirEnum, ok := program.Statements[2].(*ast.EnumDecl)
	if !ok || dirEnum.Kind != ast.EnumConst {
		t.Fatalf("statement 2 = %#v, want const enum", program.Statements[2])
	}
}

func TestImportExportForms(t *testing.T) {
	tests := []string{
		`import { a, b as c } from "module";`,
		`import Default, * as NS from "module";`,
		`import "side-effect-only";`,
		`export default 42;`,
		`export { x, y as z };`,
		`export * from "module";`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			p := testParser(src)
			p.ParseProgram()
			checkParserErrors(t, p)
		})
	}
}

func TestLabeledBreakContinue(t *testing.T) {
	p := testParser(`
		outer: for (let i = 0; i < 5; i++) {
			continue outer;
		}
	`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	labeled, ok := program.Statements[0].(*ast.LabeledStatement)
	if !ok || labeled.Label != "outer" {
		t.Fatalf("statement = %#v, want LabeledStatement(outer)", program.Statements[0])
	}
}

func TestSwitchStatement(t *testing.T) {
	p := testParser(`
		switch (x) {
			case 1:
				a();
				break;
			case 2:
			default:
				b();
		}
	`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	sw, ok := program.Statements[0].(*ast.Switch)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Switch", program.Statements[0])
	}
	if len(sw.Cases) != 3 {
		t.Fatalf("got %d cases, want 3", len(sw.Cases))
	}
	if sw.Cases[2].Test != nil {
		t.Errorf("expected default case to have a nil Test")
	}
}
