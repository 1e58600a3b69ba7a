package interp

import (
	"strings"
	"testing"

	"github.com/sharpts/sharpts/internal/closure"
	"github.com/sharpts/sharpts/internal/host"
	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/parser"
	"github.com/sharpts/sharpts/internal/suspend"
)

// run parses and interprets src, returning every console.log line in order
// and any error Interpret reported.
func run(t *testing.T, src string) ([]string, error) {
	t.Helper()
	p := parser.New(lexer.Tokenize(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	cp := closure.Analyze(prog)
	sp := suspend.Analyze(prog)
	collab := &host.Collaborators{Tasks: host.NewDeterministicScheduler()}
	it := New(collab)
	var lines []string
	it.Output = func(s string) { lines = append(lines, s) }
	err := it.Interpret(prog, cp, sp, src)
	return lines, err
}

func runOK(t *testing.T, src string) []string {
	t.Helper()
	lines, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return lines
}

func expectLines(t *testing.T, src string, want ...string) {
	t.Helper()
	got := runOK(t, src)
	if len(got) != len(want) {
		t.Fatalf("source:\n%s\ngot %d lines %v, want %d lines %v", src, len(got), got, len(want), want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("line %d: got %q, want %q (all lines: %v)", i, got[i], w, got)
		}
	}
}

func TestArithmeticAndStringOperators(t *testing.T) {
	expectLines(t, `console.log(1 + 2 * 3);`, "7")
	expectLines(t, `console.log("a" + "b" + 1);`, "ab1")
	expectLines(t, `console.log(10 % 3);`, "1")
	expectLines(t, `console.log(2 ** 10);`, "1024")
	expectLines(t, `console.log(1 === 1, 1 === "1", 1 == "1");`, "true false true")
}

func TestVariableScopingAndConst(t *testing.T) {
	expectLines(t, `
		let x = 1;
		{
			let x = 2;
			console.log(x);
		}
		console.log(x);
	`, "2", "1")
}

func TestConstReassignmentThrows(t *testing.T) {
	_, err := run(t, `
		const x = 1;
		x = 2;
	`)
	if err == nil {
		t.Fatalf("expected an error reassigning a const binding")
	}
}

func TestIfWhileFor(t *testing.T) {
	expectLines(t, `
		if (1 < 2) {
			console.log("yes");
		} else {
			console.log("no");
		}
		let i = 0;
		while (i < 3) {
			console.log(i);
			i = i + 1;
		}
		for (let j = 0; j < 3; j = j + 1) {
			if (j === 1) continue;
			console.log(j);
		}
	`, "yes", "0", "1", "2", "0", "2")
}

func TestLabeledBreakOutOfNestedLoop(t *testing.T) {
	expectLines(t, `
		outer: for (let i = 0; i < 3; i = i + 1) {
			for (let j = 0; j < 3; j = j + 1) {
				if (j === 1) {
					continue outer;
				}
				if (i === 2) {
					break outer;
				}
				console.log(i, j);
			}
		}
	`, "0 0", "1 0")
}

func TestForOfArrayAndString(t *testing.T) {
	expectLines(t, `
		for (const x of [1, 2, 3]) {
			console.log(x);
		}
		for (const c of "ab") {
			console.log(c);
		}
	`, "1", "2", "3", "a", "b")
}

func TestForInObject(t *testing.T) {
	expectLines(t, `
		const obj = { a: 1, b: 2 };
		for (const k in obj) {
			console.log(k);
		}
	`, "a", "b")
}

func TestSwitchFallthrough(t *testing.T) {
	expectLines(t, `
		function describe(n) {
			switch (n) {
				case 1:
				case 2:
					console.log("small");
					break;
				default:
					console.log("big");
			}
		}
		describe(1);
		describe(2);
		describe(5);
	`, "small", "small", "big")
}

func TestTryCatchFinally(t *testing.T) {
	expectLines(t, `
		try {
			throw "boom";
		} catch (e) {
			console.log("caught", e);
		} finally {
			console.log("cleanup");
		}
	`, "caught boom", "cleanup")
}

func TestFunctionsAndClosures(t *testing.T) {
	expectLines(t, `
		function makeCounter() {
			let count = 0;
			return function () {
				count = count + 1;
				return count;
			};
		}
		const counter = makeCounter();
		console.log(counter());
		console.log(counter());
		console.log(counter());
	`, "1", "2", "3")
}

func TestArrowLexicalThis(t *testing.T) {
	expectLines(t, `
		class Counter {
			value = 0;
			makeIncrement() {
				return () => {
					this.value = this.value + 1;
					return this.value;
				};
			}
		}
		const c = new Counter();
		const inc = c.makeIncrement();
		console.log(inc());
		console.log(inc());
	`, "1", "2")
}

func TestClassInheritanceAndSuper(t *testing.T) {
	expectLines(t, `
		class Animal {
			name;
			constructor(name) {
				this.name = name;
			}
			speak() {
				return this.name + " makes a sound";
			}
		}
		class Dog extends Animal {
			speak() {
				return super.speak() + " (bark)";
			}
		}
		const d = new Dog("Rex");
		console.log(d.speak());
	`, "Rex makes a sound (bark)")
}

func TestConstructorParameterProperty(t *testing.T) {
	expectLines(t, `
		class Point {
			constructor(private x: number, private y: number) {}
			sum() {
				return this.x + this.y;
			}
		}
		const p = new Point(3, 4);
		console.log(p.sum());
	`, "7")
}

func TestGeneratorYieldsValuesLazily(t *testing.T) {
	expectLines(t, `
		function* counter() {
			yield 1;
			yield 2;
			yield 3;
		}
		for (const v of counter()) {
			console.log(v);
		}
	`, "1", "2", "3")
}

func TestGeneratorNextProtocol(t *testing.T) {
	expectLines(t, `
		function* gen() {
			const a = yield 1;
			console.log("resumed with", a);
			yield 2;
		}
		const g = gen();
		const first = g.next();
		console.log(first.value, first.done);
		const second = g.next(99);
		console.log(second.value, second.done);
	`, "1 false", "resumed with 99", "2 false")
}

func TestAsyncAwait(t *testing.T) {
	expectLines(t, `
		async function addAsync(a, b) {
			return a + b;
		}
		async function main() {
			const result = await addAsync(2, 3);
			console.log(result);
		}
		main();
	`, "5")
}

func TestDestructuringArrayAndObject(t *testing.T) {
	expectLines(t, `
		const [a, , b, ...rest] = [1, 2, 3, 4, 5];
		console.log(a, b, rest);
		const { x, y: renamed, ...others } = { x: 1, y: 2, z: 3 };
		console.log(x, renamed, others);
	`, "1 3 [ 4, 5 ]", "1 2 { z: 3 }")
}

func TestArrayBuiltinMethods(t *testing.T) {
	expectLines(t, `
		const nums = [1, 2, 3, 4];
		console.log(nums.map(n => n * 2).join(","));
		console.log(nums.filter(n => n % 2 === 0).join(","));
		console.log(nums.reduce((acc, n) => acc + n, 0));
		console.log(nums.find(n => n > 2));
		console.log(nums.some(n => n > 3), nums.every(n => n > 0));
	`, "2,4,6,8", "2,4", "10", "3", "true true")
}

func TestStringBuiltinMethods(t *testing.T) {
	expectLines(t, `
		const s = "Hello, World";
		console.log(s.toUpperCase());
		console.log(s.toLowerCase());
		console.log(s.includes("World"));
		console.log(s.split(", ").join("|"));
	`, "HELLO, WORLD", "hello, world", "true", "Hello|World")
}

func TestJSONStringifyAndParse(t *testing.T) {
	expectLines(t, `
		const obj = { a: 1, b: "two", c: [1, 2, 3] };
		const text = JSON.stringify(obj);
		const parsed = JSON.parse(text);
		console.log(parsed.a, parsed.b, parsed.c.join("-"));
	`, "1 two 1-2-3")
}

func TestSpreadInCallAndArrayLiteral(t *testing.T) {
	expectLines(t, `
		function sum3(a, b, c) {
			return a + b + c;
		}
		const parts = [1, 2, 3];
		console.log(sum3(...parts));
		console.log([...parts, 4, 5]);
	`, "6", "[ 1, 2, 3, 4, 5 ]")
}

func TestTemplateLiteralInterpolation(t *testing.T) {
	expectLines(t, `
		const name = "world";
		console.log(`+"`hello ${name}, 1+1=${1 + 1}`"+`);
	`, "hello world, 1+1=2")
}

func TestEnumDeclNumericAndString(t *testing.T) {
	expectLines(t, `
		enum Color { Red, Green, Blue }
		console.log(Color.Red, Color.Green, Color.Blue);
		console.log(Color[1]);

		enum Dir { Up = "UP", Down = "DOWN" }
		console.log(Dir.Up, Dir.Down);
	`, "0 1 2", "Green", "UP DOWN")
}

func TestNullishCoalescingAndOptionalChaining(t *testing.T) {
	expectLines(t, `
		const obj = { a: null };
		console.log(obj.a ?? "fallback");
		console.log(obj.missing);
		let maybe = null;
		console.log(maybe?.field);
	`, "fallback", "undefined", "undefined")
}

func TestUncaughtThrowReportsError(t *testing.T) {
	_, err := run(t, `
		throw "kaboom";
	`)
	if err == nil {
		t.Fatalf("expected an error for an uncaught throw")
	}
	if !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected error to mention the thrown value, got %v", err)
	}
}
