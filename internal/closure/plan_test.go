package closure

import (
	"testing"

	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/parser"
)

func TestCapturesOuterLocal(t *testing.T) {
	src := `
		function outer() {
			let x = 1;
			function inner() {
				return x;
			}
			return inner;
		}
	`
	p := parser.New(lexer.Tokenize(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	plan := Analyze(prog)
	found := false
	for _, fp := range plan.Functions {
		for _, c := range fp.Captures {
			if c == "x" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected inner() to capture x, plan=%+v", plan)
	}
}

func TestArrowCapturesThis(t *testing.T) {
	src := `
		class Counter {
			value: number;
			makeIncrement(): () => void {
				return () => { this.value = this.value + 1; };
			}
		}
	`
	p := parser.New(lexer.Tokenize(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	plan := Analyze(prog)
	sawThis := false
	for _, fp := range plan.Functions {
		if fp.CapturesThis {
			sawThis = true
		}
	}
	if !sawThis {
		t.Fatalf("expected the arrow function to capture this, plan=%+v", plan)
	}
}
