// Package errorsx is the shared error taxonomy and caret-diagnostic
// formatter every pipeline stage's structured error type (internal/lexer's
// LexError, internal/parser's ParserError, internal/typecheck's
// TypeCheckError, and this package's own RuntimeError/ModuleError) renders
// through. A Diagnostic is stage-agnostic: Formatter.Format renders it as a
// "<file>:<line>:<col>: [<code>]: <message>" header, the offending source
// line, and a caret line under the offending column, colorized only when
// the output is a real terminal (mattn/go-isatty).
package errorsx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/parser"
	"github.com/sharpts/sharpts/internal/typecheck"
)

// Stage identifies which pipeline phase produced a Diagnostic, used to
// group and sort combined output from a `check` command that runs the
// whole pipeline over a file.
type Stage string

const (
	StageLex       Stage = "lex"
	StageParse     Stage = "parse"
	StageTypeCheck Stage = "typecheck"
	StageModule    Stage = "module"
	StageRuntime   Stage = "runtime"
)

// Diagnostic is the pipeline-agnostic shape every structured error type
// converts to before formatting.
type Diagnostic struct {
	Stage   Stage
	Code    string
	Message string
	File    string
	Line    int
	Column  int
	Length  int // caret underline width; 1 if unknown
}

func newDiagnostic(stage Stage, file, code, message string, line, column, length int) Diagnostic {
	if length <= 0 {
		length = 1
	}
	return Diagnostic{Stage: stage, Code: code, Message: message, File: file, Line: line, Column: column, Length: length}
}

// FromLexError converts one internal/lexer.LexError.
func FromLexError(file string, err lexer.LexError) Diagnostic {
	return newDiagnostic(StageLex, file, "E_LEX", err.Message, err.Pos.Line, err.Pos.Column, 1)
}

// FromParserError converts one internal/parser.ParserError.
func FromParserError(file string, err *parser.ParserError) Diagnostic {
	return newDiagnostic(StageParse, file, err.Code, err.Message, err.Pos.Line, err.Pos.Column, err.Length)
}

// FromTypeCheckError converts one internal/typecheck.TypeCheckError.
func FromTypeCheckError(file string, err *typecheck.TypeCheckError) Diagnostic {
	return newDiagnostic(StageTypeCheck, file, err.Code, err.Message, err.Pos.Line, err.Pos.Column, 1)
}

// New builds a Diagnostic directly, for internal/host collaborators and the
// module graph which have no dedicated structured error type of their own.
func New(stage Stage, file, code, message string, line, column int) Diagnostic {
	return newDiagnostic(stage, file, code, message, line, column, 1)
}

// Formatter renders Diagnostics against the original source text, coloring
// output only when out is attached to a real terminal.
type Formatter struct {
	color bool
}

// NewFormatter inspects out with go-isatty to decide whether ANSI color
// escapes are safe to emit — piping `sharpts check` output to a file or
// another process must never embed escape codes.
func NewFormatter(out *os.File) *Formatter {
	return &Formatter{color: isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())}
}

// NewPlainFormatter always renders without color, for contexts (tests,
// snapshot comparisons) where an *os.File isn't available or desired.
func NewPlainFormatter() *Formatter {
	return &Formatter{color: false}
}

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Format writes a three-line diagnostic: the header, then the source line,
// then a caret line under the offending span. When d.Line is outside
// source, only the header is written.
func (f *Formatter) Format(w io.Writer, d Diagnostic, source string) {
	header := fmt.Sprintf("%s:%d:%d: [%s]: %s", d.File, d.Line, d.Column, d.Code, d.Message)
	if f.color {
		header = fmt.Sprintf("%s:%d:%d: %s%s[%s]%s: %s", d.File, d.Line, d.Column, ansiBold, ansiRed, d.Code, ansiReset, d.Message)
	}
	fmt.Fprintln(w, header)

	lineText := sourceLine(source, d.Line)
	if lineText == "" {
		return
	}
	fmt.Fprintln(w, lineText)
	caretLine := strings.Repeat(" ", max0(d.Column-1)) + strings.Repeat("^", max0(d.Length))
	if f.color {
		caretLine = strings.Repeat(" ", max0(d.Column-1)) + ansiRed + strings.Repeat("^", max0(d.Length)) + ansiReset
	}
	fmt.Fprintln(w, caretLine)
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
