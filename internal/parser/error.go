package parser

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/token"
)

// ParserError is a structured parse failure with enough position
// information for a caret diagnostic (internal/errorsx formats these).
type ParserError struct {
	Message string
	Code    string
	Pos     token.Position
	Length  int
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

func NewParserError(pos token.Position, length int, message, code string) *ParserError {
	return &ParserError{Message: message, Pos: pos, Length: length, Code: code}
}

// Error code constants for programmatic handling by internal/errorsx.
const (
	ErrUnexpectedToken  = "E_UNEXPECTED_TOKEN"
	ErrMissingSemicolon = "E_MISSING_SEMICOLON"
	ErrMissingParen     = "E_MISSING_PAREN"
	ErrMissingBrace     = "E_MISSING_BRACE"
	ErrMissingBracket   = "E_MISSING_BRACKET"
	ErrInvalidExpression = "E_INVALID_EXPRESSION"
	ErrNoPrefixParse    = "E_NO_PREFIX_PARSE"
	ErrExpectedIdent    = "E_EXPECTED_IDENT"
	ErrExpectedType     = "E_EXPECTED_TYPE"
	ErrInvalidSyntax    = "E_INVALID_SYNTAX"
	ErrMissingColon     = "E_MISSING_COLON"
	ErrMissingArrow     = "E_MISSING_ARROW"
	ErrInvalidPattern   = "E_INVALID_PATTERN"
)
