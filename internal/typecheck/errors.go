package typecheck

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/token"
)

// TypeCheckError is a structured type-check failure, mirroring the
// parser's ParserError shape so internal/errorsx can format both through
// the same caret-diagnostic renderer.
type TypeCheckError struct {
	Message string
	Code    string
	Pos     token.Position
}

func (e *TypeCheckError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

func newError(pos token.Position, code, format string, args ...any) *TypeCheckError {
	return &TypeCheckError{Message: fmt.Sprintf(format, args...), Code: code, Pos: pos}
}

// Error code constants for programmatic handling by internal/errorsx.
// Inference never raises one of these itself (spec.md §9's design note);
// they're only ever produced by the checker's own assignability/resolution
// checks.
const (
	ErrUndefinedName      = "E_UNDEFINED_NAME"
	ErrUndefinedType      = "E_UNDEFINED_TYPE"
	ErrNotAssignable      = "E_NOT_ASSIGNABLE"
	ErrUnknownMember      = "E_UNKNOWN_MEMBER"
	ErrNotCallable        = "E_NOT_CALLABLE"
	ErrArgumentCount      = "E_ARGUMENT_COUNT"
	ErrReadonlyAssignment = "E_READONLY_ASSIGNMENT"
	ErrConstReassignment  = "E_CONST_REASSIGNMENT"
	ErrDuplicateName      = "E_DUPLICATE_NAME"
	ErrInvalidBreak       = "E_INVALID_BREAK"
	ErrInvalidContinue    = "E_INVALID_CONTINUE"
	ErrInvalidReturn      = "E_INVALID_RETURN"
	ErrNotIndexable       = "E_NOT_INDEXABLE"
	ErrInvalidOperands    = "E_INVALID_OPERANDS"
	ErrExcessProperty     = "E_EXCESS_PROPERTY"
)
