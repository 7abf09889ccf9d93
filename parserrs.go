package plotexpr

import (
	"errors"
	"strconv"
)

// ErrSyntax matches every error resulting from invalid input to Tokenize,
// Parse, or ParseTokens, using errors.Is.
var ErrSyntax = errors.New("plotexpr: syntax error")

// OperatorError is an error indicating an operator without an operand, or
// adjacent values with no operator between them when implicit multiplication
// is disabled. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator, or of the second value if Missing.
	Col int
	// Operator is the operator token, or the second value if Missing.
	Operator string
	// Dangling is whether the operator is missing its right operand.
	Dangling bool
	// Missing is whether there is no operator at all.
	Missing bool
}

func (err *OperatorError) Error() string {
	switch {
	case err.Missing:
		return errpos(err.Col, "missing operator before "+strconv.Quote(err.Operator))
	case err.Dangling:
		return errpos(err.Col, "operator "+strconv.Quote(err.Operator)+" with no right operand")
	default:
		return errpos(err.Col, "unexpected operator "+strconv.Quote(err.Operator))
	}
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == ErrSyntax
}

// BracketError is an error indicating mismatched brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the bracket, or the end of the input for an open
	// bracket that was never closed.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrSyntax
}

// EmptyExpressionError is an error indicating an empty subexpression. It
// implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrSyntax
}

// StructureError is an error indicating a token where the expression should
// have ended, e.g. a second value following a value with no operator between
// them. It implements InputError.
type StructureError struct {
	// Col is the position of the unexpected token.
	Col int
	// Token is the unexpected token.
	Token string
}

func (err *StructureError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token))
}

func (err *StructureError) Pos() int {
	return err.Col
}

func (err *StructureError) Is(target error) bool {
	return target == ErrSyntax
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the error in the input.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*StructureError)(nil)
	_ InputError = (*LexError)(nil)
)
