package interp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies interpreter failures.
type Kind int

const (
	_ Kind = iota
	UnboundVariable
	UnknownOperation
	MalformedDeclaration
	MalformedInstruction
	IndexOutOfRange
	InvalidExpression
	UndeclaredRegister
	TypeMismatch
	Redeclared
	BackendFailure
)

var kindNames = map[Kind]string{
	UnboundVariable:      "unbound variable",
	UnknownOperation:     "unknown operation",
	MalformedDeclaration: "malformed declaration",
	MalformedInstruction: "malformed instruction",
	IndexOutOfRange:      "index out of range",
	InvalidExpression:    "invalid expression",
	UndeclaredRegister:   "undeclared register",
	TypeMismatch:         "type mismatch",
	Redeclared:           "redeclared name",
	BackendFailure:       "backend failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the typed failure returned by Build and BuildInverse. Line is
// 1-based; zero means the error was not tied to a source line.
type Error struct {
	Kind   Kind
	Line   int
	Text   string
	Reason string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %s (%q)", e.Line, e.Kind, e.Reason, e.Text)
}

func newError(kind Kind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Reason: fmt.Sprintf(format, args...)})
}

// atLine attaches source position to an interpreter error. Foreign errors
// (from the backend) are wrapped as BackendFailure.
func atLine(err error, line int, text string) error {
	var e *Error
	if !errors.As(err, &e) {
		return errors.WithStack(&Error{Kind: BackendFailure, Line: line, Text: text, Reason: err.Error()})
	}
	if e.Line == 0 {
		e.Line = line
		e.Text = text
	}
	return err
}

// KindOf returns the Kind of an interpreter error, or zero for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
