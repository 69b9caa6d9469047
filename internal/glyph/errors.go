package glyph

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every *Error matches exactly one of these via errors.Is.
var (
	ErrUsage             = errors.New("usage error")
	ErrMarkerNotFound    = errors.New("start marker not found")
	ErrUnterminatedBlock = errors.New("unterminated block")
	ErrMultilineComment  = errors.New("unsupported multi-line comment")
	ErrUnrecognizedLine  = errors.New("unrecognized line")
	ErrInvalidCode       = errors.New("invalid code")
	ErrCodeOutOfRange    = errors.New("code out of range")
	ErrDefaultNotFound   = errors.New("default not found")
)

// Error is a fatal diagnostic, optionally tied to a place in the source.
type Error struct {
	Kind error
	Loc  *Location // nil for argument-level problems
	Msg  string
}

// Errorf returns an *Error of the given kind.
func Errorf(kind error, loc *Location, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Loc == nil {
		return e.Msg
	}
	return e.Loc.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Diagnostic renders the error the way it is reported on stderr:
//
//	error: <msg>
//	error: <source>: <msg>
//	<source>:<line>: error: <msg>
//	<source>:<line>: this is the line: <text>
func (e *Error) Diagnostic() string {
	switch {
	case e.Loc == nil:
		return fmt.Sprintf("error: %s\n", e.Msg)
	case e.Loc.FileLevel():
		return fmt.Sprintf("error: %s: %s\n", e.Loc.Source, e.Msg)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: error: %s\n", e.Loc, e.Msg)
	fmt.Fprintf(&b, "%s: this is the line: %s\n", e.Loc, strings.TrimSpace(e.Loc.Text))
	return b.String()
}

// Diagnostic renders err for stderr. Errors that are not an *Error are
// reported without location.
func Diagnostic(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Diagnostic()
	}
	return fmt.Sprintf("error: %v\n", err)
}
