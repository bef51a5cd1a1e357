// SPDX-License-Identifier: EPL-2.0

// Package errs defines the error kinds shared by the haptic and
// classification pipelines.
//
// Every failure produced by hapsync is an *Error carrying one of three
// kinds:
//   - KindInput: missing or corrupt audio, unreadable model or class map.
//     Fatal, the run aborts.
//   - KindDegenerate: zero-length or silent audio. Not fatal, the pipeline
//     still returns a valid (empty) timeline and only logs it.
//   - KindParameter: a parameter outside its domain. Rejected before any
//     processing starts.
//
// Callers match on kind with errors.Is and the package sentinels:
//
//	if errors.Is(err, errs.ErrParameter) {
//	    flag.Usage()
//	}
package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes an error.
type Kind string

const (
	KindInput      Kind = "INPUT_ERROR"
	KindDegenerate Kind = "DEGENERATE_INPUT"
	KindParameter  Kind = "PARAMETER_ERROR"
)

var (
	ErrInput           = &Error{Kind: KindInput, Message: "invalid input"}
	ErrDegenerateInput = &Error{Kind: KindDegenerate, Message: "degenerate input"}
	ErrParameter       = &Error{Kind: KindParameter, Message: "invalid parameter"}
)

// Error is the structured error returned by the pipelines.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "haptic.DetectPrecise"
	Field   string // parameter name, ParameterError only
	Value   any
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s]", e.Kind)
	if e.Op != "" {
		msg += " " + e.Op + ":"
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field=%s value=%v:", e.Field, e.Value)
	}
	msg += " " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind, so the
// package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// Input wraps cause as an InputError.
func Input(op, message string, cause error) *Error {
	return &Error{Kind: KindInput, Op: op, Message: message, Err: cause}
}

// Degenerate reports audio that cannot produce events.
func Degenerate(op, message string) *Error {
	return &Error{Kind: KindDegenerate, Op: op, Message: message}
}

// Parameter reports a rejected parameter value.
func Parameter(op, field string, value any, message string) *Error {
	return &Error{
		Kind:    KindParameter,
		Op:      op,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Unit validates that v lies in [0,1].
func Unit(op, field string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return Parameter(op, field, v, "must be within [0,1]")
	}

	return nil
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
