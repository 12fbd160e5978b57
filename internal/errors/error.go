// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Op represents an operation (package.function) in the call stack where an
// error occurred.
type Op string

// Err provides the ability to specify a Msg, Op, Code and Wrapped error.
// Errs must be created via New or Wrap and not as literals.
type Err struct {
	// Code is the error's code, which can be used to get the error's
	// errorCodeInfo, which contains the error's Kind and Message
	Code Code

	// Msg for the error
	Msg string

	// Op represents the operation raising/propagating an error and is optional
	Op Op

	// Wrapped is the error which this Err wraps and will be nil if there's no
	// error to wrap.
	Wrapped error
}

// New creates a new Err with provided code, op and msg.  It supports the
// option of WithWrap which allows wrapping an underlying error.  The ctx is
// reserved for future use and may be nil.
func New(ctx context.Context, c Code, op Op, msg string, opt ...Option) error {
	opts := GetOpts(opt...)
	err := &Err{
		Code:    c,
		Op:      op,
		Msg:     msg,
		Wrapped: opts.withErrWrapped,
	}
	return err
}

// Wrap creates a new Err from the given error with an op.  It supports the
// options of WithCode and WithMsg which override the wrapped error's defaults.
// If the wrapped error is an Err, the new Err inherits its Code unless a
// WithCode option is given.
func Wrap(ctx context.Context, e error, op Op, opt ...Option) error {
	if e == nil {
		return nil
	}
	opts := GetOpts(opt...)
	err := &Err{
		Op:      op,
		Msg:     opts.withErrMsg,
		Wrapped: e,
	}
	switch {
	case opts.withErrCode != nil:
		err.Code = *opts.withErrCode
	default:
		var wrappingErr *Err
		if errors.As(e, &wrappingErr) {
			err.Code = wrappingErr.Code
		}
	}
	return err
}

// Convert converts a raw dbw/database error into an Err with an appropriate
// domain Code, if it can.  If it can't, it just returns the error as is.
func Convert(e error) error {
	if e == nil {
		return nil
	}
	var alreadyConverted *Err
	if errors.As(e, &alreadyConverted) {
		return alreadyConverted
	}
	msg := e.Error()
	switch {
	case strings.Contains(msg, "record not found"):
		return &Err{Code: RecordNotFound, Msg: "record not found", Wrapped: e}
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "unique constraint"):
		return &Err{Code: NotUnique, Msg: "unique constraint violation", Wrapped: e}
	case strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "check constraint"):
		return &Err{Code: CheckConstraint, Msg: "check constraint violated", Wrapped: e}
	case strings.Contains(msg, "NOT NULL constraint failed"),
		strings.Contains(msg, "not null constraint"):
		return &Err{Code: NotNull, Msg: "not null constraint violated", Wrapped: e}
	}
	// unfortunately, we can't help.
	return e
}

// Error satisfies the error interface and returns a string representation of
// the Err.
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	var s strings.Builder
	if e.Op != "" {
		join(&s, ": ", string(e.Op))
	}
	if e.Msg != "" {
		join(&s, ": ", e.Msg)
	}
	if info, ok := errorCodeInfo[e.Code]; ok {
		if e.Msg == "" {
			join(&s, ": ", info.Message) // provide a default.
			join(&s, ", ", info.Kind.String())
		}
		join(&s, ": ", fmt.Sprintf("error #%d", e.Code))
	}
	if e.Wrapped != nil {
		join(&s, ": ", e.Wrapped.Error())
	}
	return s.String()
}

func join(str *strings.Builder, delim string, s string) {
	if str.Len() == 0 {
		_, _ = str.WriteString(s)
		return
	}
	_, _ = str.WriteString(delim + s)
}

// Unwrap implements the errors.Unwrap interface and allows callers to use the
// errors.Is() and errors.As() functions effectively for any wrapped errors.
func (e *Err) Unwrap() error {
	return e.Wrapped
}
