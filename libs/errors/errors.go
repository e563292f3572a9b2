// Package errors provides error wrapping that preserves the original cause
// while accumulating call-site traces and debugging annotations.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// New returns a new error with the provided message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf returns a new error with a formatted message.
func Errorf(f string, v ...interface{}) error {
	return fmt.Errorf(f, v...)
}

type aerr struct {
	cause       error
	trace       []string
	annotations []string
}

func (e *aerr) Error() string {
	if len(e.annotations) == 0 {
		return e.cause.Error()
	}
	return e.cause.Error() + " [" + strings.Join(e.annotations, ", ") + "]"
}

func (e *aerr) Unwrap() error {
	return e.cause
}

func wrap(err error) *aerr {
	if e, ok := err.(*aerr); ok {
		return e
	}
	return &aerr{cause: err}
}

// Trace wraps an error recording the call site. It returns nil if err is nil.
func Trace(err error) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	if _, file, line, ok := runtime.Caller(1); ok {
		if i := strings.LastIndexByte(file, '/'); i >= 0 {
			file = file[i+1:]
		}
		e.trace = append(e.trace, fmt.Sprintf("%s:%d", file, line))
	}
	return e
}

// Annotate adds context to an error. It can be used to attach more information that is useful for debugging.
func Annotate(err error, msg string) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	e.annotations = append(e.annotations, msg)
	return e
}

// Annotatef adds context to an error. It can be used to attach more information that is useful for debugging.
func Annotatef(err error, f string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	e := wrap(err)
	e.annotations = append(e.annotations, fmt.Sprintf(f, v...))
	return e
}

// Annotations returns all annotations attached to an error.
func Annotations(err error) []string {
	if e, ok := err.(*aerr); ok {
		return e.annotations
	}
	return nil
}

// TraceOf returns the call sites recorded against an error.
func TraceOf(err error) []string {
	if e, ok := err.(*aerr); ok {
		return e.trace
	}
	return nil
}

// Cause returns the underlying error if err was wrapped, and err itself otherwise.
func Cause(err error) error {
	for {
		e, ok := err.(*aerr)
		if !ok {
			return err
		}
		err = e.cause
	}
}
