// Package errors provides errors annotated with structured logging attributes and the source location where
// they were created.
//
// It is a drop-in replacement for the standard library errors package for the functions it re-exports.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// annotatedError carries a message, slog attributes, and the program counter of the call site.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates an error meant to be declared as a package level variable and compared with [Is].
//
// Sentinels don't capture a stack location since they are created at init time.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// New creates an error annotated with attrs and the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: nil, attrs: attrs, pc: callerPC(3)} //nolint:mnd // skip New and Callers.
}

// Wrap annotates err with a context message, slog attributes, and the caller's source location.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: err, attrs: attrs, pc: callerPC(3)} //nolint:mnd // skip Wrap and Callers.
}

// DecoratePanic turns a recovered panic value into an error pointing to the line that panicked.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	var msg string
	switch v := excp.(type) {
	case error:
		msg = "panic: " + v.Error()
	default:
		msg = fmt.Sprintf("panic: %v", v)
	}
	return &annotatedError{msg: msg, err: nil, attrs: nil, pc: panicPC()}
}

// SlogError returns an attribute that logs err together with its annotations and source location.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Any("error", nil)
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}

	var (
		annotations []any
		pc          uintptr
	)
	for cur := err; cur != nil; cur = stderrors.Unwrap(cur) {
		var ae *annotatedError
		if !stderrors.As(cur, &ae) {
			break
		}
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		// The innermost annotation is closest to the root cause.
		if ae.pc != 0 {
			pc = ae.pc
		}
		cur = ae
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if pc != 0 {
		attrs = append(attrs, slog.String("source", sourceLocation(pc)))
	}

	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return slog.Group("error", args...)
}

func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	if runtime.Callers(skip, pcs[:]) == 0 {
		return 0
	}
	return pcs[0]
}

// panicPC finds the frame that called panic by looking for the frame after runtime.gopanic.
func panicPC() uintptr {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic {
			return frame.PC
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	return 0
}

func sourceLocation(pc uintptr) string {
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	return frame.File + ":" + strconv.Itoa(frame.Line)
}

// Is reports whether any error in err's tree matches target. See [stderrors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [stderrors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [stderrors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [stderrors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
