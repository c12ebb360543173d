// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package contract implements the precondition layer for host-facing calls.
//
// A Violation means the host broke the documented call contract (bad array
// length, wrong grid size, malformed color, null window). There is no safe
// way to continue, so Fatal panics with the Violation; across the native
// boundary that terminates the process. The Check functions return the same
// Violation as an error so callers validate first and decide separately how
// to fail.
package contract

import (
	"errors"
	"fmt"

	"github.com/gogpu/pinpad/internal/logging"
)

// Kind classifies a contract violation.
type Kind int

const (
	// KindInput is a malformed argument from the host.
	KindInput Kind = iota
	// KindPlatform is a null or unusable object returned by the platform.
	KindPlatform
	// KindLifecycle is a call on a handle or bundle that is not live.
	KindLifecycle
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindPlatform:
		return "platform"
	case KindLifecycle:
		return "lifecycle"
	default:
		return "unknown"
	}
}

// Violation describes a broken precondition.
type Violation struct {
	// Op is the operation that detected the violation (e.g. "ndc.Transform").
	Op string
	// Kind categorizes the violation.
	Kind Kind
	// Err is the underlying reason.
	Err error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s [%s]: %v", v.Op, v.Kind, v.Err)
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// Sentinel reasons, matchable with errors.Is.
var (
	ErrEmpty          = errors.New("empty input")
	ErrNotMultiple    = errors.New("length is not a multiple of 4")
	ErrCountMismatch  = errors.New("count mismatch")
	ErrNullWindow     = errors.New("platform returned a null window")
	ErrBadColor       = errors.New("malformed color")
	ErrUnknownHandle  = errors.New("handle is not live")
	ErrBundleConsumed = errors.New("bundle reference is not live")
)

// New builds a Violation.
func New(op string, kind Kind, err error) *Violation {
	return &Violation{Op: op, Kind: kind, Err: err}
}

// Fatal logs err and panics with it. A nil err is a no-op so Fatal can wrap
// any Check call directly.
func Fatal(err error) {
	if err == nil {
		return
	}
	logging.Logger().Error("contract violation", "err", err)
	panic(err)
}

// CheckRectArray validates a flat [l,t,r,b,...] array length.
func CheckRectArray(op string, n int) error {
	if n == 0 {
		return New(op, KindInput, ErrEmpty)
	}
	if n%4 != 0 {
		return New(op, KindInput, fmt.Errorf("%w: got %d floats", ErrNotMultiple, n))
	}
	return nil
}

// CheckCount validates that got equals want.
func CheckCount(op, what string, got, want int) error {
	if got != want {
		return New(op, KindInput, fmt.Errorf("%w: %s: got %d, want %d", ErrCountMismatch, what, got, want))
	}
	return nil
}

// CheckWindow validates a platform window reference.
func CheckWindow(op string, window uintptr) error {
	if window == 0 {
		return New(op, KindPlatform, ErrNullWindow)
	}
	return nil
}

// Recover runs fn and returns the Violation it panicked with, or nil.
// Other panics propagate. The root package re-exports it for Go callers.
func Recover(fn func()) (v *Violation) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok && errors.As(err, &v) {
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
