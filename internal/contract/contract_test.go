// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package contract

import (
	"errors"
	"testing"
)

func TestCheckRectArray(t *testing.T) {
	tests := []struct {
		n    int
		want error
	}{
		{0, ErrEmpty},
		{3, ErrNotMultiple},
		{5, ErrNotMultiple},
		{4, nil},
		{48, nil},
	}
	for _, tt := range tests {
		err := CheckRectArray("op", tt.n)
		if tt.want == nil {
			if err != nil {
				t.Errorf("CheckRectArray(%d) = %v, want nil", tt.n, err)
			}
			continue
		}
		var v *Violation
		if !errors.As(err, &v) || v.Kind != KindInput || !errors.Is(err, tt.want) {
			t.Errorf("CheckRectArray(%d) = %v, want input violation %v", tt.n, err, tt.want)
		}
	}
}

func TestCheckCountAndWindow(t *testing.T) {
	if err := CheckCount("op", "cells", 12, 12); err != nil {
		t.Errorf("CheckCount(equal) = %v, want nil", err)
	}
	if err := CheckCount("op", "cells", 11, 12); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("CheckCount(11, 12) = %v, want %v", err, ErrCountMismatch)
	}
	err := CheckWindow("op", 0)
	var v *Violation
	if !errors.As(err, &v) || v.Kind != KindPlatform || !errors.Is(err, ErrNullWindow) {
		t.Errorf("CheckWindow(0) = %v, want platform violation", err)
	}
	if err := CheckWindow("op", 0x1000); err != nil {
		t.Errorf("CheckWindow(0x1000) = %v, want nil", err)
	}
}

func TestFatalAndRecover(t *testing.T) {
	if v := Recover(func() { Fatal(nil) }); v != nil {
		t.Errorf("Fatal(nil) violation = %v, want none", v)
	}

	want := New("op", KindLifecycle, ErrUnknownHandle)
	v := Recover(func() { Fatal(want) })
	if v != want {
		t.Errorf("Recover() = %v, want %v", v, want)
	}
	if got := v.Error(); got != "op [lifecycle]: handle is not live" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRecoverForeignPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()
	Recover(func() { panic("boom") })
	t.Error("Recover swallowed a non-violation panic")
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{KindInput: "input", KindPlatform: "platform", KindLifecycle: "lifecycle", Kind(7): "unknown"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
