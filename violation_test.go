package pinpad

import (
	"errors"
	"testing"
)

func TestRecover(t *testing.T) {
	if v := Recover(func() {}); v != nil {
		t.Errorf("Recover() = %v, want nil", v)
	}

	v := Recover(func() { Advance(0) })
	if v == nil {
		t.Fatal("Recover() = nil for an unknown handle")
	}
	if v.Kind != KindLifecycle {
		t.Errorf("Kind = %v, want %v", v.Kind, KindLifecycle)
	}
	if !errors.Is(v, ErrUnknownHandle) {
		t.Errorf("violation = %v, want %v", v, ErrUnknownHandle)
	}
	var target *Violation
	if !errors.As(error(v), &target) || target.Op != "pinpad.Advance" {
		t.Errorf("errors.As() = %v, want op pinpad.Advance", target)
	}
}

func TestRecoverPropagatesOtherPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recover() = %v, want boom", r)
		}
	}()
	Recover(func() { panic("boom") })
	t.Error("Recover() swallowed a foreign panic")
}

func TestViolationReasons(t *testing.T) {
	v := Recover(func() { DecodeHex(RoleCircle, "nope") })
	if v == nil || v.Kind != KindInput || !errors.Is(v, ErrBadColor) {
		t.Errorf("DecodeHex() violation = %v, want input ErrBadColor", v)
	}
}
