// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build android

package surface

/*
#cgo LDFLAGS: -landroid
#include <android/native_window.h>
#include <android/native_window_jni.h>
#include <stdint.h>
#include <string.h>

static ANativeWindow* pinpad_window_from_surface(void* env, void* surface) {
	return ANativeWindow_fromSurface((JNIEnv*)env, (jobject)surface);
}

static int pinpad_window_present(ANativeWindow* w, const uint8_t* pix, int width, int height, int stride) {
	ANativeWindow_Buffer buf;
	if (ANativeWindow_lock(w, &buf, NULL) != 0) {
		return -1;
	}
	int rows = height < buf.height ? height : buf.height;
	int cols = width < buf.width ? width : buf.width;
	uint8_t* dst = (uint8_t*)buf.bits;
	for (int y = 0; y < rows; y++) {
		memcpy(dst + (size_t)y * buf.stride * 4, pix + (size_t)y * stride, (size_t)cols * 4);
	}
	return ANativeWindow_unlockAndPost(w);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
)

// AndroidPlatform is the backend name of ANativeWindow surfaces.
const AndroidPlatform = "android"

// AndroidSurface references an android.view.Surface passed through JNI.
// Env is the JNIEnv* of the calling thread and Surface the local jobject;
// both are only valid for the duration of the JNI call that received them.
type AndroidSurface struct {
	Env     unsafe.Pointer
	Surface unsafe.Pointer
}

// Platform implements Ref.
func (AndroidSurface) Platform() string { return AndroidPlatform }

func extractAndroid(ref Ref) (WindowHandle, error) {
	s, ok := ref.(AndroidSurface)
	if !ok {
		return WindowHandle{}, fmt.Errorf("surface: %T is not an Android surface", ref)
	}
	w := C.pinpad_window_from_surface(s.Env, s.Surface)
	if w == nil {
		return WindowHandle{}, nil
	}
	return WindowHandle{
		Window: uintptr(unsafe.Pointer(w)),
		Width:  int(C.ANativeWindow_getWidth(w)),
		Height: int(C.ANativeWindow_getHeight(w)),
	}, nil
}

// nativeWindow converts a stored handle back to the C pointer. The window
// lives in C memory, so the round trip through uintptr is safe.
func nativeWindow(h uintptr) *C.ANativeWindow {
	return (*C.ANativeWindow)(unsafe.Pointer(h)) //nolint:govet // C-owned pointer
}

var errWindowLock = errors.New("surface: ANativeWindow_lock failed")

type androidPresenter struct {
	window *C.ANativeWindow
}

func openAndroid(h WindowHandle) (Presenter, error) {
	w := nativeWindow(h.Window)
	if rc := C.ANativeWindow_setBuffersGeometry(w, C.int32_t(h.Width), C.int32_t(h.Height),
		C.WINDOW_FORMAT_RGBA_8888); rc != 0 {
		return nil, fmt.Errorf("surface: ANativeWindow_setBuffersGeometry: %d", int(rc))
	}
	return &androidPresenter{window: w}, nil
}

func (p *androidPresenter) Present(f Frame) error {
	if p.window == nil {
		return ErrPresenterClosed
	}
	if f.Format != gputypes.TextureFormatRGBA8Unorm {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f.Format)
	}
	if len(f.Pix) == 0 {
		return nil
	}
	rc := C.pinpad_window_present(p.window, (*C.uint8_t)(unsafe.Pointer(&f.Pix[0])),
		C.int(f.Width), C.int(f.Height), C.int(f.Stride))
	if rc != 0 {
		return errWindowLock
	}
	return nil
}

func (p *androidPresenter) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Close drops the reference taken by ANativeWindow_fromSurface.
func (p *androidPresenter) Close() error {
	if p.window != nil {
		C.ANativeWindow_release(p.window)
		p.window = nil
	}
	return nil
}

func init() {
	Register(Backend{
		Name:     AndroidPlatform,
		Priority: 100,
		Extract:  extractAndroid,
		Present:  openAndroid,
	})
}
