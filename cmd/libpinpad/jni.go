//go:build android

package main

/*
#include <jni.h>
#include <stdlib.h>

static jsize pinpad_array_length(JNIEnv* env, jarray a) {
	if (a == NULL) {
		return 0;
	}
	return (*env)->GetArrayLength(env, a);
}

static void pinpad_get_floats(JNIEnv* env, jfloatArray a, jsize n, jfloat* out) {
	(*env)->GetFloatArrayRegion(env, a, 0, n, out);
}

static void pinpad_get_bytes(JNIEnv* env, jbyteArray a, jsize n, jbyte* out) {
	(*env)->GetByteArrayRegion(env, a, 0, n, out);
}

static const char* pinpad_utf_chars(JNIEnv* env, jstring s) {
	if (s == NULL) {
		return NULL;
	}
	return (*env)->GetStringUTFChars(env, s, NULL);
}

static void pinpad_release_utf(JNIEnv* env, jstring s, const char* p) {
	(*env)->ReleaseStringUTFChars(env, s, p);
}
*/
import "C"

import (
	"unsafe"

	"github.com/gogpu/pinpad"
	"github.com/gogpu/pinpad/surface"
)

// logConfig is the logcat setup of the library.
var logConfig = pinpad.LogConfig{Tag: pinpad.DefaultTag, Filter: "info"}

func floats(env *C.JNIEnv, a C.jfloatArray) []float32 {
	n := C.pinpad_array_length(env, C.jarray(a))
	if n == 0 {
		return nil
	}
	out := make([]float32, int(n))
	C.pinpad_get_floats(env, a, n, (*C.jfloat)(unsafe.Pointer(&out[0])))
	return out
}

func bytesOf(env *C.JNIEnv, a C.jbyteArray) []byte {
	n := C.pinpad_array_length(env, C.jarray(a))
	if n == 0 {
		return nil
	}
	out := make([]byte, int(n))
	C.pinpad_get_bytes(env, a, n, (*C.jbyte)(unsafe.Pointer(&out[0])))
	return out
}

func goString(env *C.JNIEnv, s C.jstring) string {
	p := C.pinpad_utf_chars(env, s)
	if p == nil {
		return ""
	}
	defer C.pinpad_release_utf(env, s, p)
	return C.GoString(p)
}

//export Java_gg_interstellar_wallet_RustWrapper_newCircuitsPackage
func Java_gg_interstellar_wallet_RustWrapper_newCircuitsPackage(env *C.JNIEnv, _ C.jclass,
	message C.jbyteArray, pinpadBuf C.jbyteArray) C.jlong {
	pinpad.InitLogging(logConfig)
	ref := pinpad.NewBundle(bytesOf(env, message), bytesOf(env, pinpadBuf))
	return C.jlong(ref)
}

//export Java_gg_interstellar_wallet_RustWrapper_initSurface
func Java_gg_interstellar_wallet_RustWrapper_initSurface(env *C.JNIEnv, _ C.jclass,
	surf C.jobject, messageRects C.jfloatArray, pinpadRects C.jfloatArray,
	cols C.jint, rows C.jint,
	messageTextColor, circleTextColor, circleColor, backgroundColor C.jstring,
	bundle C.jlong) C.jlong {
	pinpad.InitLogging(logConfig)
	h := pinpad.Create(pinpad.CreateParams{
		Surface: surface.AndroidSurface{
			Env:     unsafe.Pointer(env),
			Surface: unsafe.Pointer(surf),
		},
		MessageRects: floats(env, messageRects),
		PinpadRects:  floats(env, pinpadRects),
		PinpadCols:   int(cols),
		PinpadRows:   int(rows),
		Colors: pinpad.Colors{
			MessageText: goString(env, messageTextColor),
			CircleText:  goString(env, circleTextColor),
			Circle:      goString(env, circleColor),
			Background:  goString(env, backgroundColor),
		},
		Bundle: pinpad.BundleRef(bundle),
	})
	return C.jlong(h)
}

//export Java_gg_interstellar_wallet_RustWrapper_render
func Java_gg_interstellar_wallet_RustWrapper_render(_ *C.JNIEnv, _ C.jclass, handle C.jlong) {
	pinpad.Advance(pinpad.Handle(handle))
}

//export Java_gg_interstellar_wallet_RustWrapper_cleanup
func Java_gg_interstellar_wallet_RustWrapper_cleanup(_ *C.JNIEnv, _ C.jclass, handle C.jlong) {
	pinpad.Release(pinpad.Handle(handle))
}
