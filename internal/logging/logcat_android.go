// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build android

package logging

/*
#cgo LDFLAGS: -llog
#include <android/log.h>
#include <stdlib.h>
*/
import "C"

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"unsafe"
)

// NewPlatformHandler returns a handler writing to logcat under tag.
func NewPlatformHandler(tag string, level slog.Leveler) slog.Handler {
	h := &logcatHandler{tag: C.CString(tag), mu: new(sync.Mutex), buf: new(bytes.Buffer)}
	h.text = slog.NewTextHandler(h.buf, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// logcat stamps time and level itself.
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	})
	return h
}

type logcatHandler struct {
	tag  *C.char // leaked on purpose, lives for the process
	mu   *sync.Mutex
	buf  *bytes.Buffer
	text slog.Handler
}

func (h *logcatHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.text.Enabled(ctx, level)
}

func (h *logcatHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf.Reset()
	if err := h.text.Handle(ctx, r); err != nil {
		return err
	}
	msg := C.CString(strings.TrimRight(h.buf.String(), "\n"))
	defer C.free(unsafe.Pointer(msg))
	C.__android_log_write(C.int(priority(r.Level)), h.tag, msg)
	return nil
}

func (h *logcatHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logcatHandler{tag: h.tag, mu: h.mu, buf: h.buf, text: h.text.WithAttrs(attrs)}
}

func (h *logcatHandler) WithGroup(name string) slog.Handler {
	return &logcatHandler{tag: h.tag, mu: h.mu, buf: h.buf, text: h.text.WithGroup(name)}
}

func priority(l slog.Level) int {
	switch {
	case l >= slog.LevelError:
		return C.ANDROID_LOG_ERROR
	case l >= slog.LevelWarn:
		return C.ANDROID_LOG_WARN
	case l >= slog.LevelInfo:
		return C.ANDROID_LOG_INFO
	default:
		return C.ANDROID_LOG_DEBUG
	}
}
