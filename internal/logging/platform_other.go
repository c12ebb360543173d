// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !android

package logging

import (
	"log/slog"
	"os"
)

// NewPlatformHandler returns a text handler on stderr. The tag is recorded
// as an attribute so output from several native modules can be told apart.
func NewPlatformHandler(tag string, level slog.Leveler) slog.Handler {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return h.WithAttrs([]slog.Attr{slog.String("tag", tag)})
}
