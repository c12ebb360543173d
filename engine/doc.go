// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package engine is the rendering engine instance owned by a pinpad handle.
//
// An Engine draws one pinpad screen into a platform window:
//
//	gg.Context (draw) -> Pixmap (CPU) -> surface.Presenter -> Window
//
// The layout arrives in normalized device coordinates (see package ndc):
// one message rectangle and a row-major grid of pinpad cells. Each frame
// clears the background, fills one circle per cell and composites the
// overlays produced by an Evaluator from the two display buffers.
//
// # Display Buffers
//
// The message and pinpad buffers are serialized garbled circuits produced
// elsewhere. The engine stores them verbatim and hands them to the
// Evaluator; it never parses them.
//
// # Thread Safety
//
// Engine is NOT safe for concurrent use. The owner must serialize Update
// and Close.
package engine
