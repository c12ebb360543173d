// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ndc converts host pixel rectangles into normalized device
// coordinates.
//
// # Coordinate Systems
//
// Host rectangles use pixel coordinates:
//   - Origin (0,0) at the top-left of the surface
//   - X increases right, Y increases down
//
// Normalized device coordinates (NDC) are what the renderer lays out in:
//   - Origin at the center of the surface
//   - Y increases up
//   - The surface height spans [-1, 1]
//
// The default ProjectionAspect keeps pixels square, so on a portrait surface
// the width spans [-W/H, W/H]. ProjectionStretch maps both axes to [-1, 1].
//
// # Input Encoding
//
// The host passes rectangles as one flat float array:
//
//	[left0, top0, right0, bottom0, left1, top1, right1, bottom1, ...]
//
// An empty array or one whose length is not a multiple of 4 is a host
// contract violation and is rejected before any rectangle is converted.
package ndc
