// Package pinpad bridges a managed host (an Android app) and an embedded gg
// rendering engine that draws a randomized PIN pad.
//
// # Overview
//
// The host owns a window surface and a layout measured in pixels. pinpad
// turns the surface into a platform window handle, converts the layout to
// normalized device coordinates, decodes the colors and hands everything to
// an engine instance. The host keeps only an integer Handle.
//
// # Quick Start
//
//	ref := pinpad.NewBundle(messageCircuit, pinpadCircuit)
//
//	h := pinpad.Create(pinpad.CreateParams{
//	    Surface:      surf,
//	    MessageRects: []float32{0, 0, 1080, 381},
//	    PinpadRects:  keys, // 12 rectangles, row-major
//	    PinpadCols:   3,
//	    PinpadRows:   4,
//	    Colors: pinpad.Colors{
//	        MessageText: "#ffffff",
//	        CircleText:  "#000000",
//	        Circle:      "#cccccc",
//	        Background:  "#202020",
//	    },
//	    Bundle: ref,
//	})
//	defer pinpad.Release(h)
//
//	for running {
//	    pinpad.Advance(h) // one frame
//	}
//
// # Contract Violations
//
// Malformed host input (empty or misaligned rectangle arrays, a key count
// that does not fill the grid, a bad color, a null window, a reused bundle
// or handle) cannot be reported back to the host. Such calls panic with a
// *Violation, which terminates the process across the native boundary.
// Go callers can catch one with Recover and match its reason with
// errors.Is. Frame-time failures are logged and the next Advance tries
// again.
//
// # Coordinate System
//
// Host rectangles use pixel coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// The engine works in NDC with the origin at the center and Y up. See
// package ndc for the projections.
//
// # Concurrency
//
// Calls on one handle must be serialized by the host. Distinct handles and
// bundles may be used from different threads.
package pinpad

// Version is the current version of the module.
const Version = "0.1.0"
