// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface turns opaque host surface references into platform window
// handles and presents rendered frames to them.
//
// # Architecture
//
// Each platform is a backend registered by name:
//
//   - "android": ANativeWindow obtained from an android.view.Surface
//     (build tag android, requires cgo)
//   - "headless": in-process framebuffers for tests and desktop previews
//
// A host reference (Ref) names its platform, and Extract dispatches to the
// matching backend:
//
//	h := surface.MustExtract(ref)   // fatal on a null window
//	p, err := surface.OpenPresenter(h)
//	defer p.Close()
//	err = p.Present(frame)
//
// # Ownership
//
// A WindowHandle is borrowed from the platform for the duration of instance
// creation. The only place it may be kept afterwards is inside the engine
// instance it configures, which closes its Presenter on release.
//
// # Registry
//
// Additional platforms register themselves from init:
//
//	func init() {
//	    surface.Register(surface.Backend{
//	        Name:     "wayland",
//	        Priority: 50,
//	        Extract:  extractWayland,
//	        Present:  openWaylandPresenter,
//	    })
//	}
package surface
