// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/pinpad/internal/contract"
	"github.com/gogpu/pinpad/internal/logging"
)

// Extractor obtains a window handle and its size from a host surface
// reference.
type Extractor interface {
	Extract(ref Ref) (WindowHandle, error)
}

// ExtractFunc adapts a function to Extractor.
type ExtractFunc func(ref Ref) (WindowHandle, error)

// Extract implements Extractor.
func (f ExtractFunc) Extract(ref Ref) (WindowHandle, error) {
	return f(ref)
}

var (
	_ Extractor = ExtractFunc(nil)
	_ Extractor = (*Registry)(nil)
)

// PresentFunc opens a presenter for a window handle.
type PresentFunc func(h WindowHandle) (Presenter, error)

// Backend is a registered platform.
type Backend struct {
	// Name is the platform identifier, matched against Ref.Platform.
	Name string

	// Priority orders List output (higher first).
	// Standard priorities:
	//   - 100: native platform windows
	//   - 10: in-process framebuffers
	Priority int

	// Extract obtains a window handle from a host reference.
	Extract ExtractFunc

	// Present opens a presenter for a window handle. Nil means the backend
	// cannot display frames.
	Present PresentFunc

	// Available reports whether the backend works on this system.
	// Nil means always available.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages platform backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Backend
}

// NewRegistry creates an empty registry.
// Most code should use the global registry via Register and Extract.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Backend)}
}

// Register adds a backend to the global registry, replacing any backend
// with the same name.
func Register(b Backend) {
	globalRegistry.Register(b)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority.
func List() []string {
	return globalRegistry.List()
}

// Get returns a copy of a registered backend.
func Get(name string) (Backend, bool) {
	return globalRegistry.Get(name)
}

// Extract obtains a window handle from ref using the global registry.
func Extract(ref Ref) (WindowHandle, error) {
	return globalRegistry.Extract(ref)
}

// MustExtract is like Extract but a failure is fatal: a missing backend or a
// null window leaves no way to build an instance.
func MustExtract(ref Ref) WindowHandle {
	h, err := Extract(ref)
	contract.Fatal(err)
	return h
}

// OpenPresenter opens a presenter for h using the global registry.
func OpenPresenter(h WindowHandle) (Presenter, error) {
	return globalRegistry.OpenPresenter(h)
}

// Register adds a backend to this registry.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*Backend)
	}
	if b.Available == nil {
		b.Available = func() bool { return true }
	}
	r.entries[b.Name] = &b
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all backend names sorted by priority (highest first).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.entries[names[i]].Priority, r.entries[names[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// Get returns a copy of a registered backend.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.entries[name]
	if !ok {
		return Backend{}, false
	}
	return *b, true
}

func (r *Registry) lookup(name string) (*Backend, error) {
	r.mu.RLock()
	b, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !b.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return b, nil
}

// Extract obtains a window handle from ref. A nil ref, an unknown platform,
// a null window or a non-positive size is reported as a
// *contract.Violation of kind platform.
func (r *Registry) Extract(ref Ref) (WindowHandle, error) {
	const op = "surface.Extract"
	if ref == nil {
		return WindowHandle{}, contract.New(op, contract.KindPlatform, ErrNilRef)
	}
	b, err := r.lookup(ref.Platform())
	if err != nil {
		return WindowHandle{}, contract.New(op, contract.KindPlatform, err)
	}
	h, err := b.Extract(ref)
	if err != nil {
		return WindowHandle{}, contract.New(op, contract.KindPlatform, err)
	}
	if err := contract.CheckWindow(op, h.Window); err != nil {
		return WindowHandle{}, err
	}
	if h.Width <= 0 || h.Height <= 0 {
		return WindowHandle{}, contract.New(op, contract.KindPlatform,
			fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height))
	}
	h.Platform = b.Name
	logging.For("surface").Debug("extracted window", "handle", h.String())
	return h, nil
}

// OpenPresenter opens a presenter for h on the backend that produced it.
func (r *Registry) OpenPresenter(h WindowHandle) (Presenter, error) {
	b, err := r.lookup(h.Platform)
	if err != nil {
		return nil, err
	}
	if b.Present == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPresenter, b.Name)
	}
	return b.Present(h)
}

// Errors.
var (
	// ErrNilRef is returned when no host surface reference is given.
	ErrNilRef = errors.New("surface: nil surface reference")

	// ErrInvalidDimensions is returned when the platform reports a window
	// without a positive size.
	ErrInvalidDimensions = errors.New("surface: invalid window dimensions")

	// ErrNoPresenter is returned when a backend cannot display frames.
	ErrNoPresenter = errors.New("surface: backend has no presenter")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}
