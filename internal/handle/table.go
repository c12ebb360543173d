// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package handle maps opaque integer identifiers to Go values.
//
// A host runtime cannot hold Go pointers across calls, so each live value is
// stored in a table and only its key crosses the boundary. Keys are never
// reused within a process. Take removes the value, leaving exactly one owner
// (the caller); after that the key is dead.
package handle

import (
	"sync"
	"sync/atomic"
)

// Table holds live values keyed by non-zero uint64 identifiers.
// It is safe for concurrent use; operations on distinct keys do not contend
// beyond the underlying sync.Map.
type Table[T any] struct {
	next atomic.Uint64
	m    sync.Map // uint64 -> T
}

// Put stores v and returns a fresh key. Zero is never returned.
func (t *Table[T]) Put(v T) uint64 {
	id := t.next.Add(1)
	t.m.Store(id, v)
	return id
}

// Get returns the value for id without changing ownership.
func (t *Table[T]) Get(id uint64) (T, bool) {
	v, ok := t.m.Load(id)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Take removes and returns the value for id. Only one caller can take a
// given key.
func (t *Table[T]) Take(id uint64) (T, bool) {
	v, ok := t.m.LoadAndDelete(id)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	n := 0
	t.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
