// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package grid arranges an ordered sequence into a fixed row-major grid.
//
// Input sequences are in scan order: top-to-bottom, left-to-right, so
// seq[0] is the top-left cell and seq[len-1] the bottom-right one.
// Cells are placed by explicit index (seq[col+row*cols]) rather than by
// consuming the sequence from the front.
package grid

import (
	"fmt"
	"iter"
	"math"

	"github.com/gogpu/pinpad/internal/contract"
)

// Grid is a rows×cols matrix stored row-major. The zero value is an empty
// 0×0 grid.
type Grid[T any] struct {
	rows, cols int
	cells      []T
}

// Check reports whether a sequence of n items fills a rows×cols grid.
func Check(n, rows, cols int) error {
	if rows < 0 || cols < 0 {
		return contract.New("grid.Build", contract.KindInput,
			fmt.Errorf("%w: negative dimensions %dx%d", contract.ErrCountMismatch, rows, cols))
	}
	if cols != 0 && rows > math.MaxInt/cols {
		return contract.New("grid.Build", contract.KindInput,
			fmt.Errorf("%w: %dx%d grid overflows", contract.ErrCountMismatch, rows, cols))
	}
	return contract.CheckCount("grid.Build", "cells", n, rows*cols)
}

// New places seq into a rows×cols grid. It returns a *contract.Violation if
// len(seq) != rows*cols.
func New[T any](seq []T, rows, cols int) (*Grid[T], error) {
	if err := Check(len(seq), rows, cols); err != nil {
		return nil, err
	}
	g := &Grid[T]{rows: rows, cols: cols, cells: make([]T, rows*cols)}
	for row := range rows {
		for col := range cols {
			g.cells[row*cols+col] = seq[col+row*cols]
		}
	}
	return g, nil
}

// Build is like New but a size mismatch is fatal.
func Build[T any](seq []T, rows, cols int) *Grid[T] {
	g, err := New(seq, rows, cols)
	contract.Fatal(err)
	return g
}

// Rows returns the number of rows.
func (g *Grid[T]) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid[T]) Cols() int { return g.cols }

// Len returns rows*cols.
func (g *Grid[T]) Len() int { return len(g.cells) }

// At returns the cell at (row, col). It panics if either index is out of
// range.
func (g *Grid[T]) At(row, col int) T {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("grid: index (%d, %d) out of range %dx%d", row, col, g.rows, g.cols))
	}
	return g.cells[row*g.cols+col]
}

// Row returns a copy of one row.
func (g *Grid[T]) Row(row int) []T {
	if row < 0 || row >= g.rows {
		panic(fmt.Sprintf("grid: row %d out of range %d", row, g.rows))
	}
	out := make([]T, g.cols)
	copy(out, g.cells[row*g.cols:(row+1)*g.cols])
	return out
}

// All yields every cell in row-major order with its coordinates.
func (g *Grid[T]) All() iter.Seq2[Cell, T] {
	return func(yield func(Cell, T) bool) {
		for row := range g.rows {
			for col := range g.cols {
				if !yield(Cell{Row: row, Col: col}, g.cells[row*g.cols+col]) {
					return
				}
			}
		}
	}
}

// Cell addresses one grid cell.
type Cell struct {
	Row, Col int
}

// Index returns the scan-order index of c in a grid with cols columns.
func (c Cell) Index(cols int) int {
	return c.Col + c.Row*cols
}
