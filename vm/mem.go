// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import "math"

// Cell is the raw type stored in a memory location. It is also the type of
// every operand, input and output value.
type Cell int64

// denseSlack is how far past the end of the dense region a write may land
// and still extend it. Anything further goes to the sparse map.
const denseSlack = 4096

// Memory is the storage of a VM instance. It behaves as an unbounded array of
// zero-initialized cells addressed from 0 upwards.
//
// The loaded program and any contiguous growth live in a slice; isolated
// writes far beyond it are kept in a map so that a program poking at address
// 1<<40 does not allocate terabytes.
type Memory struct {
	cells  []Cell
	sparse map[Cell]Cell
	top    Cell
}

// NewMemory returns a new Memory initialized with a copy of program.
func NewMemory(program []Cell) *Memory {
	m := &Memory{
		cells: make([]Cell, len(program)),
		top:   Cell(len(program)),
	}
	copy(m.cells, program)
	return m
}

// Read returns the value stored at addr. Addresses that were never written
// read as 0.
func (m *Memory) Read(addr Cell) (Cell, error) {
	if addr < 0 {
		return 0, &InvalidAddressError{Address: addr}
	}
	if addr < Cell(len(m.cells)) {
		return m.cells[addr], nil
	}
	return m.sparse[addr], nil
}

// Write stores v at addr.
func (m *Memory) Write(addr, v Cell) error {
	if addr < 0 {
		return &InvalidAddressError{Address: addr}
	}
	l := Cell(len(m.cells))
	switch {
	case addr < l:
		m.cells[addr] = v
	case addr-l < denseSlack:
		m.grow(addr + 1)
		m.cells[addr] = v
	default:
		if m.sparse == nil {
			m.sparse = make(map[Cell]Cell)
		}
		m.sparse[addr] = v
	}
	if addr >= m.top {
		if addr == math.MaxInt64 {
			m.top = addr // saturated
		} else {
			m.top = addr + 1
		}
	}
	return nil
}

// grow extends the dense region to size cells and moves any sparse cells it
// now covers.
func (m *Memory) grow(size Cell) {
	l := Cell(len(m.cells))
	if size <= Cell(cap(m.cells)) {
		m.cells = m.cells[:size]
	} else {
		c := 2 * Cell(cap(m.cells))
		if c < size {
			c = size
		}
		t := make([]Cell, size, c)
		copy(t, m.cells)
		m.cells = t
	}
	for a, v := range m.sparse {
		if a >= l && a < size {
			m.cells[a] = v
			delete(m.sparse, a)
		}
	}
}

// Len returns one past the highest address ever loaded or written, capped
// at math.MaxInt64.
func (m *Memory) Len() Cell {
	return m.top
}

// Contents returns a copy of the dense region of memory. Unless the program
// wrote past its end, this is exactly the size of the loaded program.
func (m *Memory) Contents() []Cell {
	t := make([]Cell, len(m.cells))
	copy(t, m.cells)
	return t
}

// Sparse returns a copy of the cells stored outside the dense region.
func (m *Memory) Sparse() map[Cell]Cell {
	if len(m.sparse) == 0 {
		return nil
	}
	t := make(map[Cell]Cell, len(m.sparse))
	for a, v := range m.sparse {
		t[a] = v
	}
	return t
}

