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


// Package ascii provides utility functions for Intcode programs that talk
// ASCII: one character per input or output value, with the occasional large
// value (outside the ASCII range) used to report a numeric result.
package ascii

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
)

// Encode returns the code points of s as input values.
func Encode(s string) []vm.Cell {
	cells := make([]vm.Cell, 0, len(s))
	for _, r := range s {
		cells = append(cells, vm.Cell(r))
	}
	return cells
}

// IsText returns true if v is an ASCII character.
func IsText(v vm.Cell) bool {
	return v >= 0 && v < utf8.RuneSelf
}

// Decode splits program output into its leading text and the remaining
// values, starting at the first one that is not an ASCII character.
func Decode(out []vm.Cell) (text string, rest []vm.Cell) {
	n := 0
	for n < len(out) && IsText(out[n]) {
		n++
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(out[i])
	}
	if n < len(out) {
		rest = out[n:]
	}
	return string(b), rest
}

// Dump writes out to w. ASCII values are written as is, other values are
// written in base 10 on a line of their own.
func Dump(w io.Writer, out []vm.Cell) error {
	ew := ici.NewErrWriter(w)
	var b []byte
	col := 0
	for _, v := range out {
		if IsText(v) {
			b = append(b, byte(v))
			if v == '\n' {
				col = 0
			} else {
				col++
			}
			continue
		}
		if col > 0 {
			b = append(b, '\n')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		b = append(b, '\n')
		col = 0
	}
	ew.Write(b)
	return ew.Err
}
