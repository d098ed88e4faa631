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

package pipeline

import (
	"strconv"

	"github.com/db47h/intcode/vm"
)

// Range is an inclusive range of phase settings.
type Range struct {
	Min, Max vm.Cell
}

// Standard phase ranges: SerialPhases for a chain run once, FeedbackPhases
// for a feedback loop.
var (
	SerialPhases   = Range{0, 4}
	FeedbackPhases = Range{5, 9}
)

// Contains returns true if v is in r.
func (r Range) Contains(v vm.Cell) bool {
	return v >= r.Min && v <= r.Max
}

// Len returns the number of phase settings in r.
func (r Range) Len() int {
	if r.Max < r.Min {
		return 0
	}
	return int(r.Max-r.Min) + 1
}

func (r Range) String() string {
	return strconv.FormatInt(int64(r.Min), 10) + ".." + strconv.FormatInt(int64(r.Max), 10)
}

// Permutations returns all the permutations of the phase settings in r, in
// lexicographic order.
func Permutations(r Range) [][]vm.Cell {
	n := r.Len()
	if n == 0 {
		return nil
	}
	p := make([]vm.Cell, n)
	for i := range p {
		p[i] = r.Min + vm.Cell(i)
	}
	var all [][]vm.Cell
	for {
		all = append(all, append([]vm.Cell(nil), p...))
		if !nextPermutation(p) {
			return all
		}
	}
}

// nextPermutation rearranges p into the next lexicographic permutation. It
// returns false if p is the last one.
func nextPermutation(p []vm.Cell) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}
