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

package ascii_test

import (
	"bytes"
	"testing"

	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/vm"
)

func TestEncode(t *testing.T) {
	c := ascii.Encode("NOT A J\n")
	want := []vm.Cell{'N', 'O', 'T', ' ', 'A', ' ', 'J', '\n'}
	if len(c) != len(want) {
		t.Fatalf("expected %d, got %d", want, c)
	}
	for i := range c {
		if c[i] != want[i] {
			t.Fatalf("expected %d, got %d", want, c)
		}
	}
}

func TestDecode(t *testing.T) {
	var tests = [...]struct {
		out  []vm.Cell
		text string
		rest []vm.Cell
	}{
		{nil, "", nil},
		{[]vm.Cell{'o', 'k', '\n'}, "ok\n", nil},
		{[]vm.Cell{'#', '\n', 19355436}, "#\n", []vm.Cell{19355436}},
		{[]vm.Cell{128, 'a'}, "", []vm.Cell{128, 'a'}},
		{[]vm.Cell{-1}, "", []vm.Cell{-1}},
	}
	for _, test := range tests {
		text, rest := ascii.Decode(test.out)
		if text != test.text || len(rest) != len(test.rest) {
			t.Errorf("Decode(%d): expected %q %d, got %q %d", test.out, test.text, test.rest, text, rest)
			continue
		}
		for i := range rest {
			if rest[i] != test.rest[i] {
				t.Errorf("Decode(%d): expected rest %d, got %d", test.out, test.rest, rest)
				break
			}
		}
	}
}

func TestDump(t *testing.T) {
	var b bytes.Buffer
	out := append(ascii.Encode("Hull:\n.#."), 1234, '!', 5678)
	if err := ascii.Dump(&b, out); err != nil {
		t.Fatal(err)
	}
	if b.String() != "Hull:\n.#.\n1234\n!\n5678\n" {
		t.Errorf("unexpected dump %q", b.String())
	}
}

func TestRoundTrip(t *testing.T) {
	// echo program: copy input to output until a 0 is read
	p := vm.Program{3, 100, 1006, 100, 10, 4, 100, 1105, 1, 0, 99}
	out, err := vm.RunWith(p, append(ascii.Encode("hello\n"), 0)...)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if text, rest := ascii.Decode(out); text != "hello\n" || rest != nil {
		t.Errorf("expected %q, got %q %d", "hello\n", text, rest)
	}
}
