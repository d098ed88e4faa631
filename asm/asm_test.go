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

package asm_test

import (
	"strings"
	"testing"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
)

type C []vm.Cell

func equal(a, b []vm.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var tests = [...]struct {
	name string
	code string
	want C
}{
	{"modes", "add #1 #2 rb+3 hlt", C{21101, 1, 2, 3, 99}},
	{"position", "mul 4 #3 4 halt", C{1002, 4, 3, 4, 99}},
	{"label", "jnz #1 #end .dat 7 :end hlt", C{1105, 1, 4, 7, 99}},
	{"forward", "jt #1 #end :end hlt", C{1105, 1, 3, 99}},
	{"equ", ".equ N 10 out #N hlt", C{104, 10, 99}},
	{"org", "hlt .org 4 .dat 5", C{99, 0, 0, 0, 5}},
	{"char", "out #'A' hlt", C{104, 65, 99}},
	{"relative", "arb #-1 in rb out rb-1 rbo rb+0 hlt", C{109, -1, 203, 0, 204, -1, 209, 0, 99}},
	{"comment", "( hello\n world ) hlt ( bye )", C{99}},
	{"implicit data", "hlt 1 2 -3", C{99, 1, 2, -3}},
	{"dat label", ":a .dat a b :b", C{0, 2}},
	{"compare", "lt rb #5 6 eq #0 rb-2 rb+1", C{1207, 0, 5, 6, 22108, 0, -2, 1}},
	{"jump", "jf 0 #0 jz #0 rb", C{1006, 0, 0, 2106, 0, 0}},
}

func TestAssemble(t *testing.T) {
	for _, test := range tests {
		got, err := asm.Assemble(test.name, strings.NewReader(test.code))
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if !equal(got, test.want) {
			t.Errorf("%s: expected %d, got %d", test.name, test.want, got)
		}
	}
}

// check some errors. We're not checking the messages, rather that they point at
// the correct place.
func TestAssemble_errors(t *testing.T) {
	code := `
	frob 1 2 3
	add 1 2 #3
	jnz :x #0
	.org foo
	.equ 12 3
	:add
	in rb+zz
	.bogus
	.equ k 1
	:k
	.dat missing
`
	want := []string{"frob", "#3", ":x", "foo", "12", ":add", "rb+zz", ".bogus", ":k", "missing"}
	_, err := asm.Assemble("test_errors", strings.NewReader(code))
	errs, ok := err.(asm.ErrAsm)
	if !ok {
		t.Fatalf("expected ErrAsm, got %v", err)
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d:\n%v", len(want), len(errs), err)
	}
	for n, e := range errs {
		if !strings.HasPrefix(code[e.Pos.Offset:], want[n]) {
			t.Errorf("error %q points to %q, expected %q", e.Msg, code[e.Pos.Offset:e.Pos.Offset+4], want[n])
		}
	}
}

func TestAssemble_maxErrors(t *testing.T) {
	code := strings.Repeat("frob\n", 15)
	_, err := asm.Assemble("max", strings.NewReader(code))
	if errs, ok := err.(asm.ErrAsm); !ok || len(errs) != 10 {
		t.Fatalf("expected 10 errors, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "max:1:1: unknown mnemonic frob\nmax:2:1: ") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestDisassemble_roundTrip(t *testing.T) {
	progs := []C{
		{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99},
		{3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26, 27, 4, 27, 1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5},
		{1102, 34915192, 34915192, 7, 4, 7, 99, 0},
		{3399, 11101, 1, 2, 3, -1, 22202, 1, 2, 3, 1, 0},
	}
	for _, p := range progs {
		var b strings.Builder
		for pc := 0; pc < len(p); {
			var err error
			if pc, err = asm.Disassemble(p, pc, &b); err != nil {
				t.Fatal(err)
			}
			b.WriteByte('\n')
		}
		got, err := asm.Assemble("roundtrip", strings.NewReader(b.String()))
		if err != nil {
			t.Errorf("%v\n%s", err, b.String())
			continue
		}
		if !equal(got, p) {
			t.Errorf("expected %d, got %d\n%s", p, got, b.String())
		}
	}
}

func TestDisassemble(t *testing.T) {
	var tests = [...]struct {
		code C
		want string
		next int
	}{
		{C{1002, 4, 3, 4}, "mul 4 #3 4", 4},
		{C{21101, 1, -2, 3}, "add #1 #-2 rb+3", 4},
		{C{204, -5}, "out rb-5", 2},
		{C{209, 0}, "arb rb", 2},
		{C{3399}, ".dat 3399", 1},
		{C{11101, 1, 2, 3}, ".dat 11101", 1},
		{C{301, 1, 2, 3}, ".dat 301", 1},
		{C{1, 2}, ".dat 1", 1},
		{C{99}, "hlt", 1},
		{C{-1}, ".dat -1", 1},
	}
	for _, test := range tests {
		var b strings.Builder
		next, err := asm.Disassemble(test.code, 0, &b)
		if err != nil {
			t.Fatal(err)
		}
		if b.String() != test.want || next != test.next {
			t.Errorf("%d: expected %q/%d, got %q/%d", test.code, test.want, test.next, b.String(), next)
		}
	}
}
