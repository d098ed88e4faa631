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

package vm_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	var tests = [...]struct {
		in   string
		want C
		err  string
	}{
		{"1,0,0,0,99\n", C{1, 0, 0, 0, 99}, ""},
		{" 1, -2 ,\t3 \r\n", C{1, -2, 3}, ""},
		{"104,1125899906842624,99", C{104, 1125899906842624, 99}, ""},
		{"", nil, "empty program"},
		{" \n", nil, "empty program"},
		{"1,,2", nil, "empty field 2"},
		{"1,2,\n", nil, "empty field 3"},
		{"1,x", nil, "field 2"},
		{"1,99999999999999999999", nil, "field 2"},
	}
	for _, test := range tests {
		p, err := vm.ParseString(test.in)
		if test.err != "" {
			if err == nil || !strings.Contains(err.Error(), test.err) {
				t.Errorf("%q: expected error %q, got %v", test.in, test.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if !equal(p, test.want) {
			t.Errorf("%q: expected %d, got %d", test.in, test.want, p)
		}
	}
}

func TestLoadSave(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "prog.txt")
	want := C{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	if err := vm.Save(fn, want); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99\n" {
		t.Errorf("unexpected file contents %q", b)
	}
	p, err := vm.Load(fn)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(p, want) {
		t.Errorf("expected %d, got %d", want, p)
	}
	if _, err = vm.Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error loading missing file")
	}
}

// comparison programs: output 1 if the input is equal to (or less than) 8.
var ioTests = [...]struct {
	name string
	code string
	in   vm.Cell
	out  vm.Cell
}{
	{"eq8 position", "3,9,8,9,10,9,4,9,99,-1,8", 8, 1},
	{"eq8 position", "3,9,8,9,10,9,4,9,99,-1,8", 7, 0},
	{"lt8 position", "3,9,7,9,10,9,4,9,99,-1,8", 7, 1},
	{"lt8 position", "3,9,7,9,10,9,4,9,99,-1,8", 8, 0},
	{"eq8 immediate", "3,3,1108,-1,8,3,4,3,99", 8, 1},
	{"eq8 immediate", "3,3,1108,-1,8,3,4,3,99", 9, 0},
	{"lt8 immediate", "3,3,1107,-1,8,3,4,3,99", -4, 1},
	{"lt8 immediate", "3,3,1107,-1,8,3,4,3,99", 8, 0},
	{"jump position", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 0, 0},
	{"jump position", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 5, 1},
	{"jump immediate", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", 0, 0},
	{"jump immediate", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", -5, 1},
	{"cmp8", cmp8, 7, 999},
	{"cmp8", cmp8, 8, 1000},
	{"cmp8", cmp8, 9, 1001},
}

var cmp8 = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

func TestRunWith(t *testing.T) {
	for _, test := range ioTests {
		p, err := vm.ParseString(test.code)
		if err != nil {
			t.Fatal(err)
		}
		out, err := vm.RunWith(p, test.in)
		if err != nil {
			t.Errorf("%s(%d): %+v", test.name, test.in, err)
			continue
		}
		if len(out) != 1 || out[0] != test.out {
			t.Errorf("%s(%d): expected [%d], got %d", test.name, test.in, test.out, out)
		}
	}
}

func TestRunWith_exhausted(t *testing.T) {
	out, err := vm.RunWith(vm.Program{3, 0, 4, 0, 3, 0, 99}, 42)
	if errors.Cause(err) != vm.ErrInputExhausted {
		t.Fatalf("expected %v, got %v", vm.ErrInputExhausted, err)
	}
	if !equal(out, C{42}) {
		t.Errorf("expected output so far, got %d", out)
	}
}

func TestDrive(t *testing.T) {
	var events []string
	i := setup(assemble("drive", "out #1 out #2 in 100 out 100 hlt"))
	err := vm.Drive(context.Background(), i,
		func() (vm.Cell, error) {
			events = append(events, "in")
			return 7, nil
		},
		func(out []vm.Cell) error {
			for _, v := range out {
				events = append(events, vm.Program{v}.String())
			}
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(events, " "); got != "1 2 in 7" {
		t.Errorf("unexpected event sequence %q", got)
	}

	i = setup(vm.Program{3, 0, 99})
	if err = vm.Drive(context.Background(), i, nil, nil); errors.Cause(err) != vm.ErrInputExhausted {
		t.Errorf("expected %v, got %v", vm.ErrInputExhausted, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	i = setup(vm.Program{99})
	if err = vm.Drive(ctx, i, nil, nil); err != context.Canceled || i.State() != vm.Running {
		t.Errorf("expected %v before running, got %v, %v", context.Canceled, err, i.State())
	}

	// cancellation between resumes
	ctx, cancel = context.WithCancel(context.Background())
	i = setup(vm.Program{3, 0, 3, 0, 99})
	err = vm.Drive(ctx, i, func() (vm.Cell, error) {
		cancel()
		return 1, nil
	}, nil)
	if err != context.Canceled || i.State() != vm.AwaitingInput {
		t.Errorf("expected %v while awaiting input, got %v, %v", context.Canceled, err, i.State())
	}
}

func TestSnapshot(t *testing.T) {
	p := assemble("snap", "add #5 #0 1000000 in 100 add 100 1000000 101 out 101 hlt")
	i := setup(p)
	if st, _ := i.Resume(); st != vm.AwaitingInput {
		t.Fatalf("expected %v, got %v", vm.AwaitingInput, st)
	}
	s := i.Snapshot()
	if len(s.Sparse) != 1 || s.Sparse[1000000] != 5 || s.PC != 4 || s.State != vm.AwaitingInput || s.Steps != 1 {
		t.Fatalf("bad snapshot %+v", s)
	}
	r, err := vm.Restore(s)
	if err != nil {
		t.Fatal(err)
	}
	i.ResumeWith(1)
	r.ResumeWith(2)
	if v, _ := i.LastOutput(); v != 6 {
		t.Errorf("expected 6, got %d", v)
	}
	if v, _ := r.LastOutput(); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
	// the snapshot is unaffected
	if s.State != vm.AwaitingInput || len(s.Output) != 0 {
		t.Errorf("snapshot modified: %+v", s)
	}

	for _, bad := range []*vm.Snapshot{
		nil,
		{Memory: C{99}, State: 3},
		{Memory: C{99}, PC: -1},
		{Memory: C{99}, Steps: -1},
		{Memory: C{99, 0}, Sparse: map[vm.Cell]vm.Cell{1: 2}},
		{Memory: C{99}, Sparse: map[vm.Cell]vm.Cell{-2: 2}},
	} {
		if _, err := vm.Restore(bad); errors.Cause(err) != vm.ErrBadSnapshot {
			t.Errorf("%+v: expected %v, got %v", bad, vm.ErrBadSnapshot, err)
		}
	}
}

func TestMemory(t *testing.T) {
	m := vm.NewMemory(C{1, 2, 3})
	if m.Len() != 3 {
		t.Errorf("expected length 3, got %d", m.Len())
	}
	m.Write(10, 42)
	m.Write(1<<40, 7)
	if v, _ := m.Read(10); v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	if v, _ := m.Read(1 << 40); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
	if v, _ := m.Read(1<<40 + 1); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	if m.Len() != 1<<40+1 || len(m.Contents()) != 11 || len(m.Sparse()) != 1 {
		t.Errorf("unexpected layout: len %d, dense %d, sparse %d", m.Len(), len(m.Contents()), len(m.Sparse()))
	}
	// a far cell that gets covered by dense growth
	m.Write(5000, 1)
	m.Write(4100, 3)
	m.Write(5001, 4)
	if v, _ := m.Read(5000); v != 1 || len(m.Sparse()) != 1 {
		t.Errorf("sparse cell lost after growth: %d, %d sparse cells", v, len(m.Sparse()))
	}
	if _, err := m.Read(-1); err == nil {
		t.Error("expected error reading at -1")
	}
	if err := m.Write(-1, 0); err == nil {
		t.Error("expected error writing at -1")
	}
	// highest address: Len saturates instead of wrapping
	if err := m.Write(math.MaxInt64, 9); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Read(math.MaxInt64); v != 9 {
		t.Errorf("expected 9, got %d", v)
	}
	if m.Len() != math.MaxInt64 {
		t.Errorf("expected length %d, got %d", int64(math.MaxInt64), m.Len())
	}
}
