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

package robot_test

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/robot"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

func assemble(code string) vm.Program {
	p, err := asm.Assemble("test", strings.NewReader(code))
	if err != nil {
		panic(err)
	}
	return p
}

// a robot that ignores its camera and records what it saw
var scripted = `
	in #0			( patched below )
	out #1 out #0
	in 101 out #0 out #0
	in 102 out #1 out #0
	in 103 out #1 out #0
	in 104 out #0 out #1
	in 105 out #1 out #0
	in 106 out #1 out #0
	hlt
`

func TestPaint(t *testing.T) {
	p := assemble(strings.Replace(scripted, "in #0", "in 100", 1))
	h, err := robot.Paint(context.Background(), p, robot.Black)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if h.Painted() != 6 {
		t.Errorf("expected 6 painted panels, got %d", h.Painted())
	}
	if h.Visited() != 7 {
		t.Errorf("expected 7 visited panels, got %d", h.Visited())
	}
	if b := h.Bounds(); b != image.Rect(-1, -1, 2, 2) {
		t.Errorf("unexpected bounds %v", b)
	}
	if pos, dir := h.Robot(); pos != image.Pt(0, -1) || dir != image.Pt(-1, 0) {
		t.Errorf("unexpected robot position %v facing %v", pos, dir)
	}
	var b strings.Builder
	if err = h.Render(&b); err != nil {
		t.Fatal(err)
	}
	if b.String() != "  #\n  #\n## \n" {
		t.Errorf("unexpected rendering:\n%q", b.String())
	}
}

func TestPaint_camera(t *testing.T) {
	// the 5th panel the robot stands on is the origin, painted white at step 1
	p := assemble(strings.Replace(scripted, "in #0", "in 100", 1) + `
	.org 100 .dat -1 -1 -1 -1 -1 -1 -1`)
	var seen []vm.Cell
	h, err := robot.Paint(context.Background(), p, robot.Black, robot.VMOptions(vm.Trace(func(i *vm.Instance, pc vm.Cell, ins vm.Instruction) error {
		if ins.Op == vm.OpHalt {
			for a := vm.Cell(100); a < 107; a++ {
				v, _ := i.Peek(a)
				seen = append(seen, v)
			}
		}
		return nil
	})))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	want := []vm.Cell{0, 0, 0, 0, 1, 0, 0}
	for n := range want {
		if n >= len(seen) || seen[n] != want[n] {
			t.Fatalf("expected camera values %d, got %d", want, seen)
		}
	}
	if h.Color(image.Pt(0, 0)) != robot.Black || h.Color(image.Pt(1, 0)) != robot.White {
		t.Error("unexpected panel colors")
	}
}

func TestPaint_start(t *testing.T) {
	p := assemble("in 100 out 100 out #1 hlt")
	h, err := robot.Paint(context.Background(), p, robot.White)
	if err != nil {
		t.Fatal(err)
	}
	if h.Painted() != 1 || h.Color(image.Pt(0, 0)) != robot.White {
		t.Errorf("expected one white panel, got %d, %v", h.Painted(), h.Color(image.Pt(0, 0)))
	}
	// an unpainted white starting panel still shows
	h, err = robot.Paint(context.Background(), vm.Program{99}, robot.White)
	if err != nil {
		t.Fatal(err)
	}
	if h.Painted() != 0 || h.Bounds() != image.Rect(0, 0, 1, 1) {
		t.Errorf("expected no painted panel and white origin, got %d, %v", h.Painted(), h.Bounds())
	}
}

func TestPaint_errors(t *testing.T) {
	var tests = [...]struct {
		name string
		code string
		err  error
	}{
		{"color", "out #2 out #0 hlt", &robot.OutputError{Index: 0, Value: 2}},
		{"turn", "out #1 out #0 out #1 out #-1 hlt", &robot.OutputError{Index: 3, Value: -1}},
		{"dangling", "out #1 out #0 out #1 hlt", robot.ErrDanglingOutput},
		{"fault", "out #1 .dat 42", &vm.UnknownOpcodeError{Opcode: 42, PC: 2}},
	}
	for _, test := range tests {
		_, err := robot.Paint(context.Background(), assemble(test.code), robot.Black)
		if err == nil || err.Error() != test.err.Error() {
			t.Errorf("%s: expected %v, got %v", test.name, test.err, err)
		}
	}
	_, err := robot.Paint(context.Background(), vm.Program{1106, 0, 0}, robot.Black, robot.VMOptions(vm.StepLimit(50)))
	if errors.Cause(err) != vm.ErrStepLimit {
		t.Errorf("expected %v, got %v", vm.ErrStepLimit, err)
	}
}
