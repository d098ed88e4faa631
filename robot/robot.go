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


// Package robot runs hull painting robots: Intcode programs that read the
// color of the panel under the robot and answer with a color to paint it and a
// direction to turn to before moving forward one panel.
package robot

import (
	"context"
	"image"
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Color is the color of a hull panel.
type Color vm.Cell

// Panel colors.
const (
	Black Color = 0
	White Color = 1
)

// ErrDanglingOutput is returned when the program halts in the middle of an
// output pair.
var ErrDanglingOutput = errors.New("program halted with an incomplete output pair")

// OutputError reports an output value that is neither a valid color nor a
// valid turn.
type OutputError struct {
	Index int // index of the value in the program's output
	Value vm.Cell
}

func (e *OutputError) Error() string {
	what := "color"
	if e.Index%2 == 1 {
		what = "turn"
	}
	return "invalid " + what + " " + strconv.FormatInt(int64(e.Value), 10) + " at output " + strconv.Itoa(e.Index)
}

// Hull is a painted hull. Y grows downwards, the robot starts at the origin
// facing up (towards negative Y).
type Hull struct {
	start   Color
	panels  map[image.Point]Color
	visited map[image.Point]struct{}
	pos     image.Point
	dir     image.Point
	out     int
}

func newHull(start Color) *Hull {
	return &Hull{
		start:   start,
		panels:  make(map[image.Point]Color),
		visited: map[image.Point]struct{}{{}: {}},
		dir:     image.Pt(0, -1),
	}
}

// Color returns the color of the panel at p.
func (h *Hull) Color(p image.Point) Color {
	if c, ok := h.panels[p]; ok {
		return c
	}
	if p == (image.Point{}) {
		return h.start
	}
	return Black
}

// Painted returns the number of panels painted at least once.
func (h *Hull) Painted() int { return len(h.panels) }

// Visited returns the number of panels the robot went over, including its
// starting panel.
func (h *Hull) Visited() int { return len(h.visited) }

// Robot returns the robot's position and the direction it faces as a unit
// vector.
func (h *Hull) Robot() (pos, dir image.Point) { return h.pos, h.dir }

// Bounds returns the smallest rectangle containing all white panels.
func (h *Hull) Bounds() image.Rectangle {
	var r image.Rectangle
	if h.start == White {
		if _, ok := h.panels[image.Point{}]; !ok {
			r = image.Rect(0, 0, 1, 1)
		}
	}
	for p, c := range h.panels {
		if c == White {
			r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		}
	}
	return r
}

// Render draws the white panels of h as '#' and black ones as ' ', top row
// first.
func (h *Hull) Render(w io.Writer) error {
	ew := ici.NewErrWriter(w)
	b := h.Bounds()
	line := make([]byte, b.Dx()+1)
	line[len(line)-1] = '\n'
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			line[x-b.Min.X] = ' '
			if h.Color(image.Pt(x, y)) == White {
				line[x-b.Min.X] = '#'
			}
		}
		ew.Write(line)
	}
	return ew.Err
}

// step applies one output pair: paint, turn, move.
func (h *Hull) step(color, turn vm.Cell) error {
	if color != vm.Cell(Black) && color != vm.Cell(White) {
		return &OutputError{Index: h.out, Value: color}
	}
	switch turn {
	case 0:
		h.dir = image.Pt(h.dir.Y, -h.dir.X)
	case 1:
		h.dir = image.Pt(-h.dir.Y, h.dir.X)
	default:
		return &OutputError{Index: h.out + 1, Value: turn}
	}
	h.panels[h.pos] = Color(color)
	h.pos = h.pos.Add(h.dir)
	h.visited[h.pos] = struct{}{}
	h.out += 2
	return nil
}

type config struct {
	log    commonlog.Logger
	vmOpts []vm.Option
}

// Option interface
type Option func(*config) error

// Logger sets the logger. The default is the "intcode.robot" logger.
func Logger(l commonlog.Logger) Option {
	return func(c *config) error { c.log = l; return nil }
}

// VMOptions sets options for the robot's VM instance.
func VMOptions(opts ...vm.Option) Option {
	return func(c *config) error { c.vmOpts = append(c.vmOpts, opts...); return nil }
}

// Paint runs program as a hull painting robot on a hull where every panel is
// black, except the starting one which is of color start.
//
// Every complete pair of output values is applied, including those output just
// before the program halts.
func Paint(ctx context.Context, program vm.Program, start Color, opts ...Option) (*Hull, error) {
	cfg := config{log: commonlog.GetLogger("intcode.robot")}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	i, err := vm.New(program, cfg.vmOpts...)
	if err != nil {
		return nil, err
	}
	h := newHull(start)
	var pending []vm.Cell
	err = vm.Drive(ctx, i,
		func() (vm.Cell, error) {
			return vm.Cell(h.Color(h.pos)), nil
		},
		func(out []vm.Cell) error {
			pending = append(pending, out...)
			for len(pending) >= 2 {
				if err := h.step(pending[0], pending[1]); err != nil {
					return err
				}
				pending = pending[2:]
			}
			return nil
		})
	if err == nil && len(pending) > 0 {
		err = ErrDanglingOutput
	}
	if err != nil {
		return h, err
	}
	cfg.log.Infof("robot halted after %d instructions: %d panels painted, %d visited", i.InstructionCount(), h.Painted(), h.Visited())
	return h, nil
}
