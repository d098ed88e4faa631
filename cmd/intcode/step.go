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


package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

var errQuit = errors.New("quit")

const stepHelp = "keys: s/space/enter step, c continue, r registers, d dump, q quit\n"

// stepper is an interactive single step debugger. It stops before every
// instruction and waits for a key press, until told to continue. Continuing
// stops at the next input instruction.
type stepper struct {
	w       *bufio.Writer
	keys    *bufio.Reader
	restore func() // leaves raw mode, nil when not in raw mode
	trace   vm.TraceFunc
	cont    bool
	resumed bool // input just supplied, the next hook is the input instruction again
	out     vm.OutputFunc
	seen    int
}

func (s *stepper) flushOutput(i *vm.Instance) error {
	if i.OutputLen() > s.seen {
		if err := s.out(i.OutputFrom(s.seen)); err != nil {
			return err
		}
		s.seen = i.OutputLen()
	}
	return nil
}

func (s *stepper) step(i *vm.Instance, pc vm.Cell, ins vm.Instruction) error {
	if err := s.flushOutput(i); err != nil {
		return err
	}
	if s.resumed {
		s.resumed = false
		if ins.Op == vm.OpIn {
			return nil
		}
	}
	if s.cont {
		return nil
	}
	if err := s.trace(i, pc, ins); err != nil {
		return err
	}
	for {
		if err := s.w.Flush(); err != nil {
			return err
		}
		c, err := s.keys.ReadByte()
		if err != nil {
			return errors.Wrap(err, "read key")
		}
		switch c {
		case 's', ' ':
			return nil
		case '\r', '\n':
			if s.restore != nil {
				return nil
			}
		case 'c':
			s.cont = true
			return nil
		case 'r':
			fmt.Fprintf(s.w, "pc=%d rb=%d steps=%d output=%d\n", i.PC(), i.RelativeBase(), i.InstructionCount(), i.OutputLen())
		case 'd':
			if err = dumpVM(i, s.w); err != nil {
				return err
			}
		case 'h', '?':
			s.w.WriteString(stepHelp)
		case 'q', 3, 4: // ^C, ^D
			return errQuit
		}
	}
}

// input reads one input value in cooked mode.
func (s *stepper) input() (vm.Cell, error) {
	s.cont = false
	if s.restore != nil {
		s.restore()
		defer func() { s.restore, _ = setRawIO() }()
	}
	for {
		s.w.WriteString("input> ")
		if err := s.w.Flush(); err != nil {
			return 0, err
		}
		line, err := s.keys.ReadString('\n')
		if err != nil {
			return 0, errors.Wrap(err, "read input")
		}
		if line = strings.TrimSpace(line); line == "q" {
			return 0, errQuit
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err == nil {
			s.resumed = true
			return vm.Cell(v), nil
		}
		fmt.Fprintf(s.w, "%v\n", err)
	}
}

func stepCmd(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("step")
	text := fs.Bool("ascii", false, "print output as text")
	noRaw := fs.Bool("noraw", false, "disable raw terminal IO")
	p, err := programArg(fs, args)
	if err != nil {
		return err
	}
	s := &stepper{
		w:     e.stdout,
		keys:  bufio.NewReader(os.Stdin),
		trace: tracer(e.stdout),
		out:   printer(e.stdout, *text),
	}
	if !*noRaw {
		s.restore, _ = setRawIO()
		defer func() {
			if s.restore != nil {
				s.restore()
			}
		}()
	}
	i, err := vm.New(p, append(e.vmOptions(), vm.Trace(s.step))...)
	if err != nil {
		return err
	}
	e.i = i
	s.w.WriteString(stepHelp)
	err = vm.Drive(ctx, i, s.input, nil)
	if ferr := s.flushOutput(i); err == nil {
		err = ferr
	}
	if errors.Cause(err) == errQuit {
		err = nil
	}
	if err == nil {
		_, err = fmt.Fprintf(s.w, "%s after %d instructions\n", i.State(), i.InstructionCount())
	}
	return err
}
