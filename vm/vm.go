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

import "github.com/pkg/errors"

// State is the execution state of an Instance.
type State uint8

// Instance states.
const (
	Running       State = iota // not suspended, or never resumed
	AwaitingInput              // suspended on an input instruction
	Halted                     // executed opcode 99
)

var stateNames = [...]string{
	Running:       "running",
	AwaitingInput: "awaiting input",
	Halted:        "halted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid state"
}

// TraceFunc is the prototype for trace hooks. It is called before the
// instruction ins at address pc is executed. A non-nil error stops execution
// and becomes the instance's fault.
type TraceFunc func(i *Instance, pc Cell, ins Instruction) error

// Instance represents an Intcode VM instance.
type Instance struct {
	mem       *Memory
	pc        Cell
	rb        Cell
	out       []Cell
	state     State
	err       error
	insCount  int64
	stepLimit int64
	trace     TraceFunc
}

// Option interface
type Option func(*Instance) error

// Trace sets a function to call before each instruction is executed. Set to
// nil to disable tracing.
func Trace(fn TraceFunc) Option {
	return func(i *Instance) error { i.trace = fn; return nil }
}

// StepLimit sets the maximum number of instructions the instance may execute
// over its lifetime. Once reached, Resume fails with ErrStepLimit. The
// default, 0, means no limit.
func StepLimit(n int64) Option {
	return func(i *Instance) error {
		if n < 0 {
			return errors.Errorf("invalid step limit %d", n)
		}
		i.stepLimit = n
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode VM instance.
//
// The program is copied into the instance's memory, so the same Program can be
// used to create any number of independent instances. The instance starts in
// the Running state with PC and relative base set to 0; nothing is executed
// until the first call to Resume or ResumeWith.
func New(program Program, opts ...Option) (*Instance, error) {
	i := &Instance{
		mem: NewMemory(program),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// State returns the current execution state.
func (i *Instance) State() State { return i.state }

// PC returns the instruction pointer. When the instance is AwaitingInput, it
// points to the input instruction that will be re-executed on resume.
func (i *Instance) PC() Cell { return i.pc }

// RelativeBase returns the current relative base.
func (i *Instance) RelativeBase() Cell { return i.rb }

// Err returns the fault that stopped the instance, if any.
func (i *Instance) Err() error { return i.err }

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 { return i.insCount }

// Output returns a copy of all the values output so far, in order.
func (i *Instance) Output() []Cell {
	return i.OutputFrom(0)
}

// OutputFrom returns a copy of the values output after the first n ones.
func (i *Instance) OutputFrom(n int) []Cell {
	if n < 0 {
		n = 0
	}
	if n >= len(i.out) {
		return nil
	}
	t := make([]Cell, len(i.out)-n)
	copy(t, i.out[n:])
	return t
}

// OutputLen returns the number of values output so far.
func (i *Instance) OutputLen() int { return len(i.out) }

// LastOutput returns the most recent output value. ok is false if nothing was
// output yet.
func (i *Instance) LastOutput() (v Cell, ok bool) {
	if len(i.out) == 0 {
		return 0, false
	}
	return i.out[len(i.out)-1], true
}

// Peek returns the value at address addr.
func (i *Instance) Peek(addr Cell) (Cell, error) {
	return i.mem.Read(addr)
}

// Poke sets the value at address addr. This is typically used to patch a
// program before running it.
func (i *Instance) Poke(addr, v Cell) error {
	return i.mem.Write(addr, v)
}

// Memory returns a copy of the dense region of memory.
func (i *Instance) Memory() []Cell {
	return i.mem.Contents()
}
