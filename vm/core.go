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

// operand resolves operand n of the instruction at PC. For the destination
// operand, the result is an address; otherwise it is the operand's value.
func (i *Instance) operand(ins Instruction, n int) (Cell, error) {
	raw, err := i.mem.Read(i.pc + 1 + Cell(n))
	if err != nil {
		return 0, err
	}
	mode := ins.Modes[n]
	if n == ins.Op.Writes() {
		switch mode {
		case ModePosition:
			return raw, nil
		case ModeRelative:
			return i.rb + raw, nil
		}
		return 0, &InvalidModeError{Mode: mode, Operand: n + 1, PC: i.pc}
	}
	switch mode {
	case ModePosition:
		return i.mem.Read(raw)
	case ModeImmediate:
		return raw, nil
	case ModeRelative:
		return i.mem.Read(i.rb + raw)
	}
	return 0, &InvalidModeError{Mode: mode, Operand: n + 1, PC: i.pc}
}

func (i *Instance) fault(err error) (State, error) {
	i.err = err
	return i.state, err
}

func bool2Cell(b bool) Cell {
	if b {
		return 1
	}
	return 0
}

// Resume runs the instance until it halts, needs input or faults.
//
// Output never suspends execution: output values accumulate and can be
// retrieved with Output, OutputFrom or LastOutput.
//
// If the instance faults, the returned error is the fault and the instance is
// unusable: every further call returns the same error. Resuming a halted
// instance returns ErrResumeAfterHalt.
func (i *Instance) Resume() (State, error) {
	return i.resume(0, false)
}

// ResumeWith is like Resume but supplies v to the next input instruction.
// Only one value is supplied: if the program asks for a second one, the
// instance suspends again in the AwaitingInput state. If the program halts
// without consuming v, it is discarded.
func (i *Instance) ResumeWith(v Cell) (State, error) {
	return i.resume(v, true)
}

func (i *Instance) resume(in Cell, haveInput bool) (st State, err error) {
	if i.err != nil {
		return i.state, i.err
	}
	if i.state == Halted {
		return Halted, ErrResumeAfterHalt
	}
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				st, err = i.fault(errors.Wrapf(e, "recovered error @pc=%d, rb=%d", i.pc, i.rb))
			default:
				panic(e)
			}
		}
	}()
	i.state = Running
	var (
		p    [3]Cell
		word Cell
	)
	for {
		if i.stepLimit > 0 && i.insCount >= i.stepLimit {
			return i.fault(ErrStepLimit)
		}
		if word, err = i.mem.Read(i.pc); err != nil {
			return i.fault(err)
		}
		ins := Decode(word)
		if i.trace != nil {
			if err = i.trace(i, i.pc, ins); err != nil {
				return i.fault(err)
			}
		}
		n := ins.Op.Operands()
		for k := 0; k < n; k++ {
			if p[k], err = i.operand(ins, k); err != nil {
				return i.fault(err)
			}
		}
		next := i.pc + 1 + Cell(n)
		switch ins.Op {
		case OpAdd:
			err = i.mem.Write(p[2], p[0]+p[1])
		case OpMul:
			err = i.mem.Write(p[2], p[0]*p[1])
		case OpIn:
			if !haveInput {
				i.state = AwaitingInput
				return AwaitingInput, nil
			}
			err = i.mem.Write(p[0], in)
			haveInput = false
		case OpOut:
			i.out = append(i.out, p[0])
		case OpJumpIfTrue:
			if p[0] != 0 {
				next = p[1]
			}
		case OpJumpIfFalse:
			if p[0] == 0 {
				next = p[1]
			}
		case OpLessThan:
			err = i.mem.Write(p[2], bool2Cell(p[0] < p[1]))
		case OpEquals:
			err = i.mem.Write(p[2], bool2Cell(p[0] == p[1]))
		case OpAdjustBase:
			i.rb += p[0]
		case OpHalt:
			i.insCount++
			i.state = Halted
			return Halted, nil
		default:
			return i.fault(&UnknownOpcodeError{Opcode: Cell(ins.Op), PC: i.pc})
		}
		if err != nil {
			return i.fault(err)
		}
		i.pc = next
		i.insCount++
	}
}
