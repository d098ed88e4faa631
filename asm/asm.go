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

package asm

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
)

var opcodes = [...]vm.Opcode{
	vm.OpAdd,
	vm.OpMul,
	vm.OpIn,
	vm.OpOut,
	vm.OpJumpIfTrue,
	vm.OpJumpIfFalse,
	vm.OpLessThan,
	vm.OpEquals,
	vm.OpAdjustBase,
	vm.OpHalt,
}

var aliases = map[string]vm.Opcode{
	"jt":   vm.OpJumpIfTrue,
	"jf":   vm.OpJumpIfFalse,
	"rbo":  vm.OpAdjustBase,
	"halt": vm.OpHalt,
}

var mnemonics = make(map[string]vm.Opcode)

func init() {
	for _, op := range opcodes {
		mnemonics[op.String()] = op
	}
	for n, op := range aliases {
		mnemonics[n] = op
	}
}

const maxErrors = 10

// Error is a single assembly error.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm is the error type returned by Assemble. It holds up to 10 errors, in
// the order they were found.
type ErrAsm []Error

func (e ErrAsm) Error() string {
	var b strings.Builder
	for n := range e {
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e[n].Error())
	}
	return b.String()
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting program and error if any.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value.
func Assemble(name string, r io.Reader) (vm.Program, error) {
	p := newParser()
	return p.parse(name, r)
}

// decode returns the decoded instruction at pc and whether it can be
// disassembled to something that assembles back to the same cells.
func decode(mem []vm.Cell, pc int) (vm.Instruction, bool) {
	ins := vm.Decode(mem[pc])
	op := ins.Op
	if !op.Valid() || ins.Encode() != mem[pc] || pc+op.Operands() >= len(mem) {
		return ins, false
	}
	for k, m := range ins.Modes {
		switch {
		case k >= op.Operands():
			if m != vm.ModePosition {
				return ins, false
			}
		case !m.Valid(), k == op.Writes() && m == vm.ModeImmediate:
			return ins, false
		}
	}
	return ins, true
}

// Disassemble writes a disassembly of the instruction at position pc in mem
// to the specified io.Writer and returns the position of the next instruction
// and any write error.
//
// Words that do not hold a valid instruction, or hold an instruction that runs
// past the end of mem, are written as a ".dat" directive.
func Disassemble(mem []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew, _ := w.(*ici.ErrWriter)
	if ew == nil {
		ew = ici.NewErrWriter(w)
	}
	ins, ok := decode(mem, pc)
	if !ok {
		ew.WriteString(".dat ")
		ew.WriteInt(int64(mem[pc]))
		return pc + 1, ew.Err
	}
	ew.WriteString(ins.Op.String())
	pc++
	for k := 0; k < ins.Op.Operands(); k++ {
		v := int64(mem[pc])
		ew.Write([]byte{' '})
		switch ins.Modes[k] {
		case vm.ModeImmediate:
			ew.Write([]byte{'#'})
			ew.WriteInt(v)
		case vm.ModeRelative:
			ew.WriteString("rb")
			if v != 0 {
				if v > 0 {
					ew.Write([]byte{'+'})
				}
				ew.WriteInt(v)
			}
		default:
			ew.WriteInt(v)
		}
		pc++
	}
	return pc, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (mem[0]). It will return any write error.
func DisassembleAll(mem []vm.Cell, base int, w io.Writer) error {
	ew := ici.NewErrWriter(w)
	for pc := 0; pc < len(mem); {
		ew.WriteString(padLeft(strconv.Itoa(base+pc), 10))
		ew.Write([]byte{'\t'})
		pc, _ = Disassemble(mem, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}
