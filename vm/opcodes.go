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

import "strconv"

// Opcode is the low two decimal digits of an instruction word.
type Opcode Cell

// Intcode opcodes.
const (
	OpAdd         Opcode = 1
	OpMul         Opcode = 2
	OpIn          Opcode = 3
	OpOut         Opcode = 4
	OpJumpIfTrue  Opcode = 5
	OpJumpIfFalse Opcode = 6
	OpLessThan    Opcode = 7
	OpEquals      Opcode = 8
	OpAdjustBase  Opcode = 9
	OpHalt        Opcode = 99
)

type opInfo struct {
	name     string
	operands int
	dest     int // index of the written operand, -1 if none
}

var opcodes = [...]opInfo{
	OpAdd:         {"add", 3, 2},
	OpMul:         {"mul", 3, 2},
	OpIn:          {"in", 1, 0},
	OpOut:         {"out", 1, -1},
	OpJumpIfTrue:  {"jnz", 2, -1},
	OpJumpIfFalse: {"jz", 2, -1},
	OpLessThan:    {"lt", 3, 2},
	OpEquals:      {"eq", 3, 2},
	OpAdjustBase:  {"arb", 1, -1},
	OpHalt:        {"hlt", 0, -1},
}

// Valid returns true if op is one of the defined opcodes.
func (op Opcode) Valid() bool {
	return op >= 0 && int(op) < len(opcodes) && opcodes[op].name != ""
}

// Operands returns the number of operands following the instruction word.
func (op Opcode) Operands() int {
	if !op.Valid() {
		return 0
	}
	return opcodes[op].operands
}

// Writes returns the index of the operand op writes to, or -1 if op does not
// write to memory.
func (op Opcode) Writes() int {
	if !op.Valid() {
		return -1
	}
	return opcodes[op].dest
}

// String returns the assembler mnemonic for op.
func (op Opcode) String() string {
	if !op.Valid() {
		return "op(" + strconv.FormatInt(int64(op), 10) + ")"
	}
	return opcodes[op].name
}

// Mode is a parameter mode.
type Mode uint8

// Parameter modes.
const (
	ModePosition  Mode = iota // operand is an address
	ModeImmediate             // operand is a literal value
	ModeRelative              // operand is an offset from the relative base
)

// Valid returns true for the three defined modes.
func (m Mode) Valid() bool {
	return m <= ModeRelative
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [3]Mode
}

// Decode splits an instruction word into its opcode and the parameter modes
// of its three potential operands, read from the hundreds digit upwards.
//
// Decode never fails. The opcode and modes are validated at execution time,
// and only for the operands the opcode actually uses, so that the word 3399
// decodes to a valid halt.
func Decode(word Cell) Instruction {
	ins := Instruction{Op: Opcode(word % 100)}
	w := word / 100
	for n := range ins.Modes {
		ins.Modes[n] = Mode(w % 10)
		w /= 10
	}
	return ins
}

// Encode is the inverse of Decode.
func (ins Instruction) Encode() Cell {
	return Cell(ins.Op) + 100*Cell(ins.Modes[0]) + 1000*Cell(ins.Modes[1]) + 10000*Cell(ins.Modes[2])
}
