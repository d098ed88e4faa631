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

import (
	"strconv"

	"github.com/pkg/errors"
)

// Errors returned by Resume and friends. Use errors.Cause to compare.
var (
	ErrResumeAfterHalt = errors.New("resume after halt")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrInputExhausted  = errors.New("input exhausted")
	ErrBadSnapshot     = errors.New("bad snapshot")
)

// UnknownOpcodeError is returned when the instruction word at PC does not
// hold a known opcode.
type UnknownOpcodeError struct {
	Opcode Cell
	PC     Cell
}

func (e *UnknownOpcodeError) Error() string {
	return "unknown opcode " + strconv.FormatInt(int64(e.Opcode), 10) + " at address " + strconv.FormatInt(int64(e.PC), 10)
}

// InvalidAddressError is returned on any memory access at a negative address.
type InvalidAddressError struct {
	Address Cell
}

func (e *InvalidAddressError) Error() string {
	return "invalid address " + strconv.FormatInt(int64(e.Address), 10)
}

// InvalidModeError is returned when an operand uses an undefined parameter
// mode, or immediate mode for a write destination.
type InvalidModeError struct {
	Mode    Mode
	Operand int // 1-based
	PC      Cell
}

func (e *InvalidModeError) Error() string {
	return "invalid mode " + strconv.Itoa(int(e.Mode)) + " for operand " + strconv.Itoa(e.Operand) + " at address " + strconv.FormatInt(int64(e.PC), 10)
}
