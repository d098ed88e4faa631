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


// Package vm implements an Intcode virtual machine.
//
// An Intcode program is a list of integers that is loaded at address 0 of an
// otherwise unbounded, zero-initialized memory. Each instruction word encodes
// an opcode in its two lowest decimal digits and one parameter mode per
// operand in the following digits: position (0), immediate (1) or relative
// (2) to the instance's relative base.
//
// Instances do not run freely. Resume and ResumeWith run an instance until it
// either halts (opcode 99) or reaches an input instruction with no value to
// consume, in which case it suspends in the AwaitingInput state with its PC
// still on that instruction. This is what makes it possible to chain
// instances into feedback loops (see package pipeline) or to drive them
// interactively (see Drive).
//
// Output values never suspend execution; they accumulate in the instance and
// are read back with Output, OutputFrom or LastOutput.
//
// Any fault (unknown opcode, negative address, bad parameter mode, exceeded
// step limit) stops the instance for good: further calls to Resume return the
// same error. For performance reasons, there is a single dispatch switch and
// operands are resolved before it, according to the opcode's operand count and
// destination operand.
package vm
