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


// Package asm provides utility functions to assemble and disassemble Intcode
// programs.
//
// Supported assembler mnemonics:
//
//	opcode	asm	alias	operands	description
//	------	---	-----	--------	---------------------------------------------------
//	1	add		a b dst		dst = a + b
//	2	mul		a b dst		dst = a * b
//	3	in		dst		dst = next input value, suspend if none is available
//	4	out		a		output a
//	5	jnz	jt	a target	jump to target if a != 0
//	6	jz	jf	a target	jump to target if a == 0
//	7	lt		a b dst		dst = 1 if a < b, 0 otherwise
//	8	eq		a b dst		dst = 1 if a == b, 0 otherwise
//	9	arb	rbo	a		add a to the relative base
//	99	hlt	halt			halt
//
// Operands:
//
// Each operand selects its parameter mode with its syntax:
//
//	42	position mode: the value at address 42
//	#42	immediate mode: the value 42 itself
//	rb	relative mode: the value at the relative base
//	rb+3	relative mode: the value at the relative base + 3
//	rb-3	relative mode: the value at the relative base - 3
//
// Destination operands (dst above) cannot use immediate mode. In place of any
// number, operands accept character literals between single quotes, constants
// defined with .equ and, except for relative offsets, labels. A label in
// position mode refers to the value stored at the label, use #label for its
// address:
//
//	jnz #1 #loop	( jump to loop )
//	out counter	( output the value stored at counter )
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space:
//
//	( this is a valid comment )
//	(this is not )
//
// Labels and directives:
//
//	:name		define label name at the current address
//	.org N		set the current address to N
//	.equ NAME V	define constant NAME with value V
//	.dat V...	write raw values; labels are accepted and written as
//			their address. Data ends at the next mnemonic, label or
//			directive.
//
// Integer literals found where an instruction is expected are compiled as
// data, with or without a preceding .dat. Identifiers are not: outside of a
// .dat, an unknown identifier is an error.
//
// The disassembler writes cells that do not hold a well-formed instruction as
// ".dat N", so that the output of Disassemble assembles back to the original
// cells.
package asm
