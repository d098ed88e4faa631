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
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/vm"
)

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	uses []labelSite
}

type parser struct {
	mem    []vm.Cell
	pc     int
	top    int
	dat    bool
	s      scanner.Scanner
	labels map[string]*label
	consts map[string]labelSite
	errs   ErrAsm
}

func newParser() *parser {
	return &parser{
		labels: make(map[string]*label),
		consts: make(map[string]labelSite),
	}
}

func (p *parser) error(msg string) {
	pos := p.s.Position
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	p.errorAt(pos, msg)
}

func (p *parser) errorAt(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Error{pos, msg})
	}
}

func (p *parser) emit(v vm.Cell) {
	for p.pc >= len(p.mem) {
		p.mem = append(p.mem, make([]vm.Cell, 256)...)
	}
	p.mem[p.pc] = v
	p.pc++
	if p.pc > p.top {
		p.top = p.pc
	}
}

// next returns the next token, skipping comments.
func (p *parser) next() (string, bool) {
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if tok != scanner.Ident {
			p.error("unexpected character " + strconv.QuoteRune(tok))
			continue
		}
		s := p.s.TokenText()
		if s != "(" {
			return s, true
		}
		for tok = p.s.Scan(); tok != scanner.EOF && (tok != scanner.Ident || p.s.TokenText() != ")"); tok = p.s.Scan() {
		}
		if tok == scanner.EOF {
			p.error("unterminated comment")
			break
		}
	}
	return "", false
}

// number converts integer literals, character literals and constants.
func (p *parser) number(s string) (vm.Cell, bool) {
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return vm.Cell(n), true
	}
	if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err == nil && tail == "" {
			return vm.Cell(r), true
		}
	}
	if c, ok := p.consts[s]; ok {
		return vm.Cell(c.address), true
	}
	return 0, false
}

func validName(s string) bool {
	if s == "" || s == "rb" || strings.ContainsAny(s[:1], ":.#'") {
		return false
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return false
	}
	_, isOp := mnemonics[s]
	return !isOp
}

// value emits a number or a label reference.
func (p *parser) value(s string) {
	if v, ok := p.number(s); ok {
		p.emit(v)
		return
	}
	if !validName(s) {
		p.error("invalid value " + strconv.Quote(s))
		p.emit(0)
		return
	}
	lbl := p.labels[s]
	if lbl == nil {
		lbl = &label{labelSite{p.s.Position, -1}, nil}
		p.labels[s] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{p.s.Position, p.pc})
	p.emit(0)
}

func (p *parser) operand(s string, dest bool) vm.Mode {
	switch {
	case s[0] == '#':
		if dest {
			p.error("immediate mode destination " + s)
		}
		p.value(s[1:])
		return vm.ModeImmediate
	case s == "rb":
		p.emit(0)
		return vm.ModeRelative
	case strings.HasPrefix(s, "rb+"), strings.HasPrefix(s, "rb-"):
		v, ok := p.number(s[3:])
		if !ok {
			p.error("invalid relative offset " + s)
		}
		if s[2] == '-' {
			v = -v
		}
		p.emit(v)
		return vm.ModeRelative
	}
	p.value(s)
	return vm.ModePosition
}

func (p *parser) instruction(op vm.Opcode) {
	at := p.pc
	p.emit(vm.Cell(op))
	ins := vm.Instruction{Op: op}
	for k := 0; k < op.Operands(); k++ {
		s, ok := p.next()
		if !ok {
			p.error("missing operand for " + op.String())
			return
		}
		if _, isOp := mnemonics[s]; isOp || s[0] == ':' || s[0] == '.' {
			p.error("unexpected " + s + " as operand " + strconv.Itoa(k+1) + " of " + op.String())
			p.emit(0)
			continue
		}
		ins.Modes[k] = p.operand(s, k == op.Writes())
	}
	p.mem[at] = ins.Encode()
}

func (p *parser) defineLabel(n string) {
	pos := p.s.Position
	if !validName(n) {
		p.error("invalid label name " + strconv.Quote(n))
		return
	}
	if c, ok := p.consts[n]; ok && c.pos.IsValid() {
		p.error("label redefinition: " + n + ", previously defined as a constant here: " + c.pos.String())
		return
	}
	if l, ok := p.labels[n]; ok {
		if l.address != -1 {
			p.error("label redefinition: " + n + ", previous definition here: " + l.pos.String())
			return
		}
		l.address = p.pc
		l.pos = pos
		return
	}
	p.labels[n] = &label{labelSite{pos, p.pc}, nil}
}

func (p *parser) directive(d string) {
	switch d {
	case ".dat":
		p.dat = true
	case ".org":
		s, _ := p.next()
		v, ok := p.number(s)
		if !ok || v < 0 {
			p.error(".org: expected address, got " + strconv.Quote(s))
			return
		}
		p.pc = int(v)
	case ".equ":
		n, _ := p.next()
		if !validName(n) {
			p.error(".equ: invalid constant name " + strconv.Quote(n))
			return
		}
		if l, ok := p.labels[n]; ok {
			p.error(".equ: redefinition of " + n + ", previously defined/used as a label here: " + l.pos.String())
			return
		}
		pos := p.s.Position
		s, _ := p.next()
		v, ok := p.number(s)
		if !ok {
			p.error(".equ: expected value, got " + strconv.Quote(s))
			return
		}
		p.consts[n] = labelSite{pos, int(v)}
	default:
		p.error("unknown directive " + d)
	}
}

func (p *parser) parse(name string, r io.Reader) (vm.Program, error) {
	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.error(msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for s, ok := p.next(); ok && len(p.errs) < maxErrors; s, ok = p.next() {
		if op, isOp := mnemonics[s]; isOp {
			p.dat = false
			p.instruction(op)
			continue
		}
		switch s[0] {
		case ':':
			p.dat = false
			p.defineLabel(s[1:])
		case '.':
			p.dat = false
			p.directive(s)
		default:
			if _, isNum := p.number(s); isNum || p.dat {
				p.value(s)
			} else {
				p.error("unknown mnemonic " + s)
			}
		}
	}

	for _, n := range slices.Sorted(maps.Keys(p.labels)) {
		l := p.labels[n]
		if l.address == -1 {
			p.errorAt(l.uses[0].pos, "undefined label "+n)
			continue
		}
		for _, u := range l.uses {
			p.mem[u.address] = vm.Cell(l.address)
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return vm.Program(p.mem[:p.top]), nil
}
