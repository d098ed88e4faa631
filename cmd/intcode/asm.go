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
	"os"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

func asmCmd(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("asm")
	out := fs.String("o", "", "write the program to `filename` instead of stdout")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	name := fs.Arg(0)
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "open source")
	}
	defer f.Close()
	p, err := asm.Assemble(name, bufio.NewReader(f))
	if err != nil {
		return err
	}
	if *out != "" {
		return vm.Save(*out, p)
	}
	_, err = p.WriteTo(e.stdout)
	return err
}

func disasmCmd(_ context.Context, e *env, args []string) error {
	p, err := programArg(newFlagSet("disasm"), args)
	if err != nil {
		return err
	}
	return asm.DisassembleAll(p, 0, e.stdout)
}
