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
	"io"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
)

// dumpVM writes the registers of i on one line, followed by its memory in
// program text form.
func dumpVM(i *vm.Instance, w io.Writer) error {
	ew := ici.NewErrWriter(w)
	ew.WriteString("state=")
	ew.WriteString(i.State().String())
	ew.WriteString(" pc=")
	ew.WriteInt(int64(i.PC()))
	ew.WriteString(" rb=")
	ew.WriteInt(int64(i.RelativeBase()))
	ew.WriteString(" steps=")
	ew.WriteInt(i.InstructionCount())
	ew.Write([]byte{'\n'})
	if ew.Err != nil {
		return ew.Err
	}
	_, err := vm.Program(i.Memory()).WriteTo(ew)
	return err
}
