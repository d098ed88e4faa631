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
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
)

// Program is an Intcode program as loaded from its text form.
type Program []Cell

// Parse reads a program in its text form: signed base 10 integers separated by
// commas. Whitespace around values and a trailing newline are ignored.
func Parse(r io.Reader) (Program, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "Parse")
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("Parse: empty program")
	}
	fields := bytes.Split(b, []byte{','})
	p := make(Program, len(fields))
	for n, f := range fields {
		f = bytes.TrimSpace(f)
		if len(f) == 0 {
			return nil, errors.Errorf("Parse: empty field %d", n+1)
		}
		v, err := strconv.ParseInt(string(f), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Parse: field %d", n+1)
		}
		p[n] = Cell(v)
	}
	return p, nil
}

// ParseString is like Parse but reads from a string.
func ParseString(s string) (Program, error) {
	return Parse(strings.NewReader(s))
}

// Load loads a program from file fileName.
func Load(fileName string) (Program, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", fileName)
	}
	return p, nil
}

// WriteTo writes p in its text form followed by a newline.
func (p Program) WriteTo(w io.Writer) (int64, error) {
	ew := ici.NewErrWriter(w)
	ici.WriteInts(ew, p, ",")
	ew.Write([]byte{'\n'})
	return ew.N, ew.Err
}

// String returns the text form of p, without a trailing newline.
func (p Program) String() string {
	var b strings.Builder
	p.WriteTo(&b)
	return strings.TrimSuffix(b.String(), "\n")
}

// Save writes cells to file fileName in the same format Load reads. The
// typical use is to dump the memory of an instance.
func Save(fileName string, cells []Cell) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Save")
	}
	if _, err = Program(cells).WriteTo(f); err != nil {
		f.Close()
		return errors.Wrap(err, "Save")
	}
	return errors.Wrap(f.Close(), "Save")
}
