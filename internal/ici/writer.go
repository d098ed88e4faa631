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


// Package ici - or intcode-internal. Small helpers shared by the vm, asm and
// command packages.
package ici

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and tracks the first write error. Once an error
// occurred, every further Write returns it without writing anything.
//
// N holds the number of bytes successfully written so far, suitable for
// io.WriterTo implementations.
type ErrWriter struct {
	w   io.Writer
	N   int64
	Err error
	buf []byte
}

// NewErrWriter returns a new ErrWriter.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	w.N += int64(n)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// WriteString writes s.
func (w *ErrWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// WriteInt writes the base 10 representation of v.
func (w *ErrWriter) WriteInt(v int64) error {
	w.buf = strconv.AppendInt(w.buf[:0], v, 10)
	_, err := w.Write(w.buf)
	return err
}

// WriteInts writes the values in a to w, separated by sep.
func WriteInts[T ~int64](w *ErrWriter, a []T, sep string) error {
	for n, v := range a {
		if n > 0 {
			w.WriteString(sep)
		}
		w.WriteInt(int64(v))
	}
	return w.Err
}
