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

import "context"

// InputFunc supplies one input value each time an instance awaits input.
type InputFunc func() (Cell, error)

// OutputFunc receives the values output by an instance since the previous call.
type OutputFunc func(out []Cell) error

// Drive runs i until it halts, calling in whenever the instance awaits input
// and out whenever new output values are available. New output is always
// delivered before in is called, so that a prompt can be displayed before
// input is read.
//
// ctx is checked between resumes, never while the instance is running. A nil
// in makes Drive fail with ErrInputExhausted as soon as input is needed. Errors
// returned by in or out are returned as is.
func Drive(ctx context.Context, i *Instance, in InputFunc, out OutputFunc) error {
	seen := i.OutputLen()
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := i.Resume()
	for {
		if out != nil && i.OutputLen() > seen {
			if e := out(i.OutputFrom(seen)); e != nil {
				return e
			}
			seen = i.OutputLen()
		}
		if err != nil || st == Halted {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if in == nil {
			return ErrInputExhausted
		}
		var v Cell
		if v, err = in(); err != nil {
			return err
		}
		st, err = i.ResumeWith(v)
	}
}

// RunWith runs program p to completion, feeding it the given inputs one at a
// time, and returns all its output. If the program needs more input than
// provided, RunWith returns the output so far and ErrInputExhausted.
func RunWith(p Program, inputs ...Cell) ([]Cell, error) {
	i, err := New(p)
	if err != nil {
		return nil, err
	}
	err = Drive(context.Background(), i, func() (Cell, error) {
		if len(inputs) == 0 {
			return 0, ErrInputExhausted
		}
		v := inputs[0]
		inputs = inputs[1:]
		return v, nil
	}, nil)
	return i.Output(), err
}
