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

import "github.com/pkg/errors"

// Snapshot is the complete state of an instance between two resumes. The
// field tags make it directly encodable as compact CBOR.
//
// The fault of a poisoned instance is not part of a snapshot.
type Snapshot struct {
	Memory       []Cell        `cbor:"1,keyasint"`
	Sparse       map[Cell]Cell `cbor:"2,keyasint,omitempty"`
	PC           Cell          `cbor:"3,keyasint"`
	RelativeBase Cell          `cbor:"4,keyasint"`
	State        State         `cbor:"5,keyasint"`
	Output       []Cell        `cbor:"6,keyasint,omitempty"`
	Steps        int64         `cbor:"7,keyasint"`
}

// Snapshot captures the state of i. The snapshot shares no storage with i.
func (i *Instance) Snapshot() *Snapshot {
	return &Snapshot{
		Memory:       i.mem.Contents(),
		Sparse:       i.mem.Sparse(),
		PC:           i.pc,
		RelativeBase: i.rb,
		State:        i.state,
		Output:       i.Output(),
		Steps:        i.insCount,
	}
}

// Restore creates a new instance from a snapshot. The new instance is
// independent from both s and the instance s was taken from.
func Restore(s *Snapshot, opts ...Option) (*Instance, error) {
	if s == nil {
		return nil, errors.Wrap(ErrBadSnapshot, "nil snapshot")
	}
	switch {
	case s.State > Halted:
		return nil, errors.Wrapf(ErrBadSnapshot, "state %d", s.State)
	case s.PC < 0:
		return nil, errors.Wrapf(ErrBadSnapshot, "pc %d", s.PC)
	case s.Steps < 0:
		return nil, errors.Wrapf(ErrBadSnapshot, "step count %d", s.Steps)
	}
	i, err := New(s.Memory, opts...)
	if err != nil {
		return nil, err
	}
	for a, v := range s.Sparse {
		if a < Cell(len(s.Memory)) {
			return nil, errors.Wrapf(ErrBadSnapshot, "sparse cell %d overlaps dense memory", a)
		}
		if err = i.mem.Write(a, v); err != nil {
			return nil, errors.Wrap(ErrBadSnapshot, err.Error())
		}
	}
	i.pc = s.PC
	i.rb = s.RelativeBase
	i.state = s.State
	i.insCount = s.Steps
	if len(s.Output) > 0 {
		i.out = append([]Cell(nil), s.Output...)
	}
	return i, nil
}
