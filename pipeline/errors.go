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

package pipeline

import (
	"strconv"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// Errors returned by Run.
var (
	ErrNoSignal      = errors.New("no signal from previous amplifier")
	ErrNoOutput      = errors.New("last amplifier halted without output")
	ErrTooManyRounds = errors.New("too many rounds")
)

// PhaseError reports an invalid list of phase settings.
type PhaseError struct {
	Index  int // index of the offending phase setting, -1 if not applicable
	Phase  vm.Cell
	Reason string
}

func (e *PhaseError) Error() string {
	if e.Index < 0 {
		return "invalid phase settings: " + e.Reason
	}
	return "phase setting " + strconv.FormatInt(int64(e.Phase), 10) + " for amplifier " + strconv.Itoa(e.Index) + ": " + e.Reason
}

// AmplifierError wraps a fault of one of the amplifiers in a ring.
type AmplifierError struct {
	Index int
	Err   error
}

func (e *AmplifierError) Error() string {
	return "amplifier " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

// Cause returns the underlying fault.
func (e *AmplifierError) Cause() error { return e.Err }

// Unwrap returns the underlying fault.
func (e *AmplifierError) Unwrap() error { return e.Err }
