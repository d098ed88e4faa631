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


// Package pipeline chains Intcode instances into amplifier rings: the output
// of each instance is fed as input to the next one, and the output of the last
// instance loops back to the first.
//
// A ring run with SerialPhases and programs that halt after a single output is
// a plain serial chain.
package pipeline

import (
	"context"
	"runtime"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Ring is a feedback loop of amplifiers, each running its own instance of the
// same program. A Ring can be run only once.
type Ring struct {
	amps      []*vm.Instance
	phases    []vm.Cell
	rng       Range
	seed      vm.Cell
	maxRounds int
	workers   int
	log       commonlog.Logger
	vmOpts    []vm.Option
}

// Option interface
type Option func(*Ring) error

// Phases sets the range of valid phase settings. The default is
// FeedbackPhases.
func Phases(r Range) Option {
	return func(g *Ring) error {
		if r.Len() == 0 {
			return &PhaseError{Index: -1, Reason: "empty range " + r.String()}
		}
		g.rng = r
		return nil
	}
}

// Seed sets the initial input of the first amplifier. The default is 0.
func Seed(v vm.Cell) Option {
	return func(g *Ring) error { g.seed = v; return nil }
}

// MaxRounds limits the number of times the ring loops. The default, 0, means
// no limit.
func MaxRounds(n int) Option {
	return func(g *Ring) error {
		if n < 0 {
			return errors.Errorf("invalid round limit %d", n)
		}
		g.maxRounds = n
		return nil
	}
}

// Logger sets the logger used by the ring. The default is the
// "intcode.pipeline" logger.
func Logger(l commonlog.Logger) Option {
	return func(g *Ring) error { g.log = l; return nil }
}

// VMOptions sets options for every instance created by the ring.
func VMOptions(opts ...vm.Option) Option {
	return func(g *Ring) error { g.vmOpts = append(g.vmOpts, opts...); return nil }
}

// Workers sets the number of rings MaxSignal runs concurrently. The default is
// GOMAXPROCS. NewRing and Amplify validate it but otherwise ignore it: a
// single ring always runs on the calling goroutine.
func Workers(n int) Option {
	return func(g *Ring) error {
		if n < 1 {
			return errors.Errorf("invalid worker count %d", n)
		}
		g.workers = n
		return nil
	}
}

func newRing(opts []Option) (*Ring, error) {
	g := &Ring{
		rng:     FeedbackPhases,
		workers: runtime.GOMAXPROCS(0),
		log:     commonlog.GetLogger("intcode.pipeline"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Ring) checkPhases(phases []vm.Cell) error {
	if len(phases) == 0 {
		return &PhaseError{Index: -1, Reason: "no phase settings"}
	}
	seen := make(map[vm.Cell]int, len(phases))
	for n, p := range phases {
		if !g.rng.Contains(p) {
			return &PhaseError{Index: n, Phase: p, Reason: "out of range " + g.rng.String()}
		}
		if _, dup := seen[p]; dup {
			return &PhaseError{Index: n, Phase: p, Reason: "duplicate phase setting"}
		}
		seen[p] = n
	}
	return nil
}

// NewRing creates a ring with one amplifier per phase setting. Phase settings
// must be in the configured range and be all different.
func NewRing(program vm.Program, phases []vm.Cell, opts ...Option) (*Ring, error) {
	g, err := newRing(opts)
	if err != nil {
		return nil, err
	}
	if err = g.checkPhases(phases); err != nil {
		return nil, err
	}
	g.phases = append([]vm.Cell(nil), phases...)
	g.amps = make([]*vm.Instance, len(phases))
	for n := range g.amps {
		if g.amps[n], err = vm.New(program, g.vmOpts...); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Amplifiers returns the ring's instances, in order.
func (g *Ring) Amplifiers() []*vm.Instance {
	return append([]*vm.Instance(nil), g.amps...)
}

// signal returns the input for the amplifier following amplifier n.
func (g *Ring) signal(n int) (vm.Cell, error) {
	if v, ok := g.amps[n].LastOutput(); ok {
		return v, nil
	}
	if n == len(g.amps)-1 {
		return g.seed, nil
	}
	return 0, errors.Wrapf(ErrNoSignal, "amplifier %d", n+1)
}

func (g *Ring) result() (vm.Cell, error) {
	v, ok := g.amps[len(g.amps)-1].LastOutput()
	if !ok {
		return 0, ErrNoOutput
	}
	g.log.Debugf("ring %v: signal %d", g.phases, v)
	return v, nil
}

// Run runs the ring until the last amplifier halts and returns its last
// output.
//
// Each amplifier is first given its phase setting. Then, in turn, every
// amplifier that has not halted yet is resumed with the latest output of its
// predecessor. The first amplifier's predecessor is the last one, whose
// output is initially the seed value.
//
// Run stops at the first amplifier fault, returned as an *AmplifierError. ctx
// is checked before every resume.
func (g *Ring) Run(ctx context.Context) (vm.Cell, error) {
	last := len(g.amps) - 1
	for n, a := range g.amps {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := a.ResumeWith(g.phases[n]); err != nil {
			return 0, &AmplifierError{Index: n, Err: err}
		}
	}
	for round := 1; ; round++ {
		if g.amps[last].State() == vm.Halted {
			return g.result()
		}
		if g.maxRounds > 0 && round > g.maxRounds {
			return 0, errors.Wrapf(ErrTooManyRounds, "%d", g.maxRounds)
		}
		for n, a := range g.amps {
			if a.State() == vm.Halted {
				continue
			}
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			in, err := g.signal((n + last) % len(g.amps))
			if err != nil {
				return 0, err
			}
			if _, err = a.ResumeWith(in); err != nil {
				return 0, &AmplifierError{Index: n, Err: err}
			}
		}
	}
}

// Amplify creates a ring and runs it.
func Amplify(ctx context.Context, program vm.Program, phases []vm.Cell, opts ...Option) (vm.Cell, error) {
	g, err := NewRing(program, phases, opts...)
	if err != nil {
		return 0, err
	}
	return g.Run(ctx)
}
