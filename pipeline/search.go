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
	"context"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// maxSearch caps the size of the phase range MaxSignal accepts; 10 settings
// already mean 3628800 rings.
const maxSearch = 10

// Result is the outcome of a MaxSignal search.
type Result struct {
	Signal vm.Cell
	Phases []vm.Cell
}

// MaxSignal runs a ring for every permutation of the configured phase range
// and returns the highest signal with the phase settings that produced it. If
// several permutations produce the same signal, the first one in lexicographic
// order wins.
//
// Rings run concurrently, at most Workers at a time. The first error stops the
// search.
func MaxSignal(ctx context.Context, program vm.Program, opts ...Option) (Result, error) {
	cfg, err := newRing(opts)
	if err != nil {
		return Result{}, err
	}
	if cfg.rng.Len() > maxSearch {
		return Result{}, &PhaseError{Index: -1, Reason: "range " + cfg.rng.String() + " too large for a search"}
	}
	perms := Permutations(cfg.rng)
	signals := make([]vm.Cell, len(perms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for n, p := range perms {
		g.Go(func() error {
			v, err := Amplify(ctx, program, p, opts...)
			if err != nil {
				return errors.Wrapf(err, "phases %v", p)
			}
			signals[n] = v
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return Result{}, err
	}

	best := 0
	for n, v := range signals {
		if v > signals[best] {
			best = n
		}
	}
	cfg.log.Infof("max signal %d for phases %v (%d permutations of %v)", signals[best], perms[best], len(perms), cfg.rng)
	return Result{Signal: signals[best], Phases: perms[best]}, nil
}
