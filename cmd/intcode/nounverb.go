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
	"context"
	"fmt"
	"runtime"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// patchRun runs p with noun and verb written at addresses 1 and 2, and returns
// the value at address 0 once the program halts.
func patchRun(p vm.Program, noun, verb vm.Cell, opts ...vm.Option) (vm.Cell, error) {
	i, err := vm.New(p, opts...)
	if err != nil {
		return 0, err
	}
	i.Poke(1, noun)
	i.Poke(2, verb)
	st, err := i.Resume()
	if err != nil {
		return 0, err
	}
	if st != vm.Halted {
		return 0, vm.ErrInputExhausted
	}
	return i.Peek(0)
}

// searchSteps bounds each run of a search, unless overridden by a step limit
// option.
const searchSteps = 1 << 20

// searchNounVerb returns the noun and verb in 0..99 for which patchRun
// returns target. If several pairs match, the one with the lowest noun, then
// lowest verb, wins. Pairs that make the program fail are skipped.
func searchNounVerb(ctx context.Context, p vm.Program, target vm.Cell, workers int, opts ...vm.Option) (noun, verb vm.Cell, err error) {
	var found [100]vm.Cell // verb+1 per noun, 0 if none
	opts = append([]vm.Option{vm.StepLimit(searchSteps)}, opts...)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for n := range found {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for v := vm.Cell(0); v < 100; v++ {
				if r, err := patchRun(p, vm.Cell(n), v, opts...); err == nil && r == target {
					found[n] = v + 1
					return nil
				}
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return 0, 0, err
	}
	for n, v := range found {
		if v != 0 {
			return vm.Cell(n), v - 1, nil
		}
	}
	return 0, 0, errors.Errorf("no noun and verb produce %d", target)
}

func nounVerbCmd(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("nounverb")
	noun := fs.Int64("noun", 12, "`value` written at address 1")
	verb := fs.Int64("verb", 2, "`value` written at address 2")
	target := fs.Int64("target", -1, "search the noun and verb producing `value` at address 0")
	p, err := programArg(fs, args)
	if err != nil {
		return err
	}
	if *target < 0 {
		v, err := patchRun(p, vm.Cell(*noun), vm.Cell(*verb), e.vmOptions()...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, v)
		return err
	}
	workers := e.cfg.Pipeline.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n, v, err := searchNounVerb(ctx, p, vm.Cell(*target), workers, e.vmOptions()...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "noun=%d verb=%d answer=%d\n", n, v, 100*n+v)
	return err
}
