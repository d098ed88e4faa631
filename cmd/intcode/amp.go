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
	"strconv"
	"strings"

	"github.com/db47h/intcode/pipeline"
	"github.com/db47h/intcode/robot"
	"github.com/db47h/intcode/store"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// rangeFlag is a phase range in "min..max" form.
type rangeFlag struct {
	pipeline.Range
	set bool
}

func (r *rangeFlag) String() string {
	if !r.set {
		return ""
	}
	return r.Range.String()
}

func (r *rangeFlag) Set(s string) error {
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return errors.Errorf("invalid range %q, expected min..max", s)
	}
	from, err := strconv.ParseInt(lo, 10, 64)
	if err != nil {
		return err
	}
	to, err := strconv.ParseInt(hi, 10, 64)
	if err != nil {
		return err
	}
	r.Range = pipeline.Range{Min: vm.Cell(from), Max: vm.Cell(to)}
	r.set = true
	return nil
}

func (r *rangeFlag) Get() interface{} { return r.Range }

func (e *env) ringOptions(seed vm.Cell, rng pipeline.Range) []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.Seed(seed),
		pipeline.Phases(rng),
		pipeline.MaxRounds(e.cfg.Pipeline.MaxRounds),
		pipeline.VMOptions(e.vmOptions()...),
	}
	if e.cfg.Pipeline.Workers > 0 {
		opts = append(opts, pipeline.Workers(e.cfg.Pipeline.Workers))
	}
	return opts
}

func ampCmd(ctx context.Context, e *env, args []string) error {
	var (
		phases cellList
		rng    rangeFlag
	)
	fs := newFlagSet("amp")
	fs.Var(&phases, "phases", "comma separated phase `settings`, one per amplifier")
	fs.Var(&rng, "range", "valid phase `range` (default: from the lowest to the highest phase setting)")
	seed := fs.Int64("seed", 0, "input `value` of the first amplifier")
	p, err := programArg(fs, args)
	if err != nil {
		return err
	}
	if len(phases) == 0 {
		return errors.New("amp: no phase settings")
	}
	if !rng.set {
		rng.Range = pipeline.Range{Min: phases[0], Max: phases[0]}
		for _, v := range phases[1:] {
			rng.Min = min(rng.Min, v)
			rng.Max = max(rng.Max, v)
		}
	}
	v, err := pipeline.Amplify(ctx, p, phases, e.ringOptions(vm.Cell(*seed), rng.Range)...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, v)
	return err
}

func maxAmpCmd(ctx context.Context, e *env, args []string) error {
	rng := rangeFlag{Range: pipeline.FeedbackPhases}
	fs := newFlagSet("maxamp")
	fs.Var(&rng, "range", "phase `range` to search (default 5..9)")
	seed := fs.Int64("seed", 0, "input `value` of the first amplifier")
	noCache := fs.Bool("nocache", false, "do not use or update the result cache")
	p, err := programArg(fs, args)
	if err != nil {
		return err
	}
	fp := store.Fingerprint(p)
	key := "maxamp:" + rng.Range.String() + ":" + strconv.FormatInt(*seed, 10)
	log := commonlog.GetLogger("intcode.cmd")

	var db *store.Store
	if !*noCache {
		if db, err = e.store(); err != nil {
			return err
		}
		r, err := db.Result(fp, key)
		switch {
		case err == nil:
			log.Infof("cached result for %s", fp)
			_, err = fmt.Fprintf(e.stdout, "%d %s\n", r.Signal, vm.Program(r.Phases))
			return err
		case errors.Cause(err) != store.ErrNotFound:
			return err
		}
	}
	r, err := pipeline.MaxSignal(ctx, p, e.ringOptions(vm.Cell(*seed), rng.Range)...)
	if err != nil {
		return err
	}
	if db != nil {
		if err = db.PutResult(fp, key, r.Signal, r.Phases); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(e.stdout, "%d %s\n", r.Signal, vm.Program(r.Phases))
	return err
}

func paintCmd(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("paint")
	white := fs.Bool("white", false, "start on a white panel")
	render := fs.Bool("render", false, "render the hull")
	p, err := programArg(fs, args)
	if err != nil {
		return err
	}
	start := robot.Black
	if *white {
		start = robot.White
	}
	h, err := robot.Paint(ctx, p, start, robot.VMOptions(e.vmOptions()...))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%d panels painted, %d visited\n", h.Painted(), h.Visited())
	if !*render && !*white {
		return nil
	}
	if cols, _ := consoleSize(); cols > 0 && h.Bounds().Dx() > cols {
		commonlog.GetLogger("intcode.cmd").Warningf("hull is %d panels wide, the terminal only %d columns", h.Bounds().Dx(), cols)
	}
	return h.Render(e.stdout)
}
