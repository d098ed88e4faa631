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
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// errSuspend is returned by a feeder with no more input when the instance
// should be saved instead.
var errSuspend = errors.New("suspend")

// feeder supplies input values: queued values first, then lines read from r.
// In ASCII mode, each line is sent character by character, newline included.
// Otherwise a line holds one or more comma or space separated integers.
type feeder struct {
	queue []vm.Cell
	r     *bufio.Reader
	ascii bool
	flush func() error
}

func (f *feeder) next() (vm.Cell, error) {
	for len(f.queue) == 0 {
		if f.r == nil {
			return 0, errSuspend
		}
		if f.flush != nil {
			if err := f.flush(); err != nil {
				return 0, err
			}
		}
		line, err := f.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return 0, errors.Wrap(vm.ErrInputExhausted, "end of input")
			}
			return 0, errors.Wrap(err, "read input")
		}
		if f.ascii {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			f.queue = ascii.Encode(line)
			continue
		}
		for _, s := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' }) {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return 0, errors.Wrap(err, "bad input")
			}
			f.queue = append(f.queue, vm.Cell(v))
		}
	}
	v := f.queue[0]
	f.queue = f.queue[1:]
	return v, nil
}

// printer returns an output function that writes values to w, one per line,
// or as text in ASCII mode.
func printer(w io.Writer, text bool) vm.OutputFunc {
	if text {
		return func(out []vm.Cell) error { return ascii.Dump(w, out) }
	}
	return func(out []vm.Cell) error {
		ew := ici.NewErrWriter(w)
		for _, v := range out {
			ew.WriteInt(int64(v))
			ew.Write([]byte{'\n'})
		}
		return ew.Err
	}
}

// tracer returns a trace function that disassembles each instruction to w.
func tracer(w io.Writer) vm.TraceFunc {
	var buf [4]vm.Cell
	return func(i *vm.Instance, pc vm.Cell, _ vm.Instruction) error {
		for k := range buf {
			buf[k], _ = i.Peek(pc + vm.Cell(k))
		}
		ew := ici.NewErrWriter(w)
		ew.WriteInt(int64(pc))
		ew.Write([]byte{'\t'})
		asm.Disassemble(buf[:], 0, ew)
		ew.WriteString("\trb=")
		ew.WriteInt(int64(i.RelativeBase()))
		ew.Write([]byte{'\n'})
		return ew.Err
	}
}

type runFlags struct {
	inputs cellList
	save   bool
	text   bool
	trace  bool
	dump   bool
}

func (r *runFlags) register(fs *flag.FlagSet) {
	fs.Var(&r.inputs, "i", "comma separated input `values`, sent before reading stdin (can be specified multiple times)")
	fs.BoolVar(&r.save, "save", false, "save the instance to the session database instead of reading stdin")
	fs.BoolVar(&r.text, "ascii", false, "ASCII mode: send input lines as characters and print output as text")
	fs.BoolVar(&r.trace, "trace", false, "disassemble every instruction to stderr")
	fs.BoolVar(&r.dump, "dump", false, "dump the instance state and memory upon exit")
}

// drive runs i with the run flags. It returns true if the instance was
// suspended for lack of input in -save mode.
func (r *runFlags) drive(ctx context.Context, e *env, i *vm.Instance) (suspended bool, err error) {
	e.i = i
	if r.trace {
		stderr := bufio.NewWriter(os.Stderr)
		defer stderr.Flush()
		if err = i.SetOptions(vm.Trace(tracer(stderr))); err != nil {
			return false, err
		}
	}
	f := &feeder{queue: r.inputs, ascii: r.text, flush: e.stdout.Flush}
	if !r.save {
		f.r = bufio.NewReader(os.Stdin)
	}
	err = vm.Drive(ctx, i, f.next, printer(e.stdout, r.text))
	if err == errSuspend {
		err = nil
		suspended = true
	}
	if r.dump {
		if derr := dumpVM(i, e.stdout); err == nil {
			err = derr
		}
	}
	return suspended, err
}

func runCmd(ctx context.Context, e *env, args []string) error {
	var r runFlags
	fs := newFlagSet("run")
	r.register(fs)
	p, err := programArg(fs, args)
	if err != nil {
		return err
	}
	i, err := vm.New(p, e.vmOptions()...)
	if err != nil {
		return err
	}
	suspended, err := r.drive(ctx, e, i)
	if err != nil || !suspended {
		return err
	}
	db, err := e.store()
	if err != nil {
		return err
	}
	s, err := db.SaveSession(p, i.Snapshot())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "awaiting input, saved as session %s\n", s.ID)
	return err
}

func resumeCmd(ctx context.Context, e *env, args []string) error {
	var r runFlags
	fs := newFlagSet("resume")
	r.register(fs)
	keep := fs.Bool("keep", false, "keep the session once the program halts")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	id := fs.Arg(0)
	db, err := e.store()
	if err != nil {
		return err
	}
	_, snap, err := db.LoadSession(id)
	if err != nil {
		return err
	}
	i, err := vm.Restore(snap, e.vmOptions()...)
	if err != nil {
		return err
	}
	if i.State() == vm.Halted {
		return errors.Wrapf(vm.ErrResumeAfterHalt, "session %s", id)
	}
	suspended, err := r.drive(ctx, e, i)
	if err != nil {
		return err
	}
	if suspended {
		if _, err = db.UpdateSession(id, i.Snapshot()); err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.stdout, "awaiting input, session %s updated\n", id)
		return err
	}
	if *keep {
		_, err = db.UpdateSession(id, i.Snapshot())
		return err
	}
	return db.DeleteSession(id)
}

func sessionsCmd(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("sessions")
	rm := fs.String("rm", "", "delete session `id`")
	fs.Parse(args)
	db, err := e.store()
	if err != nil {
		return err
	}
	if *rm != "" {
		return db.DeleteSession(*rm)
	}
	l, err := db.Sessions()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROGRAM\tSTATE\tPC\tSTEPS\tOUTPUTS\tUPDATED")
	for _, s := range l {
		fp := s.Fingerprint
		if len(fp) > 8 {
			fp = fp[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n", s.ID, fp, s.State, s.PC, s.Steps, s.Outputs, s.Updated.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
