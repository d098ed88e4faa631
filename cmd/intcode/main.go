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
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/internal/config"
	"github.com/db47h/intcode/store"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/buildinfo"
	_ "github.com/tliron/commonlog/simple"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

// cellList collects comma separated values from one or more flags.
type cellList []vm.Cell

func (l *cellList) String() string {
	if l == nil {
		return ""
	}
	return vm.Program(*l).String()
}

func (l *cellList) Set(s string) error {
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return err
		}
		*l = append(*l, vm.Cell(n))
	}
	return nil
}

func (l *cellList) Get() interface{} { return *l }

// verbosity is a counting flag: each -v adds one.
type verbosity int

func (v *verbosity) String() string   { return strconv.Itoa(int(*v)) }
func (v *verbosity) Set(string) error { *v++; return nil }
func (v *verbosity) IsBoolFlag() bool { return true }
func (v *verbosity) Get() interface{} { return int(*v) }

type command struct {
	name  string
	args  string
	short string
	run   func(ctx context.Context, e *env, args []string) error
}

var commands []*command

func init() {
	commands = []*command{
		{"run", "[flags] program", "run a program", runCmd},
		{"resume", "[flags] session", "resume a saved session", resumeCmd},
		{"sessions", "[-rm id]", "list or delete saved sessions", sessionsCmd},
		{"amp", "[flags] program", "run an amplifier chain or feedback loop", ampCmd},
		{"maxamp", "[flags] program", "search the phase settings giving the highest signal", maxAmpCmd},
		{"paint", "[flags] program", "run a hull painting robot", paintCmd},
		{"nounverb", "[flags] program", "run a program with patched noun and verb, or search them", nounVerbCmd},
		{"asm", "[-o filename] source", "assemble a source file", asmCmd},
		{"disasm", "program", "disassemble a program", disasmCmd},
		{"step", "[flags] program", "single-step a program interactively", stepCmd},
		{"version", "", "print version information", versionCmd},
	}
}

func lookup(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
	}
	return nil
}

// env holds the state shared by commands.
type env struct {
	cfg    *config.Config
	dbPath string
	stdout *bufio.Writer
	i      *vm.Instance // for diagnostics on exit
	db     *store.Store
}

func (e *env) store() (*store.Store, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := store.Open(e.dbPath)
	if err != nil {
		return nil, err
	}
	e.db = db
	return db, nil
}

func (e *env) close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func (e *env) vmOptions() []vm.Option {
	if e.cfg.VM.StepLimit > 0 {
		return []vm.Option{vm.StepLimit(e.cfg.VM.StepLimit)}
	}
	return nil
}

// loadProgram loads a program from its comma separated text form, or
// assembles it if the file name ends in ".asm".
func loadProgram(name string) (vm.Program, error) {
	if !strings.HasSuffix(name, ".asm") {
		return vm.Load(name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open source")
	}
	defer f.Close()
	return asm.Assemble(name, bufio.NewReader(f))
}

// newFlagSet returns a flag set for command c. Its usage function prints the
// command synopsis.
func newFlagSet(c string) *flag.FlagSet {
	fs := flag.NewFlagSet(c, flag.ExitOnError)
	fs.Usage = func() {
		cmd := lookup(c)
		fmt.Fprintf(fs.Output(), "usage: intcode %s %s\n\n%s.\n", cmd.name, cmd.args, cmd.short)
		fs.PrintDefaults()
	}
	return fs
}

// programArg parses args with fs and loads the single program argument.
func programArg(fs *flag.FlagSet, args []string) (vm.Program, error) {
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	return loadProgram(fs.Arg(0))
}

var debug bool

func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	if i != nil {
		if w, e := i.Peek(i.PC()); e == nil {
			fmt.Fprintf(os.Stderr, "PC: %d (%d), RB: %d, steps: %d\n", i.PC(), w, i.RelativeBase(), i.InstructionCount())
		} else {
			fmt.Fprintf(os.Stderr, "PC: %d, RB: %d, steps: %d\n", i.PC(), i.RelativeBase(), i.InstructionCount())
		}
	}
	os.Exit(1)
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "intcode %s\n\nusage: intcode [flags] command [arguments]\n\nCommands:\n", buildinfo.Version(version, commit, date))
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.short)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	flag.PrintDefaults()
}

func versionCmd(_ context.Context, e *env, _ []string) error {
	_, err := fmt.Fprintf(e.stdout, "intcode %s\n", buildinfo.Version(version, commit, date))
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	c, err := config.Load(config.File())
	if os.IsNotExist(errors.Cause(err)) {
		return config.Default(), nil
	}
	return c, err
}

func main() {
	var err error
	e := &env{stdout: bufio.NewWriter(os.Stdout)}

	// flush output, catch and log errors
	defer func() {
		if ferr := e.stdout.Flush(); err == nil {
			err = ferr
		}
		if cerr := e.close(); err == nil {
			err = cerr
		}
		atExit(e.i, err)
	}()

	var (
		verbose verbosity
		cfgFile = flag.String("config", "", "load configuration from `filename` (default "+config.File()+")")
		dbPath  = flag.String("db", "", "session database `filename` (overrides the configuration)")
		quiet   = flag.Bool("q", false, "only log errors")
	)
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	flag.Var(&verbose, "v", "increase log verbosity (can be repeated)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if e.cfg, err = loadConfig(*cfgFile); err != nil {
		return
	}
	e.cfg.Log.Verbosity += int(verbose)
	if *quiet {
		e.cfg.Log.Verbosity = -2
	}
	e.cfg.ConfigureLogging()
	e.dbPath = e.cfg.Store.Path
	if *dbPath != "" {
		e.dbPath = *dbPath
	}

	c := lookup(flag.Arg(0))
	if c == nil {
		err = errors.Errorf("unknown command %q, run intcode -h for a list of commands", flag.Arg(0))
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = c.run(ctx, e, flag.Args()[1:])
}
