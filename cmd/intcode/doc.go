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


// The intcode command line tool runs Intcode programs and the machines built
// on top of them: amplifier rings, hull painting robots and the noun/verb
// patcher.
//
// Usage:
//
//	intcode [flags] command [arguments]
//
// Global flags:
//
//	-config filename
//		  load configuration from filename
//	-db filename
//		  session database filename (overrides the configuration)
//	-debug
//		  enable debug diagnostics
//	-q
//		  only log errors
//	-v
//		  increase log verbosity (can be repeated)
//
// Programs are read from files holding comma separated integers. Files with a
// ".asm" extension are assembled first, see github.com/db47h/intcode/asm.
//
// The commands are:
//
//	run       run a program
//	resume    resume a saved session
//	sessions  list or delete saved sessions
//	amp       run an amplifier chain or feedback loop
//	maxamp    search the phase settings giving the highest signal
//	paint     run a hull painting robot
//	nounverb  run a program with patched noun and verb, or search them
//	asm       assemble a source file
//	disasm    disassemble a program
//	step      single-step a program interactively
//	version   print version information
//
// run: input values come from -i flags first, then from stdin, one or more
// per line. With -ascii, stdin lines are sent as characters and output is
// printed as text, large values on a line of their own. With -save, the
// program is not given stdin: when it runs out of input it is saved to the
// session database and its session id is printed. Use resume to feed it more
// input later. -trace disassembles every instruction to stderr and -dump
// prints the registers and memory once the program stops.
//
// resume accepts the same flags as run. A session that halts is deleted
// unless -keep is given.
//
// maxamp caches its results in the session database, keyed by program
// fingerprint, phase range and seed. Use -nocache to bypass the cache.
//
// step switches the terminal to raw mode unless -noraw is given, and stops
// before each instruction. Press h for help.
//
// The configuration file is TOML:
//
//	[store]
//	path = "/home/me/.cache/intcode/intcode.db"
//
//	[log]
//	verbosity = 1
//	file = "/tmp/intcode.log"
//
//	[vm]
//	step-limit = 100000000
//
//	[pipeline]
//	workers = 4
//	max-rounds = 1000
package main
