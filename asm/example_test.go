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

package asm_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/db47h/intcode/asm"
)

func ExampleAssemble() {
	code := `
		( a constant definition. Does not generate any code on its own )
		.equ TEN 10

:start	in counter			( read the initial count )
:loop	out counter
		add counter #-1 counter
		jnz counter #loop	( immediate label: jump to its address )
		hlt

:counter
		.dat TEN
`

	prog, err := asm.Assemble("raw_string", strings.NewReader(code))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(prog)
	asm.DisassembleAll(prog, 0, os.Stdout)

	// Output:
	// 3,12,4,12,1001,12,-1,12,1005,12,2,99,10
	//          0	in 12
	//          2	out 12
	//          4	add 12 #-1 12
	//          8	jnz 12 #2
	//         11	hlt
	//         12	.dat 10
}
