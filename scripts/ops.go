// Copyright 2025 Zintix Labs
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

// ops 取代 Makefile 的開發任務：go run ./scripts <task>
package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

type task struct {
	name string
	help string
	run  func(args []string) error
}

var tasks = []task{
	{"test", "go test ./... -cover -count=1, only ok / FAIL lines", runTest},
	{"test-all", "go test ./... -cover", runTestAll},
	{"test-detail", "go test ./... -v -count=1 without [no test files]", runTestDetail},
	{"sim", "long run simulation of both embedded games", runSim},
	{"serve", "http server with cmd/svr/svr.yaml", runServe},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	i := slices.IndexFunc(tasks, func(t task) bool { return t.name == name })
	if i < 0 {
		yellow.Printf("Unknown task: %s\n", name)
		usage()
		os.Exit(1)
	}
	green.Printf("running %s\n", name)
	if err := tasks[i].run(os.Args[2:]); err != nil {
		red.Printf("\n%s finished with errors: %v\n", name, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task] [extra args]")
	for _, t := range tasks {
		fmt.Printf("  %-12s %s\n", t.name, strings.TrimSpace(t.help))
	}
}
