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

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func runTest(args []string) error {
	// clean 失敗不中斷
	if err := goCmd("clean", "-testcache").Run(); err != nil {
		red.Println(err.Error())
	}
	return stream(goCmd(append([]string{"test", "./...", "-cover", "-count=1"}, args...)...), func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			green.Println(line)
		case strings.HasPrefix(line, "FAIL"):
			red.Println(line)
		// 編譯錯誤不以 ok / FAIL 開頭，仍要露出
		case strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
			red.Println(line)
		}
	})
}

func runTestAll(args []string) error {
	if err := attach(goCmd("clean", "-testcache")).Run(); err != nil {
		return fmt.Errorf("go clean -testcache: %w", err)
	}
	return attach(goCmd(append([]string{"test", "./...", "-cover"}, args...)...)).Run()
}

func runTestDetail(args []string) error {
	if err := attach(goCmd("clean", "-testcache")).Run(); err != nil {
		return fmt.Errorf("go clean -testcache: %w", err)
	}
	return stream(goCmd(append([]string{"test", "./...", "-v", "-count=1"}, args...)...), func(line string) {
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"), strings.HasPrefix(line, "--- PASS"):
			green.Println(line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"):
			red.Println(line)
		default:
			fmt.Println(line)
		}
	})
}

func runSim(args []string) error {
	for _, game := range []string{"classic", "animated"} {
		base := []string{"run", "./cmd/run", "-game", game, "-worker", "4", "-spins", "250000"}
		if err := attach(goCmd(append(base, args...)...)).Run(); err != nil {
			return fmt.Errorf("sim %s: %w", game, err)
		}
	}
	return nil
}

func runServe(args []string) error {
	return attach(goCmd(append([]string{"run", "./cmd/svr", "-cfg", "cmd/svr/svr.yaml"}, args...)...)).Run()
}

func goCmd(args ...string) *exec.Cmd {
	return exec.Command("go", args...)
}

func attach(cmd *exec.Cmd) *exec.Cmd {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// stream 合併 stdout / stderr（等同 2>&1）後逐行交給 fn
func stream(cmd *exec.Cmd, fn func(line string)) error {
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		fn(sc.Text())
	}
	if err := sc.Err(); err != nil {
		red.Printf("scanner error: %v\n", err)
	}
	return cmd.Wait()
}
