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

// Package perf 以 runtime/pprof 包住一段模擬，輸出 cpu / heap / allocs profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/reelsync/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode profile 種類
type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

// ParseMode 解析 flag 字串；未知值回傳設定錯誤。
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	}
	return ModeNone, errs.Config("perf: unknown pprof mode %q (want cpu, heap or allocs)", s)
}

// Run 依 mode 執行 exe 並寫出對應的 profile 到 dir；回傳寫出的檔案路徑（ModeNone 為空字串）。
//
// 可以作性能分析，也可以拿來做構建時給 pgo 的優化藍圖：
//
//	go run ./cmd/run -game classic -p cpu
func Run(exe func() error, mode Mode, dir string) (string, error) {
	if mode == ModeNone {
		return "", exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "perf: create profiling dir")
	}
	path := filepath.Join(dir, string(mode)+".pprof")
	switch mode {
	case ModeCPU:
		return path, cpu(exe, path)
	case ModeHeap, ModeAllocs:
		if err := exe(); err != nil {
			return "", err
		}
		return path, snapshot(mode, path)
	}
	return "", errs.Config("perf: unknown pprof mode %q", mode)
}

func cpu(exe func() error, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "perf: create cpu.pprof")
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "perf: start cpu profile")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot heap 為 in-use 快照，寫出前先 GC 讓 live objects 貼近最新狀態；
// allocs 為累積配置，需搭配 -alloc_space / -alloc_objects 查看。
func snapshot(mode Mode, path string) error {
	if mode == ModeHeap {
		runtime.GC()
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "perf: create "+filepath.Base(path))
	}
	defer f.Close()
	prof := pprof.Lookup(string(mode))
	if prof == nil {
		return errs.Fatalf("perf: profile %q not available", mode)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "perf: write "+string(mode)+" profile")
	}
	return nil
}
