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
	"flag"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/configs"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/perf"
	"github.com/zintix-labs/reelsync/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	game    string
	cfgPath string
	worker  int
	player  int
	bets    int
	spins   int
	seed    int64
	output  string
	pprof   perf.Mode
}

func bindVar() error {
	var pprofMode string
	flag.StringVar(&cfg.game, "game", "classic", "game name in catalog")
	flag.StringVar(&cfg.cfgPath, "cfg", "", "yaml file overriding the game setting (game_name must exist)")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.player, "player", 1, "number of players")
	flag.IntVar(&cfg.bets, "bets", 200, "initial bets")
	flag.IntVar(&cfg.spins, "spins", 1000000, "spins per worker, or per player when player > 1")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.output, "o", "table", "report format: table, json, yaml")
	flag.StringVar(&pprofMode, "p", "", "pprof: '', cpu, heap, allocs")
	flag.Parse()

	m, err := perf.ParseMode(pprofMode)
	if err != nil {
		return err
	}
	cfg.pprof = m
	// 非法 seed 改用隨機 seed
	if cfg.seed < 1 {
		cfg.seed = core.RandomSeed()
	}
	return cfg.valid()
}

// executeSimulator 解析並分支要執行的模擬器
func executeSimulator() error {
	lab, err := reelsync.NewAuto(core.Default(), configs.FS)
	if err != nil {
		return err
	}
	var s *reelsync.Simulator
	if cfg.cfgPath != "" {
		raw, rerr := os.ReadFile(cfg.cfgPath)
		if rerr != nil {
			return errs.Wrap(rerr, "read cfg file")
		}
		s, err = lab.NewSimulatorByYAML(raw, cfg.seed)
	} else {
		s, err = lab.NewSimulatorWithSeed(cfg.game, cfg.seed)
	}
	if err != nil {
		return err
	}

	out := os.Stdout
	showpb := isatty.IsTerminal(out.Fd()) && cfg.output == "table"
	head := color.New(color.FgGreen, color.Bold)
	p := message.NewPrinter(language.English)

	if cfg.player == 1 { // 純機台模擬
		head.Fprintln(out, p.Sprintf("[WORKERS:%d] [GAME:%s] [MODE:%s] [SPINS:%d] [SEED:%d]", cfg.worker, s.GameName, s.Mode, cfg.worker*cfg.spins, s.Seed()))
		var (
			st   *stats.StatReport
			used time.Duration
		)
		if cfg.worker == 1 { // 單線程
			st, used, err = s.Sim(cfg.spins, showpb)
		} else {
			st, used, err = s.SimMP(cfg.spins, cfg.worker, showpb) // 併發
		}
		if err != nil {
			return err
		}
		return report(out, st, used)
	}

	// 模擬多玩家體驗
	head.Fprintln(out, p.Sprintf("[WORKERS:%d] [GAME:%s] [PLAYERS:%d BALANCE:%d SPINS:%d] [SEED:%d]", cfg.worker, s.GameName, cfg.player, cfg.bets, cfg.spins, s.Seed()))
	st, est, used, err := s.SimPlayers(cfg.worker, cfg.player, cfg.bets, cfg.spins, showpb)
	if err != nil {
		return err
	}
	if err := report(out, st, used); err != nil {
		return err
	}
	if r := stats.RenderByName[stats.EstimatorPlayers](cfg.output); r != nil {
		return r.Write(out, est)
	}
	return est.WriteTable(out)
}

func report(w io.Writer, st *stats.StatReport, used time.Duration) error {
	if r := stats.RenderByName[stats.StatReport](cfg.output); r != nil {
		return st.WriteWith(w, r)
	}
	return st.WriteTable(w, used)
}

func (cfg *config) valid() error {
	p := message.NewPrinter(language.English)
	switch {
	case cfg.worker < 1:
		return errs.Config("workers must > 0")
	case cfg.player < 1:
		return errs.Config("player must > 0")
	case cfg.spins < 1:
		return errs.Config("spins must > 0")
	// 模擬玩家行為的時候，玩家帶入資金不能 < 1
	case cfg.player > 1 && cfg.bets < 1:
		return errs.Config("bets must >= 1")
	}
	if cfg.output != "table" && stats.RenderByName[stats.StatReport](cfg.output) == nil {
		return errs.Config("unknown output format %q", cfg.output)
	}
	if cfg.player > 100000 {
		p.Fprintf(os.Stderr, "too much players: %d resized to 100k players\n", cfg.player)
		cfg.player = 100000
	}
	// 對一個玩家來說 1500 轉約 1hr，15000 轉約 10 小時，再多就直接模擬長期機台
	if cfg.player > 1 && cfg.spins > 15000 {
		p.Fprintf(os.Stderr, "too much spins for each players : %d resized to 15k spins for each player\n", cfg.spins)
		cfg.spins = 15000
	}
	return nil
}
