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
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/configs"
	"github.com/zintix-labs/reelsync/profile"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/server/logger"
)

const help = "[enter/s] spin  [+/-] bet  [b N] set bet  [r] revive  [p] profile  [q] quit"

type flags struct {
	game    string
	seed    int64
	profile string
	logMode string
	instant bool
}

func main() {
	f := new(flags)
	flag.StringVar(&f.game, "game", "animated", "game name in catalog")
	flag.Int64Var(&f.seed, "seed", -1, "int64 seed, < 1 for random")
	flag.StringVar(&f.profile, "profile", profile.DefaultPath, "player profile path ('' to disable, .zst for compressed)")
	flag.StringVar(&f.logMode, "log-mode", "silence", "log mode: dev|prod|silence")
	flag.BoolVar(&f.instant, "instant", false, "skip reel animation")
	flag.Parse()

	if err := run(f, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f *flags, in io.Reader, out io.Writer) error {
	p, err := newPlayer(f, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s seed=%d\n%s\n", p.s.Machine().GameName, f.seed, help)
	p.status()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if !p.handle(strings.TrimSpace(sc.Text())) {
			return nil
		}
	}
	return sc.Err()
}

func newPlayer(f *flags, out io.Writer) (*player, error) {
	mode, err := logger.ParseLogMode(f.logMode)
	if err != nil {
		return nil, err
	}
	log := logger.New(mode, os.Stderr)

	lab, err := reelsync.NewAuto(core.Default(), configs.FS)
	if err != nil {
		return nil, err
	}
	if f.seed < 1 {
		f.seed = core.RandomSeed()
	}
	s, err := lab.NewSessionWithSeed(f.game, f.seed, log)
	if err != nil {
		return nil, err
	}
	p := &player{s: s, out: out}
	if f.profile != "" {
		p.store = profile.NewStore(f.profile)
		hook(s, p.store, log)
	}
	// 非終端機（管線、重導）時不播動畫
	if fd, ok := out.(interface{ Fd() uintptr }); ok && !f.instant {
		p.animate = isatty.IsTerminal(fd.Fd())
	}
	return p, nil
}

func hook(s *slot.GameSession, store *profile.Store, log *slog.Logger) {
	s.OnSettle(func(st slot.Settlement) {
		if _, err := store.Record(st.Pool); err != nil {
			log.Warn("profile record failed", slog.Any("err", err))
		}
	})
	s.OnRevive(func(int) {
		if _, err := store.AddRevive(); err != nil {
			log.Warn("profile revive failed", slog.Any("err", err))
		}
	})
}

type player struct {
	s       *slot.GameSession
	out     io.Writer
	store   *profile.Store
	animate bool
}

// handle 回傳 false 表示離開
func (p *player) handle(cmd string) bool {
	switch {
	case cmd == "" || cmd == "s":
		p.spin()
	case cmd == "+":
		p.s.BetUp()
	case cmd == "-":
		p.s.BetDown()
	case strings.HasPrefix(cmd, "b "):
		v, err := strconv.ParseFloat(strings.TrimSpace(cmd[2:]), 64)
		if err != nil {
			fmt.Fprintln(p.out, "bet must be a number")
			return true
		}
		p.s.SetBet(v)
	case cmd == "r":
		if !p.s.Revive() {
			fmt.Fprintln(p.out, "revive only when pool is below min bet")
		}
	case cmd == "p":
		p.showProfile()
		return true
	case cmd == "q":
		return false
	default:
		fmt.Fprintln(p.out, help)
		return true
	}
	p.status()
	return true
}

func (p *player) spin() {
	if !p.s.StartSpin() {
		fmt.Fprintln(p.out, "pool below bet, lower the bet or revive")
		return
	}
	sp := p.s.Spinner()
	if sp != nil {
		if p.animate {
			dt := sp.Setting().FrameDT
			tk := time.NewTicker(time.Duration(dt * float64(time.Second)))
			lines := 0
			for !p.s.Tick(dt) {
				<-tk.C
				lines = redraw(p.out, renderColumns(sp.Visible(), sp.Phases()), lines)
			}
			tk.Stop()
			erase(p.out, lines)
		} else {
			p.s.Settle()
		}
	}
	fmt.Fprint(p.out, renderGrid(p.s.LastGrid(), p.s.LastWins()))
	fmt.Fprint(p.out, renderWins(p.s.LastWins(), p.s.LastWinAmount()))
}

func (p *player) status() {
	fmt.Fprintf(p.out, "pool %s  bet %s\n", money(p.s.Pool()), money(p.s.Bet()))
}

func (p *player) showProfile() {
	if p.store == nil {
		fmt.Fprintln(p.out, "profile disabled")
		return
	}
	pf, err := p.store.LoadOrDefault()
	if err != nil {
		fmt.Fprintln(p.out, err)
		return
	}
	fmt.Fprintf(p.out, "exp %d  revive %d  highscore %d\n", pf.Exp, pf.Revive, pf.Highscore)
}
