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

package slot_test

import (
	"reflect"
	"testing"

	"github.com/zintix-labs/reelsync/sdk/anim"
	"github.com/zintix-labs/reelsync/sdk/calc"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/gen"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/sdk/symbol"
	"github.com/zintix-labs/reelsync/spec"
)

func newSession(t *testing.T, gs *spec.GameSetting, seed int64) *slot.GameSession {
	t.Helper()
	m, err := slot.NewMachine(gs, core.Seeded(seed))
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	s, err := slot.NewSession(m, nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func singleSymbol(mult float64) *spec.GameSetting {
	return &spec.GameSetting{
		GameName: "mono",
		Rows:     3,
		Reels:    3,
		DrawMode: spec.DrawSimple,
		Symbols:  []symbol.Symbol{symbol.New("a", "A", mult, 0, 1)},
	}
}

func animatedSetting() *spec.GameSetting {
	return &spec.GameSetting{
		GameName: "anim",
		Rows:     3,
		Reels:    3,
		DrawMode: spec.DrawAnimated,
		Symbols:  symbol.Classic(),
	}
}

func TestResolveScenario(t *testing.T) {
	m, err := slot.NewMachine(spec.Classic(), core.Seeded(1))
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	cat := m.GameSetting.Catalog
	get := func(n string) symbol.Symbol {
		s, ok := cat.Lookup(n)
		if !ok {
			t.Fatalf("missing %s", n)
		}
		return s
	}
	g := gen.NewGrid([][]symbol.Symbol{
		{get("Cherry"), get("Cherry"), get("Cherry")},
		{get("Lemon"), get("Bell"), get("Star")},
		{get("Seven"), get("Lemon"), get("Bell")},
	})
	out := m.Resolve(g, 5)
	if len(out.Wins) != 1 || out.Wins[0].Kind != calc.RowLine(0) || out.Payout != 10 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestSimpleSpinSettlesImmediately(t *testing.T) {
	s := newSession(t, singleSymbol(2), 1)
	settled := 0
	s.OnSettle(func(st slot.Settlement) {
		settled++
		if st.Bet != 5 || st.Payout != 80 {
			t.Fatalf("settlement %+v", st)
		}
	})
	if !s.StartSpin() {
		t.Fatalf("spin refused")
	}
	// 3 列 + 3 直 + 2 斜，每線 2*5
	if s.Spinning() || s.Pool() != 175 || s.LastWinAmount() != 80 || !s.HasRecentWin() {
		t.Fatalf("pool=%v win=%v spinning=%v", s.Pool(), s.LastWinAmount(), s.Spinning())
	}
	if len(s.LastWins()) != 8 || settled != 1 {
		t.Fatalf("wins=%d settled=%d", len(s.LastWins()), settled)
	}
}

func TestSpinRefusedWhenPoolShort(t *testing.T) {
	s := newSession(t, singleSymbol(0), 1)
	s.SetBet(100)
	if !s.StartSpin() || s.Pool() != 0 {
		t.Fatalf("all-in spin: pool=%v", s.Pool())
	}
	if s.Bet() != 1 {
		t.Fatalf("bet should pin to min bet, got %v", s.Bet())
	}
	if s.StartSpin() {
		t.Fatalf("spin with empty pool should be refused")
	}
	if !s.Revive() || s.Pool() != 100 || s.Bet() != 5 {
		t.Fatalf("revive: pool=%v bet=%v", s.Pool(), s.Bet())
	}
	if s.Revive() {
		t.Fatalf("revive with funds should be refused")
	}
	if s.State().Revives != 1 {
		t.Fatalf("revive count %d", s.State().Revives)
	}
}

func TestBetControls(t *testing.T) {
	s := newSession(t, singleSymbol(1), 1)
	if s.Bet() != 5 {
		t.Fatalf("initial bet %v", s.Bet())
	}
	s.BetUp()
	if s.Bet() != 6 {
		t.Fatalf("bet up %v", s.Bet())
	}
	s.SetBet(1000)
	if s.Bet() != 100 {
		t.Fatalf("clamp to pool %v", s.Bet())
	}
	s.SetBet(0)
	s.BetDown()
	if s.Bet() != 1 {
		t.Fatalf("clamp to min %v", s.Bet())
	}
}

func TestAnimatedSpinLifecycle(t *testing.T) {
	s := newSession(t, animatedSetting(), 42)
	if s.Machine().Detector.Options().Columns {
		t.Fatalf("animated mode should not detect columns")
	}
	if !s.StartSpin() {
		t.Fatalf("spin refused")
	}
	if !s.Spinning() || s.Pool() != 95 {
		t.Fatalf("after start: spinning=%v pool=%v", s.Spinning(), s.Pool())
	}
	if s.StartSpin() || s.SetBet(10) || s.BetUp() {
		t.Fatalf("controls must be ignored while spinning")
	}
	if st := s.State(); st.Grid != nil || st.Phases[0] != anim.Scrolling {
		t.Fatalf("state while spinning %+v", st)
	}
	ticks := s.Settle()
	if ticks < 2 || s.Spinning() {
		t.Fatalf("settle ticks=%d spinning=%v", ticks, s.Spinning())
	}
	g := s.LastGrid()
	for i, col := range s.Spinner().Visible() {
		if !symbol.EqualNames(col, g.Column(i)) {
			t.Fatalf("reel %d shows %v, grid column %v", i, symbol.Names(col), symbol.Names(g.Column(i)))
		}
	}
	for _, col := range g.Columns() {
		seen := map[string]bool{}
		for _, sym := range col {
			if seen[sym.Name] {
				t.Fatalf("duplicate symbol in animated column %v", symbol.Names(col))
			}
			seen[sym.Name] = true
		}
	}
	if s.Pool() != 95+s.LastWinAmount() {
		t.Fatalf("pool %v, last win %v", s.Pool(), s.LastWinAmount())
	}
	if s.HasRecentWin() != (s.LastWinAmount() > 0) {
		t.Fatalf("recent win flag mismatch")
	}
}

func TestAnimatedCancel(t *testing.T) {
	s := newSession(t, animatedSetting(), 3)
	settled := false
	s.OnSettle(func(slot.Settlement) { settled = true })
	s.StartSpin()
	s.Tick(1.0 / 60)
	if !s.Cancel() {
		t.Fatalf("cancel refused")
	}
	if s.Spinning() || s.Pool() != 95 || settled {
		t.Fatalf("cancel should not credit: pool=%v settled=%v", s.Pool(), settled)
	}
	for _, p := range s.Spinner().Phases() {
		if p != anim.Idle {
			t.Fatalf("phases after cancel %v", s.Spinner().Phases())
		}
	}
	if s.Cancel() || s.Tick(1) {
		t.Fatalf("idle session should ignore cancel and tick")
	}
	if !s.StartSpin() || !s.Finish() || s.Pool() != 90+s.LastWinAmount() {
		t.Fatalf("spin after cancel: pool=%v", s.Pool())
	}
}

func TestAnimatedCancelKeepsLastResult(t *testing.T) {
	s := newSession(t, animatedSetting(), 11)
	if !s.StartSpin() || !s.Finish() {
		t.Fatalf("first spin did not settle")
	}
	prev := s.State()
	if prev.Grid == nil {
		t.Fatalf("settled state has no grid")
	}
	s.StartSpin()
	s.Tick(1.0 / 60)
	if !s.Cancel() {
		t.Fatalf("cancel refused")
	}
	st := s.State()
	if !reflect.DeepEqual(st.Grid, prev.Grid) {
		t.Fatalf("grid after cancel %v, want %v", st.Grid, prev.Grid)
	}
	if len(st.Wins) != len(prev.Wins) {
		t.Fatalf("wins after cancel %d, want %d", len(st.Wins), len(prev.Wins))
	}
	for i := range st.Wins {
		if st.Wins[i].Kind != prev.Wins[i].Kind {
			t.Fatalf("win %d kind %v, want %v", i, st.Wins[i].Kind, prev.Wins[i].Kind)
		}
	}
	if st.Spins != 1 {
		t.Fatalf("cancelled spin counted: spins=%d", st.Spins)
	}
}

func TestAnimatedNeedsDistinctSymbols(t *testing.T) {
	gs := animatedSetting()
	gs.Symbols = gs.Symbols[:2]
	if _, err := slot.NewMachine(gs, core.Seeded(1)); err == nil {
		t.Fatalf("expected config error")
	}
}
