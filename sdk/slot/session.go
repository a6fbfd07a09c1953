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

// Package slot 機台抽樣鏈與玩家 session。
package slot

import (
	"log/slog"

	"github.com/zintix-labs/reelsync/sdk/anim"
	"github.com/zintix-labs/reelsync/sdk/calc"
	"github.com/zintix-labs/reelsync/sdk/gen"
	"github.com/zintix-labs/reelsync/sdk/symbol"
	"github.com/zintix-labs/reelsync/spec"
)

// Settlement 一局結算後交給 OnSettle 回呼的內容
type Settlement struct {
	Bet    float64
	Payout float64
	Pool   float64
	Wins   []calc.WinningLine
	Spins  int
}

// GameSession 單一玩家的遊戲狀態：彩池、押注、上一局結果與 spinning 旗標。
//
// 單執行緒模型：一局結束前不能開下一局，spinning 期間的開局請求直接忽略。
// 非併發安全，跨 goroutine 使用請由呼叫端加鎖。
type GameSession struct {
	m       *Machine
	spinner *anim.Spinner // 循環輪帶模式才有
	bet     spec.BetSetting
	log     *slog.Logger

	pool     float64
	curBet   float64
	spinning bool
	spinBet  float64 // 本局已扣款的押注
	targets  [][]symbol.Symbol
	ticks    int

	lastGrid      gen.Grid
	lastWins      []calc.WinningLine
	lastWinAmount float64
	hasRecentWin  bool
	spins         int
	revives       int

	onSettle []func(Settlement)
	onRevive []func(revives int)
}

// NewSession 建立 session：彩池與押注取自設定。log 為 nil 時不輸出。
func NewSession(m *Machine, log *slog.Logger) (*GameSession, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &GameSession{
		m:    m,
		bet:  m.GameSetting.Bet,
		log:  log.With("game", m.GameName),
		pool: m.GameSetting.Bet.InitialPool,
	}
	s.curBet = s.bet.Clamp(s.bet.InitialBet, s.pool)
	if m.Animated() {
		sp, err := m.NewSpinner()
		if err != nil {
			return nil, err
		}
		s.spinner = sp
	}
	return s, nil
}

// ============================================================
// ** 開局與推進 **
// ============================================================

// StartSpin 開一局。spinning 中或彩池不足押注時不做事並回傳 false。
//
// 獨立抽樣模式當場結算；循環輪帶模式只抽好各軸結果並開始捲動，
// 之後由 Tick / Finish 推進到結算。
func (s *GameSession) StartSpin() bool {
	if s.spinning || s.pool < s.curBet {
		return false
	}
	s.pool -= s.curBet
	s.spinBet = s.curBet
	s.spinning = true
	s.hasRecentWin = false
	s.lastWinAmount = 0

	g := s.m.Generator.Generate()
	if s.spinner == nil {
		s.settle(g)
		return true
	}
	// 結果先放在 targets，結算時才寫入 lastGrid / lastWins
	s.targets = g.Columns()
	s.ticks = 0
	s.spinner.Start(s.targets)
	s.log.Debug("spin started", "bet", s.spinBet, "pool", s.pool)
	return true
}

// Tick 推進動畫 dt 秒，結算時回傳 true。
//
// 捲動超過 max_ticks_per_reel * 軸數 仍未停完時強制 Finish。
func (s *GameSession) Tick(dt float64) bool {
	if !s.spinning || s.spinner == nil {
		return false
	}
	s.ticks++
	if s.spinner.Tick(dt) {
		s.settle(gen.FromColumns(s.targets))
		return true
	}
	if limit := s.spinner.Setting().MaxTicksPerReel * s.spinner.Len(); s.ticks >= limit {
		s.log.Warn("spin tick limit reached, forcing stop", "ticks", s.ticks, "dt", dt)
		s.Finish()
		return true
	}
	return false
}

// Finish 跳過動畫直接結算。
func (s *GameSession) Finish() bool {
	if !s.spinning || s.spinner == nil {
		return false
	}
	s.spinner.Finish()
	s.settle(gen.FromColumns(s.targets))
	return true
}

// Settle 以固定 frame_dt 逐格跑完整局，回傳經過的 tick 數。
func (s *GameSession) Settle() int {
	if !s.spinning || s.spinner == nil {
		return 0
	}
	dt := s.spinner.Setting().FrameDT
	n := 0
	for s.spinning {
		s.Tick(dt)
		n++
	}
	return n
}

// Cancel 中止捲動回到 idle，不派彩；已扣的押注不退。
func (s *GameSession) Cancel() bool {
	if !s.spinning || s.spinner == nil {
		return false
	}
	s.spinner.Cancel()
	s.spinning = false
	s.targets = nil
	s.log.Info("spin cancelled", "bet", s.spinBet, "pool", s.pool)
	return true
}

func (s *GameSession) settle(g gen.Grid) {
	out := s.m.Resolve(g, s.spinBet)
	calc.UpdatePool(&s.pool, out.Wins, s.spinBet)

	s.lastGrid = out.Grid
	s.lastWins = out.Wins
	s.lastWinAmount = out.Payout
	s.hasRecentWin = out.Payout > 0
	s.spinning = false
	s.targets = nil
	s.spins++
	s.curBet = s.bet.Clamp(s.curBet, s.pool)

	s.log.Debug("spin settled", "bet", s.spinBet, "payout", out.Payout, "lines", len(out.Wins), "pool", s.pool)
	st := Settlement{Bet: s.spinBet, Payout: out.Payout, Pool: s.pool, Wins: out.Wins, Spins: s.spins}
	for _, fn := range s.onSettle {
		fn(st)
	}
}

// ============================================================
// ** 押注與復活 **
// ============================================================

// SetBet 設定押注並夾在 [min_bet, pool]；spinning 中忽略。
func (s *GameSession) SetBet(v float64) bool {
	if s.spinning {
		return false
	}
	s.curBet = s.bet.Clamp(v, s.pool)
	return true
}

func (s *GameSession) BetUp() bool {
	return s.SetBet(s.curBet + s.bet.BetStep)
}

func (s *GameSession) BetDown() bool {
	return s.SetBet(s.curBet - s.bet.BetStep)
}

// Revive 彩池低於最小押注時重置回初始彩池。
func (s *GameSession) Revive() bool {
	if s.spinning || s.pool >= s.bet.MinBet {
		return false
	}
	s.pool = s.bet.InitialPool
	s.curBet = s.bet.Clamp(s.bet.InitialBet, s.pool)
	s.revives++
	s.log.Info("session revived", "revives", s.revives, "pool", s.pool)
	for _, fn := range s.onRevive {
		fn(s.revives)
	}
	return true
}

// OnSettle 註冊結算回呼（經驗值、最高分、記錄）
func (s *GameSession) OnSettle(fn func(Settlement)) {
	s.onSettle = append(s.onSettle, fn)
}

func (s *GameSession) OnRevive(fn func(revives int)) {
	s.onRevive = append(s.onRevive, fn)
}

// ============================================================
// ** 讀取 **
// ============================================================

func (s *GameSession) Machine() *Machine      { return s.m }
func (s *GameSession) Pool() float64          { return s.pool }
func (s *GameSession) Bet() float64           { return s.curBet }
func (s *GameSession) Spinning() bool         { return s.spinning }
func (s *GameSession) LastGrid() gen.Grid     { return s.lastGrid }
func (s *GameSession) LastWinAmount() float64 { return s.lastWinAmount }
func (s *GameSession) HasRecentWin() bool     { return s.hasRecentWin }
func (s *GameSession) Spinner() *anim.Spinner { return s.spinner }

func (s *GameSession) LastWins() []calc.WinningLine {
	return s.lastWins
}

// State 可序列化的快照
type State struct {
	Game         string             `json:"game"`
	Mode         string             `json:"mode"`
	Pool         float64            `json:"pool"`
	Bet          float64            `json:"bet"`
	Spinning     bool               `json:"spinning"`
	Grid         [][]string         `json:"grid,omitempty"`
	Wins         []calc.WinningLine `json:"wins,omitempty"`
	LastWin      float64            `json:"last_win"`
	HasRecentWin bool               `json:"has_recent_win"`
	Phases       []anim.Phase       `json:"phases,omitempty"`
	Visible      [][]string         `json:"visible,omitempty"`
	Spins        int                `json:"spins"`
	Revives      int                `json:"revives"`
}

func (s *GameSession) State() State {
	st := State{
		Game:         s.m.GameName,
		Mode:         s.m.GameSetting.DrawMode.String(),
		Pool:         s.pool,
		Bet:          s.curBet,
		Spinning:     s.spinning,
		LastWin:      s.lastWinAmount,
		HasRecentWin: s.hasRecentWin,
		Spins:        s.spins,
		Revives:      s.revives,
	}
	// 捲動中不露出結果
	if !s.spinning && !s.lastGrid.Empty() {
		st.Grid = s.lastGrid.Names()
		st.Wins = s.lastWins
	}
	if s.spinner != nil {
		st.Phases = s.spinner.Phases()
		vis := s.spinner.Visible()
		st.Visible = make([][]string, len(vis))
		for i, col := range vis {
			st.Visible[i] = symbol.Names(col)
		}
	}
	return st
}
