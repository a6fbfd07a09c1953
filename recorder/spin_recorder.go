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

// Package recorder 累積模擬結果並產出統計報表。
package recorder

import (
	"maps"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/calc"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/stats"
)

// CashoutMult 本金翻到幾倍時離場
const CashoutMult = 3.0

// SpinRecorder 遊戲紀錄員
//
// 紀錄過程只做累加，Done 時一次換算成報表。
type SpinRecorder struct {
	GameName string
	Mode     string
	Bet      float64
	InitBets int // 玩家本金 = Bet * InitBets；0 代表不追蹤玩家
	Basic    *BasicRecord
	Dist     []int
	Lines    *stats.LineReport
	Player   *PlayerRecord
}

// BasicRecord 基本遊戲資料
type BasicRecord struct {
	TotalBet     float64
	TotalWin     float64
	TotalWinMult float64
	WinMultSqSum float64 // 贏倍平方和
	HitRounds    int
	BigWins      int
	Splices      int
	Rounds       int
}

// PlayerRecord 玩家資金軌跡
type PlayerRecord struct {
	leaveLine   float64
	InitBalance float64
	Balance     float64
	MaxBalance  float64
	MinBalance  float64
	Bust        bool
	Cashout     bool
}

func NewSpinRecorder(name, mode string, bet float64, initBets int) (*SpinRecorder, error) {
	if !(bet > 0) {
		return nil, errs.Config("recorder: bet must be > 0, got %v", bet)
	}
	if initBets < 0 {
		return nil, errs.Config("recorder: init bets must not be negative, got %d", initBets)
	}
	s := &SpinRecorder{
		GameName: name,
		Mode:     mode,
		Bet:      bet,
		InitBets: initBets,
		Basic:    new(BasicRecord),
		Dist:     make([]int, stats.Buckets.Len()),
		Lines:    &stats.LineReport{BySymbol: map[string]int{}},
	}
	if initBets > 0 {
		s.Player = newPlayerRecord(bet * float64(initBets))
	}
	return s, nil
}

// MergeSpinRecorder 合併多個 worker 的紀錄；玩家資料不合併。
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : empty input")
	}
	r0 := r[0]
	s, err := NewSpinRecorder(r0.GameName, r0.Mode, r0.Bet, 0)
	if err != nil {
		return nil, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return nil, errs.NewFatal("merge spin record err : different game name")
		}
		if v.Bet != r0.Bet {
			return nil, errs.NewFatal("merge spin record err : different bet")
		}
		b := v.Basic
		s.Basic.TotalBet += b.TotalBet
		s.Basic.TotalWin += b.TotalWin
		s.Basic.TotalWinMult += b.TotalWinMult
		s.Basic.WinMultSqSum += b.WinMultSqSum
		s.Basic.HitRounds += b.HitRounds
		s.Basic.BigWins += b.BigWins
		s.Basic.Splices += b.Splices
		s.Basic.Rounds += b.Rounds
		for i, c := range v.Dist {
			s.Dist[i] += c
		}
		s.Lines.Row += v.Lines.Row
		s.Lines.Column += v.Lines.Column
		s.Lines.Diagonal += v.Lines.Diagonal
		for k, c := range v.Lines.BySymbol {
			s.Lines.BySymbol[k] += c
		}
	}
	return s, nil
}

// Record 以單局結果更新統計
func (s *SpinRecorder) Record(out slot.Outcome) {
	b := s.Basic
	mult := out.Payout / s.Bet
	b.TotalBet += s.Bet
	b.TotalWin += out.Payout
	b.TotalWinMult += mult
	b.WinMultSqSum += mult * mult
	if out.Payout > 0 {
		b.HitRounds++
	}
	if mult >= stats.BigWinMult {
		b.BigWins++
	}
	b.Rounds++
	s.Dist[stats.Buckets.Index(mult)]++

	for _, w := range out.Wins {
		switch w.Kind.Tag {
		case calc.LineRow:
			s.Lines.Row++
		case calc.LineColumn:
			s.Lines.Column++
		case calc.LineDiagonal:
			s.Lines.Diagonal++
		}
		s.Lines.BySymbol[w.Head().Name]++
	}
}

// RecordSplices 累計對齊時走覆寫路徑的軸數
func (s *SpinRecorder) RecordSplices(n int) {
	s.Basic.Splices += n
}

// RecordWithPlayer 記錄並更新玩家資金，回傳玩家是否離場。
func (s *SpinRecorder) RecordWithPlayer(out slot.Outcome) bool {
	p := s.Player
	if p == nil {
		s.Record(out)
		return false
	}
	if p.Balance < s.Bet {
		return true
	}
	s.Record(out)

	p.Balance += out.Payout - s.Bet
	p.MaxBalance = max(p.MaxBalance, p.Balance)
	p.MinBalance = min(p.MinBalance, p.Balance)

	leave := false
	if p.Balance < s.Bet {
		p.Bust = true
		leave = true
	}
	if p.Balance >= p.leaveLine {
		p.Cashout = true
		leave = true
	}
	return leave
}

// Done 產出報表
func (s *SpinRecorder) Done() *stats.StatReport {
	b := s.Basic
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			Mode:        s.Mode,
			Bet:         s.Bet,
			TotalBet:    b.TotalBet,
			TotalWin:    b.TotalWin,
			HitRounds:   b.HitRounds,
			NoWinRounds: s.Dist[0],
			BigWins:     b.BigWins,
			Splices:     b.Splices,
			Rounds:      b.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      b.TotalWinMult,
			TotalWinMultSqSum: b.WinMultSqSum,
		},
		Dist: &stats.DistReport{
			WinBucket:  stats.Buckets.WinBucketStr(),
			WinCollect: append([]int(nil), s.Dist...),
		},
		Lines: &stats.LineReport{
			Row:      s.Lines.Row,
			Column:   s.Lines.Column,
			Diagonal: s.Lines.Diagonal,
			BySymbol: maps.Clone(s.Lines.BySymbol),
		},
	}
	if p := s.Player; p != nil {
		report.Player = &stats.PlayerReport{
			InitBalance: p.InitBalance,
			Balance:     p.Balance,
			MaxBalance:  p.MaxBalance,
			MinBalance:  p.MinBalance,
			Bust:        p.Bust,
			Cashout:     p.Cashout,
		}
	}
	report.Done()
	return report
}

func newPlayerRecord(balance float64) *PlayerRecord {
	return &PlayerRecord{
		InitBalance: balance,
		Balance:     balance,
		MaxBalance:  balance,
		MinBalance:  balance,
		leaveLine:   CashoutMult * balance,
	}
}
