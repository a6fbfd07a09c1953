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

// Package stats 長期模擬的統計報表與玩家體驗估計。
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 遊戲統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Mult    *MultReport    `json:"Mult"`
	Dist    *DistReport    `json:"Dist"`
	Lines   *LineReport    `json:"Lines"`
	Player  *PlayerReport  `json:"Player,omitzero"`
	isDone  bool
}

type SummaryReport struct {
	GameName    string  `json:"GameName"`
	Mode        string  `json:"Mode"`
	Bet         float64 `json:"Bet"`
	TotalBet    float64 `json:"TotalBet"`
	TotalWin    float64 `json:"TotalWin"`
	RTP         float64 `json:"RTP"`
	RtpCI       CI      `json:"RtpCI"`
	Std         float64 `json:"Std"`
	Cv          float64 `json:"Cv"`
	HitRounds   int     `json:"HitRounds"`
	HitRate     float64 `json:"HitRate"`
	HitRateCI   CI      `json:"HitRateCI"`
	NoWinRounds int     `json:"NoWinRounds"`
	BigWins     int     `json:"BigWins"`
	Splices     int     `json:"Splices"`
	Rounds      int     `json:"Rounds"`
}

// MultReport 贏倍統計（贏分 / 押注）
type MultReport struct {
	TotalWinMult      float64 `json:"TotalWinMult"`
	TotalWinMultSqSum float64 `json:"TotalWinMultSqSum"` // 平方和
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket  []string  `json:"WinBucket"`
	WinCollect []int     `json:"WinCollect"`
	WinDist    []float64 `json:"WinDist"`
}

// LineReport 中獎線型與符號統計
type LineReport struct {
	Row      int            `json:"Row"`
	Column   int            `json:"Column"`
	Diagonal int            `json:"Diagonal"`
	BySymbol map[string]int `json:"BySymbol"`
}

// PlayerReport 玩家統計，需以帶本金的模擬才會填入
type PlayerReport struct {
	InitBalance float64 `json:"InitBalance"`
	Balance     float64 `json:"Balance"`
	MaxBalance  float64 `json:"MaxBalance"`
	MinBalance  float64 `json:"MinBalance"`
	Bust        bool    `json:"Bust"`
	Cashout     bool    `json:"Cashout"`
	Alive       bool    `json:"Alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數整理成最終統計並鎖定，重複呼叫不會再改動。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	if s.Summary.Rounds > 0 {
		s.Summary.HitRate = float64(s.Summary.HitRounds) / float64(s.Summary.Rounds)
		_, s.Summary.HitRateCI = proportionCICP(s.Summary.HitRounds, s.Summary.Rounds, 0.95)
	}
	if s.Dist != nil && s.Summary.Rounds > 0 {
		s.Dist.WinDist = make([]float64, len(s.Dist.WinCollect))
		for i, c := range s.Dist.WinCollect {
			s.Dist.WinDist[i] = float64(c) / float64(s.Summary.Rounds)
		}
	}
	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}
	s.isDone = true
}

// Rtp 總贏分 / 總押注
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return s.Summary.TotalWin / s.Summary.TotalBet
}

// Std 單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)
	sum := s.Mult.TotalWinMult
	variance := (s.Mult.TotalWinMultSqSum - sum*sum/rounds) / (rounds - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci RTP 95% 常態近似信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	return CI{Lo: max(rtp-1.96*se, 0.0), Hi: rtp + 1.96*se}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// WriteTable 以表格輸出摘要；ut 為模擬耗時，0 則不輸出速度。
func (s *StatReport) WriteTable(w io.Writer, ut time.Duration) error {
	s.Done()
	if ut > 0 {
		if _, err := io.WriteString(w, formatDuration(ut, s.Summary.Rounds)); err != nil {
			return err
		}
	}
	keys, msg := s.fmtBasic()
	_, err := io.WriteString(w, fmtTable(s.Summary.GameName, keys, msg))
	return err
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := max(d.Seconds(), 1e-9)
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":    sm.GameName,
		"Draw Mode":    sm.Mode,
		"Total Rounds": p.Sprintf("%d", sm.Rounds),
		"Bet":          p.Sprintf("%.2f", sm.Bet),
		"Total RTP":    p.Sprintf("%.2f %%", 100.0*sm.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi),
		"Total Bet":    p.Sprintf("%.2f", sm.TotalBet),
		"Total Win":    p.Sprintf("%.2f", sm.TotalWin),
		"Hit Rate":     p.Sprintf("%.2f %% [%.2f%%,%.2f%%]", 100.0*sm.HitRate, 100.0*sm.HitRateCI.Lo, 100.0*sm.HitRateCI.Hi),
		"NoWin Rounds": p.Sprintf("%d", sm.NoWinRounds),
		"Big Wins":     p.Sprintf("%d", sm.BigWins),
		"Splices":      p.Sprintf("%d", sm.Splices),
		"STD":          p.Sprintf("%.3f", sm.Std),
		"CV":           p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Draw Mode", "Total Rounds", "Bet", "Total RTP", "RTP 95% CI", "Total Bet", "Total Win", "Hit Rate", "NoWin Rounds", "Big Wins", "Splices", "STD", "CV"}
	if l := s.Lines; l != nil {
		basic["Row Lines"] = p.Sprintf("%d", l.Row)
		basic["Column Lines"] = p.Sprintf("%d", l.Column)
		basic["Diagonal Lines"] = p.Sprintf("%d", l.Diagonal)
		keys = append(keys, "Row Lines", "Column Lines", "Diagonal Lines")
	}
	return keys, basic
}

// fmtTable 依顯示寬度排版（CJK 與 emoji 佔兩格）
func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen, maxValLen := 0, 0
	for _, k := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(msg[k]))
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := max(totalInner-titleW-left, 0)

	var sb strings.Builder
	sb.WriteString(top)
	fmt.Fprintf(&sb, "|%s%s%s|\n", blank(left), title, blank(right))
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		fmt.Fprintf(&sb, "| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), v, blank(maxValLen-2-runewidth.StringWidth(v)))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
