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

package stats

import (
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// EstimatorPlayers 多位玩家模擬後的體驗評估
type EstimatorPlayers struct {
	Players     int
	RtpStat     RtpStat
	EventStat   EventStat
	SessionStat SessionStat
}

// RtpStat 玩家體驗到的 RTP 分布
type RtpStat struct {
	ExpMedian PointStat // 中位數
	ExpPerc   ExpPerc   // 玩家分位數對應的 RTP
	RtpPerc   RtpPerc   // RTP 門檻對應的玩家比例
}

// ExpPerc 最差 10% / 33% ... 玩家的 RTP
type ExpPerc struct {
	ExpP10 PointStat
	ExpP33 PointStat
	ExpP67 PointStat
	ExpP90 PointStat
}

// RtpPerc RTP <= 30% / 50% ... 的玩家比例
type RtpPerc struct {
	Rtp30  PointStat
	Rtp50  PointStat
	Rtp70  PointStat
	Rtp100 PointStat
}

// PointStat 點估計與信賴區間
type PointStat struct {
	Hat float64
	CI  CI
}

// EventStat 玩家遇到事件的次數分布
type EventStat struct {
	BigWin EventCount
	Bucket BucketEvent
}

// EventCount 0 / 1 / 2 / 3+ 次的玩家比例
type EventCount struct {
	Zero PointStat
	One  PointStat
	Two  PointStat
	More PointStat
}

type BucketEvent struct {
	BucketLabel []string
	BucketCount []EventCount
}

// SessionStat 玩家離場原因
type SessionStat struct {
	Bust    PointStat // 破產
	Cashout PointStat // 贏滿離場
	Alive   PointStat // 玩到局數上限
}

// ============================================================
// ** 對外 : 用戶體驗評估 **
// ============================================================

// EstimatorPlayerExp 以每位玩家一份報表估計體驗分布，區間一律 95%。
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	rtp := make([]float64, n)
	for i, s := range sts {
		s.Done()
		rtp[i] = s.Rtp()
	}
	slices.Sort(rtp)

	quant := func(q float64) PointStat {
		lo, hi := quantileCI(rtp, q, 0.95)
		return PointStat{Hat: quantilePoint(rtp, q), CI: CI{Lo: lo, Hi: hi}}
	}
	below := func(x float64) PointStat {
		k := 0
		for _, v := range rtp {
			if v <= x {
				k++
			}
		}
		hat, ci := proportionCICP(k, n, 0.95)
		return PointStat{Hat: hat, CI: ci}
	}
	out.RtpStat = RtpStat{
		ExpMedian: quant(0.5),
		ExpPerc: ExpPerc{
			ExpP10: quant(0.10),
			ExpP33: quant(1.0 / 3.0),
			ExpP67: quant(2.0 / 3.0),
			ExpP90: quant(0.90),
		},
		RtpPerc: RtpPerc{
			Rtp30:  below(0.30),
			Rtp50:  below(0.50),
			Rtp70:  below(0.70),
			Rtp100: below(1.00),
		},
	}

	big := make([]int, n)
	for i, s := range sts {
		big[i] = s.Summary.BigWins
	}
	out.EventStat.BigWin = eventCount(big)

	labels := Buckets.WinBucketStr()
	out.EventStat.Bucket = BucketEvent{BucketLabel: labels, BucketCount: make([]EventCount, len(labels))}
	for bi := range labels {
		cnt := make([]int, n)
		for i, s := range sts {
			if s.Dist != nil && bi < len(s.Dist.WinCollect) {
				cnt[i] = s.Dist.WinCollect[bi]
			}
		}
		out.EventStat.Bucket.BucketCount[bi] = eventCount(cnt)
	}

	var bustK, cashK, aliveK int
	for _, s := range sts {
		if s.Player == nil {
			continue
		}
		if s.Player.Bust {
			bustK++
		}
		if s.Player.Cashout {
			cashK++
		}
		if s.Player.Alive {
			aliveK++
		}
	}
	point := func(k int) PointStat {
		hat, ci := proportionCICP(k, n, 0.95)
		return PointStat{Hat: hat, CI: ci}
	}
	out.SessionStat = SessionStat{Bust: point(bustK), Cashout: point(cashK), Alive: point(aliveK)}
	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

func eventCount(counts []int) EventCount {
	var c [4]int
	for _, v := range counts {
		c[min(max(v, 0), 3)]++
	}
	n := len(counts)
	ps := func(k int) PointStat {
		hat, ci := proportionCICP(k, n, 0.95)
		return PointStat{Hat: hat, CI: ci}
	}
	return EventCount{Zero: ps(c[0]), One: ps(c[1]), Two: ps(c[2]), More: ps(c[3])}
}

// proportionCICP 二項比例的 Clopper–Pearson 精確區間
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)
	if k == 0 {
		ci.Lo = 0
	} else {
		ci.Lo = distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		ci.Hi = distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	}
	return
}

// quantileCI 第 q 分位的區間：順序統計量的秩視為二項，以 Beta 反推 p 範圍再換回樣本索引。
// sorted 必須已排序。
func quantileCI(sorted []float64, q, confidence float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return sorted[0], sorted[0]
	}
	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)

	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui--
	}
	ui = min(max(ui, 0), n-1)
	return sorted[li], sorted[ui]
}

// quantilePoint 最近秩法，sorted 必須已排序
func quantilePoint(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	return sorted[min(max(int(q*float64(n)), 0), n-1)]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

// WriteTable 以文字表格輸出
func (est *EstimatorPlayers) WriteTable(w io.Writer) error {
	rs := est.RtpStat
	rtpKeys := []string{"Median RTP", "P10 RTP", "P33 RTP", "P67 RTP", "P90 RTP",
		"≤30% RTP (players)", "≤50% RTP (players)", "≤70% RTP (players)", "≤100% RTP (players)"}
	rtpMsg := map[string]string{
		"Median RTP":          fmtPoint(rs.ExpMedian),
		"P10 RTP":             fmtPoint(rs.ExpPerc.ExpP10),
		"P33 RTP":             fmtPoint(rs.ExpPerc.ExpP33),
		"P67 RTP":             fmtPoint(rs.ExpPerc.ExpP67),
		"P90 RTP":             fmtPoint(rs.ExpPerc.ExpP90),
		"≤30% RTP (players)":  fmtPoint(rs.RtpPerc.Rtp30),
		"≤50% RTP (players)":  fmtPoint(rs.RtpPerc.Rtp50),
		"≤70% RTP (players)":  fmtPoint(rs.RtpPerc.Rtp70),
		"≤100% RTP (players)": fmtPoint(rs.RtpPerc.Rtp100),
	}
	bigKeys := []string{"0 times", "1 time", "2 times", "3+ times"}
	bw := est.EventStat.BigWin
	bigMsg := map[string]string{
		"0 times":  fmtPoint(bw.Zero),
		"1 time":   fmtPoint(bw.One),
		"2 times":  fmtPoint(bw.Two),
		"3+ times": fmtPoint(bw.More),
	}
	ss := est.SessionStat
	sessionKeys := []string{"Bust", "Cashout", "Alive"}
	sessionMsg := map[string]string{
		"Bust":    fmtPoint(ss.Bust),
		"Cashout": fmtPoint(ss.Cashout),
		"Alive":   fmtPoint(ss.Alive),
	}

	out := fmtTable(fmt.Sprintf("RTP (%d players)", est.Players), rtpKeys, rtpMsg)
	out += fmtTable(fmt.Sprintf("Big wins (>= %gx) per player", BigWinMult), bigKeys, bigMsg)
	bk := est.EventStat.Bucket
	bucketMsg := make(map[string]string, len(bk.BucketLabel))
	for i, label := range bk.BucketLabel {
		bucketMsg[label] = fmtEventCount(bk.BucketCount[i])
	}
	out += fmtTable("Win buckets per player", bk.BucketLabel, bucketMsg)
	out += fmtTable("Session outcome", sessionKeys, sessionMsg)
	_, err := io.WriteString(w, out)
	return err
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtPoint(p PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(p.Hat), fmtPct01(p.CI.Lo), fmtPct01(p.CI.Hi))
}

func fmtEventCount(ec EventCount) string {
	return fmt.Sprintf("0x: %s | 1x: %s | 2x: %s | 3+x: %s",
		fmtPct01(ec.Zero.Hat), fmtPct01(ec.One.Hat), fmtPct01(ec.Two.Hat), fmtPct01(ec.More.Hat))
}
