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

// Package anim 輪帶捲動的逐格狀態機。
//
// 每軸各自 Idle → Scrolling → Aligning → Stopped，由呼叫端以 Tick(dt) 推進；
// 同一時間只有一軸在捲動，停下後才輪到下一軸。
package anim

import (
	"fmt"
	"math"

	"github.com/zintix-labs/reelsync/sdk/align"
	"github.com/zintix-labs/reelsync/sdk/symbol"
	"github.com/zintix-labs/reelsync/spec"
)

// Phase 單軸狀態
type Phase uint8

const (
	Idle Phase = iota
	Scrolling
	Aligning
	Stopped
)

var phaseMap = map[Phase]string{
	Idle:      "idle",
	Scrolling: "scrolling",
	Aligning:  "aligning",
	Stopped:   "stopped",
}

func (p Phase) String() string {
	if s, ok := phaseMap[p]; ok {
		return s
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for k, v := range phaseMap {
		if v == string(b) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("anim: unknown phase %q", b)
}

// ReelAnim 單軸動畫狀態
type ReelAnim struct {
	Index  int
	Buffer *align.CircularBuffer
	Speed  float64
	Phase  Phase

	set    *spec.AnimSetting
	target []symbol.Symbol // 本局此軸要停的結果（上到下）
	last   align.Alignment // 最近一次對齊結果
}

func newReelAnim(i int, buf *align.CircularBuffer, set *spec.AnimSetting) *ReelAnim {
	return &ReelAnim{Index: i, Buffer: buf, set: set}
}

// Distance 目前位置到停輪位置的剩餘距離（只往前走，必要時繞一圈）
func (r *ReelAnim) Distance() float64 {
	b := r.Buffer
	if b.Target > b.Offset {
		return b.Target - b.Offset
	}
	return b.Span() - b.Offset + b.Target
}

// Tick 推進一格，回傳此軸是否在本格停下。
//
// Scrolling：距離小於 stop_distance 或速度低於 min_speed 時進入 Aligning，
// offset 吸附到停輪位置；否則前進 speed*dt，進入減速區後乘上 decel_factor（不低於 floor_speed）。
// Aligning：呼叫一次對齊器後進入 Stopped。
func (r *ReelAnim) Tick(dt float64, aligner *align.Aligner) bool {
	switch r.Phase {
	case Scrolling:
		set := r.set
		if r.Distance() < set.StopDistance || r.Speed < set.MinSpeed {
			r.Phase = Aligning
			r.Buffer.Offset = r.Buffer.Target
			r.Speed = 0
			return false
		}
		span := r.Buffer.Span()
		r.Buffer.Offset = math.Mod(r.Buffer.Offset+r.Speed*dt, span)
		if r.Distance() < set.SlowZone && r.Speed > set.FloorSpeed {
			r.Speed = max(r.Speed*set.DecelFactor, set.FloorSpeed)
		}
		return false
	case Aligning:
		r.align(aligner)
		return true
	default:
		return false
	}
}

func (r *ReelAnim) align(aligner *align.Aligner) {
	r.last = aligner.AlignReelTo(r.Buffer, r.target)
	r.Speed = 0
	r.Phase = Stopped
}

// Alignment 最近一次對齊結果
func (r *ReelAnim) Alignment() align.Alignment {
	return r.last
}

// Visible 目前可視窗
func (r *ReelAnim) Visible() []symbol.Symbol {
	return r.Buffer.Visible()
}
