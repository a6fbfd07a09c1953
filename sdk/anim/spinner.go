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

package anim

import (
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/align"
	"github.com/zintix-labs/reelsync/sdk/symbol"
	"github.com/zintix-labs/reelsync/spec"
)

// Spinner 依序停輪的多軸動畫。
type Spinner struct {
	set     spec.AnimSetting
	base    []symbol.Symbol // 生成循環緩衝用的基底序列
	aligner *align.Aligner
	reels   []*ReelAnim
	current int  // 目前捲動中的軸
	active  bool // Start 之後、全部停下或 Cancel 之前
}

// NewSpinner 建立 reels 個軸，每軸以 base 循環生成長度 ReelLength 的緩衝。
func NewSpinner(set spec.AnimSetting, base []symbol.Symbol, reels int, aligner *align.Aligner) (*Spinner, error) {
	if err := set.Init(); err != nil {
		return nil, err
	}
	if reels <= 0 {
		return nil, errs.Config("spinner: reel count must be > 0, got %d", reels)
	}
	if aligner == nil {
		return nil, errs.Config("spinner: nil aligner")
	}
	s := &Spinner{set: set, base: base, aligner: aligner, reels: make([]*ReelAnim, reels)}
	for i := range s.reels {
		buf, err := align.NewCircularBuffer(align.GenerateCircular(base, set.ReelLength), set.SymbolHeight)
		if err != nil {
			return nil, errs.Wrap(err, "spinner: build buffer")
		}
		s.reels[i] = newReelAnim(i, buf, &s.set)
	}
	return s, nil
}

// Start 開始新的一局：targets 為每軸要停的結果（欄優先）。
//
// 未設定 keep_buffer 時每局重新生成緩衝，避免覆寫累積讓符號比例漂移。
func (s *Spinner) Start(targets [][]symbol.Symbol) {
	if len(targets) != len(s.reels) {
		panic(errs.Invariant("spinner: %d targets for %d reels", len(targets), len(s.reels)))
	}
	for i, r := range s.reels {
		if !s.set.KeepBuffer {
			if err := r.Buffer.Regenerate(align.GenerateCircular(s.base, s.set.ReelLength)); err != nil {
				panic(errs.Invariant("spinner: regenerate reel %d: %v", i, err))
			}
		}
		r.target = targets[i]
		r.last = align.Alignment{}
		r.Buffer.Offset = 0
		r.Buffer.Target = s.set.TargetOffset(i)
		r.Speed = s.set.Speed(i)
		r.Phase = Idle
	}
	s.current = 0
	s.reels[0].Phase = Scrolling
	s.active = true
}

// Tick 推進目前捲動中的軸；最後一軸停下時回傳 true。
func (s *Spinner) Tick(dt float64) bool {
	if !s.active {
		return false
	}
	if s.reels[s.current].Tick(dt, s.aligner) {
		s.advance()
	}
	return !s.active
}

// Finish 跳過動畫：剩下的軸依序直接對齊停下。
func (s *Spinner) Finish() {
	if !s.active {
		return
	}
	for s.active {
		s.reels[s.current].align(s.aligner)
		s.advance()
	}
}

// Cancel 中止本局，所有軸回到 Idle，丟棄未完成的對齊。
func (s *Spinner) Cancel() {
	for _, r := range s.reels {
		r.Phase = Idle
		r.Speed = 0
		r.target = nil
	}
	s.current = 0
	s.active = false
}

func (s *Spinner) advance() {
	s.current++
	if s.current >= len(s.reels) {
		s.current = len(s.reels) - 1
		s.active = false
		return
	}
	s.reels[s.current].Phase = Scrolling
}

// Active 是否還有軸在動
func (s *Spinner) Active() bool {
	return s.active
}

// Current 目前捲動中的軸索引
func (s *Spinner) Current() int {
	return s.current
}

func (s *Spinner) Setting() spec.AnimSetting {
	return s.set
}

func (s *Spinner) Reel(i int) *ReelAnim {
	return s.reels[i]
}

func (s *Spinner) Len() int {
	return len(s.reels)
}

func (s *Spinner) Phases() []Phase {
	out := make([]Phase, len(s.reels))
	for i, r := range s.reels {
		out[i] = r.Phase
	}
	return out
}

// Visible 每軸目前露出的符號（欄優先）
func (s *Spinner) Visible() [][]symbol.Symbol {
	out := make([][]symbol.Symbol, len(s.reels))
	for i, r := range s.reels {
		out[i] = r.Visible()
	}
	return out
}

func (s *Spinner) Alignments() []align.Alignment {
	out := make([]align.Alignment, len(s.reels))
	for i, r := range s.reels {
		out[i] = r.last
	}
	return out
}
