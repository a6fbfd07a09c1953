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

package slot

import (
	"fmt"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/align"
	"github.com/zintix-labs/reelsync/sdk/anim"
	"github.com/zintix-labs/reelsync/sdk/calc"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/gen"
	"github.com/zintix-labs/reelsync/sdk/reel"
	"github.com/zintix-labs/reelsync/spec"
)

// Machine 掌管單一遊戲的抽樣鏈：讀取設定、建立輪帶、出盤、判線與派彩。
//
// Machine 本身不持有彩池，可供模擬器與 session 共用同一條流程。
type Machine struct {
	Core        *core.Core
	GameSetting *spec.GameSetting
	GameName    string
	Reels       []*reel.Reel
	Generator   *gen.GridGenerator
	Detector    *calc.WinDetector
	Aligner     *align.Aligner
}

// Outcome 一次出盤的結算結果
type Outcome struct {
	Grid   gen.Grid           `json:"-"`
	Wins   []calc.WinningLine `json:"wins"`
	Payout float64            `json:"payout"`
}

// ============================================================
// ** 創建機台 **
// ============================================================

// NewMachine 以呼叫端提供的設定與亂數核心建立機台。
func NewMachine(gs *spec.GameSetting, c *core.Core) (*Machine, error) {
	if gs == nil {
		return nil, errs.Config("machine: nil game setting")
	}
	if c == nil {
		return nil, errs.Config("machine: nil core")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	m := &Machine{
		Core:        c,
		GameSetting: gs,
		GameName:    gs.GameName,
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// ============================================================
// ** 以下公開方法 **
// ============================================================

// Spin 出一盤並結算。
func (m *Machine) Spin(bet float64) Outcome {
	return m.Resolve(m.Generator.Generate(), bet)
}

// Resolve 對既有盤面判線與計算派彩。
func (m *Machine) Resolve(g gen.Grid, bet float64) Outcome {
	wins := m.Detector.Find(g)
	return Outcome{Grid: g, Wins: wins, Payout: calc.TotalPayout(wins, bet)}
}

// Animated 是否為循環輪帶模式
func (m *Machine) Animated() bool {
	return m.GameSetting.DrawMode == spec.DrawAnimated
}

// NewSpinner 建立此機台的輪帶動畫，只在循環輪帶模式有意義。
func (m *Machine) NewSpinner() (*anim.Spinner, error) {
	if !m.Animated() {
		return nil, errs.Config("machine %s: spinner requires draw_mode animated", m.GameName)
	}
	gs := m.GameSetting
	return anim.NewSpinner(gs.Animation, gs.Catalog.Symbols(), gs.Reels, m.Aligner)
}

// ============================================================
// ** 以下內部方法 **
// ============================================================

func (m *Machine) init() error {
	gs := m.GameSetting

	// 每軸使用同一份符號池
	m.Reels = make([]*reel.Reel, gs.Reels)
	for i := range m.Reels {
		r, err := reel.FromCatalog(gs.Catalog)
		if err != nil {
			return errs.Wrap(err, fmt.Sprintf("build reel failed: game=%q reel=%d", m.GameName, i))
		}
		m.Reels[i] = r
	}

	g, err := gen.NewGridGenerator(m.Core, m.Reels, gs.Rows, gs.DrawMode)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf("build generator failed: game=%q", m.GameName))
	}
	m.Generator = g
	m.Detector = calc.NewWinDetector(calc.DetectOptions{Columns: gs.ColumnDetection()})
	m.Aligner = align.NewAligner(m.Core)
	return nil
}
