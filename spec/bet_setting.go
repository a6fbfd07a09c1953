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

package spec

import (
	"math"

	"github.com/zintix-labs/reelsync/errs"
)

// BetSetting 資金池與押注規則
//
//   - InitialPool: 開局資金
//   - InitialBet: 開局押注
//   - MinBet: 押注下限
//   - BetStep: 加減注步長
type BetSetting struct {
	InitialPool float64 `yaml:"initial_pool" json:"initial_pool"`
	InitialBet  float64 `yaml:"initial_bet"  json:"initial_bet"`
	MinBet      float64 `yaml:"min_bet"      json:"min_bet"`
	BetStep     float64 `yaml:"bet_step"     json:"bet_step"`
	initFlag    bool
}

// Init 補預設值並檢查
func (b *BetSetting) Init() error {
	if b.initFlag {
		return nil
	}
	setDefault(&b.InitialPool, 100)
	setDefault(&b.InitialBet, 5)
	setDefault(&b.MinBet, 1)
	setDefault(&b.BetStep, 1)
	for name, v := range map[string]float64{
		"initial_pool": b.InitialPool,
		"initial_bet":  b.InitialBet,
		"min_bet":      b.MinBet,
		"bet_step":     b.BetStep,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return errs.Config("bet.%s must be > 0, got %v", name, v)
		}
	}
	b.initFlag = true
	return nil
}

// Clamp 把押注限制在 [MinBet, pool]；pool 不足下限時固定為 MinBet（此時無法開局）。
func (b *BetSetting) Clamp(bet, pool float64) float64 {
	if math.IsNaN(bet) {
		bet = b.MinBet
	}
	if pool < b.MinBet {
		return b.MinBet
	}
	return min(max(bet, b.MinBet), pool)
}
