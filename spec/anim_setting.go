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

// AnimSetting 循環輪帶動畫參數。零值欄位在 Init 時補上預設值。
//
// 距離與速度的單位是「符號高度單位」：offset / SymbolHeight 即為輪帶索引。
type AnimSetting struct {
	ReelLength       int     `yaml:"reel_length" json:"reel_length"`
	SymbolHeight     float64 `yaml:"symbol_height" json:"symbol_height"`
	Visible          int     `yaml:"visible" json:"visible"`
	BaseTargetOffset float64 `yaml:"base_target_offset" json:"base_target_offset"`
	TargetOffsetStep float64 `yaml:"target_offset_step" json:"target_offset_step"`
	BaseSpeed        float64 `yaml:"base_speed" json:"base_speed"`
	SpeedStep        float64 `yaml:"speed_step" json:"speed_step"`
	StopDistance     float64 `yaml:"stop_distance" json:"stop_distance"`
	MinSpeed         float64 `yaml:"min_speed" json:"min_speed"`
	SlowZone         float64 `yaml:"slow_zone" json:"slow_zone"`
	DecelFactor      float64 `yaml:"decel_factor" json:"decel_factor"`
	FloorSpeed       float64 `yaml:"floor_speed" json:"floor_speed"`
	FrameDT          float64 `yaml:"frame_dt" json:"frame_dt"`
	KeepBuffer       bool    `yaml:"keep_buffer" json:"keep_buffer"`
	MaxTicksPerReel  int     `yaml:"max_ticks_per_reel" json:"max_ticks_per_reel"`
	initFlag         bool
}

// DefaultAnimSetting 預設動畫參數
func DefaultAnimSetting() AnimSetting {
	a := AnimSetting{}
	_ = a.Init()
	return a
}

// Init 補預設值並檢查
func (a *AnimSetting) Init() error {
	if a.initFlag {
		return nil
	}
	setDefaultInt(&a.ReelLength, 50)
	setDefault(&a.SymbolHeight, 100)
	setDefaultInt(&a.Visible, 3)
	setDefault(&a.BaseTargetOffset, 300)
	setDefault(&a.TargetOffsetStep, 10)
	setDefault(&a.BaseSpeed, 500)
	setDefault(&a.SpeedStep, 50)
	setDefault(&a.StopDistance, 15)
	setDefault(&a.MinSpeed, 120)
	setDefault(&a.SlowZone, 100)
	setDefault(&a.DecelFactor, 0.8)
	setDefault(&a.FloorSpeed, 100)
	setDefault(&a.FrameDT, 1.0/60.0)
	setDefaultInt(&a.MaxTicksPerReel, 100000)

	if a.Visible != 3 {
		return errs.Config("animation.visible must be 3, got %d", a.Visible)
	}
	if a.ReelLength < a.Visible {
		return errs.Config("animation.reel_length %d shorter than visible window %d", a.ReelLength, a.Visible)
	}
	for name, v := range map[string]float64{
		"symbol_height": a.SymbolHeight,
		"base_speed":    a.BaseSpeed,
		"frame_dt":      a.FrameDT,
		"floor_speed":   a.FloorSpeed,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return errs.Config("animation.%s must be > 0, got %v", name, v)
		}
	}
	if a.DecelFactor <= 0 || a.DecelFactor >= 1 {
		return errs.Config("animation.decel_factor must be in (0,1), got %v", a.DecelFactor)
	}
	if a.BaseTargetOffset < 0 || a.TargetOffsetStep < 0 || a.SpeedStep < 0 {
		return errs.Config("animation offsets and steps must be >= 0")
	}
	for name, v := range map[string]float64{
		"stop_distance": a.StopDistance,
		"min_speed":     a.MinSpeed,
		"slow_zone":     a.SlowZone,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.Config("animation.%s must be >= 0, got %v", name, v)
		}
	}
	// 上限為 0 或負值時 Finish 會一格都不推
	if a.MaxTicksPerReel <= 0 {
		return errs.Config("animation.max_ticks_per_reel must be > 0, got %d", a.MaxTicksPerReel)
	}
	a.initFlag = true
	return nil
}

// TargetOffset 第 i 輪的停輪目標位置
func (a *AnimSetting) TargetOffset(i int) float64 {
	return a.BaseTargetOffset + float64(i)*a.TargetOffsetStep
}

// Speed 第 i 輪的初速
func (a *AnimSetting) Speed(i int) float64 {
	return a.BaseSpeed + float64(i)*a.SpeedStep
}

func setDefault(p *float64, v float64) {
	if *p == 0 {
		*p = v
	}
}

func setDefaultInt(p *int, v int) {
	if *p == 0 {
		*p = v
	}
}
