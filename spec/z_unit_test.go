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
	"strings"
	"testing"

	"github.com/zintix-labs/reelsync/errs"
)

const animatedYAML = `
game_name: Animated
rows: 3
reels: 3
draw_mode: animated
symbols:
  - { icon: "c", name: Cherry, multiplier: 2, addition: 0, weight: 50 }
  - { icon: "l", name: Lemon, multiplier: 3, addition: 0, weight: 30 }
  - { icon: "b", name: Bell, multiplier: 5, addition: 0, weight: 15 }
`

func TestYAMLDefaults(t *testing.T) {
	gs, err := GetGameSettingByYAML([]byte(animatedYAML))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if gs.GameName != "animated" {
		t.Fatalf("game name should be normalized, got %q", gs.GameName)
	}
	if gs.DrawMode != DrawAnimated {
		t.Fatalf("draw mode want animated, got %v", gs.DrawMode)
	}
	if gs.Bet.InitialPool != 100 || gs.Bet.InitialBet != 5 || gs.Bet.MinBet != 1 || gs.Bet.BetStep != 1 {
		t.Fatalf("bet defaults: %+v", gs.Bet)
	}
	a := gs.Animation
	if a.ReelLength != 50 || a.SymbolHeight != 100 || a.StopDistance != 15 || a.MinSpeed != 120 || a.DecelFactor != 0.8 {
		t.Fatalf("animation defaults: %+v", a)
	}
	if a.TargetOffset(2) != 320 || a.Speed(1) != 550 {
		t.Fatalf("per reel params: target=%v speed=%v", a.TargetOffset(2), a.Speed(1))
	}
	if gs.ColumnDetection() {
		t.Fatalf("animated mode should not detect columns by default")
	}
	if gs.Catalog == nil || gs.Catalog.Len() != 3 {
		t.Fatalf("catalog not built")
	}
}

func TestYAMLUnknownField(t *testing.T) {
	_, err := GetGameSettingByYAML([]byte(animatedYAML + "paylines: 9\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
	if !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("want config kind, got %v", err)
	}
}

func TestJSONSetting(t *testing.T) {
	js := `{"game_name":"j","rows":3,"reels":3,"draw_mode":"simple","column_wins":false,
	"symbols":[{"icon":"a","name":"A","multiplier":1,"addition":0.5,"weight":1}]}`
	gs, err := GetGameSettingByJSON([]byte(js))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if gs.ColumnDetection() {
		t.Fatalf("column_wins override ignored")
	}
}

func TestSettingRejects(t *testing.T) {
	cases := map[string]string{
		"not square":    strings.Replace(animatedYAML, "reels: 3", "reels: 4", 1),
		"bad mode":      strings.Replace(animatedYAML, "draw_mode: animated", "draw_mode: turbo", 1),
		"few symbols":   strings.Replace(animatedYAML, "  - { icon: \"b\", name: Bell, multiplier: 5, addition: 0, weight: 15 }\n", "", 1),
		"no name":       strings.Replace(animatedYAML, "game_name: Animated", "game_name: \" \"", 1),
		"bad decel":     animatedYAML + "animation:\n  decel_factor: 1.5\n",
		"short reel":    animatedYAML + "animation:\n  reel_length: 2\n",
		"negative pool": animatedYAML + "bet:\n  initial_pool: -1\n",
		"negative stop": animatedYAML + "animation:\n  stop_distance: -5\n",
		"negative min":  animatedYAML + "animation:\n  min_speed: -1\n",
		"negative slow": animatedYAML + "animation:\n  slow_zone: -100\n",
		"negative cap":  animatedYAML + "animation:\n  max_ticks_per_reel: -1\n",
	}
	for name, doc := range cases {
		if _, err := GetGameSettingByYAML([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestClassicAndEncode(t *testing.T) {
	gs := Classic()
	if !gs.ColumnDetection() {
		t.Fatalf("simple mode should detect columns")
	}
	raw, err := gs.EncodeYAML()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := GetGameSettingByYAML(raw)
	if err != nil {
		t.Fatalf("re-decode: %v\n%s", err, raw)
	}
	if back.Catalog.Len() != 5 || back.DrawMode != DrawSimple {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestBetClamp(t *testing.T) {
	b := BetSetting{}
	if err := b.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := b.Clamp(0.5, 100); got != 1 {
		t.Fatalf("below min: %v", got)
	}
	if got := b.Clamp(500, 100); got != 100 {
		t.Fatalf("above pool: %v", got)
	}
	if got := b.Clamp(5, 0.5); got != 1 {
		t.Fatalf("pool under min: %v", got)
	}
}

func TestParseDrawMode(t *testing.T) {
	if m, err := ParseDrawMode(" Animated "); err != nil || m != DrawAnimated {
		t.Fatalf("parse: %v %v", m, err)
	}
	if _, err := ParseDrawMode("x"); err == nil {
		t.Fatalf("expected error")
	}
}
