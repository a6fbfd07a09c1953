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

// Package spec 定義遊戲設定檔（YAML / JSON）與其驗證。
//
// 所有設定在 Init 之後才可使用；Init 具冪等性。
package spec

import (
	"strings"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// GameSetting 單一遊戲設定
type GameSetting struct {
	GameName   string          `yaml:"game_name"   json:"game_name"`
	Rows       int             `yaml:"rows"        json:"rows"`
	Reels      int             `yaml:"reels"       json:"reels"`
	DrawMode   DrawMode        `yaml:"draw_mode"   json:"draw_mode"`
	ColumnWins *bool           `yaml:"column_wins" json:"column_wins,omitempty"`
	Bet        BetSetting      `yaml:"bet"         json:"bet"`
	Symbols    []symbol.Symbol `yaml:"symbols"     json:"symbols"`
	Animation  AnimSetting     `yaml:"animation"   json:"animation"`
	Catalog    *symbol.Catalog `yaml:"-"           json:"-"`
	initFlag   bool
}

// Init 建立符號目錄並檢查所有子設定
func (gs *GameSetting) Init() error {
	if gs.initFlag {
		return nil
	}
	gs.GameName = strings.ToLower(strings.TrimSpace(gs.GameName))
	if gs.GameName == "" {
		return errs.Config("game_name required")
	}
	if gs.Rows <= 0 || gs.Reels <= 0 {
		return errs.Config("game %s: invalid dimensions rows=%d reels=%d", gs.GameName, gs.Rows, gs.Reels)
	}
	// 對角線判定需要方陣
	if gs.Rows != gs.Reels {
		return errs.Config("game %s: rows (%d) must equal reels (%d) for diagonal lines", gs.GameName, gs.Rows, gs.Reels)
	}
	if _, ok := drawModeName[gs.DrawMode]; !ok {
		return errs.Config("game %s: unknown draw mode %d", gs.GameName, gs.DrawMode)
	}
	cat, err := symbol.NewCatalog(gs.Symbols)
	if err != nil {
		return errs.Wrap(err, "game "+gs.GameName+": symbols")
	}
	gs.Catalog = cat
	if err := gs.Bet.Init(); err != nil {
		return errs.Wrap(err, "game "+gs.GameName+": bet")
	}
	if gs.DrawMode == DrawAnimated {
		if err := gs.Animation.Init(); err != nil {
			return errs.Wrap(err, "game "+gs.GameName+": animation")
		}
		if gs.Rows != gs.Animation.Visible {
			return errs.Config("game %s: animated mode shows %d rows, got rows=%d", gs.GameName, gs.Animation.Visible, gs.Rows)
		}
		if n := cat.DistinctDrawable(); n < gs.Rows {
			return errs.Config("game %s: animated mode needs %d distinct symbols per reel, catalog has %d", gs.GameName, gs.Rows, n)
		}
	}
	gs.initFlag = true
	return nil
}

// ColumnDetection 直線判定開關：設定檔有指定就照指定，否則只在獨立抽樣模式開啟。
func (gs *GameSetting) ColumnDetection() bool {
	if gs.ColumnWins != nil {
		return *gs.ColumnWins
	}
	return gs.DrawMode == DrawSimple
}

// Classic 內建經典設定：3x3、獨立抽樣。
func Classic() *GameSetting {
	gs := &GameSetting{
		GameName: "classic",
		Rows:     3,
		Reels:    3,
		DrawMode: DrawSimple,
		Symbols:  symbol.Classic(),
	}
	if err := gs.Init(); err != nil {
		panic(err)
	}
	return gs
}
