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

// Package gen 由加權輪帶組成結果盤面。
package gen

import (
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/reel"
	"github.com/zintix-labs/reelsync/sdk/symbol"
	"github.com/zintix-labs/reelsync/spec"
)

// GenGridFn 依模式產生盤面。
type GenGridFn func(*GridGenerator) Grid

// genGridMap 模式與生成函式的綁定，初始化後不再修改。
var genGridMap = map[spec.DrawMode]GenGridFn{
	spec.DrawSimple:   genGridBySymbolWeight,
	spec.DrawAnimated: genGridByDistinctColumn,
}

// SpinGrid 每列每輪各抽一次，輪與輪、列與列彼此獨立。
func SpinGrid(c *core.Core, reels []*reel.Reel, rows int) Grid {
	cols := len(reels)
	g := Grid{Rows: rows, Cols: cols, Cells: make([]symbol.Symbol, rows*cols)}
	for row := range rows {
		for col, r := range reels {
			g.Cells[row*cols+col] = r.Draw(c)
		}
	}
	return g
}

// SpinColumns 每輪抽 rows 個不重複名稱的符號，作為動畫模式的停輪目標。
func SpinColumns(c *core.Core, reels []*reel.Reel, rows int) [][]symbol.Symbol {
	out := make([][]symbol.Symbol, len(reels))
	for col, r := range reels {
		out[col] = r.DrawDistinct(c, rows)
	}
	return out
}

// GridGenerator 綁定亂數、輪帶、列數與抽樣模式。
type GridGenerator struct {
	core  *core.Core
	Reels []*reel.Reel
	Rows  int
	Mode  spec.DrawMode
	genFn GenGridFn
}

// NewGridGenerator 建立生成器並檢查模式需求。
func NewGridGenerator(c *core.Core, reels []*reel.Reel, rows int, mode spec.DrawMode) (*GridGenerator, error) {
	if c == nil {
		return nil, errs.Config("grid generator: nil core")
	}
	if len(reels) == 0 || rows <= 0 {
		return nil, errs.Config("grid generator: invalid size reels=%d rows=%d", len(reels), rows)
	}
	fn, ok := genGridMap[mode]
	if !ok {
		return nil, errs.Config("grid generator: unknown draw mode %d", mode)
	}
	if mode == spec.DrawAnimated {
		for i, r := range reels {
			if r.Distinct() < rows {
				return nil, errs.Config("grid generator: reel %d has %d distinct symbols, animated mode needs %d", i, r.Distinct(), rows)
			}
		}
	}
	return &GridGenerator{core: c, Reels: reels, Rows: rows, Mode: mode, genFn: fn}, nil
}

// Generate 依模式產生一局盤面
func (gg *GridGenerator) Generate() Grid {
	return gg.genFn(gg)
}

// Columns 產生逐輪目標（動畫模式驅動 aligner 用）。
func (gg *GridGenerator) Columns() [][]symbol.Symbol {
	return gg.Generate().Columns()
}

func genGridBySymbolWeight(gg *GridGenerator) Grid {
	return SpinGrid(gg.core, gg.Reels, gg.Rows)
}

func genGridByDistinctColumn(gg *GridGenerator) Grid {
	return FromColumns(SpinColumns(gg.core, gg.Reels, gg.Rows))
}
