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

package calc

import (
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/gen"
	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// DetectOptions 判線選項
//
// Columns 是否判定直線。獨立逐格抽樣的盤面才有意義；
// 循環輪帶模式每軸各自停輪，直線由設定關閉。
type DetectOptions struct {
	Columns bool
}

// linePass 單一線型的掃描，結果 append 到 dst。
type linePass func(g gen.Grid, dst []WinningLine) []WinningLine

// WinDetector 依選項組好掃描順序：列 → 直 → 斜。
type WinDetector struct {
	opt    DetectOptions
	passes []linePass
}

func NewWinDetector(opt DetectOptions) *WinDetector {
	d := &WinDetector{opt: opt}
	d.passes = append(d.passes, findRows)
	if opt.Columns {
		d.passes = append(d.passes, findColumns)
	}
	d.passes = append(d.passes, findDiagonals)
	return d
}

func (d *WinDetector) Options() DetectOptions {
	return d.opt
}

// Find 回傳所有中獎線，沒有中獎回傳 nil。
//
// 盤面非方陣時斜線無定義，屬於呼叫端違約，直接 panic。
func (d *WinDetector) Find(g gen.Grid) []WinningLine {
	if g.Empty() {
		return nil
	}
	if !g.Square() {
		panic(errs.Invariant("find wins: grid %dx%d is not square", g.Rows, g.Cols))
	}
	var wins []WinningLine
	for _, pass := range d.passes {
		wins = pass(g, wins)
	}
	return wins
}

// FindWins 單次判線的便捷入口。
func FindWins(g gen.Grid, opt DetectOptions) []WinningLine {
	return NewWinDetector(opt).Find(g)
}

func findRows(g gen.Grid, dst []WinningLine) []WinningLine {
	for r := range g.Rows {
		if line := g.Row(r); uniform(line) {
			dst = append(dst, WinningLine{Symbols: line, Kind: RowLine(r)})
		}
	}
	return dst
}

func findColumns(g gen.Grid, dst []WinningLine) []WinningLine {
	for c := range g.Cols {
		if line := g.Column(c); uniform(line) {
			dst = append(dst, WinningLine{Symbols: line, Kind: ColumnLine(c)})
		}
	}
	return dst
}

func findDiagonals(g gen.Grid, dst []WinningLine) []WinningLine {
	n := g.Rows
	main := make([]symbol.Symbol, n)
	anti := make([]symbol.Symbol, n)
	for i := range n {
		main[i] = g.At(i, i)
		anti[i] = g.At(i, n-1-i)
	}
	if uniform(main) {
		dst = append(dst, WinningLine{Symbols: main, Kind: DiagonalLine(DiagMain)})
	}
	if uniform(anti) {
		dst = append(dst, WinningLine{Symbols: anti, Kind: DiagonalLine(DiagAnti)})
	}
	return dst
}

// uniform 整條線與首格同名（只比名稱）
func uniform(line []symbol.Symbol) bool {
	if len(line) == 0 {
		return false
	}
	for _, s := range line[1:] {
		if !s.SameName(line[0]) {
			return false
		}
	}
	return true
}
