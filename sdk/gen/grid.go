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

package gen

import (
	"slices"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// Grid 一局的結果盤面，row-major：Cells[row*Cols+col]。
//
// 由產生器或 FromColumns 建立後只讀。
type Grid struct {
	Rows  int
	Cols  int
	Cells []symbol.Symbol
}

// NewGrid 由逐列資料建立盤面；列長不一致屬於呼叫端違約。
func NewGrid(rows [][]symbol.Symbol) Grid {
	if len(rows) == 0 {
		return Grid{}
	}
	cols := len(rows[0])
	g := Grid{Rows: len(rows), Cols: cols, Cells: make([]symbol.Symbol, 0, len(rows)*cols)}
	for r, row := range rows {
		if len(row) != cols {
			panic(errs.Invariant("grid: row %d has %d cells, want %d", r, len(row), cols))
		}
		g.Cells = append(g.Cells, row...)
	}
	return g
}

// FromColumns 把逐輪（由上到下）的欄資料轉成盤面：grid[row][col] = columns[col][row]。
func FromColumns(columns [][]symbol.Symbol) Grid {
	if len(columns) == 0 {
		return Grid{}
	}
	rows := len(columns[0])
	cols := len(columns)
	g := Grid{Rows: rows, Cols: cols, Cells: make([]symbol.Symbol, rows*cols)}
	for c, col := range columns {
		if len(col) != rows {
			panic(errs.Invariant("grid: column %d has %d cells, want %d", c, len(col), rows))
		}
		for r, s := range col {
			g.Cells[r*cols+c] = s
		}
	}
	return g
}

// Columns FromColumns 的反向：columns[col][row] = grid[row][col]。
func (g Grid) Columns() [][]symbol.Symbol {
	out := make([][]symbol.Symbol, g.Cols)
	for c := range g.Cols {
		out[c] = g.Column(c)
	}
	return out
}

// At 取得 (row, col)
func (g Grid) At(row, col int) symbol.Symbol {
	return g.Cells[row*g.Cols+col]
}

// Row 第 row 列複本
func (g Grid) Row(row int) []symbol.Symbol {
	return slices.Clone(g.Cells[row*g.Cols : (row+1)*g.Cols])
}

// Column 第 col 欄複本，由上到下
func (g Grid) Column(col int) []symbol.Symbol {
	out := make([]symbol.Symbol, g.Rows)
	for r := range g.Rows {
		out[r] = g.Cells[r*g.Cols+col]
	}
	return out
}

// RowsOf 逐列複本
func (g Grid) RowsOf() [][]symbol.Symbol {
	out := make([][]symbol.Symbol, g.Rows)
	for r := range g.Rows {
		out[r] = g.Row(r)
	}
	return out
}

// Names 逐列名稱，給 API 與 log 使用。
func (g Grid) Names() [][]string {
	out := make([][]string, g.Rows)
	for r := range g.Rows {
		out[r] = symbol.Names(g.Cells[r*g.Cols : (r+1)*g.Cols])
	}
	return out
}

func (g Grid) Empty() bool {
	return g.Rows == 0 || g.Cols == 0
}

// Square 對角線判定需要 Rows == Cols。
func (g Grid) Square() bool {
	return g.Rows == g.Cols
}
