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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/reelsync/sdk/anim"
	"github.com/zintix-labs/reelsync/sdk/calc"
	"github.com/zintix-labs/reelsync/sdk/gen"
	"github.com/zintix-labs/reelsync/sdk/symbol"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 每格顯示寬度（emoji 佔兩格，左右各留空白）
const cellWidth = 4

var (
	hit     = color.New(color.FgYellow, color.Bold)
	printer = message.NewPrinter(language.English)
)

func money(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// cell 以顯示寬度置中，找不到 icon 時退回名稱
func cell(s symbol.Symbol) string {
	txt := s.Icon
	if txt == "" {
		txt = s.Name
	}
	w := runewidth.StringWidth(txt)
	if w >= cellWidth {
		return runewidth.Truncate(txt, cellWidth, "")
	}
	left := (cellWidth - w) / 2
	return strings.Repeat(" ", left) + txt + strings.Repeat(" ", cellWidth-w-left)
}

// winCells 中獎線經過的格子 (row, col)
func winCells(wins []calc.WinningLine, n int) map[[2]int]bool {
	out := map[[2]int]bool{}
	for _, w := range wins {
		for i := range n {
			switch w.Kind.Tag {
			case calc.LineRow:
				out[[2]int{w.Kind.Index, i}] = true
			case calc.LineColumn:
				out[[2]int{i, w.Kind.Index}] = true
			case calc.LineDiagonal:
				if w.Kind.Index == calc.DiagMain {
					out[[2]int{i, i}] = true
				} else {
					out[[2]int{i, n - 1 - i}] = true
				}
			}
		}
	}
	return out
}

func renderGrid(g gen.Grid, wins []calc.WinningLine) string {
	if g.Empty() {
		return ""
	}
	rows := g.RowsOf()
	marked := winCells(wins, len(rows))
	var sb strings.Builder
	for r, row := range rows {
		sb.WriteString("|")
		for c, s := range row {
			txt := cell(s)
			if marked[[2]int{r, c}] {
				txt = hit.Sprint(txt)
			}
			sb.WriteString(txt)
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderColumns 捲動中的可視窗（欄優先）與各軸狀態
func renderColumns(cols [][]symbol.Symbol, phases []anim.Phase) string {
	if len(cols) == 0 {
		return ""
	}
	var sb strings.Builder
	for r := range cols[0] {
		sb.WriteString("|")
		for _, col := range cols {
			sb.WriteString(cell(col[r]))
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.String()
	}
	sb.WriteString(strings.Join(names, " "))
	sb.WriteString("\n")
	return sb.String()
}

func renderWins(wins []calc.WinningLine, amount float64) string {
	if len(wins) == 0 {
		return "no win\n"
	}
	kinds := make([]string, len(wins))
	for i, w := range wins {
		kinds[i] = w.Kind.String() + " " + w.Head().Name
	}
	return fmt.Sprintf("win %s  %s\n", money(amount), strings.Join(kinds, ", "))
}

// redraw 把游標移回上一幀開頭後覆寫，回傳本幀行數
func redraw(w io.Writer, frame string, prev int) int {
	erase(w, prev)
	io.WriteString(w, frame)
	return strings.Count(frame, "\n")
}

func erase(w io.Writer, lines int) {
	if lines > 0 {
		fmt.Fprintf(w, "\033[%dA\033[J", lines)
	}
}
