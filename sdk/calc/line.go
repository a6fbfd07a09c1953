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

// Package calc 盤面判線與派彩計算。
package calc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// LineTag 線型標籤（封閉集合，消費端一律 switch 全部分支）
type LineTag uint8

const (
	LineRow LineTag = iota
	LineColumn
	LineDiagonal
)

var lineTagMap = map[LineTag]string{
	LineRow:      "Row",
	LineColumn:   "Column",
	LineDiagonal: "Diagonal",
}

func (t LineTag) String() string {
	if s, ok := lineTagMap[t]; ok {
		return s
	}
	return fmt.Sprintf("LineTag(%d)", uint8(t))
}

// 斜線索引
const (
	DiagMain = 0 // 左上 → 右下
	DiagAnti = 1 // 右上 → 左下
)

// LineKind 線型與索引。Diagonal 的 Index 只會是 DiagMain / DiagAnti。
type LineKind struct {
	Tag   LineTag
	Index int
}

func RowLine(i int) LineKind      { return LineKind{Tag: LineRow, Index: i} }
func ColumnLine(i int) LineKind   { return LineKind{Tag: LineColumn, Index: i} }
func DiagonalLine(i int) LineKind { return LineKind{Tag: LineDiagonal, Index: i} }

// String 形如 Row(0)、Diagonal(1)
func (k LineKind) String() string {
	return fmt.Sprintf("%s(%d)", k.Tag, k.Index)
}

func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 解析 String 的輸出，例如回放 HTTP 回應
func (k *LineKind) UnmarshalText(b []byte) error {
	name, idx, ok := strings.Cut(strings.TrimSuffix(string(b), ")"), "(")
	if !ok {
		return fmt.Errorf("calc: invalid line kind %q", b)
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return fmt.Errorf("calc: invalid line index in %q", b)
	}
	for t, n := range lineTagMap {
		if n == name {
			*k = LineKind{Tag: t, Index: i}
			return nil
		}
	}
	return fmt.Errorf("calc: unknown line tag %q", name)
}

// WinningLine 一條中獎線：同名符號序列與線型。
type WinningLine struct {
	Symbols []symbol.Symbol `json:"symbols"`
	Kind    LineKind        `json:"kind"`
}

// Head 中獎線的代表符號，派彩只看它。
func (w WinningLine) Head() symbol.Symbol {
	return w.Symbols[0]
}
