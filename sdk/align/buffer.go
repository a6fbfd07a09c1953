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

// Package align 循環輪帶緩衝與停輪對齊。
//
// 動畫輪帶是一段比可視窗長很多的循環符號序列，offset 決定目前露出哪一段。
// 停輪時 Aligner 負責讓可視窗剛好等於事先抽好的結果。
package align

import (
	"math"
	"slices"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// Window 可視窗高度
const Window = 3

// CircularBuffer 單軸循環緩衝
//
// Offset 目前位置（以符號高度為單位的距離）；Target 停輪位置。
// 長度在建構時保證 >= Window，之後不再改變。
type CircularBuffer struct {
	symbols []symbol.Symbol
	Height  float64
	Offset  float64
	Target  float64
}

// NewCircularBuffer 長度不足可視窗或高度非正回傳設定錯誤。
func NewCircularBuffer(symbols []symbol.Symbol, height float64) (*CircularBuffer, error) {
	if len(symbols) < Window {
		return nil, errs.Config("circular buffer: length %d shorter than window %d", len(symbols), Window)
	}
	if height <= 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		return nil, errs.Config("circular buffer: invalid symbol height %v", height)
	}
	return &CircularBuffer{symbols: slices.Clone(symbols), Height: height}, nil
}

// GenerateCircular 以 base 依序循環填滿 length 格。
func GenerateCircular(base []symbol.Symbol, length int) []symbol.Symbol {
	if len(base) == 0 || length <= 0 {
		return nil
	}
	out := make([]symbol.Symbol, length)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

// Regenerate 以新的序列覆蓋緩衝並歸零位置。長度規則同建構。
func (b *CircularBuffer) Regenerate(symbols []symbol.Symbol) error {
	if len(symbols) < Window {
		return errs.Config("circular buffer: length %d shorter than window %d", len(symbols), Window)
	}
	b.symbols = slices.Clone(symbols)
	b.Offset, b.Target = 0, 0
	return nil
}

func (b *CircularBuffer) Len() int {
	return len(b.symbols)
}

// At 循環索引
func (b *CircularBuffer) At(i int) symbol.Symbol {
	return b.symbols[wrap(i, len(b.symbols))]
}

// Symbols 緩衝內容複本
func (b *CircularBuffer) Symbols() []symbol.Symbol {
	return slices.Clone(b.symbols)
}

// Span 一圈的總距離 L*H
func (b *CircularBuffer) Span() float64 {
	return float64(len(b.symbols)) * b.Height
}

// StartIndex offset 對應的可視窗起點 int(offset/H) mod L
func (b *CircularBuffer) StartIndex(offset float64) int {
	if len(b.symbols) == 0 {
		return 0
	}
	return wrap(int(math.Floor(offset/b.Height)), len(b.symbols))
}

// Visible 目前 Offset 的可視窗
func (b *CircularBuffer) Visible() []symbol.Symbol {
	return VisibleWindow(b, b.Offset, Window)
}

// VisibleWindow 從 offset 對應的起點連續讀 count 格（循環）。純讀取。
func VisibleWindow(b *CircularBuffer, offset float64, count int) []symbol.Symbol {
	if b == nil || len(b.symbols) == 0 || count <= 0 {
		return nil
	}
	start := b.StartIndex(offset)
	out := make([]symbol.Symbol, count)
	for i := range out {
		out[i] = b.symbols[(start+i)%len(b.symbols)]
	}
	return out
}

func (b *CircularBuffer) overwrite(at int, syms []symbol.Symbol) {
	for i, s := range syms {
		b.symbols[wrap(at+i, len(b.symbols))] = s
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
