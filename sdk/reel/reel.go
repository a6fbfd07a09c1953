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

// Package reel 實作加權輪帶：每次抽出一個符號，機率為 weight / Σweight。
package reel

import (
	"slices"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/sampler"
	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// Reel 持有抽樣池與建構時快取的 alias table，建好後不可變。
type Reel struct {
	symbols []symbol.Symbol
	table   *sampler.AliasTable

	// 不放回抽樣用：依名稱聚合權重
	names      []string
	nameSym    []symbol.Symbol
	nameWeight []float64
}

// New 建立輪帶。空池、負權重或權重總和 <= 0 回傳設定錯誤。
func New(symbols []symbol.Symbol) (*Reel, error) {
	if len(symbols) == 0 {
		return nil, errs.Config("reel: empty symbol pool")
	}
	weights := make([]float64, len(symbols))
	for i, s := range symbols {
		weights[i] = s.Weight
	}
	table, err := sampler.BuildAliasTable(weights)
	if err != nil {
		return nil, errs.Wrap(err, "reel: invalid weights")
	}
	r := &Reel{
		symbols: slices.Clone(symbols),
		table:   table,
	}
	idx := map[string]int{}
	for _, s := range symbols {
		if i, ok := idx[s.Name]; ok {
			r.nameWeight[i] += s.Weight
			continue
		}
		idx[s.Name] = len(r.names)
		r.names = append(r.names, s.Name)
		r.nameSym = append(r.nameSym, s)
		r.nameWeight = append(r.nameWeight, s.Weight)
	}
	return r, nil
}

// FromCatalog 以整份目錄作為抽樣池。
func FromCatalog(c *symbol.Catalog) (*Reel, error) {
	return New(c.Symbols())
}

// Draw 抽出一個符號。
func (r *Reel) Draw(c *core.Core) symbol.Symbol {
	return r.symbols[r.table.Pick(c)]
}

// DrawDistinct 抽出 n 個名稱互不相同的符號，依名稱聚合權重做不放回抽樣。
//
// n 超過可抽名稱數量屬於呼叫端違約，直接 panic。
func (r *Reel) DrawDistinct(c *core.Core, n int) []symbol.Symbol {
	if n > r.Distinct() {
		panic(errs.Invariant("reel: want %d distinct symbols, pool has %d", n, r.Distinct()))
	}
	picks := sampler.WeightedSample(c, r.nameWeight, n)
	out := make([]symbol.Symbol, len(picks))
	for i, p := range picks {
		out[i] = r.nameSym[p]
	}
	return out
}

// Distinct 可抽中的不同名稱數量。
func (r *Reel) Distinct() int {
	n := 0
	for _, w := range r.nameWeight {
		if w > 0 {
			n++
		}
	}
	return n
}

// Symbols 抽樣池複本
func (r *Reel) Symbols() []symbol.Symbol {
	return slices.Clone(r.symbols)
}

// Probability 單一名稱被抽中的機率。
func (r *Reel) Probability(name string) float64 {
	for i, n := range r.names {
		if n == name {
			return r.nameWeight[i] / r.table.Total
		}
	}
	return 0
}
