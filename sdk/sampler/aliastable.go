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

package sampler

import (
	"math"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
)

// AliasTable Vose Alias Method（浮點版）。
//
// 符號權重來自設定檔，是任意正實數（50 / 30 / 15 / 4 / 1 或 0.25 這類），
// 因此以機率 [0,1] 建表，而不是整數 scaling。
//
// 權重為 0 的項目不進表：Index 只記錄正權重項目的原始索引，
// 浮點誤差殘留的槽位補成 1 時也不可能落到零權重項目上。
//
//   - 建表 O(N)，抽樣 O(1)，每次抽樣固定消耗 1 次 IntN + 1 次 Float64。
type AliasTable struct {
	Prob    []float64
	Aliases []int
	Index   []int // 槽位 -> 原始索引
	Size    int
	Total   float64
}

// BuildAliasTable 依權重建表。
//
// 回傳設定錯誤的情況：空陣列、任一權重為負或非有限值、權重總和 <= 0。
func BuildAliasTable[T Numbers](weights []T) (*AliasTable, error) {
	if len(weights) == 0 {
		return nil, errs.Config("alias table: empty weights")
	}
	total := 0.0
	index := make([]int, 0, len(weights))
	for i, w := range weights {
		f := float64(w)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errs.Config("alias table: weight[%d] is not finite", i)
		}
		if f < 0 {
			return nil, errs.Config("alias table: weight[%d] is negative (%v)", i, f)
		}
		if f == 0 {
			continue
		}
		total += f
		index = append(index, i)
	}
	if total <= 0 || len(index) == 0 {
		return nil, errs.Config("alias table: all weights are zero")
	}

	n := len(index)
	prob := make([]float64, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for slot, orig := range index {
		prob[slot] = float64(weights[orig]) * float64(n) / total
		if prob[slot] < 1 {
			small = append(small, slot)
		} else {
			large = append(large, slot)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		prob[l] = prob[l] + prob[s] - 1
		if prob[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 浮點殘差：剩下的槽位都視為滿槽
	for _, l := range large {
		prob[l] = 1
		aliases[l] = l
	}
	for _, s := range small {
		prob[s] = 1
		aliases[s] = s
	}

	return &AliasTable{
		Prob:    prob,
		Aliases: aliases,
		Index:   index,
		Size:    n,
		Total:   total,
	}, nil
}

// MustBuildAliasTable 同 BuildAliasTable，錯誤時 panic。用於常數權重。
func MustBuildAliasTable[T Numbers](weights []T) *AliasTable {
	at, err := BuildAliasTable(weights)
	if err != nil {
		panic(err)
	}
	return at
}

// Pick 抽出一個原始索引，空表回傳 -1。
func (at *AliasTable) Pick(c *core.Core) int {
	if at == nil || at.Size == 0 {
		return -1
	}
	slot := c.IntN(at.Size)
	if c.Float64() < at.Prob[slot] {
		return at.Index[slot]
	}
	return at.Index[at.Aliases[slot]]
}
