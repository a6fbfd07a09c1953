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
	"container/heap"

	"github.com/zintix-labs/reelsync/sdk/core"
)

type weightItem struct {
	idx   int
	score float64
}

// weightHeap Max-Heap：h[0] 是目前入選者中分數最大（最該淘汰）的那個。
type weightHeap []weightItem

func (h weightHeap) Len() int           { return len(h) }
func (h weightHeap) Less(i, j int) bool { return h[i].score > h[j].score }
func (h weightHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *weightHeap) Push(x any) {
	*h = append(*h, x.(weightItem))
}

func (h *weightHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// WeightedSample 加權不放回抽樣，回傳前 K 名的原始索引（依名次排序）。
//
// Efraimidis-Spirakis A-Res：Score_i = Exp(1) / w_i，分數越小名次越前；
// 排序結果與「逐次抽出、移除、再抽」的分布相同。
//
// 權重 <= 0 的項目永不入選；正權重項目少於 k 時回傳長度小於 k。
// 負權重或非有限值由呼叫端在建構期擋下，這裡一律視為 0。
func WeightedSample[T Numbers](c *core.Core, weights []T, k int) []int {
	if k <= 0 || len(weights) == 0 {
		return []int{}
	}
	if k > len(weights) {
		k = len(weights)
	}

	h := make(weightHeap, 0, k)
	for i, w := range weights {
		f := float64(w)
		if !(f > 0) {
			continue
		}
		score := c.ExpFloat64() / f
		if h.Len() < k {
			heap.Push(&h, weightItem{idx: i, score: score})
			continue
		}
		if score < h[0].score {
			h[0] = weightItem{idx: i, score: score}
			heap.Fix(&h, 0)
		}
	}

	n := h.Len()
	result := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(weightItem).idx
	}
	return result
}
