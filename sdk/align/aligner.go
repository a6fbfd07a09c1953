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

package align

import (
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/symbol"
)

// Alignment 一次對齊的結果
type Alignment struct {
	Start   int     `json:"start"`   // 可視窗起點索引
	Matches int     `json:"matches"` // 搜尋階段最佳吻合數
	Spliced bool    `json:"spliced"` // 是否走覆寫路徑
	Offset  float64 `json:"offset"`  // 最終 offset = Start * H
}

// Search 在循環緩衝中找與 target 最吻合的起點。
//
// 只比較前 min(Window, len(target)) 格的名稱；僅在嚴格更多吻合時更新，
// 平手保留最小起點；遇到全吻合立即停止。
func Search(b *CircularBuffer, target []symbol.Symbol) (start, matches int) {
	n := min(Window, len(target))
	L := b.Len()
	if n == 0 || L == 0 {
		return 0, 0
	}
	best, bestStart := 0, 0
	for s := range L {
		m := 0
		for i := range n {
			if b.symbols[(s+i)%L].SameName(target[i]) {
				m++
			}
		}
		if m > best {
			best, bestStart = m, s
		}
		if best == n {
			break
		}
	}
	return bestStart, best
}

// Aligner 停輪對齊器。覆寫位置從注入的 core 取亂數。
type Aligner struct {
	core *core.Core
}

func NewAligner(c *core.Core) *Aligner {
	return &Aligner{core: c}
}

// AlignReelTo 讓緩衝的可視窗等於 target，並把 Offset 與 Target 設到結果位置。
//
// 先搜尋；找不到完整吻合就在 [0, L-Window) 隨機挑一個位置覆寫 target
// （L == Window 時固定為 0），所以一定成功。
// 空緩衝或空 target 不做事；target 比緩衝長屬於呼叫端違約，直接 panic。
func (a *Aligner) AlignReelTo(b *CircularBuffer, target []symbol.Symbol) Alignment {
	if b == nil || b.Len() == 0 || len(target) == 0 {
		return Alignment{}
	}
	L := b.Len()
	if len(target) > L {
		panic(errs.Invariant("align: target length %d exceeds buffer length %d", len(target), L))
	}
	n := min(Window, len(target))

	start, matches := Search(b, target)
	res := Alignment{Start: start, Matches: matches}
	if matches < n {
		p := 0
		if L > Window {
			p = a.core.IntN(L - Window)
		}
		b.overwrite(p, target[:n])
		res.Start = p
		res.Spliced = true
	}
	res.Offset = float64(res.Start) * b.Height
	b.Offset = res.Offset
	b.Target = res.Offset
	return res
}
