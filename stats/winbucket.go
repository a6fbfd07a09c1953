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

package stats

import (
	"sort"
)

// BigWinMult 大獎門檻（贏分 / 押注）
const BigWinMult = 10.0

// WinBuckets 贏倍分桶：[0,0], (0,1), [1,2), [2,5), ..., [100,+inf)
//
// 押注為浮點數，所以分桶直接以倍數判斷，不做贏分反查表。
type WinBuckets struct {
	bounds []float64
	labels []string
}

// Buckets 預設分桶，請勿修改
var Buckets = &WinBuckets{
	bounds: []float64{1, 2, 5, 10, 20, 50, 100},
	labels: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,+inf)"},
}

func (b *WinBuckets) WinBucketStr() []string {
	return b.labels
}

func (b *WinBuckets) Len() int {
	return len(b.labels)
}

// Index 贏倍對應的分桶索引；0 倍獨立一桶。
func (b *WinBuckets) Index(mult float64) int {
	if mult <= 0 {
		return 0
	}
	// 第一個 > mult 的邊界
	i := sort.Search(len(b.bounds), func(i int) bool { return b.bounds[i] > mult })
	return i + 1
}
