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

// Package sampler 提供加權抽樣：
//   - AliasTable：放回抽樣，O(1) 取樣，符號權重可為任意正實數。
//   - WeightedSample：不放回抽樣，取前 K 名。
package sampler

// Integers 所有底層為整數的型別
type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Floaters 所有底層為浮點數的型別
type Floaters interface {
	~float32 | ~float64
}

// Numbers 整數與浮點數
type Numbers interface {
	Integers | Floaters
}
