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

package calc

// LinePayout 單線派彩 = 首符號倍率 * 押注 + 首符號加成。
func LinePayout(line WinningLine, bet float64) float64 {
	head := line.Head()
	return head.Multiplier*bet + head.Addition
}

// TotalPayout 所有中獎線派彩加總
func TotalPayout(lines []WinningLine, bet float64) float64 {
	total := 0.0
	for _, l := range lines {
		total += LinePayout(l, bet)
	}
	return total
}

// UpdatePool 彩池只加不減，押注扣款在開局時由 session 處理。
func UpdatePool(pool *float64, lines []WinningLine, bet float64) {
	*pool += TotalPayout(lines, bet)
}
