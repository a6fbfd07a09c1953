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

// Package symbol 定義盤面上的符號與符號目錄。
//
// 符號是唯讀值：目錄建好後不再修改，對外一律回傳複本。
// 連線判定只比對 Name；Icon 與數值欄位不參與比對。
package symbol

import (
	"math"
	"strings"

	"github.com/zintix-labs/reelsync/errs"
)

// Symbol 單一符號。
//
//   - Icon: 顯示用字元或 id
//   - Name: 比對用身分鍵
//   - Multiplier: 連線賠率（乘上押注）
//   - Addition: 連線固定加給
//   - Weight: 抽中的相對權重
type Symbol struct {
	Icon       string  `yaml:"icon"       json:"icon"`
	Name       string  `yaml:"name"       json:"name"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
	Addition   float64 `yaml:"addition"   json:"addition"`
	Weight     float64 `yaml:"weight"     json:"weight"`
}

func New(icon, name string, multiplier, addition, weight float64) Symbol {
	return Symbol{Icon: icon, Name: name, Multiplier: multiplier, Addition: addition, Weight: weight}
}

// SameName 連線比對規則。
func (s Symbol) SameName(o Symbol) bool {
	return s.Name == o.Name
}

func (s Symbol) String() string {
	return s.Name
}

// samePayout 同名符號必須有相同的顯示與賠付屬性。
func (s Symbol) samePayout(o Symbol) bool {
	return s.Icon == o.Icon && s.Multiplier == o.Multiplier && s.Addition == o.Addition
}

// Names 取出名稱序列，常用於 log 與測試比對。
func Names(syms []Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

// EqualNames 兩串符號是否逐位同名。
func EqualNames(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameName(b[i]) {
			return false
		}
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate 單一符號的欄位檢查。權重允許為 0（永不抽中）。
func (s Symbol) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errs.Config("symbol name required (icon=%q)", s.Icon)
	}
	if !finite(s.Multiplier) || s.Multiplier < 0 {
		return errs.Config("symbol %s: multiplier must be finite and >= 0, got %v", s.Name, s.Multiplier)
	}
	if !finite(s.Addition) || s.Addition < 0 {
		return errs.Config("symbol %s: addition must be finite and >= 0, got %v", s.Name, s.Addition)
	}
	if !finite(s.Weight) || s.Weight < 0 {
		return errs.Config("symbol %s: weight must be finite and >= 0, got %v", s.Name, s.Weight)
	}
	return nil
}
