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

package symbol

import (
	"slices"

	"github.com/zintix-labs/reelsync/errs"
)

// Catalog 符號目錄。
//
// 不變量：名稱到 (Icon, Multiplier, Addition) 一對一。
// 允許同名多筆、權重不同（視為同一符號的不同權重來源），
// 因此賠付只看連線第一個符號的屬性即可。
type Catalog struct {
	symbols []Symbol
	byName  map[string]Symbol
	names   []string // 首次出現順序
}

// NewCatalog 建立目錄，任何不合法設定都回傳 errs.KindConfig。
func NewCatalog(symbols []Symbol) (*Catalog, error) {
	if len(symbols) == 0 {
		return nil, errs.Config("symbol catalog is empty")
	}
	c := &Catalog{
		symbols: slices.Clone(symbols),
		byName:  make(map[string]Symbol, len(symbols)),
		names:   make([]string, 0, len(symbols)),
	}
	total := 0.0
	for _, s := range symbols {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if prev, ok := c.byName[s.Name]; ok {
			if !prev.samePayout(s) {
				return nil, errs.Config("symbol %s declared twice with different attributes", s.Name)
			}
		} else {
			c.byName[s.Name] = s
			c.names = append(c.names, s.Name)
		}
		total += s.Weight
	}
	if total <= 0 {
		return nil, errs.Config("symbol catalog: all weights are zero")
	}
	return c, nil
}

// MustCatalog 用於常數目錄，錯誤時 panic。
func MustCatalog(symbols []Symbol) *Catalog {
	c, err := NewCatalog(symbols)
	if err != nil {
		panic(err)
	}
	return c
}

// Symbols 依宣告順序回傳複本
func (c *Catalog) Symbols() []Symbol {
	return slices.Clone(c.symbols)
}

func (c *Catalog) Len() int {
	return len(c.symbols)
}

// Names 不重複名稱，依首次出現順序
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Lookup 依名稱取符號
func (c *Catalog) Lookup(name string) (Symbol, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// DistinctDrawable 權重為正的不同名稱數量。
func (c *Catalog) DistinctDrawable() int {
	seen := make(map[string]struct{}, len(c.names))
	for _, s := range c.symbols {
		if s.Weight > 0 {
			seen[s.Name] = struct{}{}
		}
	}
	return len(seen)
}

// Resolve 把名稱序列轉回符號，用於外部提供目標盤面。
func (c *Catalog) Resolve(names []string) ([]Symbol, error) {
	out := make([]Symbol, len(names))
	for i, n := range names {
		s, ok := c.byName[n]
		if !ok {
			return nil, errs.Warnf("unknown symbol %q", n)
		}
		out[i] = s
	}
	return out, nil
}
