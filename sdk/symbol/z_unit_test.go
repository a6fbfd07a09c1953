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
	"math"
	"testing"

	"github.com/zintix-labs/reelsync/errs"
)

func TestCatalogClassic(t *testing.T) {
	c, err := NewCatalog(Classic())
	if err != nil {
		t.Fatalf("classic catalog: %v", err)
	}
	if c.Len() != 5 || c.DistinctDrawable() != 5 {
		t.Fatalf("unexpected sizes: len=%d distinct=%d", c.Len(), c.DistinctDrawable())
	}
	bell, ok := c.Lookup("Bell")
	if !ok || bell.Multiplier != 5 || bell.Weight != 15 {
		t.Fatalf("lookup Bell: %+v ok=%v", bell, ok)
	}
	if _, ok := c.Lookup("Grape"); ok {
		t.Fatalf("unexpected Grape")
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := MustCatalog(Classic())
	syms := c.Symbols()
	syms[0].Multiplier = 999
	if s, _ := c.Lookup("Cherry"); s.Multiplier != 2 {
		t.Fatalf("catalog mutated through returned slice")
	}
	if c.Symbols()[0].Multiplier != 2 {
		t.Fatalf("catalog symbols mutated")
	}
}

func TestCatalogDuplicateNames(t *testing.T) {
	// 同名不同權重允許
	ok := []Symbol{New("A", "A", 1, 0, 10), New("A", "A", 1, 0, 5), New("B", "B", 2, 0, 1)}
	c, err := NewCatalog(ok)
	if err != nil {
		t.Fatalf("duplicate weights should be allowed: %v", err)
	}
	if got := c.Names(); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("names: %v", got)
	}

	// 同名不同賠率不允許
	bad := []Symbol{New("A", "A", 1, 0, 10), New("A", "A", 2, 0, 5)}
	if _, err := NewCatalog(bad); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestCatalogRejects(t *testing.T) {
	cases := map[string][]Symbol{
		"empty":         nil,
		"blank name":    {New("x", " ", 1, 0, 1)},
		"neg mult":      {New("x", "X", -1, 0, 1)},
		"neg addition":  {New("x", "X", 1, -1, 1)},
		"neg weight":    {New("x", "X", 1, 0, -1)},
		"nan weight":    {New("x", "X", 1, 0, math.NaN())},
		"all zero":      {New("x", "X", 1, 0, 0), New("y", "Y", 1, 0, 0)},
		"inf multipler": {New("x", "X", math.Inf(1), 0, 1)},
	}
	for name, syms := range cases {
		if _, err := NewCatalog(syms); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNamesHelpers(t *testing.T) {
	a := []Symbol{New("1", "Cherry", 2, 0, 1), New("2", "Bell", 5, 0, 1)}
	b := []Symbol{New("other", "Cherry", 0, 0, 0), New("3", "Bell", 0, 0, 0)}
	if !EqualNames(a, b) {
		t.Fatalf("names compare must ignore icon and numbers")
	}
	if EqualNames(a, b[:1]) {
		t.Fatalf("length mismatch must not be equal")
	}
	if got := Names(a); got[0] != "Cherry" || got[1] != "Bell" {
		t.Fatalf("Names: %v", got)
	}
	c := MustCatalog(Classic())
	if _, err := c.Resolve([]string{"Cherry", "Nope"}); err == nil {
		t.Fatalf("expected unknown symbol error")
	}
	got, err := c.Resolve([]string{"Seven"})
	if err != nil || got[0].Multiplier != 20 {
		t.Fatalf("resolve: %v %v", got, err)
	}
}
