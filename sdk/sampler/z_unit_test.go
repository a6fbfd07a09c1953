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
	"testing"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []float64, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0.0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] expected 0 samples for index %d (weight 0), got %d", name, i, counts[i])
			}
			continue
		}
		expected := w / totalW
		actual := float64(counts[i]) / float64(len(samples))
		if diff := math.Abs(expected - actual); diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.4f, got %.4f (diff %.4f > tol %.4f)",
				name, i, expected, actual, diff, tolerance)
		}
	}
}

func TestAliasTableDistribution(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
	}{
		{"classic", []float64{50, 30, 15, 4, 1}},
		{"fractional", []float64{0.25, 0.5, 0.25}},
		{"with zero", []float64{3, 0, 1, 0}},
		{"single", []float64{7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := core.Seeded(42)
			at, err := BuildAliasTable(tc.weights)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			samples := make([]int, 200000)
			for i := range samples {
				samples[i] = at.Pick(c)
			}
			checkDistribution(t, tc.name, tc.weights, samples, 0.01)
		})
	}
}

func TestAliasTableIntWeights(t *testing.T) {
	at, err := BuildAliasTable([]int{1, 1})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if at.Size != 2 || at.Total != 2 {
		t.Fatalf("unexpected table: %+v", at)
	}
}

func TestAliasTableRejects(t *testing.T) {
	bad := map[string][]float64{
		"empty":    {},
		"all zero": {0, 0},
		"negative": {1, -1},
		"nan":      {math.NaN()},
		"inf":      {math.Inf(1)},
	}
	for name, w := range bad {
		if _, err := BuildAliasTable(w); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !errs.IsKind(err, errs.KindConfig) {
			t.Fatalf("%s: expected config error, got %v", name, err)
		}
	}
}

func TestAliasTableNilPick(t *testing.T) {
	var at *AliasTable
	if got := at.Pick(core.Seeded(1)); got != -1 {
		t.Fatalf("nil table pick want -1, got %d", got)
	}
}

func TestMustBuildAliasTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustBuildAliasTable([]float64{0})
}

func TestWeightedSampleDistinct(t *testing.T) {
	c := core.Seeded(7)
	weights := []float64{50, 30, 15, 4, 1}
	for i := 0; i < 2000; i++ {
		got := WeightedSample(c, weights, 3)
		if len(got) != 3 {
			t.Fatalf("want 3 picks, got %v", got)
		}
		seen := map[int]bool{}
		for _, idx := range got {
			if seen[idx] {
				t.Fatalf("duplicate pick: %v", got)
			}
			seen[idx] = true
		}
	}
}

func TestWeightedSampleFirstPickFollowsWeights(t *testing.T) {
	c := core.Seeded(99)
	weights := []float64{50, 30, 15, 4, 1}
	first := make([]int, 100000)
	for i := range first {
		first[i] = WeightedSample(c, weights, 2)[0]
	}
	checkDistribution(t, "first pick", weights, first, 0.01)
}

func TestWeightedSampleSkipsZero(t *testing.T) {
	c := core.Seeded(3)
	got := WeightedSample(c, []float64{0, 2, 0}, 3)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("want [1], got %v", got)
	}
	if got := WeightedSample(c, []float64{1}, 0); len(got) != 0 {
		t.Fatalf("k=0 want empty, got %v", got)
	}
}
