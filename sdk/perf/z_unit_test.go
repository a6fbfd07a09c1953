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

package perf

import (
	"errors"
	"os"
	"testing"

	"github.com/zintix-labs/reelsync/errs"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "cpu", "heap", "allocs"} {
		if m, err := ParseMode(s); err != nil || string(m) != s {
			t.Fatalf("ParseMode(%q) = %q, %v", s, m, err)
		}
	}
	if _, err := ParseMode("block"); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestRunWritesProfile(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	for _, m := range []Mode{ModeHeap, ModeAllocs} {
		path, err := Run(func() error { calls++; return nil }, m, dir)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Fatalf("%s: profile not written: %v", m, err)
		}
	}
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestRunPassesError(t *testing.T) {
	boom := errors.New("boom")
	if path, err := Run(func() error { return boom }, ModeNone, ""); path != "" || !errors.Is(err, boom) {
		t.Fatalf("path=%q err=%v", path, err)
	}
	if _, err := Run(func() error { return boom }, ModeHeap, t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
