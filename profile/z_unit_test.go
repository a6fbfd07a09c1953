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

package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOrDefaultWritesBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.json")
	s := NewStore(path)
	p, err := s.LoadOrDefault()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != (Profile{}) {
		t.Fatalf("default profile %+v", p)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default not written: %v", err)
	}
	if !strings.Contains(string(raw), `"highscore":0`) {
		t.Fatalf("unexpected file %s", raw)
	}
}

func TestCorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p, err := NewStore(path).LoadOrDefault()
	if err != nil || p != (Profile{}) {
		t.Fatalf("corrupt file: %+v %v", p, err)
	}
}

func TestUpdates(t *testing.T) {
	for _, name := range []string{"player.json", "player.json.zst"} {
		s := NewStore(filepath.Join(t.TempDir(), name))
		if _, err := s.SetExp(7); err != nil {
			t.Fatalf("%s set exp: %v", name, err)
		}
		if _, err := s.SetRevive(2); err != nil {
			t.Fatalf("%s set revive: %v", name, err)
		}
		if _, err := s.SetHighscore(150); err != nil {
			t.Fatalf("%s set highscore: %v", name, err)
		}
		if _, err := s.Record(120.5); err != nil {
			t.Fatalf("%s record: %v", name, err)
		}
		p, err := s.Record(300.9)
		if err != nil {
			t.Fatalf("%s record: %v", name, err)
		}
		if _, err := s.AddRevive(); err != nil {
			t.Fatalf("%s revive: %v", name, err)
		}
		got, err := NewStore(s.Path()).LoadOrDefault()
		if err != nil {
			t.Fatalf("%s reload: %v", name, err)
		}
		want := Profile{Exp: 9, Revive: 3, Highscore: 300}
		if got != want || p.Highscore != 300 {
			t.Fatalf("%s got %+v want %+v", name, got, want)
		}
	}
}

func TestCompressedOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.zst")
	if err := NewStore(path).Save(Profile{Exp: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "exp") {
		t.Fatalf("zst profile stored as plain text")
	}
}

func TestClamp(t *testing.T) {
	if clampU32(-3) != 0 || clampU32(1e20) != ^uint32(0) || clampU32(42.9) != 42 {
		t.Fatalf("clamp")
	}
}
