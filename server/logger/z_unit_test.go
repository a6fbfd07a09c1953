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

package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLogMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "dev": ModeDev, " PROD ": ModeProd, "silence": ModeSilence}
	for in, want := range cases {
		got, err := ParseLogMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLogMode("verbose"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestProdWritesJSON(t *testing.T) {
	var b bytes.Buffer
	log := New(ModeProd, &b)
	log.Debug("hidden")
	log.Info("spin", "game", "classic", "payout", 10.0)
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %q", lines)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if m["msg"] != "spin" || m["game"] != "classic" || m["payout"] != 10.0 {
		t.Fatalf("record = %v", m)
	}
}

func TestSilenceDiscards(t *testing.T) {
	log := New(ModeSilence, nil)
	if log.Enabled(t.Context(), 12) {
		t.Fatalf("silence should not enable any level")
	}
}

func TestAsyncDrainsOnClose(t *testing.T) {
	var b bytes.Buffer
	log, ah := NewAsync(ModeDev, &b, 256)
	sub := log.With("session", "abc")
	for i := range 100 {
		sub.Info("tick", "i", i)
	}
	ah.Close()
	if got := strings.Count(b.String(), "session=abc"); got+int(ah.Dropped()) != 100 {
		t.Fatalf("written %d dropped %d", got, ah.Dropped())
	}
	log.Info("after close")
	if strings.Contains(b.String(), "after close") {
		t.Fatalf("record accepted after close")
	}
	ah.Close()
}
