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

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/catalog"
	"github.com/zintix-labs/reelsync/configs"
	"github.com/zintix-labs/reelsync/profile"
	"github.com/zintix-labs/reelsync/sdk/core"
	v1 "github.com/zintix-labs/reelsync/server/api/v1"
	"github.com/zintix-labs/reelsync/server/logger"
	"github.com/zintix-labs/reelsync/server/netsvr"
	"github.com/zintix-labs/reelsync/server/svrcfg"
	"github.com/zintix-labs/reelsync/stats"
)

func newHandler(t *testing.T, mutate func(*svrcfg.SvrCfg)) http.Handler {
	t.Helper()
	lab, err := reelsync.NewAuto(core.Default(), configs.FS)
	if err != nil {
		t.Fatalf("lab: %v", err)
	}
	cfg := &svrcfg.SvrCfg{Lab: lab, Log: logger.New(logger.ModeSilence, nil)}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Valid(); err != nil {
		t.Fatalf("cfg: %v", err)
	}
	svr := netsvr.NewChiServer(":0")
	RegisterRoutes(svr, cfg)
	return svr.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder, want int) T {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func create(t *testing.T, h http.Handler, game string) v1.SessionResponse {
	t.Helper()
	return decode[v1.SessionResponse](t, do(t, h, http.MethodPost, "/v1/sessions", map[string]any{"game": game, "seed": 7}), http.StatusCreated)
}

func TestGames(t *testing.T) {
	h := newHandler(t, nil)
	games := decode[[]catalog.Summary](t, do(t, h, http.MethodGet, "/v1/games", nil), http.StatusOK)
	if len(games) != 2 || games[0].Name != "animated" || games[1].Name != "classic" {
		t.Fatalf("games = %+v", games)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
}

func TestClassicSession(t *testing.T) {
	h := newHandler(t, nil)
	s := create(t, h, "Classic")
	if s.ID == "" || s.State.Pool != 100 || s.State.Bet != 5 || s.State.Mode != "simple" {
		t.Fatalf("created = %+v", s)
	}
	base := "/v1/sessions/" + s.ID

	spin := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/spin", nil), http.StatusOK)
	if !spin.Settled || spin.State.Spinning || len(spin.State.Grid) != 3 {
		t.Fatalf("spin = %+v", spin)
	}
	if spin.State.Pool != 95+spin.State.LastWin || spin.State.HasRecentWin != (spin.State.LastWin > 0) {
		t.Fatalf("pool = %v last win = %v", spin.State.Pool, spin.State.LastWin)
	}

	// 獨立抽樣沒有動畫可推進
	if rec := do(t, h, http.MethodPost, base+"/tick", nil); rec.Code != http.StatusConflict {
		t.Fatalf("tick on simple = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/finish", nil); rec.Code != http.StatusConflict {
		t.Fatalf("finish on simple = %d", rec.Code)
	}

	got := decode[v1.SessionResponse](t, do(t, h, http.MethodGet, base, nil), http.StatusOK)
	if got.State.Spins != 1 {
		t.Fatalf("spins = %d", got.State.Spins)
	}
	if rec := do(t, h, http.MethodDelete, base, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, base, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}

func TestBetControls(t *testing.T) {
	h := newHandler(t, nil)
	base := "/v1/sessions/" + create(t, h, "classic").ID

	up := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/bet", map[string]any{"action": "up"}), http.StatusOK)
	if up.State.Bet != 6 {
		t.Fatalf("bet up = %v", up.State.Bet)
	}
	set := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/bet", map[string]any{"action": "set", "value": 1000}), http.StatusOK)
	if set.State.Bet != 100 {
		t.Fatalf("bet clamp to pool = %v", set.State.Bet)
	}
	set = decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/bet", map[string]any{"action": "set", "value": 0}), http.StatusOK)
	if set.State.Bet != 1 {
		t.Fatalf("bet clamp to min = %v", set.State.Bet)
	}
	if rec := do(t, h, http.MethodPost, base+"/bet", map[string]any{"action": "double"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown action = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/bet", map[string]any{"what": 1}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field = %d", rec.Code)
	}
	// 彩池充足時不能復活
	if rec := do(t, h, http.MethodPost, base+"/revive", nil); rec.Code != http.StatusConflict {
		t.Fatalf("revive = %d", rec.Code)
	}
}

func TestAnimatedSession(t *testing.T) {
	h := newHandler(t, nil)
	s := create(t, h, "animated")
	base := "/v1/sessions/" + s.ID

	spin := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/spin", nil), http.StatusOK)
	if spin.Settled || !spin.State.Spinning || spin.State.Grid != nil {
		t.Fatalf("spin = %+v", spin)
	}
	if spin.State.Phases[0].String() != "scrolling" || spin.State.Phases[1].String() != "idle" {
		t.Fatalf("phases = %v", spin.State.Phases)
	}
	if rec := do(t, h, http.MethodPost, base+"/spin", nil); rec.Code != http.StatusConflict {
		t.Fatalf("second spin = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/bet", map[string]any{"action": "up"}); rec.Code != http.StatusConflict {
		t.Fatalf("bet while spinning = %d", rec.Code)
	}

	tick := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/tick", map[string]any{"frames": 5}), http.StatusOK)
	if tick.Ticks != 5 || tick.Settled {
		t.Fatalf("tick = %+v", tick)
	}
	tick = decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/tick", map[string]any{"frames": 10000}), http.StatusOK)
	if !tick.Settled || tick.State.Spinning || len(tick.State.Grid) != 3 {
		t.Fatalf("tick to settle = %+v", tick)
	}
	for i, col := range tick.State.Visible {
		for r, name := range col {
			if tick.State.Grid[r][i] != name {
				t.Fatalf("visible[%d] = %v, grid = %v", i, col, tick.State.Grid)
			}
		}
	}
	if tick.State.Pool != 95+tick.State.LastWin {
		t.Fatalf("pool = %v", tick.State.Pool)
	}

	decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/spin", nil), http.StatusOK)
	cancel := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/cancel", nil), http.StatusOK)
	if cancel.State.Spinning || cancel.State.Pool != tick.State.Pool-5 || cancel.State.Spins != 1 {
		t.Fatalf("cancel = %+v", cancel.State)
	}
	if rec := do(t, h, http.MethodPost, base+"/tick", map[string]any{"frames": -1}); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative frames = %d", rec.Code)
	}
}

func TestCreateRejects(t *testing.T) {
	h := newHandler(t, func(c *svrcfg.SvrCfg) { c.MaxSessions = 1 })
	if rec := do(t, h, http.MethodPost, "/v1/sessions", map[string]any{"game": "poker"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown game = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/v1/sessions", map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing game = %d", rec.Code)
	}
	create(t, h, "classic")
	if rec := do(t, h, http.MethodPost, "/v1/sessions", map[string]any{"game": "classic"}); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("cap = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/v1/sessions/nope/spin", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id = %d", rec.Code)
	}
}

func TestProfileHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.json")
	h := newHandler(t, func(c *svrcfg.SvrCfg) { c.ProfilePath = path })
	base := "/v1/sessions/" + create(t, h, "classic").ID
	spin := decode[v1.SessionResponse](t, do(t, h, http.MethodPost, base+"/spin", nil), http.StatusOK)

	p := decode[profile.Profile](t, do(t, h, http.MethodGet, "/v1/profile", nil), http.StatusOK)
	if p.Exp != 1 || p.Highscore != uint32(spin.State.Pool) {
		t.Fatalf("profile = %+v pool = %v", p, spin.State.Pool)
	}

	off := newHandler(t, nil)
	if rec := do(t, off, http.MethodGet, "/v1/profile", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("profile disabled = %d", rec.Code)
	}
}

func TestSimEndpoints(t *testing.T) {
	h := newHandler(t, nil)
	sim := decode[v1.SimResponse](t, do(t, h, http.MethodGet, "/v1/sim?game=classic&rounds=1000&seed=3", nil), http.StatusOK)
	if sim.Seed != 3 || sim.Stats.Summary.Rounds != 1000 || sim.Stats.Summary.TotalBet != 5000 {
		t.Fatalf("sim = %+v", sim.Stats.Summary)
	}
	if rec := do(t, h, http.MethodGet, "/v1/sim?game=classic&rounds=abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad rounds = %d", rec.Code)
	}

	players := decode[v1.SimPlayerResponse](t, do(t, h, http.MethodPost, "/v1/simplayers",
		map[string]any{"game": "animated", "players": 20, "bets": 10, "rounds": 50, "seed": 1}), http.StatusOK)
	if players.Estimator.Players != 20 {
		t.Fatalf("players = %d", players.Estimator.Players)
	}

	cfg := map[string]any{
		"game_name": "classic", "rows": 3, "reels": 3, "draw_mode": "simple",
		"symbols": []map[string]any{{"icon": "🍒", "name": "Cherry", "multiplier": 2, "weight": 1}},
	}
	byCfg := decode[v1.SimResponse](t, do(t, h, http.MethodPost, "/v1/simbycfg", map[string]any{"rounds": 100, "cfg": cfg, "seed": 9}), http.StatusOK)
	// 單一符號：每局 8 條線、贏 16 倍
	if byCfg.Stats.Summary.RTP != 16 {
		t.Fatalf("rtp = %v", byCfg.Stats.Summary.RTP)
	}
}

func TestStat(t *testing.T) {
	h := newHandler(t, nil)
	st := decode[stats.StatReport](t, do(t, h, http.MethodPost, "/v1/stat",
		map[string]any{"game": "classic", "mode": "simple", "bet": 5, "payouts": []float64{0, 10, 0, 100}}), http.StatusOK)
	if st.Summary.Rounds != 4 || st.Summary.HitRounds != 2 || st.Summary.BigWins != 1 || st.Summary.RTP != 5.5 {
		t.Fatalf("summary = %+v", st.Summary)
	}
	if rec := do(t, h, http.MethodPost, "/v1/stat", map[string]any{"bet": 5}); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty payouts = %d", rec.Code)
	}
}

func TestStream(t *testing.T) {
	h := newHandler(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	id := create(t, h, "animated").ID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/sessions/" + id + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var m v1.StreamMessage
	if err := conn.ReadJSON(&m); err != nil || m.Type != "state" {
		t.Fatalf("hello = %+v, %v", m, err)
	}
	if err := conn.WriteJSON(v1.StreamCommand{Type: "spin"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(v1.StreamCommand{Type: "finish"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if m.Type == "settled" {
			break
		}
		if m.Type != "state" && m.Type != "frame" {
			t.Fatalf("unexpected message %+v", m)
		}
	}
	if m.State == nil || m.State.Spinning || m.State.Spins != 1 {
		t.Fatalf("settled = %+v", m.State)
	}
}

func TestStreamRejectsForeignOrigin(t *testing.T) {
	h := newHandler(t, func(c *svrcfg.SvrCfg) { c.AllowedOrigins = []string{"https://game.example"} })
	srv := httptest.NewServer(h)
	defer srv.Close()
	id := create(t, h, "animated").ID
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/sessions/" + id + "/stream"

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	if err == nil {
		conn.Close()
		t.Fatalf("foreign origin accepted")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign origin response %v", resp)
	}

	conn, _, err = websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://game.example"}})
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var m v1.StreamMessage
	if err := conn.ReadJSON(&m); err != nil || m.Type != "state" {
		t.Fatalf("hello = %+v, %v", m, err)
	}
}
