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

// Package v1 HTTP API：遊戲列表、玩家 session 與模擬。
package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/profile"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/server/httperr"
	"github.com/zintix-labs/reelsync/server/svrcfg"
)

// 單次 tick 請求最多推進的格數
const maxFrames = 10000

// SessionHandler 以 uuid 管理多個 GameSession。
//
// GameSession 非併發安全，每個 session 各自一把鎖；map 本身另有一把讀寫鎖。
type SessionHandler struct {
	lab  *reelsync.Lab
	log  *slog.Logger
	prof *profile.Store
	max  int
	ttl  time.Duration
	now  func() time.Time

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	id      string
	s       *slot.GameSession
	seen    time.Time
	streams int // 目前開著的 websocket 串流數
}

// SessionResponse session 操作的回應
type SessionResponse struct {
	ID      string     `json:"id"`
	State   slot.State `json:"state"`
	Settled bool       `json:"settled,omitempty"`
	Ticks   int        `json:"ticks,omitempty"`
}

func NewSessionHandler(sCfg *svrcfg.SvrCfg) *SessionHandler {
	return &SessionHandler{
		lab:      sCfg.Lab,
		log:      sCfg.Log,
		prof:     sCfg.Profile,
		max:      sCfg.MaxSessions,
		ttl:      sCfg.SessionTTL,
		now:      time.Now,
		upgrader: newUpgrader(sCfg.AllowedOrigins),
		sessions: map[string]*sessionEntry{},
	}
}

// ============================================================
// ** 路由 **
// ============================================================

// Games 遊戲列表
func (h *SessionHandler) Games(w http.ResponseWriter, r *http.Request) {
	sum, err := h.lab.Summaries()
	if err != nil {
		httperr.Log(h.log, "list games", err)
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, http.StatusOK, sum)
}

// Create 開新 session：{"game": "classic", "seed": 1}，seed 可省略。
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Game string `json:"game"`
		Seed *int64 `json:"seed,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if strings.TrimSpace(req.Game) == "" {
		httperr.Errs(w, errs.NewWarn("game is required"))
		return
	}
	e, err := h.create(req.Game, req.Seed)
	if err != nil {
		httperr.Log(h.log, "create session", err)
		httperr.Errs(w, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	httperr.JSON(w, http.StatusCreated, SessionResponse{ID: e.id, State: e.s.State()})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		return nil
	})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		httperr.Errs(w, errs.Wrap(httperr.ErrNotFound, "session "+id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Spin 開一局；獨立抽樣模式會直接結算。
func (h *SessionHandler) Spin(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		if !e.s.StartSpin() {
			return errs.Wrap(httperr.ErrConflict, "spin refused: already spinning or pool below bet")
		}
		resp.Settled = !e.s.Spinning()
		return nil
	})
}

// Tick 推進動畫：{"dt": 0.0166, "frames": 30}，dt 省略時用設定的 frame_dt，
// frames 省略為 1。中途結算即停止。
func (h *SessionHandler) Tick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DT     float64 `json:"dt"`
		Frames int     `json:"frames"`
	}
	if err := decodeBody(r, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.DT < 0 || req.Frames < 0 || req.Frames > maxFrames {
		httperr.Errs(w, errs.Warnf("dt must >= 0 and frames must be in [0, %d]", maxFrames))
		return
	}
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		sp := e.s.Spinner()
		if sp == nil {
			return errs.Wrap(httperr.ErrConflict, "tick requires draw_mode animated")
		}
		dt, frames := req.DT, max(req.Frames, 1)
		if dt == 0 {
			dt = sp.Setting().FrameDT
		}
		for range frames {
			if !e.s.Spinning() {
				break
			}
			resp.Ticks++
			if e.s.Tick(dt) {
				resp.Settled = true
				break
			}
		}
		return nil
	})
}

// Finish 跳過動畫直接結算
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		if !e.s.Finish() {
			return errs.Wrap(httperr.ErrConflict, "no animated spin in progress")
		}
		resp.Settled = true
		return nil
	})
}

// Cancel 中止捲動，不派彩
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		if !e.s.Cancel() {
			return errs.Wrap(httperr.ErrConflict, "no animated spin in progress")
		}
		return nil
	})
}

// Bet 調整押注：{"action": "up" | "down" | "set", "value": 10}
func (h *SessionHandler) Bet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string  `json:"action"`
		Value  float64 `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		var ok bool
		switch strings.ToLower(req.Action) {
		case "up":
			ok = e.s.BetUp()
		case "down":
			ok = e.s.BetDown()
		case "set":
			ok = e.s.SetBet(req.Value)
		default:
			return errs.Warnf("unknown bet action %q", req.Action)
		}
		if !ok {
			return errs.Wrap(httperr.ErrConflict, "bet is locked while spinning")
		}
		return nil
	})
}

// Revive 彩池低於最小押注時重置
func (h *SessionHandler) Revive(w http.ResponseWriter, r *http.Request) {
	h.with(w, r, func(e *sessionEntry, resp *SessionResponse) error {
		if !e.s.Revive() {
			return errs.Wrap(httperr.ErrConflict, "revive refused: spinning or pool still playable")
		}
		return nil
	})
}

// Profile 玩家檔案；未設定 profile_path 時回 404。
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if h.prof == nil {
		httperr.Errs(w, errs.Wrap(httperr.ErrNotFound, "profile store disabled"))
		return
	}
	p, err := h.prof.LoadOrDefault()
	if err != nil {
		httperr.Log(h.log, "load profile", err)
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, http.StatusOK, p)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (h *SessionHandler) create(game string, seed *int64) (*sessionEntry, error) {
	id := uuid.NewString()
	log := h.log.With("session", id)
	var (
		s   *slot.GameSession
		err error
	)
	if seed != nil {
		s, err = h.lab.NewSessionWithSeed(game, *seed, log)
	} else {
		s, err = h.lab.NewSession(game, log)
	}
	if err != nil {
		return nil, err
	}
	h.hook(s, log)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sweep()
	if len(h.sessions) >= h.max {
		return nil, errs.Wrap(httperr.ErrTooMany, "session cap reached")
	}
	e := &sessionEntry{id: id, s: s, seen: h.now()}
	h.sessions[id] = e
	log.Info("session created", "mode", s.State().Mode)
	return e, nil
}

// hook 把結算與復活寫進玩家檔案
func (h *SessionHandler) hook(s *slot.GameSession, log *slog.Logger) {
	if h.prof == nil {
		return
	}
	s.OnSettle(func(st slot.Settlement) {
		if _, err := h.prof.Record(st.Pool); err != nil {
			log.Warn("profile record failed", slog.Any("err", err))
		}
	})
	s.OnRevive(func(int) {
		if _, err := h.prof.AddRevive(); err != nil {
			log.Warn("profile revive failed", slog.Any("err", err))
		}
	})
}

// sweep 移除閒置超過 ttl 的 session；呼叫端需持有 h.mu。
func (h *SessionHandler) sweep() {
	deadline := h.now().Add(-h.ttl)
	for id, e := range h.sessions {
		if e.mu.TryLock() {
			if e.streams == 0 && e.seen.Before(deadline) {
				delete(h.sessions, id)
			}
			e.mu.Unlock()
		}
	}
}

func (h *SessionHandler) lookup(id string) (*sessionEntry, error) {
	h.mu.RLock()
	e, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, errs.Wrap(httperr.ErrNotFound, "session "+id)
	}
	return e, nil
}

// with 取出 session 並在鎖內執行 fn，成功時回傳最新狀態。
func (h *SessionHandler) with(w http.ResponseWriter, r *http.Request, fn func(e *sessionEntry, resp *SessionResponse) error) {
	e, err := h.lookup(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = h.now()
	resp := SessionResponse{ID: e.id}
	if err := fn(e, &resp); err != nil {
		httperr.Errs(w, err)
		return
	}
	resp.State = e.s.State()
	httperr.JSON(w, http.StatusOK, resp)
}

// decodeBody 嚴格解析 JSON；空 body 視為全部省略。
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errs.NewWarn("invalid json: " + err.Error())
	}
	return nil
}
