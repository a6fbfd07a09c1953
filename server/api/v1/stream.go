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

package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/server/httperr"
)

const (
	defaultFrame = time.Second / 60
	pingPeriod   = 30 * time.Second
	readWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// newUpgrader 依 allowed_origins 檢查握手來源，規則與 CORS 中介層一致：
// 清單為空或含 "*" 時全開；沒有 Origin 標頭的非瀏覽器用戶端一律放行。
func newUpgrader(origins []string) websocket.Upgrader {
	all := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "*" {
			all = true
		}
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if all || origin == "" {
				return true
			}
			_, ok := allowed[strings.ToLower(origin)]
			return ok
		},
	}
}

// StreamCommand 用戶端送來的指令：spin / finish / cancel / bet_up / bet_down / revive / state
type StreamCommand struct {
	Type string `json:"type"`
}

// StreamMessage 伺服器推送：捲動中每格一筆 frame，結算時一筆 settled。
type StreamMessage struct {
	Type  string      `json:"type"`
	State *slot.State `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Stream 以 websocket 即時推進循環輪帶動畫，伺服器依 frame_dt 逐格 Tick 並推送狀態。
//
// 讀取與寫出分開：讀取 goroutine 只把指令丟進 channel，所有 session 操作與寫出都在同一個迴圈。
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	e, err := h.lookup(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.String("origin", r.Header.Get("Origin")), slog.Any("err", err))
		return
	}
	defer conn.Close()

	// 串流連線期間 session 不會被 sweep 回收
	e.mu.Lock()
	e.streams++
	e.seen = h.now()
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.streams--
		e.seen = h.now()
		e.mu.Unlock()
	}()

	cmds := make(chan StreamCommand, 16)
	done := make(chan struct{})
	defer close(done)
	go readCommands(conn, cmds, done)

	frame, dt := defaultFrame, defaultFrame.Seconds()
	e.mu.Lock()
	if sp := e.s.Spinner(); sp != nil && sp.Setting().FrameDT > 0 {
		dt = sp.Setting().FrameDT
		frame = time.Duration(dt * float64(time.Second))
	}
	e.mu.Unlock()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := h.push(conn, e, "state", ""); err != nil {
		return
	}
	for {
		select {
		case c, ok := <-cmds:
			if !ok {
				return
			}
			if err := h.handleCommand(conn, e, c); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.advance(conn, e, dt); err != nil {
				return
			}
		case <-ping.C:
			e.mu.Lock()
			e.seen = h.now()
			e.mu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readCommands(conn *websocket.Conn, out chan<- StreamCommand, done <-chan struct{}) {
	defer close(out)
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var c StreamCommand
		if err := json.Unmarshal(raw, &c); err != nil {
			c.Type = "invalid"
		}
		select {
		case out <- c:
		case <-done:
			return
		}
	}
}

func (h *SessionHandler) handleCommand(conn *websocket.Conn, e *sessionEntry, c StreamCommand) error {
	e.mu.Lock()
	var ok bool
	switch c.Type {
	case "spin":
		ok = e.s.StartSpin()
	case "finish":
		ok = e.s.Finish()
	case "cancel":
		ok = e.s.Cancel()
	case "bet_up":
		ok = e.s.BetUp()
	case "bet_down":
		ok = e.s.BetDown()
	case "revive":
		ok = e.s.Revive()
	case "state":
		ok = true
	default:
		e.mu.Unlock()
		return h.push(conn, nil, "error", "unknown command")
	}
	e.seen = h.now()
	spinning := e.s.Spinning()
	e.mu.Unlock()

	switch {
	case !ok:
		return h.push(conn, e, "refused", c.Type+" refused")
	case (c.Type == "spin" || c.Type == "finish") && !spinning:
		return h.push(conn, e, "settled", "")
	default:
		return h.push(conn, e, "state", "")
	}
}

// advance 捲動中才推進一格並推送
func (h *SessionHandler) advance(conn *websocket.Conn, e *sessionEntry, dt float64) error {
	e.mu.Lock()
	if !e.s.Spinning() {
		e.mu.Unlock()
		return nil
	}
	settled := e.s.Tick(dt)
	e.seen = h.now()
	e.mu.Unlock()
	if settled {
		return h.push(conn, e, "settled", "")
	}
	return h.push(conn, e, "frame", "")
}

func (h *SessionHandler) push(conn *websocket.Conn, e *sessionEntry, typ, msg string) error {
	m := StreamMessage{Type: typ, Error: msg}
	if e != nil {
		e.mu.Lock()
		st := e.s.State()
		e.mu.Unlock()
		m.State = &st
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(m)
}
