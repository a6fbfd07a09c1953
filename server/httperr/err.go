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

// Package httperr HTTP 邊界層的錯誤映射與 JSON 回應。
//
// 放在 server 底下，讓 errs 不必依賴 net/http。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/reelsync/errs"
)

var (
	ErrNotFound = errs.NewWarn("not found")
	ErrConflict = errs.NewWarn("conflict")
	ErrTooMany  = errs.NewWarn("too many sessions")
)

// Body 錯誤回應格式
type Body struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout / cancel → 504 / 408
//   - ErrNotFound / ErrConflict / ErrTooMany → 404 / 409 / 429
//   - errs.Warn → 400
//   - 其餘 → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooMany):
		return http.StatusTooManyRequests
	}
	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Errs 寫出 JSON 錯誤；err 為 nil 時不做事。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	b := Body{Error: err.Error()}
	if e, ok := errs.AsErr(err); ok {
		b.Kind = e.Kind.String()
	}
	JSON(w, StatusCode(err), b)
}

// JSON 以指定狀態碼寫出 v。
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Log 只記錄系統端問題：5xx 為 error，408 / 429 為 warn，其餘請求錯誤不記。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500:
		log.Error(msg, slog.Any("err", err))
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Any("err", err))
	}
}
