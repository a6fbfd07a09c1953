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

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/server/httperr"
)

// Recover 攔截 handler 內的 panic，記錄後回 500。
//
// 引擎以 panic(errs.Invariant(...)) 表示呼叫端違反合約，這類 panic 會以原本的錯誤回傳；
// http.ErrAbortHandler 照常往上拋。
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = errs.Fatalf("panic: %v", rec)
				}
				log.Error("panic recovered",
					slog.Any("err", err),
					slog.String("req_id", chimid.GetReqID(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)
				httperr.JSON(w, http.StatusInternalServerError, httperr.Body{Error: err.Error(), Kind: kindOf(err)})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func kindOf(err error) string {
	if e, ok := errs.AsErr(err); ok {
		return e.Kind.String()
	}
	return ""
}
