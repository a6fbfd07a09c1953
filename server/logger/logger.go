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

// Package logger 組裝 server 與 CLI 使用的 *slog.Logger。
//
// 引擎套件本身不寫 log；只有 session、server 與 cmd 透過注入的 logger 輸出。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/reelsync/errs"
)

type LogMode uint8

const (
	ModeDev     LogMode = iota // text, debug 以上
	ModeProd                   // JSON, info 以上
	ModeSilence                // 全部丟棄
)

var modeName = map[LogMode]string{
	ModeDev:     "dev",
	ModeProd:    "prod",
	ModeSilence: "silence",
}

func (m LogMode) String() string {
	return modeName[m]
}

// ParseLogMode 解析設定檔或旗標的字串；空字串視為 dev。
func ParseLogMode(s string) (LogMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeDev, nil
	}
	for m, n := range modeName {
		if n == s {
			return m, nil
		}
	}
	return ModeDev, errs.Config("unknown log mode %q (want dev, prod or silence)", s)
}

// New 同步 logger；w 為 nil 時 dev 寫 stderr、prod 寫 stdout。
func New(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(Handler(mode, w))
}

// NewAsync 非阻塞 logger，回傳的 AsyncHandler 需在關閉服務時 Close。
func NewAsync(mode LogMode, w io.Writer, buf int) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(Handler(mode, w), buf)
	return slog.New(ah), ah
}

// Handler 依模式建立底層 handler。
func Handler(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.DiscardHandler
	default:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
