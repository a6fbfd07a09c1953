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

// Package errs 提供 reelsync 全域共用的分級錯誤型別。
//
// 兩個維度：
//   - ErrLevel：嚴重度（Fatal / Warn / Log），邊界層用來決定回應方式。
//   - Kind：錯誤類別（設定錯誤、不變量破壞、請求錯誤），對應引擎的錯誤分類。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel 錯誤嚴重度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Kind 錯誤類別
type Kind uint8

const (
	KindUnknown   Kind = iota
	KindConfig         // 建構期設定錯誤：空符號池、權重非正、緩衝長度不足
	KindInvariant      // 呼叫端違反合約：盤面維度不符、目標比緩衝長
	KindRequest        // 外部輸入錯誤
)

var kindMap = map[Kind]string{
	KindUnknown:   "",
	KindConfig:    "config",
	KindInvariant: "invariant",
	KindRequest:   "request",
}

func (k Kind) String() string {
	return kindMap[k]
}

// E 統一錯誤型別。
//
// Message 主訊息；Extra 額外上下文；Cause 下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Kind    Kind
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Kind != KindUnknown {
		base = fmt.Sprintf("errlv=%s kind=%s %s", ErrLv(e.ErrLv), e.Kind, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn, Kind: KindRequest}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Config 建構期設定錯誤，一律 Fatal：啟動流程應立即中止。
func Config(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Fatal, Kind: KindConfig}
}

// Invariant 建立不變量破壞錯誤，作為 panic 的內容使用。
//
// 熱路徑不回傳可恢復錯誤，違反合約的呼叫直接 panic(errs.Invariant(...))。
func Invariant(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Fatal, Kind: KindInvariant}
}

func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 以新訊息包裝下層錯誤。
//
// cause 若已是 *E 則沿用其 ErrLv 與 Kind；否則（標準庫、三方依賴）視為 Fatal。
// 可預期且可處理的情境請直接用 New / NewWarn 建立，不要 Wrap。
func Wrap(cause error, msg string) *E {
	var e *E
	r := New(Fatal, msg)
	if errors.As(cause, &e) {
		r.ErrLv = e.ErrLv
		r.Kind = e.Kind
	}
	r.Cause = cause
	return r
}

func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// IsKind 回報錯誤鏈中最外層 *E 是否為指定類別。
func IsKind(err error, k Kind) bool {
	e, ok := AsErr(err)
	return ok && e.Kind == k
}
