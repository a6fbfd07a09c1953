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
	"net/http"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/recorder"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/server/httperr"
)

// PayoutStat 外部收集的逐局派彩，例如正式環境的回放紀錄。
type PayoutStat struct {
	Game    string    `json:"game"`
	Mode    string    `json:"mode"`
	Bet     float64   `json:"bet"`
	Payouts []float64 `json:"payouts"`
}

// Stat 把逐局派彩整理成與模擬相同格式的報表。
func Stat(w http.ResponseWriter, r *http.Request) {
	var ps PayoutStat
	r.Body = http.MaxBytesReader(w, r.Body, maxCfgBytes)
	if err := decodeBody(r, &ps); err != nil {
		httperr.Errs(w, err)
		return
	}
	if len(ps.Payouts) == 0 {
		httperr.Errs(w, errs.NewWarn("payouts must not be empty"))
		return
	}
	rec, err := recorder.NewSpinRecorder(ps.Game, ps.Mode, ps.Bet, 0)
	if err != nil {
		httperr.Errs(w, errs.NewWarn(err.Error()))
		return
	}
	for _, p := range ps.Payouts {
		if p < 0 {
			httperr.Errs(w, errs.Warnf("payout must be >= 0, got %v", p))
			return
		}
		rec.Record(slot.Outcome{Payout: p})
	}
	httperr.JSON(w, http.StatusOK, rec.Done())
}
