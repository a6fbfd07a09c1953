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
	"net/url"
	"strconv"

	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/server/httperr"
	"github.com/zintix-labs/reelsync/stats"
)

const (
	maxSimRounds    = 1_000_000
	maxSimPlayers   = 100_000
	maxPlayerRounds = 15_000
	maxCfgBytes     = 5 << 20
)

// SimHandler 長期模擬：RTP、命中率、玩家體驗。
type SimHandler struct {
	lab     *reelsync.Lab
	log     *slog.Logger
	workers int
}

func NewSimHandler(lab *reelsync.Lab, log *slog.Logger, workers int) *SimHandler {
	return &SimHandler{lab: lab, log: log, workers: max(1, workers)}
}

// SimRequest GET 以 query 帶入，POST 以 JSON 帶入。
type SimRequest struct {
	Game    string `json:"game"`
	Rounds  int    `json:"rounds"`
	Workers int    `json:"workers"`
	Seed    *int64 `json:"seed,omitempty"`
}

type SimResponse struct {
	Seed     int64             `json:"seed"`
	Stats    *stats.StatReport `json:"stats"`
	UsedTime int64             `json:"used_ms"`
}

func (sh *SimHandler) Sim(w http.ResponseWriter, r *http.Request) {
	req := SimRequest{}
	if err := decodeRequest(r, &req, func(q url.Values) error {
		req.Game = q.Get("game")
		if err := queryInt(q, "rounds", &req.Rounds); err != nil {
			return err
		}
		if err := queryInt(q, "workers", &req.Workers); err != nil {
			return err
		}
		return querySeed(q, &req.Seed)
	}); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Rounds < 1 || req.Rounds > maxSimRounds {
		httperr.Errs(w, errs.Warnf("rounds must be between 1 and %d", maxSimRounds))
		return
	}
	sim, err := sh.simulator(req.Game, req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	mp := min(max(req.Workers, 1), sh.workers)
	st, used, err := sim.SimMP(max(req.Rounds/mp, 1), mp, false)
	if err != nil {
		httperr.Log(sh.log, "simulate", err)
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	httperr.JSON(w, http.StatusOK, SimResponse{Seed: sim.Seed(), Stats: st, UsedTime: used.Milliseconds()})
}

// SimPlayerRequest players 位玩家各帶 bets 局本金，每人最多 rounds 局。
type SimPlayerRequest struct {
	Game    string `json:"game"`
	Players int    `json:"players"`
	Bets    int    `json:"bets"`
	Rounds  int    `json:"rounds"`
	Seed    *int64 `json:"seed,omitempty"`
}

type SimPlayerResponse struct {
	Seed      int64                   `json:"seed"`
	Stats     *stats.StatReport       `json:"stats"`
	Estimator *stats.EstimatorPlayers `json:"est"`
	UsedTime  int64                   `json:"used_ms"`
}

func (sh *SimHandler) SimPlayers(w http.ResponseWriter, r *http.Request) {
	req := SimPlayerRequest{}
	if err := decodeRequest(r, &req, func(q url.Values) error {
		req.Game = q.Get("game")
		for key, dst := range map[string]*int{"players": &req.Players, "bets": &req.Bets, "rounds": &req.Rounds} {
			if err := queryInt(q, key, dst); err != nil {
				return err
			}
		}
		return querySeed(q, &req.Seed)
	}); err != nil {
		httperr.Errs(w, err)
		return
	}
	switch {
	case req.Players < 1 || req.Players > maxSimPlayers:
		httperr.Errs(w, errs.Warnf("players must be between 1 and %d", maxSimPlayers))
		return
	case req.Bets < 1:
		httperr.Errs(w, errs.NewWarn("bets must be at least 1"))
		return
	case req.Rounds < 1 || req.Rounds > maxPlayerRounds:
		httperr.Errs(w, errs.Warnf("rounds must be between 1 and %d", maxPlayerRounds))
		return
	}
	sim, err := sh.simulator(req.Game, req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	st, est, used, err := sim.SimPlayers(sh.workers, req.Players, req.Bets, req.Rounds, false)
	if err != nil {
		httperr.Log(sh.log, "simulate players", err)
		httperr.Errs(w, errs.Wrap(err, "simulate players err"))
		return
	}
	httperr.JSON(w, http.StatusOK, SimPlayerResponse{Seed: sim.Seed(), Stats: st, Estimator: est, UsedTime: used.Milliseconds()})
}

// SimByCfg 以上傳的設定（JSON）模擬；game_name 必須是目錄內已有的遊戲。
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rounds int             `json:"rounds"`
		Cfg    json.RawMessage `json:"cfg"`
		Seed   *int64          `json:"seed,omitempty"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxCfgBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json: "+err.Error()))
		return
	}
	if req.Rounds < 1 || req.Rounds > maxSimRounds {
		httperr.Errs(w, errs.Warnf("rounds must be between 1 and %d", maxSimRounds))
		return
	}
	seed := core.RandomSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	sim, err := sh.lab.NewSimulatorByJSON(req.Cfg, seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	mp := sh.workers
	st, used, err := sim.SimMP(max(req.Rounds/mp, 1), mp, false)
	if err != nil {
		httperr.Log(sh.log, "simulate by cfg", err)
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	httperr.JSON(w, http.StatusOK, SimResponse{Seed: seed, Stats: st, UsedTime: used.Milliseconds()})
}

func (sh *SimHandler) simulator(game string, seed *int64) (*reelsync.Simulator, error) {
	if game == "" {
		return nil, errs.NewWarn("game is required")
	}
	if seed != nil {
		return sh.lab.NewSimulatorWithSeed(game, *seed)
	}
	return sh.lab.NewSimulator(game)
}

// decodeRequest GET 走 query，其餘走 JSON body。
func decodeRequest(r *http.Request, dst any, fromQuery func(url.Values) error) error {
	if r.Method == http.MethodGet {
		return fromQuery(r.URL.Query())
	}
	return decodeBody(r, dst)
}

func queryInt(q url.Values, key string, dst *int) error {
	s := q.Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return errs.Warnf("%s must be integer", key)
	}
	*dst = v
	return nil
}

func querySeed(q url.Values, dst **int64) error {
	s := q.Get("seed")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errs.NewWarn("seed must be int64")
	}
	*dst = &v
	return nil
}
