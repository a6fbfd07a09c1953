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

// Package api 註冊 middleware 與全部路由。
package api

import (
	"net/http"

	v1 "github.com/zintix-labs/reelsync/server/api/v1"
	"github.com/zintix-labs/reelsync/server/httperr"
	"github.com/zintix-labs/reelsync/server/netsvr"
	"github.com/zintix-labs/reelsync/server/netsvr/middleware"
	"github.com/zintix-labs/reelsync/server/svrcfg"
)

// RegisterRoutes middleware 必須在路由之前註冊（chi 的限制）。
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(middleware.CORS(sCfg.AllowedOrigins))
	svr.Use(middleware.Compression)

	svr.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httperr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	registerV1(svr, sCfg)
}

func registerV1(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	sh := v1.NewSessionHandler(sCfg)
	sim := v1.NewSimHandler(sCfg.Lab, sCfg.Log, sCfg.SimWorkers)

	svr.Group("/v1", func(r netsvr.NetRouter) {
		r.Get("/games", sh.Games)
		r.Get("/profile", sh.Profile)

		r.Post("/sessions", sh.Create)
		r.Group("/sessions/{id}", func(s netsvr.NetRouter) {
			s.Get("/", sh.Get)
			s.Delete("/", sh.Delete)
			s.Post("/spin", sh.Spin)
			s.Post("/tick", sh.Tick)
			s.Post("/finish", sh.Finish)
			s.Post("/cancel", sh.Cancel)
			s.Post("/bet", sh.Bet)
			s.Post("/revive", sh.Revive)
			s.Get("/stream", sh.Stream)
		})

		r.Get("/sim", sim.Sim)
		r.Post("/sim", sim.Sim)
		r.Get("/simplayers", sim.SimPlayers)
		r.Post("/simplayers", sim.SimPlayers)
		r.Post("/simbycfg", sim.SimByCfg)
		r.Post("/stat", v1.Stat)
	})
}
