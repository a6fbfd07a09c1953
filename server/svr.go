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

// Package server 預設的 HTTP 服務組裝：設定驗證、建立 chi server、註冊路由、交給 app 管理啟停。
//
// 需要自訂組裝時，直接持有 reelsync.Lab 並呼叫 api.RegisterRoutes 掛到自己的 router。
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/server/api"
	"github.com/zintix-labs/reelsync/server/app"
	"github.com/zintix-labs/reelsync/server/netsvr"
	"github.com/zintix-labs/reelsync/server/svrcfg"
)

// Run 以內建 chi server 啟動，阻塞到收到終止信號。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		// logger 可能還沒組好
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.Config("svr is required")
	}
	api.RegisterRoutes(svr, sCfg)

	sCfg.Log.Info("[reelsync] listening", slog.String("addr", svr.Address()), slog.Any("games", sCfg.Lab.Names()))
	if err := app.New(sCfg.Log, svr).Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
