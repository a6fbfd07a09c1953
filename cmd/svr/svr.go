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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/configs"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/server"
	"github.com/zintix-labs/reelsync/server/logger"
	"github.com/zintix-labs/reelsync/server/svrcfg"
)

// 本機實驗用的 server 入口；正式部署請以 ModeProd 並自行組裝。
func main() {
	sCfg, closeLog, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	err = server.Run(sCfg)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

type flags struct {
	CfgPath string
	Addr    string
	LogMode string
	LogBuf  int
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, func(), error) {
	f := new(flags)
	flag.StringVar(&f.CfgPath, "cfg", "", "server config yaml (see cmd/svr/svr.yaml)")
	flag.StringVar(&f.Addr, "addr", "", "listen address, overrides cfg")
	flag.StringVar(&f.LogMode, "log-mode", "", "log mode: dev|prod|silence, overrides cfg")
	flag.IntVar(&f.LogBuf, "log-buf", 4096, "async log queue size")
	flag.Parse()

	sCfg := &svrcfg.SvrCfg{}
	if f.CfgPath != "" {
		raw, err := os.ReadFile(f.CfgPath)
		if err != nil {
			return nil, nil, errs.Wrap(err, "read server config")
		}
		if sCfg, err = svrcfg.FromYAML(raw); err != nil {
			return nil, nil, err
		}
	}
	if f.Addr != "" {
		sCfg.Addr = f.Addr
	}
	if f.LogMode != "" {
		sCfg.LogMode = f.LogMode
	}

	mode, err := logger.ParseLogMode(sCfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, h := logger.NewAsync(mode, os.Stdout, f.LogBuf)
	sCfg.Log = log

	lab, err := reelsync.NewAuto(core.Default(), configs.FS)
	if err != nil {
		h.Close()
		return nil, nil, err
	}
	sCfg.Lab = lab
	return sCfg, h.Close, nil
}
