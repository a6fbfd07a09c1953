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

// Package reelsync 提供轉輪引擎的組裝入口。
//
// Lab 把兩個地基組在一起：
//  1. Catalog：有哪些遊戲、各自對應哪個設定檔。
//  2. PRNGFactory：亂數來源工廠，同一個 seed 產生同一串盤面。
//
// 設定檔來源一律以 fs.FS 注入（go:embed 或 os.DirFS），Lab 不處理路徑。
// 對外服務由 Lab 建立 GameSession；模擬器由 Lab 建立多台 Machine 平行跑。
//
//	lab, _ := reelsync.NewAuto(core.Default(), configs.FS)
//	s, _ := lab.NewSession("classic", slog.Default())
//	s.StartSpin()
package reelsync

import (
	"crypto/rand"
	"io/fs"
	"log/slog"
	"math"
	"math/big"

	"github.com/zintix-labs/reelsync/catalog"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/spec"
)

// Lab 組裝器：持有遊戲目錄與亂數工廠。
//
// 註冊階段結束後呼叫 Freeze，之後才能建立機台。
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	sum []catalog.Summary
}

// New 建立 Lab，尚未註冊任何遊戲。
func New(cf core.PRNGFactory, cfgs ...fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.Config("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.Config("configs required")
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cat, cf: cf}, nil
}

// NewAuto 建立 Lab、以設定檔內的 game_name 註冊全部設定並凍結。
func NewAuto(cf core.PRNGFactory, cfgs ...fs.FS) (*Lab, error) {
	lab, err := New(cf, cfgs...)
	if err != nil {
		return nil, err
	}
	if err := lab.Discover(); err != nil {
		return nil, err
	}
	if len(lab.cat.Names()) == 0 {
		return nil, errs.Config("no config files found to register")
	}
	lab.Freeze()
	return lab, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// Discover 掃描全部設定來源並註冊；任一檔失敗則整批不生效。
func (l *Lab) Discover() error {
	return l.cat.Discover()
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

func (l *Lab) Entry(name string) (catalog.Entry, bool) {
	return l.cat.Get(name)
}

// Summaries 遊戲列表，凍結後才會快取。
func (l *Lab) Summaries() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	sum, err := l.cat.Summaries()
	if err != nil {
		return nil, err
	}
	l.sum = sum
	return l.sum, nil
}

// GameSetting 每次回傳新的已初始化設定。
func (l *Lab) GameSetting(name string) (*spec.GameSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.GameSetting(name)
}

// NewMachine 以 crypto/rand 產生的 seed 建立機台，對外服務使用。
func (l *Lab) NewMachine(name string) (*slot.Machine, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewMachineWithSeed(name, seed)
}

// NewMachineWithSeed 同一份設定加同一個 seed 會得到同一串盤面。
func (l *Lab) NewMachineWithSeed(name string, seed int64) (*slot.Machine, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	return slot.NewMachine(gs, core.New(l.cf.New(seed)))
}

// NewMachineByYAML 以外部提供的設定建立機台；game_name 必須已在目錄內。
func (l *Lab) NewMachineByYAML(raw []byte, seed int64) (*slot.Machine, error) {
	gs, err := l.parseExternal(raw, spec.GetGameSettingByYAML)
	if err != nil {
		return nil, err
	}
	return slot.NewMachine(gs, core.New(l.cf.New(seed)))
}

func (l *Lab) NewMachineByJSON(raw []byte, seed int64) (*slot.Machine, error) {
	gs, err := l.parseExternal(raw, spec.GetGameSettingByJSON)
	if err != nil {
		return nil, err
	}
	return slot.NewMachine(gs, core.New(l.cf.New(seed)))
}

// NewSession 建立一個玩家 session；log 為 nil 時不輸出。
func (l *Lab) NewSession(name string, log *slog.Logger) (*slot.GameSession, error) {
	m, err := l.NewMachine(name)
	if err != nil {
		return nil, err
	}
	return slot.NewSession(m, log)
}

func (l *Lab) NewSessionWithSeed(name string, seed int64, log *slog.Logger) (*slot.GameSession, error) {
	m, err := l.NewMachineWithSeed(name, seed)
	if err != nil {
		return nil, err
	}
	return slot.NewSession(m, log)
}

func (l *Lab) NewSimulator(name string) (*Simulator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorWithSeed(name, seed)
}

func (l *Lab) NewSimulatorWithSeed(name string, seed int64) (*Simulator, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	return newSimulator(gs, l.cf, seed)
}

// NewSimulatorByYAML 用於調參：同名遊戲換一份符號權重直接模擬。
func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	gs, err := l.parseExternal(raw, spec.GetGameSettingByYAML)
	if err != nil {
		return nil, err
	}
	return newSimulator(gs, l.cf, seed)
}

func (l *Lab) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	gs, err := l.parseExternal(raw, spec.GetGameSettingByJSON)
	if err != nil {
		return nil, err
	}
	return newSimulator(gs, l.cf, seed)
}

func (l *Lab) parseExternal(raw []byte, parse func([]byte) (*spec.GameSetting, error)) (*spec.GameSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	gs, err := parse(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := l.cat.Get(gs.GameName); !ok {
		return nil, errs.Warnf("game %q does not exist in catalog", gs.GameName)
	}
	return gs, nil
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return seed.Int64(), nil
}
