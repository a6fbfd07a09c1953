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

// Package catalog 以遊戲名稱索引設定檔。
//
// 設定來源為一或多個扁平 fs.FS（embed、os.DirFS、fstest.MapFS 皆可），
// 檔名跨來源必須唯一。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/spec"
)

var (
	ErrDupName   = errs.NewFatal("duplicate game name")
	ErrDupConfig = errs.NewFatal("duplicate config file")
)

// Entry 遊戲名稱對應的設定檔
type Entry struct {
	Name       string
	ConfigName string
}

// Summary 對外列表用
type Summary struct {
	Name        string   `json:"name"`
	Mode        string   `json:"mode"`
	Rows        int      `json:"rows"`
	Reels       int      `json:"reels"`
	ColumnWins  bool     `json:"column_wins"`
	Symbols     []string `json:"symbols"`
	InitialPool float64  `json:"initial_pool"`
	InitialBet  float64  `json:"initial_bet"`
}

type Catalog struct {
	byName map[string]Entry
	names  []string            // 穩定排序
	used   map[string]struct{} // 一個設定檔只能對應一個遊戲
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	mfs, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byName: map[string]Entry{},
		used:   map[string]struct{}{},
		config: mfs,
	}, nil
}

// Register 整批註冊；任一筆不合法則整批不生效。
func (c *Catalog) Register(entries ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range entries {
		e := &entries[i]
		e.Name = normalize(e.Name)
		if e.Name == "" {
			return errs.Config("game name required")
		}
		if err := validFileName(e.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.GetFS(e.ConfigName); !ok {
			return errs.Config("config file not found: %s", e.ConfigName)
		}
		if _, ok := c.byName[e.Name]; ok {
			return errs.Wrap(ErrDupName, e.Name)
		}
		if _, ok := seenName[e.Name]; ok {
			return errs.Wrap(ErrDupName, e.Name)
		}
		_, inUse := c.used[e.ConfigName]
		_, inBatch := seenCfg[e.ConfigName]
		if inUse || inBatch {
			return errs.Wrap(ErrDupConfig, e.ConfigName)
		}
		seenName[e.Name] = struct{}{}
		seenCfg[e.ConfigName] = struct{}{}
	}
	for _, e := range entries {
		c.used[e.ConfigName] = struct{}{}
		c.byName[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	slices.Sort(c.names)
	return nil
}

// Discover 讀取所有設定檔，以檔內 game_name 註冊尚未登記的設定。
func (c *Catalog) Discover() error {
	var entries []Entry
	for _, file := range c.config.Names() {
		if _, ok := c.used[file]; ok {
			continue
		}
		gs, err := c.load(file)
		if err != nil {
			return errs.WrapWithExtra(err, "discover config failed", "file="+file)
		}
		entries = append(entries, Entry{Name: gs.GameName, ConfigName: file})
	}
	return c.Register(entries...)
}

func (c *Catalog) Get(name string) (Entry, bool) {
	e, ok := c.byName[normalize(name)]
	return e, ok
}

func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n])
	}
	return out
}

// Summaries 逐一讀取設定，整理成列表。
func (c *Catalog) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(c.names))
	for _, n := range c.names {
		gs, err := c.GameSetting(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Name:        n,
			Mode:        gs.DrawMode.String(),
			Rows:        gs.Rows,
			Reels:       gs.Reels,
			ColumnWins:  gs.ColumnDetection(),
			Symbols:     gs.Catalog.Names(),
			InitialPool: gs.Bet.InitialPool,
			InitialBet:  gs.Bet.InitialBet,
		})
	}
	return out, nil
}

// GameSetting 讀取並初始化指定遊戲的設定；每次呼叫回傳新的實例。
func (c *Catalog) GameSetting(name string) (*spec.GameSetting, error) {
	e, ok := c.Get(name)
	if !ok {
		return nil, errs.Warnf("game %q does not exist in catalog", name)
	}
	return c.load(e.ConfigName)
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

func (c *Catalog) load(file string) (*spec.GameSetting, error) {
	src, ok := c.config.GetFS(file)
	if !ok {
		return nil, errs.Warnf("config %q does not exist in catalog", file)
	}
	raw, err := fs.ReadFile(src, file)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return parseGameSettingByExt(file, raw)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isConfigFile(file string) bool {
	lower := strings.ToLower(file)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")
}

func validFileName(file string) error {
	if file == "" {
		return errs.Config("empty config filename")
	}
	// 只能是檔名，不能帶路徑
	if strings.ContainsAny(file, `/\:`) {
		return errs.Config("invalid config filename: %q (must be a basename)", file)
	}
	if !isConfigFile(file) {
		return errs.Config("invalid config filename: %q (must end with .yaml, .yml, or .json)", file)
	}
	if strings.HasPrefix(file, ".") {
		return errs.Config("invalid config filename: %q (cannot start with '.')", file)
	}
	return nil
}

func parseGameSettingByExt(filename string, raw []byte) (*spec.GameSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetGameSettingByYAML(raw)
	case ".json":
		return spec.GetGameSettingByJSON(raw)
	default:
		return nil, errs.Config("unsupported config format: %q", filename)
	}
}

func (e Entry) String() string {
	return fmt.Sprintf("%s(%s)", e.Name, e.ConfigName)
}
