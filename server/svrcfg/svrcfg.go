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

// Package svrcfg HTTP 服務的組裝設定。
package svrcfg

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"github.com/zintix-labs/reelsync"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/profile"
	"github.com/zintix-labs/reelsync/server/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr        = ":5808"
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 30 * time.Minute
)

// SvrCfg 可由 YAML 讀入的部分與執行期注入的依賴（Log / Lab / Profile）。
type SvrCfg struct {
	Addr           string        `yaml:"addr"`
	LogMode        string        `yaml:"log_mode"`
	ProfilePath    string        `yaml:"profile_path"` // 空字串表示不保存玩家檔案
	MaxSessions    int           `yaml:"max_sessions"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SimWorkers     int           `yaml:"sim_workers"`

	Log     *slog.Logger   `yaml:"-"`
	Lab     *reelsync.Lab  `yaml:"-"`
	Profile *profile.Store `yaml:"-"`
}

// FromYAML 嚴格解析；未知欄位視為錯誤。
func FromYAML(raw []byte) (*SvrCfg, error) {
	c := &SvrCfg{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, errs.Wrap(errs.Config("%v", err), "failed to unmarshal server config")
	}
	return c, nil
}

// Valid 補預設值並檢查必要依賴。
func (sc *SvrCfg) Valid() error {
	if sc.Lab == nil {
		return errs.Config("lab is required")
	}
	mode, err := logger.ParseLogMode(sc.LogMode)
	if err != nil {
		return err
	}
	if sc.Log == nil {
		sc.Log = logger.New(mode, nil)
	}
	if strings.TrimSpace(sc.Addr) == "" {
		sc.Addr = DefaultAddr
	}
	if !strings.Contains(sc.Addr, ":") {
		return errs.Config("addr must contain a port, got %q", sc.Addr)
	}
	if sc.MaxSessions <= 0 {
		sc.MaxSessions = DefaultMaxSessions
	}
	if sc.SessionTTL <= 0 {
		sc.SessionTTL = DefaultSessionTTL
	}
	// 1 <= SimWorkers <= 16
	sc.SimWorkers = min(max(1, sc.SimWorkers), 16)
	if sc.Profile == nil && strings.TrimSpace(sc.ProfilePath) != "" {
		sc.Profile = profile.NewStore(sc.ProfilePath)
	}
	return nil
}
