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

// Package profile 玩家檔案的讀寫：經驗值、復活次數、最高分。
//
// 檔案格式為 JSON；路徑以 .zst 結尾時以 zstd 壓縮儲存。
// 讀不到或解析失敗一律回到預設值並寫回。
package profile

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/reelsync/errs"
)

// DefaultPath 預設檔名
const DefaultPath = "player.json"

// Profile 玩家檔案
type Profile struct {
	Exp       uint32 `json:"exp"`
	Revive    uint32 `json:"revive"`
	Highscore uint32 `json:"highscore"`
}

// Store 單一檔案的玩家檔案存取，併發安全。
type Store struct {
	mu   sync.Mutex
	path string
	zst  bool
}

func NewStore(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Store{path: path, zst: strings.EqualFold(filepath.Ext(path), ".zst")}
}

func (s *Store) Path() string {
	return s.path
}

// LoadOrDefault 讀取檔案；不存在或內容損毀時寫回預設值。
func (s *Store) LoadOrDefault() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrDefault()
}

// Save 覆寫整份檔案
func (s *Store) Save(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(p)
}

func (s *Store) SetExp(v uint32) (Profile, error) {
	return s.update(func(p *Profile) { p.Exp = v })
}

func (s *Store) SetRevive(v uint32) (Profile, error) {
	return s.update(func(p *Profile) { p.Revive = v })
}

func (s *Store) SetHighscore(v uint32) (Profile, error) {
	return s.update(func(p *Profile) { p.Highscore = v })
}

// Record 一局結算：經驗值 +1，彩池超過最高分時更新。
func (s *Store) Record(pool float64) (Profile, error) {
	return s.update(func(p *Profile) {
		p.Exp++
		if score := clampU32(pool); score > p.Highscore {
			p.Highscore = score
		}
	})
}

// AddRevive 復活次數 +1
func (s *Store) AddRevive() (Profile, error) {
	return s.update(func(p *Profile) { p.Revive++ })
}

func (s *Store) update(fn func(*Profile)) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.loadOrDefault()
	if err != nil {
		return p, err
	}
	fn(&p)
	return p, s.write(p)
}

func (s *Store) loadOrDefault() (Profile, error) {
	p, err := s.read()
	if err == nil {
		return p, nil
	}
	p = Profile{}
	if werr := s.write(p); werr != nil {
		return p, errs.Wrap(werr, "profile: write default")
	}
	return p, nil
}

func (s *Store) read() (Profile, error) {
	var p Profile
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return p, err
	}
	if s.zst {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return p, err
		}
		defer dec.Close()
		if raw, err = dec.DecodeAll(raw, nil); err != nil {
			return p, err
		}
	}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.DisallowUnknownFields()
	if err := d.Decode(&p); err != nil {
		return p, err
	}
	return p, nil
}

// write 先寫暫存檔再 rename，避免中途失敗留下半份檔案。
func (s *Store) write(p Profile) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errs.Wrap(err, "profile: create temp file")
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var enc *zstd.Encoder
	if s.zst {
		if enc, err = zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
			tmp.Close()
			return errs.Wrap(err, "profile: zstd writer")
		}
		w = enc
	}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		tmp.Close()
		return errs.Wrap(err, "profile: encode")
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			tmp.Close()
			return errs.Wrap(err, "profile: zstd flush")
		}
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(err, "profile: close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errs.Wrap(err, "profile: rename")
	}
	return nil
}

func clampU32(v float64) uint32 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= float64(^uint32(0)):
		return ^uint32(0)
	default:
		return uint32(v)
	}
}
