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

package spec

import (
	"strings"

	"github.com/zintix-labs/reelsync/errs"
	"gopkg.in/yaml.v3"
)

// DrawMode 盤面抽樣模式
type DrawMode uint8

const (
	// DrawSimple 每格獨立抽樣，可開直線判定
	DrawSimple DrawMode = iota
	// DrawAnimated 每輪抽不重複名稱作為停輪目標，由循環輪帶動畫呈現
	DrawAnimated
)

var drawModeName = map[DrawMode]string{
	DrawSimple:   "simple",
	DrawAnimated: "animated",
}

func (m DrawMode) String() string {
	if s, ok := drawModeName[m]; ok {
		return s
	}
	return "unknown"
}

// ParseDrawMode 解析字串，大小寫不敏感。
func ParseDrawMode(s string) (DrawMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range drawModeName {
		if name == key {
			return m, nil
		}
	}
	return DrawSimple, errs.Config("unknown draw_mode %q (simple | animated)", s)
}

func (m DrawMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *DrawMode) UnmarshalText(b []byte) error {
	v, err := ParseDrawMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m DrawMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *DrawMode) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}
