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

package catalog

import (
	"io/fs"
	"slices"
	"strings"

	"github.com/zintix-labs/reelsync/errs"
)

// multiFS 多個扁平設定來源合併後的檔名索引
type multiFS struct {
	src   []fs.FS
	index map[string]int // 檔名 -> 來源索引
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.Config("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.Config("fs[%d] is nil", i)
		}
	}
	m := &multiFS{src: src, index: make(map[string]int, 16)}

	// 建構時一次掃完，重複檔名直接失敗
	for i := range src {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.Config("config FS must be flat (no subdirectories): %q", path)
			}
			if strings.Contains(path, "/") {
				return errs.Config("config FS must be flat (no subdirectories): %q", path)
			}
			// 其他資產直接略過
			if !isConfigFile(path) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.Config("duplicate config %q in fs[%d] and fs[%d]", path, prev, i)
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], true
	}
	return nil, false
}

// Names 所有設定檔名（排序後）
func (m *multiFS) Names() []string {
	out := make([]string, 0, len(m.index))
	for n := range m.index {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
