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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Render 報表輸出格式
type Render[T any] interface {
	Write(w io.Writer, v *T) error
}

type (
	StatReportRender = Render[StatReport]
	EstimatorRender  = Render[EstimatorPlayers]
)

// JSONRender 單行 JSON
type JSONRender[T any] struct{}

func (JSONRender[T]) Write(w io.Writer, v *T) error {
	return json.NewEncoder(w).Encode(v)
}

// YAMLRender 外層陣列展開，最內層一維陣列收成 [a, b, c]
type YAMLRender[T any] struct{}

func (YAMLRender[T]) Write(w io.Writer, v *T) error {
	return forceReadableList(w, v)
}

// RenderByName 依名稱取得輸出格式："json" / "yaml"，其餘回傳 nil。
func RenderByName[T any](name string) Render[T] {
	switch name {
	case "json":
		return JSONRender[T]{}
	case "yaml", "yml":
		return YAMLRender[T]{}
	}
	return nil
}

func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				hasChildSeq = true
				break
			}
		}

		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		// 沒有子 sequence 才是最內層
		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
