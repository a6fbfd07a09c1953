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

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapInheritsLevelAndKind(t *testing.T) {
	base := Config("weights sum to %d", 0)
	w := Wrap(base, "reel")
	if w.ErrLv != Fatal || w.Kind != KindConfig {
		t.Fatalf("wrap should inherit, got lv=%v kind=%v", w.ErrLv, w.Kind)
	}
	if !errors.Is(w, base) {
		t.Fatalf("unwrap chain broken")
	}
	if !IsKind(fmt.Errorf("outer: %w", w), KindConfig) {
		t.Fatalf("IsKind should see through fmt wrapping")
	}
}

func TestWrapForeignIsFatal(t *testing.T) {
	w := Wrap(errors.New("io"), "read")
	if w.ErrLv != Fatal || w.Kind != KindUnknown {
		t.Fatalf("foreign cause: lv=%v kind=%v", w.ErrLv, w.Kind)
	}
	if !strings.Contains(w.Error(), "cause: io") {
		t.Fatalf("message lost cause: %s", w.Error())
	}
}

func TestWarnIsRequest(t *testing.T) {
	e := Warnf("bet %d", 3)
	if e.ErrLv != Warn || !IsKind(e, KindRequest) {
		t.Fatalf("warn should be a request error: %v", e)
	}
	if !strings.Contains(e.Error(), "kind=request") {
		t.Fatalf("kind not rendered: %s", e.Error())
	}
}

func TestInvariantPanicPayload(t *testing.T) {
	defer func() {
		r := recover()
		e, ok := r.(*E)
		if !ok || e.Kind != KindInvariant {
			t.Fatalf("unexpected payload %v", r)
		}
	}()
	panic(Invariant("grid %dx%d", 3, 4))
}

func TestExtra(t *testing.T) {
	e := WrapWithExtra(NewLog("x"), "y", "path=a.yaml")
	if e.ErrLv != Log || !strings.Contains(e.Error(), "extra: path=a.yaml") {
		t.Fatalf("extra: %s", e.Error())
	}
	if _, ok := AsErr(errors.New("plain")); ok {
		t.Fatalf("plain error should not be *E")
	}
}
