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

package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeComp struct {
	stop     chan struct{}
	runErr   error
	shutdown atomic.Int32
}

func newFake(runErr error) *fakeComp {
	return &fakeComp{stop: make(chan struct{}), runErr: runErr}
}

func (f *fakeComp) Run() error {
	if f.runErr != nil {
		return f.runErr
	}
	<-f.stop
	return nil
}

func (f *fakeComp) Shutdown(context.Context) error {
	if f.shutdown.Add(1) == 1 {
		close(f.stop)
	}
	return nil
}

func TestRunContextCancel(t *testing.T) {
	a, b := newFake(nil), newFake(nil)
	app := New(nil, a, b)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := app.RunContext(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.shutdown.Load() != 1 || b.shutdown.Load() != 1 {
		t.Fatalf("shutdown counts = %d %d", a.shutdown.Load(), b.shutdown.Load())
	}
}

func TestRunContextComponentError(t *testing.T) {
	boom := errors.New("boom")
	ok := newFake(nil)
	app := New(nil, ok)
	app.Register(newFake(boom))
	if err := app.RunContext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if ok.shutdown.Load() != 1 {
		t.Fatalf("healthy component not shut down")
	}
}
