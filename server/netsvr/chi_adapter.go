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

package netsvr

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ChiAdapter 以 chi 實作 NetSvr；handler 與 middleware 都是標準 net/http 介面。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
}

// NewChiServer 建立監聽 addr 的 ChiAdapter。
//
// 不設 WriteTimeout：websocket 串流會長時間佔用連線。
func NewChiServer(addr string) *ChiAdapter {
	cr := chi.NewRouter()
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:              addr,
			Handler:           cr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

func (c *ChiAdapter) Run() error {
	return c.server.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Address() string {
	return c.server.Addr
}

// Handler 完整的路由樹，供 httptest 使用。
func (c *ChiAdapter) Handler() http.Handler {
	return c.router
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) {
	c.router.Use(mw)
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) {
	c.router.Get(path, h)
}

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) {
	c.router.Post(path, h)
}

func (c *ChiAdapter) Put(path string, h http.HandlerFunc) {
	c.router.Put(path, h)
}

func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) {
	c.router.Delete(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&chiRouter{r})
	})
}

// chiRouter 子路由，只有路由能力
type chiRouter struct {
	chi.Router
}

func (r *chiRouter) Use(mw func(http.Handler) http.Handler) {
	r.Router.Use(mw)
}

func (r *chiRouter) Get(path string, h http.HandlerFunc) {
	r.Router.Get(path, h)
}

func (r *chiRouter) Post(path string, h http.HandlerFunc) {
	r.Router.Post(path, h)
}

func (r *chiRouter) Put(path string, h http.HandlerFunc) {
	r.Router.Put(path, h)
}

func (r *chiRouter) Delete(path string, h http.HandlerFunc) {
	r.Router.Delete(path, h)
}

func (r *chiRouter) Group(path string, fn func(NetRouter)) {
	r.Router.Route(path, func(sub chi.Router) {
		fn(&chiRouter{sub})
	})
}
