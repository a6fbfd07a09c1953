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

package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// encoder 可重用的壓縮器：寫入、Flush、Reset 到新的底層、Close 寫出尾段。
type encoder interface {
	io.WriteCloser
	Flush() error
}

// codec 一種 Content-Encoding 與它的壓縮器池
type codec struct {
	name  string
	pool  sync.Pool
	reset func(e encoder, w io.Writer)
}

// 依偏好順序比對 Accept-Encoding
var codecs = []*codec{
	{
		name: "zstd",
		pool: sync.Pool{New: func() any {
			zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
			if err != nil {
				panic(err)
			}
			return zw
		}},
		reset: func(e encoder, w io.Writer) { e.(*zstd.Encoder).Reset(w) },
	},
	{
		name: "gzip",
		pool: sync.Pool{New: func() any {
			gw, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
			return gw
		}},
		reset: func(e encoder, w io.Writer) { e.(*gzip.Writer).Reset(w) },
	},
}

func (c *codec) get(w io.Writer) encoder {
	e := c.pool.Get().(encoder)
	c.reset(e, w)
	return e
}

// put 沒有內容的回應（204 / 304）把尾段寫到 io.Discard
func (c *codec) put(e encoder, discard bool) {
	if discard {
		c.reset(e, io.Discard)
	}
	_ = e.Close()
	c.pool.Put(e)
}

func pickCodec(accept string) *codec {
	accept = strings.ToLower(accept)
	for _, c := range codecs {
		if strings.Contains(accept, c.name) {
			return c
		}
	}
	return nil
}

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應；HEAD 與 websocket 升級直接放行。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || isUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		c := pickCodec(r.Header.Get("Accept-Encoding"))
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", c.name)
		w.Header().Add("Vary", "Accept-Encoding")

		cw := &compressWriter{ResponseWriter: w, enc: c.get(w)}
		defer func() { c.put(cw.enc, cw.bypass) }()
		next.ServeHTTP(cw, r)
	})
}

type compressWriter struct {
	http.ResponseWriter
	enc    encoder
	bypass bool // 回應不帶內容，不經過壓縮器
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if noBody(code) {
		cw.bypass = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.bypass {
		return cw.ResponseWriter.Write(b)
	}
	h := cw.Header()
	h.Del("Content-Length")
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) Flush() {
	if !cw.bypass {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}

func isUpgrade(r *http.Request) bool {
	return r.Header.Get("Upgrade") != "" ||
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}

// 1xx / 204 / 304
func noBody(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}
