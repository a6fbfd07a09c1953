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
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/server/httperr"
)

var payload = strings.Repeat(`{"symbol":"Cherry","payout":10}`, 64)

func serve(h http.Handler, method, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bodyHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, payload)
}

func TestCompressionGzip(t *testing.T) {
	rec := serve(Compression(http.HandlerFunc(bodyHandler)), http.MethodGet, "gzip, deflate")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, _ := io.ReadAll(zr)
	if string(got) != payload {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressionZstdPreferred(t *testing.T) {
	h := Compression(http.HandlerFunc(bodyHandler))
	for range 3 { // 走過 pool 重用
		rec := serve(h, http.MethodGet, "gzip, zstd")
		if rec.Header().Get("Content-Encoding") != "zstd" {
			t.Fatalf("encoding = %q", rec.Header().Get("Content-Encoding"))
		}
		dec, err := zstd.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		got, _ := io.ReadAll(dec)
		dec.Close()
		if string(got) != payload {
			t.Fatalf("round trip mismatch")
		}
	}
}

func TestCompressionSkips(t *testing.T) {
	h := Compression(http.HandlerFunc(bodyHandler))
	if rec := serve(h, http.MethodGet, ""); rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != payload {
		t.Fatalf("no accept-encoding should pass through")
	}
	noContent := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := serve(noContent, http.MethodPost, "gzip")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 code=%d len=%d enc=%q", rec.Code, rec.Body.Len(), rec.Header().Get("Content-Encoding"))
	}
}

func TestRecoverInvariant(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	h := RequestID(Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errs.Invariant("grid is not square"))
	})))
	rec := serve(h, http.MethodGet, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	var b httperr.Body
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Kind != "invariant" {
		t.Fatalf("body = %+v", b)
	}
	if !strings.Contains(logs.String(), "panic recovered") {
		t.Fatalf("panic not logged: %s", logs.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}
}

func TestAccessLog(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	h := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	serve(h, http.MethodGet, "")
	out := logs.String()
	if !strings.Contains(out, "http.access") || !strings.Contains(out, "status=404") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("log = %s", out)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(nil)(http.HandlerFunc(bodyHandler))
	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
