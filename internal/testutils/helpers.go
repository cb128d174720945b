// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one call received by a fake backend.
type Request struct {
	Path   string
	APIKey string
	Body   map[string]any
}

// Backend is an in-process stand-in for the Motoko knowledge backend.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewBackend starts a fake backend serving routes (POST only) and closes it
// when the test ends. Every request is recorded before its route runs.
func NewBackend(t *testing.T, routes map[string]http.HandlerFunc) *Backend {
	t.Helper()

	b := &Backend{}
	r := chi.NewRouter()
	r.Use(b.record)
	for path, h := range routes {
		r.Post(path, h)
	}

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))

		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Path:   r.URL.Path,
			APIKey: r.Header.Get("x-api-key"),
			Body:   body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// Requests returns a copy of the recorded requests in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// JSON answers with status and a raw JSON body.
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// Text answers with status and body verbatim.
func Text(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}
