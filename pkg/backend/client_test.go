package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	headers http.Header
	body    map[string]any
}

func newBackend(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	handler := func(w http.ResponseWriter, r *http.Request) {
		rec.headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}
	r := chi.NewRouter()
	r.Post(backend.EndpointContext, handler)
	r.Post(backend.EndpointGenerate, handler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_Context(t *testing.T) {
	srv, rec := newBackend(t, http.StatusOK, `{"results":[{"content":"actor {}","source":"a.mo","score":0.91234},{"content":"x"}]}`)
	c := backend.New(srv.URL+"/", "secret")

	resp, err := c.Context(context.Background(), backend.ContextRequest{Query: "actors", Limit: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "actor {}", first.Content)
	require.NotNil(t, first.Source)
	assert.Equal(t, "a.mo", *first.Source)
	require.NotNil(t, first.Score)
	assert.InDelta(t, 0.91234, *first.Score, 1e-9)

	assert.Nil(t, resp.Results[1].Source)
	assert.Nil(t, resp.Results[1].Score)

	assert.Equal(t, "secret", rec.headers.Get("x-api-key"))
	assert.Equal(t, "application/json", rec.headers.Get("Content-Type"))
	assert.Contains(t, rec.headers.Get("User-Agent"), "motoko-mcp/")
	assert.Equal(t, "actors", rec.body["query"])
	assert.EqualValues(t, 5, rec.body["limit"])
}

func TestClient_Generate(t *testing.T) {
	srv, rec := newBackend(t, http.StatusOK, `{"code":"actor { };","explanation":"empty actor"}`)
	c := backend.New(srv.URL, "secret")

	resp, err := c.Generate(context.Background(), backend.GenerateRequest{
		Prompt:      "add two numbers",
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Code)
	assert.Equal(t, "actor { };", *resp.Code)
	assert.Nil(t, resp.Response)
	require.NotNil(t, resp.Explanation)

	assert.Equal(t, "add two numbers", rec.body["prompt"])
	assert.InDelta(t, 0.7, rec.body["temperature"], 1e-9)
	assert.EqualValues(t, 2000, rec.body["max_tokens"])
	_, hasQuery := rec.body["query"]
	assert.False(t, hasQuery, "empty query must be omitted")
}

func TestClient_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"Server Error With Body", http.StatusInternalServerError, "rate limited", "rate limited"},
		{"Unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, `{"error":"bad key"}`},
		{"Empty Body", http.StatusBadGateway, "", "502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newBackend(t, tt.status, tt.body)
			c := backend.New(srv.URL, "k")

			_, err := c.Generate(context.Background(), backend.GenerateRequest{Prompt: "p"})
			require.Error(t, err)
			assert.True(t, backend.IsError(err))
			assert.Equal(t, tt.wantMsg, err.Error())

			var be *backend.Error
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.status, be.StatusCode)
			assert.Equal(t, backend.EndpointGenerate, be.Endpoint)
		})
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, "<html>oops</html>")
	c := backend.New(srv.URL, "k")

	_, err := c.Context(context.Background(), backend.ContextRequest{Query: "q", Limit: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrInvalidResponse)
	assert.False(t, backend.IsError(err))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := backend.New(url, "k", backend.WithTimeout(2*time.Second))
	_, err := c.Context(context.Background(), backend.ContextRequest{Query: "q", Limit: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := backend.New(srv.URL, "k", backend.WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := c.Generate(context.Background(), backend.GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_TimeoutWithCustomHTTPClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	tests := []struct {
		name  string
		order func(hc *http.Client) []backend.Option
	}{
		{
			name: "Timeout Before Client",
			order: func(hc *http.Client) []backend.Option {
				return []backend.Option{backend.WithTimeout(50 * time.Millisecond), backend.WithHTTPClient(hc)}
			},
		},
		{
			name: "Timeout After Client",
			order: func(hc *http.Client) []backend.Option {
				return []backend.Option{backend.WithHTTPClient(hc), backend.WithTimeout(50 * time.Millisecond)}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := &http.Client{}
			c := backend.New(srv.URL, "k", tt.order(hc)...)

			start := time.Now()
			_, err := c.Context(context.Background(), backend.ContextRequest{Query: "q", Limit: 1})
			require.Error(t, err)
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Zero(t, hc.Timeout, "caller's client is left untouched")
		})
	}
}

type observation struct {
	endpoint string
	status   int
	err      error
}

type fakeObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeObserver) ObserveRequest(endpoint string, status int, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{endpoint, status, err})
}

func TestClient_Observer(t *testing.T) {
	srv, _ := newBackend(t, http.StatusTeapot, "short and stout")
	obs := &fakeObserver{}
	c := backend.New(srv.URL, "k", backend.WithObserver(obs))

	_, err := c.Context(context.Background(), backend.ContextRequest{Query: "q", Limit: 1})
	require.Error(t, err)

	require.Len(t, obs.obs, 1)
	assert.Equal(t, backend.EndpointContext, obs.obs[0].endpoint)
	assert.Equal(t, http.StatusTeapot, obs.obs[0].status)
	assert.Error(t, obs.obs[0].err)
}
