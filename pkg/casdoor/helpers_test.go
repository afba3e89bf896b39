package casdoor

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "e953686f04e7055b698b"
	testClientSecret = "client-secret"
	testOrg          = "built-in"
	testApp          = "app-built-in"
)

func testConfig(endpoint string) Config {
	return NewConfig(endpoint, testClientID, testClientSecret, "", testOrg, testApp)
}

// capturedRequest is what the fake Casdoor saw.
type capturedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	ContentType   string
	RequestID     string
	Authorization string
	Username      string
	Password      string
	BasicAuth     bool
}

// fakeCasdoor is an httptest server that records every request and answers
// with the configured handler.
type fakeCasdoor struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

func newFakeCasdoor(t *testing.T, handler http.HandlerFunc) *fakeCasdoor {
	t.Helper()

	f := &fakeCasdoor{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, ok := r.BasicAuth()

		f.mu.Lock()
		f.requests = append(f.requests, capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Body:        string(body),
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-ID"),
			Authorization: r.Header.Get("Authorization"),
			Username:    user,
			Password:    pass,
			BasicAuth:   ok,
		})
		f.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeCasdoor) client(opts ...Option) *Client {
	return New(testConfig(f.URL), opts...)
}

func (f *fakeCasdoor) last(t *testing.T) capturedRequest {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the fake server")
	return f.requests[len(f.requests)-1]
}

// envelope answers with Casdoor's response envelope.
func envelope(status, msg string, data, data2 any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": status,
			"msg":    msg,
			"sub":    "",
			"name":   "",
			"data":   data,
			"data2":  data2,
		})
	}
}

func okEnvelope(data, data2 any) http.HandlerFunc {
	return envelope("ok", "", data, data2)
}
