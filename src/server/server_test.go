package server_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lost-woods/qrandom/src/backend"
	"github.com/lost-woods/qrandom/src/config"
	"github.com/lost-woods/qrandom/src/entropy"
	"github.com/lost-woods/qrandom/src/rng"
	"github.com/lost-woods/qrandom/src/server"
)

func newServer(t *testing.T, apiKey string) *server.Server {
	t.Helper()
	r, err := entropy.NewSeeded("server-test")
	if err != nil {
		t.Fatalf("seeded: %v", err)
	}
	sim, err := backend.NewSimulator(r)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}

	src := rng.NewBitSource(sim)
	h := rng.NewHealth()
	if err := rng.HealthCheck(context.Background(), src, h); err != nil {
		t.Fatalf("health check: %v", err)
	}
	h.Set(true, "")

	cfg := config.Config{
		Port:             "0",
		APIKey:           apiKey,
		MaxBound:         9999,
		SampleTimeout:    time.Second,
		HealthInterval:   time.Hour,
		CircuitCacheSize: 16,
	}
	return server.New(cfg, rng.NewSampler(src), src, h, zap.NewNop().Sugar())
}

func get(s *server.Server, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	s := newServer(t, "")

	for n := 1; n <= 20; n++ {
		w := get(s, fmt.Sprintf("/?max=%d", n), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("max=%d expected 200 got %d: %s", n, w.Code, w.Body.String())
		}
		var v int
		var bits string
		if _, err := fmt.Sscanf(w.Body.String(), "%d (%s", &v, &bits); err != nil {
			t.Fatalf("max=%d unparseable body %q: %v", n, w.Body.String(), err)
		}
		if v < 1 || v > n {
			t.Fatalf("max=%d got out-of-range %d", n, v)
		}
	}

	if w := get(s, "/circuit?max=9999", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "qreg q[14];") {
		t.Fatalf("unexpected circuit response %d: %s", w.Code, w.Body.String())
	}
	if w := get(s, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("expected healthy, got %d: %s", w.Code, w.Body.String())
	}
	if w := get(s, "/?max=10000", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 above MaxBound, got %d", w.Code)
	}
}

func TestServer_APIKeyAndCORS(t *testing.T) {
	s := newServer(t, "secret")

	if w := get(s, "/", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without key, got %d", w.Code)
	}

	w := get(s, "/", map[string]string{"X-API-KEY": "secret", "Origin": "https://ui.example.org"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header: %v", w.Header())
	}
}

func TestServer_RunStopsWithContext(t *testing.T) {
	s := newServer(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
