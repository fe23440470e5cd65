package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(perMinute int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: perMinute})
	rl.now = c.now
	return rl, c
}

func TestLimiter_Allow(t *testing.T) {
	rl, c := newTestLimiter(3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d rejected within limit", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth request allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other client throttled")
	}

	// Steady retries do not extend the window.
	c.t = c.t.Add(59 * time.Second)
	if rl.Allow("1.2.3.4") {
		t.Fatal("request allowed before window ended")
	}
	c.t = c.t.Add(time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request rejected in a new window")
	}

	if m := rl.GetMetrics(); m.TotalHits != 2 || m.ClientCount != 2 {
		t.Errorf("metrics = %+v, want 2 hits and 2 clients", m)
	}
}

func TestNewLimiter_Defaults(t *testing.T) {
	rl := NewLimiter(Config{})
	if rl.requestsPerMinute != DefaultConfig().RequestsPerMinute {
		t.Errorf("requestsPerMinute = %d", rl.requestsPerMinute)
	}
	if rl.cleanupInterval != DefaultConfig().CleanupInterval {
		t.Errorf("cleanupInterval = %v", rl.cleanupInterval)
	}
}

func TestLimiter_CleanupStaleEntries(t *testing.T) {
	rl, c := newTestLimiter(5)
	rl.Allow("old")
	c.t = c.t.Add(11 * time.Minute)
	rl.Allow("new")

	if n := rl.cleanupStaleEntries(); n != 1 {
		t.Fatalf("removed %d entries, want 1", n)
	}
	if m := rl.GetMetrics(); m.ClientCount != 1 {
		t.Errorf("ClientCount = %d, want 1", m.ClientCount)
	}
}

func TestLimiter_RunStops(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = rl.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLimiter_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(1)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	byAddr := func(r *http.Request) string { return r.RemoteAddr }

	tests := []struct {
		name    string
		onLimit func(http.ResponseWriter, *http.Request)
		want    int
	}{
		{"default rejection", nil, http.StatusTooManyRequests},
		{"custom rejection", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }, http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := rl.Middleware(byAddr, tt.onLimit)(ok)

			req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
			req.RemoteAddr = tt.name

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("first request status = %d", rec.Code)
			}

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("second request status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Error("missing Retry-After header")
			}
		})
	}
}
