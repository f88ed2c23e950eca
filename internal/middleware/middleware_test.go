package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/celosave/savings/internal/config"
	"github.com/celosave/savings/internal/ctxkeys"
	"github.com/celosave/savings/internal/service"
)

const wallet = "0x52908400098527886E0F7030069857D2E4169EE7"

func echoAddress() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ctxkeys.Address(r.Context())))
	})
}

func TestRequireAddress(t *testing.T) {
	auth := service.NewAuthService("test-secret", time.Hour)
	token, _, err := auth.GenerateJWT(wallet)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	other, _, _ := service.NewAuthService("other-secret", time.Hour).GenerateJWT(wallet)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "0x52908400098527886e0f7030069857d2e4169ee7"},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "0x52908400098527886e0f7030069857d2e4169ee7"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
	}

	h := RequireAddress(auth)(echoAddress())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != tt.body {
				t.Errorf("address = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := &RateLimiter{
		clients: map[string]*client{},
		limit:   1.0 / 60, // one token a minute
		burst:   2,
		idle:    time.Minute,
		now:     func() time.Time { return now },
	}

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("burst requests should pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("other IPs have their own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.1.1.1") {
		t.Fatal("bucket should refill")
	}

	now = now.Add(5 * time.Minute)
	rl.cleanup()
	if len(rl.clients) != 0 {
		t.Errorf("cleanup left %d clients", len(rl.clients))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(1, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/goals", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := do(); got != http.StatusNoContent {
		t.Fatalf("first = %d", got)
	}
	if got := do(); got != http.StatusTooManyRequests {
		t.Fatalf("second = %d, want 429", got)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:5555"
	if got := getClientIP(req); got != "::1" {
		t.Errorf("getClientIP = %q", got)
	}
	req.Header.Set("X-Real-IP", " 8.8.8.8 ")
	if got := getClientIP(req); got != "8.8.8.8" {
		t.Errorf("getClientIP = %q", got)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.NotFoundHandler(), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 3 || order[0] != "a" || order[2] != "c" {
		t.Errorf("order = %v", order)
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/goals/{id}", func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.RequestID(r.Context()) != "req-1" {
			t.Errorf("request id = %q", ctxkeys.RequestID(r.Context()))
		}
		if cfg := ctxkeys.Config(r.Context()); cfg == nil || cfg.JWTSecret != "" {
			t.Errorf("config not sanitized: %+v", cfg)
		}
		w.WriteHeader(http.StatusTeapot)
	})

	cfg := &config.Config{AppName: "savings", JWTSecret: "secret"}
	h := Chain(mux, RequestID, Config(cfg), RequestLogging)

	req := httptest.NewRequest(http.MethodGet, "/api/goals/7", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") != "req-1" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
}
