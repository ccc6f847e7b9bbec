package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRealIP_IgnoresForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req.Header.Set("X-Real-Ip", "9.10.11.12")
	assert.Equal(t, "192.168.1.1", realIP(req))
}

func TestRealIP_RemoteAddr_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", realIP(req))
}

func TestRealIP_MalformedRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "not-an-addr"
	assert.Equal(t, "not-an-addr", realIP(req))
}

func newBurstLimiter(t *testing.T, burst int) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rl := NewRateLimiter(ctx, rate.Limit(0.001), burst)
	return rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestLimit_RejectsAfterBurstPerIP(t *testing.T) {
	h := newBurstLimiter(t, 2)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/send-otp", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1:1000"))
	assert.Equal(t, http.StatusOK, send("1.1.1.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1:1002"))
	assert.Equal(t, http.StatusOK, send("2.2.2.2:1000"))
}

func TestLimit_RotatingForwardedForStillLimited(t *testing.T) {
	h := newBurstLimiter(t, 10)

	limited := 0
	for i := 0; i < 60; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/verify-otp", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 50, limited)
}

func TestLimit_BehindRealIPKeysOnForwardedClient(t *testing.T) {
	h := chimiddleware.RealIP(newBurstLimiter(t, 1))

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/verify-otp", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
}
