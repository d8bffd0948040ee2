package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := shared.NewLogger(&logs)

	h := RequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	out := logs.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "path=/brew")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "request_id=")
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	h := Recover(shared.NewLogger(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "boom")
}

func TestRateLimiter(t *testing.T) {
	t.Run("BurstThenReject", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 2)
		h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("PerClient", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 1)

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"))
	})

	t.Run("CleanupEvictsIdleClients", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 1)
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return now }

		rl.Allow("10.0.0.1")
		now = now.Add(5 * time.Minute)
		rl.Allow("10.0.0.2")
		require.Equal(t, 2, rl.Len())

		now = now.Add(6 * time.Minute)
		rl.Cleanup(10 * time.Minute)
		assert.Equal(t, 1, rl.Len())

		assert.True(t, rl.Allow("10.0.0.1"), "an evicted client starts with a fresh bucket")
		assert.False(t, rl.Allow("10.0.0.2"))
	})

	t.Run("StartCleanupStopsWithContext", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 1)
		rl.Allow("10.0.0.1")

		ctx, cancel := context.WithCancel(context.Background())
		rl.StartCleanup(ctx, time.Millisecond, 0)
		assert.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)
		cancel()
	})

	t.Run("Disabled", func(t *testing.T) {
		rl := NewRateLimiter(0, 0)
		for i := 0; i < 10; i++ {
			assert.True(t, rl.Allow("10.0.0.1"))
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("MiddlewareOrder", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("CustomHandler", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(NewHealthHandler(nil))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
