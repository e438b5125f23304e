package rate_limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareBurst(t *testing.T) {
	rl := New(1, 3)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/Product/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("10.0.0.1:5000").Code, "request %d", i)
	}

	w := do("10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000").Code)
	assert.Equal(t, 2, rl.Visitors())
}

func TestCleanup(t *testing.T) {
	rl := New(1, 1)
	rl.GetVisitor("10.0.0.1")
	rl.GetVisitor("10.0.0.2")
	require.Equal(t, 2, rl.Visitors())

	rl.Cleanup(time.Hour)
	assert.Equal(t, 2, rl.Visitors())

	rl.Cleanup(0)
	assert.Equal(t, 0, rl.Visitors())
}

func TestStartVisitorCleanupLoopStops(t *testing.T) {
	rl := New(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.StartVisitorCleanupLoop(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
