package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeEndpoint(h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(path, h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestReadyGate(t *testing.T) {
	c := NewChecker()
	assert.False(t, c.Ready(), "fresh checker must not be ready")

	c.MarkReady(true)
	assert.True(t, c.Ready())

	c.MarkReady(false)
	assert.False(t, c.Ready())
}

func TestLiveHandler_Passing(t *testing.T) {
	c := NewChecker()
	c.Liveness("noop", time.Second, func(context.Context) error { return nil })

	rec := probeEndpoint(c.LiveHandler(), "/livez")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProbe_TripsAfterConsecutiveFailures(t *testing.T) {
	p := newProbe("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	ctx := context.Background()
	p.observe(ctx)
	p.observe(ctx)
	assert.True(t, p.passing.Load(), "two failures must not trip the probe")

	p.observe(ctx)
	assert.False(t, p.passing.Load(), "third consecutive failure trips it")

	// One success clears it again.
	p.fn = func(context.Context) error { return nil }
	p.observe(ctx)
	assert.True(t, p.passing.Load())
}

func TestReadyHandler_ReportsFailures(t *testing.T) {
	c := NewChecker()
	c.MarkReady(true)
	c.Readiness("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	// Trip the probe manually past its failure threshold.
	c.mu.RLock()
	p := c.readiness[0]
	c.mu.RUnlock()
	for range defaultFailuresToTrip {
		p.observe(context.Background())
	}

	rec := probeEndpoint(c.ReadyHandler(), "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.False(t, c.Ready())
}

func TestReadyHandler_DrainingGate(t *testing.T) {
	c := NewChecker()

	rec := probeEndpoint(c.ReadyHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "_gate")
}

func TestRun_ObservesOnInterval(t *testing.T) {
	calls := make(chan struct{}, 16)
	c := NewChecker()
	c.Readiness("tick", time.Second, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Run(ctx, 10*time.Millisecond)
	defer c.Shutdown()

	// The probe fires once immediately and then on the ticker.
	for range 2 {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("probe was not observed in time")
		}
	}

	c.MarkReady(true)
	assert.True(t, c.Ready())
}

func TestMaxGoroutines(t *testing.T) {
	assert.NoError(t, MaxGoroutines(1_000_000)(context.Background()))
	assert.Error(t, MaxGoroutines(0)(context.Background()))
}
