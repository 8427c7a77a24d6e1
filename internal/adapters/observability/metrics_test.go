package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_booking/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so every vector is exported
	observability.ObserveHTTP("/api/hotels", "GET", 200, 12*time.Millisecond)
	observability.ObserveStore("hotels", "list", "ok", 3*time.Millisecond)
	observability.ObserveCache("destination", "hit")
	observability.ObserveReconcile(2, 1)

	rr := httptest.NewRecorder()
	observability.MetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	assert.Contains(t, out, "travel_booking_http_requests_total")
	assert.Contains(t, out, `travel_booking_store_operations_total{collection="hotels",op="list",status="ok"}`)
	assert.Contains(t, out, `travel_booking_cache_events_total{cache="destination",event="hit"}`)
	assert.Contains(t, out, `travel_booking_reconciled_hotels_total{result="dangling"}`)
	assert.Contains(t, out, "go_goroutines")
}

func TestServeDisabledWithoutAddr(t *testing.T) {
	require.NoError(t, observability.Serve(t.Context(), "", observability.InitRegistry()))
}
