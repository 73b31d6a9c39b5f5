package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/MrSnakeDoc/gompa/internal/store"
	"github.com/MrSnakeDoc/gompa/internal/webservice/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("GET /api/offline/{category}", mw.Monitor("category", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	for _, p := range []string{"/api/offline/maps", "/api/offline/tours"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	expected := `
# HELP gompa_http_requests_total Number of HTTP requests.
# TYPE gompa_http_requests_total counter
gompa_http_requests_total{code="200",handler="category",method="get",path="GET /api/offline/{category}"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gompa_http_requests_total"))
}

func TestRegisterCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := offline.New(store.NewMemory(), offline.WithSource(offline.StaticSource{}))
	now := time.Now()
	metrics.RegisterCache(reg, m, func() time.Time { return now })

	expected := `
# HELP gompa_offline_snapshot_present 1 when a decodable snapshot is stored.
# TYPE gompa_offline_snapshot_present gauge
gompa_offline_snapshot_present 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gompa_offline_snapshot_present"))

	_, err := m.Populate(context.Background(), nil)
	require.NoError(t, err)

	expected = `
# HELP gompa_offline_snapshot_present 1 when a decodable snapshot is stored.
# TYPE gompa_offline_snapshot_present gauge
gompa_offline_snapshot_present 1
# HELP gompa_offline_populate_progress_percent Progress of the current or last populate.
# TYPE gompa_offline_populate_progress_percent gauge
gompa_offline_populate_progress_percent 100
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"gompa_offline_snapshot_present", "gompa_offline_populate_progress_percent"))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
