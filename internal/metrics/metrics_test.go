package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRPC("/storefront.Auth/SignIn", "OK", 10*time.Millisecond)
	c.RecordRPC("/storefront.Auth/SignIn", "OK", 20*time.Millisecond)
	c.RecordRateLimited("/storefront.Auth/SignIn")
	c.WatcherStarted()
	c.WatcherStarted()
	c.WatcherStopped()
	c.SnapshotDelivered()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rpcTotal.WithLabelValues("/storefront.Auth/SignIn", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited.WithLabelValues("/storefront.Auth/SignIn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.watchers))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshots))
}

func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.SnapshotDelivered()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	SetupMetricsRoute(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storefront_snapshots_delivered_total")
}
