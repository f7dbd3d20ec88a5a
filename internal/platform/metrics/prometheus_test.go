package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_Counters(t *testing.T) {
	m := NewMetricsManager("market")

	m.ListingCreated("taxi")
	m.ListingCreated("taxi")
	m.SearchServed(OutcomeEmpty)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ListingsCreated.WithLabelValues("taxi")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ListingsCreated.WithLabelValues("rent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues(OutcomeEmpty)))
}

func TestMetricsManager_Handler(t *testing.T) {
	m := NewMetricsManager("market")
	m.ListingDeleted("shop")
	m.ObserveHTTP("GET", "/listings/{category}", 200, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `market_listings_deleted_total{category="shop"} 1`)
	assert.Contains(t, body, `market_http_request_duration_seconds_count{method="GET",route="/listings/{category}",status="200"} 1`)
}
