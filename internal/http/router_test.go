package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charter/internal/metrics"
	"charter/internal/modules/pricing"
	"charter/internal/refdata"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := refdata.LoadFiles("../../data")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New("charter", reg)
	return NewRouter(RouterDeps{
		Pricing:  pricing.NewService(store, pricing.DefaultOptions(), pricing.ServiceDeps{Metrics: m}),
		Catalog:  store,
		Metrics:  m,
		Gatherer: reg,
		GinMode:  gin.TestMode,
	})
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_EstimateEndToEnd(t *testing.T) {
	r := testRouter(t)

	body := `{"from": "Delhi", "to": "Mumbai", "mapped_from": "del", "mapped_to": "bom",
		"aircraft_id": 1, "flight_hours": 2, "passengers": 4}`
	w := serve(r, http.MethodPost, "/estimate/", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var q pricing.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	require.Len(t, q.HandlingBreakdown, 2)
	assert.Equal(t, "del", q.HandlingBreakdown[0].Airport)
	assert.Equal(t, "bom", q.HandlingBreakdown[1].Airport)
	assert.Equal(t, q.SubtotalAfterMarket+q.Tax+q.PlatformFee, q.FinalPrice)

	again := serve(r, http.MethodPost, "/api/pricing/estimate", body)
	assert.Equal(t, w.Body.String(), again.Body.String())
}

func TestRouter_UnknownAircraft(t *testing.T) {
	r := testRouter(t)
	w := serve(r, http.MethodPost, "/api/pricing/estimate", `{"origin": "Delhi", "destination": "Mumbai",
		"mapped_from": "DEL", "mapped_to": "BOM", "aircraft_id": 999, "flight_hours": 2, "passengers": 4}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "unknown aircraft_id: 999")
}

func TestRouter_FlightHoursBeyondFloatRange(t *testing.T) {
	r := testRouter(t)
	w := serve(r, http.MethodPost, "/api/pricing/estimate", `{"origin": "Delhi", "destination": "Mumbai",
		"mapped_from": "DEL", "mapped_to": "BOM", "aircraft_id": 1, "flight_hours": 1e305, "passengers": 4}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "quote amount out of range")
}

func TestRouter_ReferenceListings(t *testing.T) {
	r := testRouter(t)

	w := serve(r, http.MethodGet, "/api/pricing/airports", "")
	require.Equal(t, http.StatusOK, w.Code)
	var airports struct {
		Airports []string `json:"airports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &airports))
	assert.Equal(t, []string{"BLR", "BOM", "DEL", "GOI"}, airports.Airports)

	w = serve(r, http.MethodGet, "/api/pricing/aircraft", "")
	require.Equal(t, http.StatusOK, w.Code)
	var aircraft struct {
		Aircraft []refdata.Aircraft `json:"aircraft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aircraft))
	assert.NotEmpty(t, aircraft.Aircraft)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := testRouter(t)

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	serve(r, http.MethodPost, "/api/pricing/estimate", `{"origin": "Delhi", "destination": "Mumbai",
		"mapped_from": "DEL", "mapped_to": "BOM", "aircraft_id": 1, "flight_hours": 1, "passengers": 1}`)
	w = serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "charter_quotes_total 1")
	assert.Contains(t, w.Body.String(), "charter_http_requests_total")
}
