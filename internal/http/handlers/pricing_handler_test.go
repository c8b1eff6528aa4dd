// README: Estimate handler tests (validation, legacy keys, error mapping).
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"charter/internal/http/handlers"
	"charter/internal/modules/pricing"
)

// stubEstimator records the request it was given and returns a canned result.
type stubEstimator struct {
	got   *pricing.Request
	quote pricing.Quote
	err   error
}

func (s *stubEstimator) Estimate(_ context.Context, req pricing.Request) (pricing.Quote, error) {
	s.got = &req
	return s.quote, s.err
}

func buildTestRouter(est handlers.Estimator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewPricingHandler(est, nil)
	r.POST("/api/pricing/estimate", h.Estimate)
	r.POST("/estimate/", h.Estimate)
	return r
}

func doRequest(r *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp.Errors
}

const validBody = `{
	"origin": "Delhi", "destination": "Mumbai",
	"mapped_from": "del", "mapped_to": "BOM",
	"aircraft_id": 1, "flight_hours": 2, "passengers": 4
}`

func TestEstimate_Success(t *testing.T) {
	est := &stubEstimator{quote: pricing.Quote{AircraftModel: "Citation XLS", FinalPrice: 161792}}
	r := buildTestRouter(est)

	w := doRequest(r, "/api/pricing/estimate", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	want := pricing.Request{
		From: "Delhi", To: "Mumbai", MappedFrom: "del", MappedTo: "BOM",
		AircraftID: 1, FlightHours: 2, Passengers: 4,
	}
	if est.got == nil || *est.got != want {
		t.Errorf("dispatched %+v, want %+v", est.got, want)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"aircraft_model", "hourly_rate", "flight_hours", "base_price", "ops_cost",
		"handling_total", "handling_breakdown", "subtotal_after_market", "platform_fee", "gst_18_percent", "final_price"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
}

func TestEstimate_LegacyKeys(t *testing.T) {
	est := &stubEstimator{}
	r := buildTestRouter(est)

	w := doRequest(r, "/estimate/", `{
		"from": "Delhi", "to": "Goa",
		"mapped_from": "DEL", "mapped_to": "GOI",
		"aircraft_id": 2, "flight_hours": 1.5, "passengers": 0
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if est.got.From != "Delhi" || est.got.To != "Goa" {
		t.Errorf("from/to = %q/%q, want Delhi/Goa", est.got.From, est.got.To)
	}
}

func TestEstimate_ExplicitOriginWins(t *testing.T) {
	est := &stubEstimator{}
	r := buildTestRouter(est)

	w := doRequest(r, "/api/pricing/estimate", `{
		"origin": "New Delhi", "from": "Delhi", "destination": "Mumbai",
		"mapped_from": "DEL", "mapped_to": "BOM",
		"aircraft_id": 1, "flight_hours": 2, "passengers": 1
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if est.got.From != "New Delhi" {
		t.Errorf("from = %q, want New Delhi", est.got.From)
	}
}

func TestEstimate_ParkingHours(t *testing.T) {
	est := &stubEstimator{}
	r := buildTestRouter(est)

	w := doRequest(r, "/api/pricing/estimate", `{
		"origin": "Delhi", "destination": "Mumbai",
		"mapped_from": "DEL", "mapped_to": "BOM",
		"aircraft_id": 1, "flight_hours": 2, "passengers": 1,
		"destination_parking_hours": 6.5
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if est.got.OriginParkingHours != 0 || est.got.DestinationParkingHours != 6.5 {
		t.Errorf("parking = %v/%v, want 0/6.5", est.got.OriginParkingHours, est.got.DestinationParkingHours)
	}
}

func TestEstimate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields map[string]string
	}{
		{
			name: "all missing",
			body: `{}`,
			fields: map[string]string{
				"origin":       "This field is required.",
				"destination":  "This field is required.",
				"mapped_from":  "This field is required.",
				"mapped_to":    "This field is required.",
				"aircraft_id":  "This field is required.",
				"flight_hours": "This field is required.",
				"passengers":   "This field is required.",
			},
		},
		{
			name: "wrong types",
			body: `{"origin": 5, "destination": "Mumbai", "mapped_from": "DEL", "mapped_to": "BOM",
				"aircraft_id": "one", "flight_hours": "two", "passengers": 1.5}`,
			fields: map[string]string{
				"origin":       "Not a valid string.",
				"aircraft_id":  "A valid integer is required.",
				"flight_hours": "A valid number is required.",
				"passengers":   "A valid integer is required.",
			},
		},
		{
			name: "blank and negative",
			body: `{"origin": "  ", "destination": "Mumbai", "mapped_from": "DEL", "mapped_to": "BOM",
				"aircraft_id": 1, "flight_hours": -1, "passengers": 2, "origin_parking_hours": -3}`,
			fields: map[string]string{
				"origin":               "This field may not be blank.",
				"flight_hours":         "Ensure this value is greater than or equal to 0.",
				"origin_parking_hours": "Ensure this value is greater than or equal to 0.",
			},
		},
		{
			name: "null counts as missing",
			body: `{"origin": "Delhi", "destination": "Mumbai", "mapped_from": "DEL", "mapped_to": null,
				"aircraft_id": 1, "flight_hours": 2, "passengers": 2}`,
			fields: map[string]string{"mapped_to": "This field is required."},
		},
		{
			name:   "not an object",
			body:   `[1, 2]`,
			fields: map[string]string{"non_field_errors": "Request body must be a JSON object."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := &stubEstimator{}
			w := doRequest(buildTestRouter(est), "/api/pricing/estimate", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if est.got != nil {
				t.Error("estimator must not be called on invalid input")
			}
			errs := decodeErrors(t, w)
			if len(errs) != len(tt.fields) {
				t.Errorf("errors = %v, want fields %v", errs, tt.fields)
			}
			for field, msg := range tt.fields {
				if got := errs[field]; len(got) != 1 || got[0] != msg {
					t.Errorf("errors[%s] = %v, want [%s]", field, got, msg)
				}
			}
		})
	}
}

func TestEstimate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unknown aircraft", fmt.Errorf("%w: %d", pricing.ErrUnknownAircraft, 9), http.StatusUnprocessableEntity, "unknown aircraft_id: 9"},
		{"unconfigured airport", fmt.Errorf("%w: %s", pricing.ErrUnconfiguredAirport, "XYZ"), http.StatusUnprocessableEntity, "no tariff configured for airport: XYZ"},
		{"tariff config", fmt.Errorf("airport DEL: %w", pricing.ErrTariffConfig), http.StatusInternalServerError, "airport DEL: airport tariff misconfigured"},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(buildTestRouter(&stubEstimator{err: tt.err}), "/api/pricing/estimate", validBody)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error != tt.message {
				t.Errorf("error = %q, want %q", resp.Error, tt.message)
			}
		})
	}
}
