// README: Estimate handler; validates the raw body, rewrites legacy keys and maps results to HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"charter/internal/logger"
	"charter/internal/modules/pricing"
	"charter/internal/types"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
	msgString   = "Not a valid string."
	msgInteger  = "A valid integer is required."
	msgNumber   = "A valid number is required."
	msgBody     = "Request body must be a JSON object."
)

// Estimator is the pricing surface the handler dispatches to.
type Estimator interface {
	Estimate(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

type PricingHandler struct {
	pricing  Estimator
	log      logger.Logger
	validate *validator.Validate
}

func NewPricingHandler(svc Estimator, log logger.Logger) *PricingHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &PricingHandler{pricing: svc, log: log, validate: newValidator()}
}

type estimateReq struct {
	Origin                  *string  `json:"origin" validate:"required,min=1"`
	Destination             *string  `json:"destination" validate:"required,min=1"`
	MappedFrom              *string  `json:"mapped_from" validate:"required,min=1"`
	MappedTo                *string  `json:"mapped_to" validate:"required,min=1"`
	AircraftID              *int     `json:"aircraft_id" validate:"required"`
	FlightHours             *float64 `json:"flight_hours" validate:"required,gte=0"`
	Passengers              *int     `json:"passengers" validate:"required,gte=0"`
	OriginParkingHours      *float64 `json:"origin_parking_hours" validate:"omitempty,gte=0"`
	DestinationParkingHours *float64 `json:"destination_parking_hours" validate:"omitempty,gte=0"`
}

// Estimate handles POST /api/pricing/estimate and the legacy POST /estimate/.
func (h *PricingHandler) Estimate(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		writeValidationErrors(c, map[string][]string{"non_field_errors": {msgBody}})
		return
	}
	rewriteLegacyKeys(body)

	req, errs := h.decode(body)
	if len(errs) > 0 {
		h.log.Debug("estimate request rejected", "errors", errs)
		writeValidationErrors(c, errs)
		return
	}

	q, err := h.pricing.Estimate(c.Request.Context(), req.toPricing())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}

// rewriteLegacyKeys moves from/to onto origin/destination. An explicit origin or
// destination is kept and the alias dropped.
func rewriteLegacyKeys(body map[string]json.RawMessage) {
	for alias, key := range map[string]string{"from": "origin", "to": "destination"} {
		v, ok := body[alias]
		if !ok {
			continue
		}
		delete(body, alias)
		if _, exists := body[key]; !exists {
			body[key] = v
		}
	}
}

func (h *PricingHandler) decode(body map[string]json.RawMessage) (estimateReq, map[string][]string) {
	var req estimateReq
	errs := map[string][]string{}

	fields := []struct {
		name string
		dst  any
		msg  string
	}{
		{"origin", &req.Origin, msgString},
		{"destination", &req.Destination, msgString},
		{"mapped_from", &req.MappedFrom, msgString},
		{"mapped_to", &req.MappedTo, msgString},
		{"aircraft_id", &req.AircraftID, msgInteger},
		{"flight_hours", &req.FlightHours, msgNumber},
		{"passengers", &req.Passengers, msgInteger},
		{"origin_parking_hours", &req.OriginParkingHours, msgNumber},
		{"destination_parking_hours", &req.DestinationParkingHours, msgNumber},
	}
	for _, f := range fields {
		raw, ok := body[f.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			errs[f.name] = append(errs[f.name], f.msg)
		}
	}
	for _, s := range []*string{req.Origin, req.Destination, req.MappedFrom, req.MappedTo} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs["non_field_errors"] = append(errs["non_field_errors"], err.Error())
			return req, errs
		}
		for _, fe := range verrs {
			if _, typed := errs[fe.Field()]; typed {
				continue
			}
			errs[fe.Field()] = append(errs[fe.Field()], validationMessage(fe))
		}
	}
	return req, errs
}

func (r estimateReq) toPricing() pricing.Request {
	out := pricing.Request{
		From:        types.AirportCode(*r.Origin),
		To:          types.AirportCode(*r.Destination),
		MappedFrom:  types.AirportCode(*r.MappedFrom),
		MappedTo:    types.AirportCode(*r.MappedTo),
		AircraftID:  *r.AircraftID,
		FlightHours: *r.FlightHours,
		Passengers:  *r.Passengers,
	}
	if r.OriginParkingHours != nil {
		out.OriginParkingHours = *r.OriginParkingHours
	}
	if r.DestinationParkingHours != nil {
		out.DestinationParkingHours = *r.DestinationParkingHours
	}
	return out
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "min":
		return msgBlank
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}
