// README: Pricing service aggregates flight, operating, handling, market, tax and platform charges into a quote.
package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"charter/internal/logger"
	"charter/internal/metrics"
	"charter/internal/refdata"
	"charter/internal/types"
)

// ReferenceData is the read-only lookup surface the aggregator needs.
type ReferenceData interface {
	Aircraft(id int) (refdata.Aircraft, bool)
	Tariff(code types.AirportCode) (refdata.AirportTariff, bool)
	Ops() refdata.OpsRates
	Market() refdata.Market
	// Fingerprint identifies the loaded content; cached quotes are keyed on it.
	Fingerprint() string
}

type ServiceDeps struct {
	Cache   QuoteCache
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

type Service struct {
	ref     ReferenceData
	opts    Options
	cache   QuoteCache
	log     logger.Logger
	metrics *metrics.Metrics
}

func NewService(ref ReferenceData, opts Options, deps ServiceDeps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		ref:     ref,
		opts:    opts,
		cache:   deps.Cache,
		log:     log,
		metrics: deps.Metrics,
	}
}

// Estimate returns the itemized quote for one charter leg. Any failure aborts the
// whole computation; no partial quote is returned.
func (s *Service) Estimate(ctx context.Context, req Request) (Quote, error) {
	start := time.Now()

	var key string
	if s.cache != nil {
		key = cacheKey(req, s.opts, s.ref.Fingerprint())
		q, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.CacheLookup("error")
			s.log.Warn("quote cache lookup failed", "error", err)
		case ok:
			s.metrics.CacheLookup("hit")
			s.metrics.ObserveQuote(time.Since(start))
			return q, nil
		default:
			s.metrics.CacheLookup("miss")
		}
	}

	q, err := s.compute(req)
	if err != nil {
		kind := KindOf(err)
		s.metrics.QuoteFailed(string(kind))
		s.log.Warn("quote failed", "kind", kind, "error", err,
			"aircraft_id", req.AircraftID, "mapped_from", req.MappedFrom, "mapped_to", req.MappedTo)
		return Quote{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, q); err != nil {
			s.log.Warn("quote cache store failed", "error", err)
		}
	}

	s.metrics.ObserveQuote(time.Since(start))
	s.log.Debug("quote computed", "aircraft_id", req.AircraftID, "final_price", q.FinalPrice)
	return q, nil
}

func (s *Service) compute(req Request) (Quote, error) {
	aircraft, ok := s.ref.Aircraft(req.AircraftID)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %d", ErrUnknownAircraft, req.AircraftID)
	}

	var mtow float64
	if s.opts.BillAircraftMTOW {
		mtow = aircraft.MTOWKg
	}
	stops := Itinerary(req, mtow)

	basePrice := req.FlightHours * aircraft.HourlyRate
	opsCost := req.FlightHours * s.ref.Ops().PerHour()

	breakdown := make([]HandlingBreakdown, 0, len(stops))
	var handlingTotal float64
	for _, stop := range stops {
		tariff, ok := s.ref.Tariff(stop.Airport)
		if !ok {
			return Quote{}, fmt.Errorf("%w: %s", ErrUnconfiguredAirport, stop.Airport)
		}
		h, err := ComputeHandling(tariff, stop.MTOWKg, stop.ParkingHours, stop.PaxDeparting, stop.PaxArriving)
		if err != nil {
			return Quote{}, fmt.Errorf("airport %s: %w", stop.Airport.Key(), err)
		}
		h.Airport = stop.Airport.String()
		breakdown = append(breakdown, h)
		handlingTotal += h.Total
	}

	subtotal := (basePrice + opsCost + handlingTotal) * s.ref.Market().DemandFactor
	tax := subtotal * s.opts.TaxRate
	final := subtotal + tax + s.opts.PlatformFee
	if !finite(basePrice, opsCost, handlingTotal, subtotal, tax, final) {
		return Quote{}, fmt.Errorf("%w: flight_hours %v, passengers %d", ErrQuoteOverflow, req.FlightHours, req.Passengers)
	}

	return Quote{
		AircraftModel:       aircraft.Model,
		HourlyRate:          aircraft.HourlyRate,
		FlightHours:         req.FlightHours,
		BasePrice:           basePrice,
		OpsCost:             opsCost,
		HandlingTotal:       handlingTotal,
		HandlingBreakdown:   breakdown,
		SubtotalAfterMarket: subtotal,
		PlatformFee:         s.opts.PlatformFee,
		Tax:                 tax,
		FinalPrice:          final,
	}, nil
}

// Itinerary builds the two stops of a leg: every passenger departs at the origin
// and arrives at the destination.
func Itinerary(req Request, mtowKg float64) []StopLeg {
	return []StopLeg{
		{
			Airport:      req.MappedFrom,
			MTOWKg:       mtowKg,
			ParkingHours: req.OriginParkingHours,
			PaxDeparting: req.Passengers,
		},
		{
			Airport:      req.MappedTo,
			MTOWKg:       mtowKg,
			ParkingHours: req.DestinationParkingHours,
			PaxArriving:  req.Passengers,
		},
	}
}

func finite(amounts ...float64) bool {
	for _, v := range amounts {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
