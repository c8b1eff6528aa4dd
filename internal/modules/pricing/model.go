// README: Pricing request, itinerary stop and quote definitions.
package pricing

import "charter/internal/types"

// Request is a validated quote request. From/To are display codes; MappedFrom/MappedTo
// are the tariff lookup codes and may alias several display airports to one tariff zone.
type Request struct {
	From                    types.AirportCode `json:"from"`
	To                      types.AirportCode `json:"to"`
	MappedFrom              types.AirportCode `json:"mapped_from"`
	MappedTo                types.AirportCode `json:"mapped_to"`
	AircraftID              int               `json:"aircraft_id"`
	FlightHours             float64           `json:"flight_hours"`
	Passengers              int               `json:"passengers"`
	OriginParkingHours      float64           `json:"origin_parking_hours"`
	DestinationParkingHours float64           `json:"destination_parking_hours"`
}

// StopLeg is one endpoint of the itinerary.
type StopLeg struct {
	Airport      types.AirportCode
	MTOWKg       float64
	ParkingHours float64
	PaxDeparting int
	PaxArriving  int
}

type HandlingBreakdown struct {
	Airport        string  `json:"airport"`
	WeightMTBilled int     `json:"weight_mt_billed"`
	Landing        float64 `json:"landing"`
	Parking        float64 `json:"parking"`
	UDF            float64 `json:"udf"`
	ATC            float64 `json:"atc"`
	Total          float64 `json:"total"`
}

type Quote struct {
	AircraftModel       string              `json:"aircraft_model"`
	HourlyRate          float64             `json:"hourly_rate"`
	FlightHours         float64             `json:"flight_hours"`
	BasePrice           float64             `json:"base_price"`
	OpsCost             float64             `json:"ops_cost"`
	HandlingTotal       float64             `json:"handling_total"`
	HandlingBreakdown   []HandlingBreakdown `json:"handling_breakdown"`
	SubtotalAfterMarket float64             `json:"subtotal_after_market"`
	PlatformFee         float64             `json:"platform_fee"`
	Tax                 float64             `json:"gst_18_percent"`
	FinalPrice          float64             `json:"final_price"`
}

const (
	DefaultTaxRate     = 0.18
	DefaultPlatformFee = 15000.0
)

// Options are the business constants applied by the aggregator.
type Options struct {
	TaxRate     float64
	PlatformFee float64
	// BillAircraftMTOW bills landing and parking on the aircraft's MTOW instead of zero weight.
	BillAircraftMTOW bool
}

func DefaultOptions() Options {
	return Options{TaxRate: DefaultTaxRate, PlatformFee: DefaultPlatformFee}
}
