// README: Reference data records: aircraft, airport tariffs, operating-cost rates and market conditions.
package refdata

import "errors"

var (
	ErrMissingDocument   = errors.New("missing reference document")
	ErrMalformedDocument = errors.New("malformed reference document")
	ErrInvalidReference  = errors.New("invalid reference data")
)

type Aircraft struct {
	ID         int     `json:"id" yaml:"id" csv:"id"`
	Model      string  `json:"model" yaml:"model" csv:"model"`
	HourlyRate float64 `json:"hourly_rate" yaml:"hourly_rate" csv:"hourly_rate"`
	// MTOWKg is optional; zero when the source does not carry it.
	MTOWKg float64 `json:"mtow_kg,omitempty" yaml:"mtow_kg,omitempty" csv:"mtow_kg,omitempty"`
}

// UDFRates are per-passenger user development fees. Absent keys are zero.
type UDFRates struct {
	Depart float64 `json:"depart" yaml:"depart"`
	Arrive float64 `json:"arrive" yaml:"arrive"`
}

// AirportTariff is the fee schedule of one airport. The rate fields are pointers so
// that a field missing from the source stays distinguishable from an explicit zero.
type AirportTariff struct {
	LandingPerMT      *float64  `json:"landing_per_mt" yaml:"landing_per_mt"`
	LandingMin        *float64  `json:"landing_min" yaml:"landing_min"`
	ParkingPerMTHr    *float64  `json:"parking_per_mt_hr" yaml:"parking_per_mt_hr"`
	FreeHours         *float64  `json:"free_hours" yaml:"free_hours"`
	BufferMinutes     *float64  `json:"buffer_minutes" yaml:"buffer_minutes"`
	UDF               *UDFRates `json:"udf,omitempty" yaml:"udf,omitempty"`
	ATCNavigationFlat *float64  `json:"atc_navigation_flat,omitempty" yaml:"atc_navigation_flat,omitempty"`
}

// Empty reports whether no field of the tariff is set.
func (t AirportTariff) Empty() bool {
	return t.LandingPerMT == nil && t.LandingMin == nil && t.ParkingPerMTHr == nil &&
		t.FreeHours == nil && t.BufferMinutes == nil && t.UDF == nil && t.ATCNavigationFlat == nil
}

// UDFRates returns the configured rates, or zero rates when the tariff has none.
func (t AirportTariff) UDFRates() UDFRates {
	if t.UDF == nil {
		return UDFRates{}
	}
	return *t.UDF
}

// ATCFlat returns the flat navigation fee, zero when absent.
func (t AirportTariff) ATCFlat() float64 {
	if t.ATCNavigationFlat == nil {
		return 0
	}
	return *t.ATCNavigationFlat
}

type OpsRates struct {
	CrewCostPerHr    float64 `json:"crew_cost_per_hr"`
	InsurancePerHr   float64 `json:"insurance_per_hr"`
	MaintenancePerHr float64 `json:"maintenance_per_hr"`
}

// PerHour is the combined hourly operating rate.
func (o OpsRates) PerHour() float64 {
	return o.CrewCostPerHr + o.InsurancePerHr + o.MaintenancePerHr
}

type Market struct {
	DemandFactor float64 `json:"demand_factor"`
}

// DefaultDemandFactor applies when the market document has no demand_factor.
const DefaultDemandFactor = 1.0

// Tables is the raw content handed to NewStore by a loader.
type Tables struct {
	Aircraft []Aircraft              `json:"aircraft"`
	Tariffs  map[string]AirportTariff `json:"tariffs"`
	Ops      OpsRates                 `json:"ops"`
	Market   Market                   `json:"market"`
}
