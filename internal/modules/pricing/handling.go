// README: Per-airport handling charges: landing, parking, user development fee and ATC flat fee.
package pricing

import (
	"fmt"
	"math"

	"charter/internal/refdata"
)

// NearestBillableWeight converts kilograms to whole metric tons, rounding half away
// from zero (11,600 kg -> 12 MT, 500 kg -> 1 MT). Negative weights bill as 0.
func NearestBillableWeight(mtowKg float64) int {
	if mtowKg <= 0 {
		return 0
	}
	return int(math.Round(mtowKg / 1000.0))
}

// BillableParkingHours subtracts the free allowance plus grace buffer from the raw
// ground time. Never negative.
func BillableParkingHours(rawHours, freeHours float64, bufferMinutes int) float64 {
	effectiveFree := freeHours + float64(bufferMinutes)/60.0
	return math.Max(0, rawHours-effectiveFree)
}

// ComputeHandling prices one stop. The landing minimum is a floor, not a surcharge.
func ComputeHandling(tariff refdata.AirportTariff, mtowKg, parkingHours float64, paxDeparting, paxArriving int) (HandlingBreakdown, error) {
	if err := requireRates(tariff); err != nil {
		return HandlingBreakdown{}, err
	}

	weightMT := NearestBillableWeight(mtowKg)

	landing := math.Max(float64(weightMT)*(*tariff.LandingPerMT), *tariff.LandingMin)

	// Fractional buffers are truncated to whole minutes.
	billableHrs := BillableParkingHours(parkingHours, *tariff.FreeHours, int(*tariff.BufferMinutes))
	parking := float64(weightMT) * (*tariff.ParkingPerMTHr) * billableHrs

	udf := tariff.UDFRates()
	udfFee := float64(paxDeparting)*udf.Depart + float64(paxArriving)*udf.Arrive

	atc := tariff.ATCFlat()

	return HandlingBreakdown{
		WeightMTBilled: weightMT,
		Landing:        landing,
		Parking:        parking,
		UDF:            udfFee,
		ATC:            atc,
		Total:          landing + parking + udfFee + atc,
	}, nil
}

func requireRates(t refdata.AirportTariff) error {
	switch {
	case t.LandingPerMT == nil:
		return missingRate("landing_per_mt")
	case t.LandingMin == nil:
		return missingRate("landing_min")
	case t.ParkingPerMTHr == nil:
		return missingRate("parking_per_mt_hr")
	case t.FreeHours == nil:
		return missingRate("free_hours")
	case t.BufferMinutes == nil:
		return missingRate("buffer_minutes")
	}
	return nil
}

func missingRate(field string) error {
	return fmt.Errorf("%w: missing %s", ErrTariffConfig, field)
}
