// README: Immutable in-memory reference data store built once at startup.
package refdata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"charter/internal/types"
)

// Store is read-only after NewStore returns, so concurrent lookups need no locking.
type Store struct {
	aircraft     map[int]Aircraft
	aircraftList []Aircraft
	tariffs      map[string]AirportTariff
	codes        []string
	ops          OpsRates
	market       Market
	fingerprint  string
}

// NewStore validates the tables and indexes them. Tariff keys are normalized to uppercase.
func NewStore(t Tables) (*Store, error) {
	s := &Store{
		aircraft: make(map[int]Aircraft, len(t.Aircraft)),
		tariffs:  make(map[string]AirportTariff, len(t.Tariffs)),
		ops:      t.Ops,
		market:   t.Market,
	}

	for _, a := range t.Aircraft {
		if _, dup := s.aircraft[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate aircraft id %d", ErrInvalidReference, a.ID)
		}
		if a.HourlyRate < 0 || a.MTOWKg < 0 {
			return nil, fmt.Errorf("%w: aircraft %d has a negative rate or weight", ErrInvalidReference, a.ID)
		}
		s.aircraft[a.ID] = a
		s.aircraftList = append(s.aircraftList, a)
	}
	sort.Slice(s.aircraftList, func(i, j int) bool { return s.aircraftList[i].ID < s.aircraftList[j].ID })

	for code, tariff := range t.Tariffs {
		key := types.AirportCode(code).Key()
		if key == "" {
			return nil, fmt.Errorf("%w: empty airport code", ErrInvalidReference)
		}
		if _, dup := s.tariffs[key]; dup {
			return nil, fmt.Errorf("%w: airport %s configured twice", ErrInvalidReference, key)
		}
		if tariff.Empty() {
			return nil, fmt.Errorf("%w: airport %s has an empty tariff", ErrInvalidReference, key)
		}
		if err := validateTariff(tariff); err != nil {
			return nil, fmt.Errorf("%w: airport %s: %v", ErrInvalidReference, key, err)
		}
		s.tariffs[key] = tariff
		s.codes = append(s.codes, key)
	}
	sort.Strings(s.codes)

	if t.Ops.CrewCostPerHr < 0 || t.Ops.InsurancePerHr < 0 || t.Ops.MaintenancePerHr < 0 {
		return nil, fmt.Errorf("%w: operating-cost rates must be non-negative", ErrInvalidReference)
	}
	if t.Market.DemandFactor <= 0 {
		return nil, fmt.Errorf("%w: demand_factor must be positive, got %v", ErrInvalidReference, t.Market.DemandFactor)
	}

	fp, err := s.computeFingerprint()
	if err != nil {
		return nil, err
	}
	s.fingerprint = fp
	return s, nil
}

// computeFingerprint hashes the normalized content. Aircraft are sorted by id and
// encoding/json orders map keys, so equal content gives an equal fingerprint
// regardless of source order.
func (s *Store) computeFingerprint() (string, error) {
	data, err := json.Marshal(Tables{
		Aircraft: s.aircraftList,
		Tariffs:  s.tariffs,
		Ops:      s.ops,
		Market:   s.market,
	})
	if err != nil {
		return "", fmt.Errorf("fingerprinting reference data: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func validateTariff(t AirportTariff) error {
	for name, v := range map[string]*float64{
		"landing_per_mt":      t.LandingPerMT,
		"landing_min":         t.LandingMin,
		"parking_per_mt_hr":   t.ParkingPerMTHr,
		"free_hours":          t.FreeHours,
		"buffer_minutes":      t.BufferMinutes,
		"atc_navigation_flat": t.ATCNavigationFlat,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s is negative", name)
		}
	}
	if t.UDF != nil && (t.UDF.Depart < 0 || t.UDF.Arrive < 0) {
		return fmt.Errorf("udf is negative")
	}
	return nil
}

func (s *Store) Aircraft(id int) (Aircraft, bool) {
	a, ok := s.aircraft[id]
	return a, ok
}

// Tariff looks up an airport case-insensitively.
func (s *Store) Tariff(code types.AirportCode) (AirportTariff, bool) {
	t, ok := s.tariffs[code.Key()]
	return t, ok
}

func (s *Store) Ops() OpsRates {
	return s.ops
}

func (s *Store) Market() Market {
	return s.market
}

// Fingerprint is a SHA-256 over the loaded tables; it changes whenever any rate does.
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

// AircraftList returns all aircraft ordered by id.
func (s *Store) AircraftList() []Aircraft {
	out := make([]Aircraft, len(s.aircraftList))
	copy(out, s.aircraftList)
	return out
}

// AirportCodes returns the configured tariff keys in sorted order.
func (s *Store) AirportCodes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}
