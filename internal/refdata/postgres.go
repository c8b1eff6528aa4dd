// README: Reference data source backed by PostgreSQL tables (see migrations/0001_reference_data.sql).
package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LoadPostgres reads every reference table once and builds a Store.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Store, error) {
	var t Tables
	var err error

	if t.Aircraft, err = queryAircraft(ctx, db); err != nil {
		return nil, err
	}
	if t.Tariffs, err = queryTariffs(ctx, db); err != nil {
		return nil, err
	}
	if t.Ops, err = queryOps(ctx, db); err != nil {
		return nil, err
	}
	if t.Market, err = queryMarket(ctx, db); err != nil {
		return nil, err
	}
	return NewStore(t)
}

func queryAircraft(ctx context.Context, db *sql.DB) ([]Aircraft, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, model, hourly_rate, COALESCE(mtow_kg, 0)
		FROM aircraft
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying aircraft: %w", err)
	}
	defer rows.Close()

	var out []Aircraft
	for rows.Next() {
		var a Aircraft
		if err := rows.Scan(&a.ID, &a.Model, &a.HourlyRate, &a.MTOWKg); err != nil {
			return nil, fmt.Errorf("scanning aircraft: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func queryTariffs(ctx context.Context, db *sql.DB) (map[string]AirportTariff, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT code, landing_per_mt, landing_min, parking_per_mt_hr, free_hours, buffer_minutes,
		       udf_depart, udf_arrive, atc_navigation_flat
		FROM airport_tariffs`)
	if err != nil {
		return nil, fmt.Errorf("querying airport tariffs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]AirportTariff)
	for rows.Next() {
		var code string
		var landingPerMT, landingMin, parkingPerMTHr, freeHours, bufferMinutes sql.NullFloat64
		var udfDepart, udfArrive, atc sql.NullFloat64
		if err := rows.Scan(&code, &landingPerMT, &landingMin, &parkingPerMTHr, &freeHours, &bufferMinutes,
			&udfDepart, &udfArrive, &atc); err != nil {
			return nil, fmt.Errorf("scanning airport tariff: %w", err)
		}

		t := AirportTariff{
			LandingPerMT:      toFloatPtr(landingPerMT),
			LandingMin:        toFloatPtr(landingMin),
			ParkingPerMTHr:    toFloatPtr(parkingPerMTHr),
			FreeHours:         toFloatPtr(freeHours),
			BufferMinutes:     toFloatPtr(bufferMinutes),
			ATCNavigationFlat: toFloatPtr(atc),
		}
		if udfDepart.Valid || udfArrive.Valid {
			t.UDF = &UDFRates{Depart: udfDepart.Float64, Arrive: udfArrive.Float64}
		}
		out[code] = t
	}
	return out, rows.Err()
}

func queryOps(ctx context.Context, db *sql.DB) (OpsRates, error) {
	var o OpsRates
	err := db.QueryRowContext(ctx, `
		SELECT crew_cost_per_hr, insurance_per_hr, maintenance_per_hr
		FROM ops_rates
		LIMIT 1`).Scan(&o.CrewCostPerHr, &o.InsurancePerHr, &o.MaintenancePerHr)
	if errors.Is(err, sql.ErrNoRows) {
		return OpsRates{}, fmt.Errorf("%w: ops_rates is empty", ErrMissingDocument)
	}
	if err != nil {
		return OpsRates{}, fmt.Errorf("querying ops rates: %w", err)
	}
	return o, nil
}

func queryMarket(ctx context.Context, db *sql.DB) (Market, error) {
	var factor sql.NullFloat64
	err := db.QueryRowContext(ctx, `
		SELECT demand_factor
		FROM market_conditions
		LIMIT 1`).Scan(&factor)
	if errors.Is(err, sql.ErrNoRows) {
		return Market{}, fmt.Errorf("%w: market_conditions is empty", ErrMissingDocument)
	}
	if err != nil {
		return Market{}, fmt.Errorf("querying market conditions: %w", err)
	}
	if !factor.Valid {
		return Market{DemandFactor: DefaultDemandFactor}, nil
	}
	return Market{DemandFactor: factor.Float64}, nil
}

func toFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
