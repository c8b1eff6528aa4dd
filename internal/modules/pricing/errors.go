// README: Pricing error values and their classification for transport mapping.
package pricing

import "errors"

var (
	ErrUnknownAircraft     = errors.New("unknown aircraft_id")
	ErrUnconfiguredAirport = errors.New("no tariff configured for airport")
	ErrTariffConfig        = errors.New("airport tariff misconfigured")

	// ErrQuoteOverflow means the inputs drive an amount past the float64 range.
	ErrQuoteOverflow = errors.New("quote amount out of range")
)

type ErrorKind string

const (
	// KindClient covers failures the caller can fix by changing the request.
	KindClient   ErrorKind = "client"
	KindConfig   ErrorKind = "config"
	KindInternal ErrorKind = "internal"
)

func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnknownAircraft), errors.Is(err, ErrUnconfiguredAirport), errors.Is(err, ErrQuoteOverflow):
		return KindClient
	case errors.Is(err, ErrTariffConfig):
		return KindConfig
	default:
		return KindInternal
	}
}
