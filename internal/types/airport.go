// README: Airport code value object shared by reference data and pricing.
package types

import "strings"

// AirportCode is an airport identifier as supplied by a caller. Display keeps the
// caller's casing; lookups go through Key.
type AirportCode string

// Key returns the normalized tariff-table key (trimmed, uppercase).
func (c AirportCode) Key() string {
	return strings.ToUpper(strings.TrimSpace(string(c)))
}

func (c AirportCode) String() string {
	return string(c)
}
