package models

import (
	"errors"
	"fmt"
	"strings"
)

// Input validation errors. These are rejected before any provider I/O and
// surfaced verbatim to the caller.
var (
	ErrEmptyAddressList = errors.New("models: address list must not be empty")
	ErrTooManyAddresses = errors.New("models: at most 20 addresses are supported")
	ErrRadiusOutOfRange = errors.New("models: radius must be between 100 and 20000 meters")
	ErrMaxResultsRange  = errors.New("models: max results must be between 1 and 50")
)

// Provider-level sentinels. Capability implementations return these (wrapped)
// so callers can distinguish "no match" from "provider down"; the fallback
// chain treats both as a reason to advance.
var (
	ErrAddressNotFound     = errors.New("provider: address not found")
	ErrProviderUnavailable = errors.New("provider: unavailable")
)

// GeocodingExhaustedError reports that every configured geocoding provider
// failed for a single address. It is the only hard pipeline failure past
// input validation.
type GeocodingExhaustedError struct {
	Address string
	Tried   []string
}

func (e *GeocodingExhaustedError) Error() string {
	return fmt.Sprintf("geocoding exhausted for %q (tried %s)",
		e.Address, strings.Join(e.Tried, ", "))
}
