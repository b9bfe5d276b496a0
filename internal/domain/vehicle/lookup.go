package vehicle

import (
	"context"
	"errors"
)

// ErrEnrichmentUnavailable marks a failed price or geocode lookup. Lookup clients
// wrap every failure with it; the catalog logs it and carries on without the data.
var ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

// PriceLookup fetches the current price quote for a vehicle.
type PriceLookup interface {
	FetchPrice(ctx context.Context, vehicleID int64) (*PriceQuote, error)
}

// GeocodeLookup resolves coordinates to a postal address.
type GeocodeLookup interface {
	FetchAddress(ctx context.Context, lat, lon float64) (*Address, error)
}
