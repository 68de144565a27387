package ports

import (
	"context"
	"errors"
	"lawn-route-service/internal/domain"
)

// Contract for resolving street addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Optional extension of Geocoder that resolves many addresses in one call.
// Addresses that cannot be resolved are absent from the result.
type BatchGeocoder interface {
	Geocoder
	GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}

// ErrAddressNotFound is returned when a geocoder has no result for an address.
var ErrAddressNotFound = errors.New("address not found")
