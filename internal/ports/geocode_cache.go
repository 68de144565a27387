package ports

import (
	"context"
	"lawn-route-service/internal/domain"
)

// Persistent address -> coordinate cache in front of a Geocoder.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
