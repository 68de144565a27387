package geocoding

import (
	"context"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/ports"
	"strings"
	"sync"
)

// MockGeocoder resolves addresses from a fixed table. Lookups are case- and
// whitespace-insensitive. It is used in tests and when no ORS key is configured.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinates
	Calls int
}

func NewMockGeocoder(table map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(table))
	for k, v := range table {
		m[mockKey(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Calls++
	c, ok := g.m[mockKey(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, ports.ErrAddressNotFound)
	}
	return c, nil
}

func mockKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
