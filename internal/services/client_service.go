package services

import (
	"context"
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/platform/obs"
	"lawn-route-service/internal/ports"
	"log"
	"strings"
)

// ErrInvalidClient is returned when client data cannot be stored.
var ErrInvalidClient = errors.New("invalid client")

// ClientInput carries the editable fields of a client.
// Position is optional; when nil the address is geocoded.
type ClientInput struct {
	Name        string
	Address     string
	Position    *domain.Coordinates
	ServiceType string
	Priority    int
}

// ClientService coordinates client persistence with geocoding.
type ClientService struct {
	Repo     ports.ClientRepository
	Geocoder ports.Geocoder
}

func NewClientService(repo ports.ClientRepository, geocoder ports.Geocoder) *ClientService {
	return &ClientService{Repo: repo, Geocoder: geocoder}
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.Repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.Repo.GetClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client %q: %w", id, err)
	}
	return c, nil
}

// Create validates the input, resolves coordinates, and stores a new client.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (_ *domain.Client, err error) {
	defer obs.Time(ctx, "clients.Create")(&err)

	in, err = normalizeInput(in)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	pos, err := s.resolve(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	c := &domain.Client{
		Name:        in.Name,
		Address:     in.Address,
		Position:    pos,
		ServiceType: in.ServiceType,
		Priority:    in.Priority,
	}

	saved, err := s.Repo.SaveClient(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return saved, nil
}

// Update replaces the editable fields of a client. The address is geocoded
// again when it changed, or when the client has no position and a geocoder
// is configured. An explicit position always wins.
func (s *ClientService) Update(ctx context.Context, id string, in ClientInput) (_ *domain.Client, err error) {
	defer obs.Time(ctx, "clients.Update")(&err)

	existing, err := s.Repo.GetClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update client %q: %w", id, err)
	}

	in, err = normalizeInput(in)
	if err != nil {
		return nil, fmt.Errorf("update client %q: %w", id, err)
	}

	// A client without coordinates keeps none when there is nothing to resolve with.
	pos := existing.Position
	needsLookup := !existing.HasPosition() && s.Geocoder != nil
	if in.Position != nil || in.Address != existing.Address || needsLookup {
		pos, err = s.resolve(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("update client %q: %w", id, err)
		}
	}

	updated := &domain.Client{
		ID:          existing.ID,
		Name:        in.Name,
		Address:     in.Address,
		Position:    pos,
		ServiceType: in.ServiceType,
		Priority:    in.Priority,
	}

	saved, err := s.Repo.SaveClient(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update client %q: %w", id, err)
	}
	return saved, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteClient(ctx, id); err != nil {
		return fmt.Errorf("delete client %q: %w", id, err)
	}
	return nil
}

// Backfill geocodes stored clients that have no usable position.
// Addresses the geocoder cannot resolve are left as they are.
// It returns the number of clients updated.
func (s *ClientService) Backfill(ctx context.Context) (_ int, err error) {
	defer obs.Time(ctx, "clients.Backfill")(&err)

	if s.Geocoder == nil {
		return 0, errors.New("backfill: geocoder is not configured")
	}

	clients, err := s.Repo.ListClients(ctx)
	if err != nil {
		return 0, fmt.Errorf("backfill: %w", err)
	}

	pending := make([]*domain.Client, 0)
	addresses := make([]string, 0)
	for _, c := range clients {
		if c.HasPosition() || strings.TrimSpace(c.Address) == "" {
			continue
		}
		pending = append(pending, c)
		addresses = append(addresses, c.Address)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	resolved := make(map[string]domain.Coordinates, len(addresses))
	// Prefer a single batched lookup when supported.
	if bg, ok := s.Geocoder.(ports.BatchGeocoder); ok {
		resolved, err = bg.GeocodeMany(ctx, addresses)
		if err != nil {
			return 0, fmt.Errorf("backfill: geocode batch: %w", err)
		}
	} else {
		for _, a := range addresses {
			pos, err := s.Geocoder.Geocode(ctx, a)
			if errors.Is(err, ports.ErrAddressNotFound) {
				continue
			}
			if err != nil {
				return 0, fmt.Errorf("backfill: geocode %q: %w", a, err)
			}
			resolved[a] = pos
		}
	}

	updated := 0
	for _, c := range pending {
		pos, ok := resolved[c.Address]
		if !ok {
			log.Printf("backfill: no coordinates for client_id=%s address=%q", c.ID, c.Address)
			continue
		}

		c.Position = &pos
		if _, err := s.Repo.SaveClient(ctx, c); err != nil {
			return updated, fmt.Errorf("backfill: save client %q: %w", c.ID, err)
		}
		updated++
	}

	return updated, nil
}

func (s *ClientService) resolve(ctx context.Context, in ClientInput) (*domain.Coordinates, error) {
	if in.Position != nil {
		if !in.Position.Valid() {
			return nil, fmt.Errorf("%w: coordinates out of range or not finite", ErrInvalidClient)
		}
		pos := *in.Position
		return &pos, nil
	}

	if s.Geocoder == nil {
		return nil, fmt.Errorf("%w: coordinates are required when no geocoder is configured", ErrInvalidClient)
	}

	pos, err := s.Geocoder.Geocode(ctx, in.Address)
	if errors.Is(err, ports.ErrAddressNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClient, err)
	}
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", in.Address, err)
	}

	return &pos, nil
}

func normalizeInput(in ClientInput) (ClientInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.Join(strings.Fields(in.Address), " ")
	in.ServiceType = strings.TrimSpace(in.ServiceType)

	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidClient)
	}
	if in.Address == "" {
		return in, fmt.Errorf("%w: address is required", ErrInvalidClient)
	}
	return in, nil
}
