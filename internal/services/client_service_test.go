package services

import (
	"context"
	"errors"
	"lawn-route-service/internal/adapters/geocoding"
	"lawn-route-service/internal/adapters/repositories"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/ports"
	"testing"
)

func TestClientServiceCreateGeocodes(t *testing.T) {
	geo := geocoding.NewMockGeocoder(map[string]domain.Coordinates{
		"12 Oak St, Springfield": {Lat: 39.78, Lon: -89.65},
	})
	svc := NewClientService(repositories.NewMemoryClientRepository(), geo)

	c, err := svc.Create(context.Background(), ClientInput{Name: " Ada ", Address: "12  Oak St,  Springfield"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if c.Name != "Ada" || c.Address != "12 Oak St, Springfield" {
		t.Fatalf("client = %+v, want trimmed fields", c)
	}
	if c.Position == nil || c.Position.Lat != 39.78 {
		t.Fatalf("position = %v, want geocoded coordinates", c.Position)
	}

	stored, err := svc.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Position == nil || stored.Position.Lon != -89.65 {
		t.Fatalf("stored position = %v", stored.Position)
	}
}

func TestClientServiceCreateWithPositionSkipsGeocoder(t *testing.T) {
	svc := NewClientService(repositories.NewMemoryClientRepository(), nil)

	c, err := svc.Create(context.Background(), ClientInput{
		Name:     "Bo",
		Address:  "1 Elm St",
		Position: &domain.Coordinates{Lat: 1, Lon: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Position == nil || c.Position.Lat != 1 || c.Position.Lon != 2 {
		t.Fatalf("position = %v", c.Position)
	}
}

func TestClientServiceCreateRejectsInvalidInput(t *testing.T) {
	geo := geocoding.NewMockGeocoder(nil)
	svc := NewClientService(repositories.NewMemoryClientRepository(), geo)
	ctx := context.Background()

	inputs := []ClientInput{
		{Name: "", Address: "1 Elm St"},
		{Name: "Cy", Address: "   "},
		{Name: "Cy", Address: "1 Elm St", Position: &domain.Coordinates{Lat: 120}},
		{Name: "Cy", Address: "nowhere at all"},
	}

	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidClient) {
			t.Fatalf("input %+v: err = %v, want ErrInvalidClient", in, err)
		}
	}

	noGeo := NewClientService(repositories.NewMemoryClientRepository(), nil)
	if _, err := noGeo.Create(ctx, ClientInput{Name: "Cy", Address: "1 Elm St"}); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("err = %v, want ErrInvalidClient without geocoder", err)
	}
}

func TestClientServiceUpdateGeocodesOnlyOnAddressChange(t *testing.T) {
	geo := geocoding.NewMockGeocoder(map[string]domain.Coordinates{
		"1 Elm St": {Lat: 1, Lon: 1},
		"2 Elm St": {Lat: 2, Lon: 2},
	})
	svc := NewClientService(repositories.NewMemoryClientRepository(), geo)
	ctx := context.Background()

	c, err := svc.Create(ctx, ClientInput{Name: "Di", Address: "1 Elm St"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if geo.Calls != 1 {
		t.Fatalf("calls after create = %d, want 1", geo.Calls)
	}

	c, err = svc.Update(ctx, c.ID, ClientInput{Name: "Di Renamed", Address: "1 Elm St", Priority: 2})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if geo.Calls != 1 {
		t.Fatalf("calls after rename = %d, want 1", geo.Calls)
	}
	if c.Name != "Di Renamed" || c.Priority != 2 || c.Position.Lat != 1 {
		t.Fatalf("client = %+v", c)
	}

	c, err = svc.Update(ctx, c.ID, ClientInput{Name: "Di", Address: "2 Elm St"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if geo.Calls != 2 {
		t.Fatalf("calls after move = %d, want 2", geo.Calls)
	}
	if c.Position.Lat != 2 {
		t.Fatalf("position = %v, want re-geocoded", c.Position)
	}
}

func TestClientServiceUpdateWithoutGeocoderKeepsMissingPosition(t *testing.T) {
	repo := repositories.NewMemoryClientRepository(
		&domain.Client{ID: "c-0010", Name: "Kowalski", Address: "3310 N 7th St"},
	)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	c, err := svc.Update(ctx, "c-0010", ClientInput{Name: "Kowalski Residence", Address: "3310 N 7th St", Priority: 1})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if c.Name != "Kowalski Residence" || c.Priority != 1 || c.Position != nil {
		t.Fatalf("client = %+v, want renamed without position", c)
	}

	if _, err := svc.Update(ctx, "c-0010", ClientInput{Name: "Kowalski", Address: "1 Elm St"}); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("address change: err = %v, want ErrInvalidClient", err)
	}

	c, err = svc.Update(ctx, "c-0010", ClientInput{Name: "Kowalski", Address: "3310 N 7th St", Position: &domain.Coordinates{Lat: 33.48, Lon: -112.06}})
	if err != nil {
		t.Fatalf("set position: %v", err)
	}
	if c.Position == nil || c.Position.Lat != 33.48 {
		t.Fatalf("position = %v, want supplied coordinates", c.Position)
	}
}

func TestClientServiceMissingClient(t *testing.T) {
	svc := NewClientService(repositories.NewMemoryClientRepository(), nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ports.ErrClientNotFound) {
		t.Fatalf("get: err = %v, want ErrClientNotFound", err)
	}
	if _, err := svc.Update(ctx, "missing", ClientInput{Name: "x", Address: "y"}); !errors.Is(err, ports.ErrClientNotFound) {
		t.Fatalf("update: err = %v, want ErrClientNotFound", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, ports.ErrClientNotFound) {
		t.Fatalf("delete: err = %v, want ErrClientNotFound", err)
	}
}

func TestClientServiceBackfill(t *testing.T) {
	repo := repositories.NewMemoryClientRepository(
		&domain.Client{ID: "a", Name: "A", Address: "1 Oak St"},
		&domain.Client{ID: "b", Name: "B", Address: "2 Unknown Way"},
		client("c", 5, 5, "3 Oak St"),
	)
	geo := geocoding.NewMockGeocoder(map[string]domain.Coordinates{
		"1 Oak St": {Lat: 10, Lon: 20},
	})
	svc := NewClientService(repo, geo)
	ctx := context.Background()

	n, err := svc.Backfill(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("updated = %d, want 1", n)
	}
	if geo.Calls != 2 {
		t.Fatalf("geocoder calls = %d, want 2", geo.Calls)
	}

	a, _ := repo.GetClient(ctx, "a")
	if a.Position == nil || a.Position.Lat != 10 {
		t.Fatalf("a position = %v", a.Position)
	}
	b, _ := repo.GetClient(ctx, "b")
	if b.Position != nil {
		t.Fatalf("b position = %v, want nil", b.Position)
	}

	if _, err := NewClientService(repo, nil).Backfill(ctx); err == nil {
		t.Fatalf("expected error without geocoder")
	}
}
