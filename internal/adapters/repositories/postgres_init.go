package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createClientsQuery := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		service_type TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK ((lat IS NULL) = (lon IS NULL))
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`

	statements := []string{
		createClientsQuery,
		createGeocodeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ClientSeed struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	ServiceType string   `json:"service_type"`
	Priority    int      `json:"priority"`
}

// ReadSeeds parses and validates a client seed file.
// Seeds without an id get a fresh uuid; coordinates are optional but must come in pairs.
func ReadSeeds(jsonPath string) ([]ClientSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read seeds %q: %w", jsonPath, err)
	}

	var data []ClientSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read seeds: parse json: %w", err)
	}

	rows := make([]ClientSeed, 0, len(data))
	for i, item := range data {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, fmt.Errorf("read seeds: item at index %d: name cannot be empty", i+1)
		}

		item.Address = strings.TrimSpace(item.Address)
		if item.Address == "" {
			return nil, fmt.Errorf("read seeds: item at index %d: address cannot be empty", i+1)
		}

		if (item.Lat == nil) != (item.Lon == nil) {
			return nil, fmt.Errorf("read seeds: item at index %d: lat and lon must be set together", i+1)
		}

		if strings.TrimSpace(item.ID) == "" {
			item.ID = uuid.New().String()
		}
		rows = append(rows, item)
	}

	return rows, nil
}

// Client converts a seed row into a domain client.
func (s ClientSeed) Client() *domain.Client {
	c := &domain.Client{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		ServiceType: s.ServiceType,
		Priority:    s.Priority,
	}
	if s.Lat != nil && s.Lon != nil {
		c.Position = &domain.Coordinates{Lat: *s.Lat, Lon: *s.Lon}
	}
	return c
}

// Populate the database with client data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := ReadSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed clients: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO clients (id, name, address, lat, lon, service_type, priority)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		service_type = EXCLUDED.service_type,
		priority = EXCLUDED.priority,
		updated_at = now();
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed clients: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Address, c.Lat, c.Lon, c.ServiceType, c.Priority); err != nil {
			return fmt.Errorf("seed clients: insert id=%s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed clients: commit tx: %w", err)
	}

	return nil
}
