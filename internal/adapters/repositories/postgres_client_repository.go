package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/ports"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the ClientRepository port.
type PostgresClientRepository struct{ DB *sql.DB }

func NewPostgresClientRepository(db *sql.DB) *PostgresClientRepository {
	return &PostgresClientRepository{DB: db}
}

// Return all clients stored in the database, ordered by id bytes to match the in-memory store.
func (s *PostgresClientRepository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	if s.DB == nil {
		return nil, errors.New("postgres client repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		address,
		lat,
		lon,
		service_type,
		priority
	FROM clients
	ORDER BY id COLLATE "C";
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: query clients table: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0, 64)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: row iteration: %w", err)
	}

	return clients, nil
}

func (s *PostgresClientRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	if s.DB == nil {
		return nil, errors.New("postgres client repository: DB is nil")
	}

	query := `
	SELECT id, name, address, lat, lon, service_type, priority
	FROM clients
	WHERE id = $1;
	`
	c, err := scanClient(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client %q: %w", id, err)
	}

	return c, nil
}

// Insert or update a client, assigning a uuid when the id is empty.
func (s *PostgresClientRepository) SaveClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if s.DB == nil {
		return nil, errors.New("postgres client repository: DB is nil")
	}
	if c == nil {
		return nil, errors.New("save client: client is nil")
	}

	out := *c
	if out.ID == "" {
		out.ID = uuid.New().String()
	}

	var lat, lon sql.NullFloat64
	if out.Position != nil {
		lat = sql.NullFloat64{Float64: out.Position.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: out.Position.Lon, Valid: true}
	}

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
	if _, err := s.DB.ExecContext(ctx, query, out.ID, out.Name, out.Address, lat, lon, out.ServiceType, out.Priority); err != nil {
		return nil, fmt.Errorf("save client id=%s: %w", out.ID, err)
	}

	return &out, nil
}

func (s *PostgresClientRepository) DeleteClient(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("postgres client repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete client %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client %q: rows affected: %w", id, err)
	}
	if n == 0 {
		return ports.ErrClientNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var (
		c        domain.Client
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Address, &lat, &lon, &c.ServiceType, &c.Priority); err != nil {
		return nil, fmt.Errorf("scan client row: %w", err)
	}

	if lat.Valid && lon.Valid {
		c.Position = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}

	return &c, nil
}
