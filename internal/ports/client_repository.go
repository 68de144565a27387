package ports

import (
	"context"
	"errors"
	"lawn-route-service/internal/domain"
)

// ErrClientNotFound is returned when a client id does not exist.
var ErrClientNotFound = errors.New("client not found")

// Port: a boundary for reading and writing Client records.
type ClientRepository interface {
	// Retrieve all clients ordered by id.
	ListClients(ctx context.Context) ([]*domain.Client, error)
	// Retrieve a single client.
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	// Insert or update a client, assigning an id when empty.
	SaveClient(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// Delete a client; returns ErrClientNotFound when absent.
	DeleteClient(ctx context.Context, id string) error
}
