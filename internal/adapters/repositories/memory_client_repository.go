package repositories

import (
	"context"
	"errors"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/ports"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// In-memory implementation of the ClientRepository port.
// Used when no DATABASE_URL is configured and in tests.
// Stored clients are copied on the way in and out.
type MemoryClientRepository struct {
	mu      sync.RWMutex
	clients map[string]domain.Client
}

func NewMemoryClientRepository(seed ...*domain.Client) *MemoryClientRepository {
	m := &MemoryClientRepository{clients: make(map[string]domain.Client, len(seed))}
	for _, c := range seed {
		if c == nil {
			continue
		}
		cp := copyClient(c)
		if cp.ID == "" {
			cp.ID = uuid.New().String()
		}
		m.clients[cp.ID] = *cp
	}
	return m
}

func (m *MemoryClientRepository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, copyClient(&c))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryClientRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ports.ErrClientNotFound
	}
	return copyClient(&c), nil
}

func (m *MemoryClientRepository) SaveClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if c == nil {
		return nil, errors.New("memory client repository: client is nil")
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Address) == "" {
		return nil, errors.New("memory client repository: name and address are required")
	}

	cp := copyClient(c)
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}

	m.mu.Lock()
	m.clients[cp.ID] = *cp
	m.mu.Unlock()

	return copyClient(cp), nil
}

func (m *MemoryClientRepository) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return ports.ErrClientNotFound
	}
	delete(m.clients, id)
	return nil
}

func copyClient(c *domain.Client) *domain.Client {
	cp := *c
	if c.Position != nil {
		pos := *c.Position
		cp.Position = &pos
	}
	return &cp
}
