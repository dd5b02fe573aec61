package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
)

// ErrClientNotFound is returned when no client is registered under an id.
var ErrClientNotFound = errors.New("registered client not found")

// ClientDirectory looks up registered clients by client id.
// Implementations must be safe for concurrent reads.
type ClientDirectory interface {
	// FindByClientID returns the client registered under clientID, or an
	// error wrapping ErrClientNotFound. Any other error is an
	// infrastructure failure.
	FindByClientID(ctx context.Context, clientID string) (*model.RegisteredClient, error)
}

// Ensure InMemoryClientDirectory implements ClientDirectory
var _ ClientDirectory = (*InMemoryClientDirectory)(nil)

// InMemoryClientDirectory keeps registered clients in a map.
type InMemoryClientDirectory struct {
	mu      sync.RWMutex
	clients map[string]*model.RegisteredClient
}

// NewInMemoryClientDirectory creates a directory holding clients. Client ids
// must be non-empty and unique.
func NewInMemoryClientDirectory(clients ...model.RegisteredClient) (*InMemoryClientDirectory, error) {
	m, err := indexClients(clients)
	if err != nil {
		return nil, err
	}
	return &InMemoryClientDirectory{clients: m}, nil
}

func indexClients(clients []model.RegisteredClient) (map[string]*model.RegisteredClient, error) {
	m := make(map[string]*model.RegisteredClient, len(clients))
	for i := range clients {
		c := &clients[i]
		if c.ClientID == "" {
			return nil, errors.New("client id cannot be empty")
		}
		if _, ok := m[c.ClientID]; ok {
			return nil, fmt.Errorf("duplicate client id %q", c.ClientID)
		}
		m[c.ClientID] = c.Clone()
	}
	return m, nil
}

// FindByClientID returns a copy of the client registered under clientID.
func (d *InMemoryClientDirectory) FindByClientID(_ context.Context, clientID string) (*model.RegisteredClient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	}
	return c.Clone(), nil
}

// Save adds or replaces a client.
func (d *InMemoryClientDirectory) Save(client model.RegisteredClient) error {
	if client.ClientID == "" {
		return errors.New("client id cannot be empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[client.ClientID] = client.Clone()
	return nil
}

// Replace swaps the whole directory contents. On error the current contents
// are kept.
func (d *InMemoryClientDirectory) Replace(clients []model.RegisteredClient) error {
	m, err := indexClients(clients)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.clients = m
	d.mu.Unlock()
	return nil
}

// Len returns the number of registered clients.
func (d *InMemoryClientDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clients)
}
