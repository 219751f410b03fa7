// Package refdata caches the backend's master data (clients, items, item
// types) for the editing core. Reloads replace the snapshot wholesale; a
// failed reload keeps the previous snapshot so the editor stays usable with
// stale-but-valid data.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"go.uber.org/zap"
)

// ErrLoadFailure is returned when a reference data reload fails. The cache
// keeps its previous contents; the caller decides user-visible messaging.
var ErrLoadFailure = errors.New("reference data load failed")

// Loader fetches the full reference data set from the backend.
type Loader interface {
	FetchReferenceData(ctx context.Context) (*domain.ReferenceData, error)
}

// Cache holds the last successfully fetched reference data. It is safe for
// concurrent reads; Reload swaps the snapshot under a write lock, so two
// overlapping reloads resolve last-writer-wins.
type Cache struct {
	mu     sync.RWMutex
	loader Loader
	logger *zap.Logger

	data     domain.ReferenceData
	items    map[string]domain.Item
	clients  map[string]domain.Client
	loadedAt time.Time
	loaded   bool
}

// NewCache creates an empty cache backed by the given loader.
func NewCache(loader Loader, logger *zap.Logger) *Cache {
	return &Cache{
		loader:  loader,
		logger:  logger,
		items:   make(map[string]domain.Item),
		clients: make(map[string]domain.Client),
	}
}

// Reload fetches a fresh snapshot and replaces the cached one wholesale.
// On failure the previous snapshot is retained and the returned error wraps
// ErrLoadFailure.
func (c *Cache) Reload(ctx context.Context) error {
	data, err := c.loader.FetchReferenceData(ctx)
	if err != nil {
		c.logger.Warn("reference data reload failed, keeping stale snapshot",
			zap.Error(err),
			zap.Bool("have_snapshot", c.Loaded()),
		)
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	items := make(map[string]domain.Item, len(data.Items))
	for _, it := range data.Items {
		items[it.ID] = it
	}
	clients := make(map[string]domain.Client, len(data.Clients))
	for _, cl := range data.Clients {
		clients[cl.ID] = cl
	}

	c.mu.Lock()
	c.data = *data
	c.items = items
	c.clients = clients
	c.loadedAt = time.Now()
	c.loaded = true
	c.mu.Unlock()

	c.logger.Info("reference data reloaded",
		zap.Int("clients", len(data.Clients)),
		zap.Int("items", len(data.Items)),
		zap.Int("item_types", len(data.ItemTypes)),
	)
	return nil
}

// Item looks up a catalog item by id.
func (c *Cache) Item(id string) (domain.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	return it, ok
}

// Client looks up a client by id.
func (c *Cache) Client(id string) (domain.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cl, ok := c.clients[id]
	return cl, ok
}

// Loaded reports whether at least one reload has succeeded.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Snapshot returns a copy of the cached lists and when they were loaded.
// ok is false when no load has succeeded yet.
func (c *Cache) Snapshot() (data domain.ReferenceData, loadedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return domain.ReferenceData{}, time.Time{}, false
	}
	data = domain.ReferenceData{
		Clients:   append([]domain.Client(nil), c.data.Clients...),
		Items:     append([]domain.Item(nil), c.data.Items...),
		ItemTypes: append([]domain.ItemType(nil), c.data.ItemTypes...),
	}
	return data, c.loadedAt, true
}
