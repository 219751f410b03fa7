package editor

import (
	"sync"

	"go.uber.org/zap"
)

// Manager is the registry of live draft sessions. Each front end gets its own
// controller keyed by the draft id it was handed on creation.
type Manager struct {
	mu        sync.Mutex
	drafts    map[string]*Controller
	catalog   Catalog
	submitter Submitter
	logger    *zap.Logger
}

// NewManager creates an empty draft session registry.
func NewManager(catalog Catalog, submitter Submitter, logger *zap.Logger) *Manager {
	return &Manager{
		drafts:    make(map[string]*Controller),
		catalog:   catalog,
		submitter: submitter,
		logger:    logger,
	}
}

// Create starts a new draft session and returns its controller.
func (m *Manager) Create() *Controller {
	c := NewController(m.catalog, m.submitter, m.logger)

	m.mu.Lock()
	m.drafts[c.ID()] = c
	count := len(m.drafts)
	m.mu.Unlock()

	m.logger.Info("draft session created",
		zap.String("draft_id", c.ID()),
		zap.Int("live_sessions", count),
	)
	return c
}

// Get returns the controller for a draft session id.
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.drafts[id]
	return c, ok
}

// Remove discards a draft session. It reports whether the session existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	_, ok := m.drafts[id]
	delete(m.drafts, id)
	m.mu.Unlock()
	if ok {
		m.logger.Info("draft session removed", zap.String("draft_id", id))
	}
	return ok
}

// Count returns the number of live draft sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}
