package sessions

import (
	"context"
	"sync"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/models"

	"github.com/google/uuid"
)

// Manager is the registry of live sessions, keyed by a generated session id.
// One session per call to Start; the manager owns the paired autosaver's
// lifecycle.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	store    SnapshotStore
	interval time.Duration
	ttl      time.Duration
}

type entry struct {
	session *Session
	saver   *Autosaver
}

// NewManager creates a session registry saving through store at the default
// autosave cadence.
func NewManager(store SnapshotStore) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		store:    store,
		interval: DefaultSaveInterval,
		ttl:      DefaultCacheTTL,
	}
}

// NewManagerWithIntervals is NewManager with explicit autosave interval and
// cache TTL, used by tests.
func NewManagerWithIntervals(store SnapshotStore, interval, ttl time.Duration) *Manager {
	m := NewManager(store)
	m.interval = interval
	m.ttl = ttl
	return m
}

// Start creates a session for one pass through flow, persisting under
// responseID, and begins autosaving. When resume is set and the flow allows
// saved progress, a previously stored snapshot is replayed into the session.
func (m *Manager) Start(ctx context.Context, flow *models.Flow, responseID string, resume bool) (string, *Session, error) {
	saver := NewAutosaver(m.store, responseID, m.interval, m.ttl)
	session := NewSession(flow, responseID, saver)

	if resume && flow.Settings.AllowSaveProgress {
		snap, err := saver.Load(ctx, responseID)
		if err != nil {
			if !apperror.IsNotFound(err) {
				return "", nil, err
			}
		} else if snap != nil {
			session.Restore(snap)
		}
	}

	saver.Start(ctx)

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &entry{session: session, saver: saver}
	m.mu.Unlock()

	return id, session, nil
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// End tears a session down: the autosave timer is stopped deterministically
// and the session is dropped from the registry. A final flush is attempted
// so the latest state is persisted.
func (m *Manager) End(ctx context.Context, id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	e.saver.Stop()
	_ = e.saver.Flush(ctx)
	return true
}

// Count returns how many sessions are live.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
