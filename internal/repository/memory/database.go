// FILE: internal/repository/memory/database.go
// In-memory storage driver used for local runs (STORAGE_DRIVER=memory) and tests.
package memory

import (
	"sync"

	"schoolhub-be/internal/entity"

	"github.com/google/uuid"
)

type state struct {
	tenants  map[uuid.UUID]*entity.Tenant
	slugs    map[string]uuid.UUID
	features map[uuid.UUID]map[string]*entity.TenantFeature
	profiles map[uuid.UUID]*entity.Profile
}

func newState() *state {
	return &state{
		tenants:  make(map[uuid.UUID]*entity.Tenant),
		slugs:    make(map[string]uuid.UUID),
		features: make(map[uuid.UUID]map[string]*entity.TenantFeature),
		profiles: make(map[uuid.UUID]*entity.Profile),
	}
}

func (s *state) clone() *state {
	out := newState()
	for id, t := range s.tenants {
		out.tenants[id] = t.Clone()
	}
	for slug, id := range s.slugs {
		out.slugs[slug] = id
	}
	for tenantId, rows := range s.features {
		copied := make(map[string]*entity.TenantFeature, len(rows))
		for key, f := range rows {
			copied[key] = f.Clone()
		}
		out.features[tenantId] = copied
	}
	for userId, p := range s.profiles {
		cp := *p
		out.profiles[userId] = &cp
	}
	return out
}

// Database holds the committed state. Transactions work on a private copy and
// swap it in on commit; txMu admits one writer at a time.
type Database struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	live *state
}

func NewDatabase() *Database {
	return &Database{live: newState()}
}

// scope abstracts over the committed state and a transaction's copy.
type scope interface {
	read(fn func(s *state) error) error
	write(fn func(s *state) error) error
}

type liveScope struct {
	db *Database
}

func (l liveScope) read(fn func(s *state) error) error {
	l.db.mu.RLock()
	defer l.db.mu.RUnlock()
	return fn(l.db.live)
}

func (l liveScope) write(fn func(s *state) error) error {
	l.db.txMu.Lock()
	defer l.db.txMu.Unlock()

	// Apply against a copy so a failed write leaves nothing behind.
	l.db.mu.RLock()
	working := l.db.live.clone()
	l.db.mu.RUnlock()

	if err := fn(working); err != nil {
		return err
	}

	l.db.mu.Lock()
	l.db.live = working
	l.db.mu.Unlock()
	return nil
}

type txScope struct {
	st *state
}

func (t txScope) read(fn func(s *state) error) error  { return fn(t.st) }
func (t txScope) write(fn func(s *state) error) error { return fn(t.st) }
