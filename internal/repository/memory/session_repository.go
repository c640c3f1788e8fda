package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps per-tenant runtime sessions (store, wizard, panel)
// keyed by tenant or user id. Idle entries expire.
type SessionRepository[T any] struct {
	cache *cache.Cache
}

func NewSessionRepository[T any](ttl time.Duration) *SessionRepository[T] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository[T]{
		cache: cache.New(ttl, ttl/6),
	}
}

func (r *SessionRepository[T]) Save(key string, session T) {
	r.cache.Set(key, session, cache.DefaultExpiration)
}

func (r *SessionRepository[T]) Get(key string) (T, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(T), true
	}
	var zero T
	return zero, false
}

// GetOrCreate returns the cached session or builds one. When two callers race,
// the first one stored wins and the loser's value is discarded.
func (r *SessionRepository[T]) GetOrCreate(key string, build func() (T, error)) (T, error) {
	if s, ok := r.Get(key); ok {
		r.cache.Set(key, s, cache.DefaultExpiration)
		return s, nil
	}
	created, err := build()
	if err != nil {
		var zero T
		return zero, err
	}
	if err := r.cache.Add(key, created, cache.DefaultExpiration); err != nil {
		if s, ok := r.Get(key); ok {
			return s, nil
		}
		r.cache.Set(key, created, cache.DefaultExpiration)
	}
	return created, nil
}

func (r *SessionRepository[T]) Delete(key string) {
	r.cache.Delete(key)
}

func (r *SessionRepository[T]) Count() int {
	return r.cache.ItemCount()
}
