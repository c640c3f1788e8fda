package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MemorySurface keeps applied variables in process memory.
type MemorySurface struct {
	mu   sync.RWMutex
	vars map[uuid.UUID]Variables
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{vars: make(map[uuid.UUID]Variables)}
}

func (s *MemorySurface) Get(_ context.Context, tenantID uuid.UUID) (Variables, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[tenantID]
	return v, ok, nil
}

func (s *MemorySurface) Set(_ context.Context, tenantID uuid.UUID, vars Variables) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[tenantID] = vars
	return nil
}

// RedisSurface shares applied variables between instances through a hash per
// tenant at tenant:theme:<id>.
type RedisSurface struct {
	rdb *redis.Client
}

func NewRedisSurface(rdb *redis.Client) *RedisSurface {
	return &RedisSurface{rdb: rdb}
}

func redisKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:theme:%s", tenantID)
}

func (s *RedisSurface) Get(ctx context.Context, tenantID uuid.UUID) (Variables, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, redisKey(tenantID)).Result()
	if err != nil {
		return Variables{}, false, err
	}
	if len(fields) == 0 {
		return Variables{}, false, nil
	}
	return VariablesFromMap(fields), true, nil
}

func (s *RedisSurface) Set(ctx context.Context, tenantID uuid.UUID, vars Variables) error {
	values := make([]interface{}, 0, 8)
	for k, v := range vars.Map() {
		values = append(values, k, v)
	}
	return s.rdb.HSet(ctx, redisKey(tenantID), values...).Err()
}
