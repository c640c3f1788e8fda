package tenant

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MutationGate serializes mutations per tenant across every session store
// of the process. Entries are dropped once nobody holds or waits on them.
type MutationGate struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*gateSlot
}

type gateSlot struct {
	sem  chan struct{}
	refs int
}

func NewMutationGate() *MutationGate {
	return &MutationGate{slots: make(map[uuid.UUID]*gateSlot)}
}

// Lock blocks until the tenant's slot is free or ctx is done.
func (g *MutationGate) Lock(ctx context.Context, tenantID uuid.UUID) (func(), error) {
	g.mu.Lock()
	slot, ok := g.slots[tenantID]
	if !ok {
		slot = &gateSlot{sem: make(chan struct{}, 1)}
		g.slots[tenantID] = slot
	}
	slot.refs++
	g.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		g.release(tenantID, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.sem
			g.release(tenantID, slot)
		})
	}, nil
}

func (g *MutationGate) release(tenantID uuid.UUID, slot *gateSlot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(g.slots, tenantID)
	}
}

func (g *MutationGate) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots)
}
