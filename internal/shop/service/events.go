package service

import (
	"context"
	"sync"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
)

// PartChange is published once per successful catalog create or update, after
// the write is committed and within the same logical request.
type PartChange struct {
	Part    *entity.Part
	Created bool
	Actor   entity.UserRef
}

// PartChangeFunc handles one event. Handlers are best-effort: they must deal
// with their own failures and must not return errors into the publisher.
type PartChangeFunc func(ctx context.Context, change PartChange)

// PartChangeBus is a small in-process fan-out from the catalog to its
// side-effect consumers (notification emitter, status cache invalidation).
// Keeping it an explicit application-level event, rather than a hook buried in
// the persistence layer, lets the emitters be tested and replaced separately.
type PartChangeBus struct {
	mu       sync.RWMutex
	handlers []PartChangeFunc
}

func NewPartChangeBus() *PartChangeBus {
	return &PartChangeBus{}
}

func (b *PartChangeBus) Subscribe(fn PartChangeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Publish runs every handler synchronously in subscription order.
func (b *PartChangeBus) Publish(ctx context.Context, change PartChange) {
	b.mu.RLock()
	handlers := make([]PartChangeFunc, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, change)
	}
}
