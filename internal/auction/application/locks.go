package application

import (
	"context"
	"sync"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
)

// ProductLocks serializes all mutating access per product. Different products
// proceed fully in parallel, there is no global lock. A submission that
// cannot enter the section within the wait bound fails with ErrAuctionBusy so
// the caller can retry instead of queueing unbounded
type ProductLocks struct {
	mu       sync.Mutex
	sections map[uuid.UUID]chan struct{}
	wait     time.Duration
}

func NewProductLocks(wait time.Duration) *ProductLocks {
	return &ProductLocks{
		sections: make(map[uuid.UUID]chan struct{}),
		wait:     wait,
	}
}

// Acquire enters the exclusive section for productID, blocking up to the wait
// bound. On success it returns a release func which is safe to call more than
// once
func (pl *ProductLocks) Acquire(ctx context.Context, productID uuid.UUID) (func(), error) {
	pl.mu.Lock()
	section, ok := pl.sections[productID]
	if !ok {
		section = make(chan struct{}, 1)
		pl.sections[productID] = section
	}
	pl.mu.Unlock()

	timer := time.NewTimer(pl.wait)
	defer timer.Stop()

	select {
	case section <- struct{}{}:
		released := false
		release := func() {
			if released {
				return
			}
			released = true
			<-section
		}
		return release, nil
	case <-timer.C:
		return nil, domain.ErrAuctionBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
