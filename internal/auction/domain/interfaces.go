package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tx is the minimal transaction handle the domain needs, pgx.Tx satisfies it
// and the in-memory repositories provide a no-op implementation
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager begins the atomic unit of work for one bid submission
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

type AuctionRepository interface {
	GetByID(ctx context.Context, productID uuid.UUID) (*Auction, error)
	// Save persists the updated auction state inside the submission tx
	Save(ctx context.Context, tx Tx, a *Auction) error
	// Create inserts a brand new listing, used by the catalog side only
	Create(ctx context.Context, a *Auction) error
	ListOpen(ctx context.Context) ([]*Auction, error)
	ListEndingSoon(ctx context.Context, threshold time.Duration) ([]*Auction, error)
}

// BidLedger is the append-only per-product history of accepted bids, ordered
// by bid time with arrival order as tie-break. Bids are never removed or
// rewritten, the only mutation is the holder demotion metadata flip
type BidLedger interface {
	Append(ctx context.Context, tx Tx, bid *Bid) error
	BidsByProduct(ctx context.Context, productID uuid.UUID) ([]*Bid, error)
	// LatestHolder returns the most recently appended bid, nil when the
	// product has no bids yet
	LatestHolder(ctx context.Context, productID uuid.UUID) (*Bid, error)
	// DemoteHolder clears IsHolder on every bid of the product except the new
	// holder, keeping the single-holder invariant
	DemoteHolder(ctx context.Context, tx Tx, productID, newHolderBidID uuid.UUID) error
}
