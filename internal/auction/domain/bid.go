package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid represents one accepted bid in a product's ledger. Bids are immutable
// once accepted except for the IsHolder flag, which is flipped to false
// exactly once when a newer bid supersedes it
type Bid struct {
	BidID     uuid.UUID
	ProductID uuid.UUID
	BidderID  uuid.UUID
	Price     decimal.Decimal
	BidTime   time.Time
	IsHolder  bool
}

// NewBid creates a new Bid instance, the new bid always enters as holder
func NewBid(bidID, productID, bidderID uuid.UUID, price decimal.Decimal, bidTime time.Time) *Bid {
	return &Bid{
		BidID:     bidID,
		ProductID: productID,
		BidderID:  bidderID,
		Price:     price,
		BidTime:   bidTime,
		IsHolder:  true,
	}
}
