package application

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidDTO is one ledger entry as shown on the product page
type BidDTO struct {
	BidID    uuid.UUID       `json:"bid_id"`
	BidderID uuid.UUID       `json:"bidder_id"`
	Price    decimal.Decimal `json:"price"`
	BidTime  time.Time       `json:"bid_time"`
	IsHolder bool            `json:"is_holder"`
}

// GetBidHistoryUseCase is the read-only projection over the ledger, ordered
// oldest first the same way it was accepted
type GetBidHistoryUseCase struct {
	ledger domain.BidLedger
}

func NewGetBidHistoryUseCase(ledger domain.BidLedger) *GetBidHistoryUseCase {
	return &GetBidHistoryUseCase{ledger: ledger}
}

func (uc *GetBidHistoryUseCase) Execute(ctx context.Context, productID uuid.UUID) ([]BidDTO, error) {
	bids, err := uc.ledger.BidsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	history := make([]BidDTO, 0, len(bids))
	for _, b := range bids {
		history = append(history, BidDTO{
			BidID:    b.BidID,
			BidderID: b.BidderID,
			Price:    b.Price,
			BidTime:  b.BidTime,
			IsHolder: b.IsHolder,
		})
	}
	return history, nil
}
