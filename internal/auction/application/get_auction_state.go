package application

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStateDTO is the output DTO exposing auction state to HTTP/WS clients
type AuctionStateDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	Seller       uuid.UUID       `json:"seller"`
	BeginPrice   decimal.Decimal `json:"begin_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	StepPrice    decimal.Decimal `json:"step_price"`
	MinimumBid   decimal.Decimal `json:"minimum_bid"`
	HolderID     *uuid.UUID      `json:"holder_id,omitempty"`
	HolderBidID  *uuid.UUID      `json:"holder_bid_id,omitempty"`
	EndDate      time.Time       `json:"end_date"`
	AutoExtend   bool            `json:"auto_extend"`
	Status       string          `json:"status"`
	LastBidTime  *time.Time      `json:"last_bid_time,omitempty"`
}

// StateCache is an optional read cache in front of the query path. It may
// serve slightly stale reads within its TTL, the submission path never goes
// through it
type StateCache interface {
	Get(ctx context.Context, productID uuid.UUID) (*AuctionStateDTO, bool)
	Set(ctx context.Context, state *AuctionStateDTO)
	Invalidate(ctx context.Context, productID uuid.UUID)
}

// GetAuctionStateUseCase retrieves the current state of a product auction,
// the auction state plus the latest holder in one pass (no per-row follow-up
// queries)
type GetAuctionStateUseCase struct {
	auctionRepo domain.AuctionRepository
	ledger      domain.BidLedger
	cache       StateCache // nil when no cache is configured
}

// NewGetAuctionStateUseCase creates a new instance of GetAuctionStateUseCase
func NewGetAuctionStateUseCase(auctionRepo domain.AuctionRepository, ledger domain.BidLedger, cache StateCache) *GetAuctionStateUseCase {
	return &GetAuctionStateUseCase{
		auctionRepo: auctionRepo,
		ledger:      ledger,
		cache:       cache,
	}
}

func (uc *GetAuctionStateUseCase) Execute(ctx context.Context, productID uuid.UUID) (*AuctionStateDTO, error) {
	if uc.cache != nil {
		if state, ok := uc.cache.Get(ctx, productID); ok {
			return state, nil
		}
	}

	auction, err := uc.auctionRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	holder, err := uc.ledger.LatestHolder(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	state := &AuctionStateDTO{
		ProductID:    auction.ProductID,
		Title:        auction.Title,
		Seller:       auction.Seller,
		BeginPrice:   auction.BeginPrice,
		CurrentPrice: auction.CurrentPrice,
		StepPrice:    auction.StepPrice,
		MinimumBid:   auction.MinimumBid(),
		EndDate:      auction.EndDate,
		AutoExtend:   auction.AutoExtend,
		Status:       string(auction.StatusAt(now)),
	}
	if holder != nil {
		state.HolderID = &holder.BidderID
		state.HolderBidID = &holder.BidID
		state.LastBidTime = &holder.BidTime
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, state)
	}

	return state, nil
}
