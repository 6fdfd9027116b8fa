package application

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuctionService is the application interface of the auction module, exposed
// to the infra layer (HTTP handlers, websocket handlers)
type AuctionService interface {
	// SubmitBid runs the whole bid lifecycle for one submission and only
	// reports success once the bid is durable
	SubmitBid(ctx context.Context, cmd SubmitBidDTO) (*BidReceipt, error)
	GetAuctionState(ctx context.Context, productID uuid.UUID) (*AuctionStateDTO, error)
	GetBidHistory(ctx context.Context, productID uuid.UUID) ([]BidDTO, error)
	ListOpen(ctx context.Context) ([]ListingDTO, error)
	ListEndingSoon(ctx context.Context, threshold time.Duration) ([]ListingDTO, error)
}

type auctionService struct {
	submitBidUC  *SubmitBidUseCase
	getStateUC   *GetAuctionStateUseCase
	getHistoryUC *GetBidHistoryUseCase
	browseUC     *BrowseListingsUseCase
	cache        StateCache
}

func NewAuctionService(submitBidUC *SubmitBidUseCase, getStateUC *GetAuctionStateUseCase,
	getHistoryUC *GetBidHistoryUseCase, browseUC *BrowseListingsUseCase, cache StateCache) AuctionService {

	return &auctionService{
		submitBidUC:  submitBidUC,
		getStateUC:   getStateUC,
		getHistoryUC: getHistoryUC,
		browseUC:     browseUC,
		cache:        cache,
	}
}

// SubmitBid implements AuctionService
func (as *auctionService) SubmitBid(ctx context.Context, cmd SubmitBidDTO) (*BidReceipt, error) {
	receipt, err := as.submitBidUC.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	// the committed price changed, drop the cached read state
	if as.cache != nil {
		as.cache.Invalidate(ctx, cmd.ProductID)
	}
	return receipt, nil
}

// GetAuctionState implements AuctionService
func (as *auctionService) GetAuctionState(ctx context.Context, productID uuid.UUID) (*AuctionStateDTO, error) {
	return as.getStateUC.Execute(ctx, productID)
}

// GetBidHistory implements AuctionService
func (as *auctionService) GetBidHistory(ctx context.Context, productID uuid.UUID) ([]BidDTO, error) {
	return as.getHistoryUC.Execute(ctx, productID)
}

// ListOpen implements AuctionService
func (as *auctionService) ListOpen(ctx context.Context) ([]ListingDTO, error) {
	return as.browseUC.Open(ctx)
}

// ListEndingSoon implements AuctionService
func (as *auctionService) ListEndingSoon(ctx context.Context, threshold time.Duration) ([]ListingDTO, error) {
	return as.browseUC.EndingSoon(ctx, threshold)
}
