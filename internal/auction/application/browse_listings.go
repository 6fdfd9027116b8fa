package application

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingDTO is a storefront row: enough to render an index card
type ListingDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	EndDate      time.Time       `json:"end_date"`
	Status       string          `json:"status"`
}

// BrowseListingsUseCase serves the storefront index reads: every open auction
// and the ones about to close
type BrowseListingsUseCase struct {
	auctionRepo domain.AuctionRepository
}

func NewBrowseListingsUseCase(auctionRepo domain.AuctionRepository) *BrowseListingsUseCase {
	return &BrowseListingsUseCase{auctionRepo: auctionRepo}
}

func (uc *BrowseListingsUseCase) Open(ctx context.Context) ([]ListingDTO, error) {
	auctions, err := uc.auctionRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return toListings(auctions), nil
}

func (uc *BrowseListingsUseCase) EndingSoon(ctx context.Context, threshold time.Duration) ([]ListingDTO, error) {
	auctions, err := uc.auctionRepo.ListEndingSoon(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return toListings(auctions), nil
}

func toListings(auctions []*domain.Auction) []ListingDTO {
	now := time.Now().UTC()
	listings := make([]ListingDTO, 0, len(auctions))
	for _, a := range auctions {
		listings = append(listings, ListingDTO{
			ProductID:    a.ProductID,
			Title:        a.Title,
			CurrentPrice: a.CurrentPrice,
			EndDate:      a.EndDate,
			Status:       string(a.StatusAt(now)),
		})
	}
	return listings
}
