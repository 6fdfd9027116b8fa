package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var ErrInvalidListing = errors.New("invalid listing")

// defaultDuration matches the storefront default of one week per listing
const defaultDuration = 7 * 24 * time.Hour

// CreateListingDTO carries everything a seller provides when opening an
// auction. EndDate defaults to one week after BeginDate when left zero
type CreateListingDTO struct {
	ProductID      uuid.UUID
	Seller         uuid.UUID
	Title          string
	Description    string
	BeginPrice     decimal.Decimal
	StepPrice      decimal.Decimal
	ImmediatePrice decimal.NullDecimal
	BeginDate      time.Time
	EndDate        time.Time
	AutoExtend     bool
}

// CreateListingUseCase is the catalog collaborator: it creates the Auction
// record before any bid can be submitted, the bid core only ever consumes it
type CreateListingUseCase struct {
	auctionRepo domain.AuctionRepository
	// extendWindow is stamped onto listings that enable auto-extend
	extendWindow time.Duration
}

func NewCreateListingUseCase(auctionRepo domain.AuctionRepository, extendWindow time.Duration) *CreateListingUseCase {
	return &CreateListingUseCase{
		auctionRepo:  auctionRepo,
		extendWindow: extendWindow,
	}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, cmd CreateListingDTO) (*domain.Auction, error) {
	if cmd.ProductID == uuid.Nil {
		cmd.ProductID = uuid.New()
	}
	if cmd.BeginDate.IsZero() {
		cmd.BeginDate = time.Now().UTC()
	}
	if cmd.EndDate.IsZero() {
		cmd.EndDate = cmd.BeginDate.Add(defaultDuration)
	}

	if err := validateListing(cmd); err != nil {
		log.Warn("CreateListing: rejected",
			zap.String("productID", cmd.ProductID.String()),
			zap.String("seller", cmd.Seller.String()),
			zap.Error(err),
		)
		return nil, err
	}

	auction := domain.NewAuction(cmd.ProductID, cmd.Seller, cmd.Title,
		cmd.BeginPrice, cmd.StepPrice, cmd.ImmediatePrice,
		cmd.BeginDate, cmd.EndDate, cmd.AutoExtend, uc.extendWindow)
	auction.Description = cmd.Description

	if err := uc.auctionRepo.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("create listing: persist %s: %w", cmd.ProductID, err)
	}

	log.Info("Listing created",
		zap.String("productID", auction.ProductID.String()),
		zap.String("seller", auction.Seller.String()),
		zap.String("beginPrice", auction.BeginPrice.String()),
		zap.Time("endDate", auction.EndDate),
		zap.Bool("autoExtend", auction.AutoExtend),
	)
	return auction, nil
}

func validateListing(cmd CreateListingDTO) error {
	if cmd.Seller == uuid.Nil {
		return fmt.Errorf("%w: missing seller", ErrInvalidListing)
	}
	if cmd.Title == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidListing)
	}
	if cmd.BeginPrice.IsNegative() {
		return fmt.Errorf("%w: begin price cannot be negative", ErrInvalidListing)
	}
	if !cmd.StepPrice.IsPositive() {
		return fmt.Errorf("%w: step price must be positive", ErrInvalidListing)
	}
	if cmd.ImmediatePrice.Valid && !cmd.ImmediatePrice.Decimal.GreaterThan(cmd.BeginPrice) {
		return fmt.Errorf("%w: immediate price must exceed begin price", ErrInvalidListing)
	}
	if !cmd.EndDate.After(cmd.BeginDate) {
		return fmt.Errorf("%w: end date must be after begin date", ErrInvalidListing)
	}
	return nil
}
