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

// SubmitBidDTO is the input for one bid submission. BidTime defaults to now
// when the caller leaves it zero, tests and replay paths can pin it
type SubmitBidDTO struct {
	ProductID uuid.UUID
	BidderID  uuid.UUID
	Price     decimal.Decimal
	BidTime   time.Time
}

// BidReceipt is returned to the submitter only after the accepted bid is
// durable
type BidReceipt struct {
	BidID        uuid.UUID
	ProductID    uuid.UUID
	CurrentPrice decimal.Decimal
	EndDate      time.Time
	Settled      bool
	Extended     bool
}

// SubmitBidUseCase is the bid coordinator: it serializes submissions per
// product, runs the domain logic and commits ledger append + holder demotion
// + auction update as one atomic transaction
type SubmitBidUseCase struct {
	auctionRepo domain.AuctionRepository
	ledger      domain.BidLedger
	txm         domain.TxManager
	locks       *ProductLocks
}

// NewSubmitBidUseCase creates a new instance of SubmitBidUseCase, it receives dependencies through injection
func NewSubmitBidUseCase(auctionRepo domain.AuctionRepository, ledger domain.BidLedger,
	txm domain.TxManager, locks *ProductLocks) *SubmitBidUseCase {

	return &SubmitBidUseCase{
		auctionRepo: auctionRepo,
		ledger:      ledger,
		txm:         txm,
		locks:       locks,
	}
}

func (uc *SubmitBidUseCase) Execute(ctx context.Context, cmd SubmitBidDTO) (receipt *BidReceipt, err error) {
	now := cmd.BidTime
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// boundary validation, distinct from business rejections
	if !cmd.Price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}

	// 1. exclusive section for this product, losers of a race enter after the
	// winner committed and are validated against the updated price
	release, err := uc.locks.Acquire(ctx, cmd.ProductID)
	if err != nil {
		log.Warn("SubmitBid: could not enter product section",
			zap.String("productID", cmd.ProductID.String()),
			zap.String("bidderID", cmd.BidderID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	defer release()

	// 2. one TX so ledger append, holder demotion and auction update land
	// atomically or not at all
	tx, err := uc.txm.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("submit bid: begin transaction: %w", errors.Join(domain.ErrPersistence, err))
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			log.Error("SubmitBid: failed to commit transaction",
				zap.String("productID", cmd.ProductID.String()),
				zap.String("bidderID", cmd.BidderID.String()),
				zap.Error(commitErr),
			)
			// the bid is not durable, the success response must not go out
			receipt = nil
			err = fmt.Errorf("submit bid: commit transaction: %w", errors.Join(domain.ErrPersistence, commitErr))
		}
	}()

	// 3. load current auction state while holding the section
	auction, err := uc.auctionRepo.GetByID(ctx, cmd.ProductID)
	if err != nil {
		if !errors.Is(err, domain.ErrAuctionNotFound) {
			err = fmt.Errorf("submit bid: load auction %s: %w", cmd.ProductID, errors.Join(domain.ErrPersistence, err))
		}
		return nil, err
	}

	prevHolder, err := uc.ledger.LatestHolder(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("submit bid: load holder for %s: %w", cmd.ProductID, errors.Join(domain.ErrPersistence, err))
	}

	// 4. domain logic: validate, resolve price/holder, anti-snipe clock
	outcome, err := auction.ApplyBid(cmd.BidderID, cmd.Price, now)
	if err != nil {
		// rejection, nothing was mutated durably
		return nil, err
	}

	// 5. persist: demote the previous holder before the new holder row lands
	// so the single-holder index never trips, then append and save state
	if prevHolder != nil {
		if err = uc.ledger.DemoteHolder(ctx, tx, cmd.ProductID, outcome.Bid.BidID); err != nil {
			err = fmt.Errorf("submit bid: demote holder for %s: %w", cmd.ProductID, errors.Join(domain.ErrPersistence, err))
			return nil, err
		}
	}
	if err = uc.ledger.Append(ctx, tx, outcome.Bid); err != nil {
		err = fmt.Errorf("submit bid: append bid for %s: %w", cmd.ProductID, errors.Join(domain.ErrPersistence, err))
		return nil, err
	}
	if err = uc.auctionRepo.Save(ctx, tx, auction); err != nil {
		err = fmt.Errorf("submit bid: save auction %s: %w", cmd.ProductID, errors.Join(domain.ErrPersistence, err))
		return nil, err
	}

	// 6. the deferred commit runs on return, a commit failure overrides this
	// receipt with a persistence error
	receipt = &BidReceipt{
		BidID:        outcome.Bid.BidID,
		ProductID:    cmd.ProductID,
		CurrentPrice: outcome.NewPrice,
		EndDate:      outcome.EndDate,
		Settled:      outcome.Settled,
		Extended:     outcome.Extended,
	}
	return receipt, nil
}
