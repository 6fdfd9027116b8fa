package domain

import (
	"time"

	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionStatus represents the lifecycle state of a product auction
type AuctionStatus string

const (
	StatusOpen   AuctionStatus = "open"
	StatusClosed AuctionStatus = "closed"
)

// Auction is the authoritative record of one product's price, holder and
// timing. Created by the catalog side before bidding opens, mutated only
// through ApplyBid while the coordinator holds the per-product section
type Auction struct {
	ProductID   uuid.UUID
	Seller      uuid.UUID
	Title       string
	Description string
	BeginPrice  decimal.Decimal
	// CurrentPrice >= BeginPrice always, non-decreasing over the auction life
	CurrentPrice decimal.Decimal
	StepPrice    decimal.Decimal
	// ImmediatePrice is the optional buy-now threshold
	ImmediatePrice decimal.NullDecimal
	BeginDate      time.Time
	EndDate        time.Time
	AutoExtend     bool
	// ExtendWindow is the trailing anti-snipe window W
	ExtendWindow time.Duration
	Status       AuctionStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAuction creates a listing in open state with current price at begin price
func NewAuction(productID, seller uuid.UUID, title string, beginPrice, stepPrice decimal.Decimal,
	immediatePrice decimal.NullDecimal, beginDate, endDate time.Time,
	autoExtend bool, extendWindow time.Duration) *Auction {

	return &Auction{
		ProductID:      productID,
		Seller:         seller,
		Title:          title,
		BeginPrice:     beginPrice,
		CurrentPrice:   beginPrice,
		StepPrice:      stepPrice,
		ImmediatePrice: immediatePrice,
		BeginDate:      beginDate,
		EndDate:        endDate,
		AutoExtend:     autoExtend,
		ExtendWindow:   extendWindow,
		Status:         StatusOpen,
	}
}

// IsOpenAt evaluates closure lazily, an auction past its end date is closed
// even if no bid ever forced the status transition
func (a *Auction) IsOpenAt(now time.Time) bool {
	if a.Status != StatusOpen {
		return false
	}
	return !now.After(a.EndDate)
}

// StatusAt returns the effective status at the given instant
func (a *Auction) StatusAt(now time.Time) AuctionStatus {
	if a.IsOpenAt(now) {
		return StatusOpen
	}
	return StatusClosed
}

// MinimumBid is the lowest acceptable next bid under the increment rule
func (a *Auction) MinimumBid() decimal.Decimal {
	return a.CurrentPrice.Add(a.StepPrice)
}

// BidOutcome reports the effect of an accepted bid on the auction state
type BidOutcome struct {
	Bid      *Bid
	NewPrice decimal.Decimal
	EndDate  time.Time
	Settled  bool
	Extended bool
}

// ApplyBid runs the bid business logic against the auction state: validation,
// price/holder resolution and the anti-snipe clock, mutating the aggregate on
// acceptance. The caller must hold the product's exclusive section and is
// responsible for persisting both the new bid and the updated auction
func (a *Auction) ApplyBid(bidderID uuid.UUID, price decimal.Decimal, now time.Time) (*BidOutcome, error) {
	if err := ValidateBid(a, bidderID, price, now); err != nil {
		log.Warn("Bid rejected",
			zap.String("productID", a.ProductID.String()),
			zap.String("bidderID", bidderID.String()),
			zap.String("price", price.String()),
			zap.String("currentPrice", a.CurrentPrice.String()),
			zap.Error(err),
		)
		return nil, err
	}

	bid := NewBid(uuid.New(), a.ProductID, bidderID, price, now)
	res := Resolve(a, bid)

	// the clock must see the end date in effect before this bid's extension
	outcome := &BidOutcome{Bid: bid, NewPrice: res.NewPrice, Settled: res.Settled}
	if !res.Settled {
		if newEnd, ok := NextEndDate(a, now); ok {
			a.EndDate = newEnd
			outcome.Extended = true
		}
	}

	a.CurrentPrice = res.NewPrice
	if res.Settled {
		a.Status = StatusClosed
	}
	a.UpdatedAt = now
	outcome.EndDate = a.EndDate

	log.Info("Bid accepted",
		zap.String("productID", a.ProductID.String()),
		zap.String("bidID", bid.BidID.String()),
		zap.String("bidderID", bidderID.String()),
		zap.String("newCurrentPrice", a.CurrentPrice.String()),
		zap.Time("endDate", a.EndDate),
		zap.Bool("settled", res.Settled),
		zap.Bool("extended", outcome.Extended),
	)

	return outcome, nil
}
