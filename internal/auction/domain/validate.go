package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidateBid accepts or rejects an incoming bid against the auction rules.
// Checks run in order and the first failure wins:
//  1. auction must be open (lazy time-based close included)
//  2. the seller cannot bid on their own product
//  3. price must reach current price + step price, unless the bid meets the
//     immediate price which forces a settlement regardless of the increment
//
// Pure function, no side effects, rejections are typed sentinel errors
func ValidateBid(a *Auction, bidderID uuid.UUID, price decimal.Decimal, now time.Time) error {
	if !a.IsOpenAt(now) {
		return ErrAuctionClosed
	}

	if bidderID == a.Seller {
		return ErrSelfBid
	}

	if price.LessThan(a.MinimumBid()) && !meetsImmediatePrice(a, price) {
		return ErrBelowMinimumIncrement
	}

	return nil
}

func meetsImmediatePrice(a *Auction, price decimal.Decimal) bool {
	return a.ImmediatePrice.Valid && price.GreaterThanOrEqual(a.ImmediatePrice.Decimal)
}
