package domain

import "github.com/shopspring/decimal"

// Resolution is the authoritative price/holder outcome derived from one
// accepted bid. O(1): the validator already guarantees accepted prices are
// monotonically increasing, so no ledger rescan is needed
type Resolution struct {
	NewPrice decimal.Decimal
	// Settled signals that the bid met the immediate price, the auction is
	// force-closed and no further bids are accepted regardless of end date
	Settled bool
}

// Resolve derives the new current price from the accepted bid. The bid itself
// becomes the holder; demoting the previous holder is a ledger metadata
// update performed by the coordinator in the same transaction
func Resolve(a *Auction, bid *Bid) Resolution {
	if meetsImmediatePrice(a, bid.Price) {
		// price is clamped to the buy-now threshold
		return Resolution{NewPrice: a.ImmediatePrice.Decimal, Settled: true}
	}
	return Resolution{NewPrice: bid.Price}
}
