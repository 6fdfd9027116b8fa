package domain

import "errors"

// bid rejections, these are expected business outcomes not failures
var (
	ErrAuctionClosed         = errors.New("auction is closed")
	ErrSelfBid               = errors.New("seller cannot bid on their own product")
	ErrBelowMinimumIncrement = errors.New("bid price is below current price plus step price")
)

// operational errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrInvalidPrice    = errors.New("bid price must be greater than zero")
	ErrAuctionBusy     = errors.New("auction is busy, retry the bid")
	ErrPersistence     = errors.New("persistence failure")
)

// RejectReason is the typed reason reported back to the submitter
type RejectReason string

const (
	ReasonAuctionClosed         RejectReason = "auction_closed"
	ReasonSelfBid               RejectReason = "self_bid"
	ReasonBelowMinimumIncrement RejectReason = "below_minimum_increment"
)

// IsRejection reports whether err is one of the expected bid rejections
func IsRejection(err error) bool {
	_, ok := ReasonFor(err)
	return ok
}

// ReasonFor maps a rejection error to its typed reason
func ReasonFor(err error) (RejectReason, bool) {
	switch {
	case errors.Is(err, ErrAuctionClosed):
		return ReasonAuctionClosed, true
	case errors.Is(err, ErrSelfBid):
		return ReasonSelfBid, true
	case errors.Is(err, ErrBelowMinimumIncrement):
		return ReasonBelowMinimumIncrement, true
	default:
		return "", false
	}
}
