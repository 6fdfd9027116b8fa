package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testAuction(t *testing.T) *Auction {
	t.Helper()
	now := time.Now().UTC()
	return NewAuction(uuid.New(), uuid.New(), "vintage camera",
		decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NullDecimal{},
		now.Add(-time.Hour), now.Add(24*time.Hour), false, 0)
}

func TestValidateBid(t *testing.T) {
	now := time.Now().UTC()
	bidder := uuid.New()

	tests := []struct {
		name        string
		setup       func(a *Auction)
		bidder      func(a *Auction) uuid.UUID
		price       decimal.Decimal
		bidTime     time.Time
		expectedErr error
	}{
		{
			name:        "accepts_price_at_minimum_increment",
			setup:       func(a *Auction) {},
			bidder:      func(a *Auction) uuid.UUID { return bidder },
			price:       decimal.NewFromInt(110),
			bidTime:     now,
			expectedErr: nil,
		},
		{
			name:        "rejects_price_below_minimum_increment",
			setup:       func(a *Auction) {},
			bidder:      func(a *Auction) uuid.UUID { return bidder },
			price:       decimal.NewFromInt(105),
			bidTime:     now,
			expectedErr: ErrBelowMinimumIncrement,
		},
		{
			name:        "rejects_seller_bidding_own_product",
			setup:       func(a *Auction) {},
			bidder:      func(a *Auction) uuid.UUID { return a.Seller },
			price:       decimal.NewFromInt(200),
			bidTime:     now,
			expectedErr: ErrSelfBid,
		},
		{
			name:        "rejects_bid_after_end_date",
			setup:       func(a *Auction) { a.EndDate = now.Add(-time.Minute) },
			bidder:      func(a *Auction) uuid.UUID { return bidder },
			price:       decimal.NewFromInt(110),
			bidTime:     now,
			expectedErr: ErrAuctionClosed,
		},
		{
			name:        "rejects_bid_on_settled_auction",
			setup:       func(a *Auction) { a.Status = StatusClosed },
			bidder:      func(a *Auction) uuid.UUID { return bidder },
			price:       decimal.NewFromInt(110),
			bidTime:     now,
			expectedErr: ErrAuctionClosed,
		},
		{
			name:        "closed_check_wins_over_self_bid",
			setup:       func(a *Auction) { a.Status = StatusClosed },
			bidder:      func(a *Auction) uuid.UUID { return a.Seller },
			price:       decimal.NewFromInt(110),
			bidTime:     now,
			expectedErr: ErrAuctionClosed,
		},
		{
			name:        "self_bid_check_wins_over_increment",
			setup:       func(a *Auction) {},
			bidder:      func(a *Auction) uuid.UUID { return a.Seller },
			price:       decimal.NewFromInt(1),
			bidTime:     now,
			expectedErr: ErrSelfBid,
		},
		{
			name: "immediate_price_bid_bypasses_increment_bound",
			setup: func(a *Auction) {
				a.CurrentPrice = decimal.NewFromInt(495)
				a.ImmediatePrice = decimal.NewNullDecimal(decimal.NewFromInt(500))
			},
			bidder:      func(a *Auction) uuid.UUID { return bidder },
			price:       decimal.NewFromInt(500),
			bidTime:     now,
			expectedErr: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := testAuction(t)
			tc.setup(a)

			err := ValidateBid(a, tc.bidder(a), tc.price, tc.bidTime)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.True(t, IsRejection(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestReasonFor(t *testing.T) {
	reason, ok := ReasonFor(ErrSelfBid)
	require.True(t, ok)
	require.Equal(t, ReasonSelfBid, reason)

	_, ok = ReasonFor(ErrPersistence)
	require.False(t, ok)
	require.False(t, IsRejection(ErrAuctionBusy))
}
