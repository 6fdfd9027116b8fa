package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestApplyBid_IncrementRule(t *testing.T) {
	// begin 100, step 10: 105 is rejected, 110 is accepted
	a := testAuction(t)
	bidder := uuid.New()
	now := time.Now().UTC()

	_, err := a.ApplyBid(bidder, decimal.NewFromInt(105), now)
	require.ErrorIs(t, err, ErrBelowMinimumIncrement)
	require.True(t, a.CurrentPrice.Equal(decimal.NewFromInt(100)), "rejected bid must not mutate state")

	outcome, err := a.ApplyBid(bidder, decimal.NewFromInt(110), now)
	require.NoError(t, err)
	require.True(t, outcome.NewPrice.Equal(decimal.NewFromInt(110)))
	require.True(t, a.CurrentPrice.Equal(decimal.NewFromInt(110)))
	require.True(t, outcome.Bid.IsHolder)
	require.False(t, outcome.Settled)
}

func TestApplyBid_ImmediatePriceSettlement(t *testing.T) {
	a := testAuction(t)
	a.CurrentPrice = decimal.NewFromInt(300)
	a.ImmediatePrice = decimal.NewNullDecimal(decimal.NewFromInt(500))
	now := time.Now().UTC()

	outcome, err := a.ApplyBid(uuid.New(), decimal.NewFromInt(500), now)
	require.NoError(t, err)
	require.True(t, outcome.Settled)
	require.Equal(t, StatusClosed, a.Status)
	require.True(t, a.CurrentPrice.Equal(decimal.NewFromInt(500)))

	// no further bids regardless of end date
	_, err = a.ApplyBid(uuid.New(), decimal.NewFromInt(510), now.Add(time.Second))
	require.ErrorIs(t, err, ErrAuctionClosed)
}

func TestApplyBid_MonotonicPrice(t *testing.T) {
	a := testAuction(t)
	now := time.Now().UTC()

	prices := []int64{110, 120, 135, 200}
	last := a.CurrentPrice
	for i, p := range prices {
		outcome, err := a.ApplyBid(uuid.New(), decimal.NewFromInt(p), now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.True(t, outcome.NewPrice.GreaterThanOrEqual(last), "current price must be non-decreasing")
		last = outcome.NewPrice
	}
	require.True(t, a.CurrentPrice.Equal(decimal.NewFromInt(200)))
}

func TestApplyBid_AutoExtend(t *testing.T) {
	a := testAuction(t)
	a.AutoExtend = true
	a.ExtendWindow = 5 * time.Minute
	endDate := a.EndDate

	// inside the trailing window: new end date = bid time + window
	bidTime := endDate.Add(-2 * time.Minute)
	outcome, err := a.ApplyBid(uuid.New(), decimal.NewFromInt(110), bidTime)
	require.NoError(t, err)
	require.True(t, outcome.Extended)
	require.Equal(t, bidTime.Add(5*time.Minute), a.EndDate)
	require.Equal(t, bidTime.Add(5*time.Minute), outcome.EndDate)

	// outside the window: no change
	a2 := testAuction(t)
	a2.AutoExtend = true
	a2.ExtendWindow = 5 * time.Minute
	outcome, err = a2.ApplyBid(uuid.New(), decimal.NewFromInt(110), a2.EndDate.Add(-10*time.Minute))
	require.NoError(t, err)
	require.False(t, outcome.Extended)
	require.Equal(t, a2.EndDate, outcome.EndDate)
}

func TestApplyBid_SettlementSkipsExtension(t *testing.T) {
	a := testAuction(t)
	a.AutoExtend = true
	a.ExtendWindow = 5 * time.Minute
	a.ImmediatePrice = decimal.NewNullDecimal(decimal.NewFromInt(500))
	endDate := a.EndDate

	// settling bid inside the window must close, not extend
	outcome, err := a.ApplyBid(uuid.New(), decimal.NewFromInt(500), endDate.Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, outcome.Settled)
	require.False(t, outcome.Extended)
	require.Equal(t, endDate, a.EndDate)
}

func TestStatusAt(t *testing.T) {
	a := testAuction(t)
	require.Equal(t, StatusOpen, a.StatusAt(time.Now().UTC()))
	require.Equal(t, StatusClosed, a.StatusAt(a.EndDate.Add(time.Second)))

	a.Status = StatusClosed
	require.Equal(t, StatusClosed, a.StatusAt(time.Now().UTC()))
}

func TestMinimumBid(t *testing.T) {
	a := testAuction(t)
	require.True(t, a.MinimumBid().Equal(decimal.NewFromInt(110)))
}
