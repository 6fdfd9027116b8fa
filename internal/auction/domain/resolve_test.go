package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	now := time.Now().UTC()

	t.Run("regular_bid_sets_price", func(t *testing.T) {
		a := testAuction(t)
		bid := NewBid(uuid.New(), a.ProductID, uuid.New(), decimal.NewFromInt(150), now)

		res := Resolve(a, bid)

		require.False(t, res.Settled)
		require.True(t, res.NewPrice.Equal(decimal.NewFromInt(150)))
	})

	t.Run("bid_at_immediate_price_settles", func(t *testing.T) {
		a := testAuction(t)
		a.CurrentPrice = decimal.NewFromInt(300)
		a.ImmediatePrice = decimal.NewNullDecimal(decimal.NewFromInt(500))
		bid := NewBid(uuid.New(), a.ProductID, uuid.New(), decimal.NewFromInt(500), now)

		res := Resolve(a, bid)

		require.True(t, res.Settled)
		require.True(t, res.NewPrice.Equal(decimal.NewFromInt(500)))
	})

	t.Run("bid_above_immediate_price_is_clamped", func(t *testing.T) {
		a := testAuction(t)
		a.ImmediatePrice = decimal.NewNullDecimal(decimal.NewFromInt(500))
		bid := NewBid(uuid.New(), a.ProductID, uuid.New(), decimal.NewFromInt(620), now)

		res := Resolve(a, bid)

		require.True(t, res.Settled)
		require.True(t, res.NewPrice.Equal(decimal.NewFromInt(500)))
	})

	t.Run("new_bid_enters_as_holder", func(t *testing.T) {
		a := testAuction(t)
		bid := NewBid(uuid.New(), a.ProductID, uuid.New(), decimal.NewFromInt(150), now)
		require.True(t, bid.IsHolder)
	})
}
