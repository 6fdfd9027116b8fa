package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/cristianortiz/auctionStore/internal/auction/infra/repository/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-process StateCache stand-in for tests
type mapCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*AuctionStateDTO
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[uuid.UUID]*AuctionStateDTO)}
}

func (c *mapCache) Get(ctx context.Context, productID uuid.UUID) (*AuctionStateDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.entries[productID]
	return state, ok
}

func (c *mapCache) Set(ctx context.Context, state *AuctionStateDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[state.ProductID] = state
}

func (c *mapCache) Invalidate(ctx context.Context, productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productID)
}

func TestGetAuctionState_NoBidsYet(t *testing.T) {
	store := memory.NewStore()
	a := seedAuction(t, store, nil)
	uc := NewGetAuctionStateUseCase(store, store, nil)

	state, err := uc.Execute(context.Background(), a.ProductID)
	require.NoError(t, err)
	require.Equal(t, a.ProductID, state.ProductID)
	require.True(t, state.CurrentPrice.Equal(decimal.NewFromInt(100)))
	require.True(t, state.MinimumBid.Equal(decimal.NewFromInt(110)))
	require.Equal(t, string(domain.StatusOpen), state.Status)
	require.Nil(t, state.HolderID)
	require.Nil(t, state.HolderBidID)
	require.Nil(t, state.LastBidTime)
}

func TestGetAuctionState_ReportsHolder(t *testing.T) {
	store := memory.NewStore()
	a := seedAuction(t, store, nil)
	submit := newSubmitUseCase(store)
	uc := NewGetAuctionStateUseCase(store, store, nil)
	ctx := context.Background()

	bidder := uuid.New()
	receipt, err := submit.Execute(ctx, SubmitBidDTO{ProductID: a.ProductID, BidderID: bidder, Price: decimal.NewFromInt(110)})
	require.NoError(t, err)

	state, err := uc.Execute(ctx, a.ProductID)
	require.NoError(t, err)
	require.NotNil(t, state.HolderID)
	require.Equal(t, bidder, *state.HolderID)
	require.Equal(t, receipt.BidID, *state.HolderBidID)
	require.True(t, state.CurrentPrice.Equal(decimal.NewFromInt(110)))
	require.True(t, state.MinimumBid.Equal(decimal.NewFromInt(120)))
}

func TestGetAuctionState_LazyCloseAfterEndDate(t *testing.T) {
	store := memory.NewStore()
	a := seedAuction(t, store, func(a *domain.Auction) {
		a.EndDate = time.Now().UTC().Add(-time.Minute)
	})
	uc := NewGetAuctionStateUseCase(store, store, nil)

	state, err := uc.Execute(context.Background(), a.ProductID)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusClosed), state.Status)
}

func TestGetAuctionState_CacheReadThrough(t *testing.T) {
	store := memory.NewStore()
	a := seedAuction(t, store, nil)
	cache := newMapCache()
	uc := NewGetAuctionStateUseCase(store, store, cache)
	ctx := context.Background()

	// first read misses and fills the cache
	state, err := uc.Execute(ctx, a.ProductID)
	require.NoError(t, err)
	cached, ok := cache.Get(ctx, a.ProductID)
	require.True(t, ok)
	require.Equal(t, state, cached)

	// subsequent reads are served from the cache even if the store moved on
	a.CurrentPrice = decimal.NewFromInt(999)
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, tx, a))
	require.NoError(t, tx.Commit(ctx))

	stale, err := uc.Execute(ctx, a.ProductID)
	require.NoError(t, err)
	require.True(t, stale.CurrentPrice.Equal(decimal.NewFromInt(100)))
}

func TestAuctionService_SubmitBidInvalidatesCache(t *testing.T) {
	store := memory.NewStore()
	a := seedAuction(t, store, nil)
	cache := newMapCache()
	ctx := context.Background()

	svc := NewAuctionService(
		newSubmitUseCase(store),
		NewGetAuctionStateUseCase(store, store, cache),
		NewGetBidHistoryUseCase(store),
		NewBrowseListingsUseCase(store),
		cache,
	)

	before, err := svc.GetAuctionState(ctx, a.ProductID)
	require.NoError(t, err)
	require.True(t, before.CurrentPrice.Equal(decimal.NewFromInt(100)))

	_, err = svc.SubmitBid(ctx, SubmitBidDTO{ProductID: a.ProductID, BidderID: uuid.New(), Price: decimal.NewFromInt(110)})
	require.NoError(t, err)

	// the stale entry is gone, the next read reflects the committed bid
	_, ok := cache.Get(ctx, a.ProductID)
	require.False(t, ok)

	after, err := svc.GetAuctionState(ctx, a.ProductID)
	require.NoError(t, err)
	require.True(t, after.CurrentPrice.Equal(decimal.NewFromInt(110)))
}

func TestGetBidHistory_OrderedOldestFirst(t *testing.T) {
	store := memory.NewStore()
	a := seedAuction(t, store, nil)
	submit := newSubmitUseCase(store)
	uc := NewGetBidHistoryUseCase(store)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, p := range []int64{110, 120, 130} {
		_, err := submit.Execute(ctx, SubmitBidDTO{
			ProductID: a.ProductID,
			BidderID:  uuid.New(),
			Price:     decimal.NewFromInt(p),
			BidTime:   base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	history, err := uc.Execute(ctx, a.ProductID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		require.False(t, history[i].BidTime.Before(history[i-1].BidTime))
	}
	require.True(t, history[2].IsHolder)
	require.False(t, history[0].IsHolder)
	require.False(t, history[1].IsHolder)
}

func TestBrowseListings(t *testing.T) {
	store := memory.NewStore()
	open := seedAuction(t, store, nil)
	soon := seedAuction(t, store, func(a *domain.Auction) {
		a.EndDate = time.Now().UTC().Add(30 * time.Minute)
	})
	seedAuction(t, store, func(a *domain.Auction) {
		a.Status = domain.StatusClosed
	})
	uc := NewBrowseListingsUseCase(store)
	ctx := context.Background()

	listings, err := uc.Open(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	ending, err := uc.EndingSoon(ctx, time.Hour)
	require.NoError(t, err)
	require.Len(t, ending, 1)
	require.Equal(t, soon.ProductID, ending[0].ProductID)
	require.NotEqual(t, open.ProductID, ending[0].ProductID)
}
