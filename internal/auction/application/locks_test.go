package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestProductLocks_ExclusiveSection(t *testing.T) {
	locks := NewProductLocks(50 * time.Millisecond)
	ctx := context.Background()
	productID := uuid.New()

	release, err := locks.Acquire(ctx, productID)
	require.NoError(t, err)

	// second submission on the same product bounces after the wait bound
	_, err = locks.Acquire(ctx, productID)
	require.ErrorIs(t, err, domain.ErrAuctionBusy)

	release()

	// after release the section is free again
	release2, err := locks.Acquire(ctx, productID)
	require.NoError(t, err)
	release2()
	// release is safe to call more than once
	release2()
}

func TestProductLocks_IndependentProducts(t *testing.T) {
	locks := NewProductLocks(50 * time.Millisecond)
	ctx := context.Background()

	releaseA, err := locks.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseA()

	// a different product is not blocked
	releaseB, err := locks.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	releaseB()
}

func TestProductLocks_WaiterEntersAfterRelease(t *testing.T) {
	locks := NewProductLocks(2 * time.Second)
	ctx := context.Background()
	productID := uuid.New()

	release, err := locks.Acquire(ctx, productID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	entered := make(chan struct{})
	go func() {
		defer wg.Done()
		r, err := locks.Acquire(ctx, productID)
		if err == nil {
			close(entered)
			r()
		}
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("waiter never entered the section after release")
	}
	wg.Wait()
}

func TestProductLocks_ContextCancelled(t *testing.T) {
	locks := NewProductLocks(5 * time.Second)
	productID := uuid.New()

	release, err := locks.Acquire(context.Background(), productID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = locks.Acquire(ctx, productID)
	require.ErrorIs(t, err, context.Canceled)
}
