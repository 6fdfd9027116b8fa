package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
)

// Store is a concurrency-safe in-memory implementation of the auction
// repository, the bid ledger and the tx manager. Used by the unit and race
// tests, and lets the storefront run without Postgres
type Store struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]domain.Auction
	bids     map[uuid.UUID][]domain.Bid
}

// NewStore creates a new in-memory store instance
func NewStore() *Store {
	return &Store{
		auctions: make(map[uuid.UUID]domain.Auction),
		bids:     make(map[uuid.UUID][]domain.Bid),
	}
}

// memTx buffers writes and applies them under the store lock on commit, so
// the memory backend keeps the same atomicity as the Postgres tx
type memTx struct {
	store *Store
	ops   []func()
}

func (t *memTx) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, op := range t.ops {
		op()
	}
	t.ops = nil
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.ops = nil
	return nil
}

// Begin implements domain.TxManager
func (s *Store) Begin(ctx context.Context) (domain.Tx, error) {
	return &memTx{store: s}, nil
}

func asMemTx(tx domain.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("memory store: unexpected tx type %T", tx)
	}
	return mt, nil
}

// ---- domain.AuctionRepository ----

func (s *Store) Create(ctx context.Context, a *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.auctions[a.ProductID]; exists {
		return fmt.Errorf("memory store: product %s already exists", a.ProductID)
	}
	s.auctions[a.ProductID] = *a
	return nil
}

func (s *Store) GetByID(ctx context.Context, productID uuid.UUID) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.auctions[productID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	copied := a
	return &copied, nil
}

func (s *Store) Save(ctx context.Context, tx domain.Tx, a *domain.Auction) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}
	snapshot := *a
	mt.ops = append(mt.ops, func() {
		s.auctions[snapshot.ProductID] = snapshot
	})
	return nil
}

func (s *Store) ListOpen(ctx context.Context) ([]*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var open []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.StatusOpen {
			copied := a
			open = append(open, &copied)
		}
	}
	return open, nil
}

func (s *Store) ListEndingSoon(ctx context.Context, threshold time.Duration) ([]*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().UTC().Add(threshold)
	var ending []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.StatusOpen && !a.EndDate.After(cutoff) {
			copied := a
			ending = append(ending, &copied)
		}
	}
	return ending, nil
}

// ---- domain.BidLedger ----

func (s *Store) Append(ctx context.Context, tx domain.Tx, bid *domain.Bid) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}
	snapshot := *bid
	mt.ops = append(mt.ops, func() {
		s.bids[snapshot.ProductID] = append(s.bids[snapshot.ProductID], snapshot)
	})
	return nil
}

func (s *Store) BidsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ledger := s.bids[productID]
	bids := make([]*domain.Bid, 0, len(ledger))
	for i := range ledger {
		copied := ledger[i]
		bids = append(bids, &copied)
	}
	return bids, nil
}

func (s *Store) LatestHolder(ctx context.Context, productID uuid.UUID) (*domain.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ledger := s.bids[productID]
	if len(ledger) == 0 {
		return nil, nil
	}
	copied := ledger[len(ledger)-1]
	return &copied, nil
}

func (s *Store) DemoteHolder(ctx context.Context, tx domain.Tx, productID, newHolderBidID uuid.UUID) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}
	mt.ops = append(mt.ops, func() {
		ledger := s.bids[productID]
		for i := range ledger {
			if ledger[i].BidID != newHolderBidID {
				ledger[i].IsHolder = false
			}
		}
	})
	return nil
}
