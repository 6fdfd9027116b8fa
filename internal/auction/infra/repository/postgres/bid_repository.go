package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository implements domain.BidLedger over the bids table. The seq
// column records arrival order into the coordinator's exclusive section and
// breaks bid_time ties
type BidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository creates a new instance of BidRepository
func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Append inserts an accepted bid at the ledger tail, only called by the
// coordinator after validation while holding the product section
func (r *BidRepository) Append(ctx context.Context, tx domain.Tx, bid *domain.Bid) error {
	pt, err := asPgxTx(tx)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO bids (bid_id, product_id, bidder_id, price, bid_time, is_holder)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err = pt.Exec(ctx, query,
		bid.BidID,
		bid.ProductID,
		bid.BidderID,
		bid.Price,
		bid.BidTime,
		bid.IsHolder,
	)
	return err
}

// BidsByProduct returns the full ledger of a product, oldest first
func (r *BidRepository) BidsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT bid_id, product_id, bidder_id, price, bid_time, is_holder
        FROM bids
        WHERE product_id = $1
        ORDER BY bid_time ASC, seq ASC
    `
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.BidID,
			&bid.ProductID,
			&bid.BidderID,
			&bid.Price,
			&bid.BidTime,
			&bid.IsHolder,
		)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bids, nil
}

// LatestHolder returns the most recently appended bid, which is by
// construction the current holder. Returns nil when the product has no bids
func (r *BidRepository) LatestHolder(ctx context.Context, productID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT bid_id, product_id, bidder_id, price, bid_time, is_holder
        FROM bids
        WHERE product_id = $1
        ORDER BY bid_time DESC, seq DESC
        LIMIT 1
    `
	bid := &domain.Bid{}
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&bid.BidID,
		&bid.ProductID,
		&bid.BidderID,
		&bid.Price,
		&bid.BidTime,
		&bid.IsHolder,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return bid, nil
}

// DemoteHolder flips is_holder off on every bid of the product except the new
// holder, a metadata update not a ledger rewrite
func (r *BidRepository) DemoteHolder(ctx context.Context, tx domain.Tx, productID, newHolderBidID uuid.UUID) error {
	pt, err := asPgxTx(tx)
	if err != nil {
		return err
	}
	query := `
        UPDATE bids
        SET is_holder = FALSE
        WHERE product_id = $1 AND is_holder AND bid_id <> $2
    `
	_, err = pt.Exec(ctx, query, productID, newHolderBidID)
	return err
}
