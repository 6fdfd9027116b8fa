package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auctionColumns = `product_id, seller, title, description, begin_price, current_price,
        step_price, immediate_price, begin_date, end_date, auto_extend, extend_window, status,
        created_at, updated_at`

// AuctionRepository implements domain.AuctionRepository over the products table
type AuctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository creates a new instance of AuctionRepository
func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// Create inserts a brand new listing, created_at/updated_at use the DB defaults
func (r *AuctionRepository) Create(ctx context.Context, a *domain.Auction) error {
	query := `
        INSERT INTO products (product_id, seller, title, description, begin_price, current_price,
            step_price, immediate_price, begin_date, end_date, auto_extend, extend_window, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `
	_, err := r.pool.Exec(ctx, query,
		a.ProductID,
		a.Seller,
		a.Title,
		a.Description,
		a.BeginPrice,
		a.CurrentPrice,
		a.StepPrice,
		a.ImmediatePrice,
		a.BeginDate,
		a.EndDate,
		a.AutoExtend,
		int64(a.ExtendWindow),
		a.Status,
	)
	return err
}

// Save persists the mutated auction state inside the bid submission tx
func (r *AuctionRepository) Save(ctx context.Context, tx domain.Tx, a *domain.Auction) error {
	pt, err := asPgxTx(tx)
	if err != nil {
		return err
	}
	query := `
        UPDATE products
        SET current_price = $2,
            end_date = $3,
            status = $4,
            updated_at = NOW()
        WHERE product_id = $1
    `
	_, err = pt.Exec(ctx, query,
		a.ProductID,
		a.CurrentPrice,
		a.EndDate,
		a.Status,
	)
	return err
}

// GetByID recovers one auction by its product ID
func (r *AuctionRepository) GetByID(ctx context.Context, productID uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM products WHERE product_id = $1`

	a, err := scanAuction(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListOpen recovers every auction still marked open
func (r *AuctionRepository) ListOpen(ctx context.Context) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM products WHERE status = $1 ORDER BY end_date ASC`

	rows, err := r.pool.Query(ctx, query, domain.StatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuctions(rows)
}

// ListEndingSoon recovers open auctions whose end date falls within threshold
func (r *AuctionRepository) ListEndingSoon(ctx context.Context, threshold time.Duration) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + `
        FROM products
        WHERE status = $1 AND end_date <= NOW() + $2
        ORDER BY end_date ASC`

	rows, err := r.pool.Query(ctx, query, domain.StatusOpen, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuctions(rows)
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	a := &domain.Auction{}
	var extendWindow int64

	err := row.Scan(
		&a.ProductID,
		&a.Seller,
		&a.Title,
		&a.Description,
		&a.BeginPrice,
		&a.CurrentPrice,
		&a.StepPrice,
		&a.ImmediatePrice,
		&a.BeginDate,
		&a.EndDate,
		&a.AutoExtend,
		&extendWindow,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ExtendWindow = time.Duration(extendWindow)
	return a, nil
}

func scanAuctions(rows pgx.Rows) ([]*domain.Auction, error) {
	var auctions []*domain.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return auctions, nil
}
