package postgres

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager implements domain.TxManager on top of a pgx pool
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) Begin(ctx context.Context) (domain.Tx, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// asPgxTx recovers the concrete pgx transaction handed out by Begin. Mixing a
// tx from another TxManager implementation is a programming error
func asPgxTx(tx domain.Tx) (pgx.Tx, error) {
	pt, ok := tx.(pgx.Tx)
	if !ok {
		return nil, fmt.Errorf("postgres repository: unexpected tx type %T", tx)
	}
	return pt, nil
}
