package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/application"
	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// StateCache implements application.StateCache on Redis. It only serves the
// query path: a short TTL plus invalidation on every accepted bid keeps reads
// close to the committed state, the bid coordinator never reads through here
type StateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStateCache(rdb *redis.Client, ttl time.Duration) *StateCache {
	return &StateCache{rdb: rdb, ttl: ttl}
}

func stateKey(productID uuid.UUID) string {
	return "auction:state:" + productID.String()
}

func (c *StateCache) Get(ctx context.Context, productID uuid.UUID) (*application.AuctionStateDTO, bool) {
	data, err := c.rdb.Get(ctx, stateKey(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("StateCache: get failed", zap.String("productID", productID.String()), zap.Error(err))
		}
		return nil, false
	}

	var state application.AuctionStateDTO
	if err := json.Unmarshal(data, &state); err != nil {
		log.Warn("StateCache: corrupt entry dropped", zap.String("productID", productID.String()), zap.Error(err))
		_ = c.rdb.Del(ctx, stateKey(productID)).Err()
		return nil, false
	}
	return &state, true
}

func (c *StateCache) Set(ctx context.Context, state *application.AuctionStateDTO) {
	data, err := json.Marshal(state)
	if err != nil {
		log.Warn("StateCache: marshal failed", zap.String("productID", state.ProductID.String()), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, stateKey(state.ProductID), data, c.ttl).Err(); err != nil {
		log.Warn("StateCache: set failed", zap.String("productID", state.ProductID.String()), zap.Error(err))
	}
}

func (c *StateCache) Invalidate(ctx context.Context, productID uuid.UUID) {
	if err := c.rdb.Del(ctx, stateKey(productID)).Err(); err != nil {
		log.Warn("StateCache: invalidate failed", zap.String("productID", productID.String()), zap.Error(err))
	}
}
