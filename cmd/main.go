package main

import (
	"context"

	"github.com/cristianortiz/auctionStore/internal/auction/application"
	"github.com/cristianortiz/auctionStore/internal/auction/infra/cache"
	auctionhttp "github.com/cristianortiz/auctionStore/internal/auction/infra/http"
	"github.com/cristianortiz/auctionStore/internal/auction/infra/repository/postgres"
	auctionws "github.com/cristianortiz/auctionStore/internal/auction/infra/websocket"
	catalogapp "github.com/cristianortiz/auctionStore/internal/catalog/application"
	cataloghttp "github.com/cristianortiz/auctionStore/internal/catalog/infra/http"
	"github.com/cristianortiz/auctionStore/internal/shared/config"
	"github.com/cristianortiz/auctionStore/internal/shared/db"
	"github.com/cristianortiz/auctionStore/internal/shared/db/migrations"
	"github.com/cristianortiz/auctionStore/internal/shared/httpserver"
	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	ws "github.com/cristianortiz/auctionStore/internal/shared/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auctionStore server...")
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	pool, err := db.GetPostgresDBPool(ctx)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	auctionRepo := postgres.NewAuctionRepository(pool)
	bidRepo := postgres.NewBidRepository(pool)
	txm := postgres.NewTxManager(pool)
	locks := application.NewProductLocks(cfg.LockWait)

	// redis state cache is optional, the storefront runs without it
	var stateCache application.StateCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		stateCache = cache.NewStateCache(rdb, cfg.StateCacheTTL)
		log.Info("Redis state cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	submitBidUC := application.NewSubmitBidUseCase(auctionRepo, bidRepo, txm, locks)
	getStateUC := application.NewGetAuctionStateUseCase(auctionRepo, bidRepo, stateCache)
	getHistoryUC := application.NewGetBidHistoryUseCase(bidRepo)
	browseUC := application.NewBrowseListingsUseCase(auctionRepo)
	auctionService := application.NewAuctionService(submitBidUC, getStateUC, getHistoryUC, browseUC, stateCache)

	createListingUC := catalogapp.NewCreateListingUseCase(auctionRepo, cfg.DefaultExtendWindow)

	hub := ws.NewHub()
	go hub.Run(ctx)
	wsHandler := auctionws.NewAuctionWSHandler(auctionService, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer()
	auctionhttp.NewAuctionHandler(auctionService).RegisterRoutes(server.App())
	cataloghttp.NewCatalogHandler(createListingUC).RegisterRoutes(server.App())
	wsHandler.RegisterRoutes(ctx, server.App())

	if err := server.Start(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
