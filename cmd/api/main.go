package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/config"
	"github.com/varlik-app/varlik/internal/auth"
	"github.com/varlik-app/varlik/internal/handler"
	"github.com/varlik-app/varlik/internal/logging"
	"github.com/varlik-app/varlik/internal/market"
	"github.com/varlik-app/varlik/internal/model"
	"github.com/varlik-app/varlik/internal/publish"
	"github.com/varlik-app/varlik/internal/repository"
	"github.com/varlik-app/varlik/internal/router"
	"github.com/varlik-app/varlik/internal/scheduler"
	"github.com/varlik-app/varlik/internal/service"
	"github.com/varlik-app/varlik/internal/stream"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Debug)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateFlag {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatalf("Failed to get sql.DB: %v", err)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			logger.Fatalf("Goose: failed to set dialect: %v", err)
		}
		logger.Info("Running database migrations...")
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			logger.Fatalf("Goose migration failed: %v", err)
		}
	}

	provider := buildProvider(cfg, logger)
	historyStore, assetStore, alertStore := repository.NewMarketRepository(db)
	positionStore, settingsStore := repository.NewPortfolioRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	hub := stream.NewHub(logger)
	defer hub.Close()

	sinks := []service.CatalogSink{hub}
	if cfg.Kafka.Broker != "" {
		publisher, err := publish.NewPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	marketService := service.NewMarketService(provider, historyStore, assetStore, alertStore, logger, sinks...)
	portfolioService := service.NewPortfolioService(provider, positionStore, settingsStore)
	watchlistService := service.NewWatchlistService(provider, watchlistRepo)

	refresher := scheduler.NewRefresher(marketService, time.Duration(cfg.Refresh.IntervalSeconds)*time.Second, logger)

	routerConfig := &router.Config{
		MarketHandler:    handler.NewMarketHandler(marketService, refresher, logger),
		PortfolioHandler: handler.NewPortfolioHandler(portfolioService, logger),
		WatchlistHandler: handler.NewWatchlistHandler(watchlistService, logger),
		StreamHub:        hub,
		Entities:         buildEntities(db, logger),
		Verifier:         auth.NewStaticVerifier(cfg.APITokens),
		Debug:            cfg.Debug,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Refresh.Enabled {
		go refresher.Start(ctx)
	} else {
		logger.Info("Price refresh scheduler is disabled by configuration")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.NewRouter(routerConfig),
	}

	go func() {
		logger.Infof("Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Received shutdown signal, gracefully shutting down...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
}

// buildProvider applies endpoint overrides from configuration, mainly
// for tests and mirrors.
func buildProvider(cfg *config.Config, logger *logrus.Logger) *market.Provider {
	provider := market.NewProvider(logger, time.Duration(cfg.Providers.TimeoutSeconds)*time.Second)
	if cfg.Providers.FXBaseURL != "" {
		provider.FXBaseURL = cfg.Providers.FXBaseURL
	}
	if cfg.Providers.FXFallbackURL != "" {
		provider.FallbackFXURL = cfg.Providers.FXFallbackURL
	}
	if cfg.Providers.CoinGeckoURL != "" {
		provider.CoinGeckoBaseURL = cfg.Providers.CoinGeckoURL
	}
	return provider
}

// buildEntities wires the generic CRUD resource for every user-owned
// entity type.
func buildEntities(db *gorm.DB, logger *logrus.Logger) []router.Registrable {
	return []router.Registrable{
		handler.NewResource[model.Asset](repository.NewScoped[model.Asset](db), handler.Descriptor{
			Name: "assets",
			Columns: map[string]bool{
				"name": true, "category": true, "quantity": true,
				"purchase_price": true, "purchase_date": true, "current_price": true,
				"currency": true, "is_sold": true, "sold_price": true,
				"sold_date": true, "notes": true,
			},
		}, logger),
		handler.NewResource[model.Transaction](repository.NewScoped[model.Transaction](db), handler.Descriptor{
			Name: "transactions",
			Columns: map[string]bool{
				"asset_id": true, "asset_name": true, "transaction_type": true,
				"quantity": true, "price_per_unit": true, "total_amount": true,
				"currency": true, "profit_loss": true, "transaction_date": true,
				"notes": true,
			},
		}, logger),
		handler.NewResource[model.PriceAlert](repository.NewScoped[model.PriceAlert](db), handler.Descriptor{
			Name: "price_alerts",
			Columns: map[string]bool{
				"asset_name": true, "asset_category": true, "target_price": true,
				"condition": true, "currency": true, "is_active": true,
				"is_triggered": true, "triggered_at": true,
			},
		}, logger),
		handler.NewResource[model.PortfolioPosition](repository.NewScoped[model.PortfolioPosition](db), handler.Descriptor{
			Name: "portfolio_positions",
			Columns: map[string]bool{
				"asset_key": true, "asset_name": true, "asset_type": true,
				"quantity": true, "avg_cost": true, "currency": true,
				"opened_at": true, "notes": true,
			},
		}, logger),
		handler.NewResource[model.PortfolioSnapshot](repository.NewScoped[model.PortfolioSnapshot](db), handler.Descriptor{
			Name: "portfolio_snapshots",
			Columns: map[string]bool{
				"total_value_try": true, "total_value_usd": true, "total_value_eur": true,
				"gold_value": true, "crypto_value": true, "currency_value": true,
				"other_value": true, "snapshot_date": true,
			},
		}, logger),
		handler.NewResource[model.UserSetting](repository.NewScoped[model.UserSetting](db), handler.Descriptor{
			Name: "user_settings",
			Columns: map[string]bool{
				"base_currency": true, "pin_code": true, "pin_enabled": true,
				"theme": true, "notifications_enabled": true,
			},
		}, logger),
		handler.NewResource[model.Subscription](repository.NewScoped[model.Subscription](db), handler.Descriptor{
			Name: "subscriptions",
			Columns: map[string]bool{
				"plan_type": true, "is_pro": true, "provider_customer_id": true,
				"provider_subscription_id": true, "subscription_start": true,
				"subscription_end": true,
			},
		}, logger),
	}
}
