// Command refresh runs one market refresh cycle and exits. Useful for
// cron-style deployments and local debugging.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/varlik-app/varlik/config"
	"github.com/varlik-app/varlik/internal/logging"
	"github.com/varlik-app/varlik/internal/market"
	"github.com/varlik-app/varlik/internal/repository"
	"github.com/varlik-app/varlik/internal/service"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
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

	provider := market.NewProvider(logger, time.Duration(cfg.Providers.TimeoutSeconds)*time.Second)
	historyStore, assetStore, alertStore := repository.NewMarketRepository(db)
	marketService := service.NewMarketService(provider, historyStore, assetStore, alertStore, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := marketService.RefreshCycle(ctx)
	if err != nil {
		logger.Fatalf("Refresh cycle failed: %v", err)
	}

	encoded, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(encoded))
}
