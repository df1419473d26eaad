package service

import (
	"context"
	"fmt"
	"time"

	"github.com/varlik-app/varlik/internal/market"
	"github.com/varlik-app/varlik/internal/repository"
)

// PortfolioSummary is the valuation of one user's positions in their
// base currency, broken down by asset type.
type PortfolioSummary struct {
	Currency      string             `json:"currency"`
	TotalValue    float64            `json:"total_value"`
	TotalCost     float64            `json:"total_cost"`
	ValuesByType  map[string]float64 `json:"values_by_type"`
	PositionCount int                `json:"position_count"`
	PricedCount   int                `json:"priced_count"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// PortfolioService values user positions against live market rates.
type PortfolioService struct {
	fetcher   RateFetcher
	positions repository.PositionStore
	settings  repository.SettingsStore
	now       func() time.Time
}

func NewPortfolioService(fetcher RateFetcher, positions repository.PositionStore, settings repository.SettingsStore) *PortfolioService {
	return &PortfolioService{
		fetcher:   fetcher,
		positions: positions,
		settings:  settings,
		now:       time.Now,
	}
}

// Summary resolves each position's instrument at current rates and sums
// the values per type in the user's base currency. Positions whose price
// is unavailable count into PositionCount but not PricedCount; partial
// market data yields a partial valuation, not an error.
func (s *PortfolioService) Summary(ctx context.Context, userID string) (PortfolioSummary, error) {
	positions, err := s.positions.ListByUser(ctx, userID)
	if err != nil {
		return PortfolioSummary{}, fmt.Errorf("list positions: %w", err)
	}
	baseCurrency, err := s.settings.BaseCurrency(ctx, userID)
	if err != nil {
		return PortfolioSummary{}, fmt.Errorf("load settings: %w", err)
	}

	summary := PortfolioSummary{
		Currency:      baseCurrency,
		ValuesByType:  map[string]float64{},
		PositionCount: len(positions),
		UpdatedAt:     s.now().UTC(),
	}
	if len(positions) == 0 {
		return summary, nil
	}

	rates := s.fetcher.FetchAll(ctx)
	for _, position := range positions {
		summary.TotalCost += position.AvgCost * position.Quantity

		key := market.Infer(position.AssetName, position.AssetType)
		price, ok := market.Resolve(key, baseCurrency, rates)
		if !ok || price <= 0 {
			continue
		}
		value := price * position.Quantity
		summary.TotalValue += value
		summary.ValuesByType[market.CategoryGroup(position.AssetType)] += value
		summary.PricedCount++
	}
	return summary, nil
}
