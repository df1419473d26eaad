// Package service implements the business operations on top of the
// market engine and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/market"
	"github.com/varlik-app/varlik/internal/model"
	"github.com/varlik-app/varlik/internal/repository"
)

// ErrInvalidRange marks a client-supplied history range code that is not
// one of 1D, 1W, 1M, 3M, 1Y.
var ErrInvalidRange = errors.New("invalid range, use 1D, 1W, 1M, 3M, 1Y")

// RateFetcher produces one merged rate table per sweep. Satisfied by
// market.Provider; tests supply a canned table.
type RateFetcher interface {
	FetchAll(ctx context.Context) market.RateTable
}

// CatalogSink receives the priced catalog after each refresh cycle.
// Both the websocket hub and the Kafka publisher implement it.
type CatalogSink interface {
	PublishCatalog(entries []market.Entry)
}

// RefreshSummary reports the outcome of one refresh cycle.
type RefreshSummary struct {
	UpdatedCount    int            `json:"updated_count"`
	SkippedCount    int            `json:"skipped_count"`
	Errors          []string       `json:"errors"`
	AlertsTriggered int            `json:"alerts_triggered"`
	HistoryInserted map[string]int `json:"history_inserted"`
	PurgedRows      int64          `json:"purged_rows"`
}

// HistoryResult is the response of a per-instrument history query.
// Synthetic is true when no persisted points existed for the range and
// the series is a generated placeholder; real and synthetic points are
// never mixed.
type HistoryResult struct {
	AssetKey  string                `json:"asset_key"`
	Range     string                `json:"range"`
	Synthetic bool                  `json:"synthetic"`
	Points    []market.HistoryPoint `json:"points"`
}

// MarketService owns the market catalog, price history and the refresh
// cycle.
type MarketService struct {
	fetcher RateFetcher
	history repository.HistoryStore
	assets  repository.AssetStore
	alerts  repository.AlertStore
	logger  *logrus.Logger
	sinks   []CatalogSink
	now     func() time.Time
}

// NewMarketService wires the market service. Sinks are optional
// receivers of refreshed catalogs (websocket hub, Kafka publisher).
func NewMarketService(
	fetcher RateFetcher,
	history repository.HistoryStore,
	assets repository.AssetStore,
	alerts repository.AlertStore,
	logger *logrus.Logger,
	sinks ...CatalogSink,
) *MarketService {
	return &MarketService{
		fetcher: fetcher,
		history: history,
		assets:  assets,
		alerts:  alerts,
		logger:  logger,
		sinks:   sinks,
		now:     time.Now,
	}
}

// Catalog fetches current rates and returns the priced catalog filtered
// by type and search text. Partially failing providers yield a shorter
// catalog, never an error.
func (s *MarketService) Catalog(ctx context.Context, requestedType, searchQuery string) []market.Entry {
	rates := s.fetcher.FetchAll(ctx)
	return market.BuildCatalog(rates, requestedType, searchQuery, s.now().UTC())
}

// History returns stored price points for the instrument and range. When
// no points exist it falls back to a synthetic series anchored at the
// current resolved price.
func (s *MarketService) History(ctx context.Context, assetKey, rangeCode string) (HistoryResult, error) {
	cfg, ok := market.LookupRange(rangeCode)
	if !ok {
		return HistoryResult{}, ErrInvalidRange
	}

	now := s.now().UTC()
	stored, err := s.history.Range(ctx, assetKey, string(cfg.Bucket), now.Add(-cfg.Window))
	if err != nil {
		return HistoryResult{}, fmt.Errorf("query history: %w", err)
	}

	result := HistoryResult{AssetKey: assetKey, Range: cfg.Code}
	if len(stored) > 0 {
		result.Points = make([]market.HistoryPoint, 0, len(stored))
		for _, row := range stored {
			result.Points = append(result.Points, market.HistoryPoint{
				Timestamp: row.Timestamp,
				Price:     row.Price,
			})
		}
		return result, nil
	}

	// No persisted history: synthesize a placeholder curve from the
	// current price so charts are never empty.
	catalog := s.Catalog(ctx, "", "")
	current := 0.0
	if entry, found := market.FindEntry(catalog, assetKey); found {
		current = entry.CurrentPrice
	}
	result.Synthetic = true
	result.Points = market.SyntheticHistory(current, cfg.FallbackCount, cfg.StepMinutes, now)
	return result, nil
}

// RefreshCycle runs one full refresh: fetch rates, update unsold asset
// rows, evaluate price alerts, append history snapshots per bucket, and
// purge expired history. Per-row failures are collected into the
// summary's error list and never abort sibling work; only whole-cycle
// failures (e.g. the database going away) are returned as errors.
func (s *MarketService) RefreshCycle(ctx context.Context) (RefreshSummary, error) {
	summary := RefreshSummary{
		Errors:          []string{},
		HistoryInserted: map[string]int{},
	}

	rates := s.fetcher.FetchAll(ctx)
	if len(rates) == 0 {
		s.logger.Warn("Market refresh skipped: no market prices available from providers")
		summary.Errors = append(summary.Errors, "market_data_unavailable")
		return summary, nil
	}

	now := s.now().UTC()

	if err := s.refreshAssets(ctx, rates, now, &summary); err != nil {
		return summary, err
	}
	s.evaluateAlerts(ctx, rates, now, &summary)
	catalog := market.BuildCatalog(rates, "", "", now)
	s.snapshotHistory(ctx, catalog, now, &summary)
	s.purgeHistory(ctx, now, &summary)

	for _, sink := range s.sinks {
		sink.PublishCatalog(catalog)
	}

	s.logger.Infof("Market refresh completed. updated=%d skipped=%d errors=%d inserted=%v purged=%d",
		summary.UpdatedCount, summary.SkippedCount, len(summary.Errors),
		summary.HistoryInserted, summary.PurgedRows)
	return summary, nil
}

// refreshAssets re-prices every unsold asset row. Failing to list the
// assets is fatal to the cycle; failing to price or persist one row only
// lands in the error list.
func (s *MarketService) refreshAssets(ctx context.Context, rates market.RateTable, now time.Time, summary *RefreshSummary) error {
	assets, err := s.assets.ListUnsold(ctx)
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}

	for _, asset := range assets {
		key := market.Infer(asset.Name, asset.Category)
		price, ok := market.Resolve(key, asset.Currency, rates)
		if !ok || price <= 0 {
			summary.SkippedCount++
			continue
		}
		if err := s.assets.UpdatePrice(ctx, asset.ID, price, now); err != nil {
			summary.SkippedCount++
			summary.Errors = append(summary.Errors, fmt.Sprintf("asset_id=%d: %v", asset.ID, err))
			continue
		}
		summary.UpdatedCount++
	}
	return nil
}

// evaluateAlerts flips active alerts whose condition is met by the
// freshly resolved price.
func (s *MarketService) evaluateAlerts(ctx context.Context, rates market.RateTable, now time.Time, summary *RefreshSummary) {
	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("list alerts: %v", err))
		return
	}

	for _, alert := range alerts {
		key := market.Infer(alert.AssetName, alert.AssetCategory)
		price, ok := market.Resolve(key, alert.Currency, rates)
		if !ok || price <= 0 {
			continue
		}
		if !alertConditionMet(alert.Condition, price, alert.TargetPrice) {
			continue
		}
		if err := s.alerts.MarkTriggered(ctx, alert.ID, now); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("alert_id=%d: %v", alert.ID, err))
			continue
		}
		summary.AlertsTriggered++
	}
}

func alertConditionMet(condition string, price, target float64) bool {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "above":
		return price >= target
	case "below":
		return price <= target
	}
	return false
}

// snapshotHistory appends one history point per (instrument, bucket),
// skipping buckets that already hold a point inside the current window.
// Calling it twice within a window therefore inserts nothing new.
func (s *MarketService) snapshotHistory(ctx context.Context, catalog []market.Entry, now time.Time, summary *RefreshSummary) {
	for _, bucket := range market.Buckets {
		since := now.Add(-bucket.Window())
		for _, entry := range catalog {
			latest, err := s.history.LatestWithin(ctx, entry.AssetKey, string(bucket), since)
			if err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("history %s/%s: %v", entry.AssetKey, bucket, err))
				continue
			}
			if latest != nil {
				continue
			}
			point := &model.PriceHistory{
				AssetKey:       entry.AssetKey,
				AssetName:      entry.Name,
				AssetType:      entry.Type,
				IntervalBucket: string(bucket),
				Price:          entry.CurrentPrice,
				Currency:       entry.Currency,
				Timestamp:      now,
			}
			if err := s.history.Insert(ctx, point); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("history %s/%s: %v", entry.AssetKey, bucket, err))
				continue
			}
			summary.HistoryInserted[string(bucket)]++
		}
	}
}

// purgeHistory removes points older than each bucket's retention.
func (s *MarketService) purgeHistory(ctx context.Context, now time.Time, summary *RefreshSummary) {
	for _, bucket := range market.Buckets {
		deleted, err := s.history.PurgeOlderThan(ctx, string(bucket), now.Add(-bucket.Retention()))
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("purge %s: %v", bucket, err))
			continue
		}
		summary.PurgedRows += deleted
	}
}
