package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/varlik-app/varlik/internal/market"
	"github.com/varlik-app/varlik/internal/model"
	"github.com/varlik-app/varlik/internal/repository"
)

var (
	// ErrUnknownAssetKey marks an asset key outside the catalog templates.
	ErrUnknownAssetKey = errors.New("unknown asset key")

	// ErrAlreadyWatched marks a duplicate watchlist add.
	ErrAlreadyWatched = errors.New("asset already in watchlist")
)

// WatchlistEntry is a watched instrument joined with its current catalog
// pricing when available.
type WatchlistEntry struct {
	AssetKey string        `json:"asset_key"`
	Priced   *market.Entry `json:"market,omitempty"`
}

// WatchlistService manages per-user watchlists against the static
// catalog.
type WatchlistService struct {
	fetcher RateFetcher
	repo    repository.WatchlistRepository
}

func NewWatchlistService(fetcher RateFetcher, repo repository.WatchlistRepository) *WatchlistService {
	return &WatchlistService{fetcher: fetcher, repo: repo}
}

// List returns the user's watchlist with current prices attached where
// the market data allows.
func (s *WatchlistService) List(ctx context.Context, userID string) ([]WatchlistEntry, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	entries := make([]WatchlistEntry, 0, len(items))
	if len(items) == 0 {
		return entries, nil
	}

	catalog := market.BuildCatalog(s.fetcher.FetchAll(ctx), "", "", timeNowUTC())
	for _, item := range items {
		entry := WatchlistEntry{AssetKey: item.AssetKey}
		if priced, ok := market.FindEntry(catalog, item.AssetKey); ok {
			entry.Priced = &priced
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Add puts a catalog instrument on the user's watchlist.
func (s *WatchlistService) Add(ctx context.Context, userID, assetKey string) error {
	if !templateExists(assetKey) {
		return ErrUnknownAssetKey
	}
	watched, err := s.repo.Contains(ctx, userID, assetKey)
	if err != nil {
		return fmt.Errorf("check watchlist: %w", err)
	}
	if watched {
		return ErrAlreadyWatched
	}
	return s.repo.Add(ctx, &model.WatchlistItem{UserID: userID, AssetKey: assetKey})
}

// Remove drops an instrument from the watchlist. Reports whether the
// item existed.
func (s *WatchlistService) Remove(ctx context.Context, userID, assetKey string) (bool, error) {
	return s.repo.Remove(ctx, userID, assetKey)
}

func timeNowUTC() time.Time { return time.Now().UTC() }

func templateExists(assetKey string) bool {
	for _, template := range market.DefaultTemplates {
		if template.AssetKey == assetKey {
			return true
		}
	}
	return false
}
