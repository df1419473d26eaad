package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/varlik-app/varlik/internal/market"
	"github.com/varlik-app/varlik/internal/model"
)

type fakePositionStore struct {
	positions []model.PortfolioPosition
	err       error
}

func (f *fakePositionStore) ListByUser(ctx context.Context, userID string) ([]model.PortfolioPosition, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.PortfolioPosition
	for _, p := range f.positions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSettingsStore struct {
	currency map[string]string
}

func (f *fakeSettingsStore) BaseCurrency(ctx context.Context, userID string) (string, error) {
	if c, ok := f.currency[userID]; ok {
		return c, nil
	}
	return "TRY", nil
}

func TestPortfolioSummaryValuation(t *testing.T) {
	positions := &fakePositionStore{positions: []model.PortfolioPosition{
		{UserID: "u1", AssetName: "Dolar", AssetType: "currency", Quantity: 100, AvgCost: 28},
		{UserID: "u1", AssetName: "Gram Altın", AssetType: "gold", Quantity: 10, AvgCost: 1800},
		{UserID: "u1", AssetName: "Bitcoin", AssetType: "crypto", Quantity: 0.5, AvgCost: 1500000},
		{UserID: "u2", AssetName: "Euro", AssetType: "currency", Quantity: 50, AvgCost: 30},
	}}
	svc := NewPortfolioService(&fakeFetcher{rates: testRates()}, positions, &fakeSettingsStore{})
	svc.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.Currency != "TRY" {
		t.Errorf("Currency = %s, want TRY default", summary.Currency)
	}
	if summary.PositionCount != 3 || summary.PricedCount != 3 {
		t.Errorf("Counts = %d/%d, want 3/3", summary.PositionCount, summary.PricedCount)
	}

	wantCurrency := 100 * 30.0
	wantGold := 10 * 1929.0
	wantCrypto := 0.5 * 60000.0 * 30.0
	if math.Abs(summary.ValuesByType["currency"]-wantCurrency) > 1e-9 {
		t.Errorf("currency value = %v, want %v", summary.ValuesByType["currency"], wantCurrency)
	}
	if math.Abs(summary.ValuesByType["gold"]-wantGold) > 1e-9 {
		t.Errorf("gold value = %v, want %v", summary.ValuesByType["gold"], wantGold)
	}
	if math.Abs(summary.ValuesByType["crypto"]-wantCrypto) > 1e-9 {
		t.Errorf("crypto value = %v, want %v", summary.ValuesByType["crypto"], wantCrypto)
	}
	if math.Abs(summary.TotalValue-(wantCurrency+wantGold+wantCrypto)) > 1e-9 {
		t.Errorf("TotalValue = %v", summary.TotalValue)
	}
	wantCost := 100*28.0 + 10*1800.0 + 0.5*1500000.0
	if math.Abs(summary.TotalCost-wantCost) > 1e-9 {
		t.Errorf("TotalCost = %v, want %v", summary.TotalCost, wantCost)
	}
}

// Missing market data for one position still values the rest.
func TestPortfolioSummaryPartialData(t *testing.T) {
	positions := &fakePositionStore{positions: []model.PortfolioPosition{
		{UserID: "u1", AssetName: "Dolar", AssetType: "currency", Quantity: 100, AvgCost: 28},
		{UserID: "u1", AssetName: "Bitcoin", AssetType: "crypto", Quantity: 1, AvgCost: 1500000},
	}}
	rates := &fakeFetcher{rates: market.RateTable{"USD_TRY": 30.0}}
	svc := NewPortfolioService(rates, positions, &fakeSettingsStore{})

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.PositionCount != 2 || summary.PricedCount != 1 {
		t.Errorf("Counts = %d/%d, want 2/1", summary.PositionCount, summary.PricedCount)
	}
	if summary.TotalValue != 3000.0 {
		t.Errorf("TotalValue = %v, want 3000", summary.TotalValue)
	}
	// Cost still sums over every position, priced or not.
	if summary.TotalCost != 100*28.0+1500000.0 {
		t.Errorf("TotalCost = %v", summary.TotalCost)
	}
}

func TestPortfolioSummaryBaseCurrency(t *testing.T) {
	positions := &fakePositionStore{positions: []model.PortfolioPosition{
		{UserID: "u1", AssetName: "Bitcoin", AssetType: "crypto", Quantity: 1, AvgCost: 50000},
	}}
	settings := &fakeSettingsStore{currency: map[string]string{"u1": "USD"}}
	svc := NewPortfolioService(&fakeFetcher{rates: testRates()}, positions, settings)

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.Currency != "USD" {
		t.Errorf("Currency = %s, want USD", summary.Currency)
	}
	if summary.TotalValue != 60000.0 {
		t.Errorf("TotalValue = %v, want 60000 USD", summary.TotalValue)
	}
}

func TestPortfolioSummaryEmpty(t *testing.T) {
	fetchCalls := 0
	fetcher := &countingFetcher{calls: &fetchCalls}
	svc := NewPortfolioService(fetcher, &fakePositionStore{}, &fakeSettingsStore{})

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.PositionCount != 0 || summary.TotalValue != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
	if fetchCalls != 0 {
		t.Errorf("Rates fetched %d times for an empty portfolio", fetchCalls)
	}
}

func TestPortfolioSummaryStoreError(t *testing.T) {
	positions := &fakePositionStore{err: errors.New("connection refused")}
	svc := NewPortfolioService(&fakeFetcher{rates: testRates()}, positions, &fakeSettingsStore{})

	if _, err := svc.Summary(context.Background(), "u1"); err == nil {
		t.Fatal("Expected error when position listing fails")
	}
}

type countingFetcher struct {
	calls *int
}

func (c *countingFetcher) FetchAll(ctx context.Context) market.RateTable {
	*c.calls++
	return market.RateTable{}
}
