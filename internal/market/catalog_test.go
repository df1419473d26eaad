package market

import (
	"math"
	"testing"
	"time"
)

func fullRateTable() RateTable {
	return RateTable{
		"USD_TRY":         30.0,
		"EUR_TRY":         33.0,
		"GBP_TRY":         38.0,
		"BTC_USD":         60000.0,
		"ETH_USD":         3000.0,
		"BNB_USD":         500.0,
		"XAU_USD":         2000.0,
		"XAU_TRY":         60000.0,
		"XAU_GRAM_TRY":    1929.0,
		"XAU_QUARTER_TRY": 3375.75,
	}
}

func TestBuildCatalogFull(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := BuildCatalog(fullRateTable(), "", "", now)

	if len(entries) != len(DefaultTemplates) {
		t.Fatalf("Expected %d entries, got %d", len(DefaultTemplates), len(entries))
	}

	btc, ok := FindEntry(entries, "crypto_btc")
	if !ok {
		t.Fatal("crypto_btc missing from catalog")
	}
	if btc.CurrentPrice != 60000.0 {
		t.Errorf("BTC current price = %v, want 60000", btc.CurrentPrice)
	}
	wantPrevious := 60000.0 * 0.997
	if math.Abs(btc.PreviousPrice-wantPrevious) > 1e-9 {
		t.Errorf("BTC previous price = %v, want %v", btc.PreviousPrice, wantPrevious)
	}
	wantChange := (60000.0 - wantPrevious) / wantPrevious * 100
	if math.Abs(btc.ChangePercent-wantChange) > 1e-9 {
		t.Errorf("BTC change = %v, want %v", btc.ChangePercent, wantChange)
	}
	if btc.Symbol != "BTC" || btc.Type != "crypto" || btc.Currency != "USD" {
		t.Errorf("BTC entry metadata wrong: %+v", btc)
	}
	if !btc.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", btc.UpdatedAt, now)
	}

	gram, ok := FindEntry(entries, "gold_gram_try")
	if !ok {
		t.Fatal("gold_gram_try missing from catalog")
	}
	if gram.CurrentPrice != 1929.0 || gram.Symbol != "GAU" {
		t.Errorf("Gram gold entry wrong: %+v", gram)
	}
}

func TestBuildCatalogEmptyRates(t *testing.T) {
	entries := BuildCatalog(RateTable{}, "", "", time.Now())
	if len(entries) != 0 {
		t.Errorf("Expected empty catalog without rates, got %d entries", len(entries))
	}
}

// A template whose price cannot be resolved is skipped while the rest
// of the catalog still prices.
func TestBuildCatalogPartialRates(t *testing.T) {
	rates := RateTable{"USD_TRY": 30.0, "BTC_USD": 60000.0}
	entries := BuildCatalog(rates, "", "", time.Now())

	if _, ok := FindEntry(entries, "crypto_btc"); !ok {
		t.Error("Expected crypto_btc with BTC_USD present")
	}
	if _, ok := FindEntry(entries, "fx_usd_try"); !ok {
		t.Error("Expected fx_usd_try with USD_TRY present")
	}
	if _, ok := FindEntry(entries, "fx_eur_try"); ok {
		t.Error("Did not expect fx_eur_try without EUR_TRY")
	}
	if _, ok := FindEntry(entries, "gold_gram_try"); ok {
		t.Error("Did not expect gold_gram_try without XAU_GRAM_TRY")
	}
}

func TestBuildCatalogFilters(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		requested    string
		search       string
		expectedKeys []string
	}{
		{"Type crypto", "crypto", "", []string{"crypto_btc", "crypto_eth", "crypto_bnb"}},
		{"Type gold", "gold", "", []string{"gold_gram_try", "gold_quarter_try", "gold_ons_try"}},
		{"Search by name", "", "altın", []string{"gold_gram_try", "gold_quarter_try", "gold_ons_try"}},
		{"Search case insensitive", "", "EURO", []string{"fx_eur_try"}},
		{"Search by asset key", "", "crypto_btc", []string{"crypto_btc"}},
		{"Type and search combined", "crypto", "coin", []string{"crypto_btc", "crypto_bnb"}},
		{"No match", "", "palladium", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := BuildCatalog(fullRateTable(), tt.requested, tt.search, now)
			if len(entries) != len(tt.expectedKeys) {
				t.Fatalf("Got %d entries, want %d: %+v", len(entries), len(tt.expectedKeys), entries)
			}
			for _, key := range tt.expectedKeys {
				if _, ok := FindEntry(entries, key); !ok {
					t.Errorf("Expected %s in filtered catalog", key)
				}
			}
		})
	}
}

func TestChangePercentGuardsPrevious(t *testing.T) {
	if got := ChangePercent(100, 0); got != 0 {
		t.Errorf("ChangePercent with zero previous = %v, want 0", got)
	}
	if got := ChangePercent(100, -5); got != 0 {
		t.Errorf("ChangePercent with negative previous = %v, want 0", got)
	}
	if got := ChangePercent(110, 100); math.Abs(got-10) > 1e-9 {
		t.Errorf("ChangePercent(110, 100) = %v, want 10", got)
	}
}
