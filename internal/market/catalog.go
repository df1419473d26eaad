package market

import (
	"strings"
	"time"
)

// Template is a fixed catalog entry for a tracked market instrument.
// Static configuration, not user data.
type Template struct {
	AssetKey string
	Name     string
	Category string
	Currency string
}

// DefaultTemplates is the catalog of instruments shown on the market
// screen. Names are the Turkish display names the inference rules are
// built for.
var DefaultTemplates = []Template{
	{AssetKey: "fx_usd_try", Name: "Dolar", Category: "currency", Currency: "TRY"},
	{AssetKey: "fx_eur_try", Name: "Euro", Category: "currency", Currency: "TRY"},
	{AssetKey: "fx_gbp_try", Name: "Sterlin", Category: "currency", Currency: "TRY"},
	{AssetKey: "gold_gram_try", Name: "Gram Altın", Category: "gold", Currency: "TRY"},
	{AssetKey: "gold_quarter_try", Name: "Çeyrek Altın", Category: "gold", Currency: "TRY"},
	{AssetKey: "gold_ons_try", Name: "ONS Altın", Category: "gold", Currency: "TRY"},
	{AssetKey: "crypto_btc", Name: "Bitcoin", Category: "crypto", Currency: "USD"},
	{AssetKey: "crypto_eth", Name: "Ethereum", Category: "crypto", Currency: "USD"},
	{AssetKey: "crypto_bnb", Name: "Binance Coin", Category: "crypto", Currency: "USD"},
}

// PreviousPriceFactor produces the synthetic previous price shown next
// to the current one. Presentation placeholder, not a pricing model.
const PreviousPriceFactor = 0.997

// Entry is one priced catalog row, constructed per refresh cycle and
// never persisted directly.
type Entry struct {
	AssetKey      string    `json:"asset_key"`
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	Type          string    `json:"type"`
	CurrentPrice  float64   `json:"current_price"`
	PreviousPrice float64   `json:"previous_price"`
	ChangePercent float64   `json:"change_percent"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ChangePercent computes the percent change between two prices,
// returning 0 when the previous price is not positive.
func ChangePercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// BuildCatalog resolves the template list against a rate table and
// returns the priced entries. The type filter and case-insensitive
// search are applied before resolution so filtered-out templates cost
// nothing. Templates whose price is unavailable are skipped; an empty
// rate table therefore yields an empty catalog, not an error.
func BuildCatalog(rates RateTable, requestedType, searchQuery string, now time.Time) []Entry {
	requested := strings.ToLower(strings.TrimSpace(requestedType))
	search := strings.ToLower(strings.TrimSpace(searchQuery))

	entries := make([]Entry, 0, len(DefaultTemplates))
	for _, template := range DefaultTemplates {
		entryType := CategoryGroup(template.Category)
		if requested != "" && requested != entryType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(template.Name), search) &&
			!strings.Contains(template.AssetKey, search) {
			continue
		}

		key := Infer(template.Name, template.Category)
		current, ok := Resolve(key, template.Currency, rates)
		if !ok || current <= 0 {
			continue
		}

		previous := current * PreviousPriceFactor
		entries = append(entries, Entry{
			AssetKey:      template.AssetKey,
			Name:          template.Name,
			Symbol:        Symbol(key),
			Type:          entryType,
			CurrentPrice:  current,
			PreviousPrice: previous,
			ChangePercent: ChangePercent(current, previous),
			Currency:      template.Currency,
			UpdatedAt:     now,
		})
	}
	return entries
}

// FindEntry returns the catalog entry with the given asset key, if present.
func FindEntry(entries []Entry, assetKey string) (Entry, bool) {
	for _, entry := range entries {
		if entry.AssetKey == assetKey {
			return entry, true
		}
	}
	return Entry{}, false
}
