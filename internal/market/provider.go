package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultFXBaseURL       = "https://api.exchangerate.host"
	DefaultFallbackFXURL   = "https://open.er-api.com"
	DefaultCoinGeckoURL    = "https://api.coingecko.com"
	DefaultRequestTimeout  = 15 * time.Second
	DefaultRequestsPerSec  = 4.0
	providerRequestBurst   = 10
)

// Provider fetches spot rates from the external FX, crypto and gold
// services and assembles them into one RateTable. Individual provider
// failures are logged and degrade to absent rates; a fetch never fails
// wholesale because one upstream is down.
type Provider struct {
	FXBaseURL        string
	FallbackFXURL    string
	CoinGeckoBaseURL string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
	timeout    time.Duration
}

// NewProvider creates a Provider with the public endpoints and the given
// per-request timeout. Base URLs are exported fields so tests can point
// them at local servers.
func NewProvider(logger *logrus.Logger, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Provider{
		FXBaseURL:        DefaultFXBaseURL,
		FallbackFXURL:    DefaultFallbackFXURL,
		CoinGeckoBaseURL: DefaultCoinGeckoURL,
		httpClient:       &http.Client{Timeout: timeout},
		limiter:          rate.NewLimiter(rate.Limit(DefaultRequestsPerSec), providerRequestBurst),
		logger:           logger,
		timeout:          timeout,
	}
}

// FetchAll runs one full provider sweep. FX and crypto fetches are
// independent and run concurrently; gold runs after both because it
// needs USD_TRY and the gold-proxy crypto price for its derivations.
func (p *Provider) FetchAll(ctx context.Context) RateTable {
	var (
		wg     sync.WaitGroup
		fx     RateTable
		crypto RateTable
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fx = p.FetchFX(ctx)
	}()
	go func() {
		defer wg.Done()
		crypto = p.FetchCrypto(ctx)
	}()
	wg.Wait()

	rates := make(RateTable, len(fx)+len(crypto)+8)
	rates.Merge(fx)
	rates.Merge(crypto)
	rates.Merge(p.FetchGold(ctx, rates))
	return rates
}

type symbolRatesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchFX queries the primary rate service per fiat pair and falls back
// to the aggregate-rates service for anything still missing. A pair
// already obtained from the primary source is never overwritten.
func (p *Provider) FetchFX(ctx context.Context) RateTable {
	rates := make(RateTable, 3)
	pairs := []struct {
		base, quote, key string
	}{
		{"USD", "TRY", "USD_TRY"},
		{"EUR", "TRY", "EUR_TRY"},
		{"GBP", "TRY", "GBP_TRY"},
	}

	for _, pair := range pairs {
		url := fmt.Sprintf("%s/latest?base=%s&symbols=%s", p.FXBaseURL, pair.base, pair.quote)
		var payload symbolRatesResponse
		if err := p.getJSON(ctx, url, &payload); err != nil {
			p.logger.Warnf("Failed to fetch FX pair %s/%s: %v", pair.base, pair.quote, err)
			continue
		}
		rates.Set(pair.key, payload.Rates[pair.quote])
	}

	if _, ok := rates.Lookup("USD_TRY"); !ok {
		p.fetchFXFallback(ctx, rates)
	}
	return rates
}

// fetchFXFallback fills the missing TRY pairs from a USD-based aggregate
// table, deriving EUR_TRY and GBP_TRY through USD as pivot.
func (p *Provider) fetchFXFallback(ctx context.Context, rates RateTable) {
	var payload symbolRatesResponse
	if err := p.getJSON(ctx, p.FallbackFXURL+"/v6/latest/USD", &payload); err != nil {
		p.logger.Warnf("Fallback FX fetch failed: %v", err)
		return
	}
	usdTRY := payload.Rates["TRY"]
	if !validRate(usdTRY) {
		return
	}
	rates.Set("USD_TRY", usdTRY)
	if usdEUR := payload.Rates["EUR"]; validRate(usdEUR) {
		rates.Set("EUR_TRY", usdTRY/usdEUR)
	}
	if usdGBP := payload.Rates["GBP"]; validRate(usdGBP) {
		rates.Set("GBP_TRY", usdTRY/usdGBP)
	}
}

// FetchCrypto issues a single batched spot-price query for the tracked
// symbol set plus the gold-proxy token. Missing or invalid entries are
// absent from the result, never defaulted to zero.
func (p *Provider) FetchCrypto(ctx context.Context) RateTable {
	ids := make([]string, 0, len(cryptoSymbols)+1)
	for _, symbol := range cryptoSymbols {
		ids = append(ids, coingeckoIDs[symbol])
	}
	ids = append(ids, goldProxyID)

	url := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd",
		p.CoinGeckoBaseURL, strings.Join(ids, ","))

	var payload map[string]map[string]float64
	if err := p.getJSON(ctx, url, &payload); err != nil {
		p.logger.Warnf("Failed to fetch crypto prices from CoinGecko: %v", err)
		return RateTable{}
	}

	rates := make(RateTable, len(cryptoSymbols)+1)
	for _, symbol := range cryptoSymbols {
		rates.Set(string(symbol)+"_USD", payload[coingeckoIDs[symbol]]["usd"])
	}
	rates.Set("XAU_USD", payload[goldProxyID]["usd"])
	return rates
}

// FetchGold resolves XAU/USD and derives the TRY-quoted gold rates. The
// gold-proxy price already present in rates wins over the primary gold
// service, which is only consulted when the proxy is missing. Gram and
// quarter-coin rates require both XAU/USD and USD/TRY.
func (p *Provider) FetchGold(ctx context.Context, rates RateTable) RateTable {
	updates := make(RateTable, 4)
	if existing, ok := rates.Lookup("XAU_USD"); ok {
		updates.Set("XAU_USD", existing)
	}

	if _, ok := updates.Lookup("XAU_USD"); !ok {
		var payload symbolRatesResponse
		url := p.FXBaseURL + "/latest?base=XAU&symbols=USD"
		if err := p.getJSON(ctx, url, &payload); err != nil {
			p.logger.Warnf("Failed to fetch XAU/USD: %v", err)
		} else {
			updates.Set("XAU_USD", payload.Rates["USD"])
		}
	}

	usdTRY, okTRY := rates.Lookup("USD_TRY")
	xauUSD, okXAU := updates.Lookup("XAU_USD")
	if okTRY && okXAU {
		xauTRY := xauUSD * usdTRY
		gramTRY := xauTRY / GramsPerTroyOunce
		updates.Set("XAU_TRY", xauTRY)
		updates.Set("XAU_GRAM_TRY", gramTRY)
		updates.Set("XAU_QUARTER_TRY", gramTRY*QuarterCoinGramFactor)
	}
	return updates
}

// getJSON performs one rate-limited, timeout-bounded GET and decodes the
// JSON body into out. Non-200 responses are errors.
func (p *Provider) getJSON(ctx context.Context, url string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
