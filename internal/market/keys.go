// Package market implements the price resolution and aggregation engine:
// fetching rates from external providers, normalizing them into a single
// rate table, inferring canonical instrument keys from free-text asset
// names, and resolving prices in a requested display currency.
package market

// Key is a canonical instrument identifier from a closed vocabulary,
// distinct from free-text display names.
type Key string

const (
	KeyUSD Key = "USD"
	KeyEUR Key = "EUR"
	KeyGBP Key = "GBP"

	KeyBTC Key = "BTC"
	KeyETH Key = "ETH"
	KeyBNB Key = "BNB"
	KeyXRP Key = "XRP"
	KeyADA Key = "ADA"
	KeySOL Key = "SOL"

	KeyXAUOunce   Key = "XAU_OZ"
	KeyXAUGram    Key = "XAU_GRAM"
	KeyXAUQuarter Key = "XAU_QUARTER"

	// KeyUnknown is the unresolved sentinel: no canonical instrument
	// could be inferred and no price can be resolved.
	KeyUnknown Key = ""
)

const (
	// GramsPerTroyOunce converts XAU spot (quoted per troy ounce) to grams.
	GramsPerTroyOunce = 31.1034768

	// QuarterCoinGramFactor approximates the gram weight priced into a
	// quarter gold coin on the local market.
	QuarterCoinGramFactor = 1.75
)

// cryptoSymbols lists tracked crypto instruments in request order. The
// order is fixed so batched provider queries stay deterministic.
var cryptoSymbols = []Key{KeyBTC, KeyETH, KeyBNB, KeyXRP, KeyADA, KeySOL}

// coingeckoIDs maps canonical crypto keys to CoinGecko coin ids.
var coingeckoIDs = map[Key]string{
	KeyBTC: "bitcoin",
	KeyETH: "ethereum",
	KeyBNB: "binancecoin",
	KeyXRP: "ripple",
	KeyADA: "cardano",
	KeySOL: "solana",
}

// goldProxyID is the CoinGecko id of the token used as a gold spot proxy
// when no direct XAU/USD quote is available.
const goldProxyID = "pax-gold"

// IsCrypto reports whether k is one of the tracked crypto instruments.
func IsCrypto(k Key) bool {
	_, ok := coingeckoIDs[k]
	return ok
}

// Symbol returns the display symbol used in API responses.
func Symbol(k Key) string {
	switch k {
	case KeyUSD, KeyEUR, KeyGBP:
		return string(k) + "/TRY"
	case KeyXAUOunce:
		return "XAU"
	case KeyXAUGram:
		return "GAU"
	case KeyXAUQuarter:
		return "QAU"
	default:
		return string(k)
	}
}
