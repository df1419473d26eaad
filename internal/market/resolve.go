package market

import "strings"

// Resolve converts the instrument identified by key into the requested
// display currency using the given rate table. The boolean result is
// false when any required cross-rate is missing: an unavailable price is
// a legitimate terminal state, never zero and never a panic. Callers must
// skip the instrument when ok is false.
func Resolve(key Key, targetCurrency string, rates RateTable) (float64, bool) {
	target := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if target == "" {
		target = "TRY"
	}

	if IsCrypto(key) {
		usd, ok := rates.Lookup(string(key) + "_USD")
		if !ok {
			return 0, false
		}
		return convertFromUSD(usd, target, rates)
	}

	switch key {
	case KeyUSD:
		return convertFromUSD(1.0, target, rates)
	case KeyEUR:
		eurTRY, ok := rates.Lookup("EUR_TRY")
		if !ok {
			return 0, false
		}
		return convertFromTRY(eurTRY, target, rates)
	case KeyGBP:
		gbpTRY, ok := rates.Lookup("GBP_TRY")
		if !ok {
			return 0, false
		}
		return convertFromTRY(gbpTRY, target, rates)
	case KeyXAUOunce:
		xauUSD, ok := rates.Lookup("XAU_USD")
		if !ok {
			return 0, false
		}
		return convertFromUSD(xauUSD, target, rates)
	case KeyXAUGram:
		gramTRY, ok := rates.Lookup("XAU_GRAM_TRY")
		if !ok {
			return 0, false
		}
		return convertFromTRY(gramTRY, target, rates)
	case KeyXAUQuarter:
		quarterTRY, ok := rates.Lookup("XAU_QUARTER_TRY")
		if !ok {
			return 0, false
		}
		return convertFromTRY(quarterTRY, target, rates)
	}

	return 0, false
}

// convertFromUSD converts an amount quoted in USD into target. EUR and
// GBP have no direct USD cross-rate in the table, so the conversion
// pivots through TRY and needs both TRY rates present.
func convertFromUSD(amountUSD float64, target string, rates RateTable) (float64, bool) {
	if !validRate(amountUSD) {
		return 0, false
	}
	switch target {
	case "USD":
		return amountUSD, true
	case "TRY":
		usdTRY, ok := rates.Lookup("USD_TRY")
		if !ok {
			return 0, false
		}
		return amountUSD * usdTRY, true
	case "EUR", "GBP":
		crossTRY, ok := rates.Lookup(target + "_TRY")
		if !ok {
			return 0, false
		}
		usdTRY, ok := rates.Lookup("USD_TRY")
		if !ok {
			return 0, false
		}
		return amountUSD * usdTRY / crossTRY, true
	}
	return 0, false
}

// convertFromTRY converts an amount quoted in TRY into target via the
// corresponding TRY cross-rate.
func convertFromTRY(amountTRY float64, target string, rates RateTable) (float64, bool) {
	if !validRate(amountTRY) {
		return 0, false
	}
	if target == "TRY" {
		return amountTRY, true
	}
	switch target {
	case "USD", "EUR", "GBP":
		crossTRY, ok := rates.Lookup(target + "_TRY")
		if !ok {
			return 0, false
		}
		return amountTRY / crossTRY, true
	}
	return 0, false
}
