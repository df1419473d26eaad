package market

import "math"

// RateTable maps canonical rate keys (e.g. "USD_TRY", "BTC_USD",
// "XAU_GRAM_TRY") to positive rates. It is rebuilt from scratch on every
// refresh cycle and never persisted. Absence of a key means the rate is
// unknown; zero or negative values are rejected at insertion so a lookup
// can never observe them.
type RateTable map[string]float64

// Set stores a rate if it is a valid positive finite number. Invalid
// values are dropped silently: an unknown rate must stay absent, never
// become zero.
func (t RateTable) Set(key string, rate float64) {
	if !validRate(rate) {
		return
	}
	t[key] = rate
}

// Lookup returns the rate for key and whether it is known.
func (t RateTable) Lookup(key string) (float64, bool) {
	rate, ok := t[key]
	return rate, ok
}

// Merge copies all entries of src into t. Producers write disjoint key
// namespaces, so an existing valid entry is never clobbered; if a key
// collides anyway the earlier value wins.
func (t RateTable) Merge(src RateTable) {
	for key, rate := range src {
		if _, exists := t[key]; exists {
			continue
		}
		t.Set(key, rate)
	}
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 1) && !math.IsNaN(rate)
}
