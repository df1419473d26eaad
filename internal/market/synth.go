package market

import "time"

// Bucket is a fixed historical sampling granularity with its own
// dedup window and retention horizon.
type Bucket string

const (
	Bucket5m  Bucket = "5m"
	Bucket30m Bucket = "30m"
	Bucket4h  Bucket = "4h"
	Bucket1d  Bucket = "1d"
)

// Buckets lists all history buckets in ascending width order.
var Buckets = []Bucket{Bucket5m, Bucket30m, Bucket4h, Bucket1d}

// Window returns the dedup window of the bucket: at most one history
// point is stored per instrument per window.
func (b Bucket) Window() time.Duration {
	switch b {
	case Bucket5m:
		return 5 * time.Minute
	case Bucket30m:
		return 30 * time.Minute
	case Bucket4h:
		return 4 * time.Hour
	case Bucket1d:
		return 24 * time.Hour
	}
	return 5 * time.Minute
}

// Retention returns how long points of the bucket are kept before the
// purge removes them.
func (b Bucket) Retention() time.Duration {
	switch b {
	case Bucket5m:
		return 2 * 24 * time.Hour
	case Bucket30m:
		return 14 * 24 * time.Hour
	case Bucket4h:
		return 120 * 24 * time.Hour
	case Bucket1d:
		return 540 * 24 * time.Hour
	}
	return 2 * 24 * time.Hour
}

// RangeConfig describes one history range code: the lookback window, the
// storage bucket queried, and the shape of the synthetic fallback series
// generated when no persisted history exists.
type RangeConfig struct {
	Code          string
	Window        time.Duration
	Bucket        Bucket
	StepMinutes   int
	FallbackCount int
}

var rangeConfigs = map[string]RangeConfig{
	"1D": {Code: "1D", Window: 24 * time.Hour, Bucket: Bucket5m, StepMinutes: 5, FallbackCount: 60},
	"1W": {Code: "1W", Window: 7 * 24 * time.Hour, Bucket: Bucket30m, StepMinutes: 30, FallbackCount: 60},
	"1M": {Code: "1M", Window: 30 * 24 * time.Hour, Bucket: Bucket4h, StepMinutes: 240, FallbackCount: 90},
	"3M": {Code: "3M", Window: 90 * 24 * time.Hour, Bucket: Bucket1d, StepMinutes: 1440, FallbackCount: 90},
	"1Y": {Code: "1Y", Window: 365 * 24 * time.Hour, Bucket: Bucket1d, StepMinutes: 1440, FallbackCount: 90},
}

// LookupRange resolves a client range code (1D, 1W, 1M, 3M, 1Y). Unknown
// codes return ok=false and must map to a client error.
func LookupRange(code string) (RangeConfig, bool) {
	cfg, ok := rangeConfigs[normalizeRangeCode(code)]
	return cfg, ok
}

func normalizeRangeCode(code string) string {
	out := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// HistoryPoint is one timestamped price, either read from storage or
// synthesized.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

const (
	syntheticDecayPerStep = 0.0005
	syntheticVolatility   = 0.003
	syntheticPriceFloor   = 0.0001
)

// SyntheticHistory generates a deterministic fallback series anchored at
// currentPrice for the most recent point: a slow decay going back in
// time with a saw-toothed oscillation on top. It is a chart placeholder
// used only when no persisted history exists for the requested range,
// and must never be mixed with real points in one response.
func SyntheticHistory(currentPrice float64, points, stepMinutes int, now time.Time) []HistoryPoint {
	if currentPrice <= 0 || points <= 0 {
		return nil
	}
	history := make([]HistoryPoint, 0, points)
	for idx := 0; idx < points; idx++ {
		driftFactor := 1.0 + float64((idx%5)-2)*syntheticVolatility
		base := currentPrice * (1 - float64(points-idx)*syntheticDecayPerStep)
		price := base * driftFactor
		if price < syntheticPriceFloor {
			price = syntheticPriceFloor
		}
		history = append(history, HistoryPoint{
			Timestamp: now.Add(-time.Duration(stepMinutes*(points-idx)) * time.Minute),
			Price:     price,
		})
	}
	return history
}
