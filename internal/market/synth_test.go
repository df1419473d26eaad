package market

import (
	"math"
	"testing"
	"time"
)

func TestSyntheticHistoryShape(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	points := SyntheticHistory(100.0, 60, 5, now)

	if len(points) != 60 {
		t.Fatalf("Expected 60 points, got %d", len(points))
	}

	// Timestamps step backwards 5 minutes apart, oldest first.
	for i := 1; i < len(points); i++ {
		gap := points[i].Timestamp.Sub(points[i-1].Timestamp)
		if gap != 5*time.Minute {
			t.Fatalf("Gap between %d and %d = %v, want 5m", i-1, i, gap)
		}
	}
	last := points[len(points)-1]
	if !last.Timestamp.Equal(now.Add(-5 * time.Minute)) {
		t.Errorf("Last timestamp = %v, want %v", last.Timestamp, now.Add(-5*time.Minute))
	}

	// For idx=59 of 60: base = 100*(1-1*0.0005), drift = 1+(59%5-2)*0.003.
	wantLast := 100.0 * (1 - 0.0005) * (1 + 2*0.003)
	if math.Abs(last.Price-wantLast) > 1e-9 {
		t.Errorf("Last price = %v, want %v", last.Price, wantLast)
	}

	for i, p := range points {
		if p.Price <= 0 {
			t.Errorf("Point %d has non-positive price %v", i, p.Price)
		}
	}
}

func TestSyntheticHistoryDeterministic(t *testing.T) {
	now := time.Now()
	a := SyntheticHistory(1929.0, 90, 240, now)
	b := SyntheticHistory(1929.0, 90, 240, now)
	if len(a) != len(b) {
		t.Fatalf("Lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSyntheticHistoryFloor(t *testing.T) {
	points := SyntheticHistory(0.0001, 60, 5, time.Now())
	for i, p := range points {
		if p.Price < 0.0001 {
			t.Errorf("Point %d below price floor: %v", i, p.Price)
		}
	}
}

func TestSyntheticHistoryInvalidInput(t *testing.T) {
	if got := SyntheticHistory(0, 60, 5, time.Now()); got != nil {
		t.Errorf("Expected nil for zero price, got %d points", len(got))
	}
	if got := SyntheticHistory(-10, 60, 5, time.Now()); got != nil {
		t.Errorf("Expected nil for negative price, got %d points", len(got))
	}
	if got := SyntheticHistory(100, 0, 5, time.Now()); got != nil {
		t.Errorf("Expected nil for zero points, got %d points", len(got))
	}
}

func TestLookupRange(t *testing.T) {
	tests := []struct {
		code          string
		window        time.Duration
		bucket        Bucket
		stepMinutes   int
		fallbackCount int
	}{
		{"1D", 24 * time.Hour, Bucket5m, 5, 60},
		{"1W", 7 * 24 * time.Hour, Bucket30m, 30, 60},
		{"1M", 30 * 24 * time.Hour, Bucket4h, 240, 90},
		{"3M", 90 * 24 * time.Hour, Bucket1d, 1440, 90},
		{"1Y", 365 * 24 * time.Hour, Bucket1d, 1440, 90},
		{"1y", 365 * 24 * time.Hour, Bucket1d, 1440, 90},
		{"1d", 24 * time.Hour, Bucket5m, 5, 60},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			cfg, ok := LookupRange(tt.code)
			if !ok {
				t.Fatalf("LookupRange(%q) not found", tt.code)
			}
			if cfg.Window != tt.window || cfg.Bucket != tt.bucket ||
				cfg.StepMinutes != tt.stepMinutes || cfg.FallbackCount != tt.fallbackCount {
				t.Errorf("LookupRange(%q) = %+v", tt.code, cfg)
			}
		})
	}

	for _, bad := range []string{"", "2D", "5Y", "1 D", "day"} {
		if _, ok := LookupRange(bad); ok {
			t.Errorf("LookupRange(%q) unexpectedly resolved", bad)
		}
	}
}

func TestBucketWindowsAndRetention(t *testing.T) {
	tests := []struct {
		bucket    Bucket
		window    time.Duration
		retention time.Duration
	}{
		{Bucket5m, 5 * time.Minute, 2 * 24 * time.Hour},
		{Bucket30m, 30 * time.Minute, 14 * 24 * time.Hour},
		{Bucket4h, 4 * time.Hour, 120 * 24 * time.Hour},
		{Bucket1d, 24 * time.Hour, 540 * 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := tt.bucket.Window(); got != tt.window {
			t.Errorf("%s window = %v, want %v", tt.bucket, got, tt.window)
		}
		if got := tt.bucket.Retention(); got != tt.retention {
			t.Errorf("%s retention = %v, want %v", tt.bucket, got, tt.retention)
		}
	}
}
