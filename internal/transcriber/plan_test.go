package transcriber

import (
	"math/rand"
	"testing"

	"github.com/nguyentantai21042004/video-secretary/internal/media"
)

const mb = 1024 * 1024

func TestNewPlanExamples(t *testing.T) {
	tests := []struct {
		name          string
		asset         media.Asset
		ceiling       int64
		minChunk      int64
		wantWhole     bool
		wantNum       int
		wantStep      int64
		wantIntervals []Interval
	}{
		{
			name:      "hundred megabytes into five chunks",
			asset:     media.Asset{DurationMs: 1_000_000, SizeBytes: 100 * mb},
			ceiling:   25 * mb,
			minChunk:  100,
			wantNum:   5,
			wantStep:  200_000,
			wantIntervals: []Interval{
				{0, 200_000}, {200_000, 400_000}, {400_000, 600_000}, {600_000, 800_000}, {800_000, 1_000_000},
			},
		},
		{
			name:          "small file is sent whole",
			asset:         media.Asset{DurationMs: 50, SizeBytes: 1024},
			ceiling:       25 * mb,
			minChunk:      100,
			wantWhole:     true,
			wantNum:       1,
			wantStep:      50,
			wantIntervals: []Interval{{0, 50}},
		},
		{
			name:          "exactly at the ceiling is not split",
			asset:         media.Asset{DurationMs: 60_000, SizeBytes: 25 * mb},
			ceiling:       25 * mb,
			minChunk:      100,
			wantWhole:     true,
			wantNum:       1,
			wantStep:      60_000,
			wantIntervals: []Interval{{0, 60_000}},
		},
		{
			name:      "safety margin adds a chunk",
			asset:     media.Asset{DurationMs: 30_000, SizeBytes: 50 * mb},
			ceiling:   25 * mb,
			minChunk:  100,
			wantNum:   3,
			wantStep:  10_000,
			wantIntervals: []Interval{
				{0, 10_000}, {10_000, 20_000}, {20_000, 30_000},
			},
		},
		{
			name:      "duration divides evenly",
			asset:     media.Asset{DurationMs: 1_002, SizeBytes: 60 * mb},
			ceiling:   25 * mb,
			minChunk:  100,
			wantNum:   3,
			wantStep:  334,
			wantIntervals: []Interval{
				{0, 334}, {334, 668}, {668, 1_002},
			},
		},
		{
			name:      "remainder sliver below the floor",
			asset:     media.Asset{DurationMs: 1_000, SizeBytes: 60 * mb},
			ceiling:   25 * mb,
			minChunk:  100,
			wantNum:   3,
			wantStep:  333,
			wantIntervals: []Interval{
				{0, 333}, {333, 666}, {666, 999},
			},
		},
		{
			name:     "floor above every chunk",
			asset:    media.Asset{DurationMs: 1_000, SizeBytes: 100 * mb},
			ceiling:  25 * mb,
			minChunk: 500,
			wantNum:  5,
			wantStep: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewPlan(tt.asset, tt.ceiling, tt.minChunk)
			if plan.Whole != tt.wantWhole {
				t.Errorf("Whole = %v, want %v", plan.Whole, tt.wantWhole)
			}
			if plan.NumChunks != tt.wantNum {
				t.Errorf("NumChunks = %d, want %d", plan.NumChunks, tt.wantNum)
			}
			if plan.ChunkDurationMs != tt.wantStep {
				t.Errorf("ChunkDurationMs = %d, want %d", plan.ChunkDurationMs, tt.wantStep)
			}
			if len(plan.Intervals) != len(tt.wantIntervals) {
				t.Fatalf("Intervals = %v, want %v", plan.Intervals, tt.wantIntervals)
			}
			for i := range tt.wantIntervals {
				if plan.Intervals[i] != tt.wantIntervals[i] {
					t.Errorf("Intervals[%d] = %v, want %v", i, plan.Intervals[i], tt.wantIntervals[i])
				}
			}
		})
	}
}

func TestNewPlanDroppedCount(t *testing.T) {
	plan := NewPlan(media.Asset{DurationMs: 1_000, SizeBytes: 60 * mb}, 25*mb, 100)
	if plan.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1 (the 1 ms tail)", plan.Dropped)
	}

	plan = NewPlan(media.Asset{DurationMs: 1_000, SizeBytes: 100 * mb}, 25*mb, 500)
	if plan.Dropped != 5 || len(plan.Intervals) != 0 {
		t.Errorf("Dropped = %d, Intervals = %v; want all 5 dropped", plan.Dropped, plan.Intervals)
	}
}

func TestNewPlanTinyDurationDoesNotLoop(t *testing.T) {
	plan := NewPlan(media.Asset{DurationMs: 3, SizeBytes: 1000 * mb}, 1*mb, 1)
	if plan.ChunkDurationMs != 1 {
		t.Errorf("ChunkDurationMs = %d, want 1", plan.ChunkDurationMs)
	}
	if len(plan.Intervals) != 3 {
		t.Errorf("Intervals = %v, want three 1 ms chunks", plan.Intervals)
	}
}

func TestNewPlanProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 2000; n++ {
		asset := media.Asset{
			DurationMs: rng.Int63n(10_000_000) + 1,
			SizeBytes:  rng.Int63n(500*mb) + 1,
		}
		ceiling := rng.Int63n(50*mb) + 1
		minChunk := rng.Int63n(5_000) + 1

		plan := NewPlan(asset, ceiling, minChunk)

		if asset.SizeBytes <= ceiling {
			if !plan.Whole || len(plan.Intervals) != 1 || plan.Intervals[0] != (Interval{0, asset.DurationMs}) {
				t.Fatalf("asset %+v ceiling %d: want single full-length chunk, got %+v", asset, ceiling, plan)
			}
			continue
		}

		if plan.Whole {
			t.Fatalf("asset %+v ceiling %d: oversized asset planned whole", asset, ceiling)
		}

		var sum, prevEnd int64
		for i, iv := range plan.Intervals {
			if iv.Duration() <= 0 {
				t.Fatalf("interval %d %v has non-positive duration", i, iv)
			}
			if iv.Duration() < minChunk {
				t.Fatalf("interval %d %v shorter than floor %d", i, iv, minChunk)
			}
			if iv.Start < prevEnd {
				t.Fatalf("interval %d %v overlaps previous end %d", i, iv, prevEnd)
			}
			if iv.Start < 0 || iv.End > asset.DurationMs {
				t.Fatalf("interval %d %v outside [0, %d)", i, iv, asset.DurationMs)
			}
			prevEnd = iv.End
			sum += iv.Duration()
		}
		if sum > asset.DurationMs {
			t.Fatalf("chunk durations sum to %d, more than %d", sum, asset.DurationMs)
		}
		if plan.Dropped == 0 && sum != asset.DurationMs {
			t.Fatalf("no chunk dropped but coverage is %d of %d", sum, asset.DurationMs)
		}
	}
}
