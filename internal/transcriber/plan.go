package transcriber

import (
	"math"

	"github.com/nguyentantai21042004/video-secretary/internal/media"
)

// SafetyMargin is the share of the ceiling chunk sizes are computed against,
// leaving room for re-encoding overhead.
const SafetyMargin = 0.95

// Interval is a half-open time range [Start, End) in milliseconds.
type Interval struct {
	Start int64
	End   int64
}

func (i Interval) Duration() int64 {
	return i.End - i.Start
}

// Plan is the split decision for one asset.
type Plan struct {
	// Whole is true when the asset fits under the ceiling and is sent as is.
	Whole           bool
	NumChunks       int
	ChunkDurationMs int64
	// Intervals are the chunks to export, in start order.
	Intervals []Interval
	// Dropped counts intervals shorter than the minimum chunk duration.
	Dropped int
}

// NewPlan decides how an asset is cut. The number of chunks follows from the
// byte size, the boundaries from dividing the duration evenly, which assumes
// a roughly constant bitrate.
func NewPlan(asset media.Asset, ceilingBytes, minChunkMs int64) Plan {
	if asset.SizeBytes <= ceilingBytes {
		return Plan{
			Whole:           true,
			NumChunks:       1,
			ChunkDurationMs: asset.DurationMs,
			Intervals:       []Interval{{Start: 0, End: asset.DurationMs}},
		}
	}

	numChunks := int(math.Ceil(float64(asset.SizeBytes) / (float64(ceilingBytes) * SafetyMargin)))
	step := asset.DurationMs / int64(numChunks)
	if step < 1 {
		step = 1
	}

	plan := Plan{NumChunks: numChunks, ChunkDurationMs: step}
	for start := int64(0); start < asset.DurationMs; start += step {
		end := min(start+step, asset.DurationMs)
		if end-start < minChunkMs {
			plan.Dropped++
			continue
		}
		plan.Intervals = append(plan.Intervals, Interval{Start: start, End: end})
	}

	return plan
}
