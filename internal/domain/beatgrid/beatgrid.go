package beatgrid

import (
	"fmt"
	"math"
)

// NoBeatDistance is the alignment distance reported when there is no beat to
// measure against. Kept finite so reports stay JSON-marshalable.
const NoBeatDistance = math.MaxFloat64

// Validate checks that the grid is strictly increasing and non-negative.
func Validate(beatTimes []float64) error {
	if len(beatTimes) > 0 && beatTimes[0] < 0 {
		return fmt.Errorf("beat times must be non-negative: index 0 is %.3f", beatTimes[0])
	}
	for i := 1; i < len(beatTimes); i++ {
		if beatTimes[i] <= beatTimes[i-1] {
			return fmt.Errorf("beat times must be strictly increasing: index %d (%.3f) follows %.3f", i, beatTimes[i], beatTimes[i-1])
		}
	}
	return nil
}

// FrameIndex maps a timestamp in seconds to a whole frame index at fps.
// Rounding is half-up: inputs are non-negative, so math.Round's
// half-away-from-zero is exactly half-up. Downstream alignment checks depend
// on this policy staying fixed.
func FrameIndex(t, fps float64) int {
	return int(math.Round(t * fps))
}

// FrameIndices drops beats before startOffset and maps the rest to frame
// indices relative to startOffset, using the FrameIndex rounding policy.
// The result is non-decreasing and never longer than the input.
func FrameIndices(beatTimes []float64, fps, startOffset float64) ([]int, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be > 0, got %v", fps)
	}
	out := make([]int, 0, len(beatTimes))
	for _, t := range beatTimes {
		if t < startOffset {
			continue
		}
		out = append(out, int(math.Round((t-startOffset)*fps)))
	}
	return out, nil
}

// Nearest returns the index of the beat closest to t and its distance.
// Ties keep the earlier beat. An empty grid yields (-1, NoBeatDistance).
func Nearest(beatTimes []float64, t float64) (int, float64) {
	if len(beatTimes) == 0 {
		return -1, NoBeatDistance
	}
	best := 0
	bestDist := math.Abs(beatTimes[0] - t)
	for i := 1; i < len(beatTimes); i++ {
		d := math.Abs(beatTimes[i] - t)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
