package boundary

import (
	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/beatgrid"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

const DefaultToleranceSec = 0.05

// Verify measures every internal transition (the end of each boundary except
// the last) against the nearest beat. It mutates nothing: the same report
// serves unit tests and the pre-render gate before boundaries are committed
// to expensive generation.
func Verify(boundaries []types.ClipBoundary, beatTimes []float64, toleranceSec float64) types.AlignmentReport {
	if toleranceSec <= 0 {
		toleranceSec = DefaultToleranceSec
	}
	report := types.AlignmentReport{
		Aligned:      true,
		ToleranceSec: toleranceSec,
		Errors:       []float64{},
	}
	if len(boundaries) < 2 {
		return report
	}
	for _, b := range boundaries[:len(boundaries)-1] {
		_, dist := beatgrid.Nearest(beatTimes, b.EndTime)
		report.Errors = append(report.Errors, dist)
		if dist > report.WorstSec {
			report.WorstSec = dist
		}
		if dist > toleranceSec {
			report.Aligned = false
		}
	}
	return report
}
