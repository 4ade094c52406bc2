package boundary

import (
	"fmt"
	"math"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/beatgrid"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

const (
	DefaultMinDuration = 3.0
	DefaultMaxDuration = 6.0
)

// timeEps absorbs float drift when comparing timeline positions.
const timeEps = 1e-9

type Options struct {
	MinDuration float64 // seconds; 0 means DefaultMinDuration
	MaxDuration float64 // seconds; 0 means DefaultMaxDuration

	// NumClips is an advisory clip-count target. It only shifts the target
	// cut point; coverage and the duration bounds always win.
	NumClips int

	// SelectionStart/SelectionEnd restrict planning to a sub-window of the
	// song. Nil means the whole song.
	SelectionStart *float64
	SelectionEnd   *float64
}

// Plan slices [range start, range end] into contiguous clip boundaries cut on
// beats where possible. Strategy:
//   - Greedy forward scan: from the cursor, pick the beat inside
//     [cursor+min, cursor+max] closest to the target cut point (cursor+max,
//     or the evenly-spaced point when NumClips is set). Ties keep the
//     earlier beat.
//   - Sparse stretches fall back to a fixed cut at cursor+max and report the
//     drift to the nearest in-range beat (degraded boundary, not an error).
//   - The final boundary always ends exactly at the range end and may be
//     shorter than the minimum.
func Plan(beatTimes []float64, songDuration, fps float64, opt Options) ([]types.ClipBoundary, error) {
	minDur := opt.MinDuration
	if minDur == 0 {
		minDur = DefaultMinDuration
	}
	maxDur := opt.MaxDuration
	if maxDur == 0 {
		maxDur = DefaultMaxDuration
	}

	if err := beatgrid.Validate(beatTimes); err != nil {
		return nil, err
	}
	if songDuration <= 0 {
		return nil, fmt.Errorf("song duration must be > 0, got %v", songDuration)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be > 0, got %v", fps)
	}
	if minDur <= 0 {
		return nil, fmt.Errorf("min duration must be > 0, got %v", minDur)
	}
	if minDur > maxDur {
		return nil, fmt.Errorf("min duration %v exceeds max duration %v", minDur, maxDur)
	}
	if opt.NumClips < 0 {
		return nil, fmt.Errorf("num clips must be >= 0, got %d", opt.NumClips)
	}

	rangeStart := 0.0
	if opt.SelectionStart != nil {
		rangeStart = *opt.SelectionStart
	}
	rangeEnd := songDuration
	if opt.SelectionEnd != nil {
		rangeEnd = math.Min(*opt.SelectionEnd, songDuration)
	}
	if rangeStart < 0 {
		return nil, fmt.Errorf("selection start must be >= 0, got %v", rangeStart)
	}
	if rangeStart >= songDuration {
		return nil, fmt.Errorf("selection start %v is past song end %v", rangeStart, songDuration)
	}
	if rangeEnd <= rangeStart {
		return nil, fmt.Errorf("selection end %v must be after selection start %v", rangeEnd, rangeStart)
	}

	// Working grid: indices into the caller's full grid whose beat lies in
	// [rangeStart, rangeEnd]. The range end is included so a beat sitting
	// exactly there can anchor the final cut.
	grid := make([]int, 0, len(beatTimes))
	for i, b := range beatTimes {
		if b >= rangeStart-timeEps && b <= rangeEnd+timeEps {
			grid = append(grid, i)
		}
	}

	p := planner{
		beats:      beatTimes,
		grid:       grid,
		fps:        fps,
		minDur:     minDur,
		maxDur:     maxDur,
		numClips:   opt.NumClips,
		rangeStart: rangeStart,
		rangeEnd:   rangeEnd,
	}
	return p.run(), nil
}

type planner struct {
	beats      []float64
	grid       []int
	fps        float64
	minDur     float64
	maxDur     float64
	numClips   int
	rangeStart float64
	rangeEnd   float64
}

// edge is one side of a boundary: a cut time plus the beat that anchors it.
type edge struct {
	time    float64
	beatIdx int
	err     float64
}

func (p *planner) run() []types.ClipBoundary {
	var out []types.ClipBoundary
	start := p.edgeAt(p.rangeStart)
	for p.rangeEnd-start.time > p.maxDur+timeEps {
		end, ok := p.beatCut(start.time, p.target(start.time, len(out)))
		if !ok {
			end = p.edgeAt(start.time + p.maxDur)
		}
		out = append(out, p.boundary(start, end))
		start = end
	}
	if p.rangeEnd-start.time > timeEps {
		out = append(out, p.boundary(start, p.edgeAt(p.rangeEnd)))
	}
	return out
}

func (p *planner) target(cursor float64, emitted int) float64 {
	target := cursor + p.maxDur
	if p.numClips > 0 {
		if remaining := p.numClips - emitted; remaining > 0 {
			t := cursor + (p.rangeEnd-cursor)/float64(remaining)
			target = clamp(t, cursor+p.minDur, cursor+p.maxDur)
		}
	}
	return target
}

// beatCut picks the in-window beat closest to target. Strict less-than keeps
// the earlier beat when two candidates are equally close.
func (p *planner) beatCut(cursor, target float64) (edge, bool) {
	lo := cursor + p.minDur
	hi := cursor + p.maxDur
	best := -1
	bestDist := 0.0
	for _, gi := range p.grid {
		b := p.beats[gi]
		if b < lo-timeEps {
			continue
		}
		if b > hi+timeEps {
			break
		}
		d := math.Abs(b - target)
		if best < 0 || d < bestDist {
			best, bestDist = gi, d
		}
	}
	if best < 0 {
		return edge{}, false
	}
	return edge{time: p.beats[best], beatIdx: best, err: 0}, true
}

// edgeAt builds an edge for a cut that is not itself beat-anchored: the range
// start, the range end, and sparse-grid fallback cuts. The alignment error is
// the distance to the nearest in-range beat; an empty grid reports zero
// because there is nothing to measure against.
func (p *planner) edgeAt(t float64) edge {
	if len(p.grid) == 0 {
		return edge{time: t, beatIdx: -1, err: 0}
	}
	best := p.grid[0]
	bestDist := math.Abs(p.beats[best] - t)
	for _, gi := range p.grid[1:] {
		d := math.Abs(p.beats[gi] - t)
		if d < bestDist {
			best, bestDist = gi, d
		}
	}
	return edge{time: t, beatIdx: best, err: bestDist}
}

func (p *planner) boundary(start, end edge) types.ClipBoundary {
	return types.ClipBoundary{
		StartTime:           start.time,
		EndTime:             end.time,
		StartBeatIndex:      start.beatIdx,
		EndBeatIndex:        end.beatIdx,
		StartFrameIndex:     beatgrid.FrameIndex(start.time, p.fps),
		EndFrameIndex:       beatgrid.FrameIndex(end.time, p.fps),
		StartAlignmentError: start.err,
		EndAlignmentError:   end.err,
		DurationSec:         end.time - start.time,
		BeatsInClip:         p.beatsIn(start.time, end.time),
	}
}

// beatsIn collects in-range beat indices with start <= beat < end. The
// half-open window keeps the partition exact: a beat on a shared cut belongs
// to the clip it opens, and a beat exactly at the range end anchors the final
// cut without belonging to any clip.
func (p *planner) beatsIn(start, end float64) []int {
	out := []int{}
	for _, gi := range p.grid {
		b := p.beats[gi]
		if b >= start-timeEps && b < end-timeEps {
			out = append(out, gi)
		}
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
