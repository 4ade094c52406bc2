package conform

import (
	"fmt"
	"math"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/beatgrid"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

// DefaultFadeSec caps the fade-out laid over the held tail of an extended
// clip.
const DefaultFadeSec = 0.5

// PlanClip decides how one rendered clip is conformed to its planned
// duration. The target is snapped to whole frames first, so cuts land on
// frame boundaries rather than rounded seconds. A source at least as long as
// the snapped target is trimmed; a shorter one is extended by holding its
// last frame for the shortfall with a fade-out over the held region. Calling
// this on a clip that needs no extension is safe: it degrades to a trim.
func PlanClip(clipDurationSec, targetDurationSec, fps float64) (types.ConformPlan, error) {
	if targetDurationSec <= 0 {
		return types.ConformPlan{}, fmt.Errorf("target duration must be > 0, got %v", targetDurationSec)
	}
	if fps <= 0 {
		return types.ConformPlan{}, fmt.Errorf("fps must be > 0, got %v", fps)
	}
	if clipDurationSec <= 0 {
		return types.ConformPlan{}, fmt.Errorf("clip duration must be > 0, got %v", clipDurationSec)
	}

	frames := beatgrid.FrameIndex(targetDurationSec, fps)
	if frames <= 0 {
		return types.ConformPlan{}, fmt.Errorf("target duration %v is shorter than one frame at %v fps", targetDurationSec, fps)
	}
	snapped := float64(frames) / fps

	plan := types.ConformPlan{
		Mode:         types.ConformTrim,
		TargetSec:    snapped,
		TargetFrames: frames,
	}
	if clipDurationSec >= snapped {
		return plan, nil
	}

	hold := snapped - clipDurationSec
	fade := math.Min(DefaultFadeSec, hold)
	plan.Mode = types.ConformExtend
	plan.HoldSec = hold
	plan.FadeSec = fade
	plan.FadeStartSec = snapped - fade
	return plan, nil
}
