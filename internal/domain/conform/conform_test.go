package conform

import (
	"math"
	"testing"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

func TestPlanClip_TrimLongerSource(t *testing.T) {
	t.Parallel()

	plan, err := PlanClip(6.5, 6.0, 24)
	if err != nil {
		t.Fatalf("plan clip: %v", err)
	}
	if plan.Mode != types.ConformTrim {
		t.Fatalf("expected trim, got %s", plan.Mode)
	}
	if plan.TargetFrames != 144 || math.Abs(plan.TargetSec-6.0) > 1e-9 {
		t.Fatalf("unexpected target: %d frames, %v sec", plan.TargetFrames, plan.TargetSec)
	}
	if plan.HoldSec != 0 || plan.FadeSec != 0 {
		t.Fatalf("trim must not hold or fade: %+v", plan)
	}
}

func TestPlanClip_TargetSnapsToFrames(t *testing.T) {
	t.Parallel()

	// 5.02s at 24fps is 120.48 frames; the cut snaps to frame 120 = 5.0s.
	plan, err := PlanClip(5.5, 5.02, 24)
	if err != nil {
		t.Fatalf("plan clip: %v", err)
	}
	if plan.TargetFrames != 120 {
		t.Fatalf("expected 120 frames, got %d", plan.TargetFrames)
	}
	if math.Abs(plan.TargetSec-5.0) > 1e-9 {
		t.Fatalf("expected snapped target 5.0, got %v", plan.TargetSec)
	}
}

func TestPlanClip_ExtendShortSource(t *testing.T) {
	t.Parallel()

	plan, err := PlanClip(4.0, 6.0, 24)
	if err != nil {
		t.Fatalf("plan clip: %v", err)
	}
	if plan.Mode != types.ConformExtend {
		t.Fatalf("expected extend, got %s", plan.Mode)
	}
	if math.Abs(plan.HoldSec-2.0) > 1e-9 {
		t.Fatalf("expected 2.0s hold, got %v", plan.HoldSec)
	}
	if math.Abs(plan.FadeSec-DefaultFadeSec) > 1e-9 {
		t.Fatalf("expected fade capped at %v, got %v", DefaultFadeSec, plan.FadeSec)
	}
	if math.Abs(plan.FadeStartSec-5.5) > 1e-9 {
		t.Fatalf("expected fade to start at 5.5, got %v", plan.FadeStartSec)
	}
}

func TestPlanClip_FadeFitsShortHold(t *testing.T) {
	t.Parallel()

	plan, err := PlanClip(5.9, 6.0, 24)
	if err != nil {
		t.Fatalf("plan clip: %v", err)
	}
	if plan.Mode != types.ConformExtend {
		t.Fatalf("expected extend, got %s", plan.Mode)
	}
	// The fade never reaches back into real source frames.
	if math.Abs(plan.FadeSec-plan.HoldSec) > 1e-9 {
		t.Fatalf("expected fade %v to match hold %v", plan.FadeSec, plan.HoldSec)
	}
	if plan.FadeStartSec < 5.9-1e-9 {
		t.Fatalf("fade start %v reaches into source media", plan.FadeStartSec)
	}
}

func TestPlanClip_ExactFitTrims(t *testing.T) {
	t.Parallel()

	plan, err := PlanClip(6.0, 6.0, 24)
	if err != nil {
		t.Fatalf("plan clip: %v", err)
	}
	if plan.Mode != types.ConformTrim {
		t.Fatalf("expected trim for exact fit, got %s", plan.Mode)
	}
}

func TestPlanClip_RationalFPS(t *testing.T) {
	t.Parallel()

	// 6.0s at 23.976fps rounds to 144 frames = 6.006s: the source is now a
	// hair short and gets a sub-frame hold.
	plan, err := PlanClip(6.0, 6.0, 23.976)
	if err != nil {
		t.Fatalf("plan clip: %v", err)
	}
	if plan.Mode != types.ConformExtend {
		t.Fatalf("expected extend, got %s", plan.Mode)
	}
	if plan.TargetFrames != 144 {
		t.Fatalf("expected 144 frames, got %d", plan.TargetFrames)
	}
	wantSnap := 144.0 / 23.976
	if math.Abs(plan.TargetSec-wantSnap) > 1e-9 {
		t.Fatalf("expected snapped target %v, got %v", wantSnap, plan.TargetSec)
	}
	if math.Abs(plan.HoldSec-(wantSnap-6.0)) > 1e-9 {
		t.Fatalf("unexpected hold %v", plan.HoldSec)
	}
}

func TestPlanClip_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		clip   float64
		target float64
		fps    float64
	}{
		{name: "zero target", clip: 5, target: 0, fps: 24},
		{name: "negative target", clip: 5, target: -2, fps: 24},
		{name: "zero fps", clip: 5, target: 5, fps: 0},
		{name: "zero clip duration", clip: 0, target: 5, fps: 24},
		{name: "target below one frame", clip: 5, target: 0.01, fps: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlanClip(tt.clip, tt.target, tt.fps); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
