package ffmpeg

import (
	"math"
	"testing"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

func TestParseProbe(t *testing.T) {
	t.Parallel()

	raw := `{
		"streams": [
			{"codec_type": "audio", "avg_frame_rate": "0/0", "r_frame_rate": "0/0"},
			{"codec_type": "video", "avg_frame_rate": "24000/1001", "r_frame_rate": "24000/1001"}
		],
		"format": {"duration": "5.250000"}
	}`

	info, err := parseProbe(raw)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.DurationSec != 5.25 {
		t.Fatalf("duration = %v, want 5.25", info.DurationSec)
	}
	if math.Abs(info.FPS-23.976023976023978) > 1e-9 {
		t.Fatalf("fps = %v, want 24000/1001", info.FPS)
	}
}

func TestParseProbe_FallsBackToRFrameRate(t *testing.T) {
	t.Parallel()

	raw := `{
		"streams": [{"codec_type": "video", "avg_frame_rate": "0/0", "r_frame_rate": "30/1"}],
		"format": {"duration": "2.0"}
	}`

	info, err := parseProbe(raw)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.FPS != 30 {
		t.Fatalf("fps = %v, want 30", info.FPS)
	}
}

func TestParseProbe_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "ffprobe exploded"},
		{name: "missing duration", raw: `{"streams": [], "format": {}}`},
		{name: "garbage duration", raw: `{"format": {"duration": "soon"}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseProbe(tt.raw); err == nil {
				t.Fatalf("parseProbe(%q) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestParseRational(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{in: "24/1", want: 24},
		{in: "24000/1001", want: 24000.0 / 1001.0},
		{in: "25", want: 25},
		{in: "0/0", want: 0},
		{in: "", want: 0},
		{in: "x/y", want: 0},
	}

	for _, tt := range tests {
		if got := parseRational(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("parseRational(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtendFilter(t *testing.T) {
	t.Parallel()

	plan := types.ConformPlan{
		Mode:         types.ConformExtend,
		TargetSec:    6,
		HoldSec:      2,
		FadeStartSec: 5.5,
		FadeSec:      0.5,
	}
	got := extendFilter(plan)
	want := "tpad=stop_mode=clone:stop_duration=2.000,fade=t=out:st=5.500:d=0.500"
	if got != want {
		t.Fatalf("extendFilter = %q, want %q", got, want)
	}
}

func TestExtendFilter_NoFade(t *testing.T) {
	t.Parallel()

	plan := types.ConformPlan{Mode: types.ConformExtend, HoldSec: 0.1}
	got := extendFilter(plan)
	want := "tpad=stop_mode=clone:stop_duration=0.100"
	if got != want {
		t.Fatalf("extendFilter = %q, want %q", got, want)
	}
}
