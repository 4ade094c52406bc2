package beatgrid

import (
	"math"
	"testing"
)

func TestFrameIndices_QuarterSecondsAt24(t *testing.T) {
	got, err := FrameIndices([]float64{0.0, 0.5, 1.0, 1.5, 2.0}, 24, 0)
	if err != nil {
		t.Fatalf("frame indices: %v", err)
	}
	want := []int{0, 12, 24, 36, 48}
	if len(got) != len(want) {
		t.Fatalf("expected %d indices, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFrameIndices_Table(t *testing.T) {
	tests := []struct {
		name    string
		beats   []float64
		fps     float64
		offset  float64
		want    []int
		wantErr bool
	}{
		{name: "offset drops earlier beats", beats: []float64{0.2, 1.0, 2.0}, fps: 30, offset: 0.5, want: []int{15, 45}},
		{name: "offset keeps exact match", beats: []float64{0.5, 1.0}, fps: 30, offset: 0.5, want: []int{0, 15}},
		{name: "half rounds up", beats: []float64{0.0625}, fps: 24, want: []int{2}},
		{name: "rational fps", beats: []float64{1.0}, fps: 23.976, want: []int{24}},
		{name: "empty grid", beats: nil, fps: 24, want: []int{}},
		{name: "zero fps", beats: []float64{1}, fps: 0, wantErr: true},
		{name: "negative fps", beats: []float64{1}, fps: -24, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FrameIndices(tt.beats, tt.fps, tt.offset)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("frame indices: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d indices, got %v", len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("index %d: got %d, want %d", i, got[i], tt.want[i])
				}
			}
			for i := 1; i < len(got); i++ {
				if got[i] < got[i-1] {
					t.Fatalf("indices must be non-decreasing, got %v", got)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		beats   []float64
		wantErr bool
	}{
		{name: "empty", beats: nil},
		{name: "single", beats: []float64{0.5}},
		{name: "increasing", beats: []float64{0.0, 0.5, 1.0}},
		{name: "duplicate", beats: []float64{0.5, 0.5}, wantErr: true},
		{name: "decreasing", beats: []float64{1.0, 0.5}, wantErr: true},
		{name: "negative start", beats: []float64{-0.1, 0.5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.beats)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	beats := []float64{1.0, 2.0, 3.0}

	idx, dist := Nearest(beats, 2.1)
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if math.Abs(dist-0.1) > 1e-9 {
		t.Fatalf("expected distance 0.1, got %v", dist)
	}

	// Equidistant between beats 1.0 and 2.0: the earlier one wins.
	idx, _ = Nearest(beats, 1.5)
	if idx != 0 {
		t.Fatalf("expected tie to keep earlier beat, got index %d", idx)
	}

	idx, dist = Nearest(nil, 1.0)
	if idx != -1 || dist != NoBeatDistance {
		t.Fatalf("expected (-1, NoBeatDistance) on empty grid, got (%d, %v)", idx, dist)
	}
}
