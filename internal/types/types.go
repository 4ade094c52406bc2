package types

// TrackAnalysis is the payload produced by the external audio-analysis
// pipeline: detected beats plus the frame rate the composition renders at.
type TrackAnalysis struct {
	BeatTimes    []float64 `json:"beat_times"`
	SongDuration float64   `json:"song_duration"`
	BPM          float64   `json:"bpm,omitempty"`
	FPS          float64   `json:"fps"`
}

type ClipBoundary struct {
	StartTime           float64 `json:"start_time"`
	EndTime             float64 `json:"end_time"`
	StartBeatIndex      int     `json:"start_beat_index"`
	EndBeatIndex        int     `json:"end_beat_index"`
	StartFrameIndex     int     `json:"start_frame_index"`
	EndFrameIndex       int     `json:"end_frame_index"`
	StartAlignmentError float64 `json:"start_alignment_error"`
	EndAlignmentError   float64 `json:"end_alignment_error"`
	DurationSec         float64 `json:"duration_sec"`
	BeatsInClip         []int   `json:"beats_in_clip"`
}

type TimingPlan struct {
	CompositionID string         `json:"composition_id,omitempty"`
	FPS           float64        `json:"fps"`
	RangeStart    float64        `json:"range_start"`
	RangeEnd      float64        `json:"range_end"`
	Boundaries    []ClipBoundary `json:"boundaries"`
}

type AlignmentReport struct {
	Aligned      bool      `json:"aligned"`
	ToleranceSec float64   `json:"tolerance_sec"`
	Errors       []float64 `json:"errors"`
	WorstSec     float64   `json:"worst_sec"`
}

type ConformMode string

const (
	ConformTrim   ConformMode = "trim"
	ConformExtend ConformMode = "extend"
)

// ConformPlan carries the frame-snapped numbers the render tool needs to cut
// or pad one clip to its boundary.
type ConformPlan struct {
	Mode         ConformMode `json:"mode"`
	TargetSec    float64     `json:"target_sec"`
	TargetFrames int         `json:"target_frames"`
	HoldSec      float64     `json:"hold_sec"`
	FadeStartSec float64     `json:"fade_start_sec"`
	FadeSec      float64     `json:"fade_sec"`
}

type MediaInfo struct {
	DurationSec float64 `json:"duration_sec"`
	FPS         float64 `json:"fps"`
}

type EffectRequest struct {
	FilterType string         `json:"filter_type"`
	Params     map[string]any `json:"params,omitempty"`
	BeatTimes  []float64      `json:"beat_times"`
}

type EffectRender struct {
	FilterType string   `json:"filter_type"`
	Expression string   `json:"expression"`
	PerBeat    []string `json:"per_beat"`
}

type SceneContext struct {
	Scene    string   `json:"scene,omitempty"`
	Mood     string   `json:"mood,omitempty"`
	MoodTags []string `json:"mood_tags,omitempty"`
	Genre    string   `json:"genre,omitempty"`
	BPM      float64  `json:"bpm,omitempty"`
}

type CompositionManifest struct {
	CompositionID string          `json:"composition_id"`
	Input         string          `json:"input"`
	Plan          TimingPlan      `json:"plan"`
	Report        AlignmentReport `json:"report"`
	Clips         []ConformedClip `json:"clips"`
	Effects       []EffectRender  `json:"effects,omitempty"`
}

type ConformedClip struct {
	BoundaryIndex int         `json:"boundary_index"`
	Source        string      `json:"source"`
	Output        string      `json:"output"`
	Mode          ConformMode `json:"mode"`
	SourceSec     float64     `json:"source_sec"`
	TargetSec     float64     `json:"target_sec"`
	HoldSec       float64     `json:"hold_sec,omitempty"`
}
