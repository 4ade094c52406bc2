package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

// Adapter runs ffmpeg through the ffmpeg-go bindings to trim or extend
// generated clips to their frame-snapped target durations.
type Adapter struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{log: log}
}

// probePayload is the subset of ffprobe's JSON output we read.
type probePayload struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
	} `json:"streams"`
}

func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	if err := ctx.Err(); err != nil {
		return types.MediaInfo{}, err
	}
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe(raw)
}

func parseProbe(raw string) (types.MediaInfo, error) {
	var p probePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return types.MediaInfo{}, fmt.Errorf("parse probe output: %w", err)
	}

	var info types.MediaInfo
	if p.Format.Duration != "" {
		sec, err := strconv.ParseFloat(p.Format.Duration, 64)
		if err != nil {
			return types.MediaInfo{}, fmt.Errorf("parse duration %q: %w", p.Format.Duration, err)
		}
		info.DurationSec = sec
	}
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		if fps := parseRational(s.AvgFrameRate); fps > 0 {
			info.FPS = fps
		} else if fps := parseRational(s.RFrameRate); fps > 0 {
			info.FPS = fps
		}
		break
	}
	if info.DurationSec <= 0 {
		return types.MediaInfo{}, fmt.Errorf("probe reported no duration")
	}
	return info, nil
}

// parseRational reads ffprobe frame rates like "24000/1001" or "24".
func parseRational(s string) float64 {
	if s == "" {
		return 0
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func (a *Adapter) Conform(ctx context.Context, inPath string, plan types.ConformPlan, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"t":      fmtSeconds(plan.TargetSec),
		"c:v":    "libx264",
		"preset": "veryfast",
		"crf":    "18",
		"an":     "",
	}
	if plan.Mode == types.ConformExtend {
		kwargs["vf"] = extendFilter(plan)
	}

	a.log.Info("conforming clip",
		zap.String("in", inPath),
		zap.String("out", outPath),
		zap.String("mode", string(plan.Mode)),
		zap.Float64("target_sec", plan.TargetSec),
		zap.Int("target_frames", plan.TargetFrames),
	)

	err := ffmpeg.Input(inPath).
		Output(outPath, kwargs).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg conform %s: %w", inPath, err)
	}
	return nil
}

// extendFilter freezes the last frame for the hold and fades out over the
// tail so the padding does not read as a stall.
func extendFilter(plan types.ConformPlan) string {
	f := "tpad=stop_mode=clone:stop_duration=" + fmtSeconds(plan.HoldSec)
	if plan.FadeSec > 0 {
		f += ",fade=t=out:st=" + fmtSeconds(plan.FadeStartSec) + ":d=" + fmtSeconds(plan.FadeSec)
	}
	return f
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
