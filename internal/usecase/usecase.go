package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/boundary"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/conform"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/fx"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/ports"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

// DefaultConcurrency caps how many clips are probed and conformed at once.
const DefaultConcurrency = 4

type Deps struct {
	Conformer ports.ClipConformer
	Log       *zap.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return Usecase{d: d}
}

type PlanInput struct {
	Analysis     types.TrackAnalysis
	Options      boundary.Options
	ToleranceSec float64
	Effects      []types.EffectRequest
}

type PlanResult struct {
	Plan    types.TimingPlan
	Report  types.AlignmentReport
	Effects []types.EffectRender
}

// Plan turns a track analysis into a timing plan, verifies its beat
// alignment, and renders any requested effect expressions against the same
// beat grid.
func (u Usecase) Plan(in PlanInput) (PlanResult, error) {
	bs, err := boundary.Plan(in.Analysis.BeatTimes, in.Analysis.SongDuration, in.Analysis.FPS, in.Options)
	if err != nil {
		return PlanResult{}, err
	}
	report := boundary.Verify(bs, in.Analysis.BeatTimes, in.ToleranceSec)

	plan := types.TimingPlan{
		CompositionID: uuid.NewString(),
		FPS:           in.Analysis.FPS,
		RangeStart:    bs[0].StartTime,
		RangeEnd:      bs[len(bs)-1].EndTime,
		Boundaries:    bs,
	}

	renders, err := u.RenderEffects(in.Effects, in.Analysis.BeatTimes)
	if err != nil {
		return PlanResult{}, err
	}

	u.d.Log.Info("planned composition",
		zap.String("composition_id", plan.CompositionID),
		zap.Int("boundaries", len(bs)),
		zap.Bool("aligned", report.Aligned),
		zap.Float64("worst_alignment_sec", report.WorstSec),
	)
	return PlanResult{Plan: plan, Report: report, Effects: renders}, nil
}

// RenderEffects parses and renders each effect request. A request with no
// beat grid of its own uses beatTimes.
func (u Usecase) RenderEffects(reqs []types.EffectRequest, beatTimes []float64) ([]types.EffectRender, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	renders := make([]types.EffectRender, 0, len(reqs))
	for i, req := range reqs {
		beats := req.BeatTimes
		if len(beats) == 0 {
			beats = beatTimes
		}
		spec, err := fx.ParseSpec(req.FilterType, req.Params)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		expr, err := fx.Expression(spec, beats)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, req.FilterType, err)
		}
		perBeat, err := fx.FilterComplex(spec, beats)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, req.FilterType, err)
		}
		renders = append(renders, types.EffectRender{
			FilterType: spec.FilterType(),
			Expression: expr,
			PerBeat:    perBeat,
		})
	}
	return renders, nil
}

type ConformInput struct {
	Input       string
	Plan        types.TimingPlan
	Report      types.AlignmentReport
	Effects     []types.EffectRender
	Sources     []string
	OutDir      string
	Concurrency int
}

type ConformResult struct {
	Manifest types.CompositionManifest
}

// Conform probes every source clip and rewrites it to its boundary's
// frame-snapped duration. Clips are processed concurrently; the first
// failure cancels the rest.
func (u Usecase) Conform(ctx context.Context, in ConformInput) (ConformResult, error) {
	if len(in.Plan.Boundaries) == 0 {
		return ConformResult{}, fmt.Errorf("timing plan has no boundaries")
	}
	if len(in.Sources) != len(in.Plan.Boundaries) {
		return ConformResult{}, fmt.Errorf("got %d source clips for %d boundaries", len(in.Sources), len(in.Plan.Boundaries))
	}

	limit := in.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	clipsDir := filepath.Join(in.OutDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return ConformResult{}, fmt.Errorf("create clips dir: %w", err)
	}

	clips := make([]types.ConformedClip, len(in.Sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range in.Sources {
		b := in.Plan.Boundaries[i]
		g.Go(func() error {
			id := fmt.Sprintf("%03d", i+1)
			info, err := u.d.Conformer.Probe(ctx, src)
			if err != nil {
				return fmt.Errorf("clip %s: %w", id, err)
			}
			cp, err := conform.PlanClip(info.DurationSec, b.DurationSec, in.Plan.FPS)
			if err != nil {
				return fmt.Errorf("clip %s: %w", id, err)
			}
			outPath := filepath.Join(clipsDir, id+".mp4")
			if err := u.d.Conformer.Conform(ctx, src, cp, outPath); err != nil {
				return fmt.Errorf("clip %s: %w", id, err)
			}
			u.d.Log.Info("conformed clip",
				zap.String("id", id),
				zap.String("mode", string(cp.Mode)),
				zap.Float64("source_sec", info.DurationSec),
				zap.Float64("target_sec", cp.TargetSec),
			)
			clips[i] = types.ConformedClip{
				BoundaryIndex: i,
				Source:        src,
				Output:        filepath.ToSlash(filepath.Join("clips", id+".mp4")),
				Mode:          cp.Mode,
				SourceSec:     info.DurationSec,
				TargetSec:     cp.TargetSec,
				HoldSec:       cp.HoldSec,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ConformResult{}, err
	}

	m := types.CompositionManifest{
		CompositionID: in.Plan.CompositionID,
		Input:         in.Input,
		Plan:          in.Plan,
		Report:        in.Report,
		Clips:         clips,
		Effects:       in.Effects,
	}
	if m.CompositionID == "" {
		m.CompositionID = uuid.NewString()
		m.Plan.CompositionID = m.CompositionID
	}
	return ConformResult{Manifest: m}, nil
}
