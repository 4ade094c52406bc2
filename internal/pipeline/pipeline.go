package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/config"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/boundary"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/ports"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/ports/adapters/ffmpeg"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/usecase"
)

type Config struct {
	// AnalysisPath is the track-analysis JSON consumed by Plan and Run.
	AnalysisPath string
	// PlanPath is an existing timing-plan JSON consumed by Conform.
	PlanPath string
	// Sources are the generated clips to conform, one per boundary.
	Sources []string
	// OutDir is the root under which run directories are created.
	OutDir string

	Presets config.Config

	NumClips       int
	SelectionStart *float64
	SelectionEnd   *float64
	FPS            float64
	EffectTypes    []string

	Log *zap.Logger
}

func (c Config) Validate() error {
	if err := c.Presets.Validate(); err != nil {
		return err
	}
	if c.NumClips < 0 {
		return fmt.Errorf("num clips must be >= 0")
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps must be >= 0")
	}
	for _, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			return errors.New("source clip path is empty")
		}
	}
	return nil
}

// planDocument is the on-disk form of a planning run: the timing plan, its
// alignment report, and any rendered effect expressions.
type planDocument struct {
	Plan    types.TimingPlan      `json:"plan"`
	Report  types.AlignmentReport `json:"report"`
	Effects []types.EffectRender  `json:"effects,omitempty"`
}

// Plan loads a track analysis, builds and verifies a timing plan, and writes
// plan.json plus one filtergraph file per requested effect into a fresh run
// directory.
func Plan(cfg Config) error {
	log := logger(cfg)

	if cfg.AnalysisPath == "" {
		return errors.New("analysis path is empty")
	}
	analysis, err := loadAnalysis(cfg, log)
	if err != nil {
		return err
	}

	res, err := planOnce(cfg, analysis)
	if err != nil {
		return err
	}

	runDir, err := prepareRunDir(cfg.OutDir, cfg.AnalysisPath, log)
	if err != nil {
		return err
	}
	return writePlan(runDir, res, log)
}

// Conform reads a plan.json produced by Plan and conforms the source clips
// to its boundaries. Outputs land beside the plan unless OutDir overrides.
func Conform(ctx context.Context, cfg Config) error {
	log := logger(cfg)

	if cfg.PlanPath == "" {
		return errors.New("plan path is empty")
	}
	if len(cfg.Sources) == 0 {
		return errors.New("no source clips given")
	}
	doc, err := loadPlan(cfg.PlanPath)
	if err != nil {
		return err
	}

	runDir := cfg.OutDir
	if runDir == "" {
		runDir = filepath.Dir(cfg.PlanPath)
	}
	return conformInto(ctx, cfg, runDir, cfg.PlanPath, doc, log)
}

// Verify re-checks an existing plan's boundaries against the beat grid of
// the given analysis and returns the alignment report.
func Verify(cfg Config) (types.AlignmentReport, error) {
	log := logger(cfg)

	if cfg.PlanPath == "" {
		return types.AlignmentReport{}, errors.New("plan path is empty")
	}
	if cfg.AnalysisPath == "" {
		return types.AlignmentReport{}, errors.New("analysis path is empty")
	}
	doc, err := loadPlan(cfg.PlanPath)
	if err != nil {
		return types.AlignmentReport{}, err
	}
	analysis, err := loadAnalysis(cfg, log)
	if err != nil {
		return types.AlignmentReport{}, err
	}

	report := boundary.Verify(doc.Plan.Boundaries, analysis.BeatTimes, cfg.Presets.Timing.ToleranceSec)
	log.Info("verified plan",
		zap.Bool("aligned", report.Aligned),
		zap.Float64("worst_sec", report.WorstSec),
		zap.Float64("tolerance_sec", report.ToleranceSec),
	)
	return report, nil
}

// Effects renders the requested effect expressions against the analysis beat
// grid without planning boundaries.
func Effects(cfg Config) ([]types.EffectRender, error) {
	log := logger(cfg)

	if cfg.AnalysisPath == "" {
		return nil, errors.New("analysis path is empty")
	}
	if len(cfg.EffectTypes) == 0 {
		return nil, errors.New("no effect types given")
	}
	analysis, err := loadAnalysis(cfg, log)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Deps{Log: cfg.Log})
	var reqs []types.EffectRequest
	for _, name := range cfg.EffectTypes {
		reqs = append(reqs, types.EffectRequest{
			FilterType: name,
			Params:     cfg.Presets.EffectParams(name, nil),
		})
	}
	return uc.RenderEffects(reqs, analysis.BeatTimes)
}

// Run is plan and conform in one pass over a fresh run directory.
func Run(ctx context.Context, cfg Config) error {
	log := logger(cfg)

	if cfg.AnalysisPath == "" {
		return errors.New("analysis path is empty")
	}
	if len(cfg.Sources) == 0 {
		return errors.New("no source clips given")
	}
	analysis, err := loadAnalysis(cfg, log)
	if err != nil {
		return err
	}

	res, err := planOnce(cfg, analysis)
	if err != nil {
		return err
	}

	runDir, err := prepareRunDir(cfg.OutDir, cfg.AnalysisPath, log)
	if err != nil {
		return err
	}
	if err := writePlan(runDir, res, log); err != nil {
		return err
	}

	doc := planDocument{Plan: res.Plan, Report: res.Report, Effects: res.Effects}
	return conformInto(ctx, cfg, runDir, cfg.AnalysisPath, doc, log)
}

func planOnce(cfg Config, analysis types.TrackAnalysis) (usecase.PlanResult, error) {
	uc := usecase.New(usecase.Deps{Log: cfg.Log})

	var effects []types.EffectRequest
	for _, name := range cfg.EffectTypes {
		effects = append(effects, types.EffectRequest{
			FilterType: name,
			Params:     cfg.Presets.EffectParams(name, nil),
		})
	}

	return uc.Plan(usecase.PlanInput{
		Analysis: analysis,
		Options: boundary.Options{
			MinDuration:    cfg.Presets.Timing.MinDurationSec,
			MaxDuration:    cfg.Presets.Timing.MaxDurationSec,
			NumClips:       cfg.NumClips,
			SelectionStart: cfg.SelectionStart,
			SelectionEnd:   cfg.SelectionEnd,
		},
		ToleranceSec: cfg.Presets.Timing.ToleranceSec,
		Effects:      effects,
	})
}

func conformInto(ctx context.Context, cfg Config, runDir, input string, doc planDocument, log *zap.Logger) error {
	uc := usecase.New(usecase.Deps{
		Conformer: ffmpeg.New(log),
		Log:       cfg.Log,
	})

	res, err := uc.Conform(ctx, usecase.ConformInput{
		Input:       input,
		Plan:        doc.Plan,
		Report:      doc.Report,
		Effects:     doc.Effects,
		Sources:     cfg.Sources,
		OutDir:      runDir,
		Concurrency: cfg.Presets.Conform.Concurrency,
	})
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(runDir, "manifest.json")
	if err := writeJSON(manifestPath, res.Manifest); err != nil {
		return err
	}
	log.Info("manifest written",
		zap.Int("clips", len(res.Manifest.Clips)),
		zap.String("path", manifestPath),
	)
	return nil
}

func loadAnalysis(cfg Config, log *zap.Logger) (types.TrackAnalysis, error) {
	b, err := os.ReadFile(cfg.AnalysisPath)
	if err != nil {
		return types.TrackAnalysis{}, fmt.Errorf("read analysis: %w", err)
	}
	var a types.TrackAnalysis
	if err := json.Unmarshal(b, &a); err != nil {
		return types.TrackAnalysis{}, fmt.Errorf("parse analysis %s: %w", cfg.AnalysisPath, err)
	}
	if cfg.FPS > 0 {
		a.FPS = cfg.FPS
	}
	log.Info("loaded analysis",
		zap.String("path", cfg.AnalysisPath),
		zap.Int("beats", len(a.BeatTimes)),
		zap.Float64("song_duration", a.SongDuration),
		zap.Float64("fps", a.FPS),
	)
	return a, nil
}

func loadPlan(path string) (planDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return planDocument{}, fmt.Errorf("read plan: %w", err)
	}
	var doc planDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return planDocument{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if len(doc.Plan.Boundaries) == 0 {
		return planDocument{}, fmt.Errorf("plan %s has no boundaries", path)
	}
	return doc, nil
}

func prepareRunDir(outRoot, input string, log *zap.Logger) (string, error) {
	if outRoot == "" {
		outRoot = "out"
	}
	runDir := buildRunOutDir(outRoot, input, time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	log.Info("run dir ready", zap.String("path", runDir))
	return runDir, nil
}

func writePlan(runDir string, res usecase.PlanResult, log *zap.Logger) error {
	planPath := filepath.Join(runDir, "plan.json")
	doc := planDocument{Plan: res.Plan, Report: res.Report, Effects: res.Effects}
	if err := writeJSON(planPath, doc); err != nil {
		return err
	}
	log.Info("plan written",
		zap.Int("boundaries", len(res.Plan.Boundaries)),
		zap.Bool("aligned", res.Report.Aligned),
		zap.String("path", planPath),
	)

	for i, r := range res.Effects {
		name := fmt.Sprintf("%02d-%s.txt", i+1, r.FilterType)
		fxPath := filepath.Join(runDir, "effects", name)
		if err := os.MkdirAll(filepath.Dir(fxPath), 0o755); err != nil {
			return fmt.Errorf("create effects dir: %w", err)
		}
		if err := os.WriteFile(fxPath, []byte(r.Expression+"\n"), 0o644); err != nil {
			return fmt.Errorf("write filtergraph: %w", err)
		}
		log.Info("filtergraph written", zap.String("path", fxPath))
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return err
	}
	return nil
}

func logger(cfg Config) *zap.Logger {
	if cfg.Log == nil {
		return zap.NewNop()
	}
	return cfg.Log
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.ClipConformer = (*ffmpeg.Adapter)(nil)
