package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/config"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/motion"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/pipeline"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/server"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

const conformTimeout = 1 * time.Hour

func newPlanCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a beat-aligned timing plan from a track analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildPipelineConfig(cmd, log)
			if err != nil {
				return err
			}
			return pipeline.Plan(cfg)
		},
	}
	addPlanFlags(cmd)
	return cmd
}

func newVerifyCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-check a timing plan against a beat grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildPipelineConfig(cmd, log)
			if err != nil {
				return err
			}
			report, err := pipeline.Verify(cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().String("plan", "", "Timing plan JSON produced by plan")
	cmd.Flags().String("analysis", "", "Track analysis JSON (beat times)")
	cmd.Flags().Float64("tolerance", 0, "Alignment tolerance seconds (overrides presets)")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("analysis")
	return cmd
}

func newEffectsCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects",
		Short: "Render beat-gated ffmpeg filter expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildPipelineConfig(cmd, log)
			if err != nil {
				return err
			}
			renders, err := pipeline.Effects(cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd, renders)
		},
	}
	cmd.Flags().String("analysis", "", "Track analysis JSON (beat times)")
	cmd.Flags().StringArray("effect", nil, "Effect filter type to render (repeatable)")
	_ = cmd.MarkFlagRequired("analysis")
	_ = cmd.MarkFlagRequired("effect")
	return cmd
}

func newConformCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conform <clips...>",
		Short: "Trim or extend generated clips to a timing plan's boundaries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildPipelineConfig(cmd, log)
			if err != nil {
				return err
			}
			cfg.Sources = args

			ctx, cancel := context.WithTimeout(context.Background(), conformTimeout)
			defer cancel()
			return pipeline.Conform(ctx, cfg)
		},
	}
	cmd.Flags().String("plan", "", "Timing plan JSON produced by plan")
	cmd.Flags().String("out", "", "Output directory (default: beside the plan)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newRunCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <clips...>",
		Short: "Plan and conform in one pass",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildPipelineConfig(cmd, log)
			if err != nil {
				return err
			}
			cfg.Sources = args

			ctx, cancel := context.WithTimeout(context.Background(), conformTimeout)
			defer cancel()
			return pipeline.Run(ctx, cfg)
		},
	}
	addPlanFlags(cmd)
	return cmd
}

func newMotionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motion",
		Short: "Pick a motion category for a scene and adapt a generation prompt",
		Args:  cobra.NoArgs,
		RunE:  runMotion,
	}
	cmd.Flags().String("scene", "", "Scene label (verse, chorus, drop, ...)")
	cmd.Flags().String("mood", "", "Primary mood")
	cmd.Flags().StringArray("tag", nil, "Mood tag (repeatable)")
	cmd.Flags().String("genre", "", "Genre")
	cmd.Flags().Float64("bpm", 0, "Tempo in BPM")
	cmd.Flags().String("prompt", "", "Generation prompt to adapt")
	cmd.Flags().String("target", "", "Generation target (runway, pika, luma)")
	return cmd
}

func newServeCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timing engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := loadPresets(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				if port := os.Getenv("PORT"); port != "" {
					addr = ":" + port
				} else {
					addr = presets.Server.Addr
				}
			}
			return server.New(presets, log).Run(addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: $PORT, then presets)")
	return cmd
}

// addPlanFlags is shared by plan and run.
func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("analysis", "", "Track analysis JSON (beat times, duration, fps)")
	cmd.Flags().String("out", "out", "Output directory root")
	cmd.Flags().Int("clips", 0, "Requested clip count (0 = auto)")
	cmd.Flags().Float64("min", 0, "Min clip seconds (overrides presets)")
	cmd.Flags().Float64("max", 0, "Max clip seconds (overrides presets)")
	cmd.Flags().Float64("start", -1, "Selection window start seconds")
	cmd.Flags().Float64("end", -1, "Selection window end seconds")
	cmd.Flags().Float64("fps", 0, "Frame rate override")
	cmd.Flags().StringArray("effect", nil, "Effect filter type to render (repeatable)")
	_ = cmd.MarkFlagRequired("analysis")
}

// buildPipelineConfig assembles a pipeline.Config from the presets file and
// whichever flags the invoking command defines.
func buildPipelineConfig(cmd *cobra.Command, log *zap.Logger) (pipeline.Config, error) {
	presets, err := loadPresets(cmd)
	if err != nil {
		return pipeline.Config{}, err
	}

	cfg := pipeline.Config{
		Presets: presets,
		Log:     log,
	}
	cfg.AnalysisPath = stringFlag(cmd, "analysis")
	cfg.PlanPath = stringFlag(cmd, "plan")
	cfg.OutDir = stringFlag(cmd, "out")
	cfg.NumClips = intFlag(cmd, "clips")
	cfg.FPS = floatFlag(cmd, "fps")
	cfg.EffectTypes = stringArrayFlag(cmd, "effect")
	cfg.SelectionStart = optionalFloatFlag(cmd, "start")
	cfg.SelectionEnd = optionalFloatFlag(cmd, "end")

	if v := floatFlag(cmd, "min"); v > 0 {
		cfg.Presets.Timing.MinDurationSec = v
	}
	if v := floatFlag(cmd, "max"); v > 0 {
		cfg.Presets.Timing.MaxDurationSec = v
	}
	if v := floatFlag(cmd, "tolerance"); v > 0 {
		cfg.Presets.Timing.ToleranceSec = v
	}

	if err := cfg.Validate(); err != nil {
		return pipeline.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func loadPresets(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("presets")
	presets, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := presets.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("presets %s: %w", path, err)
	}
	return presets, nil
}

func sceneContextFromFlags(cmd *cobra.Command) types.SceneContext {
	return types.SceneContext{
		Scene:    stringFlag(cmd, "scene"),
		Mood:     stringFlag(cmd, "mood"),
		MoodTags: stringArrayFlag(cmd, "tag"),
		Genre:    stringFlag(cmd, "genre"),
		BPM:      floatFlag(cmd, "bpm"),
	}
}

func runMotion(cmd *cobra.Command, _ []string) error {
	scene := sceneContextFromFlags(cmd)

	out := struct {
		MotionCategory string `json:"motion_category"`
		Prompt         string `json:"prompt,omitempty"`
	}{
		MotionCategory: motion.Select(scene),
	}
	if prompt := stringFlag(cmd, "prompt"); prompt != "" {
		out.Prompt = motion.AdaptPrompt(prompt, stringFlag(cmd, "target"), scene.BPM)
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// Flag readers tolerant of flags a command does not define.

func stringFlag(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func intFlag(cmd *cobra.Command, name string) int {
	if cmd.Flags().Lookup(name) == nil {
		return 0
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func floatFlag(cmd *cobra.Command, name string) float64 {
	if cmd.Flags().Lookup(name) == nil {
		return 0
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func stringArrayFlag(cmd *cobra.Command, name string) []string {
	if cmd.Flags().Lookup(name) == nil {
		return nil
	}
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}

func optionalFloatFlag(cmd *cobra.Command, name string) *float64 {
	if cmd.Flags().Lookup(name) == nil {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	if v < 0 {
		return nil
	}
	return &v
}
