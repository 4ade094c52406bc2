package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	root := &cobra.Command{
		Use:          "vibecraft",
		Short:        "Beat-synchronized composition timing engine",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String(
		"presets",
		getenvDefault("VIBECRAFT_PRESETS", "vibecraft.yaml"),
		"Presets YAML path",
	)

	root.AddCommand(
		newPlanCmd(log),
		newVerifyCmd(log),
		newEffectsCmd(log),
		newConformCmd(log),
		newRunCmd(log),
		newMotionCmd(),
		newServeCmd(log),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
