package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neboloop/vizaudit/internal/analyze"
	"github.com/neboloop/vizaudit/internal/audit"
	"github.com/neboloop/vizaudit/internal/perfaudit"
	"github.com/neboloop/vizaudit/internal/scenario"
	"github.com/neboloop/vizaudit/internal/vision"
)

var (
	flagNoPerfAudit bool
	flagNoVision    bool
	flagNoAxe       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full audit against the target",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := buildOptions()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runDir, err := audit.NewRunner(opts).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Audit complete. Open %s/index.html\n", runDir)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagNoPerfAudit, "no-perf-audit", false, "skip the out-of-process performance audit")
	runCmd.Flags().BoolVar(&flagNoVision, "no-vision", false, "skip the AI vision critique")
	runCmd.Flags().BoolVar(&flagNoAxe, "no-axe", false, "skip the accessibility rule engine")
	rootCmd.AddCommand(runCmd)
}

// buildOptions assembles run options from the shared flags. Capabilities left
// nil fall back to their disabled defaults inside the orchestrator.
func buildOptions() (audit.Options, error) {
	opts := audit.Options{
		BaseURL:     flagBaseURL,
		OutputDir:   flagOutput,
		Headless:    flagHeadless,
		RecordVideo: flagVideo,
	}

	if flagScenarios != "" {
		scenarios, err := scenario.LoadFile(flagScenarios)
		if err != nil {
			return audit.Options{}, fmt.Errorf("loading scenarios: %w", err)
		}
		opts.Scenarios = scenarios
	}

	if !flagNoAxe {
		opts.RuleEngine = analyze.NewAxeEngine()
	}
	if !flagNoPerfAudit {
		opts.PerfAuditor = perfaudit.New()
	}
	if !flagNoVision {
		opts.VisionClient = vision.FromEnv()
	}
	return opts, nil
}
