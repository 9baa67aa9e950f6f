package main

import (
	"github.com/spf13/cobra"
)

var (
	flagBaseURL   string
	flagOutput    string
	flagScenarios string
	flagHeadless  bool
	flagVideo     bool
)

var rootCmd = &cobra.Command{
	Use:   "vizaudit",
	Short: "Automated visual quality audits for web UIs",
	Long: `vizaudit drives a headless browser through declarative test scenarios,
captures screenshots, runs accessibility and performance analysis, optionally
sends screenshots to an AI vision model for critique, and writes
severity-ranked HTML, Markdown, JSON, and task-list reports.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "http://localhost:3000", "base URL of the target application")
	pf.StringVarP(&flagOutput, "output", "o", ".", "parent directory for audit results")
	pf.StringVarP(&flagScenarios, "scenarios", "s", "", "YAML scenario file (omit for the default viewport sweep)")
	pf.BoolVar(&flagHeadless, "headless", true, "run the browser headless")
	pf.BoolVar(&flagVideo, "video", false, "record a video per scenario")
}
