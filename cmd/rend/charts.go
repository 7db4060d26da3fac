package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/pipeline"
	"github.com/matsen/rendimento/internal/summary"
)

var chartsInput inputFlags

func init() {
	chartsInput.register(chartsCmd)
	rootCmd.AddCommand(chartsCmd)
}

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Write the three PNG charts",
	Long: `Write the rate, dropout share and dropout-by-stage charts to the output
directory, and print the numbers behind them.`,
	Args: cobra.NoArgs,
	RunE: runCharts,
}

// ChartsResult is the response for the charts command.
type ChartsResult struct {
	Charts  []string        `json:"charts"`
	Summary summary.Summary `json:"summary"`
}

func runCharts(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	in, err := chartsInput.load(cmd, cfg)
	if err != nil {
		return err
	}

	s := summary.Compute(in.Records)
	paths, err := pipeline.RenderCharts(s, cfg, logger)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(ChartsResult{Charts: paths, Summary: s})
	}
	printSummaryHuman(cmd.OutOrStdout(), s)
	for _, p := range paths {
		outputHuman("Chart written to %s\n", p)
	}
	return nil
}
