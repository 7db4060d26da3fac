package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/pipeline"
	"github.com/matsen/rendimento/internal/viz"
)

var (
	runSample  bool
	runNoCache bool
	runLayout  string
	runScript  string
)

func init() {
	runCmd.Flags().BoolVar(&runSample, "sample", false, "Use the built-in sample data instead of the dataset file")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "Parse the CSV directly, bypassing the SQLite cache")
	runCmd.Flags().StringVar(&runLayout, "layout", "preset", "Graph page layout: preset, force, circle, or grid")
	runCmd.Flags().StringVar(&runScript, "cytoscape-js", "", "Path to cytoscape.min.js to inline for offline viewing")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full report pipeline",
	Long: `Load and filter the dataset, write the three charts, the relationship
graph (PNG and HTML) and the PDF report into the output directory.

Examples:
  rend run
  rend run --sample --human
  REND_YEAR=2022 rend run --no-cache`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// htmlOptions builds viz options from the layout and optional script flags.
func htmlOptions(layout, scriptPath string) (viz.HTMLOptions, error) {
	opts := viz.HTMLOptions{Layout: layout}
	if scriptPath != "" {
		js, err := os.ReadFile(scriptPath)
		if err != nil {
			return opts, fmt.Errorf("reading Cytoscape.js: %w", err)
		}
		opts.InlineScript = string(js)
	}
	return opts, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if !runSample {
		mustExist(cfg)
	}

	html, err := htmlOptions(runLayout, runScript)
	if err != nil {
		return err
	}

	art, err := pipeline.Run(cmd.Context(), pipeline.Options{
		Config:  cfg,
		Sample:  runSample,
		NoCache: runNoCache,
		HTML:    html,
	}, logger)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(art)
	}

	w := cmd.OutOrStdout()
	printSummaryHuman(w, art.Summary)
	outputHuman("\nGraph: %d nodes, %d edges", art.Nodes, art.Edges)
	if art.Skipped > 0 {
		outputHuman(" (%d rows skipped for blank values)", art.Skipped)
	}
	outputHuman("\n\n")

	files := newTable(w, "Artifact", "Path")
	for i, p := range art.Charts {
		files.AppendRow(table.Row{fmt.Sprintf("chart %d", i+1), p})
	}
	files.AppendRow(table.Row{"graph image", art.GraphImage})
	files.AppendRow(table.Row{"graph page", art.GraphHTML})
	files.AppendRow(table.Row{"report", art.Report})
	files.Render()
	return nil
}
