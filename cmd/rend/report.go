package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/report"
)

var (
	reportOutput string
	reportViewer string
)

func init() {
	reportBuildCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "PDF path (default: <output_dir>/relatorio_visualizacao.pdf)")
	reportCmd.AddCommand(reportBuildCmd)
	reportOpenCmd.Flags().StringVar(&reportViewer, "viewer", "system", "Viewer: "+strings.Join(report.Viewers, ", "))
	reportCmd.AddCommand(reportCheckCmd)
	reportCmd.AddCommand(reportOpenCmd)
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build or inspect the PDF report",
}

var reportBuildCmd = &cobra.Command{
	Use:   "build [image...]",
	Short: "Assemble images into the PDF report",
	Long: `Assemble images into the PDF report, two per page.

Without arguments the three charts and the graph image from the output
directory are used, in that order; images that do not exist are skipped.
Run 'rend charts' and 'rend viz --png' first, or use 'rend run'.`,
	RunE: runReportBuild,
}

var reportCheckCmd = &cobra.Command{
	Use:   "check [pdf]",
	Short: "Print page count and title of a PDF",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportCheck,
}

var reportOpenCmd = &cobra.Command{
	Use:   "open [pdf]",
	Short: "Open the PDF report in a viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportOpen,
}

func runReportBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	images := args
	if len(images) == 0 {
		for _, p := range append(cfg.ChartPaths(), cfg.GraphImagePath()) {
			if _, err := os.Stat(p); err == nil {
				images = append(images, p)
			}
		}
	}

	out := reportOutput
	if out == "" {
		out = cfg.ReportPath()
	}
	if err := report.Build(report.New(cfg.Year, cfg.States, images), out); err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(StatusResponse{Status: "written", Path: out})
	}
	outputHuman("Report written to %s (%d pages)\n", out, report.PageCount(len(images)))
	return nil
}

// reportPath is the first argument, or the configured report.
func reportPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return mustLoadConfig().ReportPath()
}

func runReportCheck(cmd *cobra.Command, args []string) error {
	path := reportPath(args)

	info, err := report.Inspect(path)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(info)
	}
	t := newTable(cmd.OutOrStdout())
	t.AppendRows([]table.Row{
		{"Path", info.Path},
		{"Size", info.Size},
		{"Pages", info.Pages},
		{"Title", info.Title},
	})
	t.Render()
	return nil
}

func runReportOpen(cmd *cobra.Command, args []string) error {
	path := reportPath(args)
	if err := report.Open(path, reportViewer); err != nil {
		return err
	}
	if !humanOutput {
		return outputJSON(StatusResponse{Status: "opened", Path: path})
	}
	outputHuman("Opened %s\n", path)
	return nil
}
