package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/pipeline"
	"github.com/matsen/rendimento/internal/viz"
)

var (
	vizInput  inputFlags
	vizOutput string
	vizLayout string
	vizScript string
	vizPNG    bool
)

func init() {
	vizInput.register(vizCmd)
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path, or - for stdout (default: <output_dir>/grafo_conexoes.html)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "preset", "Layout algorithm: preset, force, circle, or grid")
	vizCmd.Flags().StringVar(&vizScript, "cytoscape-js", "", "Path to cytoscape.min.js to inline for offline viewing")
	vizCmd.Flags().BoolVar(&vizPNG, "png", false, "Also write the static PNG image")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate the interactive relationship graph",
	Long: `Generate an interactive HTML visualization of the relationship graph.

States are blue, locations green and administrative dependencies orange.
The default "preset" layout uses the computed force-directed positions, so
the page matches the static image in the report.

Examples:
  # Write to the output directory
  rend viz

  # Generate HTML to stdout
  rend viz -o - > graph.html

  # Let Cytoscape.js lay the graph out instead
  rend viz --layout force

  # Generate offline-capable HTML
  rend viz --cytoscape-js ./cytoscape.min.js`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	in, err := vizInput.load(cmd, cfg)
	if err != nil {
		return err
	}

	g, layout, err := pipeline.BuildGraph(in.GraphRows, cfg)
	if err != nil {
		return err
	}
	data := viz.FromGraph(g, layout)

	opts, err := htmlOptions(vizLayout, vizScript)
	if err != nil {
		return err
	}

	if vizOutput == "-" {
		html, err := viz.GenerateHTML(data, opts)
		if err != nil {
			return fmt.Errorf("generating HTML: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), html)
		return nil
	}

	out := vizOutput
	if out == "" {
		out = cfg.GraphHTMLPath()
	}
	if err := pipeline.WriteHTML(data, opts, out); err != nil {
		return err
	}

	var pngPath string
	if vizPNG {
		pngPath = cfg.GraphImagePath()
		if err := viz.RenderPNG(data, pngPath); err != nil {
			return err
		}
	}

	if !humanOutput {
		return outputJSON(map[string]string{"output": out, "image": pngPath})
	}
	outputHuman("Visualization written to %s\n", out)
	if pngPath != "" {
		outputHuman("Image written to %s\n", pngPath)
	}
	return nil
}
