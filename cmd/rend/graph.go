package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/config"
	"github.com/matsen/rendimento/internal/pipeline"
	"github.com/matsen/rendimento/internal/relgraph"
)

// inputFlags are shared by every command that reads the dataset.
type inputFlags struct {
	sample  bool
	noCache bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.sample, "sample", false, "Use the built-in sample data instead of the dataset file")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Parse the CSV directly, bypassing the SQLite cache")
}

// load returns the filtered input for cfg.
func (f *inputFlags) load(cmd *cobra.Command, cfg *config.Config) (*pipeline.Input, error) {
	if !f.sample {
		mustExist(cfg)
	}
	return pipeline.LoadInput(cmd.Context(), pipeline.Options{
		Config:  cfg,
		Sample:  f.sample,
		NoCache: f.noCache,
	}, logger)
}

var graphInput inputFlags

func init() {
	graphInput.register(graphCmd)
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the relationship graph with its layout",
	Long: `Build the graph linking each state to its locations and each location to
its administrative dependencies, lay it out, and print nodes and edges.

Examples:
  rend graph --human
  rend graph --sample | jq '.nodes[] | select(.group == "Estado")'`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

// GraphNode is a node with its layout position.
type GraphNode struct {
	ID     int64   `json:"id"`
	Label  string  `json:"label"`
	Group  string  `json:"group"`
	Degree int     `json:"degree"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// GraphResult is the response for the graph command.
type GraphResult struct {
	Nodes   []GraphNode     `json:"nodes"`
	Edges   []relgraph.Edge `json:"edges"`
	Skipped int             `json:"skipped_rows"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	in, err := graphInput.load(cmd, cfg)
	if err != nil {
		return err
	}

	g, layout, err := pipeline.BuildGraph(in.GraphRows, cfg)
	if err != nil {
		return err
	}

	result := GraphResult{Edges: g.Edges(), Skipped: in.Skipped}
	for _, n := range g.Nodes() {
		pos := layout[n.Label]
		result.Nodes = append(result.Nodes, GraphNode{
			ID:     n.ID,
			Label:  n.Label,
			Group:  string(n.Group),
			Degree: g.Degree(n.Label),
			X:      pos.X,
			Y:      pos.Y,
		})
	}

	if !humanOutput {
		return outputJSON(result)
	}

	w := cmd.OutOrStdout()
	nodes := newTable(w, "#", "Label", "Group", "Degree", "X", "Y")
	rightAlign(nodes, 1, 4, 5, 6)
	for _, n := range result.Nodes {
		nodes.AppendRow(table.Row{n.ID, n.Label, n.Group, n.Degree,
			fmt.Sprintf("%.3f", n.X), fmt.Sprintf("%.3f", n.Y)})
	}
	nodes.Render()

	edges := newTable(w, "From", "To")
	for _, e := range result.Edges {
		edges.AppendRow(table.Row{e.From, e.To})
	}
	edges.Render()

	outputHuman("%d nodes, %d edges\n", len(result.Nodes), len(result.Edges))
	return nil
}
