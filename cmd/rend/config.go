package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/config"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Configuration is read from $XDG_CONFIG_HOME/rend/config.yml (or --config),
then overridden by REND_DATASET, REND_OUTPUT_DIR, REND_YEAR, REND_SEED and
REND_DATASET_TOKEN, which may also come from a .env file.

Keys:
  dataset_path    CSV to read
  dataset_url     where 'rend fetch' downloads from
  output_dir      where charts, graph and report are written
  year            school year to keep
  states          geographic units to keep
  seed            layout random seed
  delimiter       CSV delimiter (",", ";" or "tab")
  encoding        utf-8, latin1 or windows-1252
  layout_updates  force-directed layout iterations`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// ConfigResponse is the response for config show.
type ConfigResponse struct {
	Source string         `json:"source"`
	Config *config.Config `json:"config"`
	Token  bool           `json:"dataset_token_set"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	source := configPath
	if source == "" {
		source = config.GlobalConfigPath()
	}

	if !humanOutput {
		return outputJSON(ConfigResponse{Source: source, Config: cfg, Token: cfg.DatasetToken != ""})
	}

	t := newTable(cmd.OutOrStdout(), "Key", "Value")
	t.AppendRows([]table.Row{
		{"source", source},
		{"dataset_path", cfg.DatasetPath},
		{"dataset_url", cfg.DatasetURL},
		{"output_dir", cfg.OutputDir},
		{"year", cfg.Year},
		{"states", strings.Join(cfg.States, ", ")},
		{"seed", cfg.Seed},
		{"delimiter", cfg.Delimiter},
		{"encoding", cfg.Encoding},
		{"layout_updates", cfg.LayoutUpdates},
		{"dataset_token", cfg.DatasetToken != ""},
	})
	t.Render()
	return nil
}
