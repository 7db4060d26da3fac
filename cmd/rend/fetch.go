package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/fetch"
)

var (
	fetchURL      string
	fetchOutput   string
	fetchAttempts int
)

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "Dataset URL (default: dataset_url from config)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Destination (default: dataset_path from config)")
	fetchCmd.Flags().IntVar(&fetchAttempts, "attempts", fetch.DefaultMaxAttempts, "Attempts before giving up on 429/5xx responses")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the dataset CSV",
	Long: `Download the dataset CSV to dataset_path.

Set REND_DATASET_TOKEN (or dataset_token in the config) when the source
requires a bearer token. The file is replaced only after a complete download.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	url := fetchURL
	if url == "" {
		url = cfg.DatasetURL
	}
	dest := fetchOutput
	if dest == "" {
		dest = cfg.DatasetPath
	}

	client := fetch.NewClient(
		fetch.WithToken(cfg.DatasetToken),
		fetch.WithMaxAttempts(fetchAttempts),
		fetch.WithLogger(logger),
	)
	res, err := client.Download(cmd.Context(), url, dest)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(res)
	}
	outputHuman("Downloaded %d bytes to %s\n", res.Bytes, res.Path)
	return nil
}
