package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/pipeline"
	"github.com/matsen/rendimento/internal/storage"
)

var cacheForce bool

func init() {
	cacheRebuildCmd.Flags().BoolVar(&cacheForce, "force", true, "Rebuild even if the dataset is unchanged")
	cacheCmd.AddCommand(cacheRebuildCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the SQLite record cache",
	Long: `The cache holds parsed dataset records so repeated runs skip CSV parsing.
It is rebuilt automatically when the dataset file changes.`,
}

var cacheRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the cache from the dataset CSV",
	Args:  cobra.NoArgs,
	RunE:  runCacheRebuild,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location, size and freshness",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

func runCacheRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	mustExist(cfg)

	status, err := pipeline.RefreshCache(cmd.Context(), cfg, cacheForce, logger)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(status)
	}
	if status.Rebuilt {
		outputHuman("Cache rebuilt: %d records in %s\n", status.Records, status.Path)
	} else {
		outputHuman("Cache up to date: %d records in %s\n", status.Records, status.Path)
	}
	return nil
}

// CacheInfo is the response for the cache info command.
type CacheInfo struct {
	Path        string    `json:"path"`
	Dataset     string    `json:"dataset"`
	Records     int       `json:"records"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	RebuiltAt   time.Time `json:"rebuilt_at,omitempty"`
	Stale       bool      `json:"stale"`
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	info := CacheInfo{Path: cfg.DBPath(), Dataset: cfg.DatasetPath}
	if info.Records, err = db.CountRecords(); err != nil {
		return err
	}
	if info.Fingerprint, err = db.SourceFingerprint(); err != nil {
		return err
	}
	if info.RebuiltAt, err = db.RebuiltAt(); err != nil {
		return err
	}

	// A missing dataset just means the cache cannot be fresh.
	info.Stale = true
	if fp, err := dataset.Fingerprint(cfg.DatasetPath, cfg.LoadOptions()); err == nil {
		if info.Stale, err = db.IsStale(fp); err != nil {
			return err
		}
	}

	if !humanOutput {
		return outputJSON(info)
	}
	rebuilt := "never"
	if !info.RebuiltAt.IsZero() {
		rebuilt = info.RebuiltAt.Local().Format(time.DateTime)
	}
	t := newTable(cmd.OutOrStdout())
	t.AppendRows([]table.Row{
		{"Path", info.Path},
		{"Dataset", info.Dataset},
		{"Records", info.Records},
		{"Rebuilt", rebuilt},
		{"Stale", info.Stale},
	})
	t.Render()
	return nil
}
