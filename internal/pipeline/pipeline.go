// Package pipeline runs the full report: load, filter, summarise, chart,
// graph and PDF. Each stage is exported so CLI commands can run one alone.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/matsen/rendimento/internal/chart"
	"github.com/matsen/rendimento/internal/config"
	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/relgraph"
	"github.com/matsen/rendimento/internal/report"
	"github.com/matsen/rendimento/internal/storage"
	"github.com/matsen/rendimento/internal/summary"
	"github.com/matsen/rendimento/internal/viz"
)

// Options configures a run.
type Options struct {
	Config  *config.Config
	Sample  bool // use the built-in sample instead of the dataset file
	NoCache bool // parse the CSV directly, bypassing the SQLite cache

	HTML viz.HTMLOptions
}

// Input is the filtered data every later stage works from.
type Input struct {
	Records   []dataset.Record
	GraphRows []relgraph.Row
	Skipped   int  // rows left out of the graph for a blank value
	FromCache bool // served by the SQLite cache
}

// Artifacts lists everything a run produced.
type Artifacts struct {
	Records   int             `json:"records"`
	Skipped   int             `json:"skipped_graph_rows"`
	FromCache bool            `json:"from_cache"`
	Summary   summary.Summary `json:"summary"`
	Nodes     int             `json:"nodes"`
	Edges     int             `json:"edges"`
	Layout    relgraph.Layout `json:"layout"`

	Charts     []string `json:"charts"`
	GraphImage string   `json:"graph_image"`
	GraphHTML  string   `json:"graph_html"`
	Report     string   `json:"report"`

	Graph *relgraph.Graph `json:"-"`
}

// Run executes every stage in order and stops at the first error.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (*Artifacts, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	in, err := LoadInput(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	art := &Artifacts{
		Records:   len(in.Records),
		Skipped:   in.Skipped,
		FromCache: in.FromCache,
		Summary:   summary.Compute(in.Records),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	art.Charts, err = RenderCharts(art.Summary, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, layout, err := BuildGraph(in.GraphRows, cfg)
	if err != nil {
		return nil, err
	}
	art.Graph = g
	art.Layout = layout
	art.Nodes = g.NodeCount()
	art.Edges = g.EdgeCount()
	logger.Info("graph built",
		zap.Int("nodes", art.Nodes),
		zap.Int("edges", art.Edges),
		zap.Int("skipped_rows", in.Skipped))

	data := viz.FromGraph(g, layout)
	art.GraphImage = cfg.GraphImagePath()
	if err := viz.RenderPNG(data, art.GraphImage); err != nil {
		return nil, err
	}
	art.GraphHTML = cfg.GraphHTMLPath()
	if err := WriteHTML(data, opts.HTML, art.GraphHTML); err != nil {
		return nil, err
	}
	logger.Debug("graph rendered",
		zap.String("image", art.GraphImage),
		zap.String("html", art.GraphHTML))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	images := append(append([]string(nil), art.Charts...), art.GraphImage)
	art.Report = cfg.ReportPath()
	rep := report.New(cfg.Year, reportStates(cfg, in.Records), images)
	if err := report.Build(rep, art.Report); err != nil {
		return nil, err
	}
	logger.Info("report written",
		zap.String("path", art.Report),
		zap.Int("pages", report.PageCount(len(images))))

	return art, nil
}

// reportStates names the configured states, or every state present when the
// filter does not restrict them.
func reportStates(cfg *config.Config, records []dataset.Record) []string {
	if len(cfg.States) > 0 {
		return cfg.States
	}
	return summary.States(records)
}

// RenderCharts writes the three charts and returns their paths in report
// order.
func RenderCharts(s summary.Summary, cfg *config.Config, logger *zap.Logger) ([]string, error) {
	rates, err := chart.RatesBar(s.Rates, cfg.Year)
	if err != nil {
		return nil, err
	}
	if err := chart.Save(rates, cfg.RatesChartPath(), chart.BarSize); err != nil {
		return nil, err
	}

	if err := chart.Save(chart.DropoutPie(s.Shares, cfg.Year), cfg.PieChartPath(), chart.PieSize); err != nil {
		return nil, err
	}

	stages, err := chart.StageBar(s.Stages, cfg.Year)
	if err != nil {
		return nil, err
	}
	if err := chart.Save(stages, cfg.StageChartPath(), chart.BarSize); err != nil {
		return nil, err
	}

	paths := cfg.ChartPaths()
	logger.Info("charts written", zap.Strings("paths", paths))
	return paths, nil
}

// BuildGraph builds the relationship graph and its layout.
func BuildGraph(rows []relgraph.Row, cfg *config.Config) (*relgraph.Graph, relgraph.Layout, error) {
	g := relgraph.Build(rows)
	opts := relgraph.DefaultLayoutOptions()
	opts.Seed = cfg.Seed
	if cfg.LayoutUpdates > 0 {
		opts.Updates = cfg.LayoutUpdates
	}
	layout, err := g.Layout(opts)
	if err != nil {
		return nil, nil, err
	}
	return g, layout, nil
}

// WriteHTML renders the interactive graph page to path.
func WriteHTML(data *viz.GraphData, opts viz.HTMLOptions, path string) error {
	html, err := viz.GenerateHTML(data, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadInput loads and filters the records, through the cache unless
// disabled. An empty result is dataset.ErrInvalidInput.
func LoadInput(ctx context.Context, opts Options, logger *zap.Logger) (*Input, error) {
	cfg := opts.Config
	filter := cfg.Filter()

	if opts.Sample {
		logger.Info("using built-in sample data")
		return fromRecords(dataset.Sample(), filter)
	}

	if opts.NoCache {
		records, err := dataset.Load(cfg.DatasetPath, cfg.LoadOptions())
		if err != nil {
			return nil, err
		}
		logger.Debug("dataset parsed", zap.String("path", cfg.DatasetPath), zap.Int("records", len(records)))
		return fromRecords(records, filter)
	}

	return loadCached(ctx, cfg, logger)
}

func fromRecords(records []dataset.Record, filter dataset.Filter) (*Input, error) {
	filtered, err := filter.ApplyNonEmpty(records)
	if err != nil {
		return nil, err
	}
	rows, skipped := dataset.GraphRows(filtered)
	return &Input{Records: filtered, GraphRows: relgraph.Dedupe(rows), Skipped: skipped}, nil
}

func loadCached(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Input, error) {
	if _, err := RefreshCache(ctx, cfg, false, logger); err != nil {
		return nil, err
	}

	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	filter := cfg.Filter()
	records, err := db.QueryRecords(filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records match %s", dataset.ErrInvalidInput, filter)
	}
	rows, err := db.DistinctGraphRows(filter)
	if err != nil {
		return nil, err
	}
	_, skipped := dataset.GraphRows(records)

	return &Input{Records: records, GraphRows: rows, Skipped: skipped, FromCache: true}, nil
}

// CacheStatus reports what RefreshCache found or did.
type CacheStatus struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
	Records     int    `json:"records"`
	Rebuilt     bool   `json:"rebuilt"`
}

// RefreshCache rebuilds the SQLite cache when the dataset file changed, or
// always when force is set.
func RefreshCache(ctx context.Context, cfg *config.Config, force bool, logger *zap.Logger) (*CacheStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fp, err := dataset.Fingerprint(cfg.DatasetPath, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}

	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	status := &CacheStatus{Path: cfg.DBPath(), Fingerprint: fp}

	stale, err := db.IsStale(fp)
	if err != nil {
		return nil, err
	}
	if stale || force {
		records, err := dataset.Load(cfg.DatasetPath, cfg.LoadOptions())
		if err != nil {
			return nil, err
		}
		if err := db.ReplaceRecords(records, fp); err != nil {
			return nil, err
		}
		status.Rebuilt = true
		logger.Info("cache rebuilt",
			zap.String("dataset", cfg.DatasetPath),
			zap.Int("records", len(records)))
	}

	status.Records, err = db.CountRecords()
	if err != nil {
		return nil, err
	}
	return status, nil
}
