package config

import (
	"os"
	"path/filepath"
)

// Artifact file names, as the report has always named them.
const (
	RatesChartFile = "plot1_taxas_percentuais.png"
	PieChartFile   = "plot2_abandono_pizza.png"
	StageChartFile = "plot3_abandono_etapa.png"
	GraphImageFile = "grafo_conexoes.png"
	GraphHTMLFile  = "grafo_conexoes.html"
	ReportFile     = "relatorio_visualizacao.pdf"
	CacheDir       = ".cache"
	DBFile         = "dataset.db"
)

// RatesChartPath returns the path of the per-state rates chart.
func (c *Config) RatesChartPath() string {
	return filepath.Join(c.OutputDir, RatesChartFile)
}

// PieChartPath returns the path of the dropout share chart.
func (c *Config) PieChartPath() string {
	return filepath.Join(c.OutputDir, PieChartFile)
}

// StageChartPath returns the path of the dropout-by-stage chart.
func (c *Config) StageChartPath() string {
	return filepath.Join(c.OutputDir, StageChartFile)
}

// GraphImagePath returns the path of the static graph image.
func (c *Config) GraphImagePath() string {
	return filepath.Join(c.OutputDir, GraphImageFile)
}

// GraphHTMLPath returns the path of the interactive graph page.
func (c *Config) GraphHTMLPath() string {
	return filepath.Join(c.OutputDir, GraphHTMLFile)
}

// ReportPath returns the path of the PDF report.
func (c *Config) ReportPath() string {
	return filepath.Join(c.OutputDir, ReportFile)
}

// CachePath returns the cache directory under the output directory.
func (c *Config) CachePath() string {
	return filepath.Join(c.OutputDir, CacheDir)
}

// DBPath returns the path to the SQLite cache.
func (c *Config) DBPath() string {
	return filepath.Join(c.OutputDir, CacheDir, DBFile)
}

// ChartPaths returns the three chart paths in report order.
func (c *Config) ChartPaths() []string {
	return []string{c.RatesChartPath(), c.PieChartPath(), c.StageChartPath()}
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
