package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	cfg := &Config{OutputDir: "/test/out"}

	tests := []struct {
		name string
		fn   func() string
		want string
	}{
		{"RatesChartPath", cfg.RatesChartPath, "/test/out/plot1_taxas_percentuais.png"},
		{"PieChartPath", cfg.PieChartPath, "/test/out/plot2_abandono_pizza.png"},
		{"StageChartPath", cfg.StageChartPath, "/test/out/plot3_abandono_etapa.png"},
		{"GraphImagePath", cfg.GraphImagePath, "/test/out/grafo_conexoes.png"},
		{"GraphHTMLPath", cfg.GraphHTMLPath, "/test/out/grafo_conexoes.html"},
		{"ReportPath", cfg.ReportPath, "/test/out/relatorio_visualizacao.pdf"},
		{"CachePath", cfg.CachePath, "/test/out/.cache"},
		{"DBPath", cfg.DBPath, "/test/out/.cache/dataset.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if got := cfg.ChartPaths(); len(got) != 3 || got[1] != cfg.PieChartPath() {
		t.Errorf("ChartPaths() = %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/data.csv", filepath.Join(home, "data.csv")},
		{"/abs/data.csv", "/abs/data.csv"},
		{"rel/data.csv", "rel/data.csv"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rend", "config.yml")

	cfg := Default()
	cfg.DatasetPath = "/data/rendimento.csv"
	cfg.Year = 2021
	cfg.States = []string{"Bahia"}
	cfg.Delimiter = ";"
	cfg.Encoding = "latin1"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DatasetPath != cfg.DatasetPath || loaded.Year != 2021 || loaded.Delimiter != ";" {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
	if len(loaded.States) != 1 || loaded.States[0] != "Bahia" {
		t.Errorf("States = %v, want [Bahia]", loaded.States)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("year: 2020\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Year != 2020 {
		t.Errorf("Year = %d, want 2020", cfg.Year)
	}
	if cfg.Seed != DefaultSeed || cfg.LayoutUpdates != DefaultLayoutUpdates {
		t.Errorf("defaults lost: seed %d, layout_updates %d", cfg.Seed, cfg.LayoutUpdates)
	}
	if len(cfg.States) != 3 {
		t.Errorf("States = %v, want the three default states", cfg.States)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("year: [not, a, year"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"semicolon", func(c *Config) { c.Delimiter = ";" }, false},
		{"tab", func(c *Config) { c.Delimiter = "tab" }, false},
		{"long delimiter", func(c *Config) { c.Delimiter = ";;" }, true},
		{"quote delimiter", func(c *Config) { c.Delimiter = `"` }, true},
		{"windows-1252", func(c *Config) { c.Encoding = "Windows-1252" }, false},
		{"unknown encoding", func(c *Config) { c.Encoding = "ebcdic" }, true},
		{"negative year", func(c *Config) { c.Year = -1 }, true},
		{"negative updates", func(c *Config) { c.LayoutUpdates = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	cfg := Default()
	cfg.Delimiter = ";"
	cfg.Encoding = "LATIN1"

	opts := cfg.LoadOptions()
	if opts.Delimiter != ';' || opts.Encoding != "latin1" {
		t.Errorf("LoadOptions() = %+v", opts)
	}

	f := cfg.Filter()
	f.States[0] = "changed"
	if cfg.States[0] == "changed" {
		t.Error("Filter() shares the States slice with the config")
	}
}
