// Package config handles the rend configuration file, environment overrides
// and artifact paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matsen/rendimento/internal/dataset"
)

// Config represents configuration stored in ~/.config/rend/config.yml.
type Config struct {
	DatasetPath   string   `yaml:"dataset_path,omitempty" json:"dataset_path"`
	DatasetURL    string   `yaml:"dataset_url,omitempty" json:"dataset_url"`
	DatasetToken  string   `yaml:"dataset_token,omitempty" json:"-"`
	OutputDir     string   `yaml:"output_dir,omitempty" json:"output_dir"`
	Year          int      `yaml:"year,omitempty" json:"year"`
	States        []string `yaml:"states,omitempty" json:"states"`
	Seed          uint64   `yaml:"seed,omitempty" json:"seed"`
	Delimiter     string   `yaml:"delimiter,omitempty" json:"delimiter"`
	Encoding      string   `yaml:"encoding,omitempty" json:"encoding"`
	LayoutUpdates int      `yaml:"layout_updates,omitempty" json:"layout_updates"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "rend"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Defaults for unset keys.
const (
	DefaultDatasetPath   = "Taxas_de_Rendimento_Escolar.csv"
	DefaultDatasetURL    = "https://www.kaggle.com/api/v1/datasets/download/joaoassaoka/taxas-de-rendimento-escolar-inep/Taxas_de_Rendimento_Escolar_2013_2023.csv"
	DefaultOutputDir     = "."
	DefaultSeed          = 42
	DefaultDelimiter     = ","
	DefaultLayoutUpdates = 50
)

// Environment variables that override the file.
const (
	EnvDataset      = "REND_DATASET"
	EnvOutputDir    = "REND_OUTPUT_DIR"
	EnvYear         = "REND_YEAR"
	EnvSeed         = "REND_SEED"
	EnvDatasetToken = "REND_DATASET_TOKEN"
)

// ErrInvalidConfig is returned when a value cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// globalConfigCache caches the config loaded from the default path.
var globalConfigCache *Config

// Default returns a config with every key at its default.
func Default() *Config {
	return &Config{
		DatasetPath:   DefaultDatasetPath,
		DatasetURL:    DefaultDatasetURL,
		OutputDir:     DefaultOutputDir,
		Year:          dataset.DefaultYear,
		States:        append([]string(nil), dataset.DefaultStates...),
		Seed:          DefaultSeed,
		Delimiter:     DefaultDelimiter,
		Encoding:      dataset.EncodingUTF8,
		LayoutUpdates: DefaultLayoutUpdates,
	}
}

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/rend/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the config from GlobalConfigPath, with environment
// overrides applied. A missing file is not an error.
func LoadGlobalConfig() (*Config, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg, err := Load(GlobalConfigPath())
	if err != nil {
		return nil, err
	}

	globalConfigCache = cfg
	return cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(ExpandPath(path))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	cfg.DatasetPath = ExpandPath(cfg.DatasetPath)
	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	return cfg, nil
}

// ApplyEnv overrides fields from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDataset); v != "" {
		c.DatasetPath = v
	}
	if v := getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := getenv(EnvDatasetToken); v != "" {
		c.DatasetToken = v
	}
	if v := getenv(EnvYear); v != "" {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a year", ErrInvalidConfig, EnvYear, v)
		}
		c.Year = year
	}
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a seed", ErrInvalidConfig, EnvSeed, v)
		}
		c.Seed = seed
	}
	return nil
}

// Validate checks every value the pipeline depends on.
func (c *Config) Validate() error {
	if c.Year < 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidConfig, c.Year)
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if c.Encoding != "" && !validEncoding(c.Encoding) {
		return fmt.Errorf("%w: encoding %q (valid: %v)", ErrInvalidConfig, c.Encoding, dataset.ValidEncodings)
	}
	if c.LayoutUpdates < 0 {
		return fmt.Errorf("%w: layout_updates %d", ErrInvalidConfig, c.LayoutUpdates)
	}
	return nil
}

func validEncoding(enc string) bool {
	for _, v := range dataset.ValidEncodings {
		if strings.EqualFold(enc, v) {
			return true
		}
	}
	return false
}

// DelimiterRune returns the CSV delimiter. "\t" and "tab" both mean a tab.
func (c *Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if size != len(c.Delimiter) || r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", ErrInvalidConfig, c.Delimiter)
	}
	return r, nil
}

// Filter returns the dataset filter for the configured year and states.
func (c *Config) Filter() dataset.Filter {
	return dataset.Filter{Year: c.Year, States: append([]string(nil), c.States...)}
}

// LoadOptions returns the CSV options. Call Validate first.
func (c *Config) LoadOptions() dataset.LoadOptions {
	delim, _ := c.DelimiterRune()
	return dataset.LoadOptions{Delimiter: delim, Encoding: strings.ToLower(c.Encoding)}
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// HelpfulConfigMessage explains how to point rend at a dataset.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No dataset found.

Tip: Create %s to set the dataset location:
  mkdir -p %s
  echo 'dataset_path: /path/to/Taxas_de_Rendimento_Escolar.csv' > %s

Or set %s, download it with 'rend fetch', or try 'rend run --sample'.`,
		configPath,
		filepath.Dir(configPath),
		configPath,
		EnvDataset)
}
