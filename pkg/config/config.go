package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries everything a synthesis run needs: where the inputs live,
// where the outputs go, and the seed that makes the run reproducible.
type Config struct {
	PopulationForecastFile string `yaml:"population_forecast_file"`
	InputDirectory         string `yaml:"input_directory"`
	OutputDirectory        string `yaml:"output_directory"`
	RandomSeed             int64  `yaml:"random_seed"`
}

// Load reads a synthesis configuration from a YAML file. Relative paths in
// the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	base := filepath.Dir(path)
	cfg.PopulationForecastFile = resolve(base, cfg.PopulationForecastFile)
	cfg.InputDirectory = resolve(base, cfg.InputDirectory)
	cfg.OutputDirectory = resolve(base, cfg.OutputDirectory)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadProject loads the configuration from a project directory.
// It looks for synthesis.yaml in the given directory.
func LoadProject(projectDir string) (*Config, error) {
	return Load(filepath.Join(projectDir, "synthesis.yaml"))
}

// Validate checks that the required fields are present.
func (c *Config) Validate() error {
	if c.PopulationForecastFile == "" {
		return fmt.Errorf("config: population_forecast_file is required")
	}
	if c.InputDirectory == "" {
		return fmt.Errorf("config: input_directory is required")
	}
	if c.OutputDirectory == "" {
		return fmt.Errorf("config: output_directory is required")
	}
	return nil
}

// ZoneSystemFile returns the path of the zone-system table inside the
// input directory.
func (c *Config) ZoneSystemFile() string {
	return filepath.Join(c.InputDirectory, "ZoneSystem.csv")
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
