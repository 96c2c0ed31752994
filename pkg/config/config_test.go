package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	content := `population_forecast_file: forecast/Population.csv
input_directory: inputs
output_directory: /tmp/synthesis-out
random_seed: 12345
`
	if err := os.WriteFile(filepath.Join(dir, "synthesis.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if want := filepath.Join(dir, "forecast", "Population.csv"); cfg.PopulationForecastFile != want {
		t.Errorf("PopulationForecastFile = %q, want %q", cfg.PopulationForecastFile, want)
	}
	if want := filepath.Join(dir, "inputs"); cfg.InputDirectory != want {
		t.Errorf("InputDirectory = %q, want %q", cfg.InputDirectory, want)
	}
	if cfg.OutputDirectory != "/tmp/synthesis-out" {
		t.Errorf("OutputDirectory = %q, want absolute path kept as-is", cfg.OutputDirectory)
	}
	if cfg.RandomSeed != 12345 {
		t.Errorf("RandomSeed = %d, want 12345", cfg.RandomSeed)
	}
	if want := filepath.Join(dir, "inputs", "ZoneSystem.csv"); cfg.ZoneSystemFile() != want {
		t.Errorf("ZoneSystemFile() = %q, want %q", cfg.ZoneSystemFile(), want)
	}
}

func TestLoadMissingField(t *testing.T) {
	dir := t.TempDir()
	content := "input_directory: inputs\noutput_directory: out\n"
	if err := os.WriteFile(filepath.Join(dir, "synthesis.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadProject(dir); err == nil {
		t.Error("LoadProject should fail without a forecast file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadProject(t.TempDir()); err == nil {
		t.Error("LoadProject should fail when synthesis.yaml is absent")
	}
}
