package main

import (
	"fmt"
	"os"

	"github.com/TravelModellingGroup/popsynth/pkg/config"
	"github.com/TravelModellingGroup/popsynth/pkg/synthesis"
)

func runSynthesize(projectPath string) error {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return synthesis.Run(cfg)
}

func runWorkers(projectPath string) error {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return synthesis.RegenerateWorkerCategories(cfg)
}

func runValidate(projectPath string) error {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	report := synthesis.ValidateInputs(cfg)
	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}
