package synthesis

import (
	"fmt"
	"math"
	"os"

	"github.com/TravelModellingGroup/popsynth/pkg/config"
	"github.com/TravelModellingGroup/popsynth/pkg/landuse"
	"github.com/TravelModellingGroup/popsynth/pkg/sampler"
	"github.com/TravelModellingGroup/popsynth/pkg/seed"
	"github.com/TravelModellingGroup/popsynth/pkg/validation"
)

// ValidateInputs loads every input named by the configuration and reports
// anything that would abort a synthesis run, without drawing a single
// household. Feasibility checks mirror the sampler's diagnostic terminator
// so problems surface before a long run instead of partway through one.
func ValidateInputs(cfg *config.Config) *validation.Report {
	report := validation.NewReport()

	for _, path := range []string{
		cfg.PopulationForecastFile,
		cfg.ZoneSystemFile(),
	} {
		if _, err := os.Stat(path); err != nil {
			report.AddError(validation.Result{
				Level:   validation.LevelSchema,
				Message: "input file is not readable",
				Path:    path,
			})
		}
	}
	if !report.Valid {
		return report
	}

	table, err := landuse.Load(cfg.ZoneSystemFile(), cfg.PopulationForecastFile)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelIntegrity,
			Message: err.Error(),
		})
		return report
	}
	store, err := seed.LoadStore(cfg.InputDirectory)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelIntegrity,
			Message: err.Error(),
		})
		return report
	}
	if err := store.Validate(); err != nil {
		report.AddWarning(validation.Result{
			Level:   validation.LevelIntegrity,
			Message: err.Error(),
		})
	}

	totalDemand := 0
	for _, pd := range table.PlanningDistricts() {
		zones, err := table.ZonesInPD(pd)
		if err != nil {
			report.AddError(validation.Result{Level: validation.LevelIntegrity, Message: err.Error()})
			continue
		}
		demand := 0
		targets := make([]int, len(zones))
		for i, zone := range zones {
			pop, err := table.Population(zone)
			if err != nil {
				report.AddError(validation.Result{Level: validation.LevelIntegrity, Message: err.Error()})
				continue
			}
			targets[i] = int(math.Round(pop))
			demand += targets[i]
		}
		totalDemand += demand

		pool := store.HouseholdsInPD(pd)
		if demand > 0 && len(pool) == 0 {
			report.AddError(validation.Result{
				Level:   validation.LevelSampling,
				Message: fmt.Sprintf("planning district %d needs %d persons but has no seed households", pd, demand),
			})
			continue
		}
		minSize := sampler.MinHouseholdSize(pool)
		for i, zone := range zones {
			if targets[i] > 0 && targets[i] < minSize {
				report.AddError(validation.Result{
					Level: validation.LevelSampling,
					Message: fmt.Sprintf("zone %d target of %d persons is below the smallest household in district %d (%d persons)",
						zone, targets[i], pd, minSize),
				})
			}
		}

		report.AddInfo(validation.Result{
			Level: validation.LevelSampling,
			Message: fmt.Sprintf("district %d: %d zones, %d seed households, %d persons to place",
				pd, len(zones), len(pool), demand),
		})
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelSampling,
		Message: fmt.Sprintf("total: %d zones, %d seed households, %d persons to place",
			table.Zones(), store.Len(), totalDemand),
	})
	return report
}
