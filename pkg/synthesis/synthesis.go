// Package synthesis drives a full population-synthesis run: it loads the
// land-use table and the seed sample, samples every planning district, and
// writes the synthesized household, person, and worker-category tables.
package synthesis

import (
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/TravelModellingGroup/popsynth/pkg/config"
	"github.com/TravelModellingGroup/popsynth/pkg/landuse"
	"github.com/TravelModellingGroup/popsynth/pkg/sampler"
	"github.com/TravelModellingGroup/popsynth/pkg/seed"
	"github.com/TravelModellingGroup/popsynth/pkg/workers"
)

// Run executes a synthesis run described by cfg. Districts are sampled in
// parallel; their draws are consumed in ascending district order so that
// household ids and file contents are identical across runs and across host
// thread counts.
func Run(cfg *config.Config) error {
	table, err := landuse.Load(cfg.ZoneSystemFile(), cfg.PopulationForecastFile)
	if err != nil {
		return err
	}
	store, err := seed.LoadStore(cfg.InputDirectory)
	if err != nil {
		return err
	}

	districts := table.PlanningDistricts()
	results, err := sampleDistricts(cfg.RandomSeed, districts, store, table)
	if err != nil {
		return err
	}

	out, err := newOutputWriter(cfg.OutputDirectory)
	if err != nil {
		return err
	}
	defer out.close()

	agg := workers.NewAggregator()
	nextID := 1
	totalDraws := 0
	for i, pd := range districts {
		for _, draw := range results[i] {
			hh, ok := store.Household(draw.HouseholdID)
			if !ok {
				return fmt.Errorf("sampled unknown seed household %d", draw.HouseholdID)
			}
			persons := store.Persons(draw.HouseholdID)
			if err := out.writeHousehold(nextID, draw.Zone, hh, persons); err != nil {
				return err
			}
			agg.Record(draw.Zone, hh, persons)
			nextID++
		}
		log.Printf("district %d: %d households drawn", pd, len(results[i]))
		totalDraws += len(results[i])
	}

	if err := out.close(); err != nil {
		return err
	}
	if err := agg.WriteOutputs(cfg.OutputDirectory); err != nil {
		return err
	}

	log.Printf("synthesized %d households across %d districts", totalDraws, len(districts))
	return nil
}

// sampleDistricts fans the districts out across goroutines. Each district
// gets a child seed drawn from the master generator in ascending district
// order, and a result slot indexed by that same order, so concurrency never
// changes what any district draws or where its draws land.
func sampleDistricts(masterSeed int64, districts []int, store *seed.Store, table *landuse.Table) ([][]sampler.Draw, error) {
	master := rand.New(rand.NewSource(masterSeed))
	seeds := make([]int64, len(districts))
	for i := range districts {
		seeds[i] = master.Int63()
	}

	results := make([][]sampler.Draw, len(districts))
	errs := make([]error, len(districts))
	var wg sync.WaitGroup
	for i, pd := range districts {
		wg.Add(1)
		go func(i, pd int) {
			defer wg.Done()
			results[i], errs[i] = sampler.SampleDistrict(pd, seeds[i], store.HouseholdsInPD(pd), table)
		}(i, pd)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// RegenerateWorkerCategories rebuilds the worker-category outputs from an
// already-synthesized HouseholdData directory without sampling. Each
// household is keyed by its planning district, looked up from its zone, so
// the regenerated tables collapse zones to districts. This keeps the
// aggregate outputs in sync after hand edits to the household files.
func RegenerateWorkerCategories(cfg *config.Config) error {
	table, err := landuse.Load(cfg.ZoneSystemFile(), cfg.PopulationForecastFile)
	if err != nil {
		return err
	}

	households, persons, err := loadSynthesized(cfg.OutputDirectory)
	if err != nil {
		return err
	}

	agg := workers.NewAggregator()
	for _, hh := range households {
		// The synthesized file carries the drawn zone in the second
		// column, where the seed schema has the planning district.
		pd, err := table.PD(hh.PD)
		if err != nil {
			return fmt.Errorf("synthesized household %d: %w", hh.ID, err)
		}
		agg.Record(pd, hh, persons[hh.ID])
	}

	if err := agg.WriteOutputs(cfg.OutputDirectory); err != nil {
		return err
	}
	log.Printf("regenerated worker categories from %d synthesized households", len(households))
	return nil
}
