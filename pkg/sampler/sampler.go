// Package sampler fills the zones of one planning district with seed
// households. Draws are weighted by residual expansion factor and made
// without replacement until every zone meets its rounded population target.
package sampler

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/TravelModellingGroup/popsynth/pkg/landuse"
	"github.com/TravelModellingGroup/popsynth/pkg/seed"
)

// Draw records one selected household and the zone it was drawn for.
type Draw struct {
	HouseholdID int
	Zone        int
}

const (
	// numberOfAttempts bounds how many times a zone may retry a pick,
	// refilling the residual weights between tries, before the run aborts.
	numberOfAttempts = 3

	// weightFloor clamps residual weights to zero once a draw leaves less
	// than this behind.
	weightFloor = 0.01
)

// splitmix64 odd constant, used to decorrelate the district seed from the
// district number.
const seedMix uint64 = 0x9E3779B97F4A7C15

type district struct {
	pd        int
	pool      []seed.Household
	weights   []float64
	weightSum float64
	zones     []int
	remaining []int
	rng       []*rand.Rand // one generator per zone
}

// SampleDistrict draws households for every zone of planning district pd
// until each zone's remaining-persons counter reaches zero. The result is
// deterministic in (pd, districtSeed, pool, table) and independent of how
// other districts are sampled.
func SampleDistrict(pd int, districtSeed int64, pool []seed.Household, table *landuse.Table) ([]Draw, error) {
	zones, err := table.ZonesInPD(pd)
	if err != nil {
		return nil, err
	}

	d := &district{
		pd:        pd,
		pool:      append([]seed.Household(nil), pool...),
		weights:   make([]float64, len(pool)),
		zones:     zones,
		remaining: make([]int, len(zones)),
		rng:       make([]*rand.Rand, len(zones)),
	}
	sort.Slice(d.pool, func(i, j int) bool { return d.pool[i].ID < d.pool[j].ID })
	d.refill()

	for i, zone := range zones {
		pop, err := table.Population(zone)
		if err != nil {
			return nil, err
		}
		d.remaining[i] = int(math.Round(pop))
	}

	// Each zone owns its own generator, seeded from a master derived from
	// the district seed. A zone's outcomes then depend only on its own
	// stream, not on the iteration order over zones.
	master := rand.New(rand.NewSource(int64(uint64(districtSeed) ^ uint64(int64(pd))*seedMix)))
	for i := range d.rng {
		d.rng[i] = rand.New(rand.NewSource(master.Int63()))
	}

	return d.run()
}

// run makes round-robin passes over the zones, drawing one household per
// needy zone per pass, until no zone still has persons to place.
func (d *district) run() ([]Draw, error) {
	var draws []Draw
	for {
		needed := false
		for i := range d.zones {
			if d.remaining[i] <= 0 {
				continue
			}
			needed = true
			k, err := d.pick(i)
			if err != nil {
				return nil, err
			}
			hh := d.pool[k]
			d.remaining[i] -= hh.NumberOfPersons
			d.spend(k)
			draws = append(draws, Draw{HouseholdID: hh.ID, Zone: d.zones[i]})
		}
		if !needed {
			return draws, nil
		}
	}
}

// pick selects a pool index for zone i by a cumulative walk over the
// residual weights. A candidate must carry positive weight and fit within
// the zone's remaining-persons counter. If the walk fails, the weights are
// refilled from the pool's expansion factors and the pick is retried.
func (d *district) pick(i int) (int, error) {
	for attempt := 0; attempt < numberOfAttempts; attempt++ {
		u := d.rng[i].Float64() * d.weightSum
		acc := 0.0
		for k := range d.pool {
			acc += d.weights[k]
			if acc >= u && d.weights[k] > 0 && d.pool[k].NumberOfPersons <= d.remaining[i] {
				return k, nil
			}
		}
		if attempt < numberOfAttempts-1 {
			d.refill()
		}
	}
	return 0, d.failure(i)
}

// spend charges one unit of weight to the selected pool entry, clamping
// residuals below the floor to zero and keeping the running sum in step.
func (d *district) spend(k int) {
	prev := d.weights[k]
	w := prev - 1
	if w < weightFloor {
		w = 0
	}
	d.weights[k] = w
	d.weightSum -= prev - w
}

// refill resets the residual weights to the pool's expansion factors.
func (d *district) refill() {
	sum := 0.0
	for k, hh := range d.pool {
		d.weights[k] = hh.ExpansionFactor
		sum += hh.ExpansionFactor
	}
	d.weightSum = sum
}

// failure inspects the district state and names the most specific reason a
// zone could not be satisfied.
func (d *district) failure(i int) error {
	zone := d.zones[i]
	if len(d.pool) == 0 {
		return fmt.Errorf("planning district %d has no seed households to fill zone %d", d.pd, zone)
	}
	fits := false
	for _, hh := range d.pool {
		if hh.NumberOfPersons <= d.remaining[i] {
			fits = true
			break
		}
	}
	if !fits {
		return fmt.Errorf("no seed household in planning district %d is small enough for zone %d (%d persons remaining)",
			d.pd, zone, d.remaining[i])
	}
	if d.weightSum == 0 {
		return fmt.Errorf("seed household weights for planning district %d are exhausted while filling zone %d", d.pd, zone)
	}
	return fmt.Errorf("sampling failed for zone %d after %d attempts", zone, numberOfAttempts)
}

// MinHouseholdSize returns the smallest NumberOfPersons in a pool, or 0 for
// an empty pool.
func MinHouseholdSize(pool []seed.Household) int {
	minSize := 0
	for _, hh := range pool {
		if minSize == 0 || hh.NumberOfPersons < minSize {
			minSize = hh.NumberOfPersons
		}
	}
	return minSize
}
