// Package workers accumulates worker-category tables from synthesized
// households: per home zone, a 24-cell matrix over occupation, employment
// class, and household worker-mobility class.
package workers

import (
	"sort"

	"github.com/TravelModellingGroup/popsynth/pkg/seed"
)

// Dimensions of the flat per-zone matrix. The index of a cell is
// (occupation + 4*employment)*3 + mobility.
const (
	occupations     = 4 // P, G, S, M
	employments     = 2 // F, P
	mobilityClasses = 3
	cellCount       = occupations * employments * mobilityClasses
)

var (
	occupationCodes = [occupations]string{"P", "G", "S", "M"}
	employmentCodes = [employments]string{"F", "P"}
)

// Aggregator accumulates expansion-factor contributions keyed by home zone.
// Zones with no contributions never materialize.
type Aggregator struct {
	cells map[int]*[cellCount]float64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{cells: map[int]*[cellCount]float64{}}
}

// Record accumulates one household's contribution for its home zone. The
// mobility class is computed once per household; each person with a valid
// occupation-employment pair then adds the household's expansion factor to
// the matching cell. Work-from-home and unemployed persons are skipped.
func (a *Aggregator) Record(zone int, hh seed.Household, persons []seed.Person) {
	mobility := MobilityClass(hh.NumberOfVehicles, CountLicenses(persons))
	for _, p := range persons {
		o, ok := occupationIndex(p.Occupation)
		if !ok {
			continue
		}
		e, ok := employmentIndex(p.EmploymentStatus)
		if !ok {
			continue
		}
		cells, ok := a.cells[zone]
		if !ok {
			cells = &[cellCount]float64{}
			a.cells[zone] = cells
		}
		cells[(o+occupations*e)*mobilityClasses+mobility] += hh.ExpansionFactor
	}
}

// Zones returns the zones with contributions in ascending order.
func (a *Aggregator) Zones() []int {
	zones := make([]int, 0, len(a.cells))
	for zone := range a.cells {
		zones = append(zones, zone)
	}
	sort.Ints(zones)
	return zones
}

// Cell returns one accumulated cell value for a zone.
func (a *Aggregator) Cell(zone, occupation, employment, mobility int) float64 {
	cells, ok := a.cells[zone]
	if !ok {
		return 0
	}
	return cells[(occupation+occupations*employment)*mobilityClasses+mobility]
}

// MobilityClass classifies a household by vehicle availability relative to
// its licensed drivers: 0 when it has no vehicles or no licenses, 1 when
// vehicles are scarcer than licenses, 2 otherwise.
func MobilityClass(vehicles, licenses int) int {
	switch {
	case vehicles == 0 || licenses == 0:
		return 0
	case vehicles < licenses:
		return 1
	default:
		return 2
	}
}

// CountLicenses returns the number of persons holding a driver's license.
func CountLicenses(persons []seed.Person) int {
	n := 0
	for _, p := range persons {
		if p.License == "Y" {
			n++
		}
	}
	return n
}

func occupationIndex(code string) (int, bool) {
	switch code {
	case "P":
		return 0, true
	case "G":
		return 1, true
	case "S":
		return 2, true
	case "M":
		return 3, true
	}
	return 0, false
}

func employmentIndex(code string) (int, bool) {
	switch code {
	case "F":
		return 0, true
	case "P":
		return 1, true
	}
	return 0, false
}
