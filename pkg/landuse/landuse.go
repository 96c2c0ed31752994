package landuse

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Table holds the zone system and the forecast population. Zones are keyed
// by their TAZ number; each zone belongs to exactly one planning district.
type Table struct {
	districts []int         // ascending, unique
	zonesByPD map[int][]int // zone-system file order within each district
	pdByZone  map[int]int
	popByZone map[int]float64 // zones without a forecast row are absent
}

// Load builds the table from the zone-system file (columns Zone,PD) and the
// forecast-population file (columns Zone,Population). It fails if any row is
// unparseable or if the forecast references a zone that is not part of the
// zone system.
func Load(zoneSystemPath, forecastPath string) (*Table, error) {
	t := &Table{
		zonesByPD: map[int][]int{},
		pdByZone:  map[int]int{},
		popByZone: map[int]float64{},
	}

	err := readRows(zoneSystemPath, 2, func(row int, fields []string) error {
		zone, err := parseIntColumn(fields[0], "Zone", row)
		if err != nil {
			return err
		}
		pd, err := parseIntColumn(fields[1], "PD", row)
		if err != nil {
			return err
		}
		if _, seen := t.pdByZone[zone]; !seen {
			t.zonesByPD[pd] = append(t.zonesByPD[pd], zone)
		}
		t.pdByZone[zone] = pd
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", zoneSystemPath, err)
	}

	err = readRows(forecastPath, 2, func(row int, fields []string) error {
		zone, err := parseIntColumn(fields[0], "Zone", row)
		if err != nil {
			return err
		}
		pop, err := parseFloatColumn(fields[1], "Population", row)
		if err != nil {
			return err
		}
		if _, ok := t.pdByZone[zone]; !ok {
			return fmt.Errorf("row %d: forecast zone %d is not in the zone system", row, zone)
		}
		t.popByZone[zone] = pop
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", forecastPath, err)
	}

	for pd := range t.zonesByPD {
		t.districts = append(t.districts, pd)
	}
	sort.Ints(t.districts)

	return t, nil
}

// PlanningDistricts returns the planning districts in ascending order, each
// appearing once.
func (t *Table) PlanningDistricts() []int {
	return t.districts
}

// ZonesInPD returns the zones of the given planning district in zone-system
// file order.
func (t *Table) ZonesInPD(pd int) ([]int, error) {
	zones, ok := t.zonesByPD[pd]
	if !ok {
		return nil, fmt.Errorf("unknown planning district %d", pd)
	}
	return zones, nil
}

// Population returns the forecast population of a zone. A zone that is part
// of the zone system but has no forecast row has population 0.
func (t *Table) Population(zone int) (float64, error) {
	if _, ok := t.pdByZone[zone]; !ok {
		return 0, fmt.Errorf("unknown zone %d", zone)
	}
	return t.popByZone[zone], nil
}

// PD returns the planning district a zone belongs to.
func (t *Table) PD(zone int) (int, error) {
	pd, ok := t.pdByZone[zone]
	if !ok {
		return 0, fmt.Errorf("unknown zone %d", zone)
	}
	return pd, nil
}

// Zones returns the number of zones in the system.
func (t *Table) Zones() int {
	return len(t.pdByZone)
}

// readRows streams the records of a headered CSV file, skipping the header
// row. Each data row must have at least minFields fields.
func readRows(path string, minFields int, fn func(row int, fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	for row := 0; ; row++ {
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", row+1, err)
		}
		if row == 0 {
			continue // header
		}
		if len(fields) < minFields {
			return fmt.Errorf("row %d: expected %d columns, got %d", row+1, minFields, len(fields))
		}
		if err := fn(row+1, fields); err != nil {
			return err
		}
	}
}

func parseIntColumn(s, column string, row int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %s: %q is not an integer", row, column, s)
	}
	return v, nil
}

func parseFloatColumn(s, column string, row int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %s: %q is not a number", row, column, s)
	}
	return v, nil
}
