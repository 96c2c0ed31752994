package synthesis

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/TravelModellingGroup/popsynth/pkg/seed"
)

const (
	householdHeader = "HouseholdID,Zone,ExpansionFactor,DwellingType,NumberOfPersons,NumberOfVehicles,Income"

	// The person header has always named the last two district columns
	// EmploymentZone and SchoolZone even though the rows carry planning
	// districts. Downstream consumers depend on these names.
	personHeader = "HouseholdID,PersonNumber,Age,Sex,License,TransitPass,EmploymentStatus,Occupation,FreeParking,StudentStatus,EmploymentZone,SchoolZone,ExpansionFactor"
)

// outputWriter emits the synthesized household and person tables under
// OutputDirectory/HouseholdData.
type outputWriter struct {
	householdFile *os.File
	personFile    *os.File
	households    *bufio.Writer
	persons       *bufio.Writer
	closed        bool
}

func newOutputWriter(outputDir string) (*outputWriter, error) {
	dir := filepath.Join(outputDir, "HouseholdData")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	hf, err := os.Create(filepath.Join(dir, "Households.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating household output: %w", err)
	}
	pf, err := os.Create(filepath.Join(dir, "Persons.csv"))
	if err != nil {
		hf.Close()
		return nil, fmt.Errorf("creating person output: %w", err)
	}

	w := &outputWriter{
		householdFile: hf,
		personFile:    pf,
		households:    bufio.NewWriter(hf),
		persons:       bufio.NewWriter(pf),
	}
	fmt.Fprintln(w.households, householdHeader)
	fmt.Fprintln(w.persons, personHeader)
	return w, nil
}

// writeHousehold emits one synthesized household and its persons. The
// household's expansion factor is written as 1 (each drawn instance stands
// for one concrete household); each person's factor is normalized by the
// household's mean seed expansion factor. Persons are renumbered 1..k in
// seed order.
func (w *outputWriter) writeHousehold(id, zone int, hh seed.Household, persons []seed.Person) error {
	_, err := fmt.Fprintf(w.households, "%d,%d,1,%d,%d,%d,%d\n",
		id, zone, hh.DwellingType, hh.NumberOfPersons, hh.NumberOfVehicles, hh.Income)
	if err != nil {
		return fmt.Errorf("writing household %d: %w", id, err)
	}

	mean := seed.MeanExpansion(persons)
	for n, p := range persons {
		factor := 0.0
		if mean > 0 {
			factor = p.ExpansionFactor / mean
		}
		_, err := fmt.Fprintf(w.persons, "%d,%d,%d,%s,%s,%s,%s,%s,%s,%s,%d,%d,%s\n",
			id, n+1, p.Age, p.Sex, p.License, p.TransitPass,
			p.EmploymentStatus, p.Occupation, yesNo(p.FreeParking), p.StudentStatus,
			p.EmploymentPD, p.SchoolPD, strconv.FormatFloat(factor, 'g', -1, 64))
		if err != nil {
			return fmt.Errorf("writing persons of household %d: %w", id, err)
		}
	}
	return nil
}

func (w *outputWriter) close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.households.Flush(); err != nil {
		return err
	}
	if err := w.persons.Flush(); err != nil {
		return err
	}
	if err := w.householdFile.Close(); err != nil {
		return err
	}
	return w.personFile.Close()
}

func yesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

// loadSynthesized reads a HouseholdData directory produced by a previous
// run, for the regenerate path.
func loadSynthesized(outputDir string) ([]seed.Household, map[int][]seed.Person, error) {
	dir := filepath.Join(outputDir, "HouseholdData")
	households, err := seed.LoadHouseholdFile(filepath.Join(dir, "Households.csv"))
	if err != nil {
		return nil, nil, err
	}
	persons, err := seed.LoadPersonFile(filepath.Join(dir, "Persons.csv"))
	if err != nil {
		return nil, nil, err
	}
	return households, persons, nil
}
