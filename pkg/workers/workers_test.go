package workers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TravelModellingGroup/popsynth/pkg/seed"
)

func TestMobilityClass(t *testing.T) {
	cases := []struct {
		vehicles, licenses, want int
	}{
		{0, 2, 0},
		{2, 0, 0},
		{0, 0, 0},
		{1, 2, 1},
		{2, 2, 2},
		{3, 2, 2},
	}
	for _, c := range cases {
		if got := MobilityClass(c.vehicles, c.licenses); got != c.want {
			t.Errorf("MobilityClass(%d, %d) = %d, want %d", c.vehicles, c.licenses, got, c.want)
		}
	}
}

func TestCountLicenses(t *testing.T) {
	persons := []seed.Person{{License: "Y"}, {License: "N"}, {License: "Y"}}
	if got := CountLicenses(persons); got != 2 {
		t.Errorf("CountLicenses = %d, want 2", got)
	}
}

// The minimal aggregation case: zero vehicles puts the household in
// mobility class 0, and its one full-time professional adds the household
// expansion factor to the first cell.
func TestRecord(t *testing.T) {
	a := NewAggregator()
	hh := seed.Household{ID: 1, ExpansionFactor: 7, NumberOfVehicles: 0}
	persons := []seed.Person{
		{License: "Y", Occupation: "P", EmploymentStatus: "F"},
		{License: "Y", Occupation: "O", EmploymentStatus: "O"},
	}
	a.Record(12, hh, persons)

	if got := a.Cell(12, 0, 0, 0); got != 7 {
		t.Errorf("Cell(12, P, F, 0) = %v, want 7", got)
	}
	for o := 0; o < occupations; o++ {
		for e := 0; e < employments; e++ {
			for m := 0; m < mobilityClasses; m++ {
				if o == 0 && e == 0 && m == 0 {
					continue
				}
				if got := a.Cell(12, o, e, m); got != 0 {
					t.Errorf("Cell(12, %d, %d, %d) = %v, want 0", o, e, m, got)
				}
			}
		}
	}
}

func TestRecordSkipsInvalidCategories(t *testing.T) {
	a := NewAggregator()
	hh := seed.Household{ExpansionFactor: 3, NumberOfVehicles: 1}
	persons := []seed.Person{
		{License: "Y", Occupation: "O", EmploymentStatus: "F"}, // occupation out of scope
		{License: "Y", Occupation: "P", EmploymentStatus: "H"}, // works from home
		{License: "Y", Occupation: "P", EmploymentStatus: "O"}, // unemployed
	}
	a.Record(5, hh, persons)

	if zones := a.Zones(); len(zones) != 0 {
		t.Errorf("Zones() = %v, want none when every person is skipped", zones)
	}
}

func TestZonesSorted(t *testing.T) {
	a := NewAggregator()
	hh := seed.Household{ExpansionFactor: 1, NumberOfVehicles: 1}
	persons := []seed.Person{{License: "Y", Occupation: "P", EmploymentStatus: "F"}}
	for _, zone := range []int{30, 4, 17} {
		a.Record(zone, hh, persons)
	}
	zones := a.Zones()
	want := []int{4, 17, 30}
	for i := range want {
		if zones[i] != want[i] {
			t.Fatalf("Zones() = %v, want %v", zones, want)
		}
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestWriteOutputs(t *testing.T) {
	a := NewAggregator()
	hh := seed.Household{ID: 1, ExpansionFactor: 7, NumberOfVehicles: 0}
	persons := []seed.Person{
		{License: "Y", Occupation: "P", EmploymentStatus: "F"},
		{License: "Y", Occupation: "G", EmploymentStatus: "O"},
	}
	a.Record(12, hh, persons)

	dir := t.TempDir()
	if err := a.WriteOutputs(dir); err != nil {
		t.Fatalf("WriteOutputs failed: %v", err)
	}

	names := []string{"PF.csv", "GF.csv", "SF.csv", "MF.csv", "PP.csv", "GP.csv", "SP.csv", "MP.csv"}
	for _, family := range []string{"ZonalResidence", "WorkerCategories"} {
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(dir, family, name)); err != nil {
				t.Errorf("missing output %s/%s: %v", family, name, err)
			}
		}
	}

	pf := readLines(t, filepath.Join(dir, "ZonalResidence", "PF.csv"))
	if pf[0] != "HomeZone,WorkerCategory,Data" {
		t.Errorf("header = %q, want HomeZone,WorkerCategory,Data", pf[0])
	}
	if len(pf) != 2 || pf[1] != "12,7" {
		t.Errorf("ZonalResidence/PF.csv rows = %v, want [12,7]", pf[1:])
	}

	// The zone materialized, so the other residence files carry a zero row.
	gf := readLines(t, filepath.Join(dir, "ZonalResidence", "GF.csv"))
	if len(gf) != 2 || gf[1] != "12,0" {
		t.Errorf("ZonalResidence/GF.csv rows = %v, want [12,0]", gf[1:])
	}

	wc := readLines(t, filepath.Join(dir, "WorkerCategories", "PF.csv"))
	if len(wc) != 2 || wc[1] != "12,1,1" {
		t.Errorf("WorkerCategories/PF.csv rows = %v, want [12,1,1]", wc[1:])
	}

	// Zones with a zero total emit no category rows.
	wcGF := readLines(t, filepath.Join(dir, "WorkerCategories", "GF.csv"))
	if len(wcGF) != 1 {
		t.Errorf("WorkerCategories/GF.csv rows = %v, want none", wcGF[1:])
	}
}

func TestCategoryShares(t *testing.T) {
	a := NewAggregator()
	one := seed.Household{ID: 1, ExpansionFactor: 3, NumberOfVehicles: 1}
	two := seed.Household{ID: 2, ExpansionFactor: 1, NumberOfVehicles: 2}
	drivers := []seed.Person{
		{License: "Y", Occupation: "M", EmploymentStatus: "P"},
		{License: "Y"},
	}
	solo := []seed.Person{{License: "Y", Occupation: "M", EmploymentStatus: "P"}}
	a.Record(3, one, drivers) // two licenses, one vehicle: class 1
	a.Record(3, two, solo)    // one license, two vehicles: class 2

	lines := readLines(t, writeTo(t, a, "WorkerCategories", "MP.csv"))
	want := []string{"HomeZone,WorkerCategory,Data", "3,2,0.75", "3,3,0.25"}
	if len(lines) != len(want) {
		t.Fatalf("WorkerCategories/MP.csv = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func writeTo(t *testing.T, a *Aggregator, family, name string) string {
	t.Helper()
	dir := t.TempDir()
	if err := a.WriteOutputs(dir); err != nil {
		t.Fatalf("WriteOutputs failed: %v", err)
	}
	return filepath.Join(dir, family, name)
}
