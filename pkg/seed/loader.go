package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Column counts of the two seed tables. Household rows with a different
// count and person rows with fewer columns are silently dropped.
const (
	householdColumns = 7
	personColumns    = 13
)

// LoadHouseholdFile reads a 7-column household table
// (HouseholdID,HouseholdPD,ExpansionFactor,DwellingType,NumberOfPersons,
// NumberOfVehicles,Income) and returns the records in file order. The same
// shape is shared by the seed input and the synthesized output, where the
// second column holds the drawn zone instead of the planning district.
func LoadHouseholdFile(path string) ([]Household, error) {
	var out []Household
	err := forEachRow(path, func(row int, fields []string) error {
		if len(fields) != householdColumns {
			return nil
		}
		hh, err := parseHousehold(fields, row)
		if err != nil {
			return err
		}
		out = append(out, hh)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadPersonFile reads a 13-column person table and groups the records by
// household id, preserving file order within each group.
func LoadPersonFile(path string) (map[int][]Person, error) {
	out := map[int][]Person{}
	err := forEachRow(path, func(row int, fields []string) error {
		if len(fields) < personColumns {
			return nil
		}
		id, p, err := parsePerson(fields, row)
		if err != nil {
			return err
		}
		out[id] = append(out[id], p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func parseHousehold(fields []string, row int) (Household, error) {
	var hh Household
	var err error
	if hh.ID, err = intColumn(fields[0], "HouseholdID", row); err != nil {
		return hh, err
	}
	if hh.PD, err = intColumn(fields[1], "HouseholdPD", row); err != nil {
		return hh, err
	}
	if hh.ExpansionFactor, err = floatColumn(fields[2], "ExpansionFactor", row); err != nil {
		return hh, err
	}
	if hh.DwellingType, err = intColumn(fields[3], "DwellingType", row); err != nil {
		return hh, err
	}
	if hh.NumberOfPersons, err = intColumn(fields[4], "NumberOfPersons", row); err != nil {
		return hh, err
	}
	if hh.NumberOfVehicles, err = intColumn(fields[5], "NumberOfVehicles", row); err != nil {
		return hh, err
	}
	if hh.Income, err = intColumn(fields[6], "Income", row); err != nil {
		return hh, err
	}
	return hh, nil
}

func parsePerson(fields []string, row int) (int, Person, error) {
	var p Person
	id, err := intColumn(fields[0], "HouseholdID", row)
	if err != nil {
		return 0, p, err
	}
	// fields[1] is PersonNumber; the synthesizer renumbers persons on
	// output, so the input value only has to be well formed.
	if _, err = intColumn(fields[1], "PersonNumber", row); err != nil {
		return 0, p, err
	}
	if p.Age, err = intColumn(fields[2], "Age", row); err != nil {
		return 0, p, err
	}
	p.Sex = fields[3]
	p.License = fields[4]
	p.TransitPass = fields[5]
	p.EmploymentStatus = fields[6]
	p.Occupation = fields[7]
	p.FreeParking = fields[8] == "Y"
	p.StudentStatus = fields[9]
	if p.EmploymentPD, err = intColumn(fields[10], "EmploymentPD", row); err != nil {
		return 0, p, err
	}
	if p.SchoolPD, err = intColumn(fields[11], "SchoolPD", row); err != nil {
		return 0, p, err
	}
	if p.ExpansionFactor, err = floatColumn(fields[12], "ExpansionFactor", row); err != nil {
		return 0, p, err
	}
	return id, p, nil
}

func forEachRow(path string, fn func(row int, fields []string) error) error {
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
		if err := fn(row+1, fields); err != nil {
			return err
		}
	}
}

func intColumn(s, column string, row int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %s: %q is not an integer", row, column, s)
	}
	return v, nil
}

func floatColumn(s, column string, row int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %s: %q is not a number", row, column, s)
	}
	return v, nil
}
