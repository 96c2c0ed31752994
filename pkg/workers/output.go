package workers

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const header = "HomeZone,WorkerCategory,Data"

// WriteOutputs emits the two output families under the output root:
// ZonalResidence/<OE>.csv with one total row per zone, and
// WorkerCategories/<OE>.csv with the per-mobility-class shares of each
// zone's total. The sixteen files are written concurrently; the aggregator
// is only read.
func (a *Aggregator) WriteOutputs(outputDir string) error {
	residenceDir := filepath.Join(outputDir, "ZonalResidence")
	categoriesDir := filepath.Join(outputDir, "WorkerCategories")
	for _, dir := range []string{residenceDir, categoriesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	zones := a.Zones()

	var wg sync.WaitGroup
	errs := make([]error, 2*occupations*employments)
	slot := 0
	for e := 0; e < employments; e++ {
		for o := 0; o < occupations; o++ {
			name := occupationCodes[o] + employmentCodes[e] + ".csv"
			o, e := o, e
			run := func(i int, fn func() error) {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs[i] = fn()
				}()
			}
			residencePath := filepath.Join(residenceDir, name)
			run(slot, func() error { return a.writeResidence(residencePath, o, e, zones) })
			categoriesPath := filepath.Join(categoriesDir, name)
			run(slot+1, func() error { return a.writeCategories(categoriesPath, o, e, zones) })
			slot += 2
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// writeResidence writes one ZonalResidence file: per zone, the sum of the
// occupation-employment pair's cells across mobility classes. The
// WorkerCategory column is kept in the header for schema parity but no
// category value is written.
func (a *Aggregator) writeResidence(path string, o, e int, zones []int) error {
	return writeFile(path, func(w *bufio.Writer) error {
		for _, zone := range zones {
			total := 0.0
			for m := 0; m < mobilityClasses; m++ {
				total += a.Cell(zone, o, e, m)
			}
			if _, err := fmt.Fprintf(w, "%d,%s\n", zone, formatValue(total)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCategories writes one WorkerCategories file: per zone with a
// positive total, the share of each non-zero mobility class, labelled 1..3.
func (a *Aggregator) writeCategories(path string, o, e int, zones []int) error {
	return writeFile(path, func(w *bufio.Writer) error {
		for _, zone := range zones {
			total := 0.0
			for m := 0; m < mobilityClasses; m++ {
				total += a.Cell(zone, o, e, m)
			}
			if total <= 0 {
				continue
			}
			for m := 0; m < mobilityClasses; m++ {
				cell := a.Cell(zone, o, e, m)
				if cell <= 0 {
					continue
				}
				if _, err := fmt.Fprintf(w, "%d,%d,%s\n", zone, m+1, formatValue(cell/total)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeFile(path string, body func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, header); err != nil {
		f.Close()
		return err
	}
	if err := body(w); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
