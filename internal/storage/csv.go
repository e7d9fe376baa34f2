package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// ExportPrecision is the number of significant digits ExportCSV writes.
const ExportPrecision = 6

// ExportCSV writes t and y to path as CSV with a "t,y0,…,y{k-1}" header and
// one row per sample. Numbers use ExportPrecision significant digits in %g
// style, so 0.5 is written as "0.5" and 1 as "1".
func ExportCSV(path string, t []float64, y [][]float64) error {
	if err := checkSamples(t, y); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	if err := writeCSV(f, t, y, ExportPrecision); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV is ExportCSV onto an arbitrary writer.
func WriteCSV(w io.Writer, t []float64, y [][]float64) error {
	if err := checkSamples(t, y); err != nil {
		return err
	}
	return writeCSV(w, t, y, ExportPrecision)
}

func checkSamples(t []float64, y [][]float64) error {
	if len(t) != len(y) {
		return fmt.Errorf("csv: %d times for %d states: %w", len(t), len(y), dynamo.ErrDimensionMismatch)
	}
	return nil
}

// writeCSV formats with prec significant digits; -1 is the shortest exact
// representation.
func writeCSV(out io.Writer, t []float64, y [][]float64, prec int) error {
	w := csv.NewWriter(out)

	header := []string{"t"}
	if len(y) > 0 {
		for i := range y[0] {
			header = append(header, "y"+strconv.Itoa(i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range y {
		row := make([]string, 0, len(y[i])+1)
		row = append(row, formatFloat(t[i], prec))
		for _, val := range y[i] {
			row = append(row, formatFloat(val, prec))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', prec, 64)
}

func parseFloat(s string) (float64, error) {
	switch s {
	case "nan":
		return math.NaN(), nil
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadCSV parses the format written by WriteCSV back into a Solution.
func ReadCSV(in io.Reader) (*dynamo.Solution, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	sol := &dynamo.Solution{}
	if len(records) < 2 {
		return sol, nil
	}

	sol.T = make([]float64, 0, len(records)-1)
	sol.Y = make([]dynamo.State, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := parseFloat(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}

		state := make(dynamo.State, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := parseFloat(field)
			if err != nil {
				return nil, fmt.Errorf("csv row %d: %w", i+1, err)
			}
			state = append(state, val)
		}

		sol.T = append(sol.T, t)
		sol.Y = append(sol.Y, state)
	}

	return sol, nil
}
