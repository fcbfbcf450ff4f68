package datalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Read decodes a run written by Write. Columns are looked up by header
// name, so extra or reordered columns are tolerated.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrBadRecord)
	}
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(head))
	for i, name := range head {
		col[name] = i
	}
	idx := make([]int, len(Header))
	for i, name := range Header {
		c, ok := col[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadRecord, name)
		}
		idx[i] = c
	}

	var rows []Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		var v [5]int
		for i, c := range idx {
			if c >= len(fields) {
				return nil, fmt.Errorf("%w: line %d is short", ErrBadRecord, line)
			}
			n, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", ErrBadRecord, line, Header[i], err)
			}
			// counts written as 3.0 are accepted, 3.7 or NaN are not
			if n != math.Trunc(n) || math.IsInf(n, 0) || n < math.MinInt || n > math.MaxInt {
				return nil, fmt.Errorf("%w: line %d column %q: %s is not a whole number", ErrBadRecord, line, Header[i], fields[c])
			}
			v[i] = int(n)
		}
		rows = append(rows, Record{
			Timestep:    v[0],
			Susceptible: v[1],
			Infected:    v[2],
			Recovered:   v[3],
			Dead:        v[4],
		})
	}
}

func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
