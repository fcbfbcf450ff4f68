// Package analysis aggregates saved runs: it pads runs to a common
// length and reports durations and peak infected/dead fractions.
// It only reads persisted output and never drives the engine.
package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mast13f/epigrid/datalog"
)

// Run is one saved run.
type Run struct {
	Name string
	Rows []datalog.Record
}

func (r Run) Len() int { return len(r.Rows) }

// Population is taken from the first row; every row of a run sums to it.
func (r Run) Population() int {
	if len(r.Rows) == 0 {
		return 0
	}
	return r.Rows[0].Population()
}

// LoadRuns reads every *.csv file in dir, in name order.
func LoadRuns(dir string) ([]Run, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return LoadFiles(paths...)
}

// LoadFiles reads the given run files in the order given. Run names are
// the file base names.
func LoadFiles(paths ...string) ([]Run, error) {
	runs := make([]Run, 0, len(paths))
	for _, path := range paths {
		rows, err := datalog.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("analysis: %w", err)
		}
		runs = append(runs, Run{Name: filepath.Base(path), Rows: rows})
	}
	return runs, nil
}

// MaxLen is the length of the longest run.
func MaxLen(runs []Run) int {
	n := 0
	for _, r := range runs {
		if r.Len() > n {
			n = r.Len()
		}
	}
	return n
}

// Pad repeats the final row of r until it has maxLen rows. A run already
// at or past maxLen, or an empty run, is returned unchanged.
func Pad(r Run, maxLen int) Run {
	if r.Len() == 0 || r.Len() >= maxLen {
		return r
	}
	rows := make([]datalog.Record, maxLen)
	copy(rows, r.Rows)
	last := r.Rows[len(r.Rows)-1]
	for i := len(r.Rows); i < maxLen; i++ {
		rows[i] = last
	}
	return Run{Name: r.Name, Rows: rows}
}

// PadAll pads every run to the longest run's length.
func PadAll(runs []Run) []Run {
	maxLen := MaxLen(runs)
	out := make([]Run, len(runs))
	for i, r := range runs {
		out[i] = Pad(r, maxLen)
	}
	return out
}

// AvgDuration is the mean number of rows of the runs as given. Pass
// unpadded runs.
func AvgDuration(runs []Run) float64 {
	if len(runs) == 0 {
		return 0
	}
	lengths := make([]float64, len(runs))
	for i, r := range runs {
		lengths[i] = float64(r.Len())
	}
	return stat.Mean(lengths, nil)
}

func peakFraction(r Run, pick func(datalog.Record) int) float64 {
	pop := r.Population()
	if pop == 0 {
		return 0
	}
	vals := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		vals[i] = float64(pick(row))
	}
	return floats.Max(vals) / float64(pop)
}

func peaks(runs []Run, pick func(datalog.Record) int) []float64 {
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i] = peakFraction(r, pick)
	}
	return out
}

func maxOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Max(xs)
}

func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func infected(r datalog.Record) int { return r.Infected }
func dead(r datalog.Record) int { return r.Dead }

// PeakInfected is the highest infected fraction seen in any run.
func PeakInfected(runs []Run) float64 { return maxOrZero(peaks(runs, infected)) }

// AvgPeakInfected is the mean over runs of each run's peak infected fraction.
func AvgPeakInfected(runs []Run) float64 { return meanOrZero(peaks(runs, infected)) }

func PeakDead(runs []Run) float64 { return maxOrZero(peaks(runs, dead)) }

func AvgPeakDead(runs []Run) float64 { return meanOrZero(peaks(runs, dead)) }

// Report is the full summary of a set of runs.
type Report struct {
	Runs            int
	MaxLen          int
	AvgDuration     float64
	PeakInfected    float64
	AvgPeakInfected float64
	PeakDead        float64
	AvgPeakDead     float64
}

// Summarize computes the report. Durations come from the runs as given,
// peaks from the padded runs; padding never changes a peak.
func Summarize(runs []Run) Report {
	padded := PadAll(runs)
	return Report{
		Runs:            len(runs),
		MaxLen:          MaxLen(runs),
		AvgDuration:     AvgDuration(runs),
		PeakInfected:    PeakInfected(padded),
		AvgPeakInfected: AvgPeakInfected(padded),
		PeakDead:        PeakDead(padded),
		AvgPeakDead:     AvgPeakDead(padded),
	}
}
