// Package datalog accumulates one census row per tick for a run and
// persists the run as a CSV file.
package datalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Header is the persisted column order.
var Header = []string{"timestep", "susceptible", "infected", "recovered", "dead"}

const timestampLayout = "20060102_150405"

var (
	ErrNotStarted = errors.New("datalog: no run started")
	ErrBadRecord  = errors.New("datalog: malformed record")
)

// Record is one row of a run.
type Record struct {
	Timestep    int
	Susceptible int
	Infected    int
	Recovered   int
	Dead        int
}

// Population is the row total.
func (r Record) Population() int {
	return r.Susceptible + r.Infected + r.Recovered + r.Dead
}

func (r Record) fields() []string {
	return []string{
		strconv.Itoa(r.Timestep),
		strconv.Itoa(r.Susceptible),
		strconv.Itoa(r.Infected),
		strconv.Itoa(r.Recovered),
		strconv.Itoa(r.Dead),
	}
}

// Logger buffers the rows of one run at a time. Start opens a run, Append
// adds rows and Flush writes them out and closes the run.
type Logger struct {
	dir    string
	logger *log.Logger
	now    func() time.Time

	label   string
	runID   uuid.UUID
	started time.Time
	rows    []Record
	open    bool
}

type Option func(*Logger)

func WithLogger(l *log.Logger) Option {
	return func(lg *Logger) { lg.logger = l }
}

// WithClock overrides the time source used to stamp file names.
func WithClock(now func() time.Time) Option {
	return func(lg *Logger) { lg.now = now }
}

// New returns a Logger saving runs under dir.
func New(dir string, opts ...Option) *Logger {
	lg := &Logger{
		dir:    dir,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// Start discards any unsaved rows and opens a new run under label.
func (lg *Logger) Start(label string) {
	if label == "" {
		label = "BaseCase"
	}
	lg.label = label
	lg.runID = uuid.New()
	lg.started = lg.now()
	lg.rows = lg.rows[:0]
	lg.open = true
}

func (lg *Logger) Append(r Record) error {
	if !lg.open {
		return ErrNotStarted
	}
	lg.rows = append(lg.rows, r)
	return nil
}

// Rows returns a copy of the rows of the open run.
func (lg *Logger) Rows() []Record {
	return append([]Record(nil), lg.rows...)
}

func (lg *Logger) RunID() uuid.UUID { return lg.runID }

// FileName is <label>_<YYYYMMDD_HHMMSS>_<first 8 hex of run id>.csv.
func (lg *Logger) FileName() string {
	return fmt.Sprintf("%s_%s_%s.csv", lg.label, lg.started.Format(timestampLayout), lg.runID.String()[:8])
}

// Flush writes the open run to disk and closes it. It returns the path
// of the written file.
func (lg *Logger) Flush() (string, error) {
	if !lg.open {
		return "", ErrNotStarted
	}
	if err := os.MkdirAll(lg.dir, 0o755); err != nil {
		return "", fmt.Errorf("datalog: create %s: %w", lg.dir, err)
	}

	path := filepath.Join(lg.dir, lg.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("datalog: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, lg.rows); err != nil {
		return "", fmt.Errorf("datalog: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("datalog: close %s: %w", path, err)
	}

	lg.open = false
	lg.logger.Info("run saved", "path", path, "run", lg.runID, "rows", len(lg.rows))
	return path, nil
}

// Write encodes rows with the header line.
func Write(w io.Writer, rows []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
