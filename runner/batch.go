package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mast13f/epigrid/datalog"
	"github.com/mast13f/epigrid/sim"
)

type BatchOptions struct {
	Params   sim.Params
	Runs     int
	BaseSeed uint64
	Label    string
	// Dir receives one CSV per run. Empty disables persistence.
	Dir         string
	MaxSteps    int
	Parallelism int
	Logger      *log.Logger
}

// Batch runs opts.Runs independent simulations, run i seeded with
// BaseSeed+i, and returns their summaries in run order. Each run owns its
// engine and generator; only the scheduling is concurrent.
func Batch(ctx context.Context, opts BatchOptions) ([]Summary, error) {
	if opts.Runs <= 0 {
		return nil, nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]Summary, opts.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < opts.Runs; i++ {
		seed := opts.BaseSeed + uint64(i)
		g.Go(func() error {
			r := &Runner{
				Sim:      sim.NewSeeded(opts.Params, seed),
				Label:    opts.Label,
				Seed:     seed,
				MaxSteps: opts.MaxSteps,
				Logger:   logger.With("run", i),
			}
			if opts.Dir != "" {
				r.Recorder = datalog.New(opts.Dir, datalog.WithLogger(logger))
			}
			sum, err := r.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			out[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
