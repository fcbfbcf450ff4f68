// Package runner drives a simulation tick by tick, forwarding every census
// to a recorder and to read-only observers.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mast13f/epigrid/datalog"
	"github.com/mast13f/epigrid/sim"
)

// Recorder persists one row per tick. *datalog.Logger satisfies it.
type Recorder interface {
	Start(label string)
	Append(r datalog.Record) error
	Flush() (string, error)
}

// Observer receives copies of the run state after every step. It has no
// way to write back into the engine.
type Observer interface {
	Observe(tick int, c sim.Counts, agents []sim.Agent)
}

type ObserverFunc func(tick int, c sim.Counts, agents []sim.Agent)

func (f ObserverFunc) Observe(tick int, c sim.Counts, agents []sim.Agent) { f(tick, c, agents) }

// Summary describes a finished run.
type Summary struct {
	Label            string
	Seed             uint64
	Steps            int
	Final            sim.Counts
	Population       int
	TotalInfections  int
	DistancingActive bool
	// Survived is true when anyone is left susceptible or recovered.
	Survived bool
	Path     string
}

type Runner struct {
	Sim      *sim.Simulation
	Recorder Recorder
	Label    string
	Seed     uint64
	// MaxSteps caps the run; zero means run until no one is infected.
	MaxSteps  int
	Observers []Observer
	Logger    *log.Logger
}

// Run resets the engine and steps it until the epidemic dies out, MaxSteps
// is reached or ctx is done. Recorded rows are flushed in every case.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if r.Sim == nil {
		return Summary{}, fmt.Errorf("runner: nil simulation")
	}

	r.Sim.Reset()
	if r.Recorder != nil {
		r.Recorder.Start(r.Label)
	}

	logger.Debug("run started", "label", r.Label, "seed", r.Seed,
		"population", r.Sim.PopulationSize(), "infected", r.Sim.TotalInfections())

	var runErr error
	distancing := false
	c := r.Sim.Counts()
	for c.Infected > 0 && (r.MaxSteps <= 0 || r.Sim.Tick() < r.MaxSteps) {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := r.Sim.Step(); err != nil {
			runErr = err
			break
		}
		c = r.Sim.Counts()
		tick := r.Sim.Tick()

		if r.Sim.DistancingActive() && !distancing {
			distancing = true
			logger.Info("distancing activated", "label", r.Label, "tick", tick,
				"cumulative", fmt.Sprintf("%.3f", r.Sim.CumulativeFraction()))
		}

		if r.Recorder != nil {
			rec := datalog.Record{
				Timestep:    tick,
				Susceptible: c.Susceptible,
				Infected:    c.Infected,
				Recovered:   c.Recovered,
				Dead:        c.Dead,
			}
			if err := r.Recorder.Append(rec); err != nil {
				runErr = err
				break
			}
		}
		if len(r.Observers) > 0 {
			agents := r.Sim.Agents()
			for _, o := range r.Observers {
				o.Observe(tick, c, agents)
			}
		}
	}

	sum := Summary{
		Label:            r.Label,
		Seed:             r.Seed,
		Steps:            r.Sim.Tick(),
		Final:            c,
		Population:       r.Sim.PopulationSize(),
		TotalInfections:  r.Sim.TotalInfections(),
		DistancingActive: r.Sim.DistancingActive(),
		Survived:         c.Susceptible+c.Recovered > 0,
	}

	if r.Recorder != nil {
		path, err := r.Recorder.Flush()
		if err != nil && runErr == nil {
			runErr = err
		}
		sum.Path = path
	}

	if runErr != nil {
		logger.Error("run stopped", "label", r.Label, "tick", sum.Steps, "err", runErr)
		return sum, runErr
	}
	logger.Info("run finished", "label", r.Label, "seed", r.Seed, "steps", sum.Steps,
		"S", c.Susceptible, "I", c.Infected, "R", c.Recovered, "D", c.Dead,
		"survived", sum.Survived)
	return sum, nil
}
