package sim

import (
	"errors"
	"math/rand/v2"
)

type State string

const (
	Susceptible State = "Susceptible"
	Infected    State = "Infected"
	Recovered   State = "Recovered"
	Dead        State = "Dead"
)

// Alive reports whether an agent in this state still occupies its cell.
func (s State) Alive() bool { return s != Dead }

// Short returns the one-letter code used in census columns.
func (s State) Short() string {
	switch s {
	case Susceptible:
		return "S"
	case Infected:
		return "I"
	case Recovered:
		return "R"
	case Dead:
		return "D"
	default:
		return "?"
	}
}

// Agent is one individual on the grid.
// Timer counts steps since the agent became Infected and is meaningless otherwise.
// RecoveryDuration is drawn at the moment of infection and is always >= 1.
type Agent struct {
	X, Y             int
	State            State
	Compliant        bool
	Timer            int
	RecoveryDuration int
}

// Params is the immutable configuration of one run.
// Probabilities and percentages are fractions in [0,1].
type Params struct {
	GridSize         int
	Density          float64
	InitInfPct       float64
	InfProb          float64
	RecTimeMean      float64
	MortRate         float64
	CDCThresholdPct  float64
	NonCompliancePct float64

	// Distancing enables the prevalence-triggered distancing rule.
	// With it off the engine behaves as plain SIR+D.
	Distancing bool
}

// Counts is the census of one step.
type Counts struct {
	Susceptible int
	Infected    int
	Recovered   int
	Dead        int
}

func (c Counts) Total() int {
	return c.Susceptible + c.Infected + c.Recovered + c.Dead
}

// Simulation owns the population and all randomness of one run.
// It is not safe for concurrent use.
type Simulation struct {
	params Params
	rng    *rand.Rand

	agents           []*Agent
	totalInfections  int
	distancingActive bool
	tick             int
	ready            bool

	occ     occupancy
	scratch [][2]int
}

var (
	ErrNotReset      = errors.New("sim: simulation has not been reset")
	ErrInvalidParams = errors.New("sim: invalid parameters")
)
