package sim

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// RecTimeSigma is the spread of the per-agent recovery duration.
func (p Params) RecTimeSigma() float64 { return p.RecTimeMean / 4.0 }

// NonComplianceSigma is the spread of the run-level non-compliance draw.
func (p Params) NonComplianceSigma() float64 { return p.NonCompliancePct / 4.0 }

// Cells is the number of grid cells.
func (p Params) Cells() int { return p.GridSize * p.GridSize }

// Validate reports out-of-range parameters. Callers are expected to
// validate before constructing an engine; New only clamps.
func (p Params) Validate() error {
	if p.GridSize < 0 {
		return fmt.Errorf("%w: grid size %d is negative", ErrInvalidParams, p.GridSize)
	}
	probs := []struct {
		name string
		v    float64
	}{
		{"density", p.Density},
		{"initial infected", p.InitInfPct},
		{"infection probability", p.InfProb},
		{"mortality rate", p.MortRate},
		{"cdc threshold", p.CDCThresholdPct},
		{"non-compliance", p.NonCompliancePct},
	}
	for _, pr := range probs {
		if !validProb(pr.v) {
			return fmt.Errorf("%w: %s %.4f not in [0,1]", ErrInvalidParams, pr.name, pr.v)
		}
	}
	if p.RecTimeMean < 1 || math.IsNaN(p.RecTimeMean) {
		return fmt.Errorf("%w: recovery time %.2f must be >= 1", ErrInvalidParams, p.RecTimeMean)
	}
	return nil
}

// Normalize clamps every fraction to [0,1], the recovery mean to >= 1
// and the grid size to >= 0.
func (p Params) Normalize() Params {
	if p.GridSize < 0 {
		p.GridSize = 0
	}
	p.Density = clamp01(p.Density)
	p.InitInfPct = clamp01(p.InitInfPct)
	p.InfProb = clamp01(p.InfProb)
	p.MortRate = clamp01(p.MortRate)
	p.CDCThresholdPct = clamp01(p.CDCThresholdPct)
	p.NonCompliancePct = clamp01(p.NonCompliancePct)
	if p.RecTimeMean < 1 || math.IsNaN(p.RecTimeMean) {
		p.RecTimeMean = 1
	}
	return p
}

// New builds an engine for p. The engine is empty until Reset is called.
// A nil rng is replaced with a time-seeded one, which gives up reproducibility.
func New(p Params, rng *rand.Rand) *Simulation {
	return &Simulation{
		params: p.Normalize(),
		rng:    rngOrDefault(rng),
	}
}

// NewSeeded is New with a generator from NewRand(seed).
func NewSeeded(p Params, seed uint64) *Simulation {
	return New(p, NewRand(seed))
}

// Reset (re)initializes the run: samples the run-level non-compliance
// fraction, places agents on distinct random cells, and infects the
// initial subset.
func (s *Simulation) Reset() {
	p := s.params

	nc := clamp01(normal(s.rng, p.NonCompliancePct, p.NonComplianceSigma()))

	cells := p.Cells()
	n := int(math.Floor(float64(cells) * p.Density))
	if n > cells {
		n = cells
	}

	chosen := s.rng.Perm(cells)[:n]
	s.agents = make([]*Agent, n)
	for i, c := range chosen {
		s.agents[i] = &Agent{
			X:         c / p.GridSize,
			Y:         c % p.GridSize,
			State:     Susceptible,
			Compliant: s.rng.Float64() > nc,
		}
	}

	nInit := initialInfected(n, p.InitInfPct)
	for _, idx := range s.rng.Perm(n)[:nInit] {
		s.infect(s.agents[idx])
	}

	s.totalInfections = nInit
	s.distancingActive = false
	s.tick = 0
	s.ready = true
}

// initialInfected is max(1, floor(n*pct)), bounded by the population.
func initialInfected(n int, pct float64) int {
	if n == 0 {
		return 0
	}
	k := int(math.Floor(float64(n) * pct))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}
