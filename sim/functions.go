package sim

// infect moves ag to Infected and draws its recovery duration.
// It does not touch totalInfections.
func (s *Simulation) infect(ag *Agent) {
	ag.State = Infected
	ag.Timer = 0
	ag.RecoveryDuration = s.recoveryDuration()
}

// Counts returns the census of the current population.
func (s *Simulation) Counts() Counts {
	var c Counts
	for _, ag := range s.agents {
		switch ag.State {
		case Susceptible:
			c.Susceptible++
		case Infected:
			c.Infected++
		case Recovered:
			c.Recovered++
		case Dead:
			c.Dead++
		}
	}
	return c
}

// Agents returns a copy of every agent in population order. Mutating the
// result does not affect the run.
func (s *Simulation) Agents() []Agent {
	out := make([]Agent, len(s.agents))
	for i, ag := range s.agents {
		out[i] = *ag
	}
	return out
}

func (s *Simulation) Params() Params { return s.params }
func (s *Simulation) PopulationSize() int { return len(s.agents) }
func (s *Simulation) TotalInfections() int { return s.totalInfections }
func (s *Simulation) DistancingActive() bool { return s.distancingActive }

// Tick is the number of completed steps since the last Reset.
func (s *Simulation) Tick() int { return s.tick }

// CumulativeFraction is total infections over population size, 0 for an
// empty population.
func (s *Simulation) CumulativeFraction() float64 {
	if len(s.agents) == 0 {
		return 0
	}
	return float64(s.totalInfections) / float64(len(s.agents))
}
