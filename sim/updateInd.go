package sim

// updateTransmission gives every Susceptible agent at most one chance of
// infection per step. Neighbours are scanned in the fixed direction order
// and the single draw is made against the first Infected one found.
func (s *Simulation) updateTransmission() {
	size := s.params.GridSize
	for _, ag := range s.agents {
		if ag.State != Susceptible {
			continue
		}
		if !s.hasInfectedNeighbor(ag.X, ag.Y, size) {
			continue
		}
		if s.rng.Float64() < s.params.InfProb {
			s.infect(ag)
			s.totalInfections++
		}
	}
}

func (s *Simulation) hasInfectedNeighbor(x, y, size int) bool {
	for _, o := range neighborOffsets {
		nx, ny := x+o[0], y+o[1]
		if nx < 0 || ny < 0 || nx >= size || ny >= size {
			continue
		}
		idx := s.occ.at(nx, ny)
		if idx == emptyCell {
			continue
		}
		if s.agents[idx].State == Infected {
			return true
		}
	}
	return false
}

// updateProgression advances every Infected agent's timer and resolves it
// once the timer reaches its recovery duration:
// Dead with probability MortRate, otherwise Recovered.
func (s *Simulation) updateProgression() {
	for _, ag := range s.agents {
		if ag.State != Infected {
			continue
		}
		ag.Timer++
		if ag.Timer < ag.RecoveryDuration {
			continue
		}
		if s.rng.Float64() < s.params.MortRate {
			ag.State = Dead
		} else {
			ag.State = Recovered
		}
	}
}
