package sim

// Step advances the run by one tick. Phases run over the whole population
// in order, each finishing before the next starts:
//   - distancing gate
//   - movement (sequential, population order)
//   - transmission
//   - progression to Recovered or Dead
//
// Step returns ErrNotReset if Reset was never called. An empty population
// makes Step a no-op.
func (s *Simulation) Step() error {
	if !s.ready {
		return ErrNotReset
	}
	if len(s.agents) == 0 {
		return nil
	}

	s.updateDistancing()

	s.occ.rebuild(s.params.GridSize, s.agents)
	for i, ag := range s.agents {
		if !ag.State.Alive() {
			continue
		}
		s.updateMove(i, ag)
	}

	s.updateTransmission()
	s.updateProgression()

	s.tick++
	return nil
}
