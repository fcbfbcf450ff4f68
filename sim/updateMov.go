package sim

// ---------------- Movement update ----------------

// updateMove tries to move agent idx to one of its 8-connected neighbours.
// Candidates are shuffled, then the first free cell is taken. While
// distancing is active a compliant agent first looks for a free cell with
// no occupied neighbours (its own current cell aside) and only falls back
// to any free cell if none exists. With no free neighbour it stays put.
// Unlike a literal reading of the crowding rule, the mover's own cell is
// not counted, since it borders every candidate.
//
// The occupancy index is updated at once, so agents later in population
// order see this move.
func (s *Simulation) updateMove(idx int, ag *Agent) {
	moves := appendNeighbors(s.scratch[:0], ag.X, ag.Y, s.params.GridSize)
	s.scratch = moves
	s.rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })

	if s.distancingActive && ag.Compliant {
		for _, m := range moves {
			if s.occ.occupied(m[0], m[1]) || s.occ.crowded(m[0], m[1], ag.X, ag.Y) {
				continue
			}
			s.moveTo(idx, ag, m[0], m[1])
			return
		}
	}

	for _, m := range moves {
		if s.occ.occupied(m[0], m[1]) {
			continue
		}
		s.moveTo(idx, ag, m[0], m[1])
		return
	}
}

func (s *Simulation) moveTo(idx int, ag *Agent, x, y int) {
	s.occ.move(idx, ag.X, ag.Y, x, y)
	ag.X, ag.Y = x, y
}
