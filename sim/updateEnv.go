package sim

// updateDistancing latches distancing once the cumulative infection
// fraction reaches the CDC threshold. It never switches back off within a
// run. It reports whether the latch flipped on this call.
func (s *Simulation) updateDistancing() bool {
	if !s.params.Distancing || s.distancingActive {
		return false
	}
	if s.CumulativeFraction() >= s.params.CDCThresholdPct {
		s.distancingActive = true
		return true
	}
	return false
}
