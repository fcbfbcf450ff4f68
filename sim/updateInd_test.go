package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullGrid(size int, center State) []Agent {
	var agents []Agent
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			ag := Agent{X: x, Y: y, State: Susceptible}
			if x == size/2 && y == size/2 {
				ag.State = center
				ag.RecoveryDuration = 1000
			}
			agents = append(agents, ag)
		}
	}
	return agents
}

func TestTransmission(t *testing.T) {
	t.Run("certain contact infects every neighbour", func(t *testing.T) {
		p := quiet(3)
		p.InfProb = 1
		p.RecTimeMean = 50
		s := staged(p, 1, fullGrid(3, Infected)...)
		s.totalInfections = 1

		require.NoError(t, s.Step())
		c := s.Counts()
		assert.Equal(t, 9, c.Infected)
		assert.Equal(t, 9, s.TotalInfections())
		for _, ag := range s.Agents() {
			if ag.X == 1 && ag.Y == 1 {
				assert.Equal(t, 1, ag.Timer)
				continue
			}
			assert.Equal(t, 1, ag.Timer, "new infections progress in the same step")
			assert.GreaterOrEqual(t, ag.RecoveryDuration, 1)
		}
	})

	t.Run("zero probability never infects", func(t *testing.T) {
		p := quiet(3)
		s := staged(p, 1, fullGrid(3, Infected)...)
		s.totalInfections = 1
		for i := 0; i < 10; i++ {
			require.NoError(t, s.Step())
		}
		assert.Equal(t, 8, s.Counts().Susceptible)
		assert.Equal(t, 1, s.TotalInfections())
	})

	t.Run("recovered neighbours do not transmit", func(t *testing.T) {
		p := quiet(3)
		p.InfProb = 1
		s := staged(p, 1, fullGrid(3, Recovered)...)
		require.NoError(t, s.Step())
		assert.Equal(t, 8, s.Counts().Susceptible)
	})

	t.Run("one draw per susceptible", func(t *testing.T) {
		// Surrounded by eight infected agents, the centre still makes a
		// single draw. With p=0.5 roughly half of the seeds infect it.
		p := quiet(3)
		p.InfProb = 0.5
		hits := 0
		const trials = 400
		for seed := uint64(0); seed < trials; seed++ {
			var agents []Agent
			for x := 0; x < 3; x++ {
				for y := 0; y < 3; y++ {
					ag := Agent{X: x, Y: y, State: Infected, RecoveryDuration: 1000}
					if x == 1 && y == 1 {
						ag = Agent{X: x, Y: y, State: Susceptible}
					}
					agents = append(agents, ag)
				}
			}
			s := staged(p, seed, agents...)
			s.occ.rebuild(p.GridSize, s.agents)
			s.updateTransmission()
			if s.agents[4].State == Infected {
				hits++
			}
		}
		assert.InDelta(t, 0.5, float64(hits)/trials, 0.1)
	})
}

func TestProgression(t *testing.T) {
	for _, tc := range []struct {
		name     string
		mortRate float64
		want     State
	}{
		{"recovers", 0, Recovered},
		{"dies", 1, Dead},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := quiet(3)
			p.MortRate = tc.mortRate
			s := staged(p, 1, Agent{X: 0, Y: 0, State: Infected, RecoveryDuration: 3})

			for i := 0; i < 2; i++ {
				require.NoError(t, s.Step())
				assert.Equal(t, Infected, s.agents[0].State)
			}
			require.NoError(t, s.Step())
			assert.Equal(t, tc.want, s.agents[0].State)
			assert.Equal(t, 3, s.agents[0].Timer)

			require.NoError(t, s.Step())
			assert.Equal(t, tc.want, s.agents[0].State, "resolved states are final")
		})
	}
}

func TestInfectedAndResolvedInOneStep(t *testing.T) {
	for _, tc := range []struct {
		name     string
		mortRate float64
		want     State
	}{
		{"recovers", 0, Recovered},
		{"dies", 1, Dead},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := quiet(2)
			p.InfProb = 1
			p.RecTimeMean = 1
			p.MortRate = tc.mortRate
			// All four cells are taken so nobody moves; the source has a long course.
			s := staged(p, 4,
				Agent{X: 0, Y: 0, State: Infected, RecoveryDuration: 1000},
				Agent{X: 0, Y: 1, State: Susceptible},
				Agent{X: 1, Y: 0, State: Susceptible},
				Agent{X: 1, Y: 1, State: Susceptible},
			)
			s.totalInfections = 1

			require.NoError(t, s.Step())
			resolved := 0
			for _, ag := range s.agents[1:] {
				assert.Equal(t, 1, ag.Timer)
				if ag.RecoveryDuration == 1 {
					assert.Equal(t, tc.want, ag.State)
					resolved++
				} else {
					assert.Equal(t, Infected, ag.State)
				}
			}
			// a mean of 1 yields a one-step course for nearly every draw
			assert.Greater(t, resolved, 0)
			assert.Equal(t, Infected, s.agents[0].State)
			assert.Equal(t, 4, s.TotalInfections())
		})
	}
}

func TestRecoveryDurationAtLeastOne(t *testing.T) {
	s := NewSeeded(Params{GridSize: 1, RecTimeMean: 1}, 99)
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, s.recoveryDuration(), 1)
	}
}

func TestOccupancyRebuildSkipsDead(t *testing.T) {
	var o occupancy
	o.rebuild(3, []*Agent{
		{X: 0, Y: 0, State: Susceptible},
		{X: 1, Y: 1, State: Dead},
		{X: 2, Y: 1, State: Infected},
	})
	assert.Equal(t, 0, o.at(0, 0))
	assert.False(t, o.occupied(1, 1))
	assert.Equal(t, 2, o.at(2, 1))
	assert.True(t, o.crowded(1, 0, 0, 0))
	assert.False(t, o.crowded(0, 1, 0, 0))
}
