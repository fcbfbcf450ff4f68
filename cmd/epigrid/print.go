package main

import (
	"fmt"
	"io"

	"github.com/mast13f/epigrid/analysis"
	"github.com/mast13f/epigrid/runner"
	"github.com/mast13f/epigrid/sim"
)

func printStats(w io.Writer, tick int, c sim.Counts) {
	fmt.Fprintf(w, "Step: %d | S: %d | I: %d | R: %d | D: %d\n",
		tick, c.Susceptible, c.Infected, c.Recovered, c.Dead)
}

func printSummary(w io.Writer, s runner.Summary) {
	if s.Final.Infected == 0 {
		fmt.Fprintln(w, "The epidemic has ended.")
	} else {
		fmt.Fprintln(w, "Stopped with the epidemic still running.")
	}
	fmt.Fprintf(w, "Total time steps: %d\n", s.Steps)
	fmt.Fprintf(w, "Susceptible: %d\nInfected: %d\nRecovered: %d\nDead: %d\n",
		s.Final.Susceptible, s.Final.Infected, s.Final.Recovered, s.Final.Dead)
	fmt.Fprintf(w, "Total infections: %d of %d, distancing active: %v\n",
		s.TotalInfections, s.Population, s.DistancingActive)
	if s.Survived {
		fmt.Fprintln(w, "The population survived!")
	} else {
		fmt.Fprintln(w, "The population did not survive.")
	}
	if s.Path != "" {
		fmt.Fprintln(w, "Run saved to", s.Path)
	}
}

func printReport(w io.Writer, r analysis.Report) {
	fmt.Fprintf(w, "Runs: %d (longest %d steps)\n", r.Runs, r.MaxLen)
	fmt.Fprintf(w, "Avg Duration: %.2f\n", r.AvgDuration)
	fmt.Fprintf(w, "Peak Infected: %.4f\n", r.PeakInfected)
	fmt.Fprintf(w, "Avg Peak Infected: %.4f\n", r.AvgPeakInfected)
	fmt.Fprintf(w, "Peak Dead: %.4f\n", r.PeakDead)
	fmt.Fprintf(w, "Avg Peak Dead: %.4f\n", r.AvgPeakDead)
}
