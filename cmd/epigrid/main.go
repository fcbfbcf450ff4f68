package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mast13f/epigrid/analysis"
	"github.com/mast13f/epigrid/config"
	"github.com/mast13f/epigrid/datalog"
	"github.com/mast13f/epigrid/runner"
	"github.com/mast13f/epigrid/sim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "epigrid",
		Short:         "Grid-based SIR+D epidemic simulator with distancing and compliance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			a.cfg = cfg
			a.logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           level,
				ReportTimestamp: true,
				Prefix:          "epigrid",
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML scenario file")
	if err := config.BindFlags(a.v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(a.runCmd(), a.batchCmd(), a.analyzeCmd())
	return root
}

func (a *app) seed() uint64 {
	if a.cfg.Seed != 0 {
		return a.cfg.Seed
	}
	s := uint64(time.Now().UnixNano())
	a.logger.Info("no seed given", "seed", s)
	return s
}

func (a *app) runCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and save its census as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed := a.seed()
			r := &runner.Runner{
				Sim:      sim.NewSeeded(a.cfg.Params(), seed),
				Recorder: datalog.New(a.cfg.DataDir, datalog.WithLogger(a.logger)),
				Label:    a.cfg.Label,
				Seed:     seed,
				MaxSteps: a.cfg.MaxSteps,
				Logger:   a.logger,
			}
			out := cmd.OutOrStdout()
			if !quiet {
				r.Observers = append(r.Observers, runner.ObserverFunc(func(tick int, c sim.Counts, _ []sim.Agent) {
					printStats(out, tick, c)
				}))
			}
			sum, err := r.Run(cmd.Context())
			printSummary(out, sum)
			return err
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-step counts")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run several seeded simulations of one scenario and summarize them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := filepath.Join(a.cfg.DataDir, a.cfg.Label)
			sums, err := runner.Batch(cmd.Context(), runner.BatchOptions{
				Params:      a.cfg.Params(),
				Runs:        a.cfg.Runs,
				BaseSeed:    a.seed(),
				Label:       a.cfg.Label,
				Dir:         dir,
				MaxSteps:    a.cfg.MaxSteps,
				Parallelism: a.cfg.Parallelism,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			survived := 0
			paths := make([]string, len(sums))
			for i, s := range sums {
				if s.Survived {
					survived++
				}
				paths[i] = s.Path
			}
			fmt.Fprintf(out, "%d runs, %d survived, saved under %s\n", len(sums), survived, dir)

			// dir may hold files from earlier batches; report on this one only
			runs, err := analysis.LoadFiles(paths...)
			if err != nil {
				return err
			}
			printReport(out, analysis.Summarize(runs))
			return nil
		},
	}
}

func (a *app) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze DIR",
		Short: "Summarize a directory of saved runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := analysis.LoadRuns(args[0])
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				a.logger.Warn("no runs found", "dir", args[0])
			}
			printReport(cmd.OutOrStdout(), analysis.Summarize(runs))
			return nil
		},
	}
}
