package main

import (
	"fmt"
	"os"

	"github.com/san-kum/gaussiancl/internal/solver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir     string
	verbose     bool
	configFile  string
	preset      string
	clFlag      string
	inputFile   string
	paramsFlag  string
	residualTol float64
	stepTol     float64
	maxIter     int
	length      int
	monopole    float64
	metricName  string
	save        bool
	saveLive    bool
	saveBatch   bool

	// apply
	inverse    bool
	derivative bool

	// check
	checkLo float64
	checkHi float64
	fdStep  float64

	// convert
	alpha  float64
	alpha2 float64

	tickMs   int
	parallel int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gaussiancl",
		Short:         "gaussian angular power spectra for transformed fields",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			solver.SetLogger(l)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gaussiancl", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve [transform]",
		Short: "solve for the gaussian spectrum of a target spectrum",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	addProblemFlags(solveCmd)
	solveCmd.Flags().BoolVar(&save, "save", true, "store the run in the data directory")

	liveCmd := &cobra.Command{
		Use:   "live [transform]",
		Short: "watch the solver iterate",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addProblemFlags(liveCmd)
	liveCmd.Flags().BoolVar(&saveLive, "save", false, "store the run on exit")
	liveCmd.Flags().IntVar(&tickMs, "tick", 400, "milliseconds per iteration")

	batchCmd := &cobra.Command{
		Use:   "batch [transform/preset ...]",
		Short: "solve several presets in parallel (all presets by default)",
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent solves (0 = GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&saveBatch, "save", false, "store every run")

	applyCmd := &cobra.Command{
		Use:   "apply [transform]",
		Short: "band-limited transform of a spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  runApply,
	}
	addSpectrumFlags(applyCmd)
	applyCmd.Flags().StringVar(&paramsFlag, "params", "", "transform parameters, comma separated")
	applyCmd.Flags().BoolVar(&inverse, "inv", false, "apply the inverse transform")
	applyCmd.Flags().BoolVar(&derivative, "der", false, "apply the derivative")
	applyCmd.Flags().IntVar(&length, "length", 0, "working length n >= m (0 = m)")

	convertCmd := &cobra.Command{
		Use:       "convert [ln2n|n2ln]",
		Short:     "direct lognormal <-> normal spectrum conversion",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"ln2n", "n2ln"},
		RunE:      runConvert,
	}
	addSpectrumFlags(convertCmd)
	convertCmd.Flags().Float64Var(&alpha, "alpha", 1, "lognormal shift")
	convertCmd.Flags().Float64Var(&alpha2, "alpha2", 0, "second shift for cross spectra (0 = alpha)")
	convertCmd.Flags().IntVar(&length, "length", 0, "working length n >= m (0 = m)")

	checkCmd := &cobra.Command{
		Use:   "check [transform]",
		Short: "round-trip and derivative diagnostics for a transform",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().StringVar(&paramsFlag, "params", "", "transform parameters, comma separated")
	checkCmd.Flags().Float64Var(&checkLo, "lo", -0.5, "lower end of the sample range")
	checkCmd.Flags().Float64Var(&checkHi, "hi", 0.5, "upper end of the sample range")
	checkCmd.Flags().Float64Var(&fdStep, "h", 1e-6, "finite difference step")

	transformsCmd := &cobra.Command{
		Use:   "transforms",
		Short: "list available transforms",
		RunE:  listTransforms,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [transform]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run spectra and residual history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(solveCmd, liveCmd, batchCmd, applyCmd, convertCmd, checkCmd,
		transformsCmd, presetsCmd, listCmd, plotCmd, exportJSONCmd)

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

func addSpectrumFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&clFlag, "cl", "", "spectrum, comma separated")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "spectrum CSV file")
}

func addProblemFlags(cmd *cobra.Command) {
	addSpectrumFlags(cmd)
	cmd.Flags().StringVar(&paramsFlag, "params", "", "transform parameters, comma separated")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name, or transform/name")
	cmd.Flags().Float64Var(&residualTol, "tol", solver.DefaultResidualTol, "residual tolerance")
	cmd.Flags().Float64Var(&stepTol, "step-tol", solver.DefaultStepTol, "step size tolerance")
	cmd.Flags().IntVar(&maxIter, "max-iter", solver.DefaultMaxIter, "iteration budget")
	cmd.Flags().IntVar(&length, "length", 0, "working length n >= m (0 = 3m)")
	cmd.Flags().Float64Var(&monopole, "monopole", 0, "pin the gaussian monopole to this value")
	cmd.Flags().StringVar(&metricName, "metric", "relmax", "residual metric: relmax (max |f/c|) or sumsq (f·f / c·c)")
}
