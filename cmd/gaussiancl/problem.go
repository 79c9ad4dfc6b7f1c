package main

import (
	"fmt"

	"github.com/san-kum/gaussiancl/internal/config"
	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"github.com/san-kum/gaussiancl/internal/solver"
	"github.com/san-kum/gaussiancl/internal/transforms"
	"github.com/spf13/cobra"
)

// problem is a fully resolved solve request.
type problem struct {
	cfg       *config.Config
	transform gcl.Transform
	target    []float64
	solverCfg solver.Config
}

// resolveProblem merges preset, config file, positional transform and
// flags, in increasing priority.
func resolveProblem(cmd *cobra.Command, args []string) (*problem, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		tr, name, ok := config.ParsePreset(preset)
		if !ok {
			if len(args) == 0 {
				return nil, fmt.Errorf("preset %q needs a transform: use transform/%s", preset, preset)
			}
			tr, name = args[0], preset
		}
		p := config.GetPreset(tr, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s (available: %v)", tr, name, config.ListPresets(tr))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if len(args) > 0 && args[0] != cfg.Transform {
		cfg.Transform = args[0]
		cfg.Params = nil
	}
	if flags.Changed("params") {
		p, err := config.ParseFloats(paramsFlag)
		if err != nil {
			return nil, fmt.Errorf("--params: %w", err)
		}
		cfg.Params = p
	}
	if flags.Changed("cl") {
		cl, err := config.ParseFloats(clFlag)
		if err != nil {
			return nil, fmt.Errorf("--cl: %w", err)
		}
		cfg.Spectrum = cl
	}
	if flags.Changed("input") {
		cfg.Spectrum = nil
		cfg.SpectrumFile = inputFile
	}
	if flags.Changed("tol") {
		cfg.Solver.ResidualTol = residualTol
	}
	if flags.Changed("step-tol") {
		cfg.Solver.StepTol = stepTol
	}
	if flags.Changed("max-iter") {
		cfg.Solver.MaxIter = maxIter
	}
	if flags.Changed("length") {
		cfg.Solver.Length = length
	}
	if flags.Changed("monopole") {
		v := monopole
		cfg.Solver.Monopole = &v
	}
	if flags.Changed("metric") {
		cfg.Solver.Metric = metricName
	}

	return buildProblem(cfg)
}

func buildProblem(cfg *config.Config) (*problem, error) {
	t, err := cfg.Build(transforms.Default)
	if err != nil {
		return nil, err
	}
	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}
	sc, err := cfg.ToSolverConfig()
	if err != nil {
		return nil, err
	}
	return &problem{cfg: cfg, transform: t, target: target, solverCfg: sc}, nil
}

func (p *problem) solver(history *metrics.History) *solver.Solver {
	opts := []solver.Option{
		solver.WithConfig(p.solverCfg),
		solver.WithLogger(logger),
	}
	if history != nil {
		opts = append(opts, solver.WithObserver(history))
	}
	return solver.New(p.transform, opts...)
}

// spectrumFromFlags reads --cl or --input.
func spectrumFromFlags() ([]float64, error) {
	cfg := &config.Config{SpectrumFile: inputFile}
	if clFlag != "" {
		cl, err := config.ParseFloats(clFlag)
		if err != nil {
			return nil, fmt.Errorf("--cl: %w", err)
		}
		cfg.Spectrum = cl
	}
	return cfg.Target()
}
