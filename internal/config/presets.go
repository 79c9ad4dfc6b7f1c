package config

import (
	"sort"
	"strings"

	"github.com/san-kum/gaussiancl/internal/solver"
)

func defaultSolver() SolverConfig {
	return SolverConfig{
		ResidualTol: solver.DefaultResidualTol,
		StepTol:     solver.DefaultStepTol,
		MaxIter:     solver.DefaultMaxIter,
		Metric:      DefaultMetric,
	}
}

func pinned(v float64) SolverConfig {
	s := defaultSolver()
	s.Monopole = &v
	return s
}

var Presets = map[string]map[string]*Config{
	"lognormal": {
		"demo": {
			Transform: "lognormal", Params: []float64{1.0},
			Spectrum: []float64{1, 0.5, 0.3, 0.2, 0.1, 0.05, 0.02, 0.01},
			Solver:   defaultSolver(),
		},
		"convergence": {
			Transform: "lognormal", Params: []float64{1.0},
			Spectrum: []float64{0.8, 0.6, 0.45, 0.3, 0.2, 0.12, 0.07, 0.04, 0.02, 0.01, 0.005, 0.002},
			Solver:   defaultSolver(),
		},
		"shallow": {
			Transform: "lognormal", Params: []float64{2.5},
			Spectrum: []float64{0.5, 0.4, 0.3, 0.2, 0.1, 0.05},
			Solver:   defaultSolver(),
		},
		"pinned": {
			Transform: "lognormal", Params: []float64{1.0},
			Spectrum: []float64{1, 0.5, 0.3, 0.2, 0.1, 0.05, 0.02, 0.01},
			Solver:   pinned(0),
		},
		"cross": {
			Transform: "lognormal", Params: []float64{1.0, 1.5},
			Spectrum: []float64{0.6, 0.4, 0.25, 0.15, 0.08, 0.04},
			Solver:   defaultSolver(),
		},
	},
	"lognormal_normal": {
		"demo": {
			Transform: "lognormal_normal", Params: []float64{1.0},
			Spectrum: []float64{0.4, 0.2, 0.1, 0.05, 0.02},
			Solver:   defaultSolver(),
		},
	},
	"normal": {
		"identity": {
			Transform: "normal",
			Spectrum:  []float64{1, 0.5, 0.25, 0.125},
			Solver:    defaultSolver(),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(transform, preset string) *Config {
	transformPresets, ok := Presets[transform]
	if !ok {
		return nil
	}
	cfg, ok := transformPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.Params = append([]float64(nil), cfg.Params...)
	c.Spectrum = append([]float64(nil), cfg.Spectrum...)
	if cfg.Solver.Monopole != nil {
		v := *cfg.Solver.Monopole
		c.Solver.Monopole = &v
	}
	return &c
}

func ListPresets(transform string) []string {
	transformPresets, ok := Presets[transform]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(transformPresets))
	for name := range transformPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePreset splits "transform/name".
func ParsePreset(id string) (transform, name string, ok bool) {
	i := strings.IndexByte(id, '/')
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}
