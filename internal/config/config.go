package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"github.com/san-kum/gaussiancl/internal/solver"
	"github.com/san-kum/gaussiancl/internal/transforms"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTransform = "lognormal"
	DefaultAlpha     = 1.0
	DefaultMetric    = "relmax"
)

// Config describes one solve: the transform, the target spectrum and the
// solver settings.
type Config struct {
	Transform    string       `yaml:"transform"`
	Params       []float64    `yaml:"params,omitempty"`
	Spectrum     []float64    `yaml:"spectrum,omitempty"`
	SpectrumFile string       `yaml:"spectrum_file,omitempty"`
	Solver       SolverConfig `yaml:"solver"`
}

type SolverConfig struct {
	ResidualTol float64  `yaml:"residual_tol"`
	StepTol     float64  `yaml:"step_tol"`
	MaxIter     int      `yaml:"max_iter"`
	Length      int      `yaml:"length,omitempty"`
	Monopole    *float64 `yaml:"monopole,omitempty"`
	Metric      string   `yaml:"metric"`
}

func DefaultConfig() *Config {
	return &Config{
		Transform: DefaultTransform,
		Solver: SolverConfig{
			ResidualTol: solver.DefaultResidualTol,
			StepTol:     solver.DefaultStepTol,
			MaxIter:     solver.DefaultMaxIter,
			Metric:      DefaultMetric,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToSolverConfig converts the solver section into a solver.Config.
func (c *Config) ToSolverConfig() (solver.Config, error) {
	m, err := metrics.ByName(c.Solver.Metric)
	if err != nil {
		return solver.Config{}, err
	}
	cfg := solver.Config{
		ResidualTol: c.Solver.ResidualTol,
		StepTol:     c.Solver.StepTol,
		MaxIter:     c.Solver.MaxIter,
		Length:      c.Solver.Length,
		Metric:      m,
	}
	if c.Solver.Monopole != nil {
		cfg.Monopole = solver.Monopole(*c.Solver.Monopole)
	}
	return cfg, nil
}

// Build looks up the configured transform. Shifted transforms without
// params get alpha = DefaultAlpha.
func (c *Config) Build(reg *transforms.Registry) (gcl.Transform, error) {
	params := c.Params
	if len(params) == 0 && c.Transform != "normal" {
		params = []float64{DefaultAlpha}
	}
	return reg.Lookup(c.Transform, params)
}

// Target returns the inline spectrum, or reads SpectrumFile when none is given.
func (c *Config) Target() ([]float64, error) {
	if len(c.Spectrum) > 0 {
		out := make([]float64, len(c.Spectrum))
		copy(out, c.Spectrum)
		return out, nil
	}
	if c.SpectrumFile == "" {
		return nil, fmt.Errorf("config: no spectrum or spectrum_file given")
	}
	f, err := os.Open(c.SpectrumFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSpectrum(f)
}

// ReadSpectrum parses a spectrum from CSV. A single column holds C_ℓ in
// order of ℓ; with two or more columns the last column is used. A header
// row that does not parse as a number is skipped.
func ReadSpectrum(r io.Reader) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	cl := make([]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		field := strings.TrimSpace(rec[len(rec)-1])
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("spectrum line %d: %w", i+1, err)
		}
		cl = append(cl, v)
	}
	return cl, nil
}

// ParseFloats parses a comma-separated list such as "1,0.5,0.25".
func ParseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
