package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"github.com/san-kum/gaussiancl/internal/metrics"
	"github.com/san-kum/gaussiancl/internal/solver"
	"github.com/san-kum/gaussiancl/internal/transforms"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Transform != "lognormal" {
		t.Errorf("expected transform lognormal, got %s", cfg.Transform)
	}
	if cfg.Solver.MaxIter != solver.DefaultMaxIter {
		t.Errorf("expected max_iter %d, got %d", solver.DefaultMaxIter, cfg.Solver.MaxIter)
	}
	if cfg.Solver.ResidualTol <= 0 || cfg.Solver.StepTol <= 0 {
		t.Error("tolerances should be positive")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")

	cfg := DefaultConfig()
	cfg.Params = []float64{1.5, 2}
	cfg.Spectrum = []float64{1, 0.5}
	cfg.Solver.Metric = "sumsq"
	m := 0.25
	cfg.Solver.Monopole = &m

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Transform != cfg.Transform || len(got.Params) != 2 || got.Params[1] != 2 {
		t.Errorf("transform section not preserved: %+v", got)
	}
	if len(got.Spectrum) != 2 || got.Spectrum[1] != 0.5 {
		t.Errorf("spectrum not preserved: %v", got.Spectrum)
	}
	if got.Solver.Monopole == nil || *got.Solver.Monopole != 0.25 {
		t.Error("monopole not preserved")
	}
	if got.Solver.Metric != "sumsq" {
		t.Errorf("metric not preserved: %s", got.Solver.Metric)
	}
}

func TestLoad_PartialUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := writeFile(path, "transform: normal\nspectrum: [1, 2]\n"); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Solver.MaxIter != solver.DefaultMaxIter {
		t.Errorf("expected default max_iter, got %d", got.Solver.MaxIter)
	}
	if got.Transform != "normal" {
		t.Errorf("expected normal, got %s", got.Transform)
	}
	if _, err := got.Build(transforms.Default); err != nil {
		t.Errorf("normal transform without params: %v", err)
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	tr, err := cfg.Build(transforms.Default)
	if err != nil {
		t.Fatal(err)
	}
	ln, ok := tr.(*transforms.LogNormal)
	if !ok || ln.Alpha != DefaultAlpha {
		t.Errorf("expected lognormal with default alpha, got %#v", tr)
	}

	cfg.Transform = "missing"
	_, err = cfg.Build(transforms.Default)
	var unknown *gcl.UnknownTransformError
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownTransformError, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToSolverConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver.Length = 30
	m := 0.5
	cfg.Solver.Monopole = &m

	sc, err := cfg.ToSolverConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Length != 30 || sc.MaxIter != solver.DefaultMaxIter {
		t.Errorf("unexpected solver config: %+v", sc)
	}
	if sc.Monopole == nil || *sc.Monopole != 0.5 {
		t.Error("monopole not carried over")
	}
	if _, ok := sc.Metric.(metrics.RelativeMax); !ok {
		t.Errorf("expected relmax metric, got %T", sc.Metric)
	}

	cfg.Solver.Metric = "l1"
	if _, err := cfg.ToSolverConfig(); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cl.csv")
	if err := writeFile(file, "ell,cl\n0,1\n1,0.5\n2,0.25\n"); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.SpectrumFile = file
	cl, err := cfg.Target()
	if err != nil {
		t.Fatal(err)
	}
	if len(cl) != 3 || cl[2] != 0.25 {
		t.Errorf("unexpected spectrum from file: %v", cl)
	}

	cfg.Spectrum = []float64{9}
	cl, err = cfg.Target()
	if err != nil {
		t.Fatal(err)
	}
	if len(cl) != 1 || cl[0] != 9 {
		t.Errorf("inline spectrum should win, got %v", cl)
	}

	if _, err := DefaultConfig().Target(); err == nil {
		t.Error("expected error without spectrum")
	}
}

func TestReadSpectrum(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []float64
		wantErr bool
	}{
		{"single column", "1\n0.5\n0.25\n", []float64{1, 0.5, 0.25}, false},
		{"header", "cl\n1\n2\n", []float64{1, 2}, false},
		{"comments", "# spectrum\n0, 1\n1, 2\n", []float64{1, 2}, false},
		{"bad value", "1\nx\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSpectrum(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d: got %g, want %g", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseFloats(t *testing.T) {
	got, err := ParseFloats(" 1, 0.5 ,2e-3")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != 2e-3 {
		t.Errorf("unexpected values: %v", got)
	}

	if got, _ := ParseFloats(""); got != nil {
		t.Error("empty input should give nil")
	}
	if _, err := ParseFloats("1,,2"); err == nil {
		t.Error("expected error for empty field")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lognormal", "demo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Spectrum) != 8 || cfg.Spectrum[0] != 1 {
		t.Errorf("unexpected demo spectrum: %v", cfg.Spectrum)
	}

	cfg.Spectrum[0] = 42
	if GetPreset("lognormal", "demo").Spectrum[0] != 1 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("lognormal", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "demo") != nil {
		t.Error("expected nil for nonexistent transform")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for name, group := range Presets {
		for preset, cfg := range group {
			if cfg.Transform != name {
				t.Errorf("%s/%s: transform %q does not match group", name, preset, cfg.Transform)
			}
			if _, err := cfg.Build(transforms.Default); err != nil {
				t.Errorf("%s/%s: %v", name, preset, err)
			}
			if _, err := cfg.ToSolverConfig(); err != nil {
				t.Errorf("%s/%s: %v", name, preset, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("lognormal")
	if len(presets) == 0 || presets[0] != "convergence" {
		t.Errorf("expected sorted presets for lognormal, got %v", presets)
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent transform")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		id        string
		transform string
		name      string
		ok        bool
	}{
		{"lognormal/demo", "lognormal", "demo", true},
		{"lognormal", "", "", false},
		{"/demo", "", "", false},
		{"lognormal/", "", "", false},
	}

	for _, tt := range tests {
		tr, name, ok := ParsePreset(tt.id)
		if tr != tt.transform || name != tt.name || ok != tt.ok {
			t.Errorf("ParsePreset(%q) = %q, %q, %v", tt.id, tr, name, ok)
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
