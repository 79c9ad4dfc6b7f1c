package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gaussiancl/internal/solver"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a stored solve.
type RunMetadata struct {
	ID          string    `json:"id"`
	Transform   string    `json:"transform"`
	Params      []float64 `json:"params,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Multipoles  int       `json:"multipoles"`
	Length      int       `json:"length"`
	Metric      string    `json:"metric"`
	ResidualTol float64   `json:"residual_tol"`
	StepTol     float64   `json:"step_tol"`
	MaxIter     int       `json:"max_iter"`
	Monopole    *float64  `json:"monopole,omitempty"`
	Status      string    `json:"status"`
	Code        int       `json:"code"`
	Iterations  int       `json:"iterations"`
	Residual    float64   `json:"residual"`
	StepSize    float64   `json:"step_size"`
	Residuals   []float64 `json:"residuals,omitempty"`
}

// Run is the input to Save.
type Run struct {
	Transform string
	Params    []float64
	Config    solver.Config
	Target    []float64
	Result    *solver.Result
	Residuals []float64
}

func (s *Store) Save(run Run) (string, error) {
	if run.Result == nil {
		return "", fmt.Errorf("storage: nil result")
	}
	if len(run.Target) != len(run.Result.Spectrum) {
		return "", fmt.Errorf("storage: target has %d multipoles, result has %d", len(run.Target), len(run.Result.Spectrum))
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Transform, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	res := run.Result
	meta := RunMetadata{
		ID:          runID,
		Transform:   run.Transform,
		Params:      run.Params,
		Timestamp:   now,
		Multipoles:  len(run.Target),
		Length:      res.Length,
		Metric:      res.Metric,
		ResidualTol: run.Config.ResidualTol,
		StepTol:     run.Config.StepTol,
		MaxIter:     run.Config.MaxIter,
		Monopole:    run.Config.Monopole,
		Status:      res.Status.String(),
		Code:        res.Code(),
		Iterations:  res.Iterations,
		Residual:    res.Residual,
		StepSize:    res.StepSize,
		Residuals:   run.Residuals,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "spectra.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"ell", "target", "gaussian"}); err != nil {
		return "", err
	}
	for ell := range run.Target {
		row := []string{
			strconv.Itoa(ell),
			strconv.FormatFloat(run.Target[ell], 'g', -1, 64),
			strconv.FormatFloat(res.Spectrum[ell], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSpectra returns the target and Gaussian spectra of a stored run.
func (s *Store) LoadSpectra(runID string) (target, gaussian []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "spectra.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	target = make([]float64, 0, len(records)-1)
	gaussian = make([]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		c, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("spectra.csv row %d: %w", i+2, err)
		}
		g, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("spectra.csv row %d: %w", i+2, err)
		}
		target = append(target, c)
		gaussian = append(gaussian, g)
	}

	return target, gaussian, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
