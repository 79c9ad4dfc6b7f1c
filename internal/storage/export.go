package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Target   []float64 `json:"target"`
	Gaussian []float64 `json:"gaussian"`
}

// ExportJSON writes a stored run, metadata and spectra, as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	target, gaussian, err := s.LoadSpectra(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{
		RunMetadata: *meta,
		Target:      target,
		Gaussian:    gaussian,
	})
}
