package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a complete run (metadata plus trajectory) to w.
func ExportJSON(w io.Writer, meta *RunMetadata, states [][]float64, times []float64) error {
	data := ExportData{
		ID:         meta.ID,
		System:     meta.System,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      len(times),
		Times:      times,
		States:     states,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON writing to a file path.
func ExportJSONFile(path string, meta *RunMetadata, states [][]float64, times []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, states, times)
}
