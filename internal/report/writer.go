package report

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// New creates an empty report with defaults.
func New(profileName string) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Images:      []Image{},
	}
}

// Add appends an image entry.
func (r *Report) Add(img Image) {
	r.Images = append(r.Images, img)
}

// ComputeStats recalculates aggregate statistics from images, keeping
// CacheHits, which only the pipeline knows.
func (r *Report) ComputeStats() {
	s := Stats{CacheHits: r.Stats.CacheHits}
	s.TotalImages = len(r.Images)
	for _, img := range r.Images {
		s.InputBytes += img.Source.Size
		if img.Error != "" {
			s.Failed++
			continue
		}
		s.Rendered++
		s.TotalRows += img.Output.Rows
	}
	r.Stats = s
}

// Encode writes the report as indented JSON.
func Encode(r *Report, w io.Writer) error {
	r.ComputeStats()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteJSON serializes the report to a JSON file.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
