package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReportRoundtrip(t *testing.T) {
	r := New("halfblock")
	r.Renderer = "halfblock"
	r.Terminal = Terminal{Columns: 120, Rows: 40}
	r.Add(Image{
		Key: "photos/cat.png",
		Source: SourceInfo{
			Width: 800, Height: 600,
			Format: "png", Size: 100000, HasAlpha: true,
		},
		Output:         OutputInfo{Width: 120, Height: 90, Rows: 45},
		SamplesPerCell: 6.6667,
		KernelRadius:   2,
		Hash:           "ef46db3751d8e999",
		AvgColor:       &[3]uint8{10, 20, 30},
	})
	r.Add(Image{Key: "broken.jpg", Source: SourceInfo{Size: 12}, Error: "decode: unexpected EOF"})
	r.Stats.CacheHits = 1

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, "imcat.report.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read back and parse.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var r2 Report
	if err := json.Unmarshal(data, &r2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Verify fields.
	if r2.Version != SupportedVersion {
		t.Errorf("version: got %d, want %d", r2.Version, SupportedVersion)
	}
	if r2.Profile != "halfblock" || r2.Renderer != "halfblock" {
		t.Errorf("profile/renderer: got %q/%q", r2.Profile, r2.Renderer)
	}
	if r2.Terminal.Columns != 120 {
		t.Errorf("terminal columns: got %d", r2.Terminal.Columns)
	}
	if len(r2.Images) != 2 {
		t.Fatalf("images: got %d", len(r2.Images))
	}
	img := r2.Images[0]
	if img.Key != "photos/cat.png" || img.Output.Rows != 45 || img.KernelRadius != 2 {
		t.Errorf("image 0: got %+v", img)
	}
	if img.AvgColor == nil || *img.AvgColor != [3]uint8{10, 20, 30} {
		t.Errorf("avg color: got %v", img.AvgColor)
	}

	// Stats.
	s := r2.Stats
	if s.TotalImages != 2 || s.Rendered != 1 || s.Failed != 1 {
		t.Errorf("counts: got %+v", s)
	}
	if s.TotalRows != 45 || s.InputBytes != 100012 || s.CacheHits != 1 {
		t.Errorf("totals: got %+v", s)
	}
}

func TestReportEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(New("classic"), &buf); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if imgs, ok := m["images"].([]any); !ok || len(imgs) != 0 {
		t.Errorf("images: got %v, want empty array", m["images"])
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	// Simulate a future report with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "classic",
		"future_field": "should be ignored",
		"terminal": { "columns": 80, "rows": 24, "pixels": true },
		"images": [],
		"stats": { "total_images": 0, "rendered": 0, "failed": 0, "total_rows": 0, "input_bytes": 0, "new_stat": 42 }
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.Version != 1 || r.Terminal.Columns != 80 {
		t.Errorf("got %+v", r)
	}
}
