package report

// Report is the JSON summary of one imcat run or inspection.
type Report struct {
	Version     int      `json:"version"`
	GeneratedAt string   `json:"generated_at"`
	Profile     string   `json:"profile"`
	Renderer    string   `json:"renderer"`
	Terminal    Terminal `json:"terminal"`
	Images      []Image  `json:"images"`
	Stats       Stats    `json:"stats"`
}

// Terminal is the character grid the output was sized for.
type Terminal struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// Image describes one input, in argument order.
type Image struct {
	Key            string     `json:"key"`
	Source         SourceInfo `json:"source"`
	Output         OutputInfo `json:"output"`
	SamplesPerCell float64    `json:"samples_per_cell,omitempty"`
	KernelRadius   int        `json:"kernel_radius"`
	Hash           string     `json:"hash,omitempty"`     // xxhash64 of the file bytes
	AvgColor       *[3]uint8  `json:"avg_color,omitempty"` // [R,G,B] of the source
	Cached         bool       `json:"cached,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// SourceInfo holds metadata about the decoded file.
type SourceInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// OutputInfo is the resampled grid and the terminal rows it occupies.
type OutputInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Rows   int `json:"rows"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalImages int   `json:"total_images"`
	Rendered    int   `json:"rendered"`
	Failed      int   `json:"failed"`
	CacheHits   int   `json:"cache_hits,omitempty"`
	TotalRows   int   `json:"total_rows"`
	InputBytes  int64 `json:"input_bytes"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1
