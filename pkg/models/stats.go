package models

import "time"

// TopK is the bound on every ranked list in AggregateStats.
const TopK = 10

// RankedFile is one entry of a bounded ranked list.
type RankedFile struct {
	Path    string          `json:"path"`
	Size    int64           `json:"size,omitempty"`
	ModTime *time.Time      `json:"mod_time,omitempty"`
	Score   int             `json:"score,omitempty"`
	Label   ComplexityLabel `json:"label,omitempty"`
}

// DuplicateRef ranks one duplicate group by its total duplicated lines.
type DuplicateRef struct {
	FileA      string `json:"file_a"`
	FileB      string `json:"file_b"`
	TotalLines int    `json:"total_lines"`
}

// AggregateStats is the single-pass fold of a completed traversal.
// Built once per analysis and handed to a renderer, then discarded.
type AggregateStats struct {
	DirectoryCount int   `json:"directory_count"`
	FileCount      int   `json:"file_count"`
	TotalSize      int64 `json:"total_size"`

	Extensions map[string]int `json:"extensions"`
	Languages  map[string]int `json:"languages"`

	ComplexityBuckets map[ComplexityLabel]int `json:"complexity_buckets"`

	LargestFiles     []RankedFile `json:"largest_files"`
	MostComplexFiles []RankedFile `json:"most_complex_files"`
	NewestFiles      []RankedFile `json:"newest_files"`
	OldestFiles      []RankedFile `json:"oldest_files"`

	LargestDuplicates []DuplicateRef `json:"largest_duplicates,omitempty"`
}

// NewAggregateStats returns an empty accumulator with allocated maps.
func NewAggregateStats() *AggregateStats {
	return &AggregateStats{
		Extensions:        make(map[string]int),
		Languages:         make(map[string]int),
		ComplexityBuckets: make(map[ComplexityLabel]int),
	}
}
