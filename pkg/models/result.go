package models

import "time"

// AnalysisResult contains the complete output of one analysis run:
// the annotated tree, the duplicate report, and the folded statistics.
// Downstream renderers key off these field names; keep them stable.
type AnalysisResult struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	RootPath  string        `json:"root_path"`
	Version   string        `json:"version"`

	Root       *DirectoryNode    `json:"root"`
	Duplicates []*DuplicateGroup `json:"duplicates,omitempty"`
	Stats      *AggregateStats   `json:"statistics"`

	// Counters maintained while collecting
	AnalyzedFiles int      `json:"analyzed_files"` // Files with metrics
	SkippedFiles  int      `json:"skipped_files"`  // Ignored or above the size cap
	ReadErrors    int      `json:"read_errors"`
	ErrorFiles    []string `json:"error_files,omitempty"`

	ReportPath string `json:"report_path,omitempty"`
}

// CollectErrors walks the tree and fills the read-error counters from
// the soft failure markers recorded during traversal.
func (r *AnalysisResult) CollectErrors() {
	r.ReadErrors = 0
	r.ErrorFiles = nil
	if r.Root == nil {
		return
	}
	var visit func(d *DirectoryNode)
	visit = func(d *DirectoryNode) {
		for _, e := range d.Errors {
			r.ReadErrors++
			r.ErrorFiles = append(r.ErrorFiles, e.Path)
		}
		for _, f := range d.Files {
			if f.ContentError != "" {
				r.ReadErrors++
				r.ErrorFiles = append(r.ErrorFiles, f.Path)
			}
		}
		for _, child := range d.Directories {
			visit(child)
		}
	}
	visit(r.Root)
}
