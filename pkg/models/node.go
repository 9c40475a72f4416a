package models

import (
	"time"
)

// DirectoryNode represents a directory in the analyzed tree.
// Children are ordered directories first, then files, each group
// sorted by name. A node is immutable once its builder returns it.
type DirectoryNode struct {
	Name         string           `json:"name"`
	Path         string           `json:"path"`          // Absolute path
	RelativePath string           `json:"relative_path"` // Path relative to the analysis root
	Directories  []*DirectoryNode `json:"directories,omitempty"`
	Files        []*FileNode      `json:"files,omitempty"`
	Errors       []*EntryError    `json:"errors,omitempty"` // Soft per-entry failures
}

// FileNode represents a single file in the analyzed tree.
type FileNode struct {
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	RelativePath string     `json:"relative_path"`
	Extension    string     `json:"extension,omitempty"` // Lowercased, without dot
	Size         int64      `json:"size"`
	ModTime      *time.Time `json:"mod_time,omitempty"`
	Language     string     `json:"language,omitempty"` // Empty if unknown
	Family       string     `json:"family,omitempty"`   // Language family tag
	Content      string     `json:"-"`                  // Present only when loaded within the size cap
	HasContent   bool       `json:"has_content"`
	ContentError string     `json:"content_error,omitempty"` // Soft read/decode failure
	Metrics      *Metrics   `json:"metrics,omitempty"`
}

// EntryError records a non-fatal failure for a single directory entry.
// It never aborts the traversal of sibling entries.
type EntryError struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// CountNodes returns the number of directories and files in the subtree,
// the root directory included.
func (d *DirectoryNode) CountNodes() (dirs, files int) {
	dirs = 1
	files = len(d.Files)
	for _, child := range d.Directories {
		cd, cf := child.CountNodes()
		dirs += cd
		files += cf
	}
	return dirs, files
}

// WalkFiles visits every file in the subtree in traversal order.
func (d *DirectoryNode) WalkFiles(fn func(*FileNode)) {
	for _, child := range d.Directories {
		child.WalkFiles(fn)
	}
	for _, f := range d.Files {
		fn(f)
	}
}
