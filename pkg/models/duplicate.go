package models

// DuplicateBlock is a maximal contiguous run of identical lines shared
// between two files, found from an initial similarity-qualified window.
// Line numbers are 1-based and inclusive.
type DuplicateBlock struct {
	StartLineA int `json:"start_line_a"`
	EndLineA   int `json:"end_line_a"`
	StartLineB int `json:"start_line_b"`
	EndLineB   int `json:"end_line_b"`
	LineCount  int `json:"line_count"`
}

// DuplicateGroup collects the duplicate blocks found between one pair
// of same-language files. A group with zero blocks is never emitted.
type DuplicateGroup struct {
	FileA    string           `json:"file_a"`
	FileB    string           `json:"file_b"`
	Language string           `json:"language"`
	Blocks   []DuplicateBlock `json:"blocks"`
}

// TotalLines returns the sum of block line counts in the group.
func (g *DuplicateGroup) TotalLines() int {
	total := 0
	for _, b := range g.Blocks {
		total += b.LineCount
	}
	return total
}
