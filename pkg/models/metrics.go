package models

// ComplexityLabel buckets a complexity score into four levels.
type ComplexityLabel string

const (
	ComplexityLow      ComplexityLabel = "low"
	ComplexityMedium   ComplexityLabel = "medium"
	ComplexityHigh     ComplexityLabel = "high"
	ComplexityVeryHigh ComplexityLabel = "very high"
)

// Metrics holds per-file line and structure counts. Present only when
// the file content was readable text and its language was classifiable.
type Metrics struct {
	TotalLines       int             `json:"total_lines"`
	CodeLines        int             `json:"code_lines"`
	CommentLines     int             `json:"comment_lines"`
	BlankLines       int             `json:"blank_lines"`
	FunctionCount    int             `json:"function_count"`
	TypeCount        int             `json:"type_count"`
	ConditionalCount int             `json:"conditional_count"`
	ComplexityScore  int             `json:"complexity_score"`
	ComplexityLabel  ComplexityLabel `json:"complexity_label"`
}

// LabelForScore maps a complexity score to its label. The label is a
// pure step function of the score: >50 very high, >30 high, >15 medium.
func LabelForScore(score int) ComplexityLabel {
	switch {
	case score > 50:
		return ComplexityVeryHigh
	case score > 30:
		return ComplexityHigh
	case score > 15:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}

// LabelForLineCount maps a total line count to a label for language
// families without structural counts. Very high is unreachable here;
// without structural counts the confidence is too low for it.
func LabelForLineCount(lines int) ComplexityLabel {
	switch {
	case lines > 500:
		return ComplexityHigh
	case lines > 200:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}

// LabelPriority returns a numeric rank for a label (higher = more complex).
func LabelPriority(l ComplexityLabel) int {
	switch l {
	case ComplexityVeryHigh:
		return 4
	case ComplexityHigh:
		return 3
	case ComplexityMedium:
		return 2
	case ComplexityLow:
		return 1
	default:
		return 0
	}
}
