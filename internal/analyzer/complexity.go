package analyzer

import (
	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/pkg/models"
)

// ApplyComplexity fills in the complexity score and label.
// Score = (functions + types) * 2 + conditionals. Families without
// structural counts derive the label from total lines instead and keep
// a zero score; "very high" is unreachable there.
func ApplyComplexity(m *models.Metrics, family language.Family) {
	if m == nil {
		return
	}
	switch family {
	case language.FamilyBrace, language.FamilyIndent:
		m.ComplexityScore = (m.FunctionCount+m.TypeCount)*2 + m.ConditionalCount
		m.ComplexityLabel = models.LabelForScore(m.ComplexityScore)
	default:
		m.ComplexityScore = 0
		m.ComplexityLabel = models.LabelForLineCount(m.TotalLines)
	}
}
