package analyzer

import (
	"regexp"

	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/pkg/models"
)

// patternSet accumulates structural counts for one language family.
// These are keyword heuristics over single lines, not a parse.
type patternSet struct {
	function    *regexp.Regexp
	typeDef     *regexp.Regexp
	conditional *regexp.Regexp
}

var bracePatterns = &patternSet{
	function:    regexp.MustCompile(`\b(?:func|function|fn)\s+[A-Za-z_]|=>\s*[({]`),
	typeDef:     regexp.MustCompile(`\b(?:class|interface|struct|enum|trait)\s+[A-Za-z_]|\btype\s+[A-Za-z_]\w*\s+(?:struct|interface)\b`),
	conditional: regexp.MustCompile(`\b(?:if|for|while|switch|case|catch)\b`),
}

var indentPatterns = &patternSet{
	function:    regexp.MustCompile(`^\s*(?:async\s+)?def\s+[A-Za-z_]`),
	typeDef:     regexp.MustCompile(`^\s*class\s+[A-Za-z_]`),
	conditional: regexp.MustCompile(`\b(?:if|elif|for|while|except|case)\b`),
}

// patternsFor returns the pattern set for a family, or nil for families
// that only get line counts.
func patternsFor(family language.Family) *patternSet {
	switch family {
	case language.FamilyBrace:
		return bracePatterns
	case language.FamilyIndent:
		return indentPatterns
	default:
		return nil
	}
}

// count applies the pattern set to one code line.
func (p *patternSet) count(line string, m *models.Metrics) {
	if p.function.MatchString(line) {
		m.FunctionCount++
	}
	if p.typeDef.MatchString(line) {
		m.TypeCount++
	}
	m.ConditionalCount += len(p.conditional.FindAllString(line, -1))
}
