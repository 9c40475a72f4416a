package analyzer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/pkg/models"
)

// State is the carry-over scanner state between physical lines.
type State int

const (
	StateNormal State = iota
	StateInBlockComment
	StateInMultilineString // Indent-family only
)

// lineResult is the per-line categorization. A code line with a trailing
// comment marker sets both code and comment; that double count is the
// defined contract, not an error.
type lineResult struct {
	blank   bool
	code    bool
	comment bool
}

// lineScanner classifies one physical line given the previous state.
// Transitions look only at the line's trimmed leading/trailing tokens,
// not a full lexer, so a string literal containing a comment token can
// misclassify. Accepted heuristic limitation.
type lineScanner interface {
	classifyLine(line string, state State) (lineResult, State)
}

// scannerFor selects the scanner implementation for a language family.
// Unlisted families fall back to line counting without structure.
func scannerFor(family language.Family) lineScanner {
	switch family {
	case language.FamilyBrace:
		return &braceScanner{}
	case language.FamilyIndent:
		return &indentScanner{}
	default:
		return &plainScanner{}
	}
}

// braceScanner handles C-style comment syntax: // and /* ... */.
type braceScanner struct{}

func (s *braceScanner) classifyLine(line string, state State) (lineResult, State) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineResult{blank: true}, state
	}

	if state == StateInBlockComment {
		if strings.Contains(trimmed, "*/") {
			return lineResult{comment: true}, StateNormal
		}
		return lineResult{comment: true}, state
	}

	if strings.HasPrefix(trimmed, "//") {
		return lineResult{comment: true}, state
	}

	if strings.HasPrefix(trimmed, "/*") && !strings.Contains(trimmed[2:], "*/") {
		return lineResult{comment: true}, StateInBlockComment
	}

	res := lineResult{code: true}
	if strings.Contains(trimmed, "//") {
		res.comment = true
	}
	return res, state
}

// indentScanner handles Python-style syntax: # comments and
// triple-quoted multiline strings.
type indentScanner struct {
	delim string // Open multiline string delimiter, """ or '''
}

func (s *indentScanner) classifyLine(line string, state State) (lineResult, State) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineResult{blank: true}, state
	}

	if state == StateInMultilineString {
		if strings.Contains(trimmed, s.delim) {
			s.delim = ""
			return lineResult{comment: true}, StateNormal
		}
		return lineResult{comment: true}, state
	}

	if strings.HasPrefix(trimmed, "#") {
		return lineResult{comment: true}, state
	}

	for _, delim := range []string{`"""`, "'''"} {
		if strings.HasPrefix(trimmed, delim) && !strings.Contains(trimmed[len(delim):], delim) {
			s.delim = delim
			return lineResult{comment: true}, StateInMultilineString
		}
	}

	res := lineResult{code: true}
	if strings.Contains(trimmed, "#") {
		res.comment = true
	}
	return res, state
}

// plainScanner counts every non-blank line as code.
type plainScanner struct{}

func (s *plainScanner) classifyLine(line string, state State) (lineResult, State) {
	if strings.TrimSpace(line) == "" {
		return lineResult{blank: true}, state
	}
	return lineResult{code: true}, state
}

// Classify turns raw file text into line-category and structural counts
// for the given language. The complexity score and label are filled in
// separately by ApplyComplexity. Returns an error for non-text content;
// the caller records it as a soft failure on the node.
func Classify(content string, lang language.Language) (*models.Metrics, error) {
	if err := checkText(content); err != nil {
		return nil, err
	}

	scanner := scannerFor(lang.Family)
	patterns := patternsFor(lang.Family)

	lines := strings.Split(content, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	m := &models.Metrics{}
	state := StateNormal
	for _, line := range lines {
		m.TotalLines++

		var res lineResult
		res, state = scanner.classifyLine(line, state)
		if res.blank {
			m.BlankLines++
			continue
		}
		if res.code {
			m.CodeLines++
			if patterns != nil {
				patterns.count(line, m)
			}
		}
		if res.comment {
			m.CommentLines++
		}
	}

	return m, nil
}

// checkText rejects content that cannot be treated as text.
func checkText(content string) error {
	if bytes.IndexByte([]byte(content), 0) >= 0 {
		return fmt.Errorf("content contains NUL bytes")
	}
	if !utf8.ValidString(content) {
		return fmt.Errorf("content is not valid UTF-8")
	}
	return nil
}
