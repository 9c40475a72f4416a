package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// generateMarkdown generates a Markdown report
func (g *Generator) generateMarkdown(result *models.AnalysisResult, outputFile string) error {
	var sb strings.Builder
	stats := result.Stats

	sb.WriteString(fmt.Sprintf("# ansa-fs Source Tree Analysis Report v%s\n\n", result.Version))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Root Path | `%s` |\n", result.RootPath))
	sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", result.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| End Time | %s |\n", result.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("| Directories | %d |\n", stats.DirectoryCount))
	sb.WriteString(fmt.Sprintf("| Files | %d |\n", stats.FileCount))
	sb.WriteString(fmt.Sprintf("| Total Size | %s |\n", FormatSize(stats.TotalSize)))
	sb.WriteString(fmt.Sprintf("| Analyzed Files | %d |\n", result.AnalyzedFiles))
	sb.WriteString(fmt.Sprintf("| Skipped Files | %d |\n", result.SkippedFiles))
	sb.WriteString(fmt.Sprintf("| Read Errors | %d |\n", result.ReadErrors))
	sb.WriteString("\n")

	if len(stats.Languages) > 0 {
		sb.WriteString("## Languages\n\n")
		sb.WriteString("| Language | Files |\n")
		sb.WriteString("|----------|-------|\n")
		for _, row := range sortedCounts(stats.Languages) {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.key, row.count))
		}
		sb.WriteString("\n")
	}

	if len(stats.Extensions) > 0 {
		sb.WriteString("## Extensions\n\n")
		sb.WriteString("| Extension | Files |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, row := range sortedCounts(stats.Extensions) {
			sb.WriteString(fmt.Sprintf("| `%s` | %d |\n", row.key, row.count))
		}
		sb.WriteString("\n")
	}

	if len(stats.ComplexityBuckets) > 0 {
		sb.WriteString("## Complexity Distribution\n\n")
		sb.WriteString("| Label | Files |\n")
		sb.WriteString("|-------|-------|\n")
		for _, label := range []models.ComplexityLabel{
			models.ComplexityVeryHigh,
			models.ComplexityHigh,
			models.ComplexityMedium,
			models.ComplexityLow,
		} {
			if n := stats.ComplexityBuckets[label]; n > 0 {
				sb.WriteString(fmt.Sprintf("| %s %s | %d |\n", labelEmoji(label), label, n))
			}
		}
		sb.WriteString("\n")
	}

	writeRankedMarkdown(&sb, "Largest Files", "Size", stats.LargestFiles, func(f models.RankedFile) string {
		return FormatSize(f.Size)
	})
	writeRankedMarkdown(&sb, "Most Complex Files", "Complexity", stats.MostComplexFiles, func(f models.RankedFile) string {
		return fmt.Sprintf("%s (score %d)", f.Label, f.Score)
	})
	writeRankedMarkdown(&sb, "Newest Files", "Modified", stats.NewestFiles, func(f models.RankedFile) string {
		return f.ModTime.Format("2006-01-02 15:04:05")
	})
	writeRankedMarkdown(&sb, "Oldest Files", "Modified", stats.OldestFiles, func(f models.RankedFile) string {
		return f.ModTime.Format("2006-01-02 15:04:05")
	})

	if len(result.Duplicates) == 0 {
		sb.WriteString("> ✅ **No duplicate blocks detected**\n")
		return os.WriteFile(outputFile, []byte(sb.String()), 0644)
	}

	sb.WriteString("## Duplicate Blocks\n\n")
	for i, group := range result.Duplicates {
		sb.WriteString(fmt.Sprintf("### %d. `%s` ↔ `%s` (%s)\n\n", i+1, group.FileA, group.FileB, group.Language))
		sb.WriteString("| Lines A | Lines B | Length |\n")
		sb.WriteString("|---------|---------|--------|\n")
		for _, block := range group.Blocks {
			sb.WriteString(fmt.Sprintf("| %d-%d | %d-%d | %d |\n",
				block.StartLineA, block.EndLineA, block.StartLineB, block.EndLineB, block.LineCount))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}

// labelEmoji returns the marker used for a complexity label in Markdown
func labelEmoji(label models.ComplexityLabel) string {
	switch label {
	case models.ComplexityVeryHigh:
		return "🔴"
	case models.ComplexityHigh:
		return "🟠"
	case models.ComplexityMedium:
		return "🟡"
	case models.ComplexityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func writeRankedMarkdown(sb *strings.Builder, title, valueHeader string, list []models.RankedFile, value func(models.RankedFile) string) {
	if len(list) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString(fmt.Sprintf("| # | Path | %s |\n", valueHeader))
	sb.WriteString("|---|------|------|\n")
	for i, f := range list {
		sb.WriteString(fmt.Sprintf("| %d | `%s` | %s |\n", i+1, f.Path, value(f)))
	}
	sb.WriteString("\n")
}
