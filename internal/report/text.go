package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// generateText generates a plain-text report
func (g *Generator) generateText(result *models.AnalysisResult, outputFile string) error {
	var sb strings.Builder
	stats := result.Stats

	sb.WriteString("=" + strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("  ANSA-FS SOURCE TREE ANALYSIS REPORT v%s\n", result.Version))
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Root Path:        %s\n", result.RootPath))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", result.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", result.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("Directories:      %d\n", stats.DirectoryCount))
	sb.WriteString(fmt.Sprintf("Files:            %d\n", stats.FileCount))
	sb.WriteString(fmt.Sprintf("Total Size:       %s\n", FormatSize(stats.TotalSize)))
	sb.WriteString(fmt.Sprintf("Analyzed Files:   %d\n", result.AnalyzedFiles))
	sb.WriteString(fmt.Sprintf("Skipped Files:    %d\n", result.SkippedFiles))
	sb.WriteString(fmt.Sprintf("Read Errors:      %d\n", result.ReadErrors))
	sb.WriteString("\n")

	if len(stats.Extensions) > 0 {
		sb.WriteString("FILES BY EXTENSION\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, row := range sortedCounts(stats.Extensions) {
			sb.WriteString(fmt.Sprintf("  %-16s: %d\n", row.key, row.count))
		}
		sb.WriteString("\n")
	}

	if len(stats.Languages) > 0 {
		sb.WriteString("FILES BY LANGUAGE\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, row := range sortedCounts(stats.Languages) {
			sb.WriteString(fmt.Sprintf("  %-16s: %d\n", row.key, row.count))
		}
		sb.WriteString("\n")
	}

	if len(stats.ComplexityBuckets) > 0 {
		sb.WriteString("COMPLEXITY DISTRIBUTION\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, label := range []models.ComplexityLabel{
			models.ComplexityVeryHigh,
			models.ComplexityHigh,
			models.ComplexityMedium,
			models.ComplexityLow,
		} {
			if n := stats.ComplexityBuckets[label]; n > 0 {
				sb.WriteString(fmt.Sprintf("  %-10s: %d\n", strings.ToUpper(string(label)), n))
			}
		}
		sb.WriteString("\n")
	}

	writeRankedText(&sb, "LARGEST FILES", stats.LargestFiles, func(f models.RankedFile) string {
		return FormatSize(f.Size)
	})
	writeRankedText(&sb, "MOST COMPLEX FILES", stats.MostComplexFiles, func(f models.RankedFile) string {
		return fmt.Sprintf("%s (score %d)", f.Label, f.Score)
	})
	writeRankedText(&sb, "NEWEST FILES", stats.NewestFiles, func(f models.RankedFile) string {
		return f.ModTime.Format("2006-01-02 15:04:05")
	})
	writeRankedText(&sb, "OLDEST FILES", stats.OldestFiles, func(f models.RankedFile) string {
		return f.ModTime.Format("2006-01-02 15:04:05")
	})

	if len(result.Duplicates) > 0 {
		sb.WriteString("DUPLICATE BLOCKS\n")
		sb.WriteString(strings.Repeat("=", 79) + "\n\n")
		for i, group := range result.Duplicates {
			sb.WriteString(fmt.Sprintf("[%d] %s <-> %s (%s)\n", i+1, group.FileA, group.FileB, group.Language))
			sb.WriteString(strings.Repeat("-", 79) + "\n")
			for _, block := range group.Blocks {
				sb.WriteString(fmt.Sprintf("  Lines %d-%d <-> %d-%d (%d lines)\n",
					block.StartLineA, block.EndLineA, block.StartLineB, block.EndLineB, block.LineCount))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No duplicate blocks detected.\n\n")
	}

	if len(result.ErrorFiles) > 0 {
		sb.WriteString("UNREADABLE ENTRIES\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, path := range result.ErrorFiles {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("End of Report\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n")

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}

func writeRankedText(sb *strings.Builder, title string, list []models.RankedFile, value func(models.RankedFile) string) {
	if len(list) == 0 {
		return
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	for i, f := range list {
		sb.WriteString(fmt.Sprintf("  [%d] %-50s %s\n", i+1, f.Path, value(f)))
	}
	sb.WriteString("\n")
}
