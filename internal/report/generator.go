package report

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/internal/config"
	"github.com/davitacols/ansa-fs/pkg/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

// isColorSupported checks if terminal supports colors
func isColorSupported() bool {
	return runtime.GOOS != "windows" || true // Modern Windows supports ANSI
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// FormatSize renders a byte count in the largest fitting unit.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}

// Generator renders analysis results in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	return &Generator{
		config: cfg,
		logger: logger,
	}, nil
}

// Generate renders the result in the configured format. With no format
// configured it prints to the console and returns an empty path;
// otherwise it writes a file and returns its absolute path.
func (g *Generator) Generate(result *models.AnalysisResult) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	if format == "" {
		g.printConsole(result)
		return "", nil
	}

	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("ANSAFS-REPORT-%s.json", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("ANSAFS-REPORT-%s.txt", timestamp)
		case "md", "markdown":
			outputFile = fmt.Sprintf("ANSAFS-REPORT-%s.md", timestamp)
		default:
			return "", fmt.Errorf("unknown report format: %s", format)
		}
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(result, outputFile)
	case "txt", "text":
		err = g.generateText(result, outputFile)
	case "md", "markdown":
		err = g.generateMarkdown(result, outputFile)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// printConsole prints the analysis summary to stdout with colors
func (g *Generator) printConsole(result *models.AnalysisResult) {
	stats := result.Stats
	fmt.Println()

	fmt.Printf("%s%sANALYSIS COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Println()

	fmt.Printf("  %sPath:%s        %s\n", colorGray, colorReset, result.RootPath)
	fmt.Printf("  %sDirectories:%s %d\n", colorGray, colorReset, stats.DirectoryCount)
	fmt.Printf("  %sFiles:%s       %d\n", colorGray, colorReset, stats.FileCount)
	fmt.Printf("  %sTotal Size:%s  %s\n", colorGray, colorReset, FormatSize(stats.TotalSize))
	fmt.Printf("  %sDuration:%s    %s\n", colorGray, colorReset, FormatDuration(result.Duration))
	if result.SkippedFiles > 0 {
		fmt.Printf("  %sSkipped:%s     %d\n", colorGray, colorReset, result.SkippedFiles)
	}
	if result.ReadErrors > 0 {
		fmt.Printf("  %sRead Errors:%s %s%d%s\n", colorGray, colorReset, colorRed, result.ReadErrors, colorReset)
	}
	fmt.Println()

	if result.Root != nil {
		fmt.Printf("%s───────────────────────────────────────────────────────────────%s\n", colorGray, colorReset)
		PrintTree(result.Root)
		fmt.Printf("%s───────────────────────────────────────────────────────────────%s\n", colorGray, colorReset)
		fmt.Println()
	}

	if len(stats.Languages) > 0 {
		fmt.Printf("  %s%sLANGUAGES%s\n", colorBold, colorCyan, colorReset)
		for _, row := range sortedCounts(stats.Languages) {
			fmt.Printf("    %s%-14s%s %d\n", colorWhite, row.key, colorReset, row.count)
		}
		fmt.Println()
	}

	if len(stats.ComplexityBuckets) > 0 {
		fmt.Printf("  %s%sCOMPLEXITY%s\n", colorBold, colorCyan, colorReset)
		for _, label := range []models.ComplexityLabel{
			models.ComplexityVeryHigh,
			models.ComplexityHigh,
			models.ComplexityMedium,
			models.ComplexityLow,
		} {
			if n := stats.ComplexityBuckets[label]; n > 0 {
				fmt.Printf("    %s%-10s%s %d\n", labelColor(label), label, colorReset, n)
			}
		}
		fmt.Println()
	}

	if len(stats.MostComplexFiles) > 0 {
		fmt.Printf("  %s%sMOST COMPLEX%s\n", colorBold, colorCyan, colorReset)
		for i, f := range stats.MostComplexFiles {
			fmt.Printf("    %s[%d]%s %s %s(%s, score %d)%s\n",
				colorGray, i+1, colorReset, f.Path, labelColor(f.Label), f.Label, f.Score, colorReset)
		}
		fmt.Println()
	}

	if len(result.Duplicates) == 0 {
		fmt.Printf("  %s%s✓ No duplicate blocks detected%s\n", colorBold, colorGreen, colorReset)
		fmt.Println()
		return
	}

	fmt.Printf("  %s%s⚠ DUPLICATE BLOCKS: %d pair(s)%s\n", colorBold, colorYellow, len(result.Duplicates), colorReset)
	fmt.Println()
	for i, group := range result.Duplicates {
		fmt.Printf("  %s[%d]%s %s%s%s ↔ %s%s%s %s(%s)%s\n",
			colorGray, i+1, colorReset,
			colorOrange, group.FileA, colorReset,
			colorOrange, group.FileB, colorReset,
			colorDim, group.Language, colorReset)
		for _, block := range group.Blocks {
			fmt.Printf("      %slines %d-%d ↔ %d-%d (%d lines)%s\n",
				colorDim, block.StartLineA, block.EndLineA, block.StartLineB, block.EndLineB, block.LineCount, colorReset)
		}
	}
	fmt.Println()
}

// labelColor returns ANSI color for a complexity label
func labelColor(label models.ComplexityLabel) string {
	switch label {
	case models.ComplexityVeryHigh:
		return colorRed + colorBold
	case models.ComplexityHigh:
		return colorOrange
	case models.ComplexityMedium:
		return colorYellow
	case models.ComplexityLow:
		return colorGreen
	default:
		return colorWhite
	}
}
