package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/internal/config"
	"github.com/davitacols/ansa-fs/internal/duplicates"
	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/internal/report"
	"github.com/davitacols/ansa-fs/internal/stats"
	"github.com/davitacols/ansa-fs/internal/tree"
	"github.com/davitacols/ansa-fs/pkg/models"
)

// Version is stamped into every report.
const Version = "1.0.0"

// ProgressCallback is called to report analysis progress
type ProgressCallback func(phase string, current, total int, message string)

// Analyzer is the main analysis engine. It wires the tree builder, the
// duplicate detector, and the aggregator and hands the combined result
// to the report generator.
type Analyzer struct {
	config           *config.Config
	logger           *zap.Logger
	registry         *language.Registry
	reporter         *report.Generator
	progressCallback ProgressCallback
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(cfg *config.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		config: cfg,
		logger: logger,
	}
}

// SetProgressCallback sets the progress callback function
func (a *Analyzer) SetProgressCallback(cb ProgressCallback) {
	a.progressCallback = cb
}

// reportProgress calls the progress callback if set
func (a *Analyzer) reportProgress(phase string, current, total int, message string) {
	if a.progressCallback != nil {
		a.progressCallback(phase, current, total, message)
	}
}

// Analyze runs one full analysis of the configured root path.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*models.AnalysisResult, error) {
	a.logger.Info("Starting analysis", zap.String("path", path))

	result := &models.AnalysisResult{
		StartTime: time.Now(),
		RootPath:  path,
		Version:   Version,
	}

	a.registry = language.NewRegistry()
	if a.config.LanguagesFile != "" {
		if err := a.registry.LoadOverrides(a.config.LanguagesFile); err != nil {
			return nil, fmt.Errorf("failed to load language overrides: %w", err)
		}
	}

	var err error
	a.reporter, err = report.NewGenerator(a.config, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report generator: %w", err)
	}

	a.reportProgress("building", 0, 0, "Walking directory tree...")
	builder := tree.NewBuilder(a.config, a.registry, a.logger)
	root, err := builder.Build(ctx, path)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.SkippedFiles = builder.Skipped()

	dirs, files := root.CountNodes()
	a.reportProgress("building", files, files, fmt.Sprintf("Indexed %d files in %d directories", files, dirs))

	if a.config.DetectDuplicates {
		a.reportProgress("duplicates", 0, 0, "Comparing file pairs...")
		detector := duplicates.NewDetector(a.config.DuplicateMinLines, a.config.DuplicateSimilarity, a.logger)
		result.Duplicates = detector.Detect(root)
		a.reportProgress("duplicates", len(result.Duplicates), len(result.Duplicates),
			fmt.Sprintf("Found %d duplicate pair(s)", len(result.Duplicates)))
	}

	a.reportProgress("aggregating", 0, 0, "Folding statistics...")
	result.Stats = stats.Collect(root, result.Duplicates)

	root.WalkFiles(func(f *models.FileNode) {
		if f.Metrics != nil {
			result.AnalyzedFiles++
		}
	})
	result.CollectErrors()

	// Statistics fold over every file; the threshold only prunes
	// metrics from the rendered tree afterwards.
	if threshold := a.config.ThresholdLabel(); threshold != "" {
		a.applyThreshold(root, threshold)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	a.logger.Info("Analysis complete",
		zap.Int("directories", dirs),
		zap.Int("files", files),
		zap.Int("analyzed", result.AnalyzedFiles),
		zap.Int("duplicatePairs", len(result.Duplicates)),
		zap.Duration("duration", result.Duration))

	reportPath, err := a.reporter.Generate(result)
	if err != nil {
		return nil, err
	}
	result.ReportPath = reportPath

	return result, nil
}

// applyThreshold drops metrics below the configured minimum label.
func (a *Analyzer) applyThreshold(root *models.DirectoryNode, threshold models.ComplexityLabel) {
	min := models.LabelPriority(threshold)
	root.WalkFiles(func(f *models.FileNode) {
		if f.Metrics != nil && models.LabelPriority(f.Metrics.ComplexityLabel) < min {
			f.Metrics = nil
		}
	})
}
