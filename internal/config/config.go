package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// Config is the analyzer configuration. It is built once per invocation
// (defaults, then ANSAFS_* environment variables, then CLI flag
// overrides in the command) and passed down the call chain unchanged.
type Config struct {
	// Traversal settings
	Path             string   `mapstructure:"path"`
	IgnoreDirs       []string `mapstructure:"ignore_dirs"`       // Directory names to skip
	IgnoreFiles      []string `mapstructure:"ignore_files"`      // File name globs to skip
	IgnoreExtensions []string `mapstructure:"ignore_extensions"` // Extensions (without dot) to skip
	MaxDepth         int      `mapstructure:"max_depth"`         // -1 = unlimited
	Recursive        bool     `mapstructure:"recursive"`         // Descend into subdirectories
	UseGitignore     bool     `mapstructure:"use_gitignore"`     // Respect .gitignore at the root

	// Per-file work
	IncludeContent    bool   `mapstructure:"include_content"`
	DetectLanguage    bool   `mapstructure:"detect_language"`
	AnalyzeComplexity bool   `mapstructure:"analyze_complexity"`
	MaxContentSize    string `mapstructure:"max_content_size"` // e.g. "650K", "1M"

	// Output filtering
	ComplexityThreshold string `mapstructure:"complexity_threshold"` // Minimum label for retained metrics

	// Duplicate detection
	DetectDuplicates    bool    `mapstructure:"detect_duplicates"`
	DuplicateMinLines   int     `mapstructure:"duplicate_min_lines"`
	DuplicateSimilarity float64 `mapstructure:"duplicate_similarity"`

	// Language definitions
	LanguagesFile string `mapstructure:"languages_file"` // Optional YAML override file

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // json, text, md; empty = console
	OutputFile   string `mapstructure:"output_file"`

	// Watch mode
	WatchDebounceMs int `mapstructure:"watch_debounce_ms"`
}

// Load builds the configuration from defaults and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("ignore_dirs", []string{".git", "node_modules", "vendor", ".svn", ".hg", "__pycache__", ".idea"})
	v.SetDefault("ignore_files", []string{".DS_Store"})
	v.SetDefault("ignore_extensions", []string{})
	v.SetDefault("max_depth", -1)
	v.SetDefault("recursive", true)
	v.SetDefault("use_gitignore", false)
	v.SetDefault("include_content", true)
	v.SetDefault("detect_language", true)
	v.SetDefault("analyze_complexity", true)
	v.SetDefault("max_content_size", "1M")
	v.SetDefault("complexity_threshold", "")
	v.SetDefault("detect_duplicates", false)
	v.SetDefault("duplicate_min_lines", 5)
	v.SetDefault("duplicate_similarity", 0.8)
	v.SetDefault("languages_file", "")
	v.SetDefault("report_format", "")
	v.SetDefault("watch_debounce_ms", 500)

	v.SetEnvPrefix("ANSAFS")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ContentMaxBytes parses MaxContentSize ("650K", "1M", "2G", plain
// bytes) into a byte count. Zero means no content is loaded.
func (c *Config) ContentMaxBytes() int64 {
	return ParseSize(c.MaxContentSize)
}

// ThresholdLabel returns the configured minimum complexity label for
// retaining metrics in the output, or "" when no filter is set.
func (c *Config) ThresholdLabel() models.ComplexityLabel {
	return models.ComplexityLabel(strings.ToLower(strings.TrimSpace(c.ComplexityThreshold)))
}

// ShouldIgnoreDir checks a directory name against the ignore set.
func (c *Config) ShouldIgnoreDir(name string) bool {
	for _, d := range c.IgnoreDirs {
		if d == name {
			return true
		}
	}
	return false
}

// ShouldIgnoreExtension checks an extension (without dot) against the
// ignore set.
func (c *Config) ShouldIgnoreExtension(ext string) bool {
	for _, e := range c.IgnoreExtensions {
		if strings.TrimPrefix(e, ".") == ext {
			return true
		}
	}
	return false
}

// Validate rejects option values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.DuplicateMinLines < 1 {
		return fmt.Errorf("duplicate_min_lines must be >= 1, got %d", c.DuplicateMinLines)
	}
	if c.DuplicateSimilarity < 0 || c.DuplicateSimilarity > 1 {
		return fmt.Errorf("duplicate_similarity must be in [0, 1], got %v", c.DuplicateSimilarity)
	}
	if t := c.ThresholdLabel(); t != "" && models.LabelPriority(t) == 0 {
		return fmt.Errorf("unknown complexity_threshold %q", c.ComplexityThreshold)
	}
	return nil
}

// ParseSize parses a size string (e.g. "650K", "1M") to bytes.
func ParseSize(sizeStr string) int64 {
	sizeStr = strings.TrimSpace(sizeStr)
	if len(sizeStr) == 0 {
		return 0
	}

	last := sizeStr[len(sizeStr)-1]
	var multiplier int64 = 1

	switch last {
	case 'K', 'k':
		multiplier = 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	}

	size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 10, 64)
	if err != nil {
		return 0
	}

	return size * multiplier
}
