package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/davitacols/ansa-fs/internal/config"
	"github.com/davitacols/ansa-fs/internal/core"
	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/internal/watch"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorOrange = "\033[38;5;208m"
	colorYellow = "\033[38;5;220m"
	colorGray   = "\033[38;5;245m"
	colorCyan   = "\033[36m"
)

var (
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ansa-fs",
		Short: "ansa-fs - Source Tree Structure and Complexity Analyzer",
		Long: `Static analyzer for source trees: builds an annotated directory tree,
classifies lines per file, scores structural complexity, and finds
near-duplicate code blocks across files.`,
		Version: core.Version,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Disable built-in help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Add commands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(duplicatesCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(languagesCmd())
	rootCmd.AddCommand(helpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printMainBanner prints the main banner
func printMainBanner() {
	fmt.Println()
	fmt.Printf("%s", colorOrange)
	fmt.Println("▄████▄ ███  ██ ▄████▄ ▄████▄          ██████ ▄████▄")
	fmt.Println("██▀▀██ ██ ▀▄██ ▀█▄▄▄  ██▀▀██ ▄█████▄  ██▄▄   ▀█▄▄▄ ")
	fmt.Println("██  ██ ██   ██ ▄▄▄▄█▀ ██  ██          ██     ▄▄▄▄█▀")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sSource Tree Analyzer v%s%s\n", colorGray, core.Version, colorReset)
	fmt.Println()
}

// initLogger builds the logger according to the verbose flag
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		// Silent logger - only errors
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}
	return err
}

// treeFlags collects the CLI flags shared by analyze, duplicates and
// watch, mirroring the configuration keys they override.
type treeFlags struct {
	maxDepth     int
	noRecursive  bool
	exclude      []string
	excludeFiles []string
	excludeExts  []string
	maxSize      string
	gitignore    bool
	noContent    bool
	noLanguage   bool
	noComplexity bool
	threshold    string
	duplicates   bool
	minLines     int
	similarity   float64
	langFile     string
	reportFormat string
	outputFile   string
}

func registerTreeFlags(cmd *cobra.Command, f *treeFlags) {
	cmd.Flags().IntVar(&f.maxDepth, "depth", -1, "Maximum recursion depth (-1 for unlimited)")
	cmd.Flags().BoolVar(&f.noRecursive, "no-recursive", false, "Do not descend into subdirectories")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Directory names to exclude (comma-separated)")
	cmd.Flags().StringSliceVar(&f.excludeFiles, "exclude-files", nil, "File name globs to exclude (comma-separated)")
	cmd.Flags().StringSliceVar(&f.excludeExts, "exclude-extensions", nil, "File extensions to exclude (comma-separated)")
	cmd.Flags().StringVar(&f.maxSize, "max-size", "", "Maximum file size to load for analysis (default: 1M)")
	cmd.Flags().BoolVar(&f.gitignore, "gitignore", false, "Honor the root .gitignore")
	cmd.Flags().BoolVar(&f.noContent, "no-content", false, "Skip content loading (structure only)")
	cmd.Flags().BoolVar(&f.noLanguage, "no-language", false, "Skip language detection")
	cmd.Flags().BoolVar(&f.noComplexity, "no-complexity", false, "Skip line classification and complexity scoring")
	cmd.Flags().StringVar(&f.threshold, "threshold", "", "Keep metrics only at or above this label: low, medium, high, very high")
	cmd.Flags().StringVar(&f.langFile, "languages-file", "", "YAML file with language overrides")
	cmd.Flags().StringVarP(&f.reportFormat, "report", "r", "", "Report format: txt, json, md (default: console output)")
	cmd.Flags().StringVarP(&f.outputFile, "output", "o", "", "Output file path")
}

func registerDuplicateFlags(cmd *cobra.Command, f *treeFlags) {
	cmd.Flags().IntVar(&f.minLines, "min-lines", 0, "Minimum window size for duplicate blocks (default: 5)")
	cmd.Flags().Float64Var(&f.similarity, "similarity", 0, "Jaccard similarity threshold in [0, 1] (default: 0.8)")
}

// applyFlags overlays explicitly set CLI flags onto a loaded config
func applyFlags(cfg *config.Config, f *treeFlags, cmd *cobra.Command) {
	if cmd.Flags().Changed("depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if f.noRecursive {
		cfg.Recursive = false
	}
	if len(f.exclude) > 0 {
		cfg.IgnoreDirs = append(cfg.IgnoreDirs, f.exclude...)
	}
	if len(f.excludeFiles) > 0 {
		cfg.IgnoreFiles = append(cfg.IgnoreFiles, f.excludeFiles...)
	}
	if len(f.excludeExts) > 0 {
		cfg.IgnoreExtensions = append(cfg.IgnoreExtensions, f.excludeExts...)
	}
	if f.maxSize != "" {
		cfg.MaxContentSize = f.maxSize
	}
	if f.gitignore {
		cfg.UseGitignore = true
	}
	if f.noContent {
		cfg.IncludeContent = false
	}
	if f.noLanguage {
		cfg.DetectLanguage = false
	}
	if f.noComplexity {
		cfg.AnalyzeComplexity = false
	}
	if f.threshold != "" {
		cfg.ComplexityThreshold = f.threshold
	}
	if f.duplicates {
		cfg.DetectDuplicates = true
	}
	if f.minLines > 0 {
		cfg.DuplicateMinLines = f.minLines
	}
	if f.similarity > 0 {
		cfg.DuplicateSimilarity = f.similarity
	}
	if f.langFile != "" {
		cfg.LanguagesFile = f.langFile
	}
	if f.reportFormat != "" {
		cfg.ReportFormat = f.reportFormat
	}
	if f.outputFile != "" {
		cfg.OutputFile = f.outputFile
	}
}

// loadConfig builds the effective configuration for one invocation
func loadConfig(f *treeFlags, cmd *cobra.Command) (*config.Config, error) {
	if err := validateFlags(f); err != nil {
		fmt.Printf("\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		return nil, err
	}
	applyFlags(cfg, f, cmd)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n  %s✗ Invalid configuration:%s %s\n\n", colorRed, colorReset, err.Error())
		return nil, err
	}
	return cfg, nil
}

// newProgressPrinter renders phase progress on the console
func newProgressPrinter() core.ProgressCallback {
	lastPhase := ""
	return func(phase string, current, total int, message string) {
		if lastPhase == phase {
			fmt.Print("\033[1A\033[K")
		}
		lastPhase = phase

		switch phase {
		case "building":
			fmt.Printf("  %sTree:%s       %s\n", colorGray, colorReset, message)
		case "duplicates":
			fmt.Printf("  %sDuplicates:%s %s\n", colorGray, colorReset, message)
		case "aggregating":
			fmt.Printf("  %sStats:%s      %s\n", colorGray, colorReset, message)
		}
	}
}

func runAnalysis(cfg *config.Config, path string) error {
	analyzer := core.NewAnalyzer(cfg, logger)
	analyzer.SetProgressCallback(newProgressPrinter())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := analyzer.Analyze(ctx, path)
	if err != nil {
		logger.Error("Analysis failed", zap.Error(err))
		return err
	}

	if result.ReportPath != "" {
		fmt.Printf("  %sReport:%s     %s%s%s\n", colorGray, colorReset, colorOrange, result.ReportPath, colorReset)
		fmt.Println()
	}
	return nil
}

// analyzeCmd creates the analyze command
func analyzeCmd() *cobra.Command {
	flags := &treeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a source tree: structure, languages, complexity",
		Long: `Recursively walk a directory, classify every file's lines, score
structural complexity, and print or export the annotated tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(flags, cmd)
			if err != nil {
				return err
			}
			printBanner(args[0])
			return runAnalysis(cfg, args[0])
		},
	}

	registerTreeFlags(cmd, flags)
	registerDuplicateFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.duplicates, "duplicates", false, "Also run duplicate block detection")
	return cmd
}

// duplicatesCmd creates the duplicates command
func duplicatesCmd() *cobra.Command {
	flags := &treeFlags{duplicates: true}
	cmd := &cobra.Command{
		Use:   "duplicates [path]",
		Short: "Find near-duplicate code blocks across files",
		Long: `Compare every same-language file pair with a sliding line window and
report blocks whose token sets exceed the similarity threshold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(flags, cmd)
			if err != nil {
				return err
			}
			printBanner(args[0])
			return runAnalysis(cfg, args[0])
		},
	}

	registerTreeFlags(cmd, flags)
	registerDuplicateFlags(cmd, flags)
	return cmd
}

// watchCmd creates the watch command
func watchCmd() *cobra.Command {
	flags := &treeFlags{}
	var debounceMs int
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze the tree whenever it changes",
		Long: `Run an analysis, then keep watching the tree and re-run after every
debounced burst of filesystem changes. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(flags, cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				cfg.WatchDebounceMs = debounceMs
			}
			path := args[0]
			printBanner(path)

			if err := runAnalysis(cfg, path); err != nil {
				return err
			}

			fmt.Printf("  %sWatching for changes (Ctrl-C to stop)...%s\n\n", colorGray, colorReset)
			watcher := watch.New(cfg, logger, func(ctx context.Context) error {
				return runAnalysis(cfg, path)
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = watcher.Run(ctx, path)
			if errors.Is(err, context.Canceled) {
				fmt.Printf("\n  %s✓ Watch stopped%s\n\n", colorGreen, colorReset)
				return nil
			}
			return err
		},
	}

	registerTreeFlags(cmd, flags)
	registerDuplicateFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.duplicates, "duplicates", false, "Also run duplicate block detection")
	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "Debounce window for change bursts, in milliseconds")
	return cmd
}

// languagesCmd creates the languages command
func languagesCmd() *cobra.Command {
	var langFile string
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List recognized languages and their families",
		Long:  `Display every language the classifier recognizes, grouped by family.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := language.NewRegistry()
			if langFile != "" {
				if err := registry.LoadOverrides(langFile); err != nil {
					return err
				}
			}

			byFamily := make(map[language.Family][]string)
			for name, family := range registry.Known() {
				byFamily[family] = append(byFamily[family], name)
			}

			for _, family := range []language.Family{
				language.FamilyBrace,
				language.FamilyIndent,
				language.FamilyPlain,
			} {
				names := byFamily[family]
				sort.Strings(names)
				fmt.Printf("%s%s%s (%d)\n", colorBold, strings.ToUpper(string(family)), colorReset, len(names))
				for _, name := range names {
					fmt.Printf("  %s\n", name)
				}
				fmt.Println()
			}
			fmt.Println("Brace and indent families get structural complexity scores;")
			fmt.Println("plain files fall back to a line-count label.")
			return nil
		},
	}

	cmd.Flags().StringVar(&langFile, "languages-file", "", "YAML file with language overrides")
	return cmd
}

// printBanner prints the startup banner
func printBanner(path string) {
	printMainBanner()
	fmt.Printf("  %sAnalyzing:%s %s\n", colorGray, colorReset, path)
	fmt.Println()
}

// validateFlags validates CLI flag values
func validateFlags(f *treeFlags) error {
	if f.reportFormat != "" {
		validFormats := []string{"text", "txt", "json", "md", "markdown"}
		if !contains(validFormats, f.reportFormat) {
			return fmt.Errorf("--report must be one of: %s (got: %s)", strings.Join(validFormats, ", "), f.reportFormat)
		}
	}

	if f.threshold != "" {
		validLabels := []string{"low", "medium", "high", "very high"}
		if !contains(validLabels, strings.ToLower(f.threshold)) {
			return fmt.Errorf("--threshold must be one of: %s (got: %s)", strings.Join(validLabels, ", "), f.threshold)
		}
	}

	if f.similarity < 0 || f.similarity > 1 {
		return fmt.Errorf("--similarity must be in [0, 1] (got: %v)", f.similarity)
	}

	if f.minLines < 0 {
		return fmt.Errorf("--min-lines must be positive (got: %d)", f.minLines)
	}

	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// helpCmd creates a detailed help command
func helpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show detailed help and documentation",
		Long:  `Display complete documentation including all commands, flags, and examples.`,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()

			fmt.Printf("%s%sABOUT%s\n\n", colorBold, colorOrange, colorReset)
			fmt.Printf("  ansa-fs is a static source-tree analyzer. It walks a project,\n")
			fmt.Printf("  classifies each file's lines as code, comment or blank, estimates\n")
			fmt.Printf("  structural complexity, and finds near-duplicate blocks across files.\n\n")

			fmt.Printf("  %sKey features:%s\n", colorBold, colorReset)
			fmt.Printf("  • Annotated directory tree with per-file language and metrics\n")
			fmt.Printf("  • Heuristic complexity scoring with four-level labels\n")
			fmt.Printf("  • Cross-file duplicate block detection (windowed Jaccard similarity)\n")
			fmt.Printf("  • Bounded top-10 rankings: largest, most complex, newest, oldest\n")
			fmt.Printf("  • Output formats: console tree, JSON, Markdown, text\n")
			fmt.Printf("  • Watch mode with debounced re-analysis\n\n")

			fmt.Printf("%s%sCOMMANDS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %sanalyze <path>%s     Analyze a source tree\n", colorBold, colorReset)
			fmt.Printf("  %sduplicates <path>%s  Find near-duplicate code blocks\n", colorBold, colorReset)
			fmt.Printf("  %swatch <path>%s       Re-analyze on every change\n", colorBold, colorReset)
			fmt.Printf("  %slanguages%s          List recognized languages\n", colorBold, colorReset)

			fmt.Printf("\n%s%sANALYZE FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s--depth%s <n>            Maximum recursion depth (default: unlimited)\n", colorBold, colorReset)
			fmt.Printf("  %s--no-recursive%s          Top level only\n", colorBold, colorReset)
			fmt.Printf("  %s--exclude%s               Directory names to skip (comma-separated)\n", colorBold, colorReset)
			fmt.Printf("  %s--exclude-files%s         File name globs to skip (e.g. '*.min.js')\n", colorBold, colorReset)
			fmt.Printf("  %s--exclude-extensions%s    Extensions to skip (comma-separated)\n", colorBold, colorReset)
			fmt.Printf("  %s--max-size%s <size>       Content size cap per file (default: 1M)\n", colorBold, colorReset)
			fmt.Printf("  %s--gitignore%s             Honor the root .gitignore\n", colorBold, colorReset)
			fmt.Printf("  %s--threshold%s <label>     Keep metrics only at or above: %slow%s, %smedium%s, %shigh%s, %svery high%s\n",
				colorBold, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset)
			fmt.Printf("  %s--duplicates%s            Also run duplicate detection\n", colorBold, colorReset)
			fmt.Printf("  %s--languages-file%s <f>    YAML language overrides\n", colorBold, colorReset)

			fmt.Printf("\n%s%sDUPLICATE FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s--min-lines%s <n>        Window size in lines (default: 5)\n", colorBold, colorReset)
			fmt.Printf("  %s--similarity%s <t>       Jaccard threshold in [0, 1] (default: 0.8)\n", colorBold, colorReset)

			fmt.Printf("\n%s%sREPORT FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s-r, --report%s <fmt>     Report format: %stxt%s, %sjson%s, %smd%s\n",
				colorBold, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset)
			fmt.Printf("  %s-o, --output%s <file>    Output file path\n", colorBold, colorReset)

			fmt.Printf("\n%s%sGLOBAL FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s-v, --verbose%s           Enable verbose logging\n", colorBold, colorReset)
			fmt.Printf("  %s-h, --help%s              Show help for any command\n", colorBold, colorReset)
			fmt.Printf("  %s--version%s               Show version\n", colorBold, colorReset)

			fmt.Printf("\n%s%sENVIRONMENT%s\n\n", colorBold, colorOrange, colorReset)
			fmt.Printf("  Every configuration key can be set with an %sANSAFS_%s variable,\n", colorBold, colorReset)
			fmt.Printf("  e.g. ANSAFS_MAX_DEPTH=3 or ANSAFS_DETECT_DUPLICATES=true.\n")

			fmt.Printf("\n%s%sEXAMPLES%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s# Basic analysis with console tree%s\n", colorGray, colorReset)
			fmt.Printf("  ansa-fs analyze ./src\n\n")

			fmt.Printf("  %s# Complexity hotspots only%s\n", colorGray, colorReset)
			fmt.Printf("  ansa-fs analyze --threshold=high ./src\n\n")

			fmt.Printf("  %s# Duplicate hunt with a stricter window%s\n", colorGray, colorReset)
			fmt.Printf("  ansa-fs duplicates --min-lines=8 --similarity=0.9 ./src\n\n")

			fmt.Printf("  %s# JSON report for tooling%s\n", colorGray, colorReset)
			fmt.Printf("  ansa-fs analyze --report=json --output=tree.json ./src\n\n")

			fmt.Printf("  %s# Live re-analysis while editing%s\n", colorGray, colorReset)
			fmt.Printf("  ansa-fs watch --duplicates ./src\n\n")
		},
	}
}
