package tree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davitacols/ansa-fs/internal/analyzer"
	"github.com/davitacols/ansa-fs/internal/config"
	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/pkg/models"
)

// Fatal traversal errors. Everything else is recorded on a node and
// skipped; a single unreadable file never aborts a whole-tree build.
var (
	ErrNotADirectory = errors.New("root path is not a directory")
	ErrUnreadable    = errors.New("root directory cannot be listed")
)

// readConcurrency bounds in-flight content reads within one directory.
const readConcurrency = 8

// Builder walks a root directory and assembles the annotated tree.
type Builder struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *language.Registry
	matcher  *ignore.GitIgnore
	cap      int64

	skipped int
}

// NewBuilder creates a tree builder. The registry may carry YAML
// overrides; pass language.NewRegistry() for the built-in tables.
func NewBuilder(cfg *config.Config, registry *language.Registry, logger *zap.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		cap:      cfg.ContentMaxBytes(),
	}
}

// Skipped returns the number of files skipped by ignore rules or the
// content size cap during the last Build.
func (b *Builder) Skipped() int {
	return b.skipped
}

// Build walks root and returns the completed tree. The context is
// checked cooperatively at each directory boundary.
func (b *Builder) Build(ctx context.Context, root string) (*models.DirectoryNode, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	b.skipped = 0
	b.matcher = nil
	if b.cfg.UseGitignore {
		if m, err := ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore")); err == nil {
			b.matcher = m
		}
	}

	node, err := b.buildDir(ctx, abs, abs, ".", 0)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// buildDir lists one directory and builds its node. A listing failure
// at the root is fatal; deeper failures are the caller's soft errors.
func (b *Builder) buildDir(ctx context.Context, root, path, rel string, depth int) (*models.DirectoryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if depth == 0 {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return nil, err
	}

	node := &models.DirectoryNode{
		Name:         filepath.Base(path),
		Path:         path,
		RelativePath: rel,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)

	for _, entry := range entries {
		name := entry.Name()
		childPath := filepath.Join(path, name)
		childRel := childRelPath(rel, name)

		if entry.IsDir() {
			if !b.cfg.Recursive {
				continue
			}
			if b.cfg.ShouldIgnoreDir(name) || b.ignoredByGit(childRel, true) {
				b.logger.Debug("Skipping ignored directory", zap.String("path", childRel))
				continue
			}
			if b.cfg.MaxDepth >= 0 && depth+1 > b.cfg.MaxDepth {
				continue
			}
			child, err := b.buildDir(ctx, root, childPath, childRel, depth+1)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				b.logger.Warn("Cannot list directory", zap.String("path", childPath), zap.Error(err))
				node.Errors = append(node.Errors, &models.EntryError{
					Name:    name,
					Path:    childPath,
					Message: err.Error(),
				})
				continue
			}
			node.Directories = append(node.Directories, child)
			continue
		}

		if b.ignoredFile(name) || b.ignoredByGit(childRel, false) {
			b.skipped++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			b.logger.Warn("Cannot stat entry", zap.String("path", childPath), zap.Error(err))
			node.Errors = append(node.Errors, &models.EntryError{
				Name:    name,
				Path:    childPath,
				Message: err.Error(),
			})
			continue
		}

		ext := Extension(name)
		if b.cfg.ShouldIgnoreExtension(ext) {
			b.skipped++
			continue
		}

		modTime := info.ModTime()
		file := &models.FileNode{
			Name:         name,
			Path:         childPath,
			RelativePath: childRel,
			Extension:    ext,
			Size:         info.Size(),
			ModTime:      &modTime,
		}
		node.Files = append(node.Files, file)

		if b.cfg.IncludeContent && info.Mode().IsRegular() {
			if file.Size > b.cap {
				b.skipped++
			} else {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					b.loadFile(file)
					return nil
				})
			}
		}
	}

	// Content reads resolve before the child list is finalized; the
	// node is never exposed partially populated.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, file := range node.Files {
		b.annotate(file)
	}

	b.sortChildren(node)
	return node, nil
}

// loadFile reads content into the node, recording a soft error on
// failure. Runs concurrently; each goroutine owns its own node.
func (b *Builder) loadFile(file *models.FileNode) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		b.logger.Warn("Cannot read file", zap.String("path", file.Path), zap.Error(err))
		file.ContentError = err.Error()
		return
	}
	file.Content = string(content)
	file.HasContent = true
}

// annotate runs language detection and metric computation on one file.
func (b *Builder) annotate(file *models.FileNode) {
	if !b.cfg.DetectLanguage {
		return
	}

	var head []byte
	if file.HasContent {
		head = headOf(file.Content)
	}
	lang := b.registry.Detect(file.Name, file.Extension, head)
	if !lang.Known() {
		return
	}
	file.Language = lang.Name
	file.Family = string(lang.Family)

	if !b.cfg.AnalyzeComplexity || !file.HasContent {
		return
	}
	metrics, err := analyzer.Classify(file.Content, lang)
	if err != nil {
		file.ContentError = err.Error()
		file.Content = ""
		file.HasContent = false
		return
	}
	analyzer.ApplyComplexity(metrics, lang.Family)
	file.Metrics = metrics
}

// sortChildren orders directories before files, each group sorted by
// name. Comparison is byte-wise, so uppercase names sort before
// lowercase ones.
func (b *Builder) sortChildren(node *models.DirectoryNode) {
	sort.SliceStable(node.Directories, func(i, j int) bool {
		return node.Directories[i].Name < node.Directories[j].Name
	})
	sort.SliceStable(node.Files, func(i, j int) bool {
		return node.Files[i].Name < node.Files[j].Name
	})
}

// ignoredFile matches a file name against the configured glob patterns.
func (b *Builder) ignoredFile(name string) bool {
	for _, pattern := range b.cfg.IgnoreFiles {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func (b *Builder) ignoredByGit(rel string, isDir bool) bool {
	if b.matcher == nil || rel == "." {
		return false
	}
	path := filepath.ToSlash(rel)
	if isDir {
		path += "/"
	}
	return b.matcher.MatchesPath(path)
}

func childRelPath(parentRel, name string) string {
	if parentRel == "." {
		return name
	}
	return parentRel + string(filepath.Separator) + name
}

// Extension returns the lowercased file extension without the dot.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return strings.ToLower(ext)
}

// headOf returns the leading bytes of content used for interpreter
// directive detection.
func headOf(content string) []byte {
	const headLen = 256
	if len(content) > headLen {
		return []byte(content[:headLen])
	}
	return []byte(content)
}
