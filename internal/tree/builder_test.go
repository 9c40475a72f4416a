package tree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/internal/config"
	"github.com/davitacols/ansa-fs/internal/language"
	"github.com/davitacols/ansa-fs/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		IgnoreDirs:          []string{".git", "node_modules"},
		IgnoreFiles:         []string{"*.swp"},
		IgnoreExtensions:    []string{"exe"},
		MaxDepth:            -1,
		Recursive:           true,
		IncludeContent:      true,
		DetectLanguage:      true,
		AnalyzeComplexity:   true,
		MaxContentSize:      "1M",
		DuplicateMinLines:   5,
		DuplicateSimilarity: 0.8,
	}
}

func newTestBuilder(cfg *config.Config) *Builder {
	return NewBuilder(cfg, language.NewRegistry(), zap.NewNop())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildBasicTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, dir, "README.md", "# readme\n")
	writeFile(t, dir, filepath.Join("sub", "util.go"), "package sub\n")

	root, err := newTestBuilder(testConfig()).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if root.RelativePath != "." {
		t.Errorf("root relative path = %q, want %q", root.RelativePath, ".")
	}
	if len(root.Directories) != 1 || root.Directories[0].Name != "sub" {
		t.Fatalf("directories = %v, want [sub]", root.Directories)
	}
	if len(root.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(root.Files))
	}

	// Files sorted by name: README.md before main.go
	if root.Files[0].Name != "README.md" || root.Files[1].Name != "main.go" {
		t.Errorf("file order = [%s, %s]", root.Files[0].Name, root.Files[1].Name)
	}

	goFile := root.Files[1]
	if goFile.Language != "Go" {
		t.Errorf("language = %q, want Go", goFile.Language)
	}
	if goFile.Metrics == nil {
		t.Fatal("expected metrics on go file")
	}
	if goFile.Metrics.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", goFile.Metrics.TotalLines)
	}
	if !goFile.HasContent {
		t.Error("content should be loaded")
	}

	sub := root.Directories[0]
	if sub.RelativePath != "sub" {
		t.Errorf("sub relative path = %q", sub.RelativePath)
	}
	if len(sub.Files) != 1 || sub.Files[0].RelativePath != filepath.Join("sub", "util.go") {
		t.Errorf("sub files = %+v", sub.Files)
	}
}

func TestBuildCaseSensitiveOrdering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "apple.txt", "a\n")
	writeFile(t, dir, "Banana.txt", "b\n")
	writeFile(t, dir, "Zebra.txt", "z\n")
	writeFile(t, dir, filepath.Join("src", "a.go"), "package a\n")
	writeFile(t, dir, filepath.Join("Lib", "b.go"), "package b\n")

	root, err := newTestBuilder(testConfig()).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantDirs := []string{"Lib", "src"}
	for i, want := range wantDirs {
		if root.Directories[i].Name != want {
			t.Errorf("directory[%d] = %q, want %q", i, root.Directories[i].Name, want)
		}
	}

	// Byte-wise ordering places uppercase names first.
	wantFiles := []string{"Banana.txt", "Zebra.txt", "apple.txt"}
	if len(root.Files) != len(wantFiles) {
		t.Fatalf("files = %d, want %d", len(root.Files), len(wantFiles))
	}
	for i, want := range wantFiles {
		if root.Files[i].Name != want {
			t.Errorf("file[%d] = %q, want %q", i, root.Files[i].Name, want)
		}
	}
}

func TestBuildNotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "file.txt", "hello\n")

	_, err := newTestBuilder(testConfig()).Build(context.Background(), path)
	if !errors.Is(err, ErrNotADirectory) {
		t.Errorf("error = %v, want ErrNotADirectory", err)
	}
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := newTestBuilder(testConfig()).Build(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("error = %v, want ErrUnreadable", err)
	}
}

func TestBuildIgnores(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.go", "package keep\n")
	writeFile(t, dir, "junk.swp", "x\n")
	writeFile(t, dir, "tool.exe", "x\n")
	writeFile(t, dir, filepath.Join(".git", "config"), "x\n")
	writeFile(t, dir, filepath.Join("node_modules", "dep.js"), "x\n")

	b := newTestBuilder(testConfig())
	root, err := b.Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(root.Directories) != 0 {
		t.Errorf("ignored directories leaked into tree: %v", root.Directories)
	}
	if len(root.Files) != 1 || root.Files[0].Name != "keep.go" {
		t.Errorf("files = %+v, want only keep.go", root.Files)
	}
	if b.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", b.Skipped())
	}
}

func TestBuildMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("a", "one.go"), "package a\n")
	writeFile(t, dir, filepath.Join("a", "b", "two.go"), "package b\n")

	cfg := testConfig()
	cfg.MaxDepth = 1
	root, err := newTestBuilder(cfg).Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(root.Directories) != 1 {
		t.Fatalf("expected directory a at depth 1")
	}
	if len(root.Directories[0].Directories) != 0 {
		t.Errorf("depth 2 directory should be skipped")
	}
}

func TestBuildNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.go", "package top\n")
	writeFile(t, dir, filepath.Join("sub", "deep.go"), "package sub\n")

	cfg := testConfig()
	cfg.Recursive = false
	root, err := newTestBuilder(cfg).Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Directories) != 0 {
		t.Errorf("non-recursive build should not descend")
	}
	if len(root.Files) != 1 {
		t.Errorf("files = %d, want 1", len(root.Files))
	}
}

func TestBuildContentSizeCap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.go", "package big\n// "+string(make([]byte, 4096))+"\n")

	cfg := testConfig()
	cfg.MaxContentSize = "1K"
	root, err := newTestBuilder(cfg).Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	f := root.Files[0]
	if f.HasContent {
		t.Error("content above the cap should not be loaded")
	}
	if f.Metrics != nil {
		t.Error("metrics require content")
	}
	if f.Language != "Go" {
		t.Errorf("language should still come from the extension, got %q", f.Language)
	}
}

func TestBuildBinaryFileSoftError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blob.go", "package x\x00\x01\x02")

	root, err := newTestBuilder(testConfig()).Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	f := root.Files[0]
	if f.ContentError == "" {
		t.Error("expected a soft content error for binary content")
	}
	if f.Metrics != nil {
		t.Error("binary file must not carry metrics")
	}
}

func TestBuildUnreadableChildContinues(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "ok.go", "package ok\n")
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	root, err := newTestBuilder(testConfig()).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("a single unreadable child must not abort the build: %v", err)
	}
	if len(root.Errors) != 1 {
		t.Errorf("expected one soft error, got %d", len(root.Errors))
	}
	if len(root.Files) != 1 {
		t.Errorf("sibling file should survive, got %d files", len(root.Files))
	}
}

func TestBuildGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "*.log\nbuild/\n")
	writeFile(t, dir, "app.go", "package app\n")
	writeFile(t, dir, "debug.log", "noise\n")
	writeFile(t, dir, filepath.Join("build", "out.go"), "package out\n")

	cfg := testConfig()
	cfg.UseGitignore = true
	root, err := newTestBuilder(cfg).Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range root.Files {
		if f.Name == "debug.log" {
			t.Error("*.log should be gitignored")
		}
	}
	for _, d := range root.Directories {
		if d.Name == "build" {
			t.Error("build/ should be gitignored")
		}
	}
}

func TestBuildCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestBuilder(testConfig()).Build(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestChildCountsMatchEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, "b.go", "package b\n")
	writeFile(t, dir, filepath.Join("x", "c.go"), "package c\n")
	writeFile(t, dir, filepath.Join("y", "d.go"), "package d\n")

	root, err := newTestBuilder(testConfig()).Build(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	// Sum of directory-type plus file-type children equals the number
	// of successfully stat'd, non-ignored entries.
	var check func(d *models.DirectoryNode)
	check = func(d *models.DirectoryNode) {
		entries, err := os.ReadDir(d.Path)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := len(d.Directories)+len(d.Files), len(entries); got != want {
			t.Errorf("%s: children = %d, entries = %d", d.Path, got, want)
		}
		for _, child := range d.Directories {
			check(child)
		}
	}
	check(root)
}
