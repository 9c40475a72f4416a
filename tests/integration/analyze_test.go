package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	source := `package main

// entry point
func main() {
	if true {
		println("hello")
	}
}
`
	files := map[string]string{
		"main.go":      source,
		"copy.go":      source,
		"README.md":    "# fixture\n",
		"sub/util.py":  "def util():\n    return 1\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestAnalyzeCommand_BadRoot(t *testing.T) {
	cmd := exec.Command("go", "run", "../../cmd/analyzer", "analyze", "/nonexistent/path")
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected error for nonexistent root, got nil")
	}
	if !strings.Contains(string(output), "root directory") {
		t.Errorf("Expected root directory error, got: %s", output)
	}
}

func TestAnalyzeCommand_FileRoot(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(tmpFile, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command("go", "run", "../../cmd/analyzer", "analyze", tmpFile)
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected error for a regular-file root, got nil")
	}
	if !strings.Contains(string(output), "not a directory") {
		t.Errorf("Expected not-a-directory error, got: %s", output)
	}
}

func TestAnalyzeCommand_JSONReport(t *testing.T) {
	dir := writeFixture(t)
	out := filepath.Join(t.TempDir(), "report.json")

	cmd := exec.Command("go", "run", "../../cmd/analyzer", "analyze",
		"--report=json", "--output="+out, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Command failed: %v, stderr: %s", err, stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Report not written: %v", err)
	}

	var report struct {
		Statistics struct {
			DirectoryCount int            `json:"directory_count"`
			FileCount      int            `json:"file_count"`
			Languages      map[string]int `json:"languages"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Invalid JSON report: %v", err)
	}

	if report.Statistics.DirectoryCount != 2 {
		t.Errorf("DirectoryCount = %d, want 2", report.Statistics.DirectoryCount)
	}
	if report.Statistics.FileCount != 4 {
		t.Errorf("FileCount = %d, want 4", report.Statistics.FileCount)
	}
	if report.Statistics.Languages["Go"] != 2 {
		t.Errorf("Languages = %v, want 2 Go files", report.Statistics.Languages)
	}
}

func TestDuplicatesCommand_FindsPair(t *testing.T) {
	dir := writeFixture(t)

	cmd := exec.Command("go", "run", "../../cmd/analyzer", "duplicates", dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command failed: %v, output: %s", err, output)
	}

	text := string(output)
	if !strings.Contains(text, "DUPLICATE BLOCKS") {
		t.Errorf("Expected duplicate section in output, got: %s", text)
	}
	if !strings.Contains(text, "copy.go") || !strings.Contains(text, "main.go") {
		t.Errorf("Expected the duplicated pair in output, got: %s", text)
	}
}

func TestLanguagesCommand(t *testing.T) {
	cmd := exec.Command("go", "run", "../../cmd/analyzer", "languages")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command failed: %v, output: %s", err, output)
	}

	text := string(output)
	for _, want := range []string{"BRACE", "INDENT", "PLAIN", "Go", "Python", "Markdown"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in languages output, got: %s", want, text)
		}
	}
}

func TestAnalyzeCommand_InvalidFlag(t *testing.T) {
	dir := writeFixture(t)

	cmd := exec.Command("go", "run", "../../cmd/analyzer", "analyze", "--report=pdf", dir)
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected error for invalid report format, got nil")
	}
	if !strings.Contains(string(output), "--report must be one of") {
		t.Errorf("Expected flag validation message, got: %s", output)
	}
}
