package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// PrintTree renders the directory tree to stdout in tree(1) style,
// colorized when the terminal supports ANSI escapes.
func PrintTree(root *models.DirectoryNode) {
	p := treePrinter{color: isColorSupported()}
	p.write(os.Stdout, root)
}

// WriteTree renders the directory tree to w as plain text. Directories
// come before files within each level, matching the order the tree was
// built in.
func WriteTree(w io.Writer, root *models.DirectoryNode) {
	var p treePrinter
	p.write(w, root)
}

type treePrinter struct {
	color bool
}

// paint wraps s in a color sequence when color output is on.
func (p treePrinter) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func (p treePrinter) write(w io.Writer, root *models.DirectoryNode) {
	fmt.Fprintf(w, "%s/\n", p.paint(colorBold+colorBlue, root.Name))
	p.writeChildren(w, root, "")
}

func (p treePrinter) writeChildren(w io.Writer, dir *models.DirectoryNode, prefix string) {
	total := len(dir.Directories) + len(dir.Files)
	for i, child := range dir.Directories {
		last := i == total-1
		fmt.Fprintf(w, "%s%s%s/\n", prefix, branch(last), p.paint(colorBlue, child.Name))
		p.writeChildren(w, child, prefix+indent(last))
	}
	for i, f := range dir.Files {
		last := len(dir.Directories)+i == total-1
		fmt.Fprintf(w, "%s%s%s%s\n", prefix, branch(last), f.Name, p.fileSuffix(f))
	}
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func indent(last bool) string {
	if last {
		return "    "
	}
	return "│   "
}

// fileSuffix builds the annotation trailing a file name.
func (p treePrinter) fileSuffix(f *models.FileNode) string {
	var parts []string
	if f.Language != "" {
		parts = append(parts, f.Language)
	}
	if f.Metrics != nil {
		parts = append(parts, fmt.Sprintf("%d lines", f.Metrics.TotalLines))
		label := string(f.Metrics.ComplexityLabel)
		if p.color {
			label = labelColor(f.Metrics.ComplexityLabel) + label + colorReset + colorDim
		}
		parts = append(parts, label)
	}
	if f.ContentError != "" {
		unreadable := "unreadable"
		if p.color {
			unreadable = colorRed + unreadable + colorReset + colorDim
		}
		parts = append(parts, unreadable)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + p.paint(colorDim, "["+strings.Join(parts, ", ")+"]")
}

type countRow struct {
	key   string
	count int
}

// sortedCounts orders a histogram by count descending, key ascending.
func sortedCounts(m map[string]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, countRow{key: k, count: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	return rows
}
