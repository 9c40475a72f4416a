package duplicates

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/pkg/models"
)

func fileNode(rel, lang, content string) *models.FileNode {
	return &models.FileNode{
		Name:         rel,
		RelativePath: rel,
		Language:     lang,
		Content:      content,
		HasContent:   true,
	}
}

func treeOf(files ...*models.FileNode) *models.DirectoryNode {
	return &models.DirectoryNode{Name: ".", RelativePath: ".", Files: files}
}

var sharedSix = strings.Join([]string{
	"alpha one",
	"bravo two",
	"charlie three",
	"delta four",
	"echo five",
	"foxtrot six",
}, "\n") + "\n"

func TestDetectIdenticalRun(t *testing.T) {
	root := treeOf(
		fileNode("a.go", "Go", sharedSix),
		fileNode("b.go", "Go", sharedSix),
	)

	groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}

	g := groups[0]
	if g.FileA != "a.go" || g.FileB != "b.go" || g.Language != "Go" {
		t.Errorf("group identity = %+v", g)
	}
	if len(g.Blocks) != 1 {
		t.Fatalf("blocks = %v, want exactly one", g.Blocks)
	}
	want := models.DuplicateBlock{StartLineA: 1, EndLineA: 6, StartLineB: 1, EndLineB: 6, LineCount: 6}
	if g.Blocks[0] != want {
		t.Errorf("block = %+v, want %+v", g.Blocks[0], want)
	}
	if g.TotalLines() != 6 {
		t.Errorf("TotalLines() = %d, want 6", g.TotalLines())
	}
}

func TestDetectOffsetRun(t *testing.T) {
	withPrefix := "prefix zero\n" + sharedSix
	root := treeOf(
		fileNode("long.go", "Go", withPrefix),
		fileNode("short.go", "Go", sharedSix),
	)

	groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root)
	if len(groups) != 1 || len(groups[0].Blocks) != 1 {
		t.Fatalf("groups = %+v, want one group with one block", groups)
	}
	want := models.DuplicateBlock{StartLineA: 2, EndLineA: 7, StartLineB: 1, EndLineB: 6, LineCount: 6}
	if groups[0].Blocks[0] != want {
		t.Errorf("block = %+v, want %+v", groups[0].Blocks[0], want)
	}
}

func TestDetectNearIdenticalWindow(t *testing.T) {
	a := "alpha one\nbravo two\ncharlie three\ndelta four\necho five\n"
	// One token changed out of ten: Jaccard 9/11 ≈ 0.818.
	b := "alpha one\nbravo two\ncharlie tweaked\ndelta four\necho five\n"
	root := treeOf(
		fileNode("a.py", "Python", a),
		fileNode("b.py", "Python", b),
	)

	groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root)
	if len(groups) != 1 || len(groups[0].Blocks) != 1 {
		t.Fatalf("groups = %+v, want one group with one block", groups)
	}
	if got := groups[0].Blocks[0].LineCount; got != 5 {
		t.Errorf("LineCount = %d, want 5", got)
	}

	// The same change below threshold: 8/12 ≈ 0.667.
	c := "alpha one\nbravo two\nchanged tweaked\ndelta four\necho five\n"
	root = treeOf(
		fileNode("a.py", "Python", a),
		fileNode("c.py", "Python", c),
	)
	if groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root); len(groups) != 0 {
		t.Errorf("below-threshold pair reported: %+v", groups)
	}
}

func TestDetectSymmetric(t *testing.T) {
	withPrefix := "prefix zero\n" + sharedSix
	forward := NewDetector(5, 0.8, zap.NewNop()).Detect(treeOf(
		fileNode("1.go", "Go", withPrefix),
		fileNode("2.go", "Go", sharedSix),
	))
	backward := NewDetector(5, 0.8, zap.NewNop()).Detect(treeOf(
		fileNode("1.go", "Go", sharedSix),
		fileNode("2.go", "Go", withPrefix),
	))

	if len(forward) != 1 || len(backward) != 1 {
		t.Fatalf("forward = %+v, backward = %+v", forward, backward)
	}
	fb, bb := forward[0].Blocks, backward[0].Blocks
	if len(fb) != len(bb) {
		t.Fatalf("block counts differ: %d vs %d", len(fb), len(bb))
	}
	for i := range fb {
		swapped := models.DuplicateBlock{
			StartLineA: bb[i].StartLineB,
			EndLineA:   bb[i].EndLineB,
			StartLineB: bb[i].StartLineA,
			EndLineB:   bb[i].EndLineA,
			LineCount:  bb[i].LineCount,
		}
		if fb[i] != swapped {
			t.Errorf("block %d not symmetric: %+v vs %+v", i, fb[i], bb[i])
		}
	}
}

func TestDetectIdempotent(t *testing.T) {
	root := treeOf(
		fileNode("a.go", "Go", sharedSix),
		fileNode("b.go", "Go", "prefix zero\n"+sharedSix),
		fileNode("c.go", "Go", sharedSix),
	)

	d := NewDetector(5, 0.8, zap.NewNop())
	first := d.Detect(root)
	second := d.Detect(root)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ:\n%+v\n%+v", first, second)
	}
}

func TestDetectLanguagePartition(t *testing.T) {
	root := treeOf(
		fileNode("a.go", "Go", sharedSix),
		fileNode("b.py", "Python", sharedSix),
	)
	if groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root); len(groups) != 0 {
		t.Errorf("cross-language pair reported: %+v", groups)
	}
}

func TestDetectSkipsShortAndContentless(t *testing.T) {
	noContent := fileNode("empty.go", "Go", "")
	noContent.HasContent = false
	root := treeOf(
		fileNode("a.go", "Go", "alpha one\nbravo two\n"),
		fileNode("b.go", "Go", "alpha one\nbravo two\n"),
		noContent,
	)
	if groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root); len(groups) != 0 {
		t.Errorf("short or contentless files reported: %+v", groups)
	}
}

func TestDetectGroupOrdering(t *testing.T) {
	root := treeOf(
		fileNode("c.go", "Go", sharedSix),
		fileNode("a.go", "Go", sharedSix),
		fileNode("b.go", "Go", sharedSix),
	)

	groups := NewDetector(5, 0.8, zap.NewNop()).Detect(root)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	wantPairs := [][2]string{{"a.go", "b.go"}, {"a.go", "c.go"}, {"b.go", "c.go"}}
	for i, g := range groups {
		if g.FileA != wantPairs[i][0] || g.FileB != wantPairs[i][1] {
			t.Errorf("group %d = (%s, %s), want %v", i, g.FileA, g.FileB, wantPairs[i])
		}
	}
}
