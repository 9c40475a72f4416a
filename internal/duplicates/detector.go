package duplicates

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// Detector finds near-identical line blocks shared between files of the
// same language. Comparison is pairwise and windowed: a sliding window
// of minLines lines from each file qualifies a match when the Jaccard
// similarity of the windows' whitespace-token sets reaches the
// threshold, and a qualified match is extended forward while the lines
// stay exactly equal.
type Detector struct {
	minLines  int
	threshold float64
	logger    *zap.Logger
}

// NewDetector creates a detector. minLines must be at least 1 and the
// threshold must lie in (0, 1]; config.Validate enforces both.
func NewDetector(minLines int, threshold float64, logger *zap.Logger) *Detector {
	return &Detector{
		minLines:  minLines,
		threshold: threshold,
		logger:    logger,
	}
}

// indexedFile caches the per-line data the pairwise scan needs: raw
// lines for exact extension, line hashes for the identical-window fast
// path, and token lists for Jaccard windows.
type indexedFile struct {
	node   *models.FileNode
	lines  []string
	hashes []uint64
	tokens [][]string
}

func indexFile(node *models.FileNode) *indexedFile {
	lines := strings.Split(node.Content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	f := &indexedFile{
		node:   node,
		lines:  lines,
		hashes: make([]uint64, len(lines)),
		tokens: make([][]string, len(lines)),
	}
	for i, line := range lines {
		f.hashes[i] = xxhash.Sum64String(line)
		f.tokens[i] = strings.Fields(line)
	}
	return f
}

// Detect walks the tree and returns one DuplicateGroup per file pair
// that shares at least one block. Only files with loaded content and a
// known language participate, and pairs are compared only within the
// same language. Output ordering is deterministic for unchanged input.
func (d *Detector) Detect(root *models.DirectoryNode) []*models.DuplicateGroup {
	byLang := make(map[string][]*indexedFile)
	root.WalkFiles(func(f *models.FileNode) {
		if !f.HasContent || f.Language == "" {
			return
		}
		byLang[f.Language] = append(byLang[f.Language], indexFile(f))
	})

	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var groups []*models.DuplicateGroup
	for _, lang := range langs {
		files := byLang[lang]
		sort.Slice(files, func(i, j int) bool {
			return files[i].node.RelativePath < files[j].node.RelativePath
		})
		for x := 0; x < len(files); x++ {
			for y := x + 1; y < len(files); y++ {
				blocks := d.comparePair(files[x], files[y])
				if len(blocks) == 0 {
					continue
				}
				d.logger.Debug("Duplicate blocks found",
					zap.String("fileA", files[x].node.RelativePath),
					zap.String("fileB", files[y].node.RelativePath),
					zap.Int("blocks", len(blocks)))
				groups = append(groups, &models.DuplicateGroup{
					FileA:    files[x].node.RelativePath,
					FileB:    files[y].node.RelativePath,
					Language: lang,
					Blocks:   blocks,
				})
			}
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].FileA != groups[j].FileA {
			return groups[i].FileA < groups[j].FileA
		}
		return groups[i].FileB < groups[j].FileB
	})
	return groups
}

// comparePair runs the two-index window scan over one file pair. After
// a match the inner index jumps past the matched region; the outer
// index is not advanced, so overlapping re-detections from a later
// outer position are possible unless the later block is wholly
// contained in one already recorded.
func (d *Detector) comparePair(a, b *indexedFile) []models.DuplicateBlock {
	if len(a.lines) < d.minLines || len(b.lines) < d.minLines {
		return nil
	}

	var blocks []models.DuplicateBlock
	for i := 0; i <= len(a.lines)-d.minLines; i++ {
		for j := 0; j <= len(b.lines)-d.minLines; j++ {
			if d.windowSimilarity(a, b, i, j) < d.threshold {
				continue
			}

			end := d.minLines
			for i+end < len(a.lines) && j+end < len(b.lines) && a.lines[i+end] == b.lines[j+end] {
				end++
			}

			block := models.DuplicateBlock{
				StartLineA: i + 1,
				EndLineA:   i + end,
				StartLineB: j + 1,
				EndLineB:   j + end,
				LineCount:  end,
			}
			if !contained(blocks, block) {
				blocks = append(blocks, block)
			}

			// j advances past the matched region on the next
			// iteration; i stays put.
			j = j + end - 1
		}
	}
	return blocks
}

// windowSimilarity returns the Jaccard index of the whitespace-token
// sets of the minLines windows starting at i in a and j in b.
// Textually identical windows are 1.0 without building token sets.
func (d *Detector) windowSimilarity(a, b *indexedFile, i, j int) float64 {
	identical := true
	for k := 0; k < d.minLines; k++ {
		if a.hashes[i+k] != b.hashes[j+k] {
			identical = false
			break
		}
	}
	if identical {
		return 1.0
	}

	const (
		sideA = 1
		sideB = 2
	)
	seen := make(map[string]uint8)
	for k := 0; k < d.minLines; k++ {
		for _, tok := range a.tokens[i+k] {
			seen[tok] |= sideA
		}
		for _, tok := range b.tokens[j+k] {
			seen[tok] |= sideB
		}
	}

	var inter, union int
	for _, side := range seen {
		union++
		if side == sideA|sideB {
			inter++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// contained reports whether block lies wholly inside one of the blocks
// already recorded for the pair.
func contained(blocks []models.DuplicateBlock, block models.DuplicateBlock) bool {
	for _, other := range blocks {
		if other.StartLineA <= block.StartLineA && block.EndLineA <= other.EndLineA &&
			other.StartLineB <= block.StartLineB && block.EndLineB <= other.EndLineB {
			return true
		}
	}
	return false
}
