package stats

import (
	"sort"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// noExtension is the histogram key for files without an extension.
const noExtension = "(none)"

// Aggregator folds a completed tree into AggregateStats. Each node is
// added exactly once, in traversal order; there are no concurrent
// writers. Ranked lists use push, re-sort, truncate semantics so their
// ordering matches what a bounded insertion sort would produce.
type Aggregator struct {
	stats *models.AggregateStats
}

func New() *Aggregator {
	return &Aggregator{stats: models.NewAggregateStats()}
}

// Collect folds the whole tree and the duplicate report in one pass.
func Collect(root *models.DirectoryNode, groups []*models.DuplicateGroup) *models.AggregateStats {
	a := New()
	a.fold(root)
	a.AddDuplicates(groups)
	return a.Result()
}

func (a *Aggregator) fold(dir *models.DirectoryNode) {
	a.AddDirectory(dir)
	for _, child := range dir.Directories {
		a.fold(child)
	}
	for _, f := range dir.Files {
		a.AddFile(f)
	}
}

func (a *Aggregator) AddDirectory(_ *models.DirectoryNode) {
	a.stats.DirectoryCount++
}

func (a *Aggregator) AddFile(f *models.FileNode) {
	s := a.stats
	s.FileCount++
	s.TotalSize += f.Size

	ext := f.Extension
	if ext == "" {
		ext = noExtension
	}
	s.Extensions[ext]++

	if f.Language != "" {
		s.Languages[f.Language]++
	}

	s.LargestFiles = pushRanked(s.LargestFiles,
		models.RankedFile{Path: f.RelativePath, Size: f.Size},
		func(x, y models.RankedFile) int { return compareInt64(x.Size, y.Size) })

	if f.ModTime != nil {
		entry := models.RankedFile{Path: f.RelativePath, ModTime: f.ModTime}
		s.NewestFiles = pushRanked(s.NewestFiles, entry,
			func(x, y models.RankedFile) int { return compareTime(x, y) })
		s.OldestFiles = pushRanked(s.OldestFiles, entry,
			func(x, y models.RankedFile) int { return -compareTime(x, y) })
	}

	if f.Metrics == nil {
		return
	}
	s.ComplexityBuckets[f.Metrics.ComplexityLabel]++
	s.MostComplexFiles = pushRanked(s.MostComplexFiles,
		models.RankedFile{
			Path:  f.RelativePath,
			Score: f.Metrics.ComplexityScore,
			Label: f.Metrics.ComplexityLabel,
		},
		func(x, y models.RankedFile) int {
			if c := models.LabelPriority(x.Label) - models.LabelPriority(y.Label); c != 0 {
				return c
			}
			return x.Score - y.Score
		})
}

// AddDuplicates ranks duplicate groups by total duplicated lines.
func (a *Aggregator) AddDuplicates(groups []*models.DuplicateGroup) {
	for _, g := range groups {
		a.stats.LargestDuplicates = append(a.stats.LargestDuplicates, models.DuplicateRef{
			FileA:      g.FileA,
			FileB:      g.FileB,
			TotalLines: g.TotalLines(),
		})
		sort.SliceStable(a.stats.LargestDuplicates, func(i, j int) bool {
			di, dj := a.stats.LargestDuplicates[i], a.stats.LargestDuplicates[j]
			if di.TotalLines != dj.TotalLines {
				return di.TotalLines > dj.TotalLines
			}
			if di.FileA != dj.FileA {
				return di.FileA < dj.FileA
			}
			return di.FileB < dj.FileB
		})
		if len(a.stats.LargestDuplicates) > models.TopK {
			a.stats.LargestDuplicates = a.stats.LargestDuplicates[:models.TopK]
		}
	}
}

func (a *Aggregator) Result() *models.AggregateStats {
	return a.stats
}

// pushRanked inserts one entry, re-sorts descending by the compare key
// with path-ascending tiebreak, and truncates to TopK.
func pushRanked(list []models.RankedFile, entry models.RankedFile, compare func(x, y models.RankedFile) int) []models.RankedFile {
	list = append(list, entry)
	sort.SliceStable(list, func(i, j int) bool {
		if c := compare(list[i], list[j]); c != 0 {
			return c > 0
		}
		return list[i].Path < list[j].Path
	})
	if len(list) > models.TopK {
		list = list[:models.TopK]
	}
	return list
}

func compareInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// compareTime orders newest first when used verbatim.
func compareTime(x, y models.RankedFile) int {
	switch {
	case x.ModTime.Before(*y.ModTime):
		return -1
	case x.ModTime.After(*y.ModTime):
		return 1
	default:
		return 0
	}
}
