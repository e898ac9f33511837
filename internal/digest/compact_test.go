package digest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/dash/internal/models"
)

func summaryOf(stats ...models.FileChangeStat) *models.DiffSummary {
	return models.NewDiffSummary(stats)
}

func TestCompact(t *testing.T) {
	t.Run("Success - ranks by changes and keeps ties in git order", func(t *testing.T) {
		s := summaryOf(
			models.NewFileChangeStat("a.go", 1, 1),
			models.NewFileChangeStat("b.go", 10, 0),
			models.NewFileChangeStat("c.go", 2, 0),
		)

		expected := "Files changed: 3\n" +
			"Additions: 13, Deletions: 1, Total changes: 14\n" +
			"Top files by changes:\n" +
			"- b.go (+10 / -0, 10 changes)\n" +
			"- a.go (+1 / -1, 2 changes)\n" +
			"- c.go (+2 / -0, 2 changes)"
		assert.Equal(t, expected, Compact(s, DefaultMaxFiles))
	})

	t.Run("Success - trailer counts the files left out", func(t *testing.T) {
		stats := make([]models.FileChangeStat, 0, 30)
		for i := 0; i < 30; i++ {
			stats = append(stats, models.NewFileChangeStat(fmt.Sprintf("f%02d.go", i), i, 0))
		}
		out := Compact(summaryOf(stats...), CommitMaxFiles)

		assert.True(t, strings.HasSuffix(out, "\n…and 5 more files"))
		assert.Equal(t, CommitMaxFiles, strings.Count(out, "\n- "))
		assert.Contains(t, out, "- f29.go (+29 / -0, 29 changes)")
	})

	t.Run("Success - maxFiles below one still lists a file", func(t *testing.T) {
		out := Compact(summaryOf(models.NewFileChangeStat("a.go", 1, 0), models.NewFileChangeStat("b.go", 2, 0)), 0)

		assert.Contains(t, out, "- b.go")
		assert.Contains(t, out, "…and 1 more files")
	})

	t.Run("Success - output is deterministic", func(t *testing.T) {
		s := summaryOf(
			models.NewFileChangeStat("x", 5, 5),
			models.NewFileChangeStat("y", 5, 5),
			models.NewFileChangeStat("z", 0, 1),
		)
		assert.Equal(t, Compact(s, 2), Compact(s, 2))
	})

	t.Run("Success - nil summary renders zero totals", func(t *testing.T) {
		assert.Equal(t, "Files changed: 0\nAdditions: 0, Deletions: 0, Total changes: 0\nTop files by changes:", Compact(nil, 5))
	})
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		diffLen  int
		stats    []models.FileChangeStat
		expected Analysis
	}{
		{
			name:     "small change",
			diffLen:  100,
			stats:    []models.FileChangeStat{models.NewFileChangeStat("a", 1, 1)},
			expected: Analysis{},
		},
		{
			name:     "large single file",
			diffLen:  100,
			stats:    []models.FileChangeStat{models.NewFileChangeStat("a", 501, 0)},
			expected: Analysis{Enhanced: true, Reason: ReasonLargeFile},
		},
		{
			name:     "large diff only",
			diffLen:  50001,
			stats:    []models.FileChangeStat{models.NewFileChangeStat("a", 100, 0)},
			expected: Analysis{Enhanced: true, Reason: ReasonLargeDiff},
		},
		{
			name:    "six files with one large file reports many files first",
			diffLen: 2000,
			stats: []models.FileChangeStat{
				models.NewFileChangeStat("a", 600, 0),
				models.NewFileChangeStat("b", 1, 0),
				models.NewFileChangeStat("c", 1, 0),
				models.NewFileChangeStat("d", 1, 0),
				models.NewFileChangeStat("e", 1, 0),
				models.NewFileChangeStat("f", 1, 0),
			},
			expected: Analysis{Enhanced: true, Reason: ReasonManyFiles},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Analyze(tt.diffLen, summaryOf(tt.stats...), DefaultThresholds))
		})
	}

	t.Run("large file alone triggers with raised file threshold", func(t *testing.T) {
		th := DefaultThresholds
		th.MaxFiles = 10
		s := summaryOf(
			models.NewFileChangeStat("a", 300, 300),
			models.NewFileChangeStat("b", 1, 0),
		)
		assert.Equal(t, Analysis{Enhanced: true, Reason: ReasonLargeFile}, Analyze(10, s, th))
	})
}
