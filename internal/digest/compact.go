// Package digest reduces diff statistics and hunks to bounded prompt context.
package digest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomas-vilte/dash/internal/models"
)

const (
	DefaultMaxFiles = 20
	CommitMaxFiles  = 25
)

// Compact renders totals followed by the files with the most changes.
// Ties keep the order git reported the files in.
func Compact(summary *models.DiffSummary, maxFiles int) string {
	if summary == nil {
		summary = models.NewDiffSummary(nil)
	}
	if maxFiles < 1 {
		maxFiles = 1
	}

	ranked := make([]models.FileChangeStat, len(summary.Stats))
	copy(ranked, summary.Stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Changes > ranked[j].Changes
	})

	top := ranked
	if len(top) > maxFiles {
		top = ranked[:maxFiles]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Files changed: %d\n", len(summary.Files))
	fmt.Fprintf(&sb, "Additions: %d, Deletions: %d, Total changes: %d\n",
		summary.TotalAdditions(), summary.TotalDeletions(), summary.TotalChanges)
	sb.WriteString("Top files by changes:")
	for _, st := range top {
		fmt.Fprintf(&sb, "\n- %s (+%d / -%d, %d changes)", st.Path, st.Additions, st.Deletions, st.Changes)
	}
	if rest := len(ranked) - len(top); rest > 0 {
		fmt.Fprintf(&sb, "\n…and %d more files", rest)
	}
	return sb.String()
}

// FileList is the minimal digest used when no statistics are available.
func FileList(files []string) string {
	return "Files: " + strings.Join(files, ", ")
}
