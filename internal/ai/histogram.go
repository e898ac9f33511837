package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomas-vilte/dash/internal/regex"
)

const OtherType = "other"

type TypeCount struct {
	Type  string
	Count int
}

// TypeHistogram counts conventional-commit types in subjects. Unknown
// prefixes land in "other". Sorted by count, ties by first appearance.
func TypeHistogram(subjects []string) []TypeCount {
	index := make(map[string]int)
	counts := make([]TypeCount, 0)

	for _, subject := range subjects {
		t := commitType(subject)
		if i, ok := index[t]; ok {
			counts[i].Count++
			continue
		}
		index[t] = len(counts)
		counts = append(counts, TypeCount{Type: t, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

func commitType(subject string) string {
	m := regex.ConventionalCommit.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return OtherType
	}
	return m[1]
}

// FormatHistogram renders "feat: 2, fix: 1".
func FormatHistogram(counts []TypeCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Type, c.Count))
	}
	return strings.Join(parts, ", ")
}
