package models

// FileChangeStat is the numeric diff of a single path.
type FileChangeStat struct {
	Path      string
	Additions int
	Deletions int
	Changes   int
}

// NewFileChangeStat keeps Changes consistent with the two counters.
func NewFileChangeStat(path string, additions, deletions int) FileChangeStat {
	if additions < 0 {
		additions = 0
	}
	if deletions < 0 {
		deletions = 0
	}
	return FileChangeStat{
		Path:      path,
		Additions: additions,
		Deletions: deletions,
		Changes:   additions + deletions,
	}
}

// DiffSummary holds per-file statistics in the order git reported the files.
// Files and Stats cover the same paths; TotalChanges is the sum of Stats[*].Changes.
type DiffSummary struct {
	Files        []string
	Stats        []FileChangeStat
	TotalChanges int
}

// NewDiffSummary builds a summary from stats already in VCS order.
func NewDiffSummary(stats []FileChangeStat) *DiffSummary {
	s := &DiffSummary{
		Files: make([]string, 0, len(stats)),
		Stats: make([]FileChangeStat, 0, len(stats)),
	}
	for _, st := range stats {
		s.Files = append(s.Files, st.Path)
		s.Stats = append(s.Stats, st)
		s.TotalChanges += st.Changes
	}
	return s
}

func (s *DiffSummary) TotalAdditions() int {
	total := 0
	for _, st := range s.Stats {
		total += st.Additions
	}
	return total
}

func (s *DiffSummary) TotalDeletions() int {
	total := 0
	for _, st := range s.Stats {
		total += st.Deletions
	}
	return total
}

// StagedDiff is the raw staged change set after exclusions.
type StagedDiff struct {
	Files []string
	Diff  string
}

// Commit is one entry of a branch log. Hash and Message are never empty.
type Commit struct {
	Hash    string
	Message string
	Body    string
}

// BranchStats is the aggregate parsed from a shortstat line.
type BranchStats struct {
	Files      int
	Insertions int
	Deletions  int
}
