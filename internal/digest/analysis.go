package digest

import "github.com/thomas-vilte/dash/internal/models"

type Reason string

const (
	ReasonNone      Reason = ""
	ReasonManyFiles Reason = "many files"
	ReasonLargeFile Reason = "large file changes"
	ReasonLargeDiff Reason = "large diff"
)

// Thresholds are OR-ed: crossing any one enables enhanced analysis.
type Thresholds struct {
	MaxDiffBytes   int
	MaxFiles       int
	MaxFileChanges int
}

var DefaultThresholds = Thresholds{
	MaxDiffBytes:   50000,
	MaxFiles:       5,
	MaxFileChanges: 500,
}

type Analysis struct {
	Enhanced bool
	Reason   Reason
}

// Analyze decides whether the change set is big enough to need the compacted
// summary and snippets instead of the raw diff.
func Analyze(diffLen int, summary *models.DiffSummary, th Thresholds) Analysis {
	files := 0
	largeFile := false
	if summary != nil {
		files = len(summary.Files)
		for _, st := range summary.Stats {
			if st.Changes > th.MaxFileChanges {
				largeFile = true
				break
			}
		}
	}

	switch {
	case files >= th.MaxFiles:
		return Analysis{Enhanced: true, Reason: ReasonManyFiles}
	case largeFile:
		return Analysis{Enhanced: true, Reason: ReasonLargeFile}
	case diffLen > th.MaxDiffBytes:
		return Analysis{Enhanced: true, Reason: ReasonLargeDiff}
	}
	return Analysis{}
}
