package digest

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/dash/internal/logger"
)

const (
	DefaultSnippetFiles = 5
	CommitSnippetLines  = 30
	CommitSnippetChars  = 3000

	snippetBanner  = "Context snippets (truncated):"
	blockSeparator = "\n\n"
)

// DiffSource yields the minimal staged diff of one path.
type DiffSource interface {
	FileDiff(ctx context.Context, file string) (string, error)
}

type SnippetExtractor struct {
	Source   DiffSource
	MaxFiles int
}

func NewSnippetExtractor(source DiffSource) *SnippetExtractor {
	return &SnippetExtractor{Source: source, MaxFiles: DefaultSnippetFiles}
}

// Extract returns "" when no file yields lines or the source fails; snippets
// only enrich the prompt. The output never exceeds totalMaxChars plus the
// banner and one file header.
func (e *SnippetExtractor) Extract(ctx context.Context, files []string, perFileMaxLines, totalMaxChars int) string {
	if e == nil || e.Source == nil || len(files) == 0 || totalMaxChars <= 0 {
		return ""
	}

	maxFiles := e.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultSnippetFiles
	}
	if len(files) > maxFiles {
		files = files[:maxFiles]
	}

	blocks := make([]string, 0, len(files))
	remaining := totalMaxChars
	for _, file := range files {
		if remaining <= 0 {
			break
		}
		diff, err := e.Source.FileDiff(ctx, file)
		if err != nil {
			logger.Debug(ctx, "snippet extraction skipped", "file", file, "error", err)
			return ""
		}
		picked := PickLines(diff, perFileMaxLines)
		if len(picked) == 0 {
			continue
		}

		if len(blocks) > 0 {
			remaining -= len(blockSeparator)
			if remaining <= 0 {
				break
			}
		}
		block := "# " + file + "\n" + strings.Join(picked, "\n")
		if len(block) > remaining {
			block = cutAtRune(block, remaining)
		}
		blocks = append(blocks, block)
		remaining -= len(block)
	}

	if len(blocks) == 0 {
		return ""
	}
	return snippetBanner + "\n" + strings.Join(blocks, blockSeparator)
}

// PickLines keeps hunk headers and changed lines, dropping file markers.
func PickLines(diff string, max int) []string {
	picked := make([]string, 0)
	if max <= 0 {
		return picked
	}
	for _, line := range strings.Split(diff, "\n") {
		if len(picked) >= max {
			break
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "@@"), strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			picked = append(picked, line)
		}
	}
	return picked
}

// cutAtRune returns at most n bytes of s without splitting a UTF-8 sequence.
func cutAtRune(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
