package ai

import (
	"os"
	"path/filepath"
	"strings"
)

type PromptKind string

const (
	PromptCommit  PromptKind = "commit"
	PromptPR      PromptKind = "pr"
	PromptSummary PromptKind = "summary"

	promptDir = ".dash"
)

// LoadPromptOverride looks for .dash/<kind>.md from start upwards, stopping
// after stopAt. A missing or unreadable file yields "".
func LoadPromptOverride(kind PromptKind, start, stopAt string) string {
	path := findUp(filepath.Join(promptDir, string(kind)+".md"), start, stopAt)
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func findUp(name, start, stopAt string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if stopAt == "" {
		stopAt = dir
	}
	stop, err := filepath.Abs(stopAt)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		if dir == stop {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
