package git

import (
	"strconv"
	"strings"

	"github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/regex"
)

const (
	fieldSeparator = "|||"
	commitEnd      = "---COMMIT_END---"

	// LogFormat is the --pretty format ParseCommitLog understands.
	LogFormat = "--pretty=format:%H" + fieldSeparator + "%s" + fieldSeparator + "%b" + commitEnd
)

// ParseCommitLog splits LogFormat output into commits. Entries without a
// hash or a subject are dropped.
func ParseCommitLog(out string) []models.Commit {
	commits := make([]models.Commit, 0)
	if strings.TrimSpace(out) == "" {
		return commits
	}

	for _, entry := range strings.Split(out, commitEnd) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, fieldSeparator)
		hash := strings.TrimSpace(parts[0])
		var message, body string
		if len(parts) > 1 {
			message = parts[1]
		}
		if len(parts) > 2 {
			body = strings.TrimSpace(strings.Join(parts[2:], fieldSeparator))
		}
		if hash == "" || message == "" {
			continue
		}
		commits = append(commits, models.Commit{Hash: hash, Message: message, Body: body})
	}
	return commits
}

// ParseShortstat extracts the three counters of `git diff --shortstat`.
// A counter whose pattern does not match is 0.
func ParseShortstat(out string) models.BranchStats {
	return models.BranchStats{
		Files:      firstInt(regex.ShortstatFiles.FindStringSubmatch(out)),
		Insertions: firstInt(regex.ShortstatInsertions.FindStringSubmatch(out)),
		Deletions:  firstInt(regex.ShortstatDeletions.FindStringSubmatch(out)),
	}
}

func firstInt(match []string) int {
	if len(match) < 2 {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// ParseNumstatLine reads one `<added>\t<deleted>\t<path>` line. Binary files
// report "-" and count as 0.
func ParseNumstatLine(line string) (models.FileChangeStat, bool) {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 {
		return models.FileChangeStat{}, false
	}
	add, _ := strconv.Atoi(strings.TrimSpace(fields[0]))
	del, _ := strconv.Atoi(strings.TrimSpace(fields[1]))
	path := ""
	if len(fields) == 3 {
		path = strings.TrimSpace(fields[2])
	}
	return models.NewFileChangeStat(path, add, del), true
}

// ParseNumstat reads a whole numstat listing, keeping git's order.
func ParseNumstat(out string) []models.FileChangeStat {
	stats := make([]models.FileChangeStat, 0)
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		st, ok := ParseNumstatLine(line)
		if !ok || st.Path == "" {
			continue
		}
		stats = append(stats, st)
	}
	return stats
}

// ParseRepoURL returns owner and repository name from an SSH or HTTPS remote.
func ParseRepoURL(url string) (string, string, error) {
	url = strings.TrimSpace(url)

	var matches []string
	if regex.SSHRepo.MatchString(url) {
		matches = regex.SSHRepo.FindStringSubmatch(url)
	} else if regex.HTTPSRepo.MatchString(url) {
		matches = regex.HTTPSRepo.FindStringSubmatch(url)
	}

	if len(matches) >= 4 {
		return matches[2], strings.TrimSuffix(matches[3], ".git"), nil
	}
	return "", "", errors.ErrInvalidRepoURL.WithContext("url", url)
}

func splitLines(out string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
