package normalize

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/regex"
)

const (
	maxTitleLength    = 72
	maxFallbackCommit = 10
)

// ParsePRResponse extracts the TITLE: and BODY: sections. ok is false when
// either section is missing or empty.
func ParsePRResponse(raw string) (models.PRContent, bool) {
	var pr models.PRContent
	if m := regex.PRTitle.FindStringSubmatch(raw); m != nil {
		pr.Title = strings.TrimSpace(m[1])
	}
	if m := regex.PRBody.FindStringSubmatch(raw); m != nil {
		pr.Body = strings.TrimSpace(m[1])
	}
	return pr, pr.Title != "" && pr.Body != ""
}

// PRContentWithFallback never returns an empty title or body. Missing
// sections are rebuilt from the commits and the issue is referenced once.
func PRContentWithFallback(raw string, ctx models.PRContext) models.PRContent {
	pr, _ := ParsePRResponse(raw)

	if pr.Title == "" {
		pr.Title = FallbackTitle(ctx)
	}
	if pr.Body == "" {
		pr.Body = FallbackBody(ctx.Commits)
	}
	if ctx.Issue > 0 && !strings.Contains(pr.Body, fmt.Sprintf("#%d", ctx.Issue)) {
		pr.Body += fmt.Sprintf("\n\nCloses #%d", ctx.Issue)
	}
	return pr
}

// FallbackTitle is "chore: update <branch words>" for multi-commit branches,
// otherwise the only commit subject or "Merge <branch>".
func FallbackTitle(ctx models.PRContext) string {
	var title string
	switch {
	case len(ctx.Commits) > 1:
		title = "chore: update " + regex.BranchSeparators.ReplaceAllString(ctx.BranchName, " ")
	case len(ctx.Commits) == 1 && ctx.Commits[0].Message != "":
		title = ctx.Commits[0].Message
	default:
		title = "Merge " + ctx.BranchName
	}
	title = strings.TrimSpace(title)
	if r := []rune(title); len(r) > maxTitleLength {
		title = string(r[:maxTitleLength])
	}
	return title
}

// FallbackBody lists up to ten commit subjects.
func FallbackBody(commits []models.CommitSummary) string {
	if len(commits) > maxFallbackCommit {
		commits = commits[:maxFallbackCommit]
	}
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, "- "+c.Message)
	}
	return "## Changes\n\n" + strings.Join(lines, "\n")
}

// PRUpdateWithFallback keeps the existing title or body for any section the
// model did not return.
func PRUpdateWithFallback(raw string, existing models.PullRequest) models.PRContent {
	pr, _ := ParsePRResponse(raw)
	if pr.Title == "" {
		pr.Title = existing.Title
	}
	if pr.Body == "" {
		pr.Body = existing.Body
	}
	return pr
}

// MergeMessage sanitizes the generated merge subject, falling back to the PR title.
func MergeMessage(raw, prTitle string) string {
	if msg := Sanitize(raw); msg != "" {
		return msg
	}
	return prTitle
}

// ParseIssueDraft reads TITLE/BODY/LABELS output. A missing title falls back
// to the first line of the request and a missing body to the request itself.
func ParseIssueDraft(raw, request string) models.IssueDraft {
	var draft models.IssueDraft
	if m := regex.PRTitle.FindStringSubmatch(raw); m != nil {
		draft.Title = strings.TrimSpace(m[1])
	}
	if m := regex.IssueBody.FindStringSubmatch(raw); m != nil {
		draft.Body = strings.TrimSpace(m[1])
	}
	if m := regex.IssueLabels.FindStringSubmatch(raw); m != nil {
		for _, l := range strings.Split(m[1], ",") {
			if l = strings.Trim(strings.TrimSpace(l), "`\"'"); l != "" {
				draft.Labels = append(draft.Labels, l)
			}
		}
	}

	request = strings.TrimSpace(request)
	if draft.Title == "" {
		first, _, _ := strings.Cut(request, "\n")
		draft.Title = strings.TrimSpace(first)
		if r := []rune(draft.Title); len(r) > maxTitleLength {
			draft.Title = string(r[:maxTitleLength])
		}
	}
	if draft.Body == "" {
		draft.Body = request
	}
	return draft
}
