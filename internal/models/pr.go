package models

// CommitSummary is the part of a commit that prompts care about.
type CommitSummary struct {
	Message string
	Body    string
}

// Subjects returns the commit subject lines in order.
func Subjects(commits []CommitSummary) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Message)
	}
	return out
}

// ToSummaries drops hashes from a commit list.
func ToSummaries(commits []Commit) []CommitSummary {
	out := make([]CommitSummary, 0, len(commits))
	for _, c := range commits {
		out = append(out, CommitSummary{Message: c.Message, Body: c.Body})
	}
	return out
}

// PRContext is the input for PR creation and PR update prompts.
type PRContext struct {
	BranchName  string
	BaseBranch  string
	Commits     []CommitSummary
	Stats       BranchStats
	Issue       int
	DiffSummary string
	Locale      string
}

// SummaryContext is the input for the branch summary prompt.
type SummaryContext struct {
	CurrentBranch string
	TargetBranch  string
	Commits       []CommitSummary
	Stats         BranchStats
	DiffSummary   string
	Locale        string
}

// PRContent is a PR title and markdown body.
type PRContent struct {
	Title string
	Body  string
}

// PullRequest is an existing pull request on the hosting service.
type PullRequest struct {
	Number int
	Title  string
	Body   string
	URL    string
	State  string
	Head   string
	Base   string
}
