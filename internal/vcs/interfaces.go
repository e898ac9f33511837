package vcs

import (
	"context"

	"github.com/thomas-vilte/dash/internal/models"
)

const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
)

// VCSClient is the hosting-service side of PR and issue commands.
type VCSClient interface {
	// CreatePR opens a pull request from head into base.
	CreatePR(ctx context.Context, head, base string, content models.PRContent, draft bool) (*models.PullRequest, error)
	GetPR(ctx context.Context, number int) (*models.PullRequest, error)
	UpdatePR(ctx context.Context, number int, content models.PRContent) error
	// MergePR merges with method "merge", "squash" or "rebase".
	MergePR(ctx context.Context, number int, method, commitTitle string) error
	ListPRs(ctx context.Context, state string, limit int) ([]models.PullRequest, error)
	ListIssues(ctx context.Context, state string, limit int) ([]models.Issue, error)
	CreateIssue(ctx context.Context, draft models.IssueDraft) (*models.Issue, error)
}
