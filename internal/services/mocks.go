package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/models"
)

type (
	MockGitService struct {
		mock.Mock
	}

	MockCompleter struct {
		mock.Mock
	}

	MockVCSClient struct {
		mock.Mock
	}
)

func (m *MockGitService) AssertRepo(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) StageTracked(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGitService) StagedDiff(ctx context.Context, excludes []string) (*models.StagedDiff, error) {
	args := m.Called(ctx, excludes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StagedDiff), args.Error(1)
}

func (m *MockGitService) DiffSummary(ctx context.Context, excludes []string) (*models.DiffSummary, error) {
	args := m.Called(ctx, excludes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiffSummary), args.Error(1)
}

func (m *MockGitService) StagedFileDiff(ctx context.Context, file string) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) BaseBranch(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockGitService) CommitsSince(ctx context.Context, base string) []models.Commit {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Commit)
}

func (m *MockGitService) StatsSince(ctx context.Context, base string) models.BranchStats {
	args := m.Called(ctx, base)
	return args.Get(0).(models.BranchStats)
}

func (m *MockGitService) DiffSummarySince(ctx context.Context, base string) *models.DiffSummary {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.DiffSummary)
}

func (m *MockCompleter) Complete(ctx context.Context, req ai.Request) ([]ai.Choice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ai.Choice), args.Error(1)
}

func (m *MockVCSClient) CreatePR(ctx context.Context, head, base string, content models.PRContent, draft bool) (*models.PullRequest, error) {
	args := m.Called(ctx, head, base, content, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PullRequest), args.Error(1)
}

func (m *MockVCSClient) GetPR(ctx context.Context, number int) (*models.PullRequest, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PullRequest), args.Error(1)
}

func (m *MockVCSClient) UpdatePR(ctx context.Context, number int, content models.PRContent) error {
	args := m.Called(ctx, number, content)
	return args.Error(0)
}

func (m *MockVCSClient) MergePR(ctx context.Context, number int, method, commitTitle string) error {
	args := m.Called(ctx, number, method, commitTitle)
	return args.Error(0)
}

func (m *MockVCSClient) ListPRs(ctx context.Context, state string, limit int) ([]models.PullRequest, error) {
	args := m.Called(ctx, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PullRequest), args.Error(1)
}

func (m *MockVCSClient) ListIssues(ctx context.Context, state string, limit int) ([]models.Issue, error) {
	args := m.Called(ctx, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Issue), args.Error(1)
}

func (m *MockVCSClient) CreateIssue(ctx context.Context, draft models.IssueDraft) (*models.Issue, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}
