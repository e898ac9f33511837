package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/dash/internal/ai"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/models"
)

func branchRepo(ctx context.Context, current string, commits []models.Commit) *MockGitService {
	git := new(MockGitService)
	git.On("AssertRepo", ctx).Return("/repo", nil)
	git.On("CurrentBranch", ctx).Return(current, nil)
	git.On("BaseBranch", ctx).Return("main")
	git.On("CommitsSince", ctx, mock.Anything).Return(commits)
	git.On("StatsSince", ctx, mock.Anything).Return(models.BranchStats{Files: 3, Insertions: 40, Deletions: 5})
	git.On("DiffSummarySince", ctx, mock.Anything).Return(models.NewDiffSummary([]models.FileChangeStat{
		models.NewFileChangeStat("cmd/main.go", 30, 5),
	}))
	return git
}

var featureCommits = []models.Commit{
	{Hash: "a1", Message: "feat: add login form"},
	{Hash: "b2", Message: "fix: validate email", Body: "Reject empty input."},
}

func TestPRService_Gather(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - collects the branch range", func(t *testing.T) {
		git := branchRepo(ctx, "feature/login", featureCommits)
		service := NewPRService(WithPRGit(git), WithPRPromptLoader(NoPrompt))

		changes, err := service.Gather(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, "feature/login", changes.Current)
		assert.Equal(t, "main", changes.Base)
		assert.Len(t, changes.Commits, 2)
		assert.Contains(t, changes.DiffSummary, "cmd/main.go (+30 / -5, 35 changes)")
	})

	t.Run("Success - base override skips detection", func(t *testing.T) {
		git := branchRepo(ctx, "feature/login", featureCommits)
		service := NewPRService(WithPRGit(git), WithPRPromptLoader(NoPrompt))

		changes, err := service.Gather(ctx, "develop")

		require.NoError(t, err)
		assert.Equal(t, "develop", changes.Base)
		git.AssertNotCalled(t, "BaseBranch", ctx)
	})

	t.Run("Error - on the base branch", func(t *testing.T) {
		for _, branch := range []string{"main", "master"} {
			git := branchRepo(ctx, branch, featureCommits)
			_, err := NewPRService(WithPRGit(git), WithPRPromptLoader(NoPrompt)).Gather(ctx, "develop")
			assert.ErrorIs(t, err, domainErrors.ErrOnBaseBranch, branch)
		}
	})

	t.Run("Error - no commits", func(t *testing.T) {
		git := branchRepo(ctx, "feature/empty", []models.Commit{})

		_, err := NewPRService(WithPRGit(git), WithPRPromptLoader(NoPrompt)).Gather(ctx, "")

		assert.ErrorIs(t, err, domainErrors.ErrNoCommits)
		assert.Contains(t, err.Error(), "between main and feature/empty")
	})
}

func TestPRService_Draft(t *testing.T) {
	ctx := context.Background()
	changes := &BranchChanges{
		Current: "feature/login",
		Base:    "main",
		Commits: featureCommits,
		Stats:   models.BranchStats{Files: 3, Insertions: 40, Deletions: 5},
	}

	t.Run("Success - parses the generated content", func(t *testing.T) {
		completer := new(MockCompleter)
		var captured ai.Request
		completer.On("Complete", ctx, mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(1).(ai.Request) }).
			Return([]ai.Choice{{Content: "TITLE: feat: add login\nBODY:\n## Summary\nLogin form."}}, nil)

		service := NewPRService(WithPRCompleter(completer), WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

		draft, err := service.Draft(ctx, changes, 42)

		require.NoError(t, err)
		assert.False(t, draft.Fallback)
		assert.Equal(t, "feat: add login", draft.Content.Title)
		assert.Contains(t, draft.Content.Body, "Closes #42")
		assert.InDelta(t, 0.4, captured.Temperature, 1e-6)
		assert.Equal(t, 2000, captured.MaxTokens)
		assert.Contains(t, captured.Messages[1].Content, "Closes #42")
	})

	t.Run("Success - completion failure falls back to commits", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", ctx, mock.Anything).Return(nil, domainErrors.ErrAPI.WithError(errors.New("500")))

		service := NewPRService(WithPRCompleter(completer), WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

		draft, err := service.Draft(ctx, changes, 0)

		require.NoError(t, err)
		assert.True(t, draft.Fallback)
		assert.Equal(t, "chore: update feature login", draft.Content.Title)
		assert.Equal(t, "## Changes\n\n- feat: add login form\n- fix: validate email", draft.Content.Body)
	})

	t.Run("Error - missing API key", func(t *testing.T) {
		cfg := testConfig()
		cfg.APIKey = ""
		completer := new(MockCompleter)

		_, err := NewPRService(WithPRCompleter(completer), WithPRConfig(cfg), WithPRPromptLoader(NoPrompt)).
			Draft(ctx, changes, 0)

		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyMissing)
		completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})
}

func TestPRService_Create(t *testing.T) {
	ctx := context.Background()
	vcs := new(MockVCSClient)
	content := models.PRContent{Title: "feat: login", Body: "body"}
	vcs.On("CreatePR", ctx, "feature/login", "main", content, true).
		Return(&models.PullRequest{Number: 7, URL: "https://github.com/o/r/pull/7"}, nil)

	service := NewPRService(WithPRVCSClient(vcs), WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

	pr, err := service.Create(ctx, &PRDraft{
		Changes: &BranchChanges{Current: "feature/login", Base: "main"},
		Content: content,
	}, true)

	require.NoError(t, err)
	assert.Equal(t, 7, pr.Number)
	vcs.AssertExpectations(t)
}

func TestPRService_WithoutVCSClient(t *testing.T) {
	ctx := context.Background()
	service := NewPRService(WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

	_, err := service.List(ctx, "open", 10)
	assert.ErrorIs(t, err, domainErrors.ErrGHDisabled)

	_, err = service.Merge(ctx, 1, "squash")
	assert.ErrorIs(t, err, domainErrors.ErrGHDisabled)

	assert.ErrorIs(t, service.Apply(ctx, 1, models.PRContent{}), domainErrors.ErrGHDisabled)
}

func TestPRService_Edit(t *testing.T) {
	ctx := context.Background()
	existing := &models.PullRequest{Number: 9, Title: "old title", Body: "old body", Head: "feature/login", Base: "main"}

	t.Run("Success - applies generated content with local commits", func(t *testing.T) {
		git := branchRepo(ctx, "feature/login", featureCommits)
		vcs := new(MockVCSClient)
		completer := new(MockCompleter)
		var captured ai.Request
		vcs.On("GetPR", ctx, 9).Return(existing, nil)
		completer.On("Complete", ctx, mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(1).(ai.Request) }).
			Return([]ai.Choice{{Content: "TITLE: feat: add login form\nBODY:\nNew body"}}, nil)
		vcs.On("UpdatePR", ctx, 9, models.PRContent{Title: "feat: add login form", Body: "New body"}).Return(nil)

		service := NewPRService(WithPRGit(git), WithPRVCSClient(vcs), WithPRCompleter(completer),
			WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

		rev, err := service.Edit(ctx, 9, "mention the validation")

		require.NoError(t, err)
		assert.False(t, rev.Fallback)
		assert.Equal(t, 1500, captured.MaxTokens)
		assert.Contains(t, captured.Messages[1].Content, "mention the validation")
		assert.Contains(t, captured.Messages[1].Content, "fix: validate email")
		vcs.AssertExpectations(t)
	})

	t.Run("Success - other branch checked out keeps history empty", func(t *testing.T) {
		git := branchRepo(ctx, "main", featureCommits)
		vcs := new(MockVCSClient)
		completer := new(MockCompleter)
		vcs.On("GetPR", ctx, 9).Return(existing, nil)
		completer.On("Complete", ctx, mock.Anything).Return(nil, errors.New("timeout"))

		service := NewPRService(WithPRGit(git), WithPRVCSClient(vcs), WithPRCompleter(completer),
			WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

		rev, err := service.Revise(ctx, 9, "shorter")

		require.NoError(t, err)
		assert.True(t, rev.Fallback)
		assert.Equal(t, models.PRContent{Title: "old title", Body: "old body"}, rev.Content)
		git.AssertNotCalled(t, "CommitsSince", ctx, "main")
	})

	t.Run("Error - PR lookup fails", func(t *testing.T) {
		vcs := new(MockVCSClient)
		vcs.On("GetPR", ctx, 9).Return(nil, domainErrors.ErrRepositoryNotFound)

		_, err := NewPRService(WithPRGit(new(MockGitService)), WithPRVCSClient(vcs),
			WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt)).Edit(ctx, 9, "x")

		assert.ErrorIs(t, err, domainErrors.ErrRepositoryNotFound)
	})
}

func TestPRService_Merge(t *testing.T) {
	ctx := context.Background()
	pr := &models.PullRequest{Number: 3, Title: "Add login", Body: "Long body"}

	t.Run("Success - generated merge subject", func(t *testing.T) {
		vcs := new(MockVCSClient)
		completer := new(MockCompleter)
		vcs.On("GetPR", ctx, 3).Return(pr, nil)
		completer.On("Complete", ctx, mock.MatchedBy(func(r ai.Request) bool {
			return r.MaxTokens == 100
		})).Return([]ai.Choice{{Content: "\"feat: add login for users.\""}}, nil)
		vcs.On("MergePR", ctx, 3, "squash", "feat: add login for users").Return(nil)

		service := NewPRService(WithPRVCSClient(vcs), WithPRCompleter(completer),
			WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

		msg, err := service.Merge(ctx, 3, "squash")

		require.NoError(t, err)
		assert.Equal(t, "feat: add login for users", msg)
		vcs.AssertExpectations(t)
	})

	t.Run("Success - falls back to the PR title", func(t *testing.T) {
		vcs := new(MockVCSClient)
		completer := new(MockCompleter)
		vcs.On("GetPR", ctx, 3).Return(pr, nil)
		completer.On("Complete", ctx, mock.Anything).Return(nil, errors.New("down"))
		vcs.On("MergePR", ctx, 3, "merge", "Add login").Return(nil)

		service := NewPRService(WithPRVCSClient(vcs), WithPRCompleter(completer),
			WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt))

		msg, err := service.Merge(ctx, 3, "merge")

		require.NoError(t, err)
		assert.Equal(t, "Add login", msg)
	})

	t.Run("Error - merge rejected", func(t *testing.T) {
		vcs := new(MockVCSClient)
		completer := new(MockCompleter)
		vcs.On("GetPR", ctx, 3).Return(pr, nil)
		completer.On("Complete", ctx, mock.Anything).Return([]ai.Choice{{Content: "feat: add login"}}, nil)
		vcs.On("MergePR", ctx, 3, "rebase", "feat: add login").Return(domainErrors.ErrMergePR)

		_, err := NewPRService(WithPRVCSClient(vcs), WithPRCompleter(completer),
			WithPRConfig(testConfig()), WithPRPromptLoader(NoPrompt)).Merge(ctx, 3, "rebase")

		assert.ErrorIs(t, err, domainErrors.ErrMergePR)
	})
}
