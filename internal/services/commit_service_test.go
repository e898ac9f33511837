package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/digest"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		APIKey:    "gsk_test",
		Locale:    "en",
		Generate:  1,
		Model:     config.DefaultModel,
		TimeoutMs: config.DefaultTimeoutMs,
		MaxLength: config.DefaultMaxLength,
		GHEnabled: true,
	}
}

func newCommitService(git *MockGitService, completer *MockCompleter, cfg *config.Config) *CommitService {
	return NewCommitService(
		WithCommitGit(git),
		WithCommitCompleter(completer),
		WithCommitConfig(cfg),
		WithCommitPromptLoader(NoPrompt),
	)
}

func stageTwoFiles(git *MockGitService, ctx context.Context) {
	git.On("AssertRepo", ctx).Return("/repo", nil)
	git.On("StagedDiff", ctx, []string(nil)).Return(&models.StagedDiff{
		Files: []string{"main.go", "util.go"},
		Diff:  "diff --git a/main.go b/main.go\n+package main\n",
	}, nil)
	git.On("DiffSummary", ctx, []string(nil)).Return(models.NewDiffSummary([]models.FileChangeStat{
		models.NewFileChangeStat("main.go", 10, 2),
		models.NewFileChangeStat("util.go", 1, 0),
	}), nil)
}

func TestCommitService_Suggest_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	git := new(MockGitService)
	completer := new(MockCompleter)
	stageTwoFiles(git, ctx)
	git.On("StagedFileDiff", ctx, mock.AnythingOfType("string")).Return("@@ -1 +1 @@\n+line", nil)

	var captured ai.Request
	completer.On("Complete", ctx, mock.AnythingOfType("ai.Request")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(ai.Request) }).
		Return([]ai.Choice{{Content: "\"feat: add helper to util.\""}}, nil)

	service := newCommitService(git, completer, testConfig())

	// Act
	changes, messages, err := service.Suggest(ctx, CommitOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "util.go"}, changes.Files())
	assert.False(t, changes.Analysis.Enhanced)
	assert.Equal(t, []string{"feat: add helper to util"}, messages)

	assert.InDelta(t, 0.3, captured.Temperature, 1e-6)
	assert.Equal(t, 1200, captured.MaxTokens)
	assert.Equal(t, 1, captured.N)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[1].Content, "Files changed: 2")
	assert.Contains(t, captured.Messages[1].Content, "# main.go")
	git.AssertExpectations(t)
	completer.AssertExpectations(t)
}

func TestCommitService_Suggest_StageAll(t *testing.T) {
	ctx := context.Background()
	git := new(MockGitService)
	completer := new(MockCompleter)
	git.On("StageTracked", ctx).Return(nil)
	stageTwoFiles(git, ctx)
	git.On("StagedFileDiff", ctx, mock.Anything).Return("", nil)
	completer.On("Complete", ctx, mock.Anything).Return([]ai.Choice{{Content: "fix: handle empty input"}}, nil)

	service := newCommitService(git, completer, testConfig())

	_, messages, err := service.Suggest(ctx, CommitOptions{StageAll: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"fix: handle empty input"}, messages)
	git.AssertCalled(t, "StageTracked", ctx)
}

func TestCommitService_Suggest_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Error - not a repository", func(t *testing.T) {
		git := new(MockGitService)
		git.On("AssertRepo", ctx).Return("", domainErrors.ErrNotInGitRepo)

		_, _, err := newCommitService(git, new(MockCompleter), testConfig()).Suggest(ctx, CommitOptions{})

		assert.ErrorIs(t, err, domainErrors.ErrNotInGitRepo)
	})

	t.Run("Error - nothing staged", func(t *testing.T) {
		git := new(MockGitService)
		git.On("AssertRepo", ctx).Return("/repo", nil)
		git.On("StagedDiff", ctx, []string{"*.sql"}).Return(nil, nil)

		_, _, err := newCommitService(git, new(MockCompleter), testConfig()).
			Suggest(ctx, CommitOptions{Excludes: []string{"*.sql"}})

		assert.ErrorIs(t, err, domainErrors.ErrNoChanges)
	})

	t.Run("Error - missing API key before any request", func(t *testing.T) {
		git := new(MockGitService)
		completer := new(MockCompleter)
		stageTwoFiles(git, ctx)
		cfg := testConfig()
		cfg.APIKey = ""

		_, _, err := newCommitService(git, completer, cfg).Suggest(ctx, CommitOptions{})

		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyMissing)
		completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("Error - completion failure propagates", func(t *testing.T) {
		git := new(MockGitService)
		completer := new(MockCompleter)
		stageTwoFiles(git, ctx)
		git.On("StagedFileDiff", ctx, mock.Anything).Return("", nil)
		apiErr := domainErrors.ErrRateLimited.WithError(errors.New("413"))
		completer.On("Complete", ctx, mock.Anything).Return(nil, apiErr)

		_, _, err := newCommitService(git, completer, testConfig()).Suggest(ctx, CommitOptions{})

		assert.ErrorIs(t, err, domainErrors.ErrRateLimited)
	})

	t.Run("Error - nothing usable in the response", func(t *testing.T) {
		git := new(MockGitService)
		completer := new(MockCompleter)
		stageTwoFiles(git, ctx)
		git.On("StagedFileDiff", ctx, mock.Anything).Return("", nil)
		completer.On("Complete", ctx, mock.Anything).Return([]ai.Choice{{Content: "  "}}, nil)

		_, _, err := newCommitService(git, completer, testConfig()).Suggest(ctx, CommitOptions{})

		assert.ErrorIs(t, err, domainErrors.ErrNoMessages)
	})
}

func TestCommitService_Generate_FileListFallback(t *testing.T) {
	ctx := context.Background()
	git := new(MockGitService)
	completer := new(MockCompleter)
	git.On("StagedFileDiff", ctx, mock.Anything).Return("", errors.New("boom"))

	var captured ai.Request
	completer.On("Complete", ctx, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(ai.Request) }).
		Return([]ai.Choice{{Content: "docs: update readme"}, {Content: "docs: update readme"}}, nil)

	cfg := testConfig()
	cfg.Generate = 2
	service := newCommitService(git, completer, cfg)

	messages, err := service.Generate(ctx, &StagedChanges{
		Diff: &models.StagedDiff{Files: []string{"README.md", "docs/a.md"}, Diff: "x"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"docs: update readme"}, messages)
	assert.Equal(t, 2, captured.N)
	assert.Contains(t, captured.Messages[1].Content, "Files: README.md, docs/a.md")
	assert.False(t, strings.Contains(captured.Messages[1].Content, "Context snippets"))
}

func TestCommitService_Collect_EnhancedAnalysis(t *testing.T) {
	ctx := context.Background()
	git := new(MockGitService)
	files := []string{"a.go", "b.go", "c.go", "d.go", "e.go"}
	stats := make([]models.FileChangeStat, 0, len(files))
	for _, f := range files {
		stats = append(stats, models.NewFileChangeStat(f, 1, 1))
	}
	git.On("AssertRepo", ctx).Return("/repo", nil)
	git.On("StagedDiff", ctx, []string(nil)).Return(&models.StagedDiff{Files: files, Diff: "d"}, nil)
	git.On("DiffSummary", ctx, []string(nil)).Return(models.NewDiffSummary(stats), nil)

	changes, err := NewCommitService(WithCommitGit(git), WithCommitPromptLoader(NoPrompt)).
		Collect(ctx, CommitOptions{})

	require.NoError(t, err)
	assert.True(t, changes.Analysis.Enhanced)
	assert.Equal(t, digest.ReasonManyFiles, changes.Analysis.Reason)
}

func TestCommitService_Generate_UsesCustomPrompt(t *testing.T) {
	ctx := context.Background()
	git := new(MockGitService)
	completer := new(MockCompleter)
	git.On("StagedFileDiff", ctx, mock.Anything).Return("", nil)

	var captured ai.Request
	completer.On("Complete", ctx, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(ai.Request) }).
		Return([]ai.Choice{{Content: "chore: bump deps"}}, nil)

	service := NewCommitService(
		WithCommitGit(git),
		WithCommitCompleter(completer),
		WithCommitConfig(testConfig()),
		WithCommitPromptLoader(func(_ context.Context, kind ai.PromptKind) string {
			if kind == ai.PromptCommit {
				return "Always mention the ticket."
			}
			return ""
		}),
	)

	_, err := service.Generate(ctx, &StagedChanges{Diff: &models.StagedDiff{Files: []string{"go.mod"}, Diff: "x"}})

	require.NoError(t, err)
	assert.Contains(t, captured.Messages[1].Content, "Always mention the ticket.")
}
