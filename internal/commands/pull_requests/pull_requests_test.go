package pull_requests

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/services"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func runPR(t *testing.T, provider ServiceProvider, input string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	color.NoColor = true
	out := &bytes.Buffer{}
	prevOut, prevErr, prevIn := ui.Out, ui.ErrOut, ui.In
	ui.Out, ui.ErrOut, ui.In = out, &bytes.Buffer{}, strings.NewReader(input)
	ui.ResetInput()
	t.Cleanup(func() {
		ui.Out, ui.ErrOut, ui.In = prevOut, prevErr, prevIn
		ui.ResetInput()
	})

	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	cmd := NewPRCommandFactory(provider).CreateCommand(trans, &config.Config{})
	app := &cli.Command{Name: "dash", Commands: []*cli.Command{cmd}}
	return out, app.Run(context.Background(), append([]string{"dash", "pr"}, args...))
}

func serve(service *MockPRService) ServiceProvider {
	return func(context.Context, *config.Config) (PRService, error) { return service, nil }
}

func featureChanges() *services.BranchChanges {
	return &services.BranchChanges{
		Current: "feature/login",
		Base:    "develop",
		Commits: []models.Commit{{Hash: "a1", Message: "feat: add login"}},
		Stats:   models.BranchStats{Files: 2, Insertions: 40, Deletions: 3},
	}
}

func TestPRCreate(t *testing.T) {
	t.Run("Success - creates a draft PR with the generated content", func(t *testing.T) {
		service := new(MockPRService)
		changes := featureChanges()
		draft := &services.PRDraft{Changes: changes, Content: models.PRContent{Title: "feat: add login", Body: "## Summary\nLogin"}}
		service.On("Gather", mock.Anything, "develop").Return(changes, nil)
		service.On("Draft", mock.Anything, changes, 42).Return(draft, nil)
		service.On("Create", mock.Anything, draft, true).Return(&models.PullRequest{Number: 9, URL: "https://github.com/o/r/pull/9"}, nil)

		out, err := runPR(t, serve(service), "\nn\ny\n", "-b", "develop", "-d", "-i", "42")

		require.NoError(t, err)
		service.AssertExpectations(t)
		assert.Equal(t, "feat: add login", draft.Content.Title)
		assert.Contains(t, out.String(), "https://github.com/o/r/pull/9")
	})

	t.Run("Success - edited title is used", func(t *testing.T) {
		service := new(MockPRService)
		changes := featureChanges()
		draft := &services.PRDraft{Changes: changes, Content: models.PRContent{Title: "feat: add login", Body: "b"}}
		service.On("Gather", mock.Anything, "").Return(changes, nil)
		service.On("Draft", mock.Anything, changes, 0).Return(draft, nil)
		service.On("Create", mock.Anything, mock.MatchedBy(func(d *services.PRDraft) bool {
			return d.Content.Title == "feat: add OAuth login"
		}), false).Return(&models.PullRequest{Number: 10}, nil)

		_, err := runPR(t, serve(service), "feat: add OAuth login\nn\ny\n")

		require.NoError(t, err)
		service.AssertExpectations(t)
	})

	t.Run("Success - declining does not create the PR", func(t *testing.T) {
		service := new(MockPRService)
		changes := featureChanges()
		service.On("Gather", mock.Anything, "").Return(changes, nil)
		service.On("Draft", mock.Anything, changes, 0).Return(&services.PRDraft{Changes: changes, Content: models.PRContent{Title: "t"}}, nil)

		out, err := runPR(t, serve(service), "\nn\nn\n")

		require.NoError(t, err)
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "cancelled")
	})

	t.Run("Error - on the base branch", func(t *testing.T) {
		service := new(MockPRService)
		service.On("Gather", mock.Anything, "").Return(nil, domainErrors.ErrOnBaseBranch)

		_, err := runPR(t, serve(service), "")

		assert.ErrorIs(t, err, domainErrors.ErrOnBaseBranch)
	})

	t.Run("Error - GitHub disabled", func(t *testing.T) {
		provider := func(context.Context, *config.Config) (PRService, error) { return nil, domainErrors.ErrGHDisabled }

		_, err := runPR(t, provider, "")

		assert.ErrorIs(t, err, domainErrors.ErrGHDisabled)
	})
}

func TestPREdit(t *testing.T) {
	t.Run("Success - applies the revision", func(t *testing.T) {
		service := new(MockPRService)
		revision := &services.PRRevision{
			Existing: &models.PullRequest{Number: 7, URL: "https://github.com/o/r/pull/7"},
			Content:  models.PRContent{Title: "fix: shorter title", Body: "Short body"},
		}
		service.On("Revise", mock.Anything, 7, "make it shorter").Return(revision, nil)
		service.On("Apply", mock.Anything, 7, revision.Content).Return(nil)

		out, err := runPR(t, serve(service), "", "edit", "--request", "make it shorter", "-y", "7")

		require.NoError(t, err)
		service.AssertExpectations(t)
		assert.Contains(t, out.String(), "fix: shorter title")
	})

	t.Run("Success - unparsable revision is not applied", func(t *testing.T) {
		service := new(MockPRService)
		revision := &services.PRRevision{Existing: &models.PullRequest{Number: 7}, Fallback: true}
		service.On("Revise", mock.Anything, 7, "").Return(revision, nil)

		_, err := runPR(t, serve(service), "", "edit", "-y", "7")

		require.NoError(t, err)
		service.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error - invalid PR number", func(t *testing.T) {
		_, err := runPR(t, serve(new(MockPRService)), "", "edit", "abc")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidPRNumber)
	})
}

func TestPRMerge(t *testing.T) {
	t.Run("Success - merges with the requested method", func(t *testing.T) {
		service := new(MockPRService)
		service.On("Merge", mock.Anything, 12, "squash").Return("feat: add login for users", nil)

		out, err := runPR(t, serve(service), "", "merge", "-m", "squash", "-y", "12")

		require.NoError(t, err)
		service.AssertExpectations(t)
		assert.Contains(t, out.String(), "feat: add login for users")
	})

	t.Run("Success - declined merge", func(t *testing.T) {
		service := new(MockPRService)

		_, err := runPR(t, serve(service), "n\n", "merge", "12")

		require.NoError(t, err)
		service.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPRList(t *testing.T) {
	service := new(MockPRService)
	service.On("List", mock.Anything, "all", 5).Return([]models.PullRequest{
		{Number: 3, Title: "feat: add login", Head: "feature/login", Base: "main", State: "open", URL: "https://github.com/o/r/pull/3"},
	}, nil)

	out, err := runPR(t, serve(service), "", "list", "-s", "all", "-l", "5")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "#3 feat: add login")
	assert.Contains(t, out.String(), "feature/login → main • open")
}
