package services

import (
	"context"
	"strings"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/ai/normalize"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
)

// issueVCSClient defines the methods needed by IssueService from a VCS provider.
type issueVCSClient interface {
	ListIssues(ctx context.Context, state string, limit int) ([]models.Issue, error)
	CreateIssue(ctx context.Context, draft models.IssueDraft) (*models.Issue, error)
}

type IssueService struct {
	vcsClient issueVCSClient
	completer ai.Completer
	config    *config.Config
}

type IssueOption func(*IssueService)

func WithIssueVCSClient(vcs issueVCSClient) IssueOption {
	return func(s *IssueService) {
		s.vcsClient = vcs
	}
}

func WithIssueCompleter(c ai.Completer) IssueOption {
	return func(s *IssueService) {
		s.completer = c
	}
}

func WithIssueConfig(cfg *config.Config) IssueOption {
	return func(s *IssueService) {
		s.config = cfg
	}
}

func NewIssueService(opts ...IssueOption) *IssueService {
	s := &IssueService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *IssueService) List(ctx context.Context, state string, limit int) ([]models.Issue, error) {
	if s.vcsClient == nil {
		return nil, domainErrors.ErrGHDisabled
	}
	issues, err := s.vcsClient.ListIssues(ctx, state, limit)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "issues listed", "state", state, "count", len(issues))
	return issues, nil
}

// Draft turns a free-form description into an issue, following tmpl when
// given. Template labels and title prefix are always applied.
func (s *IssueService) Draft(ctx context.Context, description string, tmpl *models.IssueTemplate) (models.IssueDraft, error) {
	if strings.TrimSpace(description) == "" {
		return models.IssueDraft{}, domainErrors.NewAppError(domainErrors.TypeConfiguration, "Issue description cannot be empty", nil).
			WithSuggestion("Pass one with --description")
	}
	if err := s.config.RequireAPIKey(); err != nil {
		return models.IssueDraft{}, err
	}

	user, err := ai.IssueDraftPrompt(description, tmpl, s.config.Locale)
	if err != nil {
		return models.IssueDraft{}, domainErrors.ErrPromptRender.WithError(err)
	}

	raw := ""
	choices, err := s.completer.Complete(ctx, ai.IssueRequest(ai.IssueSystemPrompt, user))
	switch {
	case err != nil:
		logger.Warn(ctx, "issue generation failed, using the description as is", "error", err)
	case len(choices) > 0:
		raw = choices[0].Content
	}

	draft := normalize.ParseIssueDraft(raw, description)
	if tmpl != nil {
		draft = applyTemplate(draft, tmpl)
	}
	return draft, nil
}

func (s *IssueService) Create(ctx context.Context, draft models.IssueDraft) (*models.Issue, error) {
	if s.vcsClient == nil {
		return nil, domainErrors.ErrGHDisabled
	}
	logger.Info(ctx, "creating issue", "title", draft.Title, "labels", draft.Labels)
	return s.vcsClient.CreateIssue(ctx, draft)
}

func applyTemplate(draft models.IssueDraft, tmpl *models.IssueTemplate) models.IssueDraft {
	if prefix := strings.TrimSpace(tmpl.Title); prefix != "" && !strings.HasPrefix(draft.Title, prefix) {
		draft.Title = prefix + " " + draft.Title
	}

	seen := make(map[string]bool, len(draft.Labels)+len(tmpl.Labels))
	labels := make([]string, 0, len(draft.Labels)+len(tmpl.Labels))
	for _, l := range append(append([]string{}, tmpl.Labels...), draft.Labels...) {
		key := strings.ToLower(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, l)
	}
	draft.Labels = labels
	return draft
}
