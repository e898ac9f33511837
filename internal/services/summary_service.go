package services

import (
	"context"
	"strings"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
)

type SummaryService struct {
	git          branchGit
	completer    ai.Completer
	config       *config.Config
	promptLoader PromptLoader
}

type SummaryOption func(*SummaryService)

func WithSummaryGit(git branchGit) SummaryOption {
	return func(s *SummaryService) {
		s.git = git
	}
}

func WithSummaryCompleter(c ai.Completer) SummaryOption {
	return func(s *SummaryService) {
		s.completer = c
	}
}

func WithSummaryConfig(cfg *config.Config) SummaryOption {
	return func(s *SummaryService) {
		s.config = cfg
	}
}

func WithSummaryPromptLoader(l PromptLoader) SummaryOption {
	return func(s *SummaryService) {
		s.promptLoader = l
	}
}

func NewSummaryService(opts ...SummaryOption) *SummaryService {
	s := &SummaryService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.promptLoader == nil && s.git != nil {
		s.promptLoader = RepoPromptLoader(s.git)
	}
	return s
}

// Gather collects the commits of the current branch not in target.
func (s *SummaryService) Gather(ctx context.Context, target string) (*BranchChanges, error) {
	current, target, err := resolveBranches(ctx, s.git, target)
	if err != nil {
		return nil, err
	}
	if current == target {
		return nil, domainErrors.ErrSameBranch.
			WithMessage("You are currently on %q. Cannot compare a branch to itself", current)
	}

	changes := collectRange(ctx, s.git, current, target)
	if len(changes.Commits) == 0 {
		return nil, domainErrors.ErrNoCommits.
			WithMessage("No commits found between %s and %s", target, current).
			WithSuggestion("Make sure both branches exist and there are commits to compare.")
	}
	return changes, nil
}

// Generate writes the markdown summary of changes.
func (s *SummaryService) Generate(ctx context.Context, changes *BranchChanges) (string, error) {
	if err := s.config.RequireAPIKey(); err != nil {
		return "", err
	}

	custom := ""
	if s.promptLoader != nil {
		custom = s.promptLoader(ctx, ai.PromptSummary)
	}

	user, err := ai.SummaryUserPrompt(models.SummaryContext{
		CurrentBranch: changes.Current,
		TargetBranch:  changes.Base,
		Commits:       changes.Summaries(),
		Stats:         changes.Stats,
		DiffSummary:   changes.DiffSummary,
		Locale:        s.config.Locale,
	}, custom)
	if err != nil {
		return "", domainErrors.ErrPromptRender.WithError(err)
	}

	choices, err := s.completer.Complete(ctx, ai.SummaryRequest(ai.SummarySystemPrompt(custom), user))
	if err != nil {
		logger.Error(ctx, "branch summary generation failed", err, "branch", changes.Current)
		return "", domainErrors.ErrSummaryFailed.WithError(err)
	}
	if len(choices) == 0 || strings.TrimSpace(choices[0].Content) == "" {
		return "", domainErrors.ErrSummaryFailed
	}
	return strings.TrimSpace(choices[0].Content), nil
}

// Summarize runs Gather and Generate for target.
func (s *SummaryService) Summarize(ctx context.Context, target string) (*BranchChanges, string, error) {
	changes, err := s.Gather(ctx, target)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.Generate(ctx, changes)
	if err != nil {
		return changes, "", err
	}
	return changes, summary, nil
}
