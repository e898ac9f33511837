package services

import (
	"context"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/ai/normalize"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/digest"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
)

// commitGit defines the methods needed by CommitService from the repository.
type commitGit interface {
	AssertRepo(ctx context.Context) (string, error)
	StageTracked(ctx context.Context) error
	StagedDiff(ctx context.Context, excludes []string) (*models.StagedDiff, error)
	DiffSummary(ctx context.Context, excludes []string) (*models.DiffSummary, error)
	StagedFileDiff(ctx context.Context, file string) (string, error)
}

// stagedSource feeds the snippet extractor from the index.
type stagedSource struct {
	git commitGit
}

func (s stagedSource) FileDiff(ctx context.Context, file string) (string, error) {
	return s.git.StagedFileDiff(ctx, file)
}

type CommitOptions struct {
	Excludes []string
	StageAll bool
}

// StagedChanges is what the commit flow collected before asking the model.
type StagedChanges struct {
	Diff     *models.StagedDiff
	Summary  *models.DiffSummary
	Analysis digest.Analysis
}

func (c *StagedChanges) Files() []string {
	if c == nil || c.Diff == nil {
		return nil
	}
	return c.Diff.Files
}

type CommitService struct {
	git          commitGit
	completer    ai.Completer
	config       *config.Config
	promptLoader PromptLoader
	thresholds   digest.Thresholds
}

type CommitOption func(*CommitService)

func WithCommitGit(git commitGit) CommitOption {
	return func(s *CommitService) {
		s.git = git
	}
}

func WithCommitCompleter(c ai.Completer) CommitOption {
	return func(s *CommitService) {
		s.completer = c
	}
}

func WithCommitConfig(cfg *config.Config) CommitOption {
	return func(s *CommitService) {
		s.config = cfg
	}
}

func WithCommitPromptLoader(l PromptLoader) CommitOption {
	return func(s *CommitService) {
		s.promptLoader = l
	}
}

func NewCommitService(opts ...CommitOption) *CommitService {
	s := &CommitService{thresholds: digest.DefaultThresholds}
	for _, opt := range opts {
		opt(s)
	}
	if s.promptLoader == nil && s.git != nil {
		s.promptLoader = RepoPromptLoader(s.git)
	}
	return s
}

// Collect gathers the staged change set. Nothing staged is ErrNoChanges.
func (s *CommitService) Collect(ctx context.Context, opts CommitOptions) (*StagedChanges, error) {
	log := logger.FromContext(ctx)

	if _, err := s.git.AssertRepo(ctx); err != nil {
		return nil, err
	}

	if opts.StageAll {
		if err := s.git.StageTracked(ctx); err != nil {
			return nil, err
		}
	}

	staged, err := s.git.StagedDiff(ctx, opts.Excludes)
	if err != nil {
		return nil, err
	}
	if staged == nil {
		return nil, domainErrors.ErrNoChanges
	}

	summary, err := s.git.DiffSummary(ctx, opts.Excludes)
	if err != nil {
		log.Debug("diff summary unavailable", "error", err)
		summary = nil
	}

	analysis := digest.Analyze(len(staged.Diff), summary, s.thresholds)
	log.Info("staged changes collected",
		"files", len(staged.Files),
		"diff_bytes", len(staged.Diff),
		"enhanced", analysis.Enhanced,
		"reason", analysis.Reason)

	return &StagedChanges{Diff: staged, Summary: summary, Analysis: analysis}, nil
}

// Generate asks the model for commit subjects describing changes.
func (s *CommitService) Generate(ctx context.Context, changes *StagedChanges) ([]string, error) {
	log := logger.FromContext(ctx)

	if err := s.config.RequireAPIKey(); err != nil {
		return nil, err
	}

	compact := digest.FileList(changes.Files())
	if changes.Summary != nil && len(changes.Summary.Stats) > 0 {
		compact = digest.Compact(changes.Summary, digest.CommitMaxFiles)
	}

	extractor := digest.NewSnippetExtractor(stagedSource{git: s.git})
	snippets := extractor.Extract(ctx, changes.Files(), digest.CommitSnippetLines, digest.CommitSnippetChars)

	system, err := ai.CommitSystemPrompt(s.config.Locale, s.config.MaxLength, string(s.config.Type))
	if err != nil {
		return nil, domainErrors.ErrPromptRender.WithError(err)
	}
	user, err := ai.CommitUserPrompt(compact, snippets, s.config.MaxLength, s.loadPrompt(ctx, ai.PromptCommit))
	if err != nil {
		return nil, domainErrors.ErrPromptRender.WithError(err)
	}

	choices, err := s.completer.Complete(ctx, ai.CommitRequest(system, user, s.config.MaxLength, s.config.Generate))
	if err != nil {
		return nil, err
	}

	messages := normalize.Candidates(choices, s.config.MaxLength)
	log.Debug("commit candidates normalized", "choices", len(choices), "messages", len(messages))
	if len(messages) == 0 {
		return nil, domainErrors.ErrNoMessages
	}
	return messages, nil
}

// Suggest runs Collect and Generate back to back.
func (s *CommitService) Suggest(ctx context.Context, opts CommitOptions) (*StagedChanges, []string, error) {
	changes, err := s.Collect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.Generate(ctx, changes)
	if err != nil {
		return changes, nil, err
	}
	return changes, messages, nil
}

func (s *CommitService) loadPrompt(ctx context.Context, kind ai.PromptKind) string {
	if s.promptLoader == nil {
		return ""
	}
	return s.promptLoader(ctx, kind)
}
