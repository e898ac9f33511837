package services

import (
	"context"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/ai/normalize"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
)

// prVCSClient defines the methods needed by PRService from a VCS provider.
type prVCSClient interface {
	CreatePR(ctx context.Context, head, base string, content models.PRContent, draft bool) (*models.PullRequest, error)
	GetPR(ctx context.Context, number int) (*models.PullRequest, error)
	UpdatePR(ctx context.Context, number int, content models.PRContent) error
	MergePR(ctx context.Context, number int, method, commitTitle string) error
	ListPRs(ctx context.Context, state string, limit int) ([]models.PullRequest, error)
}

// PRDraft is generated PR content plus the range it describes.
type PRDraft struct {
	Changes  *BranchChanges
	Content  models.PRContent
	Fallback bool
}

// PRRevision is a proposed rewrite of an existing pull request.
type PRRevision struct {
	Existing *models.PullRequest
	Content  models.PRContent
	Fallback bool
}

type PRService struct {
	git          branchGit
	vcsClient    prVCSClient
	completer    ai.Completer
	config       *config.Config
	promptLoader PromptLoader
}

type PROption func(*PRService)

func WithPRGit(git branchGit) PROption {
	return func(s *PRService) {
		s.git = git
	}
}

func WithPRVCSClient(vcs prVCSClient) PROption {
	return func(s *PRService) {
		s.vcsClient = vcs
	}
}

func WithPRCompleter(c ai.Completer) PROption {
	return func(s *PRService) {
		s.completer = c
	}
}

func WithPRConfig(cfg *config.Config) PROption {
	return func(s *PRService) {
		s.config = cfg
	}
}

func WithPRPromptLoader(l PromptLoader) PROption {
	return func(s *PRService) {
		s.promptLoader = l
	}
}

func NewPRService(opts ...PROption) *PRService {
	s := &PRService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.promptLoader == nil && s.git != nil {
		s.promptLoader = RepoPromptLoader(s.git)
	}
	return s
}

// Gather collects the commits the PR would contain. It refuses to run from
// the base branch or from main/master.
func (s *PRService) Gather(ctx context.Context, baseOverride string) (*BranchChanges, error) {
	current, base, err := resolveBranches(ctx, s.git, baseOverride)
	if err != nil {
		return nil, err
	}
	if current == base || current == "main" || current == "master" {
		return nil, domainErrors.ErrOnBaseBranch.
			WithMessage("Cannot create PR from %s branch", current).
			WithContext("branch", current)
	}

	changes := collectRange(ctx, s.git, current, base)
	if len(changes.Commits) == 0 {
		return nil, domainErrors.ErrNoCommits.
			WithMessage("No commits found between %s and %s", base, current)
	}
	return changes, nil
}

// Draft generates the PR title and body. A failed completion falls back to
// content built from the commits instead of failing.
func (s *PRService) Draft(ctx context.Context, changes *BranchChanges, issue int) (*PRDraft, error) {
	log := logger.FromContext(ctx)

	if err := s.config.RequireAPIKey(); err != nil {
		return nil, err
	}

	prCtx := models.PRContext{
		BranchName:  changes.Current,
		BaseBranch:  changes.Base,
		Commits:     changes.Summaries(),
		Stats:       changes.Stats,
		Issue:       issue,
		DiffSummary: changes.DiffSummary,
		Locale:      s.config.Locale,
	}

	custom := s.loadPrompt(ctx, ai.PromptPR)
	user, err := ai.PRUserPrompt(prCtx, custom)
	if err != nil {
		return nil, domainErrors.ErrPromptRender.WithError(err)
	}

	raw, err := s.completeOne(ctx, ai.PRRequest(ai.PRSystemPrompt(custom), user))
	if err != nil {
		log.Warn("PR generation failed, using commit-based content", "error", err)
	}

	content := normalize.PRContentWithFallback(raw, prCtx)
	_, parsed := normalize.ParsePRResponse(raw)
	return &PRDraft{Changes: changes, Content: content, Fallback: !parsed}, nil
}

// Create opens the pull request on the hosting service.
func (s *PRService) Create(ctx context.Context, draft *PRDraft, asDraft bool) (*models.PullRequest, error) {
	if s.vcsClient == nil {
		return nil, domainErrors.ErrGHDisabled
	}
	logger.Info(ctx, "creating pull request",
		"head", draft.Changes.Current,
		"base", draft.Changes.Base,
		"draft", asDraft)
	return s.vcsClient.CreatePR(ctx, draft.Changes.Current, draft.Changes.Base, draft.Content, asDraft)
}

// Revise proposes a new title and body for an existing PR following request.
func (s *PRService) Revise(ctx context.Context, number int, request string) (*PRRevision, error) {
	if s.vcsClient == nil {
		return nil, domainErrors.ErrGHDisabled
	}
	if err := s.config.RequireAPIKey(); err != nil {
		return nil, err
	}

	existing, err := s.vcsClient.GetPR(ctx, number)
	if err != nil {
		return nil, err
	}

	// Commit history is only known locally when the PR branch is checked out.
	changes := &BranchChanges{Current: existing.Head, Base: existing.Base}
	if current, err := s.git.CurrentBranch(ctx); err == nil && current == existing.Head {
		changes = collectRange(ctx, s.git, existing.Head, existing.Base)
	}
	prCtx := models.PRContext{
		BranchName:  existing.Head,
		BaseBranch:  existing.Base,
		Commits:     changes.Summaries(),
		Stats:       changes.Stats,
		DiffSummary: changes.DiffSummary,
		Locale:      s.config.Locale,
	}

	user, err := ai.PRUpdatePrompt(*existing, request, prCtx)
	if err != nil {
		return nil, domainErrors.ErrPromptRender.WithError(err)
	}

	raw, err := s.completeOne(ctx, ai.PRUpdateRequest(ai.PRUpdateSystemPrompt, user))
	if err != nil {
		logger.Warn(ctx, "PR update generation failed, keeping current content", "pr", number, "error", err)
	}

	_, parsed := normalize.ParsePRResponse(raw)
	return &PRRevision{
		Existing: existing,
		Content:  normalize.PRUpdateWithFallback(raw, *existing),
		Fallback: !parsed,
	}, nil
}

// Apply writes a revision back to the pull request.
func (s *PRService) Apply(ctx context.Context, number int, content models.PRContent) error {
	if s.vcsClient == nil {
		return domainErrors.ErrGHDisabled
	}
	return s.vcsClient.UpdatePR(ctx, number, content)
}

// Edit revises and applies in one step.
func (s *PRService) Edit(ctx context.Context, number int, request string) (*PRRevision, error) {
	rev, err := s.Revise(ctx, number, request)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(ctx, number, rev.Content); err != nil {
		return nil, err
	}
	return rev, nil
}

// MergeMessage generates the merge commit subject for a PR, falling back to
// the PR title.
func (s *PRService) MergeMessage(ctx context.Context, pr *models.PullRequest) string {
	if s.config.RequireAPIKey() != nil {
		return pr.Title
	}
	user, err := ai.MergeCommitPrompt(pr.Title, pr.Body)
	if err != nil {
		return pr.Title
	}
	raw, err := s.completeOne(ctx, ai.MergeRequest(ai.MergeSystemPrompt, user))
	if err != nil {
		logger.Warn(ctx, "merge message generation failed, using PR title", "pr", pr.Number, "error", err)
	}
	return normalize.MergeMessage(raw, pr.Title)
}

// Merge merges the PR with method, using a generated commit subject.
func (s *PRService) Merge(ctx context.Context, number int, method string) (string, error) {
	if s.vcsClient == nil {
		return "", domainErrors.ErrGHDisabled
	}
	pr, err := s.vcsClient.GetPR(ctx, number)
	if err != nil {
		return "", err
	}
	message := s.MergeMessage(ctx, pr)
	if err := s.vcsClient.MergePR(ctx, number, method, message); err != nil {
		return "", err
	}
	return message, nil
}

func (s *PRService) List(ctx context.Context, state string, limit int) ([]models.PullRequest, error) {
	if s.vcsClient == nil {
		return nil, domainErrors.ErrGHDisabled
	}
	return s.vcsClient.ListPRs(ctx, state, limit)
}

func (s *PRService) completeOne(ctx context.Context, req ai.Request) (string, error) {
	choices, err := s.completer.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if len(choices) == 0 {
		return "", nil
	}
	return choices[0].Content, nil
}

func (s *PRService) loadPrompt(ctx context.Context, kind ai.PromptKind) string {
	if s.promptLoader == nil {
		return ""
	}
	return s.promptLoader(ctx, kind)
}
