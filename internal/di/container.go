package di

import (
	"context"
	"sync"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/ai/groq"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/git"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/services"
	"github.com/thomas-vilte/dash/internal/vcs"
	"github.com/thomas-vilte/dash/internal/vcs/github"
)

// CompleterFactory builds a completion client from a validated config.
type CompleterFactory func(cfg *config.Config) (ai.Completer, error)

// VCSFactory builds a hosting-service client for owner/repo.
type VCSFactory func(owner, repo, token string) vcs.VCSClient

// Container wires services on demand. Nothing touches the network or
// spawns gh until a command asks for a service that needs it.
type Container struct {
	git          *git.GitService
	gh           *github.CLI
	newCompleter CompleterFactory
	newVCS       VCSFactory
}

type Option func(*Container)

func WithGitService(g *git.GitService) Option {
	return func(c *Container) {
		c.git = g
	}
}

func WithGHCLI(gh *github.CLI) Option {
	return func(c *Container) {
		c.gh = gh
	}
}

func WithCompleterFactory(f CompleterFactory) Option {
	return func(c *Container) {
		c.newCompleter = f
	}
}

func WithVCSFactory(f VCSFactory) Option {
	return func(c *Container) {
		c.newVCS = f
	}
}

func NewContainer(opts ...Option) *Container {
	c := &Container{
		newCompleter: func(cfg *config.Config) (ai.Completer, error) {
			return groq.NewClient(groq.OptionsFromConfig(cfg))
		},
		newVCS: func(owner, repo, token string) vcs.VCSClient {
			return github.NewGitHubClient(owner, repo, token)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.git == nil {
		c.git = git.NewGitService()
	}
	if c.gh == nil {
		c.gh = github.NewCLI(nil)
	}
	return c
}

func (c *Container) GitService() *git.GitService {
	return c.git
}

func (c *Container) GHCLI() *github.CLI {
	return c.gh
}

// Completer defers client construction to the first Complete call, after
// the services have already checked that an API key is present. Every call
// is timed and logged under command.
func (c *Container) Completer(cfg *config.Config, command string) ai.Completer {
	return ai.NewTrackedCompleter(&lazyCompleter{cfg: cfg, build: c.newCompleter}, cfg.Model, ai.WithCommand(command))
}

// VCSClient resolves the token and the owner/repo of the current remote.
func (c *Container) VCSClient(ctx context.Context, cfg *config.Config) (vcs.VCSClient, error) {
	if !cfg.GHEnabled {
		return nil, domainErrors.ErrGHDisabled
	}

	owner, repo, err := c.git.RepoOwnerAndName(ctx)
	if err != nil {
		return nil, err
	}

	token, err := c.gh.Token(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "github client ready", "owner", owner, "repo", repo)
	return c.newVCS(owner, repo, token), nil
}

func (c *Container) CommitService(cfg *config.Config) *services.CommitService {
	return services.NewCommitService(
		services.WithCommitGit(c.git),
		services.WithCommitCompleter(c.Completer(cfg, "commit")),
		services.WithCommitConfig(cfg),
	)
}

func (c *Container) PRService(ctx context.Context, cfg *config.Config) (*services.PRService, error) {
	client, err := c.VCSClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return services.NewPRService(
		services.WithPRGit(c.git),
		services.WithPRVCSClient(client),
		services.WithPRCompleter(c.Completer(cfg, "pr")),
		services.WithPRConfig(cfg),
	), nil
}

func (c *Container) SummaryService(cfg *config.Config) *services.SummaryService {
	return services.NewSummaryService(
		services.WithSummaryGit(c.git),
		services.WithSummaryCompleter(c.Completer(cfg, "summary")),
		services.WithSummaryConfig(cfg),
	)
}

// IssueService attaches the GitHub client only when remote is set; drafting
// alone works with GitHub features disabled.
func (c *Container) IssueService(ctx context.Context, cfg *config.Config, remote bool) (*services.IssueService, error) {
	opts := []services.IssueOption{
		services.WithIssueCompleter(c.Completer(cfg, "issue")),
		services.WithIssueConfig(cfg),
	}
	if remote {
		client, err := c.VCSClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithIssueVCSClient(client))
	}
	return services.NewIssueService(opts...), nil
}

func (c *Container) IssueTemplateService() *services.IssueTemplateService {
	return services.NewIssueTemplateService(services.WithTemplateRepo(c.git))
}

type lazyCompleter struct {
	cfg   *config.Config
	build CompleterFactory

	once   sync.Once
	client ai.Completer
	err    error
}

func (l *lazyCompleter) Complete(ctx context.Context, req ai.Request) ([]ai.Choice, error) {
	l.once.Do(func() {
		l.client, l.err = l.build(l.cfg)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.client.Complete(ctx, req)
}
