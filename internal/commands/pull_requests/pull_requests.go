package pull_requests

import (
	"context"
	"strconv"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/services"
	"github.com/urfave/cli/v3"
)

// PRService is the part of services.PRService the pr commands drive.
type PRService interface {
	Gather(ctx context.Context, baseOverride string) (*services.BranchChanges, error)
	Draft(ctx context.Context, changes *services.BranchChanges, issue int) (*services.PRDraft, error)
	Create(ctx context.Context, draft *services.PRDraft, asDraft bool) (*models.PullRequest, error)
	Revise(ctx context.Context, number int, request string) (*services.PRRevision, error)
	Apply(ctx context.Context, number int, content models.PRContent) error
	Merge(ctx context.Context, number int, method string) (string, error)
	List(ctx context.Context, state string, limit int) ([]models.PullRequest, error)
}

// ServiceProvider resolves the GitHub client lazily, so a disabled or
// unauthenticated gh only fails the commands that need it.
type ServiceProvider func(ctx context.Context, cfg *config.Config) (PRService, error)

type PRCommandFactory struct {
	provider ServiceProvider
}

func NewPRCommandFactory(provider ServiceProvider) *PRCommandFactory {
	return &PRCommandFactory{provider: provider}
}

// CreateCommand builds `dash pr`, which creates a PR, plus its edit, merge
// and list subcommands.
func (f *PRCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "pr",
		Usage:         t.GetMessage("pr.usage", 0, nil),
		Description:   t.GetMessage("pr.description", 0, nil),
		Flags:         f.createFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t, cfg),
		Commands: []*cli.Command{
			f.newEditCommand(t, cfg),
			f.newMergeCommand(t, cfg),
			f.newListCommand(t, cfg),
		},
	}
}

func (f *PRCommandFactory) service(ctx context.Context, cfg *config.Config) (PRService, error) {
	effective, err := cfg.Strict(nil)
	if err != nil {
		return nil, err
	}
	return f.provider(ctx, effective)
}

func prNumber(cmd *cli.Command) (int, error) {
	n, err := strconv.Atoi(cmd.Args().First())
	if err != nil || n <= 0 {
		return 0, domainErrors.ErrInvalidPRNumber.WithContext("arg", cmd.Args().First())
	}
	return n, nil
}
