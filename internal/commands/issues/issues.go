package issues

import (
	"context"

	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/urfave/cli/v3"
)

// IssueService is the part of services.IssueService the issue commands use.
type IssueService interface {
	List(ctx context.Context, state string, limit int) ([]models.Issue, error)
	Draft(ctx context.Context, description string, tmpl *models.IssueTemplate) (models.IssueDraft, error)
	Create(ctx context.Context, draft models.IssueDraft) (*models.Issue, error)
}

type TemplateService interface {
	ListTemplates(ctx context.Context) ([]*models.IssueTemplate, error)
	GetTemplate(ctx context.Context, name string) (*models.IssueTemplate, error)
}

// ServiceProvider builds the issue service. With remote false the GitHub
// client is skipped, which is enough for dry runs.
type ServiceProvider func(ctx context.Context, cfg *config.Config, remote bool) (IssueService, error)

// IssuesCommandFactory is the factory to create the issue command.
type IssuesCommandFactory struct {
	provider  ServiceProvider
	templates TemplateService
}

func NewIssuesCommandFactory(provider ServiceProvider, templates TemplateService) *IssuesCommandFactory {
	return &IssuesCommandFactory{provider: provider, templates: templates}
}

// CreateCommand creates the issue command with its subcommands.
func (f *IssuesCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "issue",
		Aliases: []string{"i"},
		Usage:   t.GetMessage("issue.usage", 0, nil),
		Commands: []*cli.Command{
			f.newListCommand(t, cfg),
			f.newCreateCommand(t, cfg),
			f.newTemplatesCommand(t),
		},
	}
}

func (f *IssuesCommandFactory) service(ctx context.Context, cfg *config.Config, remote bool) (IssueService, error) {
	effective, err := cfg.Strict(nil)
	if err != nil {
		return nil, err
	}
	return f.provider(ctx, effective, remote)
}
