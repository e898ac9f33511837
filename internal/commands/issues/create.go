package issues

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *IssuesCommandFactory) newCreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "create",
		Aliases: []string{"new"},
		Usage:   t.GetMessage("issue.create_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   t.GetMessage("issue.flag_description", 0, nil),
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("issue.flag_template", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: t.GetMessage("issue.flag_dry_run", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t, cfg),
	}
}

func (f *IssuesCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		description := strings.TrimSpace(cmd.String("description"))
		templateName := cmd.String("template")
		dryRun := cmd.Bool("dry-run")
		logger.Info(ctx, "executing issue create command",
			"template", templateName,
			"dry_run", dryRun,
			"has_description", description != "")

		service, err := f.service(ctx, cfg, !dryRun)
		if err != nil {
			return err
		}

		var tmpl *models.IssueTemplate
		if templateName != "" {
			if tmpl, err = f.templates.GetTemplate(ctx, templateName); err != nil {
				return err
			}
			ui.PrintInfo(t.GetMessage("issue.using_template", 0, map[string]interface{}{"Name": tmpl.Name}))
		}

		if description == "" {
			if description, err = ui.PromptText(t.GetMessage("issue.description_prompt", 0, nil), ""); err != nil {
				return err
			}
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("issue.generating", 0, nil))
		spinner.Start()
		draft, err := service.Draft(ctx, description, tmpl)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("issue.generated", 0, nil))

		printDraft(t, draft)
		if dryRun {
			ui.PrintInfo(t.GetMessage("issue.dry_run", 0, nil))
			return nil
		}

		if !ui.AskConfirmation(t.GetMessage("issue.confirm_create", 0, nil)) {
			ui.PrintWarning(t.GetMessage("issue.cancelled", 0, nil))
			return nil
		}

		issue, err := service.Create(ctx, draft)
		if err != nil {
			return err
		}
		ui.PrintSuccess(t.GetMessage("issue.created", 0, map[string]interface{}{
			"Number": issue.Number,
			"URL":    issue.URL,
		}))
		return nil
	}
}

func printDraft(t *i18n.Translations, draft models.IssueDraft) {
	ui.PrintKeyValue(t.GetMessage("issue.title_label", 0, nil), draft.Title)
	if len(draft.Labels) > 0 {
		ui.PrintKeyValue(t.GetMessage("issue.labels_label", 0, nil), strings.Join(draft.Labels, ", "))
	}
	_, _ = fmt.Fprintln(ui.Out)
	ui.PrintRule()
	_, _ = fmt.Fprintln(ui.Out, draft.Body)
	ui.PrintRule()
}
