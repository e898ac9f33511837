package pull_requests

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *PRCommandFactory) newEditCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     t.GetMessage("pr.edit_usage", 0, nil),
		ArgsUsage: "<number>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "request",
				Aliases: []string{"r"},
				Usage:   t.GetMessage("pr.flag_request", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   t.GetMessage("pr.flag_yes", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.editAction(t, cfg),
	}
}

func (f *PRCommandFactory) editAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		number, err := prNumber(cmd)
		if err != nil {
			return err
		}
		request := strings.TrimSpace(cmd.String("request"))
		logger.Info(ctx, "executing pr edit command", "pr_number", number, "has_request", request != "")

		service, err := f.service(ctx, cfg)
		if err != nil {
			return err
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("pr.revising", 0, map[string]interface{}{"Number": number}))
		spinner.Start()
		revision, err := service.Revise(ctx, number, request)
		if err != nil {
			spinner.Stop()
			return err
		}
		if revision.Fallback {
			spinner.Warning(t.GetMessage("pr.revision_fallback", 0, nil))
			return nil
		}
		spinner.Success(t.GetMessage("pr.revised", 0, nil))

		ui.PrintKeyValue(t.GetMessage("pr.title_label", 0, nil), revision.Content.Title)
		_, _ = fmt.Fprintf(ui.Out, "\n%s\n%s\n", ui.Info.Sprint(t.GetMessage("pr.body_label", 0, nil)), revision.Content.Body)

		if !cmd.Bool("yes") && !ui.AskConfirmation(t.GetMessage("pr.confirm_update", 0, map[string]interface{}{"Number": number})) {
			ui.PrintWarning(t.GetMessage("pr.cancelled", 0, nil))
			return nil
		}

		if err := service.Apply(ctx, number, revision.Content); err != nil {
			return err
		}
		ui.PrintSuccess(t.GetMessage("pr.updated", 0, map[string]interface{}{"URL": revision.Existing.URL}))
		return nil
	}
}
