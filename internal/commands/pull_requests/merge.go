package pull_requests

import (
	"context"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *PRCommandFactory) newMergeCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     t.GetMessage("pr.merge_usage", 0, nil),
		ArgsUsage: "<number>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Value:   "merge",
				Usage:   t.GetMessage("pr.flag_method", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   t.GetMessage("pr.flag_yes", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.mergeAction(t, cfg),
	}
}

func (f *PRCommandFactory) mergeAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		number, err := prNumber(cmd)
		if err != nil {
			return err
		}
		method := cmd.String("method")
		logger.Info(ctx, "executing pr merge command", "pr_number", number, "method", method)

		service, err := f.service(ctx, cfg)
		if err != nil {
			return err
		}

		question := t.GetMessage("pr.confirm_merge", 0, map[string]interface{}{"Number": number, "Method": method})
		if !cmd.Bool("yes") && !ui.AskConfirmation(question) {
			ui.PrintWarning(t.GetMessage("pr.cancelled", 0, nil))
			return nil
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("pr.merging", 0, map[string]interface{}{"Number": number}))
		spinner.Start()
		message, err := service.Merge(ctx, number, method)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("pr.merged", 0, map[string]interface{}{"Number": number}))
		ui.PrintKeyValue(t.GetMessage("pr.merge_message_label", 0, nil), message)
		return nil
	}
}
