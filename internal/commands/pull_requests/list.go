package pull_requests

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/thomas-vilte/dash/internal/vcs"
	"github.com/urfave/cli/v3"
)

func (f *PRCommandFactory) newListCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: t.GetMessage("pr.list_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Aliases: []string{"s"},
				Value:   vcs.StateOpen,
				Usage:   t.GetMessage("flag.state", 0, nil),
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Value:   20,
				Usage:   t.GetMessage("flag.limit", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.listAction(t, cfg),
	}
}

func (f *PRCommandFactory) listAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		service, err := f.service(ctx, cfg)
		if err != nil {
			return err
		}

		prs, err := service.List(ctx, cmd.String("state"), int(cmd.Int("limit")))
		if err != nil {
			return err
		}
		if len(prs) == 0 {
			ui.PrintInfo(t.GetMessage("pr.none_found", 0, nil))
			return nil
		}

		for _, pr := range prs {
			_, _ = fmt.Fprintf(ui.Out, "%s %s\n", ui.Accent.Sprintf("#%d", pr.Number), pr.Title)
			_, _ = fmt.Fprintf(ui.Out, "   %s\n", ui.Dim.Sprintf("%s → %s • %s", pr.Head, pr.Base, pr.State))
			_, _ = fmt.Fprintf(ui.Out, "   %s\n", ui.Dim.Sprint(pr.URL))
		}
		return nil
	}
}
