package issues

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/thomas-vilte/dash/internal/vcs"
	"github.com/urfave/cli/v3"
)

func (f *IssuesCommandFactory) newListCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("issue.list_usage", 0, nil),
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

func (f *IssuesCommandFactory) listAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		state := cmd.String("state")
		limit := int(cmd.Int("limit"))
		logger.Info(ctx, "executing issue list command", "state", state, "limit", limit)

		service, err := f.service(ctx, cfg, true)
		if err != nil {
			return err
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("issue.fetching", 0, nil))
		spinner.Start()
		issues, err := service.List(ctx, state, limit)
		spinner.Stop()
		if err != nil {
			return err
		}

		if len(issues) == 0 {
			ui.PrintInfo(t.GetMessage("issue.none_found", 0, map[string]interface{}{"State": state}))
			return nil
		}

		now := time.Now()
		for _, issue := range issues {
			printIssue(issue, now)
		}
		return nil
	}
}

func printIssue(issue models.Issue, now time.Time) {
	line := ui.Accent.Sprintf("#%d", issue.Number) + " " + issue.Title
	if len(issue.Labels) > 0 {
		names := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			names = append(names, l.Name)
		}
		line += " " + ui.Dim.Sprintf("[%s]", strings.Join(names, ", "))
	}
	_, _ = fmt.Fprintln(ui.Out, line)

	meta := "by " + issue.Author
	if !issue.UpdatedAt.IsZero() {
		meta += " • " + ui.RelativeTime(issue.UpdatedAt, now)
	}
	_, _ = fmt.Fprintf(ui.Out, "   %s\n", ui.Dim.Sprint(meta))
	_, _ = fmt.Fprintf(ui.Out, "   %s\n", ui.Dim.Sprint(issue.URL))
}
