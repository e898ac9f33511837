package pull_requests

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *PRCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base",
			Aliases: []string{"b"},
			Usage:   t.GetMessage("pr.flag_base", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "draft",
			Aliases: []string{"d"},
			Usage:   t.GetMessage("pr.flag_draft", 0, nil),
		},
		&cli.IntFlag{
			Name:    "issue",
			Aliases: []string{"i"},
			Usage:   t.GetMessage("pr.flag_issue", 0, nil),
		},
	}
}

func (f *PRCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		base := cmd.String("base")
		asDraft := cmd.Bool("draft")
		issue := int(cmd.Int("issue"))
		logger.Info(ctx, "executing pr command", "base", base, "draft", asDraft, "issue", issue)

		service, err := f.service(ctx, cfg)
		if err != nil {
			return err
		}

		ui.PrintSectionBanner(t.GetMessage("pr.banner", 0, nil))

		spinner := ui.NewSmartSpinner(t.GetMessage("pr.gathering", 0, nil))
		spinner.Start()
		changes, err := service.Gather(ctx, base)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("branch.commits_found", len(changes.Commits), map[string]interface{}{
			"Count":      len(changes.Commits),
			"Files":      changes.Stats.Files,
			"Insertions": changes.Stats.Insertions,
			"Deletions":  changes.Stats.Deletions,
		}))
		ui.PrintKeyValue(t.GetMessage("summary.branch_label", 0, nil), changes.Current+" → "+changes.Base)

		spinner = ui.NewSmartSpinner(t.GetMessage("pr.generating", 0, nil))
		spinner.Start()
		draft, err := service.Draft(ctx, changes, issue)
		if err != nil {
			spinner.Stop()
			return err
		}
		if draft.Fallback {
			spinner.Warning(t.GetMessage("pr.fallback", 0, nil))
		} else {
			spinner.Success(t.GetMessage("pr.generated", 0, nil))
		}

		title, err := ui.PromptText(t.GetMessage("pr.title_prompt", 0, nil), draft.Content.Title)
		if err != nil {
			return err
		}
		if title = strings.TrimSpace(title); title == "" {
			ui.PrintWarning(t.GetMessage("pr.cancelled", 0, nil))
			return nil
		}
		draft.Content.Title = title

		_, _ = fmt.Fprintf(ui.Out, "\n%s\n%s\n", ui.Info.Sprint(t.GetMessage("pr.body_label", 0, nil)), draft.Content.Body)
		if ui.AskConfirmation(t.GetMessage("pr.edit_body", 0, nil)) {
			body, err := ui.EditText(draft.Content.Body, "dash-pr-*.md")
			if err != nil {
				return err
			}
			draft.Content.Body = body
		}

		question := t.GetMessage("pr.confirm_create", 0, map[string]interface{}{"Title": title, "Base": changes.Base})
		if asDraft {
			question = t.GetMessage("pr.confirm_create_draft", 0, map[string]interface{}{"Title": title, "Base": changes.Base})
		}
		if !ui.AskConfirmation(question) {
			ui.PrintWarning(t.GetMessage("pr.cancelled", 0, nil))
			return nil
		}

		spinner = ui.NewSmartSpinner(t.GetMessage("pr.creating", 0, nil))
		spinner.Start()
		pr, err := service.Create(ctx, draft, asDraft)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("pr.created", 0, map[string]interface{}{"URL": pr.URL}))
		return nil
	}
}
