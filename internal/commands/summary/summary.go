package summary

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/services"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

type SummaryService interface {
	Gather(ctx context.Context, target string) (*services.BranchChanges, error)
	Generate(ctx context.Context, changes *services.BranchChanges) (string, error)
}

type ServiceProvider func(cfg *config.Config) SummaryService

type SummaryCommandFactory struct {
	provider ServiceProvider
}

func NewSummaryCommandFactory(provider ServiceProvider) *SummaryCommandFactory {
	return &SummaryCommandFactory{provider: provider}
}

func (f *SummaryCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "summary",
		Usage:         t.GetMessage("summary.usage", 0, nil),
		ArgsUsage:     "[branch]",
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t, cfg),
	}
}

func (f *SummaryCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		target := cmd.Args().First()
		logger.Info(ctx, "executing summary command", "target", target)

		effective, err := cfg.Strict(nil)
		if err != nil {
			return err
		}
		service := f.provider(effective)

		ui.PrintSectionBanner(t.GetMessage("summary.banner", 0, nil))

		spinner := ui.NewSmartSpinner(t.GetMessage("summary.gathering", 0, nil))
		spinner.Start()
		changes, err := service.Gather(ctx, target)
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

		spinner = ui.NewSmartSpinner(t.GetMessage("summary.generating", 0, nil))
		spinner.Start()
		text, err := service.Generate(ctx, changes)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("summary.generated", 0, nil))

		_, _ = fmt.Fprintln(ui.Out)
		ui.PrintKeyValue(t.GetMessage("summary.branch_label", 0, nil), changes.Current+" → "+changes.Base)
		ui.PrintKeyValue(t.GetMessage("summary.stats_label", 0, nil), fmt.Sprintf("%d files, +%d -%d",
			changes.Stats.Files, changes.Stats.Insertions, changes.Stats.Deletions))
		ui.PrintKeyValue(t.GetMessage("summary.commits_label", 0, nil), fmt.Sprintf("%d", len(changes.Commits)))
		_, _ = fmt.Fprintln(ui.Out)
		ui.PrintRule()
		_, _ = fmt.Fprintf(ui.Out, "\n%s\n\n", text)
		ui.PrintRule()
		ui.PrintSuccess(t.GetMessage("summary.complete", 0, nil))
		return nil
	}
}
