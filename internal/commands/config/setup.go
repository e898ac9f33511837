package config

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	ghInstallURL = "https://cli.github.com/"
	groqKeysURL  = "https://console.groq.com/keys"
)

// GHChecker reports the state of the local GitHub CLI.
type GHChecker interface {
	Installed(ctx context.Context) bool
	Authenticated(ctx context.Context) bool
}

// SetupCommandFactory builds `dash setup`, which checks gh and records
// whether GitHub features are enabled.
type SetupCommandFactory struct {
	gh GHChecker
}

func NewSetupCommandFactory(gh GHChecker) *SetupCommandFactory {
	return &SetupCommandFactory{gh: gh}
}

func (s *SetupCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: t.GetMessage("setup.usage", 0, nil),
		Action: func(ctx context.Context, _ *cli.Command) error {
			return s.run(ctx, t, cfg)
		},
	}
}

func (s *SetupCommandFactory) run(ctx context.Context, t *i18n.Translations, cfg *config.Config) error {
	path, err := FilePath(cfg)
	if err != nil {
		return err
	}
	ui.PrintSectionBanner(t.GetMessage("setup.banner", 0, nil))

	if !s.gh.Installed(ctx) {
		ui.PrintWarning(t.GetMessage("setup.gh_missing", 0, nil))
		_, _ = fmt.Fprintf(ui.Out, "   %s\n   %s\n", ui.Dim.Sprint(t.GetMessage("setup.gh_features", 0, nil)), ui.Info.Sprint(ghInstallURL))

		if !ui.AskConfirmation(t.GetMessage("setup.continue_without_gh", 0, nil)) {
			ui.PrintWarning(t.GetMessage("setup.cancelled_install", 0, nil))
			return nil
		}
		if err := config.Set(path, [][2]string{{config.KeyGHEnabled, "false"}}); err != nil {
			return err
		}
		ui.PrintSuccess(t.GetMessage("setup.done_without_gh", 0, nil))
		return nil
	}
	ui.PrintSuccess(t.GetMessage("setup.gh_installed", 0, nil))

	if s.gh.Authenticated(ctx) {
		ui.PrintSuccess(t.GetMessage("setup.gh_authenticated", 0, nil))
	} else {
		ui.PrintWarning(t.GetMessage("setup.gh_not_authenticated", 0, nil))
		if !ui.AskConfirmation(t.GetMessage("setup.continue_unauthenticated", 0, nil)) {
			ui.PrintWarning(t.GetMessage("setup.cancelled_auth", 0, nil))
			return nil
		}
	}

	enable := ui.AskConfirmation(t.GetMessage("setup.enable_gh", 0, nil))
	if err := config.Set(path, [][2]string{{config.KeyGHEnabled, fmt.Sprint(enable)}}); err != nil {
		return err
	}
	logger.Info(ctx, "setup finished", "gh_enabled", enable, "path", path)

	current, err := config.Load(path, nil, true)
	if err != nil {
		return err
	}
	hasKey := current.APIKey != "" || cfg.APIKey != ""
	if !hasKey {
		ui.PrintWarning(t.GetMessage("setup.api_key_missing", 0, nil))
		_, _ = fmt.Fprintf(ui.Out, "   %s\n", ui.Info.Sprint(groqKeysURL))
		_, _ = fmt.Fprintf(ui.Out, "   %s\n", ui.Dim.Sprint("dash config set GROQ_API_KEY=gsk_..."))
	}

	_, _ = fmt.Fprintln(ui.Out)
	ui.PrintKeyValue(t.GetMessage("setup.gh_features_label", 0, nil), status(t, enable, "setup.enabled", "setup.disabled"))
	ui.PrintKeyValue(t.GetMessage("setup.api_key_label", 0, nil), status(t, hasKey, "setup.configured", "setup.not_set"))
	ui.PrintSuccess(t.GetMessage("setup.complete", 0, nil))
	return nil
}

func status(t *i18n.Translations, ok bool, yes, no string) string {
	if ok {
		return t.GetMessage(yes, 0, nil)
	}
	return t.GetMessage(no, 0, nil)
}
