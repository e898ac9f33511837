package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/dash/internal/commands/commit"
	configcmd "github.com/thomas-vilte/dash/internal/commands/config"
	"github.com/thomas-vilte/dash/internal/commands/hook"
	"github.com/thomas-vilte/dash/internal/commands/issues"
	"github.com/thomas-vilte/dash/internal/commands/model"
	"github.com/thomas-vilte/dash/internal/commands/pull_requests"
	"github.com/thomas-vilte/dash/internal/commands/registry"
	"github.com/thomas-vilte/dash/internal/commands/summary"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/di"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/thomas-vilte/dash/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, t, err := initializeApp()
	if err != nil {
		ui.HandleAppError(err, t, version.Version)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(err, t, version.Version)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return nil, nil, fmt.Errorf("error loading .env: %w", err)
	}
	env, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading environment: %w", err)
	}
	path, err := env.Path()
	if err != nil {
		return nil, nil, err
	}

	// Invalid values fall back to defaults here; each command re-validates
	// strictly before using them.
	cfg, err := config.Load(path, env.Overrides(), true)
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfg.Locale)
	if err != nil {
		return nil, nil, err
	}

	container := di.NewContainer()
	gitService := container.GitService()

	commitProvider := func(cfg *config.Config) commit.CommitService {
		return container.CommitService(cfg)
	}
	hookProvider := func(cfg *config.Config) hook.CommitService {
		return container.CommitService(cfg)
	}
	prProvider := func(ctx context.Context, cfg *config.Config) (pull_requests.PRService, error) {
		return container.PRService(ctx, cfg)
	}
	summaryProvider := func(cfg *config.Config) summary.SummaryService {
		return container.SummaryService(cfg)
	}
	issueProvider := func(ctx context.Context, cfg *config.Config, remote bool) (issues.IssueService, error) {
		return container.IssueService(ctx, cfg, remote)
	}

	reg := registry.NewRegistry(cfg, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"commit", commit.NewCommitCommandFactory(commitProvider, gitService)},
		{"pr", pull_requests.NewPRCommandFactory(prProvider)},
		{"summary", summary.NewSummaryCommandFactory(summaryProvider)},
		{"issue", issues.NewIssuesCommandFactory(issueProvider, container.IssueTemplateService())},
		{"hook", hook.NewHookCommandFactory(gitService)},
		{hook.HookName, hook.NewPrepareCommitMsgFactory(hookProvider)},
		{"model", model.NewModelCommandFactory()},
		{"config", configcmd.NewConfigCommandFactory()},
		{"setup", configcmd.NewSetupCommandFactory(container.GHCLI())},
	}
	for _, f := range factories {
		if err := reg.Register(f.name, f.factory); err != nil {
			return nil, translations, err
		}
	}

	return &cli.Command{
		Name:                  "dash",
		Usage:                 translations.GetMessage("app.usage", 0, nil),
		Description:           translations.GetMessage("app.description", 0, nil),
		Version:               version.Version,
		Commands:              reg.CreateCommands(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("app.flag_debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("app.flag_verbose", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			l := logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return logger.WithLogger(ctx, l), nil
		},
	}, translations, nil
}
