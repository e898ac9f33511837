package commit

import (
	"context"
	"strconv"
	"strings"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/digest"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/services"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

// CommitService is the part of services.CommitService the command drives.
type CommitService interface {
	Collect(ctx context.Context, opts services.CommitOptions) (*services.StagedChanges, error)
	Generate(ctx context.Context, changes *services.StagedChanges) ([]string, error)
}

type Committer interface {
	Commit(ctx context.Context, message string, extra ...string) error
}

// ServiceProvider builds the service once the flags have been validated.
type ServiceProvider func(cfg *config.Config) CommitService

// Editor returns the final message; initial is the suggested one.
type Editor func(question, initial string) (string, error)

type CommitCommandFactory struct {
	provider  ServiceProvider
	committer Committer
	edit      Editor
}

func NewCommitCommandFactory(provider ServiceProvider, committer Committer) *CommitCommandFactory {
	return &CommitCommandFactory{
		provider:  provider,
		committer: committer,
		edit:      ui.PromptText,
	}
}

func (f *CommitCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "commit",
		Aliases:       []string{"c"},
		Usage:         t.GetMessage("commit.usage", 0, nil),
		Description:   t.GetMessage("commit.description", 0, nil),
		ArgsUsage:     "[-- <git commit flags>]",
		Flags:         f.createFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t, cfg),
	}
}

func (f *CommitCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   t.GetMessage("commit.flag_generate", 0, nil),
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"x"},
			Usage:   t.GetMessage("commit.flag_exclude", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   t.GetMessage("commit.flag_all", 0, nil),
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   t.GetMessage("commit.flag_type", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "editor",
			Aliases: []string{"e"},
			Usage:   t.GetMessage("commit.flag_editor", 0, nil),
		},
	}
}

// Overrides maps the command flags onto config keys. Unset flags are left
// out so the file and environment values apply.
func Overrides(cmd *cli.Command) config.Raw {
	raw := config.Raw{}
	if cmd.IsSet("generate") {
		raw[config.KeyGenerate] = strconv.FormatInt(int64(cmd.Int("generate")), 10)
	}
	if cmd.IsSet("type") {
		raw[config.KeyType] = cmd.String("type")
	}
	return raw
}

func (f *CommitCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log := logger.FromContext(ctx)

		effective, err := cfg.Strict(Overrides(cmd))
		if err != nil {
			return err
		}

		opts := services.CommitOptions{
			Excludes: cmd.StringSlice("exclude"),
			StageAll: cmd.Bool("all"),
		}
		extra := cmd.Args().Slice()

		log.Info("executing commit command",
			"generate", effective.Generate,
			"type", effective.Type,
			"excludes", len(opts.Excludes),
			"stage_all", opts.StageAll,
			"extra_args", extra)

		ui.PrintSectionBanner(t.GetMessage("commit.banner", 0, nil))
		service := f.provider(effective)

		spinner := ui.NewSmartSpinner(t.GetMessage("commit.detecting_files", 0, nil))
		spinner.Start()
		changes, err := service.Collect(ctx, opts)
		spinner.Stop()
		if err != nil {
			return err
		}

		files := changes.Files()
		var stats []models.FileChangeStat
		if changes.Summary != nil {
			stats = changes.Summary.Stats
		}
		ui.ShowFilesTree(t.GetMessage("commit.detected_files", len(files), map[string]interface{}{"Count": len(files)}), files, stats)
		if changes.Analysis.Enhanced {
			ui.PrintInfo(t.GetMessage("commit.enhanced_analysis", 0, map[string]interface{}{
				"Reason": reasonMessage(t, changes.Analysis.Reason),
			}))
		}

		spinner = ui.NewSmartSpinner(t.GetMessage("commit.analyzing", 0, nil))
		spinner.Start()
		messages, err := service.Generate(ctx, changes)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("commit.analyzed", 0, nil))

		message, err := f.choose(t, messages, cmd.Bool("editor"))
		if err != nil {
			return err
		}
		if message == "" {
			ui.PrintWarning(t.GetMessage("commit.cancelled", 0, nil))
			return nil
		}

		if err := f.committer.Commit(ctx, message, extra...); err != nil {
			return err
		}
		ui.PrintSuccess(t.GetMessage("commit.success", 0, nil))
		return nil
	}
}

// choose lets the user pick a candidate and edit it. An empty result
// means the commit was cancelled.
func (f *CommitCommandFactory) choose(t *i18n.Translations, messages []string, useEditor bool) (string, error) {
	selected := messages[0]
	if len(messages) > 1 {
		idx, err := ui.SelectOption(t.GetMessage("commit.select_message", 0, nil), messages)
		if err != nil {
			return "", err
		}
		selected = messages[idx]
	}

	edit := f.edit
	if useEditor {
		edit = func(_, initial string) (string, error) {
			return ui.EditText(initial, "dash-commit-*.txt")
		}
	}

	final, err := edit(t.GetMessage("commit.edit_prompt", 0, nil), selected)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(final), nil
}

func reasonMessage(t *i18n.Translations, reason digest.Reason) string {
	switch reason {
	case digest.ReasonManyFiles:
		return t.GetMessage("commit.reason_many_files", 0, nil)
	case digest.ReasonLargeFile:
		return t.GetMessage("commit.reason_large_file", 0, nil)
	default:
		return t.GetMessage("commit.reason_large_diff", 0, nil)
	}
}
