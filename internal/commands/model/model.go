package model

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

type ModelCommandFactory struct {
	catalog func() (*config.ModelCatalog, error)
}

func NewModelCommandFactory() *ModelCommandFactory {
	return &ModelCommandFactory{catalog: config.LoadModelCatalog}
}

func (f *ModelCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "model",
		Usage:         t.GetMessage("model.usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Commands: []*cli.Command{
			f.newListCommand(t, cfg),
			f.newSetCommand(t, cfg),
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return f.choose(ctx, t, cfg)
		},
	}
}

func (f *ModelCommandFactory) newListCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: t.GetMessage("model.list_usage", 0, nil),
		Action: func(ctx context.Context, _ *cli.Command) error {
			catalog, err := f.catalog()
			if err != nil {
				return err
			}
			current := currentModel(cfg, catalog)

			_, _ = fmt.Fprintf(ui.Out, "\n%s\n\n", ui.Accent.Sprint(t.GetMessage("model.available", 0, nil)))
			for _, m := range catalog.Models {
				prefix, suffix := "  ", ""
				if m.ID == current {
					prefix = ui.Success.Sprint("● ")
					suffix = ui.Info.Sprint(" ← " + t.GetMessage("model.current", 0, nil))
				}
				hint := ""
				if m.Hint != "" {
					hint = ui.Dim.Sprintf(" (%s)", m.Hint)
				}
				_, _ = fmt.Fprintf(ui.Out, "%s%s%s%s\n", prefix, m.Label, hint, suffix)
				_, _ = fmt.Fprintf(ui.Out, "    %s\n", ui.Dim.Sprint(m.ID))
			}
			_, _ = fmt.Fprintf(ui.Out, "\n%s %s\n\n", ui.Dim.Sprint(t.GetMessage("model.browse_all", 0, nil)), ui.Info.Sprint(catalog.Docs))
			return nil
		},
	}
}

func (f *ModelCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("model.set_usage", 0, nil),
		ArgsUsage: "<model-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := strings.TrimSpace(cmd.Args().First())
			if id == "" {
				return cli.ShowSubcommandHelp(cmd)
			}
			return save(ctx, t, cfg, id)
		},
	}
}

// choose runs the interactive picker: the catalog, then a custom ID entry
// and a no-op option.
func (f *ModelCommandFactory) choose(ctx context.Context, t *i18n.Translations, cfg *config.Config) error {
	catalog, err := f.catalog()
	if err != nil {
		return err
	}
	current := currentModel(cfg, catalog)

	ui.PrintSectionBanner(t.GetMessage("model.banner", 0, nil))
	ui.PrintKeyValue(t.GetMessage("model.current_label", 0, nil), current)
	_, _ = fmt.Fprintf(ui.Out, "   %s %s\n", ui.Dim.Sprint(t.GetMessage("model.browse_all", 0, nil)), ui.Warning.Sprint(catalog.Docs))

	options := make([]string, 0, len(catalog.Models)+2)
	for _, m := range catalog.Models {
		label := m.Label
		if m.ID == current {
			label += " " + ui.Info.Sprintf("(%s)", t.GetMessage("model.current", 0, nil))
		}
		if m.Hint != "" {
			label += ui.Dim.Sprintf(" - %s", m.Hint)
		}
		options = append(options, label)
	}
	custom := len(options)
	options = append(options, t.GetMessage("model.custom_option", 0, nil))
	keep := len(options)
	options = append(options, t.GetMessage("model.keep_option", 0, nil))

	idx, err := ui.SelectOption(t.GetMessage("model.select_prompt", 0, nil), options)
	if err != nil {
		return err
	}

	var selected string
	switch idx {
	case keep:
		ui.PrintInfo(t.GetMessage("model.no_changes", 0, nil))
		return nil
	case custom:
		selected, err = ui.PromptText(t.GetMessage("model.custom_prompt", 0, nil), "")
		if err != nil {
			return err
		}
		if selected = strings.TrimSpace(selected); selected == "" {
			ui.PrintWarning(t.GetMessage("model.id_required", 0, nil))
			return nil
		}
	default:
		selected = catalog.Models[idx].ID
	}

	if selected == current {
		ui.PrintInfo(t.GetMessage("model.already_using", 0, map[string]interface{}{"Model": selected}))
		return nil
	}
	return save(ctx, t, cfg, selected)
}

func save(ctx context.Context, t *i18n.Translations, cfg *config.Config, id string) error {
	path := cfg.Path
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	if err := config.Set(path, [][2]string{{config.KeyModel, id}}); err != nil {
		return err
	}
	logger.Info(ctx, "model changed", "model", id)
	ui.PrintSuccess(t.GetMessage("model.changed", 0, map[string]interface{}{"Model": id}))
	return nil
}

func currentModel(cfg *config.Config, catalog *config.ModelCatalog) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return catalog.Default
}
