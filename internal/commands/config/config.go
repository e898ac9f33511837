package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newGetCommand(t, cfg),
			c.newSetCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) newGetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "get",
		Usage:         t.GetMessage("config.get_usage", 0, nil),
		ArgsUsage:     "[key...]",
		ShellComplete: completeKeys,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lines, err := cfg.Get(cmd.Args().Slice()...)
			if err != nil {
				return err
			}
			for _, line := range lines {
				_, _ = fmt.Fprintln(ui.Out, line)
			}
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "set",
		Usage:         t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage:     "<key=value...>",
		ShellComplete: completeKeys,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.ShowSubcommandHelp(cmd)
			}

			pairs := make([][2]string, 0, cmd.Args().Len())
			for _, arg := range cmd.Args().Slice() {
				key, value, err := config.ParsePair(arg)
				if err != nil {
					return err
				}
				pairs = append(pairs, [2]string{key, value})
			}

			path, err := FilePath(cfg)
			if err != nil {
				return err
			}
			if err := config.Set(path, pairs); err != nil {
				return err
			}

			logger.Info(ctx, "config updated", "path", path, "keys", len(pairs))
			ui.PrintSuccess(t.GetMessage("config.saved", 0, nil))
			return nil
		},
	}
}

// FilePath is the file the loaded config came from, or ~/.dash.
func FilePath(cfg *config.Config) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	return config.DefaultPath()
}

func completeKeys(ctx context.Context, cmd *cli.Command) {
	var w io.Writer = os.Stdout
	if root := cmd.Root(); root != nil && root.Writer != nil {
		w = root.Writer
	}
	for _, key := range config.Keys {
		_, _ = fmt.Fprintln(w, key)
	}
	completion_helper.DefaultFlagComplete(ctx, cmd)
}
