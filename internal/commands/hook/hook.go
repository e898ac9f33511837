package hook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/dash/internal/commands/completion_helper"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	// HookName is the git hook dash installs.
	HookName = "prepare-commit-msg"

	marker = "# dash prepare-commit-msg hook"
)

type HooksLocator interface {
	HooksDir(ctx context.Context) (string, error)
}

type HookCommandFactory struct {
	locator    HooksLocator
	executable func() (string, error)
}

func NewHookCommandFactory(locator HooksLocator) *HookCommandFactory {
	return &HookCommandFactory{locator: locator, executable: os.Executable}
}

func (f *HookCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "hook",
		Usage: t.GetMessage("hook.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:          "install",
				Usage:         t.GetMessage("hook.install_usage", 0, nil),
				ShellComplete: completion_helper.DefaultFlagComplete,
				Action:        f.installAction(t),
			},
			{
				Name:          "uninstall",
				Usage:         t.GetMessage("hook.uninstall_usage", 0, nil),
				ShellComplete: completion_helper.DefaultFlagComplete,
				Action:        f.uninstallAction(t),
			},
		},
	}
}

// Script is the hook body. It re-enters the dash binary at exe.
func Script(exe string) string {
	return fmt.Sprintf("#!/bin/sh\n%s\nexec %q %s \"$@\"\n", marker, exe, HookName)
}

func (f *HookCommandFactory) hookPath(ctx context.Context) (string, error) {
	dir, err := f.locator.HooksDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HookName), nil
}

func (f *HookCommandFactory) installAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		path, err := f.hookPath(ctx)
		if err != nil {
			return err
		}

		existing, err := os.ReadFile(path)
		switch {
		case err == nil && !isDashHook(existing):
			return domainErrors.ErrHookInstall.
				WithMessage("A different %s hook already exists at %s", HookName, path).
				WithSuggestion("Remove it or merge it by hand, then run `dash hook install` again")
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return domainErrors.ErrHookInstall.WithError(err).WithContext("path", path)
		}

		exe, err := f.executable()
		if err != nil {
			return domainErrors.ErrHookInstall.WithError(err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return domainErrors.ErrHookInstall.WithError(err).WithContext("path", path)
		}
		if err := os.WriteFile(path, []byte(Script(exe)), 0o755); err != nil {
			return domainErrors.ErrHookInstall.WithError(err).WithContext("path", path)
		}

		logger.Info(ctx, "hook installed", "path", path, "executable", exe)
		ui.PrintSuccess(t.GetMessage("hook.installed", 0, map[string]interface{}{"Path": path}))
		return nil
	}
}

func (f *HookCommandFactory) uninstallAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		path, err := f.hookPath(ctx)
		if err != nil {
			return err
		}

		existing, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			ui.PrintWarning(t.GetMessage("hook.not_installed", 0, nil))
			return nil
		}
		if err != nil {
			return domainErrors.ErrHookInstall.WithError(err).WithContext("path", path)
		}
		if !isDashHook(existing) {
			return domainErrors.ErrHookInstall.
				WithMessage("The %s hook at %s was not installed by dash", HookName, path)
		}

		if err := os.Remove(path); err != nil {
			return domainErrors.ErrHookInstall.WithError(err).WithContext("path", path)
		}
		logger.Info(ctx, "hook removed", "path", path)
		ui.PrintSuccess(t.GetMessage("hook.uninstalled", 0, nil))
		return nil
	}
}

func isDashHook(content []byte) bool {
	return strings.Contains(string(content), marker)
}
