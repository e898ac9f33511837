package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func setupTerminal(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	color.NoColor = true

	out := &bytes.Buffer{}
	prevOut, prevErr, prevIn := ui.Out, ui.ErrOut, ui.In
	ui.Out, ui.ErrOut, ui.In = out, &bytes.Buffer{}, strings.NewReader(input)
	ui.ResetInput()
	t.Cleanup(func() {
		ui.Out, ui.ErrOut, ui.In = prevOut, prevErr, prevIn
		ui.ResetInput()
	})
	return out
}

func translations(t *testing.T) *i18n.Translations {
	t.Helper()
	tr, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return tr
}

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".dash")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	cfg, err := config.Load(path, nil, true)
	require.NoError(t, err)
	return cfg
}

func runApp(cmd *cli.Command, args ...string) error {
	app := &cli.Command{Name: "dash", Commands: []*cli.Command{cmd}}
	return app.Run(context.Background(), append([]string{"dash"}, args...))
}

func TestConfigGet(t *testing.T) {
	t.Run("Success - requested keys", func(t *testing.T) {
		out := setupTerminal(t, "")
		cfg := loadConfig(t, "generate = \"3\"\nmodel = \"llama-3.1-8b-instant\"\n")
		cmd := NewConfigCommandFactory().CreateCommand(translations(t), cfg)

		err := runApp(cmd, "config", "get", "generate", "model")

		require.NoError(t, err)
		assert.Equal(t, "generate=3\nmodel=llama-3.1-8b-instant\n", out.String())
	})

	t.Run("Success - every key when none given", func(t *testing.T) {
		out := setupTerminal(t, "")
		cfg := loadConfig(t, "")
		cmd := NewConfigCommandFactory().CreateCommand(translations(t), cfg)

		require.NoError(t, runApp(cmd, "config", "get"))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.Len(t, lines, len(config.Keys))
		assert.Contains(t, lines, "locale=en")
		assert.Contains(t, lines, "gh_enabled=false")
	})

	t.Run("Error - unknown key", func(t *testing.T) {
		setupTerminal(t, "")
		cmd := NewConfigCommandFactory().CreateCommand(translations(t), loadConfig(t, ""))

		err := runApp(cmd, "config", "get", "colour")

		assert.ErrorIs(t, err, domainErrors.ErrUnknownConfigKey)
	})
}

func TestConfigSet(t *testing.T) {
	t.Run("Success - writes every pair", func(t *testing.T) {
		out := setupTerminal(t, "")
		cfg := loadConfig(t, "")
		cmd := NewConfigCommandFactory().CreateCommand(translations(t), cfg)

		err := runApp(cmd, "config", "set", "generate=2", "type=conventional")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Configuration saved")

		saved, err := config.Load(cfg.Path, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 2, saved.Generate)
		assert.Equal(t, config.CommitTypeConventional, saved.Type)
	})

	t.Run("Error - invalid value leaves the file untouched", func(t *testing.T) {
		setupTerminal(t, "")
		cfg := loadConfig(t, "generate = \"2\"\n")
		cmd := NewConfigCommandFactory().CreateCommand(translations(t), cfg)

		err := runApp(cmd, "config", "set", "generate=9")

		assert.Error(t, err)
		saved, loadErr := config.Load(cfg.Path, nil, false)
		require.NoError(t, loadErr)
		assert.Equal(t, 2, saved.Generate)
	})

	t.Run("Error - argument without equals sign", func(t *testing.T) {
		setupTerminal(t, "")
		cmd := NewConfigCommandFactory().CreateCommand(translations(t), loadConfig(t, ""))

		err := runApp(cmd, "config", "set", "generate")

		assert.ErrorIs(t, err, domainErrors.ErrUnknownConfigKey)
	})
}
