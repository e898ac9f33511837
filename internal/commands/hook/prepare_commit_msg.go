package hook

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/services"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

type CommitService interface {
	Collect(ctx context.Context, opts services.CommitOptions) (*services.StagedChanges, error)
	Generate(ctx context.Context, changes *services.StagedChanges) ([]string, error)
}

type ServiceProvider func(cfg *config.Config) CommitService

// PrepareCommitMsgFactory builds the hidden command git calls through the
// installed hook.
type PrepareCommitMsgFactory struct {
	provider ServiceProvider
}

func NewPrepareCommitMsgFactory(provider ServiceProvider) *PrepareCommitMsgFactory {
	return &PrepareCommitMsgFactory{provider: provider}
}

func (f *PrepareCommitMsgFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      HookName,
		Usage:     t.GetMessage("hook.prepare_usage", 0, nil),
		ArgsUsage: "<message-file> [source]",
		Hidden:    true,
		Action:    f.createAction(t, cfg),
	}
}

func (f *PrepareCommitMsgFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		messageFile := cmd.Args().Get(0)
		if messageFile == "" {
			return domainErrors.ErrHookFile
		}
		// message, template, merge, squash and commit sources already carry text.
		if source := cmd.Args().Get(1); source != "" {
			logger.Debug(ctx, "skipping hook for commit source", "source", source)
			return nil
		}

		effective, err := cfg.Strict(nil)
		if err != nil {
			return err
		}
		service := f.provider(effective)

		changes, err := service.Collect(ctx, services.CommitOptions{})
		if errors.Is(err, domainErrors.ErrNoChanges) {
			return nil
		}
		if err != nil {
			return err
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("commit.analyzing", 0, nil))
		spinner.Start()
		messages, err := service.Generate(ctx, changes)
		if err != nil {
			spinner.Stop()
			return err
		}
		spinner.Success(t.GetMessage("commit.analyzed", 0, nil))

		base, err := os.ReadFile(messageFile)
		if err != nil {
			return domainErrors.ErrHookFile.WithError(err).WithContext("path", messageFile)
		}

		file, err := os.OpenFile(messageFile, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return domainErrors.ErrHookFile.WithError(err).WithContext("path", messageFile)
		}
		defer func() { _ = file.Close() }()

		if _, err := file.WriteString(HookMessage(string(base), messages)); err != nil {
			return domainErrors.ErrHookFile.WithError(err).WithContext("path", messageFile)
		}

		ui.PrintSuccess(t.GetMessage("hook.saved", 0, nil))
		return nil
	}
}

// HookMessage renders the text appended to the commit message file. Git
// strips comment lines, so extra candidates are left commented out and
// instructions are only added when the file already has comments.
func HookMessage(base string, messages []string) string {
	supportsComments := base != ""
	multiple := len(messages) > 1

	var b strings.Builder
	if supportsComments {
		b.WriteString("# 🤖 AI generated commit")
		if multiple {
			b.WriteString("s")
		}
		b.WriteString("\n")
	}

	if multiple {
		if supportsComments {
			b.WriteString("# Select one of the following messages by uncommenting:\n")
		}
		for _, msg := range messages {
			b.WriteString("\n# " + msg)
		}
		return b.String()
	}

	if supportsComments {
		b.WriteString("# Edit the message below and commit:\n")
	}
	b.WriteString("\n" + messages[0] + "\n")
	return b.String()
}
