package issues

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/thomas-vilte/dash/internal/i18n"
	"github.com/thomas-vilte/dash/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *IssuesCommandFactory) newTemplatesCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: t.GetMessage("issue.templates_usage", 0, nil),
		Action: func(ctx context.Context, _ *cli.Command) error {
			templates, err := f.templates.ListTemplates(ctx)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				ui.PrintInfo(t.GetMessage("issue.no_templates", 0, nil))
				return nil
			}
			for _, tmpl := range templates {
				_, _ = fmt.Fprintf(ui.Out, "%s %s\n", ui.Accent.Sprint(tmpl.Name), ui.Dim.Sprintf("(%s)", filepath.Base(tmpl.FilePath)))
				if summary := tmpl.Summary(); summary != "" {
					_, _ = fmt.Fprintf(ui.Out, "   %s\n", summary)
				}
			}
			return nil
		},
	}
}
