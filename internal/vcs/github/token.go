package github

import (
	"context"
	"os"
	"strings"

	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/git"
	"github.com/thomas-vilte/dash/internal/logger"
)

var tokenEnvVars = []string{"GH_TOKEN", "GITHUB_TOKEN"}

// CLI wraps the few gh commands dash still relies on.
type CLI struct {
	Runner git.Runner
}

func NewCLI(r git.Runner) *CLI {
	if r == nil {
		r = git.ExecRunner{}
	}
	return &CLI{Runner: r}
}

func (c *CLI) Installed(ctx context.Context) bool {
	_, err := c.Runner.Run(ctx, "gh", "--version")
	return err == nil
}

func (c *CLI) Authenticated(ctx context.Context) bool {
	_, err := c.Runner.Run(ctx, "gh", "auth", "status")
	return err == nil
}

// Token prefers GH_TOKEN and GITHUB_TOKEN, then asks gh for its stored token.
func (c *CLI) Token(ctx context.Context) (string, error) {
	for _, key := range tokenEnvVars {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, nil
		}
	}

	out, err := c.Runner.Run(ctx, "gh", "auth", "token")
	if err != nil {
		logger.Debug(ctx, "gh auth token failed", "error", err)
		if !c.Installed(ctx) {
			return "", domainErrors.ErrGHNotInstalled
		}
		return "", domainErrors.ErrTokenMissing.WithError(err)
	}
	token := strings.TrimSpace(out)
	if token == "" {
		return "", domainErrors.ErrTokenMissing
	}
	return token, nil
}
