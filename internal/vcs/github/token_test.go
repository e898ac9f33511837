package github

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
)

type stubRunner map[string]struct {
	out string
	err error
}

func (s stubRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r, ok := s[name+" "+strings.Join(args, " ")]
	if !ok {
		return "", errors.New("not found")
	}
	return r.out, r.err
}

func TestCLI_Token(t *testing.T) {
	t.Run("Success - environment wins", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "")
		t.Setenv("GITHUB_TOKEN", "ghp_env")

		token, err := NewCLI(stubRunner{}).Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "ghp_env", token)
	})

	t.Run("Success - falls back to gh auth token", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "")
		t.Setenv("GITHUB_TOKEN", "")
		runner := stubRunner{"gh auth token": {out: "gho_cli\n"}}

		token, err := NewCLI(runner).Token(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "gho_cli", token)
	})

	t.Run("Error - gh not installed", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "")
		t.Setenv("GITHUB_TOKEN", "")

		_, err := NewCLI(stubRunner{}).Token(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrGHNotInstalled)
	})

	t.Run("Error - gh installed but logged out", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "")
		t.Setenv("GITHUB_TOKEN", "")
		runner := stubRunner{
			"gh --version":    {out: "gh version 2.50.0"},
			"gh auth token":   {err: errors.New("not logged in")},
			"gh auth status":  {err: errors.New("not logged in")},
		}
		cli := NewCLI(runner)

		_, err := cli.Token(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
		assert.True(t, cli.Installed(context.Background()))
		assert.False(t, cli.Authenticated(context.Background()))
	})
}
