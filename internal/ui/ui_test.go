package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/models"
)

func captureTerminal(t *testing.T, input string) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr, prevIn := Out, ErrOut, In
	Out, ErrOut, In = out, errOut, strings.NewReader(input)
	ResetInput()
	t.Cleanup(func() {
		Out, ErrOut, In = prevOut, prevErr, prevIn
		ResetInput()
	})
	return out, errOut
}

func TestAskConfirmation(t *testing.T) {
	cases := map[string]bool{"y\n": true, "yes\n": true, "si\n": true, "n\n": false, "\n": false, "": false}
	for input, want := range cases {
		captureTerminal(t, input)
		assert.Equal(t, want, AskConfirmation("Proceed?"), "input %q", input)
	}
}

func TestSelectOption(t *testing.T) {
	t.Run("Success - retries until a valid number", func(t *testing.T) {
		out, _ := captureTerminal(t, "9\nabc\n2\n")

		idx, err := SelectOption("Pick a message", []string{"feat: a", "fix: b"})

		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.Contains(t, out.String(), "1) feat: a")
		assert.Contains(t, out.String(), "Enter a number between 1 and 2")
	})

	t.Run("Success - empty answer picks the first", func(t *testing.T) {
		captureTerminal(t, "\n")
		idx, err := SelectOption("Pick", []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("Error - no options", func(t *testing.T) {
		_, err := SelectOption("Pick", nil)
		assert.Error(t, err)
	})
}

func TestPromptText(t *testing.T) {
	captureTerminal(t, "\nnew title\n")

	kept, err := PromptText("Title", "old title")
	require.NoError(t, err)
	assert.Equal(t, "old title", kept)

	replaced, err := PromptText("Title", "old title")
	require.NoError(t, err)
	assert.Equal(t, "new title", replaced)
}

func TestShowFilesTree(t *testing.T) {
	out, _ := captureTerminal(t, "")

	ShowFilesTree("Files:", []string{"internal/a.go", "README.md", "internal/sub/b.go"}, []models.FileChangeStat{
		models.NewFileChangeStat("internal/a.go", 3, 1),
		models.NewFileChangeStat("README.md", 1, 0),
		models.NewFileChangeStat("internal/sub/b.go", 0, 4),
	})

	want := "\nFiles:\n" +
		"├── internal/\n" +
		"│   ├── sub/\n" +
		"│   │   └── b.go (+0, -4)\n" +
		"│   └── a.go (+3, -1)\n" +
		"└── README.md (+1, -0)\n"
	assert.Equal(t, want, out.String())
}

func TestShowFilesTree_WithoutStats(t *testing.T) {
	out, _ := captureTerminal(t, "")

	ShowFilesTree("Files:", []string{"a.go", "b.go"}, nil)

	assert.Equal(t, "\nFiles:\n   • a.go\n   • b.go\n", out.String())
}

func TestHandleAppError(t *testing.T) {
	t.Run("Known error shows message and suggestion", func(t *testing.T) {
		_, errOut := captureTerminal(t, "")

		HandleAppError(domainErrors.ErrNoChanges, nil, "1.0.0")

		assert.Contains(t, errOut.String(), "No staged changes found")
		assert.Contains(t, errOut.String(), "Try: Stage your changes first")
		assert.NotContains(t, errOut.String(), "bug report")
	})

	t.Run("Unexpected error shows stack and version", func(t *testing.T) {
		_, errOut := captureTerminal(t, "")

		HandleAppError(errors.New("nil map write"), nil, "1.2.3")

		s := errOut.String()
		assert.Contains(t, s, "nil map write")
		assert.Contains(t, s, "Stack trace (error handler):")
		assert.Contains(t, s, "goroutine")
		assert.Contains(t, s, "dash version: 1.2.3")
		assert.Contains(t, s, issuesURL)
	})
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3d ago", RelativeTime(now.Add(-75*time.Hour), now))
	assert.Equal(t, "5h ago", RelativeTime(now.Add(-5*time.Hour), now))
	assert.Equal(t, "2m ago", RelativeTime(now.Add(-150*time.Second), now))
	assert.Equal(t, "just now", RelativeTime(now.Add(-10*time.Second), now))
}
