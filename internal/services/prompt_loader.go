package services

import (
	"context"
	"os"

	"github.com/thomas-vilte/dash/internal/ai"
)

// PromptLoader returns the user's custom prompt for kind, or "".
type PromptLoader func(ctx context.Context, kind ai.PromptKind) string

type repoRoot interface {
	AssertRepo(ctx context.Context) (string, error)
}

// RepoPromptLoader searches .dash/<kind>.md from the working directory up
// to the repository root.
func RepoPromptLoader(repo repoRoot) PromptLoader {
	return func(ctx context.Context, kind ai.PromptKind) string {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		root, err := repo.AssertRepo(ctx)
		if err != nil {
			root = cwd
		}
		return ai.LoadPromptOverride(kind, cwd, root)
	}
}

// NoPrompt disables custom prompt lookup.
func NoPrompt(context.Context, ai.PromptKind) string { return "" }
