package services

import (
	"context"

	"github.com/thomas-vilte/dash/internal/digest"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
)

// branchGit defines the repository queries shared by the branch flows.
type branchGit interface {
	AssertRepo(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	BaseBranch(ctx context.Context) string
	CommitsSince(ctx context.Context, base string) []models.Commit
	StatsSince(ctx context.Context, base string) models.BranchStats
	DiffSummarySince(ctx context.Context, base string) *models.DiffSummary
}

// BranchChanges is the commit range between Current and Base.
type BranchChanges struct {
	Current     string
	Base        string
	Commits     []models.Commit
	Stats       models.BranchStats
	DiffSummary string
}

func (b *BranchChanges) Summaries() []models.CommitSummary {
	return models.ToSummaries(b.Commits)
}

// resolveBranches returns the checked-out branch and the comparison base,
// detecting the base when override is empty.
func resolveBranches(ctx context.Context, git branchGit, override string) (string, string, error) {
	if _, err := git.AssertRepo(ctx); err != nil {
		return "", "", err
	}
	current, err := git.CurrentBranch(ctx)
	if err != nil {
		return "", "", err
	}
	base := override
	if base == "" {
		base = git.BaseBranch(ctx)
	}
	return current, base, nil
}

// collectRange fills commits, stats and the compact diff summary.
func collectRange(ctx context.Context, git branchGit, current, base string) *BranchChanges {
	changes := &BranchChanges{
		Current: current,
		Base:    base,
		Commits: git.CommitsSince(ctx, base),
		Stats:   git.StatsSince(ctx, base),
	}
	if summary := git.DiffSummarySince(ctx, base); summary != nil && len(summary.Stats) > 0 {
		changes.DiffSummary = digest.Compact(summary, digest.DefaultMaxFiles)
	}
	logger.Info(ctx, "branch range collected",
		"current", current,
		"base", base,
		"commits", len(changes.Commits),
		"files", changes.Stats.Files)
	return changes
}
