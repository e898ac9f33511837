package git

import (
	"context"
	stderrors "errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
)

const (
	defaultRemote = "origin"
	defaultBase   = "main"

	// numstatWorkers bounds the per-file numstat subprocesses running at once.
	numstatWorkers = 8
)

// BuiltinExcludes are always appended to caller exclusions.
var BuiltinExcludes = []string{
	"package-lock.json",
	"node_modules/**",
	"dist/**",
	"build/**",
	".next/**",
	"coverage/**",
	".nyc_output/**",
	"*.log",
	"*.tmp",
	"*.temp",
	"*.cache",
	".DS_Store",
	"Thumbs.db",
	"*.min.js",
	"*.min.css",
	"*.bundle.js",
	"*.bundle.css",
	"*.lock",
}

var baseCandidates = []string{"main", "master", "develop"}

// ExcludePathspec turns a glob into a git exclude pathspec.
func ExcludePathspec(glob string) string {
	return ":(exclude)" + glob
}

func excludeArgs(excludes []string) []string {
	all := make([]string, 0, len(excludes)+len(BuiltinExcludes))
	for _, e := range excludes {
		if e = strings.TrimSpace(e); e != "" {
			all = append(all, ExcludePathspec(e))
		}
	}
	for _, e := range BuiltinExcludes {
		all = append(all, ExcludePathspec(e))
	}
	return all
}

type Option func(*GitService)

// WithRunner replaces the subprocess runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(s *GitService) {
		s.runner = r
	}
}

// WithDir runs every git command inside dir.
func WithDir(dir string) Option {
	return func(s *GitService) {
		s.runner = ExecRunner{Dir: dir}
	}
}

type GitService struct {
	runner Runner
}

func NewGitService(opts ...Option) *GitService {
	s := &GitService{runner: ExecRunner{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GitService) git(ctx context.Context, args ...string) (string, error) {
	return s.runner.Run(ctx, "git", args...)
}

// AssertRepo returns the repository root or ErrNotInGitRepo.
func (s *GitService) AssertRepo(ctx context.Context) (string, error) {
	root, err := s.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil || strings.TrimSpace(root) == "" {
		return "", errors.ErrNotInGitRepo.WithError(err)
	}
	return strings.TrimSpace(root), nil
}

// StagedDiff returns nil when nothing is staged after exclusions.
func (s *GitService) StagedDiff(ctx context.Context, excludes []string) (*models.StagedDiff, error) {
	base := []string{"diff", "--cached", "--diff-algorithm=minimal"}
	pathspec := append([]string{"--"}, excludeArgs(excludes)...)

	names, err := s.git(ctx, append(append(append([]string{}, base...), "--name-only"), pathspec...)...)
	if err != nil {
		return nil, errors.ErrGetDiff.WithError(err)
	}
	files := splitLines(names)
	if len(files) == 0 {
		return nil, nil
	}

	diff, err := s.git(ctx, append(append([]string{}, base...), pathspec...)...)
	if err != nil {
		return nil, errors.ErrGetDiff.WithError(err)
	}

	logger.Debug(ctx, "staged diff collected", "files", len(files), "bytes", len(diff))
	return &models.StagedDiff{Files: files, Diff: diff}, nil
}

// DiffSummary fetches numstat for every staged file in parallel. A file whose
// query fails contributes zero stats instead of failing the summary.
func (s *GitService) DiffSummary(ctx context.Context, excludes []string) (*models.DiffSummary, error) {
	staged, err := s.StagedDiff(ctx, excludes)
	if err != nil {
		return nil, err
	}
	if staged == nil {
		return models.NewDiffSummary(nil), nil
	}
	return models.NewDiffSummary(s.fileStats(ctx, staged.Files)), nil
}

func (s *GitService) fileStats(ctx context.Context, files []string) []models.FileChangeStat {
	stats := make([]models.FileChangeStat, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numstatWorkers)
	for i, file := range files {
		g.Go(func() error {
			stats[i] = s.fileStat(gctx, file)
			return nil
		})
	}
	_ = g.Wait()
	return stats
}

func (s *GitService) fileStat(ctx context.Context, file string) models.FileChangeStat {
	out, err := s.git(ctx, "diff", "--cached", "--numstat", "--", file)
	if err != nil {
		logger.Debug(ctx, "numstat failed, counting file as unchanged", "file", file, "error", err)
		return models.NewFileChangeStat(file, 0, 0)
	}
	for _, line := range strings.Split(out, "\n") {
		if st, ok := ParseNumstatLine(line); ok {
			st.Path = file
			return st
		}
	}
	return models.NewFileChangeStat(file, 0, 0)
}

// StagedFileDiff returns the zero-context staged diff of a single path.
func (s *GitService) StagedFileDiff(ctx context.Context, file string) (string, error) {
	return s.git(ctx, "diff", "--cached", "--unified=0", "--", file)
}

func (s *GitService) StageTracked(ctx context.Context) error {
	if _, err := s.git(ctx, "add", "--update"); err != nil {
		return errors.ErrStageFiles.WithError(err)
	}
	return nil
}

func (s *GitService) Commit(ctx context.Context, message string, extra ...string) error {
	args := append([]string{"commit", "-m", message}, extra...)
	if _, err := s.git(ctx, args...); err != nil {
		appErr := errors.ErrCreateCommit.WithError(err)
		var cmdErr *CommandError
		if stderrors.As(err, &cmdErr) {
			appErr = appErr.WithContext("stderr", cmdErr.Stderr)
		}
		return appErr
	}
	return nil
}

func (s *GitService) CurrentBranch(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.ErrGetBranch.WithError(err)
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		return "", errors.ErrGetBranch
	}
	return branch, nil
}

// Remote is the first configured remote, or origin.
func (s *GitService) Remote(ctx context.Context) string {
	out, err := s.git(ctx, "remote")
	if err != nil {
		return defaultRemote
	}
	if remotes := splitLines(out); len(remotes) > 0 {
		return remotes[0]
	}
	return defaultRemote
}

// BaseBranch probes the usual candidates on the remote, then the remote HEAD,
// and finally assumes main.
func (s *GitService) BaseBranch(ctx context.Context) string {
	remote := s.Remote(ctx)
	for _, candidate := range baseCandidates {
		if _, err := s.git(ctx, "rev-parse", "--verify", remote+"/"+candidate); err == nil {
			return candidate
		}
	}

	out, err := s.git(ctx, "symbolic-ref", "refs/remotes/"+remote+"/HEAD")
	if err == nil {
		if head := strings.TrimPrefix(strings.TrimSpace(out), "refs/remotes/"+remote+"/"); head != "" {
			return head
		}
	}
	return defaultBase
}

// CommitsSince lists commits on HEAD that are not on <remote>/<base>.
// An unresolvable ref yields an empty list.
func (s *GitService) CommitsSince(ctx context.Context, base string) []models.Commit {
	ref := s.Remote(ctx) + "/" + base
	out, err := s.git(ctx, "log", ref+"..HEAD", LogFormat)
	if err != nil {
		logger.Debug(ctx, "commit log unavailable", "ref", ref, "error", err)
		return []models.Commit{}
	}
	return ParseCommitLog(out)
}

// StatsSince is the shortstat of <remote>/<base>...HEAD, zero on failure.
func (s *GitService) StatsSince(ctx context.Context, base string) models.BranchStats {
	out, err := s.git(ctx, "diff", "--shortstat", s.Remote(ctx)+"/"+base+"...HEAD")
	if err != nil {
		return models.BranchStats{}
	}
	return ParseShortstat(out)
}

// DiffSummarySince returns nil when the range cannot be diffed.
func (s *GitService) DiffSummarySince(ctx context.Context, base string) *models.DiffSummary {
	out, err := s.git(ctx, "diff", "--numstat", s.Remote(ctx)+"/"+base+"...HEAD")
	if err != nil {
		return nil
	}
	stats := ParseNumstat(out)
	if len(stats) == 0 {
		return nil
	}
	return models.NewDiffSummary(stats)
}

func (s *GitService) RepoOwnerAndName(ctx context.Context) (string, string, error) {
	url, err := s.git(ctx, "remote", "get-url", s.Remote(ctx))
	if err != nil {
		return "", "", errors.ErrGetRepoURL.WithError(err)
	}
	return ParseRepoURL(url)
}

// HooksDir resolves the hooks directory, honouring core.hooksPath.
func (s *GitService) HooksDir(ctx context.Context) (string, error) {
	if _, err := s.AssertRepo(ctx); err != nil {
		return "", err
	}
	out, err := s.git(ctx, "rev-parse", "--path-format=absolute", "--git-path", "hooks")
	if err != nil {
		return "", errors.ErrHookInstall.WithError(err)
	}
	return strings.TrimSpace(out), nil
}
