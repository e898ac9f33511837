package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeAI            ErrorType = "AI"
	TypeVCS           ErrorType = "VCS"
	TypeGit           ErrorType = "GIT"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError is a named, user-facing failure. Anything that is not an AppError
// is treated as unexpected by the top-level handler.
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string

	code string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches copies derived from the same sentinel, so errors.Is keeps
// working after the With* builders.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.code == "" {
		return false
	}
	return e.Type == t.Type && e.code == t.code
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
		code:       e.code,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
		code:       e.code,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
		code:       e.code,
	}
}

// WithMessage replaces the message, keeping the sentinel's identity.
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    fmt.Sprintf(format, args...),
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
		code:       e.code,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
		code:    msg,
	}
}

// IsKnown reports whether err carries an AppError anywhere in its chain.
func IsKnown(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// Git errors
var (
	ErrNotInGitRepo = NewAppError(TypeGit, "The current directory must be a Git repository!", nil).
			WithSuggestion("Initialize a git repository: git init")

	ErrNoChanges = NewAppError(TypeGit, "No staged changes found. Stage your changes manually, or automatically stage all changes with the `--all` flag.", nil).
			WithSuggestion("Stage your changes first with: git add <files>")

	ErrNoCommits = NewAppError(TypeGit, "No commits found between the base branch and the current branch", nil).
			WithSuggestion("Make sure you have committed your changes and the base branch exists on the remote.")

	ErrOnBaseBranch = NewAppError(TypeGit, "Cannot create PR from the base branch", nil).
			WithSuggestion("Please switch to a feature branch first: git checkout -b <branch-name>")

	ErrSameBranch = NewAppError(TypeGit, "Cannot compare a branch to itself", nil).
			WithSuggestion("Switch to a feature branch or specify a different target branch.")

	ErrGetBranch = NewAppError(TypeGit, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrStageFiles = NewAppError(TypeGit, "Failed to stage tracked changes", nil).
			WithSuggestion("Check the repository state: git status")

	ErrCreateCommit = NewAppError(TypeGit, "Failed to create commit", nil).
			WithSuggestion("Ensure git user is configured:\n   git config --global user.name \"Your Name\"\n   git config --global user.email \"your@email.com\"")

	ErrGetDiff = NewAppError(TypeGit, "Failed to get diff", nil).
			WithSuggestion("Check if you have staged changes: git status")

	ErrGetRepoURL = NewAppError(TypeGit, "Failed to get repository URL", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrInvalidRepoURL = NewAppError(TypeGit, "Remote URL does not point to a GitHub repository", nil).
				WithSuggestion("Check your remote: git remote -v")

	ErrHookFile = NewAppError(TypeGit, "Commit message file path is missing. This file should be called from the \"prepare-commit-msg\" git hook", nil)

	ErrHookInstall = NewAppError(TypeGit, "Failed to manage the prepare-commit-msg hook", nil).
			WithSuggestion("Check write permissions on .git/hooks")
)

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "Please set your Groq API key via `dash config set GROQ_API_KEY=<your token>`", nil).
				WithSuggestion("Get your API key from: https://console.groq.com/keys")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "Invalid config property", nil)

	ErrUnknownConfigKey = NewAppError(TypeConfiguration, "Unknown config property", nil).
				WithSuggestion("Valid keys: GROQ_API_KEY, locale, generate, type, proxy, model, timeout, max-length, gh_enabled")

	ErrConfigIO = NewAppError(TypeConfiguration, "Failed to read or write the configuration file", nil)
)

// AI errors
var (
	ErrAPI = NewAppError(TypeAI, "Groq API Error", nil)

	ErrRateLimited = NewAppError(TypeAI, "Groq API rate limit or request size exceeded", nil).
			WithSuggestion("Your diff is too large. Try:\n1. Commit files in smaller batches\n2. Exclude large files with --exclude\n3. Use a different model with --model\n4. Check if you have build artifacts staged (dist/, .next/, etc.)")

	ErrConnection = NewAppError(TypeAI, "Error connecting to the completion backend", nil).
			WithSuggestion("Check your network connection or proxy settings")

	ErrNoMessages = NewAppError(TypeAI, "No commit messages were generated. Try again.", nil)

	ErrSummaryFailed = NewAppError(TypeAI, "Failed to generate branch summary. Please try again.", nil)
)

// Internal errors
var (
	ErrPromptRender = NewAppError(TypeInternal, "Failed to build the prompt", nil)
)

// VCS errors
var (
	ErrGHNotInstalled = NewAppError(TypeVCS, "GitHub CLI (gh) is not installed or not in PATH.", nil).
				WithSuggestion("Install it from: https://cli.github.com/")

	ErrGHDisabled = NewAppError(TypeVCS, "GitHub features are disabled", nil).
			WithSuggestion("Enable them with: dash config set gh_enabled=true")

	ErrTokenMissing = NewAppError(TypeVCS, "No GitHub token available", nil).
			WithSuggestion("Authenticate the GitHub CLI (gh auth login) or export GH_TOKEN")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Re-authenticate with: gh auth login")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token lacks the required permissions", nil).
					WithSuggestion("Grant the token the 'repo' scope: gh auth refresh -s repo")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes and try again")

	ErrRepositoryNotFound = NewAppError(TypeVCS, "Repository or resource not found on GitHub", nil).
				WithSuggestion("Check your remote: git remote -v")

	ErrCreatePR = NewAppError(TypeVCS, "Failed to create PR", nil)

	ErrGetPR = NewAppError(TypeVCS, "Failed to get pull request", nil).
			WithSuggestion("Check the PR number: dash pr list")

	ErrUpdatePR = NewAppError(TypeVCS, "Failed to update pull request", nil)

	ErrInvalidPRNumber = NewAppError(TypeVCS, "A valid pull request number is required", nil).
				WithSuggestion("List open pull requests with: dash pr list")

	ErrMergePR = NewAppError(TypeVCS, "Failed to merge pull request", nil).
			WithSuggestion("Check that the PR is mergeable on GitHub")

	ErrListIssues = NewAppError(TypeVCS, "Failed to list issues", nil)

	ErrCreateIssue = NewAppError(TypeVCS, "Failed to create issue", nil)
)
