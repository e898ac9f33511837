package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/vcs"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const maxPerPage = 100

var mergeMethods = map[string]bool{"merge": true, "squash": true, "rebase": true}

type PullRequestsService interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error)
	Merge(ctx context.Context, owner, repo string, number int, commitMessage string, opts *github.PullRequestOptions) (*github.PullRequestMergeResult, *github.Response, error)
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
}

type IssuesService interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	issuesService IssuesService
	owner         string
	repo          string
}

func NewGitHubClient(owner, repo, token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return NewGitHubClientWithServices(client.PullRequests, client.Issues, owner, repo)
}

func NewGitHubClientWithServices(prService PullRequestsService, issuesService IssuesService, owner, repo string) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		issuesService: issuesService,
		owner:         owner,
		repo:          repo,
	}
}

func (ghc *GitHubClient) fullName() string {
	return fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)
}

// statusError maps well-known HTTP failures onto named errors, falling back
// to the operation-specific one.
func (ghc *GitHubClient) statusError(resp *github.Response, fallback *domainErrors.AppError, operation string, err error) *domainErrors.AppError {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.WithContext("operation", operation).WithError(err)
		case http.StatusForbidden:
			return domainErrors.ErrGitHubInsufficientPerms.
				WithContext("operation", operation).
				WithContext("repo", ghc.fullName()).
				WithError(err)
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation).
				WithError(err)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithContext("operation", operation).
				WithContext("repo", ghc.fullName()).
				WithError(err)
		}
	}
	return fallback.WithContext("repo", ghc.fullName()).WithError(err)
}

func (ghc *GitHubClient) CreatePR(ctx context.Context, head, base string, content models.PRContent, draft bool) (*models.PullRequest, error) {
	log := logger.FromContext(ctx)
	log.Info("creating github pull request",
		"repo", ghc.fullName(),
		"head", head,
		"base", base,
		"draft", draft)

	pr, resp, err := ghc.prService.Create(ctx, ghc.owner, ghc.repo, &github.NewPullRequest{
		Title: github.Ptr(content.Title),
		Body:  github.Ptr(content.Body),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
		Draft: github.Ptr(draft),
	})
	if err != nil {
		log.Error("failed to create github PR", "error", err, "repo", ghc.fullName())
		return nil, ghc.statusError(resp, domainErrors.ErrCreatePR, "create PR", err)
	}

	out := toPullRequest(pr)
	log.Info("github PR created successfully", "pr_number", out.Number, "pr_url", out.URL)
	return &out, nil
}

func (ghc *GitHubClient) GetPR(ctx context.Context, number int) (*models.PullRequest, error) {
	logger.Debug(ctx, "fetching github pull request", "repo", ghc.fullName(), "pr_number", number)

	pr, resp, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, number)
	if err != nil {
		return nil, ghc.statusError(resp, domainErrors.ErrGetPR, "get PR", err).WithContext("pr_number", number)
	}

	out := toPullRequest(pr)
	return &out, nil
}

func (ghc *GitHubClient) UpdatePR(ctx context.Context, number int, content models.PRContent) error {
	_, resp, err := ghc.prService.Edit(ctx, ghc.owner, ghc.repo, number, &github.PullRequest{
		Title: github.Ptr(content.Title),
		Body:  github.Ptr(content.Body),
	})
	if err != nil {
		return ghc.statusError(resp, domainErrors.ErrUpdatePR, "update PR", err)
	}
	logger.Info(ctx, "github PR updated", "pr_number", number)
	return nil
}

func (ghc *GitHubClient) MergePR(ctx context.Context, number int, method, commitTitle string) error {
	if method == "" {
		method = "merge"
	}
	if !mergeMethods[method] {
		return domainErrors.ErrMergePR.WithMessage("Unsupported merge method %q", method)
	}

	result, resp, err := ghc.prService.Merge(ctx, ghc.owner, ghc.repo, number, "", &github.PullRequestOptions{
		CommitTitle: commitTitle,
		MergeMethod: method,
	})
	if err != nil {
		return ghc.statusError(resp, domainErrors.ErrMergePR, "merge PR", err)
	}
	if !result.GetMerged() {
		return domainErrors.ErrMergePR.WithContext("reason", result.GetMessage())
	}
	logger.Info(ctx, "github PR merged", "pr_number", number, "sha", result.GetSHA(), "method", method)
	return nil
}

func (ghc *GitHubClient) ListPRs(ctx context.Context, state string, limit int) ([]models.PullRequest, error) {
	prs, resp, err := ghc.prService.List(ctx, ghc.owner, ghc.repo, &github.PullRequestListOptions{
		State:       orState(state),
		ListOptions: github.ListOptions{PerPage: perPage(limit)},
	})
	if err != nil {
		return nil, ghc.statusError(resp, domainErrors.ErrGetPR, "list PRs", err)
	}

	out := make([]models.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, toPullRequest(pr))
	}
	return out, nil
}

// ListIssues skips pull requests, which the issues endpoint also returns.
func (ghc *GitHubClient) ListIssues(ctx context.Context, state string, limit int) ([]models.Issue, error) {
	issues, resp, err := ghc.issuesService.ListByRepo(ctx, ghc.owner, ghc.repo, &github.IssueListByRepoOptions{
		State:       orState(state),
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage(limit)},
	})
	if err != nil {
		return nil, ghc.statusError(resp, domainErrors.ErrListIssues, "list issues", err)
	}

	out := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		out = append(out, toIssue(issue))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (ghc *GitHubClient) CreateIssue(ctx context.Context, draft models.IssueDraft) (*models.Issue, error) {
	log := logger.FromContext(ctx)
	log.Info("creating github issue",
		"repo", ghc.fullName(),
		"title", draft.Title,
		"labels_count", len(draft.Labels))

	labels := draft.Labels
	if labels == nil {
		labels = []string{}
	}
	issue, resp, err := ghc.issuesService.Create(ctx, ghc.owner, ghc.repo, &github.IssueRequest{
		Title:  github.Ptr(draft.Title),
		Body:   github.Ptr(draft.Body),
		Labels: &labels,
	})
	if err != nil {
		log.Error("failed to create github issue", "error", err, "repo", ghc.fullName())
		return nil, ghc.statusError(resp, domainErrors.ErrCreateIssue, "create issue", err)
	}

	out := toIssue(issue)
	log.Info("github issue created successfully", "issue_number", out.Number, "issue_url", out.URL)
	return &out, nil
}

func toPullRequest(pr *github.PullRequest) models.PullRequest {
	return models.PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		URL:    pr.GetHTMLURL(),
		State:  pr.GetState(),
		Head:   pr.GetHead().GetRef(),
		Base:   pr.GetBase().GetRef(),
	}
}

func toIssue(issue *github.Issue) models.Issue {
	labels := make([]models.Label, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		if l.Name != nil {
			labels = append(labels, models.Label{Name: l.GetName(), Color: l.GetColor()})
		}
	}
	return models.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Author:    issue.GetUser().GetLogin(),
		Labels:    labels,
		UpdatedAt: issue.GetUpdatedAt().Time,
		URL:       issue.GetHTMLURL(),
		State:     issue.GetState(),
	}
}

func orState(state string) string {
	switch state {
	case vcs.StateOpen, vcs.StateClosed, vcs.StateAll:
		return state
	}
	return vcs.StateOpen
}

func perPage(limit int) int {
	if limit <= 0 || limit > maxPerPage {
		return maxPerPage
	}
	return limit
}
