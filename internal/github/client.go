// Package github fetches pull requests, diffs and automated review comments
// from the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/review-bench/internal/core"
)

const maxPerPage = 100

// Client is the fetch collaborator of an evaluation run. Every method may
// fail with a transport error; callers treat that as fatal for one PR only.
//
//go:generate mockgen -destination=../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	FetchRecentPRs(ctx context.Context, limit int) ([]core.PullRequest, error)
	FetchPRDiff(ctx context.Context, number int) (core.PRDiff, error)
	FetchPRComments(ctx context.Context, number int) ([]core.ReviewComment, error)
}

type gitHubClient struct {
	client *github.Client
	owner  string
	repo   string
	logger *slog.Logger
}

// NewGitHubClient wraps a go-github client scoped to one repository.
func NewGitHubClient(client *github.Client, owner, repo string, logger *slog.Logger) Client {
	return &gitHubClient{client: client, owner: owner, repo: repo, logger: logger}
}

// FetchRecentPRs lists up to limit pull requests in any state, newest first.
func (g *gitHubClient) FetchRecentPRs(ctx context.Context, limit int) ([]core.PullRequest, error) {
	if limit <= 0 {
		return nil, nil
	}
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: min(limit, maxPerPage)},
	}

	prs := make([]core.PullRequest, 0, limit)
	for len(prs) < limit {
		page, resp, err := g.client.PullRequests.List(ctx, g.owner, g.repo, opts)
		if err != nil {
			g.logger.Error("failed to list pull requests", "owner", g.owner, "repo", g.repo, "page", opts.Page, "error", err)
			return nil, fmt.Errorf("listing pull requests for %s/%s: %w", g.owner, g.repo, err)
		}
		for _, pr := range page {
			if len(prs) == limit {
				break
			}
			prs = append(prs, core.PullRequest{
				Number:  pr.GetNumber(),
				Title:   pr.GetTitle(),
				HTMLURL: pr.GetHTMLURL(),
				Author:  pr.GetUser().GetLogin(),
			})
		}
		if len(page) == 0 || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

// FetchPRDiff retrieves the unified diff of a pull request.
func (g *gitHubClient) FetchPRDiff(ctx context.Context, number int) (core.PRDiff, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, g.owner, g.repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", g.owner, "repo", g.repo, "pr", number, "error", err)
		return core.PRDiff{}, fmt.Errorf("fetching diff for PR #%d: %w", number, err)
	}
	return core.PRDiff{
		PRNumber:     number,
		DiffContent:  diff,
		FilesChanged: ParseFilesChanged(diff),
	}, nil
}

// FetchPRComments returns the review comments on a pull request whose
// author is an automated account (user type containing "bot").
func (g *gitHubClient) FetchPRComments(ctx context.Context, number int) ([]core.ReviewComment, error) {
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: maxPerPage},
	}

	var comments []core.ReviewComment
	for {
		page, resp, err := g.client.PullRequests.ListComments(ctx, g.owner, g.repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list review comments", "owner", g.owner, "repo", g.repo, "pr", number, "error", err)
			return nil, fmt.Errorf("fetching comments for PR #%d: %w", number, err)
		}
		for _, c := range page {
			if !isBot(c.GetUser()) {
				continue
			}
			comments = append(comments, core.ReviewComment{
				FileName:    c.GetPath(),
				Chunk:       c.GetDiffHunk(),
				Comment:     c.GetBody(),
				LineNumbers: optionalInt(c.Line) + "-" + optionalInt(c.OriginalLine),
				BotName:     c.GetUser().GetLogin(),
				PRNumber:    number,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.logger.Debug("fetched bot review comments", "pr", number, "count", len(comments))
	return comments, nil
}

func isBot(u *github.User) bool {
	return strings.Contains(strings.ToLower(u.GetType()), "bot")
}

func optionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
