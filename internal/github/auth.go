package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v73/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/sevigo/review-bench/internal/gitutil"
)

// newTransport builds the shared HTTP stack: ETag caching underneath
// secondary rate limit handling. Authentication is layered on top by the
// caller.
func newTransport() *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	return github_ratelimit.NewClient(cacheTransport)
}

// NewPATClient creates a client authenticated with a personal access token
// for the repository slug "owner/repo".
func NewPATClient(ctx context.Context, token, repoSlug string, logger *slog.Logger) (Client, error) {
	owner, repo, err := gitutil.ParseRepoSlug(repoSlug)
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, newTransport()), ts)
	return NewGitHubClient(github.NewClient(tc), owner, repo, logger), nil
}

// NewInstallationClient creates a client authenticated as a GitHub App
// installation. Tokens are minted and refreshed by the transport.
func NewInstallationClient(appID, installationID int64, privateKeyPath, repoSlug string, logger *slog.Logger) (Client, error) {
	owner, repo, err := gitutil.ParseRepoSlug(repoSlug)
	if err != nil {
		return nil, err
	}

	logger.Info("creating GitHub installation client", "app_id", appID, "installation_id", installationID)
	itr, err := ghinstallation.NewKeyFromFile(newTransport().Transport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport from %s: %w", privateKeyPath, err)
	}
	client := github.NewClient(&http.Client{Transport: itr})
	return NewGitHubClient(client, owner, repo, logger), nil
}

// NewClientWithHTTPClient points a client at baseURL (which must end in a
// slash). Used against httptest servers and GitHub Enterprise.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, repoSlug string, logger *slog.Logger) (Client, error) {
	owner, repo, err := gitutil.ParseRepoSlug(repoSlug)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client := github.NewClient(httpClient)
	client.BaseURL = u
	return NewGitHubClient(client, owner, repo, logger), nil
}
