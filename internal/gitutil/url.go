// Package gitutil parses GitHub repository slugs and pull request URLs.
package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)
	nameRegex  = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ParseRepoSlug splits "owner/repo" into its parts. Full repository URLs
// ("https://github.com/owner/repo.git") are accepted too.
func ParseRepoSlug(slug string) (owner, repo string, err error) {
	s := strings.TrimSpace(slug)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		s = s[i+len("github.com/"):]
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 || !nameRegex.MatchString(parts[0]) || !nameRegex.MatchString(parts[1]) {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", slug)
	}
	return parts[0], parts[1], nil
}

// ParsePullRequestURL extracts the owner, repo and number from
// https://github.com/{owner}/{repo}/pull/{number}.
func ParsePullRequestURL(url string) (owner, repo string, prNumber int, err error) {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")

	m := prURLRegex.FindStringSubmatch(url)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", url)
	}
	prNumber, err = strconv.Atoi(m[3])
	if err != nil || prNumber <= 0 {
		return "", "", 0, fmt.Errorf("invalid PR number '%s'", m[3])
	}
	return m[1], m[2], prNumber, nil
}

// ParsePRRef accepts either a bare PR number ("123", "#123") or a pull
// request URL, which must belong to owner/repo.
func ParsePRRef(ref, owner, repo string) (int, error) {
	r := strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if n, err := strconv.Atoi(r); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid PR number %d", n)
		}
		return n, nil
	}

	o, rp, n, err := ParsePullRequestURL(ref)
	if err != nil {
		return 0, err
	}
	if !strings.EqualFold(o, owner) || !strings.EqualFold(rp, repo) {
		return 0, fmt.Errorf("pull request %s does not belong to %s/%s", ref, owner, repo)
	}
	return n, nil
}
