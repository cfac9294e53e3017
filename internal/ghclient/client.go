// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

// Package ghclient fetches the file list for a pull request from GitHub and
// maps it onto dup.FileDescriptor, and resolves a local repository's
// owner/repo from its git remotes.
package ghclient

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/davetashner/dupcheck/internal/dup"
	"github.com/davetashner/dupcheck/internal/testable"
)

// DefaultMaxPRFiles caps how many changed files are pulled per PR. Files are
// fetched 100 per page; larger PRs are fetched up to this cap and the
// remainder is dropped rather than paginated indefinitely.
const DefaultMaxPRFiles = 300

// sshRemotePattern matches git@github.com:owner/repo.git SSH URLs.
var sshRemotePattern = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)

// pullRequestFilesAPI abstracts the subset of go-github used to fetch a PR's
// changed files, so tests can inject a fake without hitting the network.
type pullRequestFilesAPI interface {
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

// Client fetches pull-request file lists from GitHub.
type Client struct {
	api        pullRequestFilesAPI
	maxPRFiles int
}

// New creates a Client authenticated with token. An empty token creates an
// unauthenticated client, which GitHub heavily rate-limits.
func New(token string, maxPRFiles int) *Client {
	if maxPRFiles <= 0 {
		maxPRFiles = DefaultMaxPRFiles
	}
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{api: gh.PullRequests, maxPRFiles: maxPRFiles}
}

// ListPRFiles fetches the changed files for a pull request and maps each one
// onto a dup.FileDescriptor, paginating until either GitHub runs out of pages
// or maxPRFiles is reached.
func (c *Client) ListPRFiles(ctx context.Context, owner, repo string, number int) ([]dup.FileDescriptor, error) {
	var out []dup.FileDescriptor
	opts := &github.ListOptions{PerPage: 100}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, resp, err := c.api.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing PR #%d files for %s/%s: %w", number, owner, repo, err)
		}

		for _, f := range files {
			out = append(out, dup.FileDescriptor{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
			if len(out) >= c.maxPRFiles {
				return out, nil
			}
		}

		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ResolveRemote opens the git repository at repoPath with opener and parses
// its "origin" remote URL into an owner/repo pair.
func ResolveRemote(opener testable.GitOpener, repoPath string) (owner, repo string, err error) {
	gitRepo, err := opener.PlainOpen(repoPath)
	if err != nil {
		return "", "", fmt.Errorf("opening repo: %w", err)
	}

	remotes, err := gitRepo.Remotes()
	if err != nil {
		return "", "", fmt.Errorf("listing remotes: %w", err)
	}

	var originURLs []string
	for _, r := range remotes {
		if r.Config().Name == "origin" {
			originURLs = r.Config().URLs
			break
		}
	}
	if len(originURLs) == 0 {
		return "", "", fmt.Errorf("no origin remote found")
	}

	return parseGitHubURL(originURLs[0])
}

// parseGitHubURL parses a GitHub remote URL (HTTPS or SSH) into owner/repo.
func parseGitHubURL(rawURL string) (owner, repo string, err error) {
	if m := sshRemotePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	if parsed.Host != "github.com" {
		return "", "", fmt.Errorf("remote %q is not a GitHub URL", rawURL)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot parse owner/repo from %q", rawURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	return owner, repo, nil
}

// ParsePRRef splits a "owner/repo#number" reference into its parts.
func ParsePRRef(ref string) (owner, repo string, number int, err error) {
	slashIdx := strings.Index(ref, "/")
	hashIdx := strings.LastIndex(ref, "#")
	if slashIdx < 0 || hashIdx < 0 || hashIdx < slashIdx {
		return "", "", 0, fmt.Errorf("invalid PR reference %q; expected owner/repo#number", ref)
	}

	owner = ref[:slashIdx]
	repo = ref[slashIdx+1 : hashIdx]
	numStr := ref[hashIdx+1:]

	n, convErr := strconv.Atoi(numStr)
	if convErr != nil || n <= 0 {
		return "", "", 0, fmt.Errorf("invalid PR number %q", numStr)
	}
	return owner, repo, n, nil
}
