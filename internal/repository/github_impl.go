package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/strongdm/leash-release/internal/domain"
	"golang.org/x/oauth2"
)

// githubReleaseRepository is the go-github implementation of GithubReleaseRepository.
type githubReleaseRepository struct {
	client *github.Client
}

// NewGithubReleaseRepository creates a GitHub client. An empty token means
// unauthenticated requests, which GitHub rate-limits more aggressively.
func NewGithubReleaseRepository(opts HTTPOptions) (GithubReleaseRepository, error) {
	opts = opts.withDefaults(DefaultGithubAPIURL)
	httpClient := &http.Client{Timeout: opts.Timeout}
	if token := strings.TrimSpace(opts.Token); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = opts.Timeout
	}
	client := github.NewClient(httpClient)
	baseURL, err := url.Parse(opts.BaseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.BaseURL, err)
	}
	client.BaseURL = baseURL
	client.UserAgent = opts.UserAgent
	return &githubReleaseRepository{client: client}, nil
}

// LatestRelease returns the latest published release of ownerRepo ("owner/name").
func (r *githubReleaseRepository) LatestRelease(ctx context.Context, ownerRepo string) (*domain.GithubRelease, error) {
	owner, name, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, domain.NewErrorf(domain.ErrCodeInvalidArgument, "invalid GitHub repository %q", ownerRepo)
	}
	rel, _, err := r.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	out := &domain.GithubRelease{
		Repo:       ownerRepo,
		TagName:    rel.TagName,
		Name:       rel.Name,
		URL:        rel.HTMLURL,
		Draft:      rel.Draft,
		Prerelease: rel.Prerelease,
	}
	if rel.PublishedAt != nil {
		published := rel.PublishedAt.UTC().Format(time.RFC3339)
		out.PublishedAt = &published
	}
	return out, nil
}
