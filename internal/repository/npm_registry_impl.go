package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/strongdm/leash-release/internal/domain"
)

const (
	DefaultNpmRegistryURL = "https://registry.npmjs.org"
	DefaultGithubAPIURL   = "https://api.github.com"
	DefaultUserAgent      = "leash-coder-cli-releases/1.0 (+https://github.com/strongdm/leash)"
	DefaultHTTPTimeout    = 30 * time.Second
)

// ErrMissingLatestTag is returned when a packument has no dist-tags.latest entry.
var ErrMissingLatestTag = errors.New("missing dist-tags.latest")

// HTTPOptions configures the registry and GitHub clients.
type HTTPOptions struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

func (o HTTPOptions) withDefaults(baseURL string) HTTPOptions {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultHTTPTimeout
	}
	return o
}

type packument struct {
	DistTags map[string]string `json:"dist-tags"`
	Versions map[string]struct {
		Dist struct {
			Tarball   string `json:"tarball"`
			Integrity string `json:"integrity"`
		} `json:"dist"`
	} `json:"versions"`
	Time map[string]string `json:"time"`
}

// npmRegistryRepository is the resty implementation of NpmRegistryRepository.
type npmRegistryRepository struct {
	client *resty.Client
}

// NewNpmRegistryRepository creates a registry client; zero options mean the public registry.
func NewNpmRegistryRepository(opts HTTPOptions) NpmRegistryRepository {
	opts = opts.withDefaults(DefaultNpmRegistryURL)
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)
	return &npmRegistryRepository{client: client}
}

// LatestRelease fetches the packument for pkg and resolves its latest dist-tag.
func (r *npmRegistryRepository) LatestRelease(ctx context.Context, pkg string) (*domain.NpmRelease, error) {
	if strings.TrimSpace(pkg) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidArgument, "package not specified")
	}
	var doc packument
	path := "/" + url.PathEscape(pkg)
	resp, err := r.client.R().SetContext(ctx).SetResult(&doc).Get(path)
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", r.client.BaseURL, path, err)
	}
	if resp.IsError() {
		return nil, statusError(r.client.BaseURL+path, resp)
	}
	latest := doc.DistTags["latest"]
	if latest == "" {
		return nil, ErrMissingLatestTag
	}
	release := &domain.NpmRelease{
		Package:       pkg,
		LatestVersion: latest,
		DistTags:      doc.DistTags,
	}
	if v, ok := doc.Versions[latest]; ok {
		release.Tarball = optionalString(v.Dist.Tarball)
		release.Integrity = optionalString(v.Dist.Integrity)
	}
	release.PublishedAt = optionalString(doc.Time[latest])
	return release, nil
}

func statusError(target string, resp *resty.Response) error {
	detail := strings.TrimSpace(resp.String())
	if detail == "" {
		detail = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%s: %s: %s", target, resp.Status(), detail)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
