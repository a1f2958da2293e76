package repository

import (
	"context"

	"github.com/spf13/afero"
	"github.com/strongdm/leash-release/internal/domain"
)

// FileSystemRepository is the filesystem the release stages read from and write to.
type FileSystemRepository interface {
	afero.Fs
}

// GitRepository answers the read-only queries release versioning needs.
// Every method may fail outside a checkout; callers decide on fallbacks.
type GitRepository interface {
	// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
	CurrentBranch(ctx context.Context) (string, error)
	// ShortCommit returns the abbreviated HEAD commit id.
	ShortCommit(ctx context.Context) (string, error)
	// TagsAtHead returns every tag that points exactly at HEAD.
	TagsAtHead(ctx context.Context) ([]string, error)
	// IsDirty reports uncommitted changes, tracked or untracked.
	IsDirty(ctx context.Context) (bool, error)
}

// NpmRegistryRepository reads package metadata from an npm registry.
type NpmRegistryRepository interface {
	LatestRelease(ctx context.Context, pkg string) (*domain.NpmRelease, error)
}

// GithubReleaseRepository reads release metadata from GitHub.
type GithubReleaseRepository interface {
	LatestRelease(ctx context.Context, ownerRepo string) (*domain.GithubRelease, error)
}
