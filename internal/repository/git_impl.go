package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/strongdm/leash-release/internal/domain"
)

// gitRepository is the go-git implementation of the GitRepository interface.
// The repository is opened per query so construction never fails outside a checkout.
type gitRepository struct {
	path string
}

// NewGitRepository returns a GitRepository rooted at path; parent directories are
// searched for .git the same way the git CLI does.
func NewGitRepository(path string) GitRepository {
	if path == "" {
		path = "."
	}
	return &gitRepository{path: path}
}

func (r *gitRepository) open(ctx context.Context) (*git.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(r.path, &git.PlainOpenOptions{
		DetectDotGit: true,
		// linked worktrees keep refs and objects in the main repository's .git
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", r.path, err)
	}
	return repo, nil
}

func (r *gitRepository) head(ctx context.Context) (*git.Repository, *plumbing.Reference, error) {
	repo, err := r.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return repo, ref, nil
}

// CurrentBranch returns the short branch name, or "HEAD" for a detached checkout.
func (r *gitRepository) CurrentBranch(ctx context.Context) (string, error) {
	_, ref, err := r.head(ctx)
	if err != nil {
		return "", err
	}
	if !ref.Name().IsBranch() {
		return "HEAD", nil
	}
	return ref.Name().Short(), nil
}

// ShortCommit returns the first seven hex digits of HEAD.
func (r *gitRepository) ShortCommit(ctx context.Context) (string, error) {
	_, ref, err := r.head(ctx)
	if err != nil {
		return "", err
	}
	return ref.Hash().String()[:domain.ShortCommitLength], nil
}

// TagsAtHead returns the sorted names of lightweight and annotated tags whose commit is HEAD.
func (r *gitRepository) TagsAtHead(ctx context.Context) ([]string, error) {
	repo, ref, err := r.head(ctx)
	if err != nil {
		return nil, err
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()
	var tags []string
	err = iter.ForEach(func(tagRef *plumbing.Reference) error {
		target := tagRef.Hash()
		tagObj, err := repo.TagObject(target)
		switch {
		case err == nil:
			commit, err := tagObj.Commit()
			if err != nil {
				// annotated tag pointing at a tree or blob
				return nil
			}
			target = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("failed to read tag %s: %w", tagRef.Name().Short(), err)
		}
		if target == ref.Hash() {
			tags = append(tags, tagRef.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(tags)
	return tags, nil
}

// IsDirty reports whether the worktree differs from HEAD, counting untracked files.
func (r *gitRepository) IsDirty(ctx context.Context) (bool, error) {
	repo, err := r.open(ctx)
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return !status.IsClean(), nil
}
