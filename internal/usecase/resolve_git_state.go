package usecase

import (
	"context"

	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/pkg/logger"
)

// ResolveGitStateUseCase reads branch, commit and dirtiness from the checkout.
// It never fails: each query that cannot be answered falls back to its default.
type ResolveGitStateUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case.
func (uc *ResolveGitStateUseCase) Execute(ctx context.Context) domain.GitState {
	log := logger.FromContext(ctx)
	if uc.GitRepo == nil {
		return domain.DefaultGitState()
	}

	branch, err := uc.GitRepo.CurrentBranch(ctx)
	if err != nil {
		log.Debug("Falling back to default branch", "default", domain.DefaultBranch, "err", err)
		branch = ""
	}
	commit, err := uc.GitRepo.ShortCommit(ctx)
	if err != nil {
		log.Debug("Falling back to default commit", "default", domain.DefaultShortCommit, "err", err)
		commit = ""
	}
	dirty, err := uc.GitRepo.IsDirty(ctx)
	if err != nil {
		log.Debug("Treating worktree as clean", "err", err)
		dirty = false
	}
	return domain.NewGitState(branch, commit, dirty)
}
