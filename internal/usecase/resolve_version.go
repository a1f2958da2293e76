package usecase

import (
	"context"
	"strings"

	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/pkg/logger"
)

// ResolveVersionUseCase derives the release version from the tags on HEAD.
type ResolveVersionUseCase struct {
	GitRepo repository.GitRepository
}

// Execute returns the release version of the highest vX.Y.Z tag at HEAD,
// or a dev snapshot when no such tag exists. Other tags are ignored.
func (uc *ResolveVersionUseCase) Execute(ctx context.Context) *domain.Version {
	log := logger.FromContext(ctx)
	var tags []string
	if uc.GitRepo != nil {
		var err error
		tags, err = uc.GitRepo.TagsAtHead(ctx)
		if err != nil {
			log.Debug("No tags readable at HEAD", "err", err)
		}
	}
	if v := highestReleaseTag(tags); v != nil {
		log.Debug("Resolved release version", "tag", v.Tag)
		return v
	}
	state := (&ResolveGitStateUseCase{GitRepo: uc.GitRepo}).Execute(ctx)
	return domain.NewSnapshotVersion(state)
}

// ResolveFromTag resolves an explicitly supplied tag instead of reading git.
func (uc *ResolveVersionUseCase) ResolveFromTag(tag string) (*domain.Version, error) {
	tag = strings.TrimSpace(tag)
	v, ok := domain.ParseReleaseTag(tag)
	if !ok {
		return nil, domain.NewErrorf(domain.ErrCodeInvalidArgument, "tag %q does not match vX.Y.Z", tag)
	}
	return v, nil
}

func highestReleaseTag(tags []string) *domain.Version {
	var best *domain.Version
	for _, tag := range tags {
		v, ok := domain.ParseReleaseTag(tag)
		if !ok {
			continue
		}
		if best == nil {
			best = v
			continue
		}
		switch c := v.Compare(best); {
		case c > 0, c == 0 && v.Tag < best.Tag:
			best = v
		}
	}
	return best
}
