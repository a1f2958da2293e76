package usecase

import (
	"context"

	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/pkg/logger"
)

// ComputeDockerTagsInput is the caller input for docker tag computation.
type ComputeDockerTagsInput struct {
	domain.TagRequest
	// AutoVersion fills an empty Version from the tags at HEAD.
	AutoVersion bool
}

// ComputeDockerTagsUseCase derives the image tag set for the current checkout.
type ComputeDockerTagsUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case.
func (uc *ComputeDockerTagsUseCase) Execute(ctx context.Context, in ComputeDockerTagsInput) (*domain.TagResult, error) {
	req := in.TagRequest
	if in.AutoVersion && req.Version == "" {
		req.Version = (&ResolveVersionUseCase{GitRepo: uc.GitRepo}).Execute(ctx).Docker()
	}
	state := (&ResolveGitStateUseCase{GitRepo: uc.GitRepo}).Execute(ctx)
	res, err := domain.ComputeTags(req, state)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("Computed docker tags", "count", res.Tags.Len(), "channel", res.Channel)
	return res, nil
}
