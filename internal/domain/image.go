package domain

import "strings"

// ImageRef is a container image reference split into repository and default reference.
type ImageRef struct {
	// Repository is the reference without tag or digest.
	Repository string
	// Default is the reference as supplied; digests are never rewritten.
	Default string
}

// ParseImageRef splits image into repository and default reference.
//
//	ghcr.io/org/app:latest          -> (ghcr.io/org/app, ghcr.io/org/app:latest)
//	ghcr.io/org/app                 -> (ghcr.io/org/app, ghcr.io/org/app)
//	ghcr.io/org/app@sha256:...      -> (ghcr.io/org/app, ghcr.io/org/app@sha256:...)
//	localhost:5000/app              -> (localhost:5000/app, localhost:5000/app)
//	app:                            -> (app, app)
//	:latest                         -> (:latest, :latest)
func ParseImageRef(image string) (ImageRef, error) {
	if image == "" {
		return ImageRef{}, NewError(ErrCodeInvalidArgument, "image value is required")
	}
	if repo, _, found := strings.Cut(image, "@"); found {
		if repo == "" {
			return ImageRef{}, NewErrorf(ErrCodeInvalidArgument, "unable to determine image repository for %q", image)
		}
		return ImageRef{Repository: repo, Default: image}, nil
	}
	idx := strings.LastIndex(image, ":")
	if idx <= 0 || strings.Contains(image[idx+1:], "/") {
		return ImageRef{Repository: image, Default: image}, nil
	}
	repo := image[:idx]
	if idx == len(image)-1 {
		// "repo:" has an empty tag and reads as the untagged reference
		return ImageRef{Repository: repo, Default: repo}, nil
	}
	return ImageRef{Repository: repo, Default: image}, nil
}

// Tagged returns repository:tag.
func (r ImageRef) Tagged(tag string) string {
	return r.Repository + ":" + tag
}
