package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/usecase"
)

// NewDockerTagsCmd creates the docker-tags command
func NewDockerTagsCmd(uc *usecase.ComputeDockerTagsUseCase, defaultImage string) *cobra.Command {
	var (
		image       string
		version     string
		extraTags   []string
		autoVersion bool
	)
	cmd := &cobra.Command{
		Use:   "docker-tags",
		Short: "Compute the image tag set for the current commit",
		Long: `Compute the image tag set for the current commit and print it as
shell-quoted KEY=value assignments, suitable for eval or $GITHUB_OUTPUT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := uc.Execute(cmd.Context(), usecase.ComputeDockerTagsInput{
				TagRequest: domain.TagRequest{
					Image:     image,
					Version:   version,
					ExtraTags: extraTags,
				},
				AutoVersion: autoVersion,
			})
			if err != nil {
				return err
			}
			lines, err := res.ShellAssignments()
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&image, "image", defaultImage, "Image reference, e.g. ghcr.io/strongdm/leash:latest")
	cmd.Flags().StringVar(&version, "version", "", "Version tag to add")
	cmd.Flags().StringArrayVar(&extraTags, "extra-tag", nil, "Additional full image reference (repeatable)")
	cmd.Flags().BoolVar(&autoVersion, "auto-version", false, "Derive --version from the git state when not set")
	return cmd
}
