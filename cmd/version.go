package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/usecase"
)

var versionProjections = []string{"bin", "docker", "tag", "npm", domain.PartMajor, domain.PartMinor, domain.PartPatch}

// NewVersionCmd creates the version command
func NewVersionCmd(uc *usecase.ResolveVersionUseCase) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:       "version [bin|docker|tag|npm|major|minor|patch]",
		Short:     "Print the version derived from the git state at HEAD",
		Long:      "Print one projection of the current version. A release tag vX.Y.Z at HEAD yields X.Y.Z; otherwise a dev-<commit>[-dirty] snapshot.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: versionProjections,
		RunE: func(cmd *cobra.Command, args []string) error {
			part := "bin"
			if len(args) == 1 {
				part = args[0]
			}
			var v *domain.Version
			if tag != "" {
				var err error
				if v, err = uc.ResolveFromTag(tag); err != nil {
					return err
				}
			} else {
				v = uc.Execute(cmd.Context())
			}
			out, err := projectVersion(v, part)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Resolve from this release tag instead of HEAD")
	return cmd
}

func projectVersion(v *domain.Version, part string) (string, error) {
	switch part {
	case "bin":
		return v.Bin(), nil
	case "docker":
		return v.Docker(), nil
	case "tag":
		return v.TagName(), nil
	case "npm":
		return v.Npm(), nil
	default:
		return v.Part(part)
	}
}
