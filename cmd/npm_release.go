package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/config"
	"github.com/strongdm/leash-release/internal/orchestrator"
)

// NewNpmReleaseCmd creates the npm-release command
func NewNpmReleaseCmd(orch *orchestrator.ReleaseNPMOrchestrator, cfg *config.Config) *cobra.Command {
	var rc orchestrator.ReleaseNPMConfig
	cmd := &cobra.Command{
		Use:   "npm-release",
		Short: "Collect the vendor tree and build the npm package in one step",
		Long: `Collect the vendor tree and build the npm package in one step.

The package version is the npm projection of the release tag at HEAD,
or of --tag when given. Untagged commits produce a 0.0.0-dev-<commit> prerelease.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := orch.Execute(cmd.Context(), rc)
			return err
		},
	}
	cmd.Flags().StringVar(&rc.Tag, "tag", "", "Release tag to package (defaults to the tag at HEAD)")
	cmd.Flags().StringVar(&rc.DistDir, "dist", cfg.Dist.Dir, "Directory holding the release archives")
	cmd.Flags().StringVar(&rc.VendorDir, "vendor", cfg.Dist.VendorDir, "Vendor tree directory")
	cmd.Flags().StringVar(&rc.PackageRoot, "package-root", cfg.Npm.PackageRoot, "Package scaffold directory")
	cmd.Flags().StringVar(&rc.LicenseFile, "license", cfg.Npm.License, "License file to ship")
	cmd.Flags().StringVar(&rc.StageDir, "stage-dir", cfg.Npm.StageDir, "Pinned staging directory (temporary when empty)")
	cmd.Flags().StringVar(&rc.OutDir, "out", cfg.Npm.OutDir, "Tarball output directory")
	cmd.Flags().BoolVar(&rc.Force, "force", false, "Replace existing vendor and staging directories")
	addCIOutputFlag(cmd, &rc.CIOutput)
	return cmd
}
