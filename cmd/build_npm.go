package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/config"
	"github.com/strongdm/leash-release/internal/usecase"
)

// NewBuildNpmCmd creates the build-npm command
func NewBuildNpmCmd(uc *usecase.AssemblePackageUseCase, cfg *config.Config) *cobra.Command {
	var (
		in       usecase.AssemblePackageInput
		ciOutput bool
	)
	cmd := &cobra.Command{
		Use:   "build-npm",
		Short: "Stage the npm package and pack it into a tarball",
		RunE: func(cmd *cobra.Command, _ []string) error {
			artifact, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if ciOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "tarball=%s\n", artifact)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ npm package created: %s\n", artifact)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Version, "version", "", "Package version (required)")
	cmd.Flags().StringVar(&in.PackageRoot, "package-root", cfg.Npm.PackageRoot, "Package scaffold directory")
	cmd.Flags().StringVar(&in.VendorDir, "vendor", cfg.Dist.VendorDir, "Vendor tree to ship")
	cmd.Flags().StringVar(&in.LicenseFile, "license", cfg.Npm.License, "License file to ship")
	cmd.Flags().StringVar(&in.StageDir, "stage-dir", cfg.Npm.StageDir, "Pinned staging directory (temporary when empty)")
	cmd.Flags().StringVar(&in.OutDir, "out", cfg.Npm.OutDir, "Tarball output directory")
	cmd.Flags().BoolVar(&in.Force, "force", false, "Replace an existing pinned staging directory")
	addCIOutputFlag(cmd, &ciOutput)
	_ = cmd.MarkFlagRequired("version")
	return cmd
}
