package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/config"
	"github.com/strongdm/leash-release/internal/usecase"
)

// NewCollectVendorCmd creates the collect-vendor command
func NewCollectVendorCmd(uc *usecase.CollectVendorUseCase, cfg *config.Config) *cobra.Command {
	var (
		distDir  string
		outDir   string
		force    bool
		ciOutput bool
	)
	cmd := &cobra.Command{
		Use:   "collect-vendor",
		Short: "Extract per-platform binaries from release archives into the npm vendor tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := uc.Execute(cmd.Context(), usecase.CollectVendorInput{
				DistDir: distDir,
				OutDir:  outDir,
				Force:   force,
			})
			if err != nil {
				return err
			}
			if ciOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "vendor_dir=%s\n", tree.Root)
				return nil
			}
			for _, b := range tree.Binaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", b.Target, b.Archive, b.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Vendor tree ready: %s\n", tree.Root)
			return nil
		},
	}
	cmd.Flags().StringVar(&distDir, "dist", cfg.Dist.Dir, "Directory holding the release archives")
	cmd.Flags().StringVar(&outDir, "out", cfg.Dist.VendorDir, "Vendor tree output directory")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing vendor tree")
	addCIOutputFlag(cmd, &ciOutput)
	return cmd
}
