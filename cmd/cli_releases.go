package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/usecase"
)

// NewCLIReleasesCmd creates the cli-releases command
func NewCLIReleasesCmd(uc *usecase.AggregateCLIReleasesUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cli-releases",
		Short: "Report the latest npm and GitHub releases of the supported coder CLIs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().IntVar(&uc.Concurrency, "concurrency", uc.Concurrency, "Maximum concurrent fetches")
	return cmd
}
