package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/usecase"
)

// NewCheckRegistryLoginCmd creates the check-registry-login command
func NewCheckRegistryLoginCmd(uc *usecase.CheckRegistryLoginUseCase, dockerConfigDir string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-registry-login [config.json]",
		Short: "Check that the docker config carries credentials for the registry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				home, err := os.UserHomeDir()
				if err != nil && dockerConfigDir == "" {
					return fmt.Errorf("failed to locate docker config: %w", err)
				}
				path = usecase.DockerConfigPath(dockerConfigDir, home)
			}
			res := uc.Execute(cmd.Context(), path)
			if !res.LoggedIn {
				return fmt.Errorf("not logged in to %s (%s): %s", res.Registry, res.ConfigPath, res.Reason)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Reason)
			return nil
		},
	}
	cmd.Flags().StringVar(&uc.Registry, "registry", uc.Registry, "Registry host to look for")
	return cmd
}
