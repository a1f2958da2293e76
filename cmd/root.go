package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/pkg/logger"
	"github.com/strongdm/leash-release/pkg/version"
)

// NewRootCmd creates the leash-release root command without subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leash-release",
		Short:         "Release identity and npm packaging for leash",
		Version:       version.Get().String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			log := logger.SetupLogger(cmd.ErrOrStderr(), logLevel, logJSON, logSource)
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
			return nil
		},
	}
	root.PersistentFlags().String("log-level", string(logger.InfoLevel), "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "Include source location in logs")
	return root
}

// Execute builds the command tree and runs it. Any error exits with status 1.
func Execute() {
	root := NewRootCmd()
	if err := InitCommands(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}
