package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"BUILDKITE",
	"JENKINS_URL",
	"TF_BUILD",
	"CODEBUILD_BUILD_ID",
	"CONTINUOUS_INTEGRATION",
}

// isRunningInCI checks if we're running in a CI/CD environment
func isRunningInCI(lookup func(string) string) bool {
	for _, v := range ciEnvVars {
		if lookup(v) != "" {
			return true
		}
	}
	return false
}

// defaultCIOutput reports whether machine-readable output should be the default for w.
func defaultCIOutput(w io.Writer) bool {
	if isRunningInCI(os.Getenv) {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func addCIOutputFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "ci-output", defaultCIOutput(os.Stdout), "Output in CI-friendly format")
}
