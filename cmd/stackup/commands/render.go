package commands

import (
	"github.com/spf13/cobra"

	"github.com/fkoep/stackup/cmd/stackup/handlers"
)

// Render returns the command that prints the generated manifest without
// touching the host.
func Render() *cobra.Command {
	var (
		configPath string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the generated stack manifest",
		Long: `Render the generated stack files for the configured variant.

Nothing is installed or started; this is a dry-run view of what 'up' would
write. Without --output the manifest is printed to stdout; with --output
the manifest, scanner build definition and (domains variant) proxy config
are written into the given directory. Useful for reviewing changes before
provisioning.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.OutOrStdout(), configPath, outputDir)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write generated files to this directory instead of stdout")

	return cmd
}
