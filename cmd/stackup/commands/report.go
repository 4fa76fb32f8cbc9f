package commands

import (
	"github.com/spf13/cobra"

	"github.com/fkoep/stackup/cmd/stackup/handlers"
)

// Report returns the command that reprints the access data for an already
// provisioned stack.
func Report() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print endpoints and credential locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Report(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	return cmd
}
