// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the stackup CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackup",
		Short: "Provision a containerized developer toolchain on this host",
	}

	cmd.AddCommand(Up())
	cmd.AddCommand(Render())
	cmd.AddCommand(Report())
	cmd.AddCommand(Version())

	return cmd
}
