package commands

import (
	"github.com/spf13/cobra"

	"github.com/fkoep/stackup/cmd/stackup/handlers"
)

// Up returns the command that provisions the full stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: compiled-in defaults)
//	--domains:    Front services with the TLS reverse proxy under hostname aliases
func Up() *cobra.Command {
	var (
		configPath string
		domains    bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision and start the stack",
		Long: `Provision and start the developer toolchain on this host.

This command installs the container runtime if needed, prepares the data
directories, generates the stack files, builds the custom scanner image,
starts all services and waits for the CI server to come up. It must run as
root. Re-running is safe; completed work is detected and skipped.

Examples:
  # Provision with compiled-in defaults
  sudo stackup up

  # Provision behind the TLS reverse proxy
  sudo stackup up --domains

  # Provision using a specific config file
  sudo stackup up -c stackup.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, domains)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&domains, "domains", false, "Expose services via the TLS reverse proxy")

	return cmd
}
