// Package tlscerts provisions self-signed certificate pairs and local
// hostname aliases for the domains variant.
package tlscerts

import (
	"fmt"
	"os"

	"github.com/fkoep/stackup/internal/certs"
	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/proxy"
	"github.com/fkoep/stackup/internal/util/hostsfile"
)

const defaultHostsPath = "/etc/hosts"

// Provisioner generates one certificate pair per proxied hostname and maps
// each hostname to the loopback address in the hosts file.
type Provisioner struct {
	// HostsPath is the hosts file receiving the aliases; overridable for
	// tests.
	HostsPath string
}

// NewProvisioner creates a certificate provisioner writing to the system
// hosts file.
func NewProvisioner() *Provisioner {
	return &Provisioner{HostsPath: defaultHostsPath}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "tls-certs"
}

// Provision implements the provisioning.Phase interface. Existing pairs and
// alias lines are left untouched, so renewing a certificate means deleting
// the pair and re-running.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	certDir := ctx.Config.DataDir(config.DirProxyCerts)
	if err := os.MkdirAll(certDir, 0o755); err != nil {
		return fmt.Errorf("failed to create certificate directory: %w", err)
	}

	for _, route := range proxy.Routes(ctx.Config) {
		created, err := certs.EnsurePair(certDir, route.Hostname)
		if err != nil {
			return err
		}
		eventType := provisioning.EventResourceExists
		message := "certificate pair already present"
		if created {
			eventType = provisioning.EventResourceCreated
			message = "certificate pair generated"
		}
		ctx.Observer.Event(provisioning.Event{
			Type:     eventType,
			Phase:    p.Name(),
			Resource: route.Hostname,
			Message:  message,
		})

		line := "127.0.0.1 " + route.Hostname
		if _, err := hostsfile.EnsureLine(p.HostsPath, line); err != nil {
			return fmt.Errorf("failed to register hosts alias for %s: %w", route.Hostname, err)
		}
	}

	return nil
}
