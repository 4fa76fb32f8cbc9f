// Package packages ensures the declared base system packages are present.
//
// Installation goes through the system package manager, which treats
// already-installed packages as no-ops, so the phase is safe to re-run.
// Network or repository errors abort the pipeline with the package
// manager's own diagnostics.
package packages

import (
	"github.com/fkoep/stackup/internal/provisioning"
)

// Provisioner installs the base package set.
type Provisioner struct{}

// NewProvisioner creates a new package provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "packages"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if err := ctx.Runner.Run(ctx, "apt-get", "update"); err != nil {
		return err
	}

	if len(ctx.Config.Packages) == 0 {
		return nil
	}

	args := append([]string{"install", "-y"}, ctx.Config.Packages...)
	if err := ctx.Runner.Run(ctx, "apt-get", args...); err != nil {
		return err
	}

	ctx.Observer.Event(provisioning.Event{
		Type:    provisioning.EventResourceCreated,
		Phase:   p.Name(),
		Message: "base packages installed",
	})
	return nil
}
