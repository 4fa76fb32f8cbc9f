// Package stack builds the custom images, starts the stack and waits for it
// to become ready.
package stack

import (
	"fmt"

	"github.com/fkoep/stackup/internal/provisioning"
)

// Provisioner drives the compose plugin against the emitted manifest.
type Provisioner struct{}

// NewProvisioner creates a stack provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "stack"
}

// Provision implements the provisioning.Phase interface. Custom images are
// rebuilt without cache so base image updates are always picked up; starting
// with --remove-orphans clears containers from services dropped since the
// last run.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	manifestPath := ctx.Config.ManifestPath()

	if ctx.Manifest.HasBuilds() {
		if err := ctx.Runner.Run(ctx, "docker", "compose", "-f", manifestPath, "build", "--no-cache"); err != nil {
			return fmt.Errorf("image build failed: %w", err)
		}
	}

	if err := ctx.Runner.Run(ctx, "docker", "compose", "-f", manifestPath, "up", "-d", "--remove-orphans"); err != nil {
		return fmt.Errorf("stack start failed: %w", err)
	}
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    p.Name(),
		Resource: ctx.Config.Project,
		Message:  "stack started",
	})

	wait := ctx.Config.Wait
	if !wait.Enabled {
		return nil
	}

	signal, err := newSignal(ctx)
	if err != nil {
		return err
	}
	return Wait(ctx, signal, wait.Interval.Std(), wait.MaxAttempts, nil)
}

func newSignal(ctx *provisioning.Context) (Signal, error) {
	wait := ctx.Config.Wait
	switch {
	case wait.LogPattern != "":
		return &LogSignal{
			Docker:    ctx.Docker,
			Container: ctx.Config.Project + "-" + wait.Service,
			Pattern:   wait.LogPattern,
		}, nil
	case wait.File != "":
		return &FileSignal{Path: wait.File}, nil
	default:
		return nil, fmt.Errorf("readiness wait enabled but no signal configured")
	}
}
