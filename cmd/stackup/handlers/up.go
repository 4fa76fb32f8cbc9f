// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework.
package handlers

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/client"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/manifest"
	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/provisioning/emit"
	"github.com/fkoep/stackup/internal/provisioning/packages"
	"github.com/fkoep/stackup/internal/provisioning/report"
	"github.com/fkoep/stackup/internal/provisioning/runtime"
	"github.com/fkoep/stackup/internal/provisioning/stack"
	"github.com/fkoep/stackup/internal/provisioning/tlscerts"
	"github.com/fkoep/stackup/internal/provisioning/workspace"
	"github.com/fkoep/stackup/internal/util/execx"
	"github.com/fkoep/stackup/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// newRunner creates the command runner used by the pipeline.
	newRunner = func() execx.Runner {
		return execx.NewRunner("DEBIAN_FRONTEND=noninteractive")
	}

	// newDockerAPI connects to the container runtime API.
	newDockerAPI = func(_ context.Context) (provisioning.RuntimeAPI, error) {
		return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	}

	// runPhases executes the assembled pipeline.
	runPhases = provisioning.RunPhases
)

// Up provisions the full developer stack on this host.
//
// The workflow:
//  1. Loads and validates the configuration
//  2. Verifies required host tools are present
//  3. Installs base packages and the container runtime
//  4. Prepares the data directory tree and (domains variant) certificates
//  5. Emits the manifest and build context, builds and starts the stack
//  6. Waits for readiness and prints the access report
func Up(ctx context.Context, configPath string, domains bool) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	if domains {
		cfg.Variant = config.VariantDomains
	}

	if err := checkDefaultPrereqs().Error(); err != nil {
		return err
	}

	log.Info("provisioning stack", "project", cfg.Project, "variant", string(cfg.Variant))

	m := manifest.DevStack(cfg)
	pctx := provisioning.NewContext(ctx, cfg, m, newRunner(), newDockerAPI)

	return runPhases(pctx, assemblePhases(cfg))
}

// assemblePhases returns the pipeline for the configured variant, in
// execution order.
func assemblePhases(cfg *config.Config) []provisioning.Phase {
	phases := []provisioning.Phase{
		packages.NewProvisioner(),
		runtime.NewInstaller(),
		runtime.NewConfigurator(),
		workspace.NewProvisioner(),
	}
	if cfg.Variant == config.VariantDomains {
		phases = append(phases, tlscerts.NewProvisioner())
	}
	return append(phases,
		emit.NewProvisioner(),
		stack.NewProvisioner(),
		report.NewProvisioner(),
	)
}
