// Package provisioning provides the shared types for the provisioning
// pipeline.
//
// The pipeline is a fixed, ordered list of idempotent phases. Control flows
// strictly forward: each phase assumes the previous one succeeded, and the
// first failure aborts the run. Reruns are safe — phases check existing
// host state before acting.
//
// The phases themselves live in focused subpackages:
//   - packages/  — base system package installation
//   - runtime/   — container runtime install and daemon configuration
//   - workspace/ — persisted state directory tree
//   - tlscerts/  — per-hostname self-signed certificates (domains variant)
//   - emit/      — manifest, build context and proxy config generation
//   - stack/     — image build, stack start, readiness wait
package provisioning

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/manifest"
	"github.com/fkoep/stackup/internal/util/execx"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// RuntimeAPI is the subset of the container runtime's HTTP API the pipeline
// uses. Satisfied by the Docker SDK client.
type RuntimeAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerLogs(ctx context.Context, container string, options container.LogsOptions) (io.ReadCloser, error)
}

// State holds results shared between phases. Host state itself lives on the
// filesystem; this only carries values later phases would otherwise have to
// recompute.
type State struct {
	// HostIP is the host's primary address, resolved by the report step.
	HostIP string
}

// Context wraps the dependencies and state threaded through every phase.
type Context struct {
	context.Context

	Config   *config.Config
	Manifest *manifest.Manifest
	Runner   execx.Runner
	State    *State
	Observer Observer

	// Docker lazily connects to the container runtime API. Lazy because the
	// runtime may not be installed until the runtime phase has run.
	Docker func(ctx context.Context) (RuntimeAPI, error)
}

// NewContext creates a provisioning context with an empty state.
func NewContext(ctx context.Context, cfg *config.Config, m *manifest.Manifest, runner execx.Runner, docker func(ctx context.Context) (RuntimeAPI, error)) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Manifest: m,
		Runner:   runner,
		State:    &State{},
		Observer: NewConsoleObserver(),
		Docker:   docker,
	}
}
