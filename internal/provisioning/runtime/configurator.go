package runtime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/util/retry"
)

const defaultDaemonConfigPath = "/etc/docker/daemon.json"

// DaemonConfig is the runtime daemon's machine-readable configuration.
type DaemonConfig struct {
	ExecOpts      []string          `json:"exec-opts"`
	LogDriver     string            `json:"log-driver"`
	LogOpts       map[string]string `json:"log-opts"`
	StorageDriver string            `json:"storage-driver"`
}

// DefaultDaemonConfig returns the daemon settings written on every run:
// systemd cgroups, bounded json-file log rotation, overlay2 storage.
func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		ExecOpts:  []string{"native.cgroupdriver=systemd"},
		LogDriver: "json-file",
		LogOpts: map[string]string{
			"max-file": "3",
			"max-size": "100m",
		},
		StorageDriver: "overlay2",
	}
}

// Configurator writes the daemon configuration and restarts the runtime.
type Configurator struct {
	// ConfigPath is where the daemon configuration is written.
	ConfigPath string

	// VerifyPing controls the post-restart liveness check against the
	// runtime API. Disabled in tests that have no daemon.
	VerifyPing bool

	// PingDelay is the initial delay between liveness probes.
	PingDelay time.Duration
}

// NewConfigurator creates a runtime configurator with default paths.
func NewConfigurator() *Configurator {
	return &Configurator{
		ConfigPath: defaultDaemonConfigPath,
		VerifyPing: true,
		PingDelay:  time.Second,
	}
}

// Name implements the provisioning.Phase interface.
func (p *Configurator) Name() string {
	return "runtime-config"
}

// Provision implements the provisioning.Phase interface. The configuration
// file is fully overwritten each run (last writer wins, never merged); a
// restart failure is fatal because every later phase needs a live daemon.
func (p *Configurator) Provision(ctx *provisioning.Context) error {
	if err := p.writeDaemonConfig(); err != nil {
		return err
	}

	if err := ctx.Runner.Run(ctx, "systemctl", "enable", "docker.service", "containerd.service"); err != nil {
		return err
	}
	if err := ctx.Runner.Run(ctx, "systemctl", "restart", "docker"); err != nil {
		return fmt.Errorf("failed to restart runtime daemon: %w", err)
	}

	if !p.VerifyPing {
		return nil
	}
	return p.waitForDaemon(ctx)
}

func (p *Configurator) writeDaemonConfig() error {
	data, err := json.MarshalIndent(DefaultDaemonConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal daemon config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(p.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("failed to create daemon config directory: %w", err)
	}
	if err := os.WriteFile(p.ConfigPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write daemon config: %w", err)
	}
	return nil
}

// waitForDaemon pings the runtime API until it answers; the daemon takes a
// moment to accept connections after a restart.
func (p *Configurator) waitForDaemon(ctx *provisioning.Context) error {
	api, err := ctx.Docker(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to runtime API: %w", err)
	}

	err = retry.Do(ctx, func() error {
		_, pingErr := api.Ping(ctx)
		return pingErr
	}, retry.WithMaxRetries(5), retry.WithInitialDelay(p.PingDelay))
	if err != nil {
		return fmt.Errorf("runtime daemon not responding after restart: %w", err)
	}

	ctx.Observer.Event(provisioning.Event{
		Type:    provisioning.EventResourceCreated,
		Phase:   p.Name(),
		Message: "runtime daemon configured and running",
	})
	return nil
}
