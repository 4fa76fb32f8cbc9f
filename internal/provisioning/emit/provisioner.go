// Package emit writes the generated stack files to the output directory:
// the orchestration manifest, the scanner image build context, and (for the
// domains variant) the reverse proxy configuration.
//
// Every file is fully overwritten on each run so the output always reflects
// the current configuration; stale hand edits do not survive a re-run.
package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fkoep/stackup/internal/certs"
	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/manifest"
	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/proxy"
)

// Provisioner renders and writes the stack's generated files.
type Provisioner struct{}

// NewProvisioner creates an emit provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "emit"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	if err := os.MkdirAll(cfg.ScannerBuildDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create build context directory: %w", err)
	}

	dockerfile := manifest.ScannerDockerfile(cfg.ScannerOwner)
	dockerfilePath := filepath.Join(cfg.ScannerBuildDir(), "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(dockerfile), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dockerfilePath, err)
	}
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    p.Name(),
		Resource: dockerfilePath,
	})

	rendered, err := ctx.Manifest.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.ManifestPath(), rendered, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.ManifestPath(), err)
	}
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    p.Name(),
		Resource: cfg.ManifestPath(),
	})

	if cfg.Variant == config.VariantDomains {
		return p.emitProxyConfig(ctx)
	}
	return nil
}

// emitProxyConfig writes the reverse proxy server blocks. Every referenced
// certificate pair must already exist: the proxy refuses to start on a
// dangling ssl_certificate directive, so a missing pair is caught here
// instead of as an opaque container crash later.
func (p *Provisioner) emitProxyConfig(ctx *provisioning.Context) error {
	cfg := ctx.Config
	certDir := cfg.DataDir(config.DirProxyCerts)
	routes := proxy.Routes(cfg)

	for _, route := range routes {
		if !certs.PairExists(certDir, route.Hostname) {
			return fmt.Errorf("no certificate pair for %s (expected %s and %s)",
				route.Hostname, route.CertPath(certDir), route.KeyPath(certDir))
		}
	}

	files, err := proxy.RenderFiles(routes)
	if err != nil {
		return err
	}

	confDir := cfg.DataDir(config.DirProxyConf)
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return fmt.Errorf("failed to create proxy config directory: %w", err)
	}
	for _, file := range files {
		path := filepath.Join(confDir, file.Name)
		if err := os.WriteFile(path, []byte(file.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceCreated,
			Phase:    p.Name(),
			Resource: path,
		})
	}
	return nil
}
