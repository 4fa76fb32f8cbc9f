// Package runtime installs and configures the container runtime.
//
// Installation replaces any conflicting distribution packages with the
// upstream engine and its orchestration plugin; configuration writes the
// daemon's JSON config and restarts the service. Both phases are idempotent
// and safe to interleave with a partially completed prior run.
package runtime

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/util/hostsfile"
)

const (
	upstreamKeyURL  = "https://download.docker.com/linux/ubuntu/gpg"
	upstreamRepoURL = "https://download.docker.com/linux/ubuntu"

	defaultKeyringPath = "/etc/apt/keyrings/docker.asc"
	defaultSourcesPath = "/etc/apt/sources.list.d/docker.list"
	defaultOSRelease   = "/etc/os-release"
)

// Packages shipped by distributions that conflict with the upstream engine.
var conflictingPackages = []string{
	"docker.io",
	"docker-doc",
	"docker-compose",
	"docker-compose-v2",
	"podman-docker",
	"containerd",
	"runc",
}

// enginePackages is the upstream engine plus the compose orchestration plugin.
var enginePackages = []string{
	"docker-ce",
	"docker-ce-cli",
	"containerd.io",
	"docker-buildx-plugin",
	"docker-compose-plugin",
}

// Installer installs the container runtime from the upstream repository.
type Installer struct {
	// KeyURL, KeyringPath, SourcesPath and OSReleasePath default to the
	// upstream locations; overridable for tests.
	KeyURL        string
	KeyringPath   string
	SourcesPath   string
	OSReleasePath string

	HTTPClient *http.Client
}

// NewInstaller creates a runtime installer with upstream defaults.
func NewInstaller() *Installer {
	return &Installer{
		KeyURL:        upstreamKeyURL,
		KeyringPath:   defaultKeyringPath,
		SourcesPath:   defaultSourcesPath,
		OSReleasePath: defaultOSRelease,
		HTTPClient:    http.DefaultClient,
	}
}

// Name implements the provisioning.Phase interface.
func (p *Installer) Name() string {
	return "runtime-install"
}

// Provision implements the provisioning.Phase interface.
func (p *Installer) Provision(ctx *provisioning.Context) error {
	p.removeConflicts(ctx)

	if err := p.registerAptSource(ctx); err != nil {
		return err
	}

	args := append([]string{"install", "-y"}, enginePackages...)
	if err := ctx.Runner.Run(ctx, "apt-get", args...); err != nil {
		return err
	}

	if user := ctx.Config.AdminUser; user != "" {
		if err := ctx.Runner.Run(ctx, "usermod", "-aG", "docker", user); err != nil {
			return err
		}
	}

	return nil
}

// removeConflicts uninstalls known-conflicting packages. A package that is
// not installed is an already-satisfied condition, so removal errors are
// deliberately not propagated.
func (p *Installer) removeConflicts(ctx *provisioning.Context) {
	for _, pkg := range conflictingPackages {
		if err := ctx.Runner.Run(ctx, "apt-get", "remove", "-y", pkg); err != nil {
			ctx.Observer.Event(provisioning.Event{
				Type:     provisioning.EventResourceExists,
				Phase:    p.Name(),
				Resource: pkg,
				Message:  "conflicting package not installed, nothing to remove",
			})
		}
	}
}

// registerAptSource ensures the upstream signing key and package source are
// registered, refreshing the index only when the source list changed.
// Re-running never duplicates entries.
func (p *Installer) registerAptSource(ctx *provisioning.Context) error {
	if _, err := os.Stat(p.KeyringPath); err == nil {
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceExists,
			Phase:    p.Name(),
			Resource: p.KeyringPath,
			Message:  "signing key already registered",
		})
	} else {
		if err := p.fetchSigningKey(ctx); err != nil {
			return err
		}
	}

	arch, err := ctx.Runner.Output(ctx, "dpkg", "--print-architecture")
	if err != nil {
		return err
	}
	codename, err := osReleaseCodename(p.OSReleasePath)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("deb [arch=%s signed-by=%s] %s %s stable", arch, p.KeyringPath, upstreamRepoURL, codename)
	changed, err := hostsfile.EnsureLine(p.SourcesPath, line)
	if err != nil {
		return err
	}
	if !changed {
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceExists,
			Phase:    p.Name(),
			Resource: p.SourcesPath,
			Message:  "package source already registered",
		})
		return nil
	}

	return ctx.Runner.Run(ctx, "apt-get", "update")
}

func (p *Installer) fetchSigningKey(ctx *provisioning.Context) error {
	if err := os.MkdirAll(filepath.Dir(p.KeyringPath), 0o755); err != nil {
		return fmt.Errorf("failed to create keyring directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.KeyURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build signing key request: %w", err)
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch signing key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch signing key: unexpected status %s", resp.Status)
	}

	key, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read signing key: %w", err)
	}
	if err := os.WriteFile(p.KeyringPath, key, 0o644); err != nil {
		return fmt.Errorf("failed to write signing key: %w", err)
	}
	return nil
}

// osReleaseCodename extracts VERSION_CODENAME from an os-release file.
func osReleaseCodename(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if value, ok := strings.CutPrefix(line, "VERSION_CODENAME="); ok {
			return strings.Trim(value, `"`), nil
		}
	}
	return "", fmt.Errorf("no VERSION_CODENAME in %s", path)
}
