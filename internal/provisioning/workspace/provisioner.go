// Package workspace prepares the persisted data directory tree.
//
// Every service mounts its state from a directory under the data root; this
// phase creates those directories and applies the ownership and permissions
// the container images expect before anything is started. Applying them
// after creation keeps re-runs honest: a directory that already exists is
// brought back to the expected state rather than skipped.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/provisioning"
)

// DirSpec describes one directory of the data tree. A nil Owner leaves
// ownership to the creating process (root-owned directories consumed by
// root-running containers).
type DirSpec struct {
	Path  string
	Owner *config.Owner
	Mode  fs.FileMode
}

// DefaultTree returns the directory tree for the service topology. The
// scanner directories get a wide mode because the image's entrypoint
// re-chowns and writes there as an unprivileged user during startup.
func DefaultTree(cfg *config.Config) []DirSpec {
	ciOwner := &config.Owner{UID: 1000, GID: 1000}
	return []DirSpec{
		{Path: cfg.DataDir(config.DirCI), Owner: ciOwner, Mode: 0o755},
		{Path: cfg.DataDir(config.DirScannerData), Owner: &cfg.ScannerOwner, Mode: 0o777},
		{Path: cfg.DataDir(config.DirScannerExt), Owner: &cfg.ScannerOwner, Mode: 0o777},
		{Path: cfg.DataDir(config.DirScannerLogs), Owner: &cfg.ScannerOwner, Mode: 0o777},
		{Path: cfg.DataDir(config.DirDatabase), Mode: 0o755},
		{Path: cfg.DataDir(config.DirArtifacts), Owner: &cfg.ArtifactOwner, Mode: 0o755},
		{Path: cfg.DataDir(config.DirDocumentStore), Mode: 0o755},
		{Path: cfg.DataDir(config.DirRegistry), Mode: 0o755},
		{Path: cfg.DataDir(config.DirProxyConf), Mode: 0o755},
		{Path: cfg.DataDir(config.DirProxyCerts), Mode: 0o755},
	}
}

// Provisioner creates the data tree and applies ownership recursively.
type Provisioner struct {
	// Tree overrides DefaultTree when set; used by tests.
	Tree []DirSpec

	// Chown and Chmod are injectable so tests can run unprivileged.
	Chown func(path string, uid, gid int) error
	Chmod func(path string, mode fs.FileMode) error
}

// NewProvisioner creates a workspace provisioner backed by the real
// filesystem calls.
func NewProvisioner() *Provisioner {
	return &Provisioner{
		Chown: os.Chown,
		Chmod: os.Chmod,
	}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "workspace"
}

// Provision implements the provisioning.Phase interface. All directories are
// created first, then ownership and mode are applied recursively so files
// left behind by a previous stack run are corrected too.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	tree := p.Tree
	if tree == nil {
		tree = DefaultTree(ctx.Config)
	}

	for _, spec := range tree {
		if _, err := os.Stat(spec.Path); err == nil {
			ctx.Observer.Event(provisioning.Event{
				Type:     provisioning.EventResourceExists,
				Phase:    p.Name(),
				Resource: spec.Path,
				Message:  "data directory already present",
			})
		} else {
			if err := os.MkdirAll(spec.Path, spec.Mode); err != nil {
				return fmt.Errorf("failed to create %s: %w", spec.Path, err)
			}
			ctx.Observer.Event(provisioning.Event{
				Type:     provisioning.EventResourceCreated,
				Phase:    p.Name(),
				Resource: spec.Path,
			})
		}
	}

	for _, spec := range tree {
		if err := p.apply(spec); err != nil {
			return err
		}
	}
	return nil
}

// apply walks the directory and enforces the spec's ownership and mode on
// every entry beneath it.
func (p *Provisioner) apply(spec DirSpec) error {
	return filepath.WalkDir(spec.Path, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if spec.Owner != nil {
			if err := p.Chown(path, spec.Owner.UID, spec.Owner.GID); err != nil {
				return fmt.Errorf("failed to chown %s to %s: %w", path, spec.Owner, err)
			}
		}
		if err := p.Chmod(path, spec.Mode); err != nil {
			return fmt.Errorf("failed to chmod %s: %w", path, err)
		}
		return nil
	})
}
