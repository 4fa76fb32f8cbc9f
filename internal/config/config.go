// Package config defines the provisioner configuration.
//
// All behavior is driven by compiled-in defaults so the tool can run with no
// arguments; an optional YAML file overlays individual fields. The
// configuration is built once at startup and threaded through every
// provisioning phase — phases never consult globals or the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Variant selects how the stack is exposed.
type Variant string

const (
	// VariantPlain exposes each service on a host port.
	VariantPlain Variant = "plain"

	// VariantDomains additionally fronts services with the TLS reverse proxy
	// under per-service hostname aliases.
	VariantDomains Variant = "domains"
)

// Well-known data directory names under DataRoot. Shared between the
// workspace builder (which creates them) and the manifest topology (which
// mounts them) so the two can never drift apart.
const (
	DirCI            = "jenkins_home"
	DirScannerData   = "sonarqube/data"
	DirScannerExt    = "sonarqube/extensions"
	DirScannerLogs   = "sonarqube/logs"
	DirDatabase      = "postgres/data"
	DirArtifacts     = "nexus-data"
	DirDocumentStore = "mongo/data"
	DirRegistry      = "registry"
	DirProxyConf     = "nginx/conf.d"
	DirProxyCerts    = "nginx/certs"
)

// Owner is a numeric user/group pair applied to a data directory.
type Owner struct {
	UID int `yaml:"uid"`
	GID int `yaml:"gid"`
}

func (o Owner) String() string {
	return fmt.Sprintf("%d:%d", o.UID, o.GID)
}

// WaitConfig controls the readiness wait after the stack is started.
// Exactly one of LogPattern or File designates the readiness signal.
type WaitConfig struct {
	Enabled bool `yaml:"enabled"`

	// Service is the manifest name of the service being waited on.
	Service string `yaml:"service"`

	// LogPattern is a substring looked for in the service's log stream.
	LogPattern string `yaml:"log_pattern"`

	// File is a path whose existence signals readiness.
	File string `yaml:"file"`

	Interval    Duration `yaml:"interval"`
	MaxAttempts int      `yaml:"max_attempts"`
}

// Config carries everything the provisioning pipeline needs.
type Config struct {
	Variant Variant `yaml:"variant"`

	// Project prefixes container and network names.
	Project string `yaml:"project"`

	// DataRoot is the fixed root for persisted service state.
	DataRoot string `yaml:"data_root"`

	// OutputDir receives the generated manifest, build context and related
	// files. Defaults to <DataRoot>/stack.
	OutputDir string `yaml:"output_dir"`

	// Domain is the base domain for per-service hostname aliases
	// (domains variant only).
	Domain string `yaml:"domain"`

	// AdminUser is the invoking user granted container-runtime group
	// membership. Defaults to $SUDO_USER.
	AdminUser string `yaml:"admin_user"`

	// ArtifactOwner owns the artifact repository data directory. The stock
	// image runs as 200:200; some deployments re-map it to 1000:1000. This
	// is a deliberate, named choice rather than an inferred value.
	ArtifactOwner Owner `yaml:"artifact_owner"`

	// ScannerOwner owns the code scanner data directories (the image's
	// unprivileged runtime user).
	ScannerOwner Owner `yaml:"scanner_owner"`

	// Packages are the base system packages installed before anything else.
	Packages []string `yaml:"packages"`

	Wait WaitConfig `yaml:"wait"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Variant:       VariantPlain,
		Project:       "stackup",
		DataRoot:      "/opt/stackup",
		OutputDir:     "/opt/stackup/stack",
		Domain:        "stackup.local",
		AdminUser:     os.Getenv("SUDO_USER"),
		ArtifactOwner: Owner{UID: 200, GID: 200},
		ScannerOwner:  Owner{UID: 1000, GID: 1000},
		Packages:      []string{"ca-certificates", "curl", "gnupg"},
		Wait: WaitConfig{
			Enabled:     true,
			Service:     "jenkins",
			LogPattern:  "Jenkins is fully up and running",
			Interval:    Duration(5 * time.Second),
			MaxAttempts: 60,
		},
	}
}

// DataDir resolves a well-known directory name under DataRoot.
func (c *Config) DataDir(name string) string {
	return filepath.Join(c.DataRoot, name)
}

// ManifestPath is the location of the generated orchestration manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.OutputDir, "docker-compose.yml")
}

// ScannerBuildDir is the build context for the scanner's custom image.
func (c *Config) ScannerBuildDir() string {
	return filepath.Join(c.OutputDir, "sonarqube")
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantPlain, VariantDomains:
	default:
		return fmt.Errorf("invalid variant %q (want %q or %q)", c.Variant, VariantPlain, VariantDomains)
	}

	if c.Project == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if !filepath.IsAbs(c.DataRoot) {
		return fmt.Errorf("data_root must be an absolute path, got %q", c.DataRoot)
	}
	if !filepath.IsAbs(c.OutputDir) {
		return fmt.Errorf("output_dir must be an absolute path, got %q", c.OutputDir)
	}
	if c.ArtifactOwner.UID < 0 || c.ArtifactOwner.GID < 0 {
		return fmt.Errorf("artifact_owner must be non-negative, got %s", c.ArtifactOwner)
	}
	if c.ScannerOwner.UID < 0 || c.ScannerOwner.GID < 0 {
		return fmt.Errorf("scanner_owner must be non-negative, got %s", c.ScannerOwner)
	}
	if c.Variant == VariantDomains && c.Domain == "" {
		return fmt.Errorf("domain must be set for the domains variant")
	}

	if c.Wait.Enabled {
		if c.Wait.Service == "" {
			return fmt.Errorf("wait.service must be set when the readiness wait is enabled")
		}
		if (c.Wait.LogPattern == "") == (c.Wait.File == "") {
			return fmt.Errorf("exactly one of wait.log_pattern and wait.file must be set")
		}
		if c.Wait.MaxAttempts <= 0 {
			return fmt.Errorf("wait.max_attempts must be positive, got %d", c.Wait.MaxAttempts)
		}
		if c.Wait.Interval <= 0 {
			return fmt.Errorf("wait.interval must be positive, got %v", c.Wait.Interval)
		}
	}

	return nil
}
