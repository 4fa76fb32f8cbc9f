// Package report assembles and publishes the stack's access data: service
// endpoints, first-login credential locations, and the host address they
// resolve against.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/manifest"
	"github.com/fkoep/stackup/internal/proxy"
)

// Endpoint is one reachable service URL.
type Endpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// CredentialHint tells the user where a service's initial credentials live.
// Values are either literal credentials or a path to a generated secret.
type CredentialHint struct {
	Service string `yaml:"service"`
	Hint    string `yaml:"hint"`
}

// Report is the complete access data for a provisioned stack.
type Report struct {
	HostIP      string           `yaml:"host_ip"`
	Endpoints   []Endpoint       `yaml:"endpoints"`
	Credentials []CredentialHint `yaml:"credentials"`
}

// Build assembles the report for the configured variant. The plain variant
// exposes host ports directly; the domains variant goes through the TLS
// proxy, so its endpoints use the hostname aliases instead.
func Build(cfg *config.Config, hostIP string) *Report {
	r := &Report{HostIP: hostIP}

	switch cfg.Variant {
	case config.VariantDomains:
		for _, route := range proxy.Routes(cfg) {
			r.Endpoints = append(r.Endpoints, Endpoint{
				Name: route.Service,
				URL:  "https://" + route.Hostname,
			})
		}
	default:
		r.Endpoints = []Endpoint{
			{Name: "jenkins", URL: fmt.Sprintf("http://%s:8080", hostIP)},
			{Name: "sonarqube", URL: fmt.Sprintf("http://%s:9000", hostIP)},
			{Name: "nexus", URL: fmt.Sprintf("http://%s:8081", hostIP)},
			{Name: "registry", URL: fmt.Sprintf("http://%s:5000", hostIP)},
		}
	}
	mongoUser, mongoPassword := manifest.DocumentStoreCredentials()
	r.Endpoints = append(r.Endpoints, Endpoint{
		Name: "mongo",
		URL:  fmt.Sprintf("mongodb://%s:27017", hostIP),
	})

	r.Credentials = []CredentialHint{
		{Service: "jenkins", Hint: "initial admin password in " + filepath.Join(cfg.DataDir(config.DirCI), "secrets", "initialAdminPassword")},
		{Service: "sonarqube", Hint: "admin / admin (change on first login)"},
		{Service: "nexus", Hint: "admin password in " + filepath.Join(cfg.DataDir(config.DirArtifacts), "admin.password")},
		{Service: "mongo", Hint: fmt.Sprintf("%s / %s", mongoUser, mongoPassword)},
	}
	return r
}

// Print writes a human-readable summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "\nStack is up on %s\n\n", r.HostIP)

	fmt.Fprintln(w, "Endpoints:")
	for _, e := range r.Endpoints {
		fmt.Fprintf(w, "  %-10s %s\n", e.Name, e.URL)
	}

	fmt.Fprintln(w, "\nCredentials:")
	for _, c := range r.Credentials {
		fmt.Fprintf(w, "  %-10s %s\n", c.Service, c.Hint)
	}
}

// WriteYAML persists the report next to the generated manifest so the access
// data survives the terminal session.
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal access data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write access data: %w", err)
	}
	return nil
}
