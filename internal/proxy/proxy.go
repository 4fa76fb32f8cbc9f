// Package proxy models hostname-to-backend routes and renders the reverse
// proxy configuration for the domains variant: one HTTP-to-HTTPS redirect
// block plus one TLS-terminating server block per hostname.
package proxy

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/fkoep/stackup/internal/config"
)

// DomainRoute maps a hostname to a backend service on the shared network.
type DomainRoute struct {
	Hostname string
	Service  string
	Port     int

	// WebSocket enables upgrade-header propagation for persistent
	// connections.
	WebSocket bool

	// MaxBodySize overrides the proxy's request body limit ("0" disables
	// it, which large artifact and image uploads need).
	MaxBodySize string
}

// CertPath returns the certificate file for this route under certDir.
func (r DomainRoute) CertPath(certDir string) string {
	return filepath.Join(certDir, r.Hostname+".crt")
}

// KeyPath returns the private key file for this route under certDir.
func (r DomainRoute) KeyPath(certDir string) string {
	return filepath.Join(certDir, r.Hostname+".key")
}

// Routes returns the domain routes for the stack, in stable order.
func Routes(cfg *config.Config) []DomainRoute {
	return []DomainRoute{
		{Hostname: "ci." + cfg.Domain, Service: "jenkins", Port: 8080, WebSocket: true},
		{Hostname: "sonar." + cfg.Domain, Service: "sonarqube", Port: 9000},
		{Hostname: "nexus." + cfg.Domain, Service: "nexus", Port: 8081, MaxBodySize: "0"},
		{Hostname: "registry." + cfg.Domain, Service: "registry", Port: 5000, MaxBodySize: "0"},
	}
}

// File is a rendered configuration file.
type File struct {
	Name    string
	Content string
}

const redirectConf = `server {
    listen 80 default_server;
    server_name _;
    return 301 https://$host$request_uri;
}
`

var serverTmpl = template.Must(template.New("server").Parse(`server {
    listen 443 ssl;
    server_name {{.Hostname}};

    ssl_certificate /etc/nginx/certs/{{.Hostname}}.crt;
    ssl_certificate_key /etc/nginx/certs/{{.Hostname}}.key;
{{- if .MaxBodySize}}

    client_max_body_size {{.MaxBodySize}};
{{- end}}

    location / {
        proxy_pass http://{{.Service}}:{{.Port}};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
{{- if .WebSocket}}
        proxy_http_version 1.1;
        proxy_set_header Upgrade $http_upgrade;
        proxy_set_header Connection "upgrade";
{{- end}}
    }
}
`))

// RenderFiles renders the redirect block and one server block per route.
// Output order and content are fixed by the route list, so repeated renders
// are byte-identical.
func RenderFiles(routes []DomainRoute) ([]File, error) {
	files := []File{{Name: "00-redirect.conf", Content: redirectConf}}

	for _, route := range routes {
		var buf bytes.Buffer
		if err := serverTmpl.Execute(&buf, route); err != nil {
			return nil, fmt.Errorf("failed to render proxy config for %s: %w", route.Hostname, err)
		}
		files = append(files, File{Name: route.Hostname + ".conf", Content: buf.String()})
	}

	return files, nil
}
