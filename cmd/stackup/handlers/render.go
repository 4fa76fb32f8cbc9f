package handlers

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/manifest"
	"github.com/fkoep/stackup/internal/proxy"
)

// Injectable filesystem functions for tests.
var (
	writeFile = os.WriteFile
	mkdirAll  = os.MkdirAll
)

// Render prints the orchestration manifest, or writes the full set of
// generated files (manifest, scanner build definition, and for the domains
// variant the proxy config) into outputDir when set. The host is never
// touched; certificates are not required, since nothing is started.
func Render(out io.Writer, configPath, outputDir string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	m := manifest.DevStack(cfg)
	rendered, err := m.Render()
	if err != nil {
		return err
	}

	if outputDir == "" {
		_, err = out.Write(rendered)
		return err
	}

	files := map[string][]byte{
		"docker-compose.yml":   rendered,
		"sonarqube/Dockerfile": []byte(manifest.ScannerDockerfile(cfg.ScannerOwner)),
	}
	if cfg.Variant == config.VariantDomains {
		proxyFiles, err := proxy.RenderFiles(proxy.Routes(cfg))
		if err != nil {
			return err
		}
		for _, f := range proxyFiles {
			files[filepath.Join("nginx", f.Name)] = []byte(f.Content)
		}
	}

	for name, data := range files {
		path := filepath.Join(outputDir, name)
		if err := mkdirAll(filepath.Dir(path), fs.FileMode(0o755)); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := writeFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
