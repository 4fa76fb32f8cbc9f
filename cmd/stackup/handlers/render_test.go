package handlers

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkoep/stackup/internal/config"
)

func TestRender_ToWriter(t *testing.T) {
	stubEnvironment(t, config.Default())
	var buf bytes.Buffer

	err := Render(&buf, "", "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "services:")
	assert.Contains(t, out, "jenkins/jenkins:lts")
	assert.Contains(t, out, "build: ./sonarqube")
}

func TestRender_ToDirectory(t *testing.T) {
	stubEnvironment(t, config.Default())

	written := map[string]string{}
	mkdirAll = func(_ string, _ fs.FileMode) error { return nil }
	writeFile = func(path string, data []byte, _ fs.FileMode) error {
		written[path] = string(data)
		return nil
	}

	var buf bytes.Buffer
	err := Render(&buf, "", "/tmp/out")
	require.NoError(t, err)

	assert.Contains(t, written["/tmp/out/docker-compose.yml"], "services:")
	assert.Contains(t, written["/tmp/out/sonarqube/Dockerfile"], "FROM sonarqube:community")
	assert.Empty(t, buf.String(), "directory output suppresses stdout")
}

func TestRender_DomainsIncludesProxyConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = config.VariantDomains
	stubEnvironment(t, cfg)

	written := map[string]string{}
	mkdirAll = func(_ string, _ fs.FileMode) error { return nil }
	writeFile = func(path string, data []byte, _ fs.FileMode) error {
		written[path] = string(data)
		return nil
	}

	err := Render(&bytes.Buffer{}, "", "/tmp/out")
	require.NoError(t, err)

	assert.Contains(t, written["/tmp/out/nginx/00-redirect.conf"], "return 301")
	assert.Contains(t, written["/tmp/out/nginx/ci.stackup.local.conf"], "proxy_pass http://jenkins:8080")
}

func TestRender_ConfigErrorPropagates(t *testing.T) {
	saveAndRestoreFactories(t)
	loadConfigFile = func(_ string) (*config.Config, error) {
		return nil, errors.New("failed to read config")
	}

	err := Render(&bytes.Buffer{}, "missing.yaml", "")

	require.Error(t, err)
}
