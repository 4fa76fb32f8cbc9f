package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkoep/stackup/internal/config"
)

func TestRender_ByteIdenticalAcrossRuns(t *testing.T) {
	t.Parallel()
	cfg := config.Default()

	first, err := DevStack(cfg).Render()
	require.NoError(t, err)
	second, err := DevStack(cfg).Render()
	require.NoError(t, err)

	assert.Equal(t, first, second, "rendering must be a pure function of the input")
}

func TestRender_OneBuildSixImages(t *testing.T) {
	t.Parallel()
	out, err := DevStack(config.Default()).Render()
	require.NoError(t, err)

	text := string(out)
	assert.Equal(t, 1, strings.Count(text, "build:"), "exactly one service builds locally")
	assert.Equal(t, 6, strings.Count(text, "image:"), "six services use upstream images")
}

func TestRender_Structure(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	out, err := DevStack(cfg).Render()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "services:")
	assert.Contains(t, text, "networks:")
	assert.Contains(t, text, "driver: bridge")
	assert.Contains(t, text, "container_name: stackup-jenkins")
	assert.Contains(t, text, "restart: unless-stopped")
	assert.Contains(t, text, `"8080:8080"`)
	assert.Contains(t, text, "/opt/stackup/jenkins_home:/var/jenkins_home")
	assert.Contains(t, text, "/opt/stackup/nginx/conf.d:/etc/nginx/conf.d:ro")
}

func TestRender_HealthGatedDependency(t *testing.T) {
	t.Parallel()
	out, err := DevStack(config.Default()).Render()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "healthcheck:")
	assert.Contains(t, text, "pg_isready")
	assert.Contains(t, text, "retries: 5")
	assert.Contains(t, text, "depends_on:")
	assert.Contains(t, text, "condition: service_healthy")
}

func TestRender_InvalidManifestRejected(t *testing.T) {
	t.Parallel()
	m := &Manifest{Project: "x", Network: "x", Services: []ServiceSpec{{Name: "a"}}}

	_, err := m.Render()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid manifest")
}

func TestDevStack_Topology(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	m := DevStack(cfg)

	require.NoError(t, m.Validate())
	assert.Len(t, m.Services, 7)
	assert.Equal(t, "stackup", m.Network)

	scanner := m.Service("sonarqube")
	require.NotNil(t, scanner)
	assert.Equal(t, "./sonarqube", scanner.BuildContext)
	assert.Empty(t, scanner.Image)

	for _, svc := range m.Services {
		for _, vol := range svc.Volumes {
			assert.True(t, strings.HasPrefix(vol.Source, cfg.DataRoot),
				"volume %s of %s must live under the data root", vol.Source, svc.Name)
		}
	}
}

func TestScannerDockerfile(t *testing.T) {
	t.Parallel()
	out := ScannerDockerfile(config.Owner{UID: 1000, GID: 1000})

	assert.Contains(t, out, "FROM sonarqube:community")
	assert.Contains(t, out, "USER root")
	assert.Contains(t, out, "chown -R 1000:1000")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "USER 1000"),
		"build must end running as the unprivileged numeric user")
}
