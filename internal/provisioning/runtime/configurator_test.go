package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/provisioning"
	"github.com/fkoep/stackup/internal/util/execx"
)

type fakeAPI struct {
	pingErrs []error
	pings    int
}

func (f *fakeAPI) Ping(_ context.Context) (types.Ping, error) {
	f.pings++
	if len(f.pingErrs) > 0 {
		err := f.pingErrs[0]
		f.pingErrs = f.pingErrs[1:]
		return types.Ping{}, err
	}
	return types.Ping{}, nil
}

func (f *fakeAPI) ContainerLogs(_ context.Context, _ string, _ container.LogsOptions) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func configuratorContext(runner execx.Runner, api provisioning.RuntimeAPI) *provisioning.Context {
	return &provisioning.Context{
		Context:  context.Background(),
		Config:   config.Default(),
		Runner:   runner,
		State:    &provisioning.State{},
		Observer: provisioning.NewMockObserver(),
		Docker: func(_ context.Context) (provisioning.RuntimeAPI, error) {
			return api, nil
		},
	}
}

func TestConfigurator_WritesDaemonConfig(t *testing.T) {
	t.Parallel()
	runner := execx.NewFakeRunner()
	p := NewConfigurator()
	p.ConfigPath = filepath.Join(t.TempDir(), "docker", "daemon.json")
	p.VerifyPing = false

	err := p.Provision(configuratorContext(runner, nil))
	require.NoError(t, err)

	data, err := os.ReadFile(p.ConfigPath)
	require.NoError(t, err)

	var cfg DaemonConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, []string{"native.cgroupdriver=systemd"}, cfg.ExecOpts)
	assert.Equal(t, "json-file", cfg.LogDriver)
	assert.Equal(t, "100m", cfg.LogOpts["max-size"])
	assert.Equal(t, "3", cfg.LogOpts["max-file"])
	assert.Equal(t, "overlay2", cfg.StorageDriver)

	assert.True(t, runner.Ran("systemctl enable docker.service containerd.service"))
	assert.True(t, runner.Ran("systemctl restart docker"))
}

func TestConfigurator_OverwritesExistingConfig(t *testing.T) {
	t.Parallel()
	runner := execx.NewFakeRunner()
	p := NewConfigurator()
	p.ConfigPath = filepath.Join(t.TempDir(), "daemon.json")
	p.VerifyPing = false
	require.NoError(t, os.WriteFile(p.ConfigPath, []byte(`{"storage-driver":"aufs","custom":"kept?"}`), 0o644))

	err := p.Provision(configuratorContext(runner, nil))
	require.NoError(t, err)

	data, err := os.ReadFile(p.ConfigPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "custom", "config is overwritten, not merged")
	assert.Contains(t, string(data), "overlay2")
}

func TestConfigurator_Reproducible(t *testing.T) {
	t.Parallel()
	p := NewConfigurator()
	p.ConfigPath = filepath.Join(t.TempDir(), "daemon.json")
	p.VerifyPing = false
	ctx := configuratorContext(execx.NewFakeRunner(), nil)

	require.NoError(t, p.Provision(ctx))
	first, err := os.ReadFile(p.ConfigPath)
	require.NoError(t, err)

	require.NoError(t, p.Provision(ctx))
	second, err := os.ReadFile(p.ConfigPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConfigurator_RestartFailureIsFatal(t *testing.T) {
	t.Parallel()
	runner := execx.NewFakeRunner()
	runner.Errors["systemctl restart"] = errors.New("Job for docker.service failed")
	p := NewConfigurator()
	p.ConfigPath = filepath.Join(t.TempDir(), "daemon.json")

	err := p.Provision(configuratorContext(runner, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to restart runtime daemon")
}

func TestConfigurator_PingRetriesThenSucceeds(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{pingErrs: []error{errors.New("connection refused"), errors.New("connection refused")}}
	p := NewConfigurator()
	p.ConfigPath = filepath.Join(t.TempDir(), "daemon.json")
	p.PingDelay = time.Millisecond

	err := p.Provision(configuratorContext(execx.NewFakeRunner(), api))

	require.NoError(t, err)
	assert.Equal(t, 3, api.pings)
}
