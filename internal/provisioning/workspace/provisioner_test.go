package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkoep/stackup/internal/config"
	"github.com/fkoep/stackup/internal/provisioning"
)

type ownershipCall struct {
	path string
	uid  int
	gid  int
}

type fakeFS struct {
	chowns []ownershipCall
	chmods map[string]fs.FileMode
}

func newFakeFS() *fakeFS {
	return &fakeFS{chmods: map[string]fs.FileMode{}}
}

func (f *fakeFS) chown(path string, uid, gid int) error {
	f.chowns = append(f.chowns, ownershipCall{path, uid, gid})
	return nil
}

func (f *fakeFS) chmod(path string, mode fs.FileMode) error {
	f.chmods[path] = mode
	return nil
}

func testProvisioner(ffs *fakeFS) *Provisioner {
	p := NewProvisioner()
	p.Chown = ffs.chown
	p.Chmod = ffs.chmod
	return p
}

func testContext(t *testing.T) *provisioning.Context {
	t.Helper()
	cfg := config.Default()
	cfg.DataRoot = t.TempDir()
	return &provisioning.Context{
		Context:  context.Background(),
		Config:   cfg,
		State:    &provisioning.State{},
		Observer: provisioning.NewMockObserver(),
	}
}

func TestProvision_CreatesFullTree(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	ffs := newFakeFS()

	err := testProvisioner(ffs).Provision(ctx)
	require.NoError(t, err)

	for _, name := range []string{
		config.DirCI,
		config.DirScannerData,
		config.DirScannerExt,
		config.DirScannerLogs,
		config.DirDatabase,
		config.DirArtifacts,
		config.DirDocumentStore,
		config.DirRegistry,
		config.DirProxyConf,
		config.DirProxyCerts,
	} {
		info, err := os.Stat(ctx.Config.DataDir(name))
		require.NoError(t, err, name)
		assert.True(t, info.IsDir(), name)
	}
}

func TestProvision_AppliesOwnership(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	ffs := newFakeFS()

	err := testProvisioner(ffs).Provision(ctx)
	require.NoError(t, err)

	byPath := map[string]ownershipCall{}
	for _, call := range ffs.chowns {
		byPath[call.path] = call
	}

	ci := byPath[ctx.Config.DataDir(config.DirCI)]
	assert.Equal(t, 1000, ci.uid)
	assert.Equal(t, 1000, ci.gid)

	artifacts := byPath[ctx.Config.DataDir(config.DirArtifacts)]
	assert.Equal(t, 200, artifacts.uid)
	assert.Equal(t, 200, artifacts.gid)

	// Unowned directories are never chowned.
	_, ok := byPath[ctx.Config.DataDir(config.DirDatabase)]
	assert.False(t, ok)
	_, ok = byPath[ctx.Config.DataDir(config.DirRegistry)]
	assert.False(t, ok)
}

func TestProvision_OwnershipIsRecursive(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	ffs := newFakeFS()

	// Simulate state left behind by a prior stack run.
	nested := filepath.Join(ctx.Config.DataDir(config.DirArtifacts), "blobs", "store.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
	require.NoError(t, os.WriteFile(nested, []byte("x"), 0o600))

	err := testProvisioner(ffs).Provision(ctx)
	require.NoError(t, err)

	var found bool
	for _, call := range ffs.chowns {
		if call.path == nested {
			found = true
			assert.Equal(t, 200, call.uid)
			assert.Equal(t, 200, call.gid)
		}
	}
	assert.True(t, found, "nested file must be chowned")
}

func TestProvision_ScannerDirsAreWorldWritable(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	ffs := newFakeFS()

	err := testProvisioner(ffs).Provision(ctx)
	require.NoError(t, err)

	assert.Equal(t, fs.FileMode(0o777), ffs.chmods[ctx.Config.DataDir(config.DirScannerData)])
	assert.Equal(t, fs.FileMode(0o755), ffs.chmods[ctx.Config.DataDir(config.DirCI)])
}

func TestProvision_ExistingDirsReported(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	require.NoError(t, os.MkdirAll(ctx.Config.DataDir(config.DirCI), 0o755))
	observer := ctx.Observer.(*provisioning.MockObserver)

	err := testProvisioner(newFakeFS()).Provision(ctx)
	require.NoError(t, err)

	exists := observer.EventsOfType(provisioning.EventResourceExists)
	require.Len(t, exists, 1)
	assert.Equal(t, ctx.Config.DataDir(config.DirCI), exists[0].Resource)
}

func TestProvision_Rerunnable(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	p := testProvisioner(newFakeFS())

	require.NoError(t, p.Provision(ctx))
	require.NoError(t, p.Provision(ctx))
}
