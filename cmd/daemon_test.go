package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"

	"grimm.is/netdevd/internal/config"
	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/profile"
)

func TestImportProfiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lab.hcl"), []byte(messyHCL), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"connection":{"id":"bad","type":"generic","interface_name":"a/b"}}`), 0644))

	store, err := profile.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	imported, err := importProfiles(store, dir, logging.WithComponent("test"))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	stored, err := store.List()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "lab", stored[0].Conn.ID)
}

func TestImportProfiles_MissingDir(t *testing.T) {
	store, err := profile.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	imported, err := importProfiles(store, filepath.Join(t.TempDir(), "nope"), logging.WithComponent("test"))
	require.NoError(t, err)
	assert.Empty(t, imported)
}

func TestBuildRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisabledKinds = []string{"loopback"}

	reg, err := buildRegistry(cfg)
	require.NoError(t, err)

	kind, opts := reg.KindFor(platform.LinkTypeLoopback)
	assert.Equal(t, "generic", kind.Name)
	assert.True(t, opts.PluginMissing)

	cfg.DisabledKinds = []string{"bond"}
	_, err = buildRegistry(cfg)
	assert.Error(t, err)
}

func TestOverridesFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Devices = []config.DeviceConfig{{Name: "eth7", Managed: true, GenerateProfile: true}}

	o := overridesFrom(cfg)
	require.Contains(t, o, "eth7")
	assert.True(t, o["eth7"].Managed)
	assert.True(t, o["eth7"].GenerateProfile)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestStartMirror(t *testing.T) {
	nl := new(platform.MockNetlinker)
	eth7 := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 7, Name: "eth7", EncapType: "ether"}}
	mock.InOrder(
		nl.On("LinkSubscribe", mock.Anything, mock.Anything).Return(nil).Once(),
		nl.On("LinkList").Return([]netlink.Link{eth7}, nil).Once(),
	)

	cache := platform.NewCache(nl, nil)
	mgr := device.NewManager(device.ManagerOptions{Platform: cache})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	require.NoError(t, startMirror(ctx, cache, mgr, errCh))

	_, ok := mgr.Device("eth7")
	assert.True(t, ok)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	nl.AssertExpectations(t)
}

func TestStartMirror_SubscribeError(t *testing.T) {
	nl := new(platform.MockNetlinker)
	nl.On("LinkSubscribe", mock.Anything, mock.Anything).Return(errors.New("permission denied"))

	cache := platform.NewCache(nl, nil)
	mgr := device.NewManager(device.ManagerOptions{Platform: cache})

	err := startMirror(context.Background(), cache, mgr, make(chan error, 1))
	assert.ErrorContains(t, err, "permission denied")
	nl.AssertNotCalled(t, "LinkList")
}
