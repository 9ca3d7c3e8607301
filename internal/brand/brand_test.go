package brand

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "netdevd/"+Version, UserAgent())
}

func TestGetDirectories(t *testing.T) {
	t.Setenv("NETDEVD_CONFIG_DIR", "")
	t.Setenv("NETDEVD_STATE_DIR", "")
	t.Setenv("NETDEVD_PREFIX", "")
	assert.Equal(t, DefaultConfigDir, GetConfigDir())
	assert.Equal(t, DefaultStateDir, GetStateDir())

	t.Setenv("NETDEVD_PREFIX", "/opt/netdevd")
	assert.Equal(t, "/opt/netdevd/config", GetConfigDir())
	assert.Equal(t, "/opt/netdevd/state", GetStateDir())
	assert.Equal(t, filepath.Join("/opt/netdevd/config", ConfigFileName), DefaultConfigPath())

	t.Setenv("NETDEVD_STATE_DIR", "/tmp/state")
	assert.Equal(t, "/tmp/state", GetStateDir())
}
