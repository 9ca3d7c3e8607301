package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheck_ValidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "valid.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`
log_level      = "debug"
disabled_kinds = ["loopback"]

device "eth7" {
  managed = true
}
`), 0644))

	var out bytes.Buffer
	require.NoError(t, runCheck(&out, configPath, true))
	assert.Contains(t, out.String(), "Configuration valid!")
	assert.Contains(t, out.String(), "device eth7: managed=true")
	assert.Contains(t, out.String(), "Disabled kinds: [loopback]")
}

func TestRunCheck_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`
device "eth7" {
    # Missing closing brace
`), 0644))

	var out bytes.Buffer
	assert.Error(t, runCheck(&out, configPath, false))
}

func TestRunCheck_GenericCannotBeDisabled(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generic.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`disabled_kinds = ["generic"]`), 0644))

	var out bytes.Buffer
	err := runCheck(&out, configPath, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be disabled")
}

func TestRunCheck_NoFile(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runCheck(&out, "", false))
}
