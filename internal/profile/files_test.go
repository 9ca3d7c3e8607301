package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/netdevd/internal/setting"
)

const labHCL = `
connection {
  id             = "lab"
  uuid           = "0d8f4c1e-6a3b-4b7e-9c52-1f7c2f3d9a10"
  type           = "generic"
  interface_name = "eth7"
}

generic {}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeHCL(t *testing.T) {
	c, err := DecodeHCL([]byte(labHCL), "lab.hcl")
	require.NoError(t, err)

	assert.Equal(t, "lab", c.Conn.ID)
	assert.Equal(t, "0d8f4c1e-6a3b-4b7e-9c52-1f7c2f3d9a10", c.Conn.UUID)
	assert.Equal(t, "eth7", c.InterfaceName())
	assert.True(t, c.HasGeneric())
	assert.True(t, c.Conn.Autoconnect)
	assert.NoError(t, c.Verify())
}

func TestDecodeHCL_NoTypeBlock(t *testing.T) {
	c, err := DecodeHCL([]byte(`
connection {
  id   = "bare"
  type = "generic"
}
`), "bare.hcl")
	require.NoError(t, err)
	assert.False(t, c.HasGeneric())
	assert.Equal(t, setting.TypeGeneric, c.Type())
	assert.Empty(t, c.InterfaceName())
	// UUID is derived from the id and stable across loads.
	again, err := DecodeHCL([]byte(`
connection {
  id   = "bare"
  type = "generic"
}
`), "bare.hcl")
	require.NoError(t, err)
	assert.Equal(t, c.Conn.UUID, again.Conn.UUID)
}

func TestDecodeHCL_MultipleTypes(t *testing.T) {
	_, err := DecodeHCL([]byte(`
connection {
  id = "x"
}
generic {}
generic {}
`), "x.hcl")
	assert.ErrorIs(t, err, ErrMultipleTypes)

	_, err = DecodeHCL([]byte(`
connection {
  id = "x"
}
generic {}
loopback {}
`), "x.hcl")
	assert.ErrorIs(t, err, ErrMultipleTypes)
}

func TestDecodeHCL_ConflictingType(t *testing.T) {
	_, err := DecodeHCL([]byte(`
connection {
  id   = "x"
  type = "loopback"
}
generic {}
`), "x.hcl")
	assert.ErrorContains(t, err, "conflicts with generic block")
}

func TestDecodeJSON(t *testing.T) {
	c, err := DecodeJSON([]byte(`{"connection":{"id":"lab","type":"generic","autoconnect":false},"generic":{}}`))
	require.NoError(t, err)
	assert.True(t, c.HasGeneric())
	assert.False(t, c.Conn.Autoconnect)

	_, err = DecodeJSON([]byte(`{"connection":{"id":"x"},"generic":{},"loopback":{}}`))
	assert.ErrorIs(t, err, ErrMultipleTypes)
}

func TestDecodeYAML(t *testing.T) {
	c, err := DecodeYAML([]byte(`
connection:
  id: lab
  interface_name: eth7
generic: {}
`))
	require.NoError(t, err)
	assert.True(t, c.HasGeneric())
	assert.Equal(t, setting.TypeGeneric, c.Conn.Type)
	assert.Equal(t, "eth7", c.InterfaceName())

	_, err = DecodeYAML([]byte("connection:\n  id: x\n  bogus: 1\n"))
	assert.Error(t, err)
}

func TestEncodeHCL_RoundTrip(t *testing.T) {
	c := setting.New("lab", setting.TypeGeneric)
	c.EnsureGeneric()
	c.SetInterfaceName("eth7")

	out := EncodeHCL(c)
	assert.Contains(t, string(out), "generic {\n}")
	assert.Contains(t, string(out), `interface_name = "eth7"`)

	back, err := DecodeHCL(out, "lab.hcl")
	require.NoError(t, err)
	assert.Equal(t, c.Conn, back.Conn)
	assert.True(t, back.HasGeneric())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", labHCL)
	writeFile(t, dir, "b.json", `{"connection":{"id":"json-profile","type":"generic"}}`)
	writeFile(t, dir, "c.yml", "connection:\n  id: yaml-profile\nloopback:\n  mtu: 1500\n")
	writeFile(t, dir, "README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.hcl"), 0o755))

	profiles, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "lab", profiles[0].Conn.ID)
	assert.Equal(t, "json-profile", profiles[1].Conn.ID)
	assert.Equal(t, setting.TypeLoopback, profiles[2].Type())
}

func TestLoadDir_Missing(t *testing.T) {
	profiles, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(writeFile(t, dir, "x.toml", ""))
	assert.ErrorContains(t, err, "unsupported profile format")

	_, err = LoadFile(writeFile(t, dir, "broken.hcl", "connection {"))
	assert.ErrorContains(t, err, "broken.hcl")
}
