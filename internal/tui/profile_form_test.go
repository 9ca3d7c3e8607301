package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/netdevd/internal/setting"
)

func TestProfileAnswers_Generic(t *testing.T) {
	c, err := ProfileAnswers{ID: "lab", Type: setting.TypeGeneric, InterfaceName: "eth7", Autoconnect: true}.Connection()
	require.NoError(t, err)

	assert.True(t, c.HasGeneric())
	assert.Equal(t, "eth7", c.InterfaceName())
	assert.True(t, c.Conn.Autoconnect)
	assert.NotEmpty(t, c.Conn.UUID)
}

func TestProfileAnswers_Loopback(t *testing.T) {
	c, err := ProfileAnswers{ID: "lo", Type: setting.TypeLoopback}.Connection()
	require.NoError(t, err)

	assert.Equal(t, setting.TypeLoopback, c.Type())
	assert.False(t, c.HasGeneric())
	assert.False(t, c.Conn.Autoconnect)
}

func TestProfileAnswers_Invalid(t *testing.T) {
	_, err := ProfileAnswers{ID: "lab", Type: "bond"}.Connection()
	assert.Error(t, err)

	_, err = ProfileAnswers{ID: "", Type: setting.TypeGeneric}.Connection()
	assert.Error(t, err)
}

func TestProfileFormValidators(t *testing.T) {
	assert.Error(t, validateID("  "))
	assert.NoError(t, validateID("lab"))

	assert.NoError(t, validateOptionalIface(""))
	assert.NoError(t, validateOptionalIface("eth7"))
	assert.Error(t, validateOptionalIface("eth/7"))
}

func TestNewProfileForm_DefaultsType(t *testing.T) {
	var a ProfileAnswers
	form := NewProfileForm(&a)
	require.NotNil(t, form)
	assert.Equal(t, setting.TypeGeneric, a.Type)
}
