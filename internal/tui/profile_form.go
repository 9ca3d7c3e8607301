package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"grimm.is/netdevd/internal/setting"
)

// ProfileAnswers holds the fields collected by the new-profile form.
type ProfileAnswers struct {
	ID            string
	Type          string
	InterfaceName string
	Autoconnect   bool
}

// NewProfileForm builds the interactive form behind "netdevd profile new".
func NewProfileForm(a *ProfileAnswers) *huh.Form {
	if a.Type == "" {
		a.Type = setting.TypeGeneric
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profile ID").
				Description("Human-readable name").
				Value(&a.ID).
				Validate(validateID),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Generic (any link)", setting.TypeGeneric),
					huh.NewOption("Loopback", setting.TypeLoopback),
				).
				Value(&a.Type),
			huh.NewInput().
				Title("Interface name").
				Description("Generic profiles are not usable until this is set").
				Value(&a.InterfaceName).
				Validate(validateOptionalIface),
			huh.NewConfirm().
				Title("Autoconnect?").
				Value(&a.Autoconnect),
		),
	).WithTheme(huh.ThemeBase16())
}

func validateID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("profile ID is required")
	}
	return nil
}

func validateOptionalIface(s string) error {
	if s == "" {
		return nil
	}
	return setting.ValidateInterfaceName(s)
}

// Connection turns the answers into a verified profile with a fresh UUID.
func (a ProfileAnswers) Connection() (*setting.Connection, error) {
	ts, ok := setting.NewTypeSetting(a.Type)
	if !ok {
		return nil, errors.New("unknown profile type " + a.Type)
	}

	c := setting.New(strings.TrimSpace(a.ID), a.Type)
	c.SetTypeSetting(ts)
	c.SetInterfaceName(a.InterfaceName)
	c.Conn.Autoconnect = a.Autoconnect
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}
