// Package tui is the interactive device monitor behind "netdevd watch".
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grimm.is/netdevd/internal/client"
	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/events"
	"grimm.is/netdevd/internal/profile"
)

// maxEvents bounds the event ticker.
const maxEvents = 8

// Backend is the part of the API client the monitor drives.
type Backend interface {
	Devices() ([]device.Info, error)
	SetManaged(name string, managed bool) (*device.Info, error)
	GenerateProfile(name string) (*profile.Document, error)
}

type devicesMsg []device.Info
type errMsg struct{ err error }
type statusMsg string
type eventMsg client.Event
type streamClosedMsg struct{}

// Model is the monitor's state.
type Model struct {
	Backend Backend
	Table   table.Model
	Devices []device.Info
	Events  []string
	Status  string
	Err     error
	Width   int
	Height  int

	stream <-chan client.Event
}

// NewModel creates a monitor. stream may be nil, in which case the event
// ticker stays empty and the table only refreshes on "r".
func NewModel(backend Backend, stream <-chan client.Event) Model {
	columns := []table.Column{
		{Title: "Device", Width: 12},
		{Title: "Index", Width: 6},
		{Title: "Kind", Width: 9},
		{Title: "Type", Width: 12},
		{Title: "State", Width: 10},
		{Title: "Managed", Width: 9},
		{Title: "Capabilities", Width: 15},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorDeep).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorAccent).
		Background(ColorDeep).
		Bold(false)
	t.SetStyles(s)

	return Model{
		Backend: backend,
		Table:   t,
		stream:  stream,
	}
}

// Init loads the device list and starts listening for events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchDevices(), m.waitForEvent())
}

func (m Model) fetchDevices() tea.Cmd {
	return func() tea.Msg {
		devs, err := m.Backend.Devices()
		if err != nil {
			return errMsg{err}
		}
		return devicesMsg(devs)
	}
}

func (m Model) waitForEvent() tea.Cmd {
	if m.stream == nil {
		return nil
	}
	ch := m.stream
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

// selected returns the device under the cursor.
func (m Model) selected() (device.Info, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Devices) {
		return device.Info{}, false
	}
	return m.Devices[i], true
}

func (m Model) toggleManaged(d device.Info) tea.Cmd {
	return func() tea.Msg {
		info, err := m.Backend.SetManaged(d.Name, !d.Managed)
		if err != nil {
			return errMsg{err}
		}
		if info.Managed {
			return statusMsg(d.Name + " is now managed")
		}
		return statusMsg(d.Name + " is now unmanaged")
	}
}

func (m Model) generateProfile(d device.Info) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.Backend.GenerateProfile(d.Name)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("generated profile %s (%s) for %s", doc.Connection.ID, doc.Connection.UUID, d.Name))
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetchDevices()
		case "m":
			if d, ok := m.selected(); ok {
				return m, tea.Sequence(m.toggleManaged(d), m.fetchDevices())
			}
			return m, nil
		case "g":
			if d, ok := m.selected(); ok {
				return m, m.generateProfile(d)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if h := msg.Height - maxEvents - 10; h > 3 {
			m.Table.SetHeight(h)
		}
		return m, nil

	case devicesMsg:
		m.Devices = msg
		m.Err = nil
		rows := make([]table.Row, len(msg))
		for i, d := range msg {
			managed := "no"
			if d.Managed {
				managed = "yes"
			}
			rows[i] = table.Row{
				d.Name,
				fmt.Sprint(d.Ifindex),
				d.Kind,
				d.TypeDescription,
				d.State,
				managed,
				strings.Join(d.Capabilities, ","),
			}
		}
		m.Table.SetRows(rows)
		return m, nil

	case statusMsg:
		m.Status = string(msg)
		m.Err = nil
		return m, nil

	case errMsg:
		m.Err = msg.err
		return m, nil

	case eventMsg:
		m.Events = append(m.Events, formatEvent(client.Event(msg)))
		if len(m.Events) > maxEvents {
			m.Events = m.Events[len(m.Events)-maxEvents:]
		}
		cmds := []tea.Cmd{m.waitForEvent()}
		if strings.HasPrefix(string(msg.Type), "device.") {
			cmds = append(cmds, m.fetchDevices())
		}
		return m, tea.Batch(cmds...)

	case streamClosedMsg:
		m.Status = "event stream closed"
		m.stream = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

// View renders the monitor.
func (m Model) View() string {
	var footer string
	switch {
	case m.Err != nil:
		footer = StyleStatusBad.Render("error: " + m.Err.Error())
	case m.Status != "":
		footer = StyleStatusGood.Render(m.Status)
	default:
		footer = StyleSubtitle.Render(fmt.Sprintf("%d devices", len(m.Devices)))
	}

	ticker := StyleMuted.Render("no events yet")
	if len(m.Events) > 0 {
		ticker = strings.Join(m.Events, "\n")
	}

	return StyleApp.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleHeader.Render("DEVICES (r: refresh, m: toggle managed, g: generate profile, q: quit)"),
		StyleCard.Render(m.Table.View()),
		footer,
		"",
		StyleTitle.Render("Events"),
		ticker,
	))
}

// formatEvent renders one event as a ticker line.
func formatEvent(e client.Event) string {
	ts := e.Timestamp.Local().Format(time.TimeOnly)
	prefix := StyleMuted.Render("["+ts+"]") + " "

	switch e.Type {
	case events.EventDeviceAdded, events.EventDeviceRealized, events.EventDeviceRemoved, events.EventDeviceManaged:
		d, err := e.DeviceData()
		if err != nil {
			break
		}
		return prefix + fmt.Sprintf("%s %s (%s, ifindex %d) %s", e.Type, d.Name, d.Kind, d.Ifindex, ManagedLabel(d.Managed))

	case events.EventDeviceProperty:
		p, err := e.PropertyData()
		if err != nil {
			break
		}
		return prefix + fmt.Sprintf("%s %s.%s = %q", e.Type, p.Device, p.Property, p.Value)

	case events.EventProfileUnavailable:
		p, err := e.ProfileData()
		if err != nil {
			break
		}
		return prefix + StyleStatusWarn.Render(fmt.Sprintf("%s %s on %s: %s", e.Type, p.ID, p.Device, p.Reason))

	case events.EventProfileCompatible, events.EventProfileUpdated:
		p, err := e.ProfileData()
		if err != nil {
			break
		}
		return prefix + fmt.Sprintf("%s %s on %s", e.Type, p.ID, p.Device)
	}
	return prefix + string(e.Type)
}
