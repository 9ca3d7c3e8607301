package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"grimm.is/netdevd/internal/device"
)

func styledTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorDeep)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTableHeader
			}
			return StyleTableCell
		})
}

// RenderDevices renders a static device table for "netdevd show".
func RenderDevices(infos []device.Info) string {
	t := styledTable().Headers("DEVICE", "INDEX", "KIND", "TYPE", "STATE", "MANAGED", "CAPABILITIES")
	for _, d := range infos {
		kind := d.Kind
		if d.PluginMissing {
			kind += " (plugin missing)"
		}
		caps := strings.Join(d.Capabilities, ",")
		if caps == "" {
			caps = "none"
		}
		managed := "no"
		if d.Managed {
			managed = "yes"
		}
		t.Row(d.Name, fmt.Sprint(d.Ifindex), kind, d.TypeDescription, d.State, managed, caps)
	}
	return t.String()
}

// RenderProperties renders one device's published properties, sorted by
// name.
func RenderProperties(info device.Info) string {
	names := make([]string, 0, len(info.Properties))
	for k := range info.Properties {
		names = append(names, k)
	}
	sort.Strings(names)

	t := styledTable().Headers("PROPERTY", "VALUE")
	for _, k := range names {
		t.Row(k, info.Properties[k])
	}
	return StyleTitle.Render(info.Name) + "\n" + t.String()
}
