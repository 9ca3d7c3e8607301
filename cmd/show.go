package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"grimm.is/netdevd/internal/client"
	"grimm.is/netdevd/internal/tui"
)

// RunShow prints the devices known to a running daemon. With a device
// name it prints that device's published properties instead.
func RunShow(addr, name string, asJSON bool) error {
	return runShow(os.Stdout, client.NewHTTPClient(addr), name, asJSON)
}

func runShow(w io.Writer, c *client.HTTPClient, name string, asJSON bool) error {
	if name != "" {
		info, err := c.Device(name)
		if err != nil {
			return fmt.Errorf("failed to fetch device: %w", err)
		}
		if asJSON {
			return writeJSON(w, info)
		}
		Printer.Fprintln(w, tui.RenderProperties(*info))
		return nil
	}

	infos, err := c.Devices()
	if err != nil {
		return fmt.Errorf("failed to fetch devices: %w", err)
	}
	if asJSON {
		return writeJSON(w, infos)
	}
	if len(infos) == 0 {
		Printer.Fprintln(w, "No devices.")
		return nil
	}
	Printer.Fprintln(w, tui.RenderDevices(infos))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
