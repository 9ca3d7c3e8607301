package cmd

import (
	"fmt"
	"io"
	"os"

	"grimm.is/netdevd/internal/brand"
	"grimm.is/netdevd/internal/config"
)

// RunCheck validates the configuration file syntax and semantics.
func RunCheck(configFile string, verbose bool) error {
	return runCheck(os.Stdout, configFile, verbose)
}

func runCheck(w io.Writer, configFile string, verbose bool) error {
	if configFile == "" {
		return fmt.Errorf("usage: %s check [-v] <config-file>", brand.Name)
	}

	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	Printer.Fprintf(w, "Configuration valid!\n")
	Printer.Fprintf(w, "Schema Version: %s\n", cfg.SchemaVersion)
	Printer.Fprintf(w, "Device overrides: %d\n", len(cfg.Devices))

	if verbose {
		Printer.Fprintf(w, "Profile directory: %s\n", cfg.ProfileDir)
		Printer.Fprintf(w, "State database: %s\n", cfg.StateDB)
		if cfg.Netns != "" {
			Printer.Fprintf(w, "Network namespace: %s\n", cfg.Netns)
		}
		if len(cfg.DisabledKinds) > 0 {
			Printer.Fprintf(w, "Disabled kinds: %v\n", cfg.DisabledKinds)
		}
		if cfg.API.Disabled {
			Printer.Fprintf(w, "API: disabled\n")
		} else {
			Printer.Fprintf(w, "API: %s\n", cfg.API.Listen)
		}
		for _, d := range cfg.Devices {
			Printer.Fprintf(w, "  device %s: managed=%t generate_profile=%t\n", d.Name, d.Managed, d.GenerateProfile)
		}
	}
	return nil
}
