// Package cmd implements the netdevd subcommands.
package cmd

import (
	"fmt"
	"os"

	"grimm.is/netdevd/internal/brand"
	"grimm.is/netdevd/internal/config"
	"grimm.is/netdevd/internal/i18n"
	"grimm.is/netdevd/internal/logging"
)

// Printer is the global message printer for the CLI
var Printer = i18n.NewCLIPrinter()

// loadConfig reads the daemon config. A missing file at the default path
// yields the defaults; an explicitly named file must exist.
func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		configFile = brand.DefaultConfigPath()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if configFile == brand.DefaultConfigPath() {
			return config.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("configuration file not found: %s", configFile)
	}
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the default logger described by cfg.
func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.JSON = cfg.LogJSON
	logger := logging.New(logCfg)
	logging.SetDefault(logger)
	return logger, nil
}
